package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresErrorClassifier implements [ErrorClassificator] for the pgx driver.
type PostgresErrorClassifier struct{}

func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify implements [ErrorClassificator]. Errors that do not come from the
// server (nil, network errors before a response, plain errors) are
// [NonRetryable].
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	var pgErr *pgconn.PgError
	if err == nil || !errors.As(err, &pgErr) {
		return NonRetryable
	}
	return classifyPgCode(pgErr.Code)
}

// classifyPgCode classifies a SQLSTATE code:
//   - 23505 unique_violation is [UniqueViolation];
//   - class 08 (connection exception) and class 40 (transaction rollback,
//     which covers serialization failures and deadlocks) are [Retryable];
//   - 57P01 admin_shutdown and 57P03 cannot_connect_now are [Retryable],
//     the rest of class 57 (query_canceled among them) is not.
func classifyPgCode(code string) ErrorClassification {
	switch {
	case code == pgerrcode.UniqueViolation:
		return UniqueViolation
	case pgerrcode.IsConnectionException(code), pgerrcode.IsTransactionRollback(code):
		return Retryable
	case code == pgerrcode.AdminShutdown, code == pgerrcode.CannotConnectNow:
		return Retryable
	default:
		return NonRetryable
	}
}
