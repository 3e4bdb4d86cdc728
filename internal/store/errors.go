package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrObjectNotFound is returned when no object exists with the requested id.
	ErrObjectNotFound = errors.New("object was not found")

	// ErrSynchronizationNotFound is returned when no synchronization record
	// links the requested object and source.
	ErrSynchronizationNotFound = errors.New("synchronization was not found")

	// ErrSynchronizationExists is returned when a second record is created
	// for an (object, source) pair that already has one.
	ErrSynchronizationExists = errors.New("synchronization already exists for object and source")

	// ErrUnsupportedFilter is returned when a predicate combines a field and
	// an operator the store cannot translate to SQL.
	ErrUnsupportedFilter = errors.New("unsupported filter predicate")

	// ErrUnsupportedDialect is returned when the configured SQL dialect is
	// neither SQLite nor PostgreSQL.
	ErrUnsupportedDialect = errors.New("unsupported database dialect")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrEncodingData is returned when object data cannot be serialized to
	// or deserialized from its JSON column.
	ErrEncodingData = errors.New("failed to encode object data")
)
