// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-case-sync/internal/config"
	"github.com/MKhiriev/go-case-sync/models"
)

// Static queries are written with `?` placeholders and rebound per dialect
// via [DB.rebind].
const (
	selectObjectByID = `SELECT id, schema_ref, data, created_at, updated_at
		FROM objects
		WHERE id = ?;`

	upsertObject = `INSERT INTO objects (id, schema_ref, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			schema_ref = excluded.schema_ref,
			data = excluded.data,
			updated_at = excluded.updated_at;`

	selectSynchronization = `SELECT id, source_id, object_id, entity, last_synced, source_last_changed, last_checked, hash
		FROM synchronizations
		WHERE object_id = ? AND source_id = ?;`

	listSynchronizations = `SELECT id, source_id, object_id, entity, last_synced, source_last_changed, last_checked, hash
		FROM synchronizations
		WHERE object_id = ?
		ORDER BY source_id;`

	updateSynchronization = `UPDATE synchronizations
		SET entity = ?, last_synced = ?, source_last_changed = ?, last_checked = ?, hash = ?
		WHERE id = ?;`

	insertSynchronization = `INSERT INTO synchronizations (
			id,
			source_id,
			object_id,
			entity,
			last_synced,
			source_last_changed,
			last_checked,
			hash
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?);`

	noSynchronizationExists = `NOT EXISTS (SELECT 1 FROM synchronizations s WHERE s.object_id = o.id)`
)

var objectColumns = []string{"o.id", "o.schema_ref", "o.data", "o.created_at", "o.updated_at"}

// fieldExpr is the SQL expression a filter field resolves to.
type fieldExpr struct {
	sql       string
	args      []any
	timestamp bool
	dataPath  bool
}

// buildSearchQueries translates filter into a page query and a count query
// sharing the same conditions.
func (db *DB) buildSearchQueries(filter models.Filter) (sq.SelectBuilder, sq.SelectBuilder, error) {
	conds := sq.And{}

	if len(filter.SchemaRefs) > 0 {
		conds = append(conds, sq.Eq{"o.schema_ref": filter.SchemaRefs})
	}

	for _, p := range filter.Predicates {
		cond, err := db.predicateSQL(p)
		if err != nil {
			return sq.SelectBuilder{}, sq.SelectBuilder{}, err
		}
		conds = append(conds, cond)
	}

	page := sq.Select(objectColumns...).
		From("objects o").
		OrderBy("o.created_at ASC", "o.id ASC").
		PlaceholderFormat(db.placeholder())
	count := sq.Select("COUNT(*)").
		From("objects o").
		PlaceholderFormat(db.placeholder())

	if len(conds) > 0 {
		page = page.Where(conds)
		count = count.Where(conds)
	}

	if filter.Limit > 0 {
		page = page.Limit(filter.Limit)
	}

	return page, count, nil
}

func (db *DB) predicateSQL(p models.Predicate) (sq.Sqlizer, error) {
	if p.Field == models.FieldSelfSynchronizations {
		if p.Operator != models.OpIsNull {
			return nil, fmt.Errorf("%w: %s %s", ErrUnsupportedFilter, p.Field, p.Operator)
		}
		return sq.Expr(noSynchronizationExists), nil
	}

	field := db.fieldExpr(p.Field)

	switch p.Operator {
	case models.OpIsNull:
		return sq.Expr(field.sql+" IS NULL", field.args...), nil

	case models.OpEqual:
		return sq.Expr(field.sql+" = ?", withArg(field.args, db.valueArg(field, p.Value))...), nil

	case models.OpLike:
		pattern := textValue(p.Value)
		if !strings.ContainsAny(pattern, "%_") {
			pattern = "%" + pattern + "%"
		}
		return sq.Expr(field.sql+" LIKE ?", withArg(field.args, pattern)...), nil

	case models.OpBefore:
		t, ok := p.Value.(time.Time)
		if !ok {
			return nil, fmt.Errorf("%w: %s before expects a time, got %T", ErrUnsupportedFilter, p.Field, p.Value)
		}
		var arg any = t.UTC().Format(models.TimestampLayout)
		if field.timestamp {
			arg = db.timeArg(t)
		}
		return sq.Expr(field.sql+" < ?", withArg(field.args, arg)...), nil

	case models.OpIn:
		values, err := listValues(p.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrUnsupportedFilter, p.Field, err)
		}
		if len(values) == 0 {
			return sq.Expr("1 = 0"), nil
		}
		args := append([]any{}, field.args...)
		for _, v := range values {
			args = append(args, db.valueArg(field, v))
		}
		return sq.Expr(fmt.Sprintf("%s IN (%s)", field.sql, sq.Placeholders(len(values))), args...), nil
	}

	return nil, fmt.Errorf("%w: operator %q", ErrUnsupportedFilter, p.Operator)
}

// fieldExpr maps reserved "_self" fields to columns and every other field
// to a JSON path lookup into the data column.
func (db *DB) fieldExpr(field string) fieldExpr {
	switch field {
	case models.FieldSelfID:
		return fieldExpr{sql: "o.id"}
	case models.FieldSelfSchemaRef:
		return fieldExpr{sql: "o.schema_ref"}
	case models.FieldSelfDateCreated:
		return fieldExpr{sql: "o.created_at", timestamp: true}
	case models.FieldSelfDateModified:
		return fieldExpr{sql: "o.updated_at", timestamp: true}
	}

	segments := strings.Split(field, ".")
	if db.dialect == config.DialectPostgres {
		quoted := make([]string, len(segments))
		for i, s := range segments {
			quoted[i] = `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
		}
		return fieldExpr{
			sql:      "o.data #>> ?::text[]",
			args:     []any{"{" + strings.Join(quoted, ",") + "}"},
			dataPath: true,
		}
	}

	path := new(strings.Builder)
	path.WriteString("$")
	for _, s := range segments {
		path.WriteString(`."`)
		path.WriteString(strings.ReplaceAll(s, `"`, `\"`))
		path.WriteString(`"`)
	}
	return fieldExpr{
		sql:      "json_extract(o.data, ?)",
		args:     []any{path.String()},
		dataPath: true,
	}
}

// valueArg converts a comparison value for field. PostgreSQL `#>>` yields
// text, so values are compared as text there; SQLite json_extract keeps
// JSON types and takes the value as is.
func (db *DB) valueArg(field fieldExpr, v any) any {
	if field.timestamp {
		if t, ok := v.(time.Time); ok {
			return db.timeArg(t)
		}
	}
	if field.dataPath && db.dialect != config.DialectPostgres {
		return v
	}
	return textValue(v)
}

func withArg(args []any, arg any) []any {
	out := make([]any, 0, len(args)+1)
	out = append(out, args...)
	return append(out, arg)
}

func textValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case fmt.Stringer:
		return value.String()
	default:
		return fmt.Sprint(value)
	}
}

func listValues(v any) ([]any, error) {
	switch values := v.(type) {
	case []any:
		return values, nil
	case []string:
		out := make([]any, len(values))
		for i, s := range values {
			out[i] = s
		}
		return out, nil
	case string:
		out := make([]any, 0)
		for _, s := range config.SplitList(values) {
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("in expects a list, got %T", v)
	}
}
