package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"filmart-backend-go/internal/db"
	"filmart-backend-go/internal/migrations"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

// PostgresBackend keeps each collection in a table of (id, doc JSONB,
// created_at, updated_at). Tables and unique indexes come from the embedded
// migrations.
type PostgresBackend struct {
	db *sqlx.DB
}

func OpenPostgres(ctx context.Context, dsn string) (*PostgresBackend, error) {
	conn, err := db.OpenPostgres(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	return &PostgresBackend{db: conn}, nil
}

func (b *PostgresBackend) Name() string { return "postgres" }

func (b *PostgresBackend) Ping(ctx context.Context) error { return b.db.PingContext(ctx) }

func (b *PostgresBackend) Close(context.Context) error { return b.db.Close() }

func (b *PostgresBackend) Prepare(ctx context.Context, _ ...Spec) error {
	return migrations.Apply(ctx, b.db)
}

func (b *PostgresBackend) collection(spec Spec) driver {
	return &pgCollection{spec: spec, db: b.db}
}

type pgCollection struct {
	spec Spec
	db   *sqlx.DB
}

type pgRow struct {
	ID  string `db:"id"`
	Doc []byte `db:"doc"`
}

func (c *pgCollection) find(ctx context.Context, q Query, each decodeFunc) error {
	where, args := pgWhere(c.spec, q)
	query := "SELECT id, doc FROM " + c.spec.Name + where + pgOrder(c.spec, q.Sort)
	rows, err := c.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var row pgRow
		if err := rows.StructScan(&row); err != nil {
			return err
		}
		if err := each(row.ID, func(dst any) error { return json.Unmarshal(row.Doc, dst) }); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (c *pgCollection) get(ctx context.Context, id string, dst any) (bool, error) {
	var row pgRow
	err := c.db.GetContext(ctx, &row, "SELECT id, doc FROM "+c.spec.Name+" WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(row.Doc, dst)
}

func (c *pgCollection) insert(ctx context.Context, doc any) (string, error) {
	body, created, updated, err := pgDocument(doc)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = c.db.ExecContext(ctx,
		"INSERT INTO "+c.spec.Name+" (id, doc, created_at, updated_at) VALUES ($1, $2, $3, $4)",
		id, body, created, updated)
	if err != nil {
		return "", c.translate(err)
	}
	return id, nil
}

func (c *pgCollection) replace(ctx context.Context, id string, doc any) (bool, error) {
	body, _, updated, err := pgDocument(doc)
	if err != nil {
		return false, err
	}
	res, err := c.db.ExecContext(ctx,
		"UPDATE "+c.spec.Name+" SET doc = $2, updated_at = $3 WHERE id = $1",
		id, body, updated)
	if err != nil {
		return false, c.translate(err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (c *pgCollection) delete(ctx context.Context, id string) (bool, error) {
	res, err := c.db.ExecContext(ctx, "DELETE FROM "+c.spec.Name+" WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (c *pgCollection) count(ctx context.Context, q Query) (int64, error) {
	where, args := pgWhere(c.spec, q)
	var n int64
	err := c.db.GetContext(ctx, &n, "SELECT count(*) FROM "+c.spec.Name+where, args...)
	return n, err
}

func (c *pgCollection) countBy(ctx context.Context, field string) ([]GroupCount, error) {
	expr := "doc->" + pgLiteral(field)
	rows, err := c.db.QueryxContext(ctx,
		"SELECT "+expr+" AS k, count(*) AS n FROM "+c.spec.Name+" GROUP BY 1 ORDER BY 1")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	groups := []GroupCount{}
	for rows.Next() {
		var (
			key []byte
			n   int64
		)
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		var value any
		if len(key) > 0 {
			if err := json.Unmarshal(key, &value); err != nil {
				return nil, err
			}
		}
		groups = append(groups, GroupCount{ID: value, Count: n})
	}
	return groups, rows.Err()
}

func (c *pgCollection) translate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	return &ConflictError{
		Collection: c.spec.Name,
		Field:      strings.TrimPrefix(pgErr.ConstraintName, "uq_"+c.spec.Name+"_"),
	}
}

func pgDocument(doc any) ([]byte, time.Time, time.Time, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, time.Time{}, time.Time{}, err
	}
	var stamps struct {
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}
	if err := json.Unmarshal(body, &stamps); err != nil {
		return nil, time.Time{}, time.Time{}, err
	}
	return body, stamps.CreatedAt, stamps.UpdatedAt, nil
}

var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// pgLiteral quotes a document key. Keys come from code, never from requests,
// so anything that is not a plain identifier is a programming error.
func pgLiteral(field string) string {
	if !fieldName.MatchString(field) {
		panic(fmt.Sprintf("store: invalid field name %q", field))
	}
	return "'" + field + "'"
}

func pgColumn(spec Spec, field string) (string, bool) {
	switch field {
	case "createdAt":
		return "created_at", true
	case "updatedAt":
		return "updated_at", true
	}
	if spec.isTime(field) {
		return "(doc->>" + pgLiteral(field) + ")::timestamptz", true
	}
	return "", false
}

func pgWhere(spec Spec, q Query) (string, []any) {
	args := []any{}
	clauses := make([]string, 0, len(q.Where)+1)
	for _, cond := range q.Where {
		clauses = append(clauses, pgCond(spec, cond, &args))
	}
	if len(q.AnyOf) > 0 {
		ors := make([]string, 0, len(q.AnyOf))
		for _, cond := range q.AnyOf {
			ors = append(ors, pgCond(spec, cond, &args))
		}
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func pgCond(spec Spec, cond Cond, args *[]any) string {
	placeholder := func(value any) string {
		*args = append(*args, value)
		return fmt.Sprintf("$%d", len(*args))
	}
	switch cond.Op {
	case OpContains:
		needle := "%" + escapeLike(fmt.Sprint(cond.Value)) + "%"
		return "doc->>" + pgLiteral(cond.Field) + " ILIKE " + placeholder(needle)
	case OpGte, OpLt:
		op := ">="
		if cond.Op == OpLt {
			op = "<"
		}
		if column, ok := pgColumn(spec, cond.Field); ok {
			return column + " " + op + " " + placeholder(cond.Value)
		}
		return "(doc->>" + pgLiteral(cond.Field) + ")::numeric " + op + " " + placeholder(cond.Value)
	default:
		if column, ok := pgColumn(spec, cond.Field); ok {
			return column + " = " + placeholder(cond.Value)
		}
		encoded, _ := json.Marshal(cond.Value)
		return "doc->" + pgLiteral(cond.Field) + " = " + placeholder(string(encoded)) + "::jsonb"
	}
}

func pgOrder(spec Spec, fields []SortField) string {
	if len(fields) == 0 {
		return " ORDER BY created_at"
	}
	parts := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		expr, ok := pgColumn(spec, f.Field)
		if !ok {
			expr = "doc->" + pgLiteral(f.Field)
		}
		if f.Desc {
			expr += " DESC"
		}
		parts = append(parts, expr)
	}
	parts = append(parts, "id")
	return " ORDER BY " + strings.Join(parts, ", ")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
