// Package postgres implements store.Store on PostgreSQL, keeping each
// collection as a table of JSONB documents keyed by ULID.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/oklog/ulid/v2"

	"github.com/pawmart/pawmart/internal/model"
	"github.com/pawmart/pawmart/internal/store"
)

var _ store.Store = (*Store)(nil)

// uniqueViolation is the PostgreSQL error code for unique_violation.
const uniqueViolation = "23505"

// Store is a PostgreSQL-backed document store.
type Store struct {
	db *sql.DB
}

// New opens a connection pool, verifies it and applies migrations.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Connection pool settings
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)

	// Verify connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// NewWithDB wraps an already opened pool. Migrations are not applied.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Collection returns the table-backed collection with the given name.
func (s *Store) Collection(name string) store.Collection {
	return &Collection{
		db:    s.db,
		name:  name,
		table: pgx.Identifier{name}.Sanitize(),
	}
}

// ParseID accepts ULID identifiers.
func (s *Store) ParseID(raw string) (any, error) {
	id, err := ulid.ParseStrict(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", store.ErrInvalidID, raw)
	}
	return id.String(), nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection pool.
func (s *Store) Close(ctx context.Context) error {
	return s.db.Close()
}

// Collection is a single JSONB document table.
type Collection struct {
	db    *sql.DB
	name  string
	table string
}

// Find returns all matching documents.
func (c *Collection) Find(ctx context.Context, filter store.Filter, opts store.FindOptions) ([]model.Document, error) {
	var q query
	where, err := q.where(filter)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT id, doc FROM " + c.table + where)
	if opts.Sort != nil {
		dir := "ASC"
		if opts.Sort.Direction == store.Descending {
			dir = "DESC"
		}
		sb.WriteString(" ORDER BY doc ->> " + q.arg(opts.Sort.Field) + "::text " + dir)
	}
	if opts.Limit > 0 {
		sb.WriteString(" LIMIT " + q.arg(opts.Limit))
	}

	rows, err := c.db.QueryContext(ctx, sb.String(), q.args...)
	if err != nil {
		return nil, unavailable("find "+c.name, err)
	}
	defer rows.Close()

	docs := make([]model.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, unavailable("scan "+c.name, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("find "+c.name, err)
	}

	return docs, nil
}

// FindOne returns the first matching document.
func (c *Collection) FindOne(ctx context.Context, filter store.Filter) (model.Document, error) {
	var q query
	where, err := q.where(filter)
	if err != nil {
		return nil, err
	}

	row := c.db.QueryRowContext(ctx, "SELECT id, doc FROM "+c.table+where+" LIMIT 1", q.args...)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, unavailable("find one "+c.name, err)
	}
	return doc, nil
}

// InsertOne stores doc under a freshly generated ULID.
func (c *Collection) InsertOne(ctx context.Context, doc model.Document) (*store.InsertResult, error) {
	body, err := json.Marshal(doc.Without(model.FieldID))
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	id := ulid.Make().String()
	_, err = c.db.ExecContext(ctx,
		"INSERT INTO "+c.table+" (id, doc) VALUES ($1, $2::jsonb)",
		id, string(body),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", store.ErrDuplicate, c.name)
		}
		return nil, unavailable("insert "+c.name, err)
	}

	return &store.InsertResult{InsertedID: id}, nil
}

// UpdateOne merges set into the first matching document.
func (c *Collection) UpdateOne(ctx context.Context, filter store.Filter, set model.Document) (*store.UpdateResult, error) {
	var q query
	where, err := q.where(filter)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(set.Without(model.FieldID))
	if err != nil {
		return nil, fmt.Errorf("encode update: %w", err)
	}

	stmt := "WITH target AS (SELECT id, doc FROM " + c.table + where + " LIMIT 1 FOR UPDATE) " +
		"UPDATE " + c.table + " AS t SET doc = t.doc || " + q.arg(string(body)) + "::jsonb " +
		"FROM target WHERE t.id = target.id " +
		"RETURNING target.doc IS DISTINCT FROM t.doc"

	var modified bool
	if err := c.db.QueryRowContext(ctx, stmt, q.args...).Scan(&modified); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &store.UpdateResult{}, nil
		}
		return nil, unavailable("update "+c.name, err)
	}

	res := &store.UpdateResult{MatchedCount: 1}
	if modified {
		res.ModifiedCount = 1
	}
	return res, nil
}

// DeleteOne removes the first matching document.
func (c *Collection) DeleteOne(ctx context.Context, filter store.Filter) (*store.DeleteResult, error) {
	var q query
	where, err := q.where(filter)
	if err != nil {
		return nil, err
	}

	stmt := "DELETE FROM " + c.table + " WHERE id = (SELECT id FROM " + c.table + where + " LIMIT 1)"
	res, err := c.db.ExecContext(ctx, stmt, q.args...)
	if err != nil {
		return nil, unavailable("delete "+c.name, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, unavailable("delete "+c.name, err)
	}
	return &store.DeleteResult{DeletedCount: n}, nil
}

// query accumulates positional arguments.
type query struct {
	args []any
}

func (q *query) arg(v any) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

// where renders the filter: the identifier compares against the id column,
// every other field is matched by JSONB containment.
func (q *query) where(filter store.Filter) (string, error) {
	var conds []string

	fields := make(map[string]any, len(filter))
	for k, v := range filter {
		if k == model.FieldID {
			conds = append(conds, "id = "+q.arg(v))
			continue
		}
		fields[k] = v
	}

	if len(fields) > 0 {
		body, err := json.Marshal(fields)
		if err != nil {
			return "", fmt.Errorf("encode filter: %w", err)
		}
		conds = append(conds, "doc @> "+q.arg(string(body))+"::jsonb")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (model.Document, error) {
	var (
		id  string
		raw []byte
	)
	if err := row.Scan(&id, &raw); err != nil {
		return nil, err
	}

	doc := model.Document{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	doc[model.FieldID] = id
	return doc, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", store.ErrUnavailable, op, err)
}
