package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avo-labs/conversation-logger/internal/model"
)

// Postgres stores conversation records in a PostgreSQL table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to the database and ensures the schema exists.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, strings.TrimSpace(dsn))
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &Postgres{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS conversations (
			id BIGSERIAL PRIMARY KEY,
			user_name TEXT NOT NULL,
			conversation TEXT NOT NULL,
			sujet TEXT NULL,
			date_conversation TIMESTAMPTZ NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_date_id ON conversations (date_conversation DESC, id DESC);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

// Insert writes one record and returns the generated id.
func (s *Postgres) Insert(ctx context.Context, rec model.Record) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO conversations (user_name, conversation, sujet, date_conversation)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		rec.UserName,
		rec.Conversation,
		rec.Subject,
		rec.Date,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}
	return id, nil
}

// List returns matching records plus the total count for the same predicate.
func (s *Postgres) List(ctx context.Context, f ListFilter) ([]model.Record, int, error) {
	selectSQL, selectArgs, countSQL, countArgs := buildListQuery(f)

	rows, err := s.pool.Query(ctx, selectSQL, selectArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	out := make([]model.Record, 0, f.Limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan record row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate record rows: %w", err)
	}

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count records: %w", err)
	}
	return out, total, nil
}

// Get returns the record with the given id, scoped to a case-insensitive
// subject match when subject is non-nil.
func (s *Postgres) Get(ctx context.Context, id int64, subject *string) (model.Record, error) {
	query := "SELECT " + recordColumns + " FROM conversations WHERE id = $1"
	args := []any{id}
	if subject != nil {
		query += " AND LOWER(sujet) = $2"
		args = append(args, strings.ToLower(*subject))
	}

	rec, err := scanRecord(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Record{}, ErrNotFound
		}
		return model.Record{}, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// Ping verifies database connectivity.
func (s *Postgres) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Postgres) Close() {
	s.pool.Close()
}

func scanRecord(row pgx.Row) (model.Record, error) {
	var rec model.Record
	if err := row.Scan(
		&rec.ID,
		&rec.UserName,
		&rec.Subject,
		&rec.Date,
		&rec.Conversation,
	); err != nil {
		return model.Record{}, err
	}
	return rec, nil
}
