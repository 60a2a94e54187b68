// Package postgres provides Postgres-backed persistence implementations.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pageharvest/harvester/internal/crawler"
)

const schema = `
CREATE TABLE IF NOT EXISTS crawled_pages (
	id BIGSERIAL PRIMARY KEY,
	session_id UUID NOT NULL,
	url TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL DEFAULT '',
	depth INT NOT NULL DEFAULT 0,
	outcome TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS crawled_pages_session_idx ON crawled_pages (session_id, id);
`

// querier is the subset of pgxpool.Pool the store needs; pgxmock
// implements it for tests.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// PageStore implements crawler.ResultStore on Postgres.
type PageStore struct {
	pool querier
}

// NewPageStore connects a pool from the DSN.
func NewPageStore(ctx context.Context, dsn string) (*PageStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database.dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	return &PageStore{pool: pool}, nil
}

// NewPageStoreWithPool constructs a store from an existing pool
// (primarily for testing).
func NewPageStoreWithPool(pool querier) (*PageStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &PageStore{pool: pool}, nil
}

// EnsureSchema creates the crawled_pages table if it does not exist.
func (s *PageStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Close releases the underlying pool resources.
func (s *PageStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// Insert appends one crawl result. Called only by the persistence relay.
func (s *PageStore) Insert(ctx context.Context, res crawler.Result) error {
	query := `
INSERT INTO crawled_pages (session_id, url, title, content, depth, outcome, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.pool.Exec(ctx, query,
		res.SessionID,
		res.URL,
		res.Title,
		res.Content,
		res.Depth,
		string(res.Outcome),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert crawled page: %w", err)
	}
	return nil
}

// ListBySession returns every record persisted under sessionID in
// insertion order.
func (s *PageStore) ListBySession(ctx context.Context, sessionID string) ([]crawler.Record, error) {
	query := `
SELECT id, session_id, url, title, content, depth, outcome, created_at
FROM crawled_pages
WHERE session_id = $1
ORDER BY id`
	rows, err := s.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list session pages: %w", err)
	}
	defer rows.Close()

	var records []crawler.Record
	for rows.Next() {
		var rec crawler.Record
		var outcome string
		if err := rows.Scan(
			&rec.ID,
			&rec.SessionID,
			&rec.URL,
			&rec.Title,
			&rec.Content,
			&rec.Depth,
			&outcome,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan crawled page: %w", err)
		}
		rec.Outcome = crawler.Outcome(outcome)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate crawled pages: %w", err)
	}
	return records, nil
}
