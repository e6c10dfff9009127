// Postgres implementation of the mapping store. Every public
// operation dials its own connection, runs its statements in one
// transaction, and releases the connection on every path; no pooling
// and no shared state between calls.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/avdcouto/photoapp/internal/shorten"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS links (
	short_url varchar(255) PRIMARY KEY,
	long_url varchar(2048) NOT NULL,
	lookup_count bigint NOT NULL DEFAULT 0 CHECK (lookup_count >= 0)
)`

const (
	selectLongURLSQL = "SELECT long_url FROM links WHERE short_url = $1"
	selectCountSQL   = "SELECT lookup_count FROM links WHERE short_url = $1"
	updateCountSQL   = "UPDATE links SET lookup_count = lookup_count + 1 WHERE short_url = $1"
	insertSQL        = "INSERT INTO links (short_url, long_url, lookup_count) VALUES ($1, $2, 0)"
	deleteAllSQL     = "DELETE FROM links"
)

// Tx is the transaction surface the store needs; pgx.Tx satisfies it.
type Tx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Conn is one dialed connection. The production implementation wraps
// *pgx.Conn; tests substitute fakes to drive failure paths.
type Conn interface {
	Begin(ctx context.Context) (Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type pgxConn struct {
	*pgx.Conn
}

func (c pgxConn) Begin(ctx context.Context) (Tx, error) {
	return c.Conn.Begin(ctx)
}

type Store struct {
	dial   func(ctx context.Context) (Conn, error)
	logger *zap.SugaredLogger
}

// NewStore dials once to create the links table, then returns a store
// that opens a fresh connection per operation.
func NewStore(ctx context.Context, dsn string, logger *zap.SugaredLogger) (*Store, error) {
	s := &Store{
		dial: func(ctx context.Context) (Conn, error) {
			conn, err := pgx.Connect(ctx, dsn)
			if err != nil {
				return nil, fmt.Errorf("error connecting to postgres: %w", err)
			}
			return pgxConn{Conn: conn}, nil
		},
		logger: logger,
	}

	if err := s.createTable(ctx); err != nil {
		return nil, fmt.Errorf("error creating links table: %w", err)
	}

	return s, nil
}

func (s *Store) createTable(ctx context.Context) error {
	conn, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close(ctx) }()

	_, err = conn.Exec(ctx, createTableSQL)
	return err
}

// Lookup increments the counter and reads the long URL in one
// transaction: either both commit or neither does.
func (s *Store) Lookup(ctx context.Context, shortURL string) string {
	conn, err := s.dial(ctx)
	if err != nil {
		s.logger.Errorf("lookup %q: %v", shortURL, err)
		return ""
	}
	defer func() { _ = conn.Close(ctx) }()

	tx, err := conn.Begin(ctx)
	if err != nil {
		s.logger.Errorf("lookup %q: begin: %v", shortURL, err)
		return ""
	}

	if _, err := tx.Exec(ctx, updateCountSQL, shortURL); err != nil {
		_ = tx.Rollback(ctx)
		s.logger.Errorf("lookup %q: incrementing count: %v", shortURL, err)
		return ""
	}

	var longURL string
	err = tx.QueryRow(ctx, selectLongURLSQL, shortURL).Scan(&longURL)
	if errors.Is(err, pgx.ErrNoRows) {
		// Absent key: the update matched nothing, committing is a no-op.
		_ = tx.Commit(ctx)
		return ""
	}
	if err != nil {
		_ = tx.Rollback(ctx)
		s.logger.Errorf("lookup %q: reading long url: %v", shortURL, err)
		return ""
	}

	if err := tx.Commit(ctx); err != nil {
		s.logger.Errorf("lookup %q: commit: %v", shortURL, err)
		return ""
	}
	return longURL
}

func (s *Store) Stats(ctx context.Context, shortURL string) int64 {
	conn, err := s.dial(ctx)
	if err != nil {
		s.logger.Errorf("stats %q: %v", shortURL, err)
		return shorten.StatsNotFound
	}
	defer func() { _ = conn.Close(ctx) }()

	var count int64
	err = conn.QueryRow(ctx, selectCountSQL, shortURL).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return shorten.StatsNotFound
	}
	if err != nil {
		s.logger.Errorf("stats %q: %v", shortURL, err)
		return shorten.StatsNotFound
	}
	return count
}

// Put checks for an existing mapping before inserting. The two
// read-only outcomes (identical mapping, key taken) commit as well;
// only a database failure rolls back.
func (s *Store) Put(ctx context.Context, shortURL, longURL string) bool {
	conn, err := s.dial(ctx)
	if err != nil {
		s.logger.Errorf("put %q: %v", shortURL, err)
		return false
	}
	defer func() { _ = conn.Close(ctx) }()

	tx, err := conn.Begin(ctx)
	if err != nil {
		s.logger.Errorf("put %q: begin: %v", shortURL, err)
		return false
	}

	var existing string
	err = tx.QueryRow(ctx, selectLongURLSQL, shortURL).Scan(&existing)
	switch {
	case err == nil:
		if err := tx.Commit(ctx); err != nil {
			s.logger.Errorf("put %q: commit: %v", shortURL, err)
			return false
		}
		return existing == longURL

	case errors.Is(err, pgx.ErrNoRows):
		if _, err := tx.Exec(ctx, insertSQL, shortURL, longURL); err != nil {
			_ = tx.Rollback(ctx)
			s.logger.Errorf("put %q: insert: %v", shortURL, err)
			return false
		}
		if err := tx.Commit(ctx); err != nil {
			s.logger.Errorf("put %q: commit: %v", shortURL, err)
			return false
		}
		return true

	default:
		_ = tx.Rollback(ctx)
		s.logger.Errorf("put %q: checking existing: %v", shortURL, err)
		return false
	}
}

func (s *Store) Reset(ctx context.Context) bool {
	conn, err := s.dial(ctx)
	if err != nil {
		s.logger.Errorf("reset: %v", err)
		return false
	}
	defer func() { _ = conn.Close(ctx) }()

	tx, err := conn.Begin(ctx)
	if err != nil {
		s.logger.Errorf("reset: begin: %v", err)
		return false
	}

	if _, err := tx.Exec(ctx, deleteAllSQL); err != nil {
		_ = tx.Rollback(ctx)
		s.logger.Errorf("reset: delete: %v", err)
		return false
	}

	if err := tx.Commit(ctx); err != nil {
		s.logger.Errorf("reset: commit: %v", err)
		return false
	}
	return true
}

func (s *Store) Ping(ctx context.Context) error {
	conn, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close(ctx) }()

	return conn.Ping(ctx)
}

var _ shorten.Store = (*Store)(nil)
