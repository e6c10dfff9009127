package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avdcouto/photoapp/internal/shorten"
)

var errDB = errors.New("connection reset by peer")

type fakeRow struct {
	value any
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	switch d := dest[0].(type) {
	case *string:
		*d = r.value.(string)
	case *int64:
		*d = r.value.(int64)
	}
	return nil
}

type fakeTx struct {
	row       fakeRow
	execErr   error
	commitErr error

	execs      []string
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.execs = append(t.execs, sql)
	return pgconn.CommandTag{}, t.execErr
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.row
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeConn struct {
	tx       *fakeTx
	beginErr error
	row      fakeRow
	pingErr  error
	closed   bool
}

func (c *fakeConn) Begin(ctx context.Context) (Tx, error) {
	if c.beginErr != nil {
		return nil, c.beginErr
	}
	return c.tx, nil
}

func (c *fakeConn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return c.row
}

func (c *fakeConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (c *fakeConn) Ping(ctx context.Context) error {
	return c.pingErr
}

func (c *fakeConn) Close(ctx context.Context) error {
	c.closed = true
	return nil
}

func newTestStore(conn *fakeConn) *Store {
	return &Store{
		dial: func(ctx context.Context) (Conn, error) {
			return conn, nil
		},
		logger: zap.NewNop().Sugar(),
	}
}

func newFailingDialStore() *Store {
	return &Store{
		dial: func(ctx context.Context) (Conn, error) {
			return nil, errDB
		},
		logger: zap.NewNop().Sugar(),
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name         string
		tx           *fakeTx
		beginErr     error
		want         string
		wantCommit   bool
		wantRollback bool
	}{
		{
			name:       "hit increments and commits",
			tx:         &fakeTx{row: fakeRow{value: "http://example.com"}},
			want:       "http://example.com",
			wantCommit: true,
		},
		{
			name:       "absent key commits the no-op",
			tx:         &fakeTx{row: fakeRow{err: pgx.ErrNoRows}},
			want:       "",
			wantCommit: true,
		},
		{
			name:         "select failure rolls back the increment",
			tx:           &fakeTx{row: fakeRow{err: errDB}},
			want:         "",
			wantRollback: true,
		},
		{
			name:         "update failure rolls back",
			tx:           &fakeTx{execErr: errDB, row: fakeRow{value: "http://example.com"}},
			want:         "",
			wantRollback: true,
		},
		{
			name:     "begin failure",
			tx:       &fakeTx{},
			beginErr: errDB,
			want:     "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			conn := &fakeConn{tx: tt.tx, beginErr: tt.beginErr}
			s := newTestStore(conn)

			got := s.Lookup(context.Background(), "abc")

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCommit, tt.tx.committed)
			assert.Equal(t, tt.wantRollback, tt.tx.rolledBack)
			assert.True(t, conn.closed, "connection must be released on every path")
			if tt.wantCommit && tt.want != "" {
				require.NotEmpty(t, tt.tx.execs)
				assert.Equal(t, updateCountSQL, tt.tx.execs[0],
					"counter increment must happen before the read in the same transaction")
			}
		})
	}
}

func TestPut(t *testing.T) {
	tests := []struct {
		name         string
		tx           *fakeTx
		want         bool
		wantInsert   bool
		wantCommit   bool
		wantRollback bool
	}{
		{
			name:       "absent key inserts and commits",
			tx:         &fakeTx{row: fakeRow{err: pgx.ErrNoRows}},
			want:       true,
			wantInsert: true,
			wantCommit: true,
		},
		{
			name:       "identical mapping is an idempotent no-op",
			tx:         &fakeTx{row: fakeRow{value: "http://example.com"}},
			want:       true,
			wantCommit: true,
		},
		{
			name:       "taken key leaves the row unchanged",
			tx:         &fakeTx{row: fakeRow{value: "http://other.com"}},
			want:       false,
			wantCommit: true,
		},
		{
			name:         "insert failure rolls back",
			tx:           &fakeTx{row: fakeRow{err: pgx.ErrNoRows}, execErr: errDB},
			want:         false,
			wantRollback: true,
		},
		{
			name:         "existence check failure rolls back",
			tx:           &fakeTx{row: fakeRow{err: errDB}},
			want:         false,
			wantRollback: true,
		},
		{
			name:       "commit failure reports failure",
			tx:         &fakeTx{row: fakeRow{err: pgx.ErrNoRows}, commitErr: errDB},
			want:       false,
			wantInsert: true,
			wantCommit: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			conn := &fakeConn{tx: tt.tx}
			s := newTestStore(conn)

			got := s.Put(context.Background(), "abc", "http://example.com")

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCommit, tt.tx.committed)
			assert.Equal(t, tt.wantRollback, tt.tx.rolledBack)
			assert.True(t, conn.closed)

			if tt.wantInsert {
				require.Len(t, tt.tx.execs, 1)
				assert.Equal(t, insertSQL, tt.tx.execs[0])
			} else {
				assert.Empty(t, tt.tx.execs, "read-only outcomes must not write")
			}
		})
	}
}

func TestReset(t *testing.T) {
	tests := []struct {
		name         string
		tx           *fakeTx
		want         bool
		wantRollback bool
	}{
		{
			name: "deletes everything in one transaction",
			tx:   &fakeTx{},
			want: true,
		},
		{
			name:         "delete failure rolls back",
			tx:           &fakeTx{execErr: errDB},
			want:         false,
			wantRollback: true,
		},
		{
			name: "commit failure reports failure",
			tx:   &fakeTx{commitErr: errDB},
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			conn := &fakeConn{tx: tt.tx}
			s := newTestStore(conn)

			got := s.Reset(context.Background())

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantRollback, tt.tx.rolledBack)
			assert.True(t, conn.closed)
			require.NotEmpty(t, tt.tx.execs)
			assert.Equal(t, deleteAllSQL, tt.tx.execs[0])
		})
	}
}

func TestStats(t *testing.T) {
	tests := []struct {
		name string
		row  fakeRow
		want int64
	}{
		{name: "existing key", row: fakeRow{value: int64(3)}, want: 3},
		{name: "absent key", row: fakeRow{err: pgx.ErrNoRows}, want: shorten.StatsNotFound},
		{name: "query failure", row: fakeRow{err: errDB}, want: shorten.StatsNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			conn := &fakeConn{row: tt.row}
			s := newTestStore(conn)

			assert.Equal(t, tt.want, s.Stats(context.Background(), "abc"))
			assert.True(t, conn.closed)
		})
	}
}

func TestDialFailureIsAbsorbed(t *testing.T) {
	s := newFailingDialStore()
	ctx := context.Background()

	assert.Equal(t, "", s.Lookup(ctx, "abc"))
	assert.Equal(t, shorten.StatsNotFound, s.Stats(ctx, "abc"))
	assert.False(t, s.Put(ctx, "abc", "http://example.com"))
	assert.False(t, s.Reset(ctx))
	assert.ErrorIs(t, s.Ping(ctx), errDB)
}

func TestPing(t *testing.T) {
	conn := &fakeConn{pingErr: errDB}
	s := newTestStore(conn)
	assert.ErrorIs(t, s.Ping(context.Background()), errDB)
	assert.True(t, conn.closed)

	conn = &fakeConn{}
	s = newTestStore(conn)
	assert.NoError(t, s.Ping(context.Background()))
}
