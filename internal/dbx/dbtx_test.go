package dbx

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS ideas (id INTEGER PRIMARY KEY, title TEXT NOT NULL);`)
	require.NoError(t, err)
	return db
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM ideas`).Scan(&n))
	return n
}

func TestWithTx_CommitsBatch(t *testing.T) {
	db := setupDB(t)

	titles := []string{"kiln", "rain barrel", "compost"}
	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		for _, title := range titles {
			if _, err := tx.ExecContext(ctx, `INSERT INTO ideas(title) VALUES (?)`, title); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, len(titles), countRows(t, db))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO ideas(title) VALUES ('first')`)
		require.NoError(t, e)
		// NOT NULL violation halfway through the batch.
		_, e = tx.ExecContext(ctx, `INSERT INTO ideas(title) VALUES (NULL)`)
		return e
	})
	require.Error(t, err)
	assert.Zero(t, countRows(t, db))
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	db := setupDB(t)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
		assert.Zero(t, countRows(t, db))
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO ideas(title) VALUES ('half done')`)
		require.NoError(t, e)
		panic("kaput")
	})
}

func TestWithTx_BeginError(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())

	called := false
	err := WithTx(context.Background(), db, nil, func(context.Context, DBTX) error {
		called = true
		return nil
	})
	assert.False(t, called)
	require.Error(t, err)
}

func TestRebind(t *testing.T) {
	q := `SELECT id FROM ideas WHERE title LIKE '%' || ? || '%' OR folder = ? AND note = 'what?'`

	assert.Equal(t, q, SQLite.Rebind(q))
	assert.Equal(t,
		`SELECT id FROM ideas WHERE title LIKE '%' || $1 || '%' OR folder = $2 AND note = 'what?'`,
		Postgres.Rebind(q))
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    Dialect
		wantErr bool
	}{
		{in: "", want: SQLite},
		{in: "sqlite", want: SQLite},
		{in: "SQLite3", want: SQLite},
		{in: "postgres", want: Postgres},
		{in: "pgx", want: Postgres},
		{in: "mysql", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDialect(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "sqlite", SQLite.DriverName())
	assert.Equal(t, "pgx", Postgres.DriverName())
}
