// Package storage opens the journal database, applies the embedded schema
// migrations and wires the repositories on top of it.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/mindstitch/internal/dbx"
	"github.com/dmitrijs2005/mindstitch/internal/models"
	"github.com/dmitrijs2005/mindstitch/internal/repositories/ideas"
	"github.com/dmitrijs2005/mindstitch/internal/repositories/metadata"
	"github.com/dmitrijs2005/mindstitch/internal/repositories/todos"
	"github.com/dmitrijs2005/mindstitch/internal/storage/migrations"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "modernc.org/sqlite"             // registers "sqlite"
)

// goose keeps its FS and dialect in package state.
var gooseMu sync.Mutex

// Store bundles the database handle with its repositories.
type Store struct {
	DB       *sql.DB
	Dialect  dbx.Dialect
	Ideas    ideas.Repository
	Todos    todos.Repository
	Metadata metadata.Repository
}

func migrationDir(d dbx.Dialect) string {
	if d == dbx.Postgres {
		return "postgres"
	}
	return "sqlite"
}

// RunMigrations applies every pending migration for the dialect.
func RunMigrations(ctx context.Context, db *sql.DB, dialect dbx.Dialect) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.Migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(string(dialect)); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, migrationDir(dialect)); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Open connects using driver ("sqlite" or "postgres"), migrates the schema
// and returns a ready Store.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	dialect, err := dbx.ParseDialect(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dialect == dbx.SQLite {
		// one writer; also keeps :memory: databases on a single connection
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, err
	}

	return New(db, dialect), nil
}

// New wires repositories over an already migrated database.
func New(db *sql.DB, dialect dbx.Dialect) *Store {
	return &Store{
		DB:       db,
		Dialect:  dialect,
		Ideas:    ideas.NewSQLRepository(db, dialect),
		Todos:    todos.NewSQLRepository(db, dialect),
		Metadata: metadata.NewSQLRepository(db, dialect),
	}
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// ImportAll inserts ideas and todos as new rows inside one transaction.
// Incoming ids are ignored. Either every row is written or none is.
func (s *Store) ImportAll(ctx context.Context, is []models.Idea, ts []models.Todo) error {
	return dbx.WithTx(ctx, s.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		ir := ideas.NewSQLRepository(tx, s.Dialect)
		tr := todos.NewSQLRepository(tx, s.Dialect)

		for i := range is {
			if _, err := ir.Insert(ctx, &is[i]); err != nil {
				return fmt.Errorf("insert idea %q: %w", is[i].Title, err)
			}
		}
		for i := range ts {
			if _, err := tr.Insert(ctx, &ts[i]); err != nil {
				return fmt.Errorf("insert todo %q: %w", ts[i].Title, err)
			}
		}
		return ctx.Err()
	})
}

// Snapshot reads every idea and every todo.
func (s *Store) Snapshot(ctx context.Context) ([]models.Idea, []models.Todo, error) {
	is, err := s.Ideas.Since(ctx, 0)
	if err != nil {
		return nil, nil, err
	}
	ts, err := s.Todos.GetAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	return is, ts, nil
}
