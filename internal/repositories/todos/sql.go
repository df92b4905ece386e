package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mindstitch/internal/common"
	"github.com/dmitrijs2005/mindstitch/internal/dbx"
	"github.com/dmitrijs2005/mindstitch/internal/models"
)

const selectColumns = `select id, title, due_date, is_completed, created_at from todos`

// SQLRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func NewSQLiteRepository(db dbx.DBTX) *SQLRepository {
	return NewSQLRepository(db, dbx.SQLite)
}

func NewPostgresRepository(db dbx.DBTX) *SQLRepository {
	return NewSQLRepository(db, dbx.Postgres)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(s scanner) (models.Todo, error) {
	var t models.Todo
	err := s.Scan(&t.ID, &t.Title, &t.Date, &t.IsCompleted, &t.CreatedAt)
	return t, err
}

func (r *SQLRepository) list(ctx context.Context, query string, args ...any) ([]models.Todo, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select todos: %w", err)
	}
	defer rows.Close()

	result := make([]models.Todo, 0)
	for rows.Next() {
		item, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLRepository) Insert(ctx context.Context, t *models.Todo) (int64, error) {
	query := `insert into todos (title, due_date, is_completed, created_at) values (?, ?, ?, ?) returning id`

	var id int64
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query), t.Title, t.Date, t.IsCompleted, t.CreatedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert todo: %w", err)
	}
	return id, nil
}

func (r *SQLRepository) Update(ctx context.Context, t *models.Todo) error {
	query := `update todos set title = ?, due_date = ?, is_completed = ?, created_at = ? where id = ?`
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), t.Title, t.Date, t.IsCompleted, t.CreatedAt, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}
	return expectOne(res)
}

func (r *SQLRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`delete from todos where id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return expectOne(res)
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.Todo, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(selectColumns+` where id = ?`), id)
	t, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return &t, nil
}

func (r *SQLRepository) GetAll(ctx context.Context) ([]models.Todo, error) {
	return r.list(ctx, selectColumns+` order by created_at asc, id asc`)
}

func (r *SQLRepository) ByDateRange(ctx context.Context, start, end int64) ([]models.Todo, error) {
	return r.list(ctx, selectColumns+` where due_date >= ? and due_date < ? order by created_at asc, id asc`, start, end)
}

func (r *SQLRepository) UncompletedCount(ctx context.Context, start, end int64) (int, error) {
	query := `select count(*) from todos where due_date >= ? and due_date < ? and is_completed = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query), start, end, false).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count open todos: %w", err)
	}
	return n, nil
}

func (r *SQLRepository) SetCompleted(ctx context.Context, id int64, completed bool) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`update todos set is_completed = ? where id = ?`), completed, id)
	if err != nil {
		return fmt.Errorf("failed to update todo state: %w", err)
	}
	return expectOne(res)
}

func (r *SQLRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `select count(*) from todos`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count todos: %w", err)
	}
	return n, nil
}

func expectOne(res sql.Result) error {
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	if ra != 1 {
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
	return nil
}
