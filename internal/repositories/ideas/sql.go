package ideas

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mindstitch/internal/common"
	"github.com/dmitrijs2005/mindstitch/internal/dbx"
	"github.com/dmitrijs2005/mindstitch/internal/models"
)

const selectColumns = `select id, title, content_blocks, type, tags, folder, rating, up_count, created_at, updated_at from ideas`

// SQLRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

// NewSQLRepository returns a repository bound to db, issuing queries in the
// given dialect.
func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

// NewSQLiteRepository is NewSQLRepository for the embedded store.
func NewSQLiteRepository(db dbx.DBTX) *SQLRepository {
	return NewSQLRepository(db, dbx.SQLite)
}

// NewPostgresRepository is NewSQLRepository for PostgreSQL.
func NewPostgresRepository(db dbx.DBTX) *SQLRepository {
	return NewSQLRepository(db, dbx.Postgres)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIdea(s scanner) (models.Idea, error) {
	var i models.Idea
	err := s.Scan(&i.ID, &i.Title, &i.ContentBlocks, &i.Type, &i.Tags, &i.Folder,
		&i.Rating, &i.UpCount, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

func (r *SQLRepository) list(ctx context.Context, query string, args ...any) ([]models.Idea, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select ideas: %w", err)
	}
	defer rows.Close()

	result := make([]models.Idea, 0)
	for rows.Next() {
		item, err := scanIdea(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan idea: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// searchText is what Search matches against. Folding happens here rather
// than in SQL because sqlite's lower() only folds ASCII.
func searchText(i *models.Idea) string {
	return strings.ToLower(i.Title + "\n" + i.TextContent())
}

func (r *SQLRepository) Insert(ctx context.Context, i *models.Idea) (int64, error) {
	query := `insert into ideas (title, content_blocks, search_text, type, tags, folder, rating, up_count, created_at, updated_at)
		values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) returning id`

	var id int64
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query),
		i.Title, i.ContentBlocks, searchText(i), i.Type, i.Tags, i.Folder,
		i.Rating, i.UpCount, i.CreatedAt, i.UpdatedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert idea: %w", err)
	}
	return id, nil
}

func (r *SQLRepository) Update(ctx context.Context, i *models.Idea) error {
	query := `update ideas set title = ?, content_blocks = ?, search_text = ?, type = ?, tags = ?, folder = ?,
		rating = ?, up_count = ?, created_at = ?, updated_at = ? where id = ?`

	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(query),
		i.Title, i.ContentBlocks, searchText(i), i.Type, i.Tags, i.Folder,
		i.Rating, i.UpCount, i.CreatedAt, i.UpdatedAt, i.ID)
	if err != nil {
		return fmt.Errorf("failed to update idea: %w", err)
	}
	return expectOne(res)
}

func (r *SQLRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`delete from ideas where id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete idea: %w", err)
	}
	return expectOne(res)
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.Idea, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(selectColumns+` where id = ?`), id)

	i, err := scanIdea(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return &i, nil
}

func (r *SQLRepository) GetAll(ctx context.Context) ([]models.Idea, error) {
	return r.list(ctx, selectColumns+` order by created_at desc, id desc`)
}

func (r *SQLRepository) Search(ctx context.Context, query string) ([]models.Idea, error) {
	q := strings.ToLower(query)
	return r.list(ctx, selectColumns+`
		where search_text like '%' || ? || '%'
		order by created_at desc, id desc`, q)
}

func (r *SQLRepository) Folders(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `select distinct folder from ideas order by folder asc`)
	if err != nil {
		return nil, fmt.Errorf("failed to select folders: %w", err)
	}
	defer rows.Close()

	folders := make([]string, 0)
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("failed to scan folder: %w", err)
		}
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return folders, nil
}

func (r *SQLRepository) ByFolder(ctx context.Context, folder string) ([]models.Idea, error) {
	return r.list(ctx, selectColumns+` where folder = ? order by created_at desc, id desc`, folder)
}

func (r *SQLRepository) Since(ctx context.Context, start int64) ([]models.Idea, error) {
	return r.list(ctx, selectColumns+` where created_at >= ? order by created_at desc, id desc`, start)
}

func (r *SQLRepository) ByDateRange(ctx context.Context, start, end int64) ([]models.Idea, error) {
	return r.list(ctx, selectColumns+` where created_at >= ? and created_at < ? order by created_at desc, id desc`, start, end)
}

func (r *SQLRepository) IncrementUpCount(ctx context.Context, id int64, updatedAt int64) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`update ideas set up_count = up_count + 1, updated_at = ? where id = ?`), updatedAt, id)
	if err != nil {
		return fmt.Errorf("failed to increment up count: %w", err)
	}
	return expectOne(res)
}

func (r *SQLRepository) SetRating(ctx context.Context, id int64, rating int, updatedAt int64) error {
	if !models.ValidRating(rating) {
		return common.ErrInvalidRating
	}
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`update ideas set rating = ?, updated_at = ? where id = ?`), rating, updatedAt, id)
	if err != nil {
		return fmt.Errorf("failed to set rating: %w", err)
	}
	return expectOne(res)
}

func (r *SQLRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `select count(*) from ideas`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count ideas: %w", err)
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
