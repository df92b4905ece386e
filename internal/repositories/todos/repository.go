package todos

import (
	"context"

	"github.com/dmitrijs2005/mindstitch/internal/models"
)

// Repository describes CRUD and query operations for Todo records.
type Repository interface {
	// Insert stores a new todo and returns its storage-assigned id.
	Insert(ctx context.Context, todo *models.Todo) (int64, error)
	Update(ctx context.Context, todo *models.Todo) error
	DeleteByID(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Todo, error)

	// GetAll returns every todo, oldest first.
	GetAll(ctx context.Context) ([]models.Todo, error)

	// ByDateRange returns todos whose date lies within [start, end).
	ByDateRange(ctx context.Context, start, end int64) ([]models.Todo, error)

	// UncompletedCount counts open todos whose date lies within [start, end).
	UncompletedCount(ctx context.Context, start, end int64) (int, error)

	SetCompleted(ctx context.Context, id int64, completed bool) error
	Count(ctx context.Context) (int, error)
}
