package ideas

import (
	"context"

	"github.com/dmitrijs2005/mindstitch/internal/models"
)

// Repository describes CRUD and query operations for Idea records.
type Repository interface {
	// Insert stores a new idea and returns its storage-assigned id.
	// The incoming ID field is ignored.
	Insert(ctx context.Context, idea *models.Idea) (int64, error)

	// Update overwrites every column of the idea with the given ID.
	Update(ctx context.Context, idea *models.Idea) error

	DeleteByID(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Idea, error)

	// GetAll returns every idea, newest first.
	GetAll(ctx context.Context) ([]models.Idea, error)

	Search(ctx context.Context, query string) ([]models.Idea, error)
	Folders(ctx context.Context) ([]string, error)
	ByFolder(ctx context.Context, folder string) ([]models.Idea, error)

	// Since returns ideas created at or after start.
	Since(ctx context.Context, start int64) ([]models.Idea, error)

	// ByDateRange returns ideas created within [start, end).
	ByDateRange(ctx context.Context, start, end int64) ([]models.Idea, error)

	IncrementUpCount(ctx context.Context, id int64, updatedAt int64) error
	SetRating(ctx context.Context, id int64, rating int, updatedAt int64) error
	Count(ctx context.Context) (int, error)
}
