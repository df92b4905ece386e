package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/mindstitch/internal/common"
	"github.com/dmitrijs2005/mindstitch/internal/models"
	"github.com/dmitrijs2005/mindstitch/internal/repositories/todos"
)

type TodoService interface {
	Create(ctx context.Context, title string, year int, month time.Month, day int) (*models.Todo, error)
	Toggle(ctx context.Context, id int64) (*models.Todo, error)
	Delete(ctx context.Context, id int64) error
	ForDay(ctx context.Context, year int, month time.Month, day int) ([]models.Todo, error)
}

type todoService struct {
	repo todos.Repository
	now  func() time.Time
	loc  *time.Location
}

func NewTodoService(repo todos.Repository, now func() time.Time, loc *time.Location) TodoService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &todoService{repo: repo, now: now, loc: loc}
}

// dayStart rejects dates that time.Date would silently normalize.
func (s *todoService) dayStart(year int, month time.Month, day int) (time.Time, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, s.loc)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d", common.ErrInvalidDate, year, int(month), day)
	}
	return t, nil
}

// Create adds a todo owned by the given local day. Its date is that day's
// midnight regardless of when it is created.
func (s *todoService) Create(ctx context.Context, title string, year int, month time.Month, day int) (*models.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, common.ErrEmptyTitle
	}
	start, err := s.dayStart(year, month, day)
	if err != nil {
		return nil, err
	}

	t := &models.Todo{
		Title:     title,
		Date:      models.Millis(start),
		CreatedAt: models.Millis(s.now()),
	}
	id, err := s.repo.Insert(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}
	t.ID = id
	return t, nil
}

func (s *todoService) Toggle(ctx context.Context, id int64) (*models.Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.IsCompleted = !t.IsCompleted
	if err := s.repo.SetCompleted(ctx, id, t.IsCompleted); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *todoService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteByID(ctx, id)
}

func (s *todoService) ForDay(ctx context.Context, year int, month time.Month, day int) ([]models.Todo, error) {
	start, err := s.dayStart(year, month, day)
	if err != nil {
		return nil, err
	}
	end := start.AddDate(0, 0, 1)
	return s.repo.ByDateRange(ctx, models.Millis(start), models.Millis(end))
}
