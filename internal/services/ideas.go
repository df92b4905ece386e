package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/mindstitch/internal/common"
	"github.com/dmitrijs2005/mindstitch/internal/content"
	"github.com/dmitrijs2005/mindstitch/internal/models"
	"github.com/dmitrijs2005/mindstitch/internal/repositories/ideas"
)

// Draft is what a user submits when capturing or editing an idea.
// A nil Blocks captures an empty body and leaves the body alone on Edit;
// an empty non-nil slice clears it.
type Draft struct {
	Title  string          `json:"title"`
	Blocks []content.Block `json:"-"`
	Tags   []string        `json:"tags"`
	Folder string          `json:"folder"`
	Rating int             `json:"rating"`
}

func (d Draft) validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return common.ErrEmptyTitle
	}
	if !models.ValidRating(d.Rating) {
		return common.ErrInvalidRating
	}
	return nil
}

func (d Draft) folder() string {
	if f := strings.TrimSpace(d.Folder); f != "" {
		return f
	}
	return models.DefaultFolder
}

type IdeaService interface {
	Capture(ctx context.Context, d Draft) (*models.Idea, error)
	Edit(ctx context.Context, id int64, d Draft) (*models.Idea, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*models.Idea, error)
	List(ctx context.Context) ([]models.Idea, error)
	Search(ctx context.Context, query string) ([]models.Idea, error)
	Folders(ctx context.Context) ([]string, error)
	ByFolder(ctx context.Context, folder string) ([]models.Idea, error)
	Boost(ctx context.Context, id int64) (*models.Idea, error)
	Rate(ctx context.Context, id int64, rating int) (*models.Idea, error)
}

type ideaService struct {
	repo ideas.Repository
	now  func() time.Time
}

func NewIdeaService(repo ideas.Repository, now func() time.Time) IdeaService {
	if now == nil {
		now = time.Now
	}
	return &ideaService{repo: repo, now: now}
}

func (s *ideaService) Capture(ctx context.Context, d Draft) (*models.Idea, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}

	idea := models.NewIdea(strings.TrimSpace(d.Title), d.Blocks, s.now())
	idea.Folder = d.folder()
	idea.Tags = models.JoinTags(d.Tags)
	idea.Rating = d.Rating

	id, err := s.repo.Insert(ctx, &idea)
	if err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}
	idea.ID = id
	return &idea, nil
}

func (s *ideaService) Edit(ctx context.Context, id int64, d Draft) (*models.Idea, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}

	idea, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	idea.Title = strings.TrimSpace(d.Title)
	if d.Blocks != nil {
		idea.SetBlocks(d.Blocks)
	}
	idea.Folder = d.folder()
	idea.Tags = models.JoinTags(d.Tags)
	idea.Rating = d.Rating
	idea.UpdatedAt = models.Millis(s.now())

	if err := s.repo.Update(ctx, idea); err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}
	return idea, nil
}

func (s *ideaService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteByID(ctx, id)
}

func (s *ideaService) Get(ctx context.Context, id int64) (*models.Idea, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ideaService) List(ctx context.Context) ([]models.Idea, error) {
	return s.repo.GetAll(ctx)
}

// Search matches titles and text content. A blank query lists everything.
func (s *ideaService) Search(ctx context.Context, query string) ([]models.Idea, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return s.repo.GetAll(ctx)
	}
	return s.repo.Search(ctx, q)
}

func (s *ideaService) Folders(ctx context.Context) ([]string, error) {
	return s.repo.Folders(ctx)
}

func (s *ideaService) ByFolder(ctx context.Context, folder string) ([]models.Idea, error) {
	return s.repo.ByFolder(ctx, folder)
}

// Boost bumps the up counter by one.
func (s *ideaService) Boost(ctx context.Context, id int64) (*models.Idea, error) {
	if err := s.repo.IncrementUpCount(ctx, id, models.Millis(s.now())); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *ideaService) Rate(ctx context.Context, id int64, rating int) (*models.Idea, error) {
	if !models.ValidRating(rating) {
		return nil, common.ErrInvalidRating
	}
	if err := s.repo.SetRating(ctx, id, rating, models.Millis(s.now())); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}
