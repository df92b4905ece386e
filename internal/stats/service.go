package stats

import (
	"context"
	"time"

	"github.com/dmitrijs2005/mindstitch/internal/models"
)

// IdeaReader is the read side of the idea repository used here.
type IdeaReader interface {
	Since(ctx context.Context, start int64) ([]models.Idea, error)
	ByDateRange(ctx context.Context, start, end int64) ([]models.Idea, error)
	Count(ctx context.Context) (int, error)
}

// TodoReader is the read side of the todo repository used here.
type TodoReader interface {
	ByDateRange(ctx context.Context, start, end int64) ([]models.Todo, error)
	UncompletedCount(ctx context.Context, start, end int64) (int, error)
	Count(ctx context.Context) (int, error)
}

type Service struct {
	ideas IdeaReader
	todos TodoReader
	now   func() time.Time
	loc   *time.Location
}

// NewService builds the aggregators. A nil now means time.Now and a nil loc
// means time.Local.
func NewService(ideas IdeaReader, todos TodoReader, now func() time.Time, loc *time.Location) *Service {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{ideas: ideas, todos: todos, now: now, loc: loc}
}

func (s *Service) Location() *time.Location {
	return s.loc
}

// Today is the current local date.
func (s *Service) Today() time.Time {
	return Midnight(s.now().In(s.loc))
}

// ActivityHeatmap covers the last twelve weeks of captured ideas.
func (s *Service) ActivityHeatmap(ctx context.Context) (Heatmap, error) {
	now := s.now().In(s.loc)

	ideas, err := s.ideas.Since(ctx, models.Millis(LookbackStart(now)))
	if err != nil {
		return Heatmap{}, err
	}

	created := make([]int64, len(ideas))
	for i, idea := range ideas {
		created[i] = idea.CreatedAt
	}
	return BuildHeatmap(now, created...), nil
}

// MonthlyRatingTotals returns, per day of the month, the summed rating of
// ideas created that day.
func (s *Service) MonthlyRatingTotals(ctx context.Context, year int, month time.Month) (map[int]int, error) {
	start, end := MonthRange(year, month, s.loc)
	ideas, err := s.ideas.ByDateRange(ctx, models.Millis(start), models.Millis(end))
	if err != nil {
		return nil, err
	}
	return RatingTotals(ideas, s.loc), nil
}

// MonthlyTodoCounts returns, per day of the month, the number of open todos.
func (s *Service) MonthlyTodoCounts(ctx context.Context, year int, month time.Month) (map[int]int, error) {
	start, end := MonthRange(year, month, s.loc)
	todos, err := s.todos.ByDateRange(ctx, models.Millis(start), models.Millis(end))
	if err != nil {
		return nil, err
	}
	return OpenTodoCounts(todos, s.loc), nil
}

// DayView is everything attached to one calendar day.
type DayView struct {
	Date  time.Time     `json:"date"`
	Ideas []models.Idea `json:"ideas"`
	Todos []models.Todo `json:"todos"`
}

func (s *Service) DayItems(ctx context.Context, year int, month time.Month, day int) (*DayView, error) {
	start, end := DayRange(year, month, day, s.loc)

	ideas, err := s.ideas.ByDateRange(ctx, models.Millis(start), models.Millis(end))
	if err != nil {
		return nil, err
	}
	todos, err := s.todos.ByDateRange(ctx, models.Millis(start), models.Millis(end))
	if err != nil {
		return nil, err
	}
	return &DayView{Date: start, Ideas: ideas, Todos: todos}, nil
}

// Summary holds journal-wide totals.
type Summary struct {
	Ideas     int `json:"ideas"`
	Todos     int `json:"todos"`
	OpenToday int `json:"open_today"`
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	var (
		sum Summary
		err error
	)
	if sum.Ideas, err = s.ideas.Count(ctx); err != nil {
		return Summary{}, err
	}
	if sum.Todos, err = s.todos.Count(ctx); err != nil {
		return Summary{}, err
	}

	today := s.Today()
	start, end := DayRange(today.Year(), today.Month(), today.Day(), s.loc)
	if sum.OpenToday, err = s.todos.UncompletedCount(ctx, models.Millis(start), models.Millis(end)); err != nil {
		return Summary{}, err
	}
	return sum, nil
}
