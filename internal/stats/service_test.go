package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/mindstitch/internal/models"
	"github.com/dmitrijs2005/mindstitch/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func addIdea(t *testing.T, s *storage.Store, title string, rating int, created time.Time) {
	t.Helper()
	i := models.NewIdea(title, nil, created)
	i.Rating = rating
	_, err := s.Ideas.Insert(context.Background(), &i)
	require.NoError(t, err)
}

func addTodo(t *testing.T, s *storage.Store, title string, day time.Time, done bool) {
	t.Helper()
	_, err := s.Todos.Insert(context.Background(), &models.Todo{
		Title: title, Date: day.UnixMilli(), IsCompleted: done, CreatedAt: day.UnixMilli(),
	})
	require.NoError(t, err)
}

func TestService_MonthBoundaryIsHalfOpen(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	addIdea(t, s, "first instant", 2, at(2025, time.March, 1, 0))
	addIdea(t, s, "last day", 4, time.Date(2025, time.March, 31, 23, 59, 59, 0, zone))
	addIdea(t, s, "next month", 5, at(2025, time.April, 1, 0))
	addIdea(t, s, "previous month", 5, time.Date(2025, time.February, 28, 23, 59, 59, 0, zone))

	svc := NewService(s.Ideas, s.Todos, nil, zone)

	totals, err := svc.MonthlyRatingTotals(ctx, 2025, time.March)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 2, 31: 4}, totals)

	april, err := svc.MonthlyRatingTotals(ctx, 2025, time.April)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 5}, april)
}

func TestService_MonthlyTodoCountsAndDayItems(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	day := at(2025, time.March, 14, 0)
	addTodo(t, s, "open a", day, false)
	addTodo(t, s, "open b", day, false)
	addTodo(t, s, "done", day, true)
	addTodo(t, s, "other day", at(2025, time.March, 15, 0), false)
	addIdea(t, s, "morning", 1, at(2025, time.March, 14, 8))
	addIdea(t, s, "tomorrow", 1, at(2025, time.March, 15, 0))

	svc := NewService(s.Ideas, s.Todos, nil, zone)

	counts, err := svc.MonthlyTodoCounts(ctx, 2025, time.March)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{14: 2, 15: 1}, counts)

	view, err := svc.DayItems(ctx, 2025, time.March, 14)
	require.NoError(t, err)
	assert.True(t, day.Equal(view.Date))
	require.Len(t, view.Ideas, 1)
	assert.Equal(t, "morning", view.Ideas[0].Title)
	require.Len(t, view.Todos, 3)
	assert.Equal(t, "open a", view.Todos[0].Title, "todos keep creation order")
}

func TestService_Summary(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	now := at(2025, time.March, 14, 18)
	addTodo(t, s, "open today", at(2025, time.March, 14, 0), false)
	addTodo(t, s, "done today", at(2025, time.March, 14, 0), true)
	addTodo(t, s, "open tomorrow", at(2025, time.March, 15, 0), false)
	addIdea(t, s, "one", 0, at(2025, time.March, 1, 9))

	svc := NewService(s.Ideas, s.Todos, func() time.Time { return now }, zone)

	sum, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, Summary{Ideas: 1, Todos: 3, OpenToday: 1}, sum)
}

func TestService_ActivityHeatmap(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	now := at(2025, time.March, 12, 15)
	start := HeatmapStart(now)

	addIdea(t, s, "too old", 0, LookbackStart(now).Add(-time.Hour))
	addIdea(t, s, "start", 0, start.Add(2*time.Hour))
	addIdea(t, s, "start again", 0, start.Add(3*time.Hour))

	svc := NewService(s.Ideas, s.Todos, func() time.Time { return now }, zone)
	hm, err := svc.ActivityHeatmap(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, hm.Weeks[0][0])
	assert.True(t, svc.Today().Equal(at(2025, time.March, 12, 0)))
}
