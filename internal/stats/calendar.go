// Package stats derives the activity heatmap and the calendar views from
// stored ideas and todos. All date math happens in an explicit location.
package stats

import (
	"time"

	"github.com/dmitrijs2005/mindstitch/internal/models"
)

const (
	HeatmapWeeks    = 12
	DaysPerWeek     = 7
	HeatmapLookback = HeatmapWeeks * DaysPerWeek
)

// Midnight returns the start of t's calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Level buckets a daily count into 0..5.
func Level(count int) int {
	switch {
	case count <= 0:
		return 0
	case count == 1:
		return 1
	case count == 2:
		return 2
	case count <= 4:
		return 3
	case count < 10:
		return 4
	default:
		return 5
	}
}

// LookbackStart is midnight 84 days before now. Ideas created since then
// feed the heatmap.
func LookbackStart(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d-HeatmapLookback, 0, 0, 0, 0, now.Location())
}

// HeatmapStart is LookbackStart moved forward to the next Monday, or left
// alone when it already is one.
func HeatmapStart(now time.Time) time.Time {
	start := LookbackStart(now)
	for start.Weekday() != time.Monday {
		y, m, d := start.Date()
		start = time.Date(y, m, d+1, 0, 0, 0, 0, start.Location())
	}
	return start
}

// Heatmap is HeatmapWeeks rows of seven levels, Monday first.
type Heatmap struct {
	Start time.Time `json:"start"`
	Weeks [][]int   `json:"weeks"`
}

type dayKey struct {
	y int
	m time.Month
	d int
}

func keyOf(t time.Time) dayKey {
	y, m, d := t.Date()
	return dayKey{y, m, d}
}

// BuildHeatmap counts createdAt timestamps (epoch ms) per local calendar day
// of now's location and lays the levels out from HeatmapStart(now).
func BuildHeatmap(now time.Time, createdAt ...int64) Heatmap {
	loc := now.Location()

	counts := make(map[dayKey]int, len(createdAt))
	for _, ms := range createdAt {
		counts[keyOf(time.UnixMilli(ms).In(loc))]++
	}

	start := HeatmapStart(now)
	y, m, d := start.Date()

	weeks := make([][]int, HeatmapWeeks)
	for w := range weeks {
		week := make([]int, DaysPerWeek)
		for i := range week {
			day := time.Date(y, m, d+w*DaysPerWeek+i, 0, 0, 0, 0, loc)
			week[i] = Level(counts[keyOf(day)])
		}
		weeks[w] = week
	}
	return Heatmap{Start: start, Weeks: weeks}
}

// MonthRange is the half-open range [first day 00:00, first day of next
// month 00:00) in loc.
func MonthRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, time.Date(year, month+1, 1, 0, 0, 0, 0, loc)
}

// DayRange is the half-open range covering one calendar day in loc.
func DayRange(year int, month time.Month, day int, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, day, 0, 0, 0, 0, loc)
	return start, time.Date(year, month, day+1, 0, 0, 0, 0, loc)
}

// RatingTotals sums idea ratings by day of month of their creation time.
// Days without ideas are absent.
func RatingTotals(ideas []models.Idea, loc *time.Location) map[int]int {
	out := make(map[int]int)
	for _, i := range ideas {
		out[time.UnixMilli(i.CreatedAt).In(loc).Day()] += i.Rating
	}
	return out
}

// OpenTodoCounts counts uncompleted todos by day of month of their date.
func OpenTodoCounts(todos []models.Todo, loc *time.Location) map[int]int {
	out := make(map[int]int)
	for _, t := range todos {
		if t.IsCompleted {
			continue
		}
		out[time.UnixMilli(t.Date).In(loc).Day()]++
	}
	return out
}
