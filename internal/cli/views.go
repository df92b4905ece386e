package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/mindstitch/internal/common"
	"github.com/dmitrijs2005/mindstitch/internal/stats"
	"github.com/fatih/color"
)

// Glyph and color per heatmap level, 0..5.
var (
	levelGlyphs = []string{"·", "░", "▒", "▓", "█", "█"}
	levelColors = []*color.Color{
		color.New(color.FgHiBlack),
		color.New(color.FgGreen),
		color.New(color.FgGreen),
		color.New(color.FgHiGreen),
		color.New(color.FgHiGreen),
		color.New(color.FgHiGreen, color.Bold),
	}
	ratedColor = color.New(color.FgYellow)
	todoColor  = color.New(color.FgRed)
)

var weekdayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// RenderHeatmap draws weekdays as rows and weeks as columns.
func RenderHeatmap(w io.Writer, hm stats.Heatmap) {
	fmt.Fprintf(w, "Activity since %s\n", hm.Start.Format(dateLayout))
	for day := 0; day < stats.DaysPerWeek; day++ {
		var sb strings.Builder
		sb.WriteString(weekdayLabels[day])
		for _, week := range hm.Weeks {
			lvl := week[day]
			sb.WriteString(" ")
			sb.WriteString(levelColors[lvl].Sprint(levelGlyphs[lvl]))
		}
		fmt.Fprintln(w, sb.String())
	}
}

// RenderCalendar draws a Monday-first month grid. Days with rated ideas
// are highlighted and days with open todos are marked with '!'.
func RenderCalendar(w io.Writer, year int, month time.Month, ratings, open map[int]int, loc *time.Location) {
	first, _ := stats.MonthRange(year, month, loc)
	days := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	offset := (int(first.Weekday()) + 6) % 7

	fmt.Fprintf(w, "%s %d\n", month, year)
	fmt.Fprintln(w, strings.Join(weekdayLabels, " "))

	var sb strings.Builder
	sb.WriteString(strings.Repeat("    ", offset))
	for d := 1; d <= days; d++ {
		cell := fmt.Sprintf("%3d", d)
		if ratings[d] > 0 {
			cell = ratedColor.Sprint(cell)
		}
		mark := " "
		if open[d] > 0 {
			mark = todoColor.Sprint("!")
		}
		sb.WriteString(cell + mark)
		if (offset+d)%7 == 0 {
			fmt.Fprintln(w, strings.TrimRight(sb.String(), " "))
			sb.Reset()
		}
	}
	if sb.Len() > 0 {
		fmt.Fprintln(w, strings.TrimRight(sb.String(), " "))
	}

	for d := 1; d <= days; d++ {
		if ratings[d] > 0 || open[d] > 0 {
			fmt.Fprintf(w, "%2d: rating %d, open todos %d\n", d, ratings[d], open[d])
		}
	}
}

func (a *App) Heatmap(ctx context.Context, _ []string) error {
	hm, err := a.stats.ActivityHeatmap(ctx)
	if err != nil {
		return err
	}
	RenderHeatmap(a.out, hm)

	sum, err := a.stats.Summary(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d ideas, %d todos, %d open today\n", sum.Ideas, sum.Todos, sum.OpenToday)
	return nil
}

// parseMonth reads YYYY-MM; no argument means the current month.
func (a *App) parseMonth(args []string) (int, time.Month, error) {
	if len(args) == 0 {
		t := a.stats.Today()
		return t.Year(), t.Month(), nil
	}
	t, err := time.Parse("2006-01", args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", common.ErrInvalidDate, args[0])
	}
	return t.Year(), t.Month(), nil
}

func (a *App) Calendar(ctx context.Context, args []string) error {
	year, month, err := a.parseMonth(args)
	if err != nil {
		return err
	}
	ratings, err := a.stats.MonthlyRatingTotals(ctx, year, month)
	if err != nil {
		return err
	}
	open, err := a.stats.MonthlyTodoCounts(ctx, year, month)
	if err != nil {
		return err
	}
	RenderCalendar(a.out, year, month, ratings, open, a.stats.Location())
	return nil
}

func (a *App) Day(ctx context.Context, args []string) error {
	day, err := a.parseDay(args)
	if err != nil {
		return err
	}
	view, err := a.stats.DayItems(ctx, day.Year(), day.Month(), day.Day())
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, view.Date.Format("Monday, 2006-01-02"))
	fmt.Fprintln(a.out, "Ideas:")
	a.printIdeas(view.Ideas)
	fmt.Fprintln(a.out, "Todos:")
	if len(view.Todos) == 0 {
		fmt.Fprintln(a.out, "No todos.")
	}
	for _, t := range view.Todos {
		mark := " "
		if t.IsCompleted {
			mark = "x"
		}
		fmt.Fprintf(a.out, "[%s] #%-4d %s\n", mark, t.ID, t.Title)
	}
	return nil
}
