package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/mindstitch/internal/common"
)

const dateLayout = "2006-01-02"

// parseDay reads YYYY-MM-DD; no argument means today.
func (a *App) parseDay(args []string) (time.Time, error) {
	if len(args) == 0 {
		return a.stats.Today(), nil
	}
	t, err := time.ParseInLocation(dateLayout, args[0], a.stats.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", common.ErrInvalidDate, args[0])
	}
	return t, nil
}

func (a *App) AddTodo(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("todo <YYYY-MM-DD> <title>")
	}
	day, err := a.parseDay(args[:1])
	if err != nil {
		return err
	}
	todo, err := a.todos.Create(ctx, strings.Join(args[1:], " "), day.Year(), day.Month(), day.Day())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added todo #%d for %s\n", todo.ID, day.Format(dateLayout))
	return nil
}

func (a *App) Todos(ctx context.Context, args []string) error {
	day, err := a.parseDay(args)
	if err != nil {
		return err
	}
	list, err := a.todos.ForDay(ctx, day.Year(), day.Month(), day.Day())
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintf(a.out, "No todos for %s.\n", day.Format(dateLayout))
		return nil
	}
	for _, t := range list {
		mark := " "
		if t.IsCompleted {
			mark = "x"
		}
		fmt.Fprintf(a.out, "[%s] #%-4d %s\n", mark, t.ID, t.Title)
	}
	return nil
}

func (a *App) ToggleTodo(ctx context.Context, args []string) error {
	id, err := parseID(args, "done <id>")
	if err != nil {
		return err
	}
	t, err := a.todos.Toggle(ctx, id)
	if err != nil {
		return err
	}
	state := "open"
	if t.IsCompleted {
		state = "done"
	}
	fmt.Fprintf(a.out, "Todo #%d is %s\n", t.ID, state)
	return nil
}

func (a *App) DeleteTodo(ctx context.Context, args []string) error {
	id, err := parseID(args, "rmtodo <id>")
	if err != nil {
		return err
	}
	if err := a.todos.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted todo #%d\n", id)
	return nil
}
