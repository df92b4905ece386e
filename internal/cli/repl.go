package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

var errorColor = color.New(color.FgRed)

// command handles one REPL line; args are the words after the command name.
type command func(ctx context.Context, args []string) error

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a stub.
type execIface interface {
	Capture(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Boost(ctx context.Context, args []string) error
	Rate(ctx context.Context, args []string) error
	Folders(ctx context.Context, args []string) error
	AddTodo(ctx context.Context, args []string) error
	Todos(ctx context.Context, args []string) error
	ToggleTodo(ctx context.Context, args []string) error
	DeleteTodo(ctx context.Context, args []string) error
	Heatmap(ctx context.Context, args []string) error
	Calendar(ctx context.Context, args []string) error
	Day(ctx context.Context, args []string) error
	SetRemote(ctx context.Context, args []string) error
	Check(ctx context.Context, args []string) error
	Backup(ctx context.Context, args []string) error
	Restore(ctx context.Context, args []string) error
}

const helpText = `Ideas:    add, (l)ist [folder], search <text>, show <id>, edit <id>, delete <id>,
          boost <id>, rate <id> <0-5>, folders
Todos:    todo <YYYY-MM-DD> <title>, todos [YYYY-MM-DD], done <id>, rmtodo <id>
Views:    heatmap, calendar [YYYY-MM], day [YYYY-MM-DD]
Backup:   remote [clear], check, backup, restore
Other:    help, exit`

func commands(a execIface) map[string]command {
	return map[string]command{
		"add":      a.Capture,
		"l":        a.List,
		"list":     a.List,
		"search":   a.Search,
		"show":     a.Show,
		"edit":     a.Edit,
		"delete":   a.Delete,
		"boost":    a.Boost,
		"rate":     a.Rate,
		"folders":  a.Folders,
		"todo":     a.AddTodo,
		"todos":    a.Todos,
		"done":     a.ToggleTodo,
		"rmtodo":   a.DeleteTodo,
		"heatmap":  a.Heatmap,
		"calendar": a.Calendar,
		"day":      a.Day,
		"remote":   a.SetRemote,
		"check":    a.Check,
		"backup":   a.Backup,
		"restore":  a.Restore,
	}
}

// runREPL reads commands from reader until EOF, "exit" or "quit", or
// until ctx is done. Command errors are reported and the loop goes on.
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader) {
	table := commands(a)

	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn("mindstitch> ")

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		fn, ok := table[cmd]
		if !ok {
			printlnFn("Unknown command:", cmd)
			continue
		}
		if err := fn(ctx, args); err != nil {
			printlnFn(errorColor.Sprintf("Error: %v", err))
		}
	}
}
