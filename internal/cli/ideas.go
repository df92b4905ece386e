package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/mindstitch/internal/backup"
	"github.com/dmitrijs2005/mindstitch/internal/content"
	"github.com/dmitrijs2005/mindstitch/internal/models"
	"github.com/dmitrijs2005/mindstitch/internal/services"
)

var errUsage = errors.New("usage")

func usage(text string) error {
	return fmt.Errorf("%w: %s", errUsage, text)
}

func parseID(args []string, use string) (int64, error) {
	if len(args) == 0 {
		return 0, usage(use)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

// readBlocks asks for a text body and image paths. Images follow the text.
func (a *App) readBlocks() ([]content.Block, error) {
	text, err := GetMultiline(a.reader, "Text:", a.out)
	if err != nil {
		return nil, err
	}
	paths, err := GetList(a.reader, "Image files (comma separated, optional):", a.out)
	if err != nil {
		return nil, err
	}

	var blocks []content.Block
	if text != "" {
		blocks = append(blocks, content.Text{Content: text})
	}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, content.NewImage(backup.FileURI(abs)))
	}
	return blocks, nil
}

func (a *App) Capture(ctx context.Context, _ []string) error {
	title, err := GetSimpleText(a.reader, "Title:", a.out)
	if err != nil {
		return err
	}
	blocks, err := a.readBlocks()
	if err != nil {
		return err
	}
	folder, err := GetSimpleText(a.reader, "Folder (blank for Default):", a.out)
	if err != nil {
		return err
	}
	tags, err := GetList(a.reader, "Tags (comma separated):", a.out)
	if err != nil {
		return err
	}

	idea, err := a.ideas.Capture(ctx, services.Draft{Title: title, Blocks: blocks, Folder: folder, Tags: tags})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved idea #%d\n", idea.ID)
	return nil
}

func stars(n int) string {
	return strings.Repeat("*", n) + strings.Repeat(".", models.MaxRating-n)
}

func (a *App) printIdeas(list []models.Idea) {
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No ideas.")
		return
	}
	for _, i := range list {
		fmt.Fprintf(a.out, "#%-4d %s  %-12s %s  +%d\n",
			i.ID, stars(i.Rating), i.Folder, i.Title, i.UpCount)
	}
}

func (a *App) List(ctx context.Context, args []string) error {
	var (
		list []models.Idea
		err  error
	)
	if len(args) > 0 {
		list, err = a.ideas.ByFolder(ctx, strings.Join(args, " "))
	} else {
		list, err = a.ideas.List(ctx)
	}
	if err != nil {
		return err
	}
	a.printIdeas(list)
	return nil
}

func (a *App) Search(ctx context.Context, args []string) error {
	list, err := a.ideas.Search(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	a.printIdeas(list)
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := parseID(args, "show <id>")
	if err != nil {
		return err
	}
	idea, err := a.ideas.Get(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "#%d %s\n", idea.ID, idea.Title)
	fmt.Fprintf(a.out, "Folder: %s  Rating: %s  Boosts: %d\n", idea.Folder, stars(idea.Rating), idea.UpCount)
	if tags := idea.TagList(); len(tags) > 0 {
		fmt.Fprintf(a.out, "Tags: %s\n", strings.Join(tags, ", "))
	}
	fmt.Fprintf(a.out, "Created: %s  Updated: %s\n",
		idea.Created().Format("2006-01-02 15:04"), idea.Updated().Format("2006-01-02 15:04"))
	fmt.Fprintln(a.out)

	for _, b := range idea.Blocks() {
		switch v := b.(type) {
		case content.Text:
			fmt.Fprintln(a.out, v.Content)
		case content.Image:
			fmt.Fprintf(a.out, "[image %s scale=%.2f align=%s]\n", v.URI, v.Scale, v.Align)
		}
	}
	return nil
}

// Edit keeps every field the user leaves blank.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := parseID(args, "edit <id>")
	if err != nil {
		return err
	}
	idea, err := a.ideas.Get(ctx, id)
	if err != nil {
		return err
	}

	d := services.Draft{
		Title:  idea.Title,
		Blocks: idea.Blocks(),
		Tags:   idea.TagList(),
		Folder: idea.Folder,
		Rating: idea.Rating,
	}

	title, err := GetSimpleText(a.reader, fmt.Sprintf("Title [%s]:", idea.Title), a.out)
	if err != nil {
		return err
	}
	if title != "" {
		d.Title = title
	}
	blocks, err := a.readBlocks()
	if err != nil {
		return err
	}
	if len(blocks) > 0 {
		d.Blocks = blocks
	}
	folder, err := GetSimpleText(a.reader, fmt.Sprintf("Folder [%s]:", idea.Folder), a.out)
	if err != nil {
		return err
	}
	if folder != "" {
		d.Folder = folder
	}

	if _, err := a.ideas.Edit(ctx, id, d); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated idea #%d\n", id)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := parseID(args, "delete <id>")
	if err != nil {
		return err
	}
	if err := a.ideas.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted idea #%d\n", id)
	return nil
}

func (a *App) Boost(ctx context.Context, args []string) error {
	id, err := parseID(args, "boost <id>")
	if err != nil {
		return err
	}
	idea, err := a.ideas.Boost(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "#%d boosted to +%d\n", idea.ID, idea.UpCount)
	return nil
}

func (a *App) Rate(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("rate <id> <0-5>")
	}
	id, err := parseID(args, "rate <id> <0-5>")
	if err != nil {
		return err
	}
	rating, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid rating %q", args[1])
	}
	idea, err := a.ideas.Rate(ctx, id, rating)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "#%d rated %s\n", idea.ID, stars(idea.Rating))
	return nil
}

func (a *App) Folders(ctx context.Context, _ []string) error {
	list, err := a.ideas.Folders(ctx)
	if err != nil {
		return err
	}
	for _, f := range list {
		fmt.Fprintln(a.out, f)
	}
	return nil
}
