package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/mindstitch/internal/backup"
	"github.com/dmitrijs2005/mindstitch/internal/remote"
	"github.com/fatih/color"
)

var okColor = color.New(color.FgGreen)

// getPassword is a test seam for GetPassword.
var getPassword = GetPassword

// SetRemote saves the backup target; "remote clear" forgets it.
func (a *App) SetRemote(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "clear" {
		if err := a.profiles.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Remote profile cleared.")
		return nil
	}

	url, err := GetSimpleText(a.reader, "Server URL (https://... or s3://bucket/prefix):", a.out)
	if err != nil {
		return err
	}
	user, err := GetSimpleText(a.reader, "Username:", a.out)
	if err != nil {
		return err
	}
	pw, err := getPassword(a.out)
	if err != nil {
		return err
	}
	ep := remote.Endpoint{URL: url, Username: user, Password: string(pw)}
	clear(pw)

	if err := a.profiles.Save(ctx, ep); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Remote profile saved.")
	a.reportConnection(ctx, ep)
	return nil
}

func (a *App) reportConnection(ctx context.Context, ep remote.Endpoint) bool {
	if a.backup.TestConnection(ctx, ep) {
		okColor.Fprintf(a.out, "Connected to %s\n", ep.URL)
		return true
	}
	errorColor.Fprintf(a.out, "Cannot reach %s\n", ep.URL)
	return false
}

func (a *App) Check(ctx context.Context, _ []string) error {
	ep, err := a.endpoint(ctx)
	if err != nil {
		return err
	}
	if !a.reportConnection(ctx, ep) {
		return fmt.Errorf("connection check failed")
	}
	return nil
}

func printReport(w io.Writer, op string, r *backup.Report) {
	okColor.Fprintf(w, "%s complete: %d ideas, %d todos\n", op, r.Ideas, r.Todos)
	fmt.Fprintf(w, "Images: %d uploaded, %d downloaded, %d reused, %d failed\n",
		r.ImagesUploaded, r.ImagesDownloaded, r.ImagesReused, r.ImagesFailed)
}

func (a *App) Backup(ctx context.Context, _ []string) error {
	ep, err := a.endpoint(ctx)
	if err != nil {
		return err
	}
	r, err := a.backup.Backup(ctx, ep)
	if err != nil {
		return err
	}
	printReport(a.out, "Backup", r)
	return nil
}

func (a *App) Restore(ctx context.Context, _ []string) error {
	ep, err := a.endpoint(ctx)
	if err != nil {
		return err
	}
	r, err := a.backup.Restore(ctx, ep)
	if err != nil {
		return err
	}
	printReport(a.out, "Restore", r)
	return nil
}
