package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/mindstitch/internal/api"
	"github.com/dmitrijs2005/mindstitch/internal/buildinfo"
	"github.com/dmitrijs2005/mindstitch/internal/config"
	"github.com/dmitrijs2005/mindstitch/internal/filex"
	"github.com/dmitrijs2005/mindstitch/internal/remote/webdav"
	"github.com/spf13/cobra"
)

// withSignals cancels the returned context on SIGINT, SIGTERM or SIGQUIT.
func withSignals(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

type root struct {
	args []string
	cfg  *config.Config
}

// withApp opens the journal for the duration of one command.
func (r *root) withApp(fn func(a *App, ctx context.Context, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := withSignals(cmd.Context())
		defer cancel()

		a, err := NewApp(ctx, r.cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(a, ctx, args)
	}
}

// NewRootCommand builds the command tree for args (without the program
// name). Global flags are parsed by config.Load; cobra only declares them.
func NewRootCommand(args []string) *cobra.Command {
	r := &root{args: args}

	cmd := &cobra.Command{
		Use:   "mindstitch",
		Short: "MindStitch - a terminal idea journal",
		Long: `MindStitch keeps short notes with images, day-scoped todos and
an activity heatmap, and backs everything up to WebDAV or S3.

Run without a subcommand to start the interactive journal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			cfg, err := config.Load(r.args)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			r.cfg = cfg
			return nil
		},
		RunE: r.withApp(repl),
	}
	cmd.SetArgs(args)

	pf := cmd.PersistentFlags()
	pf.StringP(config.FlagConfig, "c", "", "JSON config file")
	for _, name := range config.FlagNames {
		pf.String(name, "", "see config")
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "repl",
			Short: "Start the interactive journal",
			Args:  cobra.NoArgs,
			RunE:  r.withApp(repl),
		},
		&cobra.Command{
			Use:   "backup",
			Short: "Upload the journal and its images",
			Args:  cobra.NoArgs,
			RunE:  r.withApp((*App).Backup),
		},
		&cobra.Command{
			Use:   "restore",
			Short: "Add the remote backup to the local journal",
			Args:  cobra.NoArgs,
			RunE:  r.withApp((*App).Restore),
		},
		&cobra.Command{
			Use:   "check",
			Short: "Test the connection to the backup server",
			Args:  cobra.NoArgs,
			RunE:  r.withApp((*App).Check),
		},
		&cobra.Command{
			Use:   "heatmap",
			Short: "Show idea activity for the last twelve weeks",
			Args:  cobra.NoArgs,
			RunE:  r.withApp((*App).Heatmap),
		},
		&cobra.Command{
			Use:   "calendar [YYYY-MM]",
			Short: "Show ratings and open todos for a month",
			Args:  cobra.MaximumNArgs(1),
			RunE:  r.withApp((*App).Calendar),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				buildinfo.PrintBuildData(cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the JSON API",
			Args:  cobra.NoArgs,
			RunE:  r.withApp(serveAPI),
		},
		&cobra.Command{
			Use:   "serve-webdav",
			Short: "Serve a directory over WebDAV as a backup target",
			Args:  cobra.NoArgs,
			RunE:  r.serveWebDAV,
		},
	)

	return cmd
}

func repl(a *App, ctx context.Context, _ []string) error {
	fmt.Fprintln(a.out, "MindStitch (type 'help' for commands)")
	runREPL(ctx, a, a.reader)
	return nil
}

func serveAPI(a *App, ctx context.Context, _ []string) error {
	s := api.NewServer(a.config.HTTPAddr, a.apiHandler().Routes(), a.logger)
	return s.Run(ctx)
}

func (r *root) serveWebDAV(cmd *cobra.Command, _ []string) error {
	ctx, cancel := withSignals(cmd.Context())
	defer cancel()

	dir := r.cfg.WebDAVDir()
	if err := filex.EnsureDir(dir); err != nil {
		return err
	}
	logger := newLogger(r.cfg).With("module", "webdav_server")
	h := webdav.NewHandler(dir, r.cfg.RemoteUser, r.cfg.RemotePassword, logger)
	return api.NewServer(r.cfg.WebDAVAddr, h, logger).Run(ctx)
}

// Execute runs the command line and returns the first error.
func Execute(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	cmd := NewRootCommand(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	return cmd.ExecuteContext(ctx)
}
