// Package cli wires configuration, storage, services and remotes together
// and exposes them as an interactive journal and as one-shot commands.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/mindstitch/internal/api"
	"github.com/dmitrijs2005/mindstitch/internal/backup"
	"github.com/dmitrijs2005/mindstitch/internal/config"
	"github.com/dmitrijs2005/mindstitch/internal/filex"
	"github.com/dmitrijs2005/mindstitch/internal/logging"
	"github.com/dmitrijs2005/mindstitch/internal/netx"
	"github.com/dmitrijs2005/mindstitch/internal/remote"
	"github.com/dmitrijs2005/mindstitch/internal/remote/s3store"
	"github.com/dmitrijs2005/mindstitch/internal/remote/webdav"
	"github.com/dmitrijs2005/mindstitch/internal/services"
	"github.com/dmitrijs2005/mindstitch/internal/stats"
	"github.com/dmitrijs2005/mindstitch/internal/storage"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	store    *storage.Store
	ideas    services.IdeaService
	todos    services.TodoService
	profiles services.RemoteProfileService
	stats    *stats.Service
	backup   *backup.Service

	reader *bufio.Reader
	out    io.Writer
}

// newLogger writes to stderr so command output stays clean on stdout.
func newLogger(c *config.Config) logging.Logger {
	return logging.New(c.LogLevel, logging.Format(c.LogFormat), os.Stderr)
}

func timeouts(c *config.Config) netx.Timeouts {
	return netx.Timeouts{Connect: c.ConnectTimeout, Write: c.WriteTimeout, Read: c.ReadTimeout}
}

// NewApp opens the journal described by c. in and out carry the
// interactive session.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out io.Writer) (*App, error) {
	logger := newLogger(c)

	if err := filex.EnsureDir(c.DataDir); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	st, err := storage.Open(ctx, c.DatabaseDriver, c.DSN())
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	registry := &remote.Registry{
		WebDAV: webdav.NewClient(timeouts(c), logger.With("module", "webdav")),
		S3:     s3store.New(c.S3Region, c.S3BaseEndpoint, timeouts(c), logger.With("module", "s3")),
	}

	bs := backup.NewService(st, registry, c.DataDir, logger, backup.WithWorkers(c.TransferWorkers))

	return &App{
		config:   c,
		logger:   logger,
		store:    st,
		ideas:    services.NewIdeaService(st.Ideas, time.Now),
		todos:    services.NewTodoService(st.Todos, time.Now, time.Local),
		profiles: services.NewRemoteProfileService(st.Metadata, c.DataDir),
		stats:    stats.NewService(st.Ideas, st.Todos, time.Now, time.Local),
		backup:   bs,
		reader:   bufio.NewReader(in),
		out:      out,
	}, nil
}

func (a *App) Close() error {
	return a.store.Close()
}

// endpoint prefers a target given in the configuration over the saved
// profile.
func (a *App) endpoint(ctx context.Context) (remote.Endpoint, error) {
	if a.config.RemoteURL != "" {
		return remote.Endpoint{
			URL:      a.config.RemoteURL,
			Username: a.config.RemoteUser,
			Password: a.config.RemotePassword,
		}, nil
	}
	return a.profiles.Load(ctx)
}

// apiHandler exposes the same services over HTTP.
func (a *App) apiHandler() *api.Handler {
	return api.NewHandler(a.ideas, a.todos, a.profiles, a.stats, a.backup, a.logger)
}
