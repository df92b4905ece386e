// Package api exposes the journal over a small JSON HTTP API.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/mindstitch/internal/backup"
	"github.com/dmitrijs2005/mindstitch/internal/logging"
	"github.com/dmitrijs2005/mindstitch/internal/remote"
	"github.com/dmitrijs2005/mindstitch/internal/services"
	"github.com/dmitrijs2005/mindstitch/internal/stats"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Backuper runs backups and restores against an endpoint.
type Backuper interface {
	Backup(ctx context.Context, ep remote.Endpoint) (*backup.Report, error)
	Restore(ctx context.Context, ep remote.Endpoint) (*backup.Report, error)
	TestConnection(ctx context.Context, ep remote.Endpoint) bool
}

type Handler struct {
	ideas    services.IdeaService
	todos    services.TodoService
	profiles services.RemoteProfileService
	stats    *stats.Service
	backup   Backuper
	logger   logging.Logger
}

func NewHandler(is services.IdeaService, ts services.TodoService, ps services.RemoteProfileService,
	st *stats.Service, b Backuper, l logging.Logger) *Handler {
	return &Handler{
		ideas:    is,
		todos:    ts,
		profiles: ps,
		stats:    st,
		backup:   b,
		logger:   l.With("module", "api"),
	}
}

// Routes builds the router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Route("/ideas", func(r chi.Router) {
			r.Get("/", h.listIdeas)
			r.Post("/", h.captureIdea)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getIdea)
				r.Put("/", h.editIdea)
				r.Delete("/", h.deleteIdea)
				r.Post("/boost", h.boostIdea)
				r.Put("/rating", h.rateIdea)
			})
		})
		r.Get("/folders", h.folders)

		r.Route("/todos", func(r chi.Router) {
			r.Get("/", h.todosForDay)
			r.Post("/", h.createTodo)
			r.Post("/{id}/toggle", h.toggleTodo)
			r.Delete("/{id}", h.deleteTodo)
		})

		r.Route("/stats", func(r chi.Router) {
			r.Get("/heatmap", h.heatmap)
			r.Get("/calendar", h.calendar)
			r.Get("/day", h.day)
			r.Get("/summary", h.summary)
		})

		r.Post("/backup", h.runBackup)
		r.Post("/restore", h.runRestore)
		r.Post("/remote/check", h.checkRemote)
	})

	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Info(r.Context(), "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
