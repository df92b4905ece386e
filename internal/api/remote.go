package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/mindstitch/internal/backup"
	"github.com/dmitrijs2005/mindstitch/internal/remote"
)

type endpointRequest struct {
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// endpoint takes the target from the body, falling back to the saved
// profile when the body is empty or names no URL.
func (h *Handler) endpoint(r *http.Request) (remote.Endpoint, error) {
	var req endpointRequest
	if err := decode(r, &req); err != nil && !errors.Is(err, io.EOF) {
		return remote.Endpoint{}, err
	}
	if req.URL != "" {
		return remote.Endpoint{URL: req.URL, Username: req.Username, Password: req.Password}, nil
	}
	return h.profiles.Load(r.Context())
}

type runFunc func(ctx context.Context, ep remote.Endpoint) (*backup.Report, error)

func (h *Handler) run(w http.ResponseWriter, r *http.Request, fn runFunc) {
	ep, err := h.endpoint(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rep, err := fn(r.Context(), ep)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *Handler) runBackup(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.backup.Backup)
}

func (h *Handler) runRestore(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.backup.Restore)
}

func (h *Handler) checkRemote(w http.ResponseWriter, r *http.Request) {
	ep, err := h.endpoint(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": h.backup.TestConnection(r.Context(), ep)})
}
