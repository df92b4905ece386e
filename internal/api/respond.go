package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/mindstitch/internal/backup"
	"github.com/dmitrijs2005/mindstitch/internal/common"
	"github.com/dmitrijs2005/mindstitch/internal/services"
	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

var errBadRequest = errors.New("bad request")

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, common.ErrEmptyTitle),
		errors.Is(err, common.ErrInvalidRating),
		errors.Is(err, common.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrNotFound), errors.Is(err, backup.ErrNoBackupFound):
		return http.StatusNotFound
	case errors.Is(err, backup.ErrNothingToBackup), errors.Is(err, services.ErrNoRemoteProfile):
		return http.StatusConflict
	case errors.Is(err, backup.ErrManifestUpload), errors.Is(err, backup.ErrManifestInvalid):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		h.logger.Error(r.Context(), err.Error())
		msg = "internal error"
	}
	writeJSON(w, code, errorBody{Error: msg})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Join(errBadRequest, err)
	}
	return nil
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadRequest
	}
	return id, nil
}

// parseDate reads YYYY-MM-DD in the journal's location; empty means today.
func (h *Handler) parseDate(v string) (time.Time, error) {
	if v == "" {
		return h.stats.Today(), nil
	}
	t, err := time.ParseInLocation(dateLayout, v, h.stats.Location())
	if err != nil {
		return time.Time{}, errors.Join(common.ErrInvalidDate, err)
	}
	return t, nil
}
