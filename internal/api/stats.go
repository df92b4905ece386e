package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/mindstitch/internal/common"
)

type calendarResponse struct {
	Year    int         `json:"year"`
	Month   int         `json:"month"`
	Ratings map[int]int `json:"ratings"`
	Todos   map[int]int `json:"open_todos"`
}

func (h *Handler) heatmap(w http.ResponseWriter, r *http.Request) {
	hm, err := h.stats.ActivityHeatmap(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hm)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.stats.Summary(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// monthParam reads year and month, defaulting to the current month.
func (h *Handler) monthParam(r *http.Request) (int, time.Month, error) {
	today := h.stats.Today()
	year, month := today.Year(), today.Month()

	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: year %q", common.ErrInvalidDate, v)
		}
		year = y
	}
	if v := q.Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, fmt.Errorf("%w: month %q", common.ErrInvalidDate, v)
		}
		month = time.Month(m)
	}
	return year, month, nil
}

func (h *Handler) calendar(w http.ResponseWriter, r *http.Request) {
	year, month, err := h.monthParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ratings, err := h.stats.MonthlyRatingTotals(r.Context(), year, month)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	todos, err := h.stats.MonthlyTodoCounts(r.Context(), year, month)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, calendarResponse{Year: year, Month: int(month), Ratings: ratings, Todos: todos})
}

func (h *Handler) day(w http.ResponseWriter, r *http.Request) {
	d, err := h.parseDate(r.URL.Query().Get("date"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	view, err := h.stats.DayItems(r.Context(), d.Year(), d.Month(), d.Day())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
