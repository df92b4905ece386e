package api

import (
	"net/http"

	"github.com/dmitrijs2005/mindstitch/internal/models"
)

func (h *Handler) todosForDay(w http.ResponseWriter, r *http.Request) {
	day, err := h.parseDate(r.URL.Query().Get("date"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	list, err := h.todos.ForDay(r.Context(), day.Year(), day.Month(), day.Day())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if list == nil {
		list = []models.Todo{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) createTodo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
		Date  string `json:"date"`
	}
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	day, err := h.parseDate(req.Date)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	todo, err := h.todos.Create(r.Context(), req.Title, day.Year(), day.Month(), day.Day())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, todo)
}

func (h *Handler) toggleTodo(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	todo, err := h.todos.Toggle(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

func (h *Handler) deleteTodo(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.todos.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
