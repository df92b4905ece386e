package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/mindstitch/internal/content"
	"github.com/dmitrijs2005/mindstitch/internal/models"
	"github.com/dmitrijs2005/mindstitch/internal/services"
)

// ideaRequest accepts contentBlocks either as a block array or as the
// encoded string an idea record carries, and tags either as a list or as
// the comma-joined string, so a fetched record can be sent straight back.
type ideaRequest struct {
	Title         string          `json:"title"`
	ContentBlocks json.RawMessage `json:"contentBlocks"`
	Tags          tagList         `json:"tags"`
	Folder        string          `json:"folder"`
	Rating        int             `json:"rating"`
}

type tagList []string

func (t *tagList) UnmarshalJSON(b []byte) error {
	var joined string
	if err := json.Unmarshal(b, &joined); err == nil {
		*t = models.Idea{Tags: joined}.TagList()
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("tags: want a list or a comma-joined string: %w", err)
	}
	*t = list
	return nil
}

// blocks returns nil when contentBlocks is absent, which Edit reads as
// "keep the current body". Input that cannot be a block array is rejected
// rather than stored as an empty body.
func (req ideaRequest) blocks() ([]content.Block, error) {
	raw := bytes.TrimSpace(req.ContentBlocks)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, errors.Join(errBadRequest, err)
		}
		if strings.TrimSpace(encoded) == "" {
			return nil, nil
		}
		raw = []byte(encoded)
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, errors.Join(errBadRequest, fmt.Errorf("contentBlocks: %w", err))
	}
	blocks := content.Decode(string(raw))
	if len(elems) > 0 && len(blocks) == 0 {
		return nil, fmt.Errorf("%w: contentBlocks has no recognizable blocks", errBadRequest)
	}
	return blocks, nil
}

func (req ideaRequest) draft() (services.Draft, error) {
	blocks, err := req.blocks()
	if err != nil {
		return services.Draft{}, err
	}
	return services.Draft{
		Title:  req.Title,
		Blocks: blocks,
		Tags:   req.Tags,
		Folder: req.Folder,
		Rating: req.Rating,
	}, nil
}

func (h *Handler) listIdeas(w http.ResponseWriter, r *http.Request) {
	var (
		list []models.Idea
		err  error
	)
	q := r.URL.Query()
	switch {
	case q.Get("folder") != "":
		list, err = h.ideas.ByFolder(r.Context(), q.Get("folder"))
	default:
		list, err = h.ideas.Search(r.Context(), q.Get("q"))
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if list == nil {
		list = []models.Idea{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) getIdea(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	idea, err := h.ideas.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, idea)
}

func (h *Handler) captureIdea(w http.ResponseWriter, r *http.Request) {
	var req ideaRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	d, err := req.draft()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	idea, err := h.ideas.Capture(r.Context(), d)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, idea)
}

func (h *Handler) editIdea(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req ideaRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	d, err := req.draft()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	idea, err := h.ideas.Edit(r.Context(), id, d)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, idea)
}

func (h *Handler) deleteIdea(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.ideas.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) boostIdea(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	idea, err := h.ideas.Boost(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, idea)
}

func (h *Handler) rateIdea(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req struct {
		Rating int `json:"rating"`
	}
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	idea, err := h.ideas.Rate(r.Context(), id, req.Rating)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, idea)
}

func (h *Handler) folders(w http.ResponseWriter, r *http.Request) {
	list, err := h.ideas.Folders(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if list == nil {
		list = []string{}
	}
	writeJSON(w, http.StatusOK, list)
}
