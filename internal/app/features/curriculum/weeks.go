// internal/app/features/curriculum/weeks.go
package curriculum

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	curidx "github.com/dalemusser/coursehub/internal/app/system/curriculum"
	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// weekRequest is the body for adding or updating a week.
type weekRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ServeGetWeek handles GET .../curriculum/weeks/{weekID}. A miss responds
// 404 with the currently valid week ids.
func (h *Handler) ServeGetWeek(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	cur, _, _, ok := h.loadTree(ctx, w, r)
	if !ok {
		return
	}
	weekID := chi.URLParam(r, "weekID")
	week := curidx.FindWeek(&cur, weekID)
	if week == nil {
		writeError(w, http.StatusNotFound, weekNotFound(cur, weekID).Error())
		return
	}
	writeJSON(w, http.StatusOK, week)
}

// ServeAddWeek handles POST .../curriculum/weeks. The new week is appended
// and picks up its positional id from the re-index.
func (h *Handler) ServeAddWeek(w http.ResponseWriter, r *http.Request) {
	var req weekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	h.mutate(w, r, http.StatusBadRequest, func(cur *models.Curriculum) error {
		if req.Title == "" {
			return errors.New("week title is required")
		}
		cur.Weeks = append(cur.Weeks, models.Week{
			Title:       req.Title,
			Description: req.Description,
		})
		return nil
	})
}

// ServeUpdateWeek handles PUT .../curriculum/weeks/{weekID}.
func (h *Handler) ServeUpdateWeek(w http.ResponseWriter, r *http.Request) {
	var req weekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	weekID := chi.URLParam(r, "weekID")
	h.mutate(w, r, http.StatusNotFound, func(cur *models.Curriculum) error {
		week := curidx.FindWeek(cur, weekID)
		if week == nil {
			return weekNotFound(*cur, weekID)
		}
		if req.Title != "" {
			week.Title = req.Title
		}
		if req.Description != "" {
			week.Description = req.Description
		}
		return nil
	})
}

// ServeDeleteWeek handles DELETE .../curriculum/weeks/{weekID}. Later weeks
// shift up and are renumbered by the re-index.
func (h *Handler) ServeDeleteWeek(w http.ResponseWriter, r *http.Request) {
	weekID := chi.URLParam(r, "weekID")
	h.mutate(w, r, http.StatusNotFound, func(cur *models.Curriculum) error {
		for i := range cur.Weeks {
			if cur.Weeks[i].ID == weekID {
				cur.Weeks = append(cur.Weeks[:i], cur.Weeks[i+1:]...)
				return nil
			}
		}
		return weekNotFound(*cur, weekID)
	})
}

// reorderRequest is the body for the week reorder endpoint: the complete
// new ordering by current week id.
type reorderRequest struct {
	IDs []string `json:"ids"`
}

// ServeReorderWeeks handles PUT .../curriculum/weeks:reorder. The id list
// must be a permutation of the current week ids; ids then regenerate to
// match the new positions.
func (h *Handler) ServeReorderWeeks(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	h.mutate(w, r, http.StatusBadRequest, func(cur *models.Curriculum) error {
		return curidx.Reorder(cur, req.IDs)
	})
}
