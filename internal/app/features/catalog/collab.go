// internal/app/features/catalog/collab.go
package catalog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/coursehub/internal/app/store/queries/collabfetch"
	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
)

// ServeCollaborative handles GET /courses/collaborative.
//
// Parameters: source=new|legacy|both, merge=separate|unified|prioritize_new,
// dedup=true, dedup_threshold (0..1), compare=none|summary|detailed,
// limit and offset (each applied per side, so the separate strategy pages
// its two lists independently). Unrecognized values are rejected up front;
// the fetch itself never fails as a whole, per-side errors ride in the
// response.
func (h *Handler) ServeCollaborative(w http.ResponseWriter, r *http.Request) {
	opts := collabfetch.Options{
		Source:         query.Get(r, "source"),
		MergeStrategy:  query.Get(r, "merge"),
		Comparison:     query.Get(r, "compare"),
		Dedup:          query.Get(r, "dedup") == "true",
		DedupThreshold: h.DedupThreshold,
	}

	switch opts.Source {
	case "", collabfetch.SourceNew, collabfetch.SourceLegacy, collabfetch.SourceBoth:
	default:
		writeError(w, http.StatusBadRequest, "source must be new, legacy, or both")
		return
	}
	switch opts.MergeStrategy {
	case "", collabfetch.MergeSeparate, collabfetch.MergeUnified, collabfetch.MergePrioritizeNew:
	default:
		writeError(w, http.StatusBadRequest, "merge must be separate, unified, or prioritize_new")
		return
	}
	switch opts.Comparison {
	case "", collabfetch.CompareNone, collabfetch.CompareSummary, collabfetch.CompareDetailed:
	default:
		writeError(w, http.StatusBadRequest, "compare must be none, summary, or detailed")
		return
	}

	if raw := query.Get(r, "dedup_threshold"); raw != "" {
		t, err := strconv.ParseFloat(raw, 64)
		if err != nil || t <= 0 || t > 1 {
			writeError(w, http.StatusBadRequest, "dedup_threshold must be a number in (0, 1]")
			return
		}
		opts.DedupThreshold = t
	}
	if raw := query.Get(r, "limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		opts.PerSideLimit = n
	}
	if raw := query.Get(r, "offset"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
			return
		}
		opts.PerSideOffset = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	writeJSON(w, http.StatusOK, h.Collab.Fetch(ctx, opts))
}
