// internal/app/features/catalog/search.go
package catalog

import (
	"context"
	"net/http"

	"github.com/dalemusser/coursehub/internal/app/store/queries/catalogsearch"
	"github.com/dalemusser/coursehub/internal/app/system/paging"
	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

// searchResponse is the federated search payload. Facets and PriceBounds are
// present only when ?facets=true; Currency only when a fallback occurred.
type searchResponse struct {
	Data           []models.AdaptedCourse     `json:"data"`
	Meta           paging.Meta                `json:"meta"`
	Sources        []catalogsearch.SourceStat `json:"sources"`
	FiltersApplied map[string]any             `json:"filters_applied"`
	Currency       *models.CurrencyFallback   `json:"currency_fallback,omitempty"`

	Facets      []models.Facet      `json:"facets,omitempty"`
	PriceBounds *models.PriceBounds `json:"price_bounds,omitempty"`
	FacetSource string              `json:"facet_source,omitempty"`
}

// ServeSearch handles GET /courses/search.
//
// The learner-identity cookie, when present and validly signed, feeds
// enrolled-course exclusion; everything else arrives as query parameters
// and goes through the sanitize pipeline inside BuildFilter.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	raw := rawParamsFrom(r)
	raw.LearnerID = h.learnerID(r)
	f := catalogsearch.BuildFilter(raw)
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	result, err := h.Engine.Search(ctx, f)
	if err != nil {
		h.Log.Error("federated search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	resp := searchResponse{
		Data:           paging.Slice(result.Data, p),
		Meta:           paging.MetaFor(p, int64(len(result.Data))),
		Sources:        result.Sources,
		FiltersApplied: filtersApplied(f),
		Currency:       result.Currency,
	}

	if query.Get(r, "facets") == "true" {
		currency := f.Currency
		if result.Currency != nil {
			currency = result.Currency.Used
		}
		if currency == "" {
			currency = models.DefaultCurrency
		}
		facets, err := h.Engine.Facets(ctx, f, currency)
		if err != nil {
			// facet failure degrades the response, not the search
			h.Log.Warn("facet aggregation failed", zap.Error(err))
		} else {
			resp.Facets = facets.Facets
			resp.PriceBounds = facets.PriceBounds
			resp.FacetSource = facets.Source
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// filtersApplied echoes the sanitized criteria so callers can see what the
// engine actually ran after decoding and normalization.
func filtersApplied(f models.SearchFilter) map[string]any {
	out := map[string]any{"status": f.Status, "sort": f.Sort}
	if f.Term != "" {
		out["term"] = f.Term
	}
	if len(f.ClassTypes) > 0 {
		out["class_types"] = f.ClassTypes
	}
	if len(f.Categories) > 0 {
		out["course_categories"] = f.Categories
	}
	if len(f.CategoryTypes) > 0 {
		out["category_types"] = f.CategoryTypes
	}
	if len(f.Tags) > 0 {
		out["tags"] = f.Tags
	}
	if len(f.GradeLevels) > 0 {
		out["grade_levels"] = f.GradeLevels
	}
	if f.CourseType != "" {
		out["course_type"] = f.CourseType
	}
	if f.Currency != "" {
		out["currency"] = f.Currency
	}
	if f.PriceMin != nil {
		out["price_min"] = *f.PriceMin
	}
	if f.PriceMax != nil {
		out["price_max"] = *f.PriceMax
	}
	if n := len(f.ExcludeIDs); n > 0 {
		out["excluded_ids"] = n
	}
	return out
}
