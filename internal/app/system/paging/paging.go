// internal/app/system/paging/paging.go

// Package paging implements offset pagination for catalog list and search
// responses. Merge order upstream is deterministic (typed sources before
// legacy), so repeated calls with the same filter page stably.
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultLimit is the page size used when the caller does not specify one.
const DefaultLimit = 20

// MaxLimit caps caller-supplied page sizes.
const MaxLimit = 100

// Params holds sanitized pagination input.
type Params struct {
	Page  int // 1-based
	Limit int
}

// Parse extracts page/limit query parameters, clamping to sane values.
func Parse(r *http.Request) Params {
	p := Params{Page: 1, Limit: DefaultLimit}
	if v := query.Get(r, "page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			p.Page = n
		}
	}
	if v := query.Get(r, "limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			if n > MaxLimit {
				n = MaxLimit
			}
			p.Limit = n
		}
	}
	return p
}

// Offset returns the number of records to skip for this page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination block returned alongside list data.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// MetaFor computes the pagination block for a total result count.
func MetaFor(p Params, total int64) Meta {
	pages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	if pages < 1 {
		pages = 1
	}
	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: pages,
		HasNext:    p.Page < pages,
		HasPrev:    p.Page > 1,
	}
}

// Slice applies offset pagination to an in-memory merged result set.
// The federated engine merges all sources before paginating, so page
// boundaries fall on the merged ordering, not per-source ones.
func Slice[T any](rows []T, p Params) []T {
	start := p.Offset()
	if start >= len(rows) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}
