// internal/app/store/queries/collabfetch/collabfetch.go

// Package collabfetch is the alternate catalog entry point used when
// callers need source-by-source provenance instead of one merged list:
// admin reconciliation views, migration dashboards, duplicate audits.
//
// The typed ("new") side and the legacy side are fetched independently,
// each timed and with its own error capture, so one side failing never
// blocks the other. Three merge strategies and an optional diagnostic
// schema comparison are applied on top.
package collabfetch

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/coursehub/internal/app/system/classify"
	"github.com/dalemusser/coursehub/internal/app/system/dedup"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Source selectors.
const (
	SourceNew    = "new"
	SourceLegacy = "legacy"
	SourceBoth   = "both"
)

// Merge strategies.
const (
	MergeSeparate      = "separate"
	MergeUnified       = "unified"
	MergePrioritizeNew = "prioritize_new"
)

// Comparison report levels.
const (
	CompareNone     = "none"
	CompareSummary  = "summary"
	CompareDetailed = "detailed"
)

// Options selects sources, merge strategy, and diagnostics for one fetch.
// PerSideLimit and PerSideOffset page each side independently, so the
// separate strategy serves two lists with their own pagination windows.
type Options struct {
	Source         string  // new | legacy | both (default both)
	MergeStrategy  string  // separate | unified | prioritize_new (default separate)
	Dedup          bool    // run title deduplication over the combined set
	DedupThreshold float64 // 0 means dedup.DefaultThreshold
	Comparison     string  // none | summary | detailed (default none)
	PerSideLimit   int64   // cap per side; 0 means no cap
	PerSideOffset  int64   // records skipped per side; 0 means none
}

// SideResult is one side's independently captured outcome.
type SideResult struct {
	Data       []models.AdaptedCourse `json:"data"`
	Count      int                    `json:"count"`
	DurationMS int64                  `json:"duration_ms"`
	Error      string                 `json:"error,omitempty"`
}

// Metadata summarizes a collaborative fetch.
type Metadata struct {
	Source        string `json:"source"`
	MergeStrategy string `json:"merge_strategy"`
	NewCount      int    `json:"new_count"`
	LegacyCount   int    `json:"legacy_count"`
	ElapsedMS     int64  `json:"elapsed_ms"`
}

// Response is the full collaborative fetch result. Data is populated for
// the unified and prioritize_new strategies; New/Legacy always carry the
// per-side lists for provenance.
type Response struct {
	Data       []models.AdaptedCourse `json:"data,omitempty"`
	New        *SideResult            `json:"new,omitempty"`
	Legacy     *SideResult            `json:"legacy,omitempty"`
	Dedup      *dedup.Result          `json:"dedup,omitempty"`
	Comparison *Comparison            `json:"comparison,omitempty"`
	Metadata   Metadata               `json:"metadata"`
}

// Coordinator orchestrates dual-source fetches.
type Coordinator struct {
	db  *mongo.Database
	log *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Coordinator {
	return &Coordinator{db: db, log: logger}
}

// Fetch runs the selected sides concurrently and applies the merge strategy.
func (c *Coordinator) Fetch(ctx context.Context, opts Options) Response {
	if opts.Source == "" {
		opts.Source = SourceBoth
	}
	if opts.MergeStrategy == "" {
		opts.MergeStrategy = MergeSeparate
	}
	if opts.Comparison == "" {
		opts.Comparison = CompareNone
	}

	start := time.Now()
	var newSide, legacySide *SideResult

	done := make(chan struct{})
	if opts.Source == SourceNew || opts.Source == SourceBoth {
		newSide = &SideResult{}
		go func() {
			defer close(done)
			c.fetchNew(ctx, opts.PerSideLimit, opts.PerSideOffset, newSide)
		}()
	} else {
		close(done)
	}
	if opts.Source == SourceLegacy || opts.Source == SourceBoth {
		legacySide = &SideResult{}
		c.fetchLegacy(ctx, opts.PerSideLimit, opts.PerSideOffset, legacySide)
	}
	<-done

	resp := Response{
		New:    newSide,
		Legacy: legacySide,
		Metadata: Metadata{
			Source:        opts.Source,
			MergeStrategy: opts.MergeStrategy,
		},
	}
	if newSide != nil {
		resp.Metadata.NewCount = newSide.Count
	}
	if legacySide != nil {
		resp.Metadata.LegacyCount = legacySide.Count
	}

	combined := combine(newSide, legacySide, opts.MergeStrategy)

	switch opts.MergeStrategy {
	case MergeSeparate:
		if opts.Dedup {
			// Cross-source dedup is diagnostic only in separate mode: the
			// per-side lists stay intact and the report rides alongside.
			result := dedup.Run(combined, opts.DedupThreshold)
			resp.Dedup = &result
		}
	case MergeUnified, MergePrioritizeNew:
		if opts.Dedup {
			result := dedup.Run(combined, opts.DedupThreshold)
			resp.Dedup = &result
			resp.Data = result.Unique
		} else {
			resp.Data = combined
		}
	}

	if opts.Comparison != CompareNone {
		resp.Comparison = c.compare(newSide, legacySide, opts.Comparison)
	}

	resp.Metadata.ElapsedMS = time.Since(start).Milliseconds()
	return resp
}

// combine builds the candidate list for merge/dedup. prioritize_new keeps
// every typed record and admits a legacy record only when no typed record
// carries the exact same title (case-insensitive).
func combine(newSide, legacySide *SideResult, strategy string) []models.AdaptedCourse {
	var out []models.AdaptedCourse
	if newSide != nil {
		out = append(out, newSide.Data...)
	}
	if legacySide == nil {
		return out
	}

	if strategy != MergePrioritizeNew || newSide == nil {
		return append(out, legacySide.Data...)
	}

	titles := make(map[string]bool, len(newSide.Data))
	for _, h := range newSide.Data {
		titles[strings.ToLower(h.Title)] = true
	}
	for _, h := range legacySide.Data {
		if !titles[strings.ToLower(h.Title)] {
			out = append(out, h)
		}
	}
	return out
}

// fetchNew pulls from the three typed collections sequentially into one
// side. Per-collection failures are captured on the side and remaining
// collections still contribute. The side's pagination window is applied to
// the concatenated result, so the new side pages as one list even though it
// spans three collections.
func (c *Coordinator) fetchNew(ctx context.Context, limit, offset int64, side *SideResult) {
	start := time.Now()
	defer func() {
		side.Data = window(side.Data, limit, offset)
		side.Count = len(side.Data)
		side.DurationMS = time.Since(start).Milliseconds()
	}()

	// Each collection only needs to contribute enough rows to fill the
	// window in the worst case.
	fetchCap := limit
	if fetchCap > 0 {
		fetchCap += offset
	}

	for _, t := range models.CourseTypes {
		coll := models.CollectionFor(t)
		opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
		if fetchCap > 0 {
			opts.SetLimit(fetchCap)
		}
		cur, err := c.db.Collection(coll).Find(ctx, bson.M{}, opts)
		if err != nil {
			c.recordSideError(side, coll, err)
			continue
		}
		var rows []models.TypedCourse
		err = cur.All(ctx, &rows)
		cur.Close(ctx)
		if err != nil {
			c.recordSideError(side, coll, err)
			continue
		}
		for _, tc := range rows {
			side.Data = append(side.Data, models.AdaptedCourse{TypedCourse: tc, Source: coll})
		}
	}
}

// window applies a side's pagination to its collected records.
func window(data []models.AdaptedCourse, limit, offset int64) []models.AdaptedCourse {
	if offset > 0 {
		if offset >= int64(len(data)) {
			return nil
		}
		data = data[offset:]
	}
	if limit > 0 && int64(len(data)) > limit {
		data = data[:limit]
	}
	return data
}

// fetchLegacy pulls and adapts the legacy collection into one side.
func (c *Coordinator) fetchLegacy(ctx context.Context, limit, offset int64, side *SideResult) {
	start := time.Now()
	defer func() {
		side.Count = len(side.Data)
		side.DurationMS = time.Since(start).Milliseconds()
	}()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	if offset > 0 {
		opts.SetSkip(offset)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := c.db.Collection(models.LegacyCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		c.recordSideError(side, models.LegacyCollection, err)
		return
	}
	var rows []models.Course
	err = cur.All(ctx, &rows)
	cur.Close(ctx)
	if err != nil {
		c.recordSideError(side, models.LegacyCollection, err)
		return
	}
	for _, row := range rows {
		hit := classify.AdaptAuto(row)
		hit.Source = models.LegacyCollection
		hit.DeliveryFormat = classify.DeliveryFormat(row.ClassType)
		side.Data = append(side.Data, hit)
	}
}

func (c *Coordinator) recordSideError(side *SideResult, source string, err error) {
	c.log.Error("collaborative fetch source failed",
		zap.String("source", source), zap.Error(err))
	if side.Error == "" {
		side.Error = source + ": " + err.Error()
	} else {
		side.Error += "; " + source + ": " + err.Error()
	}
}
