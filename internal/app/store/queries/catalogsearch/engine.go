// internal/app/store/queries/catalogsearch/engine.go

// Package catalogsearch executes federated course queries across the four
// logical sources: the legacy flat collection and the three typed
// collections (live, blended, free).
//
// One filter is built from sanitized input and applied equivalently to every
// source. Sources are queried concurrently and fail independently: a source
// error is logged, recorded in the response metadata, and contributes zero
// results instead of aborting the request. Legacy hits are adapted into the
// typed shape on the way out. Merge order is deterministic — typed sources
// in declaration order, then legacy — so pagination is stable across
// repeated calls.
package catalogsearch

import (
	"context"
	"math"
	"sort"
	"sync"
	"unicode/utf8"

	enrollmentstore "github.com/dalemusser/coursehub/internal/app/store/enrollments"
	"github.com/dalemusser/coursehub/internal/app/system/classify"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Engine runs federated searches. It is stateless between calls; one Engine
// serves all requests.
type Engine struct {
	db              *mongo.Database
	enrollments     *enrollmentstore.Store
	defaultCurrency string
	log             *zap.Logger
}

// New builds a search engine. defaultCurrency is substituted when a
// requested currency matches nothing ("" means models.DefaultCurrency).
func New(db *mongo.Database, logger *zap.Logger, defaultCurrency string) *Engine {
	if defaultCurrency == "" {
		defaultCurrency = models.DefaultCurrency
	}
	return &Engine{
		db:              db,
		enrollments:     enrollmentstore.New(db),
		defaultCurrency: defaultCurrency,
		log:             logger,
	}
}

// SourceStat reports one source's contribution to a merged result.
type SourceStat struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
	Error  string `json:"error,omitempty"`
}

// Result is a merged, sorted (not yet paginated) federated query result.
type Result struct {
	Data     []models.AdaptedCourse   `json:"data"`
	Sources  []SourceStat             `json:"sources"`
	Currency *models.CurrencyFallback `json:"currency_fallback,omitempty"`
}

// Search executes the filter against all participating sources and merges.
func (e *Engine) Search(ctx context.Context, f models.SearchFilter) (Result, error) {
	var res Result

	// Enrollment-derived exclusions. A lookup failure widens results
	// instead of failing the search.
	if f.LearnerID != nil {
		ids, err := e.enrollments.EnrolledCourseIDs(ctx, *f.LearnerID)
		if err != nil {
			e.log.Warn("enrollment exclusion lookup failed; searching without exclusions",
				zap.String("learner_id", f.LearnerID.Hex()), zap.Error(err))
		} else {
			f.ExcludeIDs = append(f.ExcludeIDs, ids...)
		}
	}

	// Currency fallback: a requested currency that matches no published
	// course anywhere is replaced by the default.
	currency := f.Currency
	if f.Currency != "" {
		used := f.Currency
		if e.countPublishedInCurrency(ctx, f.Currency) == 0 {
			used = e.defaultCurrency
		}
		currency = used
		res.Currency = &models.CurrencyFallback{Requested: f.Currency, Used: used}
	}

	typedSources := typedSourcesFor(f)
	legacyF := legacyVariant(f)

	type sourceHits struct {
		hits []models.AdaptedCourse
		err  error
	}
	results := make(map[string]*sourceHits, len(typedSources)+1)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, courseType := range typedSources {
		wg.Add(1)
		go func(courseType string) {
			defer wg.Done()
			hits, err := e.searchTyped(ctx, courseType, f, currency)
			mu.Lock()
			results[models.CollectionFor(courseType)] = &sourceHits{hits: hits, err: err}
			mu.Unlock()
		}(courseType)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		hits, err := e.searchLegacy(ctx, legacyF, currency)
		mu.Lock()
		results[models.LegacyCollection] = &sourceHits{hits: hits, err: err}
		mu.Unlock()
	}()

	wg.Wait()

	// Deterministic merge: typed sources in declaration order, then legacy.
	order := make([]string, 0, len(typedSources)+1)
	for _, t := range typedSources {
		order = append(order, models.CollectionFor(t))
	}
	order = append(order, models.LegacyCollection)

	for _, source := range order {
		sr := results[source]
		stat := SourceStat{Source: source}
		if sr.err != nil {
			e.log.Error("source query failed; continuing with zero results",
				zap.String("source", source), zap.Error(sr.err))
			stat.Error = sr.err.Error()
		} else {
			stat.Count = len(sr.hits)
			res.Data = append(res.Data, sr.hits...)
		}
		res.Sources = append(res.Sources, stat)
	}

	switch f.Sort {
	case models.SortPriceAsc:
		sortByPrice(res.Data, currency, true)
	case models.SortPriceDesc:
		sortByPrice(res.Data, currency, false)
	}

	return res, nil
}

// legacyVariant narrows the legacy filter when a typed course-type token was
// requested but no class-type filter was given: the legacy side then matches
// only records whose class_type classifies to that type.
func legacyVariant(f models.SearchFilter) models.SearchFilter {
	if len(f.ClassTypes) > 0 || !models.IsValidCourseType(f.CourseType) {
		return f
	}
	switch f.CourseType {
	case models.CourseTypeLive:
		f.ClassTypes = []string{"live"}
	case models.CourseTypeBlended:
		f.ClassTypes = []string{"blend"}
	case models.CourseTypeFree:
		f.ClassTypes = []string{"self"}
	}
	return f
}

func (e *Engine) searchTyped(ctx context.Context, courseType string, f models.SearchFilter, currency string) ([]models.AdaptedCourse, error) {
	coll := models.CollectionFor(courseType)
	cur, err := e.db.Collection(coll).Find(ctx, TypedFilter(f, currency), e.findOptions(f))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.TypedCourse
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	hits := make([]models.AdaptedCourse, 0, len(rows))
	for _, tc := range rows {
		hits = append(hits, models.AdaptedCourse{
			TypedCourse: tc,
			Source:      coll,
		})
	}
	return hits, nil
}

func (e *Engine) searchLegacy(ctx context.Context, f models.SearchFilter, currency string) ([]models.AdaptedCourse, error) {
	cur, err := e.db.Collection(models.LegacyCollection).Find(ctx, LegacyFilter(f, currency), e.findOptions(f))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.Course
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	hits := make([]models.AdaptedCourse, 0, len(rows))
	for _, c := range rows {
		hit := classify.AdaptAuto(c)
		hit.Source = models.LegacyCollection
		hit.DeliveryFormat = classify.DeliveryFormat(c.ClassType)
		hits = append(hits, hit)
	}
	return hits, nil
}

// findOptions orders each source's results. Full-text searches rank by text
// score; everything else is newest-first, which keeps merge order stable.
func (e *Engine) findOptions(f models.SearchFilter) *options.FindOptions {
	opts := options.Find()
	if f.Sort == models.SortRelevance && utf8.RuneCountInString(f.Term) >= minTextSearchLen {
		opts.SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}})
		opts.SetSort(bson.D{{Key: "score", Value: bson.M{"$meta": "textScore"}}})
		return opts
	}
	opts.SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	return opts
}

// countPublishedInCurrency totals published documents carrying a price in
// the given currency across all four sources. Count errors on one source
// are logged and contribute zero; the fallback decision degrades gracefully.
func (e *Engine) countPublishedInCurrency(ctx context.Context, currency string) int64 {
	collections := []string{
		models.LiveCollection,
		models.BlendedCollection,
		models.FreeCollection,
		models.LegacyCollection,
	}
	filter := bson.M{"status": models.StatusPublished, "prices.currency": currency}

	var total int64
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, coll := range collections {
		wg.Add(1)
		go func(coll string) {
			defer wg.Done()
			n, err := e.db.Collection(coll).CountDocuments(ctx, filter)
			if err != nil {
				e.log.Warn("currency count failed", zap.String("source", coll), zap.Error(err))
				return
			}
			mu.Lock()
			total += n
			mu.Unlock()
		}(coll)
	}
	wg.Wait()
	return total
}

// sortByPrice orders the merged set by individual price in the effective
// currency. Records without a price in that currency sort last in either
// direction: missing is treated as +Inf ascending and zero descending.
func sortByPrice(hits []models.AdaptedCourse, currency string, ascending bool) {
	key := func(h models.AdaptedCourse) float64 {
		if p, ok := models.PriceIn(h.Prices, currency); ok {
			return p.IndividualAmount
		}
		if ascending {
			return math.Inf(1)
		}
		return 0
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if ascending {
			return key(hits[i]) < key(hits[j])
		}
		return key(hits[i]) > key(hits[j])
	})
}

// GetByIDAcrossSources looks an id up in every source, typed first.
// The first hit wins; legacy hits come back adapted. mongo.ErrNoDocuments
// when no source has the document.
func (e *Engine) GetByIDAcrossSources(ctx context.Context, id primitive.ObjectID) (models.AdaptedCourse, error) {
	for _, t := range models.CourseTypes {
		coll := models.CollectionFor(t)
		var tc models.TypedCourse
		err := e.db.Collection(coll).FindOne(ctx, bson.M{"_id": id}).Decode(&tc)
		if err == nil {
			return models.AdaptedCourse{TypedCourse: tc, Source: coll}, nil
		}
		if err != mongo.ErrNoDocuments {
			e.log.Warn("source lookup failed", zap.String("source", coll), zap.Error(err))
		}
	}

	var c models.Course
	if err := e.db.Collection(models.LegacyCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return models.AdaptedCourse{}, err
	}
	hit := classify.AdaptAuto(c)
	hit.Source = models.LegacyCollection
	hit.DeliveryFormat = classify.DeliveryFormat(c.ClassType)
	return hit, nil
}
