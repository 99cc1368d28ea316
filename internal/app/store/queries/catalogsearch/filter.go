// internal/app/store/queries/catalogsearch/filter.go
package catalogsearch

import (
	"strings"
	"unicode/utf8"

	"github.com/dalemusser/coursehub/internal/app/system/sanitize"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RawParams carries the raw, untrusted filter parameters exactly as they
// arrived on the request. Everything here goes through the sanitize
// pipeline before it can touch a query.
type RawParams struct {
	Term         string
	ClassType    string
	Category     string
	CategoryType string
	Tag          string
	GradeLevel   string
	CourseType   string
	Status       string
	Currency     string
	PriceRange   string // "min-max"
	ExcludeIDs   string // comma/pipe/semicolon separated hex ids
	LearnerID    string // hex id resolved from the learner cookie
	Sort         string
}

// BuildFilter turns raw parameters into sanitized criteria. It never fails:
// undecodable values are truncated at the last good step, unparsable price
// ranges are dropped, and invalid exclusion ids are skipped.
func BuildFilter(raw RawParams) models.SearchFilter {
	f := models.SearchFilter{
		Term:   strings.TrimSpace(sanitize.DecodeParam(raw.Term)),
		Status: models.StatusPublished,
		Sort:   models.SortRelevance,
	}

	if s := strings.TrimSpace(raw.Status); s != "" {
		f.Status = strings.ToLower(sanitize.DecodeParam(s))
	}

	// Class-type values are free text ("Live Courses", "recorded"); bucket
	// each into a canonical token and de-duplicate.
	if raw.ClassType != "" {
		seen := map[string]bool{}
		for _, v := range sanitize.SplitMulti(sanitize.DecodeParam(raw.ClassType)) {
			tok := sanitize.NormalizeClassType(v)
			if !seen[tok] {
				seen[tok] = true
				f.ClassTypes = append(f.ClassTypes, tok)
			}
		}
	}

	f.Categories = sanitize.SplitMulti(sanitize.DecodeParam(raw.Category))
	f.CategoryTypes = sanitize.SplitMulti(sanitize.DecodeParam(raw.CategoryType))
	f.Tags = sanitize.SplitMulti(sanitize.DecodeParam(raw.Tag))
	f.GradeLevels = sanitize.SplitMulti(sanitize.DecodeParam(raw.GradeLevel))

	f.CourseType = strings.ToLower(strings.TrimSpace(sanitize.DecodeParam(raw.CourseType)))

	if raw.Currency != "" {
		f.Currency = strings.ToUpper(strings.TrimSpace(sanitize.DecodeParam(raw.Currency)))
	}

	if raw.PriceRange != "" {
		if min, max, ok := sanitize.ParsePriceRange(sanitize.DecodeParam(raw.PriceRange)); ok {
			f.PriceMin, f.PriceMax = min, max
		}
	}

	for _, v := range sanitize.SplitMulti(sanitize.DecodeParam(raw.ExcludeIDs)) {
		if id, err := primitive.ObjectIDFromHex(v); err == nil {
			f.ExcludeIDs = append(f.ExcludeIDs, id)
		}
	}

	if raw.LearnerID != "" {
		if id, err := primitive.ObjectIDFromHex(raw.LearnerID); err == nil {
			f.LearnerID = &id
		}
	}

	switch raw.Sort {
	case models.SortPriceAsc, models.SortPriceDesc:
		f.Sort = raw.Sort
	}

	return f
}

// minTextSearchLen is the decoded term length at which full-text ranking is
// used; shorter terms fall back to escaped-pattern matching.
const minTextSearchLen = 3

// anchoredIn builds a case-insensitive, anchored, escaped $in clause for a
// multi-value field. Values can only match themselves.
func anchoredIn(values []string) bson.M {
	patterns := make([]primitive.Regex, 0, len(values))
	for _, v := range values {
		patterns = append(patterns, primitive.Regex{Pattern: sanitize.AnchoredPattern(v), Options: "i"})
	}
	return bson.M{"$in": patterns}
}

// termClause builds the free-text term criteria. Terms long enough for the
// text index use $text; shorter ones OR an escaped substring pattern across
// the searchable fields. Length is counted in runes so a single multibyte
// character is still treated as a short term.
func termClause(term string) bson.M {
	if utf8.RuneCountInString(term) >= minTextSearchLen {
		return bson.M{"$text": bson.M{"$search": term}}
	}
	p := primitive.Regex{Pattern: sanitize.EscapePattern(term), Options: "i"}
	return bson.M{"$or": []bson.M{
		{"title": p},
		{"course_category": p},
		{"tags": p},
		{"description": p},
		{"grade_level": p},
	}}
}

// sharedCriteria adds the criteria common to the legacy and typed filters.
func sharedCriteria(q bson.M, f models.SearchFilter, currency string) {
	if f.Status != "" {
		q["status"] = f.Status
	}
	if len(f.Categories) > 0 {
		// Exact string/array membership, no pattern: course_category is the
		// index-friendly field and its values are controlled vocabulary.
		q["course_category"] = bson.M{"$in": f.Categories}
	}
	if len(f.CategoryTypes) > 0 {
		q["category_type"] = anchoredIn(f.CategoryTypes)
	}
	if len(f.Tags) > 0 {
		q["tags"] = anchoredIn(f.Tags)
	}
	if len(f.GradeLevels) > 0 {
		q["grade_level"] = anchoredIn(f.GradeLevels)
	}
	if len(f.ExcludeIDs) > 0 {
		q["_id"] = bson.M{"$nin": f.ExcludeIDs}
	}
	if f.PriceMin != nil && f.PriceMax != nil {
		elem := bson.M{"individual_amount": bson.M{"$gte": *f.PriceMin, "$lte": *f.PriceMax}}
		if currency != "" {
			elem["currency"] = currency
		}
		q["prices"] = bson.M{"$elemMatch": elem}
	}
}

// classTypeClause builds the legacy class_type criteria for one canonical
// token. live and blend match their substring. The self token matches the
// complement of live/blend, so every record the classifier adapts as free
// (arbitrary labels, blank, field absent) is reachable through it.
func classTypeClause(tok string) bson.M {
	p := primitive.Regex{Pattern: sanitize.ClassTypePattern(tok), Options: "i"}
	switch tok {
	case sanitize.ClassLive, sanitize.ClassBlend:
		return bson.M{"class_type": p}
	default:
		return bson.M{"class_type": bson.M{"$not": p}}
	}
}

// LegacyFilter builds the bson criteria for the legacy collection.
// currency is the effective currency (post-fallback).
func LegacyFilter(f models.SearchFilter, currency string) bson.M {
	q := bson.M{}
	sharedCriteria(q, f, currency)

	if len(f.ClassTypes) > 0 {
		or := make([]bson.M, 0, len(f.ClassTypes))
		for _, tok := range f.ClassTypes {
			or = append(or, classTypeClause(tok))
		}
		if len(or) == 1 {
			q["class_type"] = or[0]["class_type"]
		} else {
			q["$or"] = or
		}
	}

	if f.Term != "" {
		mergeClause(q, termClause(f.Term))
	}
	return q
}

// TypedFilter builds the bson criteria for one typed collection.
func TypedFilter(f models.SearchFilter, currency string) bson.M {
	q := bson.M{}
	sharedCriteria(q, f, currency)
	if f.Term != "" {
		mergeClause(q, termClause(f.Term))
	}
	return q
}

// mergeClause folds a term clause into q without clobbering an existing
// $or from the class-type criteria.
func mergeClause(q bson.M, clause bson.M) {
	if or, ok := clause["$or"]; ok {
		if existing, has := q["$or"]; has {
			q["$and"] = []bson.M{{"$or": existing}, {"$or": or}}
			delete(q, "$or")
			return
		}
		q["$or"] = or
		return
	}
	for k, v := range clause {
		q[k] = v
	}
}

// typedSourcesFor returns which typed course types participate, in merge
// order. An empty course-type token means all three; a valid token narrows
// to that one; an unrecognized token disables typed sources entirely
// (legacy-only degradation). Canonical class-type tokens narrow further:
// live → live, blend → blended, self/recorded → free.
func typedSourcesFor(f models.SearchFilter) []string {
	var base []string
	switch {
	case f.CourseType == "":
		base = models.CourseTypes
	case models.IsValidCourseType(f.CourseType):
		base = []string{f.CourseType}
	default:
		return nil
	}

	if len(f.ClassTypes) == 0 {
		return base
	}
	allowed := map[string]bool{}
	for _, tok := range f.ClassTypes {
		switch tok {
		case sanitize.ClassLive:
			allowed[models.CourseTypeLive] = true
		case sanitize.ClassBlend:
			allowed[models.CourseTypeBlended] = true
		default:
			allowed[models.CourseTypeFree] = true
		}
	}
	out := make([]string, 0, len(base))
	for _, t := range base {
		if allowed[t] {
			out = append(out, t)
		}
	}
	return out
}
