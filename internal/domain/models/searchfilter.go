// internal/domain/models/searchfilter.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Sort orders accepted by federated search.
const (
	SortRelevance = "relevance"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// SearchFilter is the sanitized, structured criteria a federated query runs
// on. It is built from raw request parameters by the sanitize pipeline; raw
// user text never reaches query construction directly.
type SearchFilter struct {
	Term string // decoded free-text search term

	// Multi-value fields, already split and decoded. ClassTypes holds
	// canonical tokens ("live", "blend", "self"), not raw labels.
	ClassTypes    []string
	Categories    []string
	CategoryTypes []string
	Tags          []string
	GradeLevels   []string

	// CourseType restricts which typed sources participate. Empty means all
	// three plus legacy; an unrecognized token degrades to legacy only.
	CourseType string

	Status string // defaults to published

	Currency string   // requested currency, upper-cased; may be substituted
	PriceMin *float64 // nil when no (valid) price range was given
	PriceMax *float64

	ExcludeIDs []primitive.ObjectID // explicit + enrollment-derived exclusions
	LearnerID  *primitive.ObjectID  // set when a learner identity was resolved

	Sort  string
	Page  int
	Limit int
}

// FacetValue is one distinct value and its document count.
type FacetValue struct {
	Value string `bson:"_id" json:"value"`
	Count int64  `bson:"count" json:"count"`
}

// Facet is a count breakdown for one field, sorted descending by count.
type Facet struct {
	Field  string       `json:"field"`
	Values []FacetValue `json:"values"`
}

// PriceBounds holds overall min/max individual price across the matched set.
type PriceBounds struct {
	Min float64 `bson:"min" json:"min"`
	Max float64 `bson:"max" json:"max"`
}

// CurrencyFallback reports a currency substitution: Used differs from
// Requested when no published course matched the requested currency.
type CurrencyFallback struct {
	Requested string `json:"requested"`
	Used      string `json:"used"`
}
