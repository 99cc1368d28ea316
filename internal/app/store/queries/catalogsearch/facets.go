// internal/app/store/queries/catalogsearch/facets.go
package catalogsearch

import (
	"context"
	"sort"

	"github.com/dalemusser/coursehub/internal/app/system/classify"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

// FacetResult holds the filter-panel aggregations for a search.
type FacetResult struct {
	Facets      []models.Facet      `json:"facets"`
	PriceBounds *models.PriceBounds `json:"price_bounds,omitempty"`
	// Source names the collection facets were computed over. Facets are
	// scoped to the legacy source only; see DESIGN.md for the decision.
	Source string `json:"facet_source"`
}

// Facets computes distinct-value counts over the legacy documents matched
// by the current filter: category, category type, tags, class type, the
// derived delivery-format bucket, and overall price bounds. Each facet is
// sorted descending by count.
func (e *Engine) Facets(ctx context.Context, f models.SearchFilter, currency string) (FacetResult, error) {
	match := LegacyFilter(f, currency)
	out := FacetResult{Source: models.LegacyCollection}

	groupFields := []struct {
		facet  string
		expr   string
		unwind bool
	}{
		{facet: "course_category", expr: "$course_category"},
		{facet: "category_type", expr: "$category_type"},
		{facet: "tags", expr: "$tags", unwind: true},
		{facet: "class_type", expr: "$class_type"},
	}

	var classTypeValues []models.FacetValue

	for _, g := range groupFields {
		pipeline := []bson.M{{"$match": match}}
		if g.unwind {
			pipeline = append(pipeline, bson.M{"$unwind": g.expr})
		}
		pipeline = append(pipeline,
			bson.M{"$group": bson.M{"_id": g.expr, "count": bson.M{"$sum": 1}}},
			bson.M{"$sort": bson.M{"count": -1, "_id": 1}},
		)

		values, err := e.facetRows(ctx, pipeline)
		if err != nil {
			return FacetResult{}, err
		}
		out.Facets = append(out.Facets, models.Facet{Field: g.facet, Values: values})
		if g.facet == "class_type" {
			classTypeValues = values
		}
	}

	// delivery_format is derived, not stored: fold the class_type groups
	// through the display classifier and re-aggregate.
	out.Facets = append(out.Facets, models.Facet{
		Field:  "delivery_format",
		Values: deliveryFormatFacet(classTypeValues),
	})

	bounds, err := e.priceBounds(ctx, match)
	if err != nil {
		return FacetResult{}, err
	}
	out.PriceBounds = bounds

	return out, nil
}

// facetRows runs one grouping pipeline and decodes the (value, count) rows.
// Documents with the field absent group under "" and are dropped.
func (e *Engine) facetRows(ctx context.Context, pipeline []bson.M) ([]models.FacetValue, error) {
	cur, err := e.db.Collection(models.LegacyCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var values []models.FacetValue
	for cur.Next(ctx) {
		var row models.FacetValue
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		if row.Value == "" {
			continue
		}
		values = append(values, row)
	}
	return values, cur.Err()
}

// deliveryFormatFacet buckets class_type facet rows into display formats
// and re-sorts descending by combined count.
func deliveryFormatFacet(classTypes []models.FacetValue) []models.FacetValue {
	counts := map[string]int64{}
	order := []string{}
	for _, v := range classTypes {
		format := classify.DeliveryFormat(v.Value)
		if _, seen := counts[format]; !seen {
			order = append(order, format)
		}
		counts[format] += v.Count
	}

	values := make([]models.FacetValue, 0, len(order))
	for _, format := range order {
		values = append(values, models.FacetValue{Value: format, Count: counts[format]})
	}
	sort.SliceStable(values, func(i, j int) bool { return values[i].Count > values[j].Count })
	return values
}

// priceBounds computes the min/max individual price across the matched set.
// Nil when no matched document carries a price.
func (e *Engine) priceBounds(ctx context.Context, match bson.M) (*models.PriceBounds, error) {
	pipeline := []bson.M{
		{"$match": match},
		{"$unwind": "$prices"},
		{"$group": bson.M{
			"_id": nil,
			"min": bson.M{"$min": "$prices.individual_amount"},
			"max": bson.M{"$max": "$prices.individual_amount"},
		}},
	}

	cur, err := e.db.Collection(models.LegacyCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	if cur.Next(ctx) {
		var row models.PriceBounds
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		return &row, nil
	}
	return nil, cur.Err()
}
