// internal/domain/models/price.go
package models

import "strings"

// Price is one currency entry in a course's price list. A course lists at
// most one entry per currency code.
type Price struct {
	Currency         string  `bson:"currency" json:"currency"` // ISO 4217, stored uppercase
	IndividualAmount float64 `bson:"individual_amount" json:"individual_amount"`
	BatchAmount      float64 `bson:"batch_amount,omitempty" json:"batch_amount,omitempty"`
}

// DefaultCurrency is substituted when a requested currency matches no
// published course in any source.
const DefaultCurrency = "USD"

// PriceIn returns the price entry for the given currency code
// (case-insensitive) and whether one exists.
func PriceIn(prices []Price, currency string) (Price, bool) {
	for _, p := range prices {
		if strings.EqualFold(p.Currency, currency) {
			return p, true
		}
	}
	return Price{}, false
}
