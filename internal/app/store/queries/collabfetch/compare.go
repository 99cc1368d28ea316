// internal/app/store/queries/collabfetch/compare.go
package collabfetch

import (
	"sort"

	"go.mongodb.org/mongo-driver/bson"
)

// Comparison is the schema diagnostic attached to a collaborative fetch.
// Summary level reports the field-name sets and their differences;
// detailed additionally reports per-field coverage fractions (share of
// records on that side where the field is present and non-empty).
type Comparison struct {
	Level         string   `json:"level"`
	NewFields     []string `json:"new_fields"`
	LegacyFields  []string `json:"legacy_fields"`
	CommonFields  []string `json:"common_fields"`
	NewOnlyFields []string `json:"new_only_fields"`
	LegacyOnly    []string `json:"legacy_only_fields"`

	NewCoverage    map[string]float64 `json:"new_coverage,omitempty"`
	LegacyCoverage map[string]float64 `json:"legacy_coverage,omitempty"`
}

func (c *Coordinator) compare(newSide, legacySide *SideResult, level string) *Comparison {
	newCov := coverage(newSide)
	legacyCov := coverage(legacySide)

	cmp := &Comparison{
		Level:        level,
		NewFields:    fieldNames(newCov),
		LegacyFields: fieldNames(legacyCov),
	}
	for _, f := range cmp.NewFields {
		if _, ok := legacyCov[f]; ok {
			cmp.CommonFields = append(cmp.CommonFields, f)
		} else {
			cmp.NewOnlyFields = append(cmp.NewOnlyFields, f)
		}
	}
	for _, f := range cmp.LegacyFields {
		if _, ok := newCov[f]; !ok {
			cmp.LegacyOnly = append(cmp.LegacyOnly, f)
		}
	}
	if level == CompareDetailed {
		cmp.NewCoverage = newCov
		cmp.LegacyCoverage = legacyCov
	}
	return cmp
}

// coverage round-trips each record through bson so omitempty drops absent
// fields, then returns the fraction of records carrying each field.
func coverage(side *SideResult) map[string]float64 {
	if side == nil || len(side.Data) == 0 {
		return map[string]float64{}
	}
	counts := map[string]int{}
	for _, hit := range side.Data {
		raw, err := bson.Marshal(hit)
		if err != nil {
			continue
		}
		var doc bson.M
		if err := bson.Unmarshal(raw, &doc); err != nil {
			continue
		}
		for field, v := range doc {
			if empty(v) {
				continue
			}
			counts[field]++
		}
	}
	out := make(map[string]float64, len(counts))
	total := float64(len(side.Data))
	for field, n := range counts {
		out[field] = float64(n) / total
	}
	return out
}

func empty(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bson.A:
		return len(t) == 0
	case bson.M:
		return len(t) == 0
	}
	return false
}

func fieldNames(cov map[string]float64) []string {
	names := make([]string, 0, len(cov))
	for f := range cov {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
}
