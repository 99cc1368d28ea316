// internal/app/system/dedup/dedup.go

// Package dedup clusters near-duplicate course titles across the legacy and
// typed catalog sources.
//
// The clustering is a greedy single pass: each candidate is compared only
// against records already kept, so transitive near-duplicates can survive
// (A~B and B~C does not force A, B, C into one cluster). That is an accepted
// approximation — the goal is collapsing the obvious overlap between the two
// schema generations, not exact clustering.
package dedup

import (
	"strings"

	"github.com/dalemusser/coursehub/internal/domain/models"
)

// DefaultThreshold is the similarity at or above which two titles are
// considered the same course.
const DefaultThreshold = 0.8

// Duplicate records a suppressed candidate and which kept record it matched.
type Duplicate struct {
	Course    models.AdaptedCourse `json:"course"`
	Source    string               `json:"source"`
	MatchedID string               `json:"matched_id"`
	Score     float64              `json:"score"`
}

// Result is the outcome of one dedup pass.
type Result struct {
	Unique         []models.AdaptedCourse `json:"unique"`
	Duplicates     []Duplicate            `json:"duplicates"`
	Threshold      float64                `json:"threshold"`
	UniqueCount    int                    `json:"unique_count"`
	DuplicateCount int                    `json:"duplicate_count"`
}

// Similarity measures how alike two titles are, case-insensitively:
// (len(longer) - editDistance) / len(longer). 1.0 is identical, 0.0 shares
// nothing. Two empty titles are identical.
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	if longer == 0 {
		return 1.0
	}
	return float64(longer-levenshtein(a, b)) / float64(longer)
}

// Run performs the greedy pass over candidates in their original order.
// A threshold <= 0 uses DefaultThreshold.
func Run(candidates []models.AdaptedCourse, threshold float64) Result {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	res := Result{
		Unique:     make([]models.AdaptedCourse, 0, len(candidates)),
		Duplicates: []Duplicate{},
		Threshold:  threshold,
	}

	for _, cand := range candidates {
		matched := false
		for _, kept := range res.Unique {
			score := Similarity(cand.Title, kept.Title)
			if score >= threshold {
				res.Duplicates = append(res.Duplicates, Duplicate{
					Course:    cand,
					Source:    cand.Source,
					MatchedID: kept.ID.Hex(),
					Score:     score,
				})
				matched = true
				break
			}
		}
		if !matched {
			res.Unique = append(res.Unique, cand)
		}
	}

	res.UniqueCount = len(res.Unique)
	res.DuplicateCount = len(res.Duplicates)
	return res
}

// levenshtein computes the edit distance between two strings using the
// two-row dynamic programming form.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j
		for i := 1; i <= len(a); i++ {
			if a[i-1] == b[j-1] {
				curr[i] = prev[i-1]
			} else {
				curr[i] = 1 + min3(prev[i-1], prev[i], curr[i-1])
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(a)]
}

func min3(a, b, c int) int {
	if a <= b && a <= c {
		return a
	}
	if b <= c {
		return b
	}
	return c
}
