// internal/app/system/sanitize/sanitize.go

// Package sanitize turns raw, untrusted filter input into values that are
// safe to embed in query criteria.
//
// Filter values arrive percent-encoded (sometimes doubly so, courtesy of
// proxy layers), HTML-escaped, multi-valued, and occasionally hostile. The
// rules here are: decode as far as cleanly possible, never error back to the
// caller, and never let raw user text reach a match pattern unescaped.
package sanitize

import (
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// maxDecodePasses caps the fixed-point percent-decode loop. Legitimate input
// is at most double-encoded; anything needing more passes is an attack or
// garbage and keeps the last good value.
const maxDecodePasses = 5

// DecodeParam normalizes one raw filter value:
//
//  1. HTML entities are unescaped (&amp; → &).
//  2. Double-percent-encoding is collapsed (%2520 → %20).
//  3. The value is percent-decoded repeatedly until it stops changing.
//
// A decode error at any step stops the pipeline at the last good value;
// DecodeParam never fails.
func DecodeParam(raw string) string {
	v := html.UnescapeString(raw)
	v = strings.ReplaceAll(v, "%25", "%")

	for i := 0; i < maxDecodePasses; i++ {
		decoded, err := url.QueryUnescape(v)
		if err != nil || decoded == v {
			break
		}
		v = decoded
	}
	return v
}

// multiValueDelims splits multi-value filter fields.
var multiValueDelims = regexp.MustCompile(`[,|;]`)

// SplitMulti splits a decoded value on the multi-value delimiters
// (comma, pipe, semicolon), trimming whitespace and dropping empties.
// A value with no delimiter comes back as a single-element slice.
func SplitMulti(v string) []string {
	parts := multiValueDelims.Split(v, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// EscapePattern escapes all regex metacharacters in a user value so it can
// only ever match itself.
func EscapePattern(v string) string {
	return regexp.QuoteMeta(v)
}

// AnchoredPattern builds an anchored exact-match pattern for one value.
// Pair it with a case-insensitive option at the query layer.
func AnchoredPattern(v string) string {
	return "^" + regexp.QuoteMeta(v) + "$"
}

// Canonical class-type tokens produced by NormalizeClassType.
const (
	ClassLive  = "live"
	ClassBlend = "blend"
	ClassSelf  = "self"
)

// NormalizeClassType buckets a free-text class-type query value ("Live
// Courses", "recorded", "Blended Learning") into one of three canonical
// tokens, mirroring the display-side delivery-format classification.
// Anything that is not clearly live or blended is the self/recorded bucket.
func NormalizeClassType(v string) string {
	label := strings.ToLower(v)
	switch {
	case strings.Contains(label, "live"):
		return ClassLive
	case strings.Contains(label, "blend"):
		return ClassBlend
	default:
		return ClassSelf
	}
}

// ClassTypePattern returns the substring pattern for matching stored legacy
// class_type labels. The live and blend tokens match directly. The self
// bucket is the classifier's fallback (anything not live or blended, blank
// and absent labels included), so it has no positive pattern: its pattern is
// the live/blend union and the query layer negates the match.
func ClassTypePattern(canonical string) string {
	switch canonical {
	case ClassLive:
		return "live"
	case ClassBlend:
		return "blend"
	default:
		return "live|blend"
	}
}

// ParsePriceRange parses a "min-max" price range string. A range that does
// not parse cleanly is dropped (nil, nil, false) rather than treated as an
// error; a bad price filter should widen results, not fail the search.
func ParsePriceRange(v string) (min, max *float64, ok bool) {
	parts := strings.SplitN(v, "-", 2)
	if len(parts) != 2 {
		return nil, nil, false
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, nil, false
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, nil, false
	}
	return &lo, &hi, true
}

// ugcPolicy is the shared rich-text scrubbing policy for course
// descriptions and lesson text content.
var ugcPolicy = bluemonday.UGCPolicy()

// ScrubRichText sanitizes user-supplied rich text before it is stored.
func ScrubRichText(s string) string {
	return ugcPolicy.Sanitize(s)
}
