package catalog

import (
	"sort"
	"strings"

	"github.com/xrash/smetrics"

	"github.com/HerbHall/shopfind/pkg/models"
)

// Defaults for the fuzzy matcher.
const (
	DefaultThreshold = 0.4
	DefaultDistance  = 100

	// maxPatternRunes bounds the per-keystroke cost of very long input.
	maxPatternRunes = 64
)

// Field names a searchable product field.
type Field string

const (
	FieldName     Field = "name"
	FieldCategory Field = "category"
	FieldPrice    Field = "price"
)

// Match is a product accepted by the matcher together with its best score
// (0 is an exact match, 1 no match) and the field that produced it.
type Match struct {
	Product models.Product
	Score   float64
	Field   Field
}

// Matcher performs typo-tolerant matching of free text against the name,
// category and price of each product.
//
// A field's score is the number of edits needed to turn the pattern into the
// closest substring of the field, divided by the pattern length, plus a
// penalty of start/distance for how far into the field that substring
// begins. A product is kept when its best field score is within the
// threshold. Matcher is safe for concurrent use.
type Matcher struct {
	threshold float64
	distance  int
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithThreshold sets the inclusion threshold, clamped to [0, 1].
func WithThreshold(t float64) Option {
	return func(m *Matcher) {
		m.threshold = clamp01(t)
	}
}

// WithDistance sets how many characters into a field a match may start
// before the location penalty alone reaches 1. Zero disables the penalty.
func WithDistance(d int) Option {
	return func(m *Matcher) {
		if d < 0 {
			d = 0
		}
		m.distance = d
	}
}

// NewMatcher creates a Matcher with the default threshold and distance.
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{
		threshold: DefaultThreshold,
		distance:  DefaultDistance,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Threshold returns the inclusion threshold.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Match returns the products matching text, best score first. Equal scores
// keep catalog order. Blank text or an empty catalog yields no matches.
func (m *Matcher) Match(products []models.Product, text string) []Match {
	folder := newFolder()
	pattern := []rune(foldString(folder, strings.TrimSpace(text)))
	if len(pattern) == 0 || len(products) == 0 {
		return nil
	}
	if len(pattern) > maxPatternRunes {
		pattern = pattern[:maxPatternRunes]
	}

	matches := make([]Match, 0)
	for i := range products {
		p := products[i]
		fields := [...]struct {
			field Field
			value string
		}{
			{FieldName, p.Name},
			{FieldCategory, p.Category},
			{FieldPrice, p.PriceText()},
		}

		var best Match
		for j, f := range fields {
			s := m.score(pattern, []rune(foldString(folder, f.value)))
			if j == 0 || s < best.Score {
				best.Score = s
				best.Field = f.field
			}
		}
		if best.Score <= m.threshold {
			best.Product = p
			matches = append(matches, best)
		}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Score < matches[b].Score
	})
	return matches
}

// Find returns only the products of Match, in the same order.
func (m *Matcher) Find(products []models.Product, text string) []models.Product {
	matches := m.Match(products, text)
	result := make([]models.Product, len(matches))
	for i := range matches {
		result[i] = matches[i].Product
	}
	return result
}

// score rates pattern against a single field value.
func (m *Matcher) score(pattern, text []rune) float64 {
	if len(text) == 0 {
		return 1
	}

	errs, end := closestSubstring(pattern, text)
	n := len(pattern)
	base := float64(errs) / float64(n)
	if base > m.threshold {
		return 1
	}

	start := m.alignStart(pattern, text, errs, end)
	return clamp01(base + m.locationPenalty(start))
}

// alignStart recovers where the closest substring ending at end begins by
// comparing the candidate windows of plausible length.
func (m *Matcher) alignStart(pattern, text []rune, errs, end int) int {
	if m.distance == 0 {
		return 0
	}
	n := len(pattern)
	ps := string(pattern)

	start := max(end-n, 0)
	bestDist := -1
	for l := max(n-errs, 1); l <= n+errs; l++ {
		s := end - l
		if s < 0 {
			break
		}
		d := smetrics.WagnerFischer(ps, string(text[s:end]), 1, 1, 1)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			start = s
		}
	}
	return start
}

func (m *Matcher) locationPenalty(start int) float64 {
	if m.distance == 0 {
		return 0
	}
	return float64(start) / float64(m.distance)
}

// closestSubstring returns the smallest edit distance between pattern and
// any substring of text, and the end offset of the first substring that
// achieves it.
func closestSubstring(pattern, text []rune) (errs, end int) {
	n := len(pattern)
	col := make([]int, n+1)
	for i := range col {
		col[i] = i
	}

	errs = n
	for j := 1; j <= len(text); j++ {
		diag := col[0]
		col[0] = 0
		for i := 1; i <= n; i++ {
			cost := 1
			if pattern[i-1] == text[j-1] {
				cost = 0
			}
			next := min(col[i]+1, col[i-1]+1, diag+cost)
			diag = col[i]
			col[i] = next
		}
		if col[n] < errs {
			errs, end = col[n], j
			if errs == 0 {
				break
			}
		}
	}
	return errs, end
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
