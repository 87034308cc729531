package catalog

import (
	"strings"

	"github.com/HerbHall/shopfind/pkg/models"
)

// QueryState is the caller-owned input to the query pipeline. Both fields are
// replaced wholesale on every input event.
type QueryState struct {
	FreeText string `json:"free_text"`
	Category string `json:"category"`
}

// HasText reports whether the free text is non-blank.
func (q QueryState) HasText() bool {
	return strings.TrimSpace(q.FreeText) != ""
}

// Query computes the visible product list for a catalog and query state.
//
// Blank free text yields the category-filtered catalog in catalog order.
// Otherwise the fuzzy matches, best first, are category-filtered without
// disturbing their rank. Query never modifies products.
func Query(products []models.Product, m *Matcher, state QueryState) []models.Product {
	if !state.HasText() {
		return ByCategory(products, state.Category)
	}
	if m == nil {
		m = NewMatcher()
	}
	return ByCategory(m.Find(products, state.FreeText), state.Category)
}
