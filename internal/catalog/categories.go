package catalog

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/HerbHall/shopfind/pkg/models"
)

// DistinctCategories returns each distinct category value once, in the order
// it first appears. Values are compared exactly, and a product without a
// category contributes the empty string as its own key.
func DistinctCategories(products []models.Product) []string {
	seen := make(map[string]struct{}, len(products))
	result := make([]string, 0)
	for i := range products {
		c := products[i].Category
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		result = append(result, c)
	}
	return result
}

// SuggestCategories ranks categories against partially typed text for filter
// controls. Blank text returns the categories unchanged. The empty category
// is never suggested. A limit <= 0 means no limit.
func SuggestCategories(categories []string, text string, limit int) []string {
	named := make([]string, 0, len(categories))
	for _, c := range categories {
		if c != "" {
			named = append(named, c)
		}
	}

	folder := newFolder()
	pattern := foldString(folder, strings.TrimSpace(text))
	if pattern == "" {
		return capList(named, limit)
	}

	targets := make([]string, len(named))
	for i, c := range named {
		targets[i] = foldString(folder, c)
	}

	matches := fuzzy.Find(pattern, targets)
	result := make([]string, 0, len(matches))
	for _, m := range matches {
		result = append(result, named[m.Index])
	}
	return capList(result, limit)
}

func capList(list []string, limit int) []string {
	if limit > 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}
