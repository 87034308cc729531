package catalog

import (
	"sort"

	"github.com/HerbHall/shopfind/pkg/models"
)

// RankByViews returns a copy of products ordered by Views descending.
// Products with equal views keep their relative order.
func RankByViews(products []models.Product) []models.Product {
	ranked := make([]models.Product, len(products))
	copy(ranked, products)
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Views > ranked[b].Views
	})
	return ranked
}
