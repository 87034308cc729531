package catalog

import "github.com/HerbHall/shopfind/pkg/models"

// ByCategory returns the products whose category equals category after case
// folding, in their input order. An empty category selects everything.
// The input slice is never modified.
func ByCategory(products []models.Product, category string) []models.Product {
	result := make([]models.Product, 0, len(products))
	if category == "" {
		return append(result, products...)
	}

	folder := newFolder()
	want := foldString(folder, category)
	for i := range products {
		if products[i].Category == "" {
			continue
		}
		if foldString(folder, products[i].Category) == want {
			result = append(result, products[i])
		}
	}
	return result
}
