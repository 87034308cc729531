package testutil

import (
	"github.com/google/uuid"

	"github.com/HerbHall/shopfind/pkg/models"
)

// NewProduct returns a Product with sensible defaults, suitable for test fixtures.
// Override individual fields after creation as needed.
func NewProduct(opts ...func(*models.Product)) models.Product {
	p := models.Product{
		ID:       uuid.New().String(),
		Name:     "Test Product",
		Category: "Misc",
		Price:    100,
		ImageRef: "https://img.example.com/test.png",
		Status:   models.StatusInStock,
		Views:    0,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithID sets the product id.
func WithID(id string) func(*models.Product) {
	return func(p *models.Product) { p.ID = id }
}

// WithName sets the product name.
func WithName(name string) func(*models.Product) {
	return func(p *models.Product) { p.Name = name }
}

// WithCategory sets the product category.
func WithCategory(c string) func(*models.Product) {
	return func(p *models.Product) { p.Category = c }
}

// WithPrice sets the product price.
func WithPrice(price float64) func(*models.Product) {
	return func(p *models.Product) { p.Price = price }
}

// WithViews sets the view counter.
func WithViews(v int64) func(*models.Product) {
	return func(p *models.Product) { p.Views = v }
}

// WithStatus sets the availability label.
func WithStatus(s models.ProductStatus) func(*models.Product) {
	return func(p *models.Product) { p.Status = s }
}

// IDs returns the ids of products in order.
func IDs(products []models.Product) []string {
	ids := make([]string, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	return ids
}
