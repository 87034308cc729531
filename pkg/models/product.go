// Package models holds the record types shared by the catalog engine, its
// sources and the HTTP surface.
package models

import "strconv"

// ProductStatus is the availability label attached to a product.
type ProductStatus string

const (
	StatusInStock    ProductStatus = "In Stock"
	StatusOutOfStock ProductStatus = "Out of Stock"
	StatusPreorder   ProductStatus = "Preorder"

	// StatusLegacyInStock is what the upstream backend stores for stocked items.
	StatusLegacyInStock ProductStatus = "In Status"
)

// Product is a single catalog record. Only its position in the catalog
// changes over its lifetime.
type Product struct {
	ID       string        `json:"id" yaml:"id"`
	Name     string        `json:"name" yaml:"name"`
	Category string        `json:"category" yaml:"category"`
	Price    float64       `json:"price" yaml:"price"`
	ImageRef string        `json:"image_ref,omitempty" yaml:"image_ref,omitempty"`
	Status   ProductStatus `json:"status,omitempty" yaml:"status,omitempty"`
	Views    int64         `json:"views" yaml:"views"`
}

// PriceText returns the shortest decimal form of the price ("1299", "12.5"),
// which is the text the fuzzy matcher searches.
func (p Product) PriceText() string {
	return strconv.FormatFloat(p.Price, 'f', -1, 64)
}

// ProductView is the outward representation of a product, carrying the
// status label as shoppers see it.
type ProductView struct {
	Product
	DisplayStatus string `json:"display_status"`
}

// NewProductViews converts products for rendering, preserving order. A nil
// input yields an empty, non-nil slice so JSON encodes it as [].
func NewProductViews(products []Product) []ProductView {
	views := make([]ProductView, len(products))
	for i := range products {
		views[i] = ProductView{Product: products[i], DisplayStatus: products[i].Status.Display()}
	}
	return views
}
