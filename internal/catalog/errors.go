package catalog

import "errors"

// ErrNotFound is returned when a product id is not in the catalog.
var ErrNotFound = errors.New("product not found")
