// Package catalog bundles a sample product catalog for demos, local
// development and tests.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/HerbHall/shopfind/pkg/models"
)

//go:embed catalog.yaml
var catalogRawData []byte

// catalogFile is the top-level structure of the embedded YAML.
type catalogFile struct {
	Products []models.Product `yaml:"products"`
}

// Sample provides lazy-loaded access to the embedded sample catalog.
type Sample struct {
	once     sync.Once
	products []models.Product
	err      error
}

// NewSample creates a Sample that will parse the embedded YAML on first access.
func NewSample() *Sample {
	return &Sample{}
}

// Products returns a copy of all sample products in file order.
func (s *Sample) Products() ([]models.Product, error) {
	s.once.Do(s.load)
	if s.err != nil {
		return nil, s.err
	}
	cp := make([]models.Product, len(s.products))
	copy(cp, s.products)
	return cp, nil
}

// load parses the embedded YAML catalog data.
func (s *Sample) load() {
	var f catalogFile
	if err := yaml.Unmarshal(catalogRawData, &f); err != nil {
		s.err = fmt.Errorf("catalog: parse yaml: %w", err)
		return
	}
	s.products = f.Products
}
