package source

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	bundled "github.com/HerbHall/shopfind/pkg/catalog"
	"github.com/HerbHall/shopfind/pkg/models"
)

// FileSource reads a catalog file. The file is either a YAML/JSON document
// with a top-level "products" list or a bare list of products; JSON parses
// as YAML.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch implements Source.
func (s *FileSource) Fetch(ctx context.Context) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	products, err := ParseProducts(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return products, nil
}

// ParseProducts decodes a catalog document in either accepted layout.
func ParseProducts(data []byte) ([]models.Product, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var products []models.Product
		if err := root.Decode(&products); err != nil {
			return nil, err
		}
		return products, nil
	case yaml.MappingNode:
		var doc struct {
			Products []models.Product `yaml:"products"`
		}
		if err := root.Decode(&doc); err != nil {
			return nil, err
		}
		return doc.Products, nil
	default:
		return nil, fmt.Errorf("unexpected top-level yaml node kind %d", root.Kind)
	}
}

// EmbeddedSource serves the sample catalog bundled into the binary.
type EmbeddedSource struct {
	sample *bundled.Sample
}

// NewEmbeddedSource creates an EmbeddedSource.
func NewEmbeddedSource() *EmbeddedSource {
	return &EmbeddedSource{sample: bundled.NewSample()}
}

// Fetch implements Source.
func (s *EmbeddedSource) Fetch(_ context.Context) ([]models.Product, error) {
	return s.sample.Products()
}
