package source

import (
	"context"

	"github.com/HerbHall/shopfind/internal/services"
	"github.com/HerbHall/shopfind/pkg/models"
)

// SQLiteSource reads the catalog previously written by the import command.
type SQLiteSource struct {
	repo services.ProductRepository
}

// NewSQLiteSource creates a SQLiteSource backed by repo.
func NewSQLiteSource(repo services.ProductRepository) *SQLiteSource {
	return &SQLiteSource{repo: repo}
}

// Fetch implements Source.
func (s *SQLiteSource) Fetch(ctx context.Context) ([]models.Product, error) {
	return s.repo.List(ctx)
}
