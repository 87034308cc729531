// Package source fetches the product catalog from its backing location and
// installs it into the in-memory catalog store.
package source

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/HerbHall/shopfind/internal/catalog"
	"github.com/HerbHall/shopfind/pkg/models"
)

// Source delivers the full catalog in display order.
type Source interface {
	Fetch(ctx context.Context) ([]models.Product, error)
}

// Load fetches the catalog once and replaces the store contents with it.
// A failed fetch is logged and leaves the store empty; no retry is attempted.
func Load(ctx context.Context, src Source, store *catalog.Store, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	products, err := src.Fetch(ctx)
	if err != nil {
		logger.Error("catalog fetch failed, serving empty catalog", zap.Error(err))
		store.Replace(nil)
		return fmt.Errorf("fetch catalog: %w", err)
	}

	store.Replace(products)
	return nil
}
