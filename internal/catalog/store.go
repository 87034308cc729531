package catalog

import (
	"sync"

	"go.uber.org/zap"

	"github.com/HerbHall/shopfind/pkg/models"
)

// Store holds the current catalog in its canonical order. Readers always
// receive copies; only Replace and RankByViews change the contents.
type Store struct {
	mu       sync.RWMutex
	products []models.Product
	index    map[string]int
	logger   *zap.Logger
}

// NewStore creates an empty Store.
func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		index:  make(map[string]int),
		logger: logger,
	}
}

// Replace installs a freshly fetched catalog, keeping source order. A
// repeated id keeps its first occurrence; the number of dropped records is
// returned. Any earlier ranking is discarded.
func (s *Store) Replace(products []models.Product) int {
	kept := make([]models.Product, 0, len(products))
	index := make(map[string]int, len(products))
	dropped := 0
	for i := range products {
		id := products[i].ID
		if _, dup := index[id]; dup {
			dropped++
			s.logger.Warn("dropping duplicate product id", zap.String("id", id))
			continue
		}
		index[id] = len(kept)
		kept = append(kept, products[i])
	}

	s.mu.Lock()
	s.products = kept
	s.index = index
	s.mu.Unlock()

	s.logger.Info("catalog replaced",
		zap.Int("products", len(kept)),
		zap.Int("dropped", dropped),
	)
	return dropped
}

// Products returns a copy of the catalog in its current order.
func (s *Store) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make([]models.Product, len(s.products))
	copy(cp, s.products)
	return cp
}

// Len returns the number of products.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// Get returns the product with the given id.
func (s *Store) Get(id string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return models.Product{}, false
	}
	return s.products[i], true
}

// RankByViews reorders the catalog by views, most viewed first, and returns
// a copy of the new order. Ties keep their previous relative order.
func (s *Store) RankByViews() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = RankByViews(s.products)
	for i := range s.products {
		s.index[s.products[i].ID] = i
	}

	cp := make([]models.Product, len(s.products))
	copy(cp, s.products)
	return cp
}

// Categories returns the distinct categories of the current catalog.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return DistinctCategories(s.products)
}
