// Package catalog implements the in-memory product query engine: the catalog
// store, fuzzy matching, category filtering, popularity ranking and the
// query pipeline that composes them.
package catalog

import (
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/shopfind/pkg/models"
)

// Observer receives engine measurements. internal/metrics provides the
// Prometheus implementation.
type Observer interface {
	ObserveQuery(elapsed time.Duration, results int, fuzzy bool)
	ObserveRank(products int)
}

type nopObserver struct{}

func (nopObserver) ObserveQuery(time.Duration, int, bool) {}
func (nopObserver) ObserveRank(int)                       {}

// Engine binds a Store to a Matcher and runs the query pipeline against
// snapshots of the store.
type Engine struct {
	store    *Store
	matcher  *Matcher
	observer Observer
	logger   *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithObserver attaches an Observer.
func WithObserver(o Observer) EngineOption {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// NewEngine creates an engine backed by the given store and matcher.
func NewEngine(store *Store, matcher *Matcher, logger *zap.Logger, opts ...EngineOption) *Engine {
	if matcher == nil {
		matcher = NewMatcher()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		store:    store,
		matcher:  matcher,
		observer: nopObserver{},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search runs the query pipeline over the current catalog.
func (e *Engine) Search(state QueryState) []models.Product {
	start := time.Now()
	result := Query(e.store.Products(), e.matcher, state)
	elapsed := time.Since(start)

	e.observer.ObserveQuery(elapsed, len(result), state.HasText())
	e.logger.Debug("query",
		zap.String("free_text", state.FreeText),
		zap.String("category", state.Category),
		zap.Int("results", len(result)),
		zap.Duration("elapsed", elapsed),
	)
	return result
}

// Rank reorders the store by popularity and returns the new order.
func (e *Engine) Rank() []models.Product {
	ranked := e.store.RankByViews()
	e.observer.ObserveRank(len(ranked))
	e.logger.Info("catalog ranked by views", zap.Int("products", len(ranked)))
	return ranked
}

// Categories returns the distinct categories of the current catalog.
func (e *Engine) Categories() []string {
	return e.store.Categories()
}

// SuggestCategories ranks the current categories against text.
func (e *Engine) SuggestCategories(text string, limit int) []string {
	return SuggestCategories(e.store.Categories(), text, limit)
}

// Product looks up a single product by id.
func (e *Engine) Product(id string) (models.Product, error) {
	p, ok := e.store.Get(id)
	if !ok {
		return models.Product{}, ErrNotFound
	}
	return p, nil
}
