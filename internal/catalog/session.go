package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/HerbHall/shopfind/pkg/models"
)

// SelectionSink receives the id of the product a shopper opened, or "" when
// the detail view is closed.
type SelectionSink interface {
	Selected(ctx context.Context, id string) error
}

// Result is one recomputation of the pipeline for a session.
type Result struct {
	Revision uint64           `json:"revision"`
	State    QueryState       `json:"state"`
	Products []models.Product `json:"products"`
}

// Session is the query state of a single client. Every state change bumps
// the revision and recomputes the pipeline exactly once. A Session is not
// safe for concurrent use; each client drives its own.
type Session struct {
	id       string
	engine   *Engine
	sink     SelectionSink
	state    QueryState
	revision uint64
	selected string
}

// NewSession starts a session with an empty query state. sink may be nil.
func NewSession(engine *Engine, sink SelectionSink) *Session {
	return &Session{
		id:     uuid.NewString(),
		engine: engine,
		sink:   sink,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Revision returns the number of recomputations so far.
func (s *Session) Revision() uint64 { return s.revision }

// SetFreeText updates the free text and recomputes.
func (s *Session) SetFreeText(text string) Result {
	s.state.FreeText = text
	return s.recompute()
}

// SetCategory updates the selected category and recomputes.
func (s *Session) SetCategory(category string) Result {
	s.state.Category = category
	return s.recompute()
}

// Update replaces the whole query state and recomputes.
func (s *Session) Update(state QueryState) Result {
	s.state = state
	return s.recompute()
}

// Refresh recomputes the current state, e.g. after the catalog changed.
func (s *Session) Refresh() Result {
	return s.recompute()
}

// Rank reorders the shared catalog by popularity and recomputes.
func (s *Session) Rank() Result {
	s.engine.Rank()
	return s.recompute()
}

// Selected returns the selected product id, or "" for none.
func (s *Session) Selected() string { return s.selected }

// Select forwards a product to the sink and, once accepted, marks it as
// selected. An empty id clears the selection. A failed forward leaves the
// previous selection in place.
func (s *Session) Select(ctx context.Context, id string) error {
	if id != "" {
		if _, err := s.engine.Product(id); err != nil {
			return fmt.Errorf("select %q: %w", id, err)
		}
	}
	if s.sink != nil {
		if err := s.sink.Selected(ctx, id); err != nil {
			return fmt.Errorf("forward selection: %w", err)
		}
	}
	s.selected = id
	return nil
}

func (s *Session) recompute() Result {
	s.revision++
	return Result{
		Revision: s.revision,
		State:    s.state,
		Products: s.engine.Search(s.state),
	}
}
