// Package sink forwards product selections to the detail-view collaborator.
package sink

import (
	"context"

	"go.uber.org/zap"
)

// Sink receives the id of the product whose detail view should open. An
// empty id means the view was closed.
type Sink interface {
	Selected(ctx context.Context, id string) error
}

// Nop discards selections.
type Nop struct{}

// Selected implements Sink.
func (Nop) Selected(context.Context, string) error { return nil }

// LogSink records selections in the service log.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Selected implements Sink.
func (s *LogSink) Selected(_ context.Context, id string) error {
	if id == "" {
		s.logger.Info("product detail closed")
		return nil
	}
	s.logger.Info("product selected", zap.String("product_id", id))
	return nil
}
