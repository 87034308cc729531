package testutil

import (
	"context"
	"sync"
)

// RecordingSink is a thread-safe selection sink that records every id it
// receives for later inspection.
type RecordingSink struct {
	mu  sync.Mutex
	ids []string
	err error
}

// NewRecordingSink returns a RecordingSink. If err is non-nil every call
// records the id and then fails with err.
func NewRecordingSink(err error) *RecordingSink {
	return &RecordingSink{err: err}
}

// Selected records id.
func (s *RecordingSink) Selected(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = append(s.ids, id)
	return s.err
}

// IDs returns a copy of all recorded ids.
func (s *RecordingSink) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}
