// Package fanout writes each audit event to several stores. Reads go to the
// primary store only.
package fanout

import (
	"context"
	"errors"
	"fmt"

	audit "swissshield/pkg/platform/audit"
)

// ErrNotReadable is returned by reads when the primary store is write-only.
var ErrNotReadable = errors.New("primary audit store is not readable")

type Store struct {
	primary audit.Store
	others  []audit.Store
}

func New(primary audit.Store, others ...audit.Store) *Store {
	return &Store{primary: primary, others: others}
}

// Append writes to every store and reports all failures together. A failing
// secondary does not stop the others.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	var errs []error
	for i, st := range append([]audit.Store{s.primary}, s.others...) {
		if err := st.Append(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("audit store %d (%T): %w", i, st, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Store) ListBySession(ctx context.Context, sessionID string) ([]audit.Event, error) {
	l, ok := s.primary.(audit.Lister)
	if !ok {
		return nil, ErrNotReadable
	}
	return l.ListBySession(ctx, sessionID)
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	l, ok := s.primary.(audit.Lister)
	if !ok {
		return nil, ErrNotReadable
	}
	return l.ListRecent(ctx, limit)
}

func (s *Store) ListByActions(ctx context.Context, limit int, actions ...audit.AuditEvent) ([]audit.Event, error) {
	l, ok := s.primary.(audit.Lister)
	if !ok {
		return nil, ErrNotReadable
	}
	return l.ListByActions(ctx, limit, actions...)
}
