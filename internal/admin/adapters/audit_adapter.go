package adapters

import (
	"context"

	"swissshield/internal/admin/types"
	"swissshield/pkg/platform/audit"
)

// AuditStoreAdapter adapts a readable audit store to admin's AuditStore interface.
type AuditStoreAdapter struct {
	store audit.Lister
}

func NewAuditStoreAdapter(store audit.Lister) *AuditStoreAdapter {
	return &AuditStoreAdapter{store: store}
}

func (a *AuditStoreAdapter) ListBySession(ctx context.Context, sessionID string) ([]*types.AuditRecord, error) {
	events, err := a.store.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return mapEvents(events), nil
}

func (a *AuditStoreAdapter) ListRecent(ctx context.Context, limit int) ([]*types.AuditRecord, error) {
	events, err := a.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return mapEvents(events), nil
}

func (a *AuditStoreAdapter) ListByActions(ctx context.Context, limit int, actions ...string) ([]*types.AuditRecord, error) {
	names := make([]audit.AuditEvent, len(actions))
	for i, name := range actions {
		names[i] = audit.AuditEvent(name)
	}
	events, err := a.store.ListByActions(ctx, limit, names...)
	if err != nil {
		return nil, err
	}
	return mapEvents(events), nil
}

func mapEvents(events []audit.Event) []*types.AuditRecord {
	result := make([]*types.AuditRecord, len(events))
	for i, e := range events {
		result[i] = &types.AuditRecord{
			Timestamp:   e.Timestamp,
			Category:    string(e.Category),
			Action:      e.Action,
			SessionID:   e.SessionID,
			Canton:      e.Canton,
			MatchKind:   e.MatchKind,
			RecipientID: e.RecipientID,
			Reason:      e.Reason,
			RequestID:   e.RequestID,
		}
	}
	return result
}
