// Package admin exposes read-only operator views: the loaded address
// directory with provenance, and the audit trail of an order.
package admin

import (
	"context"
	"log/slog"
	"strings"

	"swissshield/internal/admin/types"
	dErrors "swissshield/pkg/domain-errors"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks DirectoryStore,AuditStore

// DirectoryStore lists directory entries.
type DirectoryStore interface {
	ListEntries(ctx context.Context) ([]*types.DirectoryEntry, error)
	Info(ctx context.Context) types.DirectoryInfo
}

// AuditStore reads the audit trail back.
type AuditStore interface {
	ListBySession(ctx context.Context, sessionID string) ([]*types.AuditRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*types.AuditRecord, error)
	ListByActions(ctx context.Context, limit int, actions ...string) ([]*types.AuditRecord, error)
}

// AuditQuery selects audit records. SessionID wins over Action; with
// neither set the most recent records are returned.
type AuditQuery struct {
	SessionID string
	Action    string
	Limit     int
}

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

type Service struct {
	directory DirectoryStore
	audit     AuditStore
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithAuditStore enables the audit trail view. Without it the view
// reports not found.
func WithAuditStore(store AuditStore) Option {
	return func(s *Service) {
		s.audit = store
	}
}

func New(dir DirectoryStore, opts ...Option) (*Service, error) {
	if dir == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "directory store is required")
	}
	s := &Service{
		directory: dir,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ListDirectory returns the entries, optionally narrowed to one canton.
func (s *Service) ListDirectory(ctx context.Context, canton string) (types.DirectoryInfo, []*types.DirectoryEntry, error) {
	entries, err := s.directory.ListEntries(ctx)
	if err != nil {
		return types.DirectoryInfo{}, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list directory")
	}
	if canton != "" {
		canton = strings.ToUpper(canton)
		filtered := entries[:0:0]
		for _, e := range entries {
			if e.Canton == canton {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	return s.directory.Info(ctx), entries, nil
}

// AuditTrail returns at most q.Limit records (default 50, max 500).
func (s *Service) AuditTrail(ctx context.Context, q AuditQuery) ([]*types.AuditRecord, error) {
	if s.audit == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "audit trail is not readable in this deployment")
	}
	limit := q.Limit
	if limit < 0 || limit > maxAuditLimit {
		return nil, dErrors.New(dErrors.CodeValidation, "limit must be between 0 and 500")
	}
	if limit == 0 {
		limit = defaultAuditLimit
	}

	var (
		records []*types.AuditRecord
		err     error
	)
	switch {
	case q.SessionID != "":
		records, err = s.audit.ListBySession(ctx, q.SessionID)
		if len(records) > limit {
			records = records[:limit]
		}
	case q.Action != "":
		records, err = s.audit.ListByActions(ctx, limit, q.Action)
	default:
		records, err = s.audit.ListRecent(ctx, limit)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read audit trail")
	}
	return records, nil
}
