// Package devpay is a local stand-in for the card processor. Sessions are
// created unpaid and flipped to paid by visiting the returned pay URL.
package devpay

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"

	"swissshield/internal/payment"
)

// SessionIDPrefix marks dev sessions so they are never confused with live ones.
const SessionIDPrefix = "cs_dev_"

// StoredSession is a persisted dev checkout session.
type StoredSession struct {
	ID         string            `json:"id"`
	Status     payment.Status    `json:"status"`
	Email      string            `json:"email,omitempty"`
	Metadata   map[string]string `json:"metadata"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
	CreatedAt  time.Time         `json:"created_at"`
}

// SessionStore persists dev sessions. Get returns sentinel.ErrNotFound for
// unknown IDs.
type SessionStore interface {
	Save(ctx context.Context, s *StoredSession) error
	Get(ctx context.Context, id string) (*StoredSession, error)
}

// Gateway implements payment.Gateway without any external processor.
type Gateway struct {
	store   SessionStore
	baseURL string
	now     func() time.Time
}

type Option func(*Gateway)

func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		g.now = now
	}
}

// New returns a gateway whose pay links point at baseURL + PayPath.
func New(store SessionStore, baseURL string, opts ...Option) *Gateway {
	g := &Gateway{
		store:   store,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) CreateSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error) {
	s := &StoredSession{
		ID:         SessionIDPrefix + uuid.NewString(),
		Status:     payment.StatusUnpaid,
		Email:      req.Email,
		Metadata:   maps.Clone(req.Metadata),
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
		CreatedAt:  g.now().UTC(),
	}
	if err := g.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save dev session: %w", err)
	}
	out := toSession(s)
	out.URL = g.baseURL + PayPath + "?session_id=" + s.ID
	return out, nil
}

func (g *Gateway) GetSession(ctx context.Context, id string) (*payment.Session, error) {
	s, err := g.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get dev session: %w", err)
	}
	return toSession(s), nil
}

// MarkPaid completes a session and returns the URL to continue to.
func (g *Gateway) MarkPaid(ctx context.Context, id string) (string, error) {
	s, err := g.store.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("get dev session: %w", err)
	}
	s.Status = payment.StatusPaid
	if err := g.store.Save(ctx, s); err != nil {
		return "", fmt.Errorf("save dev session: %w", err)
	}
	return strings.ReplaceAll(s.SuccessURL, payment.SessionIDPlaceholder, s.ID), nil
}

func toSession(s *StoredSession) *payment.Session {
	return &payment.Session{
		ID:       s.ID,
		Status:   s.Status,
		Email:    s.Email,
		Metadata: maps.Clone(s.Metadata),
	}
}
