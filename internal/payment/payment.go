// Package payment is the port to the checkout provider. A paid session is
// the only proof of purchase; order data travels in its metadata so nothing
// personal is stored on our side.
package payment

import (
	"context"
)

//go:generate mockgen -source=payment.go -destination=mocks/mocks.go -package=mocks Gateway

// Status is the payment state of a checkout session.
type Status string

const (
	StatusUnpaid            Status = "unpaid"
	StatusPaid              Status = "paid"
	StatusNoPaymentRequired Status = "no_payment_required"
)

// Session is a hosted checkout session.
type Session struct {
	ID       string
	URL      string
	Status   Status
	Email    string
	Metadata map[string]string
}

// IsPaid reports whether the order may be delivered.
func (s *Session) IsPaid() bool {
	return s != nil && (s.Status == StatusPaid || s.Status == StatusNoPaymentRequired)
}

// SessionRequest asks the provider for a new session.
type SessionRequest struct {
	Email      string
	Metadata   map[string]string
	SuccessURL string // may contain the {CHECKOUT_SESSION_ID} placeholder
	CancelURL  string
}

// SessionIDPlaceholder is substituted by the provider in SuccessURL.
const SessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"

// Gateway creates and reads checkout sessions. GetSession returns
// sentinel.ErrNotFound for unknown IDs.
type Gateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
}
