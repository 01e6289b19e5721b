package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal significance, such as a
	// letter being handed to the customer.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers denied or suspicious access.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine funnel activity.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from the order flow to capture key actions. It never
// carries names, dates of birth or street addresses.
type Event struct {
	Category    EventCategory
	Timestamp   time.Time
	Action      string
	SessionID   string // payment session the order belongs to
	Canton      string
	Confession  string
	MatchKind   string // exact, fallback, not_found
	RecipientID string
	Reason      string
	EmailHash   string
	RequestID   string
	DeviceClass string
}

type AuditEvent string

const (
	EventCheckoutStarted  AuditEvent = "checkout_started"
	EventCheckoutRejected AuditEvent = "checkout_rejected"
	EventLetterDelivered  AuditEvent = "letter_delivered"
	EventDownloadDenied   AuditEvent = "download_denied"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventLetterDelivered:  CategoryCompliance,
	EventDownloadDenied:   CategorySecurity,
	EventCheckoutStarted:  CategoryOperations,
	EventCheckoutRejected: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Lister is implemented by stores that can read events back.
type Lister interface {
	ListBySession(ctx context.Context, sessionID string) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
	ListByActions(ctx context.Context, limit int, actions ...AuditEvent) ([]Event, error)
}

// HashEmail returns the hex SHA-256 of the normalized address so events can
// be correlated without storing the address itself.
func HashEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}
