package domain

import (
	"github.com/google/uuid"

	dErrors "swissshield/pkg/domain-errors"
)

// OrderID correlates a checkout with its audit trail and delivery.
type OrderID uuid.UUID

// NewOrderID returns a random order ID.
func NewOrderID() OrderID {
	return OrderID(uuid.New())
}

// ParseOrderID parses an order ID from external input.
//
// Errors: returns CodeInvalidInput for empty, malformed or nil UUIDs.
func ParseOrderID(s string) (OrderID, error) {
	if s == "" {
		return OrderID{}, dErrors.New(dErrors.CodeInvalidInput, "order id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return OrderID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid order id")
	}
	if u == uuid.Nil {
		return OrderID{}, dErrors.New(dErrors.CodeInvalidInput, "order id cannot be nil")
	}
	return OrderID(u), nil
}

func (id OrderID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether the ID is the zero value.
func (id OrderID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}
