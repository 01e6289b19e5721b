package order

import (
	"swissshield/internal/directory"
	"swissshield/pkg/domain"
)

// Checkout is a started payment session.
type Checkout struct {
	OrderID   domain.OrderID
	SessionID string
	URL       string
	MatchKind directory.MatchKind
}

// Recipient is the church office a paid letter is addressed to.
type Recipient struct {
	Name    string
	Address string // addr1, then ", addr2" when present
	Postal  string
	City    string
}

// Summary repeats what the customer ordered.
type Summary struct {
	Canton       string
	Confession   string
	CustomerName string
}

// OrderInfo backs the success page. Recipient is nil when the stored
// order no longer resolves.
type OrderInfo struct {
	SessionID     string
	Recipient     *Recipient
	Summary       Summary
	DownloadToken string
	DownloadURL   string
}

// Delivery is a rendered letter ready to be sent to the browser.
type Delivery struct {
	Filename  string
	PDF       []byte
	Canton    domain.Canton
	MatchKind directory.MatchKind
}

// Coverage lists what the directory can route.
type Coverage struct {
	Cantons     []domain.Canton
	Confessions []domain.Confession
}

func recipientFrom(e *directory.AddressEntry) *Recipient {
	if e == nil {
		return nil
	}
	addr := e.Addr1
	if e.Addr2 != "" {
		addr += ", " + e.Addr2
	}
	return &Recipient{
		Name:    e.RecipientName,
		Address: addr,
		Postal:  e.Postal,
		City:    e.City,
	}
}
