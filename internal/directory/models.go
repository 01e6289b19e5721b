package directory

import "swissshield/pkg/domain"

// Wildcard is the zip sentinel of a canton-wide default entry.
const Wildcard = "*"

// Advisory messages shown to the user alongside a match result.
const (
	FallbackMessage = "We couldn't find your exact ZIP, but we've routed your letter to the cantonal church office."
	NotFoundMessage = "Sorry, we do not currently support this canton. Please check back soon."
)

// AddressEntry is one row of the church office directory.
type AddressEntry struct {
	ID            string
	Canton        domain.Canton
	Zip           string // exact postal code, or Wildcard
	Confession    domain.Confession
	RecipientName string
	Addr1         string
	Addr2         string // optional
	Postal        string
	City          string
	Country       string
	SourceNote    string // optional, informational
	UpdatedAt     string // last verified, YYYY-MM-DD
}

// IsWildcard reports whether the entry is the canton-wide default.
func (e AddressEntry) IsWildcard() bool {
	return e.Zip == Wildcard
}

// PostalCity returns the "<postal> <city>" line of the mailing address.
func (e AddressEntry) PostalCity() string {
	return e.Postal + " " + e.City
}

// MatchKind tags a MatchResult.
type MatchKind string

const (
	MatchNotFound MatchKind = "not_found"
	MatchFallback MatchKind = "fallback"
	MatchExact    MatchKind = "exact"
)

// MatchResult is the outcome of Resolve.
//
//   - MatchExact: Address set, Message empty.
//   - MatchFallback: Address is the canton wildcard, Message is FallbackMessage.
//   - MatchNotFound: Address nil, Message is NotFoundMessage.
type MatchResult struct {
	Kind    MatchKind
	Address *AddressEntry
	Message string
}

// Found reports whether an address was resolved.
func (r MatchResult) Found() bool {
	return r.Kind != MatchNotFound && r.Address != nil
}

// Exact reports whether the postal-code-specific entry was used.
func (r MatchResult) Exact() bool {
	return r.Kind == MatchExact
}
