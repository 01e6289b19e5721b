// Package types holds the admin view of other modules' data so the admin
// service does not depend on their models.
package types

import "time"

// DirectoryEntry is a directory row with its provenance.
type DirectoryEntry struct {
	ID            string
	Canton        string
	Zip           string
	Confession    string
	RecipientName string
	Address       []string // mailing lines after the recipient
	SourceNote    string
	UpdatedAt     string
	Wildcard      bool
}

// DirectoryInfo describes the loaded dataset.
type DirectoryInfo struct {
	Variant        string
	LanguagePolicy string
}

// AuditRecord is an audit event as shown to operators.
type AuditRecord struct {
	Timestamp   time.Time
	Category    string
	Action      string
	SessionID   string
	Canton      string
	MatchKind   string
	RecipientID string
	Reason      string
	RequestID   string
}
