package admin

import (
	"time"

	"swissshield/internal/admin/types"
)

// DirectoryEntryResponse is one directory row with provenance.
type DirectoryEntryResponse struct {
	ID            string   `json:"id"`
	Canton        string   `json:"canton"`
	Zip           string   `json:"zip"`
	Confession    string   `json:"confession"`
	RecipientName string   `json:"recipient_name"`
	Address       []string `json:"address"`
	Wildcard      bool     `json:"wildcard"`
	SourceNote    string   `json:"source_note,omitempty"`
	UpdatedAt     string   `json:"updated_at"`
}

// DirectoryListResponse wraps the directory for the HTTP response.
type DirectoryListResponse struct {
	Variant        string                    `json:"variant"`
	LanguagePolicy string                    `json:"language_policy"`
	Entries        []*DirectoryEntryResponse `json:"entries"`
	Total          int                       `json:"total"`
}

type AuditRecordResponse struct {
	Timestamp   time.Time `json:"timestamp"`
	Category    string    `json:"category"`
	Action      string    `json:"action"`
	SessionID   string    `json:"session_id,omitempty"`
	Canton      string    `json:"canton,omitempty"`
	MatchKind   string    `json:"match_kind,omitempty"`
	RecipientID string    `json:"recipient_id,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

type AuditListResponse struct {
	Events []*AuditRecordResponse `json:"events"`
	Total  int                    `json:"total"`
}

func toDirectoryListResponse(info types.DirectoryInfo, entries []*types.DirectoryEntry) *DirectoryListResponse {
	resp := &DirectoryListResponse{
		Variant:        info.Variant,
		LanguagePolicy: info.LanguagePolicy,
		Entries:        make([]*DirectoryEntryResponse, len(entries)),
		Total:          len(entries),
	}
	for i, e := range entries {
		resp.Entries[i] = &DirectoryEntryResponse{
			ID:            e.ID,
			Canton:        e.Canton,
			Zip:           e.Zip,
			Confession:    e.Confession,
			RecipientName: e.RecipientName,
			Address:       e.Address,
			Wildcard:      e.Wildcard,
			SourceNote:    e.SourceNote,
			UpdatedAt:     e.UpdatedAt,
		}
	}
	return resp
}

func toAuditListResponse(records []*types.AuditRecord) *AuditListResponse {
	resp := &AuditListResponse{
		Events: make([]*AuditRecordResponse, len(records)),
		Total:  len(records),
	}
	for i, r := range records {
		resp.Events[i] = &AuditRecordResponse{
			Timestamp:   r.Timestamp,
			Category:    r.Category,
			Action:      r.Action,
			SessionID:   r.SessionID,
			Canton:      r.Canton,
			MatchKind:   r.MatchKind,
			RecipientID: r.RecipientID,
			Reason:      r.Reason,
			RequestID:   r.RequestID,
		}
	}
	return resp
}
