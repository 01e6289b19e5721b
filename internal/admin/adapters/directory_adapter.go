package adapters

import (
	"context"

	"swissshield/internal/admin/types"
	"swissshield/internal/directory"
)

// Directory is what the loaded address directory offers.
type Directory interface {
	Entries() []directory.AddressEntry
	Variant() string
	LanguagePolicy() string
}

// DirectoryAdapter adapts the address directory to admin's DirectoryStore interface.
type DirectoryAdapter struct {
	dir Directory
}

func NewDirectoryAdapter(dir Directory) *DirectoryAdapter {
	return &DirectoryAdapter{dir: dir}
}

// ListEntries returns every entry ordered by ID.
func (a *DirectoryAdapter) ListEntries(_ context.Context) ([]*types.DirectoryEntry, error) {
	entries := a.dir.Entries()
	result := make([]*types.DirectoryEntry, len(entries))
	for i, e := range entries {
		result[i] = mapEntry(e)
	}
	return result, nil
}

func (a *DirectoryAdapter) Info(_ context.Context) types.DirectoryInfo {
	return types.DirectoryInfo{
		Variant:        a.dir.Variant(),
		LanguagePolicy: a.dir.LanguagePolicy(),
	}
}

func mapEntry(e directory.AddressEntry) *types.DirectoryEntry {
	lines := []string{e.Addr1}
	if e.Addr2 != "" {
		lines = append(lines, e.Addr2)
	}
	lines = append(lines, e.PostalCity(), e.Country)
	return &types.DirectoryEntry{
		ID:            e.ID,
		Canton:        string(e.Canton),
		Zip:           e.Zip,
		Confession:    string(e.Confession),
		RecipientName: e.RecipientName,
		Address:       lines,
		SourceNote:    e.SourceNote,
		UpdatedAt:     e.UpdatedAt,
		Wildcard:      e.IsWildcard(),
	}
}
