package directory

import (
	"slices"
	"sort"

	"swissshield/pkg/domain"
)

type indexKey struct {
	canton     domain.Canton
	confession domain.Confession
}

type indexBucket struct {
	exact    map[string]*AddressEntry
	wildcard *AddressEntry
}

// Directory is an immutable, indexed church office directory.
// It is safe for concurrent use; nothing mutates it after construction.
type Directory struct {
	variant        string
	languagePolicy string
	cantons        []domain.Canton
	entries        []AddressEntry
	byID           map[string]*AddressEntry
	index          map[indexKey]*indexBucket
}

// Resolve maps a canton, postal code and confession to a mailing address.
//
// The postal code is compared verbatim: no trimming, no range logic. An exact
// entry always wins over the canton wildcard. Unknown cantons and confessions
// yield MatchNotFound rather than an error.
func (d *Directory) Resolve(canton domain.Canton, zip string, confession domain.Confession) MatchResult {
	bucket := d.index[indexKey{canton: canton, confession: confession}]
	if bucket != nil {
		if e, ok := bucket.exact[zip]; ok {
			return MatchResult{Kind: MatchExact, Address: cloneEntry(e)}
		}
		if bucket.wildcard != nil {
			return MatchResult{Kind: MatchFallback, Address: cloneEntry(bucket.wildcard), Message: FallbackMessage}
		}
	}
	return MatchResult{Kind: MatchNotFound, Message: NotFoundMessage}
}

// ByID returns the entry with the given ID.
func (d *Directory) ByID(id string) (AddressEntry, bool) {
	e, ok := d.byID[id]
	if !ok {
		return AddressEntry{}, false
	}
	return *e, true
}

// Entries returns a copy of all entries sorted by ID.
func (d *Directory) Entries() []AddressEntry {
	out := slices.Clone(d.entries)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Cantons returns the cantons this directory declares support for.
func (d *Directory) Cantons() []domain.Canton {
	return slices.Clone(d.cantons)
}

// Supports reports whether the canton is declared by the directory.
func (d *Directory) Supports(canton domain.Canton) bool {
	return slices.Contains(d.cantons, canton)
}

// Variant names the loaded dataset.
func (d *Directory) Variant() string {
	return d.variant
}

// LanguagePolicy is the letter language policy the dataset was curated for.
func (d *Directory) LanguagePolicy() string {
	return d.languagePolicy
}

// Len returns the number of entries.
func (d *Directory) Len() int {
	return len(d.entries)
}

func cloneEntry(e *AddressEntry) *AddressEntry {
	c := *e
	return &c
}
