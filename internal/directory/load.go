package directory

import (
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"swissshield/pkg/domain"
	dErrors "swissshield/pkg/domain-errors"
	textutil "swissshield/pkg/platform/strings"
)

// Embedded dataset names.
const (
	VariantGerman        = "german"
	VariantRomandieMixed = "romandie-mixed"
)

//go:embed data/*.yaml
var embedded embed.FS

type yamlDirectory struct {
	Variant        string      `yaml:"variant"`
	LanguagePolicy string      `yaml:"language_policy"`
	Cantons        []string    `yaml:"cantons"`
	Entries        []yamlEntry `yaml:"entries"`
}

type yamlEntry struct {
	ID            string `yaml:"id"`
	Canton        string `yaml:"canton"`
	Zip           string `yaml:"zip"`
	Confession    string `yaml:"confession"`
	RecipientName string `yaml:"recipient_name"`
	Addr1         string `yaml:"addr1"`
	Addr2         string `yaml:"addr2"`
	Postal        string `yaml:"postal"`
	City          string `yaml:"city"`
	Country       string `yaml:"country"`
	SourceNote    string `yaml:"source_note"`
	UpdatedAt     string `yaml:"updated_at"`
}

// Variants lists the embedded datasets.
func Variants() []string {
	files, err := embedded.ReadDir("data")
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, strings.TrimSuffix(f.Name(), ".yaml"))
	}
	sort.Strings(out)
	return out
}

// Load builds the directory from an embedded dataset.
func Load(variant string) (*Directory, error) {
	b, err := embedded.ReadFile(path.Join("data", variant+".yaml"))
	if err != nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown directory variant %q", variant))
	}
	return Parse(b)
}

// LoadFile builds the directory from a YAML file on disk.
func LoadFile(filename string) (*Directory, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", filename, err)
	}
	return Parse(b)
}

// Parse decodes a YAML dataset and validates it.
func Parse(b []byte) (*Directory, error) {
	var dto yamlDirectory
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "decode directory")
	}

	declared := textutil.DedupeAndTrimUpper(dto.Cantons)
	cantons := make([]domain.Canton, 0, len(declared))
	for _, c := range declared {
		cantons = append(cantons, domain.Canton(c))
	}
	entries := make([]AddressEntry, 0, len(dto.Entries))
	for _, e := range dto.Entries {
		entries = append(entries, AddressEntry{
			ID:            e.ID,
			Canton:        domain.Canton(e.Canton),
			Zip:           e.Zip,
			Confession:    domain.Confession(e.Confession),
			RecipientName: e.RecipientName,
			Addr1:         e.Addr1,
			Addr2:         e.Addr2,
			Postal:        e.Postal,
			City:          e.City,
			Country:       e.Country,
			SourceNote:    e.SourceNote,
			UpdatedAt:     e.UpdatedAt,
		})
	}
	return New(dto.Variant, dto.LanguagePolicy, cantons, entries)
}

// New validates the entries and builds the lookup index.
//
// Errors: CodeInvariantViolation when an ID or a (canton, zip, confession)
// triple repeats, when a canton is not declared, or when a required field is
// missing.
func New(variant, languagePolicy string, cantons []domain.Canton, entries []AddressEntry) (*Directory, error) {
	if variant == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "directory variant is required")
	}
	declared := make(map[domain.Canton]bool, len(cantons))
	for _, c := range cantons {
		if !c.IsValid() {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("invalid canton %q", c))
		}
		if declared[c] {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("canton %s declared twice", c))
		}
		declared[c] = true
	}

	d := &Directory{
		variant:        variant,
		languagePolicy: languagePolicy,
		cantons:        append([]domain.Canton(nil), cantons...),
		entries:        make([]AddressEntry, len(entries)),
		byID:           make(map[string]*AddressEntry, len(entries)),
		index:          make(map[indexKey]*indexBucket),
	}
	copy(d.entries, entries)

	for i := range d.entries {
		e := &d.entries[i]
		if err := validateEntry(e, declared); err != nil {
			return nil, err
		}
		if _, dup := d.byID[e.ID]; dup {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("duplicate entry id %q", e.ID))
		}
		d.byID[e.ID] = e

		key := indexKey{canton: e.Canton, confession: e.Confession}
		bucket := d.index[key]
		if bucket == nil {
			bucket = &indexBucket{exact: make(map[string]*AddressEntry)}
			d.index[key] = bucket
		}
		if e.IsWildcard() {
			if bucket.wildcard != nil {
				return nil, dErrors.New(dErrors.CodeInvariantViolation,
					fmt.Sprintf("second wildcard for %s/%s: %q and %q", e.Canton, e.Confession, bucket.wildcard.ID, e.ID))
			}
			bucket.wildcard = e
			continue
		}
		if prev, dup := bucket.exact[e.Zip]; dup {
			return nil, dErrors.New(dErrors.CodeInvariantViolation,
				fmt.Sprintf("duplicate entry for %s/%s/%s: %q and %q", e.Canton, e.Zip, e.Confession, prev.ID, e.ID))
		}
		bucket.exact[e.Zip] = e
	}
	return d, nil
}

func validateEntry(e *AddressEntry, declared map[domain.Canton]bool) error {
	switch {
	case e.ID == "":
		return dErrors.New(dErrors.CodeInvariantViolation, "entry id is required")
	case !declared[e.Canton]:
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("entry %q: canton %q not declared", e.ID, e.Canton))
	case !e.Confession.IsValid():
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("entry %q: invalid confession %q", e.ID, e.Confession))
	case e.Zip == "":
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("entry %q: zip is required", e.ID))
	case e.RecipientName == "" || e.Addr1 == "" || e.Postal == "" || e.City == "":
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("entry %q: incomplete mailing address", e.ID))
	}
	return nil
}
