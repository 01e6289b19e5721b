package directory

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"swissshield/pkg/domain"
	dErrors "swissshield/pkg/domain-errors"
)

type ResolveSuite struct {
	suite.Suite
	dir *Directory
}

func TestResolveSuite(t *testing.T) {
	suite.Run(t, new(ResolveSuite))
}

func (s *ResolveSuite) SetupTest() {
	dir, err := Load(VariantGerman)
	s.Require().NoError(err)
	s.dir = dir
}

func (s *ResolveSuite) TestExactMatchWinsOverWildcard() {
	res := s.dir.Resolve("ZH", "8000", domain.ConfessionCatholic)

	s.Equal(MatchExact, res.Kind)
	s.Require().NotNil(res.Address)
	s.Equal("zh-8000-cath", res.Address.ID)
	s.Empty(res.Message)
	s.True(res.Found())
	s.True(res.Exact())
}

func (s *ResolveSuite) TestFallbackToCantonWildcard() {
	res := s.dir.Resolve("ZH", "9999", domain.ConfessionCatholic)

	s.Equal(MatchFallback, res.Kind)
	s.Require().NotNil(res.Address)
	s.Equal("zh-cath-default", res.Address.ID)
	s.True(res.Address.IsWildcard())
	s.Equal(FallbackMessage, res.Message)
	s.False(res.Exact())
}

func (s *ResolveSuite) TestExactEntryIsConfessionSpecific() {
	res := s.dir.Resolve("ZH", "8000", domain.ConfessionReformed)

	s.Equal(MatchFallback, res.Kind)
	s.Equal("zh-ref-default", res.Address.ID)
}

func (s *ResolveSuite) TestUnknownCantonIsNotFound() {
	res := s.dir.Resolve("XX", "8000", domain.ConfessionCatholic)

	s.Equal(MatchNotFound, res.Kind)
	s.Nil(res.Address)
	s.Equal(NotFoundMessage, res.Message)
	s.False(res.Found())
}

func (s *ResolveSuite) TestCantonOutsideVariantIsNotFound() {
	res := s.dir.Resolve("GE", "1204", domain.ConfessionCatholic)
	s.Equal(MatchNotFound, res.Kind)
}

func (s *ResolveSuite) TestUnknownConfessionIsNotFound() {
	res := s.dir.Resolve("ZH", "8000", domain.Confession("orthodox"))
	s.Equal(MatchNotFound, res.Kind)
	s.NotEmpty(res.Message)
}

func (s *ResolveSuite) TestZipComparedVerbatim() {
	for _, zip := range []string{" 8000", "8000 ", "08000", "", "*"} {
		res := s.dir.Resolve("ZH", zip, domain.ConfessionCatholic)
		s.Equal(MatchFallback, res.Kind, "zip %q", zip)
		s.Equal("zh-cath-default", res.Address.ID, "zip %q", zip)
	}
}

func (s *ResolveSuite) TestResultIsDetachedFromDirectory() {
	res := s.dir.Resolve("BS", "4051", domain.ConfessionReformed)
	res.Address.RecipientName = "tampered"

	again := s.dir.Resolve("BS", "4051", domain.ConfessionReformed)
	s.Equal("Evangelisch-reformierte Kirche Basel-Stadt", again.Address.RecipientName)
}

func (s *ResolveSuite) TestEveryDeclaredCantonHasBothWildcards() {
	for _, c := range s.dir.Cantons() {
		for _, conf := range domain.Confessions() {
			res := s.dir.Resolve(c, "0000", conf)
			s.Equal(MatchFallback, res.Kind, "%s/%s", c, conf)
		}
	}
}

func TestEmbeddedVariantsHoldInvariants(t *testing.T) {
	variants := Variants()
	require.ElementsMatch(t, []string{VariantGerman, VariantRomandieMixed}, variants)

	for _, v := range variants {
		t.Run(v, func(t *testing.T) {
			dir, err := Load(v)
			require.NoError(t, err)
			assert.Equal(t, v, dir.Variant())

			triples := map[string]bool{}
			wildcards := map[string]int{}
			for _, e := range dir.Entries() {
				key := string(e.Canton) + "|" + e.Zip + "|" + string(e.Confession)
				assert.False(t, triples[key], "duplicate triple %s", key)
				triples[key] = true
				if e.IsWildcard() {
					wildcards[string(e.Canton)+"|"+string(e.Confession)]++
				}
				assert.True(t, dir.Supports(e.Canton))
				assert.NotEmpty(t, e.UpdatedAt)
			}
			for pair, n := range wildcards {
				assert.Equal(t, 1, n, "wildcards for %s", pair)
			}
		})
	}
}

func TestRomandieVariantResolvesFrenchCantons(t *testing.T) {
	dir, err := Load(VariantRomandieMixed)
	require.NoError(t, err)
	assert.Equal(t, "by-canton", dir.LanguagePolicy())

	res := dir.Resolve("GE", "1204", domain.ConfessionReformed)
	require.Equal(t, MatchFallback, res.Kind)
	assert.Equal(t, "ge-ref-default", res.Address.ID)

	assert.Equal(t, MatchNotFound, dir.Resolve("ZG", "6300", domain.ConfessionCatholic).Kind)
}

func TestLoadUnknownVariant(t *testing.T) {
	_, err := Load("klingon")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestNewRejectsBrokenDatasets(t *testing.T) {
	base := AddressEntry{
		ID: "zh-cath-default", Canton: "ZH", Zip: Wildcard, Confession: domain.ConfessionCatholic,
		RecipientName: "Kirche", Addr1: "Strasse 1", Postal: "8001", City: "Zürich", Country: "Schweiz",
	}
	with := func(mut func(e *AddressEntry)) AddressEntry {
		e := base
		mut(&e)
		return e
	}

	tests := []struct {
		name    string
		cantons []domain.Canton
		entries []AddressEntry
	}{
		{"second wildcard for pair", []domain.Canton{"ZH"}, []AddressEntry{base, with(func(e *AddressEntry) { e.ID = "other" })}},
		{"duplicate id", []domain.Canton{"ZH"}, []AddressEntry{base, with(func(e *AddressEntry) { e.Zip = "8000" })}},
		{"duplicate exact triple", []domain.Canton{"ZH"}, []AddressEntry{
			with(func(e *AddressEntry) { e.ID = "a"; e.Zip = "8000" }),
			with(func(e *AddressEntry) { e.ID = "b"; e.Zip = "8000" }),
		}},
		{"undeclared canton", []domain.Canton{"BE"}, []AddressEntry{base}},
		{"invalid declared canton", []domain.Canton{"XX"}, nil},
		{"invalid confession", []domain.Canton{"ZH"}, []AddressEntry{with(func(e *AddressEntry) { e.Confession = "orthodox" })}},
		{"missing address", []domain.Canton{"ZH"}, []AddressEntry{with(func(e *AddressEntry) { e.Addr1 = "" })}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("test", "german", tt.cantons, tt.entries)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation), err.Error())
		})
	}
}

func TestLoadFile(t *testing.T) {
	yml := `variant: custom
language_policy: german
cantons: [LU]
entries:
  - id: lu-cath-default
    canton: LU
    zip: "*"
    confession: catholic
    recipient_name: Römisch-katholische Landeskirche des Kantons Luzern
    addr1: Abendweg 1
    postal: "6006"
    city: Luzern
    country: Schweiz
    updated_at: "2026-02-01"
  - id: lu-6000-cath
    canton: LU
    zip: "6000"
    confession: catholic
    recipient_name: Katholische Kirchgemeinde Luzern
    addr1: Brünigstrasse 20
    postal: "6005"
    city: Luzern
    country: Schweiz
    updated_at: "2026-02-01"
`
	p := filepath.Join(t.TempDir(), "dir.yaml")
	require.NoError(t, os.WriteFile(p, []byte(yml), 0o600))

	dir, err := LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "custom", dir.Variant())
	assert.Equal(t, 2, dir.Len())
	assert.Equal(t, MatchExact, dir.Resolve("LU", "6000", domain.ConfessionCatholic).Kind)
	assert.Equal(t, MatchNotFound, dir.Resolve("LU", "6000", domain.ConfessionReformed).Kind)

	e, ok := dir.ByID("lu-6000-cath")
	require.True(t, ok)
	assert.Equal(t, "6005 Luzern", e.PostalCity())
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("entries: [unclosed"))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestResolveIsSafeForConcurrentUse(t *testing.T) {
	dir, err := Load(VariantGerman)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				res := dir.Resolve("ZH", "8000", domain.ConfessionCatholic)
				if res.Kind != MatchExact {
					t.Errorf("unexpected kind %s", res.Kind)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestDisplayNames(t *testing.T) {
	assert.Equal(t, "Basel-Stadt", CantonName("BS"))
	assert.Equal(t, "XX", CantonName("XX"))
	assert.Equal(t, "Römisch-katholisch", ConfessionName(domain.ConfessionCatholic))
	assert.Equal(t, "Evangelisch-reformiert", ConfessionName(domain.ConfessionReformed))
}

func TestParseNormalizesDeclaredCantons(t *testing.T) {
	yml := `variant: custom
language_policy: german
cantons: [" lu", LU, ""]
entries:
  - id: lu-ref-default
    canton: LU
    zip: "*"
    confession: reformed
    recipient_name: Reformierte Kirche Kanton Luzern
    addr1: Hertensteinstrasse 30
    postal: "6004"
    city: Luzern
    country: Schweiz
`
	dir, err := Parse([]byte(yml))
	require.NoError(t, err)
	assert.Equal(t, []domain.Canton{"LU"}, dir.Cantons())
}
