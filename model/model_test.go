package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowNameLine(t *testing.T) {
	assert.Equal(t, "Ada", Row{Name: "Ada"}.NameLine())
	assert.Equal(t, "Ada (GA)", Row{Name: "Ada", Committee: "GA"}.NameLine())
}

func TestRowImageField(t *testing.T) {
	assert.Equal(t, FieldCountryAlpha2Code, Row{CountryAlpha2Code: "DE"}.ImageField())
	assert.Equal(t, FieldAlternativeImage, Row{AlternativeImage: "x.png"}.ImageField())
	assert.Equal(t, "de", Row{CountryAlpha2Code: " DE "}.FlagCode())
}

func TestMediaConsent(t *testing.T) {
	assert.False(t, ConsentAllowedAll.ShowsIndicator())
	assert.True(t, ConsentPartiallyAllowed.ShowsIndicator())
	assert.True(t, ConsentPartiallyAllowed.Partial())
	assert.True(t, MediaConsent("").ShowsIndicator())
	assert.False(t, ConsentNotAllowed.Partial())
}

func TestLookupBrandIncludesYear(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	info, ok := LookupBrand(BrandMUNSH, now)
	require.True(t, ok)
	assert.Equal(t, "Schleswig-Holstein 2026", info.ConferenceName)
	assert.NotEmpty(t, info.LogoPath)

	_, ok = LookupBrand(Brand("nope"), now)
	assert.False(t, ok)
}

func TestParseBrand(t *testing.T) {
	b, err := ParseBrand("munbw")
	require.NoError(t, err)
	assert.Equal(t, BrandMUNBW, b)

	_, err = ParseBrand("acme")
	assert.Error(t, err)
}

func TestParseDocumentType(t *testing.T) {
	for in, want := range map[string]DocumentType{
		"PLACARD":          Placard,
		"vertical-badge":   VerticalBadge,
		"horizontal_badge": HorizontalBadge,
	} {
		got, err := ParseDocumentType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseDocumentType("poster")
	assert.Error(t, err)
}
