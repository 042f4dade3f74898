package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeutscheModelUnitedNations/badgeGenerator/model"
)

var want = []model.Row{
	{Name: "Ada", Committee: "GA", CountryName: "Deutschland", CountryAlpha2Code: "de", Pronouns: "she/her", ID: "1", MediaConsentStatus: model.ConsentAllowedAll},
	{Name: "Bo", CountryName: "Presse", AlternativeImage: "press.png", MediaConsentStatus: model.ConsentPartiallyAllowed},
}

func TestLoadFormats(t *testing.T) {
	inputs := map[Format]string{
		JSON: `[
  {"name": "Ada", "committee": "GA", "countryName": "Deutschland", "countryAlpha2Code": "de", "pronouns": "she/her", "id": "1", "mediaConsentStatus": "ALLOWED_ALL"},
  {"name": " Bo ", "countryName": "Presse", "alternativeImage": "press.png", "mediaConsentStatus": "partially_allowed"}
]`,
		YAML: `
- name: Ada
  committee: GA
  countryName: Deutschland
  countryAlpha2Code: de
  pronouns: she/her
  id: "1"
  mediaConsentStatus: ALLOWED_ALL
- name: Bo
  countryName: Presse
  alternativeImage: press.png
  mediaConsentStatus: PARTIALLY_ALLOWED
`,
		CSV: "\xef\xbb\xbfname,committee,countryName,countryAlpha2Code,alternativeImage,pronouns,id,mediaConsentStatus,notes\n" +
			"Ada,GA,Deutschland,de,,she/her,1,ALLOWED_ALL,x\n" +
			"Bo,,Presse,,press.png,,,PARTIALLY_ALLOWED,\n",
	}
	for f, in := range inputs {
		rows, err := Load(strings.NewReader(in), f)
		require.NoError(t, err, f)
		assert.Equal(t, want, rows, f)
		require.NoError(t, Validate(rows), f)
	}
}

func TestLoadEmpty(t *testing.T) {
	rows, err := Load(strings.NewReader(""), YAML)
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = Load(strings.NewReader(""), CSV)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(strings.NewReader("{"), JSON)
	require.Error(t, err)
	_, err = Load(strings.NewReader("a,b\n1,2\n"), CSV)
	require.Error(t, err)
	_, err = Load(strings.NewReader(""), "xlsx")
	require.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	for path, f := range map[string]Format{"a.json": JSON, "b.YML": YAML, "c.yaml": YAML, "d.csv": CSV} {
		got, err := FormatFromPath(path)
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := FormatFromPath("rows.txt")
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,countryName,countryAlpha2Code\nAda,Deutschland,DE\n"), 0o644))
	rows, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "de", rows[0].FlagCode())
}

func TestValidate(t *testing.T) {
	err := Validate([]model.Row{
		{Name: "ok", CountryName: "X", CountryAlpha2Code: "de"},
		{CountryName: "X", CountryAlpha2Code: "deu"},
		{Name: "n", CountryName: "X"},
		{Name: "n", CountryName: "X", CountryAlpha2Code: "de", AlternativeImage: "a.png"},
	})
	require.Error(t, err)

	var got []string
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var re *RowError
		require.True(t, errors.As(e, &re))
		got = append(got, re.Error()[:len("row 0: ")]+re.Field)
	}
	assert.Equal(t, []string{
		"row 1: name",
		"row 1: countryAlpha2Code",
		"row 2: countryAlpha2Code",
		"row 3: alternativeImage",
	}, got)
}
