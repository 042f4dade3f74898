package ingest

import (
	"errors"
	"fmt"

	"github.com/DeutscheModelUnitedNations/badgeGenerator/model"
)

// RowError is a problem with one field of one row.
type RowError struct {
	Row   int
	Field string
	Msg   string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Msg)
}

// Validate checks every row and returns all problems joined, or nil.
func Validate(rows []model.Row) error {
	var errs []error
	add := func(i int, field, msg string) {
		errs = append(errs, &RowError{Row: i, Field: field, Msg: msg})
	}
	for i, r := range rows {
		if r.Name == "" {
			add(i, model.FieldName, "required")
		}
		if r.CountryName == "" {
			add(i, model.FieldCountryName, "required")
		}
		switch {
		case r.CountryAlpha2Code == "" && r.AlternativeImage == "":
			add(i, model.FieldCountryAlpha2Code, "either countryAlpha2Code or alternativeImage is required")
		case r.CountryAlpha2Code != "" && r.AlternativeImage != "":
			add(i, model.FieldAlternativeImage, "set only one of countryAlpha2Code and alternativeImage")
		case r.CountryAlpha2Code != "" && !isAlpha2(r.CountryAlpha2Code):
			add(i, model.FieldCountryAlpha2Code, fmt.Sprintf("%q is not a two-letter code", r.CountryAlpha2Code))
		}
	}
	return errors.Join(errs...)
}

func isAlpha2(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, c := range []byte(s) {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
