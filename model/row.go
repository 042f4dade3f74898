// Package model defines the attendee rows, brands and document types the
// generator works on.
package model

import "strings"

// MediaConsent is the attendee's consent to being photographed or filmed.
type MediaConsent string

const (
	ConsentAllowedAll       MediaConsent = "ALLOWED_ALL"
	ConsentPartiallyAllowed MediaConsent = "PARTIALLY_ALLOWED"
	ConsentNotAllowed       MediaConsent = "NOT_ALLOWED"
)

// ShowsIndicator reports whether a consent marker has to be printed. Only
// full consent goes unmarked; empty and unknown values count as restricted.
func (c MediaConsent) ShowsIndicator() bool {
	return c != ConsentAllowedAll
}

// Partial reports whether the consent is partially granted.
func (c MediaConsent) Partial() bool {
	return c == ConsentPartiallyAllowed
}

// Field names used in warning paths. They match the column names of the
// input table.
const (
	FieldName              = "name"
	FieldCommittee         = "committee"
	FieldCountryName       = "countryName"
	FieldCountryAlpha2Code = "countryAlpha2Code"
	FieldAlternativeImage  = "alternativeImage"
	FieldPronouns          = "pronouns"
	FieldID                = "id"
	FieldMediaConsent      = "mediaConsentStatus"
)

// Row is one attendee and produces exactly one page.
//
// Exactly one of CountryAlpha2Code and AlternativeImage is expected to be set;
// rows are validated before they reach the generator.
type Row struct {
	Name               string       `json:"name" yaml:"name"`
	Committee          string       `json:"committee,omitempty" yaml:"committee,omitempty"`
	CountryName        string       `json:"countryName" yaml:"countryName"`
	CountryAlpha2Code  string       `json:"countryAlpha2Code,omitempty" yaml:"countryAlpha2Code,omitempty"`
	AlternativeImage   string       `json:"alternativeImage,omitempty" yaml:"alternativeImage,omitempty"`
	Pronouns           string       `json:"pronouns,omitempty" yaml:"pronouns,omitempty"`
	ID                 string       `json:"id,omitempty" yaml:"id,omitempty"`
	MediaConsentStatus MediaConsent `json:"mediaConsentStatus,omitempty" yaml:"mediaConsentStatus,omitempty"`
}

// NameLine is the text printed under the title: the name, followed by the
// committee in parentheses when one is set.
func (r Row) NameLine() string {
	if r.Committee == "" {
		return r.Name
	}
	return r.Name + " (" + r.Committee + ")"
}

// ImageField names the column that selects the subject image.
func (r Row) ImageField() string {
	if r.AlternativeImage != "" {
		return FieldAlternativeImage
	}
	return FieldCountryAlpha2Code
}

// FlagCode returns the lower-cased alpha-2 code used for flag lookups.
func (r Row) FlagCode() string {
	return strings.ToLower(strings.TrimSpace(r.CountryAlpha2Code))
}
