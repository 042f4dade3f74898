// Package ingest reads attendee rows from JSON, YAML or CSV tables and
// checks them before generation.
package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/DeutscheModelUnitedNations/badgeGenerator/model"
)

// Format is the encoding of a row table.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	CSV  Format = "csv"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".csv":
		return CSV, nil
	}
	return "", fmt.Errorf("ingest: cannot tell the format of %q", path)
}

// LoadFile reads the rows in path.
func LoadFile(path string) ([]model.Row, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	defer file.Close()
	return Load(file, f)
}

// Load decodes the rows in r.
func Load(r io.Reader, f Format) ([]model.Row, error) {
	var rows []model.Row
	var err error
	switch f {
	case JSON:
		err = json.NewDecoder(r).Decode(&rows)
	case YAML:
		err = yaml.NewDecoder(r).Decode(&rows)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	case CSV:
		rows, err = loadCSV(r)
	default:
		return nil, fmt.Errorf("ingest: unknown format %q", f)
	}
	if err != nil {
		return nil, fmt.Errorf("ingest: decoding %s: %w", f, err)
	}
	for i := range rows {
		rows[i] = trim(rows[i])
	}
	return rows, nil
}

var csvColumns = map[string]func(*model.Row, string){
	model.FieldName:              func(r *model.Row, v string) { r.Name = v },
	model.FieldCommittee:         func(r *model.Row, v string) { r.Committee = v },
	model.FieldCountryName:       func(r *model.Row, v string) { r.CountryName = v },
	model.FieldCountryAlpha2Code: func(r *model.Row, v string) { r.CountryAlpha2Code = v },
	model.FieldAlternativeImage:  func(r *model.Row, v string) { r.AlternativeImage = v },
	model.FieldPronouns:          func(r *model.Row, v string) { r.Pronouns = v },
	model.FieldID:                func(r *model.Row, v string) { r.ID = v },
	model.FieldMediaConsent:      func(r *model.Row, v string) { r.MediaConsentStatus = model.MediaConsent(v) },
}

// loadCSV reads a table whose header row carries the field names. Unknown
// columns are ignored.
func loadCSV(r io.Reader) ([]model.Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	setters := make([]func(*model.Row, string), len(records[0]))
	known := 0
	for i, col := range records[0] {
		if set, ok := csvColumns[strings.TrimSpace(col)]; ok {
			setters[i] = set
			known++
		}
	}
	if known == 0 {
		return nil, fmt.Errorf("header %v has no known column", records[0])
	}

	rows := make([]model.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		var row model.Row
		for i, v := range rec {
			if setters[i] != nil {
				setters[i](&row, v)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func trim(r model.Row) model.Row {
	r.Name = strings.TrimSpace(r.Name)
	r.Committee = strings.TrimSpace(r.Committee)
	r.CountryName = strings.TrimSpace(r.CountryName)
	r.CountryAlpha2Code = strings.TrimSpace(r.CountryAlpha2Code)
	r.AlternativeImage = strings.TrimSpace(r.AlternativeImage)
	r.Pronouns = strings.TrimSpace(r.Pronouns)
	r.ID = strings.TrimSpace(r.ID)
	r.MediaConsentStatus = model.MediaConsent(strings.ToUpper(strings.TrimSpace(string(r.MediaConsentStatus))))
	return r
}
