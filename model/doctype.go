package model

import (
	"fmt"
	"strings"
)

// DocumentType selects the page layout applied to every row of a run.
type DocumentType string

const (
	Placard         DocumentType = "PLACARD"
	VerticalBadge   DocumentType = "VERTICAL_BADGE"
	HorizontalBadge DocumentType = "HORIZONTAL_BADGE"
)

// DocumentTypes returns all document types.
func DocumentTypes() []DocumentType {
	return []DocumentType{Placard, VerticalBadge, HorizontalBadge}
}

// Valid reports whether t is a known document type.
func (t DocumentType) Valid() bool {
	switch t {
	case Placard, VerticalBadge, HorizontalBadge:
		return true
	}
	return false
}

// ParseDocumentType accepts the enum values as well as lower-case and
// kebab-case spellings ("vertical-badge").
func ParseDocumentType(s string) (DocumentType, error) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	t := DocumentType(norm)
	if !t.Valid() {
		return "", fmt.Errorf("model: unknown document type %q", s)
	}
	return t, nil
}
