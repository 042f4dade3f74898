package badgegen

import (
	"errors"
	"fmt"
)

// Sentinel errors for generation failures.
var (
	ErrNoRows              = errors.New("badgegen: no rows to generate")
	ErrRunInProgress       = errors.New("badgegen: run already in progress")
	ErrUnknownDocumentType = errors.New("badgegen: unknown document type")
	ErrUnknownBrand        = errors.New("badgegen: unknown brand")
)

// GenerationError is a fatal error of a run. Row is the index of the row
// being laid out, or -1 when the failure is not tied to a row.
type GenerationError struct {
	Op  string // "prefetch", "layout", "output", ...
	Row int
	Err error
}

func (e *GenerationError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("badgegen.%s: row %d: %v", e.Op, e.Row, e.Err)
	}
	return fmt.Sprintf("badgegen.%s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func newGenerationError(op string, row int, err error) *GenerationError {
	return &GenerationError{Op: op, Row: row, Err: err}
}
