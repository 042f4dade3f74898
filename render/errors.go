package render

import (
	"errors"
	"fmt"
)

// Sentinel errors for document failures.
var (
	ErrNoPage           = errors.New("render: no page has been added")
	ErrUnsupportedImage = errors.New("render: unsupported image type")
)

// PDFError is an error of the PDF engine during a specific operation.
type PDFError struct {
	Op  string // operation name, e.g. "AddPage", "Image"
	Err error
}

func (e *PDFError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("render.%s: unknown error", e.Op)
}

func (e *PDFError) Unwrap() error {
	return e.Err
}

func newPDFError(op string, err error) *PDFError {
	return &PDFError{Op: op, Err: err}
}
