package render

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Verify parses and validates a PDF and returns its page count.
func Verify(pdf []byte) (int, error) {
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		return 0, fmt.Errorf("render: verify: missing %%PDF header")
	}
	ctx, err := api.ReadContext(bytes.NewReader(pdf), model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("render: verify: reading: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return 0, fmt.Errorf("render: verify: validating: %w", err)
	}
	return ctx.PageCount, nil
}
