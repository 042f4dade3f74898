// Package barcode renders row identifiers as barcode images ready to be
// embedded in a page.
package barcode

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"

	bc "github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	pdf417 "github.com/ruudk/golang-pdf417"
	"golang.org/x/image/draw"
)

// ErrEmptyContent is returned when there is nothing to encode.
var ErrEmptyContent = errors.New("barcode: empty content")

// Symbology selects the barcode type.
type Symbology string

const (
	Code128 Symbology = "code128"
	PDF417  Symbology = "pdf417"
)

// ParseSymbology accepts the symbology names case-insensitively. An empty
// string selects Code128.
func ParseSymbology(s string) (Symbology, error) {
	switch Symbology(strings.ToLower(strings.TrimSpace(s))) {
	case "", Code128:
		return Code128, nil
	case PDF417:
		return PDF417, nil
	}
	return "", fmt.Errorf("barcode: unknown symbology %q", s)
}

// Defaults match the id barcode printed on badges: three pixels per module,
// 18 pixels high.
const (
	DefaultScale  = 3
	DefaultHeight = 18

	pdf417Columns  = 4
	pdf417Security = 2
)

// Spec describes one barcode. Scale is the width of a module in pixels and
// Height the image height in pixels; zero values use the defaults.
type Spec struct {
	Symbology Symbology
	Text      string
	Scale     int
	Height    int
}

// Render encodes spec and returns an 8-bit grayscale PNG.
func Render(spec Spec) ([]byte, error) {
	img, err := Image(spec)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("barcode: encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

// Image encodes spec as a grayscale image.
func Image(spec Spec) (*image.Gray, error) {
	if strings.TrimSpace(spec.Text) == "" {
		return nil, ErrEmptyContent
	}
	scale := spec.Scale
	if scale <= 0 {
		scale = DefaultScale
	}
	height := spec.Height
	if height <= 0 {
		height = DefaultHeight
	}

	switch spec.Symbology {
	case "", Code128:
		code, err := code128.Encode(spec.Text)
		if err != nil {
			return nil, fmt.Errorf("barcode: code128 %q: %w", spec.Text, err)
		}
		scaled, err := bc.Scale(code, code.Bounds().Dx()*scale, height)
		if err != nil {
			return nil, fmt.Errorf("barcode: scaling: %w", err)
		}
		// boombuler images use a 16-bit gray model; flatten to 8 bits.
		out := image.NewGray(scaled.Bounds())
		draw.Draw(out, out.Bounds(), scaled, scaled.Bounds().Min, draw.Src)
		return out, nil

	case PDF417:
		var code image.Image = pdf417.Encode(spec.Text, pdf417Columns, pdf417Security)
		b := code.Bounds()
		if b.Empty() {
			return nil, fmt.Errorf("barcode: pdf417 %q: empty symbol", spec.Text)
		}
		out := image.NewGray(image.Rect(0, 0, b.Dx()*scale, max(height, b.Dy()*scale)))
		draw.NearestNeighbor.Scale(out, out.Bounds(), code, b, draw.Src, nil)
		return out, nil
	}
	return nil, fmt.Errorf("barcode: unknown symbology %q", spec.Symbology)
}
