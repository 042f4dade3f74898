// Package layout places the content of one row on a page. Each document type
// is described by a Spec table; Compose runs the same ordered steps for all
// of them against a Canvas.
package layout

import (
	"github.com/DeutscheModelUnitedNations/badgeGenerator/assets"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/text"
)

// ImageOptions modify how an image is drawn.
type ImageOptions struct {
	Opacity   float64 // 0 draws fully opaque
	Rotate180 bool    // rotate about the centre of the box
}

// Canvas is the drawing surface of a document. Text, page and image
// operations report errors; stroke and fill operations record theirs in the
// document and surface when it is serialised.
type Canvas interface {
	text.Drawer

	AddPage(size Size) error

	// Image draws a into box. key identifies the image data so it is
	// embedded once however often it is drawn.
	Image(key string, a assets.Asset, box Rect, opts ImageOptions) error

	Rect(box Rect, lineWidth float64, c Color)
	Line(from, to Point, lineWidth float64, c Color)
	Circle(center Point, radius float64, fill Color)
}
