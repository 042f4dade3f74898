package text

import (
	"errors"
	"fmt"
	"math"

	"github.com/DeutscheModelUnitedNations/badgeGenerator/report"
)

// Drawer puts a single line of text on the current page. The baseline starts
// at (x, y) and the text is rotated by rotation degrees around that point.
type Drawer interface {
	Text(f *Font, size, x, y float64, s string, rotation float64) error
}

// Placement positions one copy of a text, centred on CX.
type Placement struct {
	CX       float64
	Baseline float64
	Rotation float64 // degrees; 180 renders the copy upside down
}

// Line is a text to draw and the warning path it is reported under.
type Line struct {
	Font *Font
	Size float64
	Text string
	Path []string
}

// Renderer draws text for one page and records advisory warnings.
type Renderer struct {
	sink         *report.Sink
	pageWidth    float64
	safetyMargin float64
}

// NewRenderer returns a renderer for a page pageWidth points wide. Text wider
// than pageWidth-safetyMargin is reported as overflowing.
func NewRenderer(sink *report.Sink, pageWidth, safetyMargin float64) *Renderer {
	return &Renderer{sink: sink, pageWidth: pageWidth, safetyMargin: safetyMargin}
}

// Measure returns the width of l.Text and the text that will actually be
// drawn. Unsupported glyphs are sanitized and reported once.
func (r *Renderer) Measure(l Line) (float64, string, error) {
	w, err := l.Font.Width(l.Text, l.Size)
	if err == nil {
		return w, l.Text, nil
	}
	if !errors.Is(err, ErrUnsupportedGlyph) {
		return 0, "", err
	}
	return r.sanitize(l, err)
}

// Draw draws l at every placement. The text is measured once: overflow and
// sanitization are each reported at most once per call, and overflowing text
// is still drawn.
func (r *Renderer) Draw(d Drawer, l Line, at ...Placement) error {
	w, s, err := r.Measure(l)
	if err != nil {
		return err
	}
	sanitized := s != l.Text

	if r.pageWidth-r.safetyMargin < w {
		r.sink.Add(report.Warning{
			Type:    report.Overflow,
			Message: "Text is wider than the page.",
			Details: s,
			Path:    l.Path,
		})
	}

	for _, p := range at {
		err := d.Text(l.Font, l.Size, anchorX(p, w), p.Baseline, s, p.Rotation)
		if err == nil {
			continue
		}
		if sanitized || !errors.Is(err, ErrUnsupportedGlyph) {
			return fmt.Errorf("text: drawing %q: %w", s, err)
		}
		if w, s, err = r.sanitize(Line{Font: l.Font, Size: l.Size, Text: s, Path: l.Path}, err); err != nil {
			return err
		}
		sanitized = true
		if err := d.Text(l.Font, l.Size, anchorX(p, w), p.Baseline, s, p.Rotation); err != nil {
			return fmt.Errorf("text: drawing sanitized %q: %w", s, err)
		}
	}
	return nil
}

func (r *Renderer) sanitize(l Line, cause error) (float64, string, error) {
	r.sink.Add(report.Warning{
		Type:    report.Text,
		Message: "Text contains characters the font cannot display; they were replaced.",
		Details: cause.Error(),
		Path:    l.Path,
	})
	clean := Sanitize(l.Text, l.Font)
	w, err := l.Font.Width(clean, l.Size)
	if err != nil {
		return 0, "", fmt.Errorf("text: sanitized text still unsupported: %w", err)
	}
	return w, clean, nil
}

// anchorX is the start of the baseline for a text of width w centred on
// p.CX. Rotation is about the anchor, so a flipped copy starts on the right.
func anchorX(p Placement, w float64) float64 {
	rad := p.Rotation * math.Pi / 180
	return p.CX - math.Cos(rad)*w/2
}
