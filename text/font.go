// Package text measures and draws single-line text against embedded
// TrueType fonts. Glyph coverage is known up front, so text the font cannot
// render is detected before it reaches the page and sanitized.
package text

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// ErrUnsupportedGlyph is matched by every *GlyphError.
var ErrUnsupportedGlyph = errors.New("text: unsupported glyph")

// GlyphError reports runes a font has no glyph for.
type GlyphError struct {
	Font  string
	Text  string
	Runes []rune
}

func (e *GlyphError) Error() string {
	codes := make([]string, len(e.Runes))
	for i, r := range e.Runes {
		codes[i] = fmt.Sprintf("%q (%U)", r, r)
	}
	return fmt.Sprintf("text: font %s cannot encode %s in %q", e.Font, strings.Join(codes, ", "), e.Text)
}

func (e *GlyphError) Unwrap() error { return ErrUnsupportedGlyph }

// Font is a parsed TrueType font. Family and Style identify it to the PDF
// engine; Style is "" for regular and "B" for bold.
type Font struct {
	Family string
	Style  string
	Data   []byte

	sf   *sfnt.Font
	upem fixed.Int26_6

	mu  sync.Mutex
	buf sfnt.Buffer
	adv map[rune]float64 // advance in em; negative when the rune has no glyph
}

// ParseFont parses TrueType bytes. When family is empty the font's own family
// name is used.
func ParseFont(family, style string, data []byte) (*Font, error) {
	sf, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: parsing font %s: %w", family, err)
	}
	if family == "" {
		var b sfnt.Buffer
		if name, err := sf.Name(&b, sfnt.NameIDFamily); err == nil && name != "" {
			family = name
		} else {
			family = "Custom"
		}
	}
	return &Font{
		Family: family,
		Style:  style,
		Data:   data,
		sf:     sf,
		upem:   fixed.I(int(sf.UnitsPerEm())),
		adv:    make(map[rune]float64),
	}, nil
}

// Name is the family and style, e.g. "Go B".
func (f *Font) Name() string {
	if f.Style == "" {
		return f.Family
	}
	return f.Family + " " + f.Style
}

func (f *Font) advance(r rune) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.adv[r]; ok {
		return a
	}
	a := -1.0
	if idx, err := f.sf.GlyphIndex(&f.buf, r); err == nil && idx != 0 {
		if w, err := f.sf.GlyphAdvance(&f.buf, idx, f.upem, font.HintingNone); err == nil {
			a = float64(w) / float64(f.upem)
		}
	}
	f.adv[r] = a
	return a
}

// Supports reports whether the font has a glyph for r.
func (f *Font) Supports(r rune) bool {
	return f.advance(r) >= 0
}

// Missing returns the distinct runes of s without a glyph, in order of
// first appearance.
func (f *Font) Missing(s string) []rune {
	var missing []rune
	seen := map[rune]bool{}
	for _, r := range s {
		if seen[r] || f.Supports(r) {
			continue
		}
		seen[r] = true
		missing = append(missing, r)
	}
	return missing
}

// Check returns a *GlyphError when s contains runes without a glyph.
func (f *Font) Check(s string) error {
	if missing := f.Missing(s); len(missing) > 0 {
		return &GlyphError{Font: f.Name(), Text: s, Runes: missing}
	}
	return nil
}

// Width returns the advance width of s at size points.
func (f *Font) Width(s string, size float64) (float64, error) {
	if err := f.Check(s); err != nil {
		return 0, err
	}
	var em float64
	for _, r := range s {
		em += f.advance(r)
	}
	return em * size, nil
}

// FontSet holds the two weights used on every page.
type FontSet struct {
	Regular *Font
	Bold    *Font
}

var defaultFonts = sync.OnceValues(func() (FontSet, error) {
	regular, err := ParseFont("Go", "", goregular.TTF)
	if err != nil {
		return FontSet{}, err
	}
	bold, err := ParseFont("Go", "B", gobold.TTF)
	if err != nil {
		return FontSet{}, err
	}
	return FontSet{Regular: regular, Bold: bold}, nil
})

// DefaultFonts returns the embedded Go fonts. They are parsed once per
// process and shared read-only.
func DefaultFonts() (FontSet, error) {
	return defaultFonts()
}

// LoadFontFiles reads a regular and a bold TrueType file.
func LoadFontFiles(regularPath, boldPath string) (FontSet, error) {
	load := func(path, style string) (*Font, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("text: reading font %s: %w", path, err)
		}
		return ParseFont("", style, data)
	}
	regular, err := load(regularPath, "")
	if err != nil {
		return FontSet{}, err
	}
	bold, err := load(boldPath, "B")
	if err != nil {
		return FontSet{}, err
	}
	return FontSet{Regular: regular, Bold: bold}, nil
}
