package layout

import "github.com/DeutscheModelUnitedNations/badgeGenerator/model"

// FontSizes are the three text sizes of a variant, in points.
type FontSizes struct {
	Title   float64
	Heading float64
	Normal  float64
}

// Styles is the style sheet of a variant.
type Styles struct {
	Margin     float64
	LineHeight float64
	FontSize   FontSizes

	Gray   Color
	Black  Color
	Accent Color

	// Text wider than the page width minus SafetyMargin is reported.
	SafetyMargin float64
}

var baseStyles = Styles{
	Margin:     40,
	LineHeight: 1.2,
	Gray:       Gray(0.5),
	Black:      Gray(0),
	Accent:     Color{R: 0, G: 0.478, B: 1},
}

// StylesFor returns the style sheet of t.
func StylesFor(t model.DocumentType) Styles {
	s := baseStyles
	switch t {
	case model.Placard:
		s.FontSize = FontSizes{Title: 36, Heading: 24, Normal: 11}
		s.SafetyMargin = 40
	case model.VerticalBadge:
		s.FontSize = FontSizes{Title: 11, Heading: 9, Normal: 7}
		s.SafetyMargin = 10
	case model.HorizontalBadge:
		s.FontSize = FontSizes{Title: 16, Heading: 11, Normal: 7}
		s.Accent = Color{R: 0.478, G: 1, B: 0}
		s.SafetyMargin = 10
	}
	return s
}
