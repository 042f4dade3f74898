package layout

import (
	"fmt"

	"github.com/DeutscheModelUnitedNations/badgeGenerator/model"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/text"
)

// ConferencePlaceholder in a caption is replaced with the brand's
// conference name.
const ConferencePlaceholder = "{conference}"

// LogoSlot places the brand logo.
type LogoSlot struct {
	Box       Rect
	Opacity   float64
	Rotate180 bool
}

// FixedLogo places a built-in asset that does not depend on the brand.
type FixedLogo struct {
	Path string
	Box  Rect
}

// ImageSlot places one copy of the subject image.
type ImageSlot struct {
	Box       Rect
	Rotate180 bool
}

// Caption is a fixed line of small text.
type Caption struct {
	Text string
	At   text.Placement
}

// Segment is a straight line.
type Segment struct {
	From, To Point
	Width    float64
	Color    Color
}

// ConsentMark places the media consent indicator.
type ConsentMark struct {
	Centers []Point
	Radius  float64
}

// Spec is the geometry of one document type. All positions are in points
// from the top-left page corner; text placements give the centre x and the
// baseline y.
type Spec struct {
	Type model.DocumentType
	Page Size

	Consent     ConsentMark
	BrandLogos  []LogoSlot
	FixedLogos  []FixedLogo
	Images      []ImageSlot
	ImageBorder float64
	Barcode     *Rect

	Title    []text.Placement
	Name     []text.Placement
	Pronouns []text.Placement
	Captions []Caption

	Divider   *Segment
	TrimWidth float64
	TrimColor Color
}

var (
	placardPage    = Size{W: 841.89, H: 595.28}
	verticalPage   = Size{W: 155.91, H: 241}
	horizontalPage = Size{W: 241, H: 155.91}
)

func placardSpec() Spec {
	w, h := placardPage.W, placardPage.H
	cx, cy := w/2, h/2
	const (
		logo     = 130
		imgW     = 200
		imgH     = 150
		imgGap   = 20
		titleOff = 225
		nameOff  = 270
	)
	return Spec{
		Type:    model.Placard,
		Page:    placardPage,
		Consent: ConsentMark{Centers: []Point{{X: w - 15, Y: h - 15}, {X: 15, Y: 15}}, Radius: 5},
		BrandLogos: []LogoSlot{
			{Box: Rect{X: cx - 315, Y: cy - 160, W: logo, H: logo}, Opacity: 0.1, Rotate180: true},
			{Box: Rect{X: cx + 185, Y: cy - 160, W: logo, H: logo}, Opacity: 0.1, Rotate180: true},
			{Box: Rect{X: cx - 315, Y: cy + 30, W: logo, H: logo}, Opacity: 0.1},
			{Box: Rect{X: cx + 185, Y: cy + 30, W: logo, H: logo}, Opacity: 0.1},
		},
		Images: []ImageSlot{
			{Box: Rect{X: cx - imgW/2, Y: cy - imgGap - imgH, W: imgW, H: imgH}, Rotate180: true},
			{Box: Rect{X: cx - imgW/2, Y: cy + imgGap, W: imgW, H: imgH}},
		},
		ImageBorder: 1,
		Barcode:     &Rect{X: cx - imgW/2, Y: cy + imgGap + imgH + 2, W: imgW, H: 10},
		Title: []text.Placement{
			{CX: cx, Baseline: cy + titleOff},
			{CX: cx, Baseline: cy - titleOff, Rotation: 180},
		},
		Name: []text.Placement{
			{CX: cx, Baseline: cy + nameOff},
			{CX: cx, Baseline: cy - nameOff, Rotation: 180},
		},
		Divider:   &Segment{From: Point{X: 0, Y: cy}, To: Point{X: w, Y: cy}, Width: 1, Color: Gray(0.95)},
		TrimWidth: 0.25,
		TrimColor: Gray(0.6),
	}
}

func verticalSpec() Spec {
	w, h := verticalPage.W, verticalPage.H
	cx := w / 2
	imgW := w - 60
	imgH := imgW * 0.75
	smallH := 50 / 2.18
	return Spec{
		Type:        model.VerticalBadge,
		Page:        verticalPage,
		Consent:     ConsentMark{Centers: []Point{{X: w - 13, Y: 13}}, Radius: 3},
		BrandLogos:  []LogoSlot{{Box: Rect{X: cx - 30, Y: 10, W: 60, H: 60}, Opacity: 1}},
		FixedLogos:  []FixedLogo{{Path: model.LogoDMUNSmall, Box: Rect{X: cx - 25, Y: h - 10 - smallH, W: 50, H: smallH}}},
		Images:      []ImageSlot{{Box: Rect{X: 30, Y: h - 40 - imgH, W: imgW, H: imgH}}},
		ImageBorder: 0.5,
		Title:       []text.Placement{{CX: cx, Baseline: 92}},
		Name:        []text.Placement{{CX: cx, Baseline: 106}},
		Pronouns:    []text.Placement{{CX: cx, Baseline: 116}},
		TrimWidth:   0.25,
		TrimColor:   Gray(0.6),
	}
}

func horizontalSpec() Spec {
	w, h := horizontalPage.W, horizontalPage.H
	img := Rect{X: 20, Y: h - 16 - 75, W: 100, H: 75}
	// centre of the space right of the image
	mid := img.X + img.W + (w-img.X-img.W)/2
	return Spec{
		Type:        model.HorizontalBadge,
		Page:        horizontalPage,
		Consent:     ConsentMark{Centers: []Point{{X: w - 13, Y: 13}}, Radius: 3},
		BrandLogos:  []LogoSlot{{Box: Rect{X: mid - 30, Y: h - 31.5 - 60, W: 60, H: 60}, Opacity: 1}},
		Images:      []ImageSlot{{Box: img}},
		ImageBorder: 0.5,
		Barcode:     &Rect{X: img.X, Y: img.Y + img.H + 2, W: img.W, H: 10},
		Title:       []text.Placement{{CX: w / 2, Baseline: 25}},
		Name:        []text.Placement{{CX: w / 2, Baseline: 40}},
		Pronouns:    []text.Placement{{CX: w / 2, Baseline: 52}},
		Captions: []Caption{
			{Text: "Model United Nations", At: text.Placement{CX: mid, Baseline: h - 23}},
			{Text: ConferencePlaceholder, At: text.Placement{CX: mid, Baseline: h - 16}},
		},
		TrimWidth: 0.25,
		TrimColor: Gray(0.6),
	}
}

// SpecFor returns the geometry of t.
func SpecFor(t model.DocumentType) (Spec, error) {
	switch t {
	case model.Placard:
		return placardSpec(), nil
	case model.VerticalBadge:
		return verticalSpec(), nil
	case model.HorizontalBadge:
		return horizontalSpec(), nil
	}
	return Spec{}, fmt.Errorf("layout: unknown document type %q", t)
}

// StaticAssets lists the built-in assets a page of s uses for brand b, so
// they can be fetched before layout starts.
func (s Spec) StaticAssets(b model.BrandInfo) []string {
	var paths []string
	if len(s.BrandLogos) > 0 && b.LogoPath != "" {
		paths = append(paths, b.LogoPath)
	}
	for _, l := range s.FixedLogos {
		paths = append(paths, l.Path)
	}
	return paths
}
