package layout

import (
	"context"
	"fmt"
	"strings"

	"github.com/flanksource/commons/logger"

	"github.com/DeutscheModelUnitedNations/badgeGenerator/assets"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/barcode"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/model"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/report"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/text"
)

// Colours of the media consent indicator.
var (
	ConsentPartialColor    = Color{R: 1, G: 0.647, B: 0}
	ConsentRestrictedColor = Color{R: 0, G: 0.502, B: 1}
)

// ImageResolver provides the images of a page.
type ImageResolver interface {
	SubjectImage(ctx context.Context, row model.Row) (assets.Asset, error)
	Static(ctx context.Context, path string) (assets.Asset, error)
}

// PageContext is everything needed to lay out one row.
type PageContext struct {
	Canvas Canvas
	Spec   Spec
	Styles Styles
	Fonts  text.FontSet
	Assets ImageResolver
	Sink   *report.Sink
	Log    logger.Logger

	Row        model.Row
	Index      int // row index, used only in warning paths
	Brand      model.BrandInfo
	TrimBorder bool
	Barcode    barcode.Symbology
}

// Compose adds one page for pc.Row. Missing images, failed decorations and
// text problems are reported or logged and never stop the page; an error is
// returned only when the canvas itself fails.
func Compose(ctx context.Context, pc PageContext) error {
	if pc.Log == nil {
		pc.Log = logger.GetLogger("layout")
	}
	spec := pc.Spec
	if err := pc.Canvas.AddPage(spec.Page); err != nil {
		return fmt.Errorf("layout: row %d: adding page: %w", pc.Index, err)
	}

	drawConsent(pc)
	drawLogos(ctx, pc)
	drawSubject(ctx, pc)
	drawBarcode(pc)
	if err := drawText(pc); err != nil {
		return fmt.Errorf("layout: row %d: %w", pc.Index, err)
	}

	if spec.Divider != nil {
		pc.Canvas.Line(spec.Divider.From, spec.Divider.To, spec.Divider.Width, spec.Divider.Color)
	}
	if pc.TrimBorder && spec.TrimWidth > 0 {
		pc.Canvas.Rect(Rect{W: spec.Page.W, H: spec.Page.H}, spec.TrimWidth, spec.TrimColor)
	}
	return nil
}

func drawConsent(pc PageContext) {
	if !pc.Row.MediaConsentStatus.ShowsIndicator() {
		return
	}
	c := ConsentRestrictedColor
	if pc.Row.MediaConsentStatus.Partial() {
		c = ConsentPartialColor
	}
	for _, p := range pc.Spec.Consent.Centers {
		pc.Canvas.Circle(p, pc.Spec.Consent.Radius, c)
	}
}

// drawLogos draws brand and built-in logos. They are decoration: failures
// are logged only.
func drawLogos(ctx context.Context, pc PageContext) {
	if len(pc.Spec.BrandLogos) > 0 && pc.Brand.LogoPath != "" {
		a, err := pc.Assets.Static(ctx, pc.Brand.LogoPath)
		if err != nil {
			pc.Log.Warnf("row %d: brand logo %s: %v", pc.Index, pc.Brand.LogoPath, err)
		} else {
			for _, slot := range pc.Spec.BrandLogos {
				opts := ImageOptions{Opacity: slot.Opacity, Rotate180: slot.Rotate180}
				if err := pc.Canvas.Image("static:"+pc.Brand.LogoPath, a, slot.Box, opts); err != nil {
					pc.Log.Warnf("row %d: brand logo %s: %v", pc.Index, pc.Brand.LogoPath, err)
					break
				}
			}
		}
	}

	for _, l := range pc.Spec.FixedLogos {
		a, err := pc.Assets.Static(ctx, l.Path)
		if err == nil {
			err = pc.Canvas.Image("static:"+l.Path, a, l.Box, ImageOptions{})
		}
		if err != nil {
			pc.Log.Warnf("row %d: logo %s: %v", pc.Index, l.Path, err)
		}
	}
}

// drawSubject draws the flag or alternative image into every image slot.
// The border is drawn even when the image is missing; a missing image is
// reported once per row.
func drawSubject(ctx context.Context, pc PageContext) {
	if len(pc.Spec.Images) == 0 {
		return
	}
	a, err := pc.Assets.SubjectImage(ctx, pc.Row)
	if err == nil {
		key := assets.SubjectKey(pc.Row)
		for _, slot := range pc.Spec.Images {
			if err = pc.Canvas.Image(key, a, slot.Box, ImageOptions{Rotate180: slot.Rotate180}); err != nil {
				break
			}
		}
	}
	if err != nil {
		field := pc.Row.ImageField()
		pc.Log.Warnf("row %d: image %s: %v", pc.Index, field, err)
		pc.Sink.Add(report.Warning{
			Type:    report.Image,
			Message: "Flag or image could not be loaded.",
			Details: err.Error(),
			Path:    report.RowPath(pc.Index, field),
		})
	}
	for _, slot := range pc.Spec.Images {
		pc.Canvas.Rect(slot.Box, pc.Spec.ImageBorder, pc.Styles.Black)
	}
}

func drawBarcode(pc PageContext) {
	id := strings.TrimSpace(pc.Row.ID)
	if id == "" || pc.Spec.Barcode == nil {
		return
	}
	data, err := barcode.Render(barcode.Spec{Symbology: pc.Barcode, Text: id})
	if err == nil {
		key := fmt.Sprintf("barcode:%s:%s", pc.Barcode, id)
		err = pc.Canvas.Image(key, assets.Asset{Data: data, MIMEType: assets.MIMEPNG}, *pc.Spec.Barcode, ImageOptions{})
	}
	if err != nil {
		pc.Log.Warnf("row %d: barcode %q: %v", pc.Index, id, err)
	}
}

type textItem struct {
	line text.Line
	at   []text.Placement
}

func drawText(pc PageContext) error {
	r := text.NewRenderer(pc.Sink, pc.Spec.Page.W, pc.Styles.SafetyMargin)
	sizes := pc.Styles.FontSize
	row := pc.Row

	items := []textItem{
		{text.Line{Font: pc.Fonts.Bold, Size: sizes.Title, Text: row.CountryName, Path: report.RowPath(pc.Index, model.FieldCountryName)}, pc.Spec.Title},
		{text.Line{Font: pc.Fonts.Regular, Size: sizes.Heading, Text: row.NameLine(), Path: report.RowPath(pc.Index, model.FieldName)}, pc.Spec.Name},
		{text.Line{Font: pc.Fonts.Regular, Size: sizes.Heading, Text: row.Pronouns, Path: report.RowPath(pc.Index, model.FieldPronouns)}, pc.Spec.Pronouns},
	}
	for _, c := range pc.Spec.Captions {
		s := strings.ReplaceAll(c.Text, ConferencePlaceholder, pc.Brand.ConferenceName)
		items = append(items, textItem{text.Line{Font: pc.Fonts.Regular, Size: sizes.Normal, Text: s, Path: report.RowPath(pc.Index, "brand")}, []text.Placement{c.At}})
	}

	for _, it := range items {
		if len(it.at) == 0 || it.line.Text == "" {
			continue
		}
		if err := r.Draw(pc.Canvas, it.line, it.at...); err != nil {
			return err
		}
	}
	return nil
}
