// Package render implements the layout canvas on top of the gofpdf engine
// and checks the documents it produces.
package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/flanksource/commons/logger"
	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"

	"github.com/DeutscheModelUnitedNations/badgeGenerator/assets"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/layout"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/text"
)

var _ layout.Canvas = (*Document)(nil)

// Document is a PDF under construction. It is not safe for concurrent use.
type Document struct {
	pdf *gofpdf.Fpdf
	cfg documentConfig
	log logger.Logger

	fonts  map[string]bool
	images map[string]string // key -> engine image type
	failed map[string]error
	pages  int

	background struct {
		done bool
		imp  *gofpdi.Importer
		tpl  int
	}
}

// NewDocument creates an empty document measured in points.
func NewDocument(opts ...Option) *Document {
	cfg := documentConfig{compress: true, creator: "badgegen"}
	for _, opt := range opts {
		opt(&cfg)
	}
	log := cfg.log
	if log == nil {
		log = logger.GetLogger("render")
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCompression(cfg.compress)
	pdf.SetCatalogSort(true)
	if cfg.title != "" {
		pdf.SetTitle(cfg.title, true)
	}
	if cfg.author != "" {
		pdf.SetAuthor(cfg.author, true)
	}
	pdf.SetCreator(cfg.creator, true)
	if !cfg.created.IsZero() {
		pdf.SetCreationDate(cfg.created)
	}

	return &Document{
		pdf:    pdf,
		cfg:    cfg,
		log:    log,
		fonts:  make(map[string]bool),
		images: make(map[string]string),
		failed: make(map[string]error),
	}
}

// PageCount returns the number of pages added so far.
func (d *Document) PageCount() int {
	return d.pages
}

// Err returns the engine error, if any.
func (d *Document) Err() error {
	if d.pdf.Err() {
		return newPDFError("Document", d.pdf.Error())
	}
	return nil
}

// AddPage starts a new page of the given size and draws the background.
func (d *Document) AddPage(size layout.Size) error {
	d.pdf.AddPageFormat("P", gofpdf.SizeType{Wd: size.W, Ht: size.H})
	if d.pdf.Err() {
		return newPDFError("AddPage", d.pdf.Error())
	}
	d.pages++
	d.drawBackground(size)
	return nil
}

func (d *Document) drawBackground(size layout.Size) {
	bg := &d.background
	if len(d.cfg.background) == 0 {
		return
	}
	if !bg.done {
		bg.done = true
		tpl, err := importFirstPage(d.pdf, d.cfg.background)
		if err != nil {
			d.log.Warnf("background template unusable: %v", err)
			d.cfg.background = nil
			return
		}
		bg.imp, bg.tpl = tpl.imp, tpl.id
	}
	bg.imp.UseImportedTemplate(d.pdf, bg.tpl, 0, 0, size.W, size.H)
}

type template struct {
	imp *gofpdi.Importer
	id  int
}

// importFirstPage imports page 1 of data. The importer panics on malformed
// input.
func importFirstPage(pdf *gofpdf.Fpdf, data []byte) (t template, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("importing page: %v", r)
		}
	}()
	imp := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(data))
	id := imp.ImportPageFromStream(pdf, &rs, 1, "/MediaBox")
	if pdf.Err() {
		err = pdf.Error()
		pdf.ClearError()
		return template{}, err
	}
	return template{imp: imp, id: id}, nil
}

func (d *Document) useFont(f *text.Font, size float64) error {
	key := f.Family + "|" + f.Style
	if !d.fonts[key] {
		d.pdf.AddUTF8FontFromBytes(f.Family, f.Style, f.Data)
		if d.pdf.Err() {
			return newPDFError("AddFont", d.pdf.Error())
		}
		d.fonts[key] = true
	}
	d.pdf.SetFont(f.Family, f.Style, size)
	return nil
}

// Text draws s with its baseline starting at (x, y), rotated by rotation
// degrees about that point. Text with glyphs f lacks is rejected with a
// *text.GlyphError before anything is drawn.
func (d *Document) Text(f *text.Font, size, x, y float64, s string, rotation float64) error {
	if d.pages == 0 {
		return newPDFError("Text", ErrNoPage)
	}
	if err := f.Check(s); err != nil {
		return err
	}
	if err := d.useFont(f, size); err != nil {
		return err
	}
	d.pdf.SetTextColor(0, 0, 0)
	if rotation != 0 {
		d.pdf.TransformBegin()
		d.pdf.TransformRotate(rotation, x, y)
	}
	d.pdf.Text(x, y, s)
	if rotation != 0 {
		d.pdf.TransformEnd()
	}
	if d.pdf.Err() {
		return newPDFError("Text", d.pdf.Error())
	}
	return nil
}

func imageType(mime string) (string, error) {
	switch mime {
	case assets.MIMEPNG:
		return "PNG", nil
	case assets.MIMEJPEG:
		return "JPG", nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, mime)
}

// register embeds a under key once. A failed registration is remembered and
// the engine error cleared, so the document stays usable.
func (d *Document) register(key string, a assets.Asset) (string, error) {
	if tp, ok := d.images[key]; ok {
		return tp, nil
	}
	if err, ok := d.failed[key]; ok {
		return "", err
	}
	tp, err := imageType(a.MIMEType)
	if err == nil {
		d.pdf.RegisterImageOptionsReader(key, gofpdf.ImageOptions{ImageType: tp}, bytes.NewReader(a.Data))
		if d.pdf.Err() {
			err = d.pdf.Error()
			d.pdf.ClearError()
		}
	}
	if err != nil {
		err = newPDFError("Image", fmt.Errorf("%s: %w", key, err))
		d.failed[key] = err
		return "", err
	}
	d.images[key] = tp
	return tp, nil
}

// Image draws a into box, registering it under key on first use.
func (d *Document) Image(key string, a assets.Asset, box layout.Rect, opts layout.ImageOptions) error {
	if d.pages == 0 {
		return newPDFError("Image", ErrNoPage)
	}
	tp, err := d.register(key, a)
	if err != nil {
		return err
	}

	translucent := opts.Opacity > 0 && opts.Opacity < 1
	if translucent {
		d.pdf.SetAlpha(opts.Opacity, "Normal")
	}
	if opts.Rotate180 {
		c := box.Center()
		d.pdf.TransformBegin()
		d.pdf.TransformRotate(180, c.X, c.Y)
	}
	d.pdf.ImageOptions(key, box.X, box.Y, box.W, box.H, false, gofpdf.ImageOptions{ImageType: tp}, 0, "")
	if opts.Rotate180 {
		d.pdf.TransformEnd()
	}
	if translucent {
		d.pdf.SetAlpha(1, "Normal")
	}
	if d.pdf.Err() {
		return newPDFError("Image", d.pdf.Error())
	}
	return nil
}

// Rect strokes the outline of box.
func (d *Document) Rect(box layout.Rect, lineWidth float64, c layout.Color) {
	d.pdf.SetDrawColor(c.RGB255())
	d.pdf.SetLineWidth(lineWidth)
	d.pdf.Rect(box.X, box.Y, box.W, box.H, "D")
}

// Line strokes a straight line.
func (d *Document) Line(from, to layout.Point, lineWidth float64, c layout.Color) {
	d.pdf.SetDrawColor(c.RGB255())
	d.pdf.SetLineWidth(lineWidth)
	d.pdf.Line(from.X, from.Y, to.X, to.Y)
}

// Circle fills a circle.
func (d *Document) Circle(center layout.Point, radius float64, fill layout.Color) {
	d.pdf.SetFillColor(fill.RGB255())
	d.pdf.Circle(center.X, center.Y, radius, "F")
}

// Output writes the finished document to w.
func (d *Document) Output(w io.Writer) error {
	if d.pages == 0 {
		return newPDFError("Output", ErrNoPage)
	}
	if err := d.pdf.Output(w); err != nil {
		return newPDFError("Output", err)
	}
	return nil
}

// Bytes returns the finished document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ImageCount returns the number of distinct images embedded.
func (d *Document) ImageCount() int {
	return len(d.images)
}

func (d *Document) String() string {
	return fmt.Sprintf("Document{pages: %d, images: %d, fonts: %d}", d.pages, len(d.images), len(d.fonts))
}
