package badgegen

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/DeutscheModelUnitedNations/badgeGenerator/assets"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/layout"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/model"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/render"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/report"
)

// Run is the state of one generation: its warnings and its progress. A Run
// can be reused; each Generate starts from a clean state. Warnings and
// Progress may be read from other goroutines while Generate is running.
type Run struct {
	gen      *Generator
	sink     *report.Sink
	progress report.Progress
	active   atomic.Bool
}

// Warnings returns the warnings recorded so far.
func (r *Run) Warnings() []report.Warning {
	return r.sink.Warnings()
}

// Progress returns the completed and total pages.
func (r *Run) Progress() report.Snapshot {
	return r.progress.Snapshot()
}

// Active reports whether Generate is running.
func (r *Run) Active() bool {
	return r.active.Load()
}

// Generate lays out one page per row in row order and returns the document.
// Missing images, overflowing or unsupported text and failed decorations are
// recorded as warnings or logged. Any other failure, or cancellation of ctx,
// aborts the run without output.
func (r *Run) Generate(ctx context.Context, req Request) ([]byte, error) {
	if !r.active.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer r.active.Store(false)

	total := len(req.Rows)
	r.sink.Reset()
	r.progress.Reset(total)

	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDocumentType, req.Type)
	}
	cfg := r.gen.cfg
	brand, ok := model.LookupBrand(req.Brand, cfg.clock())
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBrand, req.Brand)
	}
	if total == 0 {
		return nil, ErrNoRows
	}

	spec, err := layout.SpecFor(req.Type)
	if err != nil {
		return nil, err
	}
	styles := layout.StylesFor(req.Type)

	resolver := assets.NewResolver(cfg.source,
		assets.WithResolverLogger(r.gen.log),
		assets.WithMaxImageSize(cfg.maxImage))
	if cfg.prefetch > 0 {
		if err := resolver.Prefetch(ctx, req.Rows, spec.StaticAssets(brand), cfg.prefetch); err != nil {
			return nil, newGenerationError("prefetch", -1, err)
		}
	}

	docOpts := []render.Option{
		render.WithTitle(fmt.Sprintf("%s %s", brand.ConferenceName, req.Type)),
		render.WithAuthor(string(brand.Brand)),
		render.WithCreationDate(cfg.clock()),
		render.WithLogger(r.gen.log),
	}
	if bg := cfg.backgrounds[req.Type]; len(bg) > 0 {
		docOpts = append(docOpts, render.WithBackground(bg))
	}
	doc := render.NewDocument(append(docOpts, cfg.docOpts...)...)

	for i, row := range req.Rows {
		if err := ctx.Err(); err != nil {
			return nil, newGenerationError("generate", i, err)
		}
		err := layout.Compose(ctx, layout.PageContext{
			Canvas:     doc,
			Spec:       spec,
			Styles:     styles,
			Fonts:      r.gen.fonts,
			Assets:     resolver,
			Sink:       r.sink,
			Log:        r.gen.log,
			Row:        row,
			Index:      i,
			Brand:      brand,
			TrimBorder: req.TrimBorder,
			Barcode:    cfg.symbology,
		})
		if err == nil {
			err = doc.Err()
		}
		if err != nil {
			return nil, newGenerationError("layout", i, err)
		}
		r.progress.Advance(total, i+1)
	}

	pdf, err := doc.Bytes()
	if err != nil {
		return nil, newGenerationError("output", -1, err)
	}
	r.gen.log.Infof("generated %d %s pages for %s: %d warnings, %d bytes",
		total, req.Type, brand.Brand, r.sink.Len(), len(pdf))
	return pdf, nil
}
