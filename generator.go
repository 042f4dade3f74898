// Package badgegen generates print-ready PDF placards and name badges for
// Model United Nations conferences: one page per attendee row, laid out for
// one of three document types and branded for one organisation.
//
// A Generator holds the configuration shared by all runs. Each call to
// Run.Generate resets the run's warnings and progress, lays out the rows in
// order and returns the finished document:
//
//	gen, err := badgegen.New(badgegen.WithSource(src))
//	if err != nil {
//		return err
//	}
//	run := gen.NewRun()
//	pdf, err := run.Generate(ctx, badgegen.Request{
//		Rows:  rows,
//		Brand: model.BrandDMUN,
//		Type:  model.HorizontalBadge,
//	})
//	for _, w := range run.Warnings() {
//		fmt.Println(w.Type, w.Path, w.Message)
//	}
package badgegen

import (
	"context"
	"time"

	"github.com/flanksource/commons/logger"

	"github.com/DeutscheModelUnitedNations/badgeGenerator/assets"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/barcode"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/model"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/report"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/text"
)

// Request is the input of one run.
type Request struct {
	Rows       []model.Row
	Brand      model.Brand
	Type       model.DocumentType
	TrimBorder bool // draw a trim guide at the page edge
}

// Result is the outcome of Generator.Generate.
type Result struct {
	PDF      []byte
	Warnings []report.Warning
	Progress report.Snapshot
}

// Generator creates documents. It is safe for concurrent use; every run has
// its own warnings and progress.
type Generator struct {
	cfg   generatorConfig
	fonts text.FontSet
	log   logger.Logger
}

// New returns a Generator configured by opts. Without WithSource every image
// lookup fails and is reported as a warning.
func New(opts ...Option) (*Generator, error) {
	cfg := generatorConfig{
		symbology:   barcode.Code128,
		backgrounds: make(map[model.DocumentType][]byte),
		clock:       time.Now,
		maxImage:    assets.DefaultMaxImageSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		cfg.log = logger.GetLogger("badgegen")
	}
	if cfg.source == nil {
		cfg.log.Warnf("no asset source configured; images will be missing")
		cfg.source = assets.Fallback()
	}

	g := &Generator{cfg: cfg, log: cfg.log}
	if cfg.fonts != nil {
		g.fonts = *cfg.fonts
	} else {
		fonts, err := text.DefaultFonts()
		if err != nil {
			return nil, err
		}
		g.fonts = fonts
	}
	return g, nil
}

// NewRun returns a run handle with empty warnings and progress.
func (g *Generator) NewRun() *Run {
	return &Run{gen: g, sink: report.NewSink(g.log)}
}

// Generate runs req on a fresh Run and collects its outcome.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	run := g.NewRun()
	pdf, err := run.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return &Result{PDF: pdf, Warnings: run.Warnings(), Progress: run.Progress()}, nil
}
