package badgegen

import (
	"time"

	"github.com/flanksource/commons/logger"

	"github.com/DeutscheModelUnitedNations/badgeGenerator/assets"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/barcode"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/model"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/render"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/text"
)

// Option is a functional option for configuring a Generator via New.
type Option func(*generatorConfig)

type generatorConfig struct {
	source      assets.Source
	fonts       *text.FontSet
	log         logger.Logger
	prefetch    int
	symbology   barcode.Symbology
	backgrounds map[model.DocumentType][]byte
	clock       func() time.Time
	maxImage    int
	docOpts     []render.Option
}

// WithSource sets where flags, uploads and logos are read from.
func WithSource(src assets.Source) Option {
	return func(c *generatorConfig) {
		c.source = src
	}
}

// WithFonts replaces the embedded Go fonts.
func WithFonts(fonts text.FontSet) Option {
	return func(c *generatorConfig) {
		c.fonts = &fonts
	}
}

// WithLogger sets the logger shared by all components of a run.
func WithLogger(log logger.Logger) Option {
	return func(c *generatorConfig) {
		c.log = log
	}
}

// WithPrefetch fetches the images of all rows with up to n parallel requests
// before layout starts. 0 fetches lazily while laying out.
func WithPrefetch(n int) Option {
	return func(c *generatorConfig) {
		c.prefetch = n
	}
}

// WithSymbology selects the barcode printed for rows with an id.
func WithSymbology(s barcode.Symbology) Option {
	return func(c *generatorConfig) {
		c.symbology = s
	}
}

// WithBackground places page 1 of pdf under every page of documents of
// type t.
func WithBackground(t model.DocumentType, pdf []byte) Option {
	return func(c *generatorConfig) {
		c.backgrounds[t] = pdf
	}
}

// WithClock sets the time source used for brand captions and document
// metadata.
func WithClock(now func() time.Time) Option {
	return func(c *generatorConfig) {
		c.clock = now
	}
}

// WithMaxImageSize sets the longest edge in pixels before images are
// downscaled.
func WithMaxImageSize(px int) Option {
	return func(c *generatorConfig) {
		c.maxImage = px
	}
}

// WithDocumentOptions passes options to every document created.
func WithDocumentOptions(opts ...render.Option) Option {
	return func(c *generatorConfig) {
		c.docOpts = append(c.docOpts, opts...)
	}
}
