package render

import (
	"time"

	"github.com/flanksource/commons/logger"
)

// Option configures a Document created by NewDocument.
type Option func(*documentConfig)

type documentConfig struct {
	title      string
	author     string
	creator    string
	compress   bool
	created    time.Time
	background []byte
	log        logger.Logger
}

// WithTitle sets the document title metadata.
func WithTitle(title string) Option {
	return func(c *documentConfig) {
		c.title = title
	}
}

// WithAuthor sets the document author metadata.
func WithAuthor(author string) Option {
	return func(c *documentConfig) {
		c.author = author
	}
}

// WithCreator sets the creator metadata.
func WithCreator(creator string) Option {
	return func(c *documentConfig) {
		c.creator = creator
	}
}

// WithCompression enables or disables stream compression. It is on by default.
func WithCompression(on bool) Option {
	return func(c *documentConfig) {
		c.compress = on
	}
}

// WithCreationDate fixes the creation date written to the document, which
// makes output reproducible.
func WithCreationDate(t time.Time) Option {
	return func(c *documentConfig) {
		c.created = t
	}
}

// WithBackground places page 1 of the given PDF under every page, scaled to
// the page size.
func WithBackground(pdf []byte) Option {
	return func(c *documentConfig) {
		c.background = pdf
	}
}

// WithLogger sets the logger for non-fatal problems such as an unusable
// background.
func WithLogger(log logger.Logger) Option {
	return func(c *documentConfig) {
		c.log = log
	}
}
