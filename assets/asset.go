// Package assets fetches the images placed on a page: country flags,
// uploaded images and the fixed brand logos. Sources are interchangeable and
// can be chained; the Resolver applies the lookup rules of a row and memoises
// results for the duration of one run.
package assets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
)

// ErrNotFound is returned when a source has no asset for a reference.
var ErrNotFound = errors.New("assets: not found")

// MIME types understood by the page renderer after normalisation.
const (
	MIMEPNG  = "image/png"
	MIMEJPEG = "image/jpeg"
	MIMESVG  = "image/svg+xml"
)

// Asset is raw image data with its MIME type.
type Asset struct {
	Data     []byte
	MIMEType string
}

// FetchError describes a failed fetch of ref.
type FetchError struct {
	Ref    string
	Status int // HTTP status when the source is remote, 0 otherwise
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("assets: fetching %s: status %d: %v", e.Ref, e.Status, e.Err)
	}
	return fmt.Sprintf("assets: fetching %s: %v", e.Ref, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Source provides asset bytes.
type Source interface {
	// Flag returns the flag of a lower-case ISO 3166-1 alpha-2 code.
	Flag(ctx context.Context, code string) (Asset, error)
	// Upload returns a previously uploaded image by its identifier.
	Upload(ctx context.Context, id string) (Asset, error)
	// Static returns a built-in asset such as a brand logo.
	Static(ctx context.Context, path string) (Asset, error)
}

type fallback []Source

// Fallback returns a Source that asks each source in order and returns the
// first success. When all fail the joined errors are returned.
func Fallback(sources ...Source) Source {
	return fallback(sources)
}

func (f fallback) try(fetch func(Source) (Asset, error)) (Asset, error) {
	if len(f) == 0 {
		return Asset{}, ErrNotFound
	}
	var errs []error
	for _, s := range f {
		a, err := fetch(s)
		if err == nil {
			return a, nil
		}
		errs = append(errs, err)
	}
	return Asset{}, errors.Join(errs...)
}

func (f fallback) Flag(ctx context.Context, code string) (Asset, error) {
	return f.try(func(s Source) (Asset, error) { return s.Flag(ctx, code) })
}

func (f fallback) Upload(ctx context.Context, id string) (Asset, error) {
	return f.try(func(s Source) (Asset, error) { return s.Upload(ctx, id) })
}

func (f fallback) Static(ctx context.Context, p string) (Asset, error) {
	return f.try(func(s Source) (Asset, error) { return s.Static(ctx, p) })
}

var mimeByExt = map[string]string{
	".png":  MIMEPNG,
	".jpg":  MIMEJPEG,
	".jpeg": MIMEJPEG,
	".svg":  MIMESVG,
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

// detectMIME prefers the file extension and falls back to sniffing.
func detectMIME(name string, data []byte) string {
	if m, ok := mimeByExt[strings.ToLower(path.Ext(name))]; ok {
		return m
	}
	m := http.DetectContentType(data)
	if strings.HasPrefix(m, "text/xml") || strings.HasPrefix(m, "text/plain") {
		if strings.Contains(string(data[:min(len(data), 512)]), "<svg") {
			return MIMESVG
		}
	}
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = m[:i]
	}
	return m
}
