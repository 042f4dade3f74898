package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// MaxAssetBytes bounds the size of a fetched asset.
const MaxAssetBytes = 10 << 20

// HTTPSource fetches assets from a running badge generator web app:
// flags from /api/flags/{code}, uploads from /api/img/{id} and static
// assets from /{path}.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource returns a source for baseURL with a 30 second client timeout.
func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Flag fetches /api/flags/{code}.
func (h *HTTPSource) Flag(ctx context.Context, code string) (Asset, error) {
	return h.get(ctx, "flag "+code, "/api/flags/"+url.PathEscape(code))
}

// Upload fetches /api/img/{id}.
func (h *HTTPSource) Upload(ctx context.Context, id string) (Asset, error) {
	return h.get(ctx, "upload "+id, "/api/img/"+url.PathEscape(id))
}

// Static fetches path relative to the base URL.
func (h *HTTPSource) Static(ctx context.Context, path string) (Asset, error) {
	return h.get(ctx, "static "+path, "/"+strings.TrimLeft(path, "/"))
}

func (h *HTTPSource) get(ctx context.Context, ref, path string) (Asset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.BaseURL+path, nil)
	if err != nil {
		return Asset{}, &FetchError{Ref: ref, Err: err}
	}
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Asset{}, &FetchError{Ref: ref, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Asset{}, &FetchError{Ref: ref, Status: resp.StatusCode, Err: ErrNotFound}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Asset{}, &FetchError{Ref: ref, Status: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxAssetBytes+1))
	if err != nil {
		return Asset{}, &FetchError{Ref: ref, Err: err}
	}
	if len(data) > MaxAssetBytes {
		return Asset{}, &FetchError{Ref: ref, Err: fmt.Errorf("asset larger than %d bytes", MaxAssetBytes)}
	}

	mime := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	if mime == "" || mime == "application/octet-stream" {
		mime = detectMIME(path, data)
	}
	return Asset{Data: data, MIMEType: strings.TrimSpace(mime)}, nil
}
