package assets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/flanksource/commons/logger"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/DeutscheModelUnitedNations/badgeGenerator/model"
)

// ReservedImagePrefix marks an alternative image that stands for the
// built-in DMUN logo, whatever follows the prefix.
const ReservedImagePrefix = "$DMUN"

const (
	kindFlag   = "flag:"
	kindUpload = "upload:"
	kindStatic = "static:"
)

// SubjectKey returns the cache key of the subject image of row.
func SubjectKey(row model.Row) string {
	switch {
	case strings.HasPrefix(row.AlternativeImage, ReservedImagePrefix):
		return kindStatic + model.LogoDMUN
	case row.AlternativeImage != "":
		return kindUpload + row.AlternativeImage
	default:
		return kindFlag + row.FlagCode()
	}
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger sets the logger used for fetch failures.
func WithResolverLogger(log logger.Logger) ResolverOption {
	return func(r *Resolver) { r.log = log }
}

// WithMaxImageSize sets the longest edge before images are downscaled.
func WithMaxImageSize(px int) ResolverOption {
	return func(r *Resolver) { r.maxSize = px }
}

type result struct {
	asset Asset
	err   error
}

// Resolver resolves and normalises the assets of one run. Every key is
// fetched at most once; failures are remembered as well so each row using a
// broken asset reports it without another fetch.
type Resolver struct {
	src     Source
	log     logger.Logger
	maxSize int

	group singleflight.Group
	mu    sync.Mutex
	memo  map[string]result
}

// NewResolver returns a Resolver reading from src.
func NewResolver(src Source, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		src:     src,
		log:     logger.GetLogger("assets"),
		maxSize: DefaultMaxImageSize,
		memo:    make(map[string]result),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SubjectImage resolves the flag or alternative image of row.
func (r *Resolver) SubjectImage(ctx context.Context, row model.Row) (Asset, error) {
	return r.load(ctx, SubjectKey(row))
}

// Static resolves a built-in asset such as a brand logo.
func (r *Resolver) Static(ctx context.Context, path string) (Asset, error) {
	return r.load(ctx, kindStatic+path)
}

// Prefetch loads the subject images of rows and the given static assets with
// at most limit fetches in flight. Failures are kept for the layout to report.
func (r *Resolver) Prefetch(ctx context.Context, rows []model.Row, statics []string, limit int) error {
	keys := lo.Map(rows, func(row model.Row, _ int) string { return SubjectKey(row) })
	keys = append(keys, lo.Map(statics, func(p string, _ int) string { return kindStatic + p })...)

	var g errgroup.Group
	g.SetLimit(max(limit, 1))
	for _, key := range lo.Uniq(keys) {
		g.Go(func() error {
			_, _ = r.load(ctx, key)
			return nil
		})
	}
	_ = g.Wait()
	return ctx.Err()
}

func (r *Resolver) load(ctx context.Context, key string) (Asset, error) {
	r.mu.Lock()
	res, ok := r.memo[key]
	r.mu.Unlock()
	if ok {
		return res.asset, res.err
	}

	v, _, _ := r.group.Do(key, func() (any, error) {
		a, err := r.fetch(ctx, key)
		if err == nil {
			a, err = Normalize(a, r.maxSize)
		}
		if err != nil {
			r.log.Debugf("resolving %s: %v", key, err)
		}
		res := result{asset: a, err: err}
		if ctx.Err() == nil {
			r.mu.Lock()
			r.memo[key] = res
			r.mu.Unlock()
		}
		return res, nil
	})
	res = v.(result)
	return res.asset, res.err
}

func (r *Resolver) fetch(ctx context.Context, key string) (Asset, error) {
	switch {
	case strings.HasPrefix(key, kindFlag):
		code := strings.TrimPrefix(key, kindFlag)
		if code == "" {
			return Asset{}, &FetchError{Ref: "flag", Err: fmt.Errorf("no country code: %w", ErrNotFound)}
		}
		return r.src.Flag(ctx, code)
	case strings.HasPrefix(key, kindUpload):
		return r.src.Upload(ctx, strings.TrimPrefix(key, kindUpload))
	case strings.HasPrefix(key, kindStatic):
		return r.src.Static(ctx, strings.TrimPrefix(key, kindStatic))
	}
	return Asset{}, errors.New("assets: unknown asset key " + key)
}
