package badgegen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sort"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeutscheModelUnitedNations/badgeGenerator/assets"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/layout"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/model"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/render"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/report"
)

func testPNG(t testing.TB, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 20, G: uint8(x), B: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testSource(t testing.TB) *assets.DirSource {
	t.Helper()
	flag := testPNG(t, 40, 30)
	logo := testPNG(t, 20, 20)
	return &assets.DirSource{
		FlagFS:   fstest.MapFS{"de.png": {Data: flag}, "fr.png": {Data: flag}},
		UploadFS: fstest.MapFS{"press.png": {Data: flag}},
		StaticFS: fstest.MapFS{
			"logo/color/dmun.png":       {Data: logo},
			"logo/color/small_dmun.png": {Data: logo},
			"logo/color/mun-sh.png":     {Data: logo},
		},
	}
}

var fixedNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func newGenerator(t testing.TB, opts ...Option) *Generator {
	t.Helper()
	gen, err := New(append([]Option{WithSource(testSource(t)), WithClock(func() time.Time { return fixedNow })}, opts...)...)
	require.NoError(t, err)
	return gen
}

func TestPlacardScenario(t *testing.T) {
	gen := newGenerator(t)
	run := gen.NewRun()
	pdf, err := run.Generate(context.Background(), Request{
		Rows: []model.Row{
			{Name: "Ada", CountryName: "Deutschland", CountryAlpha2Code: "de", MediaConsentStatus: model.ConsentAllowedAll},
			{Name: "Bo", CountryName: "Presse", AlternativeImage: "missing.png", MediaConsentStatus: model.ConsentAllowedAll},
		},
		Brand: model.BrandMUNSH,
		Type:  model.Placard,
	})
	require.NoError(t, err)

	pages, err := render.Verify(pdf)
	require.NoError(t, err)
	assert.Equal(t, 2, pages)

	ws := run.Warnings()
	require.Len(t, ws, 1)
	assert.Equal(t, report.Image, ws[0].Type)
	assert.Equal(t, []string{"1", "alternativeImage"}, ws[0].Path)
	assert.Equal(t, report.Snapshot{TotalPages: 2, CompletedPages: 2}, run.Progress())
	assert.False(t, run.Active())
}

func badgeRows() []model.Row {
	return []model.Row{
		{Name: "Ada Lovelace", Committee: "GA", CountryName: "Deutschland", CountryAlpha2Code: "DE", Pronouns: "she/her", ID: "A-1", MediaConsentStatus: model.ConsentPartiallyAllowed},
		{Name: "Li 李 Wei", CountryName: "France", CountryAlpha2Code: "fr", ID: "A-2", MediaConsentStatus: model.ConsentNotAllowed},
		{Name: "Team", CountryName: "Press", AlternativeImage: "press", MediaConsentStatus: model.ConsentAllowedAll},
		{Name: "Staff", CountryName: "Secretariat", AlternativeImage: "$DMUN", MediaConsentStatus: model.ConsentAllowedAll},
		{Name: "Ghost", CountryName: "Nowhere", CountryAlpha2Code: "zz"},
	}
}

func sortedWarnings(ws []report.Warning) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, fmt.Sprintf("%s %v", w.Type, w.Path))
	}
	sort.Strings(out)
	return out
}

func TestBadgesForEveryType(t *testing.T) {
	gen := newGenerator(t)
	for _, dt := range model.DocumentTypes() {
		t.Run(string(dt), func(t *testing.T) {
			res, err := gen.Generate(context.Background(), Request{Rows: badgeRows(), Brand: model.BrandDMUN, Type: dt, TrimBorder: true})
			require.NoError(t, err)

			pages, err := render.Verify(res.PDF)
			require.NoError(t, err)
			assert.Equal(t, 5, pages)
			assert.Equal(t, report.Snapshot{TotalPages: 5, CompletedPages: 5}, res.Progress)
			assert.Equal(t, []string{
				"IMAGE [4 countryAlpha2Code]",
				"TEXT [1 name]",
			}, sortedWarnings(res.Warnings))
		})
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	gen := newGenerator(t)
	run := gen.NewRun()
	req := Request{Rows: badgeRows(), Brand: model.BrandMUNSH, Type: model.HorizontalBadge}

	first, err := run.Generate(context.Background(), req)
	require.NoError(t, err)
	firstWarnings, firstProgress := run.Warnings(), run.Progress()

	second, err := run.Generate(context.Background(), req)
	require.NoError(t, err)

	p1, err := render.Verify(first)
	require.NoError(t, err)
	p2, err := render.Verify(second)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
	assert.Equal(t, sortedWarnings(firstWarnings), sortedWarnings(run.Warnings()))
	assert.Equal(t, firstProgress, run.Progress())
}

func TestGenerateNoRows(t *testing.T) {
	run := newGenerator(t).NewRun()
	_, err := run.Generate(context.Background(), Request{Brand: model.BrandDMUN, Type: model.Placard})
	require.ErrorIs(t, err, ErrNoRows)
	assert.Equal(t, report.Snapshot{}, run.Progress())
	assert.Empty(t, run.Warnings())
}

func TestGenerateRejectsUnknownInput(t *testing.T) {
	run := newGenerator(t).NewRun()
	rows := []model.Row{{Name: "A", CountryName: "B", CountryAlpha2Code: "de"}}

	_, err := run.Generate(context.Background(), Request{Rows: rows, Brand: model.BrandDMUN, Type: "POSTER"})
	require.ErrorIs(t, err, ErrUnknownDocumentType)

	_, err = run.Generate(context.Background(), Request{Rows: rows, Brand: "ACME", Type: model.Placard})
	require.ErrorIs(t, err, ErrUnknownBrand)
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	run := newGenerator(t).NewRun()
	_, err := run.Generate(ctx, Request{Rows: badgeRows(), Brand: model.BrandDMUN, Type: model.VerticalBadge})
	require.ErrorIs(t, err, context.Canceled)

	var ge *GenerationError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, 0, ge.Row)
	assert.Equal(t, 0, run.Progress().CompletedPages)
}

type blockingSource struct {
	assets.Source
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingSource) Flag(ctx context.Context, code string) (assets.Asset, error) {
	b.once.Do(func() { close(b.entered) })
	<-b.release
	return b.Source.Flag(ctx, code)
}

func TestRunRejectsConcurrentGenerate(t *testing.T) {
	src := &blockingSource{Source: testSource(t), entered: make(chan struct{}), release: make(chan struct{})}
	gen, err := New(WithSource(src))
	require.NoError(t, err)
	run := gen.NewRun()
	req := Request{Rows: badgeRows()[:1], Brand: model.BrandDMUN, Type: model.HorizontalBadge}

	done := make(chan error, 1)
	go func() {
		_, err := run.Generate(context.Background(), req)
		done <- err
	}()
	<-src.entered

	assert.True(t, run.Active())
	assert.Equal(t, report.Snapshot{TotalPages: 1}, run.Progress())
	_, err = run.Generate(context.Background(), req)
	require.ErrorIs(t, err, ErrRunInProgress)

	// a separate run is independent
	other, err := newGenerator(t).Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, other.Progress.CompletedPages)

	close(src.release)
	require.NoError(t, <-done)
	assert.False(t, run.Active())
}

type countingSource struct {
	assets.Source
	mu    sync.Mutex
	flags map[string]int
}

func (c *countingSource) Flag(ctx context.Context, code string) (assets.Asset, error) {
	c.mu.Lock()
	c.flags[code]++
	c.mu.Unlock()
	return c.Source.Flag(ctx, code)
}

func TestPrefetchFetchesEachFlagOnce(t *testing.T) {
	src := &countingSource{Source: testSource(t), flags: map[string]int{}}
	gen := newGenerator(t, WithSource(src), WithPrefetch(4))

	rows := []model.Row{}
	for i := 0; i < 20; i++ {
		rows = append(rows, model.Row{Name: fmt.Sprint(i), CountryName: "Deutschland", CountryAlpha2Code: []string{"de", "DE", "fr", "zz"}[i%4]})
	}
	res, err := gen.Generate(context.Background(), Request{Rows: rows, Brand: model.BrandMUNBW, Type: model.VerticalBadge})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"de": 1, "fr": 1, "zz": 1}, src.flags)
	assert.Len(t, res.Warnings, 5)
}

func TestBackgroundTemplate(t *testing.T) {
	tpl := render.NewDocument()
	require.NoError(t, tpl.AddPage(layout.Size{W: 241, H: 155.91}))
	tpl.Rect(layout.Rect{X: 5, Y: 5, W: 231, H: 145.91}, 2, layout.Color{R: 0.2, G: 0.4, B: 0.8})
	bg, err := tpl.Bytes()
	require.NoError(t, err)

	gen := newGenerator(t, WithBackground(model.HorizontalBadge, bg))
	res, err := gen.Generate(context.Background(), Request{Rows: badgeRows()[:2], Brand: model.BrandDMUN, Type: model.HorizontalBadge})
	require.NoError(t, err)
	pages, err := render.Verify(res.PDF)
	require.NoError(t, err)
	assert.Equal(t, 2, pages)
}

func TestGenerationError(t *testing.T) {
	err := newGenerationError("layout", 3, errors.New("boom"))
	assert.Equal(t, "badgegen.layout: row 3: boom", err.Error())
	assert.Equal(t, "badgegen.output: boom", newGenerationError("output", -1, errors.New("boom")).Error())
}
