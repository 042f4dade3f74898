package config

import (
	"fmt"
	"os"

	"github.com/flanksource/commons/logger"

	badgegen "github.com/DeutscheModelUnitedNations/badgeGenerator"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/assets"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/barcode"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/model"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/render"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/text"
)

// Source builds the asset source chain. The returned close function
// releases the upload database, if one was opened.
func (c *Config) Source() (assets.Source, func() error, error) {
	var sources []assets.Source
	closer := func() error { return nil }

	dir := &assets.DirSource{}
	if c.Assets.FlagsDir != "" {
		dir.FlagFS = os.DirFS(c.Assets.FlagsDir)
	}
	if c.Assets.StaticDir != "" {
		dir.StaticFS = os.DirFS(c.Assets.StaticDir)
	}
	if c.Assets.UploadsDir != "" {
		dir.UploadFS = os.DirFS(c.Assets.UploadsDir)
	}
	if dir.FlagFS != nil || dir.StaticFS != nil || dir.UploadFS != nil {
		sources = append(sources, dir)
	}

	if c.Assets.UploadsDB != "" {
		store, err := assets.OpenSQLite(c.Assets.UploadsDB)
		if err != nil {
			return nil, nil, fmt.Errorf("config: %w", err)
		}
		sources = append(sources, store)
		closer = store.Close
	}
	if c.Assets.BaseURL != "" {
		sources = append(sources, assets.NewHTTPSource(c.Assets.BaseURL))
	}
	return assets.Fallback(sources...), closer, nil
}

// Options translates the configuration into generator options. The close
// function must be called once the generator is no longer used.
func (c *Config) Options(log logger.Logger) ([]badgegen.Option, func() error, error) {
	sym, err := barcode.ParseSymbology(c.Barcode.Symbology)
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	opts := []badgegen.Option{
		badgegen.WithPrefetch(c.Prefetch),
		badgegen.WithSymbology(sym),
		badgegen.WithDocumentOptions(render.WithCompression(c.Output.Compress)),
	}
	if log != nil {
		opts = append(opts, badgegen.WithLogger(log))
	}
	if c.Assets.MaxImageSize > 0 {
		opts = append(opts, badgegen.WithMaxImageSize(c.Assets.MaxImageSize))
	}

	if c.Fonts.Regular != "" {
		fonts, err := text.LoadFontFiles(c.Fonts.Regular, c.Fonts.Bold)
		if err != nil {
			return nil, nil, fmt.Errorf("config: %w", err)
		}
		opts = append(opts, badgegen.WithFonts(fonts))
	}

	for name, path := range c.Backgrounds {
		dt, err := model.ParseDocumentType(name)
		if err != nil {
			return nil, nil, fmt.Errorf("config: backgrounds: %w", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("config: background for %s: %w", dt, err)
		}
		opts = append(opts, badgegen.WithBackground(dt, data))
	}

	src, closer, err := c.Source()
	if err != nil {
		return nil, nil, err
	}
	return append(opts, badgegen.WithSource(src)), closer, nil
}
