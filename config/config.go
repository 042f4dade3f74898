// Package config loads the generator configuration from YAML or TOML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/DeutscheModelUnitedNations/badgeGenerator/assets"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/barcode"
)

const defaultConfigFile = "badgegen.yml"

// Config is the top-level configuration.
type Config struct {
	Assets      AssetsConfig      `yaml:"assets" toml:"assets"`
	Fonts       FontsConfig       `yaml:"fonts" toml:"fonts"`
	Barcode     BarcodeConfig     `yaml:"barcode" toml:"barcode"`
	Prefetch    int               `yaml:"prefetch" toml:"prefetch"`
	Backgrounds map[string]string `yaml:"backgrounds" toml:"backgrounds"` // document type -> PDF path
	Output      OutputConfig      `yaml:"output" toml:"output"`
}

// AssetsConfig lists the asset sources. Configured sources are tried in the
// order directories, upload database, HTTP.
type AssetsConfig struct {
	FlagsDir     string `yaml:"flagsDir" toml:"flagsDir"`
	StaticDir    string `yaml:"staticDir" toml:"staticDir"`
	UploadsDir   string `yaml:"uploadsDir" toml:"uploadsDir"`
	UploadsDB    string `yaml:"uploadsDB" toml:"uploadsDB"`
	BaseURL      string `yaml:"baseURL" toml:"baseURL"`
	MaxImageSize int    `yaml:"maxImageSize" toml:"maxImageSize"`
}

// FontsConfig points at TrueType files. Empty paths use the embedded fonts.
type FontsConfig struct {
	Regular string `yaml:"regular" toml:"regular"`
	Bold    string `yaml:"bold" toml:"bold"`
}

// BarcodeConfig selects the symbology: "code128" (default) or "pdf417".
type BarcodeConfig struct {
	Symbology string `yaml:"symbology" toml:"symbology"`
}

// OutputConfig controls how the PDF is written.
type OutputConfig struct {
	Compress bool `yaml:"compress" toml:"compress"`
}

// Defaults returns the configuration used when no file exists.
func Defaults() *Config {
	return &Config{
		Assets: AssetsConfig{
			FlagsDir:     "static/flags",
			StaticDir:    "static",
			MaxImageSize: assets.DefaultMaxImageSize,
		},
		Barcode:  BarcodeConfig{Symbology: string(barcode.Code128)},
		Prefetch: 4,
		Output:   OutputConfig{Compress: true},
	}
}

// Load reads the configuration at path, choosing the format by extension
// (.toml, otherwise YAML). An empty path tries the default file; a missing
// file yields Defaults. Relative paths inside the file are resolved against
// its directory.
func Load(path string) (*Config, error) {
	if path == "" {
		path = defaultConfigFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Defaults(), nil
		}
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := Defaults()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	cfg.resolve(filepath.Dir(path))
	return cfg, cfg.Validate()
}

func (c *Config) resolve(dir string) {
	abs := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	abs(&c.Assets.FlagsDir)
	abs(&c.Assets.StaticDir)
	abs(&c.Assets.UploadsDir)
	abs(&c.Assets.UploadsDB)
	abs(&c.Fonts.Regular)
	abs(&c.Fonts.Bold)
	for k, v := range c.Backgrounds {
		abs(&v)
		c.Backgrounds[k] = v
	}
}

// Validate checks values that cannot be checked by the decoder.
func (c *Config) Validate() error {
	var errs []error
	if _, err := barcode.ParseSymbology(c.Barcode.Symbology); err != nil {
		errs = append(errs, err)
	}
	if c.Prefetch < 0 {
		errs = append(errs, fmt.Errorf("prefetch must not be negative, got %d", c.Prefetch))
	}
	if (c.Fonts.Regular == "") != (c.Fonts.Bold == "") {
		errs = append(errs, errors.New("fonts.regular and fonts.bold must be set together"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
