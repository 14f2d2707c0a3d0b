// Package config loads demo page descriptions from TOML or YAML files.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/phroun/pixelbox"
)

// Config is a set of demo pages
type Config struct {
	// Demos lists the pages in display order. In TOML each page is a
	// [[demo]] table.
	Demos []pixelbox.DemoOptions `toml:"demo" yaml:"demos"`
}

// Default returns the pages of the documentation site's pixel tutorial
func Default() *Config {
	return &Config{Demos: []pixelbox.DemoOptions{
		{
			Target:           "isis-pixels",
			Title:            "Pixels",
			Kind:             pixelbox.DemoGrid,
			Surface:          pixelbox.Options{Type: pixelbox.ModeGradient, PixelSize: 35, Width: 280, Height: 280},
			Slider:           true,
			ShowRightConsole: true,
		},
		{
			Target:    "isis-subpixels",
			Title:     "Sub-pixel coordinates",
			Kind:      pixelbox.DemoGrid,
			Surface:   pixelbox.Options{Type: pixelbox.ModeGradient, PixelSize: 35, Width: 280, Height: 280},
			Subpixels: true,
		},
		{
			Target:           "isis-multiplier",
			Title:            "DN multiplier and base",
			Kind:             pixelbox.DemoImage,
			Image:            pixelbox.ImageLayerOptions{Width: 256, Height: 256},
			DNMultiplier:     true,
			ShowRightConsole: true,
		},
		{
			Target:           "isis-special-pixels",
			Title:            "Special pixels",
			Kind:             pixelbox.DemoGrid,
			Surface:          pixelbox.Options{Type: pixelbox.ModeSpecial, PixelSize: 35, Width: 280, Height: 280},
			ShowRightConsole: true,
		},
		{
			Target:           "isis-cube",
			Title:            "Image cube",
			Kind:             pixelbox.DemoCube,
			Slider:           true,
			ShowRightConsole: true,
		},
		{
			Target: "isis-destripe",
			Title:  "Destripe challenge",
			Kind:   pixelbox.DemoDestripe,
			Image:  pixelbox.ImageLayerOptions{Width: 256, Height: 256},
		},
	}}
}

// Load reads a config file, picking the format from its extension
func Load(path string) (*Config, error) {
	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", path)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", path)
		}
	default:
		return nil, errors.Errorf("config %s: unsupported extension %q", path, ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	cfg.resolvePaths(filepath.Dir(path))
	return &cfg, nil
}

// Validate checks that every page has a unique target and a known kind
func (c *Config) Validate() error {
	if len(c.Demos) == 0 {
		return errors.New("no demos defined")
	}
	seen := make(map[string]bool, len(c.Demos))
	for i, d := range c.Demos {
		if d.Target == "" {
			return errors.Errorf("demo %d: missing target", i)
		}
		if seen[d.Target] {
			return errors.Errorf("demo %s: duplicate target", d.Target)
		}
		seen[d.Target] = true

		switch d.Kind {
		case "", pixelbox.DemoGrid, pixelbox.DemoCube, pixelbox.DemoImage, pixelbox.DemoDestripe:
		default:
			return errors.Errorf("demo %s: unknown kind %q", d.Target, d.Kind)
		}
		switch d.Surface.Type {
		case "", pixelbox.ModeGradient, pixelbox.ModeLines, pixelbox.ModeSpecial:
		default:
			return errors.Errorf("demo %s: unknown surface type %q", d.Target, d.Surface.Type)
		}
	}
	return nil
}

// resolvePaths makes image sources relative to the config file's directory
func (c *Config) resolvePaths(dir string) {
	for i := range c.Demos {
		src := c.Demos[i].Image.Src
		if src != "" && !filepath.IsAbs(src) {
			c.Demos[i].Image.Src = filepath.Join(dir, src)
		}
	}
}

// Find returns the page with the given target
func (c *Config) Find(target string) (pixelbox.DemoOptions, bool) {
	for _, d := range c.Demos {
		if d.Target == target {
			return d, true
		}
	}
	return pixelbox.DemoOptions{}, false
}

// Targets returns every page target in order
func (c *Config) Targets() []string {
	out := make([]string, len(c.Demos))
	for i, d := range c.Demos {
		out[i] = d.Target
	}
	return out
}
