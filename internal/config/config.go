// Package config loads and provides application configuration.
//
// On first run, a default YAML config is written to ~/.kowhairc.yaml.
// Subsequent runs read and merge that file with built-in defaults.
//
// Grounded on the teacher's internal/config/config.go (Load/writeDefaults
// shape, "missing file → write defaults" behavior), adapted to spec.md
// §6.5's fields — the teacher's tab/pane/Claude-launch options have no
// counterpart here.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kowhai-term/kowhai/internal/grid"
)

// Config holds all user-configurable settings (spec.md §6.5).
type Config struct {
	Foreground string    `yaml:"foreground"`
	Background string    `yaml:"background"`
	Colors     [8]string `yaml:"colors"`
	TabMax     int       `yaml:"tab_max"`
	Scrollback int       `yaml:"scrollback"`
	Font       string    `yaml:"font"`
	Bell       string    `yaml:"bell"`
	// Alpha is the window's overall opacity, in (0, 1] with 1 opaque; Load
	// replaces a value outside that range with the default 1.0. Supplement from original_source/src/config/mod.rs, plumbed
	// through to the window backend's Open() (SPEC_FULL.md §4.10).
	Alpha float64 `yaml:"alpha"`
}

// DefaultConfig returns the built-in defaults named in spec.md §6.5.
func DefaultConfig() Config {
	return Config{
		Foreground: "d7-e0-da",
		Background: "0d-16-17",
		Colors: [8]string{
			"28-28-28", "cc-24-1d", "98-97-1a", "d6-5d-0e",
			"45-85-88", "b1-62-86", "83-a5-98", "eb-db-b2",
		},
		TabMax:     400,
		Scrollback: 400,
		Font:       "Iosevka Nerd Font Mono:style=Regular",
		Bell:       "assets/pluh.wav",
		Alpha:      1.0,
	}
}

// configPath returns the path to ~/.kowhairc.yaml.
func configPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".kowhairc.yaml")
}

// Load reads the config file, falling back to defaults for missing fields
// and writing a fresh default file if none exists yet.
func Load() Config {
	cfg := DefaultConfig()

	p := configPath()
	if p == "" {
		return cfg
	}

	data, err := os.ReadFile(p)
	if err != nil {
		// No config file yet – write defaults for future editing
		writeDefaults(p, cfg)
		return cfg
	}

	_ = yaml.Unmarshal(data, &cfg)

	if cfg.TabMax < 1 {
		cfg.TabMax = 1
	}
	if cfg.Scrollback < 0 {
		cfg.Scrollback = 0
	}
	defaults := DefaultConfig()
	for i, c := range cfg.Colors {
		if c == "" {
			cfg.Colors[i] = defaults.Colors[i]
		}
	}
	if cfg.Font == "" {
		cfg.Font = defaults.Font
	}
	if cfg.Alpha <= 0 || cfg.Alpha > 1 {
		cfg.Alpha = defaults.Alpha
	}

	return cfg
}

// writeDefaults persists the default configuration to disk.
func writeDefaults(path string, cfg Config) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return
	}
	header := []byte("# kowhai-term configuration\n# Edit this file to customise defaults.\n\n")
	_ = os.WriteFile(path, append(header, data...), 0644)
}

// ParseColor decodes a spec.md §6.5 "rr-gg-bb" hex-pair color string. An
// empty string is black (spec.md §6.5 "Color format ... Empty string →
// black").
func ParseColor(s string) (grid.Color, error) {
	if s == "" {
		return grid.Color{}, nil
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x-%02x-%02x", &r, &g, &b); err != nil {
		return grid.Color{}, fmt.Errorf("config: invalid color %q: %w", s, err)
	}
	return grid.Color{R: r, G: g, B: b}, nil
}

// Palette decodes the eight configured ANSI colors, collecting a parse
// error per malformed entry instead of failing the whole config (spec.md
// §7 has no "fatal" category for a single bad color string).
func (c Config) Palette() (pal [8]grid.Color, errs []error) {
	for i, s := range c.Colors {
		col, err := ParseColor(s)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		pal[i] = col
	}
	return pal, errs
}
