package utils

import (
	"image/color"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// BackgroundAuto derives the background from the darkest logo palette color.
const BackgroundAuto = "auto"

type Output struct {
	Path string `toml:"path"`
	Size int    `toml:"size"`
}

type Config struct {
	Background    string   `toml:"background"`
	Source        string   `toml:"source"`
	SafeZone      float64  `toml:"safe_zone"`
	MinContrast   float64  `toml:"min_contrast"`
	PaletteMethod string   `toml:"palette_method"`
	Outputs       []Output `toml:"outputs"`
}

// ParseConfig decodes a TOML document and validates it. Missing safe_zone
// defaults to 0.7; a zero min_contrast disables the contrast warning.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.Errorf("unknown config key %q", undecoded[0].String())
	}
	if !md.IsDefined("safe_zone") {
		cfg.SafeZone = 0.7
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Source) == "" {
		return errors.New("source path is empty")
	}
	if c.SafeZone <= 0 || c.SafeZone > 1 {
		return errors.Errorf("safe_zone %v out of range (0, 1]", c.SafeZone)
	}
	if c.MinContrast < 0 {
		return errors.Errorf("min_contrast %v is negative", c.MinContrast)
	}
	if _, err := ParsePaletteMethod(c.PaletteMethod); err != nil {
		return err
	}
	if !c.AutoBackground() {
		if _, err := ParseHexColor(c.Background); err != nil {
			return err
		}
	}
	if len(c.Outputs) == 0 {
		return errors.New("no outputs configured")
	}
	for i, o := range c.Outputs {
		if strings.TrimSpace(o.Path) == "" {
			return errors.Errorf("outputs[%d]: path is empty", i)
		}
		if o.Size <= 0 {
			return errors.Errorf("outputs[%d] %s: size %d must be positive", i, o.Path, o.Size)
		}
	}
	return nil
}

func (c Config) AutoBackground() bool {
	return strings.EqualFold(strings.TrimSpace(c.Background), BackgroundAuto)
}

// BackgroundColor returns the configured hex color. Auto backgrounds are
// resolved against the logo by BackgroundFromPalette instead.
func (c Config) BackgroundColor() (color.RGBA, error) {
	if c.AutoBackground() {
		return color.RGBA{}, errors.New("background is auto")
	}
	return ParseHexColor(c.Background)
}
