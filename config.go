package treeview

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Config.Validate and NewController when the
// configuration cannot produce a usable viewport.
var ErrInvalidConfig = errors.New("treeview: invalid config")

// Mode selects how content space relates to the rendering surface.
type Mode uint8

const (
	// ModeScreenRelative treats content space as device pixels. Pointer
	// deltas apply unscaled and the visible extent follows the surface size.
	ModeScreenRelative Mode = iota
	// ModeContentRelative gives content space a fixed intrinsic extent.
	// Pointer deltas are rescaled by ContentExtent / surface size.
	ModeContentRelative
)

func (m Mode) String() string {
	switch m {
	case ModeScreenRelative:
		return "screen-relative"
	case ModeContentRelative:
		return "content-relative"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// UnmarshalText parses "screen-relative" or "content-relative".
func (m *Mode) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "screen", "screen-relative", "screenrelative":
		*m = ModeScreenRelative
	case "content", "content-relative", "contentrelative":
		*m = ModeContentRelative
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, text)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *Mode) UnmarshalYAML(value *yaml.Node) error {
	return m.UnmarshalText([]byte(value.Value))
}

// ZoomStep picks an initial zoom level for surfaces wider than MinWidth.
// Only used in screen-relative mode.
type ZoomStep struct {
	MinWidth float64 `yaml:"minWidth"`
	Zoom     float64 `yaml:"zoom"`
}

// Config is the construction-time configuration of a Controller.
// There is no runtime reconfiguration.
type Config struct {
	MinZoom     float64 `yaml:"minZoom"`
	MaxZoom     float64 `yaml:"maxZoom"`
	InitialZoom float64 `yaml:"initialZoom"`
	// ZoomFactor converts device pixels of pinch or wheel motion into zoom
	// level units.
	ZoomFactor float64 `yaml:"zoomFactor"`
	// ZoomEpsilon is the smallest zoom change that counts as a change.
	// Zero selects the default of 0.001, as for the other numeric fields;
	// there is no way to disable the threshold.
	ZoomEpsilon float64 `yaml:"zoomEpsilon"`

	Mode Mode `yaml:"mode"`
	// ContentExtent is the intrinsic content size. Required in
	// content-relative mode, ignored otherwise.
	ContentExtent Vec2 `yaml:"contentExtent"`

	// WidthZoom overrides InitialZoom in screen-relative mode: the first
	// step whose MinWidth is below the surface width wins, widest first.
	WidthZoom []ZoomStep `yaml:"widthZoom"`
}

const (
	defaultMinZoom     = 0.025
	defaultMaxZoom     = 0.15
	defaultInitialZoom = 0.035
	defaultZoomFactor  = 1.0 / 1000
	defaultZoomEpsilon = 0.001
)

// DefaultConfig returns the configuration used for full-window skill tree
// viewing: screen-relative, with initial zoom tuned per window width.
func DefaultConfig() Config {
	return Config{
		MinZoom:     defaultMinZoom,
		MaxZoom:     defaultMaxZoom,
		InitialZoom: defaultInitialZoom,
		ZoomFactor:  defaultZoomFactor,
		ZoomEpsilon: defaultZoomEpsilon,
		Mode:        ModeScreenRelative,
		WidthZoom: []ZoomStep{
			{MinWidth: 1500, Zoom: 0.07},
			{MinWidth: 1000, Zoom: 0.06},
			{MinWidth: 700, Zoom: 0.05},
		},
	}
}

// withDefaults fills zero numeric fields. WidthZoom is left alone so that a
// literal Config never picks up width tiers it did not ask for.
func (c Config) withDefaults() Config {
	if c.MinZoom == 0 {
		c.MinZoom = defaultMinZoom
	}
	if c.MaxZoom == 0 {
		c.MaxZoom = defaultMaxZoom
	}
	if c.InitialZoom == 0 {
		c.InitialZoom = c.MinZoom
		if defaultInitialZoom >= c.MinZoom && defaultInitialZoom <= c.MaxZoom {
			c.InitialZoom = defaultInitialZoom
		}
	}
	if c.ZoomFactor == 0 {
		c.ZoomFactor = defaultZoomFactor
	}
	if c.ZoomEpsilon == 0 {
		c.ZoomEpsilon = defaultZoomEpsilon
	}
	if len(c.WidthZoom) > 1 {
		steps := make([]ZoomStep, len(c.WidthZoom))
		copy(steps, c.WidthZoom)
		sort.SliceStable(steps, func(i, j int) bool { return steps[i].MinWidth > steps[j].MinWidth })
		c.WidthZoom = steps
	}
	return c
}

// Validate reports whether the configuration is usable. Errors wrap
// ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.MinZoom <= 0:
		return fmt.Errorf("%w: minZoom must be positive, got %g", ErrInvalidConfig, c.MinZoom)
	case c.MaxZoom < c.MinZoom:
		return fmt.Errorf("%w: maxZoom %g below minZoom %g", ErrInvalidConfig, c.MaxZoom, c.MinZoom)
	case c.ZoomFactor <= 0:
		return fmt.Errorf("%w: zoomFactor must be positive, got %g", ErrInvalidConfig, c.ZoomFactor)
	case c.ZoomEpsilon < 0:
		return fmt.Errorf("%w: zoomEpsilon must not be negative, got %g", ErrInvalidConfig, c.ZoomEpsilon)
	case c.InitialZoom <= 0:
		return fmt.Errorf("%w: initialZoom must be positive, got %g", ErrInvalidConfig, c.InitialZoom)
	}
	if c.Mode != ModeScreenRelative && c.Mode != ModeContentRelative {
		return fmt.Errorf("%w: unknown mode %v", ErrInvalidConfig, c.Mode)
	}
	if c.Mode == ModeContentRelative && (c.ContentExtent.X <= 0 || c.ContentExtent.Y <= 0) {
		return fmt.Errorf("%w: content-relative mode needs a positive contentExtent, got %vx%v",
			ErrInvalidConfig, c.ContentExtent.X, c.ContentExtent.Y)
	}
	for _, s := range c.WidthZoom {
		if s.Zoom <= 0 {
			return fmt.Errorf("%w: widthZoom step at %g has zoom %g", ErrInvalidConfig, s.MinWidth, s.Zoom)
		}
	}
	return nil
}

// initialZoomFor returns the starting zoom level for a surface of the given
// width, before clamping.
func (c Config) initialZoomFor(width float64) float64 {
	if c.Mode == ModeScreenRelative {
		for _, s := range c.WidthZoom {
			if width > s.MinWidth {
				return s.Zoom
			}
		}
	}
	return c.InitialZoom
}

// LoadConfig reads a YAML configuration file. Fields missing from the file
// keep their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML configuration on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
