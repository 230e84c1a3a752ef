package chart

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	tlerrors "timelinechart/pkg/errors"
)

// Config represents the complete configuration of a chart.
// It maps directly to YAML configuration files; fields missing from a file keep
// their defaults.
//
// Durations are written as Go duration strings ("750ms", "3s").
type Config struct {
	Layout struct {
		Width      float64 `yaml:"width"`       // Canvas width in pixels
		Height     float64 `yaml:"height"`      // Lane area height in pixels; the lowest lane sits here
		Radius     float64 `yaml:"radius"`      // Mark height and point-mark width in pixels
		TextHeight float64 `yaml:"text_height"` // Extra canvas height reserved below the lanes for axis labels
		FitMargin  float64 `yaml:"fit_margin"`  // Margin kept around the content when fitting it into view
	} `yaml:"layout"`
	Zoom struct {
		ScaleMin         float64 `yaml:"scale_min"`         // Smallest allowed zoom factor
		ScaleMax         float64 `yaml:"scale_max"`         // Largest allowed zoom factor
		WheelSensitivity float64 `yaml:"wheel_sensitivity"` // Zoom exponent per wheel delta unit
	} `yaml:"zoom"`
	Animation struct {
		Transition time.Duration `yaml:"transition"` // Smooth pan/zoom transitions (double click, fit)
		Emphasis   time.Duration `yaml:"emphasis"`   // Hover stroke emphasis and label fade-in
		Fade       time.Duration `yaml:"fade"`       // Label fade-out after dismissal
	} `yaml:"animation"`
	Hover struct {
		DismissDelay        time.Duration `yaml:"dismiss_delay"`         // Delay between pointer leave and label dismissal
		FontSize            float64       `yaml:"font_size"`             // Label font size in screen pixels
		StrokeWidth         float64       `yaml:"stroke_width"`          // Mark stroke width at rest
		EmphasisStrokeWidth float64       `yaml:"emphasis_stroke_width"` // Mark stroke width while hovered
	} `yaml:"hover"`
	Marks struct {
		IntervalPaddingDays int      `yaml:"interval_padding_days"` // Added to closed interval ends so short spans stay visible
		Palette             []string `yaml:"palette"`               // Category colors, assigned in type order
		HiddenOpacity       float64  `yaml:"hidden_opacity"`        // Opacity of marks and legend entries of hidden categories
		Stroke              string   `yaml:"stroke"`                // Stroke color of closed marks
	} `yaml:"marks"`
	Axis struct {
		TickCount int    `yaml:"tick_count"` // Approximate number of ticks across the canvas
		Format    string `yaml:"format"`     // "year" (odd years blank) or "auto"
	} `yaml:"axis"`
	Style struct {
		FontFamily string `yaml:"font_family"` // Font family for labels and ticks
		Background string `yaml:"background"`  // Canvas background color, empty for none
		Border     string `yaml:"border"`      // CSS border of the canvas
	} `yaml:"style"`
	Visibility struct {
		Initial map[string]bool `yaml:"initial"` // Category -> visible by default; absent categories are visible
	} `yaml:"visibility"`
}

// Category10 is the default categorical palette.
var Category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// DefaultConfig returns the standard chart configuration:
//   - 960x300 lane area with 8px marks and 20px reserved for the axis
//   - zoom range 0.5x to 8x
//   - 750ms smooth transitions, 3s hover dismissal
//   - category10 colors, hidden categories at half opacity
func DefaultConfig() Config {
	var cfg Config

	cfg.Layout.Width = 960
	cfg.Layout.Height = 300
	cfg.Layout.Radius = 8
	cfg.Layout.TextHeight = 20
	cfg.Layout.FitMargin = 5

	cfg.Zoom.ScaleMin = 0.5
	cfg.Zoom.ScaleMax = 8
	cfg.Zoom.WheelSensitivity = 0.002

	cfg.Animation.Transition = 750 * time.Millisecond
	cfg.Animation.Emphasis = 100 * time.Millisecond
	cfg.Animation.Fade = 1000 * time.Millisecond

	cfg.Hover.DismissDelay = 3 * time.Second
	cfg.Hover.FontSize = 16
	cfg.Hover.StrokeWidth = 0.5
	cfg.Hover.EmphasisStrokeWidth = 1

	cfg.Marks.IntervalPaddingDays = 31
	cfg.Marks.Palette = append([]string(nil), Category10...)
	cfg.Marks.HiddenOpacity = 0.5
	cfg.Marks.Stroke = "black"

	cfg.Axis.TickCount = 10
	cfg.Axis.Format = "year"

	cfg.Style.FontFamily = "sans-serif"
	cfg.Style.Border = "solid black 1px"

	cfg.Visibility.Initial = map[string]bool{}
	return cfg
}

// LoadConfig loads configuration from a YAML file over the defaults, or returns
// the defaults if no file is specified.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML over the defaults and validates the result.
// Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, tlerrors.NewConfigError("chart", "invalid YAML", err)
	}
	if cfg.Visibility.Initial == nil {
		cfg.Visibility.Initial = map[string]bool{}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration can drive a chart.
func (c Config) Validate() error {
	switch {
	case c.Layout.Width <= 0:
		return tlerrors.NewValidationError("layout.width", c.Layout.Width, "must be positive")
	case c.Layout.Height <= 0:
		return tlerrors.NewValidationError("layout.height", c.Layout.Height, "must be positive")
	case c.Layout.Radius <= 0:
		return tlerrors.NewValidationError("layout.radius", c.Layout.Radius, "must be positive")
	case c.Layout.TextHeight < 0:
		return tlerrors.NewValidationError("layout.text_height", c.Layout.TextHeight, "must not be negative")
	case c.Layout.FitMargin < 0 || 2*c.Layout.FitMargin >= min(c.Layout.Width, c.Layout.Height):
		return tlerrors.NewValidationError("layout.fit_margin", c.Layout.FitMargin, "must leave room for content")
	case c.Zoom.ScaleMin <= 0:
		return tlerrors.NewValidationError("zoom.scale_min", c.Zoom.ScaleMin, "must be positive")
	case c.Zoom.ScaleMax < c.Zoom.ScaleMin:
		return tlerrors.NewValidationError("zoom.scale_max", c.Zoom.ScaleMax, "must not be below scale_min")
	case c.Animation.Transition < 0 || c.Animation.Emphasis < 0 || c.Animation.Fade < 0:
		return tlerrors.NewValidationError("animation", c.Animation, "durations must not be negative")
	case c.Hover.DismissDelay < 0:
		return tlerrors.NewValidationError("hover.dismiss_delay", c.Hover.DismissDelay, "must not be negative")
	case c.Hover.FontSize <= 0:
		return tlerrors.NewValidationError("hover.font_size", c.Hover.FontSize, "must be positive")
	case c.Marks.IntervalPaddingDays < 0:
		return tlerrors.NewValidationError("marks.interval_padding_days", c.Marks.IntervalPaddingDays, "must not be negative")
	case len(c.Marks.Palette) == 0:
		return tlerrors.NewValidationError("marks.palette", c.Marks.Palette, "must contain at least one color")
	case c.Marks.HiddenOpacity < 0 || c.Marks.HiddenOpacity > 1:
		return tlerrors.NewValidationError("marks.hidden_opacity", c.Marks.HiddenOpacity, "must be within [0, 1]")
	case c.Axis.TickCount <= 0:
		return tlerrors.NewValidationError("axis.tick_count", c.Axis.TickCount, "must be positive")
	case c.Axis.Format != "year" && c.Axis.Format != "auto":
		return tlerrors.NewValidationError("axis.format", c.Axis.Format, `must be "year" or "auto"`)
	}
	return nil
}
