// Package config loads the crosstab configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/theirongolddev/crosstab/internal/crosstab"
	"github.com/theirongolddev/crosstab/internal/crosstab/geometry"
	"github.com/theirongolddev/crosstab/internal/crosstab/gesture"
	"github.com/theirongolddev/crosstab/internal/crosstab/physics"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the full configuration file.
type Config struct {
	// Theme is "auto", "dark" or "light".
	Theme    string         `toml:"theme"`
	Grid     GridConfig     `toml:"grid"`
	Physics  PhysicsConfig  `toml:"physics"`
	Gesture  GestureConfig  `toml:"gesture"`
	Terminal TerminalConfig `toml:"terminal"`
	Trace    TraceConfig    `toml:"trace"`
}

// GridConfig holds band sizes and decorations, in layout pixels.
type GridConfig struct {
	CellWidth    int `toml:"cell_width"`
	CellHeight   int `toml:"cell_height"`
	CornerWidth  int `toml:"corner_width"`
	CornerHeight int `toml:"corner_height"`

	PaddingLeft   int `toml:"padding_left"`
	PaddingTop    int `toml:"padding_top"`
	PaddingRight  int `toml:"padding_right"`
	PaddingBottom int `toml:"padding_bottom"`

	Shadows           bool `toml:"shadows"`
	RowTitleShadow    int  `toml:"row_title_shadow"`
	ColumnTitleShadow int  `toml:"column_title_shadow"`
}

// PhysicsConfig mirrors physics.Params with plain units.
type PhysicsConfig struct {
	MinFlingVelocity     float64 `toml:"min_fling_velocity"`
	MaxFlingVelocity     float64 `toml:"max_fling_velocity"`
	Resistance           float64 `toml:"resistance"`
	OverScrollResistance float64 `toml:"overscroll_resistance"`
	BounceBackSpeed      float64 `toml:"bounce_back_speed"`
	Damping              float64 `toml:"damping"`
	MaxOverScroll        float64 `toml:"max_overscroll"`
	AnimationMs          int     `toml:"animation_ms"`
}

// GestureConfig tunes tap and drag recognition.
type GestureConfig struct {
	TouchSlop        float64 `toml:"touch_slop"`
	VelocityWindowMs int     `toml:"velocity_window_ms"`
}

// TerminalConfig maps terminal cells to layout pixels.
type TerminalConfig struct {
	PxPerColumn int `toml:"px_per_column"`
	PxPerRow    int `toml:"px_per_row"`
	// FrameMs is the tick interval while the view animates.
	FrameMs int `toml:"frame_ms"`
	// WheelStep is how many cells one wheel notch scrolls.
	WheelStep int `toml:"wheel_step"`
}

// TraceConfig controls the JSONL interaction trace.
type TraceConfig struct {
	Enabled       bool   `toml:"enabled"`
	Path          string `toml:"path"`
	RetentionDays int    `toml:"retention_days"`
}

// DefaultPath returns the default config file path. CROSSTAB_CONFIG wins
// over the XDG location.
func DefaultPath() string {
	if p := os.Getenv("CROSSTAB_CONFIG"); p != "" {
		return p
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "crosstab", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "crosstab", "config.toml")
}

// DefaultTracePath returns where the interaction trace goes when no path is
// configured.
func DefaultTracePath() string {
	return filepath.Join(filepath.Dir(DefaultPath()), "trace.jsonl")
}

// DefaultGridConfig returns the stock band sizes.
func DefaultGridConfig() GridConfig {
	b := geometry.DefaultBands()
	return GridConfig{
		CellWidth:         b.CellWidth,
		CellHeight:        b.CellHeight,
		CornerWidth:       b.CornerWidth,
		CornerHeight:      b.CornerHeight,
		Shadows:           true,
		RowTitleShadow:    10,
		ColumnTitleShadow: 10,
	}
}

// DefaultPhysicsConfig returns the stock physics.
func DefaultPhysicsConfig() PhysicsConfig {
	p := physics.DefaultParams()
	return PhysicsConfig{
		MinFlingVelocity:     p.MinFlingVelocity,
		MaxFlingVelocity:     p.MaxFlingVelocity,
		Resistance:           p.Resistance,
		OverScrollResistance: p.OverScrollResistance,
		BounceBackSpeed:      p.BounceBackSpeed,
		Damping:              p.Damping,
		MaxOverScroll:        p.MaxOverScroll,
		AnimationMs:          int(p.AnimationDuration / time.Millisecond),
	}
}

// DefaultGestureConfig returns the stock gesture tuning.
func DefaultGestureConfig() GestureConfig {
	g := gesture.DefaultParams()
	return GestureConfig{
		TouchSlop:        g.TouchSlop,
		VelocityWindowMs: int(g.VelocityWindow / time.Millisecond),
	}
}

// DefaultTerminalConfig returns the cell-to-pixel mapping that makes a
// default content cell ten columns wide and two lines tall.
func DefaultTerminalConfig() TerminalConfig {
	return TerminalConfig{
		PxPerColumn: 14,
		PxPerRow:    35,
		FrameMs:     16,
		WheelStep:   1,
	}
}

// DefaultTraceConfig returns tracing defaults.
func DefaultTraceConfig() TraceConfig {
	return TraceConfig{RetentionDays: 7}
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{
		Theme:    "auto",
		Grid:     DefaultGridConfig(),
		Physics:  DefaultPhysicsConfig(),
		Gesture:  DefaultGestureConfig(),
		Terminal: DefaultTerminalConfig(),
		Trace:    DefaultTraceConfig(),
	}
	applyEnv(cfg)
	return cfg
}

// Load reads the config at path. Keys missing from the file keep their
// defaults. An empty path means DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	fillZeros(cfg)
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path, falling back to defaults when the file does not
// exist. Other errors are returned.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// fillZeros restores defaults for values written as zero, which the file
// format cannot tell apart from missing.
func fillZeros(cfg *Config) {
	t := DefaultTerminalConfig()
	if cfg.Terminal.PxPerColumn == 0 {
		cfg.Terminal.PxPerColumn = t.PxPerColumn
	}
	if cfg.Terminal.PxPerRow == 0 {
		cfg.Terminal.PxPerRow = t.PxPerRow
	}
	if cfg.Terminal.FrameMs == 0 {
		cfg.Terminal.FrameMs = t.FrameMs
	}
	if cfg.Terminal.WheelStep == 0 {
		cfg.Terminal.WheelStep = t.WheelStep
	}
	if cfg.Theme == "" {
		cfg.Theme = "auto"
	}
	if cfg.Trace.RetentionDays == 0 {
		cfg.Trace.RetentionDays = DefaultTraceConfig().RetentionDays
	}
}

func applyEnv(cfg *Config) {
	if theme := os.Getenv("CROSSTAB_THEME"); theme != "" {
		cfg.Theme = strings.ToLower(theme)
	}
	if trace := os.Getenv("CROSSTAB_TRACE"); trace != "" {
		if on, err := strconv.ParseBool(trace); err == nil {
			cfg.Trace.Enabled = on
		} else {
			cfg.Trace.Enabled = true
			cfg.Trace.Path = trace
		}
	}
}

// Validate rejects values the view cannot work with.
func (c *Config) Validate() error {
	g := c.Grid
	if g.CellWidth <= 0 || g.CellHeight <= 0 || g.CornerWidth <= 0 || g.CornerHeight <= 0 {
		return fmt.Errorf("%w: band sizes must be positive (cell %dx%d, corner %dx%d)",
			ErrInvalid, g.CellWidth, g.CellHeight, g.CornerWidth, g.CornerHeight)
	}
	if g.PaddingLeft < 0 || g.PaddingTop < 0 || g.PaddingRight < 0 || g.PaddingBottom < 0 {
		return fmt.Errorf("%w: padding must not be negative", ErrInvalid)
	}
	if c.Terminal.PxPerColumn <= 0 || c.Terminal.PxPerRow <= 0 {
		return fmt.Errorf("%w: px_per_column and px_per_row must be positive", ErrInvalid)
	}
	switch c.Theme {
	case "auto", "dark", "light":
	default:
		return fmt.Errorf("%w: unknown theme %q", ErrInvalid, c.Theme)
	}
	return nil
}

// Options converts the file values into view options. Zero physics and
// gesture values fall back to their defaults.
func (c *Config) Options() crosstab.Options {
	opts := crosstab.DefaultOptions()
	g := c.Grid
	opts.Bands = geometry.Bands{
		CellWidth:    g.CellWidth,
		CellHeight:   g.CellHeight,
		CornerWidth:  g.CornerWidth,
		CornerHeight: g.CornerHeight,
	}
	opts.Padding = geometry.Padding{
		Left:   g.PaddingLeft,
		Top:    g.PaddingTop,
		Right:  g.PaddingRight,
		Bottom: g.PaddingBottom,
	}
	opts.RowTitleShadowSize = g.RowTitleShadow
	opts.ColumnTitleShadowSize = g.ColumnTitleShadow

	p := c.Physics
	opts.Physics = physics.Params{
		MinFlingVelocity:     p.MinFlingVelocity,
		MaxFlingVelocity:     p.MaxFlingVelocity,
		Resistance:           p.Resistance,
		OverScrollResistance: p.OverScrollResistance,
		BounceBackSpeed:      p.BounceBackSpeed,
		Damping:              p.Damping,
		MaxOverScroll:        p.MaxOverScroll,
		AnimationDuration:    time.Duration(p.AnimationMs) * time.Millisecond,
		FrameInterval:        c.FrameInterval(),
	}.Normalize()

	gp := gesture.DefaultParams()
	if c.Gesture.TouchSlop > 0 {
		gp.TouchSlop = c.Gesture.TouchSlop
	}
	if c.Gesture.VelocityWindowMs > 0 {
		gp.VelocityWindow = time.Duration(c.Gesture.VelocityWindowMs) * time.Millisecond
	}
	opts.Gesture = gp
	return opts
}

// FrameInterval returns the animation tick interval.
func (c *Config) FrameInterval() time.Duration {
	if c.Terminal.FrameMs <= 0 {
		return time.Duration(DefaultTerminalConfig().FrameMs) * time.Millisecond
	}
	return time.Duration(c.Terminal.FrameMs) * time.Millisecond
}

// TracePath returns the configured trace file or the default location.
func (c *Config) TracePath() string {
	if c.Trace.Path != "" {
		return ExpandHome(c.Trace.Path)
	}
	return DefaultTracePath()
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// CreateDefault writes a default config file to path, or DefaultPath when
// path is empty. It refuses to overwrite an existing file.
func CreateDefault(path string) (string, error) {
	if path == "" {
		path = DefaultPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists: %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := Print(Default(), f); err != nil {
		return "", err
	}

	return path, nil
}

// Print writes cfg to w as an annotated TOML file.
func Print(cfg *Config, w io.Writer) error {
	fmt.Fprintln(w, "# crosstab configuration")
	fmt.Fprintln(w, "# Sizes are layout pixels; [terminal] maps them onto character cells.")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "# Colour theme: auto, dark or light (env: CROSSTAB_THEME)")
	fmt.Fprintf(w, "theme = %q\n", cfg.Theme)
	fmt.Fprintln(w)

	g := cfg.Grid
	fmt.Fprintln(w, "[grid]")
	fmt.Fprintln(w, "# Content cell size; also the width of top titles and height of left titles")
	fmt.Fprintf(w, "cell_width = %d\n", g.CellWidth)
	fmt.Fprintf(w, "cell_height = %d\n", g.CellHeight)
	fmt.Fprintln(w, "# Pinned corner size; also the width of left titles and height of top titles")
	fmt.Fprintf(w, "corner_width = %d\n", g.CornerWidth)
	fmt.Fprintf(w, "corner_height = %d\n", g.CornerHeight)
	fmt.Fprintf(w, "padding_left = %d\n", g.PaddingLeft)
	fmt.Fprintf(w, "padding_top = %d\n", g.PaddingTop)
	fmt.Fprintf(w, "padding_right = %d\n", g.PaddingRight)
	fmt.Fprintf(w, "padding_bottom = %d\n", g.PaddingBottom)
	fmt.Fprintf(w, "shadows = %t\n", g.Shadows)
	fmt.Fprintf(w, "row_title_shadow = %d\n", g.RowTitleShadow)
	fmt.Fprintf(w, "column_title_shadow = %d\n", g.ColumnTitleShadow)
	fmt.Fprintln(w)

	p := cfg.Physics
	fmt.Fprintln(w, "[physics]")
	fmt.Fprintln(w, "# Velocities in px/s; flings slower than the minimum are ignored")
	fmt.Fprintf(w, "min_fling_velocity = %s\n", formatFloat(p.MinFlingVelocity))
	fmt.Fprintf(w, "max_fling_velocity = %s\n", formatFloat(p.MaxFlingVelocity))
	fmt.Fprintf(w, "resistance = %s\n", formatFloat(p.Resistance))
	fmt.Fprintf(w, "overscroll_resistance = %s\n", formatFloat(p.OverScrollResistance))
	fmt.Fprintf(w, "bounce_back_speed = %s\n", formatFloat(p.BounceBackSpeed))
	fmt.Fprintf(w, "damping = %s\n", formatFloat(p.Damping))
	fmt.Fprintln(w, "# Rubber-band reach; over-scroll slot widgets override it per axis")
	fmt.Fprintf(w, "max_overscroll = %s\n", formatFloat(p.MaxOverScroll))
	fmt.Fprintf(w, "animation_ms = %d\n", p.AnimationMs)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[gesture]")
	fmt.Fprintf(w, "touch_slop = %s\n", formatFloat(cfg.Gesture.TouchSlop))
	fmt.Fprintf(w, "velocity_window_ms = %d\n", cfg.Gesture.VelocityWindowMs)
	fmt.Fprintln(w)

	t := cfg.Terminal
	fmt.Fprintln(w, "[terminal]")
	fmt.Fprintln(w, "# Layout pixels per character column and per line")
	fmt.Fprintf(w, "px_per_column = %d\n", t.PxPerColumn)
	fmt.Fprintf(w, "px_per_row = %d\n", t.PxPerRow)
	fmt.Fprintf(w, "frame_ms = %d\n", t.FrameMs)
	fmt.Fprintf(w, "wheel_step = %d\n", t.WheelStep)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[trace]")
	fmt.Fprintln(w, "# JSONL log of clicks, flings and refreshes (env: CROSSTAB_TRACE)")
	fmt.Fprintf(w, "enabled = %t\n", cfg.Trace.Enabled)
	if cfg.Trace.Path != "" {
		fmt.Fprintf(w, "path = %q\n", cfg.Trace.Path)
	} else {
		fmt.Fprintln(w, "# path = \"~/.config/crosstab/trace.jsonl\"")
	}
	fmt.Fprintf(w, "retention_days = %d\n", cfg.Trace.RetentionDays)

	return nil
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
