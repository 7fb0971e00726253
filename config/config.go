// Package config loads the pendulum settings from TOML. Defaults come from Default, a file
// overrides them, and command-line flags override the file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/Carmen-Shannon/pendulum/common"
	"github.com/Carmen-Shannon/pendulum/engine/parameter"
)

// Window holds the window settings.
type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`

	// MinWidth and MinHeight bound interactive resizing. A zero MaxWidth or MaxHeight is unlimited.
	MinWidth  int `toml:"min_width"`
	MinHeight int `toml:"min_height"`
	MaxWidth  int `toml:"max_width"`
	MaxHeight int `toml:"max_height"`

	// Lazy runs the loop only on input, resize or a redraw request from a running animation.
	Lazy  bool `toml:"lazy"`
	VSync bool `toml:"vsync"`
}

// Render holds the GPU settings.
type Render struct {
	Backend       string    `toml:"backend"`
	MSAA          int       `toml:"msaa"`
	ForceSoftware bool      `toml:"force_software"`
	ClearColor    []float64 `toml:"clear_color"`

	// Blend draws the curve with alpha blending. Wireframe draws the strip as a line strip.
	Blend     bool `toml:"blend"`
	Wireframe bool `toml:"wireframe"`
}

// Shaders holds the shader source and hot-reload settings.
type Shaders struct {
	Dir            string `toml:"dir"`
	ReloadInterval int    `toml:"reload_interval"`
	Validate       bool   `toml:"validate"`
}

// Panel holds the terminal panel settings.
type Panel struct {
	Enabled bool `toml:"enabled"`
}

// Log holds the logging settings.
type Log struct {
	Level string `toml:"level"`

	// File receives the log instead of stderr. Set it when the terminal panel is enabled.
	File string `toml:"file"`
}

// Profile holds the profiler settings.
type Profile struct {
	Enabled bool `toml:"enabled"`
}

// Config is the full settings tree.
type Config struct {
	// Animate names the parameters whose animation runs from the first frame.
	Animate []string `toml:"animate"`

	Window  Window  `toml:"window"`
	Render  Render  `toml:"render"`
	Shaders Shaders `toml:"shaders"`
	Panel   Panel   `toml:"panel"`
	Log     Log     `toml:"log"`
	Profile Profile `toml:"profile"`
}

// Default returns the settings used when no file is given.
//
// Returns:
//   - *Config: a new config
func Default() *Config {
	c := common.DefaultClearColor
	return &Config{
		Animate: []string{},
		Window: Window{
			Title:     "Pendulum",
			Width:     1280,
			Height:    720,
			MinWidth:  320,
			MinHeight: 240,
			Lazy:      true,
			VSync:     true,
		},
		Render: Render{
			Backend:    "wgpu",
			MSAA:       4,
			ClearColor: []float64{c.R, c.G, c.B},
		},
		Shaders: Shaders{
			Dir:            "shaders",
			ReloadInterval: 60,
			Validate:       true,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads a TOML file over the defaults. Keys absent from the file keep their default and
// unknown keys are an error.
//
// Parameters:
//   - path: the file to read; empty returns the defaults
//
// Returns:
//   - *Config: the merged config, not yet validated
//   - error: an error if the file cannot be read or parsed
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("config %s: %s", path, strict.String())
		}
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config as TOML.
//
// Parameters:
//   - path: the destination file
//
// Returns:
//   - error: an error if encoding or writing fails
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks every setting and reports all problems at once.
//
// Returns:
//   - error: a joined error, or nil
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.MinWidth <= 0 || c.Window.MinHeight <= 0 {
		errs = append(errs, fmt.Errorf("window minimum %dx%d must be positive", c.Window.MinWidth, c.Window.MinHeight))
	}
	if c.Window.MaxWidth < 0 || (c.Window.MaxWidth > 0 && c.Window.MaxWidth < c.Window.MinWidth) {
		errs = append(errs, fmt.Errorf("window.max_width %d: want 0 or at least min_width %d", c.Window.MaxWidth, c.Window.MinWidth))
	}
	if c.Window.MaxHeight < 0 || (c.Window.MaxHeight > 0 && c.Window.MaxHeight < c.Window.MinHeight) {
		errs = append(errs, fmt.Errorf("window.max_height %d: want 0 or at least min_height %d", c.Window.MaxHeight, c.Window.MinHeight))
	}
	if !slices.Contains([]string{"wgpu", "gl"}, c.Render.Backend) {
		errs = append(errs, fmt.Errorf("render.backend %q: want wgpu or gl", c.Render.Backend))
	}
	if c.Render.MSAA != 1 && c.Render.MSAA != 4 {
		errs = append(errs, fmt.Errorf("render.msaa %d: want 1 or 4", c.Render.MSAA))
	}
	if _, err := common.ColorFromSlice(c.Render.ClearColor); err != nil {
		errs = append(errs, fmt.Errorf("render.clear_color: %w", err))
	}
	if c.Shaders.Dir == "" {
		errs = append(errs, errors.New("shaders.dir must not be empty"))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	schema := parameter.DefaultSchema()
	for _, name := range c.Animate {
		i := slices.IndexFunc(schema, func(f parameter.Field) bool { return f.Name == name })
		switch {
		case i < 0:
			errs = append(errs, fmt.Errorf("animate: unknown parameter %q", name))
		case schema[i].Animation == nil:
			errs = append(errs, fmt.Errorf("animate: parameter %q has no animation", name))
		}
	}
	return errors.Join(errs...)
}

// LogLevel parses Log.Level.
//
// Returns:
//   - slog.Level: the level
//   - error: an error for names other than debug, info, warn and error
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.Log.Level))); err != nil {
		return 0, fmt.Errorf("log.level %q: want debug, info, warn or error", c.Log.Level)
	}
	return level, nil
}

// ClearColor returns Render.ClearColor as a color, falling back to the default when invalid.
func (c *Config) ClearColor() common.Color {
	color, err := common.ColorFromSlice(c.Render.ClearColor)
	if err != nil {
		return common.DefaultClearColor
	}
	return color
}
