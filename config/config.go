// Package config holds the renderer settings and their TOML file overlay.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Window settings.
type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	VSync  bool   `toml:"vsync"`
}

// Scene settings.
type Scene struct {
	Seed          int64   `toml:"seed"`
	BloomPasses   int     `toml:"bloom_passes"`
	Exposure      float32 `toml:"exposure"`
	BloomStrength float32 `toml:"bloom_strength"`
	RainDrops     int     `toml:"rain_drops"`
}

// Camera settings.
type Camera struct {
	Interactive      bool    `toml:"interactive"`
	MouseSensitivity float32 `toml:"mouse_sensitivity"`
	ZoomSpeed        float32 `toml:"zoom_speed"`
	InvertY          bool    `toml:"invert_y"`
}

// Log settings.
type Log struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
	Console     bool   `toml:"console"`
}

// Config is the full settings tree.
type Config struct {
	Window Window `toml:"window"`
	Scene  Scene  `toml:"scene"`
	Camera Camera `toml:"camera"`
	Log    Log    `toml:"log"`

	// Workers bounds the shader loading pool.
	Workers int `toml:"workers"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Window: Window{
			Title:  "Neon City Chess",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Scene: Scene{
			Seed:          3441,
			BloomPasses:   10,
			Exposure:      1.08,
			BloomStrength: 1.24,
			RainDrops:     320,
		},
		Camera: Camera{
			MouseSensitivity: 0.25,
			ZoomSpeed:        0.8,
		},
		Log: Log{
			Level:   "info",
			Console: true,
		},
		Workers: 4,
	}
}

// Load overlays the TOML file at path onto Default. A missing file yields the defaults.
//
// Parameters:
//   - path: the settings file, may be empty
//
// Returns:
//   - Config: the merged settings
//   - error: an error if the file exists but cannot be read or decoded
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Decode(data, cfg)
}

// Decode overlays TOML data onto base. Keys absent from data keep their base values.
func Decode(data []byte, base Config) (Config, error) {
	if err := toml.Unmarshal(data, &base); err != nil {
		return base, fmt.Errorf("config: decode: %w", err)
	}
	return base.Normalized(), nil
}

// Normalized clamps values that would otherwise break the renderer.
func (c Config) Normalized() Config {
	c.Window.Width = max(c.Window.Width, 1)
	c.Window.Height = max(c.Window.Height, 1)
	c.Scene.BloomPasses = max(c.Scene.BloomPasses, 1)
	c.Scene.RainDrops = max(c.Scene.RainDrops, 0)
	c.Workers = max(c.Workers, 1)
	return c
}

// Encode renders c as TOML.
func (c Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}
	return data, nil
}
