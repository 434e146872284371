package config

import (
	"fmt"
	"os"

	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
	"gopkg.in/yaml.v2"
)

// Config represents the main configuration
type Config struct {
	Window      WindowConfig      `yaml:"window"`
	Render      RenderConfig      `yaml:"render"`
	Environment EnvironmentConfig `yaml:"environment"`
	Scene       string            `yaml:"scene"`      // Built-in scene name or path to a YAML or PBRT scene
	Iterations  int               `yaml:"iterations"` // Passes to run; 0 runs until the sample budget
	Output      string            `yaml:"output"`     // Output directory for rendered images
}

// WindowConfig is the size of the displayed image
type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// RenderConfig mirrors renderer.Settings
type RenderConfig struct {
	MaxBounces       int  `yaml:"max_bounces"`
	MaxPathsPerPixel int  `yaml:"max_paths_per_pixel"`
	Subsampling      int  `yaml:"subsampling"`
	Refraction       bool `yaml:"refraction"`
	NumWorkers       int  `yaml:"num_workers"`
	TileSize         int  `yaml:"tile_size"`
}

// EnvironmentConfig overrides the scene's environment with an image
type EnvironmentConfig struct {
	File       string  `yaml:"file"`
	Multiplier float64 `yaml:"multiplier"`
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	settings := renderer.DefaultSettings()
	return &Config{
		Window: WindowConfig{
			Width:  400,
			Height: 300,
		},
		Render: RenderConfig{
			MaxBounces:       settings.MaxBounces,
			MaxPathsPerPixel: 64,
			Subsampling:      settings.Subsampling,
			Refraction:       settings.Refraction,
			NumWorkers:       settings.NumWorkers,
			TileSize:         settings.TileSize,
		},
		Environment: EnvironmentConfig{
			Multiplier: 1.0,
		},
		Scene:      "default",
		Iterations: 0,
		Output:     "output",
	}
}

// LoadConfig reads a YAML file over the defaults and validates the result
func LoadConfig(filePath string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	if err := yaml.UnmarshalStrict(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config %s: %w", filePath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filePath, err)
	}
	return config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, filePath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error serializing config: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// Settings converts the render section to renderer settings
func (c *Config) Settings() renderer.Settings {
	return renderer.Settings{
		MaxBounces:       c.Render.MaxBounces,
		MaxPathsPerPixel: c.Render.MaxPathsPerPixel,
		Subsampling:      c.Render.Subsampling,
		Refraction:       c.Render.Refraction,
		NumWorkers:       c.Render.NumWorkers,
		TileSize:         c.Render.TileSize,
	}
}

// Validate checks the window size, render settings and iteration count
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if err := c.Settings().Validate(); err != nil {
		return err
	}
	if sub := c.Render.Subsampling; c.Window.Width/sub < 1 || c.Window.Height/sub < 1 {
		return fmt.Errorf("subsampling %d leaves no pixels at %dx%d", sub, c.Window.Width, c.Window.Height)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("iterations must be >= 0, got %d", c.Iterations)
	}
	if c.Environment.File != "" && c.Environment.Multiplier < 0 {
		return fmt.Errorf("environment multiplier must be >= 0, got %g", c.Environment.Multiplier)
	}
	if c.Scene == "" {
		return fmt.Errorf("scene must not be empty")
	}
	return nil
}
