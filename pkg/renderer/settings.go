package renderer

import (
	"fmt"
)

// Settings control a progressive render. They are read-only during an
// iteration; changing them goes through SetSettings, which restarts.
type Settings struct {
	MaxBounces       int  // Scattering events after the primary hit
	MaxPathsPerPixel int  // Iteration budget; 0 means unbounded
	Subsampling      int  // Render at 1/Subsampling of the window size
	Refraction       bool // Use glass/diffuse materials instead of metal/dielectric
	NumWorkers       int  // Parallel workers; 0 uses the CPU count
	TileSize         int  // Edge length of a square tile in pixels
}

// DefaultSettings returns sensible default values
func DefaultSettings() Settings {
	return Settings{
		MaxBounces:       8,
		MaxPathsPerPixel: 0,
		Subsampling:      1,
		Refraction:       false,
		NumWorkers:       0,
		TileSize:         32,
	}
}

// Validate checks that the settings describe a renderable configuration
func (s Settings) Validate() error {
	if s.MaxBounces < 0 {
		return fmt.Errorf("max bounces must be >= 0, got %d", s.MaxBounces)
	}
	if s.MaxPathsPerPixel < 0 {
		return fmt.Errorf("max paths per pixel must be >= 0, got %d", s.MaxPathsPerPixel)
	}
	if s.Subsampling < 1 {
		return fmt.Errorf("subsampling must be >= 1, got %d", s.Subsampling)
	}
	if s.NumWorkers < 0 {
		return fmt.Errorf("num workers must be >= 0, got %d", s.NumWorkers)
	}
	if s.TileSize < 1 {
		return fmt.Errorf("tile size must be >= 1, got %d", s.TileSize)
	}
	return nil
}
