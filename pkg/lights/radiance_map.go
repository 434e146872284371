package lights

import (
	"fmt"
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// RadianceMap is a linear-radiance image addressed by UV. Row 0 is the top
// of the image (v = 1); u wraps around horizontally and v clamps at the poles.
type RadianceMap struct {
	Width  int
	Height int
	Pixels []core.Vec3 // Row-major: Pixels[y*Width + x]
}

// NewRadianceMap wraps a pixel buffer, checking its size
func NewRadianceMap(width, height int, pixels []core.Vec3) (*RadianceMap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid radiance map size %dx%d", width, height)
	}
	if len(pixels) != width*height {
		return nil, fmt.Errorf("radiance map %dx%d needs %d pixels, got %d", width, height, width*height, len(pixels))
	}
	return &RadianceMap{Width: width, Height: height, Pixels: pixels}, nil
}

// NewConstantRadianceMap creates a 1x1 map of a single color
func NewConstantRadianceMap(color core.Vec3) *RadianceMap {
	return &RadianceMap{Width: 1, Height: 1, Pixels: []core.Vec3{color}}
}

// NewGradientRadianceMap creates a vertical gradient from top (v = 1) to
// bottom (v = 0). The interpolation is linear in the direction's y, so the
// sky blends the way a direction-based gradient would.
func NewGradientRadianceMap(height int, top, bottom core.Vec3) *RadianceMap {
	height = max(2, height)
	pixels := make([]core.Vec3, height)
	for y := 0; y < height; y++ {
		v := 1.0 - (float64(y)+0.5)/float64(height)
		t := 0.5 * (math.Cos((1.0-v)*math.Pi) + 1.0)
		pixels[y] = bottom.Multiply(1.0 - t).Add(top.Multiply(t))
	}
	return &RadianceMap{Width: 1, Height: height, Pixels: pixels}
}

// Sample bilinearly interpolates the four texels around (u, v)
func (m *RadianceMap) Sample(u, v float64) core.Vec3 {
	if m == nil || len(m.Pixels) == 0 {
		return core.Vec3{}
	}

	// Continuous texel coordinates with centers at integer + 0.5
	x := u*float64(m.Width) - 0.5
	y := (1.0-v)*float64(m.Height) - 0.5

	x0 := math.Floor(x)
	y0 := math.Floor(y)
	fx := x - x0
	fy := y - y0

	ix0 := wrap(int(x0), m.Width)
	ix1 := wrap(int(x0)+1, m.Width)
	iy0 := clampIndex(int(y0), m.Height)
	iy1 := clampIndex(int(y0)+1, m.Height)

	top := m.at(ix0, iy0).Multiply(1 - fx).Add(m.at(ix1, iy0).Multiply(fx))
	bottom := m.at(ix0, iy1).Multiply(1 - fx).Add(m.at(ix1, iy1).Multiply(fx))
	return top.Multiply(1 - fy).Add(bottom.Multiply(fy))
}

func (m *RadianceMap) at(x, y int) core.Vec3 {
	return m.Pixels[y*m.Width+x]
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func clampIndex(i, n int) int {
	return max(0, min(i, n-1))
}
