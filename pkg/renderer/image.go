package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"golang.org/x/image/draw"
)

// Image returns the running mean at render resolution, gamma corrected and
// clamped to 8 bits. Rows are flipped so that row 0 is the top of the image.
func (r *ProgressiveRenderer) Image() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.imageLocked()
}

func (r *ProgressiveRenderer) imageLocked() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	for y := 0; y < r.height; y++ {
		row := r.height - 1 - y
		for x := 0; x < r.width; x++ {
			p := r.buffer[row*r.width+x]
			img.SetRGBA(x, y, vec3ToColor(core.NewVec3(p[0], p[1], p[2])))
		}
	}
	return img
}

// DisplayImage returns the image scaled to width x height with bilinear
// filtering. Non-positive dimensions use the window size.
func (r *ProgressiveRenderer) DisplayImage(width, height int) *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()

	if width <= 0 || height <= 0 {
		width, height = r.windowWidth, r.windowHeight
	}

	src := r.imageLocked()
	if width == r.width && height == r.height {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// vec3ToColor converts linear radiance to a display color with gamma 2
func vec3ToColor(c core.Vec3) color.RGBA {
	if !c.IsFinite() {
		c = core.Vec3{}
	}
	c = c.Clamp(0.0, 1.0).GammaCorrect(2.0)

	return color.RGBA{
		R: uint8(math.Round(255 * c.X)),
		G: uint8(math.Round(255 * c.Y)),
		B: uint8(math.Round(255 * c.Z)),
		A: 255,
	}
}
