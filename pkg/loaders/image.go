package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"math"
	"os"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/lights"
	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder
)

// ImageData contains loaded image data as a Vec3 color array, row 0 at the top
type ImageData struct {
	Width  int
	Height int
	Format string // Decoder that read the file
	Pixels []core.Vec3
}

// LoadImage loads a PNG, JPEG, BMP, TIFF or WebP image with channels in [0, 1]
func LoadImage(filename string) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	data, err := DecodeImage(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// DecodeImage decodes any registered image format from r
func DecodeImage(r io.Reader) (*ImageData, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535]
			pixels[y*width+x] = core.NewVec3(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			)
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Format: format,
		Pixels: pixels,
	}, nil
}

// Linearize converts sRGB encoded pixels to linear radiance in place
func (d *ImageData) Linearize() {
	for i, p := range d.Pixels {
		d.Pixels[i] = core.NewVec3(srgbToLinear(p.X), srgbToLinear(p.Y), srgbToLinear(p.Z))
	}
}

// RadianceMap wraps the pixels as an equirectangular radiance map
func (d *ImageData) RadianceMap() (*lights.RadianceMap, error) {
	return lights.NewRadianceMap(d.Width, d.Height, d.Pixels)
}

// LoadEnvironment loads an sRGB image as an environment scaled by multiplier
func LoadEnvironment(filename string, multiplier float64) (*lights.Environment, error) {
	data, err := LoadImage(filename)
	if err != nil {
		return nil, err
	}
	data.Linearize()

	radianceMap, err := data.RadianceMap()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return lights.NewEnvironment(radianceMap, multiplier), nil
}

func srgbToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}
