// package common contains the math, image and input helpers shared across the engine. They are plain functions and structs
// rather than interface-wrapped types.
package common

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
)

// LoadTexture decodes an image file (TGA, PNG or JPEG) into RGBA pixels.
// When size is non-zero the image is resampled to size×size with a Catmull-Rom filter,
// which keeps floor textures a power of two regardless of the source asset.
//
// Parameters:
//   - path: the image file on disk
//   - size: target edge length in pixels, or 0 to keep the source dimensions
//
// Returns:
//   - *image.RGBA: the decoded (and optionally resampled) image
//   - error: error if the file cannot be opened or decoded
func LoadTexture(path string, size int) (*image.RGBA, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file %s: %w", path, err)
	}
	defer file.Close()

	src, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture file %s: %w", path, err)
	}

	bounds := src.Bounds()
	if size > 0 {
		bounds = image.Rect(0, 0, size, size)
	}
	dst := image.NewRGBA(bounds)
	if size > 0 {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	} else {
		draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	}
	return dst, nil
}

// CheckerTexture builds a two-tone size×size checkerboard used when no floor texture is configured.
func CheckerTexture(size, cell int, a, b [4]uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	if cell <= 0 {
		cell = 1
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			o := img.PixOffset(x, y)
			copy(img.Pix[o:o+4], c[:])
		}
	}
	return img
}
