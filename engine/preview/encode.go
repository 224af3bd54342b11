package preview

import (
	"fmt"
	"image"
	"io"
	"log"
	"os"

	"github.com/HugoSmits86/nativewebp"

	"github.com/Carmen-Shannon/oxy-rig/common"
)

// EncodeWebP writes img to w as lossless WebP.
func EncodeWebP(w io.Writer, img image.Image) error {
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("failed to encode webp: %w", err)
	}
	return nil
}

// SaveWebP writes img to path as lossless WebP.
//
// Parameters:
//   - path: the output file
//   - img: the image to encode
//
// Returns:
//   - error: error if the file cannot be created or encoded
func SaveWebP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := EncodeWebP(f, img); err != nil {
		return err
	}
	log.Printf("[Preview] wrote %s (%dx%d)", path, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}

// LoadFloor loads a floor texture resampled to size×size, or a checkerboard when path is empty.
//
// Parameters:
//   - path: TGA, PNG or JPEG file, or "" for the checkerboard
//   - size: texture edge length in pixels
//
// Returns:
//   - *image.RGBA: the texture
//   - error: error if the file cannot be loaded
func LoadFloor(path string, size int) (*image.RGBA, error) {
	if size <= 0 {
		size = 256
	}
	if path == "" {
		return common.CheckerTexture(size, size/2, [4]uint8{180, 180, 180, 255}, [4]uint8{120, 120, 120, 255}), nil
	}
	return common.LoadTexture(path, size)
}
