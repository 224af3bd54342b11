package common

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTGA writes an uncompressed 32-bit top-left origin TGA.
func writeTGA(t *testing.T, path string, w, h int, px func(x, y int) [4]uint8) {
	t.Helper()
	data := []byte{0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, byte(w), byte(w >> 8), byte(h), byte(h >> 8), 32, 0x28}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := px(x, y)
			data = append(data, c[2], c[1], c[0], c[3])
		}
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestLoadTextureTGA(t *testing.T) {
	path := filepath.Join(t.TempDir(), "floor.tga")
	writeTGA(t, path, 2, 2, func(x, y int) [4]uint8 {
		if x == 0 {
			return [4]uint8{255, 0, 0, 255}
		}
		return [4]uint8{0, 0, 255, 255}
	})

	img, err := LoadTexture(path, 0)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(0, 1))
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, img.RGBAAt(1, 0))

	scaled, err := LoadTexture(path, 8)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), scaled.Bounds())
}

func TestLoadTexturePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "floor.png")
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	src.SetRGBA(3, 1, color.RGBA{10, 20, 30, 255})
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, src))
	require.NoError(t, f.Close())

	img, err := LoadTexture(path, 0)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{10, 20, 30, 255}, img.RGBAAt(3, 1))
	assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())
	assert.Len(t, img.Pix, 4*2*4)
}

func TestLoadTextureErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadTexture(filepath.Join(dir, "missing.png"), 0)
	assert.Error(t, err)

	junk := filepath.Join(dir, "junk.png")
	require.NoError(t, os.WriteFile(junk, []byte("not an image"), 0o644))
	_, err = LoadTexture(junk, 0)
	assert.Error(t, err)
}

func TestCheckerTexture(t *testing.T) {
	a, b := [4]uint8{1, 1, 1, 255}, [4]uint8{9, 9, 9, 255}
	img := CheckerTexture(4, 2, a, b)
	assert.Equal(t, color.RGBA{1, 1, 1, 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{9, 9, 9, 255}, img.RGBAAt(2, 0))
	assert.Equal(t, color.RGBA{1, 1, 1, 255}, img.RGBAAt(3, 3))
}

func TestViewProjection(t *testing.T) {
	var vp [16]float32
	ViewProjection(vp[:], V3(0, 0, 5), V3(0, 0, 0), 1, 1, .1, 100)

	x, y, z, w := TransformPoint(vp[:], V3(0, 0, 0))
	assert.InDelta(t, 0, x/w, 1e-6)
	assert.InDelta(t, 0, y/w, 1e-6)
	assert.Greater(t, z/w, float32(0))
	assert.Less(t, z/w, float32(1))

	// focal 1 is a 90 degree field of view: (1, 0, 0) at distance 1 lands on the right edge
	ViewProjection(vp[:], V3(0, 0, 1), V3(0, 0, 0), 1, 1, .1, 100)
	x, _, _, w = TransformPoint(vp[:], V3(1, 0, 0))
	assert.InDelta(t, 1, x/w, 1e-5)
}
