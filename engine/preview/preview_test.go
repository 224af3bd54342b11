package preview

import (
	"bytes"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/HugoSmits86/nativewebp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-rig/engine/module"
)

var bg = color.RGBA{R: 1, G: 2, B: 3, A: 255}

func rigFrame(t *testing.T) (module.DrawDescriptor, module.Frame) {
	t.Helper()
	m := module.NewIKRigModule()
	t.Cleanup(m.Close)
	desc, err := m.Setup()
	require.NoError(t, err)
	f, err := m.Update(.4)
	require.NoError(t, err)
	return desc, f
}

func covered(img *image.RGBA) int {
	n := 0
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] != bg.R || img.Pix[i+1] != bg.G || img.Pix[i+2] != bg.B {
			n++
		}
	}
	return n
}

func TestRenderDrawsRig(t *testing.T) {
	desc, f := rigFrame(t)
	r := NewRenderer(WithSize(64, 64), WithBackground(bg))

	img := r.Render(desc, f)
	require.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds())
	assert.Greater(t, covered(img), 64*64/20)
	assert.Equal(t, img.Pix, r.Render(desc, f).Pix)
}

func TestRenderEmptyFrame(t *testing.T) {
	desc, f := rigFrame(t)
	f.Instances = nil
	for i := range f.Commands {
		f.Commands[i].InstanceCount = 0
	}

	img := NewRenderer(WithSize(32, 32), WithBackground(bg)).Render(desc, f)
	assert.Zero(t, covered(img))

	floor, err := LoadFloor("", 16)
	require.NoError(t, err)
	img = NewRenderer(WithSize(32, 32), WithBackground(bg), WithFloor(floor, 4, 1)).Render(desc, f)
	assert.Greater(t, covered(img), 0)
}

func TestSupersample(t *testing.T) {
	desc, f := rigFrame(t)
	r := NewRenderer(WithSize(40, 30), WithSupersample(2), WithBackground(bg))
	w, h := r.Size()
	assert.Equal(t, 40, w)
	assert.Equal(t, 30, h)

	img := r.Render(desc, f)
	assert.Equal(t, image.Rect(0, 0, 40, 30), img.Bounds())
	assert.Greater(t, Luminance(img), Luminance(NewFrameBuffer(40, 30, bg).Image()))
}

func TestEncodeWebP(t *testing.T) {
	desc, f := rigFrame(t)
	img := NewRenderer(WithSize(32, 32)).Render(desc, f)

	var buf bytes.Buffer
	require.NoError(t, EncodeWebP(&buf, img))
	data := buf.Bytes()
	require.Greater(t, len(data), 12)
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WEBP", string(data[8:12]))

	decoded, err := nativewebp.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
	r1, g1, b1, _ := img.At(16, 16).RGBA()
	r2, g2, b2, _ := decoded.At(16, 16).RGBA()
	assert.Equal(t, [3]uint32{r1, g1, b1}, [3]uint32{r2, g2, b2})

	path := filepath.Join(t.TempDir(), "frame.webp")
	require.NoError(t, SaveWebP(path, img))
}

func TestLoadFloor(t *testing.T) {
	img, err := LoadFloor("", 8)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), img.Bounds())
	assert.NotEqual(t, img.RGBAAt(0, 0), img.RGBAAt(4, 0))

	_, err = LoadFloor(filepath.Join(t.TempDir(), "missing.tga"), 8)
	assert.Error(t, err)
}

func TestLuminance(t *testing.T) {
	white := NewFrameBuffer(4, 4, color.RGBA{255, 255, 255, 255}).Image()
	black := NewFrameBuffer(4, 4, color.RGBA{0, 0, 0, 255}).Image()
	assert.InDelta(t, 1, Luminance(white), 1e-5)
	assert.Zero(t, Luminance(black))
}
