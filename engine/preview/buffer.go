package preview

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
)

// FrameBuffer is the software render target, kept as flat slices.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, len = W*H*4
	Depth  []float32 // NDC depth per pixel, len = W*H, cleared to +inf
}

// NewFrameBuffer allocates a buffer cleared to bg.
func NewFrameBuffer(w, h int, bg color.RGBA) *FrameBuffer {
	fb := &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, w*h*4),
		Depth:  make([]float32, w*h),
	}
	fb.Clear(bg)
	return fb
}

// Clear resets every pixel to bg and every depth to +inf.
func (fb *FrameBuffer) Clear(bg color.RGBA) {
	inf := math32.Inf(1)
	for i := range fb.Depth {
		fb.Depth[i] = inf
		fb.Color[i*4] = bg.R
		fb.Color[i*4+1] = bg.G
		fb.Color[i*4+2] = bg.B
		fb.Color[i*4+3] = bg.A
	}
}

// Image copies the color buffer into a new RGBA image.
func (fb *FrameBuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)
	return img
}
