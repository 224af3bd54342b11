package preview

import (
	"image"

	"github.com/chewxy/math32"
)

// screenVertex is a projected vertex: pixel coordinates, NDC depth and 1/w for
// perspective-correct interpolation.
type screenVertex struct {
	x, y, z float32
	invW    float32
	u, v    float32
}

// rasterizeTriangle fills one triangle with a flat color, testing and writing depth.
// When tex is non-nil the color is modulated by the texture, sampled with perspective-correct
// UVs that wrap.
func rasterizeTriangle(fb *FrameBuffer, a, b, c screenVertex, r, g, bl float32, tex *image.RGBA) {
	minX := int(math32.Floor(min(a.x, b.x, c.x)))
	maxX := int(math32.Ceil(max(a.x, b.x, c.x)))
	minY := int(math32.Floor(min(a.y, b.y, c.y)))
	maxY := int(math32.Ceil(max(a.y, b.y, c.y)))
	minX, minY = max(minX, 0), max(minY, 0)
	maxX, maxY = min(maxX, fb.Width-1), min(maxY, fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	det := (b.y-c.y)*(a.x-c.x) + (c.x-b.x)*(a.y-c.y)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1 / det

	dy12, dx21 := b.y-c.y, c.x-b.x
	dy20, dx02 := c.y-a.y, a.x-c.x

	for sy := minY; sy <= maxY; sy++ {
		py := float32(sy) + .5 - c.y
		row := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			px := float32(sx) + .5 - c.x
			w0 := (dy12*px + dx21*py) * invDet
			w1 := (dy20*px + dx02*py) * invDet
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*a.z + w1*b.z + w2*c.z
			idx := row + sx
			if z < 0 || z > 1 || z >= fb.Depth[idx] {
				continue
			}
			fb.Depth[idx] = z

			cr, cg, cb := r, g, bl
			if tex != nil {
				iw := w0*a.invW + w1*b.invW + w2*c.invW
				u := (w0*a.u*a.invW + w1*b.u*b.invW + w2*c.u*c.invW) / iw
				v := (w0*a.v*a.invW + w1*b.v*b.invW + w2*c.v*c.invW) / iw
				tr, tg, tb := sampleNearest(tex, u, v)
				cr, cg, cb = cr*tr, cg*tg, cb*tb
			}

			o := idx * 4
			fb.Color[o] = toByte(cr)
			fb.Color[o+1] = toByte(cg)
			fb.Color[o+2] = toByte(cb)
			fb.Color[o+3] = 255
		}
	}
}

// sampleNearest returns the texel at (u, v), wrapping both coordinates, as [0, 1] floats.
func sampleNearest(tex *image.RGBA, u, v float32) (r, g, b float32) {
	bounds := tex.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	u -= math32.Floor(u)
	v -= math32.Floor(v)
	x := min(int(u*float32(w)), w-1)
	y := min(int(v*float32(h)), h-1)
	o := tex.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
	return float32(tex.Pix[o]) / 255, float32(tex.Pix[o+1]) / 255, float32(tex.Pix[o+2]) / 255
}

func toByte(f float32) uint8 {
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 255
	}
	return uint8(f*255 + .5)
}
