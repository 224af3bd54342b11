package preview

import (
	"image"
	"image/color"

	"github.com/Carmen-Shannon/oxy-rig/common"
)

// RendererBuilderOption is a functional option for configuring a Renderer.
type RendererBuilderOption func(*renderer)

// WithSize sets the output size in pixels.
func WithSize(width, height int) RendererBuilderOption {
	return func(r *renderer) {
		if width > 0 && height > 0 {
			r.width, r.height = width, height
		}
	}
}

// WithSupersample renders at n times the output size and downsamples with a Catmull-Rom filter.
func WithSupersample(n int) RendererBuilderOption {
	return func(r *renderer) {
		r.supersample = n
	}
}

// WithBackground sets the clear color.
func WithBackground(c color.RGBA) RendererBuilderOption {
	return func(r *renderer) {
		r.background = c
	}
}

// WithLight sets the direction towards the light and the ambient term.
//
// Parameters:
//   - dir: direction from the surface towards the light
//   - ambient: light reaching faces turned away, in [0, 1]
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithLight(dir common.Vec3, ambient float32) RendererBuilderOption {
	return func(r *renderer) {
		r.light = dir.Normalize()
		r.ambient = ambient
	}
}

// WithColor sets the base color of the primitive in slot primitive.
func WithColor(primitive int, c common.Vec3) RendererBuilderOption {
	return func(r *renderer) {
		r.colors[primitive] = c
	}
}

// WithFloor draws a textured ground plane at y = 0.
//
// Parameters:
//   - tex: the floor texture, repeated every tile units
//   - halfSize: half the edge length of the floor
//   - tile: world size of one texture repeat
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithFloor(tex *image.RGBA, halfSize, tile float32) RendererBuilderOption {
	return func(r *renderer) {
		r.floor = tex
		if halfSize > 0 {
			r.floorSize = halfSize
		}
		if tile > 0 {
			r.floorTile = tile
		}
	}
}
