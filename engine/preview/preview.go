// Package preview renders rig frames on the CPU, so poses can be inspected and compared without
// a GPU, and encodes the result as WebP.
package preview

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/mesh"
	"github.com/Carmen-Shannon/oxy-rig/engine/module"
)

const (
	nearPlane = .05
	farPlane  = 100
)

type renderer struct {
	width, height int
	supersample   int
	background    color.RGBA
	light         common.Vec3
	ambient       float32
	colors        map[int]common.Vec3

	floor     *image.RGBA
	floorSize float32
	floorTile float32
}

// Renderer draws the instanced primitives of a frame with a z-buffer and flat Lambert shading.
type Renderer interface {
	// Render draws frame using the geometry in desc, seen through frame.Camera.
	//
	// Parameters:
	//   - desc: the geometry returned by Setup
	//   - frame: the frame to draw
	//
	// Returns:
	//   - *image.RGBA: the rendered image
	Render(desc module.DrawDescriptor, frame module.Frame) *image.RGBA

	// Size returns the output size in pixels.
	Size() (width, height int)
}

var _ Renderer = &renderer{}

// NewRenderer creates a software renderer.
//
// Parameters:
//   - options: renderer options
//
// Returns:
//   - Renderer: the renderer
func NewRenderer(options ...RendererBuilderOption) Renderer {
	r := &renderer{
		width:       512,
		height:      512,
		supersample: 1,
		background:  color.RGBA{R: 40, G: 44, B: 52, A: 255},
		light:       common.V3(.4, 1, .3).Normalize(),
		ambient:     .3,
		colors: map[int]common.Vec3{
			mesh.PrimitiveCube:    common.V3(.6, .6, .65),
			mesh.PrimitiveSegment: common.V3(.85, .78, .7),
			mesh.PrimitiveSphere:  common.V3(.9, .4, .3),
		},
		floorSize: 6,
		floorTile: 1,
	}
	for _, opt := range options {
		opt(r)
	}
	if r.supersample < 1 {
		r.supersample = 1
	}
	return r
}

func (r *renderer) Size() (int, int) {
	return r.width, r.height
}

func (r *renderer) Render(desc module.DrawDescriptor, frame module.Frame) *image.RGBA {
	w, h := r.width*r.supersample, r.height*r.supersample
	fb := NewFrameBuffer(w, h, r.background)

	cam := frame.Camera
	if cam.Focal == 0 {
		cam = module.OrbitCamera(frame.Time)
	}
	var vp [16]float32
	common.ViewProjection(vp[:], cam.Eye, cam.Target, cam.Focal, float32(w)/float32(h), nearPlane, farPlane)

	if r.floor != nil {
		r.drawFloor(fb, vp[:])
	}

	buf := &mesh.Buffer{Vertices: desc.Vertices, Indices: desc.Indices}
	commands := frame.Commands
	if len(commands) == 0 {
		commands = desc.Commands
	}
	for ci, cmd := range commands {
		if cmd.InstanceCount == 0 || cmd.IndexCount == 0 {
			continue
		}
		col, ok := r.colors[ci]
		if !ok {
			col = common.V3(.8, .8, .8)
		}
		verts, indices := buf.Primitive(cmd)
		world := make([]common.Vec3, len(verts))
		end := min(int(cmd.BaseInstance+cmd.InstanceCount), len(frame.Instances))
		for ii := int(cmd.BaseInstance); ii < end; ii++ {
			inst := frame.Instances[ii]
			scale := common.V3(inst.Scale[0], inst.Scale[1], inst.Scale[2])
			pos := common.V3(inst.Position[0], inst.Position[1], inst.Position[2])
			rot := common.Mat3{
				{inst.Rotation[0], inst.Rotation[1], inst.Rotation[2]},
				{inst.Rotation[3], inst.Rotation[4], inst.Rotation[5]},
				{inst.Rotation[6], inst.Rotation[7], inst.Rotation[8]},
			}
			for vi, v := range verts {
				world[vi] = common.V3(v.Position[0], v.Position[1], v.Position[2]).Mul(scale).MulMat(rot).Add(pos)
			}
			for ti := 0; ti+2 < len(indices); ti += 3 {
				r.drawTriangle(fb, vp[:], cam.Eye, world[indices[ti]], world[indices[ti+1]], world[indices[ti+2]], col, nil, [3][2]float32{})
			}
		}
	}

	img := fb.Image()
	if r.supersample == 1 {
		return img
	}
	out := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), draw.Src, nil)
	return out
}

// drawTriangle shades a world-space triangle and rasterizes it. Back faces and triangles
// crossing the near plane are skipped.
func (r *renderer) drawTriangle(fb *FrameBuffer, vp []float32, eye, p0, p1, p2, col common.Vec3, tex *image.RGBA, uv [3][2]float32) {
	n := p1.Sub(p0).Cross(p2.Sub(p1))
	if n.Dot(p0.Sub(eye)) >= 0 {
		return
	}
	n = n.Normalize()
	shade := r.ambient + (1-r.ambient)*max(n.Dot(r.light), 0)

	var sv [3]screenVertex
	for i, p := range [3]common.Vec3{p0, p1, p2} {
		x, y, z, w := common.TransformPoint(vp, p)
		if w < nearPlane {
			return
		}
		inv := 1 / w
		sv[i] = screenVertex{
			x:    (x*inv*.5 + .5) * float32(fb.Width),
			y:    (.5 - y*inv*.5) * float32(fb.Height),
			z:    z * inv,
			invW: inv,
			u:    uv[i][0],
			v:    uv[i][1],
		}
	}
	rasterizeTriangle(fb, sv[0], sv[1], sv[2], col.X*shade, col.Y*shade, col.Z*shade, tex)
}

// drawFloor draws the textured ground plane at y = 0 as a grid of cells, so cells behind the
// camera can be dropped without clipping.
func (r *renderer) drawFloor(fb *FrameBuffer, vp []float32) {
	const cells = 24
	step := 2 * r.floorSize / cells
	eye := common.V3(0, 1e6, 0)
	white := common.V3(1, 1, 1)
	for j := 0; j < cells; j++ {
		for i := 0; i < cells; i++ {
			x0 := -r.floorSize + float32(i)*step
			z0 := -r.floorSize + float32(j)*step
			x1, z1 := x0+step, z0+step
			uv := func(x, z float32) [2]float32 {
				return [2]float32{x / r.floorTile, z / r.floorTile}
			}
			a, b := common.V3(x0, 0, z0), common.V3(x0, 0, z1)
			c, d := common.V3(x1, 0, z1), common.V3(x1, 0, z0)
			r.drawTriangle(fb, vp, eye, a, b, c, white, r.floor, [3][2]float32{uv(x0, z0), uv(x0, z1), uv(x1, z1)})
			r.drawTriangle(fb, vp, eye, a, c, d, white, r.floor, [3][2]float32{uv(x0, z0), uv(x1, z1), uv(x1, z0)})
		}
	}
}

// Luminance returns the mean luma of img in [0, 1], a cheap summary for comparing renders.
func Luminance(img *image.RGBA) float32 {
	var sum float32
	n := 0
	for i := 0; i+3 < len(img.Pix); i += 4 {
		sum += .2126*float32(img.Pix[i]) + .7152*float32(img.Pix[i+1]) + .0722*float32(img.Pix[i+2])
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float32(n) / 255
}
