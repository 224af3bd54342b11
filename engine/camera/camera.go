package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-rig/common"
)

type cameraImpl struct {
	mu *sync.Mutex

	aspect float32
	near   float32
	far    float32

	position             common.Vec3
	viewProjectionMatrix [16]float32
	frustum              common.Frustum

	controller CameraController
}

// Camera holds the projection settings and computes the view-projection matrix from an
// attached CameraController each frame via Update().
type Camera interface {
	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// SetAspect sets the aspect ratio and recomputes the matrices.
	//
	// Parameters:
	//   - aspect: the new aspect ratio
	SetAspect(aspect float32)

	// Controller returns the attached controller, or nil.
	Controller() CameraController

	// SetController attaches a controller. Matrices refresh on the next Update.
	//
	// Parameters:
	//   - ctrl: the controller supplying position, target and focal length
	SetController(ctrl CameraController)

	// Update recomputes the matrices from the controller. No-op without a controller.
	Update()

	// Position returns the eye position used by the last Update.
	Position() common.Vec3

	// ViewProjectionMatrix returns the column-major projection * view matrix.
	ViewProjectionMatrix() [16]float32

	// Frustum returns the view frustum extracted from the last Update.
	Frustum() common.Frustum

	// Uniform returns the GPU camera record for the last Update.
	Uniform() GPUCameraUniform
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with default perspective settings.
// A controller must be attached via SetController or WithController before
// position and target data is available.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:                   &sync.Mutex{},
		aspect:               1.0,
		near:                 0.05,
		far:                  200.0,
		viewProjectionMatrix: [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if aspect <= 0 {
		return
	}
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

func (c *cameraImpl) Position() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Frustum() common.Frustum {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frustum
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUCameraUniform{
		ViewProj:       c.viewProjectionMatrix,
		CameraPosition: c.position.Array(),
	}
}

// updateMatrices recalculates the view-projection matrix and frustum from the controller.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	if c.controller == nil {
		return
	}
	c.position = c.controller.Position()
	common.ViewProjection(c.viewProjectionMatrix[:],
		c.position, c.controller.Target(), c.controller.Focal(),
		c.aspect, c.near, c.far,
	)
	c.frustum = common.ExtractFrustumFromMatrix(c.viewProjectionMatrix[:])
}
