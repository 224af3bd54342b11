package camera

import (
	"sync"

	"github.com/chewxy/math32"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/module"
)

// CameraController owns the positional state the Camera reads each Update.
type CameraController interface {
	// Position returns the camera's world-space position.
	Position() common.Vec3

	// Target returns the look-at point.
	Target() common.Vec3

	// Focal returns the focal length, 1/tan(fovY/2).
	Focal() float32

	// Zoom scales the eye distance from the target.
	// Positive delta zooms in (closer to target).
	//
	// Parameters:
	//   - delta: zoom amount scaled by the controller's zoom speed
	Zoom(delta float32)

	// Distance returns the current zoom factor applied to the requested eye distance.
	//
	// Returns:
	//   - float32: 1 means the module's own framing
	Distance() float32
}

// FollowController tracks the camera requested by the animation module each frame and
// applies the user's zoom on top of it.
type FollowController interface {
	CameraController

	// Follow replaces the requested camera.
	//
	// Parameters:
	//   - cam: the camera carried by the latest module frame
	Follow(cam module.Camera)

	// Orbit turns the eye around the target on top of the requested camera.
	// Pitch is clamped so the eye never passes over the poles.
	//
	// Parameters:
	//   - yaw: radians about the world Y axis
	//   - pitch: radians of elevation
	Orbit(yaw, pitch float32)

	// Reset drops the user's zoom and orbit so the module's framing shows unchanged.
	Reset()
}

// maxElevation keeps the orbited eye short of straight above or below the target.
const maxElevation = 1.45

type followController struct {
	mu *sync.Mutex

	requested module.Camera

	yaw   float32
	pitch float32

	distance    float32
	minDistance float32
	maxDistance float32
	zoomSpeed   float32
}

var _ FollowController = &followController{}

// NewFollowController creates a FollowController starting at the module's default orbit view.
//
// Returns:
//   - FollowController: the controller
func NewFollowController() FollowController {
	return &followController{
		mu:          &sync.Mutex{},
		requested:   module.OrbitCamera(0),
		distance:    1,
		minDistance: .25,
		maxDistance: 8,
		zoomSpeed:   .1,
	}
}

func (c *followController) Follow(cam module.Camera) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requested = cam
}

func (c *followController) Position() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	offset := c.requested.Eye.Sub(c.requested.Target)
	if c.yaw != 0 || c.pitch != 0 {
		offset = orbitOffset(offset, c.yaw, c.pitch)
	}
	return c.requested.Target.Add(offset.Scale(c.distance))
}

// orbitOffset rotates offset by yaw about Y and raises its elevation by pitch, keeping its length.
func orbitOffset(offset common.Vec3, yaw, pitch float32) common.Vec3 {
	r := offset.Length()
	if r == 0 {
		return offset
	}
	azimuth := math32.Atan2(offset.X, offset.Z) + yaw
	elevation := math32.Asin(max(-1, min(1, offset.Y/r))) + pitch
	elevation = max(-maxElevation, min(maxElevation, elevation))

	cosE := math32.Cos(elevation)
	return common.V3(math32.Sin(azimuth)*cosE, math32.Sin(elevation), math32.Cos(azimuth)*cosE).Scale(r)
}

func (c *followController) Target() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requested.Target
}

func (c *followController) Focal() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.requested.Focal <= 0 {
		return 1
	}
	return c.requested.Focal
}

func (c *followController) Zoom(delta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.distance *= 1 - delta*c.zoomSpeed
	c.distance = max(c.minDistance, min(c.maxDistance, c.distance))
}

func (c *followController) Orbit(yaw, pitch float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yaw += yaw
	c.pitch = max(-2*maxElevation, min(2*maxElevation, c.pitch+pitch))
}

func (c *followController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yaw, c.pitch = 0, 0
	c.distance = 1
}

func (c *followController) Distance() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.distance
}
