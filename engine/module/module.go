// Package module defines the contract between the rig host and an animation module, and the IK
// rig module that implements it. The host calls Setup once (and again after Reload), then
// Update once per tick, and uploads what it receives by copy.
package module

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/config"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
)

// ErrNotSetup is returned by Update before a successful Setup.
var ErrNotSetup = errors.New("module not set up")

// DrawDescriptor describes the static geometry built by Setup and the capacity the host must
// reserve for per-frame data.
type DrawDescriptor struct {
	// Vertices and Indices are the shared primitive arrays; Commands address them.
	Vertices []model.GPUVertex
	Indices  []uint16
	Commands []model.GPUDrawCommand

	// MaxInstances is the largest instance count a Frame can carry.
	MaxInstances int
	// MaxLines is a hint for the line buffer; frames may exceed it.
	MaxLines int
}

// Camera is the view a module requests for a frame.
type Camera struct {
	Eye    common.Vec3
	Target common.Vec3
	// Focal is the focal length of the pinhole camera, 1/tan(fovY/2).
	Focal float32
}

// Frame is everything the host uploads for one tick. Every slice is owned by the Frame.
type Frame struct {
	Time      float32
	Instances []model.GPUInstance
	Commands  []model.GPUDrawCommand
	Lines     []model.GPULineVertex
	Camera    Camera
	// Reused is set when the frame is a copy of the last good frame because evaluation failed.
	Reused bool
}

// Clone returns a deep copy of f.
func (f Frame) Clone() Frame {
	out := f
	out.Instances = append([]model.GPUInstance(nil), f.Instances...)
	out.Commands = append([]model.GPUDrawCommand(nil), f.Commands...)
	out.Lines = append([]model.GPULineVertex(nil), f.Lines...)
	return out
}

// Module is an animation module driven by the host.
type Module interface {
	// Setup builds the primitive meshes and rig state.
	//
	// Returns:
	//   - DrawDescriptor: the static geometry and capacities
	//   - error: error if the configuration cannot be built
	Setup() (DrawDescriptor, error)

	// Update evaluates the module at time t.
	// When evaluation fails the last good frame is returned with Reused set, alongside the error.
	//
	// Parameters:
	//   - t: time in seconds since the host started
	//
	// Returns:
	//   - Frame: the frame to upload
	//   - error: ErrNotSetup or the evaluation error
	Update(t float32) (Frame, error)

	// Reload swaps the configuration and runs Setup again. On error the previous state is kept.
	//
	// Parameters:
	//   - cfg: the new configuration
	//
	// Returns:
	//   - DrawDescriptor: the rebuilt geometry
	//   - error: error if cfg is invalid or cannot be built
	Reload(cfg config.Config) (DrawDescriptor, error)

	// SetFrustum sets the view frustum used for crowd culling, or disables culling when nil.
	SetFrustum(f *common.Frustum)

	// Close releases the module's workers.
	Close()
}
