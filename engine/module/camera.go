package module

import (
	"github.com/chewxy/math32"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/config"
)

// Orbit is the slow swinging camera of the IK rig scene described by c. It looks at
// (0, TargetHeight, 0) from Distance units away, raised by Height, at an angle around Y of
// Angle + sin(t*SwingSpeed)*Swing.
func Orbit(c config.Camera, t float32) Camera {
	ta := common.V3(0, c.TargetHeight, 0)
	m := math32.Sin(t*c.SwingSpeed)*c.Swing + c.Angle
	ro := ta.Add(common.V3(math32.Sin(m), c.Height, math32.Cos(m)).Scale(c.Distance))
	return Camera{Eye: ro, Target: ta, Focal: c.Focal}
}

// OrbitCamera is Orbit with the default camera settings: it looks at (0, 1, 0) from 1.5 units
// away, swinging around Y by sin(3t)*0.17 about an angle of 1.2 radians.
func OrbitCamera(t float32) Camera {
	return Orbit(config.Default().Camera, t)
}

// CrowdCamera frames a crowd of the given grid extent, orbiting slowly around it.
//
// Parameters:
//   - t: time in seconds
//   - extent: half width of the crowd grid
//
// Returns:
//   - Camera: the camera for this frame
func CrowdCamera(t, extent float32) Camera {
	if extent <= 0 {
		return OrbitCamera(t)
	}
	ta := common.V3(0, 1, 0)
	m := t * .1
	dist := extent*2 + 2
	ro := ta.Add(common.V3(math32.Sin(m), .6, math32.Cos(m)).Scale(dist))
	return Camera{Eye: ro, Target: ta, Focal: 1.2}
}
