package main

import (
	"log"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/camera"
)

// Input tuning for the windowed host.
const (
	speedStep   = 1.25
	maxSpeed    = 8
	orbitPerPx  = .005
	zoomPerStep = 1
)

// playback is the part of a scene the keyboard controls.
type playback interface {
	Paused() bool
	SetPaused(paused bool)
	Speed() float32
	SetSpeed(speed float32)
}

// controls maps window input onto scene playback and the follow camera.
type controls struct {
	playback playback
	camera   camera.FollowController
	reload   func() error
}

// handleKey applies one key press:
// space toggles pause, - and = change speed, R reloads the settings file and C resets the camera.
func (c *controls) handleKey(code uint32) {
	switch code {
	case common.KeySpace:
		c.playback.SetPaused(!c.playback.Paused())
	case common.KeyEqual:
		c.playback.SetSpeed(min(c.playback.Speed()*speedStep, maxSpeed))
	case common.KeyMinus:
		c.playback.SetSpeed(c.playback.Speed() / speedStep)
	case common.KeyR:
		if c.reload == nil {
			return
		}
		if err := c.reload(); err != nil {
			log.Printf("[Config] reload rejected: %v", err)
		}
	case common.KeyC:
		if c.camera != nil {
			c.camera.Reset()
		}
	}
}

func (c *controls) handleScroll(delta float32) {
	if c.camera != nil {
		c.camera.Zoom(delta * zoomPerStep)
	}
}

func (c *controls) handleDrag(dx, dy float32) {
	if c.camera != nil {
		c.camera.Orbit(-dx*orbitPerPx, dy*orbitPerPx)
	}
}
