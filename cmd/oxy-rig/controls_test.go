package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/camera"
	"github.com/Carmen-Shannon/oxy-rig/engine/module"
)

type fakePlayback struct {
	paused bool
	speed  float32
}

func (f *fakePlayback) Paused() bool           { return f.paused }
func (f *fakePlayback) SetPaused(paused bool)  { f.paused = paused }
func (f *fakePlayback) Speed() float32         { return f.speed }
func (f *fakePlayback) SetSpeed(speed float32) { f.speed = speed }

func TestControlsPlayback(t *testing.T) {
	p := &fakePlayback{speed: 1}
	c := &controls{playback: p}

	c.handleKey(common.KeySpace)
	assert.True(t, p.paused)
	c.handleKey(common.KeySpace)
	assert.False(t, p.paused)

	c.handleKey(common.KeyEqual)
	assert.InDelta(t, 1.25, p.speed, 1e-6)
	c.handleKey(common.KeyMinus)
	c.handleKey(common.KeyMinus)
	assert.InDelta(t, 0.8, p.speed, 1e-6)

	for i := 0; i < 40; i++ {
		c.handleKey(common.KeyEqual)
	}
	assert.Equal(t, float32(maxSpeed), p.speed)
}

func TestControlsReload(t *testing.T) {
	calls := 0
	c := &controls{playback: &fakePlayback{}, reload: func() error {
		calls++
		return errors.New("bad file")
	}}
	c.handleKey(common.KeyR)
	assert.Equal(t, 1, calls)

	// no reload hook and no camera must not panic
	c = &controls{playback: &fakePlayback{}}
	c.handleKey(common.KeyR)
	c.handleKey(common.KeyC)
	c.handleScroll(1)
	c.handleDrag(3, 4)
}

func TestControlsCamera(t *testing.T) {
	follow := camera.NewFollowController()
	follow.Follow(module.OrbitCamera(0))
	home := follow.Position()
	c := &controls{playback: &fakePlayback{}, camera: follow}

	c.handleScroll(2)
	assert.Less(t, follow.Distance(), float32(1))

	c.handleDrag(100, 0)
	assert.NotEqual(t, home, follow.Position())

	c.handleKey(common.KeyC)
	assert.Equal(t, home, follow.Position())
}
