package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-rig/engine/config"
	"github.com/Carmen-Shannon/oxy-rig/engine/scene"
)

// stubScene only answers the calls the engine makes while ordering scenes.
type stubScene struct {
	scene.Scene
	name   string
	active bool
}

func (s *stubScene) Name() string { return s.name }
func (s *stubScene) Active() bool { return s.active }
func (s *stubScene) SetActive(a bool) { s.active = a }

func names(scenes []scene.Scene) []string {
	out := make([]string, 0, len(scenes))
	for _, s := range scenes {
		out = append(out, s.Name())
	}
	return out
}

func TestActiveScenesOrderedByKey(t *testing.T) {
	e := NewEngine(
		WithScene(5, &stubScene{name: "overlay", active: true}),
		WithScene(-1, &stubScene{name: "floor", active: true}),
	).(*engine)
	e.AddScene(2, &stubScene{name: "rig", active: true})
	e.AddScene(3, &stubScene{name: "hidden"})

	assert.Equal(t, []string{"floor", "rig", "overlay"}, names(e.activeScenes()))

	e.Scene(3).SetActive(true)
	e.RemoveScene(5)
	assert.Equal(t, []string{"floor", "rig", "hidden"}, names(e.activeScenes()))
	assert.Nil(t, e.Scene(5))
}

func TestScenesReturnsCopy(t *testing.T) {
	e := NewEngine(WithScene(0, &stubScene{name: "rig", active: true}))
	cp := e.Scenes()
	delete(cp, 0)
	require.Len(t, e.Scenes(), 1)
	assert.Equal(t, "rig", e.Scene(0).Name())
}

func TestTickRate(t *testing.T) {
	e := NewEngine(WithTickRate(120)).(*engine)
	assert.Equal(t, time.Second/120, e.engineTickRate)

	e.SetTickRate(0)
	assert.Equal(t, time.Second/60, e.engineTickRate)
}

func TestTickRateWhileRunning(t *testing.T) {
	e := NewEngine().(*engine)
	e.running = true

	e.SetTickRate(30)
	e.SetTickRate(90)
	require.Len(t, e.tickRateChannel, 1)
	assert.Equal(t, time.Second/90, <-e.tickRateChannel)
}

func TestRenderFrameLimit(t *testing.T) {
	e := NewEngine(WithRenderFrameLimit(50)).(*engine)
	assert.Equal(t, 20*time.Millisecond, e.renderFrameLimit)

	e.SetRenderFrameLimit(-1)
	assert.Zero(t, e.renderFrameLimit)
}

func TestProfilerToggle(t *testing.T) {
	e := NewEngine(WithProfiling(true)).(*engine)
	assert.True(t, e.profilingEnabled)
	e.DisableProfiler()
	assert.False(t, e.profilingEnabled)
	e.EnableProfiler()
	assert.True(t, e.profilingEnabled)
}

func TestQuitIsIdempotent(t *testing.T) {
	e := NewEngine()
	assert.NotPanics(t, func() {
		e.Quit()
		e.Quit()
	})
}

func TestWithSettings(t *testing.T) {
	cfg := config.Default().Window
	cfg.TickRate = 30
	cfg.FrameLimit = 100
	cfg.Profiling = true

	e := NewEngine(WithSettings(cfg)).(*engine)
	assert.Equal(t, time.Second/30, e.engineTickRate)
	assert.Equal(t, 10*time.Millisecond, e.renderFrameLimit)
	assert.True(t, e.profilingEnabled)
}
