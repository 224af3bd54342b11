package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-rig/engine/config"
	"github.com/Carmen-Shannon/oxy-rig/engine/scene"
	"github.com/Carmen-Shannon/oxy-rig/engine/window"
)

// EngineBuilderOption configures an engine during NewEngine.
type EngineBuilderOption func(*engine)

// WithSettings applies the loop timing and profiling of a [window] settings section.
//
// Parameters:
//   - cfg: the window settings
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSettings(cfg config.Window) EngineBuilderOption {
	return func(e *engine) {
		WithTickRate(cfg.TickRate)(e)
		WithRenderFrameLimit(cfg.FrameLimit)(e)
		e.profilingEnabled = cfg.Profiling
	}
}

// WithProfiling logs tick and frame timings once per second when enabled.
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets how many times per second every active scene's module is updated.
// Values <= 0 select 60Hz.
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Second / time.Duration(fps)
	}
}

// WithWindow hands the engine an already opened window.
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithScene registers a scene at key. Scenes render in ascending key order.
//
// Parameters:
//   - key: the draw order, lower first
//   - s: the scene
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(key int, s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scenes[key] = s
	}
}

// WithRenderFrameLimit caps the render loop at fps frames per second; 0 leaves it uncapped.
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Second / time.Duration(fps)
	}
}
