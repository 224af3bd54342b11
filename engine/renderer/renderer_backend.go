package renderer

import "fmt"

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rig frames reach the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the vertical blank, capping the rig view at the refresh rate.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents immediately. Used by the crowd benchmark to measure the
	// evaluator rather than the monitor.
	PresentModeUncapped
)

// PresentModeFor maps the vsync setting of a [window] section to a present mode.
func PresentModeFor(vsync bool) PresentMode {
	if vsync {
		return PresentModeVSync
	}
	return PresentModeUncapped
}

// MSAASampleCount is the sample count of the main pass. Only the counts WebGPU guarantees on
// every adapter are accepted, so the segment and sphere pipelines never fail to build.
type MSAASampleCount uint32

const (
	// MSAAOff renders the main pass single-sampled.
	MSAAOff MSAASampleCount = 1

	// MSAA4x is the default.
	MSAA4x MSAASampleCount = 4
)

// SampleCount converts a configured sample count.
//
// Parameters:
//   - n: 1 or 4
//
// Returns:
//   - MSAASampleCount: the sample count
//   - error: non-nil for any other count
func SampleCount(n int) (MSAASampleCount, error) {
	switch n {
	case 1:
		return MSAAOff, nil
	case 4:
		return MSAA4x, nil
	}
	return MSAA4x, fmt.Errorf("unsupported msaa sample count %d", n)
}

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}
