package window

import "github.com/Carmen-Shannon/oxy-rig/engine/config"

// WindowBuilderOption configures an engineWindow before it is opened.
type WindowBuilderOption func(w *engineWindow)

// WithSettings applies the title, size and minimum size of a [window] settings section.
//
// Parameters:
//   - cfg: the window settings
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSettings(cfg config.Window) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = cfg.Title
		w.width = cfg.Width
		w.height = cfg.Height
		w.minWidth = cfg.MinWidth
		w.minHeight = cfg.MinHeight
	}
}

// WithTitle sets the base title shown before the clock readout.
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithMinSize bounds interactive resizing. A value <= 0 leaves that dimension unbounded.
//
// Parameters:
//   - width: minimum width in pixels
//   - height: minimum height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth = width
		w.minHeight = height
	}
}

// WithSize sets the initial framebuffer size the rig view opens at.
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = width
		w.height = height
	}
}
