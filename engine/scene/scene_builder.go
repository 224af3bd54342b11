package scene

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithPaused starts the scene with its clock stopped.
func WithPaused(paused bool) SceneBuilderOption {
	return func(s *scene) {
		s.paused = paused
	}
}

// WithSpeed sets the clock multiplier applied to every Update's delta time.
// Negative values are clamped to 0.
//
// Parameters:
//   - speed: the clock multiplier (default 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSpeed(speed float32) SceneBuilderOption {
	return func(s *scene) {
		s.speed = max(speed, 0)
	}
}

// WithStartTime sets the module time the clock starts from.
func WithStartTime(t float32) SceneBuilderOption {
	return func(s *scene) {
		s.clock = t
	}
}

// WithCullingDisabled stops the scene from handing the camera frustum to the module,
// so every crowd rig is evaluated regardless of visibility.
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCullingDisabled() SceneBuilderOption {
	return func(s *scene) {
		s.cull = false
	}
}

// WithBackFaceCulling enables back-face culling on the rig pipeline.
// It only takes effect for the first scene that registers the pipeline on a renderer.
func WithBackFaceCulling(enabled bool) SceneBuilderOption {
	return func(s *scene) {
		s.cullBackFaces = enabled
	}
}
