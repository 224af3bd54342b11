// Package config holds the on-disk settings of the rig host. Settings are stored as TOML and
// can be hot reloaded with a Watcher.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Window configures the host window.
type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	// TickRate is the module update rate in ticks per second.
	TickRate float64 `toml:"tick_rate"`
	// FrameLimit caps the render loop; 0 leaves it uncapped.
	FrameLimit float64 `toml:"frame_limit"`
	Profiling  bool    `toml:"profiling"`
	// MinWidth and MinHeight bound interactive resizing.
	MinWidth  int  `toml:"min_width"`
	MinHeight int  `toml:"min_height"`
	VSync     bool `toml:"vsync"`
	// MSAA is the sample count of the main pass: 1 or 4.
	MSAA int `toml:"msaa"`
	// Software forces the fallback adapter.
	Software bool `toml:"software"`
}

// Mesh configures the shared primitive buffer.
type Mesh struct {
	SphereResolution  int    `toml:"sphere_resolution"`
	SegmentShape      string `toml:"segment_shape"`
	SegmentResolution int    `toml:"segment_resolution"`
}

// Skin configures how bones are turned into instances.
type Skin struct {
	Thickness float32 `toml:"thickness"`
	Jitter    float32 `toml:"jitter"`
	Seed      float32 `toml:"seed"`
	// ThinAfter names the joint after which every segment is thinned; empty disables the rule.
	ThinAfter string `toml:"thin_after"`
	// ThinParent names the joint whose child segments are thinned; empty disables the rule.
	ThinParent string  `toml:"thin_parent"`
	ThinScale  float32 `toml:"thin_scale"`
	// Axis is the long axis of the segment primitive: "x", "y" or "z".
	Axis string `toml:"axis"`
}

// Animation selects and tunes the drivers applied to every rig.
type Animation struct {
	// Mode is "reach", "gait" or "both".
	Mode       string  `toml:"mode"`
	TimeScale  float32 `toml:"time_scale"`
	BobHeight  float32 `toml:"bob_height"`
	BobSpeed   float32 `toml:"bob_speed"`
	ReachScale float32 `toml:"reach_scale"`
	GaitLift   float32 `toml:"gait_lift"`
	GaitSpeed  float32 `toml:"gait_speed"`
	// GaitKeys is the foot height curve of one stride, at least four keys.
	GaitKeys []float32 `toml:"gait_keys"`
}

// Camera configures the orbit camera of a single rig.
type Camera struct {
	// TargetHeight is the height of the point the camera looks at.
	TargetHeight float32 `toml:"target_height"`
	Distance     float32 `toml:"distance"`
	Height       float32 `toml:"height"`
	// Angle is the orbit angle around Y in radians, swung by Swing*sin(t*SwingSpeed).
	Angle      float32 `toml:"angle"`
	Swing      float32 `toml:"swing"`
	SwingSpeed float32 `toml:"swing_speed"`
	Focal      float32 `toml:"focal"`
}

// Crowd configures the optional crowd of rigs. Size 1 draws a single rig.
type Crowd struct {
	Size    int     `toml:"size"`
	Columns int     `toml:"columns"`
	Spacing float32 `toml:"spacing"`
	Workers int     `toml:"workers"`
	Cull    bool    `toml:"cull"`
	// PhaseStep is the time offset between consecutive rigs.
	PhaseStep float32 `toml:"phase_step"`
	// CullRadius is the bounding sphere radius used to cull each rig.
	CullRadius float32 `toml:"cull_radius"`
}

// Gizmo toggles the debug line overlays.
type Gizmo struct {
	Skeleton bool `toml:"skeleton"`
	Targets  bool `toml:"targets"`
	Bounds   bool `toml:"bounds"`
}

// Preview configures the offline software renderer.
type Preview struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
	// Floor is an optional TGA/PNG/JPEG ground texture.
	Floor     string `toml:"floor"`
	FloorSize int    `toml:"floor_size"`
}

// Config is the root of the settings file.
type Config struct {
	Window    Window    `toml:"window"`
	Mesh      Mesh      `toml:"mesh"`
	Skin      Skin      `toml:"skin"`
	Animation Animation `toml:"animation"`
	Camera    Camera    `toml:"camera"`
	Crowd     Crowd     `toml:"crowd"`
	Gizmo     Gizmo     `toml:"gizmo"`
	Preview   Preview   `toml:"preview"`
}

// Default returns the settings that reproduce the reference IK rig scene.
func Default() Config {
	return Config{
		Window: Window{
			Title:    "oxy-rig",
			Width:    1280,
			Height:   720,
			TickRate:  60,
			MinWidth:  320,
			MinHeight: 240,
			VSync:     true,
			MSAA:      4,
		},
		Mesh: Mesh{
			SphereResolution:  10,
			SegmentShape:      "box",
			SegmentResolution: 2,
		},
		Skin: Skin{
			Thickness: .2,
			Jitter:     .1,
			Seed:       349,
			ThinAfter:  "Shoulder_R",
			ThinParent: "Neck",
			ThinScale:  .5,
			Axis:       "y",
		},
		Animation: Animation{
			Mode:       "reach",
			TimeScale:  1,
			BobHeight:  .2,
			BobSpeed:   1,
			ReachScale: .8,
			GaitLift:   .21,
			GaitSpeed:  1,
			GaitKeys:   []float32{-.2, -.2, -.1, 0, .15, .2, .15, 0, -.1, -.2, -.2},
		},
		Camera: Camera{
			TargetHeight: 1,
			Distance:     1.5,
			Height:       .5,
			Angle:        1.2,
			Swing:        .17,
			SwingSpeed:   3,
			Focal:        1.2,
		},
		Crowd: Crowd{
			Size:       1,
			Spacing:    2,
			Workers:    4,
			PhaseStep:  .37,
			CullRadius: 1.2,
		},
		Preview: Preview{
			Width:     512,
			Height:    512,
			FloorSize: 256,
		},
	}
}

// Load reads a TOML settings file over Default, so missing keys keep their default values.
//
// Parameters:
//   - path: the settings file
//
// Returns:
//   - Config: the merged and validated settings
//   - error: error if the file cannot be read, decoded or validated
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as TOML.
func (c Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// Validate checks every range the rest of the program relies on.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0, "window size %dx%d", c.Window.Width, c.Window.Height)
	check(c.Window.TickRate >= 0, "tick rate %v", c.Window.TickRate)
	check(c.Window.MinWidth >= 0 && c.Window.MinHeight >= 0, "minimum window size %dx%d", c.Window.MinWidth, c.Window.MinHeight)
	check(c.Window.MSAA == 1 || c.Window.MSAA == 4, "msaa %d, want 1 or 4", c.Window.MSAA)
	check(c.Mesh.SphereResolution >= 2 && c.Mesh.SphereResolution <= 104, "sphere resolution %d outside [2, 104]", c.Mesh.SphereResolution)
	check(c.Mesh.SegmentShape == "box" || c.Mesh.SegmentShape == "capsule", "segment shape %q", c.Mesh.SegmentShape)
	check(c.Mesh.SegmentResolution >= 2 && c.Mesh.SegmentResolution <= 104, "segment resolution %d outside [2, 104]", c.Mesh.SegmentResolution)
	check(c.Skin.Thickness > 0, "thickness %v", c.Skin.Thickness)
	check(c.Skin.Jitter >= 0, "jitter %v", c.Skin.Jitter)
	check(c.Skin.ThinScale > 0, "thin scale %v", c.Skin.ThinScale)
	switch c.Skin.Axis {
	case "x", "y", "z":
	default:
		check(false, "skin axis %q", c.Skin.Axis)
	}
	switch c.Animation.Mode {
	case "reach", "gait", "both":
	default:
		check(false, "animation mode %q", c.Animation.Mode)
	}
	check(c.Animation.ReachScale > 0, "reach scale %v", c.Animation.ReachScale)
	check(len(c.Animation.GaitKeys) >= 4, "%d gait keys, need at least 4", len(c.Animation.GaitKeys))
	check(c.Camera.Distance > 0, "camera distance %v", c.Camera.Distance)
	check(c.Camera.Focal > 0, "camera focal %v", c.Camera.Focal)
	check(c.Crowd.Size >= 1, "crowd size %d", c.Crowd.Size)
	check(c.Crowd.Columns >= 0, "crowd columns %d", c.Crowd.Columns)
	check(c.Crowd.Workers >= 1, "crowd workers %d", c.Crowd.Workers)
	check(c.Crowd.CullRadius > 0, "cull radius %v", c.Crowd.CullRadius)
	check(c.Preview.Width > 0 && c.Preview.Height > 0, "preview size %dx%d", c.Preview.Width, c.Preview.Height)
	check(c.Preview.FloorSize >= 0, "floor size %d", c.Preview.FloorSize)

	return errors.Join(errs...)
}
