package module

import (
	"github.com/Carmen-Shannon/oxy-rig/engine/config"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
)

// ModuleBuilderOption is a functional option for configuring the IK rig module.
type ModuleBuilderOption func(*ikRigModule)

// WithConfig sets the configuration Setup builds from.
//
// Parameters:
//   - cfg: the configuration
//
// Returns:
//   - ModuleBuilderOption: option function to apply
func WithConfig(cfg config.Config) ModuleBuilderOption {
	return func(m *ikRigModule) {
		m.cfg = cfg
	}
}

// WithSkeleton replaces the humanoid skeleton.
// Custom drivers are usually needed as well, since the default ones address humanoid joints.
func WithSkeleton(s rig.Skeleton) ModuleBuilderOption {
	return func(m *ikRigModule) {
		m.skeleton = s
	}
}

// WithDrivers replaces the driver factory. It is called once per rig at Setup and Reload.
func WithDrivers(drivers func(cfg config.Config, i int) []rig.Driver) ModuleBuilderOption {
	return func(m *ikRigModule) {
		m.drivers = drivers
	}
}
