package rig

type CrowdBuilderOption func(*crowdImpl)

// WithCrowdSize sets the number of rigs.
//
// Parameters:
//   - n: number of rigs (must be positive)
//
// Returns:
//   - CrowdBuilderOption: a function that sets the crowd size
func WithCrowdSize(n int) CrowdBuilderOption {
	return func(c *crowdImpl) {
		c.size = n
	}
}

// WithColumns sets the grid width; by default the grid is as square as possible.
func WithColumns(n int) CrowdBuilderOption {
	return func(c *crowdImpl) {
		c.columns = n
	}
}

// WithSpacing sets the distance between neighbouring rigs.
func WithSpacing(spacing float32) CrowdBuilderOption {
	return func(c *crowdImpl) {
		c.spacing = spacing
	}
}

// WithPhaseStep sets the time offset between consecutive rigs.
func WithPhaseStep(step float32) CrowdBuilderOption {
	return func(c *crowdImpl) {
		c.phase = step
	}
}

// WithWorkers sets the size of the worker pool.
func WithWorkers(n int) CrowdBuilderOption {
	return func(c *crowdImpl) {
		c.workers = n
	}
}

// WithCrowdSkeleton sets the skeleton shared by every rig.
func WithCrowdSkeleton(s Skeleton) CrowdBuilderOption {
	return func(c *crowdImpl) {
		c.skeleton = s
	}
}

// WithCrowdSkinner sets the skinner shared by every rig.
func WithCrowdSkinner(s Skinner) CrowdBuilderOption {
	return func(c *crowdImpl) {
		c.skinner = s
	}
}

// WithCrowdDrivers sets the driver factory called once per rig with the rig index.
//
// Parameters:
//   - drivers: returns the drivers for rig i
//
// Returns:
//   - CrowdBuilderOption: a function that sets the driver factory
func WithCrowdDrivers(drivers func(i int) []Driver) CrowdBuilderOption {
	return func(c *crowdImpl) {
		c.drivers = drivers
	}
}

// WithCullRadius sets the bounding sphere radius, centred one unit above each rig's origin,
// used for frustum culling.
func WithCullRadius(r float32) CrowdBuilderOption {
	return func(c *crowdImpl) {
		c.cullRadius = r
	}
}
