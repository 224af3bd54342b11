package rig

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
)

type crowdImpl struct {
	mu *sync.Mutex

	size     int
	columns  int
	spacing  float32
	phase    float32
	workers  int
	skeleton Skeleton
	drivers  func(i int) []Driver
	skinner  Skinner

	rigs      []Rig
	instances [][]model.GPUInstance
	visible   []bool
	errs      []error

	frustum    *common.Frustum
	cullRadius float32

	pool worker.DynamicWorkerPool
}

// Crowd is a grid of independent rigs sharing one skeleton and skinner. Each rig owns its pose,
// so rigs are evaluated and skinned in parallel on a worker pool, one task per rig, and the
// per-rig instances are concatenated in rig order.
type Crowd interface {
	// Rigs returns the rigs in grid order.
	Rigs() []Rig

	// Evaluate evaluates and skins every visible rig at time t, waiting for all tasks.
	//
	// Parameters:
	//   - t: time in seconds
	//
	// Returns:
	//   - error: the joined errors of every failed rig, each prefixed with its index
	Evaluate(t float32) error

	// Instances appends the instances of every visible rig to dst in rig order.
	Instances(dst []model.GPUInstance) []model.GPUInstance

	// SetFrustum enables culling against f, or disables it when f is nil.
	SetFrustum(f *common.Frustum)

	// Visible returns the number of rigs that passed culling in the last Evaluate.
	Visible() int

	// Close stops the worker pool.
	Close()
}

var _ Crowd = &crowdImpl{}

// NewCrowd creates a crowd of humanoid rigs laid out on a grid centred on the origin.
//
// Parameters:
//   - options: crowd options
//
// Returns:
//   - Crowd: the crowd
func NewCrowd(options ...CrowdBuilderOption) Crowd {
	c := &crowdImpl{
		mu:         &sync.Mutex{},
		size:       1,
		spacing:    1.5,
		phase:      .37,
		workers:    4,
		cullRadius: 1.2,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.size < 1 {
		panic(fmt.Sprintf("rig: crowd size must be positive, got %d", c.size))
	}
	if c.skeleton == nil {
		c.skeleton = NewHumanoid()
	}
	if c.skinner == nil {
		c.skinner = NewSkinner()
	}
	if c.drivers == nil {
		c.drivers = func(int) []Driver {
			return []Driver{HipsBob{Joint: Hips, Amplitude: .2, Speed: 1}, HumanoidReach(), HumanoidGait()}
		}
	}
	if c.columns <= 0 {
		c.columns = 1
		for c.columns*c.columns < c.size {
			c.columns++
		}
	}

	rows := (c.size + c.columns - 1) / c.columns
	c.rigs = make([]Rig, c.size)
	c.instances = make([][]model.GPUInstance, c.size)
	c.visible = make([]bool, c.size)
	c.errs = make([]error, c.size)
	for i := range c.rigs {
		col, row := i%c.columns, i/c.columns
		origin := common.V3(
			(float32(col)-float32(c.columns-1)*.5)*c.spacing,
			0,
			(float32(row)-float32(rows-1)*.5)*c.spacing,
		)
		c.rigs[i] = NewRig(
			WithSkeleton(c.skeleton),
			WithOrigin(origin),
			WithPhase(float32(i)*c.phase),
			WithDrivers(c.drivers(i)...),
		)
	}

	c.pool = worker.NewDynamicWorkerPool(c.workers, 256, 1*time.Second)
	return c
}

func (c *crowdImpl) Rigs() []Rig {
	return c.rigs
}

func (c *crowdImpl) Evaluate(t float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// The WaitGroup is the per-frame barrier; pool.Wait only returns once workers go idle.
	var wg sync.WaitGroup
	for i, r := range c.rigs {
		c.errs[i] = nil
		c.visible[i] = c.frustum == nil ||
			c.frustum.ContainsSphere(r.Origin().Add(common.V3(0, 1, 0)), c.cullRadius)
		if !c.visible[i] {
			c.instances[i] = c.instances[i][:0]
			continue
		}

		wg.Add(1)
		id, rCap := i, r
		c.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				if err := rCap.Evaluate(t); err != nil {
					c.errs[id] = fmt.Errorf("rig %d: %w", id, err)
					return nil, c.errs[id]
				}
				inst, err := c.skinner.Skin(rCap.Pose(), c.instances[id][:0])
				c.instances[id] = inst
				if err != nil {
					c.errs[id] = fmt.Errorf("rig %d: %w", id, err)
				}
				return nil, c.errs[id]
			},
		})
	}
	wg.Wait()

	return errors.Join(c.errs...)
}

func (c *crowdImpl) Instances(dst []model.GPUInstance) []model.GPUInstance {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, inst := range c.instances {
		if c.visible[i] {
			dst = append(dst, inst...)
		}
	}
	return dst
}

func (c *crowdImpl) SetFrustum(f *common.Frustum) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frustum = f
}

func (c *crowdImpl) Visible() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.visible {
		if v {
			n++
		}
	}
	return n
}

func (c *crowdImpl) Close() {
	c.pool.Stop()
}
