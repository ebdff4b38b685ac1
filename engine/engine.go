// Package engine implements the SPH fluid simulation core: a single-owner
// particle engine advanced one step at a time under gravity, a dual-density
// pressure model, artificial viscosity, and inelastic boundary collisions.
package engine

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/andewx/sphcore/vector"
)

// ErrEngineDestroyed is returned by Step once Destroy has been called.
var ErrEngineDestroyed = errors.New("sphcore: engine destroyed")

// workerPanicError wraps a recovered panic from a worker's pass execution.
// It satisfies error so Step can propagate it like any other fatal
// condition without exposing the raw panic value to callers.
type workerPanicError struct {
	workerID int
	value    interface{}
}

func (e *workerPanicError) Error() string {
	return fmt.Sprintf("sphcore: worker %d panicked: %v", e.workerID, e.value)
}

// Engine is the authoritative owner of the particle array and every scratch
// buffer the step needs. The spec models it as a process-wide singleton;
// here it is an explicit value constructed by the caller (see
// original_source's SPH::getInstance vs. this package's New) and passed by
// reference to whatever renderer or harness needs it.
type Engine struct {
	mu     sync.Mutex
	cfg    Config
	coeffs kernelCoefficients

	particles []Particle
	index     *spatialIndex
	snapshot  []vector.Vec3

	workers  []*worker
	barrier  *cyclicBarrier
	shutdown sync.WaitGroup

	workerErr error
	closed    bool
}

// New constructs an Engine with the default configuration and no
// particles. Init must be called before Step.
func New() *Engine {
	return &Engine{cfg: DefaultConfig()}
}

// Init (re)initializes the engine: validates and installs cfg, copies
// particles into engine-owned storage, resizes every scratch buffer to the
// new particle count, recomputes kernel coefficients, and (re)launches the
// worker pool at T = clamp(hardware_thread_count, 1, N). Any previously
// running worker pool is torn down first. On a validation error the prior
// state is left intact, per spec.md §7.
func (e *Engine) Init(cfg Config, particles []Particle) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.shutdownWorkersLocked()

	n := len(particles)
	e.particles = make([]Particle, n)
	copy(e.particles, particles)
	for i := range e.particles {
		e.particles[i].Predicted = e.particles[i].Position
	}

	e.cfg = cfg
	e.coeffs = newKernelCoefficients(cfg.SmoothingRadius)
	e.index = newSpatialIndex(n)
	e.snapshot = make([]vector.Vec3, n)
	e.workerErr = nil
	e.closed = false

	t := runtime.GOMAXPROCS(0)
	if t < 1 {
		t = 1
	}
	if n > 0 && t > n {
		t = n
	}
	e.spawnWorkers(t, n)
	return nil
}

// SetConfig installs a new configuration to take effect on the next Step.
// If smoothing_radius changed, kernel coefficients are recomputed before
// returning so the very next step already uses them.
func (e *Engine) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if cfg.SmoothingRadius != e.cfg.SmoothingRadius {
		e.coeffs = newKernelCoefficients(cfg.SmoothingRadius)
	}
	e.cfg = cfg
	return nil
}

// Config returns the currently installed configuration.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// Particles returns the current particle array in its present (possibly
// cell-sorted) order. Safe for a renderer to read between steps; callers
// must not retain it across a Step call since the backing array is
// replaced during the spatial-index rebuild.
func (e *Engine) Particles() []Particle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.particles
}

// Step advances the simulation by dt seconds: external forces and
// prediction (parallel), a single-threaded spatial index rebuild, and the
// barrier-synchronized density/pressure/viscosity/position passes (spec.md
// §4.4). N == 0 is a legal no-op. Once a worker has failed, every
// subsequent Step call fails immediately without attempting a partial
// step.
func (e *Engine) Step(dt float32) error {
	if e.closed {
		return ErrEngineDestroyed
	}
	if err := e.workerError(); err != nil {
		return err
	}
	if len(e.particles) == 0 {
		return nil
	}

	e.dispatch(func(start, end int) { e.externalForcesPass(start, end, dt) })
	if err := e.workerError(); err != nil {
		return err
	}

	e.particles = e.rebuildIndex()
	useViscosity := e.cfg.ViscosityStrength != 0

	e.dispatch(e.remainingPassesJob(dt, useViscosity))
	return e.workerError()
}

// rebuildIndex performs the single-threaded spatial-hash rebuild between
// passes 1 and 2: compute keys, sort, reorder particles into the
// cell-sorted layout, and compute bucket offsets.
func (e *Engine) rebuildIndex() []Particle {
	h := e.cfg.SmoothingRadius
	e.index.build(e.particles, h)
	particles := e.index.reorder(e.particles)
	e.index.computeOffsets()
	return particles
}

func (e *Engine) workerError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.workerErr
}

// Destroy signals every worker to exit, joins them, and releases buffers.
// Subsequent Step calls return ErrEngineDestroyed.
func (e *Engine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shutdownWorkersLocked()
	e.closed = true
	e.particles = nil
	e.index = nil
	e.snapshot = nil
}
