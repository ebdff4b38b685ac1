package engine

import (
	"errors"

	"github.com/andewx/sphcore/vector"
)

// Config holds the simulation parameters recognized by the engine. It is
// immutable within a step and is replaced wholesale by SetConfig between
// steps, mirroring the teacher's MassFluidParticle descriptor
// (fluid/particle.go) but extended with the boundary and pressure terms the
// dual-density model needs.
type Config struct {
	Gravity                float32     `yaml:"gravity"`
	SmoothingRadius        float32     `yaml:"smoothing_radius"`
	TargetDensity          float32     `yaml:"target_density"`
	PressureMultiplier     float32     `yaml:"pressure_multiplier"`
	NearPressureMultiplier float32     `yaml:"near_pressure_multiplier"`
	ViscosityStrength      float32     `yaml:"viscosity_strength"`
	CollisionDamping       float32     `yaml:"collision_damping"`
	Bounds                 vector.Vec3 `yaml:"bounds"`
}

// Sentinel configuration errors, distinguishable with errors.Is so callers
// can tell the failure kinds apart programmatically.
var (
	ErrNonPositiveSmoothingRadius = errors.New("sphcore: smoothing_radius must be positive")
	ErrNegativeCollisionDamping   = errors.New("sphcore: collision_damping must not be negative")
	ErrCollisionDampingAboveOne   = errors.New("sphcore: collision_damping must not exceed 1")
	ErrNonPositiveBounds          = errors.New("sphcore: bounds must be positive on every axis")
)

// DefaultConfig returns the authoritative default configuration (spec.md
// §6): the values a freshly constructed engine should use if the caller
// supplies no overrides.
func DefaultConfig() Config {
	return Config{
		Gravity:                -9.81,
		SmoothingRadius:        0.2,
		TargetDensity:          1000.0,
		PressureMultiplier:     30.0,
		NearPressureMultiplier: 25.0,
		ViscosityStrength:      0.035,
		CollisionDamping:       0.85,
		Bounds:                 vector.Vec3{1.0, 1.0, 1.0},
	}
}

// Validate rejects configurations that would make the simulation
// mathematically meaningless: a non-positive smoothing radius collapses
// every kernel to zero or a division by zero, a negative or >1 collision
// damping breaks the inelastic-bounce invariant, and non-positive bounds
// leave no box to confine particles to.
func (c Config) Validate() error {
	if c.SmoothingRadius <= 0 {
		return ErrNonPositiveSmoothingRadius
	}
	if c.CollisionDamping < 0 {
		return ErrNegativeCollisionDamping
	}
	if c.CollisionDamping > 1 {
		return ErrCollisionDampingAboveOne
	}
	for axis := 0; axis < 3; axis++ {
		if c.Bounds[axis] <= 0 {
			return ErrNonPositiveBounds
		}
	}
	return nil
}
