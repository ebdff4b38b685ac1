package engine

import (
	"math"

	"github.com/andewx/sphcore/vector"
)

// externalForcesPass applies gravity to the y-velocity and advances the
// predicted position for every particle in [start, end). Mirrors
// original_source's applyExternalForces.
func (e *Engine) externalForcesPass(start, end int, dt float32) {
	g := e.cfg.Gravity
	for i := start; i < end; i++ {
		p := &e.particles[i]
		p.Velocity[1] += g * dt
		p.Predicted = vector.Add(p.Position, vector.Scale(p.Velocity, dt))
	}
}

// densityPass accumulates the density and near-density fields for every
// particle in [start, end) from its 27-bucket neighborhood, self included.
func (e *Engine) densityPass(start, end int) {
	h := e.cfg.SmoothingRadius
	h2 := h * h
	for i := start; i < end; i++ {
		p := &e.particles[i]
		var density, nearDensity float32
		e.index.forEachNeighbor(p.Predicted, h, func(j uint32) {
			q := &e.particles[j]
			diff := vector.Sub(q.Predicted, p.Predicted)
			if vector.LengthSq(diff) > h2 {
				return
			}
			d := vector.Length(diff)
			density += densityKernel(e.coeffs, h, d)
			nearDensity += nearDensityKernel(e.coeffs, h, d)
		})
		p.Density = density
		p.NearDensity = nearDensity
	}
}

// pressurePass applies the dual-pressure gradient force and airborne drag
// for every particle in [start, end). The near-pressure term is
// deliberately shared from the neighbor's density rather than its
// near-density (see spec §9 — preserved verbatim from original_source).
func (e *Engine) pressurePass(start, end int, dt float32) {
	cfg := e.cfg
	h := cfg.SmoothingRadius
	h2 := h * h
	for idx := start; idx < end; idx++ {
		p := &e.particles[idx]
		pressure := pressureFromDensity(cfg, p.Density)
		nearPressure := nearPressureFromDensity(cfg, p.NearDensity)
		var force vector.Vec3
		neighborCount := 0
		e.index.forEachNeighbor(p.Predicted, h, func(j uint32) {
			if int(j) == idx {
				return
			}
			q := &e.particles[j]
			diff := vector.Sub(q.Predicted, p.Predicted)
			distSq := vector.LengthSq(diff)
			if distSq > h2 {
				return
			}
			d := float32(math.Sqrt(float64(distSq)))
			var dir vector.Vec3
			if d >= 1e-6 {
				dir = vector.Scale(diff, 1/d)
			}
			sharedPressure := (pressure + pressureFromDensity(cfg, q.Density)) * 0.5
			sharedNearPressure := (nearPressure + nearPressureFromDensity(cfg, q.Density)) * 0.5

			qNearDensity := maxf(q.NearDensity, 1e-6)

			gradTerm := densityDerivative(e.coeffs, h, d) * sharedPressure / q.Density
			nearGradTerm := nearDensityDerivative(e.coeffs, h, d) * sharedNearPressure / qNearDensity
			force.Add(vector.Scale(dir, gradTerm+nearGradTerm))
			neighborCount++
		})

		acceleration := vector.Scale(force, 1/maxf(p.Density, 1e-6))
		p.Velocity.Add(vector.Scale(acceleration, dt))

		if neighborCount < 8 {
			p.Velocity.Sub(vector.Scale(p.Velocity, dt*0.75))
		}
	}
}

// viscositySnapshotPass copies each particle's current velocity into the
// snapshot buffer so the viscosity pass can read pre-pass velocities for
// every neighbor without racing the in-flight writes of other workers.
func (e *Engine) viscositySnapshotPass(start, end int) {
	for i := start; i < end; i++ {
		e.snapshot[i] = e.particles[i].Velocity
	}
}

// viscosityPass applies the poly6-weighted velocity-difference force. Self
// is not excluded from the neighbor sum (spec §4.3); its contribution is
// always zero since snapshot[i]-snapshot[i] vanishes.
func (e *Engine) viscosityPass(start, end int, dt float32) {
	cfg := e.cfg
	h := cfg.SmoothingRadius
	h2 := h * h
	for i := start; i < end; i++ {
		p := &e.particles[i]
		var force vector.Vec3
		vi := e.snapshot[i]
		e.index.forEachNeighbor(p.Predicted, h, func(j uint32) {
			q := &e.particles[j]
			diff := vector.Sub(q.Predicted, p.Predicted)
			distSq := vector.LengthSq(diff)
			if distSq > h2 {
				return
			}
			d := float32(math.Sqrt(float64(distSq)))
			force.Add(vector.Scale(vector.Sub(e.snapshot[j], vi), poly6(h, d)))
		})
		p.Velocity.Add(vector.Scale(force, cfg.ViscosityStrength*dt))
	}
}

// positionPass integrates velocity into position and resolves boundary
// collisions axis by axis, clamping to the box and reflecting velocity
// scaled by collision_damping.
func (e *Engine) positionPass(start, end int, dt float32) {
	cfg := e.cfg
	for i := start; i < end; i++ {
		p := &e.particles[i]
		p.Position.Add(vector.Scale(p.Velocity, dt))
		for axis := 0; axis < 3; axis++ {
			bound := cfg.Bounds[axis]
			if abs32(p.Position[axis]) >= bound {
				p.Position[axis] = vector.Sign(p.Position[axis]) * bound
				p.Velocity[axis] = -p.Velocity[axis] * cfg.CollisionDamping
			}
		}
	}
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
