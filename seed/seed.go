// Package seed implements the external seeder contract of spec.md §6:
// uniform random particle placement inside a margin-inset cube, with a
// floor height clamp. It is grounded on original_source's
// Rules.h::spawnParticlesInBox and never imported by package engine, since
// initial placement is an external collaborator, not part of the core.
package seed

import (
	"math/rand"

	"github.com/andewx/sphcore/engine"
)

// Box produces n particles uniformly distributed inside a cube of side
// boxSize centered at the origin, inset by margin on every face, with a
// floor of min_y = max(-boxSize/2 + margin, minHeightRatio * boxSize/2).
// Velocities are zero; Predicted is left at the zero value since
// engine.Init sets it equal to Position for every particle it receives.
func Box(rng *rand.Rand, n int, boxSize, margin, minHeightRatio float32) []engine.Particle {
	half := boxSize * 0.5
	clampedMargin := clamp(margin, 0, half)
	maxY := half - clampedMargin
	minY := maxf(-half+clampedMargin, minHeightRatio*half)
	if minY > maxY {
		minY = maxY
	}

	particles := make([]engine.Particle, n)
	for i := range particles {
		particles[i].Position[0] = uniform(rng, -half+clampedMargin, half-clampedMargin)
		particles[i].Position[1] = uniform(rng, minY, maxY)
		particles[i].Position[2] = uniform(rng, -half+clampedMargin, half-clampedMargin)
	}
	return particles
}

func uniform(rng *rand.Rand, lo, hi float32) float32 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float32()*(hi-lo)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
