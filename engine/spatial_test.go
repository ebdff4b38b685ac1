package engine

import (
	"math/rand"
	"testing"

	"github.com/andewx/sphcore/vector"
)

func randomParticles(rng *rand.Rand, n int, half float32) []Particle {
	particles := make([]Particle, n)
	for i := range particles {
		particles[i].Position = vector.Vec3{
			uniform(rng, -half, half),
			uniform(rng, -half, half),
			uniform(rng, -half, half),
		}
		particles[i].Predicted = particles[i].Position
	}
	return particles
}

func uniform(rng *rand.Rand, lo, hi float32) float32 {
	return lo + rng.Float32()*(hi-lo)
}

func TestSpatialIndexBufferSizing(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	n := 137
	particles := randomParticles(rng, n, 1)
	idx := newSpatialIndex(n)
	idx.build(particles, 0.2)

	if len(idx.keys) != n || len(idx.sortedIndices) != n || len(idx.offsets) != n {
		t.Fatalf("buffer sizes: keys=%d sortedIndices=%d offsets=%d, want %d", len(idx.keys), len(idx.sortedIndices), len(idx.offsets), n)
	}
}

func TestSpatialIndexKeyRange(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	n := 200
	particles := randomParticles(rng, n, 1)
	idx := newSpatialIndex(n)
	idx.build(particles, 0.2)

	for i, k := range idx.keys {
		if int(k) >= n {
			t.Fatalf("keys[%d] = %d, want < %d", i, k, n)
		}
	}
}

func TestSpatialIndexOffsetConsistency(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	n := 300
	particles := randomParticles(rng, n, 1)
	idx := newSpatialIndex(n)
	idx.build(particles, 0.2)
	particles = idx.reorder(particles)
	idx.computeOffsets()

	for i, k := range idx.keys {
		if idx.offsets[k] > uint32(i) {
			t.Fatalf("offsets[%d] = %d, want <= %d", k, idx.offsets[k], i)
		}
	}

	// Particles sharing a key must occupy a contiguous range.
	seen := map[uint32]struct{}{}
	for i := 0; i < n; {
		k := idx.keys[i]
		if _, ok := seen[k]; ok {
			t.Fatalf("key %d reappears at index %d after a gap", k, i)
		}
		seen[k] = struct{}{}
		j := i
		for j < n && idx.keys[j] == k {
			j++
		}
		i = j
	}
	_ = particles
}

func TestSpatialIndexNeighborIterationFindsSelf(t *testing.T) {
	idx := newSpatialIndex(1)
	particles := []Particle{{Position: vector.Vec3{0, 0, 0}, Predicted: vector.Vec3{0, 0, 0}}}
	idx.build(particles, 0.2)
	particles = idx.reorder(particles)
	idx.computeOffsets()

	found := false
	idx.forEachNeighbor(particles[0].Predicted, 0.2, func(j uint32) {
		if j == 0 {
			found = true
		}
	})
	if !found {
		t.Error("forEachNeighbor did not visit the query particle itself")
	}
}
