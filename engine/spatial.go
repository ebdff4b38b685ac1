package engine

import (
	"math"

	"github.com/andewx/sphcore/vector"
)

// Fast integer hash multipliers for cell coordinates, unchanged from
// original_source/src/Math/SPH.cpp so the neighbor search has the same
// collision profile as the reference implementation.
const (
	hashSeedX int32 = 73856093
	hashSeedY int32 = 19349663
	hashSeedZ int32 = 83492791
)

// cell is a discrete spatial-hash cell coordinate.
type cell [3]int32

// neighborOffsets enumerates the 27 cells of the {-1,0,1}^3 neighborhood,
// including the origin cell itself.
var neighborOffsets = buildNeighborOffsets()

func buildNeighborOffsets() [27]cell {
	var offsets [27]cell
	i := 0
	for x := int32(-1); x <= 1; x++ {
		for y := int32(-1); y <= 1; y++ {
			for z := int32(-1); z <= 1; z++ {
				offsets[i] = cell{x, y, z}
				i++
			}
		}
	}
	return offsets
}

func cellOf(predicted vector.Vec3, h float32) cell {
	return cell{
		int32(math.Floor(float64(predicted[0] / h))),
		int32(math.Floor(float64(predicted[1] / h))),
		int32(math.Floor(float64(predicted[2] / h))),
	}
}

func hashCell(c cell) int32 {
	return c[0]*hashSeedX ^ c[1]*hashSeedY ^ c[2]*hashSeedZ
}

// keyFromHash reduces a (possibly negative, wrapped) 32-bit hash to a
// bucket key in [0, n). Keys collide by design; geometric distance filters
// false positives during neighbor iteration.
func keyFromHash(h int32, n int) uint32 {
	return uint32(h) % uint32(n)
}

// spatialIndex holds the scratch buffers the step orchestrator rebuilds
// every step: the cell key of every particle in its current (post-reorder)
// position, the permutation produced while sorting by key, and the
// bucket-start offset table. All three are sized to the particle count and
// stay that size until the next Init, per spec.md §3's buffer invariant.
type spatialIndex struct {
	keys          []uint32
	sortedIndices []uint32
	offsets       []uint32

	reorderBuffer []Particle
}

func newSpatialIndex(n int) *spatialIndex {
	return &spatialIndex{
		keys:          make([]uint32, n),
		sortedIndices: make([]uint32, n),
		offsets:       make([]uint32, n),
		reorderBuffer: make([]Particle, n),
	}
}

// build computes the cell key for every particle (using its predicted
// position) and the permutation that sorts particles by key. Any stable or
// unstable sort is acceptable per spec.md §4.2; this uses sortByKey, which
// is not stable, matching that latitude.
func (idx *spatialIndex) build(particles []Particle, h float32) {
	n := len(particles)
	for i := 0; i < n; i++ {
		c := cellOf(particles[i].Predicted, h)
		idx.keys[i] = keyFromHash(hashCell(c), n)
		idx.sortedIndices[i] = uint32(i)
	}
	sortByKey(idx.sortedIndices, idx.keys)
}

// sortByKey performs an allocation-free sort of indices by the key each one
// names. It is a hand-written quicksort that finishes ranges shorter than 12
// with insertion sort, rather than sort.Slice's interface-dispatched
// comparator, since this runs once per step on the hot path of every
// particle.
func sortByKey(indices []uint32, keys []uint32) {
	quicksortIndices(indices, keys, 0, len(indices)-1)
}

func quicksortIndices(indices []uint32, keys []uint32, lo, hi int) {
	for lo < hi {
		if hi-lo < 12 {
			insertionSortIndices(indices, keys, lo, hi)
			return
		}
		p := partitionIndices(indices, keys, lo, hi)
		if p-lo < hi-p {
			quicksortIndices(indices, keys, lo, p-1)
			lo = p + 1
		} else {
			quicksortIndices(indices, keys, p+1, hi)
			hi = p - 1
		}
	}
}

func partitionIndices(indices []uint32, keys []uint32, lo, hi int) int {
	mid := lo + (hi-lo)/2
	pivot := keys[indices[mid]]
	indices[mid], indices[hi] = indices[hi], indices[mid]
	store := lo
	for i := lo; i < hi; i++ {
		if keys[indices[i]] < pivot {
			indices[i], indices[store] = indices[store], indices[i]
			store++
		}
	}
	indices[store], indices[hi] = indices[hi], indices[store]
	return store
}

func insertionSortIndices(indices []uint32, keys []uint32, lo, hi int) {
	for i := lo + 1; i <= hi; i++ {
		v := indices[i]
		vk := keys[v]
		j := i - 1
		for j >= lo && keys[indices[j]] > vk {
			indices[j+1] = indices[j]
			j--
		}
		indices[j+1] = v
	}
}

// reorder rearranges particles and keys into the cell-sorted layout named
// by sortedIndices, using reorderBuffer as scratch and swapping it back in
// as the teacher's voxel buffers do with their own double-buffering.
func (idx *spatialIndex) reorder(particles []Particle) []Particle {
	n := len(particles)
	keysCopy := append([]uint32(nil), idx.keys...)
	for dst := 0; dst < n; dst++ {
		src := idx.sortedIndices[dst]
		idx.reorderBuffer[dst] = particles[src]
		idx.keys[dst] = keysCopy[src]
	}
	idx.reorderBuffer, particles = particles, idx.reorderBuffer
	return particles
}

// computeOffsets fills offsets[k] with the smallest index i such that
// keys[i] == k, or n if no such index exists.
func (idx *spatialIndex) computeOffsets() {
	n := uint32(len(idx.offsets))
	for i := range idx.offsets {
		idx.offsets[i] = n
	}
	for i := uint32(0); i < uint32(len(idx.keys)); i++ {
		k := idx.keys[i]
		if idx.offsets[k] > i {
			idx.offsets[k] = i
		}
	}
}

// forEachNeighbor visits every particle index that falls in one of the 27
// buckets neighboring origin's cell. It dereferences a candidate before
// advancing the cursor and stops strictly on a key mismatch — the
// corrected behavior spec.md §9 calls for, as opposed to the
// increment-before-dereference bug in original_source.
func (idx *spatialIndex) forEachNeighbor(origin vector.Vec3, h float32, visit func(neighborIndex uint32)) {
	n := len(idx.keys)
	originCell := cellOf(origin, h)
	for _, offset := range neighborOffsets {
		c := cell{originCell[0] + offset[0], originCell[1] + offset[1], originCell[2] + offset[2]}
		key := keyFromHash(hashCell(c), n)
		neighborIndex := idx.offsets[key]
		for neighborIndex < uint32(n) && idx.keys[neighborIndex] == key {
			visit(neighborIndex)
			neighborIndex++
		}
	}
}
