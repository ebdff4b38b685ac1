package engine

import "github.com/andewx/sphcore/vector"

// Particle mirrors the teacher's fluid.Particle (fluid/particle.go) but
// trades its Force/Pressure accumulator pair for the predicted-position and
// near-density fields the dual-pressure model needs. It is created by an
// external seeder, owned exclusively by the Engine after Init, and mutated
// only by the Engine's physics passes.
type Particle struct {
	Position    vector.Vec3
	Predicted   vector.Vec3
	Velocity    vector.Vec3
	Density     float32
	NearDensity float32
}
