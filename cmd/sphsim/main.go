// Command sphsim is a headless driver for the SPH fluid engine: it loads a
// configuration, seeds a cube of particles, steps the engine for a fixed
// number of steps, and logs periodic summaries. It stands in for the
// renderer, UI panel, and window/event-loop collaborators spec.md §1 keeps
// out of scope, in the spirit of app/scene.go's animation loop without the
// GL/GLFW plumbing.
package main

import (
	"flag"
	"math/rand"
	"time"

	"github.com/andewx/sphcore/config"
	"github.com/andewx/sphcore/engine"
	"github.com/andewx/sphcore/seed"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file (defaults used if empty)")
	particleCount := flag.Int("particles", 1000, "number of particles to seed")
	steps := flag.Int("steps", 300, "number of steps to run")
	boxSize := flag.Float64("box", 2.0, "side length of the seeding cube")
	margin := flag.Float64("margin", 0.1, "inset margin on every face of the seeding cube")
	logEvery := flag.Int("log-every", 50, "log a summary every N steps")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		engine.Logf("sphsim: %v", err)
		return
	}

	rng := rand.New(rand.NewSource(1))
	particles := seed.Box(rng, *particleCount, float32(*boxSize), float32(*margin), -0.5)

	sim := engine.New()
	if err := sim.Init(cfg, particles); err != nil {
		engine.Logf("sphsim: init failed: %v", err)
		return
	}
	defer sim.Destroy()

	const dt = 1.0 / 60.0
	start := time.Now()
	for i := 0; i < *steps; i++ {
		if err := sim.Step(dt); err != nil {
			engine.Logf("sphsim: step %d failed: %v", i, err)
			return
		}
		if *logEvery > 0 && (i+1)%*logEvery == 0 {
			logSummary(sim, i+1)
		}
	}
	engine.Logf("sphsim: %d steps of %d particles in %s", *steps, *particleCount, time.Since(start).Round(time.Millisecond))
}

func logSummary(sim *engine.Engine, step int) {
	particles := sim.Particles()
	var minY, maxY float32
	if len(particles) > 0 {
		minY, maxY = particles[0].Position[1], particles[0].Position[1]
	}
	var avgDensity float32
	for _, p := range particles {
		if p.Position[1] < minY {
			minY = p.Position[1]
		}
		if p.Position[1] > maxY {
			maxY = p.Position[1]
		}
		avgDensity += p.Density
	}
	if len(particles) > 0 {
		avgDensity /= float32(len(particles))
	}
	engine.Logf("step %d: y in [%.3f, %.3f], avg density %.1f", step, minY, maxY, avgDensity)
}
