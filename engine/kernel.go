package engine

import "math"

// kernelCoefficients holds the four normalization constants that depend only
// on the smoothing radius. They are recomputed once at Init and whenever
// SetConfig changes smoothing_radius, the same "precompute powers of h once"
// idea as the teacher's CubicKernel.H array (fluid/kernel.go), just reduced
// to the four scalars the dual-density model actually needs.
type kernelCoefficients struct {
	spiky2     float32 // 15 / (2*pi*h^5)
	spiky3     float32 // 15 / (pi*h^6)
	spiky2Grad float32 // 15 / (pi*h^5)
	spiky3Grad float32 // 45 / (pi*h^6)
}

func newKernelCoefficients(h float32) kernelCoefficients {
	h5 := pow(h, 5)
	h6 := pow(h, 6)
	return kernelCoefficients{
		spiky2:     15.0 / (2.0 * math.Pi * h5),
		spiky3:     15.0 / (math.Pi * h6),
		spiky2Grad: 15.0 / (math.Pi * h5),
		spiky3Grad: 45.0 / (math.Pi * h6),
	}
}

func pow(v float32, n int) float32 {
	r := float32(1)
	for i := 0; i < n; i++ {
		r *= v
	}
	return r
}

// densityKernel is the spiky^2 kernel used for the main density field: zero
// outside the smoothing radius, monotonically decreasing to zero at d == h.
func densityKernel(k kernelCoefficients, h, d float32) float32 {
	if d < h {
		v := h - d
		return v * v * k.spiky2
	}
	return 0
}

// nearDensityKernel is the sharper spiky^3 kernel used for the short-range
// repulsive near-density term.
func nearDensityKernel(k kernelCoefficients, h, d float32) float32 {
	if d < h {
		v := h - d
		return v * v * v * k.spiky3
	}
	return 0
}

// densityDerivative is d/dd of the density kernel, used for the pressure
// gradient. Evaluated through d == h inclusive, where it reaches zero.
func densityDerivative(k kernelCoefficients, h, d float32) float32 {
	if d <= h {
		v := h - d
		return -v * k.spiky2Grad
	}
	return 0
}

// nearDensityDerivative is d/dd of the near-density kernel.
func nearDensityDerivative(k kernelCoefficients, h, d float32) float32 {
	if d <= h {
		v := h - d
		return -v * v * k.spiky3Grad
	}
	return 0
}

// poly6 is the viscosity smoothing kernel.
func poly6(h, d float32) float32 {
	if d < h {
		scale := float32(315.0 / (64.0 * math.Pi * float64(pow(h, 9))))
		v := h*h - d*d
		return v * v * v * scale
	}
	return 0
}

func pressureFromDensity(cfg Config, density float32) float32 {
	return (density - cfg.TargetDensity) * cfg.PressureMultiplier
}

func nearPressureFromDensity(cfg Config, nearDensity float32) float32 {
	return nearDensity * cfg.NearPressureMultiplier
}
