package physics

import "math"

// Thin-wall pressure vessel formulas. Pressure in MPa; radius and thickness
// in the same length unit (the ratio is what matters). Valid while the wall
// is thin relative to the radius, which vessel.Validate enforces upstream.

// BarToMPa converts a gauge pressure from bar to MPa.
func BarToMPa(bar float64) float64 {
	return bar * 0.1
}

// HoopStress returns the circumferential membrane stress P*R/t.
func HoopStress(pressureMPa, radius, thickness float64) float64 {
	return pressureMPa * radius / thickness
}

// AxialStress returns the longitudinal membrane stress P*R/(2t).
// For a closed cylinder with no end effects this is exactly half the hoop
// stress, which is the 2:1 netting-theory ratio used as a validation
// invariant throughout the engine.
func AxialStress(pressureMPa, radius, thickness float64) float64 {
	return pressureMPa * radius / (2 * thickness)
}

// VonMises returns the equivalent stress for the biaxial membrane state
// (no through-thickness shear): sqrt(h^2 + a^2 - h*a).
func VonMises(hoop, axial float64) float64 {
	return math.Sqrt(hoop*hoop + axial*axial - hoop*axial)
}

// MaxShear returns the maximum in-plane shear, half the hoop stress.
func MaxShear(hoop float64) float64 {
	return hoop / 2
}
