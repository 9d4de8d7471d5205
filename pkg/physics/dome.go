package physics

import (
	"math"

	"github.com/proaptus/tanklab/pkg/errors"
	"github.com/proaptus/tanklab/pkg/vessel"
)

// DefaultProfilePoints is the meridian resolution used when the caller does
// not ask for a specific point count.
const DefaultProfilePoints = 40

// DomeProfile computes the isotensoid meridian for a filament-wound end cap.
//
// The winding angle is interpolated linearly from 90 degrees at the apex to
// alpha0 at the cylinder junction. At each station the netting-theory radius
// is r(alpha) = r0*sin(alpha0)/sin(alpha), clamped to the boss bore radius.
// The meridional slope dz/dr = -cot(alpha) is integrated with the
// trapezoidal rule and the accumulated depth is rescaled so the profile ends
// exactly at the requested depth.
//
// The returned points run from the apex (z=0) to the cylinder junction
// (z=depth), with z strictly increasing and r non-decreasing away from the
// boss clamp.
func DomeProfile(r0, alpha0Deg, bossRadius, depth float64, n int) ([]vessel.ProfilePoint, error) {
	if alpha0Deg <= 0 || alpha0Deg >= 90 {
		return nil, errors.New(errors.ErrCodeInvalidGeometry,
			"winding angle must lie strictly between 0 and 90 degrees, got %.2f", alpha0Deg)
	}
	if r0 <= 0 || depth <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidGeometry,
			"dome radius and depth must be positive (r0=%.2f, depth=%.2f)", r0, depth)
	}
	if bossRadius < 0 || bossRadius >= r0 {
		return nil, errors.New(errors.ErrCodeInvalidGeometry,
			"boss radius %.2f must lie in [0, cylinder radius %.2f)", bossRadius, r0)
	}
	if n < 2 {
		return nil, errors.New(errors.ErrCodeInvalidGeometry,
			"profile needs at least 2 intervals, got %d", n)
	}

	alpha0 := alpha0Deg * math.Pi / 180
	sinAlpha0 := math.Sin(alpha0)

	type station struct {
		alpha, r float64
	}
	stations := make([]station, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		alpha := math.Pi/2 + (alpha0-math.Pi/2)*t // 90 deg at apex -> alpha0 at cylinder
		r := r0 * sinAlpha0 / math.Sin(alpha)
		if r < bossRadius {
			r = bossRadius
		}
		stations[i] = station{alpha: alpha, r: r}
	}

	// Trapezoidal integration of dz/dr = -cot(alpha) over successive r.
	z := make([]float64, n+1)
	for i := 1; i <= n; i++ {
		dr := stations[i].r - stations[i-1].r
		slope := -0.5 * (1/math.Tan(stations[i].alpha) + 1/math.Tan(stations[i-1].alpha))
		z[i] = z[i-1] + slope*dr
	}

	// Rescale so the accumulated depth matches the target exactly. The raw
	// integral runs negative (r grows while z drops toward the cylinder), so
	// the scale also flips the profile into apex-up orientation.
	total := z[n]
	if math.Abs(total) < 1e-12 {
		return nil, errors.New(errors.ErrCodeComputeFault,
			"dome profile integration collapsed (zero accumulated depth)")
	}
	scale := depth / total

	points := make([]vessel.ProfilePoint, n+1)
	for i := 0; i <= n; i++ {
		points[i] = vessel.ProfilePoint{RMM: stations[i].r, ZMM: z[i] * scale}
	}
	return points, nil
}

// ProfileFor returns the design's dome meridian, preferring a precomputed
// profile when the design carries one.
func ProfileFor(d *vessel.Design) ([]vessel.ProfilePoint, error) {
	if len(d.Dome.Profile) >= 2 {
		return d.Dome.Profile, nil
	}
	return DomeProfile(
		d.Dimensions.InnerRadiusMM,
		d.Dome.WindingAngleDeg,
		d.Dome.BossBoreMM,
		d.Dome.DepthMM,
		DefaultProfilePoints,
	)
}

// RadiusAtDepth interpolates the meridian radius at a given depth fraction
// q in [0,1], where 0 is the apex and 1 the cylinder junction.
func RadiusAtDepth(profile []vessel.ProfilePoint, q float64) float64 {
	if len(profile) == 0 {
		return 0
	}
	if q <= 0 {
		return profile[0].RMM
	}
	if q >= 1 {
		return profile[len(profile)-1].RMM
	}
	depth := profile[len(profile)-1].ZMM
	target := q * depth
	for i := 1; i < len(profile); i++ {
		if profile[i].ZMM >= target {
			z0, z1 := profile[i-1].ZMM, profile[i].ZMM
			if z1 == z0 {
				return profile[i].RMM
			}
			f := (target - z0) / (z1 - z0)
			return profile[i-1].RMM + f*(profile[i].RMM-profile[i-1].RMM)
		}
	}
	return profile[len(profile)-1].RMM
}
