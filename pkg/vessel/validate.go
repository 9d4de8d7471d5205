package vessel

import (
	"math"

	"github.com/proaptus/tanklab/pkg/errors"
)

// Validate checks a Design against physically valid ranges and returns an
// INVALID_GEOMETRY or INVALID_LAYUP error for the first violation found.
//
// Every analysis entry point calls this before touching any trigonometry, so
// out-of-range inputs fail fast with a descriptive error instead of
// propagating NaN or Inf through the stress field.
func (d *Design) Validate() error {
	dim := d.Dimensions

	if dim.InnerRadiusMM <= 0 {
		return errors.New(errors.ErrCodeInvalidGeometry,
			"inner radius must be positive, got %.2f mm", dim.InnerRadiusMM)
	}
	if dim.WallThicknessMM <= 0 {
		return errors.New(errors.ErrCodeInvalidGeometry,
			"wall thickness must be positive, got %.2f mm", dim.WallThicknessMM)
	}
	if dim.OuterRadiusMM <= dim.InnerRadiusMM {
		return errors.New(errors.ErrCodeInvalidGeometry,
			"outer radius %.2f mm must exceed inner radius %.2f mm",
			dim.OuterRadiusMM, dim.InnerRadiusMM)
	}
	if dim.CylinderLengthMM < 0 {
		return errors.New(errors.ErrCodeInvalidGeometry,
			"cylinder length must be non-negative, got %.2f mm", dim.CylinderLengthMM)
	}
	if dim.TotalLengthMM <= dim.CylinderLengthMM {
		return errors.New(errors.ErrCodeInvalidGeometry,
			"total length %.2f mm must exceed cylinder length %.2f mm (domes have depth)",
			dim.TotalLengthMM, dim.CylinderLengthMM)
	}

	// Thin-wall theory degrades badly past t/R of about 1/5; reject the
	// geometries for which the hoop formula is meaningless.
	if dim.WallThicknessMM/dim.InnerRadiusMM > 0.5 {
		return errors.New(errors.ErrCodeInvalidGeometry,
			"wall thickness %.2f mm is too large for inner radius %.2f mm (not a thin-wall vessel)",
			dim.WallThicknessMM, dim.InnerRadiusMM)
	}

	if err := d.validateDome(); err != nil {
		return err
	}
	if err := d.validateLayup(); err != nil {
		return err
	}
	return d.validatePressures()
}

func (d *Design) validateDome() error {
	dome := d.Dome

	// Open interval: at 0 or 90 degrees the isotensoid meridian
	// r(alpha) = R0 sin(alpha0)/sin(alpha) and the slope -cot(alpha)
	// are singular.
	if dome.WindingAngleDeg <= 0 || dome.WindingAngleDeg >= 90 {
		return errors.New(errors.ErrCodeInvalidGeometry,
			"winding angle must lie strictly between 0 and 90 degrees, got %.2f", dome.WindingAngleDeg)
	}
	if dome.BossBoreMM <= 0 {
		return errors.New(errors.ErrCodeInvalidGeometry,
			"boss bore radius must be positive, got %.2f mm", dome.BossBoreMM)
	}
	if dome.BossBoreMM >= d.Dimensions.InnerRadiusMM {
		return errors.New(errors.ErrCodeInvalidGeometry,
			"boss bore radius %.2f mm must be smaller than cylinder radius %.2f mm",
			dome.BossBoreMM, d.Dimensions.InnerRadiusMM)
	}
	if dome.DepthMM <= 0 {
		return errors.New(errors.ErrCodeInvalidGeometry,
			"dome depth must be positive, got %.2f mm", dome.DepthMM)
	}
	return nil
}

func (d *Design) validateLayup() error {
	if len(d.Layup.Layers) == 0 {
		return errors.New(errors.ErrCodeInvalidLayup, "layup has no layers")
	}
	if d.Layup.LinerThicknessMM < 0 {
		return errors.New(errors.ErrCodeInvalidLayup,
			"liner thickness must be non-negative, got %.2f mm", d.Layup.LinerThicknessMM)
	}

	sum := d.Layup.LinerThicknessMM
	for i, l := range d.Layup.Layers {
		if l.Index != i+1 {
			return errors.New(errors.ErrCodeInvalidLayup,
				"layer at position %d has index %d, layers must be numbered 1..n innermost first", i, l.Index)
		}
		if l.Type != LayerHelical && l.Type != LayerHoop {
			return errors.New(errors.ErrCodeInvalidLayup,
				"layer %d has unknown type %q", l.Index, l.Type)
		}
		if l.ThicknessMM <= 0 {
			return errors.New(errors.ErrCodeInvalidLayup,
				"layer %d thickness must be positive, got %.3f mm", l.Index, l.ThicknessMM)
		}
		if l.AngleDeg < 0 || l.AngleDeg > 90 {
			return errors.New(errors.ErrCodeInvalidLayup,
				"layer %d angle %.1f outside [0, 90] degrees", l.Index, l.AngleDeg)
		}
		sum += l.ThicknessMM
	}

	// The stack should add up to the declared wall. Winding simulations
	// round ply thicknesses, so a modest mismatch is tolerated.
	wall := d.Dimensions.WallThicknessMM
	if wall > 0 && math.Abs(sum-wall)/wall > layupThicknessTolerance {
		return errors.New(errors.ErrCodeInvalidLayup,
			"layup stack %.2f mm (plies + liner) disagrees with wall thickness %.2f mm by more than %d%%",
			sum, wall, int(layupThicknessTolerance*100))
	}
	return nil
}

func (d *Design) validatePressures() error {
	for _, p := range []struct {
		name string
		bar  float64
	}{
		{"service", d.Pressures.ServiceBar},
		{"test", d.Pressures.TestBar},
		{"burst", d.Pressures.BurstBar},
	} {
		if p.bar <= 0 {
			return errors.New(errors.ErrCodeInvalidInput,
				"%s pressure must be positive, got %.1f bar", p.name, p.bar)
		}
		if p.bar > MaxPressureBar {
			return errors.New(errors.ErrCodeInvalidInput,
				"%s pressure %.0f bar exceeds the %.0f bar limit", p.name, p.bar, MaxPressureBar)
		}
	}
	if d.Pressures.BurstBar < d.Pressures.TestBar {
		return errors.New(errors.ErrCodeInvalidInput,
			"burst pressure %.0f bar below test pressure %.0f bar",
			d.Pressures.BurstBar, d.Pressures.TestBar)
	}
	return nil
}

// ParseLoadCase converts a query-string value into a LoadCase.
// An empty value defaults to the test case.
func ParseLoadCase(s string) (LoadCase, error) {
	switch s {
	case "", string(LoadCaseTest):
		return LoadCaseTest, nil
	case string(LoadCaseBurst):
		return LoadCaseBurst, nil
	}
	return "", errors.New(errors.ErrCodeInvalidQuery,
		"invalid load case %q (must be test or burst)", s)
}

// ParseStressType converts a query-string value into a StressType.
// An empty value defaults to von Mises.
func ParseStressType(s string) (StressType, error) {
	switch s {
	case "", string(StressVonMises):
		return StressVonMises, nil
	case string(StressHoop):
		return StressHoop, nil
	case string(StressAxial):
		return StressAxial, nil
	case string(StressShear):
		return StressShear, nil
	case string(StressTsaiWu):
		return StressTsaiWu, nil
	}
	return "", errors.New(errors.ErrCodeInvalidQuery,
		"invalid stress type %q (must be vonMises, hoop, axial, shear or tsaiWu)", s)
}
