package physics

import (
	"github.com/proaptus/tanklab/pkg/vessel"
)

// Stress concentration factors for the three geometric discontinuities of a
// wound vessel. These are calibrated empirical multipliers, each clamped to
// an engineering-plausible range; the coefficients are policy constants kept
// bit-for-bit for regression parity with the measurement set.

// Clamp ranges for the concentration factors.
const (
	TransitionSCFMin = 1.5
	TransitionSCFMax = 2.5
	BossSCFMin       = 2.0
	BossSCFMax       = 3.5
	PlyDropSCFBase   = 1.2
	PlyDropSCFSpan   = 0.3
)

// defaultTransitionRadiusFrac derives a transition fillet radius from the
// cylinder radius when the design does not specify one.
const defaultTransitionRadiusFrac = 0.15

// TransitionSCF returns the concentration factor at the dome-cylinder
// junction. Larger transition fillets relieve the discontinuity.
func TransitionSCF(cylinderLength, transitionRadius, innerRadius float64) float64 {
	_ = cylinderLength // retained in the signature for calibration parity
	return clamp(2.5-transitionRadius/innerRadius, TransitionSCFMin, TransitionSCFMax)
}

// BossSCF returns the concentration factor at the polar boss bore. A smaller
// bore relative to the dome concentrates more load into the opening.
func BossSCF(bossBore, domeRadius float64) float64 {
	return clamp(2.0+1.5*(1-4*bossBore/(2*domeRadius)), BossSCFMin, BossSCFMax)
}

// PlyDropSCF returns the concentration factor at a ply termination.
// Bounded by construction to [1.2, 1.5] for dropped <= total.
func PlyDropSCF(layersDropped, totalLayers int) float64 {
	if totalLayers <= 0 {
		return PlyDropSCFBase
	}
	return PlyDropSCFBase + PlyDropSCFSpan*float64(layersDropped)/float64(totalLayers)
}

// PlyDrop records the concentration at one ply termination.
type PlyDrop struct {
	LayerIndex int     `json:"layer_index"`
	SCF        float64 `json:"scf"`
}

// Concentrations holds the per-design concentration factors. They are
// evaluated once per analysis and shared by the field evaluator and the
// mesh generator.
type Concentrations struct {
	Transition float64   `json:"dome_cylinder_transition"`
	Boss       float64   `json:"boss_interface"`
	PlyDrops   []PlyDrop `json:"ply_drops"`
}

// ConcentrationsFor evaluates all concentration factors for a design.
//
// Hoop plies do not carry over the dome; each hoop layer terminates near the
// transition and counts as a cumulative ply drop there.
func ConcentrationsFor(d *vessel.Design) Concentrations {
	dim := d.Dimensions

	transRadius := d.Dome.TransitionRadiusMM
	if transRadius <= 0 {
		transRadius = defaultTransitionRadiusFrac * dim.InnerRadiusMM
	}

	c := Concentrations{
		Transition: TransitionSCF(dim.CylinderLengthMM, transRadius, dim.InnerRadiusMM),
		Boss:       BossSCF(d.Dome.BossBoreMM, dim.InnerRadiusMM),
	}

	total := len(d.Layup.Layers)
	dropped := 0
	for _, l := range d.Layup.Layers {
		if l.Type != vessel.LayerHoop {
			continue
		}
		dropped++
		c.PlyDrops = append(c.PlyDrops, PlyDrop{
			LayerIndex: l.Index,
			SCF:        PlyDropSCF(dropped, total),
		})
	}
	return c
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
