package physics

import (
	"math"

	"github.com/proaptus/tanklab/pkg/vessel"
)

// Region classifies a point of the vessel for stress evaluation.
type Region string

const (
	RegionCylinder   Region = "cylinder"
	RegionTransition Region = "transition"
	RegionDome       Region = "dome"
	RegionBoss       Region = "boss"
)

// Region band fractions, expressed relative to the dome length. The
// transition band straddles the dome-cylinder junction; the boss band covers
// the last part of the dome around the polar opening.
const (
	transitionBandBefore = 0.10 // into the cylinder
	transitionBandAfter  = 0.20 // into the dome
	bossBandFrac         = 0.15

	cylinderBaseFactor = 0.70
	domeStartFactor    = 0.75
	domeEndFactor      = 0.95
	bossDecayRate      = 5.0
)

// Field evaluates the local stress at any (z, r) point of a design. It is
// the single source of truth for both the mesh generator and the flat
// contour projection, so the two visualizations can never diverge.
//
// A Field is immutable after construction and safe for concurrent use.
type Field struct {
	baseStressMPa float64
	conc          Concentrations

	innerRadius float64
	wall        float64
	cylLen      float64
	totalLen    float64
	domeLen     float64
	bossBore    float64
}

// NewField builds an evaluator for one design and one nominal stress level.
// baseStressMPa is the membrane stress the region factors scale (hoop, von
// Mises, ... depending on the requested stress type).
func NewField(d *vessel.Design, baseStressMPa float64, conc Concentrations) *Field {
	dim := d.Dimensions
	return &Field{
		baseStressMPa: baseStressMPa,
		conc:          conc,
		innerRadius:   dim.InnerRadiusMM,
		wall:          dim.WallThicknessMM,
		cylLen:        dim.CylinderLengthMM,
		totalLen:      dim.TotalLengthMM,
		domeLen:       dim.TotalLengthMM - dim.CylinderLengthMM,
		bossBore:      d.Dome.BossBoreMM,
	}
}

// Classify returns the region for an axial position z (mm, 0 at the far
// cylinder end, totalLen at the boss).
func (f *Field) Classify(z float64) Region {
	switch {
	case z >= f.totalLen-bossBandFrac*f.domeLen:
		return RegionBoss
	case z >= f.cylLen+transitionBandAfter*f.domeLen:
		return RegionDome
	case z >= f.cylLen-transitionBandBefore*f.domeLen:
		return RegionTransition
	default:
		return RegionCylinder
	}
}

// EvalAt returns the stress (MPa, rounded to the nearest integer) and region
// at axial position z and radial position r.
//
// The through-thickness multiplier runs from 1.0 at the inner fiber to 0.7
// at the outer fiber, so for a fixed z the stress never increases with r.
func (f *Field) EvalAt(z, r float64) (float64, Region) {
	region := f.Classify(z)
	factor := f.regionFactor(z, region)

	tm := 1.0 - 0.3*clamp((r-f.innerRadius)/f.wall, 0, 1)

	return math.Round(f.baseStressMPa * factor * tm), region
}

// regionFactor returns the dimensionless multiplier on the nominal stress
// for the given axial position.
func (f *Field) regionFactor(z float64, region Region) float64 {
	switch region {
	case RegionCylinder:
		return cylinderBaseFactor

	case RegionTransition:
		// Half-sine bump across the band, peaking at the transition SCF
		// over the junction itself.
		start := f.cylLen - transitionBandBefore*f.domeLen
		width := (transitionBandBefore + transitionBandAfter) * f.domeLen
		p := clamp((z-start)/width, 0, 1)
		return cylinderBaseFactor + (f.conc.Transition-cylinderBaseFactor)*math.Sin(math.Pi*p)

	case RegionDome:
		// Linear ramp through the dome body.
		start := f.cylLen + transitionBandAfter*f.domeLen
		end := f.totalLen - bossBandFrac*f.domeLen
		q := clamp((z-start)/(end-start), 0, 1)
		return domeStartFactor + (domeEndFactor-domeStartFactor)*q

	default: // RegionBoss
		// Exponential rise toward the boss SCF as the bore edge nears.
		band := bossBandFrac * f.domeLen
		dist := clamp(f.totalLen-z, 0, band)
		return domeEndFactor + (f.conc.Boss-domeEndFactor)*math.Exp(-bossDecayRate*dist/band)
	}
}

// BaseStress returns the nominal stress the field scales.
func (f *Field) BaseStress() float64 {
	return f.baseStressMPa
}

// BaseStressFor computes the nominal membrane stress (MPa) for a stress type
// from the design geometry and a load-case pressure in bar. Radius and
// thickness enter as a ratio, so millimetre inputs are used directly.
//
// The Tsai-Wu contour scales the von Mises membrane state; the failure index
// itself is a per-ply quantity computed by the laminate analyzer.
func BaseStressFor(d *vessel.Design, st vessel.StressType, pressureBar float64) float64 {
	p := BarToMPa(pressureBar)
	r := d.Dimensions.InnerRadiusMM
	t := d.Dimensions.WallThicknessMM

	hoop := HoopStress(p, r, t)
	switch st {
	case vessel.StressHoop:
		return hoop
	case vessel.StressAxial:
		return AxialStress(p, r, t)
	case vessel.StressShear:
		return MaxShear(hoop)
	default: // vonMises, tsaiWu
		return VonMises(hoop, AxialStress(p, r, t))
	}
}
