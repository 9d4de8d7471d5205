// Package vessel defines the tank design data model shared by the analysis
// engine, the HTTP API, and the design stores.
//
// A Design is the immutable input record for every computation: geometry,
// dome parameters, composite layup, and rated pressures. Designs are created
// by an external design-generation service and are read-only inside this
// engine; no function in this module mutates a Design after construction.
//
// All lengths are millimetres and all pressures are bar unless a field name
// says otherwise. The physics package converts to MPa/consistent units at its
// boundary.
package vessel

import (
	"time"
)

// =============================================================================
// Constants
// =============================================================================

// Layer types.
const (
	LayerHelical = "helical"
	LayerHoop    = "hoop"
)

// Dome profile types.
const (
	ProfileIsotensoid    = "isotensoid"
	ProfileHemispherical = "hemispherical"
)

// NettingAngleDeg is the classical netting-theory winding angle for a
// cylindrical filament-wound vessel (arctan sqrt(2)).
const NettingAngleDeg = 54.74

// MaxPressureBar bounds rated pressures. The previous generation of this
// engine accepted 9999 bar designs without complaint; anything above this is
// a data-entry error, not a tank.
const MaxPressureBar = 2000.0

// layupThicknessTolerance is the accepted relative mismatch between the layup
// stack (plies + liner) and the declared wall thickness.
const layupThicknessTolerance = 0.15

// =============================================================================
// Design - Immutable Input Record
// =============================================================================

// Design describes one candidate tank. The struct is the canonical
// serialization format for the API and all store backends.
type Design struct {
	ID         string     `json:"id" bson:"id"`
	Name       string     `json:"name,omitempty" bson:"name,omitempty"`
	Dimensions Dimensions `json:"dimensions" bson:"dimensions"`
	Dome       Dome       `json:"dome" bson:"dome"`
	Layup      Layup      `json:"layup" bson:"layup"`
	Pressures  Pressures  `json:"pressures" bson:"pressures"`
	CreatedAt  time.Time  `json:"created_at,omitempty" bson:"created_at,omitempty"`
}

// Dimensions holds the principal geometry of the vessel.
type Dimensions struct {
	InnerRadiusMM    float64 `json:"inner_radius_mm" bson:"inner_radius_mm"`
	OuterRadiusMM    float64 `json:"outer_radius_mm" bson:"outer_radius_mm"`
	CylinderLengthMM float64 `json:"cylinder_length_mm" bson:"cylinder_length_mm"`
	TotalLengthMM    float64 `json:"total_length_mm" bson:"total_length_mm"`
	WallThicknessMM  float64 `json:"wall_thickness_mm" bson:"wall_thickness_mm"`
}

// Dome describes the end-cap geometry and winding parameters.
type Dome struct {
	ProfileType     string  `json:"profile_type" bson:"profile_type"`
	WindingAngleDeg float64 `json:"winding_angle_deg" bson:"winding_angle_deg"`
	BossBoreMM      float64 `json:"boss_bore_mm" bson:"boss_bore_mm"` // bore radius
	BossODMM        float64 `json:"boss_od_mm,omitempty" bson:"boss_od_mm,omitempty"`
	DepthMM         float64 `json:"depth_mm" bson:"depth_mm"`
	// TransitionRadiusMM is the fillet radius at the dome-cylinder junction.
	// Zero means "not specified"; the concentration model derives a default
	// from the cylinder radius.
	TransitionRadiusMM float64        `json:"transition_radius_mm,omitempty" bson:"transition_radius_mm,omitempty"`
	Profile            []ProfilePoint `json:"profile,omitempty" bson:"profile,omitempty"` // optional precomputed meridian
}

// ProfilePoint is one meridian sample of the dome, apex first.
type ProfilePoint struct {
	RMM float64 `json:"r_mm" bson:"r_mm"`
	ZMM float64 `json:"z_mm" bson:"z_mm"`
}

// Layup is the ordered composite stack. Layer index 1 is innermost.
type Layup struct {
	Layers              []Layer `json:"layers" bson:"layers"`
	LinerThicknessMM    float64 `json:"liner_thickness_mm" bson:"liner_thickness_mm"`
	FiberVolumeFraction float64 `json:"fiber_volume_fraction,omitempty" bson:"fiber_volume_fraction,omitempty"`
}

// Layer is one composite ply. Order in the layup is significant.
type Layer struct {
	Index       int     `json:"index" bson:"index"` // 1-based, innermost first
	Type        string  `json:"type" bson:"type"`   // helical | hoop
	AngleDeg    float64 `json:"angle_deg" bson:"angle_deg"`
	ThicknessMM float64 `json:"thickness_mm" bson:"thickness_mm"`
	Coverage    float64 `json:"coverage,omitempty" bson:"coverage,omitempty"`
}

// Pressures holds the rated pressure set in bar.
type Pressures struct {
	ServiceBar float64 `json:"service_bar" bson:"service_bar"`
	TestBar    float64 `json:"test_bar" bson:"test_bar"`
	BurstBar   float64 `json:"burst_bar" bson:"burst_bar"`
}

// =============================================================================
// Load Cases and Stress Types
// =============================================================================

// LoadCase selects which rated pressure drives an analysis.
type LoadCase string

const (
	LoadCaseTest  LoadCase = "test"
	LoadCaseBurst LoadCase = "burst"
)

// StressType selects the scalar plotted on contours and reported as maximum.
type StressType string

const (
	StressVonMises StressType = "vonMises"
	StressHoop     StressType = "hoop"
	StressAxial    StressType = "axial"
	StressShear    StressType = "shear"
	StressTsaiWu   StressType = "tsaiWu"
)

// PressureBar returns the pressure for the load case, in bar.
func (d *Design) PressureBar(lc LoadCase) float64 {
	if lc == LoadCaseBurst {
		return d.Pressures.BurstBar
	}
	return d.Pressures.TestBar
}

// LayerCount returns the number of plies in the layup.
func (d *Design) LayerCount() int {
	return len(d.Layup.Layers)
}
