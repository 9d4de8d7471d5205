package analysis

import (
	"github.com/proaptus/tanklab/pkg/laminate"
	"github.com/proaptus/tanklab/pkg/mesh"
	"github.com/proaptus/tanklab/pkg/physics"
	"github.com/proaptus/tanklab/pkg/vessel"
)

// StressResult is the complete response of one stress analysis. It is the
// canonical serialization format of the engine: the HTTP API returns it
// verbatim and the CLI renders its fields.
type StressResult struct {
	DesignID        string            `json:"design_id"`
	LoadCase        vessel.LoadCase   `json:"load_case"`
	LoadPressureBar float64           `json:"load_pressure_bar"`
	StressType      vessel.StressType `json:"stress_type"`

	MaxStress            MaxStress              `json:"max_stress"`
	StressConcentrations physics.Concentrations `json:"stress_concentrations"`
	CriticalLocations    []CriticalLocation     `json:"critical_locations"`
	StressPath           StressPath             `json:"stress_path"`
	ContourData          ContourData            `json:"contour_data"`
	PerLayerStress       []laminate.LayerStress `json:"per_layer_stress"`
	StressRatios         StressRatios           `json:"stress_ratios"`
}

// MaxStress locates and quantifies the governing stress of the analysis.
type MaxStress struct {
	ValueMPa      float64  `json:"value_mpa"`
	Location      Location `json:"location"`
	Region        string   `json:"region"`
	AllowableMPa  float64  `json:"allowable_mpa"`
	MarginPercent float64  `json:"margin_percent"`
}

// Location is a cylindrical-coordinate position on the vessel.
type Location struct {
	R     float64 `json:"r"`
	Z     float64 `json:"z"`
	Theta float64 `json:"theta"`
}

// CriticalLocation is one named checkpoint of the stress field.
type CriticalLocation struct {
	Name   string  `json:"name"`
	Z      float64 `json:"z"`
	R      float64 `json:"r"`
	Stress float64 `json:"stress"`
	IsMax  bool    `json:"is_max"`
}

// StressPath traces stress along characteristic curves of the vessel.
type StressPath struct {
	DomeProfile []PathPoint `json:"dome_profile"`
}

// PathPoint is one sample of a stress path.
type PathPoint struct {
	Z      float64 `json:"z"`
	Stress float64 `json:"stress"`
}

// ContourData carries the visualization payload: the triangulated 2D mesh,
// the revolved 3D mesh, and optionally the flat node projection consumed by
// the legacy contour renderer.
type ContourData struct {
	Type     string         `json:"type"`
	Colormap string         `json:"colormap"`
	MinValue float64        `json:"min_value"`
	MaxValue float64        `json:"max_value"`
	Mesh     *mesh.FEAMesh  `json:"mesh"`
	Mesh3D   *mesh.Mesh3D   `json:"mesh3D"`
	Flat     []ContourPoint `json:"flat,omitempty"`
}

// StressRatios reports the netting-theory validation ratio for the design.
type StressRatios struct {
	HoopToAxial        float64 `json:"hoop_to_axial"`
	NettingTheoryRatio float64 `json:"netting_theory_ratio"`
	DeviationPercent   float64 `json:"deviation_percent"`
}
