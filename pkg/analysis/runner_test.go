package analysis

import (
	"context"
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/proaptus/tanklab/pkg/errors"
	"github.com/proaptus/tanklab/pkg/mesh"
	"github.com/proaptus/tanklab/pkg/reliability"
	"github.com/proaptus/tanklab/pkg/vessel"
)

func referenceDesign() *vessel.Design {
	layers := make([]vessel.Layer, 12)
	for i := range layers {
		typ := vessel.LayerHelical
		angle := 15.0
		if i%3 == 2 {
			typ = vessel.LayerHoop
			angle = 89.0
		}
		layers[i] = vessel.Layer{Index: i + 1, Type: typ, AngleDeg: angle, ThicknessMM: 2}
	}
	return &vessel.Design{
		ID:   "ref-tank",
		Name: "700 bar demonstrator",
		Dimensions: vessel.Dimensions{
			InnerRadiusMM:    175,
			OuterRadiusMM:    200,
			CylinderLengthMM: 1000,
			TotalLengthMM:    1400,
			WallThicknessMM:  25,
		},
		Dome: vessel.Dome{
			ProfileType:     vessel.ProfileIsotensoid,
			WindingAngleDeg: vessel.NettingAngleDeg,
			BossBoreMM:      40,
			DepthMM:         400,
		},
		Layup:     vessel.Layup{Layers: layers, LinerThicknessMM: 1},
		Pressures: vessel.Pressures{ServiceBar: 300, TestBar: 472, BurstBar: 708},
	}
}

func quietRunner() *Runner {
	return NewRunner(Config{}, log.New(io.Discard))
}

func TestStressResponseShape(t *testing.T) {
	r := quietRunner()
	res, err := r.Stress(context.Background(), Request{Design: referenceDesign()})
	if err != nil {
		t.Fatalf("Stress: %v", err)
	}

	if res.DesignID != "ref-tank" {
		t.Errorf("design_id = %q", res.DesignID)
	}
	if res.LoadCase != vessel.LoadCaseTest || res.LoadPressureBar != 472 {
		t.Errorf("load case defaults wrong: %v %v", res.LoadCase, res.LoadPressureBar)
	}
	if res.StressType != vessel.StressVonMises {
		t.Errorf("stress type default = %q", res.StressType)
	}

	if res.ContourData.Mesh == nil || res.ContourData.Mesh3D == nil {
		t.Fatal("contour meshes missing")
	}
	if res.ContourData.MinValue >= res.ContourData.MaxValue {
		t.Errorf("contour range [%v, %v]", res.ContourData.MinValue, res.ContourData.MaxValue)
	}
	if res.ContourData.Flat != nil {
		t.Error("flat contour should be opt-in")
	}

	if len(res.PerLayerStress) != 12 {
		t.Errorf("per-layer results = %d, want 12", len(res.PerLayerStress))
	}
	for i, ls := range res.PerLayerStress {
		if ls.Layer != i+1 {
			t.Fatalf("per-layer ordering broken at %d: layer %d", i, ls.Layer)
		}
	}

	if len(res.StressPath.DomeProfile) == 0 {
		t.Fatal("dome stress path missing")
	}
	for i := 1; i < len(res.StressPath.DomeProfile); i++ {
		if res.StressPath.DomeProfile[i].Z <= res.StressPath.DomeProfile[i-1].Z {
			t.Fatal("dome path z not ascending")
		}
	}

	if len(res.CriticalLocations) != 4 {
		t.Fatalf("critical locations = %d, want 4", len(res.CriticalLocations))
	}
	if res.StressConcentrations.Transition == 0 || res.StressConcentrations.Boss == 0 {
		t.Error("concentration factors missing")
	}
}

func TestStressRatiosNettingTheory(t *testing.T) {
	r := quietRunner()
	res, err := r.Stress(context.Background(), Request{Design: referenceDesign()})
	if err != nil {
		t.Fatalf("Stress: %v", err)
	}

	if math.Abs(res.StressRatios.HoopToAxial-2.0) > 1e-12 {
		t.Errorf("hoop/axial = %v, want exactly 2", res.StressRatios.HoopToAxial)
	}
	if res.StressRatios.NettingTheoryRatio != 2.0 {
		t.Errorf("netting ratio = %v", res.StressRatios.NettingTheoryRatio)
	}
	if res.StressRatios.DeviationPercent > 1e-9 {
		t.Errorf("deviation = %v%%", res.StressRatios.DeviationPercent)
	}
}

func TestMaxStressIsGoverning(t *testing.T) {
	r := quietRunner()
	res, err := r.Stress(context.Background(), Request{Design: referenceDesign()})
	if err != nil {
		t.Fatalf("Stress: %v", err)
	}

	for _, n := range res.ContourData.Mesh.Nodes {
		if n.Stress > res.MaxStress.ValueMPa {
			t.Fatalf("node %d stress %v exceeds reported max %v", n.ID, n.Stress, res.MaxStress.ValueMPa)
		}
	}
	if res.MaxStress.ValueMPa != res.ContourData.MaxValue {
		t.Errorf("max stress %v != contour max %v", res.MaxStress.ValueMPa, res.ContourData.MaxValue)
	}

	// The boss bore edge governs this geometry.
	if res.MaxStress.Region != "boss" {
		t.Errorf("governing region = %q, want boss", res.MaxStress.Region)
	}

	// Margin against the default allowable.
	want := math.Round(100 * (DefaultAllowableMPa - res.MaxStress.ValueMPa) / DefaultAllowableMPa)
	if res.MaxStress.MarginPercent != want {
		t.Errorf("margin = %v, want %v", res.MaxStress.MarginPercent, want)
	}

	// Exactly the locations matching the max are flagged.
	for _, cl := range res.CriticalLocations {
		if cl.IsMax && cl.Stress < res.MaxStress.ValueMPa {
			t.Errorf("%s flagged as max at %v MPa", cl.Name, cl.Stress)
		}
	}
}

func TestStressDeterminism(t *testing.T) {
	r := quietRunner()
	a, err := r.Stress(context.Background(), Request{Design: referenceDesign()})
	if err != nil {
		t.Fatalf("Stress: %v", err)
	}
	b, err := r.Stress(context.Background(), Request{Design: referenceDesign()})
	if err != nil {
		t.Fatalf("Stress: %v", err)
	}

	if a.MaxStress != b.MaxStress {
		t.Error("max stress differs across identical requests")
	}
	for i := range a.PerLayerStress {
		if a.PerLayerStress[i] != b.PerLayerStress[i] {
			t.Fatalf("per-layer stress differs at ply %d", i+1)
		}
	}
}

func TestBurstCaseScalesStress(t *testing.T) {
	r := quietRunner()
	test, _ := r.Stress(context.Background(), Request{Design: referenceDesign()})
	burst, err := r.Stress(context.Background(), Request{Design: referenceDesign(), LoadCase: vessel.LoadCaseBurst})
	if err != nil {
		t.Fatalf("Stress(burst): %v", err)
	}

	if burst.LoadPressureBar != 708 {
		t.Errorf("burst pressure = %v", burst.LoadPressureBar)
	}
	if burst.MaxStress.ValueMPa <= test.MaxStress.ValueMPa {
		t.Errorf("burst max %v should exceed test max %v", burst.MaxStress.ValueMPa, test.MaxStress.ValueMPa)
	}
}

func TestFlatContourProjection(t *testing.T) {
	r := quietRunner()
	res, err := r.Stress(context.Background(), Request{Design: referenceDesign(), IncludeFlatContour: true})
	if err != nil {
		t.Fatalf("Stress: %v", err)
	}

	flat := res.ContourData.Flat
	m := res.ContourData.Mesh
	if len(flat) != len(m.Nodes) {
		t.Fatalf("flat contour has %d points, mesh has %d nodes", len(flat), len(m.Nodes))
	}
	// Pure projection: identical coordinates and stresses, no re-evaluation.
	for i, p := range flat {
		n := m.Nodes[i]
		if p.R != n.R || p.Z != n.Z || p.Stress != n.Stress {
			t.Fatalf("flat point %d diverges from mesh node", i)
		}
		if p.Region == "" {
			t.Fatalf("flat point %d missing region", i)
		}
	}
}

func TestStressRejectsInvalidDesign(t *testing.T) {
	r := quietRunner()

	d := referenceDesign()
	d.Dome.WindingAngleDeg = 90
	if _, err := r.Stress(context.Background(), Request{Design: d}); !errors.Is(err, errors.ErrCodeInvalidGeometry) {
		t.Errorf("want INVALID_GEOMETRY, got %v", err)
	}

	if _, err := r.Stress(context.Background(), Request{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("nil design: want INVALID_INPUT, got %v", err)
	}
}

func TestReliabilityDefaultsFromDesign(t *testing.T) {
	r := quietRunner()
	res, err := r.Reliability(context.Background(), referenceDesign(), reliability.Options{Samples: 20_000, Seed: 7})
	if err != nil {
		t.Fatalf("Reliability: %v", err)
	}

	if res.Samples != 20_000 {
		t.Errorf("samples = %d", res.Samples)
	}
	// 330 MPa stress against 900 MPa strength: failure is vanishingly rare.
	if res.PFailure > 0.001 {
		t.Errorf("p_failure = %v", res.PFailure)
	}

	// Reproducible across calls.
	res2, _ := r.Reliability(context.Background(), referenceDesign(), reliability.Options{Samples: 20_000, Seed: 7})
	if res.PFailure != res2.PFailure || res.Burst.MeanBar != res2.Burst.MeanBar {
		t.Error("reliability results differ for identical inputs")
	}
}

func TestConfigSlices(t *testing.T) {
	r := NewRunner(Config{Slices: 8}, log.New(io.Discard))
	res, err := r.Stress(context.Background(), Request{Design: referenceDesign()})
	if err != nil {
		t.Fatalf("Stress: %v", err)
	}
	if res.ContourData.Mesh3D.Slices != 8 {
		t.Errorf("slices = %d, want 8", res.ContourData.Mesh3D.Slices)
	}
	if res.ContourData.Mesh3D.Slices == mesh.DefaultSlices {
		t.Error("config slices not applied")
	}
}
