package physics

import (
	"math"
	"testing"

	"github.com/proaptus/tanklab/pkg/vessel"
)

func TestTransitionSCFBounds(t *testing.T) {
	tests := []struct {
		name             string
		transRadius, rIn float64
		want             float64
	}{
		{"TinyFilletClampsHigh", 0, 175, 2.5},
		{"ModerateFillet", 87.5, 175, 2.0},
		{"GenerousFilletClampsLow", 175, 175, 1.5},
		{"BeyondClampStaysLow", 350, 175, 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TransitionSCF(1000, tt.transRadius, tt.rIn)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("TransitionSCF = %v, want %v", got, tt.want)
			}
			if got < TransitionSCFMin || got > TransitionSCFMax {
				t.Errorf("TransitionSCF = %v outside [%v, %v]", got, TransitionSCFMin, TransitionSCFMax)
			}
		})
	}
}

func TestBossSCFReferenceCase(t *testing.T) {
	// 40 mm bore radius against a 175 mm dome radius.
	got := BossSCF(40, 175)
	want := 2.0 + 1.5*(1-4*40.0/(2*175.0))
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("BossSCF(40, 175) = %v, want %v", got, want)
	}
	if want < 2.8 || want > 2.82 {
		t.Errorf("reference boss SCF drifted: %v", want)
	}
}

func TestBossSCFBounds(t *testing.T) {
	// Sweep bore radii; factor must stay in [2.0, 3.5].
	for bore := 1.0; bore < 175; bore += 3 {
		got := BossSCF(bore, 175)
		if got < BossSCFMin || got > BossSCFMax {
			t.Fatalf("BossSCF(%v, 175) = %v outside [%v, %v]", bore, got, BossSCFMin, BossSCFMax)
		}
	}
	// Wide bores relieve the opening down to the clamp floor.
	if got := BossSCF(170, 175); got != BossSCFMin {
		t.Errorf("BossSCF(170, 175) = %v, want clamp floor %v", got, BossSCFMin)
	}
}

func TestPlyDropSCF(t *testing.T) {
	tests := []struct {
		dropped, total int
		want           float64
	}{
		{0, 12, 1.2},
		{6, 12, 1.35},
		{12, 12, 1.5},
		{0, 0, 1.2}, // degenerate layup falls back to the base factor
	}
	for _, tt := range tests {
		got := PlyDropSCF(tt.dropped, tt.total)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("PlyDropSCF(%d, %d) = %v, want %v", tt.dropped, tt.total, got, tt.want)
		}
	}
}

func TestConcentrationsFor(t *testing.T) {
	d := &vessel.Design{
		Dimensions: vessel.Dimensions{
			InnerRadiusMM:    175,
			OuterRadiusMM:    200,
			CylinderLengthMM: 1000,
			TotalLengthMM:    1400,
			WallThicknessMM:  25,
		},
		Dome: vessel.Dome{WindingAngleDeg: 54.74, BossBoreMM: 40, DepthMM: 200},
		Layup: vessel.Layup{Layers: []vessel.Layer{
			{Index: 1, Type: vessel.LayerHelical, AngleDeg: 15, ThicknessMM: 6},
			{Index: 2, Type: vessel.LayerHoop, AngleDeg: 89, ThicknessMM: 6},
			{Index: 3, Type: vessel.LayerHelical, AngleDeg: 25, ThicknessMM: 6},
			{Index: 4, Type: vessel.LayerHoop, AngleDeg: 89, ThicknessMM: 6},
		}},
	}

	c := ConcentrationsFor(d)

	// Default fillet of 0.15*175 mm gives 2.5 - 0.15 = 2.35.
	if math.Abs(c.Transition-2.35) > 1e-12 {
		t.Errorf("Transition = %v, want 2.35", c.Transition)
	}
	if math.Abs(c.Boss-BossSCF(40, 175)) > 1e-12 {
		t.Errorf("Boss = %v, want %v", c.Boss, BossSCF(40, 175))
	}

	// One drop entry per hoop ply, counting cumulatively.
	if len(c.PlyDrops) != 2 {
		t.Fatalf("PlyDrops len = %d, want 2", len(c.PlyDrops))
	}
	if c.PlyDrops[0].LayerIndex != 2 || math.Abs(c.PlyDrops[0].SCF-PlyDropSCF(1, 4)) > 1e-12 {
		t.Errorf("first drop = %+v", c.PlyDrops[0])
	}
	if c.PlyDrops[1].LayerIndex != 4 || math.Abs(c.PlyDrops[1].SCF-PlyDropSCF(2, 4)) > 1e-12 {
		t.Errorf("second drop = %+v", c.PlyDrops[1])
	}

	// Explicit fillet overrides the derived default.
	d.Dome.TransitionRadiusMM = 175
	if c := ConcentrationsFor(d); c.Transition != 1.5 {
		t.Errorf("explicit fillet Transition = %v, want 1.5", c.Transition)
	}
}
