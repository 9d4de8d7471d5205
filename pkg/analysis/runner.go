// Package analysis orchestrates the full stress computation: validation,
// concentration factors, stress field, mesh generation, per-ply analysis,
// and response assembly.
//
// The Runner is the engine's single entry point for both the HTTP API and
// the CLI, so the two surfaces can never produce diverging results. It is
// stateless apart from its configuration and logger; concurrent analyses
// never interfere and identical inputs yield identical results.
package analysis

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/proaptus/tanklab/pkg/errors"
	"github.com/proaptus/tanklab/pkg/laminate"
	"github.com/proaptus/tanklab/pkg/mesh"
	"github.com/proaptus/tanklab/pkg/observability"
	"github.com/proaptus/tanklab/pkg/physics"
	"github.com/proaptus/tanklab/pkg/reliability"
	"github.com/proaptus/tanklab/pkg/vessel"
)

// Engine defaults, overridable through configuration.
const (
	// DefaultAllowableMPa is the fiber-direction allowable for a cured
	// carbon/epoxy laminate at design temperature.
	DefaultAllowableMPa = 1500.0

	// DefaultStrengthMPa and the COVs parameterize the reliability model.
	DefaultStrengthMPa = 900.0
	DefaultStrengthCOV = 0.08
	DefaultStressCOV   = 0.05

	// DefaultColormap is the contour colormap hint passed to clients.
	DefaultColormap = "viridis"
)

// Config carries the engine's tunable material and mesh parameters.
// The zero value is usable: missing fields fall back to the defaults above.
type Config struct {
	AllowableMPa float64 // laminate fiber-direction allowable
	StrengthMPa  float64 // mean burst strength for reliability
	StrengthCOV  float64
	StressCOV    float64
	Slices       int     // circumferential resolution of the 3D mesh
	BurstRatio   float64 // burst pressure / test pressure
}

func (c Config) withDefaults() Config {
	if c.AllowableMPa <= 0 {
		c.AllowableMPa = DefaultAllowableMPa
	}
	if c.StrengthMPa <= 0 {
		c.StrengthMPa = DefaultStrengthMPa
	}
	if c.StrengthCOV <= 0 {
		c.StrengthCOV = DefaultStrengthCOV
	}
	if c.StressCOV <= 0 {
		c.StressCOV = DefaultStressCOV
	}
	if c.Slices <= 0 {
		c.Slices = mesh.DefaultSlices
	}
	if c.BurstRatio <= 0 {
		c.BurstRatio = reliability.DefaultBurstRatio
	}
	return c
}

// Request describes one stress analysis.
type Request struct {
	Design     *vessel.Design
	LoadCase   vessel.LoadCase
	StressType vessel.StressType

	// IncludeFlatContour adds the legacy flat projection to the response.
	IncludeFlatContour bool

	// Seed drives the per-ply scatter; 0 keeps the design-derived default.
	Seed uint64
}

// Runner executes analyses. Safe for concurrent use.
type Runner struct {
	cfg    Config
	logger *log.Logger
}

// NewRunner creates a runner with the given configuration.
// A nil logger falls back to the package default.
func NewRunner(cfg Config, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{cfg: cfg.withDefaults(), logger: logger}
}

// Stress runs the complete analysis pipeline for one request.
func (r *Runner) Stress(ctx context.Context, req Request) (*StressResult, error) {
	designID := ""
	if req.Design != nil {
		designID = req.Design.ID
	}
	observability.Analysis().OnStressStart(ctx, designID, string(req.LoadCase))

	start := time.Now()
	res, err := r.stress(ctx, req)

	loadCase := string(req.LoadCase)
	var maxMPa float64
	if res != nil {
		loadCase = string(res.LoadCase)
		maxMPa = res.MaxStress.ValueMPa
	}
	observability.Analysis().OnStressComplete(ctx, designID, loadCase, maxMPa, time.Since(start), err)
	return res, err
}

func (r *Runner) stress(ctx context.Context, req Request) (*StressResult, error) {
	if req.Design == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no design given")
	}
	if err := req.Design.Validate(); err != nil {
		return nil, err
	}
	if req.LoadCase == "" {
		req.LoadCase = vessel.LoadCaseTest
	}
	if req.StressType == "" {
		req.StressType = vessel.StressVonMises
	}

	d := req.Design
	pressureBar := d.PressureBar(req.LoadCase)

	// Stage 1: concentrations and the stress field.
	start := time.Now()
	conc := physics.ConcentrationsFor(d)
	base := physics.BaseStressFor(d, req.StressType, pressureBar)
	field := physics.NewField(d, base, conc)
	r.logger.Debug("stress field ready",
		"design", d.ID,
		"base_mpa", base,
		"transition_scf", conc.Transition,
		"boss_scf", conc.Boss)

	// Stage 2: meshes.
	meshStart := time.Now()
	gen := mesh.NewGenerator(d, field)
	m2, err := gen.Build2D()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeComputeFault, err, "building 2D mesh for %s", d.ID)
	}
	m3, err := gen.Revolve(m2, r.cfg.Slices)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeComputeFault, err, "revolving mesh for %s", d.ID)
	}
	r.logger.Info("meshed design",
		"design", d.ID,
		"nodes", len(m2.Nodes),
		"elements_3d", len(m3.Elements),
		"duration", time.Since(meshStart).Round(time.Millisecond))

	// Stage 3: per-ply stresses.
	plies, err := laminate.Analyze(d, laminate.Options{
		MaxStressMPa: physics.HoopStress(physics.BarToMPa(pressureBar), d.Dimensions.InnerRadiusMM, d.Dimensions.WallThicknessMM),
		AllowableMPa: r.cfg.AllowableMPa,
		Seed:         req.Seed,
	})
	if err != nil {
		return nil, err
	}

	// Stage 4: assemble the response.
	res := &StressResult{
		DesignID:             d.ID,
		LoadCase:             req.LoadCase,
		LoadPressureBar:      pressureBar,
		StressType:           req.StressType,
		StressConcentrations: conc,
		PerLayerStress:       plies,
		StressRatios:         r.stressRatios(d, pressureBar),
	}
	res.MaxStress = r.maxStress(m2, field)
	res.CriticalLocations = r.criticalLocations(d, field, res.MaxStress)
	res.StressPath, err = r.domePath(d, field)
	if err != nil {
		return nil, err
	}

	min, max := m2.StressRange()
	res.ContourData = ContourData{
		Type:     string(req.StressType),
		Colormap: DefaultColormap,
		MinValue: min,
		MaxValue: max,
		Mesh:     m2,
		Mesh3D:   m3,
	}
	if req.IncludeFlatContour {
		res.ContourData.Flat = FlatContour(m2)
	}

	r.logger.Info("analysis complete",
		"design", d.ID,
		"load_case", req.LoadCase,
		"stress_type", req.StressType,
		"max_mpa", res.MaxStress.ValueMPa,
		"duration", time.Since(start).Round(time.Millisecond))

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return res, nil
}

// Reliability runs the Monte Carlo burst estimate for a design. The design
// stress is the governing hoop stress at test pressure; material parameters
// come from the runner configuration unless the options override them.
func (r *Runner) Reliability(ctx context.Context, d *vessel.Design, opts reliability.Options) (*reliability.Result, error) {
	designID := ""
	if d != nil {
		designID = d.ID
	}
	observability.Analysis().OnReliabilityStart(ctx, designID, opts.Samples)

	start := time.Now()
	res, err := r.reliability(ctx, d, opts)

	samples := opts.Samples
	if res != nil {
		samples = res.Samples
	}
	observability.Analysis().OnReliabilityComplete(ctx, designID, samples, time.Since(start), err)
	return res, err
}

func (r *Runner) reliability(ctx context.Context, d *vessel.Design, opts reliability.Options) (*reliability.Result, error) {
	if d == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no design given")
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	if opts.DesignStressMPa <= 0 {
		opts.DesignStressMPa = physics.HoopStress(
			physics.BarToMPa(d.Pressures.TestBar),
			d.Dimensions.InnerRadiusMM,
			d.Dimensions.WallThicknessMM)
	}
	if opts.StrengthMPa <= 0 {
		opts.StrengthMPa = r.cfg.StrengthMPa
	}
	if opts.StrengthCOV == 0 {
		opts.StrengthCOV = r.cfg.StrengthCOV
	}
	if opts.StressCOV == 0 {
		opts.StressCOV = r.cfg.StressCOV
	}
	if opts.TestPressureBar <= 0 {
		opts.TestPressureBar = d.Pressures.TestBar
	}
	if opts.BurstRatio <= 0 {
		opts.BurstRatio = r.cfg.BurstRatio
	}

	start := time.Now()
	res, err := reliability.Run(opts)
	if err != nil {
		return nil, err
	}
	r.logger.Info("reliability estimate",
		"design", d.ID,
		"samples", res.Samples,
		"p_failure", res.PFailure,
		"beta", res.Beta,
		"duration", time.Since(start).Round(time.Millisecond))

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return res, nil
}

// maxStress scans the mesh for the governing node.
func (r *Runner) maxStress(m *mesh.FEAMesh, field *physics.Field) MaxStress {
	var best mesh.Node
	for _, n := range m.Nodes {
		if n.Stress > best.Stress {
			best = n
		}
	}
	_, region := field.EvalAt(best.Z, best.R)
	return MaxStress{
		ValueMPa:      best.Stress,
		Location:      Location{R: best.R, Z: best.Z, Theta: 0},
		Region:        string(region),
		AllowableMPa:  r.cfg.AllowableMPa,
		MarginPercent: math.Round(100 * (r.cfg.AllowableMPa - best.Stress) / r.cfg.AllowableMPa),
	}
}

// criticalLocations samples the field at the named checkpoints every report
// carries: cylinder midspan, the transition band center, the dome body, and
// the boss bore edge.
func (r *Runner) criticalLocations(d *vessel.Design, field *physics.Field, max MaxStress) []CriticalLocation {
	dim := d.Dimensions
	domeLen := dim.TotalLengthMM - dim.CylinderLengthMM
	ri := dim.InnerRadiusMM

	checkpoints := []struct {
		name string
		z, r float64
	}{
		{"cylinder_midspan", dim.CylinderLengthMM / 2, ri},
		{"dome_cylinder_transition", dim.CylinderLengthMM + 0.05*domeLen, ri},
		{"dome_body", dim.CylinderLengthMM + 0.6*domeLen, ri},
		{"boss_edge", dim.TotalLengthMM, d.Dome.BossBoreMM},
	}

	out := make([]CriticalLocation, len(checkpoints))
	for i, cp := range checkpoints {
		stress, _ := field.EvalAt(cp.z, cp.r)
		out[i] = CriticalLocation{
			Name:   cp.name,
			Z:      cp.z,
			R:      cp.r,
			Stress: stress,
			IsMax:  stress >= max.ValueMPa,
		}
	}
	return out
}

// domePath traces the stress along the dome meridian, reported in global
// axial coordinates ascending from the junction toward the boss.
func (r *Runner) domePath(d *vessel.Design, field *physics.Field) (StressPath, error) {
	profile, err := physics.ProfileFor(d)
	if err != nil {
		return StressPath{}, err
	}
	dim := d.Dimensions
	domeLen := dim.TotalLengthMM - dim.CylinderLengthMM
	depth := profile[len(profile)-1].ZMM
	if depth <= 0 {
		return StressPath{}, errors.New(errors.ErrCodeComputeFault,
			"dome profile for %s has non-positive depth", d.ID)
	}

	// Profile runs apex -> junction; walk it backwards so z ascends.
	points := make([]PathPoint, 0, len(profile))
	for i := len(profile) - 1; i >= 0; i-- {
		p := profile[i]
		z := dim.CylinderLengthMM + (1-p.ZMM/depth)*domeLen
		stress, _ := field.EvalAt(z, p.RMM)
		points = append(points, PathPoint{Z: z, Stress: stress})
	}
	return StressPath{DomeProfile: points}, nil
}

// stressRatios computes the netting-theory validation block.
func (r *Runner) stressRatios(d *vessel.Design, pressureBar float64) StressRatios {
	p := physics.BarToMPa(pressureBar)
	hoop := physics.HoopStress(p, d.Dimensions.InnerRadiusMM, d.Dimensions.WallThicknessMM)
	axial := physics.AxialStress(p, d.Dimensions.InnerRadiusMM, d.Dimensions.WallThicknessMM)
	ratio := hoop / axial
	return StressRatios{
		HoopToAxial:        ratio,
		NettingTheoryRatio: 2.0,
		DeviationPercent:   math.Abs(ratio-2.0) / 2.0 * 100,
	}
}
