// Package laminate derives per-ply stress components and Tsai-Wu failure
// indices for a composite layup.
//
// The model is a load-sharing approximation, not classical lamination
// theory: the fiber-direction stress scales the nominal membrane stress by a
// through-stack multiplier (inner plies carry more load) and a fiber-angle
// effect, while the transverse and shear components carry reproducible
// ply-to-ply scatter from a seeded generator. Results are ordered exactly
// like the input layup.
//
// # Reproducibility
//
// Scatter comes from a PCG generator (math/rand/v2). The seed is part of the
// public contract: pass 0 to derive it deterministically from the layup
// (layer count), which makes repeated calls for the same design identical,
// or pass an explicit seed for independent sampling.
package laminate

import (
	"math"
	"math/rand/v2"

	"github.com/proaptus/tanklab/pkg/errors"
	"github.com/proaptus/tanklab/pkg/vessel"
)

// Load-sharing model constants.
const (
	// Inner plies see the full multiplier span; the outermost ply carries
	// baseShare of the nominal stress.
	baseShare = 0.70
	shareSpan = 0.30

	// Helical plies are discounted as their angle leaves the hoop
	// direction.
	helicalEffectBase = 0.90
	helicalEffectSpan = 0.10

	// Transverse and shear scatter fractions of the fiber stress.
	transverseFraction = 0.05
	shearFraction      = 0.03

	// Tsai-Wu scatter band around the nominal strength ratio.
	tsaiWuScatterMin = 0.95
	tsaiWuScatterMax = 1.05
)

// seedScramble decorrelates the two PCG streams derived from one seed.
const seedScramble = 0x9e3779b97f4a7c15

// LayerStress is the per-ply result. Ordering matches the input layup.
type LayerStress struct {
	Layer         int     `json:"layer"`
	Type          string  `json:"type"`
	AngleDeg      float64 `json:"angle_deg"`
	Sigma1        float64 `json:"sigma1_mpa"` // fiber direction
	Sigma2        float64 `json:"sigma2_mpa"` // transverse
	Tau12         float64 `json:"tau12_mpa"`  // in-plane shear
	TsaiWu        float64 `json:"tsai_wu"`    // failure index, >= 1 predicts failure
	MarginPercent float64 `json:"margin_percent"`
}

// Options configures an analysis.
type Options struct {
	// MaxStressMPa is the nominal membrane stress the plies share.
	MaxStressMPa float64

	// AllowableMPa is the fiber-direction allowable for margins and the
	// Tsai-Wu denominator.
	AllowableMPa float64

	// Seed for ply scatter; 0 derives the seed from the layer count.
	Seed uint64
}

// Analyze computes per-ply stresses for a design's layup.
//
// Layer position runs i/L with i 1-based: the innermost ply (i=1) carries
// multiplier baseShare + shareSpan*(1-1/L) and the outermost exactly
// baseShare.
func Analyze(d *vessel.Design, opts Options) ([]LayerStress, error) {
	layers := d.Layup.Layers
	if len(layers) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidLayup, "layup has no layers")
	}
	if opts.MaxStressMPa <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"nominal stress must be positive, got %.2f MPa", opts.MaxStressMPa)
	}
	if opts.AllowableMPa <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"allowable stress must be positive, got %.2f MPa", opts.AllowableMPa)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = uint64(len(layers))
	}
	rng := rand.New(rand.NewPCG(seed, seed^seedScramble))

	total := float64(len(layers))
	out := make([]LayerStress, len(layers))
	for i, l := range layers {
		position := float64(i+1) / total
		multiplier := baseShare + shareSpan*(1-position)

		sigma1 := opts.MaxStressMPa * multiplier * fiberAngleEffect(l)

		// Reproducible ply-to-ply scatter for the secondary components.
		sigma2 := sigma1 * transverseFraction * (0.5 + rng.Float64())
		tau12 := sigma1 * shearFraction * (0.5 + rng.Float64())
		scatter := tsaiWuScatterMin + (tsaiWuScatterMax-tsaiWuScatterMin)*rng.Float64()

		out[i] = LayerStress{
			Layer:         l.Index,
			Type:          l.Type,
			AngleDeg:      l.AngleDeg,
			Sigma1:        sigma1,
			Sigma2:        sigma2,
			Tau12:         tau12,
			TsaiWu:        sigma1 / opts.AllowableMPa * scatter,
			MarginPercent: math.Round(100 * (opts.AllowableMPa - sigma1) / opts.AllowableMPa),
		}
	}
	return out, nil
}

// fiberAngleEffect discounts helical plies slightly as their winding angle
// deviates from the hoop direction; hoop plies carry the full effect.
func fiberAngleEffect(l vessel.Layer) float64 {
	if l.Type == vessel.LayerHoop {
		return 1.0
	}
	return helicalEffectBase + helicalEffectSpan*math.Sin(l.AngleDeg*math.Pi/180)
}

// WorstPly returns the result with the highest Tsai-Wu index, or nil for an
// empty slice.
func WorstPly(results []LayerStress) *LayerStress {
	var worst *LayerStress
	for i := range results {
		if worst == nil || results[i].TsaiWu > worst.TsaiWu {
			worst = &results[i]
		}
	}
	return worst
}
