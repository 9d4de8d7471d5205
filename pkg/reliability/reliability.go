// Package reliability estimates burst probability for a vessel design by
// Monte Carlo sampling of the stress-strength interference model.
//
// Stress and strength are treated as independent Gaussians parameterized by
// their means and coefficients of variation. Paired samples come from a
// Box-Muller transform over a seeded PCG generator, so runs are reproducible
// per seed: identical inputs and seed produce bit-identical failure
// probabilities and histograms.
//
// The reliability index beta = -Phi^-1(p_failure) uses a rational
// approximation of the inverse standard-normal CDF accurate to ~1e-9, which
// is far below the Monte Carlo noise floor at any practical sample count.
package reliability

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/proaptus/tanklab/pkg/errors"
)

// Sampling defaults and limits.
const (
	DefaultSamples = 100_000
	MaxSamples     = 2_000_000

	// DefaultBurstRatio scales the test pressure to the nominal burst
	// pressure (2.25 safety factor over 1.5 test factor).
	DefaultBurstRatio = 1.5

	// HistogramBins is the burst-pressure histogram resolution.
	HistogramBins = 20

	// sensitivityPerturbation is the relative bump applied to each COV for
	// one-at-a-time sensitivity estimates.
	sensitivityPerturbation = 0.10
)

const seedScramble = 0x9e3779b97f4a7c15

// Options parameterizes one reliability run.
type Options struct {
	// DesignStressMPa is the mean applied stress at the governing location.
	DesignStressMPa float64

	// StrengthMPa is the mean material strength.
	StrengthMPa float64

	// StrengthCOV and StressCOV are the coefficients of variation.
	StrengthCOV float64
	StressCOV   float64

	// Samples is the Monte Carlo sample count; 0 means DefaultSamples.
	Samples int

	// Seed drives the generator; 0 derives a deterministic seed from the
	// sample count so repeated calls stay reproducible.
	Seed uint64

	// TestPressureBar and BurstRatio scale the burst-pressure distribution.
	TestPressureBar float64
	BurstRatio      float64
}

// ValidateAndSetDefaults checks required fields and applies defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.DesignStressMPa <= 0 {
		return errors.New(errors.ErrCodeInvalidInput,
			"design stress must be positive, got %.2f MPa", o.DesignStressMPa)
	}
	if o.StrengthMPa <= 0 {
		return errors.New(errors.ErrCodeInvalidInput,
			"strength must be positive, got %.2f MPa", o.StrengthMPa)
	}
	if o.StrengthCOV < 0 || o.StrengthCOV > 1 {
		return errors.New(errors.ErrCodeInvalidInput,
			"strength COV %.3f outside [0, 1]", o.StrengthCOV)
	}
	if o.StressCOV < 0 || o.StressCOV > 1 {
		return errors.New(errors.ErrCodeInvalidInput,
			"stress COV %.3f outside [0, 1]", o.StressCOV)
	}
	if o.Samples < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "sample count must be non-negative")
	}
	if o.Samples == 0 {
		o.Samples = DefaultSamples
	}
	if o.Samples > MaxSamples {
		o.Samples = MaxSamples
	}
	if o.TestPressureBar <= 0 {
		return errors.New(errors.ErrCodeInvalidInput,
			"test pressure must be positive, got %.2f bar", o.TestPressureBar)
	}
	if o.BurstRatio <= 0 {
		o.BurstRatio = DefaultBurstRatio
	}
	if o.Seed == 0 {
		o.Seed = uint64(o.Samples)
	}
	return nil
}

// Distribution summarizes the burst-pressure sample set.
type Distribution struct {
	MeanBar   float64        `json:"mean_bar"`
	StdBar    float64        `json:"std_bar"`
	P5Bar     float64        `json:"p5_bar"`
	P95Bar    float64        `json:"p95_bar"`
	Histogram []HistogramBin `json:"histogram"`
}

// HistogramBin is one bar of the burst distribution histogram.
type HistogramBin struct {
	LowBar  float64 `json:"low_bar"`
	HighBar float64 `json:"high_bar"`
	Count   int     `json:"count"`
}

// Sensitivity reports how the estimate responds to one input, from a
// one-at-a-time perturbation re-run with the same seed.
type Sensitivity struct {
	Parameter     string  `json:"parameter"`
	Delta         float64 `json:"delta"`           // applied perturbation of the parameter
	Gradient      float64 `json:"gradient"`        // d(mean burst bar) / d(parameter)
	PFailureShift float64 `json:"p_failure_shift"` // change in p_failure at the perturbed value
}

// Result is the outcome of a reliability run.
type Result struct {
	Samples     int           `json:"samples"`
	Seed        uint64        `json:"seed"`
	PFailure    float64       `json:"p_failure"`
	Beta        float64       `json:"beta"`
	Burst       Distribution  `json:"burst_distribution"`
	Sensitivity []Sensitivity `json:"sensitivity"`
}

// Run executes the Monte Carlo estimate.
func Run(opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	res := simulate(opts)

	// One-at-a-time sensitivities on the two COVs, re-running with the same
	// seed so the gradient is not drowned in sampling noise.
	res.Sensitivity = []Sensitivity{
		sensitivityOf(opts, "strength_cov", func(o *Options, d float64) { o.StrengthCOV += d }, opts.StrengthCOV, res),
		sensitivityOf(opts, "stress_cov", func(o *Options, d float64) { o.StressCOV += d }, opts.StressCOV, res),
	}
	return res, nil
}

// simulate runs the core sampling loop for one option set.
func simulate(opts Options) *Result {
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^seedScramble))

	stressStd := opts.DesignStressMPa * opts.StressCOV
	strengthStd := opts.StrengthMPa * opts.StrengthCOV

	n := opts.Samples
	failures := 0
	burst := make([]float64, n)

	meanBurstBar := opts.TestPressureBar * opts.BurstRatio
	for i := 0; i < n; i++ {
		z0, z1 := boxMuller(rng)
		stress := opts.DesignStressMPa + stressStd*z0
		strength := opts.StrengthMPa + strengthStd*z1
		if stress > strength {
			failures++
		}
		// Burst pressure scales with the sampled strength ratio.
		burst[i] = meanBurstBar * strength / opts.StrengthMPa
	}

	p := float64(failures) / float64(n)
	return &Result{
		Samples:  n,
		Seed:     opts.Seed,
		PFailure: p,
		Beta:     betaFromP(p, n),
		Burst:    summarize(burst),
	}
}

func sensitivityOf(base Options, name string, bump func(*Options, float64), current float64, baseline *Result) Sensitivity {
	delta := current * sensitivityPerturbation
	if delta == 0 {
		delta = 0.01
	}
	perturbed := base
	bump(&perturbed, delta)
	// Same seed: the perturbation, not the noise, drives the difference.
	r := simulate(perturbed)
	return Sensitivity{
		Parameter:     name,
		Delta:         delta,
		Gradient:      (r.Burst.MeanBar - baseline.Burst.MeanBar) / delta,
		PFailureShift: r.PFailure - baseline.PFailure,
	}
}

// boxMuller draws one pair of independent standard normal deviates.
func boxMuller(rng *rand.Rand) (float64, float64) {
	var u1 float64
	for u1 == 0 {
		u1 = rng.Float64()
	}
	u2 := rng.Float64()
	r := math.Sqrt(-2 * math.Log(u1))
	return r * math.Cos(2*math.Pi*u2), r * math.Sin(2*math.Pi*u2)
}

// betaFromP converts a failure probability to the reliability index
// beta = -Phi^-1(p). A zero estimate is continuity-corrected to 1/(2n)
// so beta stays finite.
func betaFromP(p float64, n int) float64 {
	if p <= 0 {
		p = 1 / (2 * float64(n))
	}
	if p >= 1 {
		return math.Inf(-1)
	}
	return -inverseNormalCDF(p)
}

func summarize(samples []float64) Distribution {
	n := len(samples)

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)

	variance := 0.0
	for _, v := range samples {
		d := v - mean
		variance += d * d
	}
	std := math.Sqrt(variance / float64(n))

	sorted := make([]float64, n)
	copy(sorted, samples)
	sort.Float64s(sorted)

	d := Distribution{
		MeanBar: mean,
		StdBar:  std,
		P5Bar:   percentile(sorted, 0.05),
		P95Bar:  percentile(sorted, 0.95),
	}

	low, high := sorted[0], sorted[n-1]
	width := (high - low) / HistogramBins
	if width == 0 {
		d.Histogram = []HistogramBin{{LowBar: low, HighBar: high, Count: n}}
		return d
	}
	bins := make([]HistogramBin, HistogramBins)
	for i := range bins {
		bins[i].LowBar = low + float64(i)*width
		bins[i].HighBar = low + float64(i+1)*width
	}
	for _, v := range samples {
		idx := int((v - low) / width)
		if idx >= HistogramBins {
			idx = HistogramBins - 1
		}
		bins[idx].Count++
	}
	d.Histogram = bins
	return d
}

// percentile reads the q-quantile from pre-sorted samples by linear
// interpolation between the flanking order statistics.
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	f := pos - float64(lo)
	return sorted[lo]*(1-f) + sorted[lo+1]*f
}
