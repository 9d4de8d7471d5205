package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/proaptus/tanklab/pkg/reliability"
)

// reliabilityCommand creates the reliability command for Monte Carlo burst
// estimates.
func (c *CLI) reliabilityCommand() *cobra.Command {
	var (
		samples int
		seed    uint64
		output  string
	)

	cmd := &cobra.Command{
		Use:   "reliability [design.json]",
		Short: "Estimate burst reliability via Monte Carlo simulation",
		Long: `Estimate burst reliability via Monte Carlo simulation.

The reliability command samples material strength and applied stress from
normal distributions around the design point, counts failure events, and
reports the failure probability, the reliability index beta, the burst
pressure distribution, and one-at-a-time sensitivities to the input
scatter.

Runs are reproducible: the same design, sample count, and seed always give
the same estimate.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReliability(cmd.Context(), args[0], samples, seed, output)
		},
	}

	cmd.Flags().IntVarP(&samples, "samples", "n", 0, "Monte Carlo sample count (0 = default)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 = derived from the sample count)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the full result to a JSON file")

	return cmd
}

// runReliability loads the design, runs the simulation, and prints a summary.
func (c *CLI) runReliability(ctx context.Context, input string, samples int, seed uint64, output string) error {
	d, err := readDesignFile(input)
	if err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner := c.newRunner(cfg.Engine)

	spinner := newSpinnerWithContext(ctx, "Running Monte Carlo simulation...")
	spinner.Start()

	res, err := runner.Reliability(ctx, d, reliability.Options{Samples: samples, Seed: seed})
	if err != nil {
		spinner.StopWithError("Simulation failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Simulated %d samples", res.Samples))

	if spinner.Cancelled() {
		return ctx.Err()
	}

	printReliabilitySummary(res)

	if output != "" {
		if err := writeResultFile(res, output); err != nil {
			return err
		}
		printFile(output)
	}
	return nil
}

// printReliabilitySummary renders the headline numbers of a reliability run.
func printReliabilitySummary(res *reliability.Result) {
	printNewline()
	fmt.Println(StyleTitle.Render("Burst Reliability"))
	printKeyValue("Samples", fmt.Sprintf("%d (seed %d)", res.Samples, res.Seed))
	printKeyValue("P(failure)", fmt.Sprintf("%.2e", res.PFailure))
	printKeyValue("Beta", fmt.Sprintf("%.2f", res.Beta))

	printNewline()
	fmt.Println(StyleTitle.Render("Burst Pressure"))
	printKeyValue("Mean", fmt.Sprintf("%.0f bar", res.Burst.MeanBar))
	printKeyValue("Std dev", fmt.Sprintf("%.0f bar", res.Burst.StdBar))
	printKeyValue("P5 / P95", fmt.Sprintf("%.0f / %.0f bar", res.Burst.P5Bar, res.Burst.P95Bar))

	if len(res.Sensitivity) > 0 {
		printNewline()
		fmt.Println(StyleTitle.Render("Sensitivity"))
		for _, s := range res.Sensitivity {
			printDetail("%-14s %+.2e p_failure shift at +%.3f",
				s.Parameter, s.PFailureShift, s.Delta)
		}
	}
	printNewline()
}
