package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/proaptus/tanklab/pkg/analysis"
	"github.com/proaptus/tanklab/pkg/vessel"
)

// analyzeCommand creates the analyze command for running stress analyses.
func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		loadCase   string
		stressType string
		output     string
		flat       bool
		seed       uint64
	)

	cmd := &cobra.Command{
		Use:   "analyze [design.json]",
		Short: "Run a stress analysis on a vessel design",
		Long: `Run a stress analysis on a vessel design.

The analyze command takes a design.json file, computes the stress field over
the vessel wall, generates the finite element meshes, and evaluates per-ply
failure indices. The full result can be written to a JSON file with -o.

Load cases select the applied pressure: test (default) uses the test
pressure, burst uses the burst pressure. Stress types select the reported
component: vonMises (default), hoop, axial, shear, or tsaiWu.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd.Context(), args[0], loadCase, stressType, output, flat, seed)
		},
	}

	cmd.Flags().StringVarP(&loadCase, "load-case", "l", "", "load case: test (default), burst")
	cmd.Flags().StringVarP(&stressType, "type", "t", "", "stress type: vonMises (default), hoop, axial, shear, tsaiWu")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the full result to a JSON file")
	cmd.Flags().BoolVar(&flat, "flat", false, "include the flat contour projection in the output")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for per-ply scatter (0 = derived from the layup)")

	return cmd
}

// runAnalyze loads the design, runs the analysis, and prints a summary.
func (c *CLI) runAnalyze(ctx context.Context, input, loadCase, stressType, output string, flat bool, seed uint64) error {
	d, err := readDesignFile(input)
	if err != nil {
		return err
	}

	lc, err := vessel.ParseLoadCase(loadCase)
	if err != nil {
		return err
	}
	st, err := vessel.ParseStressType(stressType)
	if err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner := c.newRunner(cfg.Engine)

	prog := newProgress(loggerFromContext(ctx))
	res, err := runner.Stress(ctx, analysis.Request{
		Design:             d,
		LoadCase:           lc,
		StressType:         st,
		IncludeFlatContour: flat,
		Seed:               seed,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Analyzed %s", d.Name))

	printAnalysisSummary(res)

	if output != "" {
		if err := writeResultFile(res, output); err != nil {
			return err
		}
		printFile(output)
	}
	return nil
}

// printAnalysisSummary renders the headline numbers of a stress result.
func printAnalysisSummary(res *analysis.StressResult) {
	printNewline()
	fmt.Println(StyleTitle.Render("Stress Analysis"))
	printKeyValue("Load case", fmt.Sprintf("%s (%.0f bar)", res.LoadCase, res.LoadPressureBar))
	printKeyValue("Stress type", string(res.StressType))
	printKeyValue("Max stress", fmt.Sprintf("%.1f MPa in %s at z=%.1f mm",
		res.MaxStress.ValueMPa, res.MaxStress.Region, res.MaxStress.Location.Z))
	printKeyValue("Margin", formatMargin(res.MaxStress.MarginPercent))
	printKeyValue("Hoop/axial", fmt.Sprintf("%.2f (netting theory %.2f, deviation %.1f%%)",
		res.StressRatios.HoopToAxial, res.StressRatios.NettingTheoryRatio, res.StressRatios.DeviationPercent))

	printNewline()
	fmt.Println(StyleTitle.Render("Critical Locations"))
	for _, cl := range res.CriticalLocations {
		marker := " "
		if cl.IsMax {
			marker = StyleHighlight.Render(iconArrow)
		}
		fmt.Printf("%s %-26s %8.1f MPa  (z=%.0f, r=%.0f)\n",
			marker, strings.ReplaceAll(cl.Name, "_", " "), cl.Stress, cl.Z, cl.R)
	}

	printNewline()
	fmt.Println(StyleTitle.Render("Layup"))
	fmt.Println(renderLayerTable(res.PerLayerStress))

	if res.MaxStress.MarginPercent < 0 {
		printWarning("allowable exceeded at %s", res.MaxStress.Region)
	} else {
		printSuccess("design within allowable")
	}
}

// readDesignFile loads and validates a design from a JSON file.
func readDesignFile(path string) (*vessel.Design, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read design %s: %w", path, err)
	}
	var d vessel.Design
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse design %s: %w", path, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// writeResultFile writes an analysis result as indented JSON.
func writeResultFile(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write result %s: %w", path, err)
	}
	return nil
}
