package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/treescope/treescope/pkg/pipeline"
	"github.com/treescope/treescope/pkg/treeio"
)

// layoutCommand creates the layout command for computing positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}
	c.setOptionDefaults(&opts)

	cmd := &cobra.Command{
		Use:   "layout [tree.json]",
		Short: "Compute world-space positions for a scanned tree",
		Long: `Compute world-space positions for a scanned tree.

The layout command takes a tree.json file (produced by 'scan') and assigns
every node a position: leaves side by side in fixed-width slots, parents
centered over their children, one row per depth level. The output is a
layout.json file that can be rendered with 'visualize' or explored with
'view'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Layout flags
	cmd.Flags().Float64Var(&opts.YScale, "y-scale", opts.YScale, "vertical stretch factor")
	cmd.Flags().Float64Var(&opts.ViewportHeight, "viewport-height", opts.ViewportHeight, "viewer frame height in world units")
	cmd.Flags().Float64Var(&opts.Padding, "padding", opts.Padding, "horizontal padding per leaf slot")
	cmd.Flags().BoolVar(&opts.Labels, "labels", opts.Labels, "reserve slot space for node labels")
	cmd.Flags().Float64Var(&opts.TextSize, "text-size", opts.TextSize, "label font size in world units")

	return cmd
}

// runLayout loads the tree, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	root, _, err := treeio.ImportJSON(input)
	if err != nil {
		return fmt.Errorf("load tree %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	space, cacheHit, err := runner.LayoutWithCacheInfo(ctx, root, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := treeio.ExportJSON(root, space, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(root.Count(), space.TotalLeaves, cacheHit)
	printNewline()
	printNextStep("Render", "treescope visualize "+outputPath)

	return nil
}
