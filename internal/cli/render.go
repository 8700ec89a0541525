package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/treescope/treescope/pkg/pipeline"
)

// renderCommand creates the render command, the one-shot path from a
// directory to visual output.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}
	c.setOptionDefaults(&opts)

	cmd := &cobra.Command{
		Use:   "render [path]",
		Short: "Scan, lay out, and render a directory in one step",
		Long: `Scan, lay out, and render a directory in one step.

The render command runs the complete pipeline: it scans the directory,
computes the layout, and writes the rendered output files. Every stage is
cached independently, so re-rendering with different formats reuses the
scan and layout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Root = args[0]
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "rescan even when a cached tree exists")

	// Layout flags
	cmd.Flags().Float64Var(&opts.YScale, "y-scale", opts.YScale, "vertical stretch factor")
	cmd.Flags().Float64Var(&opts.ViewportHeight, "viewport-height", opts.ViewportHeight, "viewer frame height in world units")
	cmd.Flags().Float64Var(&opts.Padding, "padding", opts.Padding, "horizontal padding per leaf slot")
	cmd.Flags().BoolVar(&opts.Labels, "labels", opts.Labels, "draw node labels")
	cmd.Flags().Float64Var(&opts.TextSize, "text-size", opts.TextSize, "label font size in world units")

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")

	return cmd
}

// runRender executes the full pipeline and writes artifacts.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering "+opts.Root+"...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	// Default output base is the directory's own name.
	input := filepath.Base(strings.TrimRight(opts.Root, string(filepath.Separator)))
	if input == "" || input == "." {
		input = "tree"
	}

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input + ".out",
		output:    output,
		nodeCount: result.Stats.NodeCount,
		leafCount: result.Stats.LeafCount,
		cacheHit:  result.CacheInfo.RenderHit,
	})
}

// artifactWriteParams bundles the inputs for writeArtifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string // used to derive the default output base
	output    string
	nodeCount int
	leafCount int
	cacheHit  bool
}

// writeArtifacts writes each rendered format to disk and prints a summary.
// With a single format and an explicit --output, the file goes exactly
// there; otherwise each format gets <base>.<format>.
func writeArtifacts(p artifactWriteParams) error {
	base := p.output
	if base == "" {
		base = strings.TrimSuffix(p.input, filepath.Ext(p.input))
	}

	printSuccess("Render complete")
	for _, format := range p.formats {
		path := base + "." + format
		if len(p.formats) == 1 && p.output != "" {
			path = p.output
		}
		if err := os.WriteFile(path, p.artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(p.nodeCount, p.leafCount, p.cacheHit)

	return nil
}
