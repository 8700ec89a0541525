package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/treescope/treescope/pkg/pipeline"
	"github.com/treescope/treescope/pkg/tree/layout"
	"github.com/treescope/treescope/pkg/treeio"
)

// scanCommand creates the scan command for building tree snapshots.
func (c *CLI) scanCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a directory into a tree snapshot",
		Long: `Scan a directory into a tree snapshot.

The scan command walks the filesystem under the given directory and writes
the resulting tree as a tree.json file. Entries that cannot be read are
logged and skipped, so scanning restricted trees still produces output.

Scan results are cached briefly; use --refresh to force a rescan.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Root = args[0]
			return c.runScan(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: tree.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "rescan even when a cached tree exists")

	return cmd
}

// runScan builds the tree and writes the snapshot.
func (c *CLI) runScan(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Scanning "+opts.Root+"...")
	spinner.Start()

	root, cacheHit, err := runner.ScanWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Scan failed")
		return fmt.Errorf("scan %s: %w", opts.Root, err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if output == "" {
		output = "tree.json"
	}
	if err := treeio.ExportJSON(root, layout.Space{}, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Scan complete")
	printFile(output)
	printStats(root.Count(), 0, cacheHit)
	printNewline()
	printNextStep("Layout", "treescope layout "+output)

	return nil
}
