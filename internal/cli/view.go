package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/treescope/treescope/pkg/pipeline"
)

// viewCommand creates the view command, the interactive terminal explorer.
func (c *CLI) viewCommand() *cobra.Command {
	var noCache bool
	opts := pipeline.Options{}
	c.setOptionDefaults(&opts)

	cmd := &cobra.Command{
		Use:   "view [path]",
		Short: "Explore a directory tree interactively",
		Long: `Explore a directory tree interactively.

The view command scans the directory, computes the layout, and opens a
full-screen viewer. Pan with the arrow keys (or hjkl), zoom with + and -,
and click a node (or press enter) to select the one nearest the pointer.
The selection shows the node's name and how many leaves live below it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Root = args[0]
			return c.runView(cmd.Context(), opts, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "rescan even when a cached tree exists")
	cmd.Flags().Float64Var(&opts.YScale, "y-scale", opts.YScale, "vertical stretch factor")

	return cmd
}

// runView scans and lays out the tree, then hands it to the viewer.
func (c *CLI) runView(ctx context.Context, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Preparing "+opts.Root+"...")
	spinner.Start()

	root, _, err := runner.ScanWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Scan failed")
		return fmt.Errorf("scan %s: %w", opts.Root, err)
	}
	space, _, err := runner.LayoutWithCacheInfo(ctx, root, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	p := tea.NewProgram(newViewModel(root, space),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("viewer: %w", err)
	}
	return nil
}
