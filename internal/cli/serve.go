package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/treescope/treescope/internal/server"
	"github.com/treescope/treescope/pkg/cache"
	"github.com/treescope/treescope/pkg/pipeline"
	"github.com/treescope/treescope/pkg/tree/layout"
	"github.com/treescope/treescope/pkg/treeio"
)

// serveCommand creates the serve command exposing a tree over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)
	opts := pipeline.Options{}
	c.setOptionDefaults(&opts)

	cmd := &cobra.Command{
		Use:   "serve [path]",
		Short: "Serve a scanned tree over HTTP",
		Long: `Serve a scanned tree over HTTP.

The serve command scans the directory once at startup, computes the layout,
and serves it read-only: the positioned tree as JSON, nearest-node queries,
and a rendered SVG. Restart the server to pick up filesystem changes.

Endpoints:
  GET /healthz              liveness and tree hash
  GET /api/tree             the positioned tree
  GET /api/layout           layout constants and statistics
  GET /api/nearest?x=&y=    node closest to a world-space point
  GET /render.svg           rendered picture`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Root = args[0]
			return c.runServe(cmd.Context(), opts, addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "rescan even when a cached tree exists")

	// Layout flags
	cmd.Flags().Float64Var(&opts.YScale, "y-scale", opts.YScale, "vertical stretch factor")
	cmd.Flags().Float64Var(&opts.ViewportHeight, "viewport-height", opts.ViewportHeight, "viewer frame height in world units")
	cmd.Flags().Float64Var(&opts.Padding, "padding", opts.Padding, "horizontal padding per leaf slot")
	cmd.Flags().BoolVar(&opts.Labels, "labels", opts.Labels, "draw node labels in the SVG")
	cmd.Flags().Float64Var(&opts.TextSize, "text-size", opts.TextSize, "label font size in world units")

	return cmd
}

// runServe scans and lays out the tree, then blocks serving it until the
// context is cancelled.
func (c *CLI) runServe(ctx context.Context, opts pipeline.Options, addr string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	root, _, err := runner.ScanWithCacheInfo(ctx, opts)
	if err != nil {
		return fmt.Errorf("scan %s: %w", opts.Root, err)
	}
	space, _, err := runner.LayoutWithCacheInfo(ctx, root, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	result := &pipeline.Result{Tree: root, Space: space}
	if data, err := treeio.Marshal(root, layout.Space{}); err == nil {
		result.TreeHash = cache.Hash(data)
	}

	srv := server.New(result, opts, c.Logger)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	printSuccess("Serving %s", opts.Root)
	printDetail("Address: http://localhost%s", addr)
	printStats(root.Count(), space.TotalLeaves, false)

	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return ctx.Err()
}
