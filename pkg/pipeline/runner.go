package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/treescope/treescope/pkg/cache"
	"github.com/treescope/treescope/pkg/tree"
	"github.com/treescope/treescope/pkg/tree/layout"
	"github.com/treescope/treescope/pkg/treeio"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete scan → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Scan
	scanStart := time.Now()
	root, scanHit, err := r.ScanWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	result.Tree = root
	result.Stats.ScanTime = time.Since(scanStart)
	result.Stats.NodeCount = root.Count()
	result.CacheInfo.ScanHit = scanHit

	// Tree hash identifies the scanned structure for cache keys and
	// API responses.
	if treeData, err := treeio.Marshal(root, layout.Space{}); err == nil {
		result.TreeHash = cache.Hash(treeData)
	}

	r.Logger.Info("scanned filesystem",
		"root", opts.Root,
		"nodes", result.Stats.NodeCount,
		"duration", result.Stats.ScanTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	space, layoutHit, err := r.LayoutWithCacheInfo(ctx, root, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Space = space
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.LeafCount = space.TotalLeaves
	result.Stats.Depth = space.TotalLevels - 1
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"leaves", space.TotalLeaves,
		"levels", space.TotalLevels,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, root, space, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ScanWithCacheInfo builds the tree with caching and returns cache hit info.
// Scanned trees carry a short TTL because the filesystem may change.
func (r *Runner) ScanWithCacheInfo(ctx context.Context, opts Options) (*tree.Node, bool, error) {
	if err := opts.ValidateForScan(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Absolute path so the key is stable across working directories.
	root := opts.Root
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	cacheKey := r.Keyer.ScanKey(root)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, _, err := treeio.Unmarshal(data); err == nil {
				return cached, true, nil // Cache hit
			}
		}
	}

	// Scan
	node, err := Scan(ctx, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := treeio.Marshal(node, layout.Space{}); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLScan)
	}

	return node, false, nil // Cache miss
}

// Scan is a convenience wrapper that calls ScanWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Scan(ctx context.Context, opts Options) (*tree.Node, error) {
	node, _, err := r.ScanWithCacheInfo(ctx, opts)
	return node, err
}

// LayoutWithCacheInfo computes the layout with caching and returns cache
// hit info. On a cache hit the positions are written into root from the
// cached copy, so the caller's tree is always the positioned one.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, root *tree.Node, opts Options) (layout.Space, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Space{}, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from the unpositioned structure
	treeData, err := treeio.Marshal(root, layout.Space{})
	if err != nil {
		return layout.Space{}, false, fmt.Errorf("serialize tree for cache key: %w", err)
	}
	treeHash := cache.Hash(treeData)
	cacheKey := r.Keyer.LayoutKey(treeHash, opts.LayoutKeyOpts())

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		cached, space, err := treeio.Unmarshal(data)
		if err == nil && copyPositions(root, cached) {
			return space, true, nil // Cache hit
		}
		// If deserialization fails, fall through to recompute
	}

	// Compute layout
	space, err := ComputeLayout(root, opts)
	if err != nil {
		return layout.Space{}, false, err
	}

	// Cache the result
	if data, err := treeio.Marshal(root, space); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
	}

	return space, false, nil // Cache miss
}

// ComputeLayout is a convenience wrapper that calls LayoutWithCacheInfo
// and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, root *tree.Node, opts Options) (layout.Space, error) {
	space, _, err := r.LayoutWithCacheInfo(ctx, root, opts)
	return space, err
}

// copyPositions transfers positions and leaf counts from src onto dst.
// Returns false when the shapes differ, which means the cached layout
// belongs to a different tree and must be discarded.
func copyPositions(dst, src *tree.Node) bool {
	if dst.Name != src.Name || len(dst.Children) != len(src.Children) {
		return false
	}
	dst.X, dst.Y, dst.LeafCount = src.X, src.Y, src.LeafCount
	for i := range dst.Children {
		if !copyPositions(dst.Children[i], src.Children[i]) {
			return false
		}
	}
	return true
}

// RenderWithCacheInfo generates artifacts with caching and returns cache
// hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, root *tree.Node, space layout.Space, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from the positioned tree
	layoutData, err := treeio.Marshal(root, space)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil // All artifacts from cache
	}

	// Render all formats
	rendered, err := RenderFromLayout(ctx, root, space, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, root *tree.Node, space layout.Space, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, root, space, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
