// Package pipeline provides the core visualization pipeline for Treescope.
//
// This package implements the complete scan → layout → render pipeline that
// can be used by CLI, viewer, and server components. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Scan: Walk the filesystem and build the tree
//  2. Layout: Aggregate leaf counts and compute world-space positions
//  3. Render: Generate output in various formats (SVG, PNG, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Root:    "/home/alice/project",
//	    Labels:  true,
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Scan only
//	root, err := runner.Scan(ctx, opts)
//
//	// Layout with existing tree
//	space, err := runner.ComputeLayout(ctx, root, opts)
//
//	// Render with existing layout
//	artifacts, err := runner.Render(ctx, root, space, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/treescope/treescope/pkg/cache"
	"github.com/treescope/treescope/pkg/errors"
	"github.com/treescope/treescope/pkg/render"
	"github.com/treescope/treescope/pkg/tree"
	"github.com/treescope/treescope/pkg/tree/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, Viewer, and Server
// =============================================================================

const (
	// DefaultYScale is the vertical stretch factor applied to row spacing.
	DefaultYScale = 1.0

	// DefaultViewportHeight is the viewer frame height in world units.
	DefaultViewportHeight = 800.0

	// DefaultPadding is the horizontal padding added to each leaf slot.
	DefaultPadding = 10.0

	// DefaultTextSize is the label font size in world units.
	DefaultTextSize = 20.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Scan options
	Root    string `json:"root"`
	Refresh bool   `json:"refresh,omitempty"`

	// Layout options
	YScale         float64 `json:"y_scale,omitempty"`
	ViewportHeight float64 `json:"viewport_height,omitempty"`
	Padding        float64 `json:"padding,omitempty"`
	Labels         bool    `json:"labels,omitempty"`
	TextSize       float64 `json:"text_size,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the scanned and positioned tree.
	Tree *tree.Node

	// TreeHash is the content hash of the scanned tree before layout.
	TreeHash string

	// Space contains the layout constants used for positioning.
	Space layout.Space

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	LeafCount  int
	Depth      int
	ScanTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ScanHit   bool // Whether the scanned tree came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForScan(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForScan checks required fields for scanning.
func (o *Options) ValidateForScan() error {
	if o.Root == "" {
		return errors.New(errors.ErrCodeInvalidInput, "root path is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.YScale == 0 {
		o.YScale = DefaultYScale
	}
	if o.ViewportHeight == 0 {
		o.ViewportHeight = DefaultViewportHeight
	}
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
	if o.TextSize == 0 {
		o.TextSize = DefaultTextSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.YScale < 0 {
		return errors.New(errors.ErrCodeInvalidScale, "y scale must be positive, got %v", o.YScale)
	}
	if o.ViewportHeight < 0 {
		return errors.New(errors.ErrCodeInvalidScale, "viewport height must be positive, got %v", o.ViewportHeight)
	}
	if o.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidScale, "padding must be positive, got %v", o.Padding)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// Measure returns the label measurement hook for layout, or nil when
// labels are disabled. Slot widths with labels off depend on padding only.
func (o *Options) Measure() layout.MeasureFunc {
	if !o.Labels {
		return nil
	}
	return render.TextMeasure(o.TextSize)
}

// LayoutConfig returns the layout configuration derived from the options.
func (o *Options) LayoutConfig() layout.Config {
	return layout.Config{
		YScale:         o.YScale,
		ViewportHeight: o.ViewportHeight,
		Padding:        o.Padding,
		Measure:        o.Measure(),
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		YScale:         o.YScale,
		ViewportHeight: o.ViewportHeight,
		Padding:        o.Padding,
		Labels:         o.Labels,
		TextSize:       o.TextSize,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Labels: o.Labels,
	}
}
