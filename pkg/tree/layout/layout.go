// Package layout assigns world-space positions to a scanned tree.
//
// The geometry is deliberately simple and stable under zoom: every leaf
// owns a fixed-width horizontal slot in traversal order, every depth level
// sits on its own horizontal line, and every parent is centered between
// its first and last child. The whole tree spans exactly
// TotalLeaves * SlotWidth horizontally.
package layout

import (
	"github.com/treescope/treescope/pkg/tree"
)

// Defaults mirror the renderer-facing constants: a viewer viewport of
// 800 units and 10 units of horizontal padding per slot.
const (
	DefaultViewportHeight = 800.0
	DefaultPadding        = 10.0
	DefaultYScale         = 1.0
)

// MeasureFunc returns the rendered width of a label in world units.
// It is supplied by the rendering collaborator; the layout itself never
// measures text.
type MeasureFunc func(label string) float64

// Config carries the caller-supplied layout inputs. The zero value is
// usable: every field falls back to a sane default in [NewSpace].
type Config struct {
	// YScale stretches the vertical axis. Must be positive; non-positive
	// values fall back to DefaultYScale.
	YScale float64

	// ViewportHeight is the renderer's frame height in world units.
	ViewportHeight float64

	// Padding is added to the widest label to form the slot width. It is
	// also the entire slot width when no labels are measured, so leaves
	// never collapse onto the same x.
	Padding float64

	// Measure computes label widths. Nil means labels are not drawn and
	// Padding alone sizes the slots.
	Measure MeasureFunc
}

// Space holds the derived layout constants shared by position assignment
// and spatial queries.
type Space struct {
	SlotWidth   float64 `json:"slot_width"`
	YSpacing    float64 `json:"y_spacing"`
	TotalLeaves int     `json:"total_leaves"`
	TotalLevels int     `json:"total_levels"`
}

// Extent returns the total horizontal span of the laid-out tree.
func (s Space) Extent() float64 {
	return float64(s.TotalLeaves) * s.SlotWidth
}

// NewSpace derives the layout constants for a tree with the given leaf and
// depth totals (as returned by [tree.Aggregate]).
//
// Degenerate trees are clamped rather than rejected: a single-node tree is
// treated as one leaf on one level, so the division for YSpacing is always
// well-defined.
func NewSpace(root *tree.Node, totalLeaves, maxDepth int, cfg Config) Space {
	if totalLeaves < 1 {
		totalLeaves = 1
	}
	totalLevels := maxDepth + 1
	if totalLevels < 1 {
		totalLevels = 1
	}

	if cfg.YScale <= 0 {
		cfg.YScale = DefaultYScale
	}
	if cfg.ViewportHeight <= 0 {
		cfg.ViewportHeight = DefaultViewportHeight
	}
	if cfg.Padding <= 0 {
		cfg.Padding = DefaultPadding
	}

	return Space{
		SlotWidth:   MaxLabelWidth(root, cfg.Measure) + cfg.Padding,
		YSpacing:    cfg.YScale * cfg.ViewportHeight / float64(totalLevels),
		TotalLeaves: totalLeaves,
		TotalLevels: totalLevels,
	}
}

// MaxLabelWidth returns the widest measured label in the tree, walking an
// explicit worklist. Returns 0 when measure is nil (labels not drawn).
func MaxLabelWidth(root *tree.Node, measure MeasureFunc) float64 {
	if root == nil || measure == nil {
		return 0
	}

	var widest float64
	stack := []*tree.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if w := measure(n.Name); w > widest {
			widest = w
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return widest
}

// Assign writes world-space positions into the tree, depth-first and left
// to right:
//
//   - every node: Y = depth * YSpacing
//   - leaf: X = (leafIndex + 0.5) * SlotWidth, centering it in its slot
//   - internal node: children first, then X = (firstChild.X + lastChild.X) / 2
//
// A parent is centered between its first and last child, not the mean
// over all children.
//
// Postconditions: leaves get strictly increasing X exactly SlotWidth
// apart, and Y depends only on depth.
func Assign(root *tree.Node, s Space) {
	assign(root, 0, 0, s)
}

// assign positions the subtree at n and returns the next free leaf index.
// The index is threaded through the recursion explicitly so assignment
// needs no shared mutable state.
func assign(n *tree.Node, depth, leafIndex int, s Space) int {
	n.Y = float64(depth) * s.YSpacing

	if n.IsLeaf() {
		n.X = (float64(leafIndex) + 0.5) * s.SlotWidth
		return leafIndex + 1
	}

	for _, c := range n.Children {
		leafIndex = assign(c, depth+1, leafIndex, s)
	}
	first := n.Children[0]
	last := n.Children[len(n.Children)-1]
	n.X = (first.X + last.X) / 2
	return leafIndex
}
