package pipeline

import (
	"github.com/treescope/treescope/pkg/tree"
	"github.com/treescope/treescope/pkg/tree/layout"
)

// ComputeLayout aggregates leaf counts and assigns world-space positions
// to the tree in place, returning the layout constants that were used.
//
// The same tree can be laid out repeatedly with different options; each
// call fully overwrites the previous positions.
func ComputeLayout(root *tree.Node, opts Options) (layout.Space, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Space{}, err
	}

	totalLeaves, maxDepth := tree.Aggregate(root)
	space := layout.NewSpace(root, totalLeaves, maxDepth, opts.LayoutConfig())
	layout.Assign(root, space)
	return space, nil
}
