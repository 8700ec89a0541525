// Package query provides point-based lookups over a laid-out tree.
package query

import "github.com/treescope/treescope/pkg/tree"

// Nearest returns the node whose position is closest to (x, y) by squared
// Euclidean distance. It never returns nil for a non-nil root: at minimum
// the root itself is the answer.
//
// Ties are broken by first-encountered in depth-first preorder: the
// comparison is a strict less-than, so an equally distant node visited
// later never displaces the current minimum. Selection is therefore
// deterministic for points on an axis of symmetry.
func Nearest(root *tree.Node, x, y float64) *tree.Node {
	if root == nil {
		return nil
	}

	best := root
	bestDist := sqDist(root, x, y)

	// Explicit worklist; children pushed in reverse so they pop in scan
	// order, preserving preorder for the tie-break.
	stack := make([]*tree.Node, 0, 16)
	for i := len(root.Children) - 1; i >= 0; i-- {
		stack = append(stack, root.Children[i])
	}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if d := sqDist(n, x, y); d < bestDist {
			best, bestDist = n, d
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return best
}

func sqDist(n *tree.Node, x, y float64) float64 {
	dx := n.X - x
	dy := n.Y - y
	return dx*dx + dy*dy
}
