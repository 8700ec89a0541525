package tree

// Aggregate computes leaf counts for every node in the tree and returns
// the total number of leaves together with the maximum depth reached
// (root is depth 0).
//
// A leaf gets LeafCount 1; an internal node gets the sum over its
// children, so LeafCount is always >= 1. Aggregate is a pure function of
// tree shape: O(n) time, recursion depth equal to tree depth, and no
// state outside the call. Depth and the running maximum travel through
// return values.
func Aggregate(root *Node) (totalLeaves, maxDepth int) {
	return aggregate(root, 0)
}

func aggregate(n *Node, depth int) (leaves, deepest int) {
	if n.IsLeaf() {
		n.LeafCount = 1
		return 1, depth
	}

	deepest = depth
	for _, c := range n.Children {
		l, d := aggregate(c, depth+1)
		leaves += l
		if d > deepest {
			deepest = d
		}
	}
	n.LeafCount = leaves
	return leaves, deepest
}
