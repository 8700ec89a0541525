// Package tree builds and models filesystem trees for visualization.
//
// A tree is constructed once per run from a snapshot of the filesystem by
// [Build], annotated with leaf counts by [Aggregate], and positioned by the
// layout package. After layout completes the tree is read-only shared state:
// the viewer and server traverse it without locking because no writer exists.
package tree

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/treescope/treescope/pkg/errors"
)

// Node represents one filesystem entry in the scanned tree.
//
// Ownership is strictly tree-shaped: every node has exactly one parent
// except the root, which has none. Children preserve directory-listing
// order from scan time; that order is load-bearing for the left-to-right
// layout and must not be re-sorted.
//
// X and Y are world-space coordinates, undefined until layout runs.
// LeafCount is undefined until [Aggregate] runs.
type Node struct {
	Name      string  // Display label, the path's final component
	Children  []*Node // Ordered children (directory-listing order)
	X, Y      float64 // World-space position, assigned by layout
	LeafCount int     // Number of descendant leaves (a leaf counts itself)
}

// IsLeaf reports whether the node has no children.
// A leaf is a file or an empty directory.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Count returns the total number of nodes in the subtree rooted at n,
// including n itself.
func (n *Node) Count() int {
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// Walk visits every node in the subtree in depth-first preorder, children
// in scan order. fn receives each node together with its depth (root is 0).
func Walk(root *Node, fn func(n *Node, depth int)) {
	walk(root, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int)) {
	fn(n, depth)
	for _, c := range n.Children {
		walk(c, depth+1, fn)
	}
}

// BuildOption configures tree construction.
type BuildOption func(*builder)

// WithLogger sets the logger used for per-entry scan diagnostics.
// Without it, diagnostics are discarded.
func WithLogger(l *log.Logger) BuildOption {
	return func(b *builder) { b.logger = l }
}

type builder struct {
	logger *log.Logger
}

// Build scans path and returns the root of the resulting tree.
//
// A plain file yields a single leaf node. A directory yields a node with
// one child per enumerable entry, recursively. Entries that cannot be
// enumerated (permission denied, removed mid-scan) are logged and skipped;
// a partial tree is expected on restricted filesystems. Only a failure to
// stat the root itself is returned as an error.
//
// Symlinks are not followed: a symlink, even to a directory, becomes a
// leaf. Cyclic filesystem structures therefore cannot recurse.
func Build(path string, opts ...BuildOption) (*Node, error) {
	b := builder{logger: log.NewWithOptions(io.Discard, log.Options{})}
	for _, opt := range opts {
		opt(&b)
	}

	if _, err := os.Lstat(path); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRoot, err, "stat %s", path)
	}
	root, err := b.build(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRoot, err, "scan %s", path)
	}
	return root, nil
}

// build constructs the subtree at path. Errors bubble up one level only:
// the caller logs and skips the entry, so a single unreadable subtree
// never aborts enumeration of its siblings.
func (b *builder) build(path string) (*Node, error) {
	node := &Node{Name: filepath.Base(path)}

	info, err := os.Lstat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return node, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		child, err := b.build(filepath.Join(path, entry.Name()))
		if err != nil {
			b.logger.Warn("skipping entry",
				"path", filepath.Join(path, entry.Name()),
				"err", errors.Wrap(errors.ErrCodeEntryScan, err, "enumerate %s", entry.Name()))
			continue
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}
