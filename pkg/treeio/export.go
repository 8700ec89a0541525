package treeio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/treescope/treescope/pkg/tree"
	"github.com/treescope/treescope/pkg/tree/layout"
)

type document struct {
	Space layout.Space `json:"space"`
	Nodes []record     `json:"nodes"`
}

type record struct {
	Name      string  `json:"name"`
	Parent    int     `json:"parent"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	LeafCount int     `json:"leaf_count"`
}

// WriteJSON encodes a laid-out tree as JSON and writes it to w.
// The output is a preorder record list plus the layout constants; it can
// be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(root *tree.Node, space layout.Space, w io.Writer) error {
	if root == nil {
		return fmt.Errorf("encode: nil root")
	}

	out := document{
		Space: space,
		Nodes: make([]record, 0, root.Count()),
	}
	flatten(root, -1, &out.Nodes)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// flatten appends the subtree at n to out in preorder. parent is the index
// of n's parent record, -1 for the root.
func flatten(n *tree.Node, parent int, out *[]record) {
	idx := len(*out)
	*out = append(*out, record{
		Name:      n.Name,
		Parent:    parent,
		X:         n.X,
		Y:         n.Y,
		LeafCount: n.LeafCount,
	})
	for _, c := range n.Children {
		flatten(c, idx, out)
	}
}

// ExportJSON writes a laid-out tree to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(root *tree.Node, space layout.Space, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(root, space, f)
}

// Marshal returns the JSON encoding of a laid-out tree as a byte slice.
// Useful for cache storage and HTTP responses where no file is involved.
func Marshal(root *tree.Node, space layout.Space) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(root, space, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
