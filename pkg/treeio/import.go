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

// ReadJSON decodes a laid-out tree from r.
//
// The input must be a JSON object with a "space" object and a "nodes"
// array in preorder (see the package documentation for the format).
// ReadJSON returns an error if:
//   - The JSON is malformed
//   - The node list is empty
//   - The first record does not carry parent -1
//   - Any later record's parent index does not reference an earlier record
//
// The returned tree is independent of r and can be modified safely after
// ReadJSON returns. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*tree.Node, layout.Space, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, layout.Space{}, fmt.Errorf("decode: %w", err)
	}
	if len(data.Nodes) == 0 {
		return nil, layout.Space{}, fmt.Errorf("decode: empty node list")
	}
	if data.Nodes[0].Parent != -1 {
		return nil, layout.Space{}, fmt.Errorf("node 0: parent = %d, want -1", data.Nodes[0].Parent)
	}

	nodes := make([]*tree.Node, len(data.Nodes))
	for i, rec := range data.Nodes {
		nodes[i] = &tree.Node{
			Name:      rec.Name,
			X:         rec.X,
			Y:         rec.Y,
			LeafCount: rec.LeafCount,
		}
		if i == 0 {
			continue
		}
		if rec.Parent < 0 || rec.Parent >= i {
			return nil, layout.Space{}, fmt.Errorf("node %d (%s): parent %d out of preorder range", i, rec.Name, rec.Parent)
		}
		parent := nodes[rec.Parent]
		parent.Children = append(parent.Children, nodes[i])
	}

	return nodes[0], data.Space, nil
}

// ImportJSON reads a JSON file at path and returns the decoded tree with
// its layout constants. It returns the same validation errors as
// [ReadJSON], wrapped with the file path for context.
func ImportJSON(path string) (*tree.Node, layout.Space, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, layout.Space{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// Unmarshal decodes a laid-out tree from a byte slice. It is the inverse
// of [Marshal].
func Unmarshal(data []byte) (*tree.Node, layout.Space, error) {
	return ReadJSON(bytes.NewReader(data))
}
