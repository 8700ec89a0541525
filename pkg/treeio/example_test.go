package treeio_test

import (
	"bytes"
	"fmt"

	"github.com/treescope/treescope/pkg/tree"
	"github.com/treescope/treescope/pkg/tree/layout"
	"github.com/treescope/treescope/pkg/treeio"
)

func ExampleWriteJSON() {
	root := &tree.Node{Name: "root", X: 50, Y: 0, LeafCount: 2, Children: []*tree.Node{
		{Name: "a", X: 25, Y: 100, LeafCount: 1},
		{Name: "b", X: 75, Y: 100, LeafCount: 1},
	}}
	space := layout.Space{SlotWidth: 50, YSpacing: 100, TotalLeaves: 2, TotalLevels: 2}

	// Write to a buffer (or any io.Writer)
	var buf bytes.Buffer
	if err := treeio.WriteJSON(root, space, &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(buf.String())
	// Output:
	// {
	//   "space": {
	//     "slot_width": 50,
	//     "y_spacing": 100,
	//     "total_leaves": 2,
	//     "total_levels": 2
	//   },
	//   "nodes": [
	//     {
	//       "name": "root",
	//       "parent": -1,
	//       "x": 50,
	//       "y": 0,
	//       "leaf_count": 2
	//     },
	//     {
	//       "name": "a",
	//       "parent": 0,
	//       "x": 25,
	//       "y": 100,
	//       "leaf_count": 1
	//     },
	//     {
	//       "name": "b",
	//       "parent": 0,
	//       "x": 75,
	//       "y": 100,
	//       "leaf_count": 1
	//     }
	//   ]
	// }
}

func ExampleReadJSON() {
	data := `{
		"space": {"slot_width": 50, "y_spacing": 100, "total_leaves": 2, "total_levels": 2},
		"nodes": [
			{"name": "root", "parent": -1, "x": 50, "y": 0, "leaf_count": 2},
			{"name": "a", "parent": 0, "x": 25, "y": 100, "leaf_count": 1},
			{"name": "b", "parent": 0, "x": 75, "y": 100, "leaf_count": 1}
		]
	}`

	root, space, err := treeio.ReadJSON(bytes.NewReader([]byte(data)))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println("Root:", root.Name)
	fmt.Println("Children:", len(root.Children))
	fmt.Println("Slot width:", space.SlotWidth)
	// Output:
	// Root: root
	// Children: 2
	// Slot width: 50
}
