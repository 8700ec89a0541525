// Package treeio provides JSON import and export for laid-out trees.
//
// # Overview
//
// A scanned and positioned tree is serialized as a flat list of records in
// depth-first preorder, together with the layout constants that produced
// the positions. The format is designed for:
//
//   - Handing layouts to external viewers without rescanning the filesystem
//   - Caching of scan and layout results for faster re-rendering
//   - Round-trip preservation: export, re-import, and render identically
//
// # JSON Format
//
//	{
//	  "space": {"slot_width": 50, "y_spacing": 100, "total_leaves": 2, "total_levels": 2},
//	  "nodes": [
//	    {"name": "root", "parent": -1, "x": 50, "y": 0, "leaf_count": 2},
//	    {"name": "a", "parent": 0, "x": 25, "y": 100, "leaf_count": 1},
//	    {"name": "b", "parent": 0, "x": 75, "y": 100, "leaf_count": 1}
//	  ]
//	}
//
// Each record references its parent by index into the same array; the root
// carries parent -1 and is always the first record. Because the records are
// written in preorder, every parent index points at an earlier record, and
// sibling order in the array is exactly the child order of the tree.
//
// # Import
//
// Use [ImportJSON] to read a tree from a file path, or [ReadJSON] to read
// from any io.Reader. Both validate the structural invariants: exactly one
// root at index 0, and every other parent index referencing an earlier
// record. The returned tree is independent of the input and can be
// traversed or re-laid-out freely.
//
// # Export
//
// Use [ExportJSON] to write to a file, or [WriteJSON] to write to any
// io.Writer. Positions, leaf counts, and child order are all preserved.
package treeio
