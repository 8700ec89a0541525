// Package render turns laid-out trees into viewable artifacts.
//
// Two backends are provided. The native SVG renderer draws the tree
// exactly at its world-space coordinates, so what the interactive viewer
// shows and what the file contains are the same picture. The Graphviz
// backend ([ToDOT] plus [GraphvizSVG]/[GraphvizPNG]) discards the computed
// positions and lets dot re-layout the structure; it exists for feeding
// the tree into Graphviz-based tooling.
//
// The package also owns label measurement ([CellMeasure], [TextMeasure]),
// which the layout package consumes through its MeasureFunc hook.
package render
