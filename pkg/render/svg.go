package render

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/treescope/treescope/pkg/tree"
	"github.com/treescope/treescope/pkg/tree/layout"
)

const (
	nodeRadius    = 4.0
	edgeColor     = "#8a8a8a"
	leafColor     = "#4c9a6e"
	branchColor   = "#3a6ea5"
	selectedColor = "#d64550"
	labelColor    = "#222222"
)

// SVGOption configures the native SVG renderer.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	labels    bool
	textSize  float64
	highlight *tree.Node
}

// WithLabels enables node labels at the given font size in world units.
// Non-positive sizes fall back to DefaultTextSize.
func WithLabels(size float64) SVGOption {
	return func(r *svgRenderer) {
		r.labels = true
		if size > 0 {
			r.textSize = size
		}
	}
}

// WithHighlight marks one node as selected; it is drawn in the selection
// color on top of its siblings.
func WithHighlight(n *tree.Node) SVGOption {
	return func(r *svgRenderer) { r.highlight = n }
}

// RenderSVG draws a laid-out tree at its world-space coordinates.
//
// Edges are straight lines from each parent to each child, drawn below
// the nodes. The viewBox covers the full horizontal extent of the layout
// plus half a slot of margin on every side, so nothing is clipped at the
// borders.
func RenderSVG(root *tree.Node, space layout.Space, opts ...SVGOption) []byte {
	r := svgRenderer{textSize: DefaultTextSize}
	for _, opt := range opts {
		opt(&r)
	}

	marginX := space.SlotWidth / 2
	marginY := space.YSpacing / 2
	width := space.Extent() + 2*marginX
	height := float64(space.TotalLevels-1)*space.YSpacing + 2*marginY

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		-marginX, -marginY, width, height, width, height)

	renderEdges(&buf, root)
	renderNodes(&buf, root, &r)
	if r.labels {
		renderLabels(&buf, root, r.textSize)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderEdges(buf *bytes.Buffer, root *tree.Node) {
	fmt.Fprintf(buf, `  <g stroke="%s" stroke-width="1">`+"\n", edgeColor)
	tree.Walk(root, func(n *tree.Node, _ int) {
		for _, c := range n.Children {
			fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
				n.X, n.Y, c.X, c.Y)
		}
	})
	buf.WriteString("  </g>\n")
}

func renderNodes(buf *bytes.Buffer, root *tree.Node, r *svgRenderer) {
	buf.WriteString("  <g>\n")
	tree.Walk(root, func(n *tree.Node, _ int) {
		color := branchColor
		if n.IsLeaf() {
			color = leafColor
		}
		if n == r.highlight {
			color = selectedColor
		}
		fmt.Fprintf(buf, `    <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s">`, n.X, n.Y, nodeRadius, color)
		fmt.Fprintf(buf, `<title>%s (%d leaves)</title>`, escapeXML(n.Name), n.LeafCount)
		buf.WriteString("</circle>\n")
	})
	buf.WriteString("  </g>\n")
}

func renderLabels(buf *bytes.Buffer, root *tree.Node, size float64) {
	fmt.Fprintf(buf, `  <g font-family="sans-serif" font-size="%.0f" fill="%s" text-anchor="middle">`+"\n",
		size, labelColor)
	tree.Walk(root, func(n *tree.Node, _ int) {
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f">%s</text>`+"\n",
			n.X, n.Y-nodeRadius*2, escapeXML(n.Name))
	})
	buf.WriteString("  </g>\n")
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
