package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/treescope/treescope/pkg/tree"
)

// DOTOptions configures DOT generation.
type DOTOptions struct {
	// LeafCounts appends the aggregated leaf count to each label.
	LeafCounts bool
}

// ToDOT converts a tree to Graphviz DOT format. Positions are not carried
// over; dot computes its own ranked layout. Node IDs are preorder indices
// because filenames repeat across directories.
//
// The resulting DOT string can be rendered with [GraphvizSVG] or
// [GraphvizPNG].
func ToDOT(root *tree.Node, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph tree {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	next := 0
	writeDOTNode(&buf, root, &next, opts)

	buf.WriteString("}\n")
	return buf.String()
}

// writeDOTNode emits the node line for n and edges to its children,
// recursively. next is the preorder ID counter.
func writeDOTNode(buf *bytes.Buffer, n *tree.Node, next *int, opts DOTOptions) int {
	id := *next
	*next++

	label := n.Name
	if opts.LeafCounts {
		label = fmt.Sprintf("%s\\n%d leaves", n.Name, n.LeafCount)
	}
	fmt.Fprintf(buf, "  n%d [label=%q];\n", id, label)

	for _, c := range n.Children {
		childID := writeDOTNode(buf, c, next, opts)
		fmt.Fprintf(buf, "  n%d -> n%d;\n", id, childID)
	}
	return id
}

// GraphvizSVG renders a DOT graph to SVG using Graphviz.
func GraphvizSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderGraphviz(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// GraphvizPNG renders a DOT graph to PNG using Graphviz.
func GraphvizPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderGraphviz(ctx, dot, graphviz.PNG)
}

func renderGraphviz(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the Graphviz svg element to a zero-origin
// viewBox with explicit pixel dimensions, which embeds consistently in
// browsers and image converters.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
