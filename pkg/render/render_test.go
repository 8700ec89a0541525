package render

import (
	"strings"
	"testing"

	"github.com/treescope/treescope/pkg/tree"
	"github.com/treescope/treescope/pkg/tree/layout"
)

func sampleLayout() (*tree.Node, layout.Space) {
	a := &tree.Node{Name: "a", LeafCount: 1}
	b := &tree.Node{Name: "b", LeafCount: 1}
	root := &tree.Node{Name: "root", LeafCount: 2, Children: []*tree.Node{a, b}}
	space := layout.Space{SlotWidth: 50, YSpacing: 100, TotalLeaves: 2, TotalLevels: 2}
	layout.Assign(root, space)
	return root, space
}

func TestCellMeasure(t *testing.T) {
	m := CellMeasure()

	if got := m("abc"); got != 3 {
		t.Errorf("abc = %v, want 3", got)
	}
	if got := m(""); got != 0 {
		t.Errorf("empty = %v, want 0", got)
	}
	// Wide runes occupy two cells.
	if got := m("日本"); got != 4 {
		t.Errorf("wide runes = %v, want 4", got)
	}
}

func TestTextMeasure(t *testing.T) {
	m := TextMeasure(20)
	if got := m("abcd"); got != 4*20*fontCharWidth {
		t.Errorf("abcd at 20 = %v, want %v", got, 4*20*fontCharWidth)
	}

	// Non-positive size falls back to the default.
	fallback := TextMeasure(0)
	if got := fallback("x"); got != DefaultTextSize*fontCharWidth {
		t.Errorf("fallback = %v, want %v", got, DefaultTextSize*fontCharWidth)
	}

	// Longer labels always measure wider.
	if m("abc") >= m("abcdef") {
		t.Error("longer label should measure wider")
	}
}

func TestRenderSVGStructure(t *testing.T) {
	root, space := sampleLayout()
	svg := string(RenderSVG(root, space))

	if !strings.HasPrefix(svg, "<svg ") {
		t.Errorf("output should start with an svg element: %.40s", svg)
	}
	if !strings.Contains(svg, "</svg>") {
		t.Error("svg element not closed")
	}
	if got := strings.Count(svg, "<circle"); got != 3 {
		t.Errorf("circle count = %d, want 3", got)
	}
	// Two parent-child edges
	if got := strings.Count(svg, "<line"); got != 2 {
		t.Errorf("line count = %d, want 2", got)
	}
	// Labels are off by default
	if strings.Contains(svg, "<text") {
		t.Error("labels rendered without WithLabels")
	}
}

func TestRenderSVGWithLabels(t *testing.T) {
	root, space := sampleLayout()
	svg := string(RenderSVG(root, space, WithLabels(20)))

	for _, name := range []string{"root", "a", "b"} {
		if !strings.Contains(svg, ">"+name+"</text>") {
			t.Errorf("label %q missing", name)
		}
	}
}

func TestRenderSVGHighlight(t *testing.T) {
	root, space := sampleLayout()
	svg := string(RenderSVG(root, space, WithHighlight(root.Children[0])))

	if !strings.Contains(svg, selectedColor) {
		t.Error("highlighted node should use the selection color")
	}
}

func TestRenderSVGEscapesNames(t *testing.T) {
	root := &tree.Node{Name: "a<b>&c", LeafCount: 1}
	space := layout.Space{SlotWidth: 50, YSpacing: 100, TotalLeaves: 1, TotalLevels: 1}
	layout.Assign(root, space)

	svg := string(RenderSVG(root, space, WithLabels(20)))
	if strings.Contains(svg, "a<b>&c") {
		t.Error("name not escaped")
	}
	if !strings.Contains(svg, "a&lt;b&gt;&amp;c") {
		t.Error("escaped name missing")
	}
}

func TestToDOT(t *testing.T) {
	root, _ := sampleLayout()
	dot := ToDOT(root, DOTOptions{})

	if !strings.HasPrefix(dot, "digraph tree {") {
		t.Errorf("unexpected header: %.30s", dot)
	}
	if !strings.Contains(dot, `n0 [label="root"]`) {
		t.Error("root node missing")
	}
	if !strings.Contains(dot, "n0 -> n1;") || !strings.Contains(dot, "n0 -> n2;") {
		t.Error("edges missing")
	}
}

func TestToDOTLeafCounts(t *testing.T) {
	root, _ := sampleLayout()
	dot := ToDOT(root, DOTOptions{LeafCounts: true})

	if !strings.Contains(dot, `2 leaves`) {
		t.Error("leaf count missing from root label")
	}
}

func TestToDOTDuplicateNames(t *testing.T) {
	// Identical names in different directories must get distinct IDs.
	root := &tree.Node{Name: "root", Children: []*tree.Node{
		{Name: "same"},
		{Name: "same"},
	}}
	dot := ToDOT(root, DOTOptions{})

	if !strings.Contains(dot, "n1 [") || !strings.Contains(dot, "n2 [") {
		t.Error("duplicate names should still emit two nodes")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?>
<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg">
<g></g>
</svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 100.00 50.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("pixel dimensions missing: %s", out)
	}
}

func TestNormalizeViewBoxPassthrough(t *testing.T) {
	in := []byte(`<svg xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	if got := string(normalizeViewBox(in)); got != string(in) {
		t.Errorf("svg without viewBox should pass through unchanged: %s", got)
	}
}
