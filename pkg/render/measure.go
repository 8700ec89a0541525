package render

import (
	"github.com/mattn/go-runewidth"

	"github.com/treescope/treescope/pkg/tree/layout"
)

const (
	// DefaultTextSize is the label font size in world units.
	DefaultTextSize = 20.0

	// fontCharWidth approximates the width of one character as a fraction
	// of the font size, tuned for common sans-serif faces.
	fontCharWidth = 0.55
)

// CellMeasure returns a MeasureFunc that measures labels in terminal
// cells. East Asian wide runes count as two cells, combining marks as
// zero, matching what a terminal actually renders.
func CellMeasure() layout.MeasureFunc {
	return func(label string) float64 {
		return float64(runewidth.StringWidth(label))
	}
}

// TextMeasure returns a MeasureFunc that approximates the rendered width
// of a label at the given font size in world units. Non-positive sizes
// fall back to DefaultTextSize.
func TextMeasure(fontSize float64) layout.MeasureFunc {
	if fontSize <= 0 {
		fontSize = DefaultTextSize
	}
	cells := CellMeasure()
	return func(label string) float64 {
		return cells(label) * fontSize * fontCharWidth
	}
}
