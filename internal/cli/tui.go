package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/treescope/treescope/pkg/tree"
	"github.com/treescope/treescope/pkg/tree/layout"
	"github.com/treescope/treescope/pkg/tree/query"
)

// Viewer styles
var (
	viewLeafStyle     = lipgloss.NewStyle().Foreground(colorGreen)
	viewBranchStyle   = lipgloss.NewStyle().Foreground(colorBlue)
	viewSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	viewStatusStyle   = lipgloss.NewStyle().Foreground(colorWhite)
)

// cellAspect compensates for terminal cells being roughly twice as tall
// as they are wide.
const cellAspect = 2.0

// Node glyphs by kind.
const (
	glyphLeaf     = '·'
	glyphBranch   = '●'
	glyphSelected = '◉'
)

// Cell paint codes for the style pass.
const (
	paintNone = iota
	paintLeaf
	paintBranch
	paintSelected
)

// =============================================================================
// ViewModel - Interactive tree viewer
// =============================================================================

// ViewModel is the bubbletea model for the full-screen tree viewer.
//
// The camera is defined by the world-space point at the viewport center
// and a zoom factor in cells per world unit. The laid-out tree itself is
// never modified; only the camera and the selection change.
type ViewModel struct {
	root  *tree.Node
	space layout.Space

	camX, camY float64
	zoom       float64

	width, height int
	ready         bool

	selected *tree.Node
}

// newViewModel creates a viewer centered on the middle of the layout.
// The zoom is fitted to the terminal width on the first size message.
func newViewModel(root *tree.Node, space layout.Space) ViewModel {
	return ViewModel{
		root:  root,
		space: space,
		camX:  space.Extent() / 2,
		camY:  float64(space.TotalLevels-1) * space.YSpacing / 2,
	}
}

func (m ViewModel) Init() tea.Cmd {
	return nil
}

func (m ViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.zoom = m.fitZoom()
			m.ready = true
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			wx, wy := m.cellToWorld(msg.X, msg.Y)
			m.selected = query.Nearest(m.root, wx, wy)
		}
		return m, nil
	}
	return m, nil
}

func (m ViewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Pan steps cover four cells horizontally and two rows vertically,
	// converted to world units at the current zoom.
	stepX := 4 / m.zoomOr(1)
	stepY := 2 * cellAspect / m.zoomOr(1)

	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		m.camX -= stepX
	case "right", "l":
		m.camX += stepX
	case "up", "k":
		m.camY -= stepY
	case "down", "j":
		m.camY += stepY
	case "+", "=":
		m.zoom *= 1.25
	case "-", "_":
		m.zoom /= 1.25
		if min := m.fitZoom() / 4; m.zoom < min {
			m.zoom = min
		}
	case "c":
		m.camX = m.space.Extent() / 2
		m.camY = float64(m.space.TotalLevels-1) * m.space.YSpacing / 2
		m.zoom = m.fitZoom()
	case "enter", " ":
		m.selected = query.Nearest(m.root, m.camX, m.camY)
	}
	return m, nil
}

func (m ViewModel) View() string {
	if !m.ready {
		return "loading..."
	}

	rows := m.canvasHeight()
	glyphs := make([][]rune, rows)
	paint := make([][]byte, rows)
	for y := range glyphs {
		glyphs[y] = []rune(strings.Repeat(" ", m.width))
		paint[y] = make([]byte, m.width)
	}

	// Paint leaves first so a selected or internal node wins the cell.
	tree.Walk(m.root, func(n *tree.Node, _ int) {
		cx, cy := m.worldToCell(n.X, n.Y)
		if cx < 0 || cx >= m.width || cy < 0 || cy >= rows {
			return
		}
		switch {
		case n == m.selected:
			glyphs[cy][cx] = glyphSelected
			paint[cy][cx] = paintSelected
		case paint[cy][cx] == paintSelected:
			// keep
		case n.IsLeaf():
			if paint[cy][cx] == paintNone {
				glyphs[cy][cx] = glyphLeaf
				paint[cy][cx] = paintLeaf
			}
		default:
			glyphs[cy][cx] = glyphBranch
			paint[cy][cx] = paintBranch
		}
	})

	var b strings.Builder
	for y := 0; y < rows; y++ {
		b.WriteString(renderRow(glyphs[y], paint[y]))
		b.WriteString("\n")
	}
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("arrows/hjkl pan · +/- zoom · click/enter select · c center · q quit"))
	return b.String()
}

// renderRow styles a painted rune row, grouping runs of equal paint so
// each row emits a handful of escape sequences instead of one per cell.
func renderRow(glyphs []rune, paint []byte) string {
	var b strings.Builder
	start := 0
	for i := 1; i <= len(glyphs); i++ {
		if i < len(glyphs) && paint[i] == paint[start] {
			continue
		}
		run := string(glyphs[start:i])
		switch paint[start] {
		case paintLeaf:
			b.WriteString(viewLeafStyle.Render(run))
		case paintBranch:
			b.WriteString(viewBranchStyle.Render(run))
		case paintSelected:
			b.WriteString(viewSelectedStyle.Render(run))
		default:
			b.WriteString(run)
		}
		start = i
	}
	return b.String()
}

func (m ViewModel) statusLine() string {
	parts := []string{
		fmt.Sprintf("%d nodes", m.root.Count()),
		fmt.Sprintf("%d leaves", m.space.TotalLeaves),
		fmt.Sprintf("zoom %.2f", m.zoom),
	}
	line := viewStatusStyle.Render(m.root.Name) + StyleDim.Render(" · "+strings.Join(parts, " · "))

	if m.selected != nil {
		sel := fmt.Sprintf("  %s (%d leaves) at (%.0f, %.0f)",
			m.selected.Name, m.selected.LeafCount, m.selected.X, m.selected.Y)
		line += viewSelectedStyle.Render(sel)
	}
	return line
}

// =============================================================================
// Camera math
// =============================================================================

// canvasHeight is the drawable row count, leaving two lines for status
// and help.
func (m ViewModel) canvasHeight() int {
	h := m.height - 2
	if h < 1 {
		h = 1
	}
	return h
}

// fitZoom returns the zoom at which the full layout width fits the
// terminal with a small margin.
func (m ViewModel) fitZoom() float64 {
	extent := m.space.Extent()
	if extent <= 0 || m.width <= 4 {
		return 1
	}
	return float64(m.width-4) / extent
}

func (m ViewModel) zoomOr(fallback float64) float64 {
	if m.zoom > 0 {
		return m.zoom
	}
	return fallback
}

func (m ViewModel) worldToCell(wx, wy float64) (int, int) {
	cx := int(math.Round((wx-m.camX)*m.zoom)) + m.width/2
	cy := int(math.Round((wy-m.camY)*m.zoom/cellAspect)) + m.canvasHeight()/2
	return cx, cy
}

func (m ViewModel) cellToWorld(cx, cy int) (float64, float64) {
	zoom := m.zoomOr(1)
	wx := float64(cx-m.width/2)/zoom + m.camX
	wy := float64(cy-m.canvasHeight()/2)*cellAspect/zoom + m.camY
	return wx, wy
}
