package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/phanxgames/treeview"
	"github.com/phanxgames/treeview/diagram"
	"github.com/phanxgames/treeview/highlight"
)

const (
	arcSegments  = 8
	maxLineSteps = 1 << 16
)

type cell struct {
	r      rune
	active bool
}

type grid struct {
	cols, rows int
	cells      []cell
	visible    treeview.Rect
}

func newGrid(cols, rows int, visible treeview.Rect) *grid {
	g := &grid{cols: cols, rows: rows, cells: make([]cell, cols*rows), visible: visible}
	for i := range g.cells {
		g.cells[i].r = ' '
	}
	return g
}

// toCell maps a content point to a cell, which may lie outside the grid.
func (g *grid) toCell(p treeview.Vec2) (x, y int) {
	s := treeview.ContentToScreen(g.visible, float64(g.cols*cellWidth), float64(g.rows*cellHeight), p.X, p.Y)
	return int(math.Floor(s.X / cellWidth)), int(math.Floor(s.Y / cellHeight))
}

func (g *grid) set(x, y int, r rune, active bool) {
	if x < 0 || y < 0 || x >= g.cols || y >= g.rows {
		return
	}
	c := &g.cells[y*g.cols+x]
	// An active mark is never replaced by an inactive one.
	if c.active && !active {
		return
	}
	c.r, c.active = r, active || c.active
}

// line draws from (x0,y0) to (x1,y1) with Bresenham's algorithm.
func (g *grid) line(x0, y0, x1, y1 int, active bool) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	// Cap the walk so a huge off-screen segment cannot stall rendering.
	for n := 0; n < maxLineSteps; n++ {
		g.set(x0, y0, '·', active)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (g *grid) String() string {
	var b strings.Builder
	for y := 0; y < g.rows; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		row := g.cells[y*g.cols : (y+1)*g.cols]
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].active == row[start].active {
				continue
			}
			b.WriteString(styleFor(row[start].active).Render(runes(row[start:x])))
			start = x
		}
	}
	return b.String()
}

func styleFor(active bool) lipgloss.Style {
	if active {
		return activeStyle
	}
	return nodeStyle
}

func runes(cs []cell) string {
	rs := make([]rune, len(cs))
	for i, c := range cs {
		rs[i] = c.r
	}
	return string(rs)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func nodeRune(k diagram.Kind) rune {
	switch k {
	case diagram.KindKeystone:
		return '◆'
	case diagram.KindMastery:
		return '○'
	case diagram.KindNotable, diagram.KindVariantNotable:
		return '◉'
	default:
		return '●'
	}
}

// renderGrid draws the diagram as seen through visible onto a cols×rows
// character grid.
func renderGrid(d *diagram.Diagram, set highlight.Set, visible treeview.Rect, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	g := newGrid(cols, rows, visible)
	if visible.Width <= 0 || visible.Height <= 0 {
		return g.String()
	}
	for _, c := range d.Connections {
		a, _ := d.Node(c.A)
		b, _ := d.Node(c.B)
		if hidden(a, set) || hidden(b, set) {
			continue
		}
		active := set.ConnectionActive(c.A, c.B)
		pts := c.Polyline(d, arcSegments)
		for i := 1; i < len(pts); i++ {
			if !visible.Intersects(segmentBounds(pts[i-1], pts[i])) {
				continue
			}
			x0, y0 := g.toCell(pts[i-1])
			x1, y1 := g.toCell(pts[i])
			g.line(x0, y0, x1, y1, active)
		}
	}
	for _, n := range d.Nodes {
		if hidden(n, set) {
			continue
		}
		x, y := g.toCell(treeview.Vec2{X: float64(n.X), Y: float64(n.Y)})
		g.set(x, y, nodeRune(n.Kind), set.NodeActive(n.ID))
	}
	return g.String()
}

func segmentBounds(a, b treeview.Vec2) treeview.Rect {
	x, y := min(a.X, b.X), min(a.Y, b.Y)
	return treeview.Rect{X: x, Y: y, Width: max(a.X, b.X) - x, Height: max(a.Y, b.Y) - y}
}

func hidden(n diagram.Node, set highlight.Set) bool {
	v := n.VariantOf()
	return v != "" && !set.VariantVisible(v)
}
