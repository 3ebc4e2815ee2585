package ebitenhost

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/treeview"
	"github.com/phanxgames/treeview/diagram"
	"github.com/phanxgames/treeview/highlight"
)

const (
	connectionWidth       = 20
	activeConnectionWidth = 35
	masteryStroke         = 40
	arcSegments           = 16
)

type palette struct {
	background       color.RGBA
	node             color.RGBA
	nodeActive       color.RGBA
	connection       color.RGBA
	connectionActive color.RGBA
}

func newPalette(c diagram.Colors) palette {
	return palette{
		background:       parseHex(c.Background, color.RGBA{8, 12, 17, 255}),
		node:             parseHex(c.Node, color.RGBA{53, 53, 53, 255}),
		nodeActive:       parseHex(c.NodeActive, color.RGBA{163, 141, 109, 255}),
		connection:       parseHex(c.Connection, color.RGBA{53, 53, 53, 255}),
		connectionActive: parseHex(c.ConnectionActive, color.RGBA{163, 141, 109, 255}),
	}
}

// parseHex parses "#rgb" or "#rrggbb", returning fallback for anything else.
func parseHex(s string, fallback color.RGBA) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return fallback
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// view maps content coordinates to screen pixels.
type view struct {
	visible treeview.Rect
	w, h    float64
	scale   float64
}

func newView(visible treeview.Rect, w, h int) view {
	return view{visible: visible, w: float64(w), h: float64(h), scale: float64(w) / visible.Width}
}

func (v view) point(x, y float64) (float32, float32) {
	p := treeview.ContentToScreen(v.visible, v.w, v.h, x, y)
	return float32(p.X), float32(p.Y)
}

func (v view) length(l float64) float32 {
	return float32(l * v.scale)
}

func drawDiagram(dst *ebiten.Image, d *diagram.Diagram, set highlight.Set, visible treeview.Rect, pal *palette) {
	b := dst.Bounds()
	if visible.Width <= 0 || visible.Height <= 0 || b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	v := newView(visible, b.Dx(), b.Dy())
	// Skip anything farther outside the visible area than the largest node.
	cull := treeview.Rect{X: visible.X - 100, Y: visible.Y - 100, Width: visible.Width + 200, Height: visible.Height + 200}

	for _, c := range d.Connections {
		a, _ := d.Node(c.A)
		bn, _ := d.Node(c.B)
		if !hidden(a, set) && !hidden(bn, set) {
			drawConnection(dst, d, c, set, v, cull, pal)
		}
	}
	for _, n := range d.Nodes {
		if hidden(n, set) || !cull.Contains(float64(n.X), float64(n.Y)) {
			continue
		}
		clr := pal.node
		if set.NodeActive(n.ID) {
			clr = pal.nodeActive
		}
		x, y := v.point(float64(n.X), float64(n.Y))
		r := v.length(float64(n.Kind.Radius()))
		if n.Kind == diagram.KindMastery {
			vector.StrokeCircle(dst, x, y, r, v.length(masteryStroke), clr, true)
			continue
		}
		vector.DrawFilledCircle(dst, x, y, r, clr, true)
	}
}

func drawConnection(dst *ebiten.Image, d *diagram.Diagram, c diagram.Connection, set highlight.Set, v view, cull treeview.Rect, pal *palette) {
	pts := c.Polyline(d, arcSegments)
	if len(pts) < 2 {
		return
	}
	inside := false
	for _, p := range pts {
		if cull.Contains(p.X, p.Y) {
			inside = true
			break
		}
	}
	if !inside {
		return
	}
	clr, width := pal.connection, v.length(connectionWidth)
	if set.ConnectionActive(c.A, c.B) {
		clr, width = pal.connectionActive, v.length(activeConnectionWidth)
	}
	x0, y0 := v.point(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		x1, y1 := v.point(p.X, p.Y)
		vector.StrokeLine(dst, x0, y0, x1, y1, width, clr, true)
		x0, y0 = x1, y1
	}
}

// hidden reports whether n belongs to a variant subtree that is not shown.
func hidden(n diagram.Node, set highlight.Set) bool {
	v := n.VariantOf()
	return v != "" && !set.VariantVisible(v)
}
