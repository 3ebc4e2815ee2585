// Package snapshot rasterizes the visible region of a diagram to an image,
// the same region a live host would show for a given controller state.
package snapshot

import (
	"fmt"
	"image"
	"strconv"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/phanxgames/treeview"
	"github.com/phanxgames/treeview/diagram"
	"github.com/phanxgames/treeview/highlight"
)

const (
	connectionWidth       = 20
	activeConnectionWidth = 35
	masteryStroke         = 40
	arcSegments           = 24
)

// Options controls rendering.
type Options struct {
	Colors diagram.Colors
	// Labels draws node ids next to nodes.
	Labels   bool
	FontSize float64
}

var monoFont = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(gomono.TTF)
})

// Render draws the part of d inside visible onto a w×h image. Content is
// stretched to fill the image when aspect ratios differ, as an SVG with
// preserveAspectRatio="none" would be.
func Render(d *diagram.Diagram, set highlight.Set, visible treeview.Rect, w, h int, opts Options) (image.Image, error) {
	dc, err := render(d, set, visible, w, h, opts)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// Save renders and writes a PNG file.
func Save(path string, d *diagram.Diagram, set highlight.Set, visible treeview.Rect, w, h int, opts Options) error {
	dc, err := render(d, set, visible, w, h, opts)
	if err != nil {
		return err
	}
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	return nil
}

func render(d *diagram.Diagram, set highlight.Set, visible treeview.Rect, w, h int, opts Options) (*gg.Context, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("snapshot: image size %dx%d", w, h)
	}
	if visible.Width <= 0 || visible.Height <= 0 {
		return nil, fmt.Errorf("snapshot: empty visible region %s", visible.ViewBox())
	}
	colors := opts.Colors
	if colors == (diagram.Colors{}) {
		colors = diagram.DefaultColors
	}

	dc := gg.NewContext(w, h)
	dc.SetHexColor(colors.Background)
	dc.Clear()

	sw, sh := float64(w), float64(h)
	scale := sw / visible.Width
	pt := func(x, y float64) (float64, float64) {
		p := treeview.ContentToScreen(visible, sw, sh, x, y)
		return p.X, p.Y
	}
	cull := treeview.Rect{X: visible.X - 100, Y: visible.Y - 100, Width: visible.Width + 200, Height: visible.Height + 200}

	dc.SetLineCapRound()
	for _, c := range d.Connections {
		a, _ := d.Node(c.A)
		b, _ := d.Node(c.B)
		if hidden(a, set) || hidden(b, set) {
			continue
		}
		pts := c.Polyline(d, arcSegments)
		if len(pts) < 2 || !anyInside(cull, pts) {
			continue
		}
		if set.ConnectionActive(c.A, c.B) {
			dc.SetHexColor(colors.ConnectionActive)
			dc.SetLineWidth(activeConnectionWidth * scale)
		} else {
			dc.SetHexColor(colors.Connection)
			dc.SetLineWidth(connectionWidth * scale)
		}
		dc.MoveTo(pt(pts[0].X, pts[0].Y))
		for _, p := range pts[1:] {
			dc.LineTo(pt(p.X, p.Y))
		}
		dc.Stroke()
	}

	for _, n := range d.Nodes {
		if hidden(n, set) || !cull.Contains(float64(n.X), float64(n.Y)) {
			continue
		}
		if set.NodeActive(n.ID) {
			dc.SetHexColor(colors.NodeActive)
		} else {
			dc.SetHexColor(colors.Node)
		}
		x, y := pt(float64(n.X), float64(n.Y))
		dc.DrawCircle(x, y, float64(n.Kind.Radius())*scale)
		if n.Kind == diagram.KindMastery {
			dc.SetLineWidth(masteryStroke * scale)
			dc.Stroke()
		} else {
			dc.Fill()
		}
	}

	if opts.Labels {
		if err := drawLabels(dc, d, set, visible, pt, scale, opts, colors); err != nil {
			return nil, err
		}
	}
	return dc, nil
}

func drawLabels(dc *gg.Context, d *diagram.Diagram, set highlight.Set, visible treeview.Rect,
	pt func(x, y float64) (float64, float64), scale float64, opts Options, colors diagram.Colors) error {
	f, err := monoFont()
	if err != nil {
		return fmt.Errorf("snapshot: parse font: %w", err)
	}
	size := opts.FontSize
	if size <= 0 {
		size = 11
	}
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}))
	dc.SetHexColor(colors.NodeActive)
	for _, n := range d.Nodes {
		if hidden(n, set) || !visible.Contains(float64(n.X), float64(n.Y)) {
			continue
		}
		x, y := pt(float64(n.X), float64(n.Y))
		r := float64(n.Kind.Radius()) * scale
		dc.DrawStringAnchored(strconv.Itoa(n.ID), x+r+2, y, 0, 0.5)
	}
	return nil
}

func anyInside(r treeview.Rect, pts []treeview.Vec2) bool {
	for i, p := range pts {
		if r.Contains(p.X, p.Y) {
			return true
		}
		if i > 0 {
			q := pts[i-1]
			seg := treeview.Rect{X: min(p.X, q.X), Y: min(p.Y, q.Y), Width: abs(p.X - q.X), Height: abs(p.Y - q.Y)}
			if r.Intersects(seg) {
				return true
			}
		}
	}
	return false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func hidden(n diagram.Node, set highlight.Set) bool {
	v := n.VariantOf()
	return v != "" && !set.VariantVisible(v)
}
