package diagram

import (
	"math"

	"github.com/phanxgames/treeview"
)

// Polyline flattens the connection into points from node A to node B.
// Straight connections yield their two endpoints; arcs yield segments+1
// points along the circle. Used by hosts that cannot draw SVG arcs.
func (c Connection) Polyline(d *Diagram, segments int) []treeview.Vec2 {
	a, okA := d.Node(c.A)
	b, okB := d.Node(c.B)
	if !okA || !okB {
		return nil
	}
	p1 := treeview.Vec2{X: float64(a.X), Y: float64(a.Y)}
	p2 := treeview.Vec2{X: float64(b.X), Y: float64(b.Y)}
	if c.Arc == nil || c.Arc.Radius <= 0 || p1 == p2 {
		return []treeview.Vec2{p1, p2}
	}
	return flattenArc(p1, p2, float64(c.Arc.Radius), c.Arc.Clockwise, max(segments, 1))
}

// flattenArc follows the SVG endpoint-to-center conversion for a circular
// arc with the large-arc flag cleared. A radius shorter than half the chord
// is scaled up, as SVG renderers do.
func flattenArc(p1, p2 treeview.Vec2, r float64, sweep bool, segments int) []treeview.Vec2 {
	hx := (p1.X - p2.X) / 2
	hy := (p1.Y - p2.Y) / 2
	h := math.Hypot(hx, hy)
	r = math.Max(r, h)

	k := math.Sqrt(math.Max(0, r*r-h*h)) / h
	if !sweep {
		k = -k
	}
	cx := (p1.X+p2.X)/2 + k*hy
	cy := (p1.Y+p2.Y)/2 - k*hx

	t1 := math.Atan2(p1.Y-cy, p1.X-cx)
	t2 := math.Atan2(p2.Y-cy, p2.X-cx)
	dt := t2 - t1
	if sweep && dt < 0 {
		dt += 2 * math.Pi
	} else if !sweep && dt > 0 {
		dt -= 2 * math.Pi
	}

	pts := make([]treeview.Vec2, 0, segments+1)
	pts = append(pts, p1)
	for i := 1; i < segments; i++ {
		t := t1 + dt*float64(i)/float64(segments)
		pts = append(pts, treeview.Vec2{X: cx + r*math.Cos(t), Y: cy + r*math.Sin(t)})
	}
	return append(pts, p2)
}

var (
	angles16 = [16]float64{0, 30, 45, 60, 90, 120, 135, 150, 180, 210, 225, 240, 270, 300, 315, 330}
	angles40 = [40]float64{
		0, 10, 20, 30, 40, 45, 50, 60, 70, 80, 90, 100, 110, 120, 130, 135, 140, 150, 160, 170, 180,
		190, 200, 210, 220, 225, 230, 240, 250, 260, 270, 280, 290, 300, 310, 315, 320, 330, 340, 350,
	}
)

// OrbitPosition places the index-th slot of an orbit with the given radius
// and slot count around a group center. Orbits with 16 or 40 slots use the
// irregular angle tables of the source data; others are evenly spaced.
// Angle 0 points up and angles grow clockwise.
func OrbitPosition(groupX, groupY, radius float64, slots, index int) (x, y int) {
	var deg float64
	switch {
	case slots == 16 && index >= 0 && index < 16:
		deg = angles16[index]
	case slots == 40 && index >= 0 && index < 40:
		deg = angles40[index]
	case slots > 0:
		deg = 360 / float64(slots) * float64(index)
	}
	rad := deg * math.Pi / 180
	return int(math.Round(groupX + radius*math.Sin(rad))), int(math.Round(groupY - radius*math.Cos(rad)))
}

// Example returns a small built-in diagram: a keystone hub with three orbit
// groups and one variant subtree. Used when no diagram file is given.
func Example() *Diagram {
	d := &Diagram{
		Variants: []Variant{
			{Name: "Warden", ClassID: 1, VariantID: 1},
			{Name: "Oracle", ClassID: 1, VariantID: 2, Alternate: true},
		},
	}
	add := func(id, x, y int, kind Kind, variant string) {
		d.Nodes = append(d.Nodes, Node{ID: id, X: x, Y: y, Kind: kind, Variant: variant})
	}
	connect := func(a, b int, arc *Arc) {
		d.Connections = append(d.Connections, Connection{A: a, B: b, Arc: arc})
	}

	add(1, 0, 0, KindKeystone, "")
	groups := []struct {
		x, y float64
		base int
	}{{-1200, -600, 100}, {1200, -600, 200}, {0, 1200, 300}}
	for _, g := range groups {
		prev := 0
		for i := 0; i < 6; i++ {
			x, y := OrbitPosition(g.x, g.y, 330, 16, i*2)
			kind := KindNormal
			if i == 5 {
				kind = KindNotable
			}
			id := g.base + i
			add(id, x, y, kind, "")
			if prev != 0 {
				connect(prev, id, &Arc{Radius: 330, Clockwise: true})
			}
			prev = id
		}
		mx, my := int(g.x), int(g.y)
		add(g.base+50, mx, my, KindMastery, "")
		connect(1, g.base, nil)
	}

	for i, v := range []string{"Warden", "Oracle"} {
		base := 900 + i*10
		cx := float64(-500 + i*1000)
		add(base, int(cx), 2600, KindVariantStart, v)
		for j := 1; j <= 3; j++ {
			x, y := OrbitPosition(cx, 2600, 250, 8, j)
			kind := KindVariant
			if j == 3 {
				kind = KindVariantNotable
			}
			add(base+j, x, y, kind, v)
			connect(base, base+j, nil)
		}
	}
	if err := d.Validate(); err != nil {
		panic(err) // built-in data
	}
	return d
}
