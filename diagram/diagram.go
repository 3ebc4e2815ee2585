// Package diagram loads the node-and-connection model rendered by every
// treeview host and writes it as SVG.
package diagram

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/phanxgames/treeview"
)

var (
	// ErrUnknownNode is returned by Validate when a connection references a
	// node id that is not part of the diagram.
	ErrUnknownNode = errors.New("diagram: unknown node")
	// ErrDuplicateNode is returned by Validate when two nodes share an id.
	ErrDuplicateNode = errors.New("diagram: duplicate node id")
)

// Kind is the visual category of a node.
type Kind string

const (
	KindNormal         Kind = ""
	KindNotable        Kind = "notable"
	KindKeystone       Kind = "keystone"
	KindMastery        Kind = "mastery"
	KindVariantStart   Kind = "variantStart"
	KindVariantNotable Kind = "variantNotable"
	KindVariant        Kind = "variant"
)

// IsVariant reports whether nodes of this kind belong to a variant subtree
// and are hidden unless that variant is active.
func (k Kind) IsVariant() bool {
	return k == KindVariantStart || k == KindVariantNotable || k == KindVariant
}

// Radius returns the drawn circle radius in content units.
func (k Kind) Radius() int {
	switch k {
	case KindMastery:
		return 35
	case KindKeystone:
		return 80
	case KindVariantNotable:
		return 65
	case KindVariant:
		return 45
	default:
		return 50
	}
}

// Node is a point in content space.
type Node struct {
	ID      int    `json:"id"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Kind    Kind   `json:"kind,omitempty"`
	Variant string `json:"variant,omitempty"` // variant name for variant kinds
}

// Arc describes a circular connection. Clockwise is the SVG sweep flag.
type Arc struct {
	Radius    int  `json:"radius"`
	Clockwise bool `json:"clockwise"`
}

// Connection joins two nodes with a straight line or, when Arc is set, a
// circular arc.
type Connection struct {
	A   int  `json:"a"`
	B   int  `json:"b"`
	Arc *Arc `json:"arc,omitempty"`
}

// Variant is an optional subtree selectable by class and variant ids.
type Variant struct {
	Name      string `json:"name"`
	ClassID   int    `json:"classId"`
	VariantID int    `json:"variantId"`
	// Alternate marks variants selected through the alternate variant id.
	Alternate bool `json:"alternate,omitempty"`
}

// Diagram is the full drawable model.
type Diagram struct {
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections"`
	Variants    []Variant    `json:"variants,omitempty"`

	byID map[int]int
}

// Load reads a JSON diagram from path.
func Load(path string) (*Diagram, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load diagram: %w", err)
	}
	defer f.Close()
	d, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load diagram %s: %w", path, err)
	}
	return d, nil
}

// Decode reads a JSON diagram and validates it.
func Decode(r io.Reader) (*Diagram, error) {
	var d Diagram
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode diagram: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks that node ids are unique and that every connection
// references known nodes. It also builds the id index used by Node.
func (d *Diagram) Validate() error {
	d.byID = make(map[int]int, len(d.Nodes))
	for i, n := range d.Nodes {
		if _, dup := d.byID[n.ID]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateNode, n.ID)
		}
		d.byID[n.ID] = i
	}
	for _, c := range d.Connections {
		for _, id := range [2]int{c.A, c.B} {
			if _, ok := d.byID[id]; !ok {
				return fmt.Errorf("%w: connection %s references %d", ErrUnknownNode, ConnectionID(c.A, c.B), id)
			}
		}
	}
	return nil
}

// Node returns the node with the given id.
func (d *Diagram) Node(id int) (Node, bool) {
	if d.byID == nil {
		if err := d.Validate(); err != nil {
			treeview.Logger().Warn("diagram: node lookup on invalid diagram", "err", err)
		}
	}
	i, ok := d.byID[id]
	if !ok {
		return Node{}, false
	}
	return d.Nodes[i], true
}

// Bounds returns the bounding rectangle of node centers. ok is false for an
// empty diagram.
func (d *Diagram) Bounds() (r treeview.Rect, ok bool) {
	if len(d.Nodes) == 0 {
		return treeview.Rect{}, false
	}
	minX, minY := math.MaxInt, math.MaxInt
	maxX, maxY := math.MinInt, math.MinInt
	for _, n := range d.Nodes {
		minX, maxX = min(minX, n.X), max(maxX, n.X)
		minY, maxY = min(minY, n.Y), max(maxY, n.Y)
	}
	return treeview.Rect{
		X:      float64(minX),
		Y:      float64(minY),
		Width:  float64(maxX - minX),
		Height: float64(maxY - minY),
	}, true
}

// VariantOf returns the variant a node belongs to, or "" for nodes outside
// any variant subtree.
func (n Node) VariantOf() string {
	if !n.Kind.IsVariant() {
		return ""
	}
	return n.Variant
}

// NodeID returns the SVG element id of a node.
func NodeID(id int) string {
	return "n" + strconv.Itoa(id)
}

// ConnectionID returns the SVG element id of a connection. The id is the
// same whichever end is given first.
func ConnectionID(a, b int) string {
	return "c" + strconv.Itoa(min(a, b)) + "-" + strconv.Itoa(max(a, b))
}
