// Package highlight decides which parts of a diagram are drawn as active.
// It never touches viewport state: hosts apply its output as styles on top
// of whatever region the controller shows.
package highlight

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/treeview/diagram"
)

// Activation is the external input: allocated node ids and the selected
// class and variants.
type Activation struct {
	Nodes              []int `json:"nodes" yaml:"nodes"`
	ClassID            int   `json:"classId" yaml:"classId"`
	VariantID          int   `json:"variantId" yaml:"variantId"`
	AlternateVariantID int   `json:"alternateVariantId,omitempty" yaml:"alternateVariantId,omitempty"`
}

// Set is the resolved highlight state for one diagram.
type Set struct {
	// Nodes are active node ids, sorted and de-duplicated. Ids the diagram
	// does not contain are dropped.
	Nodes []int
	// Connections are ConnectionIDs whose two ends are both active.
	Connections []string
	// Variants are the names of visible variant subtrees.
	Variants []string

	nodes map[int]struct{}
	conns map[string]struct{}
}

// Resolve computes the highlight set of a for d.
func Resolve(d *diagram.Diagram, a Activation) Set {
	s := Set{
		nodes: make(map[int]struct{}, len(a.Nodes)),
		conns: make(map[string]struct{}),
	}
	for _, id := range a.Nodes {
		if _, ok := d.Node(id); !ok {
			continue
		}
		if _, dup := s.nodes[id]; dup {
			continue
		}
		s.nodes[id] = struct{}{}
		s.Nodes = append(s.Nodes, id)
	}
	slices.Sort(s.Nodes)

	for _, c := range d.Connections {
		_, okA := s.nodes[c.A]
		_, okB := s.nodes[c.B]
		if !okA || !okB {
			continue
		}
		id := diagram.ConnectionID(c.A, c.B)
		if _, dup := s.conns[id]; dup {
			continue
		}
		s.conns[id] = struct{}{}
		s.Connections = append(s.Connections, id)
	}

	for _, v := range d.Variants {
		if v.ClassID != a.ClassID {
			continue
		}
		if (!v.Alternate && v.VariantID == a.VariantID) ||
			(v.Alternate && a.AlternateVariantID != 0 && v.VariantID == a.AlternateVariantID) {
			s.Variants = append(s.Variants, v.Name)
		}
	}
	return s
}

// NodeActive reports whether node id is highlighted.
func (s Set) NodeActive(id int) bool {
	_, ok := s.nodes[id]
	return ok
}

// ConnectionActive reports whether the connection between a and b is
// highlighted.
func (s Set) ConnectionActive(a, b int) bool {
	_, ok := s.conns[diagram.ConnectionID(a, b)]
	return ok
}

// VariantVisible reports whether the named variant subtree is shown.
func (s Set) VariantVisible(name string) bool {
	return slices.Contains(s.Variants, name)
}

// Stylesheet renders s as CSS rules addressing the element ids written by
// diagram.WriteSVG.
func Stylesheet(s Set, c diagram.Colors) string {
	if c == (diagram.Colors{}) {
		c = diagram.DefaultColors
	}
	var b strings.Builder
	for _, v := range s.Variants {
		fmt.Fprintf(&b, ".variant.%s { display: block !important; }\n", v)
	}
	if len(s.Nodes) > 0 {
		ids := make([]string, len(s.Nodes))
		for i, id := range s.Nodes {
			ids[i] = "#" + diagram.NodeID(id)
		}
		fmt.Fprintf(&b, "%s { color: %s; }\n", strings.Join(ids, ", "), c.NodeActive)
	}
	if len(s.Connections) > 0 {
		ids := make([]string, len(s.Connections))
		for i, id := range s.Connections {
			ids[i] = "#" + id
		}
		fmt.Fprintf(&b, "%s { color: %s; stroke-width: 35; }\n", strings.Join(ids, ", "), c.ConnectionActive)
	}
	return b.String()
}

// LoadActivation reads an activation file. JSON is accepted as a subset of
// YAML.
func LoadActivation(path string) (Activation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Activation{}, fmt.Errorf("load activation: %w", err)
	}
	return ParseActivation(data)
}

// ParseActivation decodes an activation document.
func ParseActivation(data []byte) (Activation, error) {
	var a Activation
	if err := yaml.Unmarshal(data, &a); err != nil {
		return Activation{}, fmt.Errorf("parse activation: %w", err)
	}
	return a, nil
}

// sameFile reports whether two paths name the same file after cleaning.
func sameFile(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}
