package diagram

import (
	"fmt"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// Padding is the default margin, in content units, added around the node
// bounds in the SVG viewBox.
const Padding = 100

// Colors is the palette used for diagram rendering and highlight styles.
type Colors struct {
	Background       string `json:"background" yaml:"background"`
	Node             string `json:"node" yaml:"node"`
	NodeActive       string `json:"nodeActive" yaml:"nodeActive"`
	Connection       string `json:"connection" yaml:"connection"`
	ConnectionActive string `json:"connectionActive" yaml:"connectionActive"`
}

// DefaultColors is the dark palette.
var DefaultColors = Colors{
	Background:       "#080c11",
	Node:             "#353535",
	NodeActive:       "#a38d6d",
	Connection:       "#353535",
	ConnectionActive: "#a38d6d",
}

// SVGOptions controls WriteSVG.
type SVGOptions struct {
	// Padding around the node bounds. Zero means the Padding constant.
	Padding int
	Colors  Colors
	// Stylesheet is appended to the base styles, typically the output of
	// highlight.Stylesheet.
	Stylesheet string
}

// WriteSVG writes the diagram as a standalone SVG document. Nodes get ids
// from NodeID and connections from ConnectionID so that stylesheets and
// hosts can address them.
func WriteSVG(w io.Writer, d *Diagram, opts SVGOptions) error {
	if d.byID == nil {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
	}
	pad := opts.Padding
	if pad == 0 {
		pad = Padding
	}
	colors := opts.Colors
	if colors == (Colors{}) {
		colors = DefaultColors
	}

	b, _ := d.Bounds()
	viewBox := fmt.Sprintf(`viewBox="%d %d %d %d"`,
		int(b.X)-pad, int(b.Y)-pad, int(b.Width)+2*pad, int(b.Height)+2*pad)

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Startraw(viewBox, `preserveAspectRatio="none"`)
	canvas.Style("text/css", baseStyles(colors)+opts.Stylesheet)

	canvas.Group(`class="connections"`, `fill="none"`, `stroke-width="20"`, `stroke="currentColor"`)
	for _, c := range d.Connections {
		a, _ := d.Node(c.A)
		bn, _ := d.Node(c.B)
		attrs := []string{fmt.Sprintf(`id="%s"`, ConnectionID(c.A, c.B))}
		if v := a.VariantOf(); v != "" {
			attrs = append(attrs, fmt.Sprintf(`class="variant %s"`, v))
		}
		if c.Arc != nil && c.Arc.Radius > 0 {
			r := c.Arc.Radius
			canvas.Arc(a.X, a.Y, r, r, 0, false, c.Arc.Clockwise, bn.X, bn.Y, attrs...)
		} else {
			canvas.Line(a.X, a.Y, bn.X, bn.Y, attrs...)
		}
	}
	canvas.Gend()

	canvas.Group(`class="nodes"`, `stroke="currentColor"`, `fill="currentColor"`)
	for _, n := range d.Nodes {
		attrs := []string{fmt.Sprintf(`id="%s"`, NodeID(n.ID))}
		var classes []string
		switch n.Kind {
		case KindMastery, KindKeystone, KindNotable:
			classes = append(classes, string(n.Kind))
		}
		if v := n.VariantOf(); v != "" {
			classes = append(classes, "variant", v)
		}
		if len(classes) > 0 {
			attrs = append(attrs, fmt.Sprintf(`class="%s"`, strings.Join(classes, " ")))
		}
		canvas.Circle(n.X, n.Y, n.Kind.Radius(), attrs...)
	}
	canvas.Gend()
	canvas.End()
	return ew.err
}

func baseStyles(c Colors) string {
	return fmt.Sprintf(`
svg { background-color: %s; }
.nodes { color: %s; }
.nodes circle.mastery { color: transparent; stroke-width: 40; }
.connections { color: %s; }
.variant { display: none; }
`, c.Background, c.Node, c.Connection)
}

// errWriter keeps the first write error; svgo does not report errors.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
