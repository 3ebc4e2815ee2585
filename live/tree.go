package live

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/phanxgames/treeview"
	"github.com/phanxgames/treeview/diagram"
	"github.com/phanxgames/treeview/highlight"
)

// ErrInvalidColor is returned for colour parameters with characters other
// than ASCII letters, digits and '#'.
var ErrInvalidColor = errors.New("invalid color")

// treeCacheAge is the max-age of rendered tree links; a link always renders
// the same document.
const treeCacheAge = 7 * 24 * 60 * 60

// ColorsFromQuery overrides base with the colour parameters in q.
// "color" and "activeColor" set both the node and connection colours; the
// specific parameters win over them.
func ColorsFromQuery(base diagram.Colors, q url.Values) (diagram.Colors, error) {
	c := base
	for _, p := range []struct {
		name string
		dst  []*string
	}{
		{"backgroundColor", []*string{&c.Background}},
		{"color", []*string{&c.Node, &c.Connection}},
		{"activeColor", []*string{&c.NodeActive, &c.ConnectionActive}},
		{"nodeColor", []*string{&c.Node}},
		{"nodeActiveColor", []*string{&c.NodeActive}},
		{"connectionColor", []*string{&c.Connection}},
		{"connectionActiveColor", []*string{&c.ConnectionActive}},
	} {
		if !q.Has(p.name) {
			continue
		}
		v := q.Get(p.name)
		if !validColor(v) {
			return base, fmt.Errorf("%w: %s=%q", ErrInvalidColor, p.name, v)
		}
		for _, dst := range p.dst {
			*dst = v
		}
	}
	return c, nil
}

func validColor(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '#':
		default:
			return false
		}
	}
	return true
}

// RenderTree writes the diagram as SVG with the activation encoded in the
// tree link stu highlighted.
func RenderTree(d *diagram.Diagram, stu string, colors diagram.Colors) ([]byte, error) {
	a, err := highlight.ParseTreeURL(stu)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err = diagram.WriteSVG(&buf, d, diagram.SVGOptions{
		Colors:     colors,
		Stylesheet: highlight.Stylesheet(highlight.Resolve(d, a), colors),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	colors, err := ColorsFromQuery(s.colors, r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	body, err := RenderTree(s.diagram, r.PathValue("stu"), colors)
	if err != nil {
		treeview.Logger().Debug("live: tree link rejected", slog.Any("err", err))
		http.Error(w, "invalid tree link: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", treeCacheAge))
	if _, err := w.Write(body); err != nil {
		treeview.Logger().Debug("live: tree write failed", slog.Any("err", err))
	}
}
