package ebitenhost

import (
	"bytes"
	"fmt"
	"strconv"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/phanxgames/treeview/diagram"
	"github.com/phanxgames/treeview/highlight"
)

const (
	labelSize = 12
	// Smallest on-screen node radius, in pixels, that gets a label.
	labelMinRadius = 10
)

var labelSource = sync.OnceValues(func() (*text.GoTextFaceSource, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		return nil, fmt.Errorf("ebitenhost: parse label font: %w", err)
	}
	return src, nil
})

// drawLabels writes each visible node's id below it.
func drawLabels(dst *ebiten.Image, d *diagram.Diagram, set highlight.Set, v view, pal *palette) error {
	src, err := labelSource()
	if err != nil {
		return err
	}
	face := &text.GoTextFace{Source: src, Size: labelSize}
	for _, n := range d.Nodes {
		if hidden(n, set) || !v.visible.Contains(float64(n.X), float64(n.Y)) {
			continue
		}
		r := v.length(float64(n.Kind.Radius()))
		if r < labelMinRadius {
			continue
		}
		x, y := v.point(float64(n.X), float64(n.Y))
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(x), float64(y+r)+2)
		op.PrimaryAlign = text.AlignCenter
		clr := pal.node
		if set.NodeActive(n.ID) {
			clr = pal.nodeActive
		}
		op.ColorScale.ScaleWithColor(clr)
		text.Draw(dst, strconv.Itoa(n.ID), face, op)
	}
	return nil
}
