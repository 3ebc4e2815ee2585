package snapshot

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/phanxgames/treeview"
	"github.com/phanxgames/treeview/diagram"
	"github.com/phanxgames/treeview/highlight"
)

func rgba(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func TestRenderHighlightsActiveNode(t *testing.T) {
	d := diagram.Example()
	set := highlight.Resolve(d, highlight.Activation{Nodes: []int{1}})
	visible := treeview.Rect{X: -200, Y: -100, Width: 400, Height: 200}

	img, err := Render(d, set, visible, 200, 100, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Fatalf("bounds = %v", b)
	}

	// The keystone at the origin sits in the middle of the image.
	if got := rgba(img.At(100, 50)); got != (color.RGBA{0xa3, 0x8d, 0x6d, 0xff}) {
		t.Errorf("center pixel = %v, want active node color", got)
	}
	if got := rgba(img.At(195, 95)); got != (color.RGBA{0x08, 0x0c, 0x11, 0xff}) {
		t.Errorf("corner pixel = %v, want background", got)
	}
}

func TestRenderRejectsEmptyRegion(t *testing.T) {
	d := diagram.Example()
	if _, err := Render(d, highlight.Set{}, treeview.Rect{}, 10, 10, Options{}); err == nil {
		t.Error("empty region accepted")
	}
	if _, err := Render(d, highlight.Set{}, treeview.Rect{Width: 1, Height: 1}, 0, 10, Options{}); err == nil {
		t.Error("zero width image accepted")
	}
}

func TestSaveWithLabels(t *testing.T) {
	d := diagram.Example()
	b, _ := d.Bounds()
	path := filepath.Join(t.TempDir(), "tree.png")

	if err := Save(path, d, highlight.Set{}, b, 320, 240, Options{Labels: true}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 320, 240) {
		t.Errorf("bounds = %v", img.Bounds())
	}
}
