// Package ebitenhost shows a diagram in a desktop window and feeds mouse,
// touch, and wheel input to a treeview.Controller.
package ebitenhost

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/treeview"
	"github.com/phanxgames/treeview/diagram"
	"github.com/phanxgames/treeview/highlight"
)

const animDuration = 0.4

// Options configures a Game.
type Options struct {
	Title         string
	Width, Height int
	Colors        diagram.Colors
	// Activation is the initial highlight state.
	Activation *highlight.Activation
	// ShowFPS draws the FPS and zoom overlay.
	ShowFPS bool
	// Labels draws node ids once nodes are large enough.
	Labels bool
	// Input overrides the device input, for tests and replays.
	Input InputSource
}

// Game implements ebiten.Game.
type Game struct {
	ctrl    *treeview.Controller
	diagram *diagram.Diagram
	input   InputSource
	track   *tracker
	events  []treeview.Event
	palette palette
	showFPS bool
	labels  bool
	blurred bool

	visible treeview.Rect

	// Layout may run on a different goroutine than Update.
	sizeMu        sync.Mutex
	outW, outH    int
	width, height int

	setMu sync.Mutex
	set   highlight.Set
}

// NewGame creates a game that shows d with the given controller config.
func NewGame(d *diagram.Diagram, cfg treeview.Config, opts Options) (*Game, error) {
	g := &Game{
		diagram: d,
		input:   opts.Input,
		track:   newTracker(),
		showFPS: opts.ShowFPS,
		labels:  opts.Labels,
	}
	if g.input == nil {
		g.input = &ebitenInput{}
	}
	colors := opts.Colors
	if colors == (diagram.Colors{}) {
		colors = diagram.DefaultColors
	}
	g.palette = newPalette(colors)

	ctrl, err := treeview.NewController(cfg, treeview.SurfaceFunc(func(r treeview.Rect) {
		g.visible = r
	}))
	if err != nil {
		return nil, fmt.Errorf("ebitenhost: %w", err)
	}
	g.ctrl = ctrl
	if opts.Activation != nil {
		g.set = highlight.Resolve(d, *opts.Activation)
	}
	return g, nil
}

// Controller returns the game's controller.
func (g *Game) Controller() *treeview.Controller { return g.ctrl }

// SetActivation updates the highlighted nodes. Safe to call from any
// goroutine.
func (g *Game) SetActivation(a highlight.Activation) {
	s := highlight.Resolve(g.diagram, a)
	g.setMu.Lock()
	g.set = s
	g.setMu.Unlock()
}

func (g *Game) highlightSet() highlight.Set {
	g.setMu.Lock()
	defer g.setMu.Unlock()
	return g.set
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	g.sizeMu.Lock()
	w, h := g.outW, g.outH
	g.sizeMu.Unlock()
	if w != g.width || h != g.height {
		g.width, g.height = w, h
		g.ctrl.Handle(treeview.Resize{Width: float64(w), Height: float64(h)})
	}

	// Contacts held while the window loses focus never report their end.
	if focused := ebiten.IsFocused(); !focused && !g.blurred {
		g.ctrl.CancelContacts()
		g.blurred = true
	} else if focused {
		g.blurred = false
	}

	g.events = g.track.poll(g.input, g.events[:0])
	g.ctrl.HandleAll(g.events...)

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.ctrl.Reset(animDuration)
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		if b, ok := g.diagram.Bounds(); ok {
			g.ctrl.Fit(b, diagram.Padding, animDuration)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyF3):
		g.showFPS = !g.showFPS
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		g.labels = !g.labels
	}

	g.ctrl.Update(float32(1.0 / float64(ebiten.TPS())))
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.palette.background)
	if !g.ctrl.Initialized() {
		return
	}
	set := g.highlightSet()
	drawDiagram(screen, g.diagram, set, g.visible, &g.palette)
	if g.labels {
		b := screen.Bounds()
		if err := drawLabels(screen, g.diagram, set, newView(g.visible, b.Dx(), b.Dy()), &g.palette); err != nil {
			treeview.Logger().Warn("ebitenhost: labels disabled", "error", err)
			g.labels = false
		}
	}
	if g.showFPS {
		s := g.ctrl.State()
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nzoom: %.3f\n%s",
			ebiten.ActualFPS(), s.Zoom, g.visible.ViewBox()))
	}
}

// Layout implements ebiten.Game. The window size is the surface size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.sizeMu.Lock()
	g.outW, g.outH = outsideWidth, outsideHeight
	g.sizeMu.Unlock()
	return outsideWidth, outsideHeight
}

// Run opens a window and blocks until it is closed. Every activation
// received from updates is applied until the channel closes; updates may be
// nil.
func Run(d *diagram.Diagram, cfg treeview.Config, opts Options, updates <-chan highlight.Activation) error {
	g, err := NewGame(d, cfg, opts)
	if err != nil {
		return err
	}
	if updates != nil {
		go func() {
			for a := range updates {
				g.SetActivation(a)
			}
		}()
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 800
	}
	if opts.Title == "" {
		opts.Title = "treeview"
	}
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	treeview.Logger().Info("ebitenhost: opening window",
		slog.Int("width", opts.Width), slog.Int("height", opts.Height))
	return ebiten.RunGame(g)
}
