package treeview

import (
	"errors"
	"math"
	"testing"
)

// recordingSurface captures every visible rectangle pushed by a controller.
type recordingSurface struct {
	rects []Rect
}

func (s *recordingSurface) SetVisibleRegion(r Rect) { s.rects = append(s.rects, r) }

func (s *recordingSurface) last() Rect { return s.rects[len(s.rects)-1] }

func exampleConfig() Config {
	return Config{
		MinZoom:     0.7,
		MaxZoom:     3.0,
		InitialZoom: 1,
		ZoomFactor:  1.0 / 500,
		ZoomEpsilon: 0.001,
	}
}

func newTestController(t *testing.T, cfg Config) (*Controller, *recordingSurface) {
	t.Helper()
	surf := &recordingSurface{}
	c, err := NewController(cfg, surf)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return c, surf
}

func TestNewControllerRejectsInvalidConfig(t *testing.T) {
	_, err := NewController(Config{MinZoom: 2, MaxZoom: 1}, nil)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
	_, err = NewController(Config{Mode: ModeContentRelative}, nil)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("content-relative without extent: err = %v, want ErrInvalidConfig", err)
	}
}

func TestDeferredInitialization(t *testing.T) {
	c, surf := newTestController(t, exampleConfig())

	res := c.Handle(Resize{Width: 0, Height: 0})
	if !res.Handled || res.Changed {
		t.Errorf("zero resize = %+v, want handled without change", res)
	}
	if c.Initialized() {
		t.Fatal("initialized with a zero-size surface")
	}
	if c.Update(1.0 / 60) {
		t.Error("Update reported a change while the surface is still zero-sized")
	}
	if len(surf.rects) != 0 {
		t.Fatalf("surface received %d rects before layout", len(surf.rects))
	}
	if _, ok := c.VisibleRect(); ok {
		t.Error("VisibleRect ok before initialization")
	}

	res = c.Handle(Resize{Width: 800, Height: 600})
	if !res.Changed || !c.Initialized() {
		t.Fatalf("resize to 800x600 = %+v, initialized=%v", res, c.Initialized())
	}
	if len(surf.rects) != 1 {
		t.Fatalf("surface received %d rects, want 1", len(surf.rects))
	}
	want := Rect{X: -400, Y: -300, Width: 800, Height: 600}
	if surf.last() != want {
		t.Errorf("visible = %+v, want %+v", surf.last(), want)
	}
}

func TestUpdateRetriesInitialization(t *testing.T) {
	c, surf := newTestController(t, exampleConfig())
	c.width, c.height = 640, 480 // surface laid out without a resize event
	if !c.Update(1.0 / 60) {
		t.Fatal("Update did not initialize")
	}
	if len(surf.rects) != 1 {
		t.Errorf("surface received %d rects, want 1", len(surf.rects))
	}
}

func TestInitialZoomFromWidthTiers(t *testing.T) {
	tests := []struct {
		width float64
		want  float64
	}{
		{600, 0.035},
		{701, 0.05},
		{1000, 0.05},
		{1001, 0.06},
		{1920, 0.07},
	}
	for _, tt := range tests {
		c, _ := newTestController(t, DefaultConfig())
		c.Handle(Resize{Width: tt.width, Height: 800})
		if got := c.State().Zoom; got != tt.want {
			t.Errorf("width %v: zoom = %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestPanSingleContact(t *testing.T) {
	c, surf := newTestController(t, exampleConfig())
	c.Handle(Resize{Width: 800, Height: 600})

	c.Handle(ContactStart{ID: 1, Pos: Vec2{100, 100}})
	res := c.Handle(ContactMove{ID: 1, Pos: Vec2{130, 90}})
	if !res.Changed {
		t.Fatal("pan move reported no change")
	}
	if c.State().Center != (Vec2{-30, 10}) {
		t.Errorf("Center = %v, want (-30,10)", c.State().Center)
	}
	if got := surf.last(); got.X != -430 || got.Y != -290 {
		t.Errorf("visible origin = (%v,%v), want (-430,-290)", got.X, got.Y)
	}
	if c.Gesture() != GesturePan {
		t.Errorf("Gesture = %v, want pan", c.Gesture())
	}
}

func TestMoveUnknownContactIsNoop(t *testing.T) {
	c, surf := newTestController(t, exampleConfig())
	c.Handle(Resize{Width: 800, Height: 600})
	n := len(surf.rects)

	res := c.Handle(ContactMove{ID: 42, Pos: Vec2{1, 1}})
	if res.Handled || res.Changed {
		t.Errorf("move for unknown id = %+v, want zero result", res)
	}
	if res := c.Handle(ContactEnd{ID: 42}); res.Changed {
		t.Error("end for unknown id reported a change")
	}
	if len(surf.rects) != n {
		t.Error("surface updated for an unknown contact")
	}
}

func TestPinchExample(t *testing.T) {
	c, _ := newTestController(t, exampleConfig())
	c.Handle(Resize{Width: 800, Height: 600})

	c.Handle(ContactStart{ID: 1, Pos: Vec2{100, 100}})
	c.Handle(ContactStart{ID: 2, Pos: Vec2{200, 100}})

	// First pinch frame: distance 125 to the partner at (200,100).
	// It only records the baseline.
	res := c.Handle(ContactMove{ID: 1, Pos: Vec2{75, 100}})
	if res.Changed {
		t.Fatal("first pinch frame changed the zoom")
	}
	if c.State().Zoom != 1 {
		t.Fatalf("Zoom = %v after baseline frame, want 1", c.State().Zoom)
	}

	// Second frame: distance 150. pinchDelta = 125 - 150 = -25, zoom 1.05.
	res = c.Handle(ContactMove{ID: 2, Pos: Vec2{225, 100}})
	if !res.Changed {
		t.Fatal("second pinch frame did not change the zoom")
	}
	if !approxEqual(c.State().Zoom, 1.05, 1e-12) {
		t.Errorf("Zoom = %v, want 1.05", c.State().Zoom)
	}
}

// Distance 100 to 150 in one sample step: zoomTo(1 - (-50/500)) = 1.1.
func TestPinchDistanceDeltaToZoom(t *testing.T) {
	c, _ := newTestController(t, exampleConfig())
	c.Handle(Resize{Width: 800, Height: 600})
	c.Handle(ContactStart{ID: 1, Pos: Vec2{100, 100}})
	c.Handle(ContactStart{ID: 2, Pos: Vec2{200, 100}})

	c.Handle(ContactMove{ID: 2, Pos: Vec2{200, 100}}) // baseline at 100
	c.Handle(ContactMove{ID: 2, Pos: Vec2{250, 100}}) // distance 150

	if !approxEqual(c.State().Zoom, 1.1, 1e-12) {
		t.Errorf("Zoom = %v, want 1.1", c.State().Zoom)
	}
}

func TestPinchResyncAfterContactEnds(t *testing.T) {
	c, _ := newTestController(t, exampleConfig())
	c.Handle(Resize{Width: 800, Height: 600})
	c.Handle(ContactStart{ID: 1, Pos: Vec2{0, 0}})
	c.Handle(ContactStart{ID: 2, Pos: Vec2{100, 0}})
	c.Handle(ContactMove{ID: 2, Pos: Vec2{100, 0}}) // baseline 100
	c.Handle(ContactMove{ID: 2, Pos: Vec2{120, 0}}) // zoom in a little
	zoomBefore := c.State().Zoom

	c.Handle(ContactEnd{ID: 2})
	c.Handle(ContactStart{ID: 3, Pos: Vec2{400, 0}})

	// Distance jumps from 120 to 410; the first frame must only re-baseline.
	res := c.Handle(ContactMove{ID: 3, Pos: Vec2{410, 0}})
	if res.Changed || c.State().Zoom != zoomBefore {
		t.Fatalf("first post-reset frame changed zoom %v -> %v", zoomBefore, c.State().Zoom)
	}
	c.Handle(ContactMove{ID: 3, Pos: Vec2{420, 0}})
	want := zoomBefore + 10.0/500
	if !approxEqual(c.State().Zoom, want, 1e-12) {
		t.Errorf("Zoom = %v, want %v", c.State().Zoom, want)
	}
}

func TestCancelResetsPinchLikeEnd(t *testing.T) {
	c, _ := newTestController(t, exampleConfig())
	c.Handle(Resize{Width: 800, Height: 600})
	c.Handle(ContactStart{ID: 1, Pos: Vec2{0, 0}})
	c.Handle(ContactStart{ID: 2, Pos: Vec2{100, 0}})
	c.Handle(ContactStart{ID: 3, Pos: Vec2{500, 500}})
	c.Handle(ContactMove{ID: 2, Pos: Vec2{100, 0}})

	// Cancelling a contact outside the pinch pair still forgets the sample.
	c.Handle(ContactCancel{ID: 3})
	if c.Contacts() != 2 {
		t.Fatalf("Contacts = %d, want 2", c.Contacts())
	}
	if res := c.Handle(ContactMove{ID: 2, Pos: Vec2{200, 0}}); res.Changed {
		t.Error("first frame after cancel changed the zoom")
	}
}

func TestThirdContactDoesNotZoom(t *testing.T) {
	c, _ := newTestController(t, exampleConfig())
	c.Handle(Resize{Width: 800, Height: 600})
	c.Handle(ContactStart{ID: 1, Pos: Vec2{0, 0}})
	c.Handle(ContactStart{ID: 2, Pos: Vec2{100, 0}})
	c.Handle(ContactStart{ID: 3, Pos: Vec2{300, 0}})
	c.Handle(ContactMove{ID: 2, Pos: Vec2{100, 0}})

	res := c.Handle(ContactMove{ID: 3, Pos: Vec2{900, 0}})
	if !res.Handled || res.Changed {
		t.Errorf("third contact move = %+v, want handled without change", res)
	}
	if p, _ := c.ContactPosition(3); p != (Vec2{900, 0}) {
		t.Errorf("third contact position = %v, want (900,0)", p)
	}
	// The pair's baseline survives the third contact's motion.
	c.Handle(ContactMove{ID: 2, Pos: Vec2{150, 0}})
	if !approxEqual(c.State().Zoom, 1.1, 1e-12) {
		t.Errorf("Zoom = %v, want 1.1", c.State().Zoom)
	}
}

func TestWheel(t *testing.T) {
	c, surf := newTestController(t, exampleConfig())
	c.Handle(Resize{Width: 800, Height: 600})
	n := len(surf.rects)

	if res := c.Handle(Wheel{DeltaY: 0}); !res.Handled || res.Changed {
		t.Errorf("zero wheel = %+v, want handled without change", res)
	}
	if len(surf.rects) != n {
		t.Error("zero wheel re-projected")
	}

	res := c.Handle(Wheel{DeltaY: -100})
	if !res.Changed {
		t.Fatal("wheel -100 reported no change")
	}
	if !approxEqual(c.State().Zoom, 1.2, 1e-12) {
		t.Errorf("Zoom = %v, want 1.2", c.State().Zoom)
	}
	if len(surf.rects) != n+1 {
		t.Errorf("surface updates = %d, want %d", len(surf.rects), n+1)
	}
}

func TestWheelWithModifiersPassesThrough(t *testing.T) {
	c, _ := newTestController(t, exampleConfig())
	c.Handle(Resize{Width: 800, Height: 600})
	res := c.Handle(Wheel{DeltaY: -100, Modifiers: ModCtrl})
	if res.Handled {
		t.Error("ctrl+wheel was handled")
	}
	if c.State().Zoom != 1 {
		t.Errorf("Zoom = %v, want 1", c.State().Zoom)
	}
}

func TestWheelClampedNoopReportsUnchanged(t *testing.T) {
	c, surf := newTestController(t, exampleConfig())
	c.Handle(Resize{Width: 800, Height: 600})
	c.Handle(Wheel{DeltaY: 5000}) // to the floor
	n := len(surf.rects)
	before := c.State()

	res := c.Handle(Wheel{DeltaY: 100})
	if res.Changed {
		t.Error("wheel at floor reported a change")
	}
	if c.State() != before || len(surf.rects) != n {
		t.Error("wheel at floor touched state or surface")
	}
}

func TestInvalidEventsDropped(t *testing.T) {
	c, _ := newTestController(t, exampleConfig())
	for _, ev := range []Event{
		ContactStart{ID: 1, Pos: Vec2{math.NaN(), 0}},
		Wheel{DeltaY: math.Inf(1)},
		Resize{Width: -5, Height: 10},
		nil,
	} {
		if res := c.Handle(ev); res.Handled {
			t.Errorf("Handle(%#v) was handled", ev)
		}
	}
	if c.Contacts() != 0 {
		t.Error("invalid start was tracked")
	}
}

func TestResizeKeepsStateAndReprojects(t *testing.T) {
	c, surf := newTestController(t, exampleConfig())
	c.Handle(Resize{Width: 800, Height: 600})
	c.Handle(ContactStart{ID: 1, Pos: Vec2{0, 0}})
	c.Handle(ContactMove{ID: 1, Pos: Vec2{-50, 0}})
	before := c.State()

	c.Handle(Resize{Width: 1000, Height: 600})
	if c.State() != before {
		t.Error("resize changed the viewport state")
	}
	want := Rect{X: 50 - 500, Y: -300, Width: 1000, Height: 600}
	if surf.last() != want {
		t.Errorf("visible = %+v, want %+v", surf.last(), want)
	}
}

func TestContentRelativePanTracksFinger(t *testing.T) {
	cfg := exampleConfig()
	cfg.Mode = ModeContentRelative
	cfg.ContentExtent = Vec2{2000, 1000}
	c, surf := newTestController(t, cfg)
	c.Handle(Resize{Width: 500, Height: 250})
	start := surf.last()
	if start.Width != 2000 || start.Height != 1000 {
		t.Fatalf("visible extent = %vx%v, want 2000x1000", start.Width, start.Height)
	}

	c.Handle(ContactStart{ID: 1, Pos: Vec2{100, 100}})
	c.Handle(ContactMove{ID: 1, Pos: Vec2{110, 105}})

	// 10 px on a 500 px surface showing 2000 units is 40 units.
	moved := surf.last()
	if !approxEqual(moved.X, start.X-40, 1e-9) || !approxEqual(moved.Y, start.Y-20, 1e-9) {
		t.Errorf("origin moved (%v,%v) -> (%v,%v), want shift (-40,-20)", start.X, start.Y, moved.X, moved.Y)
	}

	// Resizing the surface does not change the visible content region.
	c.Handle(Resize{Width: 1000, Height: 500})
	if surf.last() != moved {
		t.Errorf("visible after resize = %+v, want %+v", surf.last(), moved)
	}
}

func TestOnChangeCallbacks(t *testing.T) {
	c, _ := newTestController(t, exampleConfig())
	var got []ViewportChange
	h := c.OnChange(func(vc ViewportChange) { got = append(got, vc) })

	c.Handle(Resize{Width: 800, Height: 600})
	c.Handle(Wheel{DeltaY: -50})
	if len(got) != 2 {
		t.Fatalf("callbacks = %d, want 2", len(got))
	}
	if !approxEqual(got[1].State.Zoom, 1.1, 1e-12) {
		t.Errorf("callback zoom = %v, want 1.1", got[1].State.Zoom)
	}

	h.Remove()
	c.Handle(Wheel{DeltaY: -50})
	if len(got) != 2 {
		t.Errorf("callback fired after Remove")
	}
}

func TestHandleAll(t *testing.T) {
	c, _ := newTestController(t, exampleConfig())
	changed := c.HandleAll(
		Resize{Width: 800, Height: 600},
		ContactStart{ID: 1, Pos: Vec2{}},
		ContactEnd{ID: 1},
	)
	if !changed {
		t.Error("HandleAll reported no change")
	}
	if c.HandleAll(ContactStart{ID: 1, Pos: Vec2{}}, ContactEnd{ID: 1}) {
		t.Error("start/end without motion reported a change")
	}
}

func TestCancelContacts(t *testing.T) {
	c, surf := newTestController(t, exampleConfig())
	c.Handle(Resize{Width: 800, Height: 600})
	c.HandleAll(
		ContactStart{ID: 1, Pos: Vec2{0, 0}},
		ContactStart{ID: 2, Pos: Vec2{100, 0}},
	)
	n := len(surf.rects)

	c.CancelContacts()
	if c.Contacts() != 0 || c.Gesture() != GestureIdle {
		t.Fatalf("contacts = %d, gesture = %v after cancel", c.Contacts(), c.Gesture())
	}
	if res := c.Handle(ContactMove{ID: 1, Pos: Vec2{50, 50}}); res.Changed {
		t.Error("move of a cancelled contact changed the view")
	}
	if res := c.Handle(ContactEnd{ID: 2}); res.Changed {
		t.Error("end of a cancelled contact changed the view")
	}
	if len(surf.rects) != n {
		t.Errorf("surface received %d rects after cancel", len(surf.rects)-n)
	}

	// A fresh pair only records a baseline on its first pinch frame.
	c.HandleAll(
		ContactStart{ID: 3, Pos: Vec2{0, 0}},
		ContactStart{ID: 4, Pos: Vec2{100, 0}},
	)
	if res := c.Handle(ContactMove{ID: 4, Pos: Vec2{150, 0}}); res.Changed {
		t.Error("first pinch frame after cancel changed zoom")
	}
	if c.Contacts() != 2 {
		t.Errorf("contacts = %d, want 2", c.Contacts())
	}
}

func TestChangedOnlyWhenPushed(t *testing.T) {
	c, surf := newTestController(t, exampleConfig())
	c.Handle(Resize{Width: 800, Height: 600})
	n := len(surf.rects)

	if res := c.Handle(Resize{Width: 0, Height: 0}); !res.Handled || res.Changed {
		t.Errorf("collapse to zero = %+v, want handled without change", res)
	}
	if res := c.Handle(Wheel{DeltaY: -100}); !res.Handled || res.Changed {
		t.Errorf("wheel on a zero surface = %+v, want handled without change", res)
	}
	if len(surf.rects) != n {
		t.Fatalf("surface received %d rects while zero-sized", len(surf.rects)-n)
	}
	if !approxEqual(c.State().Zoom, 1.2, 1e-9) {
		t.Errorf("Zoom = %v, want 1.2", c.State().Zoom)
	}

	res := c.Handle(Resize{Width: 800, Height: 600})
	if !res.Changed || len(surf.rects) != n+1 {
		t.Fatalf("resize back = %+v, pushed %d", res, len(surf.rects)-n)
	}
	if got := surf.last(); !approxEqual(got.Width, 800/1.2, 1e-9) || !approxEqual(got.Height, 600/1.2, 1e-9) {
		t.Errorf("visible = %+v, want the zoomed extent", got)
	}
}
