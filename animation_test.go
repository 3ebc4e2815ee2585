package treeview

import "testing"

func initializedController(t *testing.T) (*Controller, *recordingSurface) {
	t.Helper()
	c, surf := newTestController(t, exampleConfig())
	c.Handle(Resize{Width: 800, Height: 600})
	return c, surf
}

// runAnimation steps c until its animation finishes, failing after max frames.
func runAnimation(t *testing.T, c *Controller, dt float32, max int) int {
	t.Helper()
	frames := 0
	for c.Animating() {
		if frames == max {
			t.Fatalf("animation still running after %d frames", max)
		}
		c.Update(dt)
		frames++
	}
	return frames
}

func TestAnimateToImmediate(t *testing.T) {
	c, surf := initializedController(t)
	n := len(surf.rects)

	c.AnimateTo(Vec2{100, 50}, 2, 0, nil)
	if c.Animating() {
		t.Error("zero-duration animation left running")
	}
	s := c.State()
	if s.Zoom != 2 || s.Center != (Vec2{200, 100}) {
		t.Errorf("state = zoom %v center %v, want 2 (200,100)", s.Zoom, s.Center)
	}
	if len(surf.rects) != n+1 {
		t.Errorf("surface updates = %d, want %d", len(surf.rects), n+1)
	}
}

func TestAnimateToReachesTarget(t *testing.T) {
	c, surf := initializedController(t)
	c.AnimateTo(Vec2{100, 50}, 2, 1, nil)
	if !c.Animating() {
		t.Fatal("animation not running")
	}

	frames := runAnimation(t, c, 0.25, 10)
	if frames != 4 {
		t.Errorf("frames = %d, want 4", frames)
	}
	s := c.State()
	if !approxEqual(s.Zoom, 2, 1e-5) {
		t.Errorf("Zoom = %v, want 2", s.Zoom)
	}
	f := s.FocalPoint()
	if !approxEqual(f.X, 100, 1e-3) || !approxEqual(f.Y, 50, 1e-3) {
		t.Errorf("FocalPoint = %v, want (100,50)", f)
	}
	if got := surf.last().Center(); !approxEqual(got.X, 100, 1e-3) || !approxEqual(got.Y, 50, 1e-3) {
		t.Errorf("visible center = %v, want (100,50)", got)
	}
}

func TestAnimateToClampsZoom(t *testing.T) {
	c, _ := initializedController(t)
	c.AnimateTo(Vec2{}, 50, 0.5, nil)
	for i := 0; i < 5; i++ {
		c.Update(0.25)
		if z := c.State().Zoom; z > 3 {
			t.Fatalf("frame %d: Zoom = %v above max", i, z)
		}
	}
	if !approxEqual(c.State().Zoom, 3, 1e-5) {
		t.Errorf("Zoom = %v, want 3", c.State().Zoom)
	}
}

func TestContactStartCancelsAnimation(t *testing.T) {
	c, _ := initializedController(t)
	c.AnimateTo(Vec2{500, 500}, 2, 1, nil)
	c.Update(0.25)
	c.Handle(ContactStart{ID: 1, Pos: Vec2{10, 10}})
	if c.Animating() {
		t.Fatal("contact start did not cancel the animation")
	}
	before := c.State()
	if c.Update(0.25) {
		t.Error("Update reported a change after cancellation")
	}
	if c.State() != before {
		t.Error("state moved after cancellation")
	}
}

func TestWheelCancelsAnimation(t *testing.T) {
	c, _ := initializedController(t)
	c.AnimateTo(Vec2{500, 500}, 2, 1, nil)
	c.Handle(Wheel{DeltaY: 10})
	if c.Animating() {
		t.Error("wheel did not cancel the animation")
	}
}

func TestResetReturnsToOrigin(t *testing.T) {
	c, _ := initializedController(t)
	c.Handle(ContactStart{ID: 1, Pos: Vec2{0, 0}})
	c.Handle(ContactMove{ID: 1, Pos: Vec2{300, -120}})
	c.Handle(ContactEnd{ID: 1})
	c.Handle(Wheel{DeltaY: -200})

	c.Reset(0.5)
	runAnimation(t, c, 0.25, 10)

	s := c.State()
	if !approxEqual(s.Zoom, 1, 1e-5) {
		t.Errorf("Zoom = %v, want 1", s.Zoom)
	}
	if !approxEqual(s.Center.X, 0, 1e-3) || !approxEqual(s.Center.Y, 0, 1e-3) {
		t.Errorf("Center = %v, want origin", s.Center)
	}
}

func TestFitRect(t *testing.T) {
	c, surf := initializedController(t)
	c.Fit(Rect{X: 0, Y: 0, Width: 400, Height: 300}, 0, 0)

	want := Rect{X: 0, Y: 0, Width: 400, Height: 300}
	if surf.last() != want {
		t.Errorf("visible = %+v, want %+v", surf.last(), want)
	}
}

func TestFitIgnoredBeforeInit(t *testing.T) {
	c, _ := newTestController(t, exampleConfig())
	c.Fit(Rect{Width: 100, Height: 100}, 10, 0)
	if c.Animating() || c.State().Zoom != 1 {
		t.Error("Fit acted before initialization")
	}
}
