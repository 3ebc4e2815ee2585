package ebitenhost

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/treeview"
)

// MousePointer is the PointerID used for the mouse. Touch contacts use
// their ebiten.TouchID plus one, so they never collide with it.
const MousePointer treeview.PointerID = -1

// wheelNotchPixels converts one wheel notch into device pixels.
const wheelNotchPixels = 50

// Touch is one active touch contact as reported by an InputSource.
type Touch struct {
	ID   int
	X, Y int
}

// InputSource is the raw per-frame device state. ebitenInput reads it from
// ebiten; tests provide their own.
type InputSource interface {
	Cursor() (x, y int, pressed bool)
	AppendTouches(buf []Touch) []Touch
	// Wheel returns the scroll offset since the last frame, in notches.
	// Positive y scrolls up.
	Wheel() (dx, dy float64)
	Modifiers() treeview.KeyModifiers
}

// ebitenInput reads input from ebiten's global state.
type ebitenInput struct {
	ids []ebiten.TouchID
}

func (in *ebitenInput) Cursor() (int, int, bool) {
	x, y := ebiten.CursorPosition()
	return x, y, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}

func (in *ebitenInput) AppendTouches(buf []Touch) []Touch {
	in.ids = ebiten.AppendTouchIDs(in.ids[:0])
	for _, id := range in.ids {
		x, y := ebiten.TouchPosition(id)
		buf = append(buf, Touch{ID: int(id), X: x, Y: y})
	}
	return buf
}

func (in *ebitenInput) Wheel() (float64, float64) {
	return ebiten.Wheel()
}

func (in *ebitenInput) Modifiers() treeview.KeyModifiers {
	var mods treeview.KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= treeview.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= treeview.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= treeview.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= treeview.ModMeta
	}
	return mods
}

// tracker turns frame snapshots into contact events by diffing against the
// previous frame.
type tracker struct {
	mouseDown bool
	mousePos  treeview.Vec2

	touches map[treeview.PointerID]treeview.Vec2
	seen    map[treeview.PointerID]bool
	buf     []Touch
	ended   []treeview.PointerID
}

func newTracker() *tracker {
	return &tracker{
		touches: make(map[treeview.PointerID]treeview.Vec2),
		seen:    make(map[treeview.PointerID]bool),
	}
}

// poll appends the events for this frame to evs. Starts and moves come in
// the order the source lists contacts, ends follow in id order.
func (t *tracker) poll(src InputSource, evs []treeview.Event) []treeview.Event {
	t.buf = src.AppendTouches(t.buf[:0])

	// A touch also drives the cursor on most platforms; ignore the mouse
	// while touches are down.
	if len(t.buf) == 0 || t.mouseDown {
		evs = t.pollMouse(src, evs)
	}

	clear(t.seen)
	for _, tc := range t.buf {
		id := treeview.PointerID(tc.ID + 1)
		pos := treeview.Vec2{X: float64(tc.X), Y: float64(tc.Y)}
		t.seen[id] = true
		prev, ok := t.touches[id]
		switch {
		case !ok:
			evs = append(evs, treeview.ContactStart{ID: id, Pos: pos})
		case prev != pos:
			evs = append(evs, treeview.ContactMove{ID: id, Pos: pos})
		}
		t.touches[id] = pos
	}

	t.ended = t.ended[:0]
	for id := range t.touches {
		if !t.seen[id] {
			t.ended = append(t.ended, id)
		}
	}
	slices.Sort(t.ended)
	for _, id := range t.ended {
		delete(t.touches, id)
		evs = append(evs, treeview.ContactEnd{ID: id})
	}

	if _, dy := src.Wheel(); dy != 0 {
		evs = append(evs, treeview.Wheel{DeltaY: -dy * wheelNotchPixels, Modifiers: src.Modifiers()})
	}
	return evs
}

func (t *tracker) pollMouse(src InputSource, evs []treeview.Event) []treeview.Event {
	x, y, pressed := src.Cursor()
	pos := treeview.Vec2{X: float64(x), Y: float64(y)}
	switch {
	case pressed && !t.mouseDown:
		t.mouseDown = true
		evs = append(evs, treeview.ContactStart{ID: MousePointer, Pos: pos})
	case pressed && pos != t.mousePos:
		evs = append(evs, treeview.ContactMove{ID: MousePointer, Pos: pos})
	case !pressed && t.mouseDown:
		t.mouseDown = false
		evs = append(evs, treeview.ContactEnd{ID: MousePointer})
	}
	t.mousePos = pos
	return evs
}
