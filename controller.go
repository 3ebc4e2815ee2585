package treeview

import (
	"fmt"
	"log/slog"
)

// Surface receives the visible rectangle after every state-changing event.
// The surface maps the rectangle onto its own coordinate system, for example
// an SVG viewBox attribute.
type Surface interface {
	SetVisibleRegion(r Rect)
}

// SurfaceFunc adapts a function to the Surface interface.
type SurfaceFunc func(r Rect)

// SetVisibleRegion calls f(r).
func (f SurfaceFunc) SetVisibleRegion(r Rect) { f(r) }

// Result reports what Handle did with an event.
type Result struct {
	// Handled is false for events the controller passes through, such as
	// modifier-qualified wheel events or invalid input.
	Handled bool
	// Changed is true when the event produced a new visible rectangle and
	// it was pushed to the surface. State changes made while the surface has
	// no area are pushed, and reported, by the next event that gives it one.
	Changed bool
}

// ViewportChange is delivered to OnChange callbacks after the surface has
// been updated.
type ViewportChange struct {
	State   ViewportState
	Visible Rect
}

type changeHandler struct {
	id uint32
	fn func(ViewportChange)
}

// CallbackHandle allows removing a registered OnChange callback.
type CallbackHandle struct {
	id uint32
	c  *Controller
}

// Remove unregisters the callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.c == nil {
		return
	}
	s := h.c.handlers
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = changeHandler{}
			h.c.handlers = s[:len(s)-1]
			return
		}
	}
}

// Controller turns raw input events into a clamped camera transform and
// pushes the resulting visible rectangle to its Surface.
//
// A Controller owns its ledger and viewport state. It is not safe for
// concurrent use: hosts must deliver events from a single goroutine, in the
// order the device produced them.
type Controller struct {
	cfg     Config
	surface Surface
	ledger  *PointerLedger
	state   ViewportState

	width, height float64
	initialized   bool

	// lastPinch is the previous pinch distance sample; valid when hasPinch.
	lastPinch float64
	hasPinch  bool

	anim *viewAnim

	handlers []changeHandler
	nextID   uint32
}

// NewController validates cfg, fills zero fields with defaults, and returns a
// controller that draws into surface. surface may be nil.
func NewController(cfg Config, surface Surface) (*Controller, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new controller: %w", err)
	}
	if surface == nil {
		surface = SurfaceFunc(func(Rect) {})
	}
	return &Controller{
		cfg:     cfg,
		surface: surface,
		ledger:  NewPointerLedger(),
		state:   newViewportState(cfg),
	}, nil
}

// Config returns the configuration the controller was built with, after
// defaults were applied.
func (c *Controller) Config() Config { return c.cfg }

// State returns a copy of the current viewport state.
func (c *Controller) State() ViewportState { return c.state }

// Initialized reports whether the surface has reported usable dimensions.
func (c *Controller) Initialized() bool { return c.initialized }

// SurfaceSize returns the last surface size reported through Resize.
func (c *Controller) SurfaceSize() (w, h float64) { return c.width, c.height }

// Gesture returns the gesture implied by the currently active contacts.
func (c *Controller) Gesture() Gesture { return Classify(c.ledger) }

// Contacts returns the number of active contacts.
func (c *Controller) Contacts() int { return c.ledger.Count() }

// ContactPosition returns the last known device position of a contact.
func (c *Controller) ContactPosition(id PointerID) (Vec2, bool) {
	return c.ledger.PositionOf(id)
}

// VisibleRect returns the current visible rectangle. ok is false until the
// controller is initialized.
func (c *Controller) VisibleRect() (Rect, bool) {
	if !c.initialized {
		return Rect{}, false
	}
	w, h := c.projectionSize()
	return Project(c.state, w, h)
}

// OnChange registers a callback fired after every surface update.
func (c *Controller) OnChange(fn func(ViewportChange)) CallbackHandle {
	c.nextID++
	id := c.nextID
	c.handlers = append(c.handlers, changeHandler{id: id, fn: fn})
	return CallbackHandle{id: id, c: c}
}

// Handle processes one input event. Invalid events and events for contacts
// that are not tracked are ignored.
func (c *Controller) Handle(ev Event) Result {
	if ev == nil {
		return Result{}
	}
	if err := ev.Validate(); err != nil {
		Logger().Debug("treeview: dropping event", slog.Any("err", err))
		return Result{}
	}
	switch e := ev.(type) {
	case ContactStart:
		c.stopAnimation()
		c.ledger.Start(e.ID, e.Pos)
		c.resetPinch()
		return Result{Handled: true}
	case ContactMove:
		return c.onMove(e)
	case ContactEnd:
		return c.onEnd(e.ID)
	case ContactCancel:
		return c.onEnd(e.ID)
	case Wheel:
		return c.onWheel(e)
	case Resize:
		return c.onResize(e)
	default:
		Logger().Debug("treeview: unknown event type", slog.String("type", fmt.Sprintf("%T", ev)))
		return Result{}
	}
}

// HandleAll processes events in order and reports whether any of them
// changed the viewport.
func (c *Controller) HandleAll(events ...Event) bool {
	changed := false
	for _, ev := range events {
		if c.Handle(ev).Changed {
			changed = true
		}
	}
	return changed
}

// Update is a render opportunity: it retries deferred initialization and
// advances any running view animation by dt seconds. Reports whether a new
// visible rectangle was pushed.
func (c *Controller) Update(dt float32) bool {
	changed := false
	if !c.initialized && c.tryInit() {
		changed = true
	}
	if c.anim != nil && c.stepAnimation(dt) {
		changed = true
	}
	if changed {
		changed = c.commit()
	}
	return changed
}

func (c *Controller) onMove(e ContactMove) Result {
	prev, ok := c.ledger.Move(e.ID, e.Pos)
	if !ok {
		Logger().Debug("treeview: move for untracked contact", slog.Int("id", int(e.ID)))
		return Result{}
	}

	switch Classify(c.ledger) {
	case GesturePan:
		d, ok := c.contentDelta(e.Pos.Sub(prev))
		if !ok || (d.X == 0 && d.Y == 0) {
			return Result{Handled: true}
		}
		c.state.Pan(d.X, d.Y)
		return Result{Handled: true, Changed: c.commit()}

	case GesturePinch:
		a, b, _ := pinchPair(c.ledger)
		if e.ID != a && e.ID != b {
			return Result{Handled: true}
		}
		_, partner, _ := c.ledger.OtherThan(e.ID)
		dist := e.Pos.Dist(partner)
		changed := false
		if c.hasPinch {
			changed = c.state.ZoomBy(c.lastPinch - dist)
		}
		c.lastPinch, c.hasPinch = dist, true
		if changed {
			changed = c.commit()
		}
		return Result{Handled: true, Changed: changed}
	}
	return Result{Handled: true}
}

func (c *Controller) onEnd(id PointerID) Result {
	c.ledger.End(id)
	c.resetPinch()
	return Result{Handled: true}
}

func (c *Controller) onWheel(e Wheel) Result {
	if e.Modifiers != 0 {
		Logger().Debug("treeview: passing through modified wheel", slog.String("mods", e.Modifiers.String()))
		return Result{}
	}
	if e.DeltaY == 0 {
		return Result{Handled: true}
	}
	c.stopAnimation()
	if !c.state.ZoomBy(e.DeltaY) {
		return Result{Handled: true}
	}
	return Result{Handled: true, Changed: c.commit()}
}

func (c *Controller) onResize(e Resize) Result {
	if e.Width == c.width && e.Height == c.height && c.initialized {
		return Result{Handled: true}
	}
	c.width, c.height = e.Width, e.Height
	if !c.tryInit() {
		return Result{Handled: true}
	}
	return Result{Handled: true, Changed: c.commit()}
}

// CancelContacts drops every active contact, as when the host loses focus
// and will never deliver their ends. Later moves and ends for those ids are
// ignored; the viewport itself does not move.
func (c *Controller) CancelContacts() {
	if c.ledger.Count() > 0 {
		Logger().Debug("treeview: cancelling contacts", slog.Int("count", c.ledger.Count()))
	}
	c.ledger.Reset()
	c.resetPinch()
}

// resetPinch forgets the last pinch distance so the next pinch frame only
// records a baseline.
func (c *Controller) resetPinch() {
	c.lastPinch, c.hasPinch = 0, false
}

// contentDelta converts a device-space pointer delta into a center delta.
func (c *Controller) contentDelta(d Vec2) (Vec2, bool) {
	if c.cfg.Mode != ModeContentRelative {
		return d, true
	}
	if !(c.width > 0) || !(c.height > 0) {
		return Vec2{}, false
	}
	return Vec2{
		X: d.X * c.cfg.ContentExtent.X / c.width,
		Y: d.Y * c.cfg.ContentExtent.Y / c.height,
	}, true
}

// projectionSize is the size handed to Project: the surface in
// screen-relative mode, the fixed content extent otherwise.
func (c *Controller) projectionSize() (w, h float64) {
	if c.cfg.Mode == ModeContentRelative {
		return c.cfg.ContentExtent.X, c.cfg.ContentExtent.Y
	}
	return c.width, c.height
}

// tryInit completes initialization once the surface has usable dimensions.
func (c *Controller) tryInit() bool {
	if c.initialized {
		return true
	}
	if !(c.width > 0) || !(c.height > 0) {
		Logger().Debug("treeview: surface not laid out, deferring initialization",
			slog.Float64("width", c.width), slog.Float64("height", c.height))
		return false
	}
	c.state.Zoom = c.state.clamp(c.cfg.initialZoomFor(c.width))
	c.initialized = true
	Logger().Info("treeview: viewport initialized",
		slog.String("mode", c.cfg.Mode.String()),
		slog.Float64("width", c.width), slog.Float64("height", c.height),
		slog.Float64("zoom", c.state.Zoom))
	return true
}

// commit re-projects and pushes the visible rectangle to the surface and
// change callbacks. Nothing is pushed before initialization or while the
// surface has no area; it reports whether anything was pushed.
func (c *Controller) commit() bool {
	r, ok := c.VisibleRect()
	if !ok {
		return false
	}
	c.surface.SetVisibleRegion(r)
	if len(c.handlers) == 0 {
		return true
	}
	change := ViewportChange{State: c.state, Visible: r}
	for _, h := range c.handlers {
		h.fn(change)
	}
	return true
}
