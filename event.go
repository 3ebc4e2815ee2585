package treeview

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidEvent is returned by Event.Validate for events that carry values
// no device can produce (NaN or infinite coordinates, negative sizes).
var ErrInvalidEvent = errors.New("treeview: invalid event")

// Event is one input delivered by the host. The concrete types are
// ContactStart, ContactMove, ContactEnd, ContactCancel, Wheel and Resize.
type Event interface {
	// Validate checks the event at the host boundary.
	Validate() error
	event()
}

// ContactStart begins tracking a pointer or touch contact.
type ContactStart struct {
	ID  PointerID
	Pos Vec2
}

// ContactMove reports a new position for an active contact.
type ContactMove struct {
	ID  PointerID
	Pos Vec2
}

// ContactEnd reports that a contact was lifted.
type ContactEnd struct {
	ID PointerID
}

// ContactCancel reports that the host aborted a contact. It is handled
// exactly like ContactEnd.
type ContactCancel struct {
	ID PointerID
}

// Wheel is a desktop wheel notch or trackpad scroll. DeltaY is in device
// pixels; positive values zoom out.
type Wheel struct {
	DeltaY    float64
	Modifiers KeyModifiers
}

// Resize reports the rendering surface's size in device pixels.
type Resize struct {
	Width, Height float64
}

func (ContactStart) event()  {}
func (ContactMove) event()   {}
func (ContactEnd) event()    {}
func (ContactCancel) event() {}
func (Wheel) event()         {}
func (Resize) event()        {}

func (e ContactStart) Validate() error {
	if !e.Pos.finite() {
		return fmt.Errorf("%w: contact %d start at %v", ErrInvalidEvent, e.ID, e.Pos)
	}
	return nil
}

func (e ContactMove) Validate() error {
	if !e.Pos.finite() {
		return fmt.Errorf("%w: contact %d move to %v", ErrInvalidEvent, e.ID, e.Pos)
	}
	return nil
}

func (ContactEnd) Validate() error    { return nil }
func (ContactCancel) Validate() error { return nil }

func (e Wheel) Validate() error {
	if math.IsNaN(e.DeltaY) || math.IsInf(e.DeltaY, 0) {
		return fmt.Errorf("%w: wheel delta %v", ErrInvalidEvent, e.DeltaY)
	}
	return nil
}

func (e Resize) Validate() error {
	if math.IsNaN(e.Width) || math.IsNaN(e.Height) || e.Width < 0 || e.Height < 0 ||
		math.IsInf(e.Width, 0) || math.IsInf(e.Height, 0) {
		return fmt.Errorf("%w: surface size %vx%v", ErrInvalidEvent, e.Width, e.Height)
	}
	return nil
}
