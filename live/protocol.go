package live

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/phanxgames/treeview"
)

// ErrUnknownMessage is returned by DecodeEvent for message types that do not
// map to an input event.
var ErrUnknownMessage = errors.New("live: unknown message type")

// linePixels is the pixel height of one wheel line (WheelEvent.deltaMode 1).
const linePixels = 16

// WheelEvent.deltaMode values.
const (
	deltaPixel = 0
	deltaLine  = 1
	deltaPage  = 2
)

// clientMessage is a browser to server message. Pointer and wheel fields
// mirror the DOM event properties of the same name.
type clientMessage struct {
	Type string `json:"type"`

	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`

	DeltaY    float64 `json:"deltaY"`
	DeltaMode int     `json:"deltaMode"`
	CtrlKey   bool    `json:"ctrlKey"`
	ShiftKey  bool    `json:"shiftKey"`
	AltKey    bool    `json:"altKey"`
	MetaKey   bool    `json:"metaKey"`

	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// serverMessage is a server to browser message.
type serverMessage struct {
	Type    string  `json:"type"`
	ViewBox string  `json:"viewBox,omitempty"`
	Zoom    float64 `json:"zoom,omitempty"`
	CSS     *string `json:"css,omitempty"`
}

func viewBoxMessage(c treeview.ViewportChange) []byte {
	data, _ := json.Marshal(serverMessage{
		Type:    "viewbox",
		ViewBox: c.Visible.ViewBox(),
		Zoom:    c.State.Zoom,
	})
	return data
}

func stylesMessage(css string) []byte {
	data, _ := json.Marshal(serverMessage{Type: "styles", CSS: &css})
	return data
}

// DecodeEvent parses one browser message into a validated input event.
// surfaceHeight converts page-mode wheel deltas into pixels.
func DecodeEvent(data []byte, surfaceHeight float64) (treeview.Event, error) {
	var m clientMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return m.event(surfaceHeight)
}

func (m clientMessage) event(surfaceHeight float64) (treeview.Event, error) {
	var ev treeview.Event
	id := treeview.PointerID(m.ID)
	pos := treeview.Vec2{X: m.X, Y: m.Y}
	switch m.Type {
	case "pointerdown":
		ev = treeview.ContactStart{ID: id, Pos: pos}
	case "pointermove":
		ev = treeview.ContactMove{ID: id, Pos: pos}
	case "pointerup":
		ev = treeview.ContactEnd{ID: id}
	case "pointercancel":
		ev = treeview.ContactCancel{ID: id}
	case "wheel":
		dy := m.DeltaY
		switch m.DeltaMode {
		case deltaLine:
			dy *= linePixels
		case deltaPage:
			dy *= surfaceHeight
		}
		ev = treeview.Wheel{DeltaY: dy, Modifiers: m.modifiers()}
	case "resize":
		ev = treeview.Resize{Width: m.Width, Height: m.Height}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, m.Type)
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return ev, nil
}

func (m clientMessage) modifiers() treeview.KeyModifiers {
	var mods treeview.KeyModifiers
	if m.ShiftKey {
		mods |= treeview.ModShift
	}
	if m.CtrlKey {
		mods |= treeview.ModCtrl
	}
	if m.AltKey {
		mods |= treeview.ModAlt
	}
	if m.MetaKey {
		mods |= treeview.ModMeta
	}
	return mods
}
