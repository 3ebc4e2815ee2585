package treeview

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyScript is returned when a script has no steps.
var ErrEmptyScript = errors.New("treeview: script has no steps")

// defaultFrameTime is the Update tick used by "wait" steps.
const defaultFrameTime = float32(1.0 / 60.0)

// ScriptStep is a single action in an input script. Which fields are read
// depends on Action.
type ScriptStep struct {
	Action string   `yaml:"action"`
	ID     int      `yaml:"id,omitempty"`
	ID2    int      `yaml:"id2,omitempty"`
	X      float64  `yaml:"x,omitempty"`
	Y      float64  `yaml:"y,omitempty"`
	FromX  float64  `yaml:"fromX,omitempty"`
	FromY  float64  `yaml:"fromY,omitempty"`
	ToX    float64  `yaml:"toX,omitempty"`
	ToY    float64  `yaml:"toY,omitempty"`
	From   float64  `yaml:"from,omitempty"` // pinch start distance
	To     float64  `yaml:"to,omitempty"`   // pinch end distance
	DeltaY float64  `yaml:"deltaY,omitempty"`
	Mods   []string `yaml:"mods,omitempty"`
	Width  float64  `yaml:"width,omitempty"`
	Height float64  `yaml:"height,omitempty"`
	Frames int      `yaml:"frames,omitempty"`
}

// Script is a recorded or hand-written sequence of input, replayed against a
// Controller for tests, demos, and snapshots.
type Script struct {
	Steps []ScriptStep `yaml:"steps"`
	// FrameTime is the dt passed to Update for each "wait" frame.
	FrameTime float32 `yaml:"frameTime,omitempty"`

	items []scriptItem
}

// scriptItem is either an event or a number of Update frames.
type scriptItem struct {
	ev   Event
	wait int
}

// LoadScript reads a YAML (or JSON) script from disk.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load script: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes a YAML (or JSON) script and expands its steps.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse script: %w", ErrEmptyScript)
	}
	if s.FrameTime <= 0 {
		s.FrameTime = defaultFrameTime
	}
	for i, st := range s.Steps {
		items, err := expandStep(st)
		if err != nil {
			return nil, fmt.Errorf("parse script: step %d: %w", i, err)
		}
		s.items = append(s.items, items...)
	}
	return &s, nil
}

// Events returns the expanded input events, without wait frames.
func (s *Script) Events() []Event {
	out := make([]Event, 0, len(s.items))
	for _, it := range s.items {
		if it.ev != nil {
			out = append(out, it.ev)
		}
	}
	return out
}

// Run feeds the script to c. onEvent, if set, is called after each event with
// the controller's result.
func (s *Script) Run(c *Controller, onEvent func(Event, Result)) {
	for _, it := range s.items {
		if it.ev == nil {
			for range it.wait {
				c.Update(s.FrameTime)
			}
			continue
		}
		res := c.Handle(it.ev)
		if onEvent != nil {
			onEvent(it.ev, res)
		}
	}
}

func expandStep(st ScriptStep) ([]scriptItem, error) {
	id := PointerID(st.ID)
	switch strings.ToLower(st.Action) {
	case "start":
		return []scriptItem{{ev: ContactStart{ID: id, Pos: Vec2{st.X, st.Y}}}}, nil
	case "move":
		return []scriptItem{{ev: ContactMove{ID: id, Pos: Vec2{st.X, st.Y}}}}, nil
	case "end":
		return []scriptItem{{ev: ContactEnd{ID: id}}}, nil
	case "cancel":
		return []scriptItem{{ev: ContactCancel{ID: id}}}, nil
	case "wheel":
		mods, err := parseModifiers(st.Mods)
		if err != nil {
			return nil, err
		}
		return []scriptItem{{ev: Wheel{DeltaY: st.DeltaY, Modifiers: mods}}}, nil
	case "resize":
		return []scriptItem{{ev: Resize{Width: st.Width, Height: st.Height}}}, nil
	case "wait":
		frames := st.Frames
		if frames < 1 {
			frames = 1
		}
		return []scriptItem{{wait: frames}}, nil
	case "drag":
		return expandDrag(id, st), nil
	case "pinch":
		return expandPinch(st), nil
	default:
		return nil, fmt.Errorf("unknown action %q", st.Action)
	}
}

// expandDrag produces start, frames-2 interpolated moves, a final move to the
// target, and an end. Minimum frames is 2.
func expandDrag(id PointerID, st ScriptStep) []scriptItem {
	frames := max(st.Frames, 2)
	items := []scriptItem{{ev: ContactStart{ID: id, Pos: Vec2{st.FromX, st.FromY}}}}
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		items = append(items, scriptItem{ev: ContactMove{ID: id, Pos: Vec2{
			X: st.FromX + (st.ToX-st.FromX)*t,
			Y: st.FromY + (st.ToY-st.FromY)*t,
		}}})
	}
	items = append(items,
		scriptItem{ev: ContactMove{ID: id, Pos: Vec2{st.ToX, st.ToY}}},
		scriptItem{ev: ContactEnd{ID: id}},
	)
	return items
}

// expandPinch places two contacts on a horizontal line through (X, Y), From
// apart, and spreads them symmetrically to To apart over Frames frames.
func expandPinch(st ScriptStep) []scriptItem {
	a, b := PointerID(st.ID), PointerID(st.ID2)
	if a == b {
		b = a + 1
	}
	frames := max(st.Frames, 1)
	at := func(d float64) (Vec2, Vec2) {
		return Vec2{st.X - d/2, st.Y}, Vec2{st.X + d/2, st.Y}
	}
	pa, pb := at(st.From)
	items := []scriptItem{
		{ev: ContactStart{ID: a, Pos: pa}},
		{ev: ContactStart{ID: b, Pos: pb}},
	}
	for i := 1; i <= frames; i++ {
		d := st.From + (st.To-st.From)*float64(i)/float64(frames)
		pa, pb = at(d)
		items = append(items,
			scriptItem{ev: ContactMove{ID: a, Pos: pa}},
			scriptItem{ev: ContactMove{ID: b, Pos: pb}},
		)
	}
	items = append(items, scriptItem{ev: ContactEnd{ID: a}}, scriptItem{ev: ContactEnd{ID: b}})
	return items
}

func parseModifiers(names []string) (KeyModifiers, error) {
	var mods KeyModifiers
	for _, n := range names {
		switch strings.ToLower(n) {
		case "shift":
			mods |= ModShift
		case "ctrl", "control":
			mods |= ModCtrl
		case "alt", "option":
			mods |= ModAlt
		case "meta", "cmd", "super":
			mods |= ModMeta
		default:
			return 0, fmt.Errorf("unknown modifier %q", n)
		}
	}
	return mods, nil
}
