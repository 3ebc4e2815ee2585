// Package tui shows a diagram in a terminal. Mouse drags pan, the wheel
// zooms, and the status line shows the current SVG viewBox.
package tui

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/phanxgames/treeview"
	"github.com/phanxgames/treeview/diagram"
	"github.com/phanxgames/treeview/highlight"
)

const (
	// A terminal cell stands in for this many device pixels.
	cellWidth  = 8
	cellHeight = 16

	wheelPixels   = 50
	chromeLines   = 2 // status line and help line
	frameInterval = time.Second / 30
	animDuration  = 0.4

	mousePointer treeview.PointerID = 0
)

var (
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E6E6E6")).
			Background(lipgloss.Color("#243141")).
			Padding(0, 1)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a38d6d")).Bold(true)
	nodeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a38d6d")).Bold(true)
)

// Options configures a Model.
type Options struct {
	Activation *highlight.Activation
	// Copy writes text to the clipboard. Nil uses the system clipboard.
	Copy func(string) error
}

type tickMsg time.Time

// activationMsg carries a new activation into the program.
type activationMsg highlight.Activation

// Model is the bubbletea model.
type Model struct {
	ctrl    *treeview.Controller
	diagram *diagram.Diagram
	set     highlight.Set
	keys    keyMap
	help    help.Model
	copy    func(string) error

	cols, rows int
	visiblePtr *treeview.Rect
	notice     string
	ticking    bool
}

// New builds a model. The controller is created with cfg.
func New(d *diagram.Diagram, cfg treeview.Config, opts Options) (Model, error) {
	m := Model{
		diagram: d,
		keys:    defaultKeys,
		help:    help.New(),
		copy:    opts.Copy,
	}
	if m.copy == nil {
		m.copy = clipboard.WriteAll
	}
	if opts.Activation != nil {
		m.set = highlight.Resolve(d, *opts.Activation)
	}
	// The surface callback writes through a pointer so that copies of the
	// model made by bubbletea still see the latest rectangle.
	visible := new(treeview.Rect)
	ctrl, err := treeview.NewController(cfg, treeview.SurfaceFunc(func(r treeview.Rect) {
		*visible = r
	}))
	if err != nil {
		return Model{}, fmt.Errorf("tui: %w", err)
	}
	m.ctrl = ctrl
	m.visiblePtr = visible
	return m, nil
}

// Controller returns the model's controller.
func (m Model) Controller() *treeview.Controller { return m.ctrl }

// ActivationMsg returns a message that replaces the highlight state when
// sent to a running program.
func ActivationMsg(a highlight.Activation) tea.Msg { return activationMsg(a) }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.ctrl.Handle(treeview.Resize{
			Width:  float64(m.cols * cellWidth),
			Height: float64(max(m.rows-chromeLines, 0) * cellHeight),
		})

	case tea.MouseMsg:
		if ev := mouseEvent(msg); ev != nil {
			m.ctrl.Handle(ev)
		}

	case tea.BlurMsg:
		// A drag in progress when the terminal loses focus never sees its release.
		m.ctrl.CancelContacts()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Copy):
			m.notice = m.copyViewBox()
		case key.Matches(msg, m.keys.Reset):
			m.ctrl.Reset(animDuration)
			cmd := m.startTicking()
			return m, cmd
		case key.Matches(msg, m.keys.Fit):
			if b, ok := m.diagram.Bounds(); ok {
				m.ctrl.Fit(b, diagram.Padding, animDuration)
			}
			cmd := m.startTicking()
			return m, cmd
		}

	case tickMsg:
		m.ctrl.Update(float32(frameInterval.Seconds()))
		if m.ctrl.Animating() {
			return m, tick()
		}
		m.ticking = false

	case activationMsg:
		m.set = highlight.Resolve(m.diagram, highlight.Activation(msg))
	}
	return m, nil
}

func (m *Model) startTicking() tea.Cmd {
	if m.ticking || !m.ctrl.Animating() {
		return nil
	}
	m.ticking = true
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) copyViewBox() string {
	r, ok := m.ctrl.VisibleRect()
	if !ok {
		return "nothing to copy yet"
	}
	if err := m.copy(r.ViewBox()); err != nil {
		return "copy failed: " + err.Error()
	}
	return "copied viewBox"
}

// mouseEvent maps a terminal mouse event to a contact or wheel event. Cells
// are reported at their center.
func mouseEvent(msg tea.MouseMsg) treeview.Event {
	pos := treeview.Vec2{
		X: float64(msg.X*cellWidth + cellWidth/2),
		Y: float64(msg.Y*cellHeight + cellHeight/2),
	}
	var mods treeview.KeyModifiers
	if msg.Shift {
		mods |= treeview.ModShift
	}
	if msg.Ctrl {
		mods |= treeview.ModCtrl
	}
	if msg.Alt {
		mods |= treeview.ModAlt
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return treeview.Wheel{DeltaY: -wheelPixels, Modifiers: mods}
	case tea.MouseButtonWheelDown:
		return treeview.Wheel{DeltaY: wheelPixels, Modifiers: mods}
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			return treeview.ContactStart{ID: mousePointer, Pos: pos}
		}
	case tea.MouseActionMotion:
		return treeview.ContactMove{ID: mousePointer, Pos: pos}
	case tea.MouseActionRelease:
		return treeview.ContactEnd{ID: mousePointer}
	}
	return nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.cols == 0 || m.rows == 0 {
		return "starting…"
	}
	canvas := renderGrid(m.diagram, m.set, *m.visiblePtr, m.cols, max(m.rows-chromeLines, 0))

	s := m.ctrl.State()
	status := fmt.Sprintf("zoom %.4f  viewBox %s  %s", s.Zoom, m.visiblePtr.ViewBox(), m.ctrl.Gesture())
	if m.notice != "" {
		status += "  " + noticeStyle.Render(m.notice)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		canvas,
		statusStyle.Width(m.cols).Render(status),
		m.help.View(m.keys),
	)
}
