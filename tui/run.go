package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/phanxgames/treeview"
	"github.com/phanxgames/treeview/diagram"
	"github.com/phanxgames/treeview/highlight"
)

// Run starts a full-screen program and blocks until the user quits.
// Activations received from updates replace the highlight state; updates
// may be nil.
func Run(d *diagram.Diagram, cfg treeview.Config, opts Options, updates <-chan highlight.Activation) error {
	m, err := New(d, cfg, opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus())
	if updates != nil {
		go func() {
			for a := range updates {
				p.Send(ActivationMsg(a))
			}
		}()
	}
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
