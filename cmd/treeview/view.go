package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/phanxgames/treeview/ebitenhost"
)

func newViewCommand(g *globals) *cobra.Command {
	var (
		width, height int
		showFPS       bool
		labels        bool
	)

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the diagram in a desktop window",
		Long: `Opens a window that draws the diagram. Drag or use one finger to pan,
scroll or pinch to zoom. Press r to reset, f to fit, l to toggle node
labels, F3 to toggle the overlay, and q or Esc to quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, d, a, err := g.load()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			return ebitenhost.Run(d, cfg, ebitenhost.Options{
				Title:      "treeview",
				Width:      width,
				Height:     height,
				Activation: a,
				ShowFPS:    showFPS,
				Labels:     labels,
			}, g.follow(ctx))
		},
	}

	cmd.Flags().IntVar(&width, "width", 1280, "Window width")
	cmd.Flags().IntVar(&height, "height", 800, "Window height")
	cmd.Flags().BoolVar(&showFPS, "fps", false, "Show the FPS and zoom overlay")
	cmd.Flags().BoolVar(&labels, "labels", false, "Draw node ids")

	return cmd
}
