package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/phanxgames/treeview/tui"
)

func newTUICommand(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse the diagram in the terminal",
		Long: `Draws the diagram in the terminal. Drag with the mouse to pan and
scroll to zoom. Press c to copy the current viewBox. Logs go to stderr
unless --log-file is set, which is recommended here.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, d, a, err := g.load()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			return tui.Run(d, cfg, tui.Options{Activation: a}, g.follow(ctx))
		},
	}
	return cmd
}
