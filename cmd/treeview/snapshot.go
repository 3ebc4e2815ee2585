package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phanxgames/treeview"
	"github.com/phanxgames/treeview/highlight"
	"github.com/phanxgames/treeview/snapshot"
)

var errNoViewport = errors.New("viewport never initialized; the script must leave the surface with a non-zero size")

func newSnapshotCommand(g *globals) *cobra.Command {
	var (
		scriptPath    string
		out           string
		width, height int
		labels        bool
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render the viewport to a PNG",
		Long: `Sizes a viewport to --width x --height, replays the optional input
script against it, and writes what the viewport shows as a PNG image.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if width <= 0 || height <= 0 {
				return fmt.Errorf("--width and --height must be positive, got %dx%d", width, height)
			}
			cfg, d, a, err := g.load()
			if err != nil {
				return err
			}
			ctrl, err := treeview.NewController(cfg, nil)
			if err != nil {
				return err
			}
			ctrl.Handle(treeview.Resize{Width: float64(width), Height: float64(height)})
			if scriptPath != "" {
				s, err := treeview.LoadScript(scriptPath)
				if err != nil {
					return err
				}
				s.Run(ctrl, nil)
			}
			visible, ok := ctrl.VisibleRect()
			if !ok {
				return errNoViewport
			}

			var set highlight.Set
			if a != nil {
				set = highlight.Resolve(d, *a)
			}
			if err := snapshot.Save(out, d, set, visible, width, height, snapshot.Options{Labels: labels}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s viewBox=%q zoom=%.4f\n", out, visible.ViewBox(), ctrl.State().Zoom)
			return nil
		},
	}

	cmd.Flags().StringVarP(&scriptPath, "script", "s", "", "Input script (YAML) to replay before rendering")
	cmd.Flags().StringVarP(&out, "out", "o", "treeview.png", "Output PNG path")
	cmd.Flags().IntVar(&width, "width", 1280, "Image width")
	cmd.Flags().IntVar(&height, "height", 800, "Image height")
	cmd.Flags().BoolVar(&labels, "labels", false, "Draw node ids")

	return cmd
}
