package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phanxgames/treeview"
)

func newReplayCommand(g *globals) *cobra.Command {
	var (
		scriptPath string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay an input script and print the viewBox after each change",
		Long: `Feeds an input script to a fresh viewport and prints one viewBox line
for every event that changed it. With --verbose each line is prefixed with
the event that caused it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if scriptPath == "" {
				return fmt.Errorf("--script is required")
			}
			cfg, err := g.config()
			if err != nil {
				return err
			}
			s, err := treeview.LoadScript(scriptPath)
			if err != nil {
				return err
			}
			ctrl, err := treeview.NewController(cfg, nil)
			if err != nil {
				return err
			}
			return replay(cmd.OutOrStdout(), ctrl, s, verbose)
		},
	}

	cmd.Flags().StringVarP(&scriptPath, "script", "s", "", "Input script (YAML)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Prefix each line with its event")

	return cmd
}

func replay(w io.Writer, ctrl *treeview.Controller, s *treeview.Script, verbose bool) error {
	var werr error
	s.Run(ctrl, func(ev treeview.Event, res treeview.Result) {
		if !res.Changed || werr != nil {
			return
		}
		r, ok := ctrl.VisibleRect()
		if !ok {
			return
		}
		var line string
		if verbose {
			line = fmt.Sprintf("%-40s %s\n", strings.TrimPrefix(fmt.Sprintf("%T%+v", ev, ev), "treeview."), r.ViewBox())
		} else {
			line = r.ViewBox() + "\n"
		}
		_, werr = w.Write([]byte(line))
	})
	return werr
}
