package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-preview"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var g globals

	rootCmd := &cobra.Command{
		Use:   "treeview",
		Short: "treeview - pan and zoom large node diagrams",
		Long: `treeview shows a node diagram, such as a passive skill tree, inside a
pannable, zoomable viewport. The same viewport controller drives a browser
page over websockets, a desktop window, and a terminal view.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setupLogging(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			g.closeLog()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "Viewport config file (YAML); built-in defaults when empty")
	pf.StringVarP(&g.diagramPath, "diagram", "d", "", "Diagram JSON file; the built-in example when empty")
	pf.StringVarP(&g.activationPath, "activation", "a", "", "Activation file (YAML or JSON) to highlight and follow")
	pf.StringVarP(&g.treeURL, "url", "u", "", "Shared skill tree link (or its base64 payload) to highlight")
	pf.StringVar(&g.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	pf.StringVar(&g.logFile, "log-file", "", "Write logs to this file instead of stderr")

	rootCmd.AddCommand(newServeCommand(&g))
	rootCmd.AddCommand(newViewCommand(&g))
	rootCmd.AddCommand(newTUICommand(&g))
	rootCmd.AddCommand(newSnapshotCommand(&g))
	rootCmd.AddCommand(newReplayCommand(&g))

	return rootCmd
}
