// Command qentem is a demo/debug CLI over the qentem-go core: render a
// template against a JSON data file, lint a template's variable paths
// against a JSON data file (optionally validating that data against a JSON
// schema), or reformat a JSON file. The CLI sits entirely
// outside the core's scope (spec §1) — it exists the way the teacher
// ships its own cobra-based binary over its core engine.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "qentem:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var debug bool

	root := &cobra.Command{
		Use:           "qentem",
		Short:         "Render and lint qentem templates",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if debug {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a qentem.yaml config file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(newRenderCmd(&configPath))
	root.AddCommand(newLintCmd(&configPath))
	root.AddCommand(newFmtJSONCmd())
	return root
}
