// Command gridview loads a network-area diagram (SVG plus metadata JSON) and
// runs geometry operations on it from the command line: re-rendering, applying
// live state patches, moving nodes and an interactive terminal inspector.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagMetadata string
	flagOptions  string
	flagVerbose  bool
)

func main() {
	root := &cobra.Command{
		Use:          "gridview",
		Short:        "Geometry tooling for network-area diagrams",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&flagMetadata, "metadata", "m", "", "diagram metadata JSON file")
	root.PersistentFlags().StringVarP(&flagOptions, "options", "c", "", "viewer options YAML file")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newRenderCmd(), newPatchCmd(), newMoveCmd(), newInspectCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
