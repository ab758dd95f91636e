package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gridview/diagram"
	"gridview/viewer"
)

func newRenderCmd() *cobra.Command {
	var (
		output   string
		style    string
		fit      bool
		showInfo bool
	)
	cmd := &cobra.Command{
		Use:   "render <diagram.svg>",
		Short: "Re-serialize a diagram, optionally refitting its view box",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadViewer(args[0])
			if err != nil {
				return err
			}
			if fit {
				if !v.Interactive() {
					return fmt.Errorf("--fit needs a metadata document")
				}
				v.ApplyViewBox(diagram.ComputeViewBox(v.Metadata(), v.LayoutParameters()))
			}
			var css string
			if style != "" {
				data, err := os.ReadFile(style)
				if err != nil {
					return fmt.Errorf("read style: %w", err)
				}
				css = string(data)
			}
			if err := writeOutput(output, []byte(v.SVG(css))); err != nil {
				return err
			}
			if showInfo {
				printSummary(v)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&style, "style", "", "CSS file inlined as a <style> block")
	cmd.Flags().BoolVar(&fit, "fit", false, "recompute the view box from metadata")
	cmd.Flags().BoolVar(&showInfo, "info", false, "print a diagram summary to stderr")
	return cmd
}

func printSummary(v *viewer.Viewer) {
	bold := color.New(color.Bold)
	vb := v.ViewBox()
	bold.Fprintf(os.Stderr, "view box: ")
	fmt.Fprintf(os.Stderr, "%g %g %g %g\n", vb.X, vb.Y, vb.Width, vb.Height)
	if !v.Interactive() {
		color.New(color.FgYellow).Fprintln(os.Stderr, "no metadata: static rendering only")
		return
	}
	m := v.Metadata()
	bold.Fprint(os.Stderr, "entities: ")
	fmt.Fprintf(os.Stderr, "%d nodes, %d buses, %d edges, %d legends, %d injections\n",
		len(m.Nodes), len(m.BusNodes), len(m.Edges), len(m.TextNodes), len(m.Injections))
}
