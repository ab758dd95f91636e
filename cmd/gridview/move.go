package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newMoveCmd() *cobra.Command {
	var (
		output      string
		outMetadata string
		equipmentID string
		x, y        float64
	)
	cmd := &cobra.Command{
		Use:   "move <diagram.svg>",
		Short: "Move a voltage level to new coordinates and repatch the diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadViewer(args[0])
			if err != nil {
				return err
			}
			if !v.Interactive() {
				return fmt.Errorf("moving nodes needs a metadata document")
			}
			if v.Metadata().NodeByEquipmentID(equipmentID) == nil {
				return fmt.Errorf("no node with equipment id %q", equipmentID)
			}
			v.MoveNodeToCoordinates(equipmentID, x, y)
			if err := writeOutput(output, []byte(v.SVG(""))); err != nil {
				return err
			}
			if outMetadata != "" {
				data, err := v.MetadataJSON()
				if err != nil {
					return err
				}
				if err := os.WriteFile(outMetadata, data, 0644); err != nil {
					return err
				}
			}
			color.New(color.FgGreen).Fprintf(os.Stderr, "moved %s to (%g, %g)\n", equipmentID, x, y)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output SVG file (default stdout)")
	cmd.Flags().StringVar(&outMetadata, "out-metadata", "", "write the updated metadata JSON here")
	cmd.Flags().StringVar(&equipmentID, "id", "", "equipment id of the voltage level")
	cmd.Flags().Float64Var(&x, "x", 0, "new x coordinate")
	cmd.Flags().Float64Var(&y, "y", 0, "new y coordinate")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
