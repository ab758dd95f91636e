package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newPatchCmd() *cobra.Command {
	var (
		output       string
		outMetadata  string
		branchStates string
		vlStates     string
	)
	cmd := &cobra.Command{
		Use:   "patch <diagram.svg>",
		Short: "Apply branch and voltage-level state updates to a diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if branchStates == "" && vlStates == "" {
				return fmt.Errorf("nothing to apply: pass --branch-states and/or --vl-states")
			}
			v, err := loadViewer(args[0])
			if err != nil {
				return err
			}
			if !v.Interactive() {
				return fmt.Errorf("state patching needs a metadata document")
			}
			if branchStates != "" {
				data, err := os.ReadFile(branchStates)
				if err != nil {
					return fmt.Errorf("read branch states: %w", err)
				}
				if err := v.SetJSONBranchStates(data); err != nil {
					return err
				}
			}
			if vlStates != "" {
				data, err := os.ReadFile(vlStates)
				if err != nil {
					return fmt.Errorf("read voltage level states: %w", err)
				}
				if err := v.SetJSONVoltageLevelStates(data); err != nil {
					return err
				}
			}
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
			color.New(color.FgGreen).Fprintln(os.Stderr, "patch applied")
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output SVG file (default stdout)")
	cmd.Flags().StringVar(&outMetadata, "out-metadata", "", "write the updated metadata JSON here")
	cmd.Flags().StringVar(&branchStates, "branch-states", "", "branch state list JSON file")
	cmd.Flags().StringVar(&vlStates, "vl-states", "", "voltage level state list JSON file")
	return cmd
}
