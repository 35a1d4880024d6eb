package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"spooltag/internal/material"
)

func newMaterialsCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "materials",
		Short:       "List material defaults used to auto-fill empty fields",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles := material.All()
			if jsonOutput {
				return writeJSON(cmd, profiles)
			}
			headers := []string{"Material", "Extruder", "Bed", "Density"}
			aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight}
			rows := make([][]string, 0, len(profiles))
			for _, p := range profiles {
				rows = append(rows, []string{
					p.Name,
					fmt.Sprintf("%d-%d°C", p.MinTemp, p.MaxTemp),
					fmt.Sprintf("%d-%d°C", p.BedMinTemp, p.BedMaxTemp),
					strconv.FormatFloat(p.Density, 'f', -1, 64) + " g/cm³",
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output profiles as JSON")
	return cmd
}
