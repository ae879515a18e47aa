package cmd

import (
	"fmt"

	"github.com/KaramelBytes/promodash/internal/dataset"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Load and validate the dataset without serving it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ %s: %d employees (labels %s)\n", cfg.DataPath, t.Len(), dataset.LabelSetVersion)
		counts := map[string]int{}
		t.Each(func(e dataset.Employee) bool {
			counts[e.Department]++
			return true
		})
		for _, d := range dataset.Departments() {
			fmt.Fprintf(out, "  %-18s %d\n", d, counts[d])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
