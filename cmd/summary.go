package cmd

import (
	"fmt"

	"github.com/KaramelBytes/promodash/internal/binding"
	"github.com/KaramelBytes/promodash/internal/report"
	"github.com/KaramelBytes/promodash/internal/utils"
	"github.com/spf13/cobra"
)

var (
	sumCategory   string
	sumDepartment string
	sumJSON       bool
	sumOutputPath string
	sumMaxRows    int
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the dashboard tables for one selection as Markdown or JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		rep, err := report.Build(binding.NewRegistry(t), selection(sumCategory, sumDepartment))
		if err != nil {
			return err
		}
		rep.MaxRows = sumMaxRows

		var out []byte
		if sumJSON {
			out, err = utils.PrettyJSON(rep)
			if err != nil {
				return err
			}
		} else {
			out = []byte(rep.Markdown())
		}

		if sumOutputPath != "" {
			if err := utils.SafeWriteFile(sumOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote summary to %s\n", sumOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVar(&sumCategory, "category", "", "category field for the promotion-rate table (default from config)")
	summaryCmd.Flags().StringVar(&sumDepartment, "department", "", "department for the density and scatter tables (default from config)")
	summaryCmd.Flags().BoolVar(&sumJSON, "json", false, "emit JSON instead of Markdown")
	summaryCmd.Flags().StringVarP(&sumOutputPath, "output", "o", "", "optional path to write the summary")
	summaryCmd.Flags().IntVar(&sumMaxRows, "max-rows", 20, "scatter rows to list in Markdown (0 = all)")
}
