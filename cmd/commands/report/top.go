package report

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"nathanbeddoewebdev/demodash/internal/app"
	"nathanbeddoewebdev/demodash/internal/report"
	"nathanbeddoewebdev/demodash/internal/tui/components"

	"github.com/spf13/cobra"
)

// TopCommand returns the "top" command.
func TopCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top",
		Short: "List the municipalities with the largest values",
		Long: `List the municipalities of one category with the largest value in a year,
largest first. Municipalities with equal values keep their file order.

Examples:
  demodash top --category rpop
  demodash top --category "Дети 1-6 лет" --year 2024 -n 10
  demodash top --category ch_3_18 -o json`,
		Args:         cobra.NoArgs,
		RunE:         runTop,
		SilenceUsage: true,
	}

	cmd.Flags().String("category", "", "Category ID or label (required)")
	cmd.Flags().Int("year", 0, "Year to rank by (default: default-year setting)")
	cmd.Flags().IntP("count", "n", report.TopN, "Number of municipalities")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")
	cmd.MarkFlagRequired("category")

	return cmd
}

func runTop(cmd *cobra.Command, args []string) error {
	key, _ := cmd.Flags().GetString("category")
	year, _ := cmd.Flags().GetInt("year")
	n, _ := cmd.Flags().GetInt("count")
	output, _ := cmd.Flags().GetString("output")
	if n <= 0 {
		return fmt.Errorf("count must be greater than 0")
	}
	if output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	env, err := app.FromCommand(cmd)
	if err != nil {
		return err
	}
	if year == 0 {
		year = env.Year
	}
	cat, err := env.LoadInteractive()
	if err != nil {
		return err
	}

	entry, err := cat.Find(key)
	if err != nil {
		return err
	}
	rows, err := entry.Data.Top(year, n)
	if err != nil {
		return err
	}

	if output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(report.Top{Label: entry.Label, Year: year, Rows: rows})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s (%d)\n\n", entry.Label, year)
	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No values for this year.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "#\tNAME\tVALUE\t")
	for i, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t\n", i+1, r.Name, components.FormatCount(r.Value))
	}
	return w.Flush()
}
