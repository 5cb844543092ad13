package export

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"nathanbeddoewebdev/demodash/internal/exportlog"

	"github.com/spf13/cobra"
)

func HistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent exports",
		Long: `List recently exported files stored locally.

Examples:
  demodash export history
  demodash export history --limit 50
  demodash export history --category "Дети 1-6 лет"
  demodash export history -o json`,
		Args:         cobra.NoArgs,
		RunE:         runHistory,
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 25, "Number of entries to display")
	cmd.Flags().String("category", "", "Filter by exact category label")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}

	filter, _ := cmd.Flags().GetString("category")
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = "table"
	}
	if output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	repo, err := exportlog.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	var entries []exportlog.Entry
	if filter != "" {
		entries, err = repo.ListByCategory(filter, limit)
	} else {
		entries, err = repo.List(limit)
	}
	if err != nil {
		return err
	}

	if output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No exports found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tCATEGORY\tFORMAT\tROWS\tOUTCOME\tPATH")
	fmt.Fprintln(w, "----\t--------\t------\t----\t-------\t----")
	for _, entry := range entries {
		path := entry.Path
		if entry.Outcome != exportlog.OutcomeSuccess && entry.Detail != "" {
			path = entry.Detail
		}
		if path == "" {
			path = "-"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			entry.Timestamp.Local().Format("2006-01-02 15:04:05"),
			entry.Category,
			entry.Format,
			entry.Rows,
			entry.Outcome,
			path,
		)
	}
	w.Flush()
	return nil
}
