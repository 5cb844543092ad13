package export

import (
	"fmt"

	"nathanbeddoewebdev/demodash/internal/app"
	"nathanbeddoewebdev/demodash/internal/export"

	"github.com/spf13/cobra"
)

// NewCommand returns the "export" command and its history subcommands.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export category datasets as CSV and XLSX",
		Long: `Write the full dataset of each category to <label>.csv and <label>.xlsx,
with spaces in the label replaced by underscores. A spreadsheet that cannot
be written is reported as a warning and does not affect the CSV file.

Every written file is recorded in the local export history
(~/.config/demodash/demodash.db).

Examples:
  demodash export
  demodash export --category rpop --category ch_1_6
  demodash export --format csv --dir ./out`,
		Args:         cobra.NoArgs,
		RunE:         runExport,
		SilenceUsage: true,
	}

	cmd.Flags().StringSlice("category", nil, "Category ID or label to export (repeatable, default all)")
	cmd.Flags().StringSlice("format", nil, "Formats to write: csv, xlsx (default both)")
	cmd.Flags().String("dir", "", "Output directory (defaults to the export-dir setting)")

	cmd.AddCommand(HistoryCommand())
	cmd.AddCommand(PruneCommand())

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	keys, _ := cmd.Flags().GetStringSlice("category")
	formatNames, _ := cmd.Flags().GetStringSlice("format")
	dir, _ := cmd.Flags().GetString("dir")

	formats, err := export.ParseFormats(formatNames)
	if err != nil {
		return err
	}

	env, err := app.FromCommand(cmd)
	if err != nil {
		return err
	}
	cat, err := env.LoadInteractive()
	if err != nil {
		return err
	}

	entries, err := app.Select(cat, keys)
	if err != nil {
		return err
	}
	items := make([]export.Item, len(entries))
	for i, e := range entries {
		items[i] = export.Item{Label: e.Label, Data: e.Data}
	}

	exp, done := env.Exporter(dir, formats)
	defer done()

	results, err := exp.Export(items)
	for _, r := range results {
		for _, f := range r.Files {
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", f)
		}
		for _, w := range r.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", w)
		}
	}
	return err
}
