package report

import (
	"errors"
	"fmt"
	"os"

	"nathanbeddoewebdev/demodash/internal/app"
	"nathanbeddoewebdev/demodash/internal/category"
	"nathanbeddoewebdev/demodash/internal/export"
	"nathanbeddoewebdev/demodash/internal/report"
	"nathanbeddoewebdev/demodash/internal/tui"
	"nathanbeddoewebdev/demodash/internal/util"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// defaultWidth is used when stdout is not a terminal.
const defaultWidth = 100

// NewCommand returns the "report" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the dashboard as a static report",
		Long: `Print the dashboard page for one location: the population trend of the
selected categories and the top-5 municipalities of each category for
the selected year.

Without flags the first location, the first two categories and the
default year are used. With --interactive a form asks for them and
offers to export the selected categories afterwards.

Examples:
  demodash report
  demodash report --location "г. Орёл" --category rpop --year 2023
  demodash report -i`,
		Args:         cobra.NoArgs,
		RunE:         Run,
		SilenceUsage: true,
	}

	cmd.Flags().String("location", "", "Municipality name (default: first in the list)")
	cmd.Flags().StringSlice("category", nil, "Category ID or label (repeatable, default: first two)")
	cmd.Flags().Int("year", 0, "Year for the top-5 tables (default: default-year setting)")
	cmd.Flags().Int("width", 0, "Report width in columns (default: terminal width)")
	cmd.Flags().BoolP("interactive", "i", false, "Choose the selection in a form")

	return cmd
}

// Run prints the static report. It is also the non-terminal fallback of
// the dashboard, where the report flags may be undefined.
func Run(cmd *cobra.Command, args []string) error {
	env, err := app.FromCommand(cmd)
	if err != nil {
		return err
	}
	cat, err := env.LoadInteractive()
	if err != nil {
		return err
	}

	sel, err := selectionFromFlags(cmd, cat, env.Year)
	if err != nil {
		return err
	}

	doExport := false
	if boolFlag(cmd, "interactive") {
		res, err := tui.ReportForm(cat, sel)
		if err != nil {
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Report cancelled.")
				return nil
			}
			return err
		}
		sel, doExport = res.Selection, res.Export
	}

	if err := sel.Validate(cat); err != nil {
		return err
	}

	page, err := tui.RenderPage(cat, sel, reportWidth(cmd), env.ExportDir)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), page)

	if !doExport {
		return nil
	}
	var items []export.Item
	for _, e := range cat.Entries() {
		if sel.Has(e.Label) {
			items = append(items, export.Item{Label: e.Label, Data: e.Data})
		}
	}
	exp, done := env.Exporter("", nil)
	defer done()
	results, err := exp.Export(items)
	printResults(cmd, results)
	return err
}

// selectionFromFlags starts from the default selection and applies any
// --location, --category and --year flags.
func selectionFromFlags(cmd *cobra.Command, cat *category.Catalog, year int) (report.Selection, error) {
	if y := intFlag(cmd, "year"); y != 0 {
		year = y
	}
	sel := report.Default(cat, year)

	if loc := stringFlag(cmd, "location"); loc != "" {
		sel.Location = resolveLocation(cat, loc)
	}
	if keys := sliceFlag(cmd, "category"); len(keys) > 0 {
		entries, err := app.Select(cat, keys)
		if err != nil {
			return sel, err
		}
		sel.Labels = nil
		for _, e := range entries {
			sel.Labels = append(sel.Labels, e.Label)
		}
	}
	return sel, nil
}

// resolveLocation matches a hand-typed name against the location list,
// ignoring case, extra spaces and "ё". Unmatched names are returned as
// given and rejected by Selection.Validate.
func resolveLocation(cat *category.Catalog, name string) string {
	if resolved, ok := util.ResolveName(cat.Locations(), name); ok {
		return resolved
	}
	return name
}

func reportWidth(cmd *cobra.Command) int {
	if w := intFlag(cmd, "width"); w > 0 {
		return w
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return defaultWidth
}

func printResults(cmd *cobra.Command, results []export.Result) {
	for _, r := range results {
		for _, f := range r.Files {
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", f)
		}
		for _, w := range r.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", w)
		}
	}
}

// The flag helpers return zero values for flags the command does not
// define, so Run works under the dashboard command too.

func stringFlag(cmd *cobra.Command, name string) string {
	if f := cmd.Flags().Lookup(name); f != nil {
		return f.Value.String()
	}
	return ""
}

func intFlag(cmd *cobra.Command, name string) int {
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return 0
	}
	return v
}

func boolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}
	return v
}

func sliceFlag(cmd *cobra.Command, name string) []string {
	v, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		return nil
	}
	return v
}
