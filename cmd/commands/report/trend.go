package report

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"nathanbeddoewebdev/demodash/internal/app"
	"nathanbeddoewebdev/demodash/internal/category"
	"nathanbeddoewebdev/demodash/internal/export"
	"nathanbeddoewebdev/demodash/internal/report"
	"nathanbeddoewebdev/demodash/internal/tui"
	"nathanbeddoewebdev/demodash/internal/tui/components"

	"github.com/spf13/cobra"
)

// TrendCommand returns the "trend" command.
func TrendCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show yearly values of one location",
		Long: `Show the values of one location for every year, one column per category.
Categories that do not list the location are reported as missing.

Examples:
  demodash trend --location "г. Орёл"
  demodash trend --location "Ливны" --category rpop -o json
  demodash trend --location "г. Орёл" --png orel.png`,
		Args:         cobra.NoArgs,
		RunE:         runTrend,
		SilenceUsage: true,
	}

	cmd.Flags().String("location", "", "Municipality name (default: first in the list)")
	cmd.Flags().StringSlice("category", nil, "Category ID or label (repeatable, default: all)")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")
	cmd.Flags().String("png", "", "Also save the trend chart as a PNG image")

	return cmd
}

// trendJSON is the JSON form of report.Line. Missing values are null.
type trendJSON struct {
	Category string     `json:"category"`
	Missing  bool       `json:"missing,omitempty"`
	Values   []yearJSON `json:"values"`
}

type yearJSON struct {
	Year  int      `json:"year"`
	Value *float64 `json:"value"`
}

func runTrend(cmd *cobra.Command, args []string) error {
	location, _ := cmd.Flags().GetString("location")
	keys, _ := cmd.Flags().GetStringSlice("category")
	output, _ := cmd.Flags().GetString("output")
	pngPath, _ := cmd.Flags().GetString("png")
	if output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	env, err := app.FromCommand(cmd)
	if err != nil {
		return err
	}
	cat, err := env.LoadInteractive()
	if err != nil {
		return err
	}

	sel := report.Default(cat, env.Year)
	sel.Labels = cat.Labels()
	if location != "" {
		sel.Location = resolveLocation(cat, location)
	}
	if len(keys) > 0 {
		entries, err := app.Select(cat, keys)
		if err != nil {
			return err
		}
		sel.Labels = labels(entries)
	}
	if err := sel.Validate(cat); err != nil {
		return err
	}

	lines, err := report.Trend(cat, sel)
	if err != nil {
		return err
	}

	if pngPath != "" {
		years := cat.Reference().Data.Years
		if err := export.SaveTrendPNG(pngPath, tui.Title(sel.Location), years, tui.TrendSeries(lines)); err != nil {
			return fmt.Errorf("failed to save chart: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s\n", pngPath)
	}

	if output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(toJSON(lines))
	}
	return printTrendTable(cmd, sel.Location, lines)
}

func labels(entries []category.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Label
	}
	return out
}

func toJSON(lines []report.Line) []trendJSON {
	out := make([]trendJSON, len(lines))
	for i, l := range lines {
		t := trendJSON{Category: l.Label, Missing: l.Missing, Values: make([]yearJSON, len(l.Years))}
		for j, y := range l.Years {
			t.Values[j].Year = y
			if v := l.Values[j]; !math.IsNaN(v) {
				t.Values[j].Value = &v
			}
		}
		out[i] = t
	}
	return out
}

func printTrendTable(cmd *cobra.Command, location string, lines []report.Line) error {
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n", location)
	if len(lines) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No categories selected.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	header := []string{"YEAR"}
	for _, l := range lines {
		header = append(header, l.Label)
	}
	fmt.Fprintln(w, strings.Join(header, "\t")+"\t")

	years := lines[0].Years
	for i, y := range years {
		row := []string{strconv.Itoa(y)}
		for _, l := range lines {
			if i < len(l.Values) {
				row = append(row, components.FormatCount(l.Values[i]))
			} else {
				row = append(row, "-")
			}
		}
		fmt.Fprintln(w, strings.Join(row, "\t")+"\t")
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, l := range lines {
		if l.Missing {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %q has no data for %q\n", l.Label, location)
		}
	}
	return nil
}
