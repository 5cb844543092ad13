package inspect

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"nathanbeddoewebdev/demodash/internal/app"
	"nathanbeddoewebdev/demodash/internal/category"
	"nathanbeddoewebdev/demodash/internal/dataset"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

// NewCommand returns the "inspect" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [category]",
		Short: "Show how the data files were loaded",
		Long: `Show loader diagnostics for each category: the file, the encoding the
detector guessed, the encoding that decoded the file, the columns and the
number of municipalities.

Examples:
  demodash inspect
  demodash inspect rpop
  demodash inspect rpop --dump`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runInspect,
		SilenceUsage: true,
	}

	cmd.Flags().Bool("dump", false, "Dump the parsed dataset structure")
	cmd.Flags().Int("depth", 3, "Maximum nesting depth for --dump")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	dump, _ := cmd.Flags().GetBool("dump")
	depth, _ := cmd.Flags().GetInt("depth")

	env, err := app.FromCommand(cmd)
	if err != nil {
		return err
	}
	cat, err := env.LoadInteractive()
	if err != nil {
		return err
	}

	entries, err := app.Select(cat, args)
	if err != nil {
		return err
	}

	for i, e := range entries {
		if i > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		printEntry(cmd, e)
		if dump {
			cfg := spew.ConfigState{Indent: "  ", MaxDepth: depth, DisablePointerAddresses: true, SortKeys: true}
			cfg.Fdump(cmd.OutOrStdout(), e.Data)
		}
	}
	return nil
}

func printEntry(cmd *cobra.Command, e category.Entry) {
	d := e.Data
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\n", e.Label)
	fmt.Fprintf(w, "  ID:\t%s\n", e.ID)
	fmt.Fprintf(w, "  File:\t%s\n", e.Path)
	fmt.Fprintf(w, "  Detected:\t%s\n", orDash(d.Detected))
	fmt.Fprintf(w, "  Encoding:\t%s\n", d.Encoding)
	fmt.Fprintf(w, "  Columns:\t%s\n", strings.Join(d.Columns, ", "))
	fmt.Fprintf(w, "  Years:\t%s\n", formatYears(d))
	fmt.Fprintf(w, "  Rows:\t%d\n", len(d.Rows))
	fmt.Fprintf(w, "  Municipalities:\t%d\n", len(d.Names()))
	w.Flush()
}

func formatYears(d *dataset.DataSet) string {
	if len(d.Years) == 0 {
		return "-"
	}
	return fmt.Sprintf("%d-%d", d.Years[0], d.Years[len(d.Years)-1])
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
