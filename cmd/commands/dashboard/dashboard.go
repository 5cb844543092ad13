package dashboard

import (
	"errors"
	"fmt"
	"os"

	reportcmd "nathanbeddoewebdev/demodash/cmd/commands/report"
	"nathanbeddoewebdev/demodash/internal/app"
	"nathanbeddoewebdev/demodash/internal/tui"
	"nathanbeddoewebdev/demodash/internal/watch"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewCommand returns the "dashboard" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive dashboard",
		Long: `Open the interactive dashboard: pick a municipality, toggle categories
and a year, and see the population trend and the top-5 municipalities of
each category. Data files are watched and reloaded when they change.

Keys:
  j/k       select municipality
  1-5       toggle category
  h/l       previous/next year
  ctrl+d/u  scroll
  e         export selected categories (CSV and XLSX)
  p         save the trend chart as PNG
  r         reload data
  q         quit

When stdout is not a terminal, the static report is printed instead.`,
		Args:         cobra.NoArgs,
		RunE:         Run,
		SilenceUsage: true,
	}

	return cmd
}

// Run loads every dataset and starts the dashboard. Any load failure
// aborts before the UI is drawn.
func Run(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return reportcmd.Run(cmd, args)
	}

	env, err := app.FromCommand(cmd)
	if err != nil {
		return err
	}
	cat, err := env.LoadInteractive()
	if err != nil {
		if errors.Is(err, tui.ErrAborted) {
			return nil
		}
		return err
	}

	opts := tui.DashboardOptions{
		Catalog:    cat,
		Year:       env.Year,
		Reload:     env.Reload,
		Invalidate: env.Store.Invalidate,
	}

	w, err := watch.New(cat.Paths(), env.Log)
	if err != nil {
		env.Log.Warn("file watching disabled", "error", err)
	} else {
		defer w.Close()
		opts.Changes = w.Events()
		go func() {
			for err := range w.Errors() {
				env.Log.Warn("file watcher error", "error", err)
			}
		}()
	}

	exp, done := env.Exporter("", nil)
	defer done()
	opts.Exporter = exp

	if err := tui.RunDashboard(opts); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
