package cmd

import (
	"fmt"
	"os"

	cachecmd "nathanbeddoewebdev/demodash/cmd/commands/cache"
	cfgcmd "nathanbeddoewebdev/demodash/cmd/commands/config"
	"nathanbeddoewebdev/demodash/cmd/commands/dashboard"
	exportcmd "nathanbeddoewebdev/demodash/cmd/commands/export"
	"nathanbeddoewebdev/demodash/cmd/commands/inspect"
	reportcmd "nathanbeddoewebdev/demodash/cmd/commands/report"
	"nathanbeddoewebdev/demodash/internal/config"
	"nathanbeddoewebdev/demodash/internal/logger"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "demodash",
		Short: "Explore population statistics of the Oryol region",
		Long: `demodash loads the regional population tables (children 1-6, 3-18 and
5-18 years, population 3-79 years and the average annual population, by
municipality, 2019-2024) and shows them as an interactive terminal
dashboard: a trend chart for one municipality and the top-5
municipalities of each category for a year.

Data files are read from the data directory; their encoding is detected
automatically.

Quick start:
  demodash --data-dir ./data            # open the dashboard
  demodash report --location "г. Орёл"  # print a static report
  demodash top --category rpop          # largest municipalities
  demodash export                       # write CSV and XLSX files`,
		Args:              cobra.NoArgs,
		RunE:              dashboard.Run,
		PersistentPreRunE: setupLogging,
		SilenceUsage:      true,
	}

	cmd.PersistentFlags().String("data-dir", "", "Directory containing the data files (overrides data-dir setting)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Write debug logs to the log file")

	cmd.AddCommand(dashboard.NewCommand())
	cmd.AddCommand(reportcmd.NewCommand())
	cmd.AddCommand(reportcmd.TopCommand())
	cmd.AddCommand(reportcmd.TrendCommand())
	cmd.AddCommand(exportcmd.NewCommand())
	cmd.AddCommand(inspect.NewCommand())
	cmd.AddCommand(cachecmd.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())

	return cmd
}

// setupLogging opens the log file when --verbose is set or a log-file is
// configured. Logs never go to the terminal.
func setupLogging(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	path := cfg.LogFile
	if path == "" && verbose {
		path = logger.DefaultPath()
	}
	if path == "" {
		return nil
	}

	log, err := logger.OpenFile(path)
	if err != nil {
		return err
	}
	logger.SetDefault(log)
	log.Debug("command started", "command", cmd.CommandPath(), "args", args)
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	var root = rootCmd()
	err := root.Execute()
	if cerr := logger.Default().Close(); cerr != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to flush logs: %v\n", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}
