package config

import (
	"fmt"
	"text/tabwriter"

	"nathanbeddoewebdev/demodash/internal/app"
	"nathanbeddoewebdev/demodash/internal/category"
	"nathanbeddoewebdev/demodash/internal/config"
	"nathanbeddoewebdev/demodash/internal/database"
	"nathanbeddoewebdev/demodash/internal/logger"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage demodash configuration",
		Long: "View and modify persistent demodash settings.\n\n" +
			"Configuration is stored at ~/.config/demodash/config.json.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())
	cmd.AddCommand(PathsCommand())

	return cmd
}

// PathsCommand returns the "config paths" command, which prints every
// location demodash reads or writes with the current settings applied.
func PathsCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "paths",
		Short:        "Show where data, exports, logs and caches live",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := config.Path()
			if err != nil {
				return err
			}
			env, err := app.FromCommand(cmd)
			if err != nil {
				return err
			}
			dbPath, err := database.DefaultPath()
			if err != nil {
				dbPath = "(unavailable: " + err.Error() + ")"
			}
			logPath := env.Config.LogFile
			if logPath == "" {
				logPath = logger.DefaultPath() + " (with --verbose)"
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "config\t%s\n", cfgPath)
			fmt.Fprintf(w, "data-dir\t%s\n", env.DataDir)
			for _, c := range env.Categories {
				fmt.Fprintf(w, "  %s\t%s\n", c.ID, category.Path(env.DataDir, c))
			}
			fmt.Fprintf(w, "export-dir\t%s\n", env.ExportDir)
			fmt.Fprintf(w, "export log\t%s\n", dbPath)
			fmt.Fprintf(w, "snapshots\t%s\n", env.Snapshots.Dir())
			fmt.Fprintf(w, "log\t%s\n", logPath)
			return w.Flush()
		},
	}
}
