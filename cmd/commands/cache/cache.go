package cache

import (
	"fmt"
	"text/tabwriter"
	"time"

	"nathanbeddoewebdev/demodash/internal/app"

	"github.com/spf13/cobra"
)

// NewCommand returns the "cache" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached dataset snapshots",
		Long: "Parsed data files are cached as snapshots under the user cache directory\n" +
			"and reused until the file changes or the snapshot expires.",
		SilenceUsage: true,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(ClearCommand())

	return cmd
}

// ListCommand returns the "cache list" command.
func ListCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "list",
		Short:        "List cached snapshots",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.FromCommand(cmd)
			if err != nil {
				return err
			}
			entries, err := env.Snapshots.List()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No snapshots in %s\n", env.Snapshots.Dir())
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tSIZE\tAGE\tSTATUS")
			for _, e := range entries {
				status := "fresh"
				if e.Expired {
					status = "expired"
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", e.Key, e.Size, time.Since(e.ModTime).Round(time.Second), status)
			}
			return w.Flush()
		},
	}
}

// ClearCommand returns the "cache clear" command.
func ClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "clear",
		Short:        "Remove all cached snapshots",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.FromCommand(cmd)
			if err != nil {
				return err
			}
			removed, err := env.Snapshots.Clear()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d snapshot(s) from %s\n", removed, env.Snapshots.Dir())
			return nil
		},
	}
}
