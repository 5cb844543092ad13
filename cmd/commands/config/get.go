package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"nathanbeddoewebdev/demodash/internal/config"
	"nathanbeddoewebdev/demodash/internal/tui"
	"nathanbeddoewebdev/demodash/internal/util"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

// GetCommand returns the "config get" command.
func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Show configuration values",
		Long: "Show one configuration value, or all of them.\n\n" +
			"Without a key, a terminal gets the interactive settings page and\n" +
			"anything else gets a table of every key with the state of its data\n" +
			"file. --check exits with an error when a data file is missing.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  demodash config get                     # settings page\n" +
			"  demodash config get data-dir            # print a single value\n" +
			"  demodash config get --check -o json | jq",
		Args:         cobra.MaximumNArgs(1),
		RunE:         runGet,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("output", "o", "table", "Listing format: table or json")
	cmd.Flags().Bool("check", false, "Fail when a configured data file is missing")

	return cmd
}

// setting is one row of the non-interactive listing.
type setting struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Problem string `json:"problem,omitempty"`
}

func collectSettings(cfg *config.Config) []setting {
	out := make([]setting, 0, len(config.Keys))
	for _, k := range config.Keys {
		s := setting{Key: k.Name, Value: k.Get(cfg)}
		if k.Check != nil {
			if err := k.Check(cfg); err != nil {
				s.Problem = err.Error()
			}
		}
		out = append(out, s)
	}
	return out
}

func runGet(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return printOne(cmd, args[0])
	}

	output, _ := cmd.Flags().GetString("output")
	check, _ := cmd.Flags().GetBool("check")
	interactive := !check && !cmd.Flags().Changed("output") && term.IsTerminal(int(os.Stdout.Fd()))
	if interactive {
		if err := tui.RunConfigView(); err != nil {
			return fmt.Errorf("config view failed: %w", err)
		}
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	settings := collectSettings(cfg)

	switch output {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(settings); err != nil {
			return err
		}
	case "table":
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tVALUE\tSTATUS")
		for _, s := range settings {
			value, status := s.Value, "ok"
			if value == "" {
				value = "(default)"
			}
			if s.Problem != "" {
				status = s.Problem
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", s.Key, value, status)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown output format %q (use table or json)", output)
	}

	if check {
		missing := 0
		for _, s := range settings {
			if s.Problem != "" {
				missing++
			}
		}
		if missing > 0 {
			return fmt.Errorf("%d of %d settings have problems", missing, len(settings))
		}
	}
	return nil
}

func printOne(cmd *cobra.Command, name string) error {
	k := config.Lookup(util.NormalizeKey(name))
	if k == nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: unknown configuration key %q (valid: %s)\n", name, strings.Join(config.KeyNames(), ", "))
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if v := k.Get(cfg); v != "" {
		fmt.Fprintln(cmd.OutOrStdout(), v)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "not set")
	}
	return nil
}
