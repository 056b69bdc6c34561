package cmd

import (
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/packscheduler/internal/config"
	"github.com/zjrosen/packscheduler/internal/flags"
	"github.com/zjrosen/packscheduler/internal/presentation"
)

var flagsListCmd = &cobra.Command{
	Use:   "flags:list",
	Short: "Show feature flags and whether they are enabled",
	Long: `Show every known feature flag with its effective value: the configured
value when set, otherwise the built-in default.

Examples:
  packsched flags:list
  packsched flags:list | jq '."rehash-passwords"'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return presentation.NewFormatter(cmd.OutOrStdout(), presentation.FormatJSON).FormatResult(flags.New(cfg.Flags).All())
	},
}

var flagsSetCmd = &cobra.Command{
	Use:   "flags:set NAME=BOOL...",
	Short: "Enable or disable feature flags in the config file",
	Long: `Write feature flag values to the flags section of the config file. Other
settings and comments in the file are kept.

Known flags: ` + strings.Join(flags.Names(), ", ") + `

Examples:
  packsched flags:set autosave-records=true
  packsched flags:set rehash-passwords=false autosave-records=false`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		updated := maps.Clone(cfg.Flags)
		if updated == nil {
			updated = make(map[string]bool)
		}
		for _, arg := range args {
			name, raw, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("expected NAME=BOOL, got %q", arg)
			}
			if !flags.Known(name) {
				return fmt.Errorf("unknown flag %q (known: %s)", name, strings.Join(flags.Names(), ", "))
			}
			value, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("flag %s: %w", name, err)
			}
			updated[name] = value
		}

		path := configPath()
		if err := config.SaveFlags(path, updated); err != nil {
			return fmt.Errorf("saving flags: %w", err)
		}
		cfg.Flags = updated
		cmd.PrintErrf("updated %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(flagsListCmd, flagsSetCmd)
}
