package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sakurs-go/sakurs/internal/config"
	"github.com/sakurs-go/sakurs/internal/rules"
	"github.com/sakurs-go/sakurs/internal/watch"
)

const configTemplate = `sentence_starters = ["The", "A", "This", "It", "He", "She"]

[metadata]
code = "custom"
name = "Custom rule set"

[terminators]
chars = [".", "!", "?"]

[ellipsis]
treat_as_boundary = false
patterns = ["...", "…"]

[enclosures]
pairs = [
  { open = "(", close = ")", symmetric = false },
  { open = "\"", close = "\"", symmetric = true },
]

[abbreviations]
categories = { titles = ["Mr", "Mrs", "Dr"] }

[suppression]
fast_patterns = []
regex_patterns = []
`

func newConfigCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Generate or validate a rule configuration file",
	}

	var out string
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Write a starter rule TOML file to edit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				fmt.Fprint(cmd.OutOrStdout(), configTemplate)
				return nil
			}
			return os.WriteFile(out, []byte(configTemplate), 0644)
		},
	}
	generate.Flags().StringVar(&out, "output", "", "write to this path instead of stdout")
	cmd.AddCommand(generate)

	validate := &cobra.Command{
		Use:   "validate <path>",
		Short: "Validate a rule TOML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := rules.Load(args[0])
			if err != nil {
				return newUsageError("invalid rule file %q: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %s (%s), %d terminators, %d enclosure pairs\n",
				rs.Name, rs.Code, len(rs.Terminators), rs.NumEnclosureTypes())
			return nil
		},
	}
	cmd.AddCommand(validate)

	var debounce time.Duration
	watchCmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Watch a rule file and reload it on every edit",
		Long:  "Loads a rule TOML file, then blocks, reloading and re-validating it each time it changes on disk. Defaults to SAKURS_RULES_DIR/<language>.toml when no path is given. Useful while hand-editing a rule file to see mistakes immediately.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := ruleWatchPath(cfg, args)
			if err != nil {
				return &usageError{err: err}
			}

			rw, err := watch.New(path, debounce, func(rs *rules.RuleSet) {
				fmt.Fprintf(cmd.OutOrStdout(), "reloaded: %s (%s), %d terminators, %d enclosure pairs\n",
					rs.Name, rs.Code, len(rs.Terminators), rs.NumEnclosureTypes())
			})
			if err != nil {
				return newUsageError("watching rule file %q: %w", path, err)
			}
			defer rw.Stop()

			rs := rw.Current()
			fmt.Fprintf(cmd.OutOrStdout(), "watching %s: %s (%s), %d terminators, %d enclosure pairs\n",
				path, rs.Name, rs.Code, len(rs.Terminators), rs.NumEnclosureTypes())

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return rw.Start(ctx)
		},
	}
	watchCmd.Flags().DurationVar(&debounce, "debounce", 0, "minimum time between reloads after a burst of writes (0 = 300ms default)")
	cmd.AddCommand(watchCmd)

	return cmd
}

// ruleWatchPath resolves the path to watch: the explicit argument if
// given, otherwise cfg.RulesDir joined with the configured default
// language's rule file name.
func ruleWatchPath(cfg *config.Config, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if cfg.RulesDir == "" {
		return "", fmt.Errorf("no path given and SAKURS_RULES_DIR is not set")
	}
	return filepath.Join(cfg.RulesDir, cfg.DefaultLanguage+".toml"), nil
}
