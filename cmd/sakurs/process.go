package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sakurs-go/sakurs"
	"github.com/sakurs-go/sakurs/internal/config"
	"github.com/sakurs-go/sakurs/internal/rules"
	"github.com/sakurs-go/sakurs/internal/validator"
)

var validFormats = []string{"text", "json"}
var validExecutionModes = []string{"sequential", "parallel", "adaptive"}

func newProcessCmd(cfg *config.Config) *cobra.Command {
	var (
		language           string
		rulesPath          string
		chunkSize          int
		overlapSize        int
		execMode           string
		threshold          int
		workers            int
		format             string
		outPath            string
		preserveWhitespace bool
	)

	cmd := &cobra.Command{
		Use:   "process [file]",
		Short: "Split input text into sentences",
		Long:  "Reads from a file argument, or stdin when no argument is given, splits it into sentences, and prints one sentence per line (or structured output with --format json).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engineCfg := sakurs.DefaultConfig()
			engineCfg.Language = language
			if chunkSize > 0 {
				if err := validator.ValidateRange(chunkSize, 1, 1<<30, "--chunk-size"); err != nil {
					return &usageError{err: err}
				}
				engineCfg.ChunkSizeBytes = chunkSize
			}
			if overlapSize > 0 {
				if err := validator.ValidateRange(overlapSize, 0, chunkSizeOrDefault(chunkSize, engineCfg.ChunkSizeBytes)-1, "--overlap-size"); err != nil {
					return &usageError{err: err}
				}
				engineCfg.OverlapSizeBytes = overlapSize
			}
			if execMode != "" {
				if err := validator.ValidateOneOf(execMode, validExecutionModes, "--execution-mode"); err != nil {
					return &usageError{err: err}
				}
				engineCfg.ExecutionMode = execMode
			}
			if threshold > 0 {
				engineCfg.ParallelThresholdBytes = threshold
			}
			engineCfg.NumWorkers = workers
			engineCfg.PreserveWhitespace = preserveWhitespace

			if rulesPath != "" {
				rs, err := rules.Load(rulesPath)
				if err != nil {
					return newUsageError("loading rule file %q: %w", rulesPath, err)
				}
				engineCfg.Rules = rs
			}

			if err := validator.ValidateOneOf(format, validFormats, "--format"); err != nil {
				return &usageError{err: err}
			}

			var raw []byte
			var err error
			switch len(args) {
			case 0:
				raw, err = io.ReadAll(bufio.NewReader(os.Stdin))
			default:
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return newUsageError("reading input: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			result, err := sakurs.Process(ctx, sakurs.Bytes(raw), engineCfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outPath != "" {
				f, ferr := os.Create(outPath)
				if ferr != nil {
					return newUsageError("creating output file %q: %w", outPath, ferr)
				}
				defer f.Close()
				out = f
			}

			return writeResult(out, raw, result, format, preserveWhitespace)
		},
	}

	cmd.Flags().StringVar(&language, "language", cfg.DefaultLanguage, "built-in rule set language code")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "path to a custom rule TOML file (overrides --language)")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", cfg.ChunkSizeBytes, "scanner chunk size in bytes")
	cmd.Flags().IntVar(&overlapSize, "overlap-size", cfg.OverlapSizeBytes, "overlap size in bytes between adjacent chunks")
	cmd.Flags().StringVar(&execMode, "execution-mode", cfg.ExecutionMode, "sequential, parallel, or adaptive")
	cmd.Flags().IntVar(&threshold, "parallel-threshold", cfg.ParallelThresh, "byte size at or above which adaptive mode goes parallel")
	cmd.Flags().IntVar(&workers, "workers", cfg.NumWorkers, "parallel worker count")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")
	cmd.Flags().StringVar(&outPath, "output", "", "write to this path instead of stdout")
	cmd.Flags().BoolVar(&preserveWhitespace, "preserve-whitespace", false, "keep leading/trailing whitespace around each printed sentence instead of trimming it (text format only)")

	return cmd
}

func chunkSizeOrDefault(chunkSize, fallback int) int {
	if chunkSize > 0 {
		return chunkSize
	}
	return fallback
}

func writeResult(out io.Writer, raw []byte, result sakurs.Result, format string, preserveWhitespace bool) error {
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	prev := 0
	for _, b := range result.Boundaries {
		sentence := string(raw[prev:b.Offset])
		if !preserveWhitespace {
			sentence = strings.TrimSpace(sentence)
		}
		fmt.Fprintln(out, sentence)
		prev = b.Offset
	}
	return nil
}
