// Command sakurs is a thin CLI wrapper around the sakurs façade: split
// text into sentences, list available rule sets, and generate, validate,
// or watch rule configuration files. All boundary-detection logic lives
// in the root package and internal/rules; this binary only adapts flags
// to calls.
package main

import (
	"fmt"
	"os"

	"github.com/sakurs-go/sakurs/internal/config"
	"github.com/sakurs-go/sakurs/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	_ = logger.Init(logger.Config{Level: logger.Level(cfg.LogLevel), Format: cfg.LogFormat})

	if err := newRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}
