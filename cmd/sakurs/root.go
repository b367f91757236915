package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sakurs-go/sakurs/internal/config"
)

// usageError marks a failure that should exit 1 (bad flags/arguments),
// as distinct from a processing failure, which exits 2.
type usageError struct{ err error }

func (u *usageError) Error() string { return u.err.Error() }
func (u *usageError) Unwrap() error { return u.err }

func newUsageError(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	var ue *usageError
	if errors.As(err, &ue) {
		return 1
	}
	return 2
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "sakurs",
		Short:         "Split text into sentences with the Δ-Stack Monoid engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newProcessCmd(cfg))
	root.AddCommand(newListCmd())
	root.AddCommand(newConfigCmd(cfg))

	return root
}
