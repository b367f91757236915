package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sakurs-go/sakurs/internal/rules"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List built-in languages or supported output formats",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "languages",
		Short: "List built-in rule-set language codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, code := range rules.List() {
				fmt.Fprintln(cmd.OutOrStdout(), code)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "formats",
		Short: "List supported process --format values",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "text")
			fmt.Fprintln(cmd.OutOrStdout(), "json")
			return nil
		},
	})

	return cmd
}
