package main

import "github.com/spf13/cobra"

func newSupportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "supports <renderer>",
		Short: "Check whether a renderer is supported",
		Long:  `Templates are expanded before any renderer sees the book, so every renderer is supported.`,
		Args:  cobra.ArbitraryArgs,
		RunE: func(*cobra.Command, []string) error {
			return nil
		},
	}
}
