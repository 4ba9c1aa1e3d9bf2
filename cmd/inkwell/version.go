package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkwell"
	"github.com/aretw0/inkwell/internal/presentation/tui"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of inkwell",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			if tui.IsTerminal(out) {
				tui.PrintBanner(out, inkwell.Version)
				return
			}
			fmt.Fprintf(out, "inkwell version %s\n", inkwell.Version)
		},
	}
}
