package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/inkwell/internal/cli"
)

func newRenderCmd(opts *cli.Options) *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Preview one template rendered with the book's context",
		Long: `Render a single file with the same context and reusable templates a book
build would use. With --watch it renders again whenever the context file changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Preview(cmd.Context(), cli.PreviewOptions{
				Options: *opts,
				File:    args[0],
				Pretty:  pretty,
			}, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Render the markdown for the terminal")
	return cmd
}
