package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/inkwell/internal/cli"
)

// newRootCmd creates the root command. Without a subcommand it runs the
// preprocessor: the host's [context, book] pair on stdin, the book on stdout.
func newRootCmd() *cobra.Command {
	opts := cli.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "inkwell",
		Short: "An mdBook preprocessor that renders chapters as templates",
		Long: `Inkwell renders every chapter of an mdBook book as a Jinja-style template.

Chapters can use the host metadata under "ctx", the values of a context file
(JSON, TOML, YAML or HCL) and reusable templates found under the template root.
Without a context flag, ./context.toml is used when it exists.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cli.Run(opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	// Persistent so the host can pass the same flags to "supports".
	f := cmd.PersistentFlags()
	f.StringVar(&opts.JSON, "json", "", "JSON context file")
	f.StringVar(&opts.TOML, "toml", "", "TOML context file")
	f.StringVar(&opts.YAML, "yaml", "", "YAML context file")
	f.StringVar(&opts.HCL, "hcl", "", "HCL context file")
	f.BoolVarP(&opts.Watch, "watch", "w", false, "Reload the context file when it changes")
	f.StringVar(&opts.TemplateRoot, "template-root", opts.TemplateRoot, "Directory searched for reusable templates")
	f.StringVar(&opts.TemplateGlob, "template-glob", opts.TemplateGlob, `Pattern of reusable templates under the root ("false" disables them)`)
	f.StringVar(&opts.ContextKey, "context-key", opts.ContextKey, "Key holding the host metadata in templates")
	f.StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "Log level (debug, info, warn, error)")
	f.StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile after the run")

	cmd.AddCommand(newSupportsCmd(), newRenderCmd(&opts), newVersionCmd())
	return cmd
}
