package cli

import (
	"io"

	"github.com/aretw0/inkwell/pkg/adapters/mdbook"
)

// Run executes one preprocessing pass: it reads the host input from stdin and
// writes the processed book to stdout. Nothing is written to stdout on failure.
func Run(opts Options, stdin io.Reader, stdout, stderr io.Writer) error {
	app, err := Setup(opts, stderr, nil)
	if err != nil {
		return err
	}
	defer app.Close()

	host, book, err := mdbook.ParseInput(stdin)
	if err != nil {
		return err
	}

	if hc, err := mdbook.DecodeHostContext(host); err != nil {
		app.Logger.Warn("unexpected host context", "err", err)
	} else {
		if warning := mdbook.CheckVersion(hc, mdbook.SupportedVersion); warning != "" {
			app.Logger.Warn(warning)
		}
		app.Logger.Debug("book received", "renderer", hc.Renderer, "root", hc.Root)
	}

	out, err := app.Preprocessor.Run(host, book)
	metricsErr := app.WriteMetrics()
	if err != nil {
		return err
	}
	if err := mdbook.WriteBook(stdout, out); err != nil {
		return err
	}
	return metricsErr
}
