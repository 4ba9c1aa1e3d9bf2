package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aretw0/inkwell/internal/presentation/tui"
	"github.com/aretw0/inkwell/pkg/domain"
)

// PreviewOptions configures the render command.
type PreviewOptions struct {
	Options
	File   string
	Pretty bool
}

// Preview renders one template file with the same context and template
// library a run would use. With Watch set it renders again after every
// successful context reload until ctx is cancelled.
func Preview(ctx context.Context, opts PreviewOptions, stdout, stderr io.Writer) error {
	reloads := make(chan struct{}, 1)
	app, err := Setup(opts.Options, stderr, func(err error) {
		if err != nil {
			return
		}
		select {
		case reloads <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return err
	}
	defer app.Close()

	var pretty func(string) (string, error)
	if opts.Pretty {
		if pretty, err = tui.NewRenderer(stdout); err != nil {
			return fmt.Errorf("markdown renderer: %w", err)
		}
	}

	render := func() error {
		data, err := os.ReadFile(opts.File)
		if err != nil {
			return domain.NewError(domain.KindIo, "read template", opts.File, err)
		}
		out, err := app.Preprocessor.RenderString(previewHost(), filepath.ToSlash(opts.File), string(data))
		if err != nil {
			return err
		}
		if pretty != nil {
			if out, err = pretty(out); err != nil {
				return fmt.Errorf("markdown renderer: %w", err)
			}
		}
		_, err = fmt.Fprintln(stdout, out)
		return err
	}

	if err := render(); err != nil {
		return err
	}
	if !opts.Watch {
		return app.WriteMetrics()
	}

	app.Logger.Info("watching context for changes", "file", opts.File)
	for {
		select {
		case <-ctx.Done():
			return app.WriteMetrics()
		case <-reloads:
			if err := render(); err != nil {
				app.Logger.Error("preview failed", "err", err)
			}
		}
	}
}

// previewHost stands in for the host metadata outside of a book build.
func previewHost() map[string]any {
	root, _ := os.Getwd()
	return map[string]any{
		"root":           root,
		"renderer":       "preview",
		"mdbook_version": "",
		"config":         map[string]any{},
	}
}
