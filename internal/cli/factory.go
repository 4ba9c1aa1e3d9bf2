package cli

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/aretw0/inkwell"
	"github.com/aretw0/inkwell/internal/logging"
	"github.com/aretw0/inkwell/pkg/contextsource"
	"github.com/aretw0/inkwell/pkg/domain"
	"github.com/aretw0/inkwell/pkg/observability"
	"github.com/aretw0/inkwell/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// App is a configured preprocessor together with the resources it owns.
type App struct {
	Preprocessor *inkwell.Preprocessor
	Logger       *slog.Logger

	opts     Options
	registry *prometheus.Registry
	metrics  *observability.Metrics
	closers  []io.Closer
}

// Setup validates opts, opens the context source and includes on-disk
// templates. Validation happens before any file is read.
// reloadHook, when set, observes every reload of a watched context.
func Setup(opts Options, stderr io.Writer, reloadHook func(error)) (*App, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	level, _ := logging.ParseLevel(opts.LogLevel)
	logger := logging.NewWithWriter(stderr, level)

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	app := &App{
		Logger:   logger,
		opts:     opts,
		registry: registry,
		metrics:  metrics,
	}

	source, err := app.openSource(reloadHook)
	if err != nil {
		return nil, err
	}

	app.Preprocessor = inkwell.New(source,
		inkwell.WithLogger(logger),
		inkwell.WithMetrics(metrics),
		inkwell.WithContextKey(opts.ContextKey),
	)

	if opts.TemplatesEnabled() {
		if err := app.Preprocessor.IncludeTemplates(opts.TemplateRoot, opts.TemplateGlob); err != nil {
			_ = app.Close()
			return nil, err
		}
		logger.Debug("templates included", "root", opts.TemplateRoot, "names", app.Preprocessor.Templates())
	}
	return app, nil
}

func (a *App) openSource(reloadHook func(error)) (ports.ContextSource, error) {
	path, format, ok := a.opts.ContextFile()
	if !ok {
		if _, err := os.Stat(DefaultContextFile); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				a.Logger.Debug("no context file, using an empty context")
				return contextsource.NewStatic(nil), nil
			}
			return nil, domain.NewError(domain.KindIo, "open context", DefaultContextFile, err)
		}
		path, format = DefaultContextFile, contextsource.FormatTOML
	}

	if !a.opts.Watch {
		a.Logger.Debug("loading context", "path", path, "format", format)
		return contextsource.NewStaticFromFile(path, format)
	}

	hook := func(err error) {
		a.metrics.ObserveReload(err)
		if reloadHook != nil {
			reloadHook(err)
		}
	}
	watched, err := contextsource.NewWatched(path, format,
		contextsource.WithLogger(a.Logger),
		contextsource.WithReloadHook(hook),
	)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, watched)
	a.Logger.Debug("watching context", "path", path, "format", format)
	return watched, nil
}

// WriteMetrics writes the collected metrics to the configured textfile.
func (a *App) WriteMetrics() error {
	if a.opts.MetricsFile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.opts.MetricsFile, a.registry); err != nil {
		return domain.NewError(domain.KindIo, "write metrics", a.opts.MetricsFile, err)
	}
	return nil
}

// Close stops the context watcher, if any.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
