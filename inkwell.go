package inkwell

import (
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/inkwell/internal/templates"
	"github.com/aretw0/inkwell/internal/walker"
	"github.com/aretw0/inkwell/pkg/contextsource"
	"github.com/aretw0/inkwell/pkg/domain"
	"github.com/aretw0/inkwell/pkg/observability"
	"github.com/aretw0/inkwell/pkg/ports"
)

// Version is the preprocessor release reported by the CLI.
const Version = "0.3.0"

// DefaultContextKey is the reserved key holding the host metadata in the render context.
const DefaultContextKey = "ctx"

// Preprocessor renders every pathed chapter of a book as a template.
// It is the high-level entry point of the library.
type Preprocessor struct {
	source     ports.ContextSource
	library    *templates.Library
	logger     *slog.Logger
	metrics    *observability.Metrics
	contextKey string
}

// Option defines a functional option for configuring the Preprocessor.
type Option func(*Preprocessor)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Preprocessor) {
		p.logger = logger
	}
}

// WithMetrics records run outcomes on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(p *Preprocessor) {
		p.metrics = m
	}
}

// WithContextKey changes the key the host metadata is inserted under (default: "ctx").
func WithContextKey(key string) Option {
	return func(p *Preprocessor) {
		p.contextKey = key
	}
}

// New creates a Preprocessor reading its data from source.
// A nil source behaves like an empty static context.
func New(source ports.ContextSource, opts ...Option) *Preprocessor {
	p := &Preprocessor{
		source:     source,
		contextKey: DefaultContextKey,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.source == nil {
		p.source = contextsource.NewStatic(nil)
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	p.logger = p.logger.With("component", "preprocessor")
	p.library = templates.New(templates.WithLogger(p.logger))
	return p
}

// Name identifies the preprocessor to the host.
func (p *Preprocessor) Name() string { return "inkwell" }

// Supports reports whether the named renderer is supported. The name is
// ignored: templates are expanded before any renderer sees the book.
func (p *Preprocessor) Supports(_ string) bool { return true }

// IncludeTemplates registers every file under root matching pattern as one
// atomic batch of reusable templates (layouts, partials, macros).
func (p *Preprocessor) IncludeTemplates(root, pattern string) error {
	if err := p.library.IncludeGlob(root, pattern); err != nil {
		return err
	}
	p.metrics.SetTemplates(p.library.Len())
	p.logger.Debug("templates included", "root", root, "pattern", pattern, "count", p.library.Len())
	return nil
}

// Templates returns the names of the included templates.
func (p *Preprocessor) Templates() []string { return p.library.Names() }

// Context builds the render context of a run: host metadata under the
// context key, then the context source's snapshot merged on top.
func (p *Preprocessor) Context(host map[string]any) domain.Value {
	if host == nil {
		host = map[string]any{}
	}
	ctx := domain.Value{p.contextKey: host}
	ctx.Merge(p.source.Current())
	return ctx
}

// Run renders book against host and the current context. The input book is
// never modified; on error no book is returned.
func (p *Preprocessor) Run(host map[string]any, book *domain.Book) (*domain.Book, error) {
	start := time.Now()
	out, rendered, err := p.run(host, book)
	elapsed := time.Since(start)
	p.metrics.ObserveRun(rendered, elapsed, err)

	if err != nil {
		p.logger.Debug("run failed", "kind", domain.KindOf(err), "err", err)
		return nil, err
	}
	p.logger.Debug("run complete", "chapters", rendered, "duration", elapsed)
	return out, nil
}

func (p *Preprocessor) run(host map[string]any, book *domain.Book) (*domain.Book, int, error) {
	if book == nil {
		book = &domain.Book{}
	}
	work := book.Clone()
	ctx := p.Context(host)
	lib := p.library.Clone()

	chapters, err := walker.Collect(work.Sections)
	if err != nil {
		return nil, 0, err
	}
	batch := make(map[string]string, len(chapters))
	for _, ch := range chapters {
		batch[ch.Name] = ch.Source
	}
	if err := lib.AddBatch(batch); err != nil {
		return nil, 0, err
	}

	rendered, err := walker.RenderInPlace(work.Sections, lib, ctx)
	if err != nil {
		return nil, 0, err
	}
	return work, rendered, nil
}

// RenderString renders a single template source with the same context and
// template library a run would use. It backs the preview command.
func (p *Preprocessor) RenderString(host map[string]any, name, source string) (string, error) {
	return p.library.RenderString(name, source, p.Context(host))
}
