package templates

import (
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/inkwell/internal/logging"
	"github.com/aretw0/inkwell/pkg/domain"
	"github.com/aretw0/inkwell/pkg/ports"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/flosch/pongo2/v6"
)

var _ ports.Renderer = (*Library)(nil)

// Library is an append-only collection of named, compiled templates.
// A Library is not safe for concurrent mutation; Clone it per run.
type Library struct {
	sources  map[string]string
	compiled map[string]*pongo2.Template
	logger   *slog.Logger
}

// Option configures a Library.
type Option func(*Library)

// WithLogger sets the logger skipped context keys are reported on.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Library) {
		l.logger = logger
	}
}

// New returns an empty library.
func New(opts ...Option) *Library {
	setupEngine()
	l := &Library{
		sources:  map[string]string{},
		compiled: map[string]*pongo2.Template{},
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logging.NewNop()
	}
	return l
}

// Clone returns an independent library sharing the immutable template text and
// compiled templates of l. Registrations on the clone never affect l.
func (l *Library) Clone() *Library {
	return &Library{
		sources:  maps.Clone(l.sources),
		compiled: maps.Clone(l.compiled),
		logger:   l.logger,
	}
}

// Len returns the number of registered templates.
func (l *Library) Len() int { return len(l.sources) }

// Has reports whether name is registered.
func (l *Library) Has(name string) bool {
	_, ok := l.sources[name]
	return ok
}

// Names returns the registered names in lexical order.
func (l *Library) Names() []string {
	return slices.Sorted(maps.Keys(l.sources))
}

// AddBatch registers every name -> source pair atomically.
//
// All templates of the library and the batch are compiled together in a fresh
// set, so parents may appear anywhere in the batch. Templates that reach
// themselves through extends, include or import are rejected before compiling.
// On any failure the library is left exactly as it was and the error has
// KindInheritance.
func (l *Library) AddBatch(batch map[string]string) error {
	if len(batch) == 0 {
		return nil
	}

	candidate := maps.Clone(l.sources)
	maps.Copy(candidate, batch)

	set := pongo2.NewSet("inkwell", &sourceLoader{sources: candidate})
	compiled := make(map[string]*pongo2.Template, len(candidate))

	// Compile the batch first so errors name a template the caller just added.
	order := slices.Sorted(maps.Keys(batch))
	for _, name := range slices.Sorted(maps.Keys(l.sources)) {
		if _, inBatch := batch[name]; !inBatch {
			order = append(order, name)
		}
	}

	if cycle := findCycle(candidate, order); cycle != nil {
		return domain.NewError(domain.KindInheritance, "register template", cycle[0],
			fmt.Errorf("%w: %s", ErrCircularReference, strings.Join(cycle, " -> ")))
	}

	for _, name := range order {
		tpl, err := set.FromFile(name)
		if err != nil {
			return domain.NewError(domain.KindInheritance, "register template", name, err)
		}
		compiled[name] = tpl
	}

	l.sources = candidate
	l.compiled = compiled
	return nil
}

// Add registers a single template. It is AddBatch with one entry, so a
// template whose parent is not yet registered fails.
func (l *Library) Add(name, source string) error {
	return l.AddBatch(map[string]string{name: source})
}

// IncludeGlob registers every file under root matching pattern as one batch.
// Each template is named by its path relative to root, with forward slashes.
func (l *Library) IncludeGlob(root, pattern string) error {
	if !doublestar.ValidatePattern(pattern) {
		return domain.NewError(domain.KindPatternInvalid, "include templates", pattern, doublestar.ErrBadPattern)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return domain.NewError(domain.KindIo, "resolve template root", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return domain.NewError(domain.KindIo, "open template root", absRoot, err)
	}
	if !info.IsDir() {
		return domain.NewError(domain.KindIo, "open template root", absRoot, fmt.Errorf("not a directory"))
	}

	fsys := os.DirFS(absRoot)
	batch := map[string]string{}
	err = doublestar.GlobWalk(fsys, pattern, func(name string, d fs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return domain.NewError(domain.KindIo, "read template", filepath.Join(absRoot, name), err)
		}
		batch[name] = string(data)
		return nil
	})
	if err != nil {
		if domain.KindOf(err) != domain.KindUnknown {
			return err
		}
		return domain.NewError(domain.KindIo, "walk template root", absRoot, err)
	}

	return l.AddBatch(batch)
}

// Render executes the named template against ctx. Top-level keys that are not
// identifiers are left out of the context. Printing a variable that is not
// defined is an error.
func (l *Library) Render(name string, ctx domain.Value) (string, error) {
	tpl, ok := l.compiled[name]
	if !ok {
		return "", domain.NewError(domain.KindNotFound, "render template", name, nil)
	}
	vars, skipped := renderContext(ctx)
	if len(skipped) > 0 {
		slices.Sort(skipped)
		l.logger.Debug("context keys skipped", "template", name, "keys", skipped)
	}
	out, err := tpl.Execute(vars)
	if err != nil {
		return "", domain.NewError(domain.KindEval, "render template", name, err)
	}
	return out, nil
}

// RenderString compiles and renders a one-off template that may extend or
// include library templates. The library is not modified.
func (l *Library) RenderString(name, source string, ctx domain.Value) (string, error) {
	scratch := l.Clone()
	if err := scratch.Add(name, source); err != nil {
		return "", err
	}
	return scratch.Render(name, ctx)
}
