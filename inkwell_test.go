package inkwell_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/inkwell"
	"github.com/aretw0/inkwell/internal/logging"
	"github.com/aretw0/inkwell/internal/testutils"
	"github.com/aretw0/inkwell/pkg/contextsource"
	"github.com/aretw0/inkwell/pkg/domain"
	"github.com/aretw0/inkwell/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func book(items ...domain.BookItem) *domain.Book {
	return &domain.Book{Sections: items}
}

func content(b *domain.Book, i int) string {
	return b.Sections[i].Chapter.Content
}

func TestRun_HelloWorld(t *testing.T) {
	p := inkwell.New(contextsource.NewStatic(nil))

	out, err := p.Run(map[string]any{"name": "World"}, book(
		domain.NewChapter("Intro", "intro.md", "Hello, {{ ctx.name }}!"),
	))
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!", content(out, 0))
}

func TestRun_SourceKeysWin(t *testing.T) {
	source := contextsource.NewStatic(domain.Value{
		"ctx":   map[string]any{"name": "Source"},
		"title": "Guide",
	})
	p := inkwell.New(source)

	out, err := p.Run(map[string]any{"name": "Host"}, book(
		domain.NewChapter("Intro", "intro.md", "{{ title }}: {{ ctx.name }}"),
	))
	require.NoError(t, err)
	assert.Equal(t, "Guide: Source", content(out, 0))
}

func TestRun_CustomContextKey(t *testing.T) {
	p := inkwell.New(nil, inkwell.WithContextKey("book"))

	out, err := p.Run(map[string]any{"renderer": "html"}, book(
		domain.NewChapter("Intro", "intro.md", "[{{ book.renderer }}]"),
	))
	require.NoError(t, err)
	assert.Equal(t, "[html]", content(out, 0))

	// The default key is no longer bound.
	_, err = p.Run(map[string]any{"renderer": "html"}, book(
		domain.NewChapter("Intro", "intro.md", "[{{ ctx.renderer }}]"),
	))
	assert.ErrorIs(t, err, domain.KindEval)
}

func TestRun_DraftChapterUnchanged(t *testing.T) {
	p := inkwell.New(nil)

	out, err := p.Run(nil, book(
		domain.NewChapter("Draft", "", "{{ not rendered }}",
			domain.NewChapter("Child", "child.md", "child of {{ 'draft'|upper }}"),
		),
		domain.NewPartTitle("Part"),
		domain.NewSeparator(),
	))
	require.NoError(t, err)
	draft := out.Sections[0].Chapter
	assert.Equal(t, "{{ not rendered }}", draft.Content)
	assert.Equal(t, "child of DRAFT", draft.SubItems[0].Chapter.Content)
	assert.Equal(t, "Part", *out.Sections[1].PartTitle)
	assert.True(t, out.Sections[2].Separator)
}

func TestRun_ChapterExtendsSiblingChapter(t *testing.T) {
	p := inkwell.New(nil)

	out, err := p.Run(nil, book(
		domain.NewChapter("Child", "child.md", `{% extends "base.md" %}{% block x %}child{% endblock %}`),
		domain.NewChapter("Base", "base.md", `[{% block x %}base{% endblock %}]`),
	))
	require.NoError(t, err)
	assert.Equal(t, "[child]", content(out, 0))
	assert.Equal(t, "[base]", content(out, 1))
}

func TestRun_ChapterExtendsOnDiskLayout(t *testing.T) {
	root := testutils.SetupTestDir(t)
	testutils.WriteFiles(t, root, map[string]string{
		"layouts/page.tera": "# {% block title %}{% endblock %}\n{% block body %}{% endblock %}",
		"macros.tera":       `{% macro greet(who) export %}Hi {{ who }}{% endmacro %}`,
		"notes.txt":         "not a template",
	})

	p := inkwell.New(nil)
	require.NoError(t, p.IncludeTemplates(root, "**/*.tera"))
	assert.Equal(t, []string{"layouts/page.tera", "macros.tera"}, p.Templates())

	out, err := p.Run(map[string]any{"name": "World"}, book(
		domain.NewChapter("Page", "page.md",
			`{% extends "layouts/page.tera" %}{% block title %}{{ ctx.name }}{% endblock %}{% block body %}Welcome{% endblock %}`),
		domain.NewChapter("Greeting", "greeting.md", `{% import "macros.tera" greet %}{{ greet("Ann") }}`),
	))
	require.NoError(t, err)
	assert.Equal(t, "# World\nWelcome", content(out, 0))
	assert.Equal(t, "Hi Ann", content(out, 1))
}

func TestRun_UndefinedVariableFailsChapter(t *testing.T) {
	p := inkwell.New(nil)

	input := book(domain.NewChapter("A", "guide/a.md", "<{{ ctx.missing }}>"))
	out, err := p.Run(nil, input)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, domain.KindEval)

	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "guide/a.md", derr.Path)
	assert.Contains(t, err.Error(), "ctx.missing")
	assert.Equal(t, "<{{ ctx.missing }}>", content(input, 0))
}

func TestRun_DefaultFilterCoversUndefined(t *testing.T) {
	p := inkwell.New(nil)

	out, err := p.Run(nil, book(domain.NewChapter("A", "a.md", `<{{ ctx.missing|default:"none" }}>`)))
	require.NoError(t, err)
	assert.Equal(t, "<none>", content(out, 0))
}

func TestRun_KeysThatAreNotIdentifiersAreSkipped(t *testing.T) {
	root := testutils.SetupTestDir(t)
	path := testutils.WriteFile(t, root, "context.toml", "site-name = \"hyphen\"\ntitle = \"Guide\"\n")
	source, err := contextsource.NewStaticFromFile(path, contextsource.FormatTOML)
	require.NoError(t, err)

	var logs bytes.Buffer
	p := inkwell.New(source, inkwell.WithLogger(logging.NewWithWriter(&logs, slog.LevelDebug)))

	out, err := p.Run(nil, book(
		domain.NewChapter("A", "a.md", "{{ title }}"),
		domain.NewChapter("B", "b.md", "{{ title|upper }}"),
	))
	require.NoError(t, err)
	assert.Equal(t, "Guide", content(out, 0))
	assert.Equal(t, "GUIDE", content(out, 1))
	assert.Contains(t, logs.String(), "site-name")
}

func TestRun_DuplicatePathsLastWins(t *testing.T) {
	p := inkwell.New(nil)

	out, err := p.Run(nil, book(
		domain.NewChapter("First", "same.md", "first"),
		domain.NewChapter("Second", "same.md", "second"),
	))
	require.NoError(t, err)
	assert.Equal(t, "second", content(out, 0))
	assert.Equal(t, "second", content(out, 1))
}

func TestRun_FailureReturnsNoBookAndKeepsInput(t *testing.T) {
	source := contextsource.NewStatic(domain.Value{
		"boom": func() (string, error) { return "", errors.New("kaboom") },
	})
	p := inkwell.New(source)

	input := book(
		domain.NewChapter("Ok", "ok.md", "{{ 'fine' }}"),
		domain.NewChapter("Bad", "nested/bad.md", "{{ boom() }}"),
	)

	out, err := p.Run(nil, input)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, domain.KindEval)
	assert.Contains(t, err.Error(), "nested/bad.md")

	assert.Equal(t, "{{ 'fine' }}", content(input, 0), "input book must not be half rendered")
}

func TestRun_CircularChaptersAreInheritanceErrors(t *testing.T) {
	p := inkwell.New(nil)

	_, err := p.Run(nil, book(domain.NewChapter("Loop", "loop.md", `x {% include "loop.md" %}`)))
	assert.ErrorIs(t, err, domain.KindInheritance)
	assert.Contains(t, err.Error(), "loop.md -> loop.md")

	_, err = p.Run(nil, book(
		domain.NewChapter("A", "a.md", `{% extends "b.md" %}`),
		domain.NewChapter("B", "b.md", `{% extends "a.md" %}`),
	))
	assert.ErrorIs(t, err, domain.KindInheritance)
	assert.Contains(t, err.Error(), "a.md -> b.md -> a.md")
}

func TestRun_MissingParentIsInheritanceError(t *testing.T) {
	p := inkwell.New(nil)

	out, err := p.Run(nil, book(
		domain.NewChapter("Child", "child.md", `{% extends "nowhere.md" %}`),
	))
	assert.Nil(t, out)
	assert.ErrorIs(t, err, domain.KindInheritance)
}

func TestRun_InvalidPath(t *testing.T) {
	p := inkwell.New(nil)

	_, err := p.Run(nil, book(domain.NewChapter("Bad", "bad\xff.md", "x")))
	assert.ErrorIs(t, err, domain.KindInvalidPath)
}

func TestRun_ChapterTemplatesDoNotLeakAcrossRuns(t *testing.T) {
	p := inkwell.New(nil)

	_, err := p.Run(nil, book(domain.NewChapter("Base", "base.md", "base")))
	require.NoError(t, err)
	assert.Empty(t, p.Templates())

	_, err = p.Run(nil, book(domain.NewChapter("Child", "child.md", `{% extends "base.md" %}`)))
	assert.ErrorIs(t, err, domain.KindInheritance)
}

func TestRun_NilBook(t *testing.T) {
	out, err := inkwell.New(nil).Run(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, out.Sections)
}

func TestRun_RecordsMetricsAndLogs(t *testing.T) {
	var logs bytes.Buffer
	m := observability.NewMetrics(prometheus.NewRegistry())
	p := inkwell.New(nil,
		inkwell.WithMetrics(m),
		inkwell.WithLogger(logging.NewWithWriter(&logs, slog.LevelDebug)),
	)

	_, err := p.Run(nil, book(
		domain.NewChapter("A", "a.md", "a", domain.NewChapter("B", "b.md", "b")),
	))
	require.NoError(t, err)
	_, err = p.Run(nil, book(domain.NewChapter("C", "c.md", "{% if %}")))
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ChaptersRendered))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunFailures.WithLabelValues("inheritance")))
	assert.Contains(t, logs.String(), "run complete")
	assert.Contains(t, logs.String(), "component=preprocessor")
}

func TestIncludeTemplates_Errors(t *testing.T) {
	p := inkwell.New(nil)

	assert.ErrorIs(t, p.IncludeTemplates(t.TempDir(), "[unclosed"), domain.KindPatternInvalid)
	assert.ErrorIs(t, p.IncludeTemplates("/does/not/exist", "**/*.tera"), domain.KindIo)
}

func TestRenderString(t *testing.T) {
	root := testutils.SetupTestDir(t)
	testutils.WriteFile(t, root, "footer.tera", "-- {{ author }}")

	p := inkwell.New(contextsource.NewStatic(domain.Value{"author": "Ann"}))
	require.NoError(t, p.IncludeTemplates(root, "*.tera"))

	out, err := p.RenderString(map[string]any{"name": "World"}, "preview.md", `Hi {{ ctx.name }} {% include "footer.tera" %}`)
	require.NoError(t, err)
	assert.Equal(t, "Hi World -- Ann", out)
}

func TestIdentity(t *testing.T) {
	p := inkwell.New(nil)
	assert.Equal(t, "inkwell", p.Name())
	for _, r := range []string{"html", "pdf", "epub", ""} {
		assert.True(t, p.Supports(r))
	}
}
