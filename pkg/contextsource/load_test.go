package contextsource

import (
	"path/filepath"
	"testing"

	"github.com/aretw0/inkwell/internal/testutils"
	"github.com/aretw0/inkwell/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The same context written in every supported format.
var equivalentContexts = map[Format]string{
	FormatJSON: `{
  "title": "Guide",
  "version": 3,
  "draft": false,
  "site": {"url": "https://example.com", "tags": ["a", "b"]},
  "ratio": 0.5
}`,
	FormatTOML: `
title = "Guide"
version = 3
draft = false
ratio = 0.5

[site]
url = "https://example.com"
tags = ["a", "b"]
`,
	FormatYAML: `
title: Guide
version: 3
draft: false
ratio: 0.5
site:
  url: https://example.com
  tags: [a, b]
`,
	FormatHCL: `
title   = "Guide"
version = 3
draft   = false
ratio   = 0.5
site = {
  url  = "https://example.com"
  tags = ["a", "b"]
}
`,
}

func TestLoad_EquivalentFormatsYieldIdenticalValues(t *testing.T) {
	dir := testutils.SetupTestDir(t)

	want := domain.Value{
		"title":   "Guide",
		"version": float64(3),
		"draft":   false,
		"ratio":   0.5,
		"site": map[string]any{
			"url":  "https://example.com",
			"tags": []any{"a", "b"},
		},
	}

	for format, content := range equivalentContexts {
		t.Run(string(format), func(t *testing.T) {
			path := testutils.WriteFile(t, dir, "context."+string(format), content)

			got, err := Load(path, format)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestLoad_MissingFileIsIoError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"), FormatJSON)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.KindIo)
}

func TestLoad_MalformedIsParseError(t *testing.T) {
	dir := testutils.SetupTestDir(t)

	cases := map[Format]string{
		FormatJSON: `{"title": `,
		FormatTOML: `title = `,
		FormatYAML: "title: [unclosed",
		FormatHCL:  `title = `,
	}
	for format, content := range cases {
		t.Run(string(format), func(t *testing.T) {
			path := testutils.WriteFile(t, dir, "bad."+string(format), content)

			_, err := Load(path, format)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.KindParse)
			assert.Contains(t, err.Error(), path)
		})
	}
}

func TestParse_TopLevelMustBeMapping(t *testing.T) {
	_, err := Parse([]byte(`[1, 2]`), FormatJSON, "list.json")
	assert.Error(t, err)

	_, err = Parse([]byte(`null`), FormatJSON, "null.json")
	assert.Error(t, err)

	_, err = Parse([]byte("- a\n- b\n"), FormatYAML, "list.yaml")
	assert.Error(t, err)
}

func TestParse_EmptyDocuments(t *testing.T) {
	v, err := Parse(nil, FormatYAML, "empty.yaml")
	require.NoError(t, err)
	assert.Equal(t, domain.Value{}, v)

	v, err = Parse(nil, FormatTOML, "empty.toml")
	require.NoError(t, err)
	assert.Equal(t, domain.Value{}, v)
}

func TestParse_HCLRejectsVariables(t *testing.T) {
	_, err := Parse([]byte(`title = var.name`), FormatHCL, "vars.hcl")
	assert.Error(t, err)
}

func TestParse_TOMLDatetimeBecomesString(t *testing.T) {
	v, err := Parse([]byte(`published = 2024-05-01T10:00:00Z`), FormatTOML, "dates.toml")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T10:00:00Z", v["published"])
}

func TestFormatFromPath(t *testing.T) {
	cases := map[string]Format{
		"context.json": FormatJSON,
		"context.TOML": FormatTOML,
		"context.yml":  FormatYAML,
		"context.yaml": FormatYAML,
		"context.hcl":  FormatHCL,
	}
	for path, want := range cases {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatFromPath("context.ini")
	assert.ErrorIs(t, err, domain.KindConfiguration)
}
