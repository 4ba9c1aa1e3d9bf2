package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRenderer_NonTerminal(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, IsTerminal(&buf))

	render, err := NewRenderer(&buf)
	require.NoError(t, err)

	out, err := render("# Title\n\nSome **bold** text.")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "bold")
}

func TestPrintBanner_Plain(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")

	out := buf.String()
	assert.Contains(t, out, "v1.2.3")
	assert.NotContains(t, out, "\x1b[")
	assert.GreaterOrEqual(t, strings.Count(out, "\n"), 6)
}
