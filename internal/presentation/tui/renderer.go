package tui

import (
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const defaultWidth = 80

// NewRenderer returns a function that renders markdown for out using glamour.
// On a terminal the style follows the background colour and lines wrap at the
// terminal width. Anything else gets the plain "notty" style.
func NewRenderer(out io.Writer) (func(string) (string, error), error) {
	style, width := "notty", defaultWidth
	if fd, ok := terminalFd(out); ok {
		style = "light"
		if termenv.NewOutput(out).HasDarkBackground() {
			style = "dark"
		}
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			width = w
		}
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}

// IsTerminal reports whether out is attached to a terminal.
func IsTerminal(out io.Writer) bool {
	_, ok := terminalFd(out)
	return ok
}

func terminalFd(out io.Writer) (int, bool) {
	f, ok := out.(interface{ Fd() uintptr })
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, term.IsTerminal(fd)
}
