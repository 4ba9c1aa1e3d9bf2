package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the inkwell banner and version to w.
// Colours degrade to plain text when w is not a terminal.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"  _       _                 _ _ ", "#818cf8"},
		{" (_)_ __ | | ____      _____| | |", "#a78bfa"},
		{" | | '_ \\| |/ /\\ \\ /\\ / / _ \\ | |", "#c084fc"},
		{" | | | | |   <  \\ V  V /  __/ | |", "#e879f9"},
		{" |_|_| |_|_|\\_\\  \\_/\\_/ \\___|_|_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintf(w, " %s\n\n", out.String("v"+version).Faint())
}
