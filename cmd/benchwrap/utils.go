package main

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"
	"golang.org/x/term"

	"github.com/benchwrap/benchwrap/internal/progress"
)

var (
	// https://github.com/fidian/ansi
	red   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	green = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	cyan  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	gray  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	bold  = lipgloss.NewStyle().Bold(true)
)

const fallbackWidth = 120

// newRenderer uses the ANSI table when w is a terminal and plain lines
// otherwise.
func newRenderer(w io.Writer) progress.Renderer {
	f, ok := w.(*os.File)
	if !ok {
		return progress.NewLines(w, clockwork.NewRealClock())
	}

	width := fallbackWidth
	if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
		width = cols
	}
	return progress.New(f, width)
}
