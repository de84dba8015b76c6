// Package progress renders one status row per upload.
//
// A Renderer owns a fixed number of rows for the lifetime of a sync. Each row
// is written by exactly one upload worker; the renderer serializes writes so
// rows updated from different goroutines never interleave.
package progress

import (
	"fmt"
	"os"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/mattn/go-isatty"
)

type Renderer interface {
	// Start reserves rows. It must be called exactly once, before any Update.
	Start(rows int)
	// Update replaces the text of one row. Rows are 0-based; an index outside
	// [0, rows) is a programming error and panics.
	Update(row int, text string)
	// Stop leaves the output in a state where normal printing can resume.
	Stop()
}

// New picks the ANSI table for terminals and the line renderer otherwise.
func New(f *os.File, width int) Renderer {
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		t := NewTable(f)
		t.Width = width
		return t
	}
	return NewLines(f, clockwork.NewRealClock())
}

func checkRow(row, rows int) {
	if row < 0 || row >= rows {
		panic(fmt.Sprintf("progress: row %d out of range [0,%d)", row, rows))
	}
}

// sanitize keeps a row on one physical line.
func sanitize(text string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(text)
}

var (
	_ Renderer = (*Table)(nil)
	_ Renderer = (*Lines)(nil)
)
