package progress

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"unicode/utf8"
)

const (
	escSave      = "\x1b[s"
	escRestore   = "\x1b[u"
	escClearLine = "\x1b[2K"
)

// Table draws rows in place on an ANSI terminal. The cursor position saved by
// Start is the table origin; every Update jumps there, moves down to its row,
// rewrites it and parks the cursor on the line below the table.
type Table struct {
	// Width truncates rows to this many characters when positive.
	Width int

	mu      sync.Mutex
	w       io.Writer
	rows    []string
	started bool
}

func NewTable(w io.Writer) *Table {
	return &Table{w: w}
}

func (t *Table) Start(rows int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		panic("progress: table started twice")
	}
	t.started = true
	t.rows = make([]string, rows)

	var buf bytes.Buffer
	for range rows {
		buf.WriteByte('\n')
	}
	if rows > 0 {
		fmt.Fprintf(&buf, "\x1b[%dA", rows)
	}
	buf.WriteString("\r" + escSave)
	_, _ = t.w.Write(buf.Bytes())
}

func (t *Table) Update(row int, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	checkRow(row, len(t.rows))
	text = t.fit(sanitize(text))
	t.rows[row] = text

	// one Write per update so the escape sequence reaches the terminal whole
	var buf bytes.Buffer
	buf.WriteString(escRestore)
	if row > 0 {
		fmt.Fprintf(&buf, "\x1b[%dB", row)
	}
	buf.WriteString("\r" + escClearLine + text)
	t.parkBelow(&buf)
	_, _ = t.w.Write(buf.Bytes())
}

func (t *Table) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return
	}
	var buf bytes.Buffer
	t.parkBelow(&buf)
	_, _ = t.w.Write(buf.Bytes())
}

// Rows returns a copy of the current row texts.
func (t *Table) Rows() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]string, len(t.rows))
	copy(out, t.rows)
	return out
}

func (t *Table) parkBelow(buf *bytes.Buffer) {
	buf.WriteString(escRestore)
	if n := len(t.rows); n > 0 {
		fmt.Fprintf(buf, "\x1b[%dB", n)
	}
	buf.WriteString("\r")
}

func (t *Table) fit(text string) string {
	if t.Width <= 0 || utf8.RuneCountInString(text) <= t.Width {
		return text
	}
	runes := []rune(text)
	return string(runes[:t.Width])
}
