package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultLineInterval limits how often one row is re-printed.
const DefaultLineInterval = 2 * time.Second

type lineRow struct {
	text    string
	pending bool
	printed time.Time
}

// Lines is the renderer for logs and pipes: every update becomes a plain
// `[i/n] text` line. Frequent updates of the same row are coalesced and the
// latest text of each row is flushed by Stop.
type Lines struct {
	Interval time.Duration

	mu    sync.Mutex
	w     io.Writer
	clock clockwork.Clock
	rows  []lineRow
}

func NewLines(w io.Writer, clock clockwork.Clock) *Lines {
	return &Lines{
		Interval: DefaultLineInterval,
		w:        w,
		clock:    clock,
	}
}

func (l *Lines) Start(rows int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.rows != nil {
		panic("progress: lines started twice")
	}
	l.rows = make([]lineRow, rows)
}

func (l *Lines) Update(row int, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	checkRow(row, len(l.rows))
	r := &l.rows[row]
	r.text = sanitize(text)

	now := l.clock.Now()
	if !r.printed.IsZero() && now.Sub(r.printed) < l.Interval {
		r.pending = true
		return
	}
	l.print(row, now)
}

func (l *Lines) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	for i := range l.rows {
		if l.rows[i].pending {
			l.print(i, now)
		}
	}
}

func (l *Lines) print(row int, now time.Time) {
	r := &l.rows[row]
	r.pending = false
	r.printed = now
	fmt.Fprintf(l.w, "[%d/%d] %s\n", row+1, len(l.rows), r.text)
}
