package progress

import (
	"bytes"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestLines_CoalescesAndFlushes(t *testing.T) {
	var out bytes.Buffer
	clock := clockwork.NewFakeClock()
	lines := NewLines(&out, clock)
	lines.Start(2)

	lines.Update(0, "a 10%")
	lines.Update(0, "a 20%")
	lines.Update(1, "b 50%")
	clock.Advance(DefaultLineInterval)
	lines.Update(0, "a 30%")
	lines.Update(0, "a ✓ done")
	lines.Update(1, "b ✓ done")
	lines.Stop()

	assert.Equal(t,
		"[1/2] a 10%\n"+
			"[2/2] b 50%\n"+
			"[1/2] a 30%\n"+
			"[2/2] b ✓ done\n"+
			"[1/2] a ✓ done\n",
		out.String())
}

func TestLines_NoPendingNoFlush(t *testing.T) {
	var out bytes.Buffer
	clock := clockwork.NewFakeClock()
	lines := NewLines(&out, clock)
	lines.Interval = time.Second
	lines.Start(1)

	lines.Update(0, "only\nline")
	lines.Stop()

	assert.Equal(t, "[1/1] only line\n", out.String())
}

func TestLines_Preconditions(t *testing.T) {
	lines := NewLines(&bytes.Buffer{}, clockwork.NewFakeClock())
	lines.Start(1)

	assert.Panics(t, func() { lines.Update(1, "x") })
	assert.Panics(t, func() { lines.Start(1) })
}
