// Package utils holds small helpers shared by the benchwrap CLI and its engine packages.
package utils

import (
	"bytes"
	"io"
	"log/slog"
	"sync"
	"time"
)

// LogInterceptor implements io.Writer and prefixes every complete line with a
// sequence number and a timestamp before forwarding it to the target.
// Incomplete trailing data is held until the next newline or Close.
type LogInterceptor struct {
	mu     sync.Mutex
	target io.Writer
	seq    uint64
	buf    bytes.Buffer
	now    func() time.Time
}

func NewLogInterceptor(target io.Writer) *LogInterceptor {
	return &LogInterceptor{
		target: target,
		now:    time.Now,
	}
}

func (i *LogInterceptor) writeLine(line []byte) error {
	i.seq++
	prefix := slog.Uint64("line", i.seq).String() + " " +
		slog.String("time", i.now().Format(time.RFC3339)).String() + " "

	if _, err := io.WriteString(i.target, prefix); err != nil {
		return err
	}
	if _, err := i.target.Write(line); err != nil {
		return err
	}
	_, err := io.WriteString(i.target, "\n")
	return err
}

// Write reports len(p) on success, regardless of the prefix bytes added.
func (i *LogInterceptor) Write(p []byte) (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.buf.Write(p)
	for {
		idx := bytes.IndexByte(i.buf.Bytes(), '\n')
		if idx < 0 {
			break
		}
		line := bytes.TrimSuffix(i.buf.Next(idx+1), []byte("\n"))
		line = bytes.TrimSuffix(line, []byte("\r"))
		if err := i.writeLine(line); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// Close flushes a trailing partial line, if any.
func (i *LogInterceptor) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.buf.Len() == 0 {
		return nil
	}
	rest := bytes.Clone(i.buf.Bytes())
	i.buf.Reset()
	return i.writeLine(rest)
}
