package progress

import (
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"
)

// screen is a minimal terminal emulator for the escape sequences the table
// emits: cursor save/restore, relative up/down moves, carriage return, line
// clear and newline.
type screen struct {
	lines          map[int][]rune
	row, col       int
	savedRow       int
	savedCol       int
	unknownEscapes []string
}

func newScreen() *screen {
	return &screen{lines: map[int][]rune{}}
}

func (s *screen) feed(t *testing.T, data string) {
	t.Helper()
	for i := 0; i < len(data); {
		switch data[i] {
		case '\n':
			s.row++
			s.col = 0
			i++
			continue
		case '\r':
			s.col = 0
			i++
			continue
		case 0x1b:
			end := strings.IndexAny(data[i+2:], "ABJKsu")
			if data[i+1] != '[' || end < 0 {
				t.Fatalf("malformed escape at %d: %q", i, data[i:])
			}
			param, op := data[i+2:i+2+end], data[i+2+end]
			s.apply(param, op)
			i += 3 + end
			continue
		}

		r, size := utf8.DecodeRuneInString(data[i:])
		line := s.lines[s.row]
		for len(line) <= s.col {
			line = append(line, ' ')
		}
		line[s.col] = r
		s.lines[s.row] = line
		s.col++
		i += size
	}
}

func (s *screen) apply(param string, op byte) {
	n := 1
	if param != "" {
		n, _ = strconv.Atoi(param)
	}
	switch op {
	case 's':
		s.savedRow, s.savedCol = s.row, s.col
	case 'u':
		s.row, s.col = s.savedRow, s.savedCol
	case 'A':
		s.row = max(0, s.row-n)
	case 'B':
		s.row += n
	case 'K':
		if param == "2" {
			delete(s.lines, s.row)
		}
	default:
		s.unknownEscapes = append(s.unknownEscapes, param+string(op))
	}
}

func (s *screen) line(row int) string {
	return strings.TrimRight(string(s.lines[row]), " ")
}
