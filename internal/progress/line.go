package progress

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	mib       = 1024 * 1024
	barWidth  = 28
	nameWidth = 24
)

// Line renders the in-flight state of one upload:
//
//	results/run-01.h5        [------C  o  o  o  o  o  o  o]  23%   12.0/  52.0 MiB  4.00 MiB/s ETA 00:10
//
// Elapsed is the time since the transfer started; now only drives the
// two-frame mouth animation.
func Line(name string, sent, size int64, elapsed time.Duration, now time.Time) string {
	percent := int64(0)
	position := 0
	if size > 0 {
		percent = sent * 100 / size
		position = min(barWidth-1, int(barWidth*sent/size))
	}

	sentMiB := float64(sent) / mib
	totalMiB := float64(max(size, 1)) / mib

	seconds := max(elapsed.Seconds(), 1e-6)
	speed := sentMiB / seconds
	remaining := 0.0
	if speed > 0 {
		remaining = (totalMiB - sentMiB) / speed
	}

	return fmt.Sprintf("%s [%s] %3d%% %6.1f/%6.1f MiB %5.2f MiB/s ETA %s",
		fitName(name), rail(position, now), percent, sentMiB, totalMiB, speed, clockTime(remaining))
}

// Pending is shown while the upload url is being requested.
func Pending(name string) string {
	return fitName(name) + " … presign"
}

// Done is the final row of a successful upload.
func Done(name string) string {
	return fitName(name) + " ✓ done"
}

// ZeroByte is the final row of an empty file upload.
func ZeroByte(name string, status int) string {
	return fmt.Sprintf("%s ✓ zero-byte [%d]", fitName(name), status)
}

// Failed is the final row of a rejected transfer; status 0 means no response.
func Failed(name string, status int) string {
	return fmt.Sprintf("%s ✗ [%s]", fitName(name), statusText(status))
}

// PresignFailed is the final row when no upload url could be obtained.
func PresignFailed(name string, status int) string {
	return fmt.Sprintf("%s ✗ [presign %s]", fitName(name), statusText(status))
}

func statusText(status int) string {
	if status == 0 {
		return "error"
	}
	return fmt.Sprint(status)
}

func rail(position int, now time.Time) string {
	mouth := 'C'
	if (now.UnixMilli()*6/1000)%2 != 0 {
		mouth = 'c'
	}

	cells := make([]rune, barWidth)
	for i := range cells {
		switch {
		case i < position:
			cells[i] = '-'
		case (i-position)%3 == 0:
			cells[i] = 'o'
		default:
			cells[i] = ' '
		}
	}
	cells[position] = mouth
	return string(cells)
}

func fitName(name string) string {
	if utf8.RuneCountInString(name) > nameWidth {
		name = string([]rune(name)[:nameWidth])
	}
	return name + strings.Repeat(" ", nameWidth-utf8.RuneCountInString(name))
}

func clockTime(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
