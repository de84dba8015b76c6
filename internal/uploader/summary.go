package uploader

import (
	"fmt"

	"github.com/benchwrap/benchwrap/internal/enumerate"
	"github.com/dustin/go-humanize"
)

// Summary is the end-of-run tally. TotalBytes comes from the sizes recorded
// at enumeration, not from what was actually transferred.
type Summary struct {
	Succeeded  int
	Total      int
	TotalBytes int64
	Failed     []Result
}

func TotalBytes(items []enumerate.Item) int64 {
	var total int64
	for _, it := range items {
		total += it.Size
	}
	return total
}

func Summarize(items []enumerate.Item, results []Result) Summary {
	s := Summary{
		Total:      len(items),
		TotalBytes: TotalBytes(items),
	}
	for _, r := range results {
		if r.Success {
			s.Succeeded++
		} else {
			s.Failed = append(s.Failed, r)
		}
	}
	return s
}

func (s Summary) OK() bool {
	return s.Succeeded == s.Total
}

func (s Summary) String() string {
	return fmt.Sprintf("%d/%d uploaded successfully, %s total", s.Succeeded, s.Total, humanize.IBytes(uint64(s.TotalBytes)))
}
