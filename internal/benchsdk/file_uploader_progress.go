package benchsdk

import (
	"io"
)

// ChunkSize is both the file read size and the progress reporting granularity.
const ChunkSize = 1024 * 1024

// ProgressCallback receives the bytes handed to the transport so far and the file size.
type ProgressCallback func(sent int64, total int64)

// progressReader counts bytes as the transport pulls them and calls back once
// per completed chunk, plus once when the last byte has been read. Reads are
// clipped at chunk boundaries so every report lands on a multiple of ChunkSize.
type progressReader struct {
	reader   io.Reader
	sent     int64
	reported int64
	total    int64
	callback ProgressCallback
}

func (pr *progressReader) Read(p []byte) (int, error) {
	if room := pr.reported + ChunkSize - pr.sent; int64(len(p)) > room {
		p = p[:room]
	}

	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.sent += int64(n)
		if pr.sent-pr.reported >= ChunkSize || pr.sent == pr.total {
			pr.reported = pr.sent
			if pr.callback != nil {
				pr.callback(pr.sent, pr.total)
			}
		}
	}
	return n, err
}
