package benchsdk

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const zeroByteTimeout = 30 * time.Second

// UploadPresigned PUTs the file at path to a presigned url.
//
// This goes through net/http instead of req because the body has to be streamed
// with an exact Content-Length, and req buffers readers passed to SetBody.
// Presigned urls carry their own authorization, so no bearer token is sent.
//
// Empty files are sent with an explicit zero Content-Length and never invoke
// the callback. A non-nil error means no response was received; HTTP failures
// are reported through UploadResponse.StatusCode.
func (c *Client) UploadPresigned(ctx context.Context, url, path, contentType string, callback ProgressCallback) (*UploadResponse, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()

	var body io.Reader = http.NoBody
	if size == 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, zeroByteTimeout)
		defer cancel()
	} else {
		body = &progressReader{
			// cap at the size we advertise in case the file grows mid-upload
			reader:   bufio.NewReaderSize(io.LimitReader(file, size), ChunkSize),
			total:    size,
			callback: callback,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return nil, err
	}
	// Presigned urls reject chunked transfer encoding. net/http always writes
	// Content-Length for a PUT with a known length, including 0.
	req.ContentLength = size
	req.Header.Set("Content-Type", contentType)

	resp, err := c.put.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", path, err)
	}
	defer resp.Body.Close()

	preview, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyPreview))
	return &UploadResponse{
		StatusCode: resp.StatusCode,
		Body:       string(preview),
	}, nil
}
