package uploader

import (
	"context"

	"github.com/benchwrap/benchwrap/internal/benchsdk"
)

// Stage names the step an upload stopped at.
type Stage string

const (
	StagePresign  Stage = "presign"
	StageTransfer Stage = "transfer"
	StageDone     Stage = "done"
)

// Result is produced exactly once per enumerated item.
type Result struct {
	Row        int
	ObjectName string
	Success    bool
	Stage      Stage
	StatusCode int   // last HTTP status seen, 0 when no response
	Err        error // nil on success
}

// API is the part of the SDK an upload needs.
type API interface {
	PresignUpload(ctx context.Context, accessToken, objectName string) (*benchsdk.PresignResponse, error)
	UploadPresigned(ctx context.Context, url, path, contentType string, callback benchsdk.ProgressCallback) (*benchsdk.UploadResponse, error)
}

var _ API = (*benchsdk.Client)(nil)
