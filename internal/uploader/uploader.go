// Package uploader pushes enumerated files to remote storage through
// presigned urls, a bounded number at a time, reporting each file on its own
// progress row.
package uploader

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/benchwrap/benchwrap/internal/benchsdk"
	"github.com/benchwrap/benchwrap/internal/enumerate"
	"github.com/benchwrap/benchwrap/internal/progress"
	"github.com/benchwrap/benchwrap/internal/utils"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

const DefaultWorkers = 4

type Uploader struct {
	api      API
	renderer progress.Renderer
	clock    clockwork.Clock
}

func New(api API, renderer progress.Renderer, clock clockwork.Clock) *Uploader {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Uploader{
		api:      api,
		renderer: renderer,
		clock:    clock,
	}
}

// SyncAll uploads every item and returns one Result per item in completion
// order. Item i reports on row i. At most workers uploads run at once; a
// failed upload never stops the others, and SyncAll returns only after every
// dispatched upload has finished.
func (u *Uploader) SyncAll(ctx context.Context, accessToken string, items []enumerate.Item, workers int) []Result {
	if workers < 1 {
		workers = DefaultWorkers
	}

	u.renderer.Start(len(items))
	defer u.renderer.Stop()

	var (
		mu      sync.Mutex
		results = make([]Result, 0, len(items))
		g       errgroup.Group
	)
	g.SetLimit(workers)

	for row, item := range items {
		// blocks while the pool is full
		g.Go(func() error {
			res := u.Upload(ctx, row, accessToken, item)

			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Upload runs presign, PUT and finalize for one item, writing only to row.
func (u *Uploader) Upload(ctx context.Context, row int, accessToken string, item enumerate.Item) Result {
	name := item.ObjectName
	res := Result{Row: row, ObjectName: name, Stage: StagePresign}
	u.renderer.Update(row, progress.Pending(name))

	presign, err := u.api.PresignUpload(ctx, accessToken, name)
	if err != nil {
		res.StatusCode = benchsdk.StatusCode(err)
		res.Err = err
		u.renderer.Update(row, progress.PresignFailed(name, res.StatusCode))
		slog.Info("presign failed", "object", name, "status", res.StatusCode, "error", err)
		return res
	}

	res.Stage = StageTransfer
	start := u.clock.Now()
	onProgress := func(sent, total int64) {
		now := u.clock.Now()
		u.renderer.Update(row, progress.Line(name, sent, total, now.Sub(start), now))
	}

	resp, err := u.api.UploadPresigned(ctx, presign.URL, item.LocalPath, utils.DetectContentType(name), onProgress)
	if err != nil {
		res.Err = err
		u.renderer.Update(row, progress.Failed(name, 0))
		slog.Info("upload failed", "object", name, "error", err)
		return res
	}

	res.StatusCode = resp.StatusCode
	if !resp.OK() {
		res.Err = fmt.Errorf("upload %s: %w", name, &benchsdk.APIError{StatusCode: resp.StatusCode, Body: resp.Body})
		u.renderer.Update(row, progress.Failed(name, resp.StatusCode))
		slog.Info("upload rejected", "object", name, "status", resp.StatusCode, "body", resp.Body)
		return res
	}

	res.Stage = StageDone
	res.Success = true
	if item.Size == 0 {
		u.renderer.Update(row, progress.ZeroByte(name, resp.StatusCode))
	} else {
		u.renderer.Update(row, progress.Done(name))
	}
	slog.Debug("uploaded", "object", name, "size", item.Size, "status", resp.StatusCode, "took", u.clock.Since(start))
	return res
}
