package ingest

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/findoc-reader/constants"
	"github.com/joseph-ayodele/findoc-reader/internal/async"
	"github.com/joseph-ayodele/findoc-reader/internal/common"
	processor "github.com/joseph-ayodele/findoc-reader/internal/pipeline"
)

// FSIngestor reads files from the local filesystem and hands them to the
// processor, one worker-pool job per file.
type FSIngestor struct {
	Processor    Processor
	Batch        common.BatchConfig
	MaxFileBytes int64
	logger       *slog.Logger
}

func NewFSIngestor(p Processor, batch common.BatchConfig, maxFileBytes int64, logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	if maxFileBytes <= 0 {
		maxFileBytes = constants.DefaultMaxUploadBytes
	}
	return &FSIngestor{Processor: p, Batch: batch, MaxFileBytes: maxFileBytes, logger: logger}
}

func (i *FSIngestor) IngestPath(ctx context.Context, path string) (processor.Result, error) {
	ctx, reqID := common.EnsureRequestID(ctx)
	failed := func(status constants.Status, err error) (processor.Result, error) {
		return processor.Result{
			File:      path,
			Format:    constants.MapExtToFormat(filepath.Ext(path)),
			Status:    status,
			RequestID: reqID,
			Error:     err.Error(),
			Err:       err,
		}, err
	}

	ext := constants.NormalizeExt(filepath.Ext(path))
	if ext == "" || !AllowedExt(ext) {
		return failed(constants.StatusUnsupported, common.UnsupportedFormatErrorf("unsupported or missing extension: %q", ext))
	}
	if err := ctx.Err(); err != nil {
		return failed(constants.StatusFailed, err)
	}

	data, err := readFile(path, i.MaxFileBytes)
	if err != nil {
		i.logger.Warn("ingest.read.failed", "path", path, "err", err)
		return failed(constants.StatusFailed, err)
	}

	res := i.Processor.Process(ctx, path, data)
	return res, res.Err
}

// IngestDirectory walks root, skips hidden entries if requested and
// processes every supported file on the worker pool. Results keep walk order;
// walk errors are appended after them.
func (i *FSIngestor) IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]processor.Result, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, common.InvalidInputError("root path is required")
	}
	start := time.Now()

	var (
		paths    []string
		walkErrs []processor.Result
		stats    DirStats
	)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			walkErrs = append(walkErrs, processor.Result{File: path, Status: constants.StatusFailed, Error: walkErr.Error(), Err: walkErr})
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("walk: %w", err)
	}

	results := make([]processor.Result, len(paths))
	q := async.NewProcessorQueue(func(jobCtx context.Context, job async.Job) {
		if err := ctx.Err(); err != nil {
			results[job.Index] = processor.Result{File: job.Path, Status: constants.StatusFailed, Error: err.Error(), Err: err}
			return
		}
		res, _ := i.IngestPath(common.WithRequestID(jobCtx, job.RequestID), job.Path)
		results[job.Index] = res
	}, i.logger,
		async.WithWorkers(i.Batch.Workers),
		async.WithQueueSize(i.Batch.QueueSize),
		async.WithProcessTimeout(i.Batch.ProcessTimeout),
	)

	enqueued := len(paths)
	for idx, p := range paths {
		_, reqID := common.EnsureRequestID(context.Background())
		if err := q.Enqueue(ctx, async.Job{Path: p, Index: idx, RequestID: reqID}); err != nil {
			enqueued = idx
			break
		}
	}
	q.Shutdown(context.Background())

	for idx := enqueued; idx < len(paths); idx++ {
		err := ctx.Err()
		if err == nil {
			err = async.ErrQueueClosed
		}
		results[idx] = processor.Result{File: paths[idx], Status: constants.StatusFailed, Error: err.Error(), Err: err}
	}

	results = append(results, walkErrs...)
	for _, r := range results {
		switch r.Status {
		case constants.StatusOK:
			stats.Succeeded++
		case constants.StatusEmpty:
			stats.Succeeded++
			stats.Empty++
		default:
			stats.Failed++
		}
	}

	i.logger.Info("ingest.directory.done",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return results, stats, nil
}

// readFile reads at most limit bytes and fails when the file is larger.
func readFile(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, common.TooLargeError(fmt.Sprintf("%s exceeds %d bytes", filepath.Base(path), limit))
	}
	return data, nil
}

var _ Ingestor = (*FSIngestor)(nil)
