package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/joseph-ayodele/findoc-reader/constants"
)

type WatchConfig struct {
	Roots       []string // directories to watch (recursive)
	AllowedExts map[string]struct{}
	InitialScan bool          // emit files already present under the roots
	SkipHidden  bool          // ignore dot files and dot directories
	Debounce    time.Duration // coalesce rapid write/rename bursts
	Logger      *slog.Logger
}

// StartWatcher emits the path of every supported file created or written
// under the roots. Both channels close when ctx is done.
func StartWatcher(ctx context.Context, cfg WatchConfig) (<-chan string, <-chan error, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Roots) == 0 {
		logger.Error("watcher.start.failed", "err", "no roots provided")
		return nil, nil, errors.New("no roots provided")
	}
	if cfg.AllowedExts == nil {
		cfg.AllowedExts = AllowedExtensions()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("watcher.create.failed", "err", err)
		return nil, nil, err
	}

	evCh := make(chan string, 256)
	errCh := make(chan error, 1)
	skip := func(path string) bool { return cfg.SkipHidden && IsHidden(path) }

	var initial []string
	addDir := func(root string, scan bool) error {
		return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if path != root && skip(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return w.Add(path)
			}
			if scan && allowed(path, cfg.AllowedExts) {
				initial = append(initial, path)
			}
			return nil
		})
	}
	for _, r := range cfg.Roots {
		if err := addDir(r, cfg.InitialScan); err != nil {
			logger.Error("watcher.add_root.failed", "root", r, "err", err)
			_ = w.Close()
			return nil, nil, err
		}
	}
	logger.Info("watcher.started", "roots", cfg.Roots, "initial", len(initial))

	go func() {
		var (
			mu      sync.Mutex
			pending = map[string]struct{}{}
			timer   *time.Timer
		)
		emit := func(p string) {
			select {
			case evCh <- p:
			case <-ctx.Done():
			}
		}
		flush := func() {
			mu.Lock()
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
				delete(pending, p)
			}
			mu.Unlock()
			for _, p := range batch {
				emit(p)
			}
		}

		var flushing sync.WaitGroup
		defer func() {
			mu.Lock()
			if timer != nil && timer.Stop() {
				flushing.Done()
			}
			mu.Unlock()
			flushing.Wait()
			_ = w.Close()
			close(evCh)
			close(errCh)
		}()

		for _, p := range initial {
			emit(p)
		}

		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if e.Has(fsnotify.Create) && !skip(e.Name) {
					if info, err := os.Stat(e.Name); err == nil && info.IsDir() {
						if err := addDir(e.Name, false); err != nil {
							logger.Warn("watcher.add_dir.failed", "path", e.Name, "err", err)
						}
						continue
					}
				}
				if skip(e.Name) || !allowed(e.Name, cfg.AllowedExts) {
					continue
				}
				if !e.Has(fsnotify.Create) && !e.Has(fsnotify.Write) && !e.Has(fsnotify.Rename) {
					continue
				}
				if cfg.Debounce <= 0 {
					emit(e.Name)
					continue
				}
				mu.Lock()
				pending[e.Name] = struct{}{}
				if timer != nil && timer.Stop() {
					flushing.Done()
				}
				flushing.Add(1)
				timer = time.AfterFunc(cfg.Debounce, func() {
					defer flushing.Done()
					flush()
				})
				mu.Unlock()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("watcher.error", "err", err)
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	return evCh, errCh, nil
}

func allowed(path string, exts map[string]struct{}) bool {
	_, ok := exts[constants.NormalizeExt(filepath.Ext(path))]
	return ok
}
