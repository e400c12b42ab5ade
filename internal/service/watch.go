package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/jask/showcase/internal/content"
)

// DefaultDebounce batches the burst of events editors emit for one save.
const DefaultDebounce = 200 * time.Millisecond

// Watch re-imports path every time it changes until ctx is cancelled. The
// parent directory is watched so editors that replace the file on save are
// still seen. Import failures are logged and reported to onResult; they do not
// stop the watch.
func (s *IngestService) Watch(ctx context.Context, path string, debounce time.Duration, log *zap.Logger, onResult func(IngestResult, error)) error {
	if log == nil {
		log = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	log.Info("watching content file", zap.String("path", abs))

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			log.Debug("content file event", zap.String("op", ev.Op.String()))
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))
		case <-timer.C:
			res, err := s.ImportFile(ctx, abs)
			switch {
			case errors.Is(err, content.ErrInvalid):
				log.Warn("content file rejected", zap.Error(err))
			case err != nil:
				log.Error("import content file", zap.Error(err))
			case res.Skipped:
				log.Debug("content file unchanged")
			default:
				log.Info("content file imported", zap.Strings("changed", res.Changed), zap.Int("cards", res.Cards))
			}
			if onResult != nil {
				onResult(res, err)
			}
		}
	}
}
