package server

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 200 * time.Millisecond

// watchSeed reloads the catalog after the seed file is written. The directory
// is watched rather than the file so that editors which replace the file by
// rename are still seen.
func (s *Server) watchSeed(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch seed: %w", err)
	}
	defer w.Close()

	target, err := filepath.Abs(s.cfg.SeedPath)
	if err != nil {
		return fmt.Errorf("watch seed: %w", err)
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch seed: %w", err)
	}
	s.log.Info("watching seed file", zap.String("path", target))

	timer := time.NewTimer(reloadDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				timer.Reset(reloadDebounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("seed watcher error", zap.Error(err))
		case <-timer.C:
			if _, err := s.Reload(ctx); err != nil {
				s.log.Warn("reload after change failed", zap.Error(err))
			}
		}
	}
}
