package app

import (
	"time"

	"go.uber.org/zap"
)

// onCorpusChange handles a file create/modify/delete event from the
// watcher. The index has no incremental update: any change schedules a
// wholesale rebuild, and a burst of events within the debounce window
// collapses into a single one.
func (a *App) onCorpusChange(path string) {
	a.log.Debug("corpus change", zap.String("path", path))

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.debounce != nil {
		a.debounce.Stop()
	}
	a.debounce = time.AfterFunc(time.Duration(a.cfg.DebounceMs)*time.Millisecond, func() {
		if _, err := a.Reindex(); err != nil {
			a.log.Warn("rebuild after corpus change failed", zap.Error(err))
		}
	})
}
