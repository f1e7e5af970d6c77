package resource

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/decker502/assetcache/internal/manifest"
)

// ProgressEvent is emitted after each resource of a queue drain is stored.
type ProgressEvent struct {
	Session string // one id per LoadQueue call
	Loaded  int    // resources stored so far in this drain
	Total   int    // resources queued when the drain started
	Key     string
	Kind    manifest.Kind
}

// Percent returns Loaded/Total as a whole percentage.
func (e ProgressEvent) Percent() int {
	if e.Total == 0 {
		return 100
	}
	return e.Loaded * 100 / e.Total
}

// ProgressFunc receives progress events. It runs while the cache is locked
// and must not call back into the Manager.
type ProgressFunc func(ProgressEvent)

// LogProgress returns a ProgressFunc printing one line per resource.
func LogProgress(logger *log.Logger) ProgressFunc {
	return func(e ProgressEvent) {
		logger.Info(fmt.Sprintf("Loading... %d%%", e.Percent()),
			"current", e.Key,
			"kind", e.Kind,
			"loaded", e.Loaded,
			"total", e.Total,
		)
	}
}
