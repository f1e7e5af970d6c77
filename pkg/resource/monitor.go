package resource

import (
	"errors"
	"io/fs"

	"github.com/decker502/assetcache/internal/manifest"
	"go.trai.ch/zerr"
)

// Monitor accumulates elapsed time and reports when a staleness pass is due.
// It is a fixed-period poll, not a per-file watch.
type Monitor struct {
	interval float64
	elapsed  float64
}

// NewMonitor returns a monitor firing every interval time units. A
// non-positive interval fires on every tick.
func NewMonitor(interval float64) *Monitor {
	return &Monitor{interval: interval}
}

// Tick adds dt and reports whether the accumulator reached the interval, in
// which case it is reset to zero.
func (mo *Monitor) Tick(dt float64) bool {
	mo.elapsed += dt
	if mo.elapsed < mo.interval {
		return false
	}
	mo.elapsed = 0
	return true
}

// Reset zeroes the accumulator.
func (mo *Monitor) Reset() {
	mo.elapsed = 0
}

// Elapsed returns the time accumulated since the last pass.
func (mo *Monitor) Elapsed() float64 {
	return mo.elapsed
}

// Update advances the staleness monitor by dt and runs a pass when the poll
// interval elapses, or earlier when the attached ChangeNotifier saw a change.
// It does nothing when hot reload is disabled.
//
// A pass never stops at the first broken file: every failure is collected
// and returned joined, and the cache keeps serving the previous handles for
// the failed keys.
//
// Example (ebiten):
//
//	func (g *Game) Update() error {
//	    if err := g.resources.Update(1.0 / float64(ebiten.TPS())); err != nil {
//	        log.Printf("[Game] hot reload: %v", err)
//	    }
//	    return nil
//	}
func (m *Manager) Update(dt float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.cfg.HotReload {
		return nil
	}
	due := m.monitor.Tick(dt)
	if !due && m.notifier != nil && m.notifier.Changed() {
		m.monitor.Reset()
		due = true
	}
	if !due {
		return nil
	}
	return m.passLocked()
}

// Refresh runs a staleness pass immediately, regardless of the poll interval
// and the hot reload setting, and restarts the interval.
func (m *Manager) Refresh() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.monitor.Reset()
	return m.passLocked()
}

func (m *Manager) passLocked() error {
	m.stats.Passes++

	var errs []error
	for _, key := range sortedKeys(m.paths) {
		if _, ok := m.textures[key]; !ok {
			continue
		}
		if err := m.reloadTextureLocked(key); err != nil {
			errs = append(errs, err)
		}
	}
	if err := m.reloadManifestLocked(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// probe re-stamps path and reports whether it changed relative to recorded.
// With content verification on, a new mtime over identical bytes is not a
// change; the returned stamp should still be recorded.
func (m *Manager) probe(path string, recorded Stamp) (Stamp, bool, error) {
	current, err := statStamp(path, false)
	if err != nil {
		return Stamp{}, false, err
	}
	if current.SameTime(recorded) {
		return recorded, false, nil
	}
	if !m.cfg.VerifyContent {
		return current, true, nil
	}
	digest, err := digestFile(path)
	if err != nil {
		return Stamp{}, false, err
	}
	current.Digest, current.HasDigest = digest, true
	return current, !current.SameContent(recorded), nil
}

// reloadTextureLocked decodes the new version of a changed texture before
// touching the cache. On failure the previous handle stays in place and the
// failing version is remembered so it is not decoded again on every pass.
func (m *Manager) reloadTextureLocked(key string) error {
	entry := m.textures[key]
	path := entry.path

	stamp, changed, err := m.probe(path, entry.stamp)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			m.logger.Warn("Texture file is gone, keeping cached copy", "key", key, "path", path)
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to check texture"), "key", key)
	}
	if !changed {
		entry.stamp = stamp
		return nil
	}
	if !entry.failed.IsZero() && stamp.SameTime(entry.failed) {
		return nil
	}

	h, err := m.backend.DecodeTexture(path)
	if err != nil {
		entry.failed = stamp
		m.stats.FailedReloads++
		m.logger.Error("Texture reload failed, keeping previous version", "key", key, "path", path, "err", err)
		return &DecodeError{Key: key, Path: path, Kind: manifest.KindTexture, Err: err}
	}

	old := entry.handle
	entry.handle, entry.stamp, entry.failed = h, stamp, Stamp{}
	if old != nil && old != h {
		_ = m.release(manifest.KindTexture, key, old)
	}
	m.stats.Reloads++
	m.logger.Info("Texture reloaded", "key", key, "path", path, "modified", stamp)
	return nil
}

// reloadManifestLocked re-reads only the animation sections of a changed
// manifest. Texture, music and sound effect declarations are not re-scanned.
func (m *Manager) reloadManifestLocked() error {
	if m.state.Path == "" {
		return nil
	}

	stamp, changed, err := m.probe(m.state.Path, m.state.Stamp)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			m.logger.Warn("Manifest file is gone, keeping animation tables", "path", m.state.Path)
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to check manifest"), "path", m.state.Path)
	}
	// Recorded even when parsing fails below, so a broken edit is reported
	// once instead of on every pass.
	m.state.Stamp = stamp
	if !changed {
		return nil
	}

	src, err := m.sources(m.state.Format)
	if err != nil {
		return err
	}
	anims, err := src.ParseAnimations(m.state.Path)
	if err != nil {
		m.logger.Error("Manifest reload failed, keeping animation tables", "path", m.state.Path, "err", err)
		return err
	}
	for _, a := range anims {
		m.animations[a.Key] = a.Frames
	}
	m.stats.ManifestReloads++
	m.logger.Info("Animation tables reloaded", "path", m.state.Path, "animations", len(anims))
	return nil
}
