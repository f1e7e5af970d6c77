package resource

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/decker502/assetcache/internal/manifest"
	"github.com/google/uuid"
)

// LoadQueue decodes every queued resource in FIFO order and stores it in the
// cache, reporting progress after each one.
//
// The first failure stops the drain and is returned as a *MissingFileError
// or *DecodeError. The failing resource and everything behind it stay
// queued: fix the file and call LoadQueue again, or drop them with
// ClearQueue. A failed load never substitutes the placeholder.
func (m *Manager) LoadQueue() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := uuid.NewString()
	total := m.queue.Len()
	logger := m.logger.With("session", session)
	logger.Info("Number of resources to load", "count", total)

	loaded := 0
	for {
		d, ok := m.queue.Peek()
		if !ok {
			break
		}
		if err := m.loadLocked(d); err != nil {
			logger.Error("Queue drain halted",
				"key", d.Key,
				"kind", d.Kind,
				"remaining", m.queue.Len(),
				"err", err,
			)
			return err
		}
		m.queue.Pop()
		loaded++
		m.stats.Loads++
		m.progress(ProgressEvent{Session: session, Loaded: loaded, Total: total, Key: d.Key, Kind: d.Kind})
	}

	logger.Info("Resource queue loaded", "count", loaded)
	return nil
}

// loadLocked materializes one declared resource. The caller holds m.mu.
func (m *Manager) loadLocked(d manifest.Declared) error {
	// Each queued item carries its own path: the same key may be declared
	// under several kinds (the placeholder usually is).
	path := m.cfg.ResolvePath(d.Path)
	m.paths[d.Key] = path

	if _, err := os.Stat(path); err != nil {
		return &MissingFileError{Key: d.Key, Path: path, Err: err}
	}

	switch d.Kind {
	case manifest.KindTexture:
		return m.loadTextureLocked(d.Key, path)
	case manifest.KindMusic:
		h, err := m.backend.DecodeMusic(path)
		if err != nil {
			return &DecodeError{Key: d.Key, Path: path, Kind: d.Kind, Err: err}
		}
		old := m.music[d.Key]
		m.music[d.Key] = h
		if old != nil && old != h {
			_ = m.release(d.Kind, d.Key, old)
		}
	case manifest.KindSoundEffect:
		h, err := m.backend.DecodeSoundEffect(path)
		if err != nil {
			return &DecodeError{Key: d.Key, Path: path, Kind: d.Kind, Err: err}
		}
		old := m.effects[d.Key]
		m.effects[d.Key] = h
		if old != nil && old != h {
			_ = m.release(d.Kind, d.Key, old)
		}
	default:
		return fmt.Errorf("resource %q has unknown kind %v", d.Key, d.Kind)
	}

	m.logger.Debug("Loaded resource", "kind", d.Kind, "key", d.Key, "path", path)
	return nil
}

func (m *Manager) loadTextureLocked(key, path string) error {
	// Stamp before decoding so an edit made during the decode is picked up by
	// the next pass.
	stamp, err := statStamp(path, m.cfg.VerifyContent)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &MissingFileError{Key: key, Path: path, Err: err}
		}
		return &DecodeError{Key: key, Path: path, Kind: manifest.KindTexture, Err: err}
	}

	h, err := m.backend.DecodeTexture(path)
	if err != nil {
		return &DecodeError{Key: key, Path: path, Kind: manifest.KindTexture, Err: err}
	}

	old := m.textures[key]
	m.textures[key] = &textureEntry{handle: h, path: path, stamp: stamp}
	if old != nil && old.handle != h {
		_ = m.release(manifest.KindTexture, key, old.handle)
	}
	m.watch(path)

	w, ht := h.Size()
	m.logger.Debug("Loaded resource", "kind", manifest.KindTexture, "key", key, "path", path, "size", fmt.Sprintf("%dx%d", w, ht))
	return nil
}
