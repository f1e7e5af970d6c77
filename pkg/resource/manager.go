// Package resource is the asset cache: it loads textures, music, sound effects
// and animation frame tables declared by a manifest, serves them by logical
// key with placeholder fallback, and reloads files that change on disk.
package resource

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/decker502/assetcache/internal/manifest"
	"github.com/decker502/assetcache/pkg/config"
	"github.com/decker502/assetcache/pkg/logging"
)

// Animation is a spritesheet texture paired with its frame rectangles.
type Animation struct {
	Texture Texture
	Frames  []manifest.Frame
}

// ManifestState describes the active manifest.
type ManifestState struct {
	Path   string // resolved path the manifest was read from
	Format manifest.Format
	Stamp  Stamp // last seen version
}

// Stats is a snapshot of the cache contents and its activity counters since
// construction or the last Destroy.
type Stats struct {
	Textures     int
	Music        int
	SoundEffects int
	Animations   int
	Paths        int
	Queued       int

	Loads           int // resources stored by LoadQueue
	Passes          int // staleness passes run
	Reloads         int // textures replaced by a staleness pass
	FailedReloads   int
	ManifestReloads int // animation tables refreshed from a changed manifest
}

type textureEntry struct {
	handle Texture
	path   string
	stamp  Stamp // version the handle was decoded from
	failed Stamp // version whose reload failed, zero if none
}

// Manager is the resource cache. Construct one with NewManager at startup and
// pass it to whatever needs assets; there is no package-level instance.
//
// Every method is safe to call from multiple goroutines: one RWMutex guards
// the four mappings, the path table, the queue and the manifest state as a
// unit, so a lookup never observes a half-swapped reload. Loading and
// reloading still run synchronously on the calling goroutine.
//
// Usage:
//
//	cfg := config.DefaultCacheConfig()
//	rm := resource.NewManager(backend.NewHeadless(cfg.SampleRate), cfg, logger)
//	if err := rm.LoadManifest("Resources/resources.xml"); err != nil {
//	    return err
//	}
//	if err := rm.LoadQueue(); err != nil {
//	    return err
//	}
//	tex := rm.Texture("player_texture")
type Manager struct {
	mu sync.RWMutex

	backend  Backend
	cfg      *config.CacheConfig
	logger   *log.Logger
	progress ProgressFunc
	notifier ChangeNotifier
	sources  func(manifest.Format) (manifest.Source, error)

	textures   map[string]*textureEntry
	music      map[string]Music
	effects    map[string]SoundEffect
	animations map[string][]manifest.Frame
	paths      map[string]string // key -> resolved file path

	queue   Queue
	state   ManifestState
	monitor *Monitor
	stats   Stats
}

// NewManager creates an empty cache.
//
// Parameters:
//   - b: decoder for payload files
//   - cfg: cache configuration, nil means config.DefaultCacheConfig()
//   - logger: parent logger, nil means logging.Default()
func NewManager(b Backend, cfg *config.CacheConfig, logger *log.Logger) *Manager {
	if cfg == nil {
		cfg = config.DefaultCacheConfig()
	}
	logger = logging.Component(logger, "ResourceManager")

	m := &Manager{
		backend:  b,
		cfg:      cfg,
		logger:   logger,
		progress: LogProgress(logger),
		sources:  manifest.SourceFor,
		monitor:  NewMonitor(cfg.PollInterval),
	}
	m.reset()
	return m
}

func (m *Manager) reset() {
	m.textures = make(map[string]*textureEntry)
	m.music = make(map[string]Music)
	m.effects = make(map[string]SoundEffect)
	m.animations = make(map[string][]manifest.Frame)
	m.paths = make(map[string]string)
	m.queue.Clear()
	m.state = ManifestState{}
	m.monitor.Reset()
	m.stats = Stats{}
}

// SetProgressFunc replaces the progress sink. nil silences progress.
func (m *Manager) SetProgressFunc(fn ProgressFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if fn == nil {
		fn = func(ProgressEvent) {}
	}
	m.progress = fn
}

// SetNotifier attaches a filesystem watcher that can trigger a staleness pass
// before the poll period elapses. Already tracked files are registered
// immediately.
func (m *Manager) SetNotifier(n ChangeNotifier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifier = n
	if n == nil {
		return
	}
	if m.state.Path != "" {
		m.watch(m.state.Path)
	}
	for _, e := range m.textures {
		m.watch(e.path)
	}
}

func (m *Manager) watch(path string) {
	if m.notifier == nil || path == "" {
		return
	}
	if err := m.notifier.Watch(path); err != nil {
		m.logger.Warn("Failed to watch file", "path", path, "err", err)
	}
}

// Config returns the configuration the cache was built with.
func (m *Manager) Config() *config.CacheConfig {
	return m.cfg
}

// LoadManifest parses a manifest, inferring its syntax from the extension,
// and queues every declared resource. Call LoadQueue to decode them.
//
// The path is resolved against the configured asset root. Loading a second
// manifest is additive: keys from both coexist and the last declaration of a
// key wins. The new manifest becomes the one the staleness monitor watches.
//
// A manifest that fails to parse leaves the cache untouched.
func (m *Manager) LoadManifest(path string) error {
	format, err := manifest.DetectFormat(path)
	if err != nil {
		return err
	}
	return m.LoadManifestAs(path, format)
}

// LoadTextManifest loads a line-oriented text manifest.
func (m *Manager) LoadTextManifest(path string) error {
	return m.LoadManifestAs(path, manifest.FormatText)
}

// LoadXMLManifest loads an XML manifest.
func (m *Manager) LoadXMLManifest(path string) error {
	return m.LoadManifestAs(path, manifest.FormatXML)
}

// LoadJSONManifest loads a JSON manifest.
func (m *Manager) LoadJSONManifest(path string) error {
	return m.LoadManifestAs(path, manifest.FormatJSON)
}

// LoadManifestAs is LoadManifest with an explicit syntax.
func (m *Manager) LoadManifestAs(path string, format manifest.Format) error {
	src, err := m.sources(format)
	if err != nil {
		return err
	}

	// Stamped before parsing: an edit saved while the file is being read
	// must look like a change to the next staleness pass.
	resolved := m.cfg.ResolvePath(path)
	stamp, err := statStamp(resolved, m.cfg.VerifyContent)
	if err != nil {
		return fmt.Errorf("failed to stat manifest %s: %w", resolved, err)
	}
	parsed, err := src.Parse(resolved)
	if err != nil {
		m.logger.Error("Failed to parse manifest", "path", resolved, "format", format, "err", err)
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, d := range parsed.Resources {
		m.paths[d.Key] = m.cfg.ResolvePath(d.Path)
	}
	m.queue.Push(parsed.Resources...)
	for _, a := range parsed.Animations {
		m.animations[a.Key] = a.Frames
	}
	m.state = ManifestState{Path: resolved, Format: format, Stamp: stamp}
	m.watch(resolved)

	m.logger.Info("Manifest loaded",
		"path", resolved,
		"format", format,
		"textures", parsed.Count(manifest.KindTexture),
		"music", parsed.Count(manifest.KindMusic),
		"sound_effects", parsed.Count(manifest.KindSoundEffect),
		"animations", len(parsed.Animations),
	)
	return nil
}

// QueueLen returns the number of resources waiting for LoadQueue.
func (m *Manager) QueueLen() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.queue.Len()
}

// ClearQueue drops queued resources without loading them. Their path table
// entries are kept.
func (m *Manager) ClearQueue() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue.Clear()
}

// Texture returns the texture stored under key, or the placeholder texture
// when key is unknown. It returns nil only if the placeholder is missing too.
func (m *Manager) Texture(key string) Texture {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.textureLocked(key)
}

func (m *Manager) textureLocked(key string) Texture {
	if e, ok := m.textures[key]; ok {
		return e.handle
	}
	if e, ok := m.textures[m.cfg.PlaceholderKey]; ok {
		return e.handle
	}
	return nil
}

// Music returns the music stored under key, falling back to the placeholder.
func (m *Manager) Music(key string) Music {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if h, ok := m.music[key]; ok {
		return h
	}
	return m.music[m.cfg.PlaceholderKey]
}

// SoundEffect returns the sound effect stored under key, falling back to the
// placeholder.
func (m *Manager) SoundEffect(key string) SoundEffect {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if h, ok := m.effects[key]; ok {
		return h
	}
	return m.effects[m.cfg.PlaceholderKey]
}

// Animation returns the spritesheet and frames stored under key. The texture
// and the frame table fall back to the placeholder independently. The frame
// slice is shared with the cache and must not be modified.
func (m *Manager) Animation(key string) Animation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	frames, ok := m.animations[key]
	if !ok {
		frames = m.animations[m.cfg.PlaceholderKey]
	}
	return Animation{Texture: m.textureLocked(key), Frames: frames}
}

// CheckPlaceholders reports which mappings lack the placeholder entry.
// Lookups of unknown keys in those mappings return nil.
func (m *Manager) CheckPlaceholders() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	key := m.cfg.PlaceholderKey
	var missing []string
	if _, ok := m.textures[key]; !ok {
		missing = append(missing, "textures")
	}
	if _, ok := m.music[key]; !ok {
		missing = append(missing, "music")
	}
	if _, ok := m.effects[key]; !ok {
		missing = append(missing, "sound_effects")
	}
	if _, ok := m.animations[key]; !ok {
		missing = append(missing, "animations")
	}
	if len(missing) > 0 {
		return fmt.Errorf("placeholder %q is missing from: %s", key, strings.Join(missing, ", "))
	}
	return nil
}

// Has reports whether key is decoded in the mapping for kind, without
// placeholder fallback.
func (m *Manager) Has(kind manifest.Kind, key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	switch kind {
	case manifest.KindTexture:
		_, ok := m.textures[key]
		return ok
	case manifest.KindMusic:
		_, ok := m.music[key]
		return ok
	case manifest.KindSoundEffect:
		_, ok := m.effects[key]
		return ok
	}
	return false
}

// HasAnimation reports whether key has a frame table.
func (m *Manager) HasAnimation(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.animations[key]
	return ok
}

// Keys returns the sorted keys decoded for kind.
func (m *Manager) Keys(kind manifest.Kind) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	switch kind {
	case manifest.KindTexture:
		keys = sortedKeys(m.textures)
	case manifest.KindMusic:
		keys = sortedKeys(m.music)
	case manifest.KindSoundEffect:
		keys = sortedKeys(m.effects)
	}
	return keys
}

// AnimationKeys returns the sorted keys that have a frame table.
func (m *Manager) AnimationKeys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedKeys(m.animations)
}

// Path returns the resolved file path declared for key.
func (m *Manager) Path(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.paths[key]
	return p, ok
}

// Manifest returns the active manifest state.
func (m *Manager) Manifest() ManifestState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Stats returns a snapshot of the cache.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.stats
	s.Textures = len(m.textures)
	s.Music = len(m.music)
	s.SoundEffects = len(m.effects)
	s.Animations = len(m.animations)
	s.Paths = len(m.paths)
	s.Queued = m.queue.Len()
	return s
}

// Destroy releases every decoded handle exactly once, then clears the path
// table, the queue and the manifest state. The Manager is empty afterwards
// and can load a new manifest.
//
// Release failures are logged; the first one is returned after everything
// has been released.
func (m *Manager) Destroy() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var first error
	note := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	for _, key := range sortedKeys(m.textures) {
		note(m.release(manifest.KindTexture, key, m.textures[key].handle))
	}
	for _, key := range sortedKeys(m.music) {
		note(m.release(manifest.KindMusic, key, m.music[key]))
	}
	for _, key := range sortedKeys(m.effects) {
		note(m.release(manifest.KindSoundEffect, key, m.effects[key]))
	}

	released := len(m.textures) + len(m.music) + len(m.effects)
	m.reset()
	m.logger.Info("Resource cache destroyed", "released", released)
	return first
}

// release frees a handle that is no longer reachable from the cache.
func (m *Manager) release(kind manifest.Kind, key string, h interface{ Release() error }) error {
	if h == nil {
		return nil
	}
	if err := h.Release(); err != nil {
		m.logger.Warn("Failed to release resource", "kind", kind, "key", key, "err", err)
		return fmt.Errorf("failed to release %s %q: %w", kind, key, err)
	}
	return nil
}

func sortedKeys[V any](mp map[string]V) []string {
	keys := make([]string, 0, len(mp))
	for k := range mp {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
