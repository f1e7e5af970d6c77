package resource

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/decker502/assetcache/internal/manifest"
	"github.com/decker502/assetcache/pkg/config"
	"github.com/decker502/assetcache/pkg/logging"
	"github.com/stretchr/testify/require"
)

// baseTime is a whole-second instant used as the initial mtime of fixtures.
var baseTime = time.Date(2026, 3, 14, 15, 9, 26, 0, time.Local)

// fakeHandle stands in for every handle kind.
type fakeHandle struct {
	kind     manifest.Kind
	path     string
	content  string
	released int
}

func (h *fakeHandle) Size() (int, int) { return len(h.content), 1 }

func (h *fakeHandle) Release() error {
	h.released++
	return nil
}

// fakeBackend "decodes" a file into its content. Files whose content starts
// with "corrupt" fail to decode.
type fakeBackend struct {
	decodes map[string]int
	handles []*fakeHandle
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{decodes: make(map[string]int)}
}

func (b *fakeBackend) decode(kind manifest.Kind, path string) (*fakeHandle, error) {
	b.decodes[path]++
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(string(data), "corrupt") {
		return nil, errors.New("unexpected header")
	}
	h := &fakeHandle{kind: kind, path: path, content: string(data)}
	b.handles = append(b.handles, h)
	return h, nil
}

func (b *fakeBackend) DecodeTexture(path string) (Texture, error) {
	h, err := b.decode(manifest.KindTexture, path)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (b *fakeBackend) DecodeMusic(path string) (Music, error) {
	h, err := b.decode(manifest.KindMusic, path)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (b *fakeBackend) DecodeSoundEffect(path string) (SoundEffect, error) {
	h, err := b.decode(manifest.KindSoundEffect, path)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// totalDecodes sums decode calls across every path.
func (b *fakeBackend) totalDecodes() int {
	n := 0
	for _, c := range b.decodes {
		n += c
	}
	return n
}

// fakeNotifier is a ChangeNotifier driven by the test.
type fakeNotifier struct {
	watched []string
	changed bool
}

func (n *fakeNotifier) Watch(path string) error {
	n.watched = append(n.watched, path)
	return nil
}

func (n *fakeNotifier) Changed() bool {
	c := n.changed
	n.changed = false
	return c
}

func (n *fakeNotifier) Close() error { return nil }

// assetDir is a temp directory holding payload files and manifests.
type assetDir struct {
	t   *testing.T
	dir string
}

func newAssetDir(t *testing.T) *assetDir {
	return &assetDir{t: t, dir: t.TempDir()}
}

// write creates or replaces a file and pins its mtime to at.
func (a *assetDir) write(name, content string, at time.Time) string {
	a.t.Helper()
	path := filepath.Join(a.dir, name)
	require.NoError(a.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(a.t, os.WriteFile(path, []byte(content), 0644))
	a.touch(name, at)
	return path
}

func (a *assetDir) touch(name string, at time.Time) {
	a.t.Helper()
	require.NoError(a.t, os.Chtimes(filepath.Join(a.dir, name), at, at))
}

func (a *assetDir) path(name string) string {
	return filepath.Join(a.dir, name)
}

const demoManifest = `texture player_texture Resources/player.png
texture placeholder Resources/placeholder.png
music game_music Resources/music.ogg
music placeholder Resources/placeholder.ogg
sound_effect jump Resources/jump.wav
sound_effect land Resources/land.wav
sound_effect placeholder Resources/placeholder.wav
animation stick_man Resources/stick_man.png 2
64 128 0 0
64 128 64 0
animation placeholder Resources/placeholder.png 1
32 32 0 0
`

// writeDemoAssets writes every payload demoManifest references plus the
// manifest itself as resources.txt.
func (a *assetDir) writeDemoAssets() {
	for _, name := range []string{
		"Resources/player.png",
		"Resources/placeholder.png",
		"Resources/stick_man.png",
		"Resources/music.ogg",
		"Resources/placeholder.ogg",
		"Resources/jump.wav",
		"Resources/land.wav",
		"Resources/placeholder.wav",
	} {
		a.write(name, "v1:"+name, baseTime)
	}
	a.write("resources.txt", demoManifest, baseTime)
}

func testConfig(root string) *config.CacheConfig {
	cfg := config.DefaultCacheConfig()
	cfg.AssetRoot = root
	return cfg
}

func newTestManager(t *testing.T, cfg *config.CacheConfig) (*Manager, *fakeBackend) {
	t.Helper()
	b := newFakeBackend()
	m := NewManager(b, cfg, logging.Discard())
	m.SetProgressFunc(nil)
	return m, b
}

// loadDemo builds a manager over the demo assets and drains its queue.
func loadDemo(t *testing.T, cfg func(*config.CacheConfig)) (*Manager, *fakeBackend, *assetDir) {
	t.Helper()
	a := newAssetDir(t)
	a.writeDemoAssets()

	c := testConfig(a.dir)
	if cfg != nil {
		cfg(c)
	}
	m, b := newTestManager(t, c)
	require.NoError(t, m.LoadManifest("resources.txt"))
	require.NoError(t, m.LoadQueue())
	return m, b, a
}
