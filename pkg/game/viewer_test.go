package game

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/decker502/assetcache/internal/manifest"
	"github.com/decker502/assetcache/pkg/backend"
	"github.com/decker502/assetcache/pkg/config"
	"github.com/decker502/assetcache/pkg/embedded"
	"github.com/decker502/assetcache/pkg/logging"
	"github.com/decker502/assetcache/pkg/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViewer(t *testing.T) (*Viewer, *resource.Manager, string) {
	t.Helper()
	root := t.TempDir()
	_, err := embedded.WriteDemo(root, false)
	require.NoError(t, err)

	cfg := config.DefaultCacheConfig()
	cfg.AssetRoot = root
	mgr := resource.NewManager(backend.NewHeadless(cfg.SampleRate), cfg, logging.Discard())
	settings := NewSettingsManager(nil, logging.Discard())
	v := NewViewer(mgr, settings, filepath.Join(root, embedded.ResourceDir), logging.Discard())
	return v, mgr, root
}

func TestViewer_OpenEveryFormat(t *testing.T) {
	v, mgr, _ := newTestViewer(t)

	for _, mk := range ManifestKeys {
		require.NoError(t, v.Open(mk.Name), mk.Name)
		assert.Equal(t, "loaded "+mk.Name, v.Status())
		assert.Equal(t, mk.Name, v.settings.GetSettings().LastManifest)
	}
	assert.Zero(t, mgr.QueueLen())
	assert.Len(t, mgr.Keys(manifest.KindSoundEffect), 3)
}

func TestViewer_OpenMissingManifest(t *testing.T) {
	v, mgr, _ := newTestViewer(t)
	require.NoError(t, v.Open("resources.txt"))

	err := v.Open("resources.ini")
	require.Error(t, err)
	assert.Contains(t, v.Status(), "resources.ini")
	assert.Equal(t, "resources.txt", v.settings.GetSettings().LastManifest)
	assert.True(t, mgr.Has(manifest.KindTexture, PlayerTextureKey))
}

func TestViewer_OpenStopsAtMissingPayload(t *testing.T) {
	v, mgr, root := newTestViewer(t)
	require.NoError(t, os.Remove(filepath.Join(root, embedded.ResourceDir, "jump.au")))

	err := v.Open("resources.txt")
	require.ErrorIs(t, err, resource.ErrMissingFile)
	assert.Positive(t, mgr.QueueLen())
	assert.Contains(t, v.Status(), "queued")
}

func TestViewer_Reinit(t *testing.T) {
	v, mgr, _ := newTestViewer(t)
	require.NoError(t, v.Open("resources.yaml"))
	before := mgr.Texture(PlayerTextureKey).(*backend.Image)

	v.Tick(1)
	require.NoError(t, v.Reinit())
	assert.True(t, before.Released())
	assert.NotSame(t, before, mgr.Texture(PlayerTextureKey))
	assert.Equal(t, "resources.yaml", v.settings.GetSettings().LastManifest)

	frame, ok := v.CurrentFrame(AnimationKey)
	require.True(t, ok)
	assert.Zero(t, frame.X, "animation clock restarts")
}

func TestViewer_CurrentFrameCycles(t *testing.T) {
	v, _, _ := newTestViewer(t)

	_, ok := v.CurrentFrame(AnimationKey)
	assert.False(t, ok, "nothing loaded yet")

	require.NoError(t, v.Open("resources.txt"))
	var xs []int
	for i := 0; i < embedded.FrameCount+1; i++ {
		frame, ok := v.CurrentFrame(AnimationKey)
		require.True(t, ok)
		xs = append(xs, frame.X)
		v.Tick(1 / AnimationFPS)
	}
	assert.Equal(t, []int{0, 64, 128, 192, 0}, xs)

	// Unknown animations use the placeholder frame table.
	frame, ok := v.CurrentFrame("nobody")
	require.True(t, ok)
	assert.Equal(t, 32, frame.Width)
}

func TestViewer_TickReloadsChangedTexture(t *testing.T) {
	v, mgr, root := newTestViewer(t)
	require.NoError(t, v.Open("resources.txt"))
	old := mgr.Texture(PlayerTextureKey)

	// Replace the player texture with the placeholder image, dated later.
	player := filepath.Join(root, embedded.ResourceDir, "player.png")
	data, err := os.ReadFile(filepath.Join(root, embedded.ResourceDir, "placeholder.png"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(player, data, 0o644))
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(player, later, later))

	v.Tick(config.DefaultPollInterval)
	tex := mgr.Texture(PlayerTextureKey)
	assert.NotSame(t, old, tex)
	w, _ := tex.Size()
	assert.Equal(t, 32, w)
}

func TestViewer_TickReportsFailedReload(t *testing.T) {
	v, mgr, root := newTestViewer(t)
	require.NoError(t, v.Open("resources.txt"))
	old := mgr.Texture(PlayerTextureKey)

	player := filepath.Join(root, embedded.ResourceDir, "player.png")
	require.NoError(t, os.WriteFile(player, []byte("not a png"), 0o644))
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(player, later, later))

	v.Tick(config.DefaultPollInterval)
	assert.Equal(t, "reload failed: "+PlayerTextureKey, v.Status())
	assert.Same(t, old, mgr.Texture(PlayerTextureKey))
}

func TestViewer_AudioWithoutDevice(t *testing.T) {
	v, _, _ := newTestViewer(t)
	require.NoError(t, v.Open("resources.txt"))

	// The headless backend produces clips, not players.
	assert.False(t, v.ToggleMusic())
	assert.Equal(t, "no playable music", v.Status())
	assert.False(t, v.PlayEffect(JumpEffectKey))

	v.AdjustMusicVolume(-0.2)
	assert.InDelta(t, 0.5, v.settings.GetSettings().MusicVolume, 1e-9)
}

func TestViewer_MusicSurvivesManifestSwitch(t *testing.T) {
	root := t.TempDir()
	_, err := embedded.WriteDemo(root, false)
	require.NoError(t, err)
	cfg := config.DefaultCacheConfig()
	cfg.AssetRoot = root
	mgr := resource.NewManager(playableBackend{backend.NewHeadless(cfg.SampleRate)}, cfg, logging.Discard())
	v := NewViewer(mgr, NewSettingsManager(nil, logging.Discard()), embedded.ResourceDir, logging.Discard())

	require.NoError(t, v.Open("resources.txt"))
	first := mgr.Music(MusicKey).(*fakeMusic)
	require.True(t, v.ToggleMusic())

	require.NoError(t, v.Open("resources.xml"))
	require.True(t, first.released)

	assert.True(t, v.ToggleMusic())
	assert.True(t, mgr.Music(MusicKey).(*fakeMusic).playing)
	assert.Equal(t, 1, first.plays)
}

func TestViewer_Layout(t *testing.T) {
	v, _, _ := newTestViewer(t)
	w, h := v.Layout(1920, 1080)
	assert.Equal(t, ScreenWidth, w)
	assert.Equal(t, ScreenHeight, h)
}
