package game

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/decker502/assetcache/internal/manifest"
	"github.com/decker502/assetcache/pkg/backend"
	"github.com/decker502/assetcache/pkg/logging"
	"github.com/decker502/assetcache/pkg/resource"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 屏幕尺寸
const (
	ScreenWidth  = 800
	ScreenHeight = 600
)

// AnimationFPS 动画播放帧率
const AnimationFPS = 8.0

// 演示用资源键
const (
	PlayerTextureKey = "player_texture"
	MissingKey       = "bob" // 未声明的键，绘制时应显示占位纹理
	AnimationKey     = "stick_man"
	MusicKey         = "game_music"
	JumpEffectKey    = "jump"
	LandEffectKey    = "land"
)

// ManifestKey binds a number key to a manifest file in the resource
// directory.
type ManifestKey struct {
	Key  ebiten.Key
	Name string
}

// ManifestKeys 数字键 1~5 对应五种清单格式
var ManifestKeys = []ManifestKey{
	{ebiten.Key1, "resources.txt"},
	{ebiten.Key2, "resources.xml"},
	{ebiten.Key3, "resources.json"},
	{ebiten.Key4, "resources.yaml"},
	{ebiten.Key5, "resources.toml"},
}

// Viewer is the asset cache demo. It implements ebiten.Game.
//
// Keys:
//
//	1-5   load the text, XML, JSON, YAML or TOML manifest
//	D     destroy the cache and reload the last manifest
//	P     play or pause the music
//	J, L  play the jump and land sound effects
//	F     toggle frame outlines
//	Up/Down  music volume
type Viewer struct {
	mgr         *resource.Manager
	settings    *SettingsManager
	logger      *log.Logger
	resourceDir string

	audio   *AudioManager
	elapsed float64 // 动画计时（秒）
	status  string
}

// NewViewer 创建查看器
//
// 参数：
//   - mgr: 资源缓存
//   - settings: 设置管理器
//   - resourceDir: 清单所在目录（相对于资源根目录，或绝对路径）
//   - logger: 父日志器，可为 nil
func NewViewer(mgr *resource.Manager, settings *SettingsManager, resourceDir string, logger *log.Logger) *Viewer {
	return &Viewer{
		mgr:         mgr,
		settings:    settings,
		logger:      logging.Component(logger, "Viewer"),
		resourceDir: resourceDir,
		audio:       NewAudioManager(mgr, settings, logger),
	}
}

// Audio returns the viewer's audio manager.
func (v *Viewer) Audio() *AudioManager {
	return v.audio
}

// Status returns the last status line.
func (v *Viewer) Status() string {
	return v.status
}

// Open loads a manifest from the resource directory, drains the queue and
// remembers the choice in the settings.
func (v *Viewer) Open(name string) error {
	path := filepath.Join(v.resourceDir, name)
	if err := v.mgr.LoadManifest(path); err != nil {
		v.status = fmt.Sprintf("%s: %v", name, err)
		return err
	}
	if err := v.mgr.LoadQueue(); err != nil {
		v.status = fmt.Sprintf("%s: %v (%d queued)", name, err, v.mgr.QueueLen())
		return err
	}
	if err := v.mgr.CheckPlaceholders(); err != nil {
		v.logger.Warn("Manifest has no complete placeholder set", "manifest", name, "err", err)
	}

	v.settings.SetLastManifest(name)
	if err := v.settings.Save(); err != nil {
		v.logger.Warn("Failed to save settings", "err", err)
	}
	v.status = "loaded " + name
	return nil
}

// Reinit destroys every cached resource and opens the last manifest again.
func (v *Viewer) Reinit() error {
	v.audio.Forget()
	if err := v.mgr.Destroy(); err != nil {
		v.logger.Warn("Destroy reported errors", "err", err)
	}
	v.elapsed = 0
	return v.Open(v.settings.GetSettings().LastManifest)
}

// ToggleMusic starts or pauses the demo music. It returns whether music is
// now playing.
func (v *Viewer) ToggleMusic() bool {
	playing := v.audio.ToggleMusic(MusicKey)
	if !playing && v.audio.CurrentMusic() == "" {
		v.status = "no playable music"
	}
	return playing
}

// PlayEffect plays a one-shot sound effect. It returns false when the key
// (and the placeholder) resolves to nothing playable.
func (v *Viewer) PlayEffect(key string) bool {
	return v.audio.PlaySound(key)
}

// AdjustMusicVolume changes the music volume by delta.
func (v *Viewer) AdjustMusicVolume(delta float64) {
	v.audio.SetMusicVolume(v.audio.MusicVolume() + delta)
}

// Tick advances the animation clock and runs the staleness monitor.
func (v *Viewer) Tick(dt float64) {
	v.elapsed += dt
	if err := v.mgr.Update(dt); err != nil {
		v.logger.Error("Reload failed", "err", err)
		v.status = err.Error()
		var de *resource.DecodeError
		if errors.As(err, &de) {
			v.status = "reload failed: " + de.Key
		}
	}
}

// CurrentFrame returns the frame of an animation to show at the current
// time, cycling at AnimationFPS.
func (v *Viewer) CurrentFrame(key string) (manifest.Frame, bool) {
	frames := v.mgr.Animation(key).Frames
	if len(frames) == 0 {
		return manifest.Frame{}, false
	}
	return frames[int(v.elapsed*AnimationFPS)%len(frames)], true
}

// Update implements ebiten.Game.
func (v *Viewer) Update() error {
	for _, mk := range ManifestKeys {
		if inpututil.IsKeyJustPressed(mk.Key) {
			if err := v.Open(mk.Name); err != nil {
				v.logger.Error("Failed to open manifest", "manifest", mk.Name, "err", err)
			}
		}
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyD):
		if err := v.Reinit(); err != nil {
			v.logger.Error("Reinit failed", "err", err)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		v.ToggleMusic()
	case inpututil.IsKeyJustPressed(ebiten.KeyJ):
		v.PlayEffect(JumpEffectKey)
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		v.PlayEffect(LandEffectKey)
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		v.settings.SetShowFrames(!v.settings.GetSettings().ShowFrames)
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		v.AdjustMusicVolume(0.1)
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		v.AdjustMusicVolume(-0.1)
	}

	v.Tick(1.0 / float64(ebiten.TPS()))
	return nil
}

// Draw implements ebiten.Game.
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 40, G: 44, B: 52, A: 255})

	v.drawTexture(screen, PlayerTextureKey, 40, 60)
	v.drawTexture(screen, MissingKey, 300, 60)

	anim := v.mgr.Animation(AnimationKey)
	if img := ebitenImage(anim.Texture); img != nil {
		if frame, ok := v.CurrentFrame(AnimationKey); ok {
			sub := img.SubImage(frame.Rect()).(*ebiten.Image)
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(560, 60)
			screen.DrawImage(sub, op)
			if v.settings.GetSettings().ShowFrames {
				strokeRect(screen, image.Rect(560, 60, 560+frame.Width, 60+frame.Height))
			}
		}
	}

	stats := v.mgr.Stats()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf(
		"1-5 load manifest  D reinit  P music  J/L sfx  F frames  Up/Down volume\n"+
			"textures %d  music %d  sfx %d  animations %d  reloads %d  queued %d\n%s",
		stats.Textures, stats.Music, stats.SoundEffects, stats.Animations, stats.Reloads, stats.Queued, v.status,
	), 10, ScreenHeight-60)
}

// Layout implements ebiten.Game.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

func (v *Viewer) drawTexture(screen *ebiten.Image, key string, x, y float64) {
	img := ebitenImage(v.mgr.Texture(key))
	if img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(x, y)
	screen.DrawImage(img, op)
	ebitenutil.DebugPrintAt(screen, key, int(x), int(y)-16)
}

func ebitenImage(t resource.Texture) *ebiten.Image {
	if tex, ok := t.(*backend.Texture); ok {
		return tex.Image
	}
	return nil
}

func strokeRect(screen *ebiten.Image, r image.Rectangle) {
	vector.StrokeRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), 1, color.RGBA{R: 255, G: 200, A: 255}, false)
}
