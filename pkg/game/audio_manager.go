package game

import (
	"github.com/charmbracelet/log"
	"github.com/decker502/assetcache/pkg/logging"
	"github.com/decker502/assetcache/pkg/resource"
)

// MusicPlayer is the playback side of a music handle. backend.Music
// satisfies it.
type MusicPlayer interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(volume float64)
	Rewind() error
}

// SoundPlayer is the playback side of a sound effect handle.
// backend.SoundEffect satisfies it.
type SoundPlayer interface {
	Play(volume float64)
}

// AudioManager 音频管理器
// 职责：
//   - 通过资源缓存的键播放音效和背景音乐（未知键回退到占位音频）
//   - 从 SettingsManager 读取音量和开关设置
//
// 只记住当前音乐的键，播放器每次都从资源缓存查找：清单重新加载或热重载
// 替换并释放旧句柄后，操作的总是缓存里的新句柄。
type AudioManager struct {
	resources *resource.Manager
	settings  *SettingsManager // 可为 nil，使用默认音量
	logger    *log.Logger

	currentMusicID string // 当前背景音乐的键，空表示没有
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - rm: 资源缓存
//   - sm: 设置管理器，可为 nil
//   - logger: 父日志器，可为 nil
func NewAudioManager(rm *resource.Manager, sm *SettingsManager, logger *log.Logger) *AudioManager {
	return &AudioManager{
		resources: rm,
		settings:  sm,
		logger:    logging.Component(logger, "AudioManager"),
	}
}

// currentMusic 返回缓存中当前音乐键对应的播放器
func (am *AudioManager) currentMusic() (MusicPlayer, bool) {
	if am.currentMusicID == "" {
		return nil, false
	}
	player, ok := am.resources.Music(am.currentMusicID).(MusicPlayer)
	return player, ok
}

// PlaySound 播放音效，单次播放
//
// 返回：
//   - bool: 是否成功播放（音效被禁用或句柄不可播放时为 false）
func (am *AudioManager) PlaySound(key string) bool {
	if am.settings != nil && !am.settings.GetSettings().SoundEnabled {
		return false
	}
	player, ok := am.resources.SoundEffect(key).(SoundPlayer)
	if !ok {
		am.logger.Debug("Sound is not playable", "key", key)
		return false
	}
	player.Play(am.SoundVolume())
	return true
}

// PlayMusic 从头播放背景音乐，同一时间只播放一首
//
// 返回：
//   - bool: 是否成功播放
func (am *AudioManager) PlayMusic(key string) bool {
	if am.settings != nil && !am.settings.GetSettings().MusicEnabled {
		return false
	}
	if am.currentMusicID == key && am.IsMusicPlaying() {
		return true
	}

	am.StopMusic()
	player, ok := am.resources.Music(key).(MusicPlayer)
	if !ok {
		am.logger.Debug("Music is not playable", "key", key)
		return false
	}

	player.SetVolume(am.MusicVolume())
	if err := player.Rewind(); err != nil {
		am.logger.Warn("Failed to rewind music", "key", key, "err", err)
	}
	player.Play()

	am.currentMusicID = key
	am.logger.Info("Playing music", "key", key, "volume", am.MusicVolume())
	return true
}

// ToggleMusic 播放或暂停背景音乐，返回切换后是否在播放
func (am *AudioManager) ToggleMusic(key string) bool {
	if am.IsMusicPlaying() {
		am.PauseMusic()
		return false
	}
	if am.currentMusicID == key {
		if _, ok := am.currentMusic(); ok {
			am.ResumeMusic()
			return am.IsMusicPlaying()
		}
	}
	return am.PlayMusic(key)
}

// IsMusicPlaying 报告当前是否有背景音乐在播放
func (am *AudioManager) IsMusicPlaying() bool {
	player, ok := am.currentMusic()
	return ok && player.IsPlaying()
}

// CurrentMusic 返回当前背景音乐的键
func (am *AudioManager) CurrentMusic() string {
	return am.currentMusicID
}

// StopMusic 停止当前背景音乐
func (am *AudioManager) StopMusic() {
	if player, ok := am.currentMusic(); ok {
		player.Pause()
	}
	am.currentMusicID = ""
}

// PauseMusic 暂停当前背景音乐
func (am *AudioManager) PauseMusic() {
	if player, ok := am.currentMusic(); ok {
		player.Pause()
	}
}

// ResumeMusic 恢复当前背景音乐
func (am *AudioManager) ResumeMusic() {
	if am.settings != nil && !am.settings.GetSettings().MusicEnabled {
		return
	}
	if player, ok := am.currentMusic(); ok {
		player.SetVolume(am.MusicVolume())
		player.Play()
	}
}

// Forget 停止并丢弃当前音乐，在资源缓存 Destroy 之前调用
func (am *AudioManager) Forget() {
	am.StopMusic()
}

// SetMusicVolume 设置音乐音量并立即应用到当前音乐
func (am *AudioManager) SetMusicVolume(volume float64) {
	if am.settings != nil {
		am.settings.SetMusicVolume(volume)
	}
	if player, ok := am.currentMusic(); ok {
		player.SetVolume(am.MusicVolume())
	}
}

// SetSoundVolume 设置音效音量，影响之后播放的音效
func (am *AudioManager) SetSoundVolume(volume float64) {
	if am.settings != nil {
		am.settings.SetSoundVolume(volume)
	}
}

// MusicVolume 获取音乐音量设置
func (am *AudioManager) MusicVolume() float64 {
	if am.settings != nil {
		return am.settings.GetSettings().MusicVolume
	}
	return DefaultSettings().MusicVolume
}

// SoundVolume 获取音效音量设置
func (am *AudioManager) SoundVolume() float64 {
	if am.settings != nil {
		return am.settings.GetSettings().SoundVolume
	}
	return DefaultSettings().SoundVolume
}
