package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// CacheConfig 资源缓存配置
//
// Example cache.yaml:
//
//	asset_root: .
//	placeholder_key: placeholder
//	poll_interval: 3
//	hot_reload: true
//	verify_content: false
//	watch_fs: false
//	sample_rate: 48000
//	log_level: info
type CacheConfig struct {
	// AssetRoot is joined in front of relative manifest and asset paths.
	// Empty means the working directory.
	AssetRoot string `yaml:"asset_root"`

	// PlaceholderKey is the reserved key every lookup falls back to.
	PlaceholderKey string `yaml:"placeholder_key"`

	// PollInterval is the staleness check period, in the same time unit as
	// the dt passed to Manager.Update (seconds for the ebiten viewer).
	PollInterval float64 `yaml:"poll_interval"`

	HotReload     bool `yaml:"hot_reload"`     // 关闭后 Update 不做任何检查
	VerifyContent bool `yaml:"verify_content"` // mtime 变化时再比较内容摘要
	WatchFS       bool `yaml:"watch_fs"`       // fsnotify 提前触发检查

	SampleRate int    `yaml:"sample_rate"` // 音频上下文采样率
	LogLevel   string `yaml:"log_level"`   // debug, info, warn, error
}

// 默认值
const (
	DefaultPlaceholderKey = "placeholder"
	DefaultPollInterval   = 3.0
	DefaultSampleRate     = 48000
	DefaultLogLevel       = "info"
)

// DefaultCacheConfig 返回默认缓存配置
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		PlaceholderKey: DefaultPlaceholderKey,
		PollInterval:   DefaultPollInterval,
		HotReload:      true,
		SampleRate:     DefaultSampleRate,
		LogLevel:       DefaultLogLevel,
	}
}

// LoadCacheConfig 从 YAML 文件加载缓存配置
//
// Keys missing from the file keep their default value.
//
// 参数：
//   - path: 配置文件路径
//
// 返回：
//   - *CacheConfig: 解析并验证后的配置
//   - error: 读取、解析或验证失败时返回错误
func LoadCacheConfig(path string) (*CacheConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache config file %s: %w", path, err)
	}

	cfg := DefaultCacheConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse cache config YAML from %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cache config in %s: %w", path, err)
	}
	return cfg, nil
}

// Validate 验证配置的合法性
func (c *CacheConfig) Validate() error {
	if c.PlaceholderKey == "" {
		return fmt.Errorf("placeholder_key is required")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %v", c.PollInterval)
	}
	if c.SampleRate < 8000 || c.SampleRate > 192000 {
		return fmt.Errorf("sample_rate must be between 8000 and 192000, got %d", c.SampleRate)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Level returns the parsed log level, InfoLevel when unset or invalid.
func (c *CacheConfig) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// ResolvePath 将清单或资源路径解析为可打开的文件路径
//
// Absolute paths are returned unchanged; relative paths are joined onto
// AssetRoot when it is set.
func (c *CacheConfig) ResolvePath(path string) string {
	if c.AssetRoot == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.AssetRoot, path)
}
