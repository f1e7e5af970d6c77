package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/decker502/assetcache/pkg/backend"
	"github.com/decker502/assetcache/pkg/config"
	"github.com/decker502/assetcache/pkg/embedded"
	"github.com/decker502/assetcache/pkg/game"
	"github.com/decker502/assetcache/pkg/logging"
	"github.com/decker502/assetcache/pkg/resource"
	"github.com/decker502/assetcache/pkg/watch"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/quasilyte/gdata/v2"
)

func main() {
	configPath := flag.String("config", "", "cache config YAML (optional)")
	root := flag.String("root", ".", "asset root; manifests are read from <root>/Resources")
	flag.Parse()

	cfg := config.DefaultCacheConfig()
	if *configPath != "" {
		loaded, err := config.LoadCacheConfig(*configPath)
		if err != nil {
			log.Fatal("Failed to load config", "err", err)
		}
		cfg = loaded
	}
	if cfg.AssetRoot == "" {
		cfg.AssetRoot = *root
	}

	logger := logging.New(os.Stderr, cfg.Level())

	// 首次运行时生成演示资源
	written, err := embedded.WriteDemo(cfg.AssetRoot, false)
	if err != nil {
		logger.Fatal("Failed to write demo resources", "err", err)
	}
	if len(written) > 0 {
		logger.Info("Demo resources created", "files", len(written), "dir", filepath.Join(cfg.AssetRoot, embedded.ResourceDir))
	}

	storage, err := gdata.Open(gdata.Config{AppName: "assetcache_viewer"})
	if err != nil {
		logger.Warn("Settings storage unavailable, settings will not persist", "err", err)
		storage = nil
	}
	settings := game.NewSettingsManager(storage, logger)

	audioContext := audio.NewContext(cfg.SampleRate)
	mgr := resource.NewManager(backend.NewEbiten(audioContext), cfg, logger)
	if cfg.WatchFS {
		notifier, err := watch.NewNotifier(logger)
		if err != nil {
			logger.Warn("File watching unavailable, polling only", "err", err)
		} else {
			defer notifier.Close()
			mgr.SetNotifier(notifier)
		}
	}

	viewer := game.NewViewer(mgr, settings, embedded.ResourceDir, logger)
	if err := viewer.Open(settings.GetSettings().LastManifest); err != nil {
		logger.Error("Failed to open last manifest", "err", err)
	}

	ebiten.SetWindowSize(game.ScreenWidth, game.ScreenHeight)
	ebiten.SetWindowTitle("Asset Cache Viewer")

	runErr := ebiten.RunGame(viewer)

	if err := settings.Save(); err != nil {
		logger.Warn("Failed to save settings", "err", err)
	}
	if err := mgr.Destroy(); err != nil {
		logger.Warn("Failed to release resources", "err", err)
	}
	if runErr != nil {
		logger.Fatal("Game loop failed", "err", runErr)
	}
}
