package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/decker502/assetcache/pkg/backend"
	"github.com/decker502/assetcache/pkg/resource"
	"github.com/decker502/assetcache/pkg/watch"
	"github.com/spf13/cobra"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	var (
		tick     time.Duration
		fsNotify bool
		runFor   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch <manifest>",
		Short: "Load a manifest headless and log hot reloads until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if fsNotify {
				cfg.WatchFS = true
			}
			logger := c.logger(cmd, cfg)
			if !cfg.HotReload {
				logger.Warn("hot_reload is disabled in the config, nothing will be reloaded")
			}

			mgr := resource.NewManager(backend.NewHeadless(cfg.SampleRate), cfg, logger)
			defer func() {
				if err := mgr.Destroy(); err != nil {
					logger.Warn("Failed to release resources", "err", err)
				}
			}()

			if cfg.WatchFS {
				notifier, err := watch.NewNotifier(logger)
				if err != nil {
					return fmt.Errorf("failed to start file watcher: %w", err)
				}
				defer notifier.Close()
				mgr.SetNotifier(notifier)
			}

			format, err := c.manifestFormat(args[0])
			if err != nil {
				return err
			}
			if err := mgr.LoadManifestAs(args[0], format); err != nil {
				return err
			}
			if err := mgr.LoadQueue(); err != nil {
				return err
			}
			if err := mgr.CheckPlaceholders(); err != nil {
				logger.Warn("Lookups of unknown keys may return nothing", "err", err)
			}

			ctx := cmd.Context()
			if runFor > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, runFor)
				defer cancel()
			}
			tickLoop(ctx, mgr, tick, logger)

			s := mgr.Stats()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "passes=%d reloads=%d failed_reloads=%d manifest_reloads=%d\n",
				s.Passes, s.Reloads, s.FailedReloads, s.ManifestReloads)
			return nil
		},
	}
	cmd.Flags().DurationVar(&tick, "tick", 100*time.Millisecond, "interval between monitor updates")
	cmd.Flags().BoolVar(&fsNotify, "fs", false, "use filesystem notifications to check early")
	cmd.Flags().DurationVar(&runFor, "for", 0, "stop after this long (0 = until interrupted)")
	return cmd
}

// tickLoop feeds wall-clock time into the cache's staleness monitor until
// ctx is done.
func tickLoop(ctx context.Context, mgr *resource.Manager, tick time.Duration, logger *log.Logger) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if err := mgr.Update(dt); err != nil {
				logger.Error("Reload failed", "err", err)
			}
		}
	}
}
