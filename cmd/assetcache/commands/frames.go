package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/decker502/assetcache/internal/manifest"
	"github.com/decker502/assetcache/internal/sheet"
	"github.com/decker502/assetcache/pkg/backend"
	"github.com/spf13/cobra"
)

func (c *CLI) newFramesCmd() *cobra.Command {
	var (
		output string
		scale  float64
		delay  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "frames <manifest> <animation>",
		Short: "Export an animation's frames as an animated WebP",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			logger := c.logger(cmd, cfg)

			format, err := c.manifestFormat(args[0])
			if err != nil {
				return err
			}
			m, err := manifest.ParseAs(cfg.ResolvePath(args[0]), format)
			if err != nil {
				return err
			}
			anim, ok := m.AnimationByKey(args[1])
			if !ok {
				if d, declared := m.Lookup(args[1]); declared {
					return fmt.Errorf("%q is declared as a %s, not an animation, in %s", args[1], d.Kind, args[0])
				}
				return fmt.Errorf("animation %q is not declared in %s", args[1], args[0])
			}

			src, _, err := backend.DecodeImageFile(cfg.ResolvePath(anim.Path))
			if err != nil {
				return err
			}
			frames, err := sheet.Crop(src, anim.Frames)
			if err != nil {
				return fmt.Errorf("animation %q: %w", anim.Key, err)
			}
			for i := range frames {
				frames[i] = sheet.Scale(frames[i], scale)
			}

			if output == "" {
				output = anim.Key + ".webp"
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			defer f.Close()
			if err := sheet.EncodeWebP(f, frames, delay); err != nil {
				return err
			}

			logger.Info("Frames exported", "animation", anim.Key, "frames", len(frames), "output", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <animation>.webp)")
	cmd.Flags().Float64Var(&scale, "scale", 1, "scale factor applied to every frame")
	cmd.Flags().DurationVar(&delay, "delay", 125*time.Millisecond, "display time of each frame")
	return cmd
}
