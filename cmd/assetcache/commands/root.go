// Package commands implements the assetcache CLI.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/decker502/assetcache/internal/manifest"
	"github.com/decker502/assetcache/pkg/config"
	"github.com/decker502/assetcache/pkg/logging"
	"github.com/spf13/cobra"
)

// Build information, set with -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// CLI represents the assetcache command line interface.
type CLI struct {
	rootCmd    *cobra.Command
	configPath string
	root       string
	logLevel   string
	format     string
}

// New creates the command tree.
func New() *CLI {
	rootCmd := &cobra.Command{
		Use:           "assetcache",
		Short:         "Inspect, export and watch game asset manifests",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}
	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}} (commit: %s, date: %s)\n", Commit, Date))

	c := &CLI{rootCmd: rootCmd}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "cache config YAML")
	flags.StringVar(&c.root, "root", "", "asset root, overrides asset_root from the config")
	flags.StringVar(&c.logLevel, "log-level", "", "debug, info, warn or error")
	flags.StringVarP(&c.format, "format", "f", "", "manifest syntax: text, xml, json, yaml or toml (default: from the extension)")

	rootCmd.AddCommand(c.newCheckCmd())
	rootCmd.AddCommand(c.newFramesCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newDemoCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// loadConfig applies the persistent flags on top of the config file or the
// defaults.
func (c *CLI) loadConfig() (*config.CacheConfig, error) {
	cfg := config.DefaultCacheConfig()
	if c.configPath != "" {
		loaded, err := config.LoadCacheConfig(c.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if c.root != "" {
		cfg.AssetRoot = c.root
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// logger writes to the command's error stream.
func (c *CLI) logger(cmd *cobra.Command, cfg *config.CacheConfig) *log.Logger {
	return logging.New(cmd.ErrOrStderr(), cfg.Level())
}

// manifestFormat returns the --format override, or the syntax implied by the
// manifest's extension.
func (c *CLI) manifestFormat(path string) (manifest.Format, error) {
	if c.format != "" {
		return manifest.ParseFormat(c.format)
	}
	return manifest.DetectFormat(path)
}
