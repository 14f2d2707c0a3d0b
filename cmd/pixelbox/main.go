// Command pixelbox runs the pixel grid demos in a terminal and exports
// snapshots of them as PNG images.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/phroun/pixelbox/config"
	"github.com/phroun/pixelbox/internal/logger"
)

// Config holds the flags shared by every command
type Config struct {
	Debug      bool
	ConfigFile string
}

func main() {
	var cfg Config

	rootCmd := &cobra.Command{
		Use:   "pixelbox",
		Short: "Interactive pixel grid demos",
		Long: `pixelbox shows how an image is made of pixels holding digital numbers
(DNs). Each demo page is a grid of cells you can hover, select and recolor.`,
		Example: `  # Run the default gradient demo in the terminal
  pixelbox run

  # Run the image cube demo
  pixelbox run isis-cube

  # Export the special pixels demo as a PNG
  pixelbox snapshot isis-special-pixels -o special.png`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&cfg.Debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&cfg.ConfigFile, "config", "c", "", "Demo pages file (.toml, .yaml); built-in pages when empty")

	rootCmd.AddCommand(runCmd(&cfg))
	rootCmd.AddCommand(snapshotCmd(&cfg))
	rootCmd.AddCommand(listCmd(&cfg))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger returns a production logger at info or debug level
func (c *Config) newLogger() (logger.Logger, error) {
	lc := logger.Config{Level: zapcore.InfoLevel}
	if c.Debug {
		lc.Level = zapcore.DebugLevel
	}
	return lc.New()
}

// pages loads the configured demo pages
func (c *Config) pages() (*config.Config, error) {
	if c.ConfigFile == "" {
		return config.Default(), nil
	}
	return config.Load(c.ConfigFile)
}

func listCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available demo pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pages, err := cfg.pages()
			if err != nil {
				return err
			}
			for _, d := range pages.Demos {
				title := d.Title
				if title == "" {
					title = string(d.Kind)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-22s %s\n", d.Target, title)
			}
			return nil
		},
	}
}
