package main

import (
	"image"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/phroun/pixelbox"
)

type snapshotFlags struct {
	output    string
	timeout   time.Duration
	noOverlay bool
	colorize  bool
}

func snapshotCmd(cfg *Config) *cobra.Command {
	var flags snapshotFlags

	cmd := &cobra.Command{
		Use:   "snapshot [demo]",
		Short: "Export a demo page as a PNG image",
		Long: `Snapshot builds a demo page, runs one redraw pass and writes the
composed stage as a PNG. Use "-o -" to write to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lggr, err := cfg.newLogger()
			if err != nil {
				return err
			}
			defer lggr.Sync()

			opts, err := pickDemo(cfg, args)
			if err != nil {
				return err
			}
			if flags.noOverlay {
				off := false
				opts.OverlaySupport = &off
			}

			demo, err := pixelbox.NewDemo(opts, lggr)
			if err != nil {
				return err
			}
			select {
			case <-demo.Ready():
			case <-time.After(flags.timeout):
				return errors.Errorf("demo %q not ready after %s", opts.Target, flags.timeout)
			}
			if err := demo.Err(); err != nil {
				return err
			}

			img := snapshot(demo, flags.colorize)

			var w io.Writer = cmd.OutOrStdout()
			if flags.output != "-" {
				f, err := os.Create(flags.output)
				if err != nil {
					return errors.Wrapf(err, "create %s", flags.output)
				}
				defer f.Close()
				w = f
			}
			if err := png.Encode(w, img); err != nil {
				return errors.Wrap(err, "encode png")
			}
			lggr.Infow("Wrote snapshot", "demo", opts.Target, "output", flags.output,
				"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "pixelbox.png", "Output file, - for stdout")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 10*time.Second, "How long to wait for images to load")
	cmd.Flags().BoolVar(&flags.noOverlay, "no-overlay", false, "Build the demo as a display without overlay composition")
	cmd.Flags().BoolVar(&flags.colorize, "colorize", false, "Toggle colorize on demos that support it")
	return cmd
}

// snapshot stages the demo on a manual scheduler and advances it one
// redraw interval so every surface paints exactly once
func snapshot(demo *pixelbox.Demo, colorize bool) image.Image {
	if colorize && demo.Console.HasColorizeToggle() {
		demo.Console.ToggleColorize()
	}
	sched := pixelbox.NewManualScheduler()
	stage := pixelbox.NewStage(demo, sched)
	defer stage.Close()
	sched.Advance(pixelbox.RedrawInterval)
	return stage.Image()
}
