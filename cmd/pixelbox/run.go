package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/phroun/pixelbox"
	"github.com/phroun/pixelbox/cli"
)

type runFlags struct {
	border    string
	scale     int
	noPanel   bool
	noOverlay bool
}

func runCmd(cfg *Config) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run [demo]",
		Short: "Run a demo page in the terminal",
		Long: `Run shows a demo page in the terminal with truecolor half blocks and
mouse input. When stdout is not a terminal the readout is printed instead.`,
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
			stage := pixelbox.NewStage(demo, pixelbox.TickerScheduler{})
			defer stage.Close()

			if !cli.IsTerminal() {
				<-demo.Ready()
				cli.Dump(cmd.OutOrStdout(), stage)
				return nil
			}

			border, err := cli.ParseBorderStyle(flags.border)
			if err != nil {
				return err
			}
			term, err := cli.New(stage, cli.Options{
				BorderStyle: border,
				Title:       opts.Title,
				Scale:       flags.scale,
				ShowPanel:   !flags.noPanel,
				Logger:      lggr,
			})
			if err != nil {
				return errors.Wrap(err, "create terminal")
			}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigChan)
			go func() {
				<-sigChan
				term.Quit()
			}()

			if err := term.Start(); err != nil {
				return errors.Wrap(err, "start terminal")
			}
			term.Wait()
			term.Stop()
			return demo.Err()
		},
	}

	cmd.Flags().StringVar(&flags.border, "border", "rounded", "Border style: none, single, double, heavy, rounded")
	cmd.Flags().IntVar(&flags.scale, "scale", 0, "Stage pixels per character column; 0 fits the terminal")
	cmd.Flags().BoolVar(&flags.noPanel, "no-panel", false, "Hide the console panel")
	cmd.Flags().BoolVar(&flags.noOverlay, "no-overlay", false, "Run as a display without overlay composition (read-only console)")
	return cmd
}

// pickDemo returns the demo named by args, or the first page
func pickDemo(cfg *Config, args []string) (pixelbox.DemoOptions, error) {
	pages, err := cfg.pages()
	if err != nil {
		return pixelbox.DemoOptions{}, err
	}
	if len(args) == 0 {
		if len(pages.Demos) == 0 {
			return pixelbox.DemoOptions{}, errors.New("no demo pages configured")
		}
		return pages.Demos[0], nil
	}
	opts, ok := pages.Find(args[0])
	if !ok {
		return pixelbox.DemoOptions{}, fmt.Errorf("unknown demo %q (have %v)", args[0], pages.Targets())
	}
	return opts, nil
}
