// Example program demonstrating the CLI frontend
//
// This shows one of the built-in demo pages inside your terminal, with the
// console panel beside the pixel grid.
//
// Controls:
//   - Mouse: hover for readout, click to select
//   - Arrow keys / Space: move and select without a mouse
//   - [ ]: change the DN of the selected pixel
//   - r: reset, q: quit
//
// Usage:
//   go run main.go                 # Gradient pixel grid
//   go run main.go isis-cube       # Image cube
//   go run main.go isis-special-pixels

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/phroun/pixelbox"
	"github.com/phroun/pixelbox/cli"
	"github.com/phroun/pixelbox/config"
)

func main() {
	target := "isis-pixels"
	if len(os.Args) > 1 {
		target = os.Args[1]
	}

	opts, ok := config.Default().Find(target)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown demo %q\n", target)
		os.Exit(1)
	}

	demo, err := pixelbox.NewDemo(opts, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create demo: %v\n", err)
		os.Exit(1)
	}
	stage := pixelbox.NewStage(demo, pixelbox.TickerScheduler{})
	defer stage.Close()

	if !cli.IsTerminal() {
		cli.Dump(os.Stdout, stage)
		return
	}

	term, err := cli.New(stage, cli.Options{
		BorderStyle: cli.BorderRounded,
		ShowPanel:   true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create terminal: %v\n", err)
		os.Exit(1)
	}

	// Handle cleanup on signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		term.Quit()
	}()

	if err := term.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start terminal: %v\n", err)
		os.Exit(1)
	}

	term.Wait()
	term.Stop()
}
