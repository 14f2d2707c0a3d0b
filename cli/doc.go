// Package cli shows pixelbox demos inside a text terminal.
//
// The stage is drawn with truecolor half blocks, two stage rows per
// character cell, scaled down until it fits the host terminal. The console
// readout, sliders and legend are drawn in a panel beside it.
//
// # Basic Usage
//
//	demo, err := pixelbox.NewDemo(opts, lggr)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	stage := pixelbox.NewStage(demo, pixelbox.TickerScheduler{})
//	defer stage.Close()
//
//	term, err := cli.New(stage, cli.Options{
//	    BorderStyle: cli.BorderRounded,
//	    ShowPanel:   true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := term.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer term.Stop()
//	term.Wait()
//
// # Controls
//
//   - Mouse motion: pointer readout
//   - Left click: select a cell and activate its surface
//   - Arrow keys and Space: move the pointer and select without a mouse
//   - [ and ]: DN slider by 1, { and } by 10
//   - - and =: base slider; , and .: multiplier slider
//   - c: colorize or decolorize special pixels
//   - l/L, s/S, b/B: remove/add lines, samples and bands of a cube
//   - 1, 2, 3, o: low pass, high pass, add images and show original in the
//     destripe challenge
//   - r: reset; q: quit
//
// When stdout is not a terminal, Dump writes the readout as plain text.
package cli
