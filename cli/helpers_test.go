package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/phroun/pixelbox"
	"github.com/phroun/pixelbox/config"
	"github.com/phroun/pixelbox/internal/logger"
)

// newTestStage builds the stage for a built-in page and waits for it to load
func newTestStage(t *testing.T, target string, edit func(*pixelbox.DemoOptions)) *pixelbox.Stage {
	t.Helper()
	opts, ok := config.Default().Find(target)
	require.True(t, ok, "unknown page %s", target)
	if edit != nil {
		edit(&opts)
	}
	d, err := pixelbox.NewDemo(opts, logger.Test(t))
	require.NoError(t, err)
	select {
	case <-d.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("demo not ready")
	}
	st := pixelbox.NewStage(d, pixelbox.NewManualScheduler())
	t.Cleanup(st.Close)
	return st
}

func newTestTerminal(t *testing.T, st *pixelbox.Stage, opts Options) *Terminal {
	t.Helper()
	opts.Logger = logger.Test(t)
	term, err := New(st, opts)
	require.NoError(t, err)
	return term
}
