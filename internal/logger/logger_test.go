package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNamed(t *testing.T) {
	lggr := Test(t).Named("console").Named("isis-pixels")
	assert.Equal(t, "console.isis-pixels", lggr.Name())
}

func TestTestObserved(t *testing.T) {
	lggr, logs := TestObserved(t, zapcore.InfoLevel)
	lggr.Debugw("hidden")
	lggr.Infow("surface activated", "id", "band1")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "surface activated", entries[0].Message)
	assert.Equal(t, "band1", entries[0].ContextMap()["id"])
}

func TestNop(t *testing.T) {
	lggr := Nop()
	lggr.Errorw("discarded", "err", "boom")
	assert.NoError(t, lggr.Sync())
}
