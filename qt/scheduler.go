package pixelboxqt

import (
	"time"

	"github.com/mappu/miqt/qt"
)

// Scheduler runs redraw passes on the Qt main thread with QTimers.
type Scheduler struct{}

// Every starts a QTimer calling fn each interval. The returned cancel stops
// and deletes the timer; call it on the main thread.
func (Scheduler) Every(interval time.Duration, fn func()) func() {
	timer := qt.NewQTimer()
	timer.OnTimeout(fn)
	timer.Start(int(interval / time.Millisecond))

	stopped := false
	return func() {
		if stopped {
			return
		}
		stopped = true
		timer.Stop()
		timer.Delete()
	}
}
