package pixelboxgtk

import (
	"sync"
	"time"

	"github.com/gotk3/gotk3/glib"
)

// Scheduler runs redraw passes on the GTK main loop with glib timeouts, so
// surfaces paint on the UI thread.
type Scheduler struct{}

// Every adds a glib timeout calling fn each interval. The returned cancel
// removes the timeout; it must be called on the main loop.
func (Scheduler) Every(interval time.Duration, fn func()) func() {
	var (
		mu      sync.Mutex
		stopped bool
	)
	id := glib.TimeoutAdd(uint(interval/time.Millisecond), func() bool {
		mu.Lock()
		done := stopped
		mu.Unlock()
		if done {
			return false
		}
		fn()
		return true
	})
	return func() {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		stopped = true
		glib.SourceRemove(id)
	}
}
