package pixelbox

import (
	"sync"
	"time"
)

// RedrawInterval is the cadence of a surface's periodic redraw pass
const RedrawInterval = 30 * time.Millisecond

// Scheduler runs a function repeatedly until the returned cancel is called.
// Frontends supply one bound to their own event loop so painting happens on
// the UI thread.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (cancel func())
}

// TickerScheduler runs each task on its own goroutine driven by a time.Ticker.
type TickerScheduler struct{}

// Every starts a ticker goroutine calling fn each interval
func (TickerScheduler) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	stop := make(chan struct{})
	var once sync.Once

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn()
			case <-stop:
				return
			}
		}
	}()

	return func() {
		once.Do(func() { close(stop) })
	}
}

// ManualScheduler fires tasks only when Advance is called. Frame-driven
// frontends advance it once per frame; tests advance it explicitly.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	nextID int
	tasks  map[int]*manualTask
}

type manualTask struct {
	interval time.Duration
	next     time.Duration
	fn       func()
}

// NewManualScheduler creates an idle manual scheduler
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{tasks: make(map[int]*manualTask)}
}

// Every registers fn to fire each interval of advanced time
func (m *ManualScheduler) Every(interval time.Duration, fn func()) func() {
	if interval <= 0 {
		interval = RedrawInterval
	}
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.tasks[id] = &manualTask{interval: interval, next: m.now + interval, fn: fn}
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.tasks, id)
		m.mu.Unlock()
	}
}

// Advance moves the clock forward by d, firing every task that falls due.
// Tasks run without the scheduler lock held, so they may cancel themselves.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	m.now += d
	now := m.now
	var due []func()
	for _, t := range m.tasks {
		for t.next <= now {
			due = append(due, t.fn)
			t.next += t.interval
		}
	}
	m.mu.Unlock()

	for _, fn := range due {
		fn()
	}
}

// Pending returns the number of registered tasks
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}
