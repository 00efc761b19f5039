package playback

import (
	"sync"
	"time"
)

// Timer is a handle on a repeating schedule.
type Timer interface {
	Stop()
}

// Scheduler starts repeating work.
type Scheduler interface {
	// Every calls fn once per interval until the returned Timer is stopped.
	// It must not call fn synchronously.
	Every(interval time.Duration, fn func()) Timer
}

// TickerScheduler runs fn on its own goroutine driven by a time.Ticker.
type TickerScheduler struct{}

// Every implements Scheduler.
func (TickerScheduler) Every(interval time.Duration, fn func()) Timer {
	t := &tickerTimer{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go t.run(fn)
	return t
}

type tickerTimer struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *tickerTimer) run(fn func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			// A stop may race with a pending tick; prefer the stop.
			select {
			case <-t.done:
				return
			default:
			}
			fn()
		}
	}
}

// Stop is idempotent and may be called from inside fn.
func (t *tickerTimer) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}
