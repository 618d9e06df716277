package snake

import (
	"sync"
	"time"
)

// Scheduler issues tick signals at a fixed period.
//
// Start begins repeating fn every interval, replacing any loop already running.
// Stop cancels pending and future ticks and is safe to call repeatedly.
// Replace stops the current loop and starts a new one as a single operation,
// so two loops are never active at the same time.
type Scheduler interface {
	Start(interval time.Duration, fn func())
	Stop()
	Replace(interval time.Duration, fn func())
}

// TickerScheduler is a Scheduler backed by a goroutine and a time.Ticker.
// Repetition is fixed-delay with no drift correction.
type TickerScheduler struct {
	mu   sync.Mutex
	stop chan struct{}
}

// NewTickerScheduler creates an idle ticker scheduler.
func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{}
}

// Start begins calling fn every interval. A loop that is already running is
// stopped first. Non-positive intervals leave the scheduler stopped.
func (s *TickerScheduler) Start(interval time.Duration, fn func()) {
	s.Replace(interval, fn)
}

// Replace atomically swaps the running loop for one at the new interval.
func (s *TickerScheduler) Replace(interval time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	if interval <= 0 || fn == nil {
		return
	}

	stop := make(chan struct{})
	s.stop = stop
	go s.run(interval, fn, stop)
}

// Stop cancels the running loop, if any.
func (s *TickerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Running reports whether a loop is active.
func (s *TickerScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

func (s *TickerScheduler) stopLocked() {
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}

func (s *TickerScheduler) run(interval time.Duration, fn func(), stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// A tick and a stop can be ready together; stop wins.
			select {
			case <-stop:
				return
			default:
			}
			fn()
		}
	}
}
