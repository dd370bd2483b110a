package warps

import (
	"sync/atomic"
	"time"
)

// Scheduler drives a Timers registry from its own goroutine.
// Hosts that already run a logic loop can call Timers.Tick from it instead.
type Scheduler struct {
	timers *Timers

	// Execution state
	running atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	// Tick tracking
	tickRate   time.Duration
	tickNumber atomic.Uint64
}

// NewScheduler creates a scheduler ticking timers every tickRate.
// A non-positive tick rate falls back to 50ms, the rate of the game loop.
func NewScheduler(timers *Timers, tickRate time.Duration) *Scheduler {
	if tickRate <= 0 {
		tickRate = 50 * time.Millisecond // 20 TPS
	}
	return &Scheduler{
		timers:   timers,
		tickRate: tickRate,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the tick loop. Calling Start on a running scheduler does nothing.
// A stopped scheduler cannot be started again.
func (s *Scheduler) Start() {
	select {
	case <-s.stopCh:
		return // Stopped for good
	default:
	}
	if s.running.Swap(true) {
		return // Already running
	}
	go s.tickLoop()
}

// Stop shuts down the tick loop and waits for the current tick to finish.
func (s *Scheduler) Stop() {
	if !s.running.Swap(false) {
		return // Not running
	}
	close(s.stopCh)
	<-s.doneCh
}

// TickNumber returns the number of ticks run so far.
func (s *Scheduler) TickNumber() uint64 {
	return s.tickNumber.Load()
}

func (s *Scheduler) tickLoop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return

		case <-ticker.C:
			s.tickNumber.Add(1)
			s.timers.Tick(s.timers.Now())
		}
	}
}
