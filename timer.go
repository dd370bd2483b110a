package warps

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"
)

// TimerKey identifies a timer. At most one timer runs per key.
type TimerKey struct {
	Subject uuid.UUID
	Kind    TimerKind
}

// TimerStatus describes the timer running for a key, if any.
type TimerStatus struct {
	Running   bool
	Remaining time.Duration
}

// Timers is the registry of running warmups and cooldowns.
//
// Nothing happens on its own: Tick must be called regularly, either by the host's
// logic loop or by a Scheduler. Actions and abort predicates run on the goroutine
// calling Tick, never while the registry lock is held.
type Timers struct {
	mu      sync.Mutex
	entries map[TimerKey]*timer
	queue   *timerQueue

	clock        func() time.Time
	pollInterval time.Duration
	metrics      *Metrics
}

// TimerOption configures a Timers registry.
type TimerOption func(*Timers)

// WithClock replaces time.Now as the registry's time source.
func WithClock(clock func() time.Time) TimerOption {
	return func(t *Timers) {
		t.clock = clock
	}
}

// WithPollInterval sets how often abort predicates are polled. Defaults to 250ms.
func WithPollInterval(d time.Duration) TimerOption {
	return func(t *Timers) {
		if d > 0 {
			t.pollInterval = d
		}
	}
}

// WithTimerMetrics records timer lifecycle events.
func WithTimerMetrics(m *Metrics) TimerOption {
	return func(t *Timers) {
		t.metrics = m
	}
}

// NewTimers creates an empty registry.
func NewTimers(opts ...TimerOption) *Timers {
	t := &Timers{
		entries:      make(map[TimerKey]*timer),
		queue:        newTimerQueue(),
		clock:        time.Now,
		pollInterval: 250 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Now returns the registry's current time.
func (t *Timers) Now() time.Time {
	return t.clock()
}

// Start schedules action to run after d.
// If action implements Abortable, Abort is polled until the deadline.
//
// Start panics if a timer is already running for the key. Callers check Has first.
func (t *Timers) Start(subject uuid.UUID, kind TimerKind, d time.Duration, action Action) {
	key := TimerKey{Subject: subject, Kind: kind}
	now := t.clock()

	entry := &timer{
		key:      key,
		deadline: now.Add(d),
		action:   action,
		nextPoll: now.Add(t.pollInterval),
	}
	if a, ok := action.(Abortable); ok {
		entry.abort = a
	}

	t.mu.Lock()
	if _, exists := t.entries[key]; exists {
		t.mu.Unlock()
		panic(oops.In("timers").
			Code("TIMER_RUNNING").
			With("subject", subject, "kind", kind.String()).
			Errorf("%s timer already running for %s", kind, subject))
	}
	t.entries[key] = entry
	t.queue.push(entry)
	t.mu.Unlock()

	t.metrics.observeTimer(kind, "started")
	slog.Debug("warps: timer started", "subject", subject, "kind", kind.String(), "duration", d)
}

// Has reports whether a timer runs for the key and how long it has left.
// Remaining is zero for timers whose deadline passed but that have not fired yet.
func (t *Timers) Has(subject uuid.UUID, kind TimerKind) TimerStatus {
	t.mu.Lock()
	entry, ok := t.entries[TimerKey{Subject: subject, Kind: kind}]
	t.mu.Unlock()
	if !ok {
		return TimerStatus{}
	}
	return TimerStatus{Running: true, Remaining: max(entry.deadline.Sub(t.clock()), 0)}
}

// Cancel removes the timer for the key. It does nothing if there is none.
func (t *Timers) Cancel(subject uuid.UUID, kind TimerKind) {
	t.mu.Lock()
	entry, ok := t.entries[TimerKey{Subject: subject, Kind: kind}]
	if ok {
		t.drop(entry)
	}
	t.mu.Unlock()

	if ok {
		t.metrics.observeTimer(kind, "cancelled")
	}
}

// CancelAll removes every timer of subject.
func (t *Timers) CancelAll(subject uuid.UUID) {
	for kind := Warmup; kind < timerKindCount; kind++ {
		t.Cancel(subject, kind)
	}
}

// Len returns the number of running timers.
func (t *Timers) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// drop removes entry from the registry. Caller must hold the lock.
func (t *Timers) drop(entry *timer) {
	if t.entries[entry.key] != entry {
		return
	}
	delete(t.entries, entry.key)
	t.queue.remove(entry)
	entry.cancelled.Store(true)
}

// Tick polls abort predicates that are due and runs every action whose deadline
// passed. Due abortable actions get one last poll before they run.
func (t *Timers) Tick(now time.Time) {
	t.mu.Lock()
	var polls []*timer
	for _, entry := range t.queue.heap {
		if entry.abort == nil || entry.nextPoll.After(now) || !entry.deadline.After(now) {
			continue
		}
		entry.nextPoll = now.Add(t.pollInterval)
		polls = append(polls, entry)
	}
	t.mu.Unlock()

	slices.SortFunc(polls, func(a, b *timer) int {
		return a.deadline.Compare(b.deadline)
	})
	for _, entry := range polls {
		if entry.cancelled.Load() || !t.aborted(entry) {
			continue
		}
		t.mu.Lock()
		t.drop(entry)
		t.mu.Unlock()
		t.metrics.observeTimer(entry.key.Kind, "aborted")
	}

	t.mu.Lock()
	due := t.queue.popDue(now)
	for _, entry := range due {
		if t.entries[entry.key] == entry {
			delete(t.entries, entry.key)
		}
	}
	t.mu.Unlock()

	for _, entry := range due {
		if entry.cancelled.Swap(true) {
			continue
		}
		if entry.abort != nil && t.aborted(entry) {
			t.metrics.observeTimer(entry.key.Kind, "aborted")
			continue
		}
		t.run(entry)
		t.metrics.observeTimer(entry.key.Kind, "fired")
	}
}

// aborted polls the entry's abort predicate. A panicking predicate aborts.
func (t *Timers) aborted(entry *timer) (abort bool) {
	defer func() {
		if r := recover(); r != nil {
			t.recovered(entry, "abort", r)
			abort = true
		}
	}()
	if entry.abort.Abort() {
		slog.Debug("warps: timer aborted", "subject", entry.key.Subject, "kind", entry.key.Kind.String())
		return true
	}
	return false
}

func (t *Timers) run(entry *timer) {
	defer func() {
		if r := recover(); r != nil {
			t.recovered(entry, "run", r)
		}
	}()
	entry.action.Run()
}

func (t *Timers) recovered(entry *timer, stage string, r any) {
	slog.Error("warps: panic in timer action",
		"subject", entry.key.Subject,
		"kind", entry.key.Kind.String(),
		"stage", stage,
		"panic", fmt.Sprint(r),
		"stack", string(debug.Stack()),
	)
}
