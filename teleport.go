package warps

import (
	"log/slog"
	"math"
	"time"
)

// TeleportService moves entities to warps.
// The entity is only touched if the returned status is not StatusNone, unless
// the teleport continues later, after a warmup or off the entity's thread.
type TeleportService interface {
	Teleport(e Entity, w *Warp) Status
}

// TeleportFunc adapts an ordinary function to a TeleportService.
type TeleportFunc func(e Entity, w *Warp) Status

// Teleport calls f.
func (f TeleportFunc) Teleport(e Entity, w *Warp) Status {
	return f(e, w)
}

// StrategyTeleport performs the actual teleport: it validates the warp's position
// and moves the entity there.
type StrategyTeleport struct {
	game      Game
	warps     WarpManager
	validator PositionValidator
	notifier  Notifier
	metrics   *Metrics
}

// NewStrategyTeleport creates the innermost teleport service.
func NewStrategyTeleport(game Game, warps WarpManager, validator PositionValidator, notifier Notifier, metrics *Metrics) *StrategyTeleport {
	return &StrategyTeleport{
		game:      game,
		warps:     warps,
		validator: validator,
		notifier:  notifier,
		metrics:   metrics,
	}
}

// Teleport implements TeleportService.
//
// A Bound entity heading into another world is detached and teleported from a
// goroutine of its own, so the calling thread never waits on the destination.
// Teleport returns StatusNone for it; the outcome reaches the entity as a
// notification.
func (s *StrategyTeleport) Teleport(e Entity, w *Warp) Status {
	world, ok := s.world(e, w)
	if !ok {
		slog.Debug("warps: warp world not loaded", "warp", w.Name(), "world", w.World())
		notify(s.notifier, e, MessageWorldMissing, w.Name())
		s.metrics.observeTeleport(StatusNone, reasonMissingWorld)
		return StatusNone
	}

	if b, ok := e.(Bound); ok && leavesThread(e, w.World()) {
		detached, ok := b.Detach()
		if !ok {
			s.metrics.observeTeleport(StatusNone, reasonMoveFailed)
			return StatusNone
		}
		go s.teleport(detached, w, world)
		return StatusNone
	}
	return s.teleport(e, w, world)
}

func (s *StrategyTeleport) teleport(e Entity, w *Warp, world World) Status {
	pos, ok := validate(s.validator, w.Position(), world)
	if !ok {
		slog.Debug("warps: no safe position", "warp", w.Name(), "entity", e.Name())
		notify(s.notifier, e, MessageUnsafeLocation, w.Name())
		s.metrics.observeTeleport(StatusNone, reasonUnsafe)
		return StatusNone
	}

	if !e.Teleport(world, pos, w.Rotation()) {
		slog.Debug("warps: entity could not be moved", "warp", w.Name(), "entity", e.Name())
		notify(s.notifier, e, MessageTeleportFailed, w.Name())
		s.metrics.observeTeleport(StatusNone, reasonMoveFailed)
		return StatusNone
	}
	s.warps.IncrementVisits(w)
	if msg := w.WelcomeMessage(); msg != "" {
		notify(s.notifier, e, MessageWelcome, msg)
	}

	status := StatusOriginal
	if pos != w.Position() {
		status = StatusModified
	}
	s.metrics.observeTeleport(status, reasonOK)
	return status
}

// world resolves the warp's world, preferring the entity's own world when the
// names match.
func (s *StrategyTeleport) world(e Entity, w *Warp) (World, bool) {
	if current := e.World(); current != nil && current.Name() == w.World() {
		return current, true
	}
	return s.game.World(w.World())
}

// leavesThread reports whether moving e into the named world has to leave the
// logic thread e is bound to.
func leavesThread(e Entity, world string) bool {
	if _, ok := e.(Bound); !ok {
		return false
	}
	current := e.World()
	return current == nil || current.Name() != world
}

// EconomyTeleport charges a fee before delegating to the wrapped service.
type EconomyTeleport struct {
	inner    TeleportService
	economy  Economy
	fee      Fee
	notifier Notifier
	metrics  *Metrics
}

// NewEconomyTeleport wraps inner so every teleport costs fee.
func NewEconomyTeleport(inner TeleportService, economy Economy, fee Fee, notifier Notifier, metrics *Metrics) *EconomyTeleport {
	return &EconomyTeleport{
		inner:    inner,
		economy:  economy,
		fee:      fee,
		notifier: notifier,
		metrics:  metrics,
	}
}

// Teleport implements TeleportService. Entities that cannot pay are not charged
// and not teleported.
func (s *EconomyTeleport) Teleport(e Entity, w *Warp) Status {
	if e.HasPermission(PermEconomyDisobey) {
		return s.inner.Teleport(e, w)
	}
	if !s.economy.HasAtLeast(e, s.fee) {
		notify(s.notifier, e, MessageInsufficientFunds, w.Name())
		s.metrics.observeTeleport(StatusNone, reasonInsufficientFunds)
		return StatusNone
	}
	if err := s.economy.Withdraw(e, s.fee); err != nil {
		logError(slog.Default(), "warps: withdraw failed", err)
		notify(s.notifier, e, MessageInsufficientFunds, w.Name())
		s.metrics.observeTeleport(StatusNone, reasonInsufficientFunds)
		return StatusNone
	}
	return s.inner.Teleport(e, w)
}

// TimerTeleport delays teleports of players by a warmup and blocks them during
// the cooldown that follows a successful one.
type TimerTeleport struct {
	inner     TeleportService
	timers    *Timers
	game      Game
	durations DurationProvider
	settings  TimerSettings
	notifier  Notifier
}

// NewTimerTeleport wraps inner with warmups and cooldowns.
func NewTimerTeleport(inner TeleportService, timers *Timers, game Game, durations DurationProvider, settings TimerSettings, notifier Notifier) *TimerTeleport {
	return &TimerTeleport{
		inner:     inner,
		timers:    timers,
		game:      game,
		durations: durations,
		settings:  settings,
		notifier:  notifier,
	}
}

// Teleport implements TeleportService.
//
// Unless the timers are bypassed or the player's warmup is zero, it never
// teleports directly: it starts a warmup and returns StatusNone. The teleport
// happens when the warmup fires. A zero warmup into another world still goes
// through the timers, so the teleport and the cooldown run off the player's
// logic thread.
func (s *TimerTeleport) Teleport(e Entity, w *Warp) Status {
	if !s.settings.Enabled || e.HasPermission(PermTimerDisobey) {
		return s.inner.Teleport(e, w)
	}
	p, ok := e.(Player)
	if !ok {
		return s.inner.Teleport(e, w)
	}

	if st := s.timers.Has(p.UUID(), Cooldown); st.Running {
		notify(s.notifier, p, MessageCooldownRunning, seconds(st.Remaining))
		return StatusNone
	}
	if st := s.timers.Has(p.UUID(), Warmup); st.Running {
		notify(s.notifier, p, MessageWarmupRunning, seconds(st.Remaining))
		return StatusNone
	}

	d := s.durations.Duration(p, Warmup)
	if d <= 0 {
		if !leavesThread(p, w.World()) {
			status := s.inner.Teleport(p, w)
			if status.Teleported() {
				startCooldown(s, p)
			}
			return status
		}
		s.timers.Start(p.UUID(), Warmup, 0, newWarmup(s, p, w))
		return StatusNone
	}
	s.timers.Start(p.UUID(), Warmup, d, newWarmup(s, p, w))
	notify(s.notifier, p, MessageWarmupStarted, w.Name(), seconds(d))
	return StatusNone
}

// seconds rounds d up to whole seconds for display.
func seconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}
