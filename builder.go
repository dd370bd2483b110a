package warps

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/oops"
)

// Builder configures the teleport pipeline before initialization.
// Use NewBuilder() to create a builder and chain configuration methods.
type Builder struct {
	game  Game
	warps WarpManager

	settings     Settings
	notifier     Notifier
	economy      Economy
	wallet       Wallet
	registerer   prometheus.Registerer
	timerOptions []TimerOption
	tickRate     time.Duration
	manualTick   bool
}

// NewBuilder creates a builder for a pipeline teleporting to the warps of
// manager inside game. It starts out with DefaultSettings.
func NewBuilder(game Game, manager WarpManager) *Builder {
	return &Builder{
		game:     game,
		warps:    manager,
		settings: DefaultSettings(),
	}
}

// Settings replaces the settings.
func (b *Builder) Settings(s Settings) *Builder {
	b.settings = s
	return b
}

// Notifier sets the notification sink. Defaults to a PrinterNotifier.
func (b *Builder) Notifier(n Notifier) *Builder {
	b.notifier = n
	return b
}

// Economy sets the economy charging fees.
func (b *Builder) Economy(e Economy) *Builder {
	b.economy = e
	return b
}

// Wallet sets a wallet to charge the fees configured in the settings from.
// It is ignored if an Economy is set.
func (b *Builder) Wallet(w Wallet) *Builder {
	b.wallet = w
	return b
}

// Metrics registers the pipeline's metrics with reg.
func (b *Builder) Metrics(reg prometheus.Registerer) *Builder {
	b.registerer = reg
	return b
}

// TimerOptions adds options for the timer registry.
//
// Example:
//
//	builder.TimerOptions(warps.WithClock(clock.Now))
func (b *Builder) TimerOptions(opts ...TimerOption) *Builder {
	b.timerOptions = append(b.timerOptions, opts...)
	return b
}

// TickRate sets how often the scheduler ticks the timers. Defaults to 50ms.
func (b *Builder) TickRate(d time.Duration) *Builder {
	b.tickRate = d
	return b
}

// ManualTick disables the scheduler. The host calls Engine.Tick from its own
// logic loop instead.
func (b *Builder) ManualTick() *Builder {
	b.manualTick = true
	return b
}

// Init builds the pipeline and starts the scheduler.
// It panics if the settings are invalid or fees are enabled without an economy.
func (b *Builder) Init() *Engine {
	if err := b.settings.Validate(); err != nil {
		panic("warps: invalid settings: " + err.Error())
	}

	e := &Engine{
		settings: b.settings,
		game:     b.game,
		warps:    b.warps,
		notifier: b.notifier,
	}
	if e.notifier == nil {
		e.notifier = NewPrinterNotifier()
	}
	if b.registerer != nil {
		e.metrics = NewMetrics(b.registerer)
	}

	opts := []TimerOption{
		WithPollInterval(b.settings.Timers.PollInterval),
		WithTimerMetrics(e.metrics),
	}
	e.timers = NewTimers(append(opts, b.timerOptions...)...)

	e.resolver = NewAuthorizationResolver(b.game, b.settings.Access.WorldAccessControl)
	e.validator = NewValidation(b.settings.Safety)

	raw := NewStrategyTeleport(b.game, b.warps, e.validator, e.notifier, e.metrics)
	timed := NewTimerTeleport(raw, e.timers, b.game, b.settings.Timers, b.settings.Timers, e.notifier)

	economy := b.economy
	if economy == nil && b.wallet != nil {
		economy = NewFeeEconomy(b.wallet, b.settings.Economy)
	}
	if b.settings.Economy.Enabled && economy == nil {
		panic(oops.In("warps").
			Code("ECONOMY_MISSING").
			Errorf("fees are enabled but no economy or wallet is configured"))
	}
	for fee := Fee(0); fee < feeCount; fee++ {
		if b.settings.Economy.Enabled {
			e.services[fee] = NewEconomyTeleport(timed, economy, fee, e.notifier, e.metrics)
		} else {
			e.services[fee] = timed
		}
	}

	if !b.manualTick {
		e.scheduler = NewScheduler(e.timers, b.tickRate)
		e.scheduler.Start()
	}
	return e
}
