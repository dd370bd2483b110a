package warps

// Engine is the assembled teleport pipeline. Create one with NewBuilder.
type Engine struct {
	settings Settings
	game     Game
	warps    WarpManager
	notifier Notifier
	metrics  *Metrics

	resolver  *AuthorizationResolver
	validator PositionValidator
	timers    *Timers
	scheduler *Scheduler

	// services holds the outermost service per fee
	services [feeCount]TeleportService
}

// Settings returns the settings the engine was built with.
func (e *Engine) Settings() Settings {
	return e.settings
}

// Resolver returns the authorization resolver.
func (e *Engine) Resolver() *AuthorizationResolver {
	return e.resolver
}

// Validator returns the position validation chain.
func (e *Engine) Validator() PositionValidator {
	return e.validator
}

// Timers returns the timer registry.
func (e *Engine) Timers() *Timers {
	return e.timers
}

// Notifier returns the notification sink.
func (e *Engine) Notifier() Notifier {
	return e.notifier
}

// Service returns the teleport service charging fee.
func (e *Engine) Service(fee Fee) TeleportService {
	return e.services[fee]
}

// Teleport moves ent to the warp with the given name, charging FeeWarpTo.
// It returns false if there is no such warp. Authorization is up to the caller;
// see Resolver.
func (e *Engine) Teleport(ent Entity, name string) (Status, bool) {
	w, ok := e.warps.Get(name)
	if !ok {
		return StatusNone, false
	}
	return e.services[FeeWarpTo].Teleport(ent, w), true
}

// Tick advances the timers. Only needed when the builder was set to ManualTick.
// Warmups query worlds and players while firing, so Tick must not be called
// from inside a world transaction.
func (e *Engine) Tick() {
	e.timers.Tick(e.timers.Now())
}

// Shutdown stops the scheduler. Timers still running do not fire afterwards
// unless the host ticks them.
func (e *Engine) Shutdown() {
	if e.scheduler != nil {
		e.scheduler.Stop()
	}
}
