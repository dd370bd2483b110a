package warps

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// warmup teleports its subject when it fires. It aborts when the subject moves
// away from or takes damage at the place it requested the teleport.
type warmup struct {
	service *TimerTeleport
	subject uuid.UUID
	warp    *Warp

	// captured when the warmup starts
	world    string
	position mgl64.Vec3
	health   float64
}

func newWarmup(s *TimerTeleport, p Player, w *Warp) *warmup {
	wu := &warmup{
		service:  s,
		subject:  p.UUID(),
		warp:     w,
		position: p.Position(),
		health:   p.Health(),
	}
	if world := p.World(); world != nil {
		wu.world = world.Name()
	}
	return wu
}

// Abort implements Abortable. It notifies the subject of the reason.
// An offline subject does not abort the warmup; Run ignores it.
func (wu *warmup) Abort() bool {
	p, ok := wu.service.game.Player(wu.subject)
	return ok && wu.shouldAbort(p)
}

func (wu *warmup) shouldAbort(p Player) bool {
	s := wu.service
	if s.settings.AbortOnMove && !p.HasPermission(PermTimerDisobeyMoveAbort) && wu.moved(p) {
		notify(s.notifier, p, MessageWarmupCancelledMove)
		return true
	}
	if s.settings.AbortOnDamage && !p.HasPermission(PermTimerDisobeyDamageAbort) && p.Health() < wu.health {
		notify(s.notifier, p, MessageWarmupCancelledDamage)
		return true
	}
	return false
}

func (wu *warmup) moved(p Player) bool {
	w := p.World()
	if w == nil || w.Name() != wu.world {
		return true
	}
	return p.Position().Sub(wu.position).Len() > wu.service.settings.AllowedDistance
}

// Run implements Action. Timers fire outside any world transaction, so the
// teleport may validate and enter a world other than the subject's.
func (wu *warmup) Run() {
	s := wu.service
	p, ok := s.game.Player(wu.subject)
	if !ok {
		return
	}
	if s.inner.Teleport(p, wu.warp).Teleported() {
		startCooldown(s, p)
	}
}

// cooldown blocks teleports of its subject until it fires.
type cooldown struct {
	service *TimerTeleport
	subject uuid.UUID
}

// Run implements Action.
func (c *cooldown) Run() {
	s := c.service
	if !s.settings.NotifyOnCooldownEnd {
		return
	}
	if p, ok := s.game.Player(c.subject); ok {
		notify(s.notifier, p, MessageCooldownEnded)
	}
}

// startCooldown starts the cooldown of p unless one is running already or the
// player's cooldown is zero.
func startCooldown(s *TimerTeleport, p Player) {
	if s.timers.Has(p.UUID(), Cooldown).Running {
		return
	}
	d := s.durations.Duration(p, Cooldown)
	if d <= 0 {
		return
	}
	s.timers.Start(p.UUID(), Cooldown, d, &cooldown{service: s, subject: p.UUID()})
}
