package warps

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// playerEntity is a Dragonfly player seen through the Player interface.
// It is bound to the transaction it was created in.
type playerEntity struct {
	game *DragonflyGame
	tx   *world.Tx
	p    *player.Player
}

func (e *playerEntity) Name() string {
	return e.p.Name()
}

func (e *playerEntity) UUID() uuid.UUID {
	return e.p.UUID()
}

func (e *playerEntity) HasPermission(node string) bool {
	return e.game.perms.Has(e.p.UUID(), e.p.Name(), node)
}

func (e *playerEntity) InGroup(group string) bool {
	return e.game.perms.InGroup(e.p.UUID(), e.p.Name(), group)
}

func (e *playerEntity) Locale() language.Tag {
	return e.p.Locale()
}

func (e *playerEntity) SendMessage(text string) {
	e.p.Message(text)
}

func (e *playerEntity) World() World {
	return txWorld{tx: e.tx}
}

func (e *playerEntity) Position() mgl64.Vec3 {
	return e.p.Position()
}

func (e *playerEntity) Rotation() cube.Rotation {
	return e.p.Rotation()
}

func (e *playerEntity) Health() float64 {
	return e.p.Health()
}

// Teleport moves the player within the transaction's world. Other worlds
// are refused, they are reached through Detach.
func (e *playerEntity) Teleport(w World, pos mgl64.Vec3, rot cube.Rotation) bool {
	if w == nil {
		return false
	}
	dest := worldOf(w)
	if dest == nil {
		dest, _ = e.game.DragonflyWorld(w.Name())
	}
	if dest != e.tx.World() {
		return false
	}
	e.p.Teleport(pos)
	face(e.p, rot)
	return true
}

// Detach implements Bound.
func (e *playerEntity) Detach() (Entity, bool) {
	return e.game.Player(e.p.UUID())
}

// sessionPlayer is an online player seen from outside any transaction. Every
// call runs in a transaction of the player's current world and waits for it.
// While the player moves between worlds, calls wait until it arrived.
type sessionPlayer struct {
	game *DragonflyGame
	s    *Session
}

func (e *sessionPlayer) exec(fn func(tx *world.Tx, p *player.Player)) bool {
	return e.s.Exec(fn)
}

func (e *sessionPlayer) Name() string {
	return e.s.Name()
}

func (e *sessionPlayer) UUID() uuid.UUID {
	return e.s.UUID()
}

func (e *sessionPlayer) HasPermission(node string) bool {
	return e.game.perms.Has(e.s.UUID(), e.s.Name(), node)
}

func (e *sessionPlayer) InGroup(group string) bool {
	return e.game.perms.InGroup(e.s.UUID(), e.s.Name(), group)
}

func (e *sessionPlayer) Locale() language.Tag {
	locale := language.English
	e.exec(func(_ *world.Tx, p *player.Player) {
		locale = p.Locale()
	})
	return locale
}

func (e *sessionPlayer) SendMessage(text string) {
	e.exec(func(_ *world.Tx, p *player.Player) {
		p.Message(text)
	})
}

// World returns nil if the player left.
func (e *sessionPlayer) World() World {
	var w *world.World
	e.exec(func(tx *world.Tx, _ *player.Player) {
		w = tx.World()
	})
	if w == nil {
		return nil
	}
	return foreignWorld{w: w}
}

func (e *sessionPlayer) Position() (pos mgl64.Vec3) {
	e.exec(func(_ *world.Tx, p *player.Player) {
		pos = p.Position()
	})
	return pos
}

func (e *sessionPlayer) Rotation() (rot cube.Rotation) {
	e.exec(func(_ *world.Tx, p *player.Player) {
		rot = p.Rotation()
	})
	return rot
}

func (e *sessionPlayer) Health() (health float64) {
	e.exec(func(_ *world.Tx, p *player.Player) {
		health = p.Health()
	})
	return health
}

// Teleport moves the player, handing it over to the destination world if it
// is another one. The handover is queued on the destination without waiting
// for it; later calls wait until the player arrived.
func (e *sessionPlayer) Teleport(w World, pos mgl64.Vec3, rot cube.Rotation) bool {
	if w == nil {
		return false
	}
	dest := worldOf(w)
	if dest == nil {
		dest, _ = e.game.DragonflyWorld(w.Name())
	}
	if dest == nil {
		return false
	}

	var moved bool
	e.exec(func(tx *world.Tx, p *player.Player) {
		moved = true
		if tx.World() == dest {
			p.Teleport(pos)
			face(p, rot)
			return
		}
		h := tx.RemoveEntity(p)
		dest.Exec(func(tx *world.Tx) {
			if p, ok := tx.AddEntity(h).(*player.Player); ok {
				p.Teleport(pos)
				face(p, rot)
			}
		})
		e.s.world.Store(dest)
	})
	return moved
}

// face turns p towards rot.
func face(p *player.Player, rot cube.Rotation) {
	cur := p.Rotation()
	p.Move(mgl64.Vec3{}, rot.Yaw()-cur.Yaw(), rot.Pitch()-cur.Pitch())
}
