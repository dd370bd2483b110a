package warps

import (
	"sync/atomic"

	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"
)

// Session tracks an online player for the Dragonfly adapter.
// It wraps the player's EntityHandle, which is persistent across transactions
// and worlds.
//
// Sessions are created when players join and closed when they leave.
type Session struct {
	// handle is the persistent entity handle for the player
	handle *world.EntityHandle

	// uuid is cached for fast lookup
	uuid uuid.UUID

	// name is cached for fast lookup
	name string

	// world is the world the player is currently in
	world atomic.Pointer[world.World]

	// game is the adapter that owns this session
	game *DragonflyGame

	// closed indicates if the session has been closed
	closed atomic.Bool
}

// Handle returns the underlying EntityHandle.
func (s *Session) Handle() *world.EntityHandle {
	return s.handle
}

// UUID returns the player's UUID.
func (s *Session) UUID() uuid.UUID {
	return s.uuid
}

// Name returns the player's name.
func (s *Session) Name() string {
	return s.name
}

// World returns the world the player is currently in.
// Returns the cached world (may be slightly stale).
func (s *Session) World() *world.World {
	return s.world.Load()
}

// Closed reports whether the player left.
func (s *Session) Closed() bool {
	return s.closed.Load()
}

// Player returns the player entity within the given transaction.
// It returns (nil, false) if the player is not present in the transaction
// (e.g. offline or in another world).
func (s *Session) Player(tx *world.Tx) (*player.Player, bool) {
	e, ok := s.handle.Entity(tx)
	if !ok {
		return nil, false
	}
	p, ok := e.(*player.Player)
	return p, ok
}

// Exec runs a function within the session's world transaction and waits for it.
// Returns false if the player is offline or the session is closed.
func (s *Session) Exec(fn func(tx *world.Tx, p *player.Player)) bool {
	if s.closed.Load() {
		return false
	}

	return s.handle.ExecWorld(func(tx *world.Tx, e world.Entity) {
		p, ok := e.(*player.Player)
		if !ok {
			return
		}
		fn(tx, p)
	})
}

// close closes the session. This is called automatically when the player
// disconnects.
func (s *Session) close() {
	if s.closed.Swap(true) {
		return // Already closed
	}
	if s.game != nil {
		s.game.removeSession(s)
	}
}
