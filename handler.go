package warps

import (
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
)

// SessionHandler keeps a Session in sync with its player.
// Embed it in the server's own handler, or set it with p.Handle directly.
//
// Handlers are executed synchronously by Dragonfly within the player's world
// transaction.
type SessionHandler struct {
	player.NopHandler

	session *Session
	timers  *Timers
}

// NewHandler creates a handler for the given session. If timers is not nil,
// the player's warmup is cancelled when the player quits. Cooldowns keep
// running so leaving and joining again does not skip them.
func NewHandler(s *Session, timers *Timers) *SessionHandler {
	return &SessionHandler{session: s, timers: timers}
}

// Session returns the session associated with this handler.
func (h *SessionHandler) Session() *Session {
	return h.session
}

// Compile-time check that SessionHandler implements player.Handler.
var _ player.Handler = (*SessionHandler)(nil)

// HandleChangeWorld updates the session's cached world.
func (h *SessionHandler) HandleChangeWorld(_ *player.Player, _, after *world.World) {
	h.session.world.Store(after)
}

// HandleQuit closes the session.
func (h *SessionHandler) HandleQuit(_ *player.Player) {
	if h.timers != nil {
		h.timers.Cancel(h.session.uuid, Warmup)
	}
	h.session.close()
}
