package warps

import (
	"strings"
	"sync"

	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"
)

// DragonflyGame implements Game for a Dragonfly server.
// Worlds are registered by name; players are tracked through Sessions created
// when they join.
type DragonflyGame struct {
	perms *Permissions

	worlds   map[string]*world.World
	worldsMu sync.RWMutex

	// sessions holds all active sessions
	sessions   map[*world.EntityHandle]*Session
	sessionsMu sync.RWMutex

	// sessionsByUUID provides UUID-based session lookup
	sessionsByUUID   map[uuid.UUID]*Session
	sessionsByUUIDMu sync.RWMutex

	// sessionsByName provides case-insensitive name lookup
	sessionsByName   map[string]*Session
	sessionsByNameMu sync.RWMutex
}

// NewDragonflyGame creates an adapter checking permissions against perms.
// A nil perms grants nothing.
func NewDragonflyGame(perms *Permissions, ws ...*world.World) *DragonflyGame {
	if perms == nil {
		perms = NewPermissions()
	}
	g := &DragonflyGame{
		perms:          perms,
		worlds:         make(map[string]*world.World),
		sessions:       make(map[*world.EntityHandle]*Session),
		sessionsByUUID: make(map[uuid.UUID]*Session),
		sessionsByName: make(map[string]*Session),
	}
	for _, w := range ws {
		g.AddWorld(w)
	}
	return g
}

// Permissions returns the permission store.
func (g *DragonflyGame) Permissions() *Permissions {
	return g.perms
}

// AddWorld registers a world under its name.
func (g *DragonflyGame) AddWorld(w *world.World) {
	g.worldsMu.Lock()
	g.worlds[w.Name()] = w
	g.worldsMu.Unlock()
}

// RemoveWorld unregisters a world. Warps in it can no longer be used.
func (g *DragonflyGame) RemoveWorld(name string) {
	g.worldsMu.Lock()
	delete(g.worlds, name)
	g.worldsMu.Unlock()
}

// DragonflyWorld returns the registered world with the given name.
func (g *DragonflyGame) DragonflyWorld(name string) (*world.World, bool) {
	g.worldsMu.RLock()
	defer g.worldsMu.RUnlock()
	w, ok := g.worlds[name]
	return w, ok
}

// World implements Game. Queries on the returned world run in their own
// transaction of that world.
func (g *DragonflyGame) World(name string) (World, bool) {
	w, ok := g.DragonflyWorld(name)
	if !ok {
		return nil, false
	}
	return foreignWorld{w: w}, true
}

// Player implements Game.
func (g *DragonflyGame) Player(id uuid.UUID) (Player, bool) {
	s := g.GetSessionByUUID(id)
	if s == nil || s.Closed() {
		return nil, false
	}
	return &sessionPlayer{game: g, s: s}, true
}

// Entity wraps a player for use with the teleport pipeline. The result is
// only valid within tx; teleports into other worlds detach from it.
func (g *DragonflyGame) Entity(tx *world.Tx, p *player.Player) Player {
	return &playerEntity{game: g, tx: tx, p: p}
}

// NewSession creates a session for a player joining the server.
// It should be called in the server's accept loop, before the handler is set.
func (g *DragonflyGame) NewSession(p *player.Player) *Session {
	s := &Session{
		handle: p.H(),
		uuid:   p.UUID(),
		name:   p.Name(),
		game:   g,
	}
	s.world.Store(p.Tx().World())
	g.addSession(s)
	return s
}

// addSession registers a session.
func (g *DragonflyGame) addSession(s *Session) {
	g.sessionsMu.Lock()
	g.sessions[s.handle] = s
	g.sessionsMu.Unlock()

	g.sessionsByUUIDMu.Lock()
	g.sessionsByUUID[s.uuid] = s
	g.sessionsByUUIDMu.Unlock()

	g.sessionsByNameMu.Lock()
	g.sessionsByName[strings.ToLower(s.name)] = s
	g.sessionsByNameMu.Unlock()
}

// removeSession unregisters a session.
func (g *DragonflyGame) removeSession(s *Session) {
	g.sessionsMu.Lock()
	delete(g.sessions, s.handle)
	g.sessionsMu.Unlock()

	g.sessionsByUUIDMu.Lock()
	if g.sessionsByUUID[s.uuid] == s {
		delete(g.sessionsByUUID, s.uuid)
	}
	g.sessionsByUUIDMu.Unlock()

	g.sessionsByNameMu.Lock()
	if k := strings.ToLower(s.name); g.sessionsByName[k] == s {
		delete(g.sessionsByName, k)
	}
	g.sessionsByNameMu.Unlock()
}

// GetSession retrieves the session for a player.
func (g *DragonflyGame) GetSession(p *player.Player) *Session {
	g.sessionsMu.RLock()
	defer g.sessionsMu.RUnlock()
	return g.sessions[p.H()]
}

// GetSessionByUUID retrieves a session by UUID.
func (g *DragonflyGame) GetSessionByUUID(id uuid.UUID) *Session {
	g.sessionsByUUIDMu.RLock()
	defer g.sessionsByUUIDMu.RUnlock()
	return g.sessionsByUUID[id]
}

// GetSessionByName retrieves a session by player name, ignoring case.
func (g *DragonflyGame) GetSessionByName(name string) *Session {
	g.sessionsByNameMu.RLock()
	defer g.sessionsByNameMu.RUnlock()
	return g.sessionsByName[strings.ToLower(name)]
}

// AllSessions returns all active sessions.
func (g *DragonflyGame) AllSessions() []*Session {
	g.sessionsMu.RLock()
	defer g.sessionsMu.RUnlock()

	sessions := make([]*Session, 0, len(g.sessions))
	for _, s := range g.sessions {
		sessions = append(sessions, s)
	}
	return sessions
}
