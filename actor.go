package warps

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// Actor is anything that holds permissions and receives notifications:
// players, the console, other command sources.
type Actor interface {
	Name() string
	HasPermission(node string) bool
	Locale() language.Tag
	SendMessage(text string)
}

// Entity is an Actor with a place in a world.
type Entity interface {
	Actor

	World() World
	Position() mgl64.Vec3
	Rotation() cube.Rotation

	// Teleport moves the entity and reports whether it did. The world may
	// differ from the current one.
	Teleport(w World, pos mgl64.Vec3, rot cube.Rotation) bool
}

// Bound is implemented by entities that are only valid on the logic thread of
// their world, such as a player inside a world transaction. That thread must
// never wait on another world, so teleports into other worlds continue on the
// detached entity, away from the thread.
type Bound interface {
	Entity

	// Detach returns the same entity for use outside any world transaction,
	// or false if it is gone.
	Detach() (Entity, bool)
}

// Player is an Entity with a persistent identity.
type Player interface {
	Entity

	UUID() uuid.UUID
	Health() float64
	InGroup(group string) bool
}

// World answers the block queries the safety search needs.
type World interface {
	Name() string

	// Occupiable reports whether an entity's body may be inside the cell.
	Occupiable(pos cube.Pos) bool

	// Standable reports whether an entity may stand on top of the cell.
	Standable(pos cube.Pos) bool

	// Height returns the collision height of the block in the cell:
	// 0 for air, 1 for a full block, something in between for slabs and the like.
	Height(pos cube.Pos) float64
}

// BatchWorld is implemented by worlds that answer many queries faster at once,
// for example worlds living on another logic thread. Batch calls fn with a World
// that is only valid during the call.
type BatchWorld interface {
	World
	Batch(fn func(w World))
}

// Game looks up worlds and live players.
type Game interface {
	World(name string) (World, bool)

	// Player returns an online player for use outside any world transaction.
	// Its methods may wait on the player's world and must not be called from
	// a world's logic thread.
	Player(id uuid.UUID) (Player, bool)
}
