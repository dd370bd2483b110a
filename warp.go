package warps

import (
	"slices"
	"sync"
	"time"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Visibility controls who can see and use a warp without an invitation.
type Visibility uint8

const (
	// Public warps are usable by everyone with access to their world.
	Public Visibility = iota
	// Private warps are usable by their creator and invited players or groups.
	Private
)

// String returns the string representation of the visibility.
func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Private:
		return "private"
	default:
		return "unknown"
	}
}

// Warp is a named teleport destination.
// Location data is immutable; ownership, invitations and counters are guarded by mu.
type Warp struct {
	name     string
	world    string
	position mgl64.Vec3
	rotation cube.Rotation
	created  time.Time

	mu             sync.RWMutex
	creator        uuid.UUID
	visibility     Visibility
	invitedPlayers map[uuid.UUID]struct{}
	invitedGroups  map[string]struct{}
	welcome        string
	visits         int
}

// WarpOption configures a warp created by NewWarp.
type WarpOption func(*Warp)

// WithCreator sets the player that owns the warp.
func WithCreator(id uuid.UUID) WarpOption {
	return func(w *Warp) {
		w.creator = id
	}
}

// WithVisibility sets the warp's visibility. Warps are public by default.
func WithVisibility(v Visibility) WarpOption {
	return func(w *Warp) {
		w.visibility = v
	}
}

// WithRotation sets the yaw and pitch entities face after arriving.
func WithRotation(rot cube.Rotation) WarpOption {
	return func(w *Warp) {
		w.rotation = rot
	}
}

// WithWelcomeMessage sets the message shown after arriving.
func WithWelcomeMessage(msg string) WarpOption {
	return func(w *Warp) {
		w.welcome = msg
	}
}

// WithInvitedPlayers invites players to the warp.
func WithInvitedPlayers(ids ...uuid.UUID) WarpOption {
	return func(w *Warp) {
		for _, id := range ids {
			w.invitedPlayers[id] = struct{}{}
		}
	}
}

// WithInvitedGroups invites permission groups to the warp.
func WithInvitedGroups(groups ...string) WarpOption {
	return func(w *Warp) {
		for _, g := range groups {
			w.invitedGroups[g] = struct{}{}
		}
	}
}

// WithCreated sets the creation time. Defaults to time.Now.
func WithCreated(t time.Time) WarpOption {
	return func(w *Warp) {
		w.created = t
	}
}

// WithVisits sets the initial visit counter, e.g. when loading a stored warp.
func WithVisits(n int) WarpOption {
	return func(w *Warp) {
		w.visits = n
	}
}

// NewWarp creates a warp at pos in the named world.
func NewWarp(name, world string, pos mgl64.Vec3, opts ...WarpOption) *Warp {
	w := &Warp{
		name:           name,
		world:          world,
		position:       pos,
		created:        time.Now(),
		invitedPlayers: make(map[uuid.UUID]struct{}),
		invitedGroups:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Name returns the warp's name.
func (w *Warp) Name() string {
	return w.name
}

// World returns the name of the warp's world.
func (w *Warp) World() string {
	return w.world
}

// Position returns the stored position.
func (w *Warp) Position() mgl64.Vec3 {
	return w.position
}

// Rotation returns the stored rotation.
func (w *Warp) Rotation() cube.Rotation {
	return w.rotation
}

// Created returns the creation time.
func (w *Warp) Created() time.Time {
	return w.created
}

// Creator returns the warp owner's identity.
func (w *Warp) Creator() uuid.UUID {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.creator
}

// IsCreator reports whether id owns the warp.
func (w *Warp) IsCreator(id uuid.UUID) bool {
	return w.Creator() == id
}

// Visibility returns the warp's visibility.
func (w *Warp) Visibility() Visibility {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.visibility
}

// IsPublic reports whether the warp is public.
func (w *Warp) IsPublic() bool {
	return w.Visibility() == Public
}

// SetVisibility changes the warp's visibility.
func (w *Warp) SetVisibility(v Visibility) {
	w.mu.Lock()
	w.visibility = v
	w.mu.Unlock()
}

// IsPlayerInvited reports whether the player was invited individually.
func (w *Warp) IsPlayerInvited(id uuid.UUID) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.invitedPlayers[id]
	return ok
}

// IsGroupInvited reports whether the group was invited.
func (w *Warp) IsGroupInvited(group string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.invitedGroups[group]
	return ok
}

// InvitedGroups returns the invited groups in sorted order.
func (w *Warp) InvitedGroups() []string {
	w.mu.RLock()
	groups := make([]string, 0, len(w.invitedGroups))
	for g := range w.invitedGroups {
		groups = append(groups, g)
	}
	w.mu.RUnlock()

	slices.Sort(groups)
	return groups
}

// InvitePlayer invites a player.
func (w *Warp) InvitePlayer(id uuid.UUID) {
	w.mu.Lock()
	w.invitedPlayers[id] = struct{}{}
	w.mu.Unlock()
}

// UninvitePlayer removes a player's invitation.
func (w *Warp) UninvitePlayer(id uuid.UUID) {
	w.mu.Lock()
	delete(w.invitedPlayers, id)
	w.mu.Unlock()
}

// InviteGroup invites a group.
func (w *Warp) InviteGroup(group string) {
	w.mu.Lock()
	w.invitedGroups[group] = struct{}{}
	w.mu.Unlock()
}

// UninviteGroup removes a group's invitation.
func (w *Warp) UninviteGroup(group string) {
	w.mu.Lock()
	delete(w.invitedGroups, group)
	w.mu.Unlock()
}

// WelcomeMessage returns the message shown after arriving, or "".
func (w *Warp) WelcomeMessage() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.welcome
}

// Visits returns how often entities arrived at the warp.
func (w *Warp) Visits() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.visits
}

func (w *Warp) setCreator(id uuid.UUID) {
	w.mu.Lock()
	w.creator = id
	w.mu.Unlock()
}

func (w *Warp) setWelcomeMessage(msg string) {
	w.mu.Lock()
	w.welcome = msg
	w.mu.Unlock()
}

func (w *Warp) addVisit() {
	w.mu.Lock()
	w.visits++
	w.mu.Unlock()
}
