package warps

// Permission nodes checked by the authorization chain.
const (
	PermOverrideModify = "warps.override.modify"
	PermOverrideUse    = "warps.override.use"
	PermOverrideView   = "warps.override.view"

	permWorldAccess = "warps.world-access."
)

// WorldAccessPermission returns the node granting access to warps in a world.
func WorldAccessPermission(world string) string {
	return permWorldAccess + world
}

// AuthorizationStrategy is one layer of the authorization chain.
// A layer either answers true on its own or defers to the layer it wraps.
type AuthorizationStrategy interface {
	IsModifiable(w *Warp, a Actor) bool
	IsUsable(w *Warp, e Entity) bool
	IsViewable(w *Warp, a Actor) bool
}

// permissionStrategy grants everything an override permission covers.
// Each override implies the weaker ones so modify ⇒ use ⇒ view always holds.
type permissionStrategy struct {
	inner AuthorizationStrategy
}

func (s permissionStrategy) IsModifiable(w *Warp, a Actor) bool {
	return a.HasPermission(PermOverrideModify) || s.inner.IsModifiable(w, a)
}

func (s permissionStrategy) IsUsable(w *Warp, e Entity) bool {
	return e.HasPermission(PermOverrideModify) ||
		e.HasPermission(PermOverrideUse) ||
		s.inner.IsUsable(w, e)
}

func (s permissionStrategy) IsViewable(w *Warp, a Actor) bool {
	if a.HasPermission(PermOverrideModify) || a.HasPermission(PermOverrideUse) || a.HasPermission(PermOverrideView) {
		return true
	}
	if e, ok := a.(Entity); ok {
		return s.IsUsable(w, e)
	}
	return s.inner.IsViewable(w, a)
}

// worldAccessStrategy denies entities without access to the warp's world.
// It gates modification as well as use: a warp an entity may modify but not
// use would break the ordering of the three decisions.
type worldAccessStrategy struct {
	inner   AuthorizationStrategy
	game    Game
	enabled bool
}

func (s worldAccessStrategy) allowed(w *Warp, e Entity) bool {
	if !s.enabled {
		return true
	}
	if _, ok := s.game.World(w.World()); !ok {
		return false
	}
	return e.HasPermission(WorldAccessPermission(w.World()))
}

func (s worldAccessStrategy) IsModifiable(w *Warp, a Actor) bool {
	if e, ok := a.(Entity); ok && !s.allowed(w, e) {
		return false
	}
	return s.inner.IsModifiable(w, a)
}

func (s worldAccessStrategy) IsUsable(w *Warp, e Entity) bool {
	return s.allowed(w, e) && s.inner.IsUsable(w, e)
}

func (s worldAccessStrategy) IsViewable(w *Warp, a Actor) bool {
	if e, ok := a.(Entity); ok {
		return s.IsUsable(w, e)
	}
	return s.inner.IsViewable(w, a)
}

// propertyStrategy decides from the warp itself: ownership, invitations, visibility.
type propertyStrategy struct{}

func (s propertyStrategy) IsModifiable(w *Warp, a Actor) bool {
	p, ok := a.(Player)
	return ok && w.IsCreator(p.UUID())
}

func (s propertyStrategy) IsUsable(w *Warp, e Entity) bool {
	if w.IsPublic() || s.IsModifiable(w, e) {
		return true
	}
	p, ok := e.(Player)
	if !ok {
		return false
	}
	if w.IsPlayerInvited(p.UUID()) {
		return true
	}
	for _, g := range w.InvitedGroups() {
		if p.InGroup(g) {
			return true
		}
	}
	return false
}

func (s propertyStrategy) IsViewable(w *Warp, a Actor) bool {
	if e, ok := a.(Entity); ok {
		return s.IsUsable(w, e)
	}
	return w.IsPublic()
}

// AuthorizationResolver answers who may modify, use and view a warp.
// For every warp and actor, IsModifiable implies IsUsable implies IsViewable.
type AuthorizationResolver struct {
	strategy AuthorizationStrategy
}

// NewAuthorizationResolver builds the chain permission override → world access →
// warp properties. World access is only enforced when worldAccess is true.
func NewAuthorizationResolver(game Game, worldAccess bool) *AuthorizationResolver {
	return &AuthorizationResolver{
		strategy: permissionStrategy{
			inner: worldAccessStrategy{
				inner:   propertyStrategy{},
				game:    game,
				enabled: worldAccess,
			},
		},
	}
}

// IsModifiable reports whether a may change or delete w.
func (r *AuthorizationResolver) IsModifiable(w *Warp, a Actor) bool {
	return r.strategy.IsModifiable(w, a)
}

// IsUsable reports whether e may teleport to w.
func (r *AuthorizationResolver) IsUsable(w *Warp, e Entity) bool {
	return r.strategy.IsUsable(w, e)
}

// IsViewable reports whether a may see w in listings.
func (r *AuthorizationResolver) IsViewable(w *Warp, a Actor) bool {
	return r.strategy.IsViewable(w, a)
}

// ModifiablePredicate returns a filter selecting the warps a may modify.
func (r *AuthorizationResolver) ModifiablePredicate(a Actor) func(*Warp) bool {
	return func(w *Warp) bool { return r.IsModifiable(w, a) }
}

// UsablePredicate returns a filter selecting the warps e may use.
func (r *AuthorizationResolver) UsablePredicate(e Entity) func(*Warp) bool {
	return func(w *Warp) bool { return r.IsUsable(w, e) }
}

// ViewablePredicate returns a filter selecting the warps a may view.
func (r *AuthorizationResolver) ViewablePredicate(a Actor) func(*Warp) bool {
	return func(w *Warp) bool { return r.IsViewable(w, a) }
}
