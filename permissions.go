package warps

import (
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
	"github.com/samber/oops"
	"golang.org/x/text/language"
)

// compiledPermission holds a permission pattern and its compiled glob.
type compiledPermission struct {
	pattern string
	glob    glob.Glob
}

func compilePermission(pattern string) (compiledPermission, error) {
	// Nodes are dot separated: * matches one segment, ** any number of them.
	g, err := glob.Compile(pattern, '.')
	if err != nil {
		return compiledPermission{}, oops.In("permissions").
			Code("INVALID_PERMISSION_PATTERN").
			With("pattern", pattern).
			Wrap(err)
	}
	return compiledPermission{pattern: pattern, glob: g}, nil
}

func matchAny(perms []compiledPermission, node string) bool {
	for _, p := range perms {
		if p.glob.Match(node) {
			return true
		}
	}
	return false
}

// Permissions is a permission store for Dragonfly servers, which have none of
// their own. Permissions are granted to everyone, to groups, or to single
// players. Group members are player names (any case) or UUIDs.
type Permissions struct {
	mu       sync.RWMutex
	defaults []compiledPermission
	groups   map[string][]compiledPermission
	members  map[string]map[string]struct{} // member → groups
	grants   map[uuid.UUID][]compiledPermission
}

// NewPermissions creates an empty store.
func NewPermissions() *Permissions {
	return &Permissions{
		groups:  make(map[string][]compiledPermission),
		members: make(map[string]map[string]struct{}),
		grants:  make(map[uuid.UUID][]compiledPermission),
	}
}

// NewPermissionsFromSettings creates a store holding the configured defaults
// and groups.
//
// Returns error if any permission pattern fails to compile.
func NewPermissionsFromSettings(s PermissionSettings) (*Permissions, error) {
	p := NewPermissions()
	for _, pattern := range s.Default {
		if err := p.AddDefault(pattern); err != nil {
			return nil, err
		}
	}
	for _, g := range s.Groups {
		if err := p.SetGroup(g.Name, g.Permissions...); err != nil {
			return nil, oops.In("permissions").With("group", g.Name).Wrap(err)
		}
		for _, m := range g.Members {
			p.AddMember(g.Name, m)
		}
	}
	return p, nil
}

// memberKey normalizes names and UUIDs used as group members.
func memberKey(member string) string {
	return strings.ToLower(member)
}

// AddDefault grants pattern to everyone.
func (p *Permissions) AddDefault(pattern string) error {
	c, err := compilePermission(pattern)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.defaults = append(p.defaults, c)
	p.mu.Unlock()
	return nil
}

// SetGroup creates or replaces a group's permissions. Members are kept.
func (p *Permissions) SetGroup(name string, patterns ...string) error {
	compiled := make([]compiledPermission, 0, len(patterns))
	for _, pattern := range patterns {
		c, err := compilePermission(pattern)
		if err != nil {
			return err
		}
		compiled = append(compiled, c)
	}
	p.mu.Lock()
	p.groups[name] = compiled
	p.mu.Unlock()
	return nil
}

// AddMember adds a player name or UUID to a group.
func (p *Permissions) AddMember(group, member string) {
	k := memberKey(member)
	p.mu.Lock()
	if p.members[k] == nil {
		p.members[k] = make(map[string]struct{})
	}
	p.members[k][group] = struct{}{}
	p.mu.Unlock()
}

// RemoveMember removes a player name or UUID from a group.
func (p *Permissions) RemoveMember(group, member string) {
	k := memberKey(member)
	p.mu.Lock()
	delete(p.members[k], group)
	if len(p.members[k]) == 0 {
		delete(p.members, k)
	}
	p.mu.Unlock()
}

// Grant grants pattern to a single player.
func (p *Permissions) Grant(id uuid.UUID, pattern string) error {
	c, err := compilePermission(pattern)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.grants[id] = append(p.grants[id], c)
	p.mu.Unlock()
	return nil
}

// Revoke removes every permission granted to the player directly.
func (p *Permissions) Revoke(id uuid.UUID) {
	p.mu.Lock()
	delete(p.grants, id)
	p.mu.Unlock()
}

// Groups returns the groups of a player in sorted order.
func (p *Permissions) Groups(id uuid.UUID, name string) []string {
	p.mu.RLock()
	var groups []string
	for _, k := range []string{memberKey(id.String()), memberKey(name)} {
		for g := range p.members[k] {
			groups = append(groups, g)
		}
	}
	p.mu.RUnlock()

	slices.Sort(groups)
	return slices.Compact(groups)
}

// InGroup reports whether the player is a member of group.
func (p *Permissions) InGroup(id uuid.UUID, name, group string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, k := range []string{memberKey(id.String()), memberKey(name)} {
		if _, ok := p.members[k][group]; ok {
			return true
		}
	}
	return false
}

// Has reports whether the player holds node through the defaults, a group or a
// direct grant.
func (p *Permissions) Has(id uuid.UUID, name, node string) bool {
	groups := p.Groups(id, name)

	p.mu.RLock()
	defer p.mu.RUnlock()
	if matchAny(p.defaults, node) || matchAny(p.grants[id], node) {
		return true
	}
	for _, g := range groups {
		if matchAny(p.groups[g], node) {
			return true
		}
	}
	return false
}

// Console is the Actor for commands run from the server console.
// It holds every permission.
type Console struct {
	logger *slog.Logger
}

// NewConsole creates a console actor printing messages to logger.
// A nil logger uses slog.Default().
func NewConsole(logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	return &Console{logger: logger}
}

// Name implements Actor.
func (c *Console) Name() string {
	return "CONSOLE"
}

// HasPermission implements Actor.
func (c *Console) HasPermission(string) bool {
	return true
}

// Locale implements Actor.
func (c *Console) Locale() language.Tag {
	return language.English
}

// SendMessage implements Actor.
func (c *Console) SendMessage(text string) {
	c.logger.Info(text)
}
