package warps

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

// fakeWorld is a block grid where every cell is either air or solid.
type fakeWorld struct {
	name string

	mu         sync.Mutex
	air        map[cube.Pos]bool
	defaultAir bool
	heights    map[cube.Pos]float64
	queries    []cube.Pos
}

// newSolidWorld returns a world filled with solid blocks.
func newSolidWorld(name string) *fakeWorld {
	return &fakeWorld{
		name:    name,
		air:     make(map[cube.Pos]bool),
		heights: make(map[cube.Pos]float64),
	}
}

// newAirWorld returns a world with a solid floor below y=64 and air above.
func newAirWorld(name string) *fakeWorld {
	w := newSolidWorld(name)
	w.defaultAir = true
	return w
}

// carve makes p a safe cell: p and the cell above become air, the cell below
// solid.
func (w *fakeWorld) carve(p cube.Pos) *fakeWorld {
	w.air[p] = true
	w.air[p.Side(cube.FaceUp)] = true
	w.air[p.Side(cube.FaceDown)] = false
	return w
}

func (w *fakeWorld) isAir(p cube.Pos) bool {
	if v, ok := w.air[p]; ok {
		return v
	}
	if w.defaultAir {
		return p.Y() >= 64
	}
	return false
}

func (w *fakeWorld) Name() string {
	return w.name
}

func (w *fakeWorld) Occupiable(p cube.Pos) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.queries = append(w.queries, p)
	return w.isAir(p)
}

func (w *fakeWorld) Standable(p cube.Pos) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.queries = append(w.queries, p)
	return !w.isAir(p)
}

func (w *fakeWorld) Height(p cube.Pos) float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	if h, ok := w.heights[p]; ok {
		return h
	}
	if w.isAir(p) {
		return 0
	}
	return 1
}

func (w *fakeWorld) queried() []cube.Pos {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]cube.Pos(nil), w.queries...)
}

func (w *fakeWorld) resetQueries() {
	w.mu.Lock()
	w.queries = nil
	w.mu.Unlock()
}

// fakeActor is an Actor without a place in a world, like the console.
type fakeActor struct {
	name  string
	perms map[string]bool

	mu       sync.Mutex
	messages []string
}

func newFakeActor(name string, perms ...string) *fakeActor {
	a := &fakeActor{name: name, perms: make(map[string]bool)}
	for _, p := range perms {
		a.perms[p] = true
	}
	return a
}

func (a *fakeActor) Name() string { return a.name }

func (a *fakeActor) HasPermission(node string) bool { return a.perms[node] }

func (a *fakeActor) Locale() language.Tag { return language.English }

func (a *fakeActor) SendMessage(text string) {
	a.mu.Lock()
	a.messages = append(a.messages, text)
	a.mu.Unlock()
}

// fakeEntity is an Entity that is not a player.
type fakeEntity struct {
	*fakeActor

	mu        sync.Mutex
	world     World
	pos       mgl64.Vec3
	rot       cube.Rotation
	teleports int
	refuse    bool
}

func newFakeEntity(name string, w World, pos mgl64.Vec3, perms ...string) *fakeEntity {
	return &fakeEntity{fakeActor: newFakeActor(name, perms...), world: w, pos: pos}
}

func (e *fakeEntity) World() World {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.world
}

func (e *fakeEntity) Position() mgl64.Vec3 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pos
}

func (e *fakeEntity) Rotation() cube.Rotation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rot
}

func (e *fakeEntity) Teleport(w World, pos mgl64.Vec3, rot cube.Rotation) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.refuse {
		return false
	}
	e.world, e.pos, e.rot = w, pos, rot
	e.teleports++
	return true
}

// refuseTeleports makes every following Teleport fail.
func (e *fakeEntity) refuseTeleports() {
	e.mu.Lock()
	e.refuse = true
	e.mu.Unlock()
}

// moveTo changes the position without counting a teleport.
func (e *fakeEntity) moveTo(pos mgl64.Vec3) {
	e.mu.Lock()
	e.pos = pos
	e.mu.Unlock()
}

func (e *fakeEntity) teleportCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.teleports
}

// fakePlayer is a Player.
type fakePlayer struct {
	*fakeEntity

	id     uuid.UUID
	groups map[string]bool
	health float64
}

func newFakePlayer(name string, w World, pos mgl64.Vec3, perms ...string) *fakePlayer {
	return &fakePlayer{
		fakeEntity: newFakeEntity(name, w, pos, perms...),
		id:         uuid.New(),
		groups:     make(map[string]bool),
		health:     20,
	}
}

func (p *fakePlayer) UUID() uuid.UUID { return p.id }

func (p *fakePlayer) Health() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.health
}

func (p *fakePlayer) setHealth(h float64) {
	p.mu.Lock()
	p.health = h
	p.mu.Unlock()
}

func (p *fakePlayer) InGroup(group string) bool { return p.groups[group] }

// boundPlayer is a fakePlayer only valid on the logic thread of its world,
// like a player inside a Dragonfly transaction. Detach hands out the player
// itself.
type boundPlayer struct {
	*fakePlayer

	gone     bool
	detached atomic.Int32
}

func newBoundPlayer(p *fakePlayer) *boundPlayer {
	return &boundPlayer{fakePlayer: p}
}

func (b *boundPlayer) Detach() (Entity, bool) {
	if b.gone {
		return nil, false
	}
	b.detached.Add(1)
	return b.fakePlayer, true
}

// fakeGame holds fake worlds and players.
type fakeGame struct {
	mu      sync.Mutex
	worlds  map[string]World
	players map[uuid.UUID]*fakePlayer
}

func newFakeGame(worlds ...World) *fakeGame {
	g := &fakeGame{
		worlds:  make(map[string]World),
		players: make(map[uuid.UUID]*fakePlayer),
	}
	for _, w := range worlds {
		g.worlds[w.Name()] = w
	}
	return g
}

func (g *fakeGame) join(p *fakePlayer) *fakePlayer {
	g.mu.Lock()
	g.players[p.id] = p
	g.mu.Unlock()
	return p
}

func (g *fakeGame) quit(p *fakePlayer) {
	g.mu.Lock()
	delete(g.players, p.id)
	g.mu.Unlock()
}

func (g *fakeGame) World(name string) (World, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	w, ok := g.worlds[name]
	return w, ok
}

func (g *fakeGame) Player(id uuid.UUID) (Player, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.players[id]
	if !ok {
		return nil, false
	}
	return p, true
}

// notification is a message recorded by recordingNotifier.
type notification struct {
	actor Actor
	msg   Message
	args  []any
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *recordingNotifier) Notify(a Actor, _ language.Tag, msg Message, args ...any) {
	n.mu.Lock()
	n.sent = append(n.sent, notification{actor: a, msg: msg, args: args})
	n.mu.Unlock()
}

func (n *recordingNotifier) messages() []Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	msgs := make([]Message, len(n.sent))
	for i, s := range n.sent {
		msgs[i] = s.msg
	}
	return msgs
}

func (n *recordingNotifier) last() notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return notification{msg: -1}
	}
	return n.sent[len(n.sent)-1]
}

// fakeWallet keeps balances by actor name.
type fakeWallet struct {
	mu          sync.Mutex
	balances    map[string]float64
	balanceErr  error
	withdrawErr error
}

func newFakeWallet() *fakeWallet {
	return &fakeWallet{balances: make(map[string]float64)}
}

func (w *fakeWallet) set(name string, amount float64) *fakeWallet {
	w.mu.Lock()
	w.balances[name] = amount
	w.mu.Unlock()
	return w
}

func (w *fakeWallet) balance(name string) float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balances[name]
}

func (w *fakeWallet) Balance(a Actor) (float64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.balanceErr != nil {
		return 0, w.balanceErr
	}
	return w.balances[a.Name()], nil
}

func (w *fakeWallet) Withdraw(a Actor, amount float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.withdrawErr != nil {
		return w.withdrawErr
	}
	w.balances[a.Name()] -= amount
	return nil
}

// fakeEconomy charges a flat amount per teleport.
type fakeEconomy struct {
	wallet *fakeWallet
	amount float64
}

func (e fakeEconomy) HasAtLeast(a Actor, _ Fee) bool {
	b, err := e.wallet.Balance(a)
	return err == nil && b >= e.amount
}

func (e fakeEconomy) Withdraw(a Actor, _ Fee) error {
	return e.wallet.Withdraw(a, e.amount)
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// assertErrorCode asserts that err is an oops error with the given code.
func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T", err)
	assert.Equal(t, code, oopsErr.Code())
}

// fixedDurations returns the same durations for every player.
type fixedDurations struct {
	warmup, cooldown time.Duration
}

func (d fixedDurations) Duration(_ Player, kind TimerKind) time.Duration {
	if kind == Cooldown {
		return d.cooldown
	}
	return d.warmup
}
