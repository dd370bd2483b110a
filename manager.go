package warps

import (
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/oops"
)

// WarpManager owns the set of warps. The teleport pipeline only reads warps and
// reports visits through it; storing them is up to the implementation.
type WarpManager interface {
	// Get returns the warp with the given name, ignoring case.
	Get(name string) (*Warp, bool)

	// Filter returns all warps matching pred, sorted by name.
	Filter(pred func(*Warp) bool) []*Warp

	// IncrementVisits records an arrival. Implementations may apply the write
	// asynchronously; callers never wait for it.
	IncrementVisits(w *Warp)

	SetCreator(w *Warp, creator uuid.UUID)
	SetWelcomeMessage(w *Warp, msg string)
}

// Executor runs fn, possibly on another goroutine.
type Executor func(fn func())

// MemoryManager is a WarpManager holding all warps in memory.
// Writes are handed to an Executor so a storage layer can be hooked behind it.
type MemoryManager struct {
	// warps maps lower-cased names to warps
	warps map[string]*Warp
	mu    sync.RWMutex

	// exec applies visit increments
	exec Executor
}

// NewMemoryManager creates an empty manager.
// If exec is nil, writes are applied inline.
func NewMemoryManager(exec Executor) *MemoryManager {
	if exec == nil {
		exec = func(fn func()) { fn() }
	}
	return &MemoryManager{
		warps: make(map[string]*Warp),
		exec:  exec,
	}
}

// key normalizes a warp name for lookup.
func key(name string) string {
	return strings.ToLower(name)
}

// Add registers a warp. Names are unique regardless of case.
func (m *MemoryManager) Add(w *Warp) error {
	if w == nil {
		return oops.In("warps").Code("WARP_NIL").Errorf("cannot add nil warp")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	k := key(w.Name())
	if _, ok := m.warps[k]; ok {
		return oops.In("warps").
			Code("WARP_EXISTS").
			With("warp", w.Name()).
			Errorf("warp %q already exists", w.Name())
	}
	m.warps[k] = w
	return nil
}

// Remove deletes a warp by name and reports whether it existed.
func (m *MemoryManager) Remove(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key(name)
	if _, ok := m.warps[k]; !ok {
		return false
	}
	delete(m.warps, k)
	return true
}

// Get returns the warp with the given name, ignoring case.
func (m *MemoryManager) Get(name string) (*Warp, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.warps[key(name)]
	return w, ok
}

// Filter returns all warps matching pred, sorted by name.
// A nil pred matches every warp.
func (m *MemoryManager) Filter(pred func(*Warp) bool) []*Warp {
	m.mu.RLock()
	result := make([]*Warp, 0, len(m.warps))
	for _, w := range m.warps {
		if pred == nil || pred(w) {
			result = append(result, w)
		}
	}
	m.mu.RUnlock()

	slices.SortFunc(result, func(a, b *Warp) int {
		return strings.Compare(key(a.Name()), key(b.Name()))
	})
	return result
}

// All returns every warp, sorted by name.
func (m *MemoryManager) All() []*Warp {
	return m.Filter(nil)
}

// Len returns the number of warps.
func (m *MemoryManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.warps)
}

// IncrementVisits records an arrival through the executor.
func (m *MemoryManager) IncrementVisits(w *Warp) {
	m.exec(w.addVisit)
}

// SetCreator transfers ownership of a warp.
func (m *MemoryManager) SetCreator(w *Warp, creator uuid.UUID) {
	w.setCreator(creator)
}

// SetWelcomeMessage replaces the warp's welcome message.
func (m *MemoryManager) SetWelcomeMessage(w *Warp, msg string) {
	w.setWelcomeMessage(msg)
}
