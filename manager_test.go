package warps

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryManager_AddGetRemove(t *testing.T) {
	m := NewMemoryManager(nil)
	spawn := NewWarp("Spawn", "world", mgl64.Vec3{})

	require.NoError(t, m.Add(spawn))
	assertErrorCode(t, m.Add(NewWarp("SPAWN", "world", mgl64.Vec3{})), "WARP_EXISTS")
	assertErrorCode(t, m.Add(nil), "WARP_NIL")
	assert.Equal(t, 1, m.Len())

	got, ok := m.Get("spawn")
	require.True(t, ok)
	assert.Same(t, spawn, got)

	assert.True(t, m.Remove("sPaWn"))
	assert.False(t, m.Remove("spawn"))
	_, ok = m.Get("Spawn")
	assert.False(t, ok)
}

func TestMemoryManager_Filter(t *testing.T) {
	m := NewMemoryManager(nil)
	for _, name := range []string{"beta", "Alpha", "gamma"} {
		require.NoError(t, m.Add(NewWarp(name, "world", mgl64.Vec3{})))
	}

	all := m.All()
	require.Len(t, all, 3)
	assert.Equal(t, "Alpha", all[0].Name())
	assert.Equal(t, "beta", all[1].Name())
	assert.Equal(t, "gamma", all[2].Name())

	short := m.Filter(func(w *Warp) bool { return len(w.Name()) == 4 })
	require.Len(t, short, 1)
	assert.Equal(t, "beta", short[0].Name())
}

func TestMemoryManager_Mutations(t *testing.T) {
	m := NewMemoryManager(nil)
	w := NewWarp("spawn", "world", mgl64.Vec3{}, WithVisits(41))
	require.NoError(t, m.Add(w))

	m.IncrementVisits(w)
	assert.Equal(t, 42, w.Visits())

	owner := uuid.New()
	m.SetCreator(w, owner)
	assert.True(t, w.IsCreator(owner))

	m.SetWelcomeMessage(w, "hi")
	assert.Equal(t, "hi", w.WelcomeMessage())
}
