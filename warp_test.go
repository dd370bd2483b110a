package warps

import (
	"testing"
	"time"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewWarp(t *testing.T) {
	creator := uuid.New()
	created := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
	w := NewWarp("home", "world", mgl64.Vec3{1, 2, 3},
		WithCreator(creator),
		WithVisibility(Private),
		WithRotation(cube.Rotation{180, -20}),
		WithWelcomeMessage("welcome home"),
		WithInvitedGroups("family", "friends"),
		WithCreated(created),
	)

	assert.Equal(t, "home", w.Name())
	assert.Equal(t, "world", w.World())
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, w.Position())
	assert.Equal(t, cube.Rotation{180, -20}, w.Rotation())
	assert.Equal(t, created, w.Created())
	assert.True(t, w.IsCreator(creator))
	assert.False(t, w.IsPublic())
	assert.Equal(t, "welcome home", w.WelcomeMessage())
	assert.Equal(t, []string{"family", "friends"}, w.InvitedGroups())
	assert.Zero(t, w.Visits())
}

func TestWarp_Invitations(t *testing.T) {
	w := NewWarp("home", "world", mgl64.Vec3{})
	id := uuid.New()

	assert.True(t, w.IsPublic())
	w.SetVisibility(Private)
	assert.False(t, w.IsPublic())

	w.InvitePlayer(id)
	w.InviteGroup("friends")
	assert.True(t, w.IsPlayerInvited(id))
	assert.True(t, w.IsGroupInvited("friends"))
	assert.False(t, w.IsGroupInvited("enemies"))

	w.UninvitePlayer(id)
	w.UninviteGroup("friends")
	assert.False(t, w.IsPlayerInvited(id))
	assert.Empty(t, w.InvitedGroups())
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "public", Public.String())
	assert.Equal(t, "private", Private.String())
	assert.Equal(t, "warmup", Warmup.String())
	assert.Equal(t, "cooldown", Cooldown.String())
	assert.Equal(t, "none", StatusNone.String())
	assert.Equal(t, "original", StatusOriginal.String())
	assert.Equal(t, "modified", StatusModified.String())
	assert.False(t, StatusNone.Teleported())
	assert.True(t, StatusOriginal.Teleported())
	assert.True(t, StatusModified.Teleported())
}
