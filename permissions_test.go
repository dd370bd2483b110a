package warps

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissions_Has(t *testing.T) {
	p := NewPermissions()
	require.NoError(t, p.AddDefault("warps.world-access.*"))
	require.NoError(t, p.SetGroup("admins", "warps.override.**"))
	require.NoError(t, p.SetGroup("vip", "warps.timer.*.vip"))

	steve, alex := uuid.New(), uuid.New()
	p.AddMember("admins", "Steve")
	p.AddMember("vip", alex.String())
	require.NoError(t, p.Grant(alex, "warps.economy.disobey"))

	tests := []struct {
		id   uuid.UUID
		name string
		node string
		want bool
	}{
		{steve, "steve", "warps.world-access.world", true},
		{alex, "alex", "warps.world-access.nether", true},
		{alex, "alex", "warps.world-access.nether.deep", false},
		{steve, "STEVE", PermOverrideModify, true},
		{alex, "alex", PermOverrideModify, false},
		{alex, "alex", TimerTierPermission(Warmup, "vip"), true},
		{alex, "alex", TimerTierPermission(Cooldown, "vip"), true},
		{steve, "steve", TimerTierPermission(Warmup, "vip"), false},
		{alex, "alex", PermEconomyDisobey, true},
		{steve, "steve", PermEconomyDisobey, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Has(tt.id, tt.name, tt.node), "%s %s", tt.name, tt.node)
	}

	p.Revoke(alex)
	assert.False(t, p.Has(alex, "alex", PermEconomyDisobey))
	p.RemoveMember("admins", "steve")
	assert.False(t, p.Has(steve, "steve", PermOverrideModify))
}

func TestPermissions_Groups(t *testing.T) {
	p := NewPermissions()
	id := uuid.New()
	p.AddMember("builders", "Steve")
	p.AddMember("admins", id.String())
	p.AddMember("builders", id.String())

	assert.Equal(t, []string{"admins", "builders"}, p.Groups(id, "steve"))
	assert.True(t, p.InGroup(id, "nobody", "admins"))
	assert.True(t, p.InGroup(uuid.New(), "sTeVe", "builders"))
	assert.False(t, p.InGroup(uuid.New(), "alex", "builders"))
	assert.Empty(t, p.Groups(uuid.New(), "alex"))
}

func TestPermissions_InvalidPattern(t *testing.T) {
	p := NewPermissions()
	assertErrorCode(t, p.AddDefault("warps.[unclosed"), "INVALID_PERMISSION_PATTERN")
	assertErrorCode(t, p.SetGroup("g", "warps.[a-"), "INVALID_PERMISSION_PATTERN")
	assertErrorCode(t, p.Grant(uuid.New(), "[z-a"), "INVALID_PERMISSION_PATTERN")
}

func TestNewPermissionsFromSettings(t *testing.T) {
	p, err := NewPermissionsFromSettings(PermissionSettings{
		Default: []string{"warps.world-access.world"},
		Groups: []PermissionGroup{
			{Name: "staff", Permissions: []string{"warps.override.*"}, Members: []string{"Alex"}},
		},
	})
	require.NoError(t, err)

	id := uuid.New()
	assert.True(t, p.Has(id, "alex", PermOverrideUse))
	assert.True(t, p.Has(id, "bob", WorldAccessPermission("world")))
	assert.False(t, p.Has(id, "bob", PermOverrideUse))

	_, err = NewPermissionsFromSettings(PermissionSettings{
		Groups: []PermissionGroup{{Name: "broken", Permissions: []string{"[oops"}}},
	})
	require.Error(t, err)
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(slog.New(slog.NewTextHandler(&buf, nil)))

	assert.Equal(t, "CONSOLE", c.Name())
	assert.True(t, c.HasPermission(PermOverrideModify))
	c.SendMessage("hello there")
	assert.Contains(t, buf.String(), "hello there")
}
