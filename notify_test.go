package warps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestPrinterNotifier_English(t *testing.T) {
	n := NewPrinterNotifier()

	tests := []struct {
		msg  Message
		args []any
		want string
	}{
		{MessageWarmupStarted, []any{"spawn", 5}, "You will be teleported to spawn in 5 seconds. Don't move."},
		{MessageCooldownRunning, []any{3}, "You need to wait 3 more seconds before you can teleport again."},
		{MessageWarmupCancelledMove, nil, "Teleport cancelled because you moved."},
		{MessageInsufficientFunds, []any{"spawn"}, "You cannot afford to use spawn."},
		{MessageUnsafeLocation, []any{"cave"}, "The location of cave is unsafe."},
		{MessageWelcome, []any{"Hello!"}, "Hello!"},
	}
	for _, tt := range tests {
		t.Run(tt.msg.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, n.Format(language.English, tt.msg, tt.args...))
		})
	}
}

func TestPrinterNotifier_Fallback(t *testing.T) {
	n := NewPrinterNotifier()

	for _, tag := range []language.Tag{
		language.Japanese,
		language.German,
		language.BritishEnglish,
		language.Und,
		language.MustParse("pt-BR"),
	} {
		assert.Equal(t, "You will be teleported to spawn in 5 seconds. Don't move.",
			n.Format(tag, MessageWarmupStarted, "spawn", 5), tag.String())
	}
}

func TestPrinterNotifier_SetTemplate(t *testing.T) {
	n := NewPrinterNotifier()

	// Warm the printer cache first.
	assert.Equal(t, "You can teleport again.", n.Format(language.German, MessageCooldownEnded))

	require.NoError(t, n.SetTemplate(language.German, MessageCooldownEnded, "Du kannst dich wieder teleportieren."))
	assert.Equal(t, "Du kannst dich wieder teleportieren.", n.Format(language.German, MessageCooldownEnded))
	assert.Equal(t, "You can teleport again.", n.Format(language.English, MessageCooldownEnded))

	// Regional variants pick up the base translation, other keys still fall back.
	de := language.MustParse("de-AT")
	assert.Equal(t, "Du kannst dich wieder teleportieren.", n.Format(de, MessageCooldownEnded))
	assert.Equal(t, "The world of nether is not loaded.", n.Format(de, MessageWorldMissing, "nether"))

	// English overrides reach locales that do not translate the message.
	require.NoError(t, n.SetTemplate(language.English, MessageWorldMissing, "%s is offline."))
	assert.Equal(t, "nether is offline.", n.Format(de, MessageWorldMissing, "nether"))
	require.NoError(t, n.SetTemplate(language.English, MessageCooldownEnded, "Ready."))
	assert.Equal(t, "Du kannst dich wieder teleportieren.", n.Format(de, MessageCooldownEnded))

	assertErrorCode(t, n.SetTemplate(language.German, messageCount, "x"), "UNKNOWN_MESSAGE")
}

func TestPrinterNotifier_Notify(t *testing.T) {
	a := newFakeActor("a")
	notify(NewPrinterNotifier(), a, MessageUnsafeLocation, "spawn")
	assert.Equal(t, []string{"The location of spawn is unsafe."}, a.messages)

	assert.NotPanics(t, func() { notify(nil, a, MessageCooldownEnded) })
}

func TestNewPrinterNotifier_Templates(t *testing.T) {
	var n *PrinterNotifier
	require.NotPanics(t, func() { n = NewPrinterNotifier() })
	for m := Message(0); m < messageCount; m++ {
		assert.NotEqual(t, m.String(), n.Format(language.English, m, "x", 1), m.String())
	}
}

func TestMessage_KeysUnique(t *testing.T) {
	seen := make(map[string]Message)
	for m := Message(0); m < messageCount; m++ {
		k := m.String()
		require.NotEqual(t, "unknown", k)
		_, dup := seen[k]
		require.False(t, dup, "duplicate key %s", k)
		seen[k] = m
		assert.NotEmpty(t, englishTemplates[m])
	}
}
