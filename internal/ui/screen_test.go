package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ivankudzin/sanctionbot/internal/domain/model"
)

func TestComponentIDRoundTrip(t *testing.T) {
	ref, ok := ParseComponentID(ComponentID(ComponentPrefixHistory, "abc", ActionCategory, "bans"))
	assert.True(t, ok)
	assert.Equal(t, ComponentRef{Prefix: "hist", SessionID: "abc", Action: "cat", Arg: "bans"}, ref)

	ref, ok = ParseComponentID("erase:abc:confirm")
	assert.True(t, ok)
	assert.Empty(t, ref.Arg)

	for _, raw := range []string{"", "hist", "hist:abc", "hist::next", "a:b:c:d:e"} {
		_, ok := ParseComponentID(raw)
		assert.False(t, ok, raw)
	}
}

func TestEraseScreens(t *testing.T) {
	target := model.User{ID: "u1", Mention: "<@u1>", AvatarURL: "https://cdn.example/a.png"}
	now := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)

	confirm := EraseConfirmScreen(target, 4, "s9", now)
	assert.Contains(t, confirm.Description, "Total: 4 sanction(s)")
	assert.Equal(t, target.AvatarURL, confirm.ThumbnailURL)
	assert.Equal(t, "erase:s9:confirm", confirm.Rows[0][0].ID)
	assert.Equal(t, ButtonDanger, confirm.Rows[0][0].Style)

	done := ErasedScreen(target, 4, now)
	assert.Equal(t, "✅ 4 sanction(s) deleted for <@u1>", done.Description)
	assert.Empty(t, done.Rows)
}

func TestOptionalReason(t *testing.T) {
	assert.Equal(t, "<@u1> has been unmuted", Unmuted("<@u1>", ""))
	assert.Equal(t, "<@u1> is no longer timed out for calm", Untimedout("<@u1>", "calm"))
}

func TestHelpListsEveryCommand(t *testing.T) {
	screen := HelpScreen()
	assert.Len(t, screen.Fields, 9)
	assert.Contains(t, screen.Fields[8].Name, "/delsanction")
}
