package discord

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivankudzin/sanctionbot/internal/domain/model"
	"github.com/ivankudzin/sanctionbot/internal/ui"
)

func TestBuildEmbed(t *testing.T) {
	now := time.Date(2026, 6, 1, 8, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	embed := BuildEmbed(ui.Screen{
		Title:        "title",
		Description:  "desc",
		Fields:       []ui.Field{{Name: "a", Value: "b"}},
		Footer:       "page 1/1 • 0 sanction(s)",
		ThumbnailURL: "https://cdn.example/avatar.png",
		Timestamp:    now,
	})

	assert.Equal(t, "title", embed.Title)
	assert.Equal(t, ui.EmbedColor, embed.Color)
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, "b", embed.Fields[0].Value)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "page 1/1 • 0 sanction(s)", embed.Footer.Text)
	require.NotNil(t, embed.Thumbnail)
	assert.Equal(t, "2026-06-01T06:30:00Z", embed.Timestamp)
}

func TestBuildEmbedOmitsEmptyParts(t *testing.T) {
	embed := BuildEmbed(ui.Screen{Description: "only text"})
	assert.Nil(t, embed.Footer)
	assert.Nil(t, embed.Thumbnail)
	assert.Empty(t, embed.Fields)
	assert.Empty(t, embed.Timestamp)
}

func TestBuildComponents(t *testing.T) {
	components := BuildComponents([][]ui.Button{{
		{Label: "⬅️", ID: "hist:s:prev", Disabled: true},
		{Label: "Mutes", ID: "hist:s:cat:mutes", Style: ui.ButtonPrimary},
		{Label: "Delete", ID: "erase:s:confirm", Style: ui.ButtonDanger},
	}})

	require.Len(t, components, 1)
	row, ok := components[0].(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, row.Components, 3)

	prev := row.Components[0].(discordgo.Button)
	assert.True(t, prev.Disabled)
	assert.Equal(t, discordgo.SecondaryButton, prev.Style)
	assert.Equal(t, "hist:s:prev", prev.CustomID)
	assert.Equal(t, discordgo.PrimaryButton, row.Components[1].(discordgo.Button).Style)
	assert.Equal(t, discordgo.DangerButton, row.Components[2].(discordgo.Button).Style)
}

func TestBuildComponentsWithoutRowsIsEmptyNotNil(t *testing.T) {
	components := BuildComponents(nil)
	assert.NotNil(t, components)
	assert.Empty(t, components)
}

func TestMapError(t *testing.T) {
	unknownMember := &discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusNotFound},
		Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMember, Message: "Unknown Member"},
	}
	assert.ErrorIs(t, mapError("fetch member", unknownMember), model.ErrNotFound)

	forbidden := &discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusForbidden},
		Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingPermissions, Message: "Missing Permissions"},
	}
	err := mapError("ban member", forbidden)
	assert.NotErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, err, model.ErrForbidden)

	assert.NoError(t, mapError("noop", nil))
	assert.NotErrorIs(t, mapError("x", errors.New("boom")), model.ErrNotFound)
}

func TestOptionUserFallsBackToID(t *testing.T) {
	in := Interaction{
		Options:  map[string]string{"user": "42", "target": "7"},
		Resolved: map[string]model.User{"7": {ID: "7", Username: "seven", Mention: "<@7>"}},
	}

	user, ok := in.OptionUser("target")
	require.True(t, ok)
	assert.Equal(t, "seven", user.Username)

	user, ok = in.OptionUser("user")
	require.True(t, ok)
	assert.Equal(t, "<@42>", user.Mention)

	_, ok = in.OptionUser("missing")
	assert.False(t, ok)
}

func TestInteractionHasPermission(t *testing.T) {
	in := Interaction{Permissions: discordgo.PermissionModerateMembers | discordgo.PermissionSendMessages}
	assert.True(t, in.Has(discordgo.PermissionModerateMembers))
	assert.False(t, in.Has(discordgo.PermissionBanMembers))
}

func TestDryRunClient(t *testing.T) {
	client, err := NewClient(Options{}, nil, func(_ context.Context, _ Interaction) {})
	require.NoError(t, err)
	assert.True(t, client.DryRun())

	guilds, err := client.Guilds(context.Background())
	require.NoError(t, err)
	assert.Empty(t, guilds)
	assert.NoError(t, client.Respond(context.Background(), Interaction{}, ui.Screen{}, true))
	assert.Error(t, client.Ban(context.Background(), "g", "u", "r"))
}
