package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/ivankudzin/sanctionbot/internal/ui"
)

func BuildEmbed(screen ui.Screen) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       screen.Title,
		Description: screen.Description,
		Color:       ui.EmbedColor,
	}
	if len(screen.Fields) > 0 {
		embed.Fields = make([]*discordgo.MessageEmbedField, 0, len(screen.Fields))
		for _, field := range screen.Fields {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: field.Name, Value: field.Value})
		}
	}
	if screen.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: screen.Footer}
	}
	if screen.ThumbnailURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: screen.ThumbnailURL}
	}
	if !screen.Timestamp.IsZero() {
		embed.Timestamp = screen.Timestamp.UTC().Format(time.RFC3339)
	}
	return embed
}

// BuildComponents always returns a non-nil slice so that an update without rows clears old buttons.
func BuildComponents(rows [][]ui.Button) []discordgo.MessageComponent {
	components := make([]discordgo.MessageComponent, 0, len(rows))
	for _, row := range rows {
		buttons := make([]discordgo.MessageComponent, 0, len(row))
		for _, button := range row {
			buttons = append(buttons, discordgo.Button{
				Label:    button.Label,
				Style:    buttonStyle(button.Style),
				CustomID: button.ID,
				Disabled: button.Disabled,
			})
		}
		components = append(components, discordgo.ActionsRow{Components: buttons})
	}
	return components
}

func buttonStyle(style ui.ButtonStyle) discordgo.ButtonStyle {
	switch style {
	case ui.ButtonPrimary:
		return discordgo.PrimaryButton
	case ui.ButtonDanger:
		return discordgo.DangerButton
	default:
		return discordgo.SecondaryButton
	}
}
