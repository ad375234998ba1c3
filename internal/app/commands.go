package app

import (
	"github.com/bwmarrin/discordgo"

	"github.com/ivankudzin/sanctionbot/internal/services/moderation"
)

const (
	commandTempMute    = "tempmute"
	commandUnmute      = "unmute"
	commandTimeout     = "timeout"
	commandUntimeout   = "untimeout"
	commandBan         = "ban"
	commandUnban       = "unban"
	commandWarn        = "warn"
	commandSanctions   = "sanctions"
	commandDelSanction = "delsanction"
	commandHelp        = "help"
)

const (
	optionUser     = "user"
	optionDuration = "duration"
	optionReason   = "reason"
	optionUserID   = "userid"
)

func slashCommands() []*discordgo.ApplicationCommand {
	moderate := int64(discordgo.PermissionModerateMembers)
	ban := int64(discordgo.PermissionBanMembers)
	admin := int64(discordgo.PermissionAdministrator)
	guildOnly := false

	return []*discordgo.ApplicationCommand{
		{
			Name:                     commandTempMute,
			Description:              "Temporarily mute a member",
			DefaultMemberPermissions: &moderate,
			DMPermission:             &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to mute"),
				durationOption(moderation.TempMuteDurations),
				reasonChoiceOption(moderation.TempMuteReasons),
			},
		},
		{
			Name:                     commandUnmute,
			Description:              "Remove the mute role from a member",
			DefaultMemberPermissions: &moderate,
			DMPermission:             &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to unmute"),
				reasonTextOption(false),
			},
		},
		{
			Name:                     commandTimeout,
			Description:              "Time out a member",
			DefaultMemberPermissions: &moderate,
			DMPermission:             &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to time out"),
				durationOption(moderation.TimeoutDurations),
				reasonChoiceOption(moderation.TimeoutReasons),
			},
		},
		{
			Name:                     commandUntimeout,
			Description:              "Lift a member's timeout",
			DefaultMemberPermissions: &moderate,
			DMPermission:             &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to release"),
				reasonTextOption(false),
			},
		},
		{
			Name:                     commandBan,
			Description:              "Ban a member",
			DefaultMemberPermissions: &ban,
			DMPermission:             &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to ban"),
				reasonTextOption(true),
			},
		},
		{
			Name:                     commandUnban,
			Description:              "Unban a user by id",
			DefaultMemberPermissions: &ban,
			DMPermission:             &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        optionUserID,
				Description: "Id of the banned user",
				Required:    true,
			}},
		},
		{
			Name:                     commandWarn,
			Description:              "Warn a member",
			DefaultMemberPermissions: &moderate,
			DMPermission:             &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to warn"),
				reasonTextOption(true),
			},
		},
		{
			Name:                     commandSanctions,
			Description:              "Browse a member's sanctions",
			DefaultMemberPermissions: &moderate,
			DMPermission:             &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to inspect"),
			},
		},
		{
			Name:                     commandDelSanction,
			Description:              "Delete every sanction of a member",
			DefaultMemberPermissions: &admin,
			DMPermission:             &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member whose sanctions are deleted"),
			},
		},
		{
			Name:        commandHelp,
			Description: "List the moderation commands",
		},
	}
}

func userOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        optionUser,
		Description: description,
		Required:    true,
	}
}

func durationOption(choices []moderation.DurationChoice) *discordgo.ApplicationCommandOption {
	option := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        optionDuration,
		Description: "Duration",
		Required:    true,
		Choices:     make([]*discordgo.ApplicationCommandOptionChoice, 0, len(choices)),
	}
	for _, choice := range choices {
		option.Choices = append(option.Choices, &discordgo.ApplicationCommandOptionChoice{Name: choice.Label, Value: choice.Label})
	}
	return option
}

func reasonChoiceOption(reasons []string) *discordgo.ApplicationCommandOption {
	option := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        optionReason,
		Description: "Reason",
		Required:    true,
		Choices:     make([]*discordgo.ApplicationCommandOptionChoice, 0, len(reasons)),
	}
	for _, reason := range reasons {
		option.Choices = append(option.Choices, &discordgo.ApplicationCommandOptionChoice{Name: reason, Value: reason})
	}
	return option
}

func reasonTextOption(required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        optionReason,
		Description: "Reason",
		Required:    required,
	}
}
