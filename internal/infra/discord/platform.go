package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/ivankudzin/sanctionbot/internal/domain/model"
)

var errDryRun = errors.New("discord client is in dry mode")

const muteRoleDeny = discordgo.PermissionSendMessages | discordgo.PermissionVoiceSpeak | discordgo.PermissionAddReactions

func (c *Client) Guilds(_ context.Context) ([]string, error) {
	if c.dryRun {
		return []string{}, nil
	}
	state := c.session.State
	state.RLock()
	defer state.RUnlock()

	ids := make([]string, 0, len(state.Guilds))
	for _, guild := range state.Guilds {
		ids = append(ids, guild.ID)
	}
	return ids, nil
}

func (c *Client) FetchMember(ctx context.Context, guildID, userID string) (model.Member, error) {
	if c.dryRun {
		return model.Member{}, errDryRun
	}
	member, err := c.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return model.Member{}, mapError("fetch member", err)
	}
	return convertMember(guildID, member), nil
}

func (c *Client) FetchUser(ctx context.Context, userID string) (model.User, error) {
	if c.dryRun {
		return model.User{}, errDryRun
	}
	user, err := c.session.User(userID, discordgo.WithContext(ctx))
	if err != nil {
		return model.User{}, mapError("fetch user", err)
	}
	return convertUser(user), nil
}

func (c *Client) FindRoleByName(ctx context.Context, guildID, name string) (model.Role, error) {
	if c.dryRun {
		return model.Role{}, errDryRun
	}
	roles, err := c.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return model.Role{}, mapError("list roles", err)
	}
	for _, role := range roles {
		if role.Name == name {
			return model.Role{ID: role.ID, Name: role.Name}, nil
		}
	}
	return model.Role{}, fmt.Errorf("role %q: %w", name, model.ErrNotFound)
}

// CreateMuteRole creates a permissionless role and denies speaking in every text and voice channel.
// Channels that refuse the overwrite are skipped.
func (c *Client) CreateMuteRole(ctx context.Context, guildID, name string) (model.Role, error) {
	if c.dryRun {
		return model.Role{}, errDryRun
	}
	var noPermissions int64
	role, err := c.session.GuildRoleCreate(guildID, &discordgo.RoleParams{
		Name:        name,
		Permissions: &noPermissions,
	}, discordgo.WithContext(ctx), discordgo.WithAuditLogReason("Mute role provisioning"))
	if err != nil {
		return model.Role{}, mapError("create mute role", err)
	}

	channels, err := c.session.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		c.logger.Warn("list channels for mute role failed", zap.String("guild_id", guildID), zap.Error(err))
		return model.Role{ID: role.ID, Name: role.Name}, nil
	}
	for _, channel := range channels {
		if channel.Type != discordgo.ChannelTypeGuildText && channel.Type != discordgo.ChannelTypeGuildVoice {
			continue
		}
		err := c.session.ChannelPermissionSet(channel.ID, role.ID, discordgo.PermissionOverwriteTypeRole, 0, muteRoleDeny, discordgo.WithContext(ctx))
		if err != nil {
			c.logger.Debug("mute role overwrite skipped",
				zap.String("guild_id", guildID),
				zap.String("channel_id", channel.ID),
				zap.Error(err),
			)
		}
	}
	return model.Role{ID: role.ID, Name: role.Name}, nil
}

func (c *Client) AddRole(ctx context.Context, guildID, userID, roleID, reason string) error {
	if c.dryRun {
		return errDryRun
	}
	err := c.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
	return mapError("add role", err)
}

func (c *Client) RemoveRole(ctx context.Context, guildID, userID, roleID, reason string) error {
	if c.dryRun {
		return errDryRun
	}
	err := c.session.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
	return mapError("remove role", err)
}

// SetTimeout applies a communication timeout until the given instant; nil clears it.
func (c *Client) SetTimeout(ctx context.Context, guildID, userID string, until *time.Time, reason string) error {
	if c.dryRun {
		return errDryRun
	}
	err := c.session.GuildMemberTimeout(guildID, userID, until, discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
	return mapError("set timeout", err)
}

func (c *Client) Ban(ctx context.Context, guildID, userID, reason string) error {
	if c.dryRun {
		return errDryRun
	}
	err := c.session.GuildBanCreateWithReason(guildID, userID, reason, 0, discordgo.WithContext(ctx))
	return mapError("ban member", err)
}

func (c *Client) Unban(ctx context.Context, guildID, userID, reason string) error {
	if c.dryRun {
		return errDryRun
	}
	err := c.session.GuildBanDelete(guildID, userID, discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
	return mapError("unban user", err)
}

// mapError classifies REST failures as model.ErrNotFound or model.ErrForbidden where possible.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		if restErr.Message != nil {
			switch restErr.Message.Code {
			case discordgo.ErrCodeUnknownMember, discordgo.ErrCodeUnknownUser, discordgo.ErrCodeUnknownBan, discordgo.ErrCodeUnknownRole:
				return fmt.Errorf("%s: %w: %v", op, model.ErrNotFound, err)
			}
		}
		if restErr.Response != nil {
			switch restErr.Response.StatusCode {
			case http.StatusNotFound:
				return fmt.Errorf("%s: %w: %v", op, model.ErrNotFound, err)
			case http.StatusForbidden:
				return fmt.Errorf("%s: %w: %v", op, model.ErrForbidden, err)
			}
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func convertMember(guildID string, member *discordgo.Member) model.Member {
	out := model.Member{GuildID: guildID, RoleIDs: append([]string(nil), member.Roles...)}
	if member.User != nil {
		user := convertUser(member.User)
		out.UserID = user.ID
		out.Username = user.Username
		out.Mention = user.Mention
		out.AvatarURL = user.AvatarURL
	}
	if member.CommunicationDisabledUntil != nil {
		until := *member.CommunicationDisabledUntil
		out.TimedOutUntil = &until
	}
	return out
}

func convertUser(user *discordgo.User) model.User {
	if user == nil {
		return model.User{}
	}
	return model.User{
		ID:        user.ID,
		Username:  user.Username,
		Mention:   user.Mention(),
		AvatarURL: user.AvatarURL(""),
	}
}
