package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/ivankudzin/sanctionbot/internal/ui"
)

type InteractionHandler func(context.Context, Interaction)

type Options struct {
	Token    string
	AppID    string
	GuildID  string
	Commands []*discordgo.ApplicationCommand
}

type Client struct {
	session  *discordgo.Session
	logger   *zap.Logger
	handler  InteractionHandler
	appID    string
	guildID  string
	commands []*discordgo.ApplicationCommand
	dryRun   bool
}

func NewClient(opts Options, logger *zap.Logger, handler InteractionHandler) (*Client, error) {
	if handler == nil {
		return nil, errors.New("discord interaction handler is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := &Client{
		logger:   logger,
		handler:  handler,
		appID:    strings.TrimSpace(opts.AppID),
		guildID:  strings.TrimSpace(opts.GuildID),
		commands: opts.Commands,
	}

	token := strings.TrimSpace(opts.Token)
	if token == "" {
		client.dryRun = true
		return client, nil
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers
	client.session = session
	return client, nil
}

func (c *Client) DryRun() bool {
	return c.dryRun
}

// Start opens the gateway, registers slash commands and dispatches interactions until ctx is done.
func (c *Client) Start(ctx context.Context) error {
	if c.dryRun {
		c.logger.Warn("TOKEN is empty, running in dry mode")
		<-ctx.Done()
		return nil
	}

	remove := c.session.AddHandler(func(_ *discordgo.Session, event *discordgo.InteractionCreate) {
		if event == nil || event.Interaction == nil {
			return
		}
		c.handler(ctx, newInteraction(event.Interaction))
	})
	defer remove()

	c.session.AddHandler(func(_ *discordgo.Session, ready *discordgo.Ready) {
		c.logger.Info("discord session ready",
			zap.String("user", ready.User.Username),
			zap.Int("guilds", len(ready.Guilds)),
		)
	})

	if err := c.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	defer func() {
		if err := c.session.Close(); err != nil {
			c.logger.Warn("close discord session failed", zap.Error(err))
		}
	}()

	if err := c.registerCommands(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}

func (c *Client) registerCommands(ctx context.Context) error {
	if len(c.commands) == 0 {
		return nil
	}
	appID := c.appID
	if appID == "" && c.session.State != nil && c.session.State.User != nil {
		appID = c.session.State.User.ID
	}
	if appID == "" {
		return errors.New("discord application id is unknown")
	}

	registered, err := c.session.ApplicationCommandBulkOverwrite(appID, c.guildID, c.commands, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("register slash commands: %w", err)
	}
	c.logger.Info("slash commands registered", zap.Int("count", len(registered)), zap.String("guild_id", c.guildID))
	return nil
}

// Respond answers an interaction with a new message.
func (c *Client) Respond(ctx context.Context, in Interaction, screen ui.Screen, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{
		Embeds:     []*discordgo.MessageEmbed{BuildEmbed(screen)},
		Components: BuildComponents(screen.Rows),
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return c.respond(ctx, in, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// Update re-renders the message the interaction's component belongs to.
func (c *Client) Update(ctx context.Context, in Interaction, screen ui.Screen) error {
	return c.respond(ctx, in, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{BuildEmbed(screen)},
			Components: BuildComponents(screen.Rows),
		},
	})
}

func (c *Client) respond(ctx context.Context, in Interaction, response *discordgo.InteractionResponse) error {
	if c.dryRun || in.raw == nil {
		return nil
	}
	if err := c.session.InteractionRespond(in.raw, response, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("respond to interaction: %w", err)
	}
	return nil
}
