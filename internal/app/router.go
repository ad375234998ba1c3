package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/ivankudzin/sanctionbot/internal/domain/enums"
	"github.com/ivankudzin/sanctionbot/internal/domain/model"
	"github.com/ivankudzin/sanctionbot/internal/infra/discord"
	"github.com/ivankudzin/sanctionbot/internal/services/moderation"
	"github.com/ivankudzin/sanctionbot/internal/ui"
)

const (
	outcomeOK       = "ok"
	outcomeDenied   = "denied"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// replyError carries the text shown to the moderator alongside the underlying error.
type replyError struct {
	text string
	err  error
}

func (e *replyError) Error() string { return e.err.Error() }
func (e *replyError) Unwrap() error { return e.err }

func withReply(err error, text string) error {
	return &replyError{text: text, err: err}
}

func (a *App) routeInteraction(ctx context.Context, in discord.Interaction) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("interaction handler panicked",
				zap.Any("panic", r),
				zap.String("command", in.Command),
				zap.String("custom_id", in.CustomID),
			)
			_ = a.reply(ctx, in, ui.TextUnexpectedError, true)
		}
	}()

	switch in.Kind {
	case discord.KindCommand:
		a.handleCommand(ctx, in)
	case discord.KindComponent:
		a.handleComponent(ctx, in)
	}
}

func (a *App) handleCommand(ctx context.Context, in discord.Interaction) {
	var err error
	switch in.Command {
	case commandTempMute:
		err = a.handleTempMute(ctx, in)
	case commandUnmute:
		err = a.handleUnmute(ctx, in)
	case commandTimeout:
		err = a.handleTimeout(ctx, in)
	case commandUntimeout:
		err = a.handleUntimeout(ctx, in)
	case commandBan:
		err = a.handleBan(ctx, in)
	case commandUnban:
		err = a.handleUnban(ctx, in)
	case commandWarn:
		err = a.handleWarn(ctx, in)
	case commandSanctions:
		err = a.handleSanctions(ctx, in)
	case commandDelSanction:
		err = a.handleDelSanction(ctx, in)
	case commandHelp:
		err = a.respond(ctx, in, ui.HelpScreen(), true)
	default:
		err = a.reply(ctx, in, ui.TextCommandUnavailable, true)
	}

	a.finish(ctx, in, in.Command, err)
}

func (a *App) finish(ctx context.Context, in discord.Interaction, label string, err error) {
	if err == nil {
		a.metrics.IncCommand(label, outcomeOK)
		return
	}

	a.metrics.IncCommand(label, outcomeOf(err))
	a.logger.Warn("interaction failed",
		zap.String("command", label),
		zap.String("guild_id", in.GuildID),
		zap.String("actor_id", in.User.ID),
		zap.String("target_id", in.Option(optionUser)),
		zap.Error(err),
	)
	if replyErr := a.reply(ctx, in, errorText(err), true); replyErr != nil {
		a.logger.Warn("send error reply failed", zap.Error(replyErr))
	}
}

func (a *App) handleTempMute(ctx context.Context, in discord.Interaction) error {
	target, err := requireUser(in)
	if err != nil {
		return err
	}
	duration, reason := in.Option(optionDuration), in.Option(optionReason)

	_, err = a.moderationService.TempMute(ctx, moderation.SanctionInput{
		GuildID:  in.GuildID,
		Actor:    actorFrom(in),
		TargetID: target.ID,
		Duration: duration,
		Reason:   reason,
	})
	if err != nil {
		if errors.Is(err, model.ErrForbidden) {
			return withReply(err, ui.PlatformRefused("mute", target.Mention))
		}
		return err
	}
	return a.reply(ctx, in, ui.TempMuted(target.Mention, duration, reason), false)
}

func (a *App) handleUnmute(ctx context.Context, in discord.Interaction) error {
	target, err := requireUser(in)
	if err != nil {
		return err
	}
	reason := in.Option(optionReason)

	err = a.moderationService.Unmute(ctx, moderation.RevertInput{
		GuildID:  in.GuildID,
		Actor:    actorFrom(in),
		TargetID: target.ID,
		Reason:   reason,
	})
	if errors.Is(err, moderation.ErrTargetNotSanctioned) {
		return withReply(err, ui.NotMuted(target.Mention))
	}
	if err != nil {
		return err
	}
	return a.reply(ctx, in, ui.Unmuted(target.Mention, reason), false)
}

func (a *App) handleTimeout(ctx context.Context, in discord.Interaction) error {
	target, err := requireUser(in)
	if err != nil {
		return err
	}
	duration, reason := in.Option(optionDuration), in.Option(optionReason)

	_, err = a.moderationService.Timeout(ctx, moderation.SanctionInput{
		GuildID:  in.GuildID,
		Actor:    actorFrom(in),
		TargetID: target.ID,
		Duration: duration,
		Reason:   reason,
	})
	if err != nil {
		if errors.Is(err, model.ErrForbidden) {
			return withReply(err, ui.PlatformRefused("time out", target.Mention))
		}
		return err
	}
	return a.reply(ctx, in, ui.TimedOut(target.Mention, duration, reason), false)
}

func (a *App) handleUntimeout(ctx context.Context, in discord.Interaction) error {
	target, err := requireUser(in)
	if err != nil {
		return err
	}
	reason := in.Option(optionReason)

	err = a.moderationService.Untimeout(ctx, moderation.RevertInput{
		GuildID:  in.GuildID,
		Actor:    actorFrom(in),
		TargetID: target.ID,
		Reason:   reason,
	})
	if errors.Is(err, moderation.ErrTargetNotSanctioned) {
		return withReply(err, ui.NotTimedOut(target.Mention))
	}
	if err != nil {
		return err
	}
	return a.reply(ctx, in, ui.Untimedout(target.Mention, reason), false)
}

func (a *App) handleBan(ctx context.Context, in discord.Interaction) error {
	target, err := requireUser(in)
	if err != nil {
		return err
	}
	reason := in.Option(optionReason)

	_, err = a.moderationService.Ban(ctx, moderation.SanctionInput{
		GuildID:  in.GuildID,
		Actor:    actorFrom(in),
		TargetID: target.ID,
		Reason:   reason,
	})
	if err != nil {
		if errors.Is(err, model.ErrForbidden) {
			return withReply(err, ui.PlatformRefused("ban", target.Mention))
		}
		return err
	}
	return a.reply(ctx, in, ui.Banned(target.Mention, reason), false)
}

func (a *App) handleUnban(ctx context.Context, in discord.Interaction) error {
	user, err := a.moderationService.Unban(ctx, in.GuildID, actorFrom(in), in.Option(optionUserID))
	switch {
	case errors.Is(err, moderation.ErrInvalidInput):
		return withReply(err, ui.TextInvalidUserID)
	case errors.Is(err, moderation.ErrTargetNotSanctioned):
		return withReply(err, ui.TextUnbanNotFound)
	case err != nil:
		return err
	}
	return a.reply(ctx, in, ui.Unbanned(user.Mention), false)
}

func (a *App) handleWarn(ctx context.Context, in discord.Interaction) error {
	target, err := requireUser(in)
	if err != nil {
		return err
	}
	reason := in.Option(optionReason)

	_, err = a.moderationService.Warn(ctx, moderation.SanctionInput{
		GuildID:  in.GuildID,
		Actor:    actorFrom(in),
		TargetID: target.ID,
		Reason:   reason,
	})
	if err != nil {
		return err
	}
	return a.reply(ctx, in, ui.Warned(target.Mention, reason), false)
}

func (a *App) handleSanctions(ctx context.Context, in discord.Interaction) error {
	target, err := requireUser(in)
	if err != nil {
		return err
	}
	actor := actorFrom(in)

	records, err := a.moderationService.History(ctx, in.GuildID, actor, target.ID)
	if err != nil {
		return err
	}
	if records.Empty() {
		return a.reply(ctx, in, ui.NoSanctions(target.Mention), true)
	}

	view := &historyView{guildID: in.GuildID, browser: ui.NewHistoryBrowser(target, actor.ID, records)}
	sessionID := a.histories.Open(view)
	return a.respond(ctx, in, view.browser.Render(sessionID, a.now(), ui.MentionLabel), false)
}

func (a *App) handleDelSanction(ctx context.Context, in discord.Interaction) error {
	target, err := requireUser(in)
	if err != nil {
		return err
	}
	actor := actorFrom(in)

	total, err := a.moderationService.CountAll(actor, target.ID)
	if err != nil {
		return err
	}

	sessionID := a.erasures.Open(&eraseView{guildID: in.GuildID, ownerID: actor.ID, target: target})
	return a.respond(ctx, in, ui.EraseConfirmScreen(target, total, sessionID, a.now()), false)
}

func (a *App) handleComponent(ctx context.Context, in discord.Interaction) {
	ref, ok := ui.ParseComponentID(in.CustomID)
	if !ok {
		a.logger.Debug("ignoring unknown component", zap.String("custom_id", in.CustomID))
		return
	}

	var err error
	switch ref.Prefix {
	case ui.ComponentPrefixHistory:
		err = a.handleHistoryComponent(ctx, in, ref)
	case ui.ComponentPrefixErase:
		err = a.handleEraseComponent(ctx, in, ref)
	default:
		a.logger.Debug("ignoring unknown component prefix", zap.String("custom_id", in.CustomID))
		return
	}
	a.finish(ctx, in, ref.Prefix+":"+ref.Action, err)
}

func (a *App) handleHistoryComponent(ctx context.Context, in discord.Interaction, ref ui.ComponentRef) error {
	view, ok := a.histories.Get(ref.SessionID)
	if !ok {
		return moderation.ErrViewExpired
	}

	view.mu.Lock()
	defer view.mu.Unlock()

	if in.User.ID != view.browser.ModeratorID {
		return moderation.ErrNotPermittedActor
	}

	switch ref.Action {
	case ui.ActionPrevious:
		view.browser.Previous()
	case ui.ActionNext:
		view.browser.Next()
	case ui.ActionCategory:
		category, ok := enums.ParseHistoryCategory(ref.Arg)
		if !ok {
			return fmt.Errorf("%w: unknown category %q", moderation.ErrInvalidInput, ref.Arg)
		}
		view.browser.SwitchCategory(category)
	default:
		return fmt.Errorf("%w: unknown history action %q", moderation.ErrInvalidInput, ref.Action)
	}

	a.histories.Touch(ref.SessionID, view)
	return a.update(ctx, in, view.browser.Render(ref.SessionID, a.now(), ui.MentionLabel))
}

func (a *App) handleEraseComponent(ctx context.Context, in discord.Interaction, ref ui.ComponentRef) error {
	if ref.Action != ui.ActionConfirm {
		return fmt.Errorf("%w: unknown erase action %q", moderation.ErrInvalidInput, ref.Action)
	}
	view, ok := a.erasures.Get(ref.SessionID)
	if !ok {
		return moderation.ErrViewExpired
	}

	actor := actorFrom(in)
	if err := a.moderationService.CanErase(view.ownerID, actor); err != nil {
		return err
	}
	// only the press that closes the view erases; a concurrent second press finds it gone
	if !a.erasures.Close(ref.SessionID) {
		return moderation.ErrViewExpired
	}

	removed, err := a.moderationService.EraseAll(ctx, view.guildID, view.ownerID, actor, view.target.ID)
	if err != nil {
		return err
	}
	return a.update(ctx, in, ui.ErasedScreen(view.target, removed, a.now()))
}

func (a *App) reply(ctx context.Context, in discord.Interaction, text string, ephemeral bool) error {
	return a.respond(ctx, in, ui.Reply(text, a.now()), ephemeral)
}

func (a *App) respond(ctx context.Context, in discord.Interaction, screen ui.Screen, ephemeral bool) error {
	return a.responder.Respond(ctx, in, screen, ephemeral)
}

func (a *App) update(ctx context.Context, in discord.Interaction, screen ui.Screen) error {
	return a.responder.Update(ctx, in, screen)
}

func requireUser(in discord.Interaction) (model.User, error) {
	target, ok := in.OptionUser(optionUser)
	if !ok {
		return target, fmt.Errorf("%w: user option is required", moderation.ErrInvalidInput)
	}
	return target, nil
}

func actorFrom(in discord.Interaction) moderation.Actor {
	return moderation.Actor{
		ID:            in.User.ID,
		Name:          in.User.Username,
		CanModerate:   in.Has(discordgo.PermissionModerateMembers),
		CanBan:        in.Has(discordgo.PermissionBanMembers),
		Administrator: in.Has(discordgo.PermissionAdministrator),
	}
}

func errorText(err error) string {
	var replyErr *replyError
	switch {
	case errors.As(err, &replyErr):
		return replyErr.text
	case errors.Is(err, moderation.ErrPermissionDenied):
		return ui.TextPermissionDenied
	case errors.Is(err, moderation.ErrNotPermittedActor):
		return ui.TextNotAllowed
	case errors.Is(err, moderation.ErrViewExpired):
		return ui.TextViewExpired
	case errors.Is(err, moderation.ErrRoleProvisioningFailed):
		return ui.TextMuteRoleFailed
	case errors.Is(err, moderation.ErrInvalidInput):
		return ui.TextInvalidInput
	case errors.Is(err, moderation.ErrPlatformOperationFailed):
		return ui.PlatformFailed(err)
	default:
		return ui.TextUnexpectedError
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, moderation.ErrPermissionDenied), errors.Is(err, moderation.ErrNotPermittedActor):
		return outcomeDenied
	case errors.Is(err, moderation.ErrTargetNotSanctioned),
		errors.Is(err, moderation.ErrInvalidInput),
		errors.Is(err, moderation.ErrViewExpired):
		return outcomeRejected
	default:
		return outcomeFailed
	}
}
