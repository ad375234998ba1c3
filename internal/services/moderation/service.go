package moderation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ivankudzin/sanctionbot/internal/domain/enums"
	"github.com/ivankudzin/sanctionbot/internal/domain/model"
	"github.com/ivankudzin/sanctionbot/internal/infra/metrics"
	"github.com/ivankudzin/sanctionbot/internal/services/audit"
)

const noReason = "No reason given"

// Platform is the subset of the chat platform the moderation commands drive.
// Lookups return an error wrapping model.ErrNotFound for unknown members, users, roles or bans.
type Platform interface {
	FetchMember(ctx context.Context, guildID, userID string) (model.Member, error)
	FetchUser(ctx context.Context, userID string) (model.User, error)
	FindRoleByName(ctx context.Context, guildID, name string) (model.Role, error)
	CreateMuteRole(ctx context.Context, guildID, name string) (model.Role, error)
	AddRole(ctx context.Context, guildID, userID, roleID, reason string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID, reason string) error
	SetTimeout(ctx context.Context, guildID, userID string, until *time.Time, reason string) error
	Ban(ctx context.Context, guildID, userID, reason string) error
	Unban(ctx context.Context, guildID, userID, reason string) error
}

type Store interface {
	Insert(model.Sanction) model.Sanction
	FindByUser(userID string) model.UserSanctions
	CountByUser(userID string) int
	DeleteByUser(userID string) int
}

type Service struct {
	store        Store
	platform     Platform
	audit        *audit.Service
	metrics      *metrics.Metrics
	muteRoleName string
	now          func() time.Time
}

func NewService(store Store, platform Platform, auditSvc *audit.Service, m *metrics.Metrics, muteRoleName string) *Service {
	muteRoleName = strings.TrimSpace(muteRoleName)
	if muteRoleName == "" {
		muteRoleName = "Muted"
	}
	return &Service{
		store:        store,
		platform:     platform,
		audit:        auditSvc,
		metrics:      m,
		muteRoleName: muteRoleName,
		now:          time.Now,
	}
}

func (s *Service) MuteRoleName() string {
	return s.muteRoleName
}

type SanctionInput struct {
	GuildID  string
	Actor    Actor
	TargetID string
	Duration string
	Reason   string
}

type RevertInput struct {
	GuildID  string
	Actor    Actor
	TargetID string
	Reason   string
}

func (s *Service) TempMute(ctx context.Context, in SanctionInput) (model.Sanction, error) {
	if err := Authorize(in.Actor, RequireModerate); err != nil {
		return model.Sanction{}, err
	}
	duration, ok := LookupDuration(TempMuteDurations, in.Duration)
	if !ok {
		return model.Sanction{}, fmt.Errorf("%w: unknown tempmute duration %q", ErrInvalidInput, in.Duration)
	}
	if !validReason(TempMuteReasons, in.Reason) {
		return model.Sanction{}, fmt.Errorf("%w: unknown tempmute reason %q", ErrInvalidInput, in.Reason)
	}

	role, err := s.ensureMuteRole(ctx, in.GuildID)
	if err != nil {
		return model.Sanction{}, err
	}
	if err := s.platform.AddRole(ctx, in.GuildID, in.TargetID, role.ID, platformReason("Tempmute", in.Reason, in.Actor)); err != nil {
		return model.Sanction{}, platformFailure("add mute role", err)
	}

	return s.record(ctx, enums.AuditActionTempMute, in.GuildID, model.NewSanction(
		enums.SanctionKindTempMute, in.TargetID, in.Actor.ID, in.Reason, model.DurationPtr(duration.Seconds), s.now(),
	)), nil
}

func (s *Service) Unmute(ctx context.Context, in RevertInput) error {
	if err := Authorize(in.Actor, RequireModerate); err != nil {
		return err
	}

	role, err := s.platform.FindRoleByName(ctx, in.GuildID, s.muteRoleName)
	if errors.Is(err, model.ErrNotFound) {
		return ErrTargetNotSanctioned
	}
	if err != nil {
		return platformFailure("find mute role", err)
	}
	member, err := s.fetchMember(ctx, in.GuildID, in.TargetID)
	if err != nil {
		return err
	}
	if !member.HasRole(role.ID) {
		return ErrTargetNotSanctioned
	}

	if err := s.platform.RemoveRole(ctx, in.GuildID, in.TargetID, role.ID, platformReason("Unmute", reasonOrDefault(in.Reason), in.Actor)); err != nil {
		return platformFailure("remove mute role", err)
	}
	_ = s.audit.LogRevert(ctx, enums.AuditActionUnmute, in.GuildID, in.Actor.ID, in.TargetID, in.Reason)
	return nil
}

func (s *Service) Timeout(ctx context.Context, in SanctionInput) (model.Sanction, error) {
	if err := Authorize(in.Actor, RequireModerate); err != nil {
		return model.Sanction{}, err
	}
	duration, ok := LookupDuration(TimeoutDurations, in.Duration)
	if !ok {
		return model.Sanction{}, fmt.Errorf("%w: unknown timeout duration %q", ErrInvalidInput, in.Duration)
	}
	if !validReason(TimeoutReasons, in.Reason) {
		return model.Sanction{}, fmt.Errorf("%w: unknown timeout reason %q", ErrInvalidInput, in.Reason)
	}

	now := s.now()
	until := now.Add(time.Duration(duration.Seconds) * time.Second)
	if err := s.platform.SetTimeout(ctx, in.GuildID, in.TargetID, &until, platformReason("Timeout", in.Reason, in.Actor)); err != nil {
		return model.Sanction{}, platformFailure("timeout member", err)
	}

	return s.record(ctx, enums.AuditActionTimeout, in.GuildID, model.NewSanction(
		enums.SanctionKindTimeout, in.TargetID, in.Actor.ID, in.Reason, model.DurationPtr(duration.Seconds), now,
	)), nil
}

func (s *Service) Untimeout(ctx context.Context, in RevertInput) error {
	if err := Authorize(in.Actor, RequireModerate); err != nil {
		return err
	}

	member, err := s.fetchMember(ctx, in.GuildID, in.TargetID)
	if err != nil {
		return err
	}
	if !member.TimedOut(s.now()) {
		return ErrTargetNotSanctioned
	}

	if err := s.platform.SetTimeout(ctx, in.GuildID, in.TargetID, nil, platformReason("Untimeout", reasonOrDefault(in.Reason), in.Actor)); err != nil {
		return platformFailure("clear timeout", err)
	}
	_ = s.audit.LogRevert(ctx, enums.AuditActionUntimeout, in.GuildID, in.Actor.ID, in.TargetID, in.Reason)
	return nil
}

func (s *Service) Ban(ctx context.Context, in SanctionInput) (model.Sanction, error) {
	if err := Authorize(in.Actor, RequireBan); err != nil {
		return model.Sanction{}, err
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return model.Sanction{}, fmt.Errorf("%w: ban reason is required", ErrInvalidInput)
	}

	if err := s.platform.Ban(ctx, in.GuildID, in.TargetID, platformReason("Ban", reason, in.Actor)); err != nil {
		return model.Sanction{}, platformFailure("ban member", err)
	}

	return s.record(ctx, enums.AuditActionBan, in.GuildID, model.NewSanction(
		enums.SanctionKindBan, in.TargetID, in.Actor.ID, reason, nil, s.now(),
	)), nil
}

// Unban lifts a ban by raw user id and returns the unbanned user.
func (s *Service) Unban(ctx context.Context, guildID string, actor Actor, rawUserID string) (model.User, error) {
	if err := Authorize(actor, RequireBan); err != nil {
		return model.User{}, err
	}
	userID := strings.TrimSpace(rawUserID)
	if _, err := strconv.ParseUint(userID, 10, 64); err != nil {
		return model.User{}, fmt.Errorf("%w: %q is not a user id", ErrInvalidInput, rawUserID)
	}

	user, err := s.platform.FetchUser(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, ErrTargetNotSanctioned
	}
	if err != nil {
		return model.User{}, platformFailure("fetch user", err)
	}

	err = s.platform.Unban(ctx, guildID, userID, platformReason("Unban", noReason, actor))
	if errors.Is(err, model.ErrNotFound) {
		return user, ErrTargetNotSanctioned
	}
	if err != nil {
		return user, platformFailure("unban user", err)
	}
	_ = s.audit.LogRevert(ctx, enums.AuditActionUnban, guildID, actor.ID, userID, "")
	return user, nil
}

func (s *Service) Warn(ctx context.Context, in SanctionInput) (model.Sanction, error) {
	if err := Authorize(in.Actor, RequireModerate); err != nil {
		return model.Sanction{}, err
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return model.Sanction{}, fmt.Errorf("%w: warn reason is required", ErrInvalidInput)
	}

	return s.record(ctx, enums.AuditActionWarn, in.GuildID, model.NewSanction(
		enums.SanctionKindWarning, in.TargetID, in.Actor.ID, reason, nil, s.now(),
	)), nil
}

// History returns the target's browsable records: active mutes and timeouts plus every ban and warning.
func (s *Service) History(ctx context.Context, guildID string, actor Actor, targetID string) (model.UserSanctions, error) {
	if err := Authorize(actor, RequireModerate); err != nil {
		return model.UserSanctions{}, err
	}
	records := s.store.FindByUser(targetID)
	_ = s.audit.LogViewSanctions(ctx, guildID, actor.ID, targetID, records.Total())
	return records, nil
}

// CountAll counts every record of the target, expired ones included.
func (s *Service) CountAll(actor Actor, targetID string) (int, error) {
	if err := Authorize(actor, RequireAdministrator); err != nil {
		return 0, err
	}
	return s.store.CountByUser(targetID), nil
}

// CanErase checks that actor may confirm an erase view bound to ownerID.
func (s *Service) CanErase(ownerID string, actor Actor) error {
	if actor.ID != ownerID {
		return ErrNotPermittedActor
	}
	return Authorize(actor, RequireAdministrator)
}

// EraseAll deletes every record of the target on behalf of ownerID, the moderator bound to the
// confirmation view, and returns the number of records removed.
func (s *Service) EraseAll(ctx context.Context, guildID, ownerID string, actor Actor, targetID string) (int, error) {
	if err := s.CanErase(ownerID, actor); err != nil {
		return 0, err
	}

	total := s.store.DeleteByUser(targetID)
	s.metrics.AddSanctionsDeleted(total)
	_ = s.audit.LogDeleteSanctions(ctx, guildID, actor.ID, targetID, total)
	return total, nil
}

func (s *Service) record(ctx context.Context, action enums.AuditAction, guildID string, sanction model.Sanction) model.Sanction {
	stored := s.store.Insert(sanction)
	s.metrics.IncSanctionIssued(string(stored.Kind))
	_ = s.audit.LogSanction(ctx, action, guildID, stored.IssuerUserID, stored.TargetUserID, stored)
	return stored
}

func (s *Service) ensureMuteRole(ctx context.Context, guildID string) (model.Role, error) {
	role, err := s.platform.FindRoleByName(ctx, guildID, s.muteRoleName)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.Role{}, fmt.Errorf("%w: %w", ErrRoleProvisioningFailed, err)
	}

	role, err = s.platform.CreateMuteRole(ctx, guildID, s.muteRoleName)
	if err != nil {
		return model.Role{}, fmt.Errorf("%w: %w", ErrRoleProvisioningFailed, err)
	}
	return role, nil
}

func (s *Service) fetchMember(ctx context.Context, guildID, userID string) (model.Member, error) {
	member, err := s.platform.FetchMember(ctx, guildID, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Member{}, ErrTargetNotSanctioned
	}
	if err != nil {
		return model.Member{}, platformFailure("fetch member", err)
	}
	return member, nil
}

func platformFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPlatformOperationFailed, op, err)
}

func platformReason(action, reason string, actor Actor) string {
	by := strings.TrimSpace(actor.Name)
	if by == "" {
		by = actor.ID
	}
	return fmt.Sprintf("%s: %s | By: %s", action, reason, by)
}

func reasonOrDefault(reason string) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return noReason
	}
	return reason
}
