package expiry

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ivankudzin/sanctionbot/internal/domain/enums"
	"github.com/ivankudzin/sanctionbot/internal/domain/model"
	"github.com/ivankudzin/sanctionbot/internal/infra/metrics"
	"github.com/ivankudzin/sanctionbot/internal/services/audit"
)

const (
	DefaultInterval   = 30 * time.Second
	RoleRemovalReason = "temporary mute expired"
	defaultMuteRole   = "Muted"
)

type Store interface {
	Pending(kind enums.SanctionKind) []model.Sanction
	MarkExpired(kind enums.SanctionKind, id int64) bool
}

type Platform interface {
	Guilds(ctx context.Context) ([]string, error)
	FetchMember(ctx context.Context, guildID, userID string) (model.Member, error)
	FindRoleByName(ctx context.Context, guildID, name string) (model.Role, error)
	RemoveRole(ctx context.Context, guildID, userID, roleID, reason string) error
}

type AttemptResult string

const (
	AttemptRemoved   AttemptResult = "removed"
	AttemptNotMember AttemptResult = "not_member"
	AttemptNoRole    AttemptResult = "no_role"
	AttemptNotHeld   AttemptResult = "not_held"
	AttemptFailed    AttemptResult = "failed"
)

// Attempt is the outcome of reverting one expired mute in one guild.
type Attempt struct {
	SanctionID int64
	GuildID    string
	UserID     string
	Result     AttemptResult
	Err        error
}

type Report struct {
	At       time.Time
	Expired  []model.Sanction
	Attempts []Attempt
	// GuildsErr is set when the guild list could not be fetched; due mutes are still marked expired.
	GuildsErr error
}

func (r Report) Failures() int {
	failures := 0
	for _, attempt := range r.Attempts {
		if attempt.Result == AttemptFailed {
			failures++
		}
	}
	return failures
}

type Job struct {
	store        Store
	platform     Platform
	muteRoleName string
	audit        *audit.Service
	metrics      *metrics.Metrics
	limiter      *rate.Limiter
	now          func() time.Time
	logger       *zap.Logger
}

func New(store Store, platform Platform, muteRoleName string, logger *zap.Logger) *Job {
	if muteRoleName == "" {
		muteRoleName = defaultMuteRole
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Job{
		store:        store,
		platform:     platform,
		muteRoleName: muteRoleName,
		now:          time.Now,
		logger:       logger,
	}
}

func (j *Job) AttachObservability(auditSvc *audit.Service, m *metrics.Metrics) {
	j.audit = auditSvc
	j.metrics = m
}

// Throttle paces the platform calls of role removals. A non-positive limit disables pacing.
func (j *Job) Throttle(limit rate.Limit, burst int) {
	if limit <= 0 {
		j.limiter = nil
		return
	}
	j.limiter = rate.NewLimiter(limit, max(1, burst))
}

// Run performs one sweep. Due mutes have their role removed in every guild and are marked expired
// whatever the removal outcome; due timeouts are only marked.
func (j *Job) Run(ctx context.Context) Report {
	now := j.now()
	report := Report{At: now}
	j.metrics.IncSweepTick()

	due := dueRecords(j.store.Pending(enums.SanctionKindTempMute), now)
	if len(due) > 0 && j.platform != nil {
		guilds, err := j.platform.Guilds(ctx)
		if err != nil {
			report.GuildsErr = err
			j.logger.Warn("list guilds for mute expiry failed", zap.Error(err))
		}
		for _, sanction := range due {
			removed := 0
			for _, guildID := range guilds {
				attempt := j.revertMute(ctx, guildID, sanction)
				if attempt.Result == AttemptRemoved {
					removed++
				}
				report.Attempts = append(report.Attempts, attempt)
			}
			_ = j.audit.LogMuteExpired(ctx, sanction.TargetUserID, sanction.ID, len(guilds), removed)
		}
	}
	for _, sanction := range due {
		j.markExpired(&report, sanction)
	}

	for _, sanction := range dueRecords(j.store.Pending(enums.SanctionKindTimeout), now) {
		j.markExpired(&report, sanction)
	}

	if len(report.Expired) > 0 {
		j.logger.Info("expiry sweep completed",
			zap.Int("expired", len(report.Expired)),
			zap.Int("attempts", len(report.Attempts)),
			zap.Int("failures", report.Failures()),
		)
	}
	return report
}

// Loop runs the job immediately and then on every interval tick until ctx is done.
func (j *Job) Loop(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}

	j.Run(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			j.Run(ctx)
		}
	}
}

func (j *Job) revertMute(ctx context.Context, guildID string, sanction model.Sanction) Attempt {
	attempt := Attempt{SanctionID: sanction.ID, GuildID: guildID, UserID: sanction.TargetUserID}

	if j.limiter != nil {
		if err := j.limiter.Wait(ctx); err != nil {
			attempt.Result, attempt.Err = AttemptFailed, err
			return j.observe(attempt)
		}
	}

	member, err := j.platform.FetchMember(ctx, guildID, sanction.TargetUserID)
	if errors.Is(err, model.ErrNotFound) {
		attempt.Result = AttemptNotMember
		return j.observe(attempt)
	}
	if err != nil {
		attempt.Result, attempt.Err = AttemptFailed, err
		return j.observe(attempt)
	}

	role, err := j.platform.FindRoleByName(ctx, guildID, j.muteRoleName)
	if errors.Is(err, model.ErrNotFound) {
		attempt.Result = AttemptNoRole
		return j.observe(attempt)
	}
	if err != nil {
		attempt.Result, attempt.Err = AttemptFailed, err
		return j.observe(attempt)
	}
	if !member.HasRole(role.ID) {
		attempt.Result = AttemptNotHeld
		return j.observe(attempt)
	}

	if err := j.platform.RemoveRole(ctx, guildID, sanction.TargetUserID, role.ID, RoleRemovalReason); err != nil {
		attempt.Result, attempt.Err = AttemptFailed, err
		return j.observe(attempt)
	}
	attempt.Result = AttemptRemoved
	return j.observe(attempt)
}

func (j *Job) observe(attempt Attempt) Attempt {
	j.metrics.IncRoleRemoval(string(attempt.Result))
	if attempt.Err != nil {
		j.logger.Debug("mute role removal failed",
			zap.String("guild_id", attempt.GuildID),
			zap.String("user_id", attempt.UserID),
			zap.Int64("sanction_id", attempt.SanctionID),
			zap.Error(attempt.Err),
		)
	}
	return attempt
}

func (j *Job) markExpired(report *Report, sanction model.Sanction) {
	if !j.store.MarkExpired(sanction.Kind, sanction.ID) {
		return
	}
	sanction.Expired = true
	report.Expired = append(report.Expired, sanction)
	j.metrics.IncSanctionExpired(string(sanction.Kind))
}

func dueRecords(pending []model.Sanction, now time.Time) []model.Sanction {
	due := make([]model.Sanction, 0, len(pending))
	for _, sanction := range pending {
		if sanction.DueAt(now) {
			due = append(due, sanction)
		}
	}
	return due
}
