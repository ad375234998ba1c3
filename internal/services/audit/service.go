package audit

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/ivankudzin/sanctionbot/internal/domain/enums"
	"github.com/ivankudzin/sanctionbot/internal/domain/model"
)

type Repo interface {
	Save(context.Context, model.Audit) error
	ListRecent(context.Context, int) ([]model.Audit, error)
}

type Service struct {
	repo   Repo
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repo, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		logger: logger.Named("audit"),
		now:    time.Now,
	}
}

func (s *Service) LogSanction(ctx context.Context, action enums.AuditAction, guildID, actorID, targetID string, sanction model.Sanction) error {
	data := map[string]interface{}{
		"kind":   string(sanction.Kind),
		"id":     sanction.ID,
		"reason": sanction.Reason,
	}
	if sanction.DurationSec != nil {
		data["duration_sec"] = *sanction.DurationSec
	}
	return s.logWithPayload(ctx, action, guildID, actorID, targetID, data)
}

func (s *Service) LogRevert(ctx context.Context, action enums.AuditAction, guildID, actorID, targetID, reason string) error {
	return s.logWithPayload(ctx, action, guildID, actorID, targetID, map[string]interface{}{
		"reason": reason,
	})
}

func (s *Service) LogViewSanctions(ctx context.Context, guildID, actorID, targetID string, total int) error {
	return s.logWithPayload(ctx, enums.AuditActionViewSanctions, guildID, actorID, targetID, map[string]interface{}{
		"total": total,
	})
}

func (s *Service) LogDeleteSanctions(ctx context.Context, guildID, actorID, targetID string, removed int) error {
	return s.logWithPayload(ctx, enums.AuditActionDeleteSanctions, guildID, actorID, targetID, map[string]interface{}{
		"removed": removed,
	})
}

func (s *Service) LogMuteExpired(ctx context.Context, targetID string, sanctionID int64, attempts, removed int) error {
	return s.logWithPayload(ctx, enums.AuditActionMuteExpired, "", "", targetID, map[string]interface{}{
		"id":       sanctionID,
		"attempts": attempts,
		"removed":  removed,
	})
}

func (s *Service) ListRecent(ctx context.Context, limit int) ([]model.Audit, error) {
	if s.repo == nil {
		return []model.Audit{}, nil
	}
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListRecent(ctx, limit)
}

func (s *Service) logWithPayload(ctx context.Context, action enums.AuditAction, guildID, actorID, targetID string, data map[string]interface{}) error {
	if s == nil {
		return nil
	}

	payload, err := json.Marshal(data)
	if err != nil {
		payload = json.RawMessage(`{}`)
	}

	entry := model.Audit{
		GuildID:   guildID,
		ActorID:   actorID,
		TargetID:  targetID,
		Action:    action,
		Payload:   payload,
		CreatedAt: s.now().UTC(),
	}
	s.logger.Info("moderation action",
		zap.String("action", string(action)),
		zap.String("guild_id", guildID),
		zap.String("actor_id", actorID),
		zap.String("target_id", targetID),
		zap.ByteString("payload", payload),
	)

	if s.repo == nil {
		return nil
	}
	if err := s.repo.Save(ctx, entry); err != nil {
		s.logger.Warn("audit entry not stored",
			zap.String("action", string(action)),
			zap.String("target_id", targetID),
			zap.Error(err),
		)
		return err
	}
	return nil
}
