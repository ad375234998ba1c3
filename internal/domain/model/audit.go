package model

import (
	"encoding/json"
	"time"

	"github.com/ivankudzin/sanctionbot/internal/domain/enums"
)

type Audit struct {
	ID        int64
	GuildID   string
	ActorID   string
	TargetID  string
	Action    enums.AuditAction
	Payload   json.RawMessage
	CreatedAt time.Time
}
