package dto

import (
	"encoding/json"
	"time"
)

type AuditEntryResponse struct {
	ID        int64           `json:"id"`
	Action    string          `json:"action"`
	GuildID   string          `json:"guild_id,omitempty"`
	ActorID   string          `json:"actor_id,omitempty"`
	TargetID  string          `json:"target_id,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

type AuditListResponse struct {
	Items []AuditEntryResponse `json:"items"`
}
