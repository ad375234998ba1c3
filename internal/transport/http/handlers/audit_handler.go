package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/ivankudzin/sanctionbot/internal/domain/model"
	"github.com/ivankudzin/sanctionbot/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/sanctionbot/internal/transport/http/errors"
)

const maxAuditLimit = 200

type AuditLister interface {
	ListRecent(ctx context.Context, limit int) ([]model.Audit, error)
}

type AuditHandler struct {
	audit AuditLister
}

func NewAuditHandler(audit AuditLister) *AuditHandler {
	return &AuditHandler{audit: audit}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.audit == nil {
		httperrors.Write(w, http.StatusServiceUnavailable, httperrors.APIError{
			Code:    "AUDIT_UNAVAILABLE",
			Message: "audit trail is not configured",
		})
		return
	}

	limit := 50
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{
				Code:    "VALIDATION_ERROR",
				Message: "limit must be a positive integer",
			})
			return
		}
		limit = min(parsed, maxAuditLimit)
	}

	entries, err := h.audit.ListRecent(r.Context(), limit)
	if err != nil {
		httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{
			Code:    "INTERNAL_ERROR",
			Message: "failed to list audit entries",
		})
		return
	}

	items := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.AuditEntryResponse{
			ID:        entry.ID,
			Action:    string(entry.Action),
			GuildID:   entry.GuildID,
			ActorID:   entry.ActorID,
			TargetID:  entry.TargetID,
			Payload:   entry.Payload,
			CreatedAt: entry.CreatedAt,
		})
	}
	httperrors.Write(w, http.StatusOK, dto.AuditListResponse{Items: items})
}
