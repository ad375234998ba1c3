package handlers

import (
	"net/http"
	"time"

	"github.com/ivankudzin/sanctionbot/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/sanctionbot/internal/transport/http/errors"
)

type HealthHandler struct {
	dryRun  bool
	started time.Time
	now     func() time.Time
}

func NewHealthHandler(dryRun bool) *HealthHandler {
	return &HealthHandler{dryRun: dryRun, started: time.Now(), now: time.Now}
}

func (h *HealthHandler) Get(w http.ResponseWriter, _ *http.Request) {
	mode := "connected"
	if h.dryRun {
		mode = "dry_run"
	}
	httperrors.Write(w, http.StatusOK, dto.HealthResponse{
		Status:    "ok",
		Mode:      mode,
		UptimeSec: int64(h.now().Sub(h.started) / time.Second),
	})
}
