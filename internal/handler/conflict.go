package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/islaguezul/portfolio-backend/internal/security/middleware"
	"github.com/islaguezul/portfolio-backend/internal/service"
)

// ConflictCheckRequest asks whether a source entity collides with an
// existing row on the acting tenant.
type ConflictCheckRequest struct {
	EntityType string `json:"entityType"`
	EntityID   int    `json:"entityId"`
}

type ConflictCheckResponse struct {
	Conflict bool `json:"conflict"`
	Source   any  `json:"source,omitempty"`
	Match    any  `json:"match,omitempty"`
}

// ConflictCheckHandler handles POST /api/admin/copy/check.
type ConflictCheckHandler struct {
	copyService *service.CopyService
	logger      *slog.Logger
}

func NewConflictCheckHandler(copyService *service.CopyService, logger *slog.Logger) *ConflictCheckHandler {
	return &ConflictCheckHandler{copyService: copyService, logger: logger}
}

func (h *ConflictCheckHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ConflictCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.EntityType == "" || req.EntityID <= 0 {
		writeError(w, http.StatusBadRequest, "entityType and entityId are required")
		return
	}

	tenant := middleware.GetTenantFromContext(r.Context())

	check, err := h.copyService.CheckConflict(r.Context(), req.EntityType, req.EntityID, tenant)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("conflict check failed",
				slog.String("entity_type", req.EntityType),
				slog.String("error", err.Error()),
			)
			writeError(w, status, "failed to check conflicts")
			return
		}
		writeError(w, status, err.Error())
		return
	}

	resp := ConflictCheckResponse{Conflict: check.Conflict, Source: check.Source}
	if check.Match != nil {
		resp.Match = check.Match
	}
	writeJSON(w, http.StatusOK, resp)
}
