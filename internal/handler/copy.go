package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/islaguezul/portfolio-backend/internal/security/middleware"
	"github.com/islaguezul/portfolio-backend/internal/service"
)

// CopyRequest is the admin UI's copy invocation.
type CopyRequest struct {
	EntityType string `json:"entityType"`
	EntityID   int    `json:"entityId,omitempty"`
	Resolution string `json:"conflictResolution,omitempty"`
	TargetID   int    `json:"targetEntityId,omitempty"`
	Field      string `json:"field,omitempty"`
}

// CopyResponse reports what the copy did.
type CopyResponse struct {
	Success    bool   `json:"success"`
	Result     any    `json:"result,omitempty"`
	Action     string `json:"action"`
	EntityName string `json:"entityName,omitempty"`
	Field      string `json:"field,omitempty"`
}

// CopyHandler handles POST /api/admin/copy.
type CopyHandler struct {
	copyService *service.CopyService
	logger      *slog.Logger
}

func NewCopyHandler(copyService *service.CopyService, logger *slog.Logger) *CopyHandler {
	return &CopyHandler{copyService: copyService, logger: logger}
}

func (h *CopyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req CopyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode copy request", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if req.EntityType == "" {
		writeError(w, http.StatusBadRequest, "entityType is required")
		return
	}
	if req.EntityType != service.KindPersonal && req.EntityID <= 0 {
		writeError(w, http.StatusBadRequest, "entityId is required")
		return
	}
	switch req.Resolution {
	case "", service.ResolutionCreateNew, service.ResolutionSkip, service.ResolutionReplace:
	default:
		writeError(w, http.StatusBadRequest, "unknown resolution")
		return
	}

	tenant := middleware.GetTenantFromContext(r.Context())

	result, err := h.copyService.Copy(r.Context(), service.CopyRequest{
		EntityType:     req.EntityType,
		EntityID:       req.EntityID,
		Resolution:     req.Resolution,
		TargetEntityID: req.TargetID,
		Field:          req.Field,
		Target:         tenant,
	})
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("copy failed",
				slog.String("entity_type", req.EntityType),
				slog.Int("entity_id", req.EntityID),
				slog.String("error", err.Error()),
			)
			writeError(w, status, "failed to copy content")
			return
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, CopyResponse{
		Success:    true,
		Result:     result.Entity,
		Action:     result.Action,
		EntityName: result.EntityName,
		Field:      result.Field,
	})
}
