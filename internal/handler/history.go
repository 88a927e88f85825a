package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/islaguezul/portfolio-backend/internal/domain"
	"github.com/islaguezul/portfolio-backend/internal/security/middleware"
)

// HistoryHandler handles GET /api/admin/copy/history.
type HistoryHandler struct {
	copyLog      domain.CopyLogRepository
	defaultLimit int
	logger       *slog.Logger
}

func NewHistoryHandler(copyLog domain.CopyLogRepository, defaultLimit int, logger *slog.Logger) *HistoryHandler {
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	return &HistoryHandler{copyLog: copyLog, defaultLimit: defaultLimit, logger: logger}
}

func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := h.defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	tenant := middleware.GetTenantFromContext(r.Context())

	records, err := h.copyLog.ListRecent(r.Context(), tenant, limit)
	if err != nil {
		h.logger.Error("failed to list copy history", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list copy history")
		return
	}
	if records == nil {
		records = []*domain.CopyRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}
