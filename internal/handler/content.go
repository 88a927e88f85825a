package handler

import (
	"log/slog"
	"net/http"

	"github.com/islaguezul/portfolio-backend/internal/domain"
	"github.com/islaguezul/portfolio-backend/internal/service"
)

// ContentHandler serves GET /api/content: the public, cacheable site
// payload. The tenant comes from the ?tenant query parameter so both
// sites can share one deployment.
type ContentHandler struct {
	content *service.ContentService
	logger  *slog.Logger
}

func NewContentHandler(content *service.ContentService, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{content: content, logger: logger}
}

func (h *ContentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	tenant := domain.ParseTenant(r.URL.Query().Get("tenant"))

	content, err := h.content.Get(r.Context(), tenant)
	if err != nil {
		h.logger.Error("failed to load site content",
			slog.String("tenant", string(tenant)),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to load content")
		return
	}

	writeJSON(w, http.StatusOK, content)
}
