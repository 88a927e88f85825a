package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/islaguezul/portfolio-backend/internal/security/audit"
	"github.com/islaguezul/portfolio-backend/internal/service"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginHandler handles POST /api/admin/login.
type LoginHandler struct {
	authService *service.AuthService
	auditLog    *audit.Logger
	logger      *slog.Logger
}

func NewLoginHandler(authService *service.AuthService, auditLog *audit.Logger, logger *slog.Logger) *LoginHandler {
	return &LoginHandler{authService: authService, auditLog: auditLog, logger: logger}
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.auditLog.LogLogin(r.Context(), req.Email, "failed")
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	h.auditLog.LogLogin(r.Context(), req.Email, "success")
	writeJSON(w, http.StatusOK, result)
}
