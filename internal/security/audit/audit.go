package audit

import (
	"context"
	"log/slog"
	"time"
)

type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

func (al *Logger) LogAction(ctx context.Context, tenant, email, action, resource, resourceID, status, details string) {
	requestID := ""
	if reqID := ctx.Value("request_id"); reqID != nil {
		requestID = reqID.(string)
	}

	al.logger.Info("audit",
		slog.String("action", action),
		slog.String("resource", resource),
		slog.String("resource_id", resourceID),
		slog.String("tenant", tenant),
		slog.String("email", email),
		slog.String("status", status),
		slog.String("details", details),
		slog.String("request_id", requestID),
		slog.Time("timestamp", time.Now()),
	)
}

// LogCopy records a cross-tenant copy attempt against the audit trail.
func (al *Logger) LogCopy(ctx context.Context, tenant, email, entityType, entityID, status string) {
	al.LogAction(ctx, tenant, email, "cross_tenant_copy", entityType, entityID, status, "")
}

func (al *Logger) LogLogin(ctx context.Context, email, status string) {
	al.LogAction(ctx, "", email, "login", "session", "", status, "")
}

func (al *Logger) LogDenied(ctx context.Context, tenant, email, reason string) {
	al.LogAction(ctx, tenant, email, "access_denied", "api", "", "denied", reason)
}
