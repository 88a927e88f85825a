package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/islaguezul/portfolio-backend/internal/domain"
	"github.com/islaguezul/portfolio-backend/internal/security/audit"
	"github.com/islaguezul/portfolio-backend/internal/security/auth"
	"github.com/islaguezul/portfolio-backend/internal/security/ratelimit"
)

// loginWindow bounds the strict per-address login bucket.
const loginWindow = time.Minute

type TenantContextKey struct{}
type ClaimsContextKey struct{}

// isPublic marks the routes that never require a session: the read-only
// content API, login, and the operational endpoints.
func isPublic(r *http.Request) bool {
	p := r.URL.Path
	return p == "/healthz" || p == "/readyz" || p == "/metrics" ||
		p == "/api/admin/login" ||
		strings.HasPrefix(p, "/api/content")
}

// JWTMiddleware authenticates everything under /api/admin and the
// websocket feed. Websocket clients cannot set headers from a browser,
// so /ws/updates also accepts the token as a query parameter.
func JWTMiddleware(tm *auth.TokenManager, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r) {
				next.ServeHTTP(w, r)
				return
			}

			tokenString := ""
			if authHeader := r.Header.Get("Authorization"); authHeader != "" {
				extracted, err := auth.ExtractToken(authHeader)
				if err != nil {
					http.Error(w, `{"error":"invalid auth"}`, http.StatusUnauthorized)
					return
				}
				tokenString = extracted
			} else if strings.HasPrefix(r.URL.Path, "/ws/") {
				tokenString = r.URL.Query().Get("token")
			}
			if tokenString == "" {
				http.Error(w, `{"error":"missing auth"}`, http.StatusUnauthorized)
				return
			}

			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				log.Warn("token rejected", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			// The acting tenant defaults to the session tenant; the
			// admin UI overrides it per request while previewing the
			// other site.
			tenant := domain.ParseTenant(claims.Tenant)
			if override := r.Header.Get("X-Admin-Tenant"); override != "" {
				tenant = domain.ParseTenant(override)
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey{}, claims)
			ctx = context.WithValue(ctx, TenantContextKey{}, tenant)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimitMiddleware throttles authenticated admin traffic per user,
// with a stricter bucket on login attempts.
func RateLimitMiddleware(limiter *ratelimit.Limiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/admin/login" {
				key := r.Header.Get("X-Forwarded-For")
				if key == "" {
					key = r.RemoteAddr
				}
				if !limiter.AllowStrict(key, 10, loginWindow) {
					log.Warn("login rate limit hit", slog.String("remote", key))
					http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
					return
				}
				next.ServeHTTP(w, r)
				return
			}
			if isPublic(r) {
				next.ServeHTTP(w, r)
				return
			}

			key := ""
			if claims := GetClaimsFromContext(r.Context()); claims != nil {
				key = claims.Email
			}
			if !limiter.Allow(key) {
				http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AuditMiddleware writes the audit trail for state-changing admin
// operations before they execute.
func AuditMiddleware(auditLog *audit.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenant := ""
			email := ""
			if t := GetTenantFromContext(r.Context()); t != "" {
				tenant = string(t)
			}
			if claims := GetClaimsFromContext(r.Context()); claims != nil {
				email = claims.Email
			}

			if r.Method == http.MethodPost && r.URL.Path == "/api/admin/copy" {
				auditLog.LogCopy(r.Context(), tenant, email, "content", "", "initiated")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ValidateJSONContentType rejects state-changing requests whose body is
// not declared as JSON.
func ValidateJSONContentType(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			if !strings.Contains(contentType, "application/json") {
				log.Warn("invalid content type",
					slog.String("path", r.URL.Path),
					slog.String("content_type", contentType),
					slog.String("method", r.Method),
				)
				http.Error(w, `{"error":"Content-Type must be application/json"}`, http.StatusUnsupportedMediaType)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func GetTenantFromContext(ctx context.Context) domain.Tenant {
	if t := ctx.Value(TenantContextKey{}); t != nil {
		return t.(domain.Tenant)
	}
	return domain.ParseTenant("")
}

func GetClaimsFromContext(ctx context.Context) *auth.Claims {
	if c := ctx.Value(ClaimsContextKey{}); c != nil {
		return c.(*auth.Claims)
	}
	return nil
}
