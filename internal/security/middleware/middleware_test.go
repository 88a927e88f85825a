package middleware

import (
	"context"
	"testing"

	"github.com/islaguezul/portfolio-backend/internal/domain"
)

func TestGetTenantFromContextDefaultsWhenAbsent(t *testing.T) {
	got := GetTenantFromContext(context.Background())
	if got != domain.TenantInternal {
		t.Fatalf("expected default tenant %q, got %q", domain.TenantInternal, got)
	}
	if !got.Valid() {
		t.Fatalf("tenant from an empty context must be valid")
	}
}

func TestGetTenantFromContextReturnsStoredTenant(t *testing.T) {
	ctx := context.WithValue(context.Background(), TenantContextKey{}, domain.TenantExternal)
	if got := GetTenantFromContext(ctx); got != domain.TenantExternal {
		t.Fatalf("expected %q, got %q", domain.TenantExternal, got)
	}
}
