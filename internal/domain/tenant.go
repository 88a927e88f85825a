package domain

// Tenant identifies which of the two site variants a row belongs to.
// Every content table carries a tenant column; rows are never shared
// between tenants.
type Tenant string

const (
	// TenantInternal is the internal-facing site variant.
	TenantInternal Tenant = "internal"
	// TenantExternal is the public-facing site variant.
	TenantExternal Tenant = "external"
)

// Opposite returns the other tenant. The mapping is total and
// involutive: t.Opposite().Opposite() == t for both values.
func (t Tenant) Opposite() Tenant {
	if t == TenantInternal {
		return TenantExternal
	}
	return TenantInternal
}

// Valid reports whether t is one of the two known tenants.
func (t Tenant) Valid() bool {
	return t == TenantInternal || t == TenantExternal
}

// ParseTenant resolves a tenant from request context (header value).
// It never fails: anything other than "external" resolves to the
// internal tenant.
func ParseTenant(s string) Tenant {
	if Tenant(s) == TenantExternal {
		return TenantExternal
	}
	return TenantInternal
}
