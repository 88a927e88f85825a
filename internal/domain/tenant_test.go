package domain

import "testing"

func TestOppositeIsInvolutive(t *testing.T) {
	for _, tenant := range []Tenant{TenantInternal, TenantExternal} {
		if got := tenant.Opposite().Opposite(); got != tenant {
			t.Fatalf("opposite(opposite(%s)) = %s, want %s", tenant, got, tenant)
		}
		if tenant.Opposite() == tenant {
			t.Fatalf("opposite(%s) must differ from %s", tenant, tenant)
		}
	}
}

func TestParseTenantDefaults(t *testing.T) {
	cases := map[string]Tenant{
		"internal": TenantInternal,
		"external": TenantExternal,
		"":         TenantInternal,
		"bogus":    TenantInternal,
	}
	for in, want := range cases {
		if got := ParseTenant(in); got != want {
			t.Fatalf("ParseTenant(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestPersonalInfoFieldRef(t *testing.T) {
	p := &PersonalInfo{Bio: "original"}
	ref, ok := p.FieldRef("bio")
	if !ok {
		t.Fatalf("expected bio field to resolve")
	}
	*ref = "changed"
	if p.Bio != "changed" {
		t.Fatalf("expected field write to land on struct, got %q", p.Bio)
	}
	if _, ok := p.FieldRef("id"); ok {
		t.Fatalf("identity field must not be addressable")
	}
	if _, ok := p.FieldRef("nope"); ok {
		t.Fatalf("unknown field must not resolve")
	}
}

func TestProjectCloneDoesNotShareChildren(t *testing.T) {
	p := &Project{Name: "Konnosaur", Technologies: []string{"Go", "Postgres"}}
	cp := p.Clone()
	cp.Technologies[0] = "Rust"
	if p.Technologies[0] != "Go" {
		t.Fatalf("clone mutated source children")
	}
}
