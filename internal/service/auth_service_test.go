package service

import (
	"context"
	"testing"

	"github.com/islaguezul/portfolio-backend/internal/domain"
	"github.com/islaguezul/portfolio-backend/internal/security/auth"
)

type memAdminRepo struct {
	byEmail map[string]*domain.AdminUser
	nextID  int
}

func newMemAdminRepo() *memAdminRepo {
	return &memAdminRepo{byEmail: map[string]*domain.AdminUser{}, nextID: 1}
}

func (m *memAdminRepo) GetByEmail(_ context.Context, email string) (*domain.AdminUser, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memAdminRepo) Create(_ context.Context, u *domain.AdminUser) error {
	u.ID = m.nextID
	m.nextID++
	m.byEmail[u.Email] = u
	return nil
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newMemAdminRepo()
	tm := auth.NewTokenManager("secret", "")
	s := NewAuthService(repo, tm, nil)
	ctx := context.Background()

	u, err := s.Register(ctx, "admin@example.com", "Password123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if u.ID == 0 {
		t.Fatalf("expected user id")
	}

	if _, err := s.Register(ctx, "admin@example.com", "Password123"); err == nil {
		t.Fatalf("expected duplicate email error")
	}

	lr, err := s.Login(ctx, "admin@example.com", "Password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if lr.Token == "" || lr.TokenType != "Bearer" {
		t.Fatalf("expected bearer token, got %+v", lr)
	}

	claims, err := tm.ValidateToken(lr.Token)
	if err != nil {
		t.Fatalf("token does not validate: %v", err)
	}
	if claims.Email != "admin@example.com" || claims.UserID != u.ID {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := s.Login(ctx, "admin@example.com", "wrong"); err == nil {
		t.Fatalf("expected invalid credentials error")
	}
	if _, err := s.Login(ctx, "nobody@example.com", "Password123"); err == nil {
		t.Fatalf("expected invalid credentials error for unknown email")
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	s := NewAuthService(newMemAdminRepo(), auth.NewTokenManager("secret", ""), nil)
	if _, err := s.Register(context.Background(), "a@b.com", "short"); err == nil {
		t.Fatalf("expected short password rejection")
	}
}
