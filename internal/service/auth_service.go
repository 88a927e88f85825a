package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/islaguezul/portfolio-backend/internal/domain"
	"github.com/islaguezul/portfolio-backend/internal/security/auth"
)

// sessionTTL is how long an admin session token stays valid.
const sessionTTL = 8 * time.Hour

// AuthService handles admin authentication.
type AuthService struct {
	users  domain.AdminUserRepository
	tokens *auth.TokenManager
	logger *slog.Logger
}

func NewAuthService(users domain.AdminUserRepository, tokens *auth.TokenManager, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

// LoginResult represents login response
type LoginResult struct {
	Email     string `json:"email"`
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // seconds
	TokenType string `json:"token_type"`
}

// Login authenticates an admin and returns a session token. Wrong
// email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", domain.ErrBadRequest)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Info("login attempt with unknown email", slog.String("email", email))
		return nil, errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("login failed with wrong password", slog.String("email", email))
		return nil, errors.New("invalid credentials")
	}

	token, err := s.tokens.GenerateToken(string(domain.TenantInternal), user.ID, user.Email, sessionTTL)
	if err != nil {
		s.logger.Error("failed to sign token", slog.String("error", err.Error()))
		return nil, errors.New("failed to generate token")
	}

	s.logger.Info("admin logged in",
		slog.Int("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return &LoginResult{
		Email:     user.Email,
		Token:     token,
		ExpiresIn: int(sessionTTL.Seconds()),
		TokenType: "Bearer",
	}, nil
}

// Register creates an admin account. Exposed through the CLI only;
// there is no self-service signup.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.AdminUser, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", domain.ErrBadRequest)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters: %w", domain.ErrBadRequest)
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, errors.New("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, errors.New("failed to register admin")
	}

	user := &domain.AdminUser{Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("failed to create admin", slog.String("error", err.Error()))
		return nil, errors.New("failed to register admin")
	}
	return user, nil
}
