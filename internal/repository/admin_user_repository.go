package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/islaguezul/portfolio-backend/internal/domain"
)

// PostgresAdminUserRepository implements domain.AdminUserRepository
// using PostgreSQL.
type PostgresAdminUserRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresAdminUserRepository creates a new admin user repository
func NewPostgresAdminUserRepository(db *sql.DB, logger *slog.Logger) *PostgresAdminUserRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresAdminUserRepository{db: db, logger: logger}
}

// GetByEmail retrieves an admin account by email
func (r *PostgresAdminUserRepository) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	u := &domain.AdminUser{}
	query := `
		SELECT id, email, password_hash, created_at
		FROM admin_users
		WHERE email = $1
	`
	err := r.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("admin user %q: %w", email, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get admin user: %w", err)
	}
	return u, nil
}

// Create creates a new admin account
func (r *PostgresAdminUserRepository) Create(ctx context.Context, u *domain.AdminUser) error {
	query := `
		INSERT INTO admin_users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, u.Email, u.PasswordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	return nil
}
