package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/islaguezul/portfolio-backend/internal/domain"
)

// PostgresPersonalInfoRepository implements
// domain.PersonalInfoRepository using PostgreSQL. The tenant column
// carries a unique constraint, which makes Upsert an ON CONFLICT
// update.
type PostgresPersonalInfoRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresPersonalInfoRepository creates a new personal info repository
func NewPostgresPersonalInfoRepository(db *sql.DB, logger *slog.Logger) *PostgresPersonalInfoRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresPersonalInfoRepository{db: db, logger: logger}
}

// Get retrieves the singleton personal info row for a tenant
func (r *PostgresPersonalInfoRepository) Get(ctx context.Context, tenant domain.Tenant) (*domain.PersonalInfo, error) {
	p := &domain.PersonalInfo{}
	query := `
		SELECT id, tenant, name, title, bio, email, phone, location, linkedin, github, tagline, updated_at
		FROM personal_info
		WHERE tenant = $1
	`
	err := r.db.QueryRowContext(ctx, query, tenant).Scan(
		&p.ID, &p.Tenant, &p.Name, &p.Title, &p.Bio, &p.Email, &p.Phone,
		&p.Location, &p.LinkedIn, &p.GitHub, &p.Tagline, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("personal info for %s: %w", tenant, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get personal info: %w", err)
	}
	return p, nil
}

// Upsert writes the singleton row, creating it on first write
func (r *PostgresPersonalInfoRepository) Upsert(ctx context.Context, p *domain.PersonalInfo) error {
	query := `
		INSERT INTO personal_info (tenant, name, title, bio, email, phone, location, linkedin, github, tagline, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		ON CONFLICT (tenant) DO UPDATE
		SET name = EXCLUDED.name, title = EXCLUDED.title, bio = EXCLUDED.bio,
		    email = EXCLUDED.email, phone = EXCLUDED.phone, location = EXCLUDED.location,
		    linkedin = EXCLUDED.linkedin, github = EXCLUDED.github, tagline = EXCLUDED.tagline,
		    updated_at = now()
		RETURNING id, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		p.Tenant, p.Name, p.Title, p.Bio, p.Email, p.Phone, p.Location, p.LinkedIn, p.GitHub, p.Tagline,
	).Scan(&p.ID, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert personal info: %w", err)
	}
	return nil
}
