package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/islaguezul/portfolio-backend/internal/domain"
)

// PostgresExpertiseRadarRepository implements
// domain.ExpertiseRadarRepository using PostgreSQL. The radar chart
// used to bypass the accessor layer entirely; giving it a repository
// folds it into the same adapter abstraction as every other kind.
type PostgresExpertiseRadarRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresExpertiseRadarRepository creates a new radar repository
func NewPostgresExpertiseRadarRepository(db *sql.DB, logger *slog.Logger) *PostgresExpertiseRadarRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresExpertiseRadarRepository{db: db, logger: logger}
}

// GetByID retrieves a radar item
func (r *PostgresExpertiseRadarRepository) GetByID(ctx context.Context, tenant domain.Tenant, id int) (*domain.ExpertiseRadarItem, error) {
	e := &domain.ExpertiseRadarItem{}
	query := `
		SELECT id, tenant, skill_name, category, level
		FROM expertise_radar
		WHERE tenant = $1 AND id = $2
	`
	err := r.db.QueryRowContext(ctx, query, tenant, id).Scan(&e.ID, &e.Tenant, &e.SkillName, &e.Category, &e.Level)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("radar item %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get radar item: %w", err)
	}
	return e, nil
}

// List returns all radar items for a tenant
func (r *PostgresExpertiseRadarRepository) List(ctx context.Context, tenant domain.Tenant) ([]*domain.ExpertiseRadarItem, error) {
	query := `
		SELECT id, tenant, skill_name, category, level
		FROM expertise_radar
		WHERE tenant = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to list radar items: %w", err)
	}
	defer rows.Close()

	var out []*domain.ExpertiseRadarItem
	for rows.Next() {
		e := &domain.ExpertiseRadarItem{}
		if err := rows.Scan(&e.ID, &e.Tenant, &e.SkillName, &e.Category, &e.Level); err != nil {
			return nil, fmt.Errorf("failed to scan radar item: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Create inserts a new radar item
func (r *PostgresExpertiseRadarRepository) Create(ctx context.Context, e *domain.ExpertiseRadarItem) error {
	query := `
		INSERT INTO expertise_radar (tenant, skill_name, category, level)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, e.Tenant, e.SkillName, e.Category, e.Level).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("failed to create radar item: %w", err)
	}
	return nil
}

// Update overwrites a radar item in place
func (r *PostgresExpertiseRadarRepository) Update(ctx context.Context, e *domain.ExpertiseRadarItem) error {
	query := `
		UPDATE expertise_radar
		SET skill_name = $1, category = $2, level = $3
		WHERE tenant = $4 AND id = $5
	`
	res, err := r.db.ExecContext(ctx, query, e.SkillName, e.Category, e.Level, e.Tenant, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update radar item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("radar item %d: %w", e.ID, domain.ErrCopyFailed)
	}
	return nil
}

// FindBySkillName performs a case-insensitive skill-name lookup. First
// match by id wins.
func (r *PostgresExpertiseRadarRepository) FindBySkillName(ctx context.Context, tenant domain.Tenant, skillName string) (*domain.ExpertiseRadarItem, error) {
	e := &domain.ExpertiseRadarItem{}
	query := `
		SELECT id, tenant, skill_name, category, level
		FROM expertise_radar
		WHERE tenant = $1 AND LOWER(skill_name) = LOWER($2)
		ORDER BY id
		LIMIT 1
	`
	err := r.db.QueryRowContext(ctx, query, tenant, skillName).Scan(&e.ID, &e.Tenant, &e.SkillName, &e.Category, &e.Level)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("radar item %q: %w", skillName, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find radar item: %w", err)
	}
	return e, nil
}
