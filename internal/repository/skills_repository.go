package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/islaguezul/portfolio-backend/internal/domain"
)

// PostgresSkillCategoryRepository implements
// domain.SkillCategoryRepository using PostgreSQL.
type PostgresSkillCategoryRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresSkillCategoryRepository creates a new skill category repository
func NewPostgresSkillCategoryRepository(db *sql.DB, logger *slog.Logger) *PostgresSkillCategoryRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresSkillCategoryRepository{db: db, logger: logger}
}

// GetByID retrieves a skill category with its ordered skill list
func (r *PostgresSkillCategoryRepository) GetByID(ctx context.Context, tenant domain.Tenant, id int) (*domain.SkillCategory, error) {
	s := &domain.SkillCategory{}
	query := `
		SELECT id, tenant, name, display_order
		FROM skill_categories
		WHERE tenant = $1 AND id = $2
	`
	err := r.db.QueryRowContext(ctx, query, tenant, id).Scan(&s.ID, &s.Tenant, &s.Name, &s.DisplayOrder)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("skill category %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get skill category: %w", err)
	}
	s.Skills, err = loadChildValues(ctx, r.db, "category_skills", "category_id", s.ID)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// List returns all skill categories for a tenant
func (r *PostgresSkillCategoryRepository) List(ctx context.Context, tenant domain.Tenant) ([]*domain.SkillCategory, error) {
	query := `
		SELECT id, tenant, name, display_order
		FROM skill_categories
		WHERE tenant = $1
		ORDER BY display_order, id
	`
	rows, err := r.db.QueryContext(ctx, query, tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to list skill categories: %w", err)
	}
	defer rows.Close()

	var out []*domain.SkillCategory
	for rows.Next() {
		s := &domain.SkillCategory{}
		if err := rows.Scan(&s.ID, &s.Tenant, &s.Name, &s.DisplayOrder); err != nil {
			return nil, fmt.Errorf("failed to scan skill category: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range out {
		s.Skills, err = loadChildValues(ctx, r.db, "category_skills", "category_id", s.ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Create inserts a new skill category and its skills in one transaction
func (r *PostgresSkillCategoryRepository) Create(ctx context.Context, s *domain.SkillCategory) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO skill_categories (tenant, name, display_order)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	if err := tx.QueryRowContext(ctx, query, s.Tenant, s.Name, s.DisplayOrder).Scan(&s.ID); err != nil {
		return fmt.Errorf("failed to create skill category: %w", err)
	}
	if err := replaceChildValues(ctx, tx, "category_skills", "category_id", s.ID, s.Skills); err != nil {
		return err
	}
	return tx.Commit()
}

// Update overwrites the parent row and replaces the skill list in one
// transaction
func (r *PostgresSkillCategoryRepository) Update(ctx context.Context, s *domain.SkillCategory) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE skill_categories
		SET name = $1, display_order = $2
		WHERE tenant = $3 AND id = $4
	`
	res, err := tx.ExecContext(ctx, query, s.Name, s.DisplayOrder, s.Tenant, s.ID)
	if err != nil {
		return fmt.Errorf("failed to update skill category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("skill category %d: %w", s.ID, domain.ErrCopyFailed)
	}
	if err := replaceChildValues(ctx, tx, "category_skills", "category_id", s.ID, s.Skills); err != nil {
		return err
	}
	return tx.Commit()
}

// FindByName performs a case-insensitive name lookup. First match by id
// wins.
func (r *PostgresSkillCategoryRepository) FindByName(ctx context.Context, tenant domain.Tenant, name string) (*domain.SkillCategory, error) {
	s := &domain.SkillCategory{}
	query := `
		SELECT id, tenant, name, display_order
		FROM skill_categories
		WHERE tenant = $1 AND LOWER(name) = LOWER($2)
		ORDER BY id
		LIMIT 1
	`
	err := r.db.QueryRowContext(ctx, query, tenant, name).Scan(&s.ID, &s.Tenant, &s.Name, &s.DisplayOrder)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("skill category %q: %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find skill category: %w", err)
	}
	s.Skills, err = loadChildValues(ctx, r.db, "category_skills", "category_id", s.ID)
	if err != nil {
		return nil, err
	}
	return s, nil
}
