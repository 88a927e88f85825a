package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/islaguezul/portfolio-backend/internal/domain"
)

// PostgresExperienceRepository implements domain.ExperienceRepository
// using PostgreSQL.
type PostgresExperienceRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresExperienceRepository creates a new work experience repository
func NewPostgresExperienceRepository(db *sql.DB, logger *slog.Logger) *PostgresExperienceRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresExperienceRepository{db: db, logger: logger}
}

// GetByID retrieves a work experience entry with its responsibilities
func (r *PostgresExperienceRepository) GetByID(ctx context.Context, tenant domain.Tenant, id int) (*domain.WorkExperience, error) {
	w := &domain.WorkExperience{}
	query := `
		SELECT id, tenant, company, title, location, start_date, end_date, current, display_order
		FROM work_experience
		WHERE tenant = $1 AND id = $2
	`
	err := r.db.QueryRowContext(ctx, query, tenant, id).Scan(
		&w.ID, &w.Tenant, &w.Company, &w.Title, &w.Location, &w.StartDate, &w.EndDate, &w.Current, &w.DisplayOrder,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("experience %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get experience: %w", err)
	}
	w.Responsibilities, err = loadChildValues(ctx, r.db, "experience_responsibilities", "experience_id", w.ID)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// List returns all experience entries for a tenant
func (r *PostgresExperienceRepository) List(ctx context.Context, tenant domain.Tenant) ([]*domain.WorkExperience, error) {
	query := `
		SELECT id, tenant, company, title, location, start_date, end_date, current, display_order
		FROM work_experience
		WHERE tenant = $1
		ORDER BY display_order, id
	`
	rows, err := r.db.QueryContext(ctx, query, tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to list experience: %w", err)
	}
	defer rows.Close()

	var out []*domain.WorkExperience
	for rows.Next() {
		w := &domain.WorkExperience{}
		if err := rows.Scan(&w.ID, &w.Tenant, &w.Company, &w.Title, &w.Location, &w.StartDate, &w.EndDate, &w.Current, &w.DisplayOrder); err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, w := range out {
		w.Responsibilities, err = loadChildValues(ctx, r.db, "experience_responsibilities", "experience_id", w.ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Create inserts a new experience entry and its responsibilities in one
// transaction
func (r *PostgresExperienceRepository) Create(ctx context.Context, w *domain.WorkExperience) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO work_experience (tenant, company, title, location, start_date, end_date, current, display_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query, w.Tenant, w.Company, w.Title, w.Location, w.StartDate, w.EndDate, w.Current, w.DisplayOrder).
		Scan(&w.ID)
	if err != nil {
		return fmt.Errorf("failed to create experience: %w", err)
	}
	if err := replaceChildValues(ctx, tx, "experience_responsibilities", "experience_id", w.ID, w.Responsibilities); err != nil {
		return err
	}
	return tx.Commit()
}

// Update overwrites the parent row and replaces the responsibilities
// list in one transaction
func (r *PostgresExperienceRepository) Update(ctx context.Context, w *domain.WorkExperience) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE work_experience
		SET company = $1, title = $2, location = $3, start_date = $4, end_date = $5, current = $6, display_order = $7
		WHERE tenant = $8 AND id = $9
	`
	res, err := tx.ExecContext(ctx, query, w.Company, w.Title, w.Location, w.StartDate, w.EndDate, w.Current, w.DisplayOrder, w.Tenant, w.ID)
	if err != nil {
		return fmt.Errorf("failed to update experience: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("experience %d: %w", w.ID, domain.ErrCopyFailed)
	}
	if err := replaceChildValues(ctx, tx, "experience_responsibilities", "experience_id", w.ID, w.Responsibilities); err != nil {
		return err
	}
	return tx.Commit()
}

// FindByCompanyTitle performs a case-insensitive composite-key lookup.
// First match by id wins.
func (r *PostgresExperienceRepository) FindByCompanyTitle(ctx context.Context, tenant domain.Tenant, company, title string) (*domain.WorkExperience, error) {
	w := &domain.WorkExperience{}
	query := `
		SELECT id, tenant, company, title, location, start_date, end_date, current, display_order
		FROM work_experience
		WHERE tenant = $1 AND LOWER(company) = LOWER($2) AND LOWER(title) = LOWER($3)
		ORDER BY id
		LIMIT 1
	`
	err := r.db.QueryRowContext(ctx, query, tenant, company, title).Scan(
		&w.ID, &w.Tenant, &w.Company, &w.Title, &w.Location, &w.StartDate, &w.EndDate, &w.Current, &w.DisplayOrder,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("experience %q/%q: %w", company, title, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find experience: %w", err)
	}
	w.Responsibilities, err = loadChildValues(ctx, r.db, "experience_responsibilities", "experience_id", w.ID)
	if err != nil {
		return nil, err
	}
	return w, nil
}
