package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/islaguezul/portfolio-backend/internal/domain"
)

// PostgresEducationRepository implements domain.EducationRepository
// using PostgreSQL.
type PostgresEducationRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresEducationRepository creates a new education repository
func NewPostgresEducationRepository(db *sql.DB, logger *slog.Logger) *PostgresEducationRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresEducationRepository{db: db, logger: logger}
}

// GetByID retrieves an education entry with its course list
func (r *PostgresEducationRepository) GetByID(ctx context.Context, tenant domain.Tenant, id int) (*domain.Education, error) {
	e := &domain.Education{}
	query := `
		SELECT id, tenant, school, degree, field, start_year, end_year
		FROM education
		WHERE tenant = $1 AND id = $2
	`
	err := r.db.QueryRowContext(ctx, query, tenant, id).Scan(
		&e.ID, &e.Tenant, &e.School, &e.Degree, &e.Field, &e.StartYear, &e.EndYear,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("education %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get education: %w", err)
	}
	e.Courses, err = loadChildValues(ctx, r.db, "education_courses", "education_id", e.ID)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// List returns all education entries for a tenant
func (r *PostgresEducationRepository) List(ctx context.Context, tenant domain.Tenant) ([]*domain.Education, error) {
	query := `
		SELECT id, tenant, school, degree, field, start_year, end_year
		FROM education
		WHERE tenant = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to list education: %w", err)
	}
	defer rows.Close()

	var out []*domain.Education
	for rows.Next() {
		e := &domain.Education{}
		if err := rows.Scan(&e.ID, &e.Tenant, &e.School, &e.Degree, &e.Field, &e.StartYear, &e.EndYear); err != nil {
			return nil, fmt.Errorf("failed to scan education: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, e := range out {
		e.Courses, err = loadChildValues(ctx, r.db, "education_courses", "education_id", e.ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Create inserts a new education entry and its courses in one transaction
func (r *PostgresEducationRepository) Create(ctx context.Context, e *domain.Education) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO education (tenant, school, degree, field, start_year, end_year)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query, e.Tenant, e.School, e.Degree, e.Field, e.StartYear, e.EndYear).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("failed to create education: %w", err)
	}
	if err := replaceChildValues(ctx, tx, "education_courses", "education_id", e.ID, e.Courses); err != nil {
		return err
	}
	return tx.Commit()
}

// Update overwrites the parent row and replaces the course list in one
// transaction
func (r *PostgresEducationRepository) Update(ctx context.Context, e *domain.Education) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE education
		SET school = $1, degree = $2, field = $3, start_year = $4, end_year = $5
		WHERE tenant = $6 AND id = $7
	`
	res, err := tx.ExecContext(ctx, query, e.School, e.Degree, e.Field, e.StartYear, e.EndYear, e.Tenant, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update education: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("education %d: %w", e.ID, domain.ErrCopyFailed)
	}
	if err := replaceChildValues(ctx, tx, "education_courses", "education_id", e.ID, e.Courses); err != nil {
		return err
	}
	return tx.Commit()
}

// FindBySchoolDegree performs a case-insensitive composite-key lookup.
// First match by id wins.
func (r *PostgresEducationRepository) FindBySchoolDegree(ctx context.Context, tenant domain.Tenant, school, degree string) (*domain.Education, error) {
	e := &domain.Education{}
	query := `
		SELECT id, tenant, school, degree, field, start_year, end_year
		FROM education
		WHERE tenant = $1 AND LOWER(school) = LOWER($2) AND LOWER(degree) = LOWER($3)
		ORDER BY id
		LIMIT 1
	`
	err := r.db.QueryRowContext(ctx, query, tenant, school, degree).Scan(
		&e.ID, &e.Tenant, &e.School, &e.Degree, &e.Field, &e.StartYear, &e.EndYear,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("education %q/%q: %w", school, degree, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find education: %w", err)
	}
	e.Courses, err = loadChildValues(ctx, r.db, "education_courses", "education_id", e.ID)
	if err != nil {
		return nil, err
	}
	return e, nil
}
