package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/islaguezul/portfolio-backend/internal/domain"
)

// PostgresTechStackRepository implements domain.TechStackRepository
// using PostgreSQL.
type PostgresTechStackRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresTechStackRepository creates a new tech stack repository
func NewPostgresTechStackRepository(db *sql.DB, logger *slog.Logger) *PostgresTechStackRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTechStackRepository{db: db, logger: logger}
}

// GetByID retrieves a tech stack item
func (r *PostgresTechStackRepository) GetByID(ctx context.Context, tenant domain.Tenant, id int) (*domain.TechStackItem, error) {
	t := &domain.TechStackItem{}
	query := `
		SELECT id, tenant, name, category, proficiency
		FROM tech_stack
		WHERE tenant = $1 AND id = $2
	`
	err := r.db.QueryRowContext(ctx, query, tenant, id).Scan(&t.ID, &t.Tenant, &t.Name, &t.Category, &t.Proficiency)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("tech stack item %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get tech stack item: %w", err)
	}
	return t, nil
}

// List returns all tech stack items for a tenant
func (r *PostgresTechStackRepository) List(ctx context.Context, tenant domain.Tenant) ([]*domain.TechStackItem, error) {
	query := `
		SELECT id, tenant, name, category, proficiency
		FROM tech_stack
		WHERE tenant = $1
		ORDER BY category, name
	`
	rows, err := r.db.QueryContext(ctx, query, tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to list tech stack: %w", err)
	}
	defer rows.Close()

	var out []*domain.TechStackItem
	for rows.Next() {
		t := &domain.TechStackItem{}
		if err := rows.Scan(&t.ID, &t.Tenant, &t.Name, &t.Category, &t.Proficiency); err != nil {
			return nil, fmt.Errorf("failed to scan tech stack item: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Create inserts a new tech stack item
func (r *PostgresTechStackRepository) Create(ctx context.Context, t *domain.TechStackItem) error {
	query := `
		INSERT INTO tech_stack (tenant, name, category, proficiency)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, t.Tenant, t.Name, t.Category, t.Proficiency).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("failed to create tech stack item: %w", err)
	}
	return nil
}

// Update overwrites a tech stack item in place
func (r *PostgresTechStackRepository) Update(ctx context.Context, t *domain.TechStackItem) error {
	query := `
		UPDATE tech_stack
		SET name = $1, category = $2, proficiency = $3
		WHERE tenant = $4 AND id = $5
	`
	res, err := r.db.ExecContext(ctx, query, t.Name, t.Category, t.Proficiency, t.Tenant, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update tech stack item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("tech stack item %d: %w", t.ID, domain.ErrCopyFailed)
	}
	return nil
}

// FindByName performs a case-insensitive name lookup. First match by id
// wins.
func (r *PostgresTechStackRepository) FindByName(ctx context.Context, tenant domain.Tenant, name string) (*domain.TechStackItem, error) {
	t := &domain.TechStackItem{}
	query := `
		SELECT id, tenant, name, category, proficiency
		FROM tech_stack
		WHERE tenant = $1 AND LOWER(name) = LOWER($2)
		ORDER BY id
		LIMIT 1
	`
	err := r.db.QueryRowContext(ctx, query, tenant, name).Scan(&t.ID, &t.Tenant, &t.Name, &t.Category, &t.Proficiency)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("tech stack item %q: %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find tech stack item: %w", err)
	}
	return t, nil
}
