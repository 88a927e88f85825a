package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/islaguezul/portfolio-backend/internal/domain"
)

// PostgresProcessStrategyRepository implements
// domain.ProcessStrategyRepository using PostgreSQL.
type PostgresProcessStrategyRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresProcessStrategyRepository creates a new process strategy repository
func NewPostgresProcessStrategyRepository(db *sql.DB, logger *slog.Logger) *PostgresProcessStrategyRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProcessStrategyRepository{db: db, logger: logger}
}

// GetByID retrieves a process strategy
func (r *PostgresProcessStrategyRepository) GetByID(ctx context.Context, tenant domain.Tenant, id int) (*domain.ProcessStrategy, error) {
	p := &domain.ProcessStrategy{}
	query := `
		SELECT id, tenant, title, description, icon, display_order
		FROM process_strategies
		WHERE tenant = $1 AND id = $2
	`
	err := r.db.QueryRowContext(ctx, query, tenant, id).Scan(&p.ID, &p.Tenant, &p.Title, &p.Description, &p.Icon, &p.DisplayOrder)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("process strategy %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get process strategy: %w", err)
	}
	return p, nil
}

// List returns all process strategies for a tenant
func (r *PostgresProcessStrategyRepository) List(ctx context.Context, tenant domain.Tenant) ([]*domain.ProcessStrategy, error) {
	query := `
		SELECT id, tenant, title, description, icon, display_order
		FROM process_strategies
		WHERE tenant = $1
		ORDER BY display_order, id
	`
	rows, err := r.db.QueryContext(ctx, query, tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to list process strategies: %w", err)
	}
	defer rows.Close()

	var out []*domain.ProcessStrategy
	for rows.Next() {
		p := &domain.ProcessStrategy{}
		if err := rows.Scan(&p.ID, &p.Tenant, &p.Title, &p.Description, &p.Icon, &p.DisplayOrder); err != nil {
			return nil, fmt.Errorf("failed to scan process strategy: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Create inserts a new process strategy
func (r *PostgresProcessStrategyRepository) Create(ctx context.Context, p *domain.ProcessStrategy) error {
	query := `
		INSERT INTO process_strategies (tenant, title, description, icon, display_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, p.Tenant, p.Title, p.Description, p.Icon, p.DisplayOrder).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to create process strategy: %w", err)
	}
	return nil
}

// Update overwrites a process strategy in place
func (r *PostgresProcessStrategyRepository) Update(ctx context.Context, p *domain.ProcessStrategy) error {
	query := `
		UPDATE process_strategies
		SET title = $1, description = $2, icon = $3, display_order = $4
		WHERE tenant = $5 AND id = $6
	`
	res, err := r.db.ExecContext(ctx, query, p.Title, p.Description, p.Icon, p.DisplayOrder, p.Tenant, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update process strategy: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("process strategy %d: %w", p.ID, domain.ErrCopyFailed)
	}
	return nil
}

// FindByTitle performs a case-insensitive title lookup. First match by
// id wins.
func (r *PostgresProcessStrategyRepository) FindByTitle(ctx context.Context, tenant domain.Tenant, title string) (*domain.ProcessStrategy, error) {
	p := &domain.ProcessStrategy{}
	query := `
		SELECT id, tenant, title, description, icon, display_order
		FROM process_strategies
		WHERE tenant = $1 AND LOWER(title) = LOWER($2)
		ORDER BY id
		LIMIT 1
	`
	err := r.db.QueryRowContext(ctx, query, tenant, title).Scan(&p.ID, &p.Tenant, &p.Title, &p.Description, &p.Icon, &p.DisplayOrder)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("process strategy %q: %w", title, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find process strategy: %w", err)
	}
	return p, nil
}
