package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/islaguezul/portfolio-backend/internal/domain"
)

// projectChildTables maps each project child collection to its table.
var projectChildTables = []struct {
	table string
	get   func(p *domain.Project) *[]string
}{
	{"project_technologies", func(p *domain.Project) *[]string { return &p.Technologies }},
	{"project_features", func(p *domain.Project) *[]string { return &p.Features }},
	{"project_impacts", func(p *domain.Project) *[]string { return &p.Impacts }},
	{"project_challenges", func(p *domain.Project) *[]string { return &p.Challenges }},
	{"project_outcomes", func(p *domain.Project) *[]string { return &p.Outcomes }},
	{"project_screenshots", func(p *domain.Project) *[]string { return &p.Screenshots }},
}

// PostgresProjectRepository implements domain.ProjectRepository using
// PostgreSQL.
type PostgresProjectRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresProjectRepository creates a new project repository
func NewPostgresProjectRepository(db *sql.DB, logger *slog.Logger) *PostgresProjectRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProjectRepository{db: db, logger: logger}
}

// GetByID retrieves a project and its child collections
func (r *PostgresProjectRepository) GetByID(ctx context.Context, tenant domain.Tenant, id int) (*domain.Project, error) {
	p := &domain.Project{}
	query := `
		SELECT id, tenant, name, description, status, role, display_order, created_at, updated_at
		FROM projects
		WHERE tenant = $1 AND id = $2
	`
	err := r.db.QueryRowContext(ctx, query, tenant, id).Scan(
		&p.ID, &p.Tenant, &p.Name, &p.Description, &p.Status, &p.Role, &p.DisplayOrder, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if err := r.loadChildren(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns all projects for a tenant, children included
func (r *PostgresProjectRepository) List(ctx context.Context, tenant domain.Tenant) ([]*domain.Project, error) {
	query := `
		SELECT id, tenant, name, description, status, role, display_order, created_at, updated_at
		FROM projects
		WHERE tenant = $1
		ORDER BY display_order, id
	`
	rows, err := r.db.QueryContext(ctx, query, tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var out []*domain.Project
	for rows.Next() {
		p := &domain.Project{}
		if err := rows.Scan(&p.ID, &p.Tenant, &p.Name, &p.Description, &p.Status, &p.Role, &p.DisplayOrder, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, p := range out {
		if err := r.loadChildren(ctx, p); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Create inserts a new project and all child rows in one transaction
func (r *PostgresProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO projects (tenant, name, description, status, role, display_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRowContext(ctx, query, p.Tenant, p.Name, p.Description, p.Status, p.Role, p.DisplayOrder).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	if err := r.writeChildren(ctx, tx, p); err != nil {
		return err
	}
	return tx.Commit()
}

// Update overwrites the parent row and replaces every child collection
// in one transaction. Returns domain.ErrCopyFailed when the target row
// does not exist.
func (r *PostgresProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE projects
		SET name = $1, description = $2, status = $3, role = $4, display_order = $5, updated_at = now()
		WHERE tenant = $6 AND id = $7
		RETURNING created_at, updated_at
	`
	err = tx.QueryRowContext(ctx, query, p.Name, p.Description, p.Status, p.Role, p.DisplayOrder, p.Tenant, p.ID).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("project %d: %w", p.ID, domain.ErrCopyFailed)
		}
		return fmt.Errorf("failed to update project: %w", err)
	}
	if err := r.writeChildren(ctx, tx, p); err != nil {
		return err
	}
	return tx.Commit()
}

// FindByName performs a case-insensitive name lookup on a tenant.
// First match by id wins when the key is ambiguous.
func (r *PostgresProjectRepository) FindByName(ctx context.Context, tenant domain.Tenant, name string) (*domain.Project, error) {
	p := &domain.Project{}
	query := `
		SELECT id, tenant, name, description, status, role, display_order, created_at, updated_at
		FROM projects
		WHERE tenant = $1 AND LOWER(name) = LOWER($2)
		ORDER BY id
		LIMIT 1
	`
	err := r.db.QueryRowContext(ctx, query, tenant, name).Scan(
		&p.ID, &p.Tenant, &p.Name, &p.Description, &p.Status, &p.Role, &p.DisplayOrder, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %q: %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find project by name: %w", err)
	}
	if err := r.loadChildren(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostgresProjectRepository) loadChildren(ctx context.Context, p *domain.Project) error {
	for _, c := range projectChildTables {
		values, err := loadChildValues(ctx, r.db, c.table, "project_id", p.ID)
		if err != nil {
			return err
		}
		*c.get(p) = values
	}
	return nil
}

func (r *PostgresProjectRepository) writeChildren(ctx context.Context, tx *sql.Tx, p *domain.Project) error {
	for _, c := range projectChildTables {
		if err := replaceChildValues(ctx, tx, c.table, "project_id", p.ID, *c.get(p)); err != nil {
			return err
		}
	}
	return nil
}
