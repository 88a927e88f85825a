package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements creates the content tables if they do not exist.
// Child tables cascade on parent delete; child order is a position
// column.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id SERIAL PRIMARY KEY,
		tenant TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT '',
		display_order INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS project_technologies (
		project_id INT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		position INT NOT NULL,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS project_features (
		project_id INT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		position INT NOT NULL,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS project_impacts (
		project_id INT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		position INT NOT NULL,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS project_challenges (
		project_id INT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		position INT NOT NULL,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS project_outcomes (
		project_id INT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		position INT NOT NULL,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS project_screenshots (
		project_id INT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		position INT NOT NULL,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS work_experience (
		id SERIAL PRIMARY KEY,
		tenant TEXT NOT NULL,
		company TEXT NOT NULL,
		title TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		start_date TEXT NOT NULL DEFAULT '',
		end_date TEXT NOT NULL DEFAULT '',
		current BOOLEAN NOT NULL DEFAULT FALSE,
		display_order INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS experience_responsibilities (
		experience_id INT NOT NULL REFERENCES work_experience(id) ON DELETE CASCADE,
		position INT NOT NULL,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS education (
		id SERIAL PRIMARY KEY,
		tenant TEXT NOT NULL,
		school TEXT NOT NULL,
		degree TEXT NOT NULL,
		field TEXT NOT NULL DEFAULT '',
		start_year TEXT NOT NULL DEFAULT '',
		end_year TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS education_courses (
		education_id INT NOT NULL REFERENCES education(id) ON DELETE CASCADE,
		position INT NOT NULL,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tech_stack (
		id SERIAL PRIMARY KEY,
		tenant TEXT NOT NULL,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		proficiency INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS skill_categories (
		id SERIAL PRIMARY KEY,
		tenant TEXT NOT NULL,
		name TEXT NOT NULL,
		display_order INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS category_skills (
		category_id INT NOT NULL REFERENCES skill_categories(id) ON DELETE CASCADE,
		position INT NOT NULL,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS process_strategies (
		id SERIAL PRIMARY KEY,
		tenant TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		icon TEXT NOT NULL DEFAULT '',
		display_order INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS expertise_radar (
		id SERIAL PRIMARY KEY,
		tenant TEXT NOT NULL,
		skill_name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		level INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS personal_info (
		id SERIAL PRIMARY KEY,
		tenant TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		bio TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		linkedin TEXT NOT NULL DEFAULT '',
		github TEXT NOT NULL DEFAULT '',
		tagline TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS admin_users (
		id SERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema creates all content tables. Safe to run on every start.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
