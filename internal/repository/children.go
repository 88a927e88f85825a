package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// querier is satisfied by both *sql.DB and *sql.Tx so child collections
// can be loaded outside a transaction and replaced inside one.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// loadChildValues reads one ordered child collection for a parent row.
func loadChildValues(ctx context.Context, q querier, table, parentCol string, parentID int) ([]string, error) {
	query := fmt.Sprintf(
		`SELECT value FROM %s WHERE %s = $1 ORDER BY position`,
		table, parentCol,
	)
	rows, err := q.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", table, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// replaceChildValues discards a parent's child rows and inserts the
// given values in order. Callers run this inside the same transaction
// as the parent write so a failure cannot leave a partial child set.
func replaceChildValues(ctx context.Context, q querier, table, parentCol string, parentID int, values []string) error {
	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table, parentCol)
	if _, err := q.ExecContext(ctx, deleteQuery, parentID); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}

	insertQuery := fmt.Sprintf(
		`INSERT INTO %s (%s, position, value) VALUES ($1, $2, $3)`,
		table, parentCol,
	)
	for i, v := range values {
		if _, err := q.ExecContext(ctx, insertQuery, parentID, i, v); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	return nil
}
