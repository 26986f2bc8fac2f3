package sqlite

import (
	"context"
	"fmt"

	"github.com/lu-zhengda/mailroom/internal/domain"
)

// SaveLabels replaces the label registry with labels, preserving order.
func (s *DB) SaveLabels(ctx context.Context, labels []domain.Label) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM labels`); err != nil {
		return fmt.Errorf("failed to clear labels: %w", err)
	}
	for i, l := range labels {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO labels (name, color, position) VALUES (?, ?, ?)
			ON CONFLICT(name) DO NOTHING`,
			l.Name, l.Color, i,
		); err != nil {
			return fmt.Errorf("failed to insert label %s: %w", l.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit labels: %w", err)
	}
	return nil
}

// LoadLabels returns all labels in saved order.
func (s *DB) LoadLabels(ctx context.Context) ([]domain.Label, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, color FROM labels ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	defer rows.Close()

	var labels []domain.Label
	for rows.Next() {
		var l domain.Label
		if err := rows.Scan(&l.Name, &l.Color); err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		labels = append(labels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate labels: %w", err)
	}

	return labels, nil
}
