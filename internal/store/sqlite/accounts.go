package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lu-zhengda/mailroom/internal/domain"
	"github.com/lu-zhengda/mailroom/internal/store"
)

func (s *DB) CreateAccount(ctx context.Context, acct *domain.Account) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, email, label, avatar, position)
		 VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM accounts))`,
		acct.ID, acct.Email, acct.Label, acct.Avatar,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// UpsertAccount inserts the account or refreshes its email, label and
// avatar, keeping its position.
func (s *DB) UpsertAccount(ctx context.Context, acct *domain.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, email, label, avatar, position)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM accounts))
		ON CONFLICT(id) DO UPDATE SET
			email  = excluded.email,
			label  = excluded.label,
			avatar = excluded.avatar`,
		acct.ID, acct.Email, acct.Label, acct.Avatar,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert account %s: %w", acct.ID, err)
	}
	return nil
}

func (s *DB) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	var a domain.Account
	var label, avatar sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, label, avatar FROM accounts WHERE id = ?`, id,
	).Scan(&a.ID, &a.Email, &label, &avatar)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get account %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", id, err)
	}
	a.Label = label.String
	a.Avatar = avatar.String
	return &a, nil
}

func (s *DB) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, email, label, avatar FROM accounts ORDER BY position, created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		var label, avatar sql.NullString
		if err := rows.Scan(&a.ID, &a.Email, &label, &avatar); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		a.Label = label.String
		a.Avatar = avatar.String
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *DB) DeleteAccount(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", id, err)
	}
	return nil
}
