package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lu-zhengda/mailroom/internal/domain"
	"github.com/lu-zhengda/mailroom/internal/store"
)

func (s *DB) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	p := domain.Profile{UserID: userID}
	err := s.db.QueryRowContext(ctx,
		`SELECT full_name, username, bio, avatar_url FROM profiles WHERE user_id = ?`, userID,
	).Scan(&p.FullName, &p.Username, &p.Bio, &p.AvatarURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get profile %s: %w", userID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %s: %w", userID, err)
	}
	return &p, nil
}

func (s *DB) UpsertProfile(ctx context.Context, p *domain.Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, full_name, username, bio, avatar_url)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			full_name  = excluded.full_name,
			username   = excluded.username,
			bio        = excluded.bio,
			avatar_url = excluded.avatar_url,
			updated_at = CURRENT_TIMESTAMP`,
		p.UserID, p.FullName, p.Username, p.Bio, p.AvatarURL,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile %s: %w", p.UserID, err)
	}
	return nil
}

// UpdateProfileField writes a single column, creating the profile row if
// the user has none yet.
func (s *DB) UpdateProfileField(ctx context.Context, userID string, field store.ProfileField, value string) error {
	if !field.Valid() {
		return fmt.Errorf("unknown profile field %q", field)
	}
	col := string(field)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, `+col+`) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET `+col+` = excluded.`+col+`, updated_at = CURRENT_TIMESTAMP`,
		userID, value,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile %s %s: %w", userID, col, err)
	}
	return nil
}
