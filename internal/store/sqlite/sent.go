package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/lu-zhengda/mailroom/internal/store"
)

// LogSent records an outbound mail and fills in its ID.
func (s *DB) LogSent(ctx context.Context, rec *store.SentRecord) error {
	if rec.SentAt.IsZero() {
		rec.SentAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sent_log (user_id, to_email, subject, body, sent_at) VALUES (?, ?, ?, ?, ?)`,
		rec.UserID, rec.ToEmail, rec.Subject, rec.Body, rec.SentAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to log sent mail: %w", err)
	}
	if rec.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read sent log id: %w", err)
	}
	return nil
}

// ListSent returns a user's sent log, newest first. A limit of 0 means no
// limit.
func (s *DB) ListSent(ctx context.Context, userID string, limit int) ([]store.SentRecord, error) {
	query := `SELECT id, user_id, to_email, subject, body, sent_at FROM sent_log
		WHERE user_id = ? ORDER BY sent_at DESC, id DESC`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sent mail: %w", err)
	}
	defer rows.Close()

	var out []store.SentRecord
	for rows.Next() {
		var r store.SentRecord
		var sentAt string
		if err := rows.Scan(&r.ID, &r.UserID, &r.ToEmail, &r.Subject, &r.Body, &sentAt); err != nil {
			return nil, fmt.Errorf("failed to scan sent mail: %w", err)
		}
		if r.SentAt, err = time.Parse(time.RFC3339Nano, sentAt); err != nil {
			return nil, fmt.Errorf("failed to parse sent time: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sent mail: %w", err)
	}
	return out, nil
}
