package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lu-zhengda/mailroom/internal/domain"
)

// SaveMessages replaces the stored mailbox with msgs, preserving their order.
func (s *DB) SaveMessages(ctx context.Context, msgs []domain.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"message_labels", "attachments", "replies", "messages"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for i := range msgs {
		if err := insertMessage(ctx, tx, i, &msgs[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit messages: %w", err)
	}
	return nil
}

func insertMessage(ctx context.Context, tx *sql.Tx, pos int, m *domain.Message) error {
	toJSON, err := json.Marshal(m.To)
	if err != nil {
		return fmt.Errorf("failed to marshal To addresses: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO messages (id, account_id, position, from_addr, from_name, to_addrs,
			subject, body_text, date, folder, is_read, is_starred, reply_to_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.AccountID, pos,
		m.From.Email, m.From.Name, string(toJSON),
		m.Subject, m.Body,
		m.Date.UTC().Format(time.RFC3339Nano),
		string(m.Folder), m.IsRead, m.IsStarred, m.ReplyToID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert message %s: %w", m.ID, err)
	}

	for i, label := range m.Labels {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO message_labels (message_id, label, position) VALUES (?, ?, ?)`,
			m.ID, label, i); err != nil {
			return fmt.Errorf("failed to insert message label: %w", err)
		}
	}
	for i, a := range m.Attachments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO attachments (message_id, position, name, size, type) VALUES (?, ?, ?, ?, ?)`,
			m.ID, i, a.Name, a.Size, a.Type); err != nil {
			return fmt.Errorf("failed to insert attachment: %w", err)
		}
	}
	for i, r := range m.Replies {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO replies (message_id, position, text, date, sender) VALUES (?, ?, ?, ?, ?)`,
			m.ID, i, r.Text, r.Date.UTC().Format(time.RFC3339Nano), r.Sender); err != nil {
			return fmt.Errorf("failed to insert reply: %w", err)
		}
	}
	return nil
}

// LoadMessages returns the stored mailbox in saved order.
func (s *DB) LoadMessages(ctx context.Context) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, from_addr, from_name, to_addrs, subject, body_text,
			date, folder, is_read, is_starred, reply_to_id
		FROM messages ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var msgs []domain.Message
	index := make(map[string]int)
	for rows.Next() {
		var m domain.Message
		var fromName, toJSON, subject, body, replyTo sql.NullString
		var dateStr, folder string

		if err := rows.Scan(
			&m.ID, &m.AccountID, &m.From.Email, &fromName, &toJSON, &subject, &body,
			&dateStr, &folder, &m.IsRead, &m.IsStarred, &replyTo,
		); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}

		m.From.Name = fromName.String
		m.Subject = subject.String
		m.Body = body.String
		m.ReplyToID = replyTo.String
		m.Folder = domain.Folder(folder)
		m.Labels = []string{}

		if toJSON.String != "" && toJSON.String != "null" {
			if err := json.Unmarshal([]byte(toJSON.String), &m.To); err != nil {
				return nil, fmt.Errorf("failed to unmarshal To addresses: %w", err)
			}
		}
		if m.Date, err = time.Parse(time.RFC3339Nano, dateStr); err != nil {
			return nil, fmt.Errorf("failed to parse message date: %w", err)
		}

		index[m.ID] = len(msgs)
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	if err := s.loadMessageLabels(ctx, msgs, index); err != nil {
		return nil, err
	}
	if err := s.loadAttachments(ctx, msgs, index); err != nil {
		return nil, err
	}
	if err := s.loadReplies(ctx, msgs, index); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *DB) loadMessageLabels(ctx context.Context, msgs []domain.Message, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT message_id, label FROM message_labels ORDER BY message_id, position`)
	if err != nil {
		return fmt.Errorf("failed to query message labels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, label string
		if err := rows.Scan(&id, &label); err != nil {
			return fmt.Errorf("failed to scan message label: %w", err)
		}
		if i, ok := index[id]; ok {
			msgs[i].Labels = append(msgs[i].Labels, label)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate message labels: %w", err)
	}
	return nil
}

func (s *DB) loadAttachments(ctx context.Context, msgs []domain.Message, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT message_id, name, size, type FROM attachments ORDER BY message_id, position`)
	if err != nil {
		return fmt.Errorf("failed to query attachments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var name, size, typ sql.NullString
		if err := rows.Scan(&id, &name, &size, &typ); err != nil {
			return fmt.Errorf("failed to scan attachment: %w", err)
		}
		if i, ok := index[id]; ok {
			msgs[i].Attachments = append(msgs[i].Attachments, domain.Attachment{
				Name: name.String,
				Size: size.String,
				Type: typ.String,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate attachments: %w", err)
	}
	return nil
}

func (s *DB) loadReplies(ctx context.Context, msgs []domain.Message, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT message_id, text, date, sender FROM replies ORDER BY message_id, position`)
	if err != nil {
		return fmt.Errorf("failed to query replies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, dateStr string
		var text, sender sql.NullString
		if err := rows.Scan(&id, &text, &dateStr, &sender); err != nil {
			return fmt.Errorf("failed to scan reply: %w", err)
		}
		date, err := time.Parse(time.RFC3339Nano, dateStr)
		if err != nil {
			return fmt.Errorf("failed to parse reply date: %w", err)
		}
		if i, ok := index[id]; ok {
			msgs[i].Replies = append(msgs[i].Replies, domain.Reply{
				Text:   text.String,
				Date:   date,
				Sender: sender.String,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate replies: %w", err)
	}
	return nil
}
