package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lu-zhengda/mailroom/internal/config"
	"github.com/lu-zhengda/mailroom/internal/domain"
	"github.com/lu-zhengda/mailroom/internal/provider"
	"github.com/lu-zhengda/mailroom/internal/provider/gmail"
	"github.com/lu-zhengda/mailroom/internal/provider/smtp"
	"github.com/lu-zhengda/mailroom/internal/store"
)

// NewSender returns the transport selected by cfg.Transport.Kind.
func NewSender(cfg *config.Config, tokens store.TokenStore) (provider.Sender, error) {
	switch cfg.Transport.Kind {
	case "", "log":
		return provider.LogSender{}, nil
	case "smtp":
		return smtp.New(cfg.SMTP, cfg.Transport.From)
	case "gmail":
		gmail.SetCredentials(cfg.Gmail.ClientID, cfg.Gmail.ClientSecret)
		return gmail.New(tokens), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport.Kind)
	}
}

// SendService delivers real mail outside the mailbox model and records
// each successful send in the sent log.
type SendService struct {
	sender provider.Sender
	store  store.Store
	userID string
	from   domain.Address
	now    func() time.Time
}

// NewSendService creates a SendService that sends as from on behalf of userID.
func NewSendService(sender provider.Sender, st store.Store, userID string, from domain.Address) *SendService {
	return &SendService{sender: sender, store: st, userID: userID, from: from, now: time.Now}
}

// Send validates m, hands it to the transport and logs it. Validation and
// transport errors are returned; a failure to write the log is not.
func (s *SendService) Send(ctx context.Context, m provider.OutboundMail) error {
	if err := provider.Validate(m); err != nil {
		return err
	}
	if m.From.Email == "" {
		m.From = s.from
	}

	if err := s.sender.Send(ctx, m); err != nil {
		log.Printf("[send] %s transport failed: %v", s.sender.Name(), err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	log.Printf("[send] sent %q to %s via %s", m.Subject, m.To, s.sender.Name())

	rec := &store.SentRecord{
		UserID:  s.userID,
		ToEmail: m.To,
		Subject: m.Subject,
		Body:    m.Body,
		SentAt:  s.now(),
	}
	if err := s.store.LogSent(ctx, rec); err != nil {
		log.Printf("[send] failed to record sent mail: %v", err)
	}
	return nil
}

// History returns the user's most recent sends, newest first.
func (s *SendService) History(ctx context.Context, limit int) ([]store.SentRecord, error) {
	recs, err := s.store.ListSent(ctx, s.userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sent mail: %w", err)
	}
	return recs, nil
}
