// Package provider defines how outbound mail leaves mailroom.
package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	netmail "net/mail"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"

	"github.com/lu-zhengda/mailroom/internal/domain"
)

var (
	ErrMissingFields = errors.New("Missing required fields.")
	ErrInvalidTo     = errors.New("Invalid 'To' email address.")
)

// OutboundMail is a plain-text message handed to a Sender. To may hold
// several comma-separated addresses.
type OutboundMail struct {
	From      domain.Address
	To        string
	Subject   string
	Body      string
	InReplyTo string
}

// Sender delivers a message. Implementations must not mutate m.
type Sender interface {
	Name() string
	Send(ctx context.Context, m OutboundMail) error
}

// Validate checks that to, subject and body are present and that every
// recipient parses as an address.
func Validate(m OutboundMail) error {
	if strings.TrimSpace(m.To) == "" || strings.TrimSpace(m.Subject) == "" || strings.TrimSpace(m.Body) == "" {
		return ErrMissingFields
	}
	if _, err := Recipients(m); err != nil {
		return err
	}
	return nil
}

// Recipients returns the bare addresses in m.To.
func Recipients(m OutboundMail) ([]string, error) {
	list, err := netmail.ParseAddressList(m.To)
	if err != nil || len(list) == 0 {
		return nil, ErrInvalidTo
	}
	rcpts := make([]string, 0, len(list))
	for _, a := range list {
		rcpts = append(rcpts, a.Address)
	}
	return rcpts, nil
}

// BuildMessage writes m to w as an RFC 5322 text/plain message.
func BuildMessage(w io.Writer, m OutboundMail, now time.Time) error {
	to, err := netmail.ParseAddressList(m.To)
	if err != nil {
		return ErrInvalidTo
	}

	var h mail.Header
	h.SetDate(now)
	h.SetAddressList("From", []*mail.Address{{Name: m.From.Name, Address: m.From.Email}})
	h.SetAddressList("To", to)
	h.SetSubject(m.Subject)
	if m.InReplyTo != "" {
		h.Set("In-Reply-To", m.InReplyTo)
	}
	if err := h.GenerateMessageID(); err != nil {
		return fmt.Errorf("failed to generate message id: %w", err)
	}
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	body, err := mail.CreateSingleInlineWriter(w, h)
	if err != nil {
		return fmt.Errorf("failed to write message header: %w", err)
	}
	if _, err := io.WriteString(body, m.Body); err != nil {
		return fmt.Errorf("failed to write message body: %w", err)
	}
	if err := body.Close(); err != nil {
		return fmt.Errorf("failed to finish message: %w", err)
	}
	return nil
}

// LogSender records messages instead of delivering them.
type LogSender struct {
	// Logger defaults to the standard logger.
	Logger *log.Logger
}

func (LogSender) Name() string { return "log" }

func (s LogSender) Send(_ context.Context, m OutboundMail) error {
	logf := log.Printf
	if s.Logger != nil {
		logf = s.Logger.Printf
	}
	logf("[send] simulated delivery to %s: %q (%d bytes)", m.To, m.Subject, len(m.Body))
	return nil
}
