// Package smtp delivers outbound mail through an SMTP submission server.
package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-sasl"
	gosmtp "github.com/emersion/go-smtp"

	"github.com/lu-zhengda/mailroom/internal/config"
	"github.com/lu-zhengda/mailroom/internal/provider"
)

const dialTimeout = 15 * time.Second

// Sender submits mail to a single configured server.
type Sender struct {
	host   string
	port   int
	secure bool
	user   string
	pass   string
	from   string

	// tlsConfig overrides the TLS settings; tests use it to trust a local server.
	tlsConfig *tls.Config
	now       func() time.Time
}

// New returns a Sender for cfg.SMTP. from is the envelope sender used
// when a message carries none.
func New(cfg config.SMTPConfig, from string) (*Sender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	port := cfg.Port
	if port == 0 {
		port = 587
		if cfg.Secure {
			port = 465
		}
	}
	return &Sender{
		host:   cfg.Host,
		port:   port,
		secure: cfg.Secure,
		user:   cfg.User,
		pass:   cfg.Pass,
		from:   from,
		now:    time.Now,
	}, nil
}

func (s *Sender) Name() string { return "smtp" }

func (s *Sender) addr() string {
	return net.JoinHostPort(s.host, strconv.Itoa(s.port))
}

func (s *Sender) tls() *tls.Config {
	if s.tlsConfig != nil {
		return s.tlsConfig
	}
	return &tls.Config{ServerName: s.host}
}

func (s *Sender) dial(ctx context.Context) (*gosmtp.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	var (
		conn net.Conn
		err  error
	)
	if s.secure {
		d := &tls.Dialer{Config: s.tls()}
		conn, err = d.DialContext(ctx, "tcp", s.addr())
	} else {
		var d net.Dialer
		conn, err = d.DialContext(ctx, "tcp", s.addr())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", s.addr(), err)
	}

	c, err := gosmtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to start smtp session: %w", err)
	}
	return c, nil
}

// Send validates m, then runs one MAIL/RCPT/DATA transaction.
func (s *Sender) Send(ctx context.Context, m provider.OutboundMail) error {
	if err := provider.Validate(m); err != nil {
		return err
	}
	rcpts, err := provider.Recipients(m)
	if err != nil {
		return err
	}
	if m.From.Email == "" {
		m.From.Email = s.from
	}
	if m.From.Email == "" {
		return fmt.Errorf("no sender address configured")
	}

	var msg bytes.Buffer
	if err := provider.BuildMessage(&msg, m, s.now()); err != nil {
		return err
	}

	c, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if !s.secure {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(s.tls()); err != nil {
				return fmt.Errorf("failed to start tls: %w", err)
			}
		}
	}
	if s.user != "" {
		if ok, _ := c.Extension("AUTH"); !ok {
			return fmt.Errorf("server %s does not support authentication", s.host)
		}
		if err := c.Auth(sasl.NewPlainClient("", s.user, s.pass)); err != nil {
			return fmt.Errorf("failed to authenticate: %w", describe(err))
		}
	}

	if err := c.Mail(m.From.Email, &gosmtp.MailOptions{Size: msg.Len()}); err != nil {
		return fmt.Errorf("sender rejected: %w", describe(err))
	}
	for _, rcpt := range rcpts {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("recipient %s rejected: %w", rcpt, describe(err))
		}
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("failed to start data: %w", describe(err))
	}
	if _, err := w.Write(msg.Bytes()); err != nil {
		w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("message rejected: %w", describe(err))
	}
	return c.Quit()
}

// describe prefixes protocol errors with the server's reply code.
func describe(err error) error {
	var smtpErr *gosmtp.SMTPError
	if errors.As(err, &smtpErr) {
		return fmt.Errorf("%d: %w", smtpErr.Code, err)
	}
	return err
}

var _ provider.Sender = (*Sender)(nil)
