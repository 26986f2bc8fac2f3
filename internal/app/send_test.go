package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lu-zhengda/mailroom/internal/config"
	"github.com/lu-zhengda/mailroom/internal/domain"
	"github.com/lu-zhengda/mailroom/internal/provider"
	"github.com/lu-zhengda/mailroom/internal/store"
)

type fakeSender struct {
	err  error
	sent []provider.OutboundMail
}

func (f *fakeSender) Name() string { return "fake" }

func (f *fakeSender) Send(_ context.Context, m provider.OutboundMail) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}

// failingLog is a store whose sent log is broken.
type failingLog struct{ store.Store }

func (failingLog) LogSent(context.Context, *store.SentRecord) error {
	return errors.New("disk full")
}

var testFrom = domain.Address{Name: "Me", Email: "me@example.com"}

func validMail() provider.OutboundMail {
	return provider.OutboundMail{To: "bob@example.com", Subject: "Hi", Body: "Hello Bob"}
}

func TestSendServiceLogsSuccess(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	fs := &fakeSender{}
	svc := NewSendService(fs, st, "user-1", testFrom)
	svc.now = func() time.Time { return time.Date(2024, 10, 25, 12, 0, 0, 0, time.UTC) }

	if err := svc.Send(ctx, validMail()); err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if len(fs.sent) != 1 || fs.sent[0].From != testFrom {
		t.Fatalf("sent = %+v, want one message from %v", fs.sent, testFrom)
	}

	recs, err := svc.History(ctx, 10)
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("History() = %d records, want 1", len(recs))
	}
	if recs[0].ToEmail != "bob@example.com" || recs[0].Subject != "Hi" || recs[0].Body != "Hello Bob" {
		t.Errorf("record = %+v, want the sent mail", recs[0])
	}
}

func TestSendServiceValidatesBeforeSending(t *testing.T) {
	fs := &fakeSender{}
	svc := NewSendService(fs, newTestStore(t), "user-1", testFrom)

	tests := []struct {
		name string
		mail provider.OutboundMail
		want error
	}{
		{"missing body", provider.OutboundMail{To: "bob@example.com", Subject: "Hi"}, provider.ErrMissingFields},
		{"bad recipient", provider.OutboundMail{To: "bob", Subject: "Hi", Body: "x"}, provider.ErrInvalidTo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.Send(context.Background(), tt.mail); !errors.Is(err, tt.want) {
				t.Errorf("Send() error = %v, want %v", err, tt.want)
			}
		})
	}
	if len(fs.sent) != 0 {
		t.Errorf("sender called %d times, want 0", len(fs.sent))
	}
}

func TestSendServiceTransportFailure(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	boom := errors.New("connection refused")
	svc := NewSendService(&fakeSender{err: boom}, st, "user-1", testFrom)

	if err := svc.Send(ctx, validMail()); !errors.Is(err, boom) {
		t.Errorf("Send() error = %v, want %v", err, boom)
	}
	recs, _ := svc.History(ctx, 0)
	if len(recs) != 0 {
		t.Errorf("History() = %d records, want 0 after failed send", len(recs))
	}
}

func TestSendServiceIgnoresLogFailure(t *testing.T) {
	fs := &fakeSender{}
	svc := NewSendService(fs, failingLog{newTestStore(t)}, "user-1", testFrom)
	if err := svc.Send(context.Background(), validMail()); err != nil {
		t.Errorf("Send() error = %v, want nil when only the log fails", err)
	}
	if len(fs.sent) != 1 {
		t.Errorf("sent = %d, want 1", len(fs.sent))
	}
}

func TestNewSender(t *testing.T) {
	tests := []struct {
		name     string
		kind     string
		smtpHost string
		want     string
		wantErr  bool
	}{
		{"default", "", "", "log", false},
		{"log", "log", "", "log", false},
		{"smtp", "smtp", "mail.example.com", "smtp", false},
		{"smtp without host", "smtp", "", "", true},
		{"gmail", "gmail", "", "gmail", false},
		{"unknown", "carrier-pigeon", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Transport.Kind = tt.kind
			cfg.SMTP.Host = tt.smtpHost
			s, err := NewSender(cfg, store.NewMemoryTokenStore())
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewSender() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && s.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", s.Name(), tt.want)
			}
		})
	}
}
