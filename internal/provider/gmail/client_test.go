package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/lu-zhengda/mailroom/internal/domain"
	"github.com/lu-zhengda/mailroom/internal/provider"
	"github.com/lu-zhengda/mailroom/internal/store"
)

// fakeAPI serves the handful of Gmail endpoints the client touches.
type fakeAPI struct {
	sentRaw []string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/users/me/messages/send"):
		var msg gmailapi.Message
		json.NewDecoder(r.Body).Decode(&msg)
		f.sentRaw = append(f.sentRaw, msg.Raw)
		json.NewEncoder(w).Encode(gmailapi.Message{Id: "sent-1"})
	case strings.HasSuffix(r.URL.Path, "/users/me/profile"):
		json.NewEncoder(w).Encode(gmailapi.Profile{EmailAddress: "alicia@gmail.com"})
	case strings.HasSuffix(r.URL.Path, "/users/me/labels"):
		json.NewEncoder(w).Encode(gmailapi.ListLabelsResponse{Labels: []*gmailapi.Label{
			{Id: "INBOX", Name: "INBOX", Type: "system"},
			{Id: "Label_1", Name: "Travel", Type: "user"},
		}})
	case strings.HasSuffix(r.URL.Path, "/users/me/messages"):
		json.NewEncoder(w).Encode(gmailapi.ListMessagesResponse{Messages: []*gmailapi.Message{{Id: "a1"}, {Id: "a2"}}})
	case strings.Contains(r.URL.Path, "/users/me/messages/"):
		id := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		labels := []string{"INBOX", "UNREAD"}
		if id == "a2" {
			labels = []string{"SENT", "Label_1"}
		}
		json.NewEncoder(w).Encode(gmailapi.Message{
			Id:       id,
			LabelIds: labels,
			Payload: &gmailapi.MessagePart{
				MimeType: "text/plain",
				Headers: []*gmailapi.MessagePartHeader{
					{Name: "From", Value: "Ann <ann@example.com>"},
					{Name: "Subject", Value: "Message " + id},
					{Name: "Date", Value: "Mon, 01 Jan 2024 12:00:00 +0000"},
				},
				Body: &gmailapi.MessagePartBody{Data: base64.RawURLEncoding.EncodeToString([]byte("body " + id))},
			},
		})
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T) (*Client, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	c, err := newWithService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("newWithService() error = %v", err)
	}
	return c, api
}

func TestSend(t *testing.T) {
	c, api := newTestClient(t)

	err := c.Send(context.Background(), provider.OutboundMail{
		From:    domain.Address{Name: "Alicia", Email: "alicia@gmail.com"},
		To:      "bob@example.com",
		Subject: "Hello from the terminal",
		Body:    "It works.",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if len(api.sentRaw) != 1 {
		t.Fatalf("sent %d messages, want 1", len(api.sentRaw))
	}
	raw, err := base64.URLEncoding.DecodeString(api.sentRaw[0])
	if err != nil {
		t.Fatalf("raw is not base64url: %v", err)
	}
	for _, want := range []string{"Subject: Hello from the terminal", "bob@example.com", "It works."} {
		if !strings.Contains(string(raw), want) {
			t.Errorf("raw message missing %q:\n%s", want, raw)
		}
	}
}

func TestSendValidates(t *testing.T) {
	c, api := newTestClient(t)
	err := c.Send(context.Background(), provider.OutboundMail{To: "bob@example.com"})
	if !errors.Is(err, provider.ErrMissingFields) {
		t.Errorf("Send() error = %v, want %v", err, provider.ErrMissingFields)
	}
	if len(api.sentRaw) != 0 {
		t.Errorf("sent %d messages, want 0", len(api.sentRaw))
	}
}

func TestGetProfile(t *testing.T) {
	c, _ := newTestClient(t)
	got, err := c.GetProfile(context.Background())
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if got != "alicia@gmail.com" {
		t.Errorf("GetProfile() = %q, want %q", got, "alicia@gmail.com")
	}
}

func TestImport(t *testing.T) {
	c, _ := newTestClient(t)
	msgs, err := c.Import(context.Background(), "account-1", "newer_than:7d", 10)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("Import() returned %d messages, want 2", len(msgs))
	}
	if msgs[0].ID != "gmail-a1" || msgs[0].Folder != domain.FolderInbox || msgs[0].IsRead {
		t.Errorf("first message = %+v, want unread inbox gmail-a1", msgs[0])
	}
	if msgs[1].Folder != domain.FolderSent {
		t.Errorf("second folder = %q, want %q", msgs[1].Folder, domain.FolderSent)
	}
	if len(msgs[1].Labels) != 1 || msgs[1].Labels[0] != "travel" {
		t.Errorf("second labels = %v, want [travel]", msgs[1].Labels)
	}
	if msgs[1].Body != "body a2" {
		t.Errorf("second body = %q, want %q", msgs[1].Body, "body a2")
	}
}

func TestEnsureServiceWithoutCredentials(t *testing.T) {
	SetCredentials("", "")
	c := New(store.NewMemoryTokenStore())
	if err := c.ensureService(context.Background()); err == nil {
		t.Error("ensureService() succeeded without credentials, want error")
	}
	if c.IsAuthenticated() {
		t.Error("IsAuthenticated() = true, want false")
	}
}
