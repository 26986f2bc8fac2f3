package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	"golang.org/x/oauth2"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/lu-zhengda/mailroom/internal/domain"
	"github.com/lu-zhengda/mailroom/internal/provider"
	"github.com/lu-zhengda/mailroom/internal/store"
)

const (
	userID   = "me"
	tokenKey = "gmail"
)

// Client sends mail through the Gmail API and can import recent messages
// into a local mailbox.
type Client struct {
	tokens  store.TokenStore
	service *gmailapi.Service
	now     func() time.Time
}

// New returns a Client that keeps its OAuth token in tokens.
func New(tokens store.TokenStore) *Client {
	return &Client{tokens: tokens, now: time.Now}
}

// newWithService is used by tests to point the client at a fake API.
func newWithService(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	srv, err := gmailapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	return &Client{service: srv, now: time.Now}, nil
}

func (c *Client) Name() string { return "gmail" }

// Authenticate runs the OAuth2 flow, printing the consent URL to prompt,
// then saves the token and initializes the Gmail service.
func (c *Client) Authenticate(ctx context.Context, prompt io.Writer) error {
	token, err := authenticate(ctx, prompt)
	if err != nil {
		return fmt.Errorf("failed to authenticate gmail: %w", err)
	}

	if err := c.tokens.SaveToken(tokenKey, token); err != nil {
		return fmt.Errorf("failed to save gmail token: %w", err)
	}
	return c.useToken(ctx, token)
}

// IsAuthenticated returns true if the Gmail service is initialized.
func (c *Client) IsAuthenticated() bool {
	return c.service != nil
}

func (c *Client) useToken(ctx context.Context, token *oauth2.Token) error {
	srv, err := gmailapi.NewService(ctx, option.WithTokenSource(oauthConfig.TokenSource(ctx, token)))
	if err != nil {
		return fmt.Errorf("failed to create gmail service: %w", err)
	}
	c.service = srv
	return nil
}

// ensureService lazily initializes the Gmail service from the stored token.
func (c *Client) ensureService(ctx context.Context) error {
	if c.service != nil {
		return nil
	}
	if err := EnsureCredentials(); err != nil {
		return err
	}
	token, err := c.tokens.LoadToken(tokenKey)
	if err != nil {
		return fmt.Errorf("failed to load gmail token (run `mailroom gmail login`): %w", err)
	}
	return c.useToken(ctx, token)
}

// Send composes m and submits it with users.messages.send.
func (c *Client) Send(ctx context.Context, m provider.OutboundMail) error {
	if err := provider.Validate(m); err != nil {
		return err
	}
	if err := c.ensureService(ctx); err != nil {
		return fmt.Errorf("failed to ensure gmail service: %w", err)
	}

	var raw bytes.Buffer
	if err := provider.BuildMessage(&raw, m, c.now()); err != nil {
		return err
	}
	msg := &gmailapi.Message{Raw: base64.URLEncoding.EncodeToString(raw.Bytes())}
	if _, err := c.service.Users.Messages.Send(userID, msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to send gmail message: %w", err)
	}
	return nil
}

// GetProfile returns the authenticated user's email address.
func (c *Client) GetProfile(ctx context.Context) (string, error) {
	if err := c.ensureService(ctx); err != nil {
		return "", fmt.Errorf("failed to ensure gmail service: %w", err)
	}

	profile, err := c.service.Users.GetProfile(userID).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get gmail profile: %w", err)
	}
	return profile.EmailAddress, nil
}

// userLabels maps user label IDs to their display names.
func (c *Client) userLabels(ctx context.Context) (map[string]string, error) {
	resp, err := c.service.Users.Labels.List(userID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list gmail labels: %w", err)
	}
	names := make(map[string]string, len(resp.Labels))
	for _, l := range resp.Labels {
		if l.Type == "user" {
			names[l.Id] = l.Name
		}
	}
	return names, nil
}

// Import fetches up to max recent messages matching query and maps them
// onto accountID. It is a one-shot copy, not a sync.
func (c *Client) Import(ctx context.Context, accountID, query string, max int) ([]domain.Message, error) {
	if err := c.ensureService(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure gmail service: %w", err)
	}
	labels, err := c.userLabels(ctx)
	if err != nil {
		return nil, err
	}

	call := c.service.Users.Messages.List(userID)
	if max > 0 {
		call = call.MaxResults(int64(max))
	}
	if query != "" {
		call = call.Q(query)
	}
	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list gmail messages: %w", err)
	}

	msgs := make([]domain.Message, 0, len(resp.Messages))
	for _, ref := range resp.Messages {
		full, err := c.service.Users.Messages.Get(userID, ref.Id).
			Format("full").Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get gmail message %s: %w", ref.Id, err)
		}
		msgs = append(msgs, mapMessage(full, accountID, labels))
	}
	return msgs, nil
}

var _ provider.Sender = (*Client)(nil)
