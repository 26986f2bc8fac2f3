// Package auth talks to the identity provider that gates the mailbox.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lu-zhengda/mailroom/internal/config"
	"github.com/lu-zhengda/mailroom/internal/domain"
	"github.com/lu-zhengda/mailroom/internal/store"
)

var (
	// ErrInvalidCredentials is returned when the provider rejects an
	// email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotConfigured is returned when a provider lacks its endpoint or keys.
	ErrNotConfigured = errors.New("auth provider not configured")
)

// Provider signs users in and reports who is signed in. CurrentUser returns
// nil without an error when nobody is.
type Provider interface {
	Name() string
	SignUp(ctx context.Context, email, password, name string) (*domain.User, error)
	SignIn(ctx context.Context, email, password string) (*domain.User, error)
	SignOut(ctx context.Context) error
	CurrentUser(ctx context.Context) (*domain.User, error)
}

// APIError is a non-2xx reply from a provider.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("auth request failed with status %d", e.Status)
	}
	return fmt.Sprintf("auth request failed with status %d: %s", e.Status, e.Message)
}

// New returns the provider selected by cfg.Auth.Provider. Sessions are
// kept in tokens.
func New(cfg *config.Config, tokens store.TokenStore) (Provider, error) {
	httpClient := &http.Client{Timeout: 15 * time.Second}
	switch strings.ToLower(cfg.Auth.Provider) {
	case "supabase":
		return NewSupabase(cfg.Supabase.URL, cfg.Supabase.AnonKey, tokens, httpClient)
	case "appwrite":
		return NewAppwrite(cfg.Appwrite.Endpoint, cfg.Appwrite.Project, tokens, httpClient)
	case "", "none":
		return NewNone(), nil
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.Auth.Provider)
	}
}

// doJSON sends body as JSON and decodes a 2xx reply into out. Non-2xx
// replies become *APIError.
func doJSON(client *http.Client, req *http.Request, body, out any) (*http.Response, error) {
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		req.Body = io.NopCloser(bytes.NewReader(data))
		req.ContentLength = int64(len(data))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach auth provider: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, fmt.Errorf("failed to read auth response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return resp, &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}
	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp, fmt.Errorf("failed to decode auth response: %w", err)
		}
	}
	return resp, nil
}

// errorMessage digs the human-readable message out of a provider error body.
func errorMessage(data []byte) string {
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		return strings.TrimSpace(string(data))
	}
	for _, key := range []string{"error_description", "msg", "message", "error"} {
		if s, ok := body[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
