package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	gotrue "github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	"golang.org/x/oauth2"

	"github.com/lu-zhengda/mailroom/internal/domain"
	"github.com/lu-zhengda/mailroom/internal/store"
)

const supabaseTokenKey = "session/supabase"

// Supabase authenticates against a Supabase project's GoTrue API.
type Supabase struct {
	api    gotrue.Client
	tokens store.TokenStore
	http   *http.Client
}

func NewSupabase(baseURL, anonKey string, tokens store.TokenStore, client *http.Client) (*Supabase, error) {
	if baseURL == "" || anonKey == "" {
		return nil, fmt.Errorf("supabase url and anon key are required: %w", ErrNotConfigured)
	}
	if client == nil {
		client = http.DefaultClient
	}
	api := gotrue.New("", anonKey).
		WithCustomGoTrueURL(strings.TrimRight(baseURL, "/") + "/auth/v1")
	return &Supabase{api: api, tokens: tokens, http: client}, nil
}

func (s *Supabase) Name() string { return "supabase" }

// ctxTransport binds every request to ctx. The GoTrue client takes no
// context of its own.
type ctxTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t ctxTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

// client returns the GoTrue client for one call, bound to ctx and carrying
// tok as the bearer when given.
func (s *Supabase) client(ctx context.Context, tok *oauth2.Token) gotrue.Client {
	base := s.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c := s.api.WithClient(http.Client{
		Transport: ctxTransport{ctx: ctx, base: base},
		Timeout:   s.http.Timeout,
	})
	if tok != nil {
		c = c.WithToken(tok.AccessToken)
	}
	return c
}

func supabaseUser(u types.User) *domain.User {
	user := &domain.User{ID: u.ID.String(), Email: u.Email}
	for _, key := range []string{"full_name", "name"} {
		if v, ok := u.UserMetadata[key].(string); ok && v != "" {
			user.DisplayName = v
			break
		}
	}
	return user
}

func sessionToken(sess types.Session) *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		TokenType:    sess.TokenType,
	}
	if sess.ExpiresIn > 0 {
		tok.Expiry = time.Now().Add(time.Duration(sess.ExpiresIn) * time.Second)
	}
	return tok
}

// gotrueStatus recovers the HTTP status from a GoTrue client error, which
// carries it only in the message.
func gotrueStatus(err error) int {
	if err == nil {
		return 0
	}
	msg := err.Error()
	i := strings.Index(msg, "response status code ")
	if i < 0 {
		return 0
	}
	var status int
	if _, scanErr := fmt.Sscanf(msg[i:], "response status code %d", &status); scanErr != nil {
		return 0
	}
	return status
}

func (s *Supabase) SignUp(ctx context.Context, email, password, name string) (*domain.User, error) {
	resp, err := s.client(ctx, nil).Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data:     map[string]any{"full_name": name},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign up: %w", err)
	}
	if resp.AccessToken != "" {
		if err := s.tokens.SaveToken(supabaseTokenKey, sessionToken(resp.Session)); err != nil {
			return nil, err
		}
	}
	return supabaseUser(resp.User), nil
}

func (s *Supabase) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	resp, err := s.client(ctx, nil).SignInWithEmailPassword(email, password)
	if errors.Is(err, types.ErrInvalidTokenRequest) {
		return nil, fmt.Errorf("failed to sign in: %w", ErrInvalidCredentials)
	}
	if status := gotrueStatus(err); status == http.StatusBadRequest || status == http.StatusUnauthorized {
		return nil, fmt.Errorf("failed to sign in: %w", ErrInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}

	tok := sessionToken(resp.Session)
	if err := s.tokens.SaveToken(supabaseTokenKey, tok); err != nil {
		return nil, err
	}
	if resp.User.Email == "" {
		return s.fetchUser(ctx, tok)
	}
	return supabaseUser(resp.User), nil
}

func (s *Supabase) refresh(ctx context.Context, tok *oauth2.Token) (*oauth2.Token, error) {
	resp, err := s.client(ctx, nil).RefreshToken(tok.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh session: %w", err)
	}
	fresh := sessionToken(resp.Session)
	if err := s.tokens.SaveToken(supabaseTokenKey, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

func (s *Supabase) fetchUser(ctx context.Context, tok *oauth2.Token) (*domain.User, error) {
	resp, err := s.client(ctx, tok).GetUser()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return supabaseUser(resp.User), nil
}

func (s *Supabase) CurrentUser(ctx context.Context) (*domain.User, error) {
	tok, err := s.tokens.LoadToken(supabaseTokenKey)
	if errors.Is(err, store.ErrNoToken) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if !tok.Valid() && tok.RefreshToken != "" {
		if tok, err = s.refresh(ctx, tok); err != nil {
			log.Printf("[auth] supabase refresh failed, signing out: %v", err)
			s.tokens.DeleteToken(supabaseTokenKey)
			return nil, nil
		}
	}

	user, err := s.fetchUser(ctx, tok)
	if status := gotrueStatus(err); status == http.StatusUnauthorized || status == http.StatusForbidden {
		s.tokens.DeleteToken(supabaseTokenKey)
		return nil, nil
	}
	return user, err
}

func (s *Supabase) SignOut(ctx context.Context) error {
	tok, err := s.tokens.LoadToken(supabaseTokenKey)
	if errors.Is(err, store.ErrNoToken) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.client(ctx, tok).Logout(); err != nil && gotrueStatus(err) != http.StatusUnauthorized {
		log.Printf("[auth] supabase logout: %v", err)
	}
	return s.tokens.DeleteToken(supabaseTokenKey)
}
