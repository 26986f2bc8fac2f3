package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/lu-zhengda/mailroom/internal/domain"
	"github.com/lu-zhengda/mailroom/internal/store"
)

const appwriteTokenKey = "session/appwrite"

// Appwrite authenticates against an Appwrite project's account API.
type Appwrite struct {
	endpoint string
	project  string
	tokens   store.TokenStore
	http     *http.Client
}

func NewAppwrite(endpoint, project string, tokens store.TokenStore, client *http.Client) (*Appwrite, error) {
	if endpoint == "" || project == "" {
		return nil, fmt.Errorf("appwrite endpoint and project are required: %w", ErrNotConfigured)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Appwrite{
		endpoint: strings.TrimRight(endpoint, "/"),
		project:  project,
		tokens:   tokens,
		http:     client,
	}, nil
}

func (a *Appwrite) Name() string { return "appwrite" }

func (a *Appwrite) cookieName() string { return "a_session_" + a.project }

type appwriteUser struct {
	ID    string `json:"$id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (u appwriteUser) toDomain() *domain.User {
	return &domain.User{ID: u.ID, Email: u.Email, DisplayName: u.Name}
}

type appwriteSession struct {
	ID     string `json:"$id"`
	UserID string `json:"userId"`
	Secret string `json:"secret"`
	Expire string `json:"expire"`
}

func (a *Appwrite) newRequest(ctx context.Context, method, path string, session string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.endpoint+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-Appwrite-Project", a.project)
	if session != "" {
		req.Header.Set("X-Appwrite-Session", session)
		req.AddCookie(&http.Cookie{Name: a.cookieName(), Value: session})
	}
	return req, nil
}

func (a *Appwrite) SignUp(ctx context.Context, email, password, name string) (*domain.User, error) {
	req, err := a.newRequest(ctx, http.MethodPost, "/account", "")
	if err != nil {
		return nil, err
	}
	body := map[string]string{
		"userId":   uuid.NewString(),
		"email":    email,
		"password": password,
		"name":     name,
	}
	var u appwriteUser
	if _, err := doJSON(a.http, req, body, &u); err != nil {
		return nil, fmt.Errorf("failed to sign up: %w", err)
	}
	if _, err := a.SignIn(ctx, email, password); err != nil {
		return nil, err
	}
	return u.toDomain(), nil
}

func (a *Appwrite) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	req, err := a.newRequest(ctx, http.MethodPost, "/account/sessions/email", "")
	if err != nil {
		return nil, err
	}
	var sess appwriteSession
	resp, err := doJSON(a.http, req, map[string]string{"email": email, "password": password}, &sess)
	if statusOf(err) == http.StatusUnauthorized || statusOf(err) == http.StatusBadRequest {
		return nil, fmt.Errorf("failed to sign in: %w", ErrInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}

	secret := sess.Secret
	for _, c := range resp.Cookies() {
		if c.Name == a.cookieName() && c.Value != "" {
			secret = c.Value
		}
	}
	if secret == "" {
		return nil, fmt.Errorf("failed to sign in: no session secret returned")
	}

	tok := &oauth2.Token{AccessToken: secret, TokenType: "appwrite-session"}
	if exp, err := time.Parse(time.RFC3339, sess.Expire); err == nil {
		tok.Expiry = exp
	}
	if err := a.tokens.SaveToken(appwriteTokenKey, tok); err != nil {
		return nil, err
	}
	return a.fetchUser(ctx, secret)
}

func (a *Appwrite) fetchUser(ctx context.Context, secret string) (*domain.User, error) {
	req, err := a.newRequest(ctx, http.MethodGet, "/account", secret)
	if err != nil {
		return nil, err
	}
	var u appwriteUser
	if _, err := doJSON(a.http, req, nil, &u); err != nil {
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}
	return u.toDomain(), nil
}

func (a *Appwrite) CurrentUser(ctx context.Context) (*domain.User, error) {
	tok, err := a.tokens.LoadToken(appwriteTokenKey)
	if errors.Is(err, store.ErrNoToken) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !tok.Valid() {
		a.tokens.DeleteToken(appwriteTokenKey)
		return nil, nil
	}

	user, err := a.fetchUser(ctx, tok.AccessToken)
	if statusOf(err) == http.StatusUnauthorized {
		a.tokens.DeleteToken(appwriteTokenKey)
		return nil, nil
	}
	return user, err
}

func (a *Appwrite) SignOut(ctx context.Context) error {
	tok, err := a.tokens.LoadToken(appwriteTokenKey)
	if errors.Is(err, store.ErrNoToken) {
		return nil
	}
	if err != nil {
		return err
	}
	req, err := a.newRequest(ctx, http.MethodDelete, "/account/sessions/current", tok.AccessToken)
	if err != nil {
		return err
	}
	if _, err := doJSON(a.http, req, nil, nil); err != nil && statusOf(err) != http.StatusUnauthorized {
		log.Printf("[auth] appwrite session delete: %v", err)
	}
	return a.tokens.DeleteToken(appwriteTokenKey)
}
