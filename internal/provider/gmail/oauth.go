package gmail

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
)

// No credentials are embedded in the binary. Users must supply their own
// Google Cloud OAuth credentials via one of:
//   - Config file (~/.config/mailroom/config.toml) under [gmail]
//   - Environment variables GMAIL_CLIENT_ID and GMAIL_CLIENT_SECRET

var oauthConfig = &oauth2.Config{
	Scopes: []string{
		gmailapi.GmailReadonlyScope,
		gmailapi.GmailSendScope,
	},
	Endpoint: google.Endpoint,
}

// SetCredentials sets the OAuth client ID and secret.
func SetCredentials(clientID, clientSecret string) {
	oauthConfig.ClientID = clientID
	oauthConfig.ClientSecret = clientSecret
}

// HasCredentials reports whether OAuth credentials have been configured.
func HasCredentials() bool {
	return oauthConfig.ClientID != "" && oauthConfig.ClientSecret != ""
}

// EnsureCredentials returns an error with setup instructions when no OAuth
// credentials have been configured.
func EnsureCredentials() error {
	if HasCredentials() {
		return nil
	}
	return fmt.Errorf("gmail OAuth credentials not configured; set them in ~/.config/mailroom/config.toml under [gmail] or via GMAIL_CLIENT_ID / GMAIL_CLIENT_SECRET env vars")
}

// loopbackFlow is one pending authorization: the state it expects back and
// the channel the redirect handler reports on.
type loopbackFlow struct {
	state  string
	result chan callbackResult
}

type callbackResult struct {
	code string
	err  error
}

func newLoopbackFlow() (*loopbackFlow, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate oauth state: %w", err)
	}
	return &loopbackFlow{
		state:  hex.EncodeToString(buf),
		result: make(chan callbackResult, 1),
	}, nil
}

// ServeHTTP accepts the first redirect carrying a code and the expected
// state. Later hits are answered but ignored.
func (f *loopbackFlow) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var res callbackResult
	switch {
	case q.Get("state") != f.state:
		res.err = fmt.Errorf("oauth callback state mismatch")
	case q.Get("code") == "":
		res.err = fmt.Errorf("no code in callback: %s", q.Get("error"))
	default:
		res.code = q.Get("code")
	}

	select {
	case f.result <- res:
	default:
	}
	if res.err != nil {
		http.Error(w, "Authorization failed. You can close this tab.", http.StatusBadRequest)
		return
	}
	fmt.Fprint(w, "mailroom is authorized to send as you. You can close this tab.")
}

// authenticate runs the installed-app flow against a loopback listener and
// writes the consent URL to prompt.
func authenticate(ctx context.Context, prompt io.Writer) (*oauth2.Token, error) {
	if err := EnsureCredentials(); err != nil {
		return nil, err
	}
	flow, err := newLoopbackFlow()
	if err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}
	cfg := *oauthConfig
	cfg.RedirectURL = fmt.Sprintf("http://127.0.0.1:%d", listener.Addr().(*net.TCPAddr).Port)

	server := &http.Server{Handler: flow, ReadHeaderTimeout: 10 * time.Second}
	go server.Serve(listener)
	defer server.Close()

	url := cfg.AuthCodeURL(flow.state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Fprintf(prompt, "\nOpen this URL in your browser to let mailroom use Gmail:\n\n  %s\n\nWaiting for authorization...\n", url)

	select {
	case res := <-flow.result:
		if res.err != nil {
			return nil, res.err
		}
		token, err := cfg.Exchange(ctx, res.code)
		if err != nil {
			return nil, fmt.Errorf("failed to exchange auth code: %w", err)
		}
		return token, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
