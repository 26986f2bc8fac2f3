package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all mailroom configuration.
type Config struct {
	Auth      AuthConfig      `toml:"auth"`
	Supabase  SupabaseConfig  `toml:"supabase"`
	Appwrite  AppwriteConfig  `toml:"appwrite"`
	Transport TransportConfig `toml:"transport"`
	SMTP      SMTPConfig      `toml:"smtp"`
	Gmail     GmailConfig     `toml:"gmail"`
	UI        UIConfig        `toml:"ui"`
	Accounts  AccountsConfig  `toml:"accounts"`
	Mailbox   MailboxConfig   `toml:"mailbox"`
}

// AuthConfig selects the identity provider: "supabase", "appwrite" or "none".
type AuthConfig struct {
	Provider string `toml:"provider"`
}

// SupabaseConfig holds the project URL and public anon key.
type SupabaseConfig struct {
	URL     string `toml:"url"`
	AnonKey string `toml:"anon_key"`
}

// AppwriteConfig holds the API endpoint (including /v1) and project ID.
type AppwriteConfig struct {
	Endpoint string `toml:"endpoint"`
	Project  string `toml:"project"`
}

// TransportConfig selects how outbound mail leaves: "smtp", "gmail" or "log".
type TransportConfig struct {
	Kind string `toml:"kind"`
	From string `toml:"from"`
}

// SMTPConfig holds submission server settings. Secure selects implicit TLS;
// otherwise STARTTLS is used when the server offers it.
type SMTPConfig struct {
	Host   string `toml:"host"`
	Port   int    `toml:"port"`
	Secure bool   `toml:"secure"`
	User   string `toml:"user"`
	Pass   string `toml:"pass"`
}

// GmailConfig holds Gmail OAuth credentials.
// Users can override the config file values via env vars.
type GmailConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// UIConfig holds TUI display settings.
type UIConfig struct {
	DefaultFolder string `toml:"default_folder"`
	Theme         string `toml:"theme"`
}

// AccountsConfig holds account selection settings.
type AccountsConfig struct {
	Default string `toml:"default"`
}

// MailboxConfig holds mailbox behaviour switches.
type MailboxConfig struct {
	// DraftSendCopy keeps a second sent record when a draft is sent.
	DraftSendCopy bool `toml:"draft_send_copy"`
	// SeedSamples fills an empty database with the demo mailbox.
	SeedSamples bool `toml:"seed_samples"`
}

func defaults() Config {
	return Config{
		Auth: AuthConfig{
			Provider: "none",
		},
		Appwrite: AppwriteConfig{
			Endpoint: "https://fra.cloud.appwrite.io/v1",
		},
		Transport: TransportConfig{
			Kind: "log",
		},
		SMTP: SMTPConfig{
			Port: 587,
		},
		UI: UIConfig{
			DefaultFolder: "inbox",
			Theme:         "default",
		},
		Mailbox: MailboxConfig{
			SeedSamples: true,
		},
	}
}

// Load reads config from path. If path is empty, returns defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return &cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv overlays environment variables on cfg. The NEXT_PUBLIC_ names
// are accepted for projects shared with a web front end.
func (c *Config) ApplyEnv() error {
	setString(&c.Supabase.URL, "NEXT_PUBLIC_SUPABASE_URL", "SUPABASE_URL")
	setString(&c.Supabase.AnonKey, "NEXT_PUBLIC_SUPABASE_ANON_KEY", "SUPABASE_ANON_KEY")
	setString(&c.Appwrite.Endpoint, "APPWRITE_ENDPOINT")
	setString(&c.Appwrite.Project, "APPWRITE_PROJECT")
	setString(&c.Auth.Provider, "MAILROOM_AUTH_PROVIDER")
	setString(&c.Transport.Kind, "MAILROOM_TRANSPORT")
	setString(&c.Transport.From, "SMTP_FROM_EMAIL")
	setString(&c.SMTP.Host, "SMTP_HOST")
	setString(&c.SMTP.User, "SMTP_USER")
	setString(&c.SMTP.Pass, "SMTP_PASS")
	setString(&c.Gmail.ClientID, "GMAIL_CLIENT_ID")
	setString(&c.Gmail.ClientSecret, "GMAIL_CLIENT_SECRET")

	if v := os.Getenv("SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("failed to parse SMTP_PORT %q: %w", v, err)
		}
		c.SMTP.Port = port
	}
	if v := os.Getenv("SMTP_SECURE"); v != "" {
		c.SMTP.Secure = strings.EqualFold(v, "true") || v == "1"
	}
	return nil
}

// setString assigns the first non-empty variable among names to dst.
func setString(dst *string, names ...string) {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			*dst = v
			return
		}
	}
}

// ConfigDir returns the mailroom config directory path.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mailroom")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "mailroom")
}

// DataDir returns the mailroom data directory path.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "mailroom")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "mailroom")
}
