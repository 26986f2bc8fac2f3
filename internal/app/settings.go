package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/lu-zhengda/mailroom/internal/store"
)

const settingsKey = "settings"

// Settings are the notification and privacy switches on the settings
// screen. They are stored per installation, not per account.
type Settings struct {
	EmailNotifications bool   `json:"email_notifications"`
	PushNotifications  bool   `json:"push_notifications"`
	MarketingEmails    bool   `json:"marketing_emails"`
	SecurityAlerts     bool   `json:"security_alerts"`
	ProfileVisibility  string `json:"profile_visibility"`
	ShowEmail          bool   `json:"show_email"`
	ShowOnlineStatus   bool   `json:"show_online_status"`
}

func DefaultSettings() Settings {
	return Settings{
		EmailNotifications: true,
		SecurityAlerts:     true,
		ProfileVisibility:  "public",
		ShowOnlineStatus:   true,
	}
}

// Set changes one setting by its JSON name.
func (s *Settings) Set(name, value string) error {
	if name == "profile_visibility" {
		switch value {
		case "public", "contacts", "private":
			s.ProfileVisibility = value
			return nil
		}
		return fmt.Errorf("profile_visibility must be public, contacts or private, got %q", value)
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s expects true or false, got %q", name, value)
	}
	switch name {
	case "email_notifications":
		s.EmailNotifications = b
	case "push_notifications":
		s.PushNotifications = b
	case "marketing_emails":
		s.MarketingEmails = b
	case "security_alerts":
		s.SecurityAlerts = b
	case "show_email":
		s.ShowEmail = b
	case "show_online_status":
		s.ShowOnlineStatus = b
	default:
		return fmt.Errorf("unknown setting %q", name)
	}
	return nil
}

// LoadSettings reads the saved settings, falling back to DefaultSettings.
func LoadSettings(ctx context.Context, st store.Store) Settings {
	raw, err := st.GetPreference(ctx, settingsKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("[settings] failed to read settings: %v", err)
		}
		return DefaultSettings()
	}
	s := DefaultSettings()
	if err := json.Unmarshal(raw, &s); err != nil {
		log.Printf("[settings] ignoring malformed settings: %v", err)
		return DefaultSettings()
	}
	return s
}

func SaveSettings(ctx context.Context, st store.Store, s Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := st.SetPreference(ctx, settingsKey, raw); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
