package store

import (
	"context"
	"errors"
	"time"

	"github.com/lu-zhengda/mailroom/internal/domain"
)

// ErrNotFound is returned when a keyed record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for the application.
type Store interface {
	// Accounts
	CreateAccount(ctx context.Context, account *domain.Account) error
	UpsertAccount(ctx context.Context, account *domain.Account) error
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	DeleteAccount(ctx context.Context, id string) error

	// Profiles
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	UpsertProfile(ctx context.Context, profile *domain.Profile) error
	UpdateProfileField(ctx context.Context, userID string, field ProfileField, value string) error

	// Messages
	SaveMessages(ctx context.Context, msgs []domain.Message) error
	LoadMessages(ctx context.Context) ([]domain.Message, error)

	// Labels
	SaveLabels(ctx context.Context, labels []domain.Label) error
	LoadLabels(ctx context.Context) ([]domain.Label, error)

	// Preferences
	GetPreference(ctx context.Context, key string) ([]byte, error)
	SetPreference(ctx context.Context, key string, value []byte) error

	// Sent log
	LogSent(ctx context.Context, rec *SentRecord) error
	ListSent(ctx context.Context, userID string, limit int) ([]SentRecord, error)

	// Lifecycle
	Close() error
}

// ProfileField names an editable profile column.
type ProfileField string

const (
	ProfileFullName  ProfileField = "full_name"
	ProfileUsername  ProfileField = "username"
	ProfileBio       ProfileField = "bio"
	ProfileAvatarURL ProfileField = "avatar_url"
)

// Valid reports whether f is a known profile column.
func (f ProfileField) Valid() bool {
	switch f {
	case ProfileFullName, ProfileUsername, ProfileBio, ProfileAvatarURL:
		return true
	}
	return false
}

// SentRecord is one outbound mail handed to the transport.
type SentRecord struct {
	ID      int64
	UserID  string
	ToEmail string
	Subject string
	Body    string
	SentAt  time.Time
}
