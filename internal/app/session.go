package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/lu-zhengda/mailroom/internal/auth"
	"github.com/lu-zhengda/mailroom/internal/config"
	"github.com/lu-zhengda/mailroom/internal/domain"
	"github.com/lu-zhengda/mailroom/internal/mailbox"
	"github.com/lu-zhengda/mailroom/internal/store"
)

// ErrSignedOut is returned by Open when nobody is signed in.
var ErrSignedOut = errors.New("not signed in")

const currentAccountKey = "current_account"

// Session is an open mailbox for the signed-in user.
type Session struct {
	store store.Store
	user  domain.User
	ctrl  *mailbox.Controller

	profileName string
	unsubscribe func()
}

// Open loads the mailbox for whoever provider reports as signed in. An
// empty database is seeded with the sample mailbox when
// cfg.Mailbox.SeedSamples is set.
func Open(ctx context.Context, cfg *config.Config, st store.Store, provider auth.Provider) (*Session, error) {
	user, err := provider.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check session: %w", err)
	}
	if user == nil {
		return nil, ErrSignedOut
	}

	s := &Session{store: st, user: *user}
	profile := s.Profile(ctx)
	s.profileName = profile.FullName

	accounts, err := st.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	firstRun := len(accounts) == 0
	if firstRun && cfg.Mailbox.SeedSamples {
		for _, acc := range mailbox.SampleAccounts() {
			if err := st.UpsertAccount(ctx, &acc); err != nil {
				return nil, fmt.Errorf("failed to seed account %s: %w", acc.ID, err)
			}
			accounts = append(accounts, acc)
		}
		log.Printf("[session] seeded %d sample accounts", len(accounts))
	}

	own := s.ownAccount(profile)
	found := false
	for i := range accounts {
		if accounts[i].ID == own.ID {
			found = true
			if accounts[i].Label != own.Label || accounts[i].Email != own.Email {
				accounts[i].Label, accounts[i].Email = own.Label, own.Email
				if err := st.UpsertAccount(ctx, &accounts[i]); err != nil {
					log.Printf("[session] failed to refresh own account: %v", err)
				}
			}
		}
	}
	if !found {
		if err := st.UpsertAccount(ctx, &own); err != nil {
			return nil, fmt.Errorf("failed to add account for %s: %w", user.Email, err)
		}
		accounts = append(accounts, own)
	}

	msgs, err := st.LoadMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	labels, err := st.LoadLabels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load labels: %w", err)
	}
	if firstRun && cfg.Mailbox.SeedSamples {
		msgs = mailbox.SampleMessages()
		labels = mailbox.SampleLabels()
		// Written now so a first command that fails before Save still
		// leaves the seeded mailbox behind.
		if err := st.SaveMessages(ctx, msgs); err != nil {
			return nil, fmt.Errorf("failed to seed messages: %w", err)
		}
		if err := st.SaveLabels(ctx, labels); err != nil {
			return nil, fmt.Errorf("failed to seed labels: %w", err)
		}
		log.Printf("[session] seeded %d sample messages", len(msgs))
	}

	s.ctrl = mailbox.NewController(
		mailbox.NewStore(msgs...),
		mailbox.NewAccountRegistry(accounts...),
		mailbox.NewLabelRegistry(labels...),
		mailbox.WithDraftSendCopy(cfg.Mailbox.DraftSendCopy),
	)
	s.restoreView(ctx, cfg)
	s.unsubscribe = s.ctrl.Accounts().Subscribe(s.accountChanged)
	return s, nil
}

func (s *Session) ownAccount(profile domain.Profile) domain.Account {
	label := profile.FullName
	if label == "" {
		label = s.user.DisplayName
	}
	if label == "" {
		label = s.user.Email
	}
	return domain.Account{ID: s.user.ID, Label: label, Email: s.user.Email, Avatar: profile.AvatarURL}
}

// restoreView picks the starting account and folder.
func (s *Session) restoreView(ctx context.Context, cfg *config.Config) {
	if cfg.Accounts.Default != "" {
		s.ctrl.SwitchAccount(cfg.Accounts.Default)
	}
	if id, err := s.store.GetPreference(ctx, currentAccountKey); err == nil {
		s.ctrl.SwitchAccount(string(id))
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Printf("[session] failed to read current account: %v", err)
	}
	if cfg.UI.DefaultFolder != "" {
		if f, err := domain.ParseFolder(cfg.UI.DefaultFolder); err == nil {
			s.ctrl.SelectFolder(f)
		} else {
			log.Printf("[session] ignoring default folder: %v", err)
		}
	}
}

// accountChanged writes registry changes back to storage. A rename of the
// user's own account becomes their profile name.
func (s *Session) accountChanged(acc domain.Account) {
	ctx := context.Background()
	if err := s.store.UpsertAccount(ctx, &acc); err != nil {
		log.Printf("[session] failed to save account %s: %v", acc.ID, err)
	}
	if acc.ID != s.user.ID || acc.Label == s.profileName {
		return
	}
	if err := s.store.UpdateProfileField(ctx, s.user.ID, store.ProfileFullName, acc.Label); err != nil {
		log.Printf("[session] failed to update profile name: %v", err)
		return
	}
	s.profileName = acc.Label
}

func (s *Session) User() domain.User               { return s.user }
func (s *Session) Controller() *mailbox.Controller { return s.ctrl }
func (s *Session) Store() store.Store              { return s.store }

// Save persists the mailbox snapshot, labels, and current account.
func (s *Session) Save(ctx context.Context) error {
	if err := s.store.SaveMessages(ctx, s.ctrl.Store().Snapshot()); err != nil {
		return fmt.Errorf("failed to save messages: %w", err)
	}
	if err := s.store.SaveLabels(ctx, s.ctrl.Labels().List()); err != nil {
		return fmt.Errorf("failed to save labels: %w", err)
	}
	if id := s.ctrl.CurrentAccountID(); id != "" {
		if err := s.store.SetPreference(ctx, currentAccountKey, []byte(id)); err != nil {
			return fmt.Errorf("failed to save current account: %w", err)
		}
	}
	return nil
}

// Profile returns the stored profile, or one built from the signed-in
// user when none is stored or it cannot be read.
func (s *Session) Profile(ctx context.Context) domain.Profile {
	fallback := domain.Profile{UserID: s.user.ID, FullName: s.user.DisplayName}
	p, err := s.store.GetProfile(ctx, s.user.ID)
	if errors.Is(err, store.ErrNotFound) {
		return fallback
	}
	if err != nil {
		log.Printf("[session] failed to load profile: %v", err)
		return fallback
	}
	return *p
}

// UpdateProfile writes one profile field. Changing the full name also
// renames the user's account in the switcher.
func (s *Session) UpdateProfile(ctx context.Context, field store.ProfileField, value string) error {
	if !field.Valid() {
		return fmt.Errorf("unknown profile field %q", field)
	}
	if err := s.store.UpdateProfileField(ctx, s.user.ID, field, value); err != nil {
		log.Printf("[session] failed to update %s: %v", field, err)
		return fmt.Errorf("failed to update %s: %w", field, err)
	}
	if field == store.ProfileFullName {
		s.profileName = value
		s.ctrl.Accounts().Rename(s.user.ID, value)
	}
	return nil
}

// Import adds msgs to the mailbox, registering any labels they carry.
// Messages whose id is already present are skipped.
func (s *Session) Import(msgs []domain.Message) int {
	added := 0
	for _, m := range msgs {
		if !s.ctrl.Store().Insert(m) {
			continue
		}
		for _, name := range m.Labels {
			s.ctrl.Labels().Add(domain.Label{Name: name})
		}
		added++
	}
	return added
}

// Close detaches the session from its registries.
func (s *Session) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}
