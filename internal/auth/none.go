package auth

import (
	"context"

	"github.com/lu-zhengda/mailroom/internal/domain"
)

// GuestUser is the identity used when no provider is configured.
var GuestUser = domain.User{ID: "local", Email: "me@example.com", DisplayName: "Me"}

// None is a provider that keeps everyone signed in as GuestUser.
type None struct{}

func NewNone() *None { return &None{} }

func (*None) Name() string { return "none" }

func (*None) SignUp(_ context.Context, email, _, name string) (*domain.User, error) {
	u := GuestUser
	if email != "" {
		u.Email = email
	}
	if name != "" {
		u.DisplayName = name
	}
	return &u, nil
}

func (*None) SignIn(_ context.Context, email, _ string) (*domain.User, error) {
	u := GuestUser
	if email != "" {
		u.Email = email
	}
	return &u, nil
}

func (*None) SignOut(context.Context) error { return nil }

func (*None) CurrentUser(context.Context) (*domain.User, error) {
	u := GuestUser
	return &u, nil
}
