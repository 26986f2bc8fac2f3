package domain

// Account is a mailbox identity the user can switch between.
type Account struct {
	ID     string
	Label  string
	Email  string
	Avatar string
}

func (a Account) Initials() string {
	if a.Label == "" {
		return initials(a.Email)
	}
	return initials(a.Label)
}

// User is the signed-in identity returned by an auth provider.
type User struct {
	ID          string
	Email       string
	DisplayName string
}

// Profile holds the editable settings stored per user.
type Profile struct {
	UserID    string
	FullName  string
	Username  string
	Bio       string
	AvatarURL string
}
