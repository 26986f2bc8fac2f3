package domain

import (
	"net/mail"
	"strings"
)

type Address struct {
	Name  string
	Email string
}

func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return a.Name + " <" + a.Email + ">"
}

// DisplayName returns the name, falling back to the address.
func (a Address) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Email
}

// ParseAddress parses an RFC 5322 address string.
// Falls back to treating the entire string as a bare email if parsing fails.
func ParseAddress(s string) Address {
	s = strings.TrimSpace(s)
	if s == "" {
		return Address{}
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return Address{Email: s}
	}
	return Address{Name: addr.Name, Email: addr.Address}
}

// ParseAddressList parses a comma-separated list of addresses.
func ParseAddressList(s string) []Address {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parsed, err := mail.ParseAddressList(s)
	if err != nil {
		var addrs []Address
		for _, p := range strings.Split(s, ",") {
			if a := ParseAddress(p); a.Email != "" {
				addrs = append(addrs, a)
			}
		}
		return addrs
	}
	addrs := make([]Address, 0, len(parsed))
	for _, a := range parsed {
		addrs = append(addrs, Address{Name: a.Name, Email: a.Address})
	}
	return addrs
}

// FormatAddressList joins addresses for a header line.
func FormatAddressList(addrs []Address) string {
	parts := make([]string, 0, len(addrs))
	for _, a := range addrs {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, ", ")
}
