package domain

import (
	"strings"
	"time"
	"unicode"
)

// Attachment sizes are display strings ("2.4 MB"), as recorded by the sender.
type Attachment struct {
	Name string
	Size string
	Type string
}

// Reply is an inline response appended to a message's conversation.
type Reply struct {
	Text   string
	Date   time.Time
	Sender string
}

// Message is a single mail record. It belongs to exactly one account and
// sits in exactly one folder at a time.
type Message struct {
	ID          string
	AccountID   string
	From        Address
	To          []Address
	Subject     string
	Body        string
	Date        time.Time
	IsRead      bool
	IsStarred   bool
	Labels      []string
	Folder      Folder
	Attachments []Attachment
	Replies     []Reply
	// ReplyToID points at the message this one replied to or forwarded.
	ReplyToID string
}

func (m *Message) HasLabel(label string) bool {
	for _, l := range m.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Clone returns a deep copy that shares no slices with m.
func (m Message) Clone() Message {
	c := m
	if m.To != nil {
		c.To = append([]Address(nil), m.To...)
	}
	if m.Labels != nil {
		c.Labels = append([]string(nil), m.Labels...)
	}
	if m.Attachments != nil {
		c.Attachments = append([]Attachment(nil), m.Attachments...)
	}
	if m.Replies != nil {
		c.Replies = append([]Reply(nil), m.Replies...)
	}
	return c
}

// Snippet returns the body flattened to one line, cut to n runes.
func (m *Message) Snippet(n int) string {
	s := strings.Join(strings.Fields(m.Body), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// Initials is the avatar fallback for the sender.
func (m *Message) Initials() string {
	name := m.From.Name
	if name == "" {
		name = m.From.Email
	}
	return initials(name)
}

func initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r := []rune(word)[0]
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

const (
	replyPrefix   = "Re: "
	forwardPrefix = "Fwd: "
)

// ReplySubject prefixes subject with "Re: " unless it already carries it.
func ReplySubject(subject string) string {
	if strings.HasPrefix(subject, replyPrefix) {
		return subject
	}
	return replyPrefix + subject
}

// ForwardSubject prefixes subject with "Fwd: " unless it already carries it.
func ForwardSubject(subject string) string {
	if strings.HasPrefix(subject, forwardPrefix) {
		return subject
	}
	return forwardPrefix + subject
}
