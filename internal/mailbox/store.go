// Package mailbox holds the in-memory mailbox state: the message store, the
// account and label registries, and the controller that applies user actions
// to them.
package mailbox

import (
	"log"

	"github.com/lu-zhengda/mailroom/internal/domain"
)

// Store is the canonical set of messages, kept in insertion order.
// Reads return copies; the backing slice never leaves the store.
type Store struct {
	msgs []domain.Message
}

// NewStore loads msgs into a fresh store. Records whose id was already
// loaded, or whose folder is not a known folder, are dropped.
func NewStore(msgs ...domain.Message) *Store {
	s := &Store{msgs: make([]domain.Message, 0, len(msgs))}
	for _, m := range msgs {
		if !s.Insert(m) {
			log.Printf("[store] skipping message %q: duplicate id or invalid folder %q", m.ID, m.Folder)
		}
	}
	return s
}

func (s *Store) find(id string) int {
	for i := range s.msgs {
		if s.msgs[i].ID == id {
			return i
		}
	}
	return -1
}

// Matches reports whether m passes a label filter: "all" (or empty)
// matches everything, "__unread__" matches unread messages, anything else
// is a label name.
func Matches(m *domain.Message, labelFilter string) bool {
	switch labelFilter {
	case "", domain.LabelFilterAll:
		return true
	case domain.LabelFilterUnread:
		return !m.IsRead
	default:
		return m.HasLabel(labelFilter)
	}
}

// List returns the messages of an account in folder that pass labelFilter.
func (s *Store) List(accountID string, folder domain.Folder, labelFilter string) []domain.Message {
	var out []domain.Message
	for i := range s.msgs {
		m := &s.msgs[i]
		if m.AccountID != accountID || m.Folder != folder {
			continue
		}
		if !Matches(m, labelFilter) {
			continue
		}
		out = append(out, m.Clone())
	}
	return out
}

func (s *Store) Get(id string) (domain.Message, bool) {
	i := s.find(id)
	if i < 0 {
		return domain.Message{}, false
	}
	return s.msgs[i].Clone(), true
}

func (s *Store) Has(id string) bool { return s.find(id) >= 0 }

func (s *Store) Len() int { return len(s.msgs) }

// Snapshot returns a copy of every message, in insertion order.
func (s *Store) Snapshot() []domain.Message {
	out := make([]domain.Message, len(s.msgs))
	for i := range s.msgs {
		out[i] = s.msgs[i].Clone()
	}
	return out
}

// update applies fn to the message with id, reporting whether it exists.
func (s *Store) update(id string, fn func(m *domain.Message)) bool {
	i := s.find(id)
	if i < 0 {
		return false
	}
	fn(&s.msgs[i])
	return true
}

func (s *Store) SetFolder(id string, folder domain.Folder) bool {
	if !folder.Valid() {
		return false
	}
	return s.update(id, func(m *domain.Message) { m.Folder = folder })
}

func (s *Store) SetRead(id string, read bool) bool {
	return s.update(id, func(m *domain.Message) { m.IsRead = read })
}

func (s *Store) SetStarred(id string, starred bool) bool {
	return s.update(id, func(m *domain.Message) { m.IsStarred = starred })
}

// AppendReply adds reply to the end of the message's conversation.
func (s *Store) AppendReply(id string, reply domain.Reply) bool {
	return s.update(id, func(m *domain.Message) { m.Replies = append(m.Replies, reply) })
}

// AddLabel tags the message with name. Tagging twice is a no-op that still
// reports true.
func (s *Store) AddLabel(id, name string) bool {
	return s.update(id, func(m *domain.Message) {
		if !m.HasLabel(name) {
			m.Labels = append(m.Labels, name)
		}
	})
}

func (s *Store) RemoveLabel(id, name string) bool {
	return s.update(id, func(m *domain.Message) { m.Labels = without(m.Labels, name) })
}

// RemoveLabelEverywhere strips name from every message and returns how many
// messages carried it.
func (s *Store) RemoveLabelEverywhere(name string) int {
	n := 0
	for i := range s.msgs {
		if s.msgs[i].HasLabel(name) {
			s.msgs[i].Labels = without(s.msgs[i].Labels, name)
			n++
		}
	}
	return n
}

// UpdateContent rewrites subject and body in place.
func (s *Store) UpdateContent(id, subject, body string) bool {
	return s.update(id, func(m *domain.Message) {
		m.Subject = subject
		m.Body = body
	})
}

// Insert appends msg. It refuses duplicate ids and unknown folders.
func (s *Store) Insert(msg domain.Message) bool {
	if msg.ID == "" || !msg.Folder.Valid() || s.find(msg.ID) >= 0 {
		return false
	}
	s.msgs = append(s.msgs, msg.Clone())
	return true
}

// PermanentlyDelete removes the record entirely.
func (s *Store) PermanentlyDelete(id string) bool {
	i := s.find(id)
	if i < 0 {
		return false
	}
	s.msgs = append(s.msgs[:i], s.msgs[i+1:]...)
	return true
}

func without(labels []string, name string) []string {
	out := labels[:0]
	for _, l := range labels {
		if l != name {
			out = append(out, l)
		}
	}
	return out
}
