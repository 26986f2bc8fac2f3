package cli

import (
	"time"

	"github.com/lu-zhengda/mailroom/internal/domain"
	"github.com/lu-zhengda/mailroom/internal/store"
)

// ---------------------------------------------------------------------------
// Account JSON types (account list)
// ---------------------------------------------------------------------------

type jsonAccount struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Email   string `json:"email"`
	Current bool   `json:"current"`
}

func toJSONAccounts(accounts []domain.Account, currentID string) []jsonAccount {
	out := make([]jsonAccount, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, jsonAccount{
			ID:      a.ID,
			Label:   a.Label,
			Email:   a.Email,
			Current: a.ID == currentID,
		})
	}
	return out
}

// ---------------------------------------------------------------------------
// Message summary JSON type (list)
// ---------------------------------------------------------------------------

type jsonMessageSummary struct {
	ID             string      `json:"id"`
	From           jsonAddress `json:"from"`
	Subject        string      `json:"subject"`
	Date           string      `json:"date"`
	Folder         string      `json:"folder"`
	IsRead         bool        `json:"is_read"`
	IsStarred      bool        `json:"is_starred"`
	HasAttachments bool        `json:"has_attachments"`
	Snippet        string      `json:"snippet,omitempty"`
	Labels         []string    `json:"labels,omitempty"`
}

func toJSONMessageSummaries(msgs []domain.Message) []jsonMessageSummary {
	out := make([]jsonMessageSummary, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, jsonMessageSummary{
			ID:             m.ID,
			From:           toJSONAddress(m.From),
			Subject:        m.Subject,
			Date:           m.Date.Format(time.RFC3339),
			Folder:         string(m.Folder),
			IsRead:         m.IsRead,
			IsStarred:      m.IsStarred,
			HasAttachments: len(m.Attachments) > 0,
			Snippet:        m.Snippet(80),
			Labels:         m.Labels,
		})
	}
	return out
}

// ---------------------------------------------------------------------------
// Message detail JSON type (read)
// ---------------------------------------------------------------------------

type jsonMessage struct {
	ID          string           `json:"id"`
	AccountID   string           `json:"account_id"`
	From        jsonAddress      `json:"from"`
	To          []jsonAddress    `json:"to,omitempty"`
	Subject     string           `json:"subject"`
	Body        string           `json:"body"`
	Date        string           `json:"date"`
	Folder      string           `json:"folder"`
	IsRead      bool             `json:"is_read"`
	IsStarred   bool             `json:"is_starred"`
	Labels      []string         `json:"labels,omitempty"`
	Attachments []jsonAttachment `json:"attachments,omitempty"`
	Replies     []jsonReply      `json:"replies,omitempty"`
	ReplyToID   string           `json:"reply_to_id,omitempty"`
	Original    *jsonMessage     `json:"original,omitempty"`
}

type jsonAttachment struct {
	Name string `json:"name"`
	Size string `json:"size"`
	Type string `json:"type"`
}

type jsonReply struct {
	Sender string `json:"sender"`
	Date   string `json:"date"`
	Text   string `json:"text"`
}

func toJSONMessage(m *domain.Message) jsonMessage {
	out := jsonMessage{
		ID:        m.ID,
		AccountID: m.AccountID,
		From:      toJSONAddress(m.From),
		To:        toJSONAddresses(m.To),
		Subject:   m.Subject,
		Body:      m.Body,
		Date:      m.Date.Format(time.RFC3339),
		Folder:    string(m.Folder),
		IsRead:    m.IsRead,
		IsStarred: m.IsStarred,
		Labels:    m.Labels,
		ReplyToID: m.ReplyToID,
	}
	for _, a := range m.Attachments {
		out.Attachments = append(out.Attachments, jsonAttachment{Name: a.Name, Size: a.Size, Type: a.Type})
	}
	for _, r := range m.Replies {
		out.Replies = append(out.Replies, jsonReply{
			Sender: r.Sender,
			Date:   r.Date.Format(time.RFC3339),
			Text:   r.Text,
		})
	}
	return out
}

// ---------------------------------------------------------------------------
// Label JSON type (label list)
// ---------------------------------------------------------------------------

type jsonLabel struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func toJSONLabels(labels []domain.Label) []jsonLabel {
	out := make([]jsonLabel, 0, len(labels))
	for _, l := range labels {
		out = append(out, jsonLabel{Name: l.Name, Color: l.Color})
	}
	return out
}

// ---------------------------------------------------------------------------
// Address JSON type (shared)
// ---------------------------------------------------------------------------

type jsonAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

func toJSONAddress(a domain.Address) jsonAddress {
	return jsonAddress{Name: a.Name, Email: a.Email}
}

func toJSONAddresses(addrs []domain.Address) []jsonAddress {
	if len(addrs) == 0 {
		return nil
	}
	out := make([]jsonAddress, len(addrs))
	for i, a := range addrs {
		out[i] = toJSONAddress(a)
	}
	return out
}

// ---------------------------------------------------------------------------
// Profile and user JSON types (profile show, auth whoami)
// ---------------------------------------------------------------------------

type jsonProfile struct {
	UserID    string `json:"user_id"`
	FullName  string `json:"full_name"`
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

func toJSONProfile(p domain.Profile) jsonProfile {
	return jsonProfile{
		UserID:    p.UserID,
		FullName:  p.FullName,
		Username:  p.Username,
		Bio:       p.Bio,
		AvatarURL: p.AvatarURL,
	}
}

type jsonUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	Provider    string `json:"provider"`
}

func toJSONUser(u *domain.User, provider string) jsonUser {
	return jsonUser{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName, Provider: provider}
}

// ---------------------------------------------------------------------------
// Sent log JSON type (sent)
// ---------------------------------------------------------------------------

type jsonSent struct {
	ID      int64  `json:"id"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	SentAt  string `json:"sent_at"`
}

func toJSONSent(recs []store.SentRecord) []jsonSent {
	out := make([]jsonSent, 0, len(recs))
	for _, r := range recs {
		out = append(out, jsonSent{
			ID:      r.ID,
			To:      r.ToEmail,
			Subject: r.Subject,
			SentAt:  r.SentAt.Format(time.RFC3339),
		})
	}
	return out
}

// ---------------------------------------------------------------------------
// Counts JSON type (counts)
// ---------------------------------------------------------------------------

type jsonCount struct {
	Folder string `json:"folder"`
	Count  int    `json:"count"`
}

// toJSONCounts lists every folder in navigation order, including zeros.
func toJSONCounts(counts map[domain.Folder]int) []jsonCount {
	folders := domain.Folders()
	out := make([]jsonCount, 0, len(folders))
	for _, f := range folders {
		out = append(out, jsonCount{Folder: string(f), Count: counts[f]})
	}
	return out
}

// ---------------------------------------------------------------------------
// Action JSON type (send, reply, forward, archive, trash, star, etc.)
// ---------------------------------------------------------------------------

type jsonAction struct {
	OK        bool   `json:"ok"`
	Action    string `json:"action"`
	MessageID string `json:"message_id,omitempty"`
	Email     string `json:"email,omitempty"`
	AccountID string `json:"account_id,omitempty"`
	Label     string `json:"label,omitempty"`
}
