package mailbox

import (
	"fmt"
	"strings"
	"time"

	"github.com/lu-zhengda/mailroom/internal/domain"
)

const (
	fallbackSenderName  = "Me"
	fallbackSenderEmail = "me@example.com"
)

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the time source used for synthesized messages and counts.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithDraftSendCopy makes SendDraft leave the draft-turned-sent record in
// place and insert a second, freshly dated sent record next to it.
func WithDraftSendCopy(enabled bool) Option {
	return func(c *Controller) { c.draftSendCopy = enabled }
}

// Controller applies user actions to the mailbox and tracks what the user
// is looking at. It is not safe for concurrent use; drive it from a single
// goroutine.
type Controller struct {
	store    *Store
	accounts *AccountRegistry
	labels   *LabelRegistry

	accountID   string
	folder      domain.Folder
	labelFilter string
	selectedID  string

	now           func() time.Time
	draftSendCopy bool
}

// NewController builds a controller over the given state. The first
// registered account, if any, becomes the current one.
func NewController(store *Store, accounts *AccountRegistry, labels *LabelRegistry, opts ...Option) *Controller {
	c := &Controller{
		store:       store,
		accounts:    accounts,
		labels:      labels,
		folder:      domain.FolderInbox,
		labelFilter: domain.LabelFilterAll,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if list := accounts.List(); len(list) > 0 {
		c.accountID = list[0].ID
	}
	return c
}

func (c *Controller) Store() *Store              { return c.store }
func (c *Controller) Accounts() *AccountRegistry { return c.accounts }
func (c *Controller) Labels() *LabelRegistry     { return c.labels }
func (c *Controller) Folder() domain.Folder      { return c.folder }
func (c *Controller) LabelFilter() string        { return c.labelFilter }
func (c *Controller) SelectedID() string         { return c.selectedID }
func (c *Controller) CurrentAccountID() string   { return c.accountID }

// CurrentAccount returns the active account, if one is loaded.
func (c *Controller) CurrentAccount() (domain.Account, bool) {
	return c.accounts.Get(c.accountID)
}

// SwitchAccount makes id the active account and drops the selection.
func (c *Controller) SwitchAccount(id string) bool {
	if _, ok := c.accounts.Get(id); !ok {
		return false
	}
	c.accountID = id
	c.selectedID = ""
	return true
}

func (c *Controller) SelectFolder(f domain.Folder) bool {
	if !f.Valid() {
		return false
	}
	c.folder = f
	return true
}

func (c *Controller) SetLabelFilter(filter string) {
	if filter == "" {
		filter = domain.LabelFilterAll
	}
	c.labelFilter = filter
}

// Visible returns the message list for the current account, folder and
// label filter.
func (c *Controller) Visible() []domain.Message {
	if c.accountID == "" {
		return nil
	}
	return c.store.List(c.accountID, c.folder, c.labelFilter)
}

// Selected returns the open message. Messages of other accounts are never
// reported as selected.
func (c *Controller) Selected() (domain.Message, bool) {
	if c.selectedID == "" {
		return domain.Message{}, false
	}
	m, ok := c.store.Get(c.selectedID)
	if !ok || m.AccountID != c.accountID {
		return domain.Message{}, false
	}
	return m, true
}

// Select opens a message, which marks it read.
func (c *Controller) Select(id string) bool {
	if !c.store.SetRead(id, true) {
		return false
	}
	c.selectedID = id
	return true
}

// ClearSelection closes the open message.
func (c *Controller) ClearSelection() { c.selectedID = "" }

func (c *Controller) dropSelection(id string) {
	if c.selectedID == id {
		c.selectedID = ""
	}
}

// move applies a folder transition if the message's current folder allows
// it.
func (c *Controller) move(id string, to domain.Folder) bool {
	m, ok := c.store.Get(id)
	if !ok || !CanMove(m.Folder, to) {
		return false
	}
	if !c.store.SetFolder(id, to) {
		return false
	}
	c.dropSelection(id)
	return true
}

func (c *Controller) Archive(id string) bool {
	return c.move(id, domain.FolderArchive)
}

// Delete moves a message to trash. A message already in trash is erased,
// but only while the trash folder is the one being viewed.
func (c *Controller) Delete(id string) bool {
	m, ok := c.store.Get(id)
	if !ok {
		return false
	}
	if m.Folder != domain.FolderTrash {
		return c.move(id, domain.FolderTrash)
	}
	if c.folder != domain.FolderTrash || !c.store.PermanentlyDelete(id) {
		return false
	}
	c.dropSelection(id)
	return true
}

// Restore moves a message out of archive, junk or trash, back to target or
// to the inbox when no target is given.
func (c *Controller) Restore(id string, target ...domain.Folder) bool {
	dest := domain.FolderInbox
	if len(target) > 0 {
		dest = target[0]
	}
	m, ok := c.store.Get(id)
	if !ok || !restorable(m.Folder) {
		return false
	}
	return c.move(id, dest)
}

// MoveToJunk files a message as junk. Junked mail counts as read.
func (c *Controller) MoveToJunk(id string) bool {
	if !c.move(id, domain.FolderJunk) {
		return false
	}
	c.store.SetRead(id, true)
	return true
}

func (c *Controller) MarkUnread(id string) bool {
	return c.store.SetRead(id, false)
}

func (c *Controller) MarkRead(id string) bool {
	return c.store.SetRead(id, true)
}

func (c *Controller) ToggleStar(id string) bool {
	m, ok := c.store.Get(id)
	if !ok {
		return false
	}
	return c.store.SetStarred(id, !m.IsStarred)
}

// sender returns the identity used for mail the user writes.
func (c *Controller) sender() domain.Address {
	acc, _ := c.accounts.Get(c.accountID)
	addr := domain.Address{Name: acc.Label, Email: acc.Email}
	if addr.Name == "" {
		addr.Name = fallbackSenderName
	}
	if addr.Email == "" {
		addr.Email = fallbackSenderEmail
	}
	return addr
}

// newID returns "<kind>-<unix millis>", stepping forward until unused.
func (c *Controller) newID(kind string) string {
	ms := c.now().UnixMilli()
	for {
		id := fmt.Sprintf("%s-%d", kind, ms)
		if !c.store.Has(id) {
			return id
		}
		ms++
	}
}

func (c *Controller) synthesize(kind string, folder domain.Folder, to []domain.Address, subject, body string) domain.Message {
	return domain.Message{
		ID:        c.newID(kind),
		AccountID: c.accountID,
		From:      c.sender(),
		To:        to,
		Subject:   subject,
		Body:      body,
		Date:      c.now(),
		IsRead:    true,
		Labels:    []string{},
		Folder:    folder,
	}
}

// SendReply appends text to the message's replies and files a matching
// sent message that points back at it.
func (c *Controller) SendReply(id, text string) (domain.Message, bool) {
	if c.accountID == "" || strings.TrimSpace(text) == "" {
		return domain.Message{}, false
	}
	orig, ok := c.store.Get(id)
	if !ok {
		return domain.Message{}, false
	}
	from := c.sender()
	c.store.AppendReply(id, domain.Reply{Text: text, Date: c.now(), Sender: from.Name})

	sent := c.synthesize("sent", domain.FolderSent, []domain.Address{orig.From}, domain.ReplySubject(orig.Subject), text)
	sent.ReplyToID = id
	c.store.Insert(sent)
	return sent, true
}

// SaveDraft rewrites a draft in place.
func (c *Controller) SaveDraft(id, subject, text string) bool {
	m, ok := c.store.Get(id)
	if !ok || m.Folder != domain.FolderDrafts {
		return false
	}
	return c.store.UpdateContent(id, subject, text)
}

// SendDraft files a draft as sent with its final subject and text. It
// returns the record that represents the send.
func (c *Controller) SendDraft(id, subject, text string) (domain.Message, bool) {
	m, ok := c.store.Get(id)
	if !ok || m.Folder != domain.FolderDrafts {
		return domain.Message{}, false
	}
	c.store.UpdateContent(id, subject, text)
	c.store.SetFolder(id, domain.FolderSent)
	c.dropSelection(id)

	if c.draftSendCopy {
		sent := c.synthesize("sent", domain.FolderSent, m.To, subject, text)
		c.store.Insert(sent)
		return sent, true
	}

	c.store.update(id, func(m *domain.Message) {
		m.Date = c.now()
		m.IsRead = true
	})
	sent, _ := c.store.Get(id)
	return sent, true
}

// SaveNewDraft files a fresh draft. Nothing is saved when both subject and
// body are blank.
func (c *Controller) SaveNewDraft(to, subject, body string) (domain.Message, bool) {
	if strings.TrimSpace(subject) == "" && strings.TrimSpace(body) == "" {
		return domain.Message{}, false
	}
	if c.accountID == "" {
		return domain.Message{}, false
	}
	draft := c.synthesize("draft", domain.FolderDrafts, domain.ParseAddressList(to), subject, body)
	c.store.Insert(draft)
	return draft, true
}

// Forward records a sent copy of originalID addressed to to. Recipient,
// subject and body are all required.
func (c *Controller) Forward(to, subject, body, originalID string) (domain.Message, bool) {
	if strings.TrimSpace(to) == "" || strings.TrimSpace(subject) == "" || strings.TrimSpace(body) == "" {
		return domain.Message{}, false
	}
	if _, ok := c.accounts.Get(c.accountID); !ok {
		return domain.Message{}, false
	}
	if !c.store.Has(originalID) {
		return domain.Message{}, false
	}
	sent := c.synthesize("sent", domain.FolderSent, domain.ParseAddressList(to), subject, body)
	sent.ReplyToID = originalID
	c.store.Insert(sent)
	return sent, true
}

// Original resolves the message m replied to or forwarded.
func (c *Controller) Original(m domain.Message) (domain.Message, bool) {
	if m.ReplyToID == "" {
		return domain.Message{}, false
	}
	return c.store.Get(m.ReplyToID)
}

// AddLabel registers the label (keeping the colour of an existing label of
// the same name) and tags the message with it.
func (c *Controller) AddLabel(name, color, messageID string) bool {
	name = strings.TrimSpace(name)
	if name == "" || !c.store.Has(messageID) {
		return false
	}
	c.labels.Add(domain.Label{Name: name, Color: color})
	return c.store.AddLabel(messageID, name)
}

// RemoveLabel untags a single message; the label stays registered.
func (c *Controller) RemoveLabel(name, messageID string) bool {
	return c.store.RemoveLabel(messageID, name)
}

// DeleteLabel unregisters the label and strips it from every message.
// A filter on the deleted label falls back to "all".
func (c *Controller) DeleteLabel(name string) bool {
	if !c.labels.Delete(name) {
		return false
	}
	c.store.RemoveLabelEverywhere(name)
	if c.labelFilter == name {
		c.labelFilter = domain.LabelFilterAll
	}
	return true
}

func (c *Controller) SetLabelColor(name, color string) bool {
	return c.labels.SetColor(name, color)
}

// Counts returns the badge count for every folder of the current account:
// unread mail in the inbox, mail sent in the last 24 hours, and the total
// everywhere else.
func (c *Controller) Counts() map[domain.Folder]int {
	counts := make(map[domain.Folder]int)
	for _, f := range domain.Folders() {
		counts[f] = 0
	}
	if c.accountID == "" {
		return counts
	}
	since := c.now().Add(-24 * time.Hour)
	for _, m := range c.store.msgs {
		if m.AccountID != c.accountID {
			continue
		}
		switch m.Folder {
		case domain.FolderInbox:
			if !m.IsRead {
				counts[m.Folder]++
			}
		case domain.FolderSent:
			if m.Date.After(since) {
				counts[m.Folder]++
			}
		default:
			counts[m.Folder]++
		}
	}
	return counts
}
