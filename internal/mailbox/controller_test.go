package mailbox

import (
	"strings"
	"testing"
	"time"

	"github.com/lu-zhengda/mailroom/internal/domain"
)

var testNow = time.Date(2024, 10, 25, 12, 0, 0, 0, time.UTC)

func newTestController(t *testing.T, opts ...Option) *Controller {
	t.Helper()
	store := NewStore(
		domain.Message{ID: "m1", AccountID: "a1", Folder: domain.FolderInbox, Subject: "Hello",
			From: domain.Address{Name: "Olivia", Email: "olivia@example.com"}},
		domain.Message{ID: "m2", AccountID: "a1", Folder: domain.FolderTrash, IsRead: true},
		domain.Message{ID: "m3", AccountID: "a1", Folder: domain.FolderInbox, Subject: "Re: Plans", IsRead: true},
		domain.Message{ID: "d1", AccountID: "a1", Folder: domain.FolderDrafts, Subject: "Draft", Body: "wip", IsRead: true,
			To: []domain.Address{{Email: "client@example.com"}}},
		domain.Message{ID: "b1", AccountID: "a2", Folder: domain.FolderInbox},
	)
	accounts := NewAccountRegistry(
		domain.Account{ID: "a1", Label: "Alicia Keys", Email: "alicia@example.com"},
		domain.Account{ID: "a2", Label: "Bob Marley", Email: "bob@example.com"},
	)
	labels := NewLabelRegistry(domain.Label{Name: "work", Color: "#3b82f6"})
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return NewController(store, accounts, labels, opts...)
}

func mustGet(t *testing.T, c *Controller, id string) domain.Message {
	t.Helper()
	m, ok := c.Store().Get(id)
	if !ok {
		t.Fatalf("message %q not found", id)
	}
	return m
}

func TestController_Defaults(t *testing.T) {
	c := newTestController(t)
	if c.CurrentAccountID() != "a1" {
		t.Errorf("CurrentAccountID() = %q, want %q", c.CurrentAccountID(), "a1")
	}
	if c.Folder() != domain.FolderInbox {
		t.Errorf("Folder() = %q, want %q", c.Folder(), domain.FolderInbox)
	}
	if c.LabelFilter() != domain.LabelFilterAll {
		t.Errorf("LabelFilter() = %q, want %q", c.LabelFilter(), domain.LabelFilterAll)
	}
	if got := ids(c.Visible()); !equalIDs(got, []string{"m1", "m3"}) {
		t.Errorf("Visible() = %v, want [m1 m3]", got)
	}
}

func TestController_SelectArchiveRestore(t *testing.T) {
	c := newTestController(t)

	if !c.Select("m1") {
		t.Fatal("Select(m1) = false")
	}
	if m := mustGet(t, c, "m1"); !m.IsRead {
		t.Error("selected message should be read")
	}
	if _, ok := c.Selected(); !ok {
		t.Error("Selected() should report m1")
	}

	c.Archive("m1")
	if m := mustGet(t, c, "m1"); m.Folder != domain.FolderArchive {
		t.Errorf("after Archive folder = %q, want archive", m.Folder)
	}
	if c.SelectedID() != "" {
		t.Errorf("selection = %q after archiving it, want none", c.SelectedID())
	}

	c.Restore("m1")
	if m := mustGet(t, c, "m1"); m.Folder != domain.FolderInbox {
		t.Errorf("after Restore folder = %q, want inbox", m.Folder)
	}
}

func TestController_RestoreIsResetNotInverse(t *testing.T) {
	c := newTestController(t)
	c.Store().SetFolder("m3", domain.FolderJunk)
	c.Restore("m3")
	if m := mustGet(t, c, "m3"); m.Folder != domain.FolderInbox {
		t.Errorf("Restore() folder = %q, want inbox", m.Folder)
	}
	c.Archive("m3")
	if c.Restore("m3", domain.FolderSent) {
		t.Error("Restore(m3, sent) = true, want false")
	}
	if m := mustGet(t, c, "m3"); m.Folder != domain.FolderArchive {
		t.Errorf("after refused Restore folder = %q, want archive", m.Folder)
	}
}

func TestController_FolderTransitions(t *testing.T) {
	ops := map[string]func(c *Controller) bool{
		"archive": func(c *Controller) bool { return c.Archive("x") },
		"junk":    func(c *Controller) bool { return c.MoveToJunk("x") },
		"delete":  func(c *Controller) bool { return c.Delete("x") },
		"restore": func(c *Controller) bool { return c.Restore("x") },
	}

	tests := []struct {
		from    domain.Folder
		op      string
		want    bool
		wantDst domain.Folder
	}{
		{domain.FolderInbox, "archive", true, domain.FolderArchive},
		{domain.FolderInbox, "junk", true, domain.FolderJunk},
		{domain.FolderInbox, "delete", true, domain.FolderTrash},
		{domain.FolderInbox, "restore", false, domain.FolderInbox},

		{domain.FolderArchive, "archive", false, domain.FolderArchive},
		{domain.FolderArchive, "junk", false, domain.FolderArchive},
		{domain.FolderArchive, "delete", true, domain.FolderTrash},
		{domain.FolderArchive, "restore", true, domain.FolderInbox},

		{domain.FolderJunk, "archive", false, domain.FolderJunk},
		{domain.FolderJunk, "junk", false, domain.FolderJunk},
		{domain.FolderJunk, "delete", true, domain.FolderTrash},
		{domain.FolderJunk, "restore", true, domain.FolderInbox},

		{domain.FolderTrash, "archive", false, domain.FolderTrash},
		{domain.FolderTrash, "junk", false, domain.FolderTrash},
		{domain.FolderTrash, "delete", false, domain.FolderTrash},
		{domain.FolderTrash, "restore", true, domain.FolderInbox},

		{domain.FolderSent, "archive", false, domain.FolderSent},
		{domain.FolderSent, "junk", false, domain.FolderSent},
		{domain.FolderSent, "delete", false, domain.FolderSent},
		{domain.FolderSent, "restore", false, domain.FolderSent},

		{domain.FolderDrafts, "archive", false, domain.FolderDrafts},
		{domain.FolderDrafts, "junk", false, domain.FolderDrafts},
		{domain.FolderDrafts, "delete", false, domain.FolderDrafts},
		{domain.FolderDrafts, "restore", false, domain.FolderDrafts},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+tt.op, func(t *testing.T) {
			c := NewController(
				NewStore(domain.Message{ID: "x", AccountID: "a1", Folder: tt.from}),
				NewAccountRegistry(domain.Account{ID: "a1", Label: "Alicia Keys"}),
				NewLabelRegistry(),
			)
			if got := ops[tt.op](c); got != tt.want {
				t.Errorf("%s from %s = %v, want %v", tt.op, tt.from, got, tt.want)
			}
			if m := mustGet(t, c, "x"); m.Folder != tt.wantDst {
				t.Errorf("folder = %q, want %q", m.Folder, tt.wantDst)
			}
		})
	}
}

func TestController_SentMailStaysSent(t *testing.T) {
	c := newTestController(t)
	sent, ok := c.SendReply("m1", "Sounds good")
	if !ok {
		t.Fatal("SendReply(m1) = false")
	}
	if c.Restore(sent.ID) || c.Archive(sent.ID) || c.MoveToJunk(sent.ID) || c.Delete(sent.ID) {
		t.Error("moving sent mail reported success")
	}
	if m := mustGet(t, c, sent.ID); m.Folder != domain.FolderSent {
		t.Errorf("folder = %q, want sent", m.Folder)
	}
}

func TestCanMove(t *testing.T) {
	tests := []struct {
		from, to domain.Folder
		want     bool
	}{
		{domain.FolderDrafts, domain.FolderSent, true},
		{domain.FolderDrafts, domain.FolderDrafts, true},
		{domain.FolderSent, domain.FolderTrash, false},
		{domain.FolderTrash, domain.FolderArchive, false},
		{domain.FolderInbox, domain.FolderSent, false},
		{"bogus", domain.FolderInbox, false},
	}
	for _, tt := range tests {
		if got := CanMove(tt.from, tt.to); got != tt.want {
			t.Errorf("CanMove(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestController_DeleteSoftOutsideTrash(t *testing.T) {
	c := newTestController(t)
	if !c.Delete("m1") {
		t.Fatal("Delete(m1) = false")
	}
	for _, f := range domain.Folders() {
		got := ids(c.Store().List("a1", f, ""))
		found := false
		for _, id := range got {
			if id == "m1" {
				found = true
			}
		}
		if found != (f == domain.FolderTrash) {
			t.Errorf("m1 listed in %s = %v", f, found)
		}
	}
}

func TestController_DeleteFromTrashIsPermanent(t *testing.T) {
	c := newTestController(t)
	c.SelectFolder(domain.FolderTrash)
	c.Select("m2")
	if !c.Delete("m2") {
		t.Fatal("Delete(m2) = false")
	}
	if c.Store().Has("m2") {
		t.Error("m2 still in store after delete from trash")
	}
	if c.SelectedID() != "" {
		t.Errorf("selection = %q, want none", c.SelectedID())
	}
	for _, f := range domain.Folders() {
		for _, m := range c.Store().List("a1", f, "") {
			if m.ID == "m2" {
				t.Errorf("m2 listed in %s", f)
			}
		}
	}
}

func TestController_MoveToJunkMarksRead(t *testing.T) {
	c := newTestController(t)
	c.MarkUnread("m3")
	c.MoveToJunk("m3")
	m := mustGet(t, c, "m3")
	if m.Folder != domain.FolderJunk {
		t.Errorf("Folder = %q, want junk", m.Folder)
	}
	if !m.IsRead {
		t.Error("junked message should be read")
	}
}

func TestController_UnknownIDs(t *testing.T) {
	c := newTestController(t)
	if c.Archive("nope") || c.Delete("nope") || c.Restore("nope") || c.MoveToJunk("nope") ||
		c.Select("nope") || c.MarkUnread("nope") || c.ToggleStar("nope") {
		t.Error("mutation on unknown id reported success")
	}
	if _, ok := c.SendReply("nope", "hi"); ok {
		t.Error("SendReply(unknown) reported success")
	}
	if c.Store().Len() != 5 {
		t.Errorf("Len() = %d, want 5", c.Store().Len())
	}
}

func TestController_SendReply(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		wantSubject string
	}{
		{"adds prefix", "m1", "Re: Hello"},
		{"no double prefix", "m3", "Re: Plans"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(t)
			before := len(mustGet(t, c, tt.id).Replies)

			sent, ok := c.SendReply(tt.id, "thanks")
			if !ok {
				t.Fatal("SendReply() = false")
			}

			orig := mustGet(t, c, tt.id)
			if len(orig.Replies) != before+1 {
				t.Fatalf("replies = %d, want %d", len(orig.Replies), before+1)
			}
			reply := orig.Replies[len(orig.Replies)-1]
			if reply.Text != "thanks" || reply.Sender != "Alicia Keys" || !reply.Date.Equal(testNow) {
				t.Errorf("reply = %+v", reply)
			}
			if orig.Folder != domain.FolderInbox {
				t.Errorf("original folder = %q, want inbox", orig.Folder)
			}

			stored := mustGet(t, c, sent.ID)
			if stored.Folder != domain.FolderSent {
				t.Errorf("sent folder = %q, want sent", stored.Folder)
			}
			if stored.ReplyToID != tt.id {
				t.Errorf("ReplyToID = %q, want %q", stored.ReplyToID, tt.id)
			}
			if stored.Subject != tt.wantSubject {
				t.Errorf("Subject = %q, want %q", stored.Subject, tt.wantSubject)
			}
			if !strings.HasPrefix(stored.ID, "sent-") {
				t.Errorf("ID = %q, want sent- prefix", stored.ID)
			}
			if stored.From.Email != "alicia@example.com" || !stored.IsRead {
				t.Errorf("sent = %+v", stored)
			}
		})
	}
}

func TestController_SyntheticIDsAreUnique(t *testing.T) {
	c := newTestController(t)
	a, _ := c.SendReply("m1", "one")
	b, _ := c.SendReply("m1", "two")
	if a.ID == b.ID {
		t.Fatalf("two replies at the same instant share id %q", a.ID)
	}
	if !c.Store().Has(a.ID) || !c.Store().Has(b.ID) {
		t.Error("both sent records should be stored")
	}
}

func TestController_SendReplyFallbackSender(t *testing.T) {
	store := NewStore(domain.Message{ID: "m1", AccountID: "x", Folder: domain.FolderInbox})
	accounts := NewAccountRegistry(domain.Account{ID: "x"})
	c := NewController(store, accounts, NewLabelRegistry(), WithClock(func() time.Time { return testNow }))

	sent, ok := c.SendReply("m1", "hi")
	if !ok {
		t.Fatal("SendReply() = false")
	}
	if sent.From.Name != "Me" || sent.From.Email != "me@example.com" {
		t.Errorf("From = %+v, want Me <me@example.com>", sent.From)
	}
}

func TestController_SaveDraft(t *testing.T) {
	c := newTestController(t)
	if !c.SaveDraft("d1", "New subject", "new body") {
		t.Fatal("SaveDraft() = false")
	}
	m := mustGet(t, c, "d1")
	if m.Subject != "New subject" || m.Body != "new body" {
		t.Errorf("draft = %q / %q", m.Subject, m.Body)
	}
	if m.Folder != domain.FolderDrafts {
		t.Errorf("Folder = %q, want drafts", m.Folder)
	}
	if c.SaveDraft("m1", "x", "y") {
		t.Error("SaveDraft on an inbox message should fail")
	}
}

func TestController_SendDraftConsolidated(t *testing.T) {
	c := newTestController(t)
	before := c.Store().Len()

	sent, ok := c.SendDraft("d1", "Final", "done")
	if !ok {
		t.Fatal("SendDraft() = false")
	}
	if sent.ID != "d1" {
		t.Errorf("sent ID = %q, want d1", sent.ID)
	}
	if c.Store().Len() != before {
		t.Errorf("Len() = %d, want %d", c.Store().Len(), before)
	}
	m := mustGet(t, c, "d1")
	if m.Folder != domain.FolderSent || m.Subject != "Final" || m.Body != "done" {
		t.Errorf("draft after send = %+v", m)
	}
	if !m.Date.Equal(testNow) {
		t.Errorf("Date = %v, want %v", m.Date, testNow)
	}
	if _, ok := c.SendDraft("d1", "again", "again"); ok {
		t.Error("sending an already sent message should fail")
	}
}

func TestController_SendDraftCopy(t *testing.T) {
	c := newTestController(t, WithDraftSendCopy(true))
	before := c.Store().Len()

	sent, ok := c.SendDraft("d1", "Final", "done")
	if !ok {
		t.Fatal("SendDraft() = false")
	}
	if c.Store().Len() != before+1 {
		t.Fatalf("Len() = %d, want %d", c.Store().Len(), before+1)
	}
	if sent.ID == "d1" || sent.Folder != domain.FolderSent || sent.Subject != "Final" {
		t.Errorf("copy = %+v", sent)
	}
	if m := mustGet(t, c, "d1"); m.Folder != domain.FolderSent {
		t.Errorf("draft folder = %q, want sent", m.Folder)
	}
}

func TestController_SaveNewDraft(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		body    string
		want    bool
	}{
		{"both empty", "", "", false},
		{"whitespace", "  ", "\n\t", false},
		{"subject only", "Hi", "", true},
		{"body only", "", "text", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(t)
			before := c.Store().Len()
			draft, ok := c.SaveNewDraft("", tt.subject, tt.body)
			if ok != tt.want {
				t.Fatalf("SaveNewDraft() ok = %v, want %v", ok, tt.want)
			}
			wantLen := before
			if tt.want {
				wantLen++
				if draft.Folder != domain.FolderDrafts || !strings.HasPrefix(draft.ID, "draft-") {
					t.Errorf("draft = %+v", draft)
				}
			}
			if c.Store().Len() != wantLen {
				t.Errorf("Len() = %d, want %d", c.Store().Len(), wantLen)
			}
		})
	}
}

func TestController_Forward(t *testing.T) {
	c := newTestController(t)
	if _, ok := c.Forward("", "Fwd: Hello", "fyi", "m1"); ok {
		t.Error("Forward without recipient should fail")
	}
	if _, ok := c.Forward("x@example.com", "Fwd: Hello", " ", "m1"); ok {
		t.Error("Forward without body should fail")
	}

	sent, ok := c.Forward("x@example.com", "Fwd: Hello", "fyi", "m1")
	if !ok {
		t.Fatal("Forward() = false")
	}
	if sent.Folder != domain.FolderSent || sent.ReplyToID != "m1" {
		t.Errorf("forward = %+v", sent)
	}
	if len(sent.To) != 1 || sent.To[0].Email != "x@example.com" {
		t.Errorf("To = %v", sent.To)
	}
	orig, ok := c.Original(sent)
	if !ok || orig.ID != "m1" {
		t.Errorf("Original() = %q, %v; want m1", orig.ID, ok)
	}
	if m := mustGet(t, c, "m1"); m.Folder != domain.FolderInbox {
		t.Errorf("original moved to %q", m.Folder)
	}
}

func TestController_AddLabel(t *testing.T) {
	c := newTestController(t)
	c.AddLabel("work", "#000000", "m1")
	c.AddLabel("work", "#ffffff", "m1")

	m := mustGet(t, c, "m1")
	if len(m.Labels) != 1 || m.Labels[0] != "work" {
		t.Errorf("Labels = %v, want [work]", m.Labels)
	}
	l, _ := c.Labels().Get("work")
	if l.Color != "#3b82f6" {
		t.Errorf("Color = %q, want first writer %q", l.Color, "#3b82f6")
	}

	c.AddLabel("urgent", "#ff0000", "m3")
	if l, ok := c.Labels().Get("urgent"); !ok || l.Color != "#ff0000" {
		t.Errorf("urgent = %+v, %v", l, ok)
	}
	if c.AddLabel("x", "#fff", "nope") {
		t.Error("AddLabel on unknown message should fail")
	}
	if _, ok := c.Labels().Get("x"); ok {
		t.Error("label registered for unknown message")
	}
}

func TestController_DeleteLabelCascades(t *testing.T) {
	c := newTestController(t)
	c.AddLabel("work", "", "m1")
	c.SetLabelFilter("work")

	if !c.DeleteLabel("work") {
		t.Fatal("DeleteLabel() = false")
	}
	if m := mustGet(t, c, "m1"); m.HasLabel("work") {
		t.Error("m1 still tagged after label delete")
	}
	if c.LabelFilter() != domain.LabelFilterAll {
		t.Errorf("LabelFilter() = %q, want all", c.LabelFilter())
	}
	if c.DeleteLabel("work") {
		t.Error("second DeleteLabel() = true")
	}
}

func TestController_SwitchAccountClearsSelection(t *testing.T) {
	c := newTestController(t)
	c.Select("m1")
	if !c.SwitchAccount("a2") {
		t.Fatal("SwitchAccount(a2) = false")
	}
	if c.SelectedID() != "" {
		t.Errorf("selection = %q, want none", c.SelectedID())
	}
	if got := ids(c.Visible()); !equalIDs(got, []string{"b1"}) {
		t.Errorf("Visible() = %v, want [b1]", got)
	}
	if c.SwitchAccount("zzz") {
		t.Error("SwitchAccount(unknown) = true")
	}
}

func TestController_Counts(t *testing.T) {
	c := newTestController(t)
	c.Store().Insert(domain.Message{ID: "s-old", AccountID: "a1", Folder: domain.FolderSent, Date: testNow.Add(-48 * time.Hour)})
	c.Store().Insert(domain.Message{ID: "s-new", AccountID: "a1", Folder: domain.FolderSent, Date: testNow.Add(-time.Hour)})
	c.Store().Insert(domain.Message{ID: "j1", AccountID: "a1", Folder: domain.FolderJunk, IsRead: true})

	counts := c.Counts()
	want := map[domain.Folder]int{
		domain.FolderInbox:   1,
		domain.FolderSent:    1,
		domain.FolderDrafts:  1,
		domain.FolderJunk:    1,
		domain.FolderTrash:   1,
		domain.FolderArchive: 0,
	}
	for f, n := range want {
		if counts[f] != n {
			t.Errorf("Counts()[%s] = %d, want %d", f, counts[f], n)
		}
	}
}

func TestController_FoldersStayValid(t *testing.T) {
	c := newTestController(t)
	c.Archive("m1")
	c.MoveToJunk("m3")
	c.Delete("m1")
	c.Restore("m3")
	c.SendDraft("d1", "s", "b")
	c.SendReply("m3", "r")
	c.Forward("x@example.com", "s", "b", "m3")
	c.SaveNewDraft("", "s", "")
	c.Restore("m1", "bogus")
	for _, m := range c.Store().Snapshot() {
		if !m.Folder.Valid() {
			t.Errorf("message %s has folder %q", m.ID, m.Folder)
		}
	}
}
