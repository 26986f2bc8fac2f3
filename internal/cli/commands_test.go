package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/lu-zhengda/mailroom/internal/store"
)

// setupCLI points the data and config directories at temp dirs and keeps
// tokens in memory. The first command seeds the sample mailbox.
func setupCLI(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, name := range []string{
		"MAILROOM_AUTH_PROVIDER", "MAILROOM_TRANSPORT",
		"SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL", "SUPABASE_ANON_KEY", "NEXT_PUBLIC_SUPABASE_ANON_KEY",
		"SMTP_HOST", "SMTP_PORT", "SMTP_SECURE", "SMTP_USER", "SMTP_PASS", "SMTP_FROM_EMAIL",
		"GMAIL_CLIENT_ID", "GMAIL_CLIENT_SECRET",
	} {
		t.Setenv(name, "")
	}

	tokens := store.NewMemoryTokenStore()
	prev := newTokenStore
	newTokenStore = func() store.TokenStore { return tokens }
	log.SetOutput(io.Discard)
	t.Cleanup(func() {
		newTokenStore = prev
		log.SetOutput(os.Stderr)
	})
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, "", args...)
	if err != nil {
		t.Fatalf("%s: error = %v", strings.Join(args, " "), err)
	}
	return out
}

func decode[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("failed to parse %q: %v", out, err)
	}
	return v
}

func listIDs(t *testing.T, args ...string) []string {
	t.Helper()
	msgs := decode[[]jsonMessageSummary](t, mustRun(t, append([]string{"list", "--json", "--account", "account-1"}, args...)...))
	ids := make([]string, len(msgs))
	for i, m := range msgs {
		ids[i] = m.ID
	}
	return ids
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func TestListShowsCurrentAccountInbox(t *testing.T) {
	setupCLI(t)

	ids := listIDs(t)
	if !contains(ids, "mail-1") {
		t.Errorf("inbox = %v, want mail-1", ids)
	}
	if contains(ids, "mail-4") {
		t.Errorf("inbox = %v, want no account-2 mail", ids)
	}
	if contains(ids, "mail-5") {
		t.Errorf("inbox = %v, want no sent mail", ids)
	}

	if sent := listIDs(t, "--folder", "sent"); !contains(sent, "mail-5") {
		t.Errorf("sent = %v, want mail-5", sent)
	}
	if work := listIDs(t, "--label", "work"); !contains(work, "mail-1") || contains(work, "mail-2") {
		t.Errorf("work = %v, want mail-1 without mail-2", work)
	}
}

func TestListRejectsUnknownFolder(t *testing.T) {
	setupCLI(t)

	if _, err := runCLI(t, "", "list", "--folder", "spam"); err == nil {
		t.Error("list --folder spam error = nil, want error")
	}
}

func TestReadMarksRead(t *testing.T) {
	setupCLI(t)

	if unread := listIDs(t, "--label", "unread"); !contains(unread, "mail-1") {
		t.Fatalf("unread = %v, want mail-1", unread)
	}

	got := decode[jsonMessage](t, mustRun(t, "read", "mail-1", "--json"))
	if got.Subject != "Project Update & Next Steps" {
		t.Errorf("subject = %q, want %q", got.Subject, "Project Update & Next Steps")
	}
	if !got.IsRead {
		t.Error("is_read = false, want true")
	}

	if unread := listIDs(t, "--label", "unread"); contains(unread, "mail-1") {
		t.Errorf("unread = %v, want mail-1 gone after reading", unread)
	}
}

func TestReadUnknownMessage(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, "", "read", "nope")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("read nope error = %v, want not found", err)
	}
}

func TestMoveCommands(t *testing.T) {
	tests := []struct {
		args   []string
		folder string
		want   string
	}{
		{[]string{"archive", "mail-2"}, "archive", "Mail archived.\n"},
		{[]string{"junk", "mail-2"}, "junk", "Mail moved to junk.\n"},
		{[]string{"trash", "mail-2"}, "trash", "Mail moved to trash.\n"},
	}
	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			setupCLI(t)

			out := mustRun(t, append(tt.args, "--account", "account-1")...)
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
			if ids := listIDs(t, "--folder", tt.folder); !contains(ids, "mail-2") {
				t.Errorf("%s = %v, want mail-2", tt.folder, ids)
			}
			if ids := listIDs(t); contains(ids, "mail-2") {
				t.Errorf("inbox = %v, want mail-2 gone", ids)
			}
		})
	}
}

func TestTrashTwiceDeletesPermanently(t *testing.T) {
	setupCLI(t)

	mustRun(t, "trash", "mail-3")
	out := mustRun(t, "trash", "mail-3", "--json")
	act := decode[jsonAction](t, out)
	if act.Action != "delete" {
		t.Errorf("action = %q, want %q", act.Action, "delete")
	}
	if _, err := runCLI(t, "", "read", "mail-3"); err == nil {
		t.Error("read after permanent delete error = nil, want error")
	}
}

func TestRestoreFromTrash(t *testing.T) {
	setupCLI(t)

	mustRun(t, "trash", "mail-2")
	mustRun(t, "restore", "mail-2")
	if ids := listIDs(t); !contains(ids, "mail-2") {
		t.Errorf("inbox = %v, want mail-2 restored", ids)
	}
}

func TestMoveCommandsRespectFolders(t *testing.T) {
	tests := []struct {
		args []string
	}{
		{[]string{"restore", "mail-5"}},
		{[]string{"archive", "mail-5"}},
		{[]string{"trash", "mail-5"}},
		{[]string{"junk", "mail-14"}},
		{[]string{"restore", "mail-1"}},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			setupCLI(t)

			_, err := runCLI(t, "", tt.args...)
			if err == nil || !strings.Contains(err.Error(), "cannot "+tt.args[0]) {
				t.Errorf("error = %v, want cannot %s", err, tt.args[0])
			}
		})
	}

	t.Run("sent mail stays in sent", func(t *testing.T) {
		setupCLI(t)

		runCLI(t, "", "restore", "mail-5")
		if ids := listIDs(t, "--folder", "sent"); !contains(ids, "mail-5") {
			t.Errorf("sent = %v, want mail-5", ids)
		}
	})
}

func TestFailedFirstCommandKeepsSamples(t *testing.T) {
	setupCLI(t)

	if _, err := runCLI(t, "", "read", "nope"); err == nil {
		t.Fatal("read nope error = nil, want error")
	}
	if ids := listIDs(t); !contains(ids, "mail-1") {
		t.Errorf("inbox = %v, want seeded mail-1", ids)
	}
}

func TestStarAndUnread(t *testing.T) {
	setupCLI(t)

	mustRun(t, "star", "mail-2")
	mustRun(t, "unread", "mail-2")

	got := decode[[]jsonMessageSummary](t, mustRun(t, "list", "--json", "--account", "account-1", "--label", "unread"))
	for _, m := range got {
		if m.ID == "mail-2" {
			if !m.IsStarred {
				t.Error("mail-2 is_starred = false, want true")
			}
			return
		}
	}
	t.Errorf("unread list has no mail-2")
}

func TestReplyFromStdin(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "On it.", "reply", "mail-1", "--body", "-", "--json", "--account", "account-1")
	if err != nil {
		t.Fatalf("reply error = %v", err)
	}
	act := decode[jsonAction](t, out)
	if act.Email != "Olivia Davis <olivia.davis@example.com>" {
		t.Errorf("reply to = %q, want Olivia", act.Email)
	}

	sent := decode[jsonMessage](t, mustRun(t, "read", act.MessageID, "--json"))
	if sent.Subject != "Re: Project Update & Next Steps" {
		t.Errorf("subject = %q, want %q", sent.Subject, "Re: Project Update & Next Steps")
	}
	if sent.Original == nil || sent.Original.ID != "mail-1" {
		t.Errorf("original = %+v, want mail-1", sent.Original)
	}

	orig := decode[jsonMessage](t, mustRun(t, "read", "mail-1", "--json"))
	if len(orig.Replies) != 1 || orig.Replies[0].Text != "On it." {
		t.Errorf("replies = %+v, want one with %q", orig.Replies, "On it.")
	}
}

func TestReplyRequiresText(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, "", "reply", "mail-1", "--body", "   ")
	if err == nil || err.Error() != "reply text is required" {
		t.Errorf("reply error = %v, want %q", err, "reply text is required")
	}
}

func TestForward(t *testing.T) {
	setupCLI(t)

	t.Run("requires recipient", func(t *testing.T) {
		_, err := runCLI(t, "", "forward", "mail-1", "--body", "FYI")
		if err == nil {
			t.Error("forward without --to error = nil, want error")
		}
	})

	t.Run("defaults subject", func(t *testing.T) {
		act := decode[jsonAction](t, mustRun(t, "forward", "mail-1", "--to", "sam@example.com", "--body", "FYI", "--json", "--account", "account-1"))
		got := decode[jsonMessage](t, mustRun(t, "read", act.MessageID, "--json"))
		if got.Subject != "Fwd: Project Update & Next Steps" {
			t.Errorf("subject = %q, want %q", got.Subject, "Fwd: Project Update & Next Steps")
		}
		if got.Folder != "sent" {
			t.Errorf("folder = %q, want %q", got.Folder, "sent")
		}
	})
}

func TestDraftLifecycle(t *testing.T) {
	setupCLI(t)

	act := decode[jsonAction](t, mustRun(t, "draft", "new", "--to", "bob@example.com", "--subject", "Hello", "--body", "first", "--json", "--account", "account-1"))
	id := act.MessageID
	if drafts := listIDs(t, "--folder", "drafts"); !contains(drafts, id) {
		t.Fatalf("drafts = %v, want %s", drafts, id)
	}

	mustRun(t, "draft", "save", id, "--body", "second")
	got := decode[jsonMessage](t, mustRun(t, "read", id, "--json"))
	if got.Body != "second" || got.Subject != "Hello" {
		t.Errorf("draft = %q/%q, want Hello/second", got.Subject, got.Body)
	}

	mustRun(t, "draft", "send", id)
	if drafts := listIDs(t, "--folder", "drafts"); contains(drafts, id) {
		t.Errorf("drafts = %v, want %s gone", drafts, id)
	}
	if sent := listIDs(t, "--folder", "sent"); !contains(sent, id) {
		t.Errorf("sent = %v, want %s", sent, id)
	}
}

func TestDraftNewRequiresContent(t *testing.T) {
	setupCLI(t)

	if _, err := runCLI(t, "", "draft", "new", "--to", "bob@example.com"); err == nil {
		t.Error("draft new without subject or body error = nil, want error")
	}
}

func TestDraftSaveRejectsNonDraft(t *testing.T) {
	setupCLI(t)

	if _, err := runCLI(t, "", "draft", "save", "mail-1", "--body", "x"); err == nil {
		t.Error("draft save mail-1 error = nil, want error")
	}
}

func TestLabelCommands(t *testing.T) {
	setupCLI(t)

	mustRun(t, "label", "add", "mail-2", "urgent", "--color", "#ff0000")
	labels := decode[[]jsonLabel](t, mustRun(t, "label", "list", "--json"))
	var found bool
	for _, l := range labels {
		if l.Name == "urgent" {
			found = true
			if l.Color != "#ff0000" {
				t.Errorf("urgent color = %q, want %q", l.Color, "#ff0000")
			}
		}
	}
	if !found {
		t.Fatalf("labels = %+v, want urgent", labels)
	}
	if ids := listIDs(t, "--label", "urgent"); !contains(ids, "mail-2") {
		t.Errorf("urgent = %v, want mail-2", ids)
	}

	mustRun(t, "label", "color", "urgent", "#00f")
	mustRun(t, "label", "delete", "urgent")
	got := decode[jsonMessage](t, mustRun(t, "read", "mail-2", "--json"))
	for _, l := range got.Labels {
		if l == "urgent" {
			t.Errorf("labels = %v, want urgent removed", got.Labels)
		}
	}
}

func TestLabelRejectsBadColor(t *testing.T) {
	setupCLI(t)

	if _, err := runCLI(t, "", "label", "add", "mail-2", "urgent", "--color", "red"); err == nil {
		t.Error("label add --color red error = nil, want error")
	}
	if _, err := runCLI(t, "", "label", "color", "work", "blue"); err == nil {
		t.Error("label color work blue error = nil, want error")
	}
}

func TestCounts(t *testing.T) {
	setupCLI(t)

	before := decode[[]jsonCount](t, mustRun(t, "counts", "--json", "--account", "account-1"))
	mustRun(t, "read", "mail-1")
	after := decode[[]jsonCount](t, mustRun(t, "counts", "--json", "--account", "account-1"))

	if before[0].Folder != "inbox" {
		t.Fatalf("first folder = %q, want inbox", before[0].Folder)
	}
	if after[0].Count != before[0].Count-1 {
		t.Errorf("inbox count = %d, want %d", after[0].Count, before[0].Count-1)
	}
}

func TestAccountCommands(t *testing.T) {
	setupCLI(t)

	accounts := decode[[]jsonAccount](t, mustRun(t, "account", "list", "--json"))
	if len(accounts) != 3 {
		t.Fatalf("got %d accounts, want 3 (two samples and the signed-in user)", len(accounts))
	}

	mustRun(t, "account", "switch", "account-2")
	accounts = decode[[]jsonAccount](t, mustRun(t, "account", "list", "--json"))
	for _, a := range accounts {
		if a.Current != (a.ID == "account-2") {
			t.Errorf("%s current = %v, want %v", a.ID, a.Current, a.ID == "account-2")
		}
	}

	if _, err := runCLI(t, "", "account", "switch", "nope"); err == nil {
		t.Error("account switch nope error = nil, want error")
	}

	mustRun(t, "account", "rename", "account-2", "Bob M.")
	accounts = decode[[]jsonAccount](t, mustRun(t, "account", "list", "--json"))
	for _, a := range accounts {
		if a.ID == "account-2" && a.Label != "Bob M." {
			t.Errorf("account-2 label = %q, want %q", a.Label, "Bob M.")
		}
	}
}

func TestAccountRemoveKeepsOwnAccount(t *testing.T) {
	setupCLI(t)

	if _, err := runCLI(t, "", "account", "remove", "local"); err == nil {
		t.Error("account remove local error = nil, want error")
	}
	mustRun(t, "account", "remove", "account-2")
	accounts := decode[[]jsonAccount](t, mustRun(t, "account", "list", "--json"))
	for _, a := range accounts {
		if a.ID == "account-2" {
			t.Error("account-2 still listed after remove")
		}
	}
}

func TestProfileNameRenamesAccount(t *testing.T) {
	setupCLI(t)

	mustRun(t, "profile", "set", "full_name", "Jane Doe")

	p := decode[jsonProfile](t, mustRun(t, "profile", "show", "--json"))
	if p.FullName != "Jane Doe" {
		t.Errorf("full_name = %q, want %q", p.FullName, "Jane Doe")
	}
	accounts := decode[[]jsonAccount](t, mustRun(t, "account", "list", "--json"))
	for _, a := range accounts {
		if a.ID == "local" && a.Label != "Jane Doe" {
			t.Errorf("own account label = %q, want %q", a.Label, "Jane Doe")
		}
	}

	if _, err := runCLI(t, "", "profile", "set", "age", "30"); err == nil {
		t.Error("profile set age error = nil, want error")
	}
}

func TestSettings(t *testing.T) {
	setupCLI(t)

	mustRun(t, "settings", "set", "push_notifications", "true")
	mustRun(t, "settings", "set", "profile_visibility", "private")

	got := decode[map[string]any](t, mustRun(t, "settings", "show", "--json"))
	if got["push_notifications"] != true {
		t.Errorf("push_notifications = %v, want true", got["push_notifications"])
	}
	if got["profile_visibility"] != "private" {
		t.Errorf("profile_visibility = %v, want %q", got["profile_visibility"], "private")
	}

	if _, err := runCLI(t, "", "settings", "set", "profile_visibility", "everyone"); err == nil {
		t.Error("settings set profile_visibility everyone error = nil, want error")
	}
}

func TestSendRecordsHistory(t *testing.T) {
	setupCLI(t)

	out := mustRun(t, "send", "--to", "bob@example.com", "--subject", "Hi", "--body", "Hello Bob")
	if out != "Mail sent to bob@example.com!\n" {
		t.Errorf("output = %q, want %q", out, "Mail sent to bob@example.com!\n")
	}

	recs := decode[[]jsonSent](t, mustRun(t, "sent", "--json"))
	if len(recs) != 1 {
		t.Fatalf("got %d sent records, want 1", len(recs))
	}
	if recs[0].To != "bob@example.com" || recs[0].Subject != "Hi" {
		t.Errorf("record = %+v, want bob@example.com / Hi", recs[0])
	}
}

func TestSendValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing body", []string{"send", "--to", "bob@example.com", "--subject", "Hi"}, "Missing required fields."},
		{"bad address", []string{"send", "--to", "bob", "--subject", "Hi", "--body", "x"}, "Invalid 'To' email address."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLI(t)
			_, err := runCLI(t, "", tt.args...)
			if err == nil || err.Error() != tt.want {
				t.Errorf("error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestAuthWithoutProvider(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "secret\n", "auth", "signin", "--email", "me@example.com", "--json")
	if err != nil {
		t.Fatalf("signin error = %v", err)
	}
	if act := decode[jsonAction](t, out); act.Action != "signin" || !act.OK {
		t.Errorf("signin = %+v, want ok", act)
	}

	u := decode[jsonUser](t, mustRun(t, "auth", "whoami", "--json"))
	if u.Provider != "none" {
		t.Errorf("provider = %q, want %q", u.Provider, "none")
	}
	if u.ID != "local" {
		t.Errorf("id = %q, want %q", u.ID, "local")
	}

	if _, err := runCLI(t, "", "auth", "signin"); err == nil {
		t.Error("signin without --email error = nil, want error")
	}
}

func TestEnvCheck(t *testing.T) {
	setupCLI(t)
	t.Setenv("SMTP_USER", "mailer")

	got := decode[map[string]string](t, mustRun(t, "env-check", "--json"))
	if got["smtpUser"] != "✅ Loaded" {
		t.Errorf("smtpUser = %q, want %q", got["smtpUser"], "✅ Loaded")
	}
	if got["supabaseUrl"] != "❌ Missing" {
		t.Errorf("supabaseUrl = %q, want %q", got["supabaseUrl"], "❌ Missing")
	}
}

func TestUnknownAccountFlag(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, "", "list", "--account", "nope")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("list --account nope error = %v, want not found", err)
	}
}

func TestLabelFilter(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "all"},
		{"all", "all"},
		{"Unread", "__unread__"},
		{"work", "work"},
	}
	for _, tt := range tests {
		if got := labelFilter(tt.in); got != tt.want {
			t.Errorf("labelFilter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
