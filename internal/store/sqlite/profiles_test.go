package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lu-zhengda/mailroom/internal/domain"
	"github.com/lu-zhengda/mailroom/internal/store"
)

func TestProfiles(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.GetProfile(ctx, "u1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetProfile() error = %v, want ErrNotFound", err)
	}

	if err := db.UpdateProfileField(ctx, "u1", store.ProfileFullName, "Alicia Keys"); err != nil {
		t.Fatalf("UpdateProfileField() error: %v", err)
	}
	if err := db.UpdateProfileField(ctx, "u1", store.ProfileUsername, "alicia"); err != nil {
		t.Fatalf("UpdateProfileField() error: %v", err)
	}

	p, err := db.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("GetProfile() error: %v", err)
	}
	if p.FullName != "Alicia Keys" || p.Username != "alicia" || p.Bio != "" {
		t.Errorf("profile = %+v", p)
	}

	if err := db.UpsertProfile(ctx, &domain.Profile{UserID: "u1", FullName: "A", Bio: "hi", AvatarURL: "https://x/a.png"}); err != nil {
		t.Fatalf("UpsertProfile() error: %v", err)
	}
	p, _ = db.GetProfile(ctx, "u1")
	if p.FullName != "A" || p.Username != "" || p.Bio != "hi" || p.AvatarURL != "https://x/a.png" {
		t.Errorf("profile after upsert = %+v", p)
	}
}

func TestUpdateProfileField_RejectsUnknownColumn(t *testing.T) {
	db := newTestDB(t)
	err := db.UpdateProfileField(context.Background(), "u1", store.ProfileField("user_id; DROP TABLE profiles"), "x")
	if err == nil {
		t.Fatal("UpdateProfileField() should reject unknown field")
	}
}

func TestPreferences(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.GetPreference(ctx, "layout"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetPreference() error = %v, want ErrNotFound", err)
	}
	db.SetPreference(ctx, "layout", []byte(`[1,2,3]`))
	if err := db.SetPreference(ctx, "layout", []byte(`[4,5,6]`)); err != nil {
		t.Fatalf("SetPreference() error: %v", err)
	}
	got, err := db.GetPreference(ctx, "layout")
	if err != nil {
		t.Fatalf("GetPreference() error: %v", err)
	}
	if string(got) != `[4,5,6]` {
		t.Errorf("layout = %s, want [4,5,6]", got)
	}
}

func TestSentLog(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	base := time.Date(2024, 10, 25, 9, 0, 0, 0, time.UTC)
	for i, subj := range []string{"first", "second"} {
		rec := &store.SentRecord{
			UserID:  "u1",
			ToEmail: "x@example.com",
			Subject: subj,
			Body:    "body",
			SentAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.LogSent(ctx, rec); err != nil {
			t.Fatalf("LogSent() error: %v", err)
		}
		if rec.ID == 0 {
			t.Error("LogSent() did not set ID")
		}
	}
	db.LogSent(ctx, &store.SentRecord{UserID: "u2", ToEmail: "y@example.com"})

	got, err := db.ListSent(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("ListSent() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].Subject != "second" {
		t.Errorf("newest = %q, want %q", got[0].Subject, "second")
	}

	limited, _ := db.ListSent(ctx, "u1", 1)
	if len(limited) != 1 {
		t.Errorf("limit 1 returned %d records", len(limited))
	}
}
