package storage

import (
	"context"
	"testing"
)

func newActivityRepo(t *testing.T) *ActivityRepo {
	t.Helper()
	tmpDir := t.TempDir()

	db, err := New(tmpDir + "/test.db")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	userRepo := NewUserRepo(db)
	if err := userRepo.Create(context.Background(), &UserRecord{Email: "owner@example.com", IsActive: true}); err != nil {
		t.Fatalf("Create(user) error = %v", err)
	}

	return NewActivityRepo(db)
}

func TestActivityRepo_InsertAndList(t *testing.T) {
	repo := newActivityRepo(t)
	ctx := context.Background()

	entries := []*ActivityRecord{
		{UserID: 1, DocumentID: 3, ActivityType: "question_ask", Description: "asked about payment terms"},
		{UserID: 1, ActivityType: "document_upload", Description: "uploaded report.pdf"},
	}
	for _, e := range entries {
		if err := repo.Insert(ctx, e); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		if e.ID == 0 {
			t.Fatal("Insert() did not set entry id")
		}
	}

	got, err := repo.ListRecentByUser(ctx, 1, 10)
	if err != nil {
		t.Fatalf("ListRecentByUser() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListRecentByUser() returned %d entries, want 2", len(got))
	}
	// Newest first.
	if got[0].ActivityType != "document_upload" {
		t.Errorf("first entry = %s, want document_upload", got[0].ActivityType)
	}
	// Zero document id round-trips through the nullable column.
	if got[0].DocumentID != 0 {
		t.Errorf("DocumentID = %d, want 0", got[0].DocumentID)
	}
	if got[1].DocumentID != 3 {
		t.Errorf("DocumentID = %d, want 3", got[1].DocumentID)
	}
}

func TestActivityRepo_ListLimit(t *testing.T) {
	repo := newActivityRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := repo.Insert(ctx, &ActivityRecord{UserID: 1, ActivityType: "question_ask"}); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	got, err := repo.ListRecentByUser(ctx, 1, 3)
	if err != nil {
		t.Fatalf("ListRecentByUser() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("ListRecentByUser() returned %d entries, want 3", len(got))
	}
}
