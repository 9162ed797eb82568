package database

import (
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func TestFetchLogRecordAndRecent(t *testing.T) {
	repo := NewFetchLogRepository(setupTestDB(t))

	entries := []FetchLog{
		{Trigger: "manual", Shape: "article_list", TotalRecords: 5, Kept: 4, Dropped: 1, DisplayTotal: 4},
		{Trigger: "preview", Shape: "wrapped_list", TotalRecords: 2, Kept: 2, DisplayTotal: 4},
		{Trigger: "manual", Shape: "unrecognized", ErrorText: "backend returned 502 Bad Gateway"},
	}
	for i, entry := range entries {
		if err := repo.Record(entry); err != nil {
			t.Fatalf("Entry %d: expected no error, got: %v", i, err)
		}
	}

	count, err := repo.Count()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 entries, got %d", count)
	}

	recent, err := repo.Recent(2)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(recent))
	}

	// Newest first
	if recent[0].Shape != "unrecognized" {
		t.Errorf("Expected newest entry first, got shape %q", recent[0].Shape)
	}
	if recent[0].ErrorText == "" {
		t.Error("Expected error text preserved")
	}
	if recent[1].Trigger != "preview" {
		t.Errorf("Expected 'preview' trigger, got %q", recent[1].Trigger)
	}
}

func TestFetchLogRecentEmpty(t *testing.T) {
	repo := NewFetchLogRepository(setupTestDB(t))

	recent, err := repo.Recent(10)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("Expected no entries, got %d", len(recent))
	}
}
