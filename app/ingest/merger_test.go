package ingest

import (
	"testing"
)

func TestMergerNewWinsOverExisting(t *testing.T) {
	merger := NewMerger()

	newArticles := []Article{{ID: "1", Title: "New"}}
	existing := []Article{{ID: "1", Title: "Old"}}

	merged := merger.Run(newArticles, existing)

	if len(merged) != 1 {
		t.Fatalf("Expected 1 article, got %d", len(merged))
	}
	if merged[0].Title != "New" {
		t.Errorf("Expected newer entry to win, got title %q", merged[0].Title)
	}
}

func TestMergerIDWinsOverURLAndTitle(t *testing.T) {
	merger := NewMerger()

	// Same id, different url and title: must collapse to one entry.
	newArticles := []Article{
		{ID: "7", Title: "First", URL: "http://a.example.com"},
		{ID: "7", Title: "Second", URL: "http://b.example.com"},
	}

	merged := merger.Run(newArticles, nil)

	if len(merged) != 1 {
		t.Fatalf("Expected 1 article keyed by id, got %d", len(merged))
	}
	if merged[0].Title != "First" {
		t.Errorf("Expected first occurrence kept, got %q", merged[0].Title)
	}
}

func TestMergerURLKeyCaseInsensitive(t *testing.T) {
	merger := NewMerger()

	newArticles := []Article{
		{Title: "One", URL: "http://Example.com/A"},
		{Title: "Two", URL: "http://example.com/a"},
	}

	merged := merger.Run(newArticles, nil)

	if len(merged) != 1 {
		t.Errorf("Expected url dedup to be case-insensitive, got %d articles", len(merged))
	}
}

func TestMergerTitleFetchedAtCompositeKey(t *testing.T) {
	merger := NewMerger()

	// Both title and fetchedAt present: composite key applies.
	dup := []Article{
		{Title: "Same Story", FetchedAt: "2026-08-30"},
		{Title: "  same story ", FetchedAt: "2026-08-30"},
	}
	merged := merger.Run(dup, nil)
	if len(merged) != 1 {
		t.Errorf("Expected title+fetchedAt dedup, got %d articles", len(merged))
	}

	// Missing fetchedAt: no composite key, both retained.
	noDate := []Article{
		{Title: "Same Story"},
		{Title: "Same Story"},
	}
	merged = merger.Run(noDate, nil)
	if len(merged) != 2 {
		t.Errorf("Expected both retained without fetchedAt, got %d articles", len(merged))
	}
}

func TestMergerNeverDropsKeylessArticles(t *testing.T) {
	merger := NewMerger()

	// No id, no url, no title+fetchedAt pair: never deduplicated, even if
	// otherwise identical.
	keyless := []Article{
		{Snippet: "identical"},
		{Snippet: "identical"},
	}

	merged := merger.Run(keyless, keyless)

	if len(merged) != 4 {
		t.Errorf("Expected all keyless articles retained, got %d", len(merged))
	}
}

func TestMergerIdempotent(t *testing.T) {
	merger := NewMerger()

	a := []Article{
		{ID: "1", Title: "A"},
		{URL: "http://example.com/b", Title: "B"},
	}
	b := []Article{
		{ID: "1", Title: "A old"},
		{ID: "2", Title: "C"},
	}

	once := merger.Run(a, b)
	twice := merger.Run(once, b)

	if len(once) != len(twice) {
		t.Fatalf("Re-merging grew the list: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID || once[i].Title != twice[i].Title {
			t.Errorf("Position %d differs after re-merge: %+v vs %+v", i, once[i], twice[i])
		}
	}
}

func TestMergerRawPrimaryKeyFallback(t *testing.T) {
	merger := NewMerger()

	newArticles := []Article{
		{Title: "New", Raw: RawRecord{"pk": "p5"}},
	}
	existing := []Article{
		{Title: "Old", Raw: RawRecord{"pk": "p5"}},
	}

	merged := merger.Run(newArticles, existing)

	if len(merged) != 1 {
		t.Fatalf("Expected raw primary key dedup, got %d articles", len(merged))
	}
	if merged[0].Title != "New" {
		t.Errorf("Expected newer entry kept, got %q", merged[0].Title)
	}
	// Display id re-annotated from the raw primary key.
	if merged[0].ID != "p5" {
		t.Errorf("Expected display id 'p5', got %q", merged[0].ID)
	}
}

func TestMergerExplicitIDWinsOverRawPrimaryKey(t *testing.T) {
	merger := NewMerger()

	merged := merger.Run([]Article{
		{ID: "explicit", Title: "x", Raw: RawRecord{"pk": "raw"}},
	}, nil)

	if len(merged) != 1 {
		t.Fatalf("Expected 1 article, got %d", len(merged))
	}
	if merged[0].ID != "explicit" {
		t.Errorf("Expected explicit id to win, got %q", merged[0].ID)
	}
}

func TestMergerOrderingNewFirst(t *testing.T) {
	merger := NewMerger()

	newArticles := []Article{{ID: "3", Title: "newest"}}
	existing := []Article{{ID: "1", Title: "older"}, {ID: "2", Title: "oldest"}}

	merged := merger.Run(newArticles, existing)

	if len(merged) != 3 {
		t.Fatalf("Expected 3 articles, got %d", len(merged))
	}
	if merged[0].Title != "newest" || merged[1].Title != "older" || merged[2].Title != "oldest" {
		t.Errorf("Unexpected order: %q, %q, %q", merged[0].Title, merged[1].Title, merged[2].Title)
	}
}
