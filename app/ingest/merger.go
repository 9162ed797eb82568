package ingest

import (
	"cmp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// rawPrimaryKeys are backend primary-key fields consulted when the
// normalized id is absent. The explicit normalized id wins when both are
// present and disagree.
var rawPrimaryKeys = []string{
	"pk", "Pk", "PK",
	"_id", "uid",
	"articleId", "article_id",
	"newsId", "news_id",
}

// Merger combines a newly normalized batch with the currently displayed
// list into one deduplicated, newest-first sequence. Pure function: same
// inputs, same output, no I/O.
type Merger struct{}

func NewMerger() *Merger {
	return &Merger{}
}

// Run processes newArticles before existingArticles, so when both share a
// dedup key the newer entry wins and keeps its higher position. Articles
// with no derivable key are always retained: a missed dedup is tolerated, a
// wrongly dropped article is not.
func (m *Merger) Run(newArticles, existingArticles []Article) []Article {
	seen := make(map[string]bool, len(newArticles)+len(existingArticles))
	merged := make([]Article, 0, len(newArticles)+len(existingArticles))

	add := func(a Article) {
		if key := dedupKey(a); key != "" {
			if seen[key] {
				return
			}
			seen[key] = true
		}
		// Unified display id so the UI has one canonical field to key off.
		a.ID = displayID(a)
		merged = append(merged, a)
	}

	for _, a := range newArticles {
		add(a)
	}
	for _, a := range existingArticles {
		add(a)
	}

	return merged
}

// dedupKey derives the identity used to decide two Articles represent the
// same item. Precedence: id (normalized, else raw primary key), lowercased
// url, then title+fetchedAt only when both are present. Empty means no key
// is derivable.
func dedupKey(a Article) string {
	if id := displayID(a); id != "" {
		return "id:" + id
	}

	if a.URL != "" {
		return "url:" + strings.ToLower(a.URL)
	}

	title := foldTitle(a.Title)
	if title != "" && a.FetchedAt != "" {
		return "tf:" + title + "|" + a.FetchedAt
	}

	return ""
}

// displayID unifies the normalized id with a raw-record primary-key
// fallback.
func displayID(a Article) string {
	raw, _ := firstValue(a.Raw, rawPrimaryKeys)
	return cmp.Or(strings.TrimSpace(a.ID), raw)
}

// foldTitle normalizes a title for keying: NFC-folded, trimmed, lowercased,
// so visually identical titles key identically.
func foldTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(title)))
}
