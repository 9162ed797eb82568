package ingest

import (
	"strconv"
	"strings"
)

// Candidate key chains per canonical field. Order is the fallback priority;
// a dotted key descends one level into a nested wrapper. The backend has
// accumulated these names over several generations of its API, mixing
// casing, nesting, and Indonesian-localized variants.
var (
	idKeys = []string{
		"id", "Id", "ID",
		"articleId", "article_id", "ArticleId",
		"newsId", "news_id", "NewsId",
		"article.id", "article.articleId",
	}

	// Localized title first, then the primary title, then summary-like
	// fields as a last resort. Nested "article" wrapper fields win over
	// top-level ones.
	titleKeys = []string{
		"article.judul", "article.title", "article.Title",
		"judul", "Judul",
		"title", "Title", "TITLE",
		"headline", "Headline", "name",
		"summary", "Summary",
		"description", "Description",
		"snippet", "ringkasan",
	}

	snippetKeys = []string{
		"snippet", "Snippet",
		"summary", "Summary",
		"ringkasan",
		"description", "Description",
		"excerpt", "Excerpt",
		"article.summary", "article.description",
	}

	urlKeys = []string{
		"url", "Url", "URL",
		"link", "Link",
		"sourceUrl", "source_url", "SourceUrl", "SourceURL",
		"originalUrl", "original_url", "OriginalUrl",
		"canonicalUrl", "canonical_url",
		"articleUrl", "article_url",
		"webUrl", "web_url",
		"href",
		"article.url", "article.link",
	}

	sourceIDKeys = []string{
		"sourceId", "source_id", "SourceId", "SourceID",
		"source.id", "source.sourceId",
		"sumberId",
	}

	sourceNameKeys = []string{
		"sourceName", "source_name", "SourceName",
		"source.name", "source.Name",
		"sumber", "source", "Source",
	}

	fetchedAtKeys = []string{
		"fetchedAt", "fetched_at", "FetchedAt",
		"publishedAt", "published_at", "PublishedAt",
		"pubDate", "PubDate",
		"createdAt", "created_at",
		"tanggal", "date", "Date", "timestamp",
	}
)

// Normalizer maps one raw record, regardless of casing or nesting, onto a
// canonical Article. It never drops records itself; blank-title filtering is
// the caller's explicit, separately testable step.
type Normalizer struct {
	// OnPick, when set, receives the canonical field name and the candidate
	// key that supplied its value. Diagnostics hook; no ambient logging here.
	OnPick func(field, key string)
}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

func (n *Normalizer) Run(rec RawRecord) Article {
	a := Article{Raw: rec}
	a.ID = n.pick(rec, "id", idKeys)
	a.Title = n.pick(rec, "title", titleKeys)
	a.Snippet = n.pick(rec, "snippet", snippetKeys)
	a.URL = n.pick(rec, "url", urlKeys)
	a.SourceID = n.pick(rec, "sourceId", sourceIDKeys)
	a.SourceName = n.pick(rec, "sourceName", sourceNameKeys)
	a.FetchedAt = n.pick(rec, "fetchedAt", fetchedAtKeys)

	if strings.TrimSpace(a.Title) == "" {
		// Re-derive straight off the retained raw record in case the first
		// pass partially failed.
		a.Title = n.pick(a.Raw, "title", titleKeys)
	}

	return a
}

func (n *Normalizer) pick(rec RawRecord, field string, keys []string) string {
	value, key := firstValue(rec, keys)
	if value != "" && n.OnPick != nil {
		n.OnPick(field, key)
	}
	return value
}

// firstValue returns the first present scalar among the candidate keys,
// along with the key that supplied it.
func firstValue(rec RawRecord, keys []string) (string, string) {
	for _, key := range keys {
		if s := scalarString(lookup(rec, key)); s != "" {
			return s, key
		}
	}
	return "", ""
}

// lookup resolves a candidate key, descending into nested maps on dots.
func lookup(rec RawRecord, key string) any {
	var current any = rec
	for _, part := range strings.Split(key, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = m[part]
		if !ok {
			return nil
		}
	}
	return current
}

// scalarString renders a scalar value as a string. JSON numbers arrive as
// float64; integral values are rendered without a fractional part.
func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	}
	return ""
}
