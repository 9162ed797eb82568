package ingest

import (
	"sort"
	"strings"
)

// Shape identifies which response layout the detector matched. Each branch
// is independently testable instead of an open-ended chain of ad hoc checks.
type Shape int

const (
	ShapeUnrecognized Shape = iota
	ShapeArticleList        // top-level list of article records
	ShapeContainerList      // list of containers each carrying a list field
	ShapeWrappedList        // composite with a known list-valued field
	ShapeScanned            // composite located by scanning every field
)

func (s Shape) String() string {
	switch s {
	case ShapeArticleList:
		return "article_list"
	case ShapeContainerList:
		return "container_list"
	case ShapeWrappedList:
		return "wrapped_list"
	case ShapeScanned:
		return "scanned"
	default:
		return "unrecognized"
	}
}

// listFieldNames are the envelope fields the backend has historically used
// to carry the article list. Matched case-insensitively, in this order.
var listFieldNames = []string{
	"articles", "items", "results", "data", "list", "records", "rows", "content", "berita",
}

// articleMarkerFields qualify a record as article-like when any is present.
// Covers cased and localized variants.
var articleMarkerFields = []string{
	"title", "Title", "judul", "Judul",
	"url", "Url", "URL", "link", "Link",
	"summary", "Summary", "description", "Description",
	"snippet", "ringkasan",
}

type ShapeDetector struct{}

func NewShapeDetector() *ShapeDetector {
	return &ShapeDetector{}
}

// Run locates the raw article records hidden inside a backend response of
// unknown shape. An empty result is a valid, non-exceptional outcome; a
// transport failure is reported separately by the caller.
func (d *ShapeDetector) Run(response any) ([]RawRecord, Shape) {
	switch v := response.(type) {
	case []any:
		return d.fromList(v)
	case map[string]any:
		return d.fromComposite(v)
	}
	return nil, ShapeUnrecognized
}

func (d *ShapeDetector) fromList(list []any) ([]RawRecord, Shape) {
	if len(list) == 0 {
		return nil, ShapeArticleList
	}

	if rec, ok := asRecord(list[0]); ok && looksLikeArticle(rec) {
		return toRecords(list), ShapeArticleList
	}

	// Treat each element as a container and flatten its list fields.
	var combined []RawRecord
	for _, el := range list {
		container, ok := asRecord(el)
		if !ok {
			continue
		}
		for _, name := range listFieldNames {
			if inner, ok := listField(container, name); ok {
				combined = append(combined, toRecords(inner)...)
			}
		}
	}
	return combined, ShapeContainerList
}

func (d *ShapeDetector) fromComposite(m map[string]any) ([]RawRecord, Shape) {
	for _, name := range listFieldNames {
		if inner, ok := listField(m, name); ok {
			return toRecords(inner), ShapeWrappedList
		}
	}

	// Last resort: scan every field for a list whose first element looks
	// like an article.
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		inner, ok := m[k].([]any)
		if !ok || len(inner) == 0 {
			continue
		}
		if rec, ok := asRecord(inner[0]); ok && looksLikeArticle(rec) {
			return toRecords(inner), ShapeScanned
		}
	}

	return nil, ShapeUnrecognized
}

// listField finds a list-valued field by name, case-insensitively.
func listField(m map[string]any, name string) ([]any, bool) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !strings.EqualFold(k, name) {
			continue
		}
		if list, ok := m[k].([]any); ok {
			return list, true
		}
	}
	return nil, false
}

func looksLikeArticle(rec RawRecord) bool {
	for _, field := range articleMarkerFields {
		if _, ok := rec[field]; ok {
			return true
		}
	}
	return false
}

func asRecord(v any) (RawRecord, bool) {
	rec, ok := v.(map[string]any)
	return rec, ok
}

func toRecords(list []any) []RawRecord {
	records := make([]RawRecord, 0, len(list))
	for _, el := range list {
		if rec, ok := asRecord(el); ok {
			records = append(records, rec)
		}
	}
	return records
}
