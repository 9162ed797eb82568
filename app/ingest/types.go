package ingest

// Ingestion pipeline types

// RawRecord is one backend-supplied article payload of unknown shape, as
// decoded from JSON. It is consumed once per normalization pass and retained
// on the resulting Article for later fallback lookups.
type RawRecord = map[string]any

// Article is the canonical, displayable representation of one article.
type Article struct {
	ID         string
	Title      string
	Snippet    string
	URL        string
	SourceID   string
	SourceName string
	FetchedAt  string // raw backend value, deliberately left unparsed

	// Raw keeps the original record for URL/title rescue and debugging.
	// Never mutated after normalization.
	Raw RawRecord
}

// Source is the backend's source entity. The pipeline consumes it read-only
// and never creates or mutates one.
type Source struct {
	ID       string `json:"sourceId"`
	Name     string `json:"name"`
	BaseURL  string `json:"baseUrl"`
	IsActive bool   `json:"isActive"`
}

// Report summarizes one ingestion pass for callers and the fetch audit log.
type Report struct {
	Shape   Shape
	Total   int // raw records located by shape detection
	Kept    int
	Dropped int // records whose title stayed blank after every fallback
}
