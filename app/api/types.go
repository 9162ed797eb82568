package api

import (
	"net/http"
	"sync"

	"newsdesk/app/backend"
	"newsdesk/app/database"
	"newsdesk/app/feed"
	"newsdesk/app/ingest"
	"newsdesk/app/source"
)

// Handler carries the console's collaborators plus the one piece of shared
// mutable state: the currently displayed article list.
type Handler struct {
	backendClient *backend.Client
	pipeline      *ingest.Pipeline
	merger        *ingest.Merger
	resolver      *ingest.SourceResolver
	sourceCache   *source.Cache
	fetchLogRepo  database.FetchLogRepository
	previewParser *feed.Parser
	extractor     *feed.Extractor
	httpClient    *http.Client
	userAgent     string

	// Displayed list. Each fetch merges synchronously under the lock; when
	// fetches overlap, whichever merge runs last wins.
	mu        sync.Mutex
	displayed []ingest.Article
}

// articleView is the UI-facing projection of one article.
type articleView struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Snippet     string `json:"snippet,omitempty"`
	URL         string `json:"url,omitempty"`
	SourceID    string `json:"sourceId,omitempty"`
	SourceName  string `json:"sourceName,omitempty"`
	SourceLabel string `json:"sourceLabel"`
	FetchedAt   string `json:"fetchedAt,omitempty"`
}

// fetchResponse distinguishes a successful fetch that yielded articles from
// one that yielded none; a transport failure is a separate error response.
type fetchResponse struct {
	Status   string        `json:"status"` // fetched or empty
	Shape    string        `json:"shape"`
	Total    int           `json:"total"`
	Kept     int           `json:"kept"`
	Dropped  int           `json:"dropped"`
	Articles []articleView `json:"articles"`
}

type previewRequest struct {
	URL string `json:"url" binding:"required"`
}

type extractRequest struct {
	URL string `json:"url" binding:"required"`
}
