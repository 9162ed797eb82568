package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"newsdesk/app/backend"
	"newsdesk/app/database"
	"newsdesk/app/feed"
	"newsdesk/app/ingest"
	"newsdesk/app/source"
)

func NewHandler(backendClient *backend.Client, sourceCache *source.Cache,
	fetchLogRepo database.FetchLogRepository, httpClient *http.Client,
	userAgent string) *Handler {
	return &Handler{
		backendClient: backendClient,
		pipeline:      ingest.NewPipeline(ingest.NewNormalizer()),
		merger:        ingest.NewMerger(),
		resolver:      ingest.NewSourceResolver(),
		sourceCache:   sourceCache,
		fetchLogRepo:  fetchLogRepo,
		previewParser: feed.NewParser(),
		extractor:     feed.NewExtractor(),
		httpClient:    httpClient,
		userAgent:     userAgent,
	}
}

// FetchArticles runs one full fetch cycle: backend call, ingestion, merge
// into the displayed list. A transport failure and "zero usable articles"
// stay visibly distinct for the caller.
func (h *Handler) FetchArticles(c *gin.Context) {
	payload, err := h.backendClient.FetchArticles(c.Request.Context())
	if err != nil {
		slog.Error("Backend fetch failed", "error", err)
		h.recordFetch("manual", ingest.Report{}, 0, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	articles, report := h.pipeline.Run(payload)

	h.mu.Lock()
	h.displayed = h.merger.Run(articles, h.displayed)
	merged := make([]ingest.Article, len(h.displayed))
	copy(merged, h.displayed)
	h.mu.Unlock()

	h.recordFetch("manual", report, len(merged), nil)

	slog.Info("Fetch completed",
		"shape", report.Shape.String(),
		"total", report.Total,
		"kept", report.Kept,
		"dropped", report.Dropped,
		"displayed", len(merged))

	c.JSON(http.StatusOK, h.fetchResponseFor(report, merged))
}

// GetArticles returns the current display list with resolved source labels.
func (h *Handler) GetArticles(c *gin.Context) {
	h.mu.Lock()
	displayed := make([]ingest.Article, len(h.displayed))
	copy(displayed, h.displayed)
	h.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"articles": h.viewsFor(displayed),
		"count":    len(displayed),
	})
}

// GetSources returns the cached source list, refreshing from the backend on
// request.
func (h *Handler) GetSources(c *gin.Context) {
	if c.Query("refresh") == "1" {
		sources, err := h.backendClient.ListSources(c.Request.Context())
		if err != nil {
			slog.Error("Source refresh failed", "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		h.sourceCache.Set(sources)
	}

	c.JSON(http.StatusOK, gin.H{
		"sources":      h.sourceCache.Get(),
		"refreshed_at": h.sourceCache.RefreshedAt().Format(time.RFC3339),
	})
}

// PreviewFeed fetches and parses an RSS/Atom feed, runs the items through
// the ingestion pipeline, and returns the result without touching the
// displayed list.
func (h *Handler) PreviewFeed(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	data, err := h.fetchURL(c, req.URL)
	if err != nil {
		slog.Error("Feed preview fetch failed", "url", req.URL, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	title, records, err := h.previewParser.Run(data)
	if err != nil {
		slog.Error("Feed preview parse failed", "url", req.URL, "error", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	response := make([]any, 0, len(records))
	for _, rec := range records {
		response = append(response, map[string]any(rec))
	}
	articles, report := h.pipeline.Run(response)

	h.recordFetch("preview", report, len(articles), nil)

	resp := h.fetchResponseFor(report, articles)
	c.JSON(http.StatusOK, gin.H{
		"feed_title": title,
		"status":     resp.Status,
		"shape":      resp.Shape,
		"articles":   resp.Articles,
	})
}

// ExtractSnippet derives a snippet from an article page for records the
// backend delivered without one.
func (h *Handler) ExtractSnippet(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	data, err := h.fetchURL(c, req.URL)
	if err != nil {
		slog.Error("Snippet fetch failed", "url", req.URL, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	snippet, err := h.extractor.Run(data)
	if err != nil {
		slog.Error("Snippet extraction failed", "url", req.URL, "error", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": req.URL, "snippet": snippet})
}

// ListFetches returns the recent fetch audit entries.
func (h *Handler) ListFetches(c *gin.Context) {
	entries, err := h.fetchLogRepo.Recent(50)
	if err != nil {
		slog.Error("Database error", "operation", "list_fetches", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	views := make([]gin.H, 0, len(entries))
	for _, entry := range entries {
		views = append(views, gin.H{
			"id":            entry.ID,
			"ran_at":        entry.RanAt.Format(time.RFC3339),
			"triggered_by":  entry.Trigger,
			"shape":         entry.Shape,
			"total_records": entry.TotalRecords,
			"kept":          entry.Kept,
			"dropped":       entry.Dropped,
			"display_total": entry.DisplayTotal,
			"error":         entry.ErrorText,
		})
	}

	c.JSON(http.StatusOK, gin.H{"fetches": views})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	h.mu.Lock()
	health["displayed_articles"] = len(h.displayed)
	h.mu.Unlock()

	health["sources"] = h.sourceCache.Count()

	if fetchCount, err := h.fetchLogRepo.Count(); err == nil {
		health["recorded_fetches"] = fetchCount
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) fetchResponseFor(report ingest.Report, articles []ingest.Article) fetchResponse {
	status := "fetched"
	if report.Kept == 0 {
		status = "empty"
	}
	return fetchResponse{
		Status:   status,
		Shape:    report.Shape.String(),
		Total:    report.Total,
		Kept:     report.Kept,
		Dropped:  report.Dropped,
		Articles: h.viewsFor(articles),
	}
}

func (h *Handler) viewsFor(articles []ingest.Article) []articleView {
	sources := h.sourceCache.Get()

	views := make([]articleView, 0, len(articles))
	for _, a := range articles {
		views = append(views, articleView{
			ID:          a.ID,
			Title:       a.Title,
			Snippet:     a.Snippet,
			URL:         a.URL,
			SourceID:    a.SourceID,
			SourceName:  a.SourceName,
			SourceLabel: h.resolver.Run(a, sources),
			FetchedAt:   a.FetchedAt,
		})
	}
	return views
}

func (h *Handler) recordFetch(trigger string, report ingest.Report, displayTotal int, fetchErr error) {
	entry := database.FetchLog{
		Trigger:      trigger,
		Shape:        report.Shape.String(),
		TotalRecords: report.Total,
		Kept:         report.Kept,
		Dropped:      report.Dropped,
		DisplayTotal: displayTotal,
	}
	if fetchErr != nil {
		entry.ErrorText = fetchErr.Error()
	}

	if err := h.fetchLogRepo.Record(entry); err != nil {
		slog.Error("Failed to record fetch", "error", err)
	}
}

func (h *Handler) fetchURL(c *gin.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(c.Request.Context(), "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %s for %s", resp.Status, url)
	}

	return io.ReadAll(resp.Body)
}
