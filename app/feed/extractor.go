package feed

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	readability "github.com/go-shiori/go-readability"
)

// snippetLimit caps extracted snippets at a display-friendly length.
const snippetLimit = 280

// Extractor derives a short plain-text snippet from an article page for
// records the backend delivered without one.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Run(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	article, err := readability.FromReader(strings.NewReader(string(data)), nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	text := strings.Join(strings.Fields(article.TextContent), " ")
	if text == "" {
		return "", fmt.Errorf("no content extracted from HTML data")
	}

	snippet := truncate(text, snippetLimit)

	slog.Debug("Snippet extracted",
		"title", article.Title,
		"snippet_length", utf8.RuneCountInString(snippet))

	return snippet, nil
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
