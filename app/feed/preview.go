package feed

import (
	"bytes"
	"cmp"
	"fmt"

	"github.com/mmcdole/gofeed"

	"newsdesk/app/ingest"
)

// Parser converts an RSS/Atom/JSON feed into the same raw records the
// ingestion pipeline consumes from the backend, so the crawler dashboard
// can preview a feed through the exact display path.
type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses feed data and returns the feed title plus one raw record per
// item.
func (p *Parser) Run(data []byte) (string, []ingest.RawRecord, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	records := make([]ingest.RawRecord, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		rec := ingest.RawRecord{
			"id":      cmp.Or(item.GUID, item.Link),
			"title":   item.Title,
			"link":    item.Link,
			"summary": item.Description,
		}
		if item.Published != "" {
			rec["publishedAt"] = item.Published
		}
		if parsed.Title != "" {
			rec["sourceName"] = parsed.Title
		}
		records = append(records, rec)
	}

	return parsed.Title, records, nil
}
