package ingest

import (
	"cmp"
	"net/url"
	"strings"
)

// UnknownSourceLabel is returned when no source can be determined. The
// lookup is cosmetic and must never block rendering.
const UnknownSourceLabel = "Unknown source"

// SourceResolver determines a human-readable source label for an article.
type SourceResolver struct{}

func NewSourceResolver() *SourceResolver {
	return &SourceResolver{}
}

// Run attempts, in order: the article's own source name, an exact source id
// match, then hostname matching between the article URL (recovered from the
// raw record when absent) and each source's base URL. Malformed URLs are a
// non-match for that candidate, never an error.
func (r *SourceResolver) Run(a Article, sources []Source) string {
	if name := strings.TrimSpace(a.SourceName); name != "" {
		return name
	}

	if a.SourceID != "" {
		for _, s := range sources {
			if s.ID == a.SourceID {
				return s.Name
			}
		}
	}

	if host := hostOf(cmp.Or(a.URL, FindURL(a.Raw))); host != "" {
		for _, s := range sources {
			if candidate := hostOf(s.BaseURL); candidate != "" && hostsRelated(host, candidate) {
				return s.Name
			}
		}
	}

	return UnknownSourceLabel
}

// hostOf extracts a lowercased hostname with any leading "www." label
// stripped. Returns "" for unparseable input.
func hostOf(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// hostsRelated accepts equal hostnames or either being a subdomain of the
// other.
func hostsRelated(a, b string) bool {
	return a == b || strings.HasSuffix(a, "."+b) || strings.HasSuffix(b, "."+a)
}
