package ingest

import (
	"testing"
)

var resolverSources = []Source{
	{ID: "s1", Name: "The Daily", BaseURL: "https://www.daily.example.com", IsActive: true},
	{ID: "s2", Name: "Wire Service", BaseURL: "https://wire.example.org", IsActive: true},
	{ID: "s3", Name: "Broken", BaseURL: "://not a url", IsActive: false},
}

func TestResolverSourceNameWins(t *testing.T) {
	resolver := NewSourceResolver()

	label := resolver.Run(Article{SourceName: "Own Name", SourceID: "s1"}, resolverSources)
	if label != "Own Name" {
		t.Errorf("Expected article's own source name, got %q", label)
	}
}

func TestResolverSourceIDMatch(t *testing.T) {
	resolver := NewSourceResolver()

	label := resolver.Run(Article{SourceID: "s2"}, resolverSources)
	if label != "Wire Service" {
		t.Errorf("Expected id match 'Wire Service', got %q", label)
	}
}

func TestResolverHostnameMatch(t *testing.T) {
	resolver := NewSourceResolver()

	// www. stripped on the source side.
	label := resolver.Run(Article{URL: "https://daily.example.com/story/1"}, resolverSources)
	if label != "The Daily" {
		t.Errorf("Expected hostname match 'The Daily', got %q", label)
	}

	// Subdomain of a known source.
	label = resolver.Run(Article{URL: "https://sports.wire.example.org/x"}, resolverSources)
	if label != "Wire Service" {
		t.Errorf("Expected subdomain match 'Wire Service', got %q", label)
	}
}

func TestResolverRecoversURLFromRaw(t *testing.T) {
	resolver := NewSourceResolver()

	a := Article{
		Raw: RawRecord{
			"meta": map[string]any{
				"html": `<a href="https://wire.example.org/story">x</a>`,
			},
		},
	}

	label := resolver.Run(a, resolverSources)
	if label != "Wire Service" {
		t.Errorf("Expected label via raw URL rescue, got %q", label)
	}
}

func TestResolverMalformedURLsAreNonMatches(t *testing.T) {
	resolver := NewSourceResolver()

	// Malformed article URL: no match, no panic.
	label := resolver.Run(Article{URL: "::::"}, resolverSources)
	if label != UnknownSourceLabel {
		t.Errorf("Expected %q for malformed URL, got %q", UnknownSourceLabel, label)
	}

	// Source s3 has a malformed base URL; it must simply never match.
	label = resolver.Run(Article{URL: "https://unrelated.example.net"}, resolverSources)
	if label != UnknownSourceLabel {
		t.Errorf("Expected %q, got %q", UnknownSourceLabel, label)
	}
}

func TestResolverUnknownSentinel(t *testing.T) {
	resolver := NewSourceResolver()

	label := resolver.Run(Article{Title: "anything"}, nil)
	if label != UnknownSourceLabel {
		t.Errorf("Expected %q, got %q", UnknownSourceLabel, label)
	}
}
