package ingest

import (
	"strings"
	"testing"
)

func TestFindURLWholeString(t *testing.T) {
	cases := map[string]string{
		"https://example.com/article":   "https://example.com/article",
		"  http://example.com/a  ":      "http://example.com/a",
		"//cdn.example.com/asset":       "//cdn.example.com/asset",
		"not a url":                     "",
		"ftp://example.com/file":        "",
		"https://":                      "",
	}

	for input, expected := range cases {
		if got := FindURL(input); got != expected {
			t.Errorf("FindURL(%q): expected %q, got %q", input, expected, got)
		}
	}
}

func TestFindURLEmbeddedSubstring(t *testing.T) {
	input := `<a href="https://example.com/story?id=7">read more</a>`
	expected := "https://example.com/story?id=7"

	if got := FindURL(input); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestFindURLEscapedAmpersands(t *testing.T) {
	// Escaped query-string ampersands must come back decoded.
	input := `...href="https://example.com/a?x=1\u0026y=2"...`
	expected := "https://example.com/a?x=1&y=2"

	if got := FindURL(input); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}

	input = `see https://example.com/b?x=1&amp;y=2 for details`
	expected = "https://example.com/b?x=1&y=2"
	if got := FindURL(input); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestFindURLNestedStructures(t *testing.T) {
	value := map[string]any{
		"meta": map[string]any{
			"inner": map[string]any{
				"html": `<img src="https://img.example.com/1.png">`,
			},
		},
		"tags": []any{"one", "two"},
	}

	expected := "https://img.example.com/1.png"
	if got := FindURL(value); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestFindURLStringFieldsWinOverNested(t *testing.T) {
	// A direct string field must win before descending into composites,
	// regardless of key order.
	value := map[string]any{
		"a_nested": map[string]any{"u": "https://nested.example.com"},
		"z_direct": "https://direct.example.com",
	}

	expected := "https://direct.example.com"
	if got := FindURL(value); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestFindURLSequenceOrder(t *testing.T) {
	value := []any{
		"no url here",
		"https://first.example.com",
		"https://second.example.com",
	}

	expected := "https://first.example.com"
	if got := FindURL(value); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestFindURLCycleSafety(t *testing.T) {
	parent := map[string]any{}
	child := map[string]any{"parent": parent}
	parent["child"] = child
	parent["deep"] = []any{child}

	// Must terminate with a definite result.
	if got := FindURL(parent); got != "" {
		t.Errorf("Expected no URL in cyclic structure, got %q", got)
	}

	child["link"] = "https://example.com/found"
	if got := FindURL(parent); got != "https://example.com/found" {
		t.Errorf("Expected URL despite cycle, got %q", got)
	}
}

func TestFindURLDepthLimit(t *testing.T) {
	// Bury a URL below the depth cap; the scan must give up cleanly.
	value := map[string]any{"url": "https://example.com/shallow"}
	deep := map[string]any{}
	current := deep
	for i := 0; i < MaxScanDepth+2; i++ {
		next := map[string]any{}
		current["down"] = next
		current = next
	}
	current["url"] = "https://example.com/buried"

	if got := FindURL(deep); got != "" {
		t.Errorf("Expected empty result past depth limit, got %q", got)
	}
	if got := FindURL(value); got != "https://example.com/shallow" {
		t.Errorf("Expected shallow URL, got %q", got)
	}
}

func TestFindURLTerminatesAtDelimiters(t *testing.T) {
	input := `log: fetched https://example.com/x status=200`
	got := FindURL(input)
	if got != "https://example.com/x" {
		t.Errorf("Expected URL cut at whitespace, got %q", got)
	}
	if strings.Contains(got, " ") {
		t.Errorf("URL must not contain whitespace: %q", got)
	}
}
