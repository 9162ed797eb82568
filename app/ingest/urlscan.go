package ingest

import (
	"reflect"
	"sort"
	"strings"
)

// MaxScanDepth bounds recursion over pathologically deep raw records.
const MaxScanDepth = 8

// FindURL searches an arbitrary decoded JSON value for the first URL-shaped
// string. Scanning is depth-capped and cycle-safe: a composite value is
// visited at most once, so self-referential structures terminate with a
// definite result.
func FindURL(value any) string {
	return findURL(value, 0, make(map[uintptr]bool))
}

func findURL(value any, depth int, seen map[uintptr]bool) string {
	if depth > MaxScanDepth {
		return ""
	}

	switch v := value.(type) {
	case string:
		return urlFromString(v)
	case []any:
		if !markSeen(seen, v) {
			return ""
		}
		for _, el := range v {
			if u := findURL(el, depth+1, seen); u != "" {
				return u
			}
		}
	case map[string]any:
		if !markSeen(seen, v) {
			return ""
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		// Cheap string fields win before descending into nested composites.
		for _, k := range keys {
			if s, ok := v[k].(string); ok {
				if u := urlFromString(s); u != "" {
					return u
				}
			}
		}
		for _, k := range keys {
			switch v[k].(type) {
			case map[string]any, []any:
				if u := findURL(v[k], depth+1, seen); u != "" {
					return u
				}
			}
		}
	}

	return ""
}

// markSeen records a composite value in the visited set. Returns false if it
// was already visited.
func markSeen(seen map[uintptr]bool, v any) bool {
	ptr := reflect.ValueOf(v).Pointer()
	if seen[ptr] {
		return false
	}
	seen[ptr] = true
	return true
}

// urlFromString extracts a URL from a single string value: the whole trimmed
// string if it is an absolute URL, otherwise the first URL-shaped substring,
// retrying once with common ampersand escapes decoded.
func urlFromString(s string) string {
	trimmed := strings.TrimSpace(s)
	if isAbsoluteURL(trimmed) {
		return trimmed
	}

	if u := firstURLSubstring(trimmed); u != "" {
		// Query strings often arrive with escaped ampersands.
		return decodeAmpersands(u)
	}

	if decoded := decodeAmpersands(trimmed); decoded != trimmed {
		if u := firstURLSubstring(decoded); u != "" {
			return u
		}
	}

	return ""
}

func isAbsoluteURL(s string) bool {
	if strings.ContainsAny(s, " \t\n\r") {
		return false
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return len(s) > len("https://")
	}
	// Protocol-relative form.
	return strings.HasPrefix(s, "//") && len(s) > 2
}

// firstURLSubstring locates the earliest http(s) URL embedded in a larger
// string, e.g. inside an HTML attribute or a log line.
func firstURLSubstring(s string) string {
	start := -1
	for _, prefix := range []string{"http://", "https://"} {
		if i := strings.Index(s, prefix); i >= 0 && (start < 0 || i < start) {
			start = i
		}
	}
	if start < 0 {
		return ""
	}

	rest := s[start:]
	if end := strings.IndexAny(rest, " \t\n\r\"'<>`"); end >= 0 {
		rest = rest[:end]
	}
	if rest == "http://" || rest == "https://" {
		return ""
	}
	return rest
}

func decodeAmpersands(s string) string {
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, `\u0026`, "&")
	return s
}
