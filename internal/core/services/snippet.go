package services

import "strings"

const (
	snippetWindow = 150
	snippetLead   = 40
)

// buildSnippet excerpts ~150 characters of text around the earliest
// occurrence of any term, starting 40 characters before it. Ellipses
// mark truncated edges. Terms must already be lowercase.
func buildSnippet(text string, terms []string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	lower := strings.ToLower(text)
	earliest := -1
	for _, term := range terms {
		if idx := strings.Index(lower, term); idx >= 0 && (earliest < 0 || idx < earliest) {
			earliest = idx
		}
	}
	if earliest < 0 {
		earliest = 0
	}

	start := earliest - snippetLead
	if start < 0 {
		start = 0
	}
	end := start + snippetWindow
	if end > len(text) {
		end = len(text)
	}

	snippet := strings.TrimSpace(text[start:end])
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(text) {
		snippet += "..."
	}
	return snippet
}
