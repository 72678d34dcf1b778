package domain

// FilterAll is the sentinel filter value that disables a filter.
const FilterAll = "all"

// Result type tags carried by SearchResult.
const (
	ResultDoc    = "doc"
	ResultClass  = "class"
	ResultMethod = "method"
)

// Search limit bounds. Caller-supplied limits are clamped into this range.
const (
	MinSearchLimit     = 1
	MaxSearchLimit     = 20
	DefaultSearchLimit = 10
)

// SearchOptions configures a search query.
type SearchOptions struct {
	// Package restricts results to one package. FilterAll disables.
	Package string

	// Type restricts results to one entity type
	// (all, guide, class, interface, method).
	Type string

	// Limit is the maximum number of results, clamped to [1, 20].
	Limit int
}

// SearchResult unifies a doc chunk, a declaration or a member into one
// rankable record. Results are query-time only and never persisted.
type SearchResult struct {
	// ID is the underlying row's identifier.
	ID string

	// Title is the chunk heading, declaration name or member name.
	Title string

	// Snippet is a short excerpt around the earliest query term match.
	Snippet string

	// Package is the row's package.
	Package string

	// Category is the row's category (doc chunks) or kind (declarations).
	Category string

	// Type is the result type tag: doc, class or method.
	Type string

	// SourceURL is the browsable source location.
	SourceURL string

	// Rank is the relevance score. Lower is more relevant.
	Rank int
}

// ClampLimit bounds a caller-supplied limit to the supported range.
// Non-positive limits fall back to the default.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultSearchLimit
	}
	if limit < MinSearchLimit {
		return MinSearchLimit
	}
	if limit > MaxSearchLimit {
		return MaxSearchLimit
	}
	return limit
}
