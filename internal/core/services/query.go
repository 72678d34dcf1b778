package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/custodia-labs/docdex/internal/core/domain"
	"github.com/custodia-labs/docdex/internal/core/ports/driven"
	"github.com/custodia-labs/docdex/internal/core/ports/driving"
)

// Ensure the interface is implemented.
var _ driving.QueryService = (*Query)(nil)

// StoreProvider hands out the currently serving index store. The
// indexer implements it; queries always read the store that was live
// when they started, even while a rebuild is writing a new one.
type StoreProvider interface {
	// Acquire returns the current store and a release func the caller
	// must invoke when done reading, domain.ErrIndexBuilding while no
	// store is open yet, or domain.ErrIndexFailed after a failed build
	// with no previous store to fall back to. A held store survives a
	// concurrent swap until released.
	Acquire() (driven.IndexStore, func(), error)
}

// Query answers the four retrieval operations against the current store.
type Query struct {
	provider StoreProvider
}

// NewQuery creates a query service reading through the given provider.
func NewQuery(provider StoreProvider) *Query {
	return &Query{provider: provider}
}

// Search finds doc chunks, declarations and members matching every
// query term, scored by lexical relevance. An empty query yields an
// empty result.
func (q *Query) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	terms := tokenize(query)
	if len(terms) == 0 {
		return []domain.SearchResult{}, nil
	}

	store, release, err := q.provider.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	typeFilter := opts.Type
	if typeFilter == "" {
		typeFilter = domain.FilterAll
	}

	patterns := wholeWordPatterns(terms)
	var results []domain.SearchResult

	if typeFilter == domain.FilterAll || typeFilter == "guide" {
		chunks, err := store.SearchChunks(ctx, terms, opts.Package)
		if err != nil {
			return nil, fmt.Errorf("searching chunks: %w", err)
		}
		for i := range chunks {
			results = append(results, chunkResult(&chunks[i], terms, patterns))
		}
	}

	if typeFilter == domain.FilterAll || typeFilter == "class" || typeFilter == "interface" {
		decls, err := store.SearchDeclarations(ctx, terms, opts.Package)
		if err != nil {
			return nil, fmt.Errorf("searching declarations: %w", err)
		}
		for i := range decls {
			results = append(results, declarationResult(&decls[i], terms, patterns))
		}
	}

	if typeFilter == domain.FilterAll || typeFilter == "method" {
		members, err := store.SearchMembers(ctx, terms, opts.Package)
		if err != nil {
			return nil, fmt.Errorf("searching members: %w", err)
		}
		for i := range members {
			results = append(results, memberResult(&members[i], terms, patterns))
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Rank < results[j].Rank
	})

	limit := domain.ClampLimit(opts.Limit)
	if len(results) > limit {
		results = results[:limit]
	}
	if results == nil {
		results = []domain.SearchResult{}
	}
	return results, nil
}

// GetDeclaration looks up one declaration by exact name with its members.
func (q *Query) GetDeclaration(ctx context.Context, name, pkg string) (*domain.Declaration, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.ErrInvalidInput
	}
	store, release, err := q.provider.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()
	return store.GetDeclaration(ctx, strings.TrimSpace(name), pkg)
}

// GetMember looks up members by bare name or Type.member qualified name.
func (q *Query) GetMember(ctx context.Context, name, pkg string) ([]domain.MemberMatch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	store, release, err := q.provider.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	declName := ""
	memberName := name
	if idx := strings.Index(name, "."); idx >= 0 {
		declName = name[:idx]
		memberName = name[idx+1:]
	}

	matches, err := store.FindMembers(ctx, declName, memberName, pkg)
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []domain.MemberMatch{}
	}
	return matches, nil
}

// ListDeclarations returns all declarations matching the filters.
func (q *Query) ListDeclarations(ctx context.Context, pkg, kind string) ([]domain.Declaration, error) {
	store, release, err := q.provider.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()
	decls, err := store.ListDeclarations(ctx, pkg, kind)
	if err != nil {
		return nil, err
	}
	if decls == nil {
		decls = []domain.Declaration{}
	}
	return decls, nil
}

// ==================== Scoring ====================

// tokenize splits a query into lowercase whitespace-separated terms.
func tokenize(query string) []string {
	fields := strings.Fields(query)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		terms = append(terms, strings.ToLower(f))
	}
	return terms
}

// scoreText ranks a matching row. Lower is more relevant. text is the
// row's full searchable text, title its primary name or heading; both
// are compared case-insensitively against the lowercase terms.
// patterns holds the whole-word regexp for each term, parallel to
// terms, compiled once per search.
func scoreText(text, title string, terms []string, patterns []*regexp.Regexp) int {
	lower := strings.ToLower(text)
	firstWord := ""
	if fields := strings.Fields(strings.ToLower(title)); len(fields) > 0 {
		firstWord = fields[0]
	}

	score := 100
	for i, term := range terms {
		if patterns[i].MatchString(lower) {
			score -= 20
		} else if strings.Contains(lower, term) {
			score -= 10
		}
		if firstWord == term || strings.Contains(firstWord, term) {
			score -= 30
		}
	}
	if len(text) < 100 {
		score -= 5
	}
	if len(text) < 50 {
		score -= 5
	}
	return score
}

// wholeWordPatterns compiles one whole-word matcher per term, so the
// per-row scoring loop never compiles.
func wholeWordPatterns(terms []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(terms))
	for i, term := range terms {
		patterns[i] = regexp.MustCompile(`(^|\W)` + regexp.QuoteMeta(term) + `(\W|$)`)
	}
	return patterns
}

func chunkResult(c *domain.DocChunk, terms []string, patterns []*regexp.Regexp) domain.SearchResult {
	text := c.Title + " " + c.Content
	return domain.SearchResult{
		ID:        c.ID,
		Title:     c.Title,
		Snippet:   buildSnippet(text, terms),
		Package:   c.Package,
		Category:  string(c.Category),
		Type:      domain.ResultDoc,
		SourceURL: c.SourceURL,
		Rank:      scoreText(text, c.Title, terms, patterns),
	}
}

func declarationResult(d *domain.Declaration, terms []string, patterns []*regexp.Regexp) domain.SearchResult {
	text := d.Name + " " + d.Description
	return domain.SearchResult{
		ID:        d.ID,
		Title:     d.Name,
		Snippet:   buildSnippet(text, terms),
		Package:   d.Package,
		Category:  string(d.Kind),
		Type:      domain.ResultClass,
		SourceURL: d.SourceURL,
		Rank:      scoreText(text, d.Name, terms, patterns),
	}
}

func memberResult(m *domain.MemberMatch, terms []string, patterns []*regexp.Regexp) domain.SearchResult {
	text := m.Member.Name + " " + m.Member.Signature + " " + m.Member.Description
	return domain.SearchResult{
		ID:        m.Member.ID,
		Title:     m.DeclarationName + "." + m.Member.Name,
		Snippet:   buildSnippet(text, terms),
		Package:   m.Package,
		Category:  string(m.Member.Kind),
		Type:      domain.ResultMethod,
		SourceURL: m.SourceURL,
		Rank:      scoreText(text, m.Member.Name, terms, patterns),
	}
}
