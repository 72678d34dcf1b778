package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docdex/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docdex/internal/core/domain"
	"github.com/custodia-labs/docdex/internal/core/ports/driven"
)

// fixedProvider serves one store, or a fixed error.
type fixedProvider struct {
	store driven.IndexStore
	err   error
}

func (p *fixedProvider) Acquire() (driven.IndexStore, func(), error) {
	if p.err != nil {
		return nil, nil, p.err
	}
	return p.store, func() {}, nil
}

func setupQueryTest(t *testing.T) (*Query, *memory.IndexStore) {
	t.Helper()
	store := memory.NewIndexStore()
	return NewQuery(&fixedProvider{store: store}), store
}

func saveChunk(t *testing.T, store *memory.IndexStore, id, title, content, pkg string) {
	t.Helper()
	err := store.SaveChunk(context.Background(), &domain.DocChunk{
		ID:       id,
		Title:    title,
		Content:  content,
		Package:  pkg,
		Category: domain.CategoryGuide,
	})
	require.NoError(t, err)
}

func TestQuerySearch_EmptyQuery(t *testing.T) {
	q, _ := setupQueryTest(t)

	results, err := q.Search(context.Background(), "   ", domain.SearchOptions{})

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestQuerySearch_RanksWholeWordAboveSubstring(t *testing.T) {
	q, store := setupQueryTest(t)
	saveChunk(t, store, "sub", "Advanced usage", "covers tokenization in depth and at great length to avoid short-text bonuses in this comparison", "guides")
	saveChunk(t, store, "whole", "Usage notes", "every token is matched as a whole word here, also long enough to avoid any short-text bonus at all", "guides")

	results, err := q.Search(context.Background(), "token", domain.SearchOptions{})

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "whole", results[0].ID)
	assert.Equal(t, "sub", results[1].ID)
	assert.Less(t, results[0].Rank, results[1].Rank)
}

func TestWholeWordPatterns(t *testing.T) {
	patterns := wholeWordPatterns([]string{"token", "c++"})

	require.Len(t, patterns, 2)
	assert.True(t, patterns[0].MatchString("a token here"))
	assert.False(t, patterns[0].MatchString("tokenize"))
	// Regexp metacharacters in terms are quoted, not interpreted.
	assert.True(t, patterns[1].MatchString("written in c++ today"))
}

func TestQuerySearch_TitleFirstWordBonus(t *testing.T) {
	q, store := setupQueryTest(t)
	saveChunk(t, store, "plain", "Using the client", "the token word appears in this body text which is long enough to skip the under-hundred bonus", "guides")
	saveChunk(t, store, "titled", "Tokens explained", "the token word appears in this body text which is long enough to skip the under-hundred bonus", "guides")

	results, err := q.Search(context.Background(), "token", domain.SearchOptions{})

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "titled", results[0].ID)
}

func TestQuerySearch_AllTermsRequired(t *testing.T) {
	q, store := setupQueryTest(t)
	saveChunk(t, store, "both", "Guide", "tokens and wallets together", "guides")
	saveChunk(t, store, "one", "Guide", "tokens only here", "guides")

	results, err := q.Search(context.Background(), "tokens wallets", domain.SearchOptions{})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "both", results[0].ID)
}

func TestQuerySearch_PackageFilter(t *testing.T) {
	q, store := setupQueryTest(t)
	saveChunk(t, store, "a", "Tokens", "token text", "alpha")
	saveChunk(t, store, "b", "Tokens", "token text", "beta")

	results, err := q.Search(context.Background(), "token", domain.SearchOptions{Package: "alpha"})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "alpha", results[0].Package)

	all, err := q.Search(context.Background(), "token", domain.SearchOptions{Package: domain.FilterAll})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestQuerySearch_LimitClamped(t *testing.T) {
	q, store := setupQueryTest(t)
	for i := 0; i < 30; i++ {
		saveChunk(t, store, fmt.Sprintf("c%d", i), "Tokens", "token text", "guides")
	}

	results, err := q.Search(context.Background(), "token", domain.SearchOptions{Limit: 100})
	require.NoError(t, err)
	assert.Len(t, results, domain.MaxSearchLimit)

	small, err := q.Search(context.Background(), "token", domain.SearchOptions{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, small, 3)
}

func TestQuerySearch_TypeFilter(t *testing.T) {
	q, store := setupQueryTest(t)
	saveChunk(t, store, "doc", "Token guide", "token text", "guides")
	require.NoError(t, store.SaveDeclaration(context.Background(), &domain.Declaration{
		ID:          "decl",
		Name:        "TokenClient",
		Package:     "token-client",
		Kind:        domain.KindClass,
		Description: "token things",
		Members: []domain.Member{{
			ID:   "mem",
			Name: "sendToken",
			Kind: domain.MemberMethod,
		}},
	}))

	guides, err := q.Search(context.Background(), "token", domain.SearchOptions{Type: "guide"})
	require.NoError(t, err)
	require.Len(t, guides, 1)
	assert.Equal(t, domain.ResultDoc, guides[0].Type)

	classes, err := q.Search(context.Background(), "token", domain.SearchOptions{Type: "class"})
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, domain.ResultClass, classes[0].Type)

	methods, err := q.Search(context.Background(), "token", domain.SearchOptions{Type: "method"})
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.Equal(t, domain.ResultMethod, methods[0].Type)
	assert.Equal(t, "TokenClient.sendToken", methods[0].Title)

	all, err := q.Search(context.Background(), "token", domain.SearchOptions{Type: domain.FilterAll})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestQuerySearch_IndexNotReady(t *testing.T) {
	q := NewQuery(&fixedProvider{err: domain.ErrIndexBuilding})

	_, err := q.Search(context.Background(), "token", domain.SearchOptions{})

	assert.ErrorIs(t, err, domain.ErrIndexBuilding)
}

func TestQueryGetDeclaration(t *testing.T) {
	q, store := setupQueryTest(t)
	require.NoError(t, store.SaveDeclaration(context.Background(), &domain.Declaration{
		ID:      "d1",
		Name:    "Wallet",
		Package: "wallet",
		Kind:    domain.KindClass,
		Members: []domain.Member{{ID: "m1", Name: "balance", Kind: domain.MemberProperty}},
	}))

	decl, err := q.GetDeclaration(context.Background(), "Wallet", domain.FilterAll)
	require.NoError(t, err)
	assert.Equal(t, "Wallet", decl.Name)
	require.Len(t, decl.Members, 1)

	_, err = q.GetDeclaration(context.Background(), "Missing", domain.FilterAll)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = q.GetDeclaration(context.Background(), "  ", domain.FilterAll)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQueryGetMember_QualifiedAndBare(t *testing.T) {
	q, store := setupQueryTest(t)
	ctx := context.Background()
	require.NoError(t, store.SaveDeclaration(ctx, &domain.Declaration{
		ID: "d1", Name: "Foo", Package: "pkg", Kind: domain.KindClass,
		Members: []domain.Member{{ID: "m1", Name: "bar", Kind: domain.MemberMethod}},
	}))
	require.NoError(t, store.SaveDeclaration(ctx, &domain.Declaration{
		ID: "d2", Name: "Baz", Package: "pkg", Kind: domain.KindClass,
		Members: []domain.Member{{ID: "m2", Name: "bar", Kind: domain.MemberMethod}},
	}))

	qualified, err := q.GetMember(ctx, "Foo.bar", domain.FilterAll)
	require.NoError(t, err)
	require.Len(t, qualified, 1)
	assert.Equal(t, "Foo", qualified[0].DeclarationName)

	bare, err := q.GetMember(ctx, "bar", domain.FilterAll)
	require.NoError(t, err)
	assert.Len(t, bare, 2)

	none, err := q.GetMember(ctx, "Foo.missing", domain.FilterAll)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = q.GetMember(ctx, "", domain.FilterAll)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQueryListDeclarations(t *testing.T) {
	q, store := setupQueryTest(t)
	ctx := context.Background()
	require.NoError(t, store.SaveDeclaration(ctx, &domain.Declaration{
		ID: "d1", Name: "Wallet", Package: "beta", Kind: domain.KindClass,
	}))
	require.NoError(t, store.SaveDeclaration(ctx, &domain.Declaration{
		ID: "d2", Name: "IStorage", Package: "alpha", Kind: domain.KindInterface,
	}))

	decls, err := q.ListDeclarations(ctx, domain.FilterAll, domain.FilterAll)
	require.NoError(t, err)
	require.Len(t, decls, 2)
	// Ordered by package first.
	assert.Equal(t, "IStorage", decls[0].Name)

	interfaces, err := q.ListDeclarations(ctx, domain.FilterAll, string(domain.KindInterface))
	require.NoError(t, err)
	require.Len(t, interfaces, 1)
	assert.Equal(t, "IStorage", interfaces[0].Name)
}
