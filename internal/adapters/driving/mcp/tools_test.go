package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docdex/internal/core/domain"
)

func newTestServer(t *testing.T, query *mockQueryService, indexer *mockIndexService) *Server {
	t.Helper()
	server, err := NewServer(&Ports{Query: query, Indexer: indexer})
	require.NoError(t, err)
	return server
}

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns search results", func(t *testing.T) {
		mockQuery := &mockQueryService{
			results: []domain.SearchResult{
				{
					ID:        "c1",
					Title:     "Token basics",
					Snippet:   "...tokens move value...",
					Package:   "guides",
					Category:  "guide",
					Type:      "doc",
					SourceURL: "https://example.com/tokens.md",
					Rank:      40,
				},
			},
		}
		server := newTestServer(t, mockQuery, readyIndex())

		input := SearchInput{Query: "tokens", Limit: 10}
		_, output, err := server.handleSearch(ctx, nil, input)

		require.NoError(t, err)
		assert.Empty(t, output.Status)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Results, 1)
		assert.Equal(t, "c1", output.Results[0].ID)
		assert.Equal(t, "Token basics", output.Results[0].Title)
		assert.Equal(t, "doc", output.Results[0].Type)
		assert.Equal(t, 40, output.Results[0].Rank)
	})

	t.Run("reports building status instead of failing", func(t *testing.T) {
		indexer := &mockIndexService{state: domain.IndexState{Status: domain.StatusBuilding}}
		server := newTestServer(t, &mockQueryService{}, indexer)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "tokens"})

		require.NoError(t, err)
		assert.Contains(t, output.Status, "still building")
		assert.NotNil(t, output.Results)
		assert.Empty(t, output.Results)
	})

	t.Run("reports failed build with its cause", func(t *testing.T) {
		indexer := &mockIndexService{state: domain.IndexState{
			Status: domain.StatusError,
			Err:    "fetching source files: repository not found",
		}}
		server := newTestServer(t, &mockQueryService{}, indexer)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "tokens"})

		require.NoError(t, err)
		assert.Contains(t, output.Status, "Index build failed")
		assert.Contains(t, output.Status, "repository not found")
	})

	t.Run("maps index errors raced after the status check", func(t *testing.T) {
		mockQuery := &mockQueryService{err: domain.ErrIndexBuilding}
		server := newTestServer(t, mockQuery, readyIndex())

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "tokens"})

		require.NoError(t, err)
		assert.Contains(t, output.Status, "still building")
	})

	t.Run("returns error on query failure", func(t *testing.T) {
		mockQuery := &mockQueryService{err: errors.New("store corrupted")}
		server := newTestServer(t, mockQuery, readyIndex())

		_, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "tokens"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "store corrupted")
	})
}

func TestServer_handleGetClass(t *testing.T) {
	ctx := context.Background()

	t.Run("returns declaration with members", func(t *testing.T) {
		mockQuery := &mockQueryService{
			decl: &domain.Declaration{
				Name:       "TokenClient",
				Package:    "token-client",
				Kind:       domain.KindClass,
				Extends:    "Base",
				Implements: []string{"ISender"},
				Members: []domain.Member{
					{
						Name:      "send",
						Kind:      domain.MemberMethod,
						Signature: "send(to: string): Promise<void>",
						Async:     true,
						Params:    []domain.Param{{Name: "to", Type: "string"}},
						Returns:   &domain.Returns{Type: "Promise<void>"},
					},
				},
			},
		}
		server := newTestServer(t, mockQuery, readyIndex())

		_, output, err := server.handleGetClass(ctx, nil, GetClassInput{Name: "TokenClient"})

		require.NoError(t, err)
		assert.True(t, output.Found)
		require.NotNil(t, output.Class)
		assert.Equal(t, "TokenClient", output.Class.Name)
		assert.Equal(t, "class", output.Class.Kind)
		assert.Equal(t, []string{"ISender"}, output.Class.Implements)
		require.Len(t, output.Class.Members, 1)
		assert.Equal(t, "send", output.Class.Members[0].Name)
		assert.True(t, output.Class.Members[0].Async)
		require.NotNil(t, output.Class.Members[0].Returns)
	})

	t.Run("unknown name yields found false", func(t *testing.T) {
		mockQuery := &mockQueryService{err: domain.ErrNotFound}
		server := newTestServer(t, mockQuery, readyIndex())

		_, output, err := server.handleGetClass(ctx, nil, GetClassInput{Name: "Missing"})

		require.NoError(t, err)
		assert.False(t, output.Found)
		assert.Nil(t, output.Class)
	})

	t.Run("empty name yields found false", func(t *testing.T) {
		mockQuery := &mockQueryService{err: domain.ErrInvalidInput}
		server := newTestServer(t, mockQuery, readyIndex())

		_, output, err := server.handleGetClass(ctx, nil, GetClassInput{})

		require.NoError(t, err)
		assert.False(t, output.Found)
	})

	t.Run("reports building status", func(t *testing.T) {
		indexer := &mockIndexService{state: domain.IndexState{Status: domain.StatusBuilding}}
		server := newTestServer(t, &mockQueryService{}, indexer)

		_, output, err := server.handleGetClass(ctx, nil, GetClassInput{Name: "TokenClient"})

		require.NoError(t, err)
		assert.Contains(t, output.Status, "still building")
		assert.False(t, output.Found)
	})

	t.Run("members serialize with empty params slice", func(t *testing.T) {
		mockQuery := &mockQueryService{
			decl: &domain.Declaration{
				Name:    "Wallet",
				Package: "wallet",
				Kind:    domain.KindClass,
				Members: []domain.Member{{Name: "balance", Kind: domain.MemberProperty}},
			},
		}
		server := newTestServer(t, mockQuery, readyIndex())

		_, output, err := server.handleGetClass(ctx, nil, GetClassInput{Name: "Wallet"})

		require.NoError(t, err)
		require.Len(t, output.Class.Members, 1)
		assert.NotNil(t, output.Class.Members[0].Params)
		assert.Empty(t, output.Class.Members[0].Params)
	})
}

func TestServer_handleGetMethod(t *testing.T) {
	ctx := context.Background()

	t.Run("returns member matches", func(t *testing.T) {
		mockQuery := &mockQueryService{
			matches: []domain.MemberMatch{
				{
					DeclarationName: "TokenClient",
					Package:         "token-client",
					SourceURL:       "https://example.com/TokenClient.md",
					Member: domain.Member{
						Name:      "send",
						Kind:      domain.MemberMethod,
						Signature: "send(to: string): Promise<void>",
					},
				},
				{
					DeclarationName: "Wallet",
					Package:         "wallet",
					Member:          domain.Member{Name: "send", Kind: domain.MemberMethod},
				},
			},
		}
		server := newTestServer(t, mockQuery, readyIndex())

		_, output, err := server.handleGetMethod(ctx, nil, GetMethodInput{Name: "send"})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		require.Len(t, output.Matches, 2)
		assert.Equal(t, "TokenClient", output.Matches[0].Class)
		assert.Equal(t, "send", output.Matches[0].Member.Name)
		assert.Equal(t, "Wallet", output.Matches[1].Class)
	})

	t.Run("no matches is a valid empty result", func(t *testing.T) {
		server := newTestServer(t, &mockQueryService{}, readyIndex())

		_, output, err := server.handleGetMethod(ctx, nil, GetMethodInput{Name: "missing"})

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.NotNil(t, output.Matches)
	})

	t.Run("empty name yields empty matches", func(t *testing.T) {
		mockQuery := &mockQueryService{err: domain.ErrInvalidInput}
		server := newTestServer(t, mockQuery, readyIndex())

		_, output, err := server.handleGetMethod(ctx, nil, GetMethodInput{})

		require.NoError(t, err)
		assert.Empty(t, output.Matches)
		assert.Empty(t, output.Status)
	})

	t.Run("reports building status", func(t *testing.T) {
		indexer := &mockIndexService{state: domain.IndexState{Status: domain.StatusBuilding}}
		server := newTestServer(t, &mockQueryService{}, indexer)

		_, output, err := server.handleGetMethod(ctx, nil, GetMethodInput{Name: "send"})

		require.NoError(t, err)
		assert.Contains(t, output.Status, "still building")
	})
}

func TestServer_handleListModules(t *testing.T) {
	ctx := context.Background()

	t.Run("returns declaration summaries", func(t *testing.T) {
		mockQuery := &mockQueryService{
			decls: []domain.Declaration{
				{Name: "IStorage", Package: "storage", Kind: domain.KindInterface, Description: "Persists things."},
				{Name: "Wallet", Package: "wallet", Kind: domain.KindClass},
			},
		}
		server := newTestServer(t, mockQuery, readyIndex())

		_, output, err := server.handleListModules(ctx, nil, ListModulesInput{})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		require.Len(t, output.Declarations, 2)
		assert.Equal(t, "IStorage", output.Declarations[0].Name)
		assert.Equal(t, "interface", output.Declarations[0].Kind)
		assert.Equal(t, "Persists things.", output.Declarations[0].Description)
	})

	t.Run("reports building status", func(t *testing.T) {
		indexer := &mockIndexService{state: domain.IndexState{Status: domain.StatusBuilding}}
		server := newTestServer(t, &mockQueryService{}, indexer)

		_, output, err := server.handleListModules(ctx, nil, ListModulesInput{})

		require.NoError(t, err)
		assert.Contains(t, output.Status, "still building")
		assert.NotNil(t, output.Declarations)
	})

	t.Run("returns error on query failure", func(t *testing.T) {
		mockQuery := &mockQueryService{err: errors.New("store corrupted")}
		server := newTestServer(t, mockQuery, readyIndex())

		_, _, err := server.handleListModules(ctx, nil, ListModulesInput{})

		require.Error(t, err)
	})
}

func TestNewServer_validatesPorts(t *testing.T) {
	_, err := NewServer(&Ports{Query: &mockQueryService{}})
	assert.ErrorIs(t, err, ErrMissingIndexService)

	_, err = NewServer(&Ports{Indexer: readyIndex()})
	assert.ErrorIs(t, err, ErrMissingQueryService)
}
