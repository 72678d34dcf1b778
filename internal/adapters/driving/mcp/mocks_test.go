package mcp

import (
	"context"

	"github.com/custodia-labs/docdex/internal/core/domain"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	results []domain.SearchResult
	decl    *domain.Declaration
	matches []domain.MemberMatch
	decls   []domain.Declaration
	err     error
}

func (m *mockQueryService) Search(
	_ context.Context,
	_ string,
	_ domain.SearchOptions,
) ([]domain.SearchResult, error) {
	return m.results, m.err
}

func (m *mockQueryService) GetDeclaration(_ context.Context, _, _ string) (*domain.Declaration, error) {
	return m.decl, m.err
}

func (m *mockQueryService) GetMember(_ context.Context, _, _ string) ([]domain.MemberMatch, error) {
	return m.matches, m.err
}

func (m *mockQueryService) ListDeclarations(_ context.Context, _, _ string) ([]domain.Declaration, error) {
	return m.decls, m.err
}

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	state    domain.IndexState
	stats    *domain.IndexStats
	buildErr error
}

func (m *mockIndexService) Build(_ context.Context) (*domain.IndexStats, error) {
	return m.stats, m.buildErr
}

func (m *mockIndexService) BuildAsync(_ context.Context) {}

func (m *mockIndexService) State() domain.IndexState {
	return m.state
}

func readyIndex() *mockIndexService {
	return &mockIndexService{state: domain.IndexState{Status: domain.StatusReady}}
}
