// Package memory provides in-memory implementations of the storage
// ports, used in tests and as a reference for the SQLite adapter's
// semantics.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/docdex/internal/core/domain"
	"github.com/custodia-labs/docdex/internal/core/ports/driven"
)

// Ensure the interfaces are implemented.
var (
	_ driven.IndexStore   = (*IndexStore)(nil)
	_ driven.StoreFactory = (*Factory)(nil)
)

// Factory creates in-memory index stores.
type Factory struct{}

// NewFactory creates a new in-memory store factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns a fresh empty store.
func (f *Factory) Create() (driven.IndexStore, error) {
	return NewIndexStore(), nil
}

// IndexStore is an in-memory implementation of driven.IndexStore.
type IndexStore struct {
	mu           sync.RWMutex
	chunks       []domain.DocChunk
	declarations []domain.Declaration
}

// NewIndexStore creates a new in-memory index store.
func NewIndexStore() *IndexStore {
	return &IndexStore{}
}

// SaveChunk stores one doc chunk.
func (s *IndexStore) SaveChunk(_ context.Context, chunk *domain.DocChunk) error {
	if chunk.ID == "" || chunk.Title == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, *chunk)
	return nil
}

// SaveDeclaration stores a declaration with its members.
func (s *IndexStore) SaveDeclaration(_ context.Context, decl *domain.Declaration) error {
	if decl.ID == "" || decl.Name == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *decl
	copied.Members = append([]domain.Member(nil), decl.Members...)
	s.declarations = append(s.declarations, copied)
	return nil
}

// RebuildSearchIndex is a no-op: searches scan the stored entities.
func (s *IndexStore) RebuildSearchIndex(_ context.Context) error {
	return nil
}

// SearchChunks returns chunks whose text contains every term.
func (s *IndexStore) SearchChunks(_ context.Context, terms []string, pkg string) ([]domain.DocChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.DocChunk
	for _, c := range s.chunks {
		if !packageMatches(c.Package, pkg) {
			continue
		}
		if containsAll(c.Title+" "+c.Content, terms) {
			result = append(result, c)
		}
	}
	return result, nil
}

// SearchDeclarations returns declarations whose name or description
// contains every term. Members are not populated.
func (s *IndexStore) SearchDeclarations(_ context.Context, terms []string, pkg string) ([]domain.Declaration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Declaration
	for _, d := range s.declarations {
		if !packageMatches(d.Package, pkg) {
			continue
		}
		if containsAll(d.Name+" "+d.Description, terms) {
			copied := d
			copied.Members = nil
			result = append(result, copied)
		}
	}
	return result, nil
}

// SearchMembers returns members whose name, signature or description
// contains every term.
func (s *IndexStore) SearchMembers(_ context.Context, terms []string, pkg string) ([]domain.MemberMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.MemberMatch
	for _, d := range s.declarations {
		if !packageMatches(d.Package, pkg) {
			continue
		}
		for _, m := range d.Members {
			if containsAll(m.Name+" "+m.Signature+" "+m.Description, terms) {
				result = append(result, domain.MemberMatch{
					Member:          m,
					DeclarationName: d.Name,
					Package:         d.Package,
					SourceURL:       d.SourceURL,
				})
			}
		}
	}
	return result, nil
}

// GetDeclaration retrieves a declaration by exact name.
func (s *IndexStore) GetDeclaration(_ context.Context, name, pkg string) (*domain.Declaration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var candidates []domain.Declaration
	for _, d := range s.declarations {
		if d.Name == name && packageMatches(d.Package, pkg) {
			candidates = append(candidates, d)
		}
	}
	if len(candidates) == 0 {
		return nil, domain.ErrNotFound
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Package != candidates[j].Package {
			return candidates[i].Package < candidates[j].Package
		}
		return candidates[i].Name < candidates[j].Name
	})
	decl := candidates[0]
	decl.Members = append([]domain.Member(nil), decl.Members...)
	return &decl, nil
}

// FindMembers returns members matching memberName, optionally scoped to
// a declaration name and package.
func (s *IndexStore) FindMembers(_ context.Context, declName, memberName, pkg string) ([]domain.MemberMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.MemberMatch
	for _, d := range s.declarations {
		if declName != "" && d.Name != declName {
			continue
		}
		if !packageMatches(d.Package, pkg) {
			continue
		}
		for _, m := range d.Members {
			if m.Name == memberName {
				result = append(result, domain.MemberMatch{
					Member:          m,
					DeclarationName: d.Name,
					Package:         d.Package,
					SourceURL:       d.SourceURL,
				})
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Package != result[j].Package {
			return result[i].Package < result[j].Package
		}
		return result[i].DeclarationName < result[j].DeclarationName
	})
	return result, nil
}

// ListDeclarations returns declarations matching the filters, ordered
// by package, kind, then name. Members are not populated.
func (s *IndexStore) ListDeclarations(_ context.Context, pkg, kind string) ([]domain.Declaration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Declaration
	for _, d := range s.declarations {
		if !packageMatches(d.Package, pkg) {
			continue
		}
		if kind != "" && kind != domain.FilterAll && string(d.Kind) != kind {
			continue
		}
		copied := d
		copied.Members = nil
		result = append(result, copied)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Package != result[j].Package {
			return result[i].Package < result[j].Package
		}
		if result[i].Kind != result[j].Kind {
			return result[i].Kind < result[j].Kind
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// Close is a no-op.
func (s *IndexStore) Close() error {
	return nil
}

// Destroy discards the stored data.
func (s *IndexStore) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = nil
	s.declarations = nil
	return nil
}

func packageMatches(have, want string) bool {
	return want == "" || want == domain.FilterAll || have == want
}

func containsAll(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, term := range terms {
		if !strings.Contains(lower, term) {
			return false
		}
	}
	return true
}
