package driven

import (
	"context"

	"github.com/custodia-labs/docdex/internal/core/domain"
)

// IndexStore persists parsed documentation entities and answers the read
// side of the four query operations. Backed by SQLite.
//
// Writes only happen during an index build, into a store created fresh
// for that build; readers never observe a partially written store.
type IndexStore interface {
	// SaveChunk stores one doc chunk.
	SaveChunk(ctx context.Context, chunk *domain.DocChunk) error

	// SaveDeclaration stores one declaration together with its members.
	SaveDeclaration(ctx context.Context, decl *domain.Declaration) error

	// RebuildSearchIndex recreates the text-search acceleration
	// structures from the persisted rows. Called once after all files
	// have been processed.
	RebuildSearchIndex(ctx context.Context) error

	// SearchChunks returns chunks whose search text contains every term
	// as a substring, optionally filtered to one package.
	SearchChunks(ctx context.Context, terms []string, pkg string) ([]domain.DocChunk, error)

	// SearchDeclarations returns declarations (without members) whose
	// search text contains every term as a substring.
	SearchDeclarations(ctx context.Context, terms []string, pkg string) ([]domain.Declaration, error)

	// SearchMembers returns members whose search text contains every
	// term as a substring, paired with their owning declaration.
	SearchMembers(ctx context.Context, terms []string, pkg string) ([]domain.MemberMatch, error)

	// GetDeclaration retrieves a declaration by exact name, with all its
	// members. Returns domain.ErrNotFound when no row matches.
	GetDeclaration(ctx context.Context, name, pkg string) (*domain.Declaration, error)

	// FindMembers returns members matching memberName. When declName is
	// non-empty the owning declaration's name must match too.
	FindMembers(ctx context.Context, declName, memberName, pkg string) ([]domain.MemberMatch, error)

	// ListDeclarations returns declarations matching the package and
	// kind filters (domain.FilterAll disables either), ordered by
	// package, then kind, then name. Members are not loaded.
	ListDeclarations(ctx context.Context, pkg, kind string) ([]domain.Declaration, error)

	// Close releases the store's resources.
	Close() error

	// Destroy closes the store and removes its backing files.
	// Used to discard a superseded or failed build.
	Destroy() error
}

// StoreFactory creates a fresh, empty IndexStore for a full rebuild.
// Each build writes into its own store; the previous store keeps serving
// reads until the new one is swapped in.
type StoreFactory interface {
	// Create opens a new empty store with the schema applied.
	Create() (IndexStore, error)
}
