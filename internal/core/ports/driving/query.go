package driving

import (
	"context"

	"github.com/custodia-labs/docdex/internal/core/domain"
)

// QueryService answers the four retrieval operations over the indexed
// documentation. All operations are pure reads and safe to call
// concurrently with each other and with an in-progress rebuild.
//
// While no store is ready, every operation returns
// domain.ErrIndexBuilding or domain.ErrIndexFailed instead of results.
type QueryService interface {
	// Search finds doc chunks, declarations and members matching every
	// whitespace-separated query term. An empty query yields an empty
	// result, not an error.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)

	// GetDeclaration looks up one declaration by exact name, with all
	// its members. Returns domain.ErrNotFound when nothing matches.
	GetDeclaration(ctx context.Context, name, pkg string) (*domain.Declaration, error)

	// GetMember looks up members by bare name or Type.member qualified
	// name. Zero matches is a valid (empty) result.
	GetMember(ctx context.Context, name, pkg string) ([]domain.MemberMatch, error)

	// ListDeclarations returns all declarations matching the package
	// and kind filters, ordered by package, kind, name.
	ListDeclarations(ctx context.Context, pkg, kind string) ([]domain.Declaration, error)
}
