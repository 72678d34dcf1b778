package driven

import (
	"context"

	"github.com/custodia-labs/docdex/internal/core/domain"
)

// SourceFetcher obtains the documentation file set from the external
// repository. A fetch failure is fatal to the build that requested it;
// the fetcher is not retried internally.
type SourceFetcher interface {
	// Fetch returns every documentation file in the configured source.
	// Paths are relative to the docs root.
	Fetch(ctx context.Context) ([]domain.SourceFile, error)
}
