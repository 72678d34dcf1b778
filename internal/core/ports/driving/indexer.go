package driving

import (
	"context"

	"github.com/custodia-labs/docdex/internal/core/domain"
)

// IndexService drives full index rebuilds and exposes the observable
// store state. There is no incremental update path: every build recreates
// the whole store from source files.
type IndexService interface {
	// Build runs one full rebuild synchronously: fetch the file set,
	// parse every file, persist entities into a fresh store, rebuild
	// the search structures and swap the new store in. The previous
	// store (if any) keeps serving reads until the swap.
	//
	// Returns domain.ErrBuildInProgress if a build is already running.
	Build(ctx context.Context) (*domain.IndexStats, error)

	// BuildAsync starts Build in the background and returns immediately.
	BuildAsync(ctx context.Context)

	// State returns a snapshot of the current store status for readers.
	State() domain.IndexState
}
