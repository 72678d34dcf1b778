package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/docdex/internal/core/domain"
	"github.com/custodia-labs/docdex/internal/core/ports/driven"
	"github.com/custodia-labs/docdex/internal/core/ports/driving"
	"github.com/custodia-labs/docdex/internal/logger"
	"github.com/custodia-labs/docdex/internal/parsers/guide"
	"github.com/custodia-labs/docdex/internal/parsers/reference"
)

// Ensure the interfaces are implemented.
var (
	_ driving.IndexService = (*Indexer)(nil)
	_ StoreProvider        = (*Indexer)(nil)
)

// Indexer runs full index rebuilds and owns the currently serving store.
// Each build writes into a fresh store from the factory and swaps it in
// atomically; the previous store keeps serving reads already in flight
// and is destroyed once the last of them releases it.
type Indexer struct {
	fetcher driven.SourceFetcher
	factory driven.StoreFactory

	mu       sync.RWMutex
	lease    *storeLease
	status   domain.IndexStatus
	errMsg   string
	stats    domain.IndexStats
	building bool
}

// storeLease counts in-flight readers of one store. A retired lease
// destroys its store as soon as the reader count drops to zero; with no
// readers out, retiring destroys it immediately.
type storeLease struct {
	store driven.IndexStore

	mu      sync.Mutex
	readers int
	retired bool
}

func (l *storeLease) acquire() (driven.IndexStore, func()) {
	l.mu.Lock()
	l.readers++
	l.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			l.mu.Lock()
			l.readers--
			destroy := l.retired && l.readers == 0
			l.mu.Unlock()
			if destroy {
				l.destroy()
			}
		})
	}
	return l.store, release
}

func (l *storeLease) retire() {
	l.mu.Lock()
	l.retired = true
	destroy := l.readers == 0
	l.mu.Unlock()
	if destroy {
		l.destroy()
	}
}

func (l *storeLease) destroy() {
	if err := l.store.Destroy(); err != nil {
		logger.Warn("Discarding superseded store: %v", err)
	}
}

// NewIndexer creates an indexer with no store open yet.
func NewIndexer(fetcher driven.SourceFetcher, factory driven.StoreFactory) *Indexer {
	return &Indexer{
		fetcher: fetcher,
		factory: factory,
		status:  domain.StatusBuilding,
	}
}

// Build runs one full rebuild synchronously.
func (s *Indexer) Build(ctx context.Context) (*domain.IndexStats, error) {
	s.mu.Lock()
	if s.building {
		s.mu.Unlock()
		return nil, domain.ErrBuildInProgress
	}
	s.building = true
	if s.lease == nil {
		s.status = domain.StatusBuilding
	}
	s.mu.Unlock()

	stats, err := s.build(ctx)
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}
	return stats, nil
}

// BuildAsync starts a rebuild in the background. A concurrent build in
// progress makes it a no-op.
func (s *Indexer) BuildAsync(ctx context.Context) {
	go func() {
		if _, err := s.Build(ctx); err != nil {
			logger.Warn("Index build failed: %v", err)
		}
	}()
}

// State returns a snapshot of the current store status.
func (s *Indexer) State() domain.IndexState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.IndexState{
		Status: s.status,
		Err:    s.errMsg,
		Stats:  s.stats,
	}
}

// Acquire hands out the currently serving store for the query side. The
// release func must be called once the read is done; a store superseded
// by a rebuild stays alive until its last reader releases it.
func (s *Indexer) Acquire() (driven.IndexStore, func(), error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lease != nil {
		store, release := s.lease.acquire()
		return store, release, nil
	}
	if s.status == domain.StatusError {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrIndexFailed, s.errMsg)
	}
	return nil, nil, domain.ErrIndexBuilding
}

// Close retires the current store, if any. In-flight readers finish
// before the store is destroyed.
func (s *Indexer) Close() error {
	s.mu.Lock()
	old := s.lease
	s.lease = nil
	s.status = domain.StatusBuilding
	s.mu.Unlock()

	if old != nil {
		old.retire()
	}
	return nil
}

func (s *Indexer) build(ctx context.Context) (*domain.IndexStats, error) {
	logger.Info("Fetching documentation sources")
	files, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	logger.Info("Fetched %d files", len(files))

	store, err := s.factory.Create()
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}

	stats, err := s.populate(ctx, store, files)
	if err != nil {
		if derr := store.Destroy(); derr != nil {
			logger.Warn("Discarding failed store: %v", derr)
		}
		return nil, err
	}

	s.swap(store, *stats)
	logger.Info("Index ready: %d chunks, %d declarations, %d members",
		stats.DocCount, stats.ClassCount, stats.MemberCount)
	return stats, nil
}

// populate parses every file into the new store. A file that fails to
// persist is skipped; counts reflect only successful files.
func (s *Indexer) populate(ctx context.Context, store driven.IndexStore, files []domain.SourceFile) (*domain.IndexStats, error) {
	var stats domain.IndexStats

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("build cancelled: %w", err)
		}

		markdown := string(file.Content)
		chunks := guide.Parse(markdown, file.Path, file.SourceURL)
		saved := 0
		for i := range chunks {
			if err := store.SaveChunk(ctx, &chunks[i]); err != nil {
				logger.Warn("Skipping chunk %q from %s: %v", chunks[i].Title, file.Path, err)
				continue
			}
			saved++
		}
		stats.DocCount += saved

		if !domain.IsReferencePath(file.Path) {
			continue
		}
		decls := reference.Parse(markdown, file.Path, file.SourceURL)
		for i := range decls {
			if err := store.SaveDeclaration(ctx, &decls[i]); err != nil {
				logger.Warn("Skipping declaration %q from %s: %v", decls[i].Name, file.Path, err)
				continue
			}
			stats.ClassCount++
			stats.MemberCount += len(decls[i].Members)
		}
	}

	if err := store.RebuildSearchIndex(ctx); err != nil {
		return nil, fmt.Errorf("rebuilding search index: %w", err)
	}
	return &stats, nil
}

// swap installs the new store and retires the previous one. Readers
// that acquired the old store before the swap keep it until they
// release; the old store is destroyed on the last release.
func (s *Indexer) swap(store driven.IndexStore, stats domain.IndexStats) {
	s.mu.Lock()
	old := s.lease
	s.lease = &storeLease{store: store}
	s.status = domain.StatusReady
	s.errMsg = ""
	s.stats = stats
	s.building = false
	s.mu.Unlock()

	if old != nil {
		old.retire()
	}
}

// recordFailure updates the state after a failed build. A previous store
// keeps serving; without one the index reports the error.
func (s *Indexer) recordFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.building = false
	if s.lease != nil {
		// Previous index still serves reads.
		return
	}
	s.status = domain.StatusError
	s.errMsg = err.Error()
}
