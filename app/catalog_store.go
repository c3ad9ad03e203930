package app

import (
	"context"
	"sync"

	"coursedash/internal"
	"coursedash/internal/errors"

	"golang.org/x/sync/singleflight"
)

const loadKey = "catalog"

// CatalogStore owns the current catalog. The first Get loads it; later
// calls return the cached result until Invalidate or a Refresh that sees
// changed files. Concurrent loads collapse into one.
type CatalogStore struct {
	loader *CatalogLoader
	logger *internal.Logger

	mu         sync.RWMutex
	current    *LoadResult
	generation uint64

	group singleflight.Group
}

// NewCatalogStore creates an empty store backed by loader
func NewCatalogStore(loader *CatalogLoader, logger *internal.Logger) *CatalogStore {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &CatalogStore{
		loader: loader,
		logger: logger.Named("CatalogStore"),
	}
}

// Get returns the cached load result, loading it on first use. Failed
// loads are not cached; a no_data result is.
func (s *CatalogStore) Get(ctx context.Context) (*LoadResult, error) {
	if cur := s.Current(); cur != nil {
		return cur, nil
	}
	return s.reload(ctx, func(ctx context.Context) (*LoadResult, error) {
		// Another caller may have published while this one waited.
		if cur := s.Current(); cur != nil {
			return cur, nil
		}
		return s.loader.Load(ctx)
	})
}

// Current returns the cached result without loading, or nil.
func (s *CatalogStore) Current() *LoadResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Invalidate drops the cached result so the next Get reloads.
func (s *CatalogStore) Invalidate() {
	s.mu.Lock()
	s.current = nil
	s.generation++
	s.mu.Unlock()
	s.logger.Debug("catalog invalidated")
}

// Refresh reloads the catalog only when the qualifying file set changed
// since the cached load. It reports whether a reload happened.
func (s *CatalogStore) Refresh(ctx context.Context) (bool, error) {
	files, err := s.loader.Source().List(ctx)
	if err != nil {
		return false, errors.Wrap(err, "failed to enumerate semester files")
	}

	if cur := s.Current(); cur != nil && cur.Fingerprint == s.loader.Fingerprint(files) {
		s.logger.Debug("catalog unchanged (fingerprint %.12s)", cur.Fingerprint)
		return false, nil
	}

	s.logger.Info("semester files changed, reloading catalog")
	if _, err := s.reload(ctx, func(ctx context.Context) (*LoadResult, error) {
		return s.loader.LoadFiles(ctx, files)
	}); err != nil {
		return false, err
	}
	return true, nil
}

// reload runs load once for all concurrent callers. The shared load runs
// detached from any single caller's cancellation; each caller stops waiting
// when its own context ends.
func (s *CatalogStore) reload(ctx context.Context, load func(context.Context) (*LoadResult, error)) (*LoadResult, error) {
	loadCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(loadKey, func() (interface{}, error) {
		s.mu.RLock()
		gen := s.generation
		s.mu.RUnlock()

		result, err := load(loadCtx)
		if err != nil {
			s.logger.Error("catalog load failed: %v", err)
			return nil, err
		}

		s.mu.Lock()
		// An Invalidate during the load means this result may predate it.
		if s.generation == gen {
			s.current = result
		}
		s.mu.Unlock()
		return result, nil
	})

	select {
	case <-ctx.Done():
		s.logger.Debug("caller stopped waiting for catalog load: %v", ctx.Err())
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug("joined in-flight catalog load")
		}
		return res.Val.(*LoadResult), nil
	}
}
