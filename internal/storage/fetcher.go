package storage

import (
	"context"

	"go.uber.org/zap"

	"github.com/matsen/citefill/internal/reference"
)

// Fetcher retrieves metadata for an arXiv ID.
type Fetcher interface {
	GetEntry(ctx context.Context, id string) (*reference.Reference, error)
}

// CachingFetcher serves entries from a Cache and falls back to another
// Fetcher on a miss. Only successful fetches are stored.
type CachingFetcher struct {
	cache *Cache
	next  Fetcher
}

// NewCachingFetcher wraps next with cache.
func NewCachingFetcher(cache *Cache, next Fetcher) *CachingFetcher {
	return &CachingFetcher{cache: cache, next: next}
}

// GetEntry returns the cached entry for id, fetching and caching it if needed.
// A cache that cannot be read or written is bypassed with a warning.
func (f *CachingFetcher) GetEntry(ctx context.Context, id string) (*reference.Reference, error) {
	cached, err := f.cache.Get(id)
	if err != nil {
		zap.L().Warn("reading metadata cache", zap.String("arxiv_id", id), zap.Error(err))
	} else if cached != nil {
		zap.L().Debug("metadata cache hit", zap.String("arxiv_id", id))
		return cached, nil
	}

	ref, err := f.next.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := f.cache.Put(*ref); err != nil {
		zap.L().Warn("writing metadata cache", zap.String("arxiv_id", id), zap.Error(err))
	}
	return ref, nil
}
