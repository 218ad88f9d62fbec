package catalog

import (
	"context"
	"fmt"
)

const cacheKeyAll = "catalog"

type lister interface {
	List(ctx context.Context) ([]Item, error)
	Get(ctx context.Context, id string) (Item, error)
}

// Service exposes catalog reads with session-bounded caching.
type Service interface {
	All(ctx context.Context) ([]Item, error)
	Browse(ctx context.Context, filters ListFilters) ([]Item, error)
	GetItem(ctx context.Context, id string) (Item, error)
	InvalidateCache()
}

type service struct {
	client lister
	cache  *Cache
}

// NewService builds a catalog service backed by the provided client.
func NewService(client lister, cache *Cache) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("catalog client required")
	}
	if cache == nil {
		return nil, fmt.Errorf("catalog cache required")
	}
	return &service{client: client, cache: cache}, nil
}

// All returns the full catalog, served from cache when possible.
func (s *service) All(ctx context.Context) ([]Item, error) {
	if items, ok := s.cache.Get(cacheKeyAll); ok {
		return items, nil
	}
	items, err := s.client.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Put(cacheKeyAll, items)
	return items, nil
}

// Browse returns the catalog filtered and sorted.
func (s *service) Browse(ctx context.Context, filters ListFilters) ([]Item, error) {
	items, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return ApplyFilters(items, filters), nil
}

// GetItem resolves one item, preferring the cached catalog before
// hitting the upstream detail endpoint.
func (s *service) GetItem(ctx context.Context, id string) (Item, error) {
	if items, ok := s.cache.Get(cacheKeyAll); ok {
		for _, item := range items {
			if item.ID == id {
				return item, nil
			}
		}
	}
	return s.client.Get(ctx, id)
}

// InvalidateCache drops cached catalog documents.
func (s *service) InvalidateCache() {
	s.cache.Invalidate()
}
