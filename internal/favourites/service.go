// Package favourites keeps the per-session set of favourited items.
package favourites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/squareeyes/storefront/pkg/kv"
	"github.com/squareeyes/storefront/pkg/logger"
)

const favouritesKeyPrefix = "favourites:"

// ServiceParams groups dependencies for the favourites service.
type ServiceParams struct {
	Backend kv.Store
	Logger  *logger.Logger
}

// Service is a toggle-set of item ids persisted as one JSON document
// per session. Like the cart, storage trouble degrades to an empty set
// rather than an error.
type Service struct {
	mu      sync.Mutex
	backend kv.Store
	logg    *logger.Logger
}

// NewService builds a favourites service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Backend == nil {
		return nil, fmt.Errorf("kv backend required")
	}
	return &Service{
		backend: params.Backend,
		logg:    params.Logger,
	}, nil
}

// List returns the favourited item ids in the order they were added.
func (s *Service) List(ctx context.Context, sessionID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(ctx, sessionID)
}

// IsFavourite reports whether the item is in the session's set.
func (s *Service) IsFavourite(ctx context.Context, sessionID, itemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.read(ctx, sessionID) {
		if id == itemID {
			return true
		}
	}
	return false
}

// Toggle flips the item's membership and returns the new state: true
// when the item is now a favourite.
func (s *Service) Toggle(ctx context.Context, sessionID, itemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.read(ctx, sessionID)
	for i, id := range ids {
		if id == itemID {
			s.write(ctx, sessionID, append(ids[:i:i], ids[i+1:]...))
			return false
		}
	}
	s.write(ctx, sessionID, append(ids, itemID))
	return true
}

func (s *Service) read(ctx context.Context, sessionID string) []string {
	data, err := s.backend.Get(ctx, favouritesKey(sessionID))
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) && s.logg != nil {
			s.logg.Warn(ctx, "favourites storage unavailable, serving empty set")
		}
		return nil
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "favourites record corrupted, serving empty set")
		}
		return nil
	}
	return ids
}

func (s *Service) write(ctx context.Context, sessionID string, ids []string) {
	data, err := json.Marshal(ids)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "favourites encode failed, write dropped", err)
		}
		return
	}
	if err := s.backend.Set(ctx, favouritesKey(sessionID), data); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "favourites storage unavailable, write dropped")
	}
}

func favouritesKey(sessionID string) string {
	return favouritesKeyPrefix + sessionID
}
