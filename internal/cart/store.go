// Package cart owns the persistent shopping cart: an ordered line
// collection persisted as a whole on every mutation.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/squareeyes/storefront/internal/catalog"
	"github.com/squareeyes/storefront/pkg/kv"
	"github.com/squareeyes/storefront/pkg/logger"
	"github.com/squareeyes/storefront/pkg/metrics"
)

const cartKeyPrefix = "cart_v1:"

// StoreParams groups dependencies for the cart store.
type StoreParams struct {
	Backend kv.Store
	Logger  *logger.Logger
	Metrics *metrics.StorefrontMetrics
}

// Store is the single source of truth for what is being bought. Storage
// trouble never reaches the caller: reads degrade to an empty cart and
// failed writes are dropped, since a lost cart is recoverable and must
// not block browsing.
type Store struct {
	mu      sync.Mutex
	backend kv.Store
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics
}

// NewStore builds a cart store on the injected persistence backend.
func NewStore(params StoreParams) (*Store, error) {
	if params.Backend == nil {
		return nil, fmt.Errorf("kv backend required")
	}
	return &Store{
		backend: params.Backend,
		logg:    params.Logger,
		metrics: params.Metrics,
	}, nil
}

// ReadAll returns the current cart snapshot. Absent, corrupted, or
// unreadable storage yields an empty cart.
func (s *Store) ReadAll(ctx context.Context, sessionID string) []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(ctx, sessionID)
}

// Add increments the quantity of an existing line or appends a new one
// with quantity 1, then returns the total quantity across all lines.
func (s *Store) Add(ctx context.Context, sessionID string, item catalog.Item) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.read(ctx, sessionID)
	found := false
	for i := range lines {
		if lines[i].ID == item.ID {
			lines[i].Qty = effectiveQty(lines[i].Qty) + 1
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, NewLine(item))
	}

	s.write(ctx, sessionID, lines)
	s.metrics.IncCartOp("add")
	return countOf(lines)
}

// UpdateQty adjusts a line's quantity by delta (+1 or -1). Quantity
// floors at 1; decrementing at 1 is a no-op, never a removal. Unknown
// ids are ignored.
func (s *Store) UpdateQty(ctx context.Context, sessionID, id string, delta int) {
	if delta != 1 && delta != -1 {
		if s.logg != nil {
			s.logg.Warn(ctx, fmt.Sprintf("cart qty delta %d ignored", delta))
		}
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.read(ctx, sessionID)
	for i := range lines {
		if lines[i].ID != id {
			continue
		}
		next := effectiveQty(lines[i].Qty) + delta
		if next < 1 {
			next = 1
		}
		lines[i].Qty = next
		s.write(ctx, sessionID, lines)
		s.metrics.IncCartOp("update_qty")
		return
	}
}

// Remove deletes the matching line if present and returns the new total
// quantity.
func (s *Store) Remove(ctx context.Context, sessionID, id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.read(ctx, sessionID)
	kept := lines[:0]
	for _, line := range lines {
		if line.ID != id {
			kept = append(kept, line)
		}
	}

	s.write(ctx, sessionID, kept)
	s.metrics.IncCartOp("remove")
	return countOf(kept)
}

// Clear replaces the cart with an empty sequence.
func (s *Store) Clear(ctx context.Context, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.write(ctx, sessionID, []Line{})
	s.metrics.IncCartOp("clear")
}

// Total sums unit price times quantity over all lines.
func (s *Store) Total(ctx context.Context, sessionID string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalOf(s.read(ctx, sessionID))
}

// Count sums the quantities over all lines.
func (s *Store) Count(ctx context.Context, sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return countOf(s.read(ctx, sessionID))
}

func (s *Store) read(ctx context.Context, sessionID string) []Line {
	data, err := s.backend.Get(ctx, cartKey(sessionID))
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) && s.logg != nil {
			s.logg.Warn(ctx, "cart storage unavailable, serving empty cart")
		}
		return nil
	}

	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "cart record corrupted, serving empty cart")
		}
		return nil
	}
	return lines
}

func (s *Store) write(ctx context.Context, sessionID string, lines []Line) {
	data, err := json.Marshal(lines)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "cart encode failed, write dropped", err)
		}
		return
	}
	if err := s.backend.Set(ctx, cartKey(sessionID), data); err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "cart storage unavailable, write dropped")
		}
	}
}

func countOf(lines []Line) int {
	total := 0
	for _, line := range lines {
		total += effectiveQty(line.Qty)
	}
	return total
}

func totalOf(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.LineTotal())
	}
	return total
}

func cartKey(sessionID string) string {
	return cartKeyPrefix + sessionID
}
