package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/squareeyes/storefront/pkg/kv"
	"github.com/squareeyes/storefront/pkg/logger"
)

const orderKeyPrefix = "last_order:"

// HandoffParams groups dependencies for the order handoff.
type HandoffParams struct {
	Backend kv.Store
	Logger  *logger.Logger
}

// Handoff carries a completed order from submission to the
// confirmation read. Each order can be taken exactly once.
type Handoff struct {
	backend kv.Store
	logg    *logger.Logger
}

// NewHandoff builds a handoff on the injected persistence backend.
func NewHandoff(params HandoffParams) (*Handoff, error) {
	if params.Backend == nil {
		return nil, fmt.Errorf("kv backend required")
	}
	return &Handoff{
		backend: params.Backend,
		logg:    params.Logger,
	}, nil
}

// Put stores the session's pending order, replacing any unread one.
func (h *Handoff) Put(ctx context.Context, sessionID string, order Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}
	if err := h.backend.Set(ctx, orderKey(sessionID), data); err != nil {
		return fmt.Errorf("store order: %w", err)
	}
	return nil
}

// Take returns the session's pending order and clears it. The second
// return is false when no order is waiting or the record is unusable.
func (h *Handoff) Take(ctx context.Context, sessionID string) (*Order, bool) {
	data, err := h.backend.Get(ctx, orderKey(sessionID))
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) && h.logg != nil {
			h.logg.Warn(ctx, "order storage unavailable")
		}
		return nil, false
	}

	// Clear before decoding so a corrupt record cannot be served twice.
	if err := h.backend.Delete(ctx, orderKey(sessionID)); err != nil && h.logg != nil {
		h.logg.Warn(ctx, "order record could not be cleared")
	}

	var order Order
	if err := json.Unmarshal(data, &order); err != nil {
		if h.logg != nil {
			h.logg.Warn(ctx, "order record corrupted")
		}
		return nil, false
	}
	return &order, true
}

func orderKey(sessionID string) string {
	return orderKeyPrefix + sessionID
}
