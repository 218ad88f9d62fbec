// Package recommend builds a genre-based recommendation feed from the
// cart contents and the catalog.
package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/squareeyes/storefront/internal/cart"
	"github.com/squareeyes/storefront/internal/catalog"
	"github.com/squareeyes/storefront/pkg/logger"
)

const defaultLimit = 12

// FeedParams groups dependencies for the recommendation feed.
type FeedParams struct {
	Catalog catalog.Service
	Cart    *cart.Store
	Logger  *logger.Logger

	// Limit caps the feed size; zero means the default of 12.
	Limit int
}

// Feed recommends catalog items that share a genre with something in
// the cart. Failures degrade to an empty feed; recommendations are
// never worth blocking a page over.
type Feed struct {
	catalog catalog.Service
	cart    *cart.Store
	logg    *logger.Logger
	limit   int
}

// NewFeed builds a recommendation feed.
func NewFeed(params FeedParams) (*Feed, error) {
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart store required")
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	return &Feed{
		catalog: params.Catalog,
		cart:    params.Cart,
		logg:    params.Logger,
		limit:   limit,
	}, nil
}

// ForSession returns up to the configured number of items sharing at
// least one genre with the session's cart, excluding items already in
// it, best rated first with catalog order breaking ties. An empty cart
// or one with no resolvable genre yields an empty feed.
func (f *Feed) ForSession(ctx context.Context, sessionID string) []catalog.Item {
	lines := f.cart.ReadAll(ctx, sessionID)
	if len(lines) == 0 {
		return nil
	}

	items, err := f.catalog.All(ctx)
	if err != nil {
		if f.logg != nil {
			f.logg.Warn(ctx, "catalog unavailable, serving empty recommendations")
		}
		return nil
	}

	inCart := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		inCart[line.ID] = struct{}{}
	}

	genres := make(map[string]struct{})
	for _, item := range items {
		if _, ok := inCart[item.ID]; !ok {
			continue
		}
		if genre := normalizeGenre(item.Genre); genre != "" {
			genres[genre] = struct{}{}
		}
	}
	if len(genres) == 0 {
		return nil
	}

	matches := make([]catalog.Item, 0, f.limit)
	for _, item := range items {
		if _, ok := inCart[item.ID]; ok {
			continue
		}
		if _, ok := genres[normalizeGenre(item.Genre)]; !ok {
			continue
		}
		matches = append(matches, item)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Rating > matches[j].Rating
	})

	if len(matches) > f.limit {
		matches = matches[:f.limit]
	}
	return matches
}

func normalizeGenre(genre string) string {
	return strings.ToLower(strings.TrimSpace(genre))
}
