package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/squareeyes/storefront/internal/pricing"
)

// ListFilters describe the supported browse knobs.
type ListFilters struct {
	Genre    string           `json:"genre,omitempty"`
	Query    string           `json:"q,omitempty"`
	PriceMin *decimal.Decimal `json:"price_min,omitempty"`
	PriceMax *decimal.Decimal `json:"price_max,omitempty"`
	Sort     SortOrder        `json:"sort,omitempty"`
}

// SortOrder names a supported catalog ordering.
type SortOrder string

const (
	SortNone       SortOrder = ""
	SortPriceAsc   SortOrder = "price-asc"
	SortPriceDesc  SortOrder = "price-desc"
	SortTitleAsc   SortOrder = "title-asc"
	SortTitleDesc  SortOrder = "title-desc"
	SortRatingAsc  SortOrder = "rating-asc"
	SortRatingDesc SortOrder = "rating-desc"
)

var validSortOrders = []SortOrder{
	SortNone,
	SortPriceAsc,
	SortPriceDesc,
	SortTitleAsc,
	SortTitleDesc,
	SortRatingAsc,
	SortRatingDesc,
}

// ParseSortOrder converts raw input into a SortOrder.
func ParseSortOrder(value string) (SortOrder, error) {
	for _, candidate := range validSortOrders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return SortNone, fmt.Errorf("invalid sort order %q", value)
}

// ApplyFilters returns the items matching the filters, sorted per the
// requested order. The input slice is never mutated.
func ApplyFilters(items []Item, filters ListFilters) []Item {
	out := make([]Item, 0, len(items))

	genre := strings.ToLower(strings.TrimSpace(filters.Genre))
	query := strings.ToLower(strings.TrimSpace(filters.Query))

	for _, item := range items {
		if genre != "" && strings.ToLower(item.Genre) != genre {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(item.Title), query) {
			continue
		}
		unit := pricing.UnitPrice(item)
		if filters.PriceMin != nil && unit.LessThan(*filters.PriceMin) {
			continue
		}
		if filters.PriceMax != nil && unit.GreaterThan(*filters.PriceMax) {
			continue
		}
		out = append(out, item)
	}

	sortItems(out, filters.Sort)
	return out
}

func sortItems(items []Item, order SortOrder) {
	switch order {
	case SortPriceAsc:
		sort.SliceStable(items, func(i, j int) bool {
			return pricing.UnitPrice(items[i]).LessThan(pricing.UnitPrice(items[j]))
		})
	case SortPriceDesc:
		sort.SliceStable(items, func(i, j int) bool {
			return pricing.UnitPrice(items[i]).GreaterThan(pricing.UnitPrice(items[j]))
		})
	case SortTitleAsc:
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].Title) < strings.ToLower(items[j].Title)
		})
	case SortTitleDesc:
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].Title) > strings.ToLower(items[j].Title)
		})
	case SortRatingAsc:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Rating < items[j].Rating
		})
	case SortRatingDesc:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Rating > items[j].Rating
		})
	}
}
