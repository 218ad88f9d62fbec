package catalog

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/squareeyes/storefront/internal/pricing"
)

func sampleItems() []Item {
	return []Item{
		{ID: "m1", Title: "Heat", Genre: "Crime", Rating: 8.3, Price: pricing.AmountFromFloat(129)},
		{ID: "m2", Title: "Alien", Genre: "Sci-Fi", Rating: 8.5, Price: pricing.AmountFromFloat(200), DiscountedPrice: pricing.AmountFromFloat(99), OnSale: true},
		{ID: "m3", Title: "Aliens", Genre: "Sci-Fi", Rating: 8.4, Price: pricing.AmountFromFloat(150)},
		{ID: "m4", Title: "Drive", Genre: "crime", Rating: 7.8, Price: pricing.AmountFromFloat(89)},
	}
}

func TestApplyFiltersGenreIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	got := ApplyFilters(sampleItems(), ListFilters{Genre: "CRIME"})
	if len(got) != 2 || got[0].ID != "m1" || got[1].ID != "m4" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestApplyFiltersQueryMatchesTitleSubstring(t *testing.T) {
	t.Parallel()

	got := ApplyFilters(sampleItems(), ListFilters{Query: "alien"})
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
}

func TestApplyFiltersPriceRangeUsesUnitPrice(t *testing.T) {
	t.Parallel()

	min := decimal.NewFromInt(90)
	max := decimal.NewFromInt(140)
	got := ApplyFilters(sampleItems(), ListFilters{PriceMin: &min, PriceMax: &max})

	// m2 qualifies via its sale price of 99; m3 at 150 does not.
	if len(got) != 2 || got[0].ID != "m1" || got[1].ID != "m2" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestApplyFiltersSortOrders(t *testing.T) {
	t.Parallel()

	byPrice := ApplyFilters(sampleItems(), ListFilters{Sort: SortPriceAsc})
	if byPrice[0].ID != "m4" || byPrice[len(byPrice)-1].ID != "m3" {
		t.Fatalf("unexpected price-asc order: %+v", byPrice)
	}

	byRating := ApplyFilters(sampleItems(), ListFilters{Sort: SortRatingDesc})
	if byRating[0].ID != "m2" {
		t.Fatalf("unexpected rating-desc order: %+v", byRating)
	}

	byTitle := ApplyFilters(sampleItems(), ListFilters{Sort: SortTitleAsc})
	if byTitle[0].Title != "Alien" || byTitle[1].Title != "Aliens" {
		t.Fatalf("unexpected title-asc order: %+v", byTitle)
	}
}

func TestApplyFiltersDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	items := sampleItems()
	ApplyFilters(items, ListFilters{Sort: SortPriceDesc})
	if items[0].ID != "m1" {
		t.Fatalf("input slice was reordered: %+v", items)
	}
}

func TestParseSortOrder(t *testing.T) {
	t.Parallel()

	if order, err := ParseSortOrder("price-desc"); err != nil || order != SortPriceDesc {
		t.Fatalf("unexpected result: %v %v", order, err)
	}
	if order, err := ParseSortOrder(""); err != nil || order != SortNone {
		t.Fatalf("empty input should parse to SortNone: %v %v", order, err)
	}
	if _, err := ParseSortOrder("price"); err == nil {
		t.Fatal("expected error for unknown sort order")
	}
}
