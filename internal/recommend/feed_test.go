package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/squareeyes/storefront/internal/cart"
	"github.com/squareeyes/storefront/internal/catalog"
	"github.com/squareeyes/storefront/internal/pricing"
	"github.com/squareeyes/storefront/pkg/kv"
)

const session1 = "sess-1"

type stubCatalog struct {
	items []catalog.Item
	err   error
}

func (s *stubCatalog) All(ctx context.Context) ([]catalog.Item, error) {
	return s.items, s.err
}

func (s *stubCatalog) Browse(ctx context.Context, filters catalog.ListFilters) ([]catalog.Item, error) {
	return s.items, s.err
}

func (s *stubCatalog) GetItem(ctx context.Context, id string) (catalog.Item, error) {
	for _, item := range s.items {
		if item.ID == id {
			return item, nil
		}
	}
	return catalog.Item{}, errors.New("not found")
}

func (s *stubCatalog) InvalidateCache() {}

func movie(id, genre string, rating float64) catalog.Item {
	return catalog.Item{
		ID:     id,
		Title:  "Movie " + id,
		Genre:  genre,
		Rating: rating,
		Price:  pricing.AmountFromFloat(100),
	}
}

func newFeed(t *testing.T, cat catalog.Service, limit int) (*Feed, *cart.Store) {
	t.Helper()

	store, err := cart.NewStore(cart.StoreParams{Backend: kv.NewMemory()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	feed, err := NewFeed(FeedParams{Catalog: cat, Cart: store, Limit: limit})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return feed, store
}

func TestFeedMatchesGenreCaseInsensitively(t *testing.T) {
	t.Parallel()

	cat := &stubCatalog{items: []catalog.Item{
		movie("m1", "Sci-Fi", 8.0),
		movie("m2", "sci-fi", 7.5),
		movie("m3", "Crime", 9.0),
		movie("m4", "SCI-FI", 6.0),
	}}
	feed, store := newFeed(t, cat, 0)
	ctx := context.Background()

	store.Add(ctx, session1, cat.items[0])

	got := feed.ForSession(ctx, session1)
	if len(got) != 2 {
		t.Fatalf("expected two matches, got %d", len(got))
	}
	if got[0].ID != "m2" || got[1].ID != "m4" {
		t.Fatalf("expected rating-desc order m2,m4, got %s,%s", got[0].ID, got[1].ID)
	}
}

func TestFeedExcludesCartItems(t *testing.T) {
	t.Parallel()

	cat := &stubCatalog{items: []catalog.Item{
		movie("m1", "Crime", 8.0),
		movie("m2", "Crime", 9.0),
	}}
	feed, store := newFeed(t, cat, 0)
	ctx := context.Background()

	store.Add(ctx, session1, cat.items[0])
	store.Add(ctx, session1, cat.items[1])

	if got := feed.ForSession(ctx, session1); len(got) != 0 {
		t.Fatalf("expected empty feed when everything is in the cart, got %d", len(got))
	}
}

func TestFeedTiesKeepCatalogOrder(t *testing.T) {
	t.Parallel()

	cat := &stubCatalog{items: []catalog.Item{
		movie("m1", "Crime", 8.0),
		movie("m2", "Crime", 7.0),
		movie("m3", "Crime", 7.0),
		movie("m4", "Crime", 7.0),
	}}
	feed, store := newFeed(t, cat, 0)
	ctx := context.Background()

	store.Add(ctx, session1, cat.items[0])

	got := feed.ForSession(ctx, session1)
	if len(got) != 3 {
		t.Fatalf("expected three matches, got %d", len(got))
	}
	for i, want := range []string{"m2", "m3", "m4"} {
		if got[i].ID != want {
			t.Fatalf("tie order broken at %d: expected %s, got %s", i, want, got[i].ID)
		}
	}
}

func TestFeedHonoursLimit(t *testing.T) {
	t.Parallel()

	items := []catalog.Item{movie("seed", "Crime", 5.0)}
	for _, id := range []string{"a", "b", "c", "d"} {
		items = append(items, movie(id, "Crime", 6.0))
	}
	cat := &stubCatalog{items: items}
	feed, store := newFeed(t, cat, 2)
	ctx := context.Background()

	store.Add(ctx, session1, items[0])

	if got := feed.ForSession(ctx, session1); len(got) != 2 {
		t.Fatalf("expected limit 2, got %d", len(got))
	}
}

func TestFeedEmptyWhenGenreUnresolvable(t *testing.T) {
	t.Parallel()

	cat := &stubCatalog{items: []catalog.Item{
		movie("m1", "", 8.0),
		movie("m2", "Crime", 9.0),
	}}
	feed, store := newFeed(t, cat, 0)
	ctx := context.Background()

	store.Add(ctx, session1, cat.items[0])

	if got := feed.ForSession(ctx, session1); len(got) != 0 {
		t.Fatalf("expected empty feed for blank genre, got %d", len(got))
	}
}

func TestFeedEmptyOnEmptyCartOrCatalogFailure(t *testing.T) {
	t.Parallel()

	cat := &stubCatalog{err: errors.New("upstream down")}
	feed, store := newFeed(t, cat, 0)
	ctx := context.Background()

	if got := feed.ForSession(ctx, session1); got != nil {
		t.Fatalf("expected nil feed for empty cart, got %v", got)
	}

	store.Add(ctx, session1, movie("m1", "Crime", 8.0))
	if got := feed.ForSession(ctx, session1); got != nil {
		t.Fatalf("expected nil feed on catalog failure, got %v", got)
	}
}
