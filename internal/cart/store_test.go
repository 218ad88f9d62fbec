package cart

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/squareeyes/storefront/internal/catalog"
	"github.com/squareeyes/storefront/internal/pricing"
	"github.com/squareeyes/storefront/pkg/kv"
)

const session = "sess-1"

func newTestStore(t *testing.T, backend kv.Store) *Store {
	t.Helper()

	store, err := NewStore(StoreParams{Backend: backend})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return store
}

func item(id string, price float64) catalog.Item {
	return catalog.Item{
		ID:    id,
		Title: "Movie " + id,
		Price: pricing.AmountFromFloat(price),
		Image: catalog.Image{URL: "https://img/" + id + ".jpg"},
	}
}

func saleItem(id string, price, sale float64) catalog.Item {
	it := item(id, price)
	it.DiscountedPrice = pricing.AmountFromFloat(sale)
	it.OnSale = true
	return it
}

func TestAddSameItemTwiceAggregates(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, kv.NewMemory())
	ctx := context.Background()

	if count := store.Add(ctx, session, item("m1", 100)); count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}
	if count := store.Add(ctx, session, item("m1", 100)); count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}

	lines := store.ReadAll(ctx, session)
	if len(lines) != 1 {
		t.Fatalf("expected exactly one line, got %d", len(lines))
	}
	if lines[0].Qty != 2 {
		t.Fatalf("expected qty 2, got %d", lines[0].Qty)
	}
}

func TestUpdateQtyFloorsAtOne(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, kv.NewMemory())
	ctx := context.Background()

	store.Add(ctx, session, item("m1", 100))
	store.UpdateQty(ctx, session, "m1", -1)

	lines := store.ReadAll(ctx, session)
	if len(lines) != 1 || lines[0].Qty != 1 {
		t.Fatalf("decrement at qty=1 must be a no-op, got %+v", lines)
	}

	store.UpdateQty(ctx, session, "m1", +1)
	store.UpdateQty(ctx, session, "m1", +1)
	store.UpdateQty(ctx, session, "m1", -1)

	if got := store.Count(ctx, session); got != 2 {
		t.Fatalf("expected count 2, got %d", got)
	}
}

func TestUpdateQtyUnknownIDIsNoOp(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, kv.NewMemory())
	ctx := context.Background()

	store.Add(ctx, session, item("m1", 100))
	store.UpdateQty(ctx, session, "ghost", +1)

	if got := store.Count(ctx, session); got != 1 {
		t.Fatalf("expected count 1, got %d", got)
	}
}

func TestUpdateQtyRejectsLargeDeltas(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, kv.NewMemory())
	ctx := context.Background()

	store.Add(ctx, session, item("m1", 100))
	store.UpdateQty(ctx, session, "m1", 5)

	if got := store.Count(ctx, session); got != 1 {
		t.Fatalf("expected delta outside ±1 to be ignored, count=%d", got)
	}
}

func TestRemoveAndClear(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, kv.NewMemory())
	ctx := context.Background()

	store.Add(ctx, session, item("m1", 100))
	store.Add(ctx, session, item("m2", 50))

	if count := store.Remove(ctx, session, "m1"); count != 1 {
		t.Fatalf("expected count 1 after remove, got %d", count)
	}
	if count := store.Remove(ctx, session, "ghost"); count != 1 {
		t.Fatalf("expected removing unknown id to be a no-op, got %d", count)
	}

	store.Clear(ctx, session)
	if lines := store.ReadAll(ctx, session); len(lines) != 0 {
		t.Fatalf("expected empty cart after clear, got %+v", lines)
	}
	if got := store.Count(ctx, session); got != 0 {
		t.Fatalf("expected count 0, got %d", got)
	}
}

func TestTotalUsesSalePrices(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, kv.NewMemory())
	ctx := context.Background()

	store.Add(ctx, session, item("m1", 100))
	store.Add(ctx, session, item("m1", 100))
	store.Add(ctx, session, saleItem("m2", 200, 150))

	if got := store.Total(ctx, session); !got.Equal(decimal.NewFromInt(350)) {
		t.Fatalf("expected total 350, got %s", got)
	}
}

func TestTotalInvariantUnderOperationOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	first := newTestStore(t, kv.NewMemory())
	first.Add(ctx, session, item("m1", 100))
	first.Add(ctx, session, saleItem("m2", 200, 150))
	first.Add(ctx, session, item("m1", 100))

	second := newTestStore(t, kv.NewMemory())
	second.Add(ctx, session, saleItem("m2", 200, 150))
	second.Add(ctx, session, item("m3", 40))
	second.Add(ctx, session, item("m1", 100))
	second.Remove(ctx, session, "m3")
	second.Add(ctx, session, item("m1", 100))

	if !first.Total(ctx, session).Equal(second.Total(ctx, session)) {
		t.Fatalf("totals diverged: %s vs %s", first.Total(ctx, session), second.Total(ctx, session))
	}
	if first.Count(ctx, session) != second.Count(ctx, session) {
		t.Fatal("counts diverged for the same net line multiset")
	}
}

func TestInsertionOrderPreserved(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, kv.NewMemory())
	ctx := context.Background()

	for _, id := range []string{"m3", "m1", "m2"} {
		store.Add(ctx, session, item(id, 10))
	}
	store.Add(ctx, session, item("m1", 10))

	lines := store.ReadAll(ctx, session)
	got := make([]string, 0, len(lines))
	for _, line := range lines {
		got = append(got, line.ID)
	}
	if strings.Join(got, ",") != "m3,m1,m2" {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestLegacyQuantityFieldMigratedOnWrite(t *testing.T) {
	t.Parallel()

	backend := kv.NewMemory()
	ctx := context.Background()

	legacy := `[{"id":"m1","title":"Old","price":100,"discountedPrice":null,"onSale":false,"image":"","quantity":3}]`
	if err := backend.Set(ctx, "cart_v1:"+session, []byte(legacy)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store := newTestStore(t, backend)
	if count := store.Add(ctx, session, item("m1", 100)); count != 4 {
		t.Fatalf("expected legacy qty 3 + 1, got %d", count)
	}

	raw, err := backend.Get(ctx, "cart_v1:"+session)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(raw), `"quantity"`) {
		t.Fatalf("legacy quantity field survived the rewrite: %s", raw)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded[0]["qty"].(float64) != 4 {
		t.Fatalf("expected canonical qty 4, got %v", decoded[0]["qty"])
	}
}

func TestNonFiniteStoredQuantityCoercedToOne(t *testing.T) {
	t.Parallel()

	backend := kv.NewMemory()
	ctx := context.Background()

	stored := `[{"id":"m1","title":"Broken","price":100,"qty":"wat"},{"id":"m2","title":"Missing","price":50}]`
	if err := backend.Set(ctx, "cart_v1:"+session, []byte(stored)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store := newTestStore(t, backend)
	if got := store.Count(ctx, session); got != 2 {
		t.Fatalf("expected both quantities coerced to 1, got %d", got)
	}
	if got := store.Total(ctx, session); !got.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected total 150, got %s", got)
	}
}

func TestCorruptedStorageYieldsEmptyCart(t *testing.T) {
	t.Parallel()

	backend := kv.NewMemory()
	ctx := context.Background()

	if err := backend.Set(ctx, "cart_v1:"+session, []byte("{not json")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store := newTestStore(t, backend)
	if lines := store.ReadAll(ctx, session); len(lines) != 0 {
		t.Fatalf("expected empty cart for corrupt storage, got %+v", lines)
	}
	if got := store.Count(ctx, session); got != 0 {
		t.Fatalf("expected count 0, got %d", got)
	}
}

type brokenBackend struct{}

func (brokenBackend) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("backend down")
}
func (brokenBackend) Set(ctx context.Context, key string, value []byte) error {
	return errors.New("backend down")
}
func (brokenBackend) Delete(ctx context.Context, key string) error {
	return errors.New("backend down")
}

func TestUnavailableStorageNeverSurfaces(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, brokenBackend{})
	ctx := context.Background()

	if count := store.Add(ctx, session, item("m1", 100)); count != 1 {
		t.Fatalf("expected in-flight count 1 on dropped write, got %d", count)
	}
	if lines := store.ReadAll(ctx, session); len(lines) != 0 {
		t.Fatalf("expected empty cart, got %+v", lines)
	}
	store.UpdateQty(ctx, session, "m1", +1)
	store.Clear(ctx, session)
	if got := store.Total(ctx, session); !got.IsZero() {
		t.Fatalf("expected zero total, got %s", got)
	}
}

func TestReadAllRoundTripAfterEveryMutation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, kv.NewMemory())
	ctx := context.Background()

	store.Add(ctx, session, item("m1", 100))
	if lines := store.ReadAll(ctx, session); len(lines) != 1 || lines[0].Qty != 1 {
		t.Fatalf("add not reflected exactly once: %+v", lines)
	}

	store.UpdateQty(ctx, session, "m1", +1)
	if lines := store.ReadAll(ctx, session); lines[0].Qty != 2 {
		t.Fatalf("update not reflected: %+v", lines)
	}

	store.Remove(ctx, session, "m1")
	if lines := store.ReadAll(ctx, session); len(lines) != 0 {
		t.Fatalf("remove not reflected: %+v", lines)
	}
}
