package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/localstore"
	"storefront/internal/logging"
	"storefront/internal/notify"
)

func product(id, name string, price int64) domain.Product {
	return domain.Product{ID: id, Name: name, Price: decimal.NewFromInt(price), Category: domain.CategoryCurtains, InStock: true}
}

func setup(t *testing.T) (*Cart, localstore.Store, *notify.Recorder) {
	t.Helper()
	store := localstore.NewMemory()
	rec := &notify.Recorder{}
	return Load(context.Background(), "s1", store, rec, logging.Discard()), store, rec
}

func TestCart_AddMergesSameProduct(t *testing.T) {
	c, _, rec := setup(t)
	ctx := context.Background()
	p := product("1", "Штори 'Венеція'", 1299)

	if err := c.Add(ctx, p, 1, ""); err != nil {
		t.Fatal(err)
	}
	if err := c.Add(ctx, p, 2, ""); err != nil {
		t.Fatal(err)
	}
	items := c.Items()
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("expected one line with quantity 3, got %+v", items)
	}
	if c.TotalItems() != 3 {
		t.Fatalf("total items %d", c.TotalItems())
	}
	all := rec.All()
	if len(all) != 2 || all[0].Message != "Додано до кошика: Штори 'Венеція'" || all[1].Message != "Оновлено кількість: Штори 'Венеція'" {
		t.Fatalf("notifications: %+v", all)
	}
}

func TestCart_AddDefaultsQuantity(t *testing.T) {
	c, _, _ := setup(t)
	if err := c.Add(context.Background(), product("1", "Тюль", 799), 0, ""); err != nil {
		t.Fatal(err)
	}
	if c.Items()[0].Quantity != 1 {
		t.Fatalf("quantity should default to 1")
	}
}

func TestCart_AddRejectsInvalidProduct(t *testing.T) {
	c, _, _ := setup(t)
	bad := product("1", "", 100)
	if err := c.Add(context.Background(), bad, 1, ""); err == nil {
		t.Fatalf("expected validation error")
	}
	if len(c.Items()) != 0 {
		t.Fatalf("invalid product must not be added")
	}
}

func TestCart_AddWithSizeUsesVariantPrice(t *testing.T) {
	c, _, _ := setup(t)
	p := product("10", "Блекаут", 1399)
	p.SizeVariants = []domain.SizeVariant{{Size: "200x270", Price: decimal.NewFromInt(1799), InStock: true}}
	if err := c.Add(context.Background(), p, 1, "200x270"); err != nil {
		t.Fatal(err)
	}
	if !c.TotalPrice().Equal(decimal.NewFromInt(1799)) {
		t.Fatalf("variant price not applied: %s", c.TotalPrice())
	}
	if err := c.Add(context.Background(), p, 1, "300x300"); err == nil {
		t.Fatalf("unknown size accepted")
	}
}

func TestCart_TotalPrice(t *testing.T) {
	c, _, _ := setup(t)
	ctx := context.Background()
	c.Add(ctx, product("1", "Штори", 1299), 2, "")
	c.Add(ctx, product("6", "Зажими", 299), 3, "")
	want := decimal.NewFromInt(1299*2 + 299*3)
	if !c.TotalPrice().Equal(want) {
		t.Fatalf("total %s want %s", c.TotalPrice(), want)
	}
}

func TestCart_UpdateQuantityIgnoresNonPositive(t *testing.T) {
	c, _, _ := setup(t)
	ctx := context.Background()
	c.Add(ctx, product("1", "Штори", 1299), 2, "")

	c.UpdateQuantity(ctx, "1", 0)
	c.UpdateQuantity(ctx, "1", -3)
	if q := c.Items()[0].Quantity; q != 2 {
		t.Fatalf("quantity changed to %d", q)
	}
	c.UpdateQuantity(ctx, "1", 5)
	if q := c.Items()[0].Quantity; q != 5 {
		t.Fatalf("quantity not updated: %d", q)
	}
}

func TestCart_RemoveAndClear(t *testing.T) {
	c, _, rec := setup(t)
	ctx := context.Background()
	c.Add(ctx, product("1", "Штори", 1299), 1, "")
	c.Add(ctx, product("2", "Тюль", 799), 1, "")

	before := len(rec.All())
	c.Remove(ctx, "missing")
	if len(c.Items()) != 2 || len(rec.All()) != before {
		t.Fatalf("removing a missing product must be a silent no-op")
	}
	c.Remove(ctx, "1")
	if items := c.Items(); len(items) != 1 || items[0].Product.ID != "2" {
		t.Fatalf("remove: %+v", items)
	}
	if rec.Last().Message != "Товар видалено з кошика" {
		t.Fatalf("remove notification: %+v", rec.Last())
	}

	c.Clear(ctx)
	if c.TotalItems() != 0 || !c.TotalPrice().IsZero() {
		t.Fatalf("cart not cleared")
	}
	if rec.Last().Message != "Кошик очищено" {
		t.Fatalf("clear notification: %+v", rec.Last())
	}
}

func TestCart_PersistAndReload(t *testing.T) {
	c, store, _ := setup(t)
	ctx := context.Background()
	c.Add(ctx, product("1", "Штори", 1299), 2, "")
	c.Add(ctx, product("5", "Тюль 'Флора'", 1099), 1, "")

	reloaded := Load(ctx, "s1", store, nil, logging.Discard())
	got := reloaded.Items()
	if len(got) != 2 || got[0].Product.ID != "1" || got[0].Quantity != 2 || got[1].Product.ID != "5" || got[1].Quantity != 1 {
		t.Fatalf("reloaded cart differs: %+v", got)
	}
	if !reloaded.TotalPrice().Equal(c.TotalPrice()) {
		t.Fatalf("total differs after reload")
	}
}

func TestCart_LoadMalformedIsEmpty(t *testing.T) {
	ctx := context.Background()
	store := localstore.NewMemory()
	store.Set(ctx, localstore.CartKey("s1"), []byte(`{"not":"a list"`))
	c := Load(ctx, "s1", store, nil, logging.Discard())
	if len(c.Items()) != 0 {
		t.Fatalf("malformed cart should load empty")
	}

	store.Set(ctx, localstore.CartKey("s2"), []byte(`[{"product":{"id":"1","name":"Штори","price":100,"category":"curtains"},"quantity":1},{"product":{"id":"2","name":"X","price":5,"category":"sofas"},"quantity":1}]`))
	c = Load(ctx, "s2", store, nil, logging.Discard())
	if items := c.Items(); len(items) != 1 || items[0].Product.ID != "1" {
		t.Fatalf("invalid items should be dropped: %+v", items)
	}
}

func TestCart_ConcurrentAdds(t *testing.T) {
	c, _, _ := setup(t)
	ctx := context.Background()
	p := product("1", "Штори", 100)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add(ctx, p, 1, "")
		}()
	}
	wg.Wait()
	if c.TotalItems() != 50 {
		t.Fatalf("lost updates: %d", c.TotalItems())
	}
}

func TestShipping(t *testing.T) {
	if !Shipping(decimal.NewFromInt(1499)).Equal(decimal.NewFromInt(100)) {
		t.Fatalf("below threshold must cost 100")
	}
	if !Shipping(decimal.NewFromInt(1500)).IsZero() {
		t.Fatalf("threshold is free")
	}
}

func TestRegistry_ReturnsSameCart(t *testing.T) {
	r := NewRegistry(localstore.NewMemory(), nil, logging.Discard())
	ctx := context.Background()
	a := r.Get(ctx, "s1")
	if r.Get(ctx, "s1") != a {
		t.Fatalf("registry must reuse carts")
	}
	if r.Get(ctx, "s2") == a {
		t.Fatalf("sessions must not share carts")
	}
}

func TestRegistry_LookupDoesNotRegister(t *testing.T) {
	store := localstore.NewMemory()
	r := NewRegistry(store, nil, logging.Discard())
	ctx := context.Background()
	if n := len(r.Lookup(ctx, "anon").Items()); n != 0 || r.Len() != 0 {
		t.Fatalf("lookup of a new session registered a cart: items=%d len=%d", n, r.Len())
	}

	r.Get(ctx, "s1").Add(ctx, product("1", "Штори", 1299), 1, "")
	if r.Lookup(ctx, "s1") != r.Get(ctx, "s1") || r.Len() != 1 {
		t.Fatalf("lookup must return the registered cart")
	}

	other := NewRegistry(store, nil, logging.Discard())
	if other.Lookup(ctx, "s1").TotalItems() != 1 || other.Len() != 0 {
		t.Fatalf("lookup must read persisted carts without registering them")
	}
}

func TestCart_DrainKeepsUnplacedQuantities(t *testing.T) {
	c, _, _ := setup(t)
	ctx := context.Background()
	c.Add(ctx, product("1", "Штори", 1299), 1, "")
	placed := c.Items()
	c.Add(ctx, product("1", "Штори", 1299), 2, "")
	c.Add(ctx, product("2", "Тюль", 799), 1, "")

	c.Drain(ctx, placed)
	items := c.Items()
	if len(items) != 2 || items[0].Product.ID != "1" || items[0].Quantity != 2 || items[1].Product.ID != "2" {
		t.Fatalf("drain: %+v", items)
	}

	c.Drain(ctx, c.Items())
	if c.TotalItems() != 0 {
		t.Fatalf("draining every line must empty the cart: %+v", c.Items())
	}
}
