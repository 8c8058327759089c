package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

func product(name string, price int64, cat domain.CategoryID) domain.Product {
	return domain.Product{Name: name, Price: decimal.NewFromInt(price), Category: cat, InStock: true}
}

func TestMemoryStore_ProductCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p := product("Тюль", 799, domain.CategoryTulle)
	if err := store.Create(ctx, &p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" || p.CreatedAt.IsZero() {
		t.Fatalf("no id or timestamp")
	}

	got, err := store.GetByID(ctx, p.ID)
	if err != nil || got.ID != p.ID {
		t.Fatalf("get: %v", err)
	}

	p.Price = decimal.NewFromInt(899)
	if err := store.Update(ctx, &p); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = store.GetByID(ctx, p.ID)
	if !got.Price.Equal(decimal.NewFromInt(899)) {
		t.Fatalf("update not applied: %s", got.Price)
	}

	if err := store.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetByID(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.Delete(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestMemoryStore_CreateWithExistingID(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	p := product("Карниз", 599, domain.CategoryAccessories)
	p.ID = "3"
	if err := store.Create(ctx, &p); err != nil {
		t.Fatal(err)
	}
	dup := p
	if err := store.Create(ctx, &dup); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestMemoryStore_ListNewestFirstAndFilter(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for _, p := range []domain.Product{
		product("Штори 'Венеція'", 1299, domain.CategoryCurtains),
		product("Тюль 'Ніжність'", 799, domain.CategoryTulle),
		product("Штори 'Прованс'", 1199, domain.CategoryCurtains),
	} {
		if err := store.Create(ctx, &p); err != nil {
			t.Fatal(err)
		}
	}

	all, err := store.List(ctx, ProductFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].Name != "Штори 'Прованс'" {
		t.Fatalf("unexpected order: %+v", all)
	}

	floor := decimal.NewFromInt(1000)
	list, _ := store.List(ctx, ProductFilter{Category: domain.CategoryCurtains, MinPrice: &floor, NameSubstring: "венеція"})
	if len(list) != 1 || list[0].Name != "Штори 'Венеція'" {
		t.Fatalf("filter: %+v", list)
	}

	if err := store.DeleteAll(ctx); err != nil {
		t.Fatal(err)
	}
	if all, _ := store.List(ctx, ProductFilter{}); len(all) != 0 {
		t.Fatalf("delete all left %d products", len(all))
	}
}

func TestMemoryReviews_ListByProduct(t *testing.T) {
	ctx := context.Background()
	reviews := NewMemoryReviews(NewMemoryStore())
	for _, r := range []domain.Review{
		{ProductID: "1", Name: "Анна", Rating: 5, Text: "Чудово"},
		{ProductID: "2", Name: "Марія", Rating: 4, Text: "Добре"},
		{ProductID: "1", Name: "Олександр", Rating: 5, Text: "Відмінно"},
	} {
		if err := reviews.Create(ctx, &r); err != nil {
			t.Fatal(err)
		}
	}
	list, err := reviews.List(ctx, ReviewFilter{ProductID: "1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Name != "Олександр" {
		t.Fatalf("unexpected reviews: %+v", list)
	}
	all, _ := reviews.List(ctx, ReviewFilter{})
	if len(all) != 3 {
		t.Fatalf("expected 3 reviews, got %d", len(all))
	}
	if err := reviews.Delete(ctx, list[0].ID); err != nil {
		t.Fatal(err)
	}
}

func TestMemoryTx_TransactionalSync(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	tx := NewMemoryTx(store)

	p := product("Тюль", 799, domain.CategoryTulle)
	if err := store.Create(ctx, &p); err != nil {
		t.Fatal(err)
	}

	// nested repository calls must not deadlock inside the transaction
	err := tx.WithTransaction(ctx, func(ctx context.Context) error {
		got, err := store.GetByID(ctx, p.ID)
		if err != nil {
			return err
		}
		got.Price = decimal.NewFromInt(850)
		if err := store.Update(ctx, got); err != nil {
			return err
		}
		extra := product("Зажими", 299, domain.CategoryAccessories)
		return store.Create(ctx, &extra)
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}
	list, _ := store.List(ctx, ProductFilter{})
	if len(list) != 2 {
		t.Fatalf("expected 2 products, got %d", len(list))
	}
}

func TestMemoryOrders_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	orders := NewMemoryOrders(NewMemoryStore())
	o := domain.Order{ProductID: "1", UserName: "Іван", UserAddress: "Київ", Quantity: 2, TotalPrice: decimal.NewFromInt(2598)}
	if err := orders.Create(ctx, &o); err != nil {
		t.Fatal(err)
	}
	if o.ID == "" || o.Date.IsZero() {
		t.Fatalf("order id/date not assigned")
	}
	got, err := orders.GetByID(ctx, o.ID)
	if err != nil || got.Quantity != 2 {
		t.Fatalf("get: %v", err)
	}
	if _, err := orders.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found")
	}
}
