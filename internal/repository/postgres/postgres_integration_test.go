//go:build integration

package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/repository"
	"storefront/migrations"
)

func setupTestDB(t *testing.T) (*ProductStore, *ReviewStore, *TxManager) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:14-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	db, err := NewConnection(&config.DatabaseConfig{
		URL:             fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port()),
		MaxOpenConns:    5,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Minute,
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := Migrate(ctx, db, migrations.FS, true); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return NewProductStore(db), NewReviewStore(db), NewTxManager(db)
}

func sampleProduct(name string) domain.Product {
	return domain.Product{
		Name:        name,
		Price:       decimal.NewFromInt(1299),
		Category:    domain.CategoryCurtains,
		Subcategory: "Блекаут",
		Images:      []string{"/images/a.jpg"},
		Description: "Щільні штори для спальні",
		Material:    "Поліестер",
		Features:    []string{"Затемнення"},
		InStock:     true,
		Discount:    15,
		SizeVariants: []domain.SizeVariant{
			{Size: "150x270", Price: decimal.NewFromInt(1399), InStock: true},
		},
	}
}

func TestProductStore_CRUD(t *testing.T) {
	products, _, _ := setupTestDB(t)
	ctx := context.Background()

	p := sampleProduct("Штори Мілан")
	if err := products.Create(ctx, &p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" || p.CreatedAt.IsZero() {
		t.Fatalf("id/created_at not set: %+v", p)
	}

	got, err := products.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Price.Equal(p.Price) || got.Material != "Поліестер" || len(got.SizeVariants) != 1 {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}

	dup := sampleProduct("Дубль")
	dup.ID = p.ID
	if err := products.Create(ctx, &dup); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	got.Price = decimal.NewFromInt(999)
	if err := products.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	floor := decimal.NewFromInt(1000)
	list, err := products.List(ctx, repository.ProductFilter{MinPrice: &floor})
	if err != nil || len(list) != 0 {
		t.Fatalf("filter after update: %v %d", err, len(list))
	}

	if err := products.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := products.GetByID(ctx, p.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := products.Delete(ctx, p.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestTxManager_Rollback(t *testing.T) {
	products, _, tx := setupTestDB(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := tx.WithTransaction(ctx, func(ctx context.Context) error {
		p := sampleProduct("Тюль Вуаль")
		if err := products.Create(ctx, &p); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	list, _ := products.List(ctx, repository.ProductFilter{})
	if len(list) != 0 {
		t.Fatalf("rollback left %d rows", len(list))
	}
}

func TestReviewStore_ListByProduct(t *testing.T) {
	_, reviews, _ := setupTestDB(t)
	ctx := context.Background()

	for _, r := range []domain.Review{
		{ProductID: "1", Name: "Анна", Rating: 5, Text: "Чудово", Date: "15.03.2024"},
		{ProductID: "2", Name: "Марія", Rating: 4, Text: "Добре", Date: "10.03.2024"},
	} {
		if err := reviews.Create(ctx, &r); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	list, err := reviews.List(ctx, repository.ReviewFilter{ProductID: "1"})
	if err != nil || len(list) != 1 || list[0].Name != "Анна" {
		t.Fatalf("list by product: %v %+v", err, list)
	}
	all, _ := reviews.List(ctx, repository.ReviewFilter{})
	if len(all) != 2 {
		t.Fatalf("all: %d", len(all))
	}
	if err := reviews.Delete(ctx, list[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestProductStore_NameSearchIsLiteral(t *testing.T) {
	products, _, _ := setupTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"Знижка 50% на тюль", "Штори 500 см", "Карниз_А", "КарнизБА"} {
		p := sampleProduct(name)
		if err := products.Create(ctx, &p); err != nil {
			t.Fatalf("create %q: %v", name, err)
		}
	}

	for term, want := range map[string]int{"50%": 1, "_А": 1, "Карниз": 2} {
		list, err := products.List(ctx, repository.ProductFilter{NameSubstring: term})
		if err != nil {
			t.Fatalf("list %q: %v", term, err)
		}
		if len(list) != want {
			t.Errorf("search %q: got %d products, want %d", term, len(list), want)
		}
	}
}
