package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

func setupPS(t *testing.T) (*ProductService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	return NewProductService(store, repository.NewMemoryTx(store)), store
}

func formProduct() domain.Product {
	return domain.Product{
		Name:        "Тюль 'Ніжність'",
		Price:       decimal.NewFromInt(799),
		Category:    domain.CategoryTulle,
		Description: "Напівпрозорий тюль для вітальні",
		Images:      []string{"https://cdn.example.com/tulle.jpg"},
		InStock:     true,
	}
}

func TestProduct_Create_Valid(t *testing.T) {
	ctx := context.Background()
	ps, _ := setupPS(t)
	p, err := ps.Create(ctx, formProduct())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.ID == "" {
		t.Fatalf("expected id assigned")
	}
}

func TestProduct_Create_Invalid(t *testing.T) {
	ctx := context.Background()
	ps, _ := setupPS(t)
	cases := map[string]func(p *domain.Product){
		"short name":        func(p *domain.Product) { p.Name = "Тю" },
		"zero price":        func(p *domain.Product) { p.Price = decimal.Zero },
		"short description": func(p *domain.Product) { p.Description = "коротко" },
		"no images":         func(p *domain.Product) { p.Images = []string{"  "} },
		"bad category":      func(p *domain.Product) { p.Category = "sofas" },
		"discount":          func(p *domain.Product) { p.Discount = 120 },
	}
	for name, mutate := range cases {
		p := formProduct()
		mutate(&p)
		if _, err := ps.Create(ctx, p); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestProduct_Create_DropsEmptyVariants(t *testing.T) {
	ps, _ := setupPS(t)
	p := formProduct()
	p.SizeVariants = []domain.SizeVariant{
		{Size: "300x270", Price: decimal.NewFromInt(799), InStock: true},
		{Size: " ", Price: decimal.NewFromInt(900)},
		{Size: "400x270", Price: decimal.Zero},
	}
	got, err := ps.Create(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.SizeVariants) != 1 || got.SizeVariants[0].Size != "300x270" {
		t.Fatalf("variants: %+v", got.SizeVariants)
	}
}

func TestProduct_Update_Get_Delete(t *testing.T) {
	ctx := context.Background()
	ps, _ := setupPS(t)
	p, _ := ps.Create(ctx, formProduct())

	// get
	got, err := ps.GetByID(ctx, p.ID)
	if err != nil || got.ID != p.ID {
		t.Fatalf("get failed: %v", err)
	}

	// update
	p.Name = "Тюль 'Ніжність' 2"
	p.Discount = 10
	upd, err := ps.Update(ctx, *p)
	if err != nil || upd.Discount != 10 {
		t.Fatalf("update failed: %v", err)
	}

	// invalid id
	if _, err := ps.Update(ctx, domain.Product{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input")
	}
	missing := formProduct()
	missing.ID = "nope"
	if _, err := ps.Update(ctx, missing); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	// delete
	if err := ps.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := ps.GetByID(ctx, p.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found after delete")
	}
}

func TestProduct_DeleteAll(t *testing.T) {
	ctx := context.Background()
	ps, _ := setupPS(t)
	ps.Create(ctx, formProduct())
	second := formProduct()
	second.Name = "Штори 'Венеція'"
	ps.Create(ctx, second)
	if err := ps.DeleteAll(ctx); err != nil {
		t.Fatal(err)
	}
	list, _ := ps.List(ctx, repository.ProductFilter{})
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %d", len(list))
	}
}
