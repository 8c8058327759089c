package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

func setup(t *testing.T) *Store {
	t.Helper()
	f, err := LoadFixture()
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return NewStore(f)
}

func ids(list []domain.Product) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.ID
	}
	return out
}

func TestFixture_Contents(t *testing.T) {
	s := setup(t)
	ctx := context.Background()
	products, err := s.ListProducts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 10 {
		t.Fatalf("expected 10 products, got %d", len(products))
	}
	cats, _ := s.ListCategories(ctx)
	if len(cats) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(cats))
	}
	if !products[0].Price.Equal(decimal.NewFromInt(1299)) {
		t.Fatalf("first product price %s", products[0].Price)
	}
}

func TestStore_ListByCategory(t *testing.T) {
	s := setup(t)
	tulle, err := s.ListByCategory(context.Background(), domain.CategoryTulle)
	if err != nil {
		t.Fatal(err)
	}
	if len(tulle) != 3 {
		t.Fatalf("expected 3 tulle products, got %v", ids(tulle))
	}
	for _, p := range tulle {
		if p.Category != domain.CategoryTulle {
			t.Fatalf("product %s is %s", p.ID, p.Category)
		}
	}
}

func TestStore_FeaturedAndNew(t *testing.T) {
	s := setup(t)
	ctx := context.Background()
	featured, _ := s.ListFeatured(ctx)
	if got := ids(featured); len(got) != 4 || got[0] != "1" || got[3] != "10" {
		t.Fatalf("featured: %v", got)
	}
	fresh, _ := s.ListNew(ctx)
	if got := ids(fresh); len(got) != 2 || got[0] != "2" || got[1] != "6" {
		t.Fatalf("new: %v", got)
	}
}

func TestStore_GetProduct(t *testing.T) {
	s := setup(t)
	ctx := context.Background()
	p, err := s.GetProduct(ctx, "4")
	if err != nil || p.Name != "Оксамитові штори 'Імперіал'" {
		t.Fatalf("get: %v %+v", err, p)
	}
	if _, err := s.GetProduct(ctx, "404"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetCategory(ctx, "sofas"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for category, got %v", err)
	}
}

func TestStore_Related(t *testing.T) {
	s := setup(t)
	related, err := s.Related(context.Background(), "1", 4)
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(related); len(got) != 3 || got[0] != "4" || got[1] != "7" || got[2] != "10" {
		t.Fatalf("related: %v", got)
	}
	two, _ := s.Related(context.Background(), "1", 2)
	if len(two) != 2 {
		t.Fatalf("limit not applied: %v", ids(two))
	}
}

func TestQuery_FilterAndSort(t *testing.T) {
	s := setup(t)
	curtains, _ := s.ListByCategory(context.Background(), domain.CategoryCurtains)

	if subs := Subcategories(curtains); len(subs) != 4 || subs[0] != "Класичні" {
		t.Fatalf("subcategories: %v", subs)
	}

	byPrice := Query{Sort: SortPriceLowHigh}.Apply(curtains)
	if got := ids(byPrice); got[0] != "7" || got[len(got)-1] != "4" {
		t.Fatalf("price low-high: %v", got)
	}
	desc := Query{Sort: SortPriceHighLow}.Apply(curtains)
	if desc[0].ID != "4" {
		t.Fatalf("price high-low: %v", ids(desc))
	}

	hi := decimal.NewFromInt(1300)
	cheap := Query{MaxPrice: &hi, Subcategories: []string{"Класичні", "Натуральні"}}.Apply(curtains)
	if got := ids(cheap); len(got) != 2 || got[0] != "1" || got[1] != "7" {
		t.Fatalf("filtered: %v", got)
	}

	lo, top := PriceRange(curtains)
	if !lo.Equal(decimal.NewFromInt(1199)) || !top.Equal(decimal.NewFromInt(1599)) {
		t.Fatalf("price range %s..%s", lo, top)
	}
}

func TestQuery_NameSortUsesUkrainianCollation(t *testing.T) {
	list := []domain.Product{
		{ID: "a", Name: "Ґудзики"},
		{ID: "b", Name: "Гардини"},
		{ID: "c", Name: "Їжачок"},
		{ID: "d", Name: "Іграшка"},
		{ID: "e", Name: "Абажур"},
	}
	got := ids(Query{Sort: SortNameAZ}.Apply(list))
	want := []string{"e", "b", "a", "d", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("name a-z: got %v want %v", got, want)
		}
	}
	rev := ids(Query{Sort: SortNameZA}.Apply(list))
	if rev[0] != "c" || rev[4] != "e" {
		t.Fatalf("name z-a: %v", rev)
	}
}

func TestParseSortOrder(t *testing.T) {
	if o, err := ParseSortOrder(""); err != nil || o != SortFeatured {
		t.Fatalf("default sort: %v %v", o, err)
	}
	if _, err := ParseSortOrder("random"); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestParseFixture_RejectsInvalidProduct(t *testing.T) {
	doc := []byte(`
products:
  - id: "1"
    name: Штори
    price: 100
    category: sofas
`)
	if _, err := ParseFixture(doc); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestRemoteSource_CategoriesWithProducts(t *testing.T) {
	ctx := context.Background()
	f, _ := LoadFixture()
	cats, _ := f.Categories(ctx)

	repo := repository.NewMemoryStore()
	p := domain.Product{Name: "Тюль", Price: decimal.NewFromInt(500), Category: domain.CategoryTulle}
	if err := repo.Create(ctx, &p); err != nil {
		t.Fatal(err)
	}
	s := NewStore(NewRemoteSource(repo, cats))
	got, err := s.ListCategories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != domain.CategoryTulle {
		t.Fatalf("categories: %+v", got)
	}
	list, _ := s.ListProducts(ctx)
	if len(list) != 1 || list[0].ID != p.ID {
		t.Fatalf("products: %+v", list)
	}
}
