package catalog

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"storefront/internal/domain"
)

type SortOrder string

const (
	SortFeatured     SortOrder = "featured"
	SortPriceLowHigh SortOrder = "price-low-high"
	SortPriceHighLow SortOrder = "price-high-low"
	SortNameAZ       SortOrder = "name-a-z"
	SortNameZA       SortOrder = "name-z-a"
)

func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(s); o {
	case "":
		return SortFeatured, nil
	case SortFeatured, SortPriceLowHigh, SortPriceHighLow, SortNameAZ, SortNameZA:
		return o, nil
	}
	return "", fmt.Errorf("%w: unknown sort %q", domain.ErrInvalid, s)
}

// Query фильтры и сортировка страницы категории
type Query struct {
	Subcategories []string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	Sort          SortOrder
}

// Apply фильтрует и сортирует копию списка; исходный порядок считается "рекомендуемым"
func (q Query) Apply(products []domain.Product) []domain.Product {
	subs := make(map[string]bool, len(q.Subcategories))
	for _, s := range q.Subcategories {
		subs[s] = true
	}
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if len(subs) > 0 && !subs[p.Subcategory] {
			continue
		}
		if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
			continue
		}
		if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortPriceLowHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case SortPriceHighLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price) })
	case SortNameAZ, SortNameZA:
		// collator is not safe for concurrent use, one per call
		col := collate.New(language.Ukrainian)
		desc := q.Sort == SortNameZA
		sort.SliceStable(out, func(i, j int) bool {
			c := col.CompareString(out[i].Name, out[j].Name)
			if desc {
				return c > 0
			}
			return c < 0
		})
	}
	return out
}

// Subcategories уникальные непустые подкатегории в порядке появления
func Subcategories(products []domain.Product) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range products {
		if p.Subcategory == "" || seen[p.Subcategory] {
			continue
		}
		seen[p.Subcategory] = true
		out = append(out, p.Subcategory)
	}
	return out
}

// PriceRange минимальная и максимальная цена списка
func PriceRange(products []domain.Product) (lo, hi decimal.Decimal) {
	for i, p := range products {
		if i == 0 || p.Price.LessThan(lo) {
			lo = p.Price
		}
		if i == 0 || p.Price.GreaterThan(hi) {
			hi = p.Price
		}
	}
	return lo, hi
}
