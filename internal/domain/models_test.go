package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func validProduct() Product {
	return Product{
		ID:          "p1",
		Name:        "Штори",
		Price:       decimal.NewFromInt(1000),
		Category:    CategoryCurtains,
		Images:      []string{"a.jpg"},
		Description: "Щільні штори",
		InStock:     true,
	}
}

func TestProduct_Validate(t *testing.T) {
	cases := map[string]func(p *Product){
		"empty name":     func(p *Product) { p.Name = "" },
		"negative price": func(p *Product) { p.Price = decimal.NewFromInt(-1) },
		"bad category":   func(p *Product) { p.Category = "sofas" },
		"discount > 100": func(p *Product) { p.Discount = 101 },
		"variant price": func(p *Product) {
			p.SizeVariants = []SizeVariant{{Size: "150x270", Price: decimal.NewFromInt(-5)}}
		},
	}
	if err := validProduct().Validate(); err != nil {
		t.Fatalf("valid product: %v", err)
	}
	for name, mutate := range cases {
		p := validProduct()
		mutate(&p)
		if err := p.Validate(); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: expected ErrInvalid, got %v", name, err)
		}
	}
}

func TestProduct_DiscountedPrice(t *testing.T) {
	p := validProduct()
	p.Price = decimal.NewFromInt(1299)
	if !p.DiscountedPrice().Equal(p.Price) {
		t.Fatalf("no discount must keep price")
	}
	p.Discount = 15
	// 1299 - 194.85 = 1104.15
	if got := p.DiscountedPrice(); !got.Equal(decimal.NewFromInt(1104)) {
		t.Fatalf("discounted price %s", got)
	}
}

func TestProduct_DefaultVariant(t *testing.T) {
	p := validProduct()
	if _, ok := p.DefaultVariant(); ok {
		t.Fatalf("product without variants has no default")
	}
	p.SizeVariants = []SizeVariant{
		{Size: "S", Price: decimal.NewFromInt(500), InStock: false},
		{Size: "M", Price: decimal.NewFromInt(700), InStock: true},
	}
	v, ok := p.DefaultVariant()
	if !ok || v.Size != "M" {
		t.Fatalf("expected first in-stock variant, got %+v", v)
	}

	sized, err := p.WithSize("S")
	if err != nil || !sized.Price.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("with size: %v %s", err, sized.Price)
	}
	if _, err := p.WithSize("XL"); err == nil {
		t.Fatalf("expected error for unknown size")
	}
}

func TestParseCategory(t *testing.T) {
	if c, err := ParseCategory("tulle"); err != nil || c != CategoryTulle {
		t.Fatalf("parse tulle: %v", err)
	}
	if _, err := ParseCategory("Tulle"); err == nil {
		t.Fatalf("category ids are case sensitive")
	}
}

func TestPriceMarshalsAsNumber(t *testing.T) {
	b, err := json.Marshal(validProduct())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"price":1000`) {
		t.Fatalf("price should be a json number: %s", b)
	}
}

func TestOrderAndReview_Validate(t *testing.T) {
	o := Order{ProductID: "p1", UserName: "Іван", UserAddress: "Київ", Quantity: 1, TotalPrice: decimal.NewFromInt(10)}
	if err := o.Validate(); err != nil {
		t.Fatalf("valid order: %v", err)
	}
	o.Quantity = 0
	if err := o.Validate(); err == nil {
		t.Fatalf("zero quantity accepted")
	}

	r := Review{Name: "Анна", Text: "Чудово", Rating: 5}
	if err := r.Validate(); err != nil {
		t.Fatalf("valid review: %v", err)
	}
	r.Rating = 6
	if err := r.Validate(); err == nil {
		t.Fatalf("rating 6 accepted")
	}
}

func TestProduct_CharacteristicLines(t *testing.T) {
	p := Product{Material: "Блекаут", Dimensions: "150x270 см"}
	got := p.CharacteristicLines()
	if strings.Join(got, "|") != "Матеріал: Блекаут|Розміри: 150x270 см" {
		t.Fatalf("unexpected lines: %q", got)
	}
	if (Product{}).CharacteristicLines() != nil {
		t.Fatalf("empty product must have no lines")
	}
}
