package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

func setupOS(t *testing.T) *OrderService {
	t.Helper()
	return NewOrderService(repository.NewMemoryOrders(repository.NewMemoryStore()))
}

func TestOrder_Create_Get(t *testing.T) {
	ctx := context.Background()
	svc := setupOS(t)
	o, err := svc.CreateOrder(ctx, domain.Order{
		ProductID: "1", UserName: "Олена Коваль", UserAddress: "Київ, Хрещатик 1",
		Quantity: 2, TotalPrice: decimal.NewFromInt(2598),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.ID == "" || o.Date.IsZero() {
		t.Fatalf("id/date not assigned: %+v", o)
	}
	got, err := svc.GetOrder(ctx, o.ID)
	if err != nil || got.UserName != "Олена Коваль" {
		t.Fatalf("get: %v", err)
	}
	list, _ := svc.ListOrders(ctx)
	if len(list) != 1 {
		t.Fatalf("list: %d", len(list))
	}
}

func TestOrder_Create_Invalid(t *testing.T) {
	ctx := context.Background()
	svc := setupOS(t)
	bad := []domain.Order{
		{UserName: "a", UserAddress: "b", Quantity: 1},
		{ProductID: "1", UserAddress: "b", Quantity: 1},
		{ProductID: "1", UserName: "a", Quantity: 1},
		{ProductID: "1", UserName: "a", UserAddress: "b", Quantity: 0},
		{ProductID: "1", UserName: "a", UserAddress: "b", Quantity: 1, TotalPrice: decimal.NewFromInt(-1)},
	}
	for i, o := range bad {
		if _, err := svc.CreateOrder(ctx, o); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestOrder_Get_NotFound(t *testing.T) {
	svc := setupOS(t)
	if _, err := svc.GetOrder(context.Background(), ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty id: %v", err)
	}
	if _, err := svc.GetOrder(context.Background(), "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("missing: %v", err)
	}
}
