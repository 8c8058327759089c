package repository

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// ErrNotFound возвращается, когда сущность не найдена
var ErrNotFound = errors.New("not found")

// ErrConflict нарушение уникальности в хранилище
var ErrConflict = errors.New("conflict")

// ProductFilter параметры фильтрации списка товаров
type ProductFilter struct {
	Category      domain.CategoryID
	NameSubstring string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
}

func (f ProductFilter) Match(p domain.Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if !containsIgnoreCase(p.Name, f.NameSubstring) {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}

// ProductRepository таблица товаров; список отдаётся от новых к старым
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	List(ctx context.Context, f ProductFilter) ([]domain.Product, error)
}

// ReviewFilter пустой ProductID означает все отзывы
type ReviewFilter struct {
	ProductID string
}

// ReviewRepository отзывы, от новых к старым
type ReviewRepository interface {
	Create(ctx context.Context, r *domain.Review) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ReviewFilter) ([]domain.Review, error)
}

// OrderRepository заказы бэкенда
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
}

// TxManager абстракция транзакции. Для in-memory: глобальная блокировка записи.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ImageStore хранилище изображений товаров с публичными ссылками
type ImageStore interface {
	Upload(ctx context.Context, folder, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, ref string) error
}

// helper: case-insensitive contains
func containsIgnoreCase(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
