package catalog

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// Store каталог только для чтения поверх Source
type Store struct {
	src Source
}

func NewStore(src Source) *Store {
	return &Store{src: src}
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.src.Products(ctx)
}

// GetProduct возвращает repository.ErrNotFound, если товара нет
func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	list, err := s.src.Products(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) ListByCategory(ctx context.Context, category domain.CategoryID) ([]domain.Product, error) {
	return s.filter(ctx, func(p domain.Product) bool { return p.Category == category })
}

func (s *Store) ListFeatured(ctx context.Context) ([]domain.Product, error) {
	return s.filter(ctx, func(p domain.Product) bool { return p.IsFeatured })
}

func (s *Store) ListNew(ctx context.Context) ([]domain.Product, error) {
	return s.filter(ctx, func(p domain.Product) bool { return p.IsNew })
}

func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.src.Categories(ctx)
}

// GetCategory ищет категорию по id
func (s *Store) GetCategory(ctx context.Context, id domain.CategoryID) (*domain.Category, error) {
	list, err := s.src.Categories(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range list {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

// Related до n других товаров той же категории
func (s *Store) Related(ctx context.Context, id string, n int) ([]domain.Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := s.filter(ctx, func(o domain.Product) bool { return o.Category == p.Category && o.ID != p.ID })
	if err != nil {
		return nil, err
	}
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *Store) filter(ctx context.Context, keep func(domain.Product) bool) ([]domain.Product, error) {
	list, err := s.src.Products(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(list))
	for _, p := range list {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out, nil
}
