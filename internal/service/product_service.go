package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

var ErrInvalidInput = errors.New("invalid input")

// ProductService инкапсулирует бизнес-логику вокруг товаров
type ProductService struct {
	repo repository.ProductRepository
	tx   repository.TxManager
}

func NewProductService(repo repository.ProductRepository, tx repository.TxManager) *ProductService {
	return &ProductService{repo: repo, tx: tx}
}

// Normalize правила формы товара: обрезает пробелы и отбрасывает пустые размеры
func Normalize(p domain.Product) domain.Product {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	p.Images = images
	variants := make([]domain.SizeVariant, 0, len(p.SizeVariants))
	for _, v := range p.SizeVariants {
		v.Size = strings.TrimSpace(v.Size)
		if v.Size == "" || !v.Price.IsPositive() {
			continue
		}
		variants = append(variants, v)
	}
	p.SizeVariants = variants
	return p
}

// ValidateForm проверка формы администратора
func ValidateForm(p domain.Product) error {
	switch {
	case utf8.RuneCountInString(p.Name) < 3:
		return fmt.Errorf("%w: name must be at least 3 characters", ErrInvalidInput)
	case !p.Price.IsPositive():
		return fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	case utf8.RuneCountInString(p.Description) < 10:
		return fmt.Errorf("%w: description must be at least 10 characters", ErrInvalidInput)
	case len(p.Images) == 0:
		return fmt.Errorf("%w: at least one image is required", ErrInvalidInput)
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func (s *ProductService) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	cp := Normalize(p)
	if err := ValidateForm(cp); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *ProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *ProductService) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if p.ID == "" {
		return nil, ErrInvalidInput
	}
	cp := Normalize(p)
	if err := ValidateForm(cp); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func (s *ProductService) DeleteAll(ctx context.Context) error {
	return s.repo.DeleteAll(ctx)
}

func (s *ProductService) List(ctx context.Context, f repository.ProductFilter) ([]domain.Product, error) {
	return s.repo.List(ctx, f)
}
