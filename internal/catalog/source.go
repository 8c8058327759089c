package catalog

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// Source откуда каталог берёт товары и категории
type Source interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

//go:embed fixture.yaml
var fixtureYAML []byte

type fixtureVariant struct {
	Size    string `yaml:"size"`
	Price   int64  `yaml:"price"`
	InStock bool   `yaml:"inStock"`
}

type fixtureProduct struct {
	ID           string           `yaml:"id"`
	Name         string           `yaml:"name"`
	Price        int64            `yaml:"price"`
	Category     string           `yaml:"category"`
	Subcategory  string           `yaml:"subcategory"`
	Images       []string         `yaml:"images"`
	Description  string           `yaml:"description"`
	Material     string           `yaml:"material"`
	Dimensions   string           `yaml:"dimensions"`
	Care         string           `yaml:"care"`
	Features     []string         `yaml:"features"`
	InStock      bool             `yaml:"inStock"`
	IsNew        bool             `yaml:"isNew"`
	IsFeatured   bool             `yaml:"isFeatured"`
	Discount     int              `yaml:"discount"`
	SizeVariants []fixtureVariant `yaml:"sizeVariants"`
}

type fixtureCategory struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	ImageURL    string `yaml:"imageUrl"`
	Featured    bool   `yaml:"featured"`
}

type fixtureDoc struct {
	Categories []fixtureCategory `yaml:"categories"`
	Products   []fixtureProduct  `yaml:"products"`
}

// Fixture статический каталог магазина
type Fixture struct {
	products   []domain.Product
	categories []domain.Category
}

var _ Source = (*Fixture)(nil)

// LoadFixture разбирает встроенный каталог
func LoadFixture() (*Fixture, error) {
	return ParseFixture(fixtureYAML)
}

// ParseFixture разбирает YAML-документ каталога, каждый товар проходит валидацию
func ParseFixture(data []byte) (*Fixture, error) {
	var doc fixtureDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog fixture: %w", err)
	}
	f := &Fixture{}
	for _, c := range doc.Categories {
		id, err := domain.ParseCategory(c.ID)
		if err != nil {
			return nil, fmt.Errorf("catalog fixture: %w", err)
		}
		f.categories = append(f.categories, domain.Category{
			ID: id, Name: c.Name, Description: c.Description, ImageURL: c.ImageURL, Featured: c.Featured,
		})
	}
	seen := make(map[string]bool, len(doc.Products))
	for _, fp := range doc.Products {
		p := fp.toDomain()
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("catalog fixture product %q: %w", fp.ID, err)
		}
		if p.ID == "" || seen[p.ID] {
			return nil, fmt.Errorf("catalog fixture: %w: duplicate or empty id %q", domain.ErrInvalid, p.ID)
		}
		seen[p.ID] = true
		f.products = append(f.products, p)
	}
	return f, nil
}

func (fp fixtureProduct) toDomain() domain.Product {
	p := domain.Product{
		ID:          fp.ID,
		Name:        fp.Name,
		Price:       decimal.NewFromInt(fp.Price),
		Category:    domain.CategoryID(fp.Category),
		Subcategory: fp.Subcategory,
		Images:      fp.Images,
		Description: fp.Description,
		Material:    fp.Material,
		Dimensions:  fp.Dimensions,
		Care:        fp.Care,
		Features:    fp.Features,
		InStock:     fp.InStock,
		IsNew:       fp.IsNew,
		IsFeatured:  fp.IsFeatured,
		Discount:    fp.Discount,
	}
	for _, v := range fp.SizeVariants {
		p.SizeVariants = append(p.SizeVariants, domain.SizeVariant{
			Size: v.Size, Price: decimal.NewFromInt(v.Price), InStock: v.InStock,
		})
	}
	return p
}

func (f *Fixture) Products(context.Context) ([]domain.Product, error) {
	return cloneProducts(f.products), nil
}

func (f *Fixture) Categories(context.Context) ([]domain.Category, error) {
	return append([]domain.Category(nil), f.categories...), nil
}

// RemoteSource читает товары из таблицы products
type RemoteSource struct {
	products   repository.ProductRepository
	categories []domain.Category
}

var _ Source = (*RemoteSource)(nil)

// NewRemoteSource categories: справочник, из которого отдаются только непустые разделы
func NewRemoteSource(products repository.ProductRepository, categories []domain.Category) *RemoteSource {
	return &RemoteSource{products: products, categories: categories}
}

func (r *RemoteSource) Products(ctx context.Context) ([]domain.Product, error) {
	list, err := r.products.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	return list, nil
}

func (r *RemoteSource) Categories(ctx context.Context) ([]domain.Category, error) {
	list, err := r.Products(ctx)
	if err != nil {
		return nil, err
	}
	present := make(map[domain.CategoryID]bool)
	for _, p := range list {
		present[p.Category] = true
	}
	out := make([]domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		if present[c.ID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func cloneProducts(in []domain.Product) []domain.Product {
	return append([]domain.Product(nil), in...)
}
