package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// characteristics JSONB-колонка с описательными полями товара
type characteristics struct {
	Material   string   `json:"material,omitempty"`
	Dimensions string   `json:"dimensions,omitempty"`
	Care       string   `json:"care,omitempty"`
	Features   []string `json:"features,omitempty"`
	Lines      []string `json:"lines,omitempty"`
}

type ProductStore struct {
	db *sql.DB
}

func NewProductStore(db *sql.DB) *ProductStore { return &ProductStore{db: db} }

var _ repository.ProductRepository = (*ProductStore)(nil)

const productColumns = `id, name, category, subcategory, price, description, in_stock, is_new,
	is_featured, discount, images, characteristics, size_variants, created_at`

func (s *ProductStore) Create(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	images, chars, variants, err := encodeProduct(p)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (id, name, category, subcategory, price, description, in_stock, is_new,
			is_featured, discount, images, characteristics, size_variants, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, COALESCE($14, NOW()))
		RETURNING created_at`

	var createdAt sql.NullTime
	if !p.CreatedAt.IsZero() {
		createdAt = sql.NullTime{Time: p.CreatedAt, Valid: true}
	}
	err = conn(ctx, s.db).QueryRowContext(ctx, query,
		p.ID, p.Name, p.Category, p.Subcategory, p.Price, p.Description, p.InStock, p.IsNew,
		p.IsFeatured, p.Discount, images, chars, variants, createdAt,
	).Scan(&p.CreatedAt)
	if err != nil {
		return mapError("create product", err)
	}
	return nil
}

func (s *ProductStore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(conn(ctx, s.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError("get product", err)
	}
	return p, nil
}

func (s *ProductStore) Update(ctx context.Context, p *domain.Product) error {
	images, chars, variants, err := encodeProduct(p)
	if err != nil {
		return err
	}

	query := `
		UPDATE products
		SET name = $2, category = $3, subcategory = $4, price = $5, description = $6, in_stock = $7,
			is_new = $8, is_featured = $9, discount = $10, images = $11, characteristics = $12,
			size_variants = $13
		WHERE id = $1
		RETURNING created_at`

	err = conn(ctx, s.db).QueryRowContext(ctx, query,
		p.ID, p.Name, p.Category, p.Subcategory, p.Price, p.Description, p.InStock, p.IsNew,
		p.IsFeatured, p.Discount, images, chars, variants,
	).Scan(&p.CreatedAt)
	if err != nil {
		return mapError("update product", err)
	}
	return nil
}

func (s *ProductStore) Delete(ctx context.Context, id string) error {
	res, err := conn(ctx, s.db).ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return mapError("delete product", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *ProductStore) DeleteAll(ctx context.Context) error {
	if _, err := conn(ctx, s.db).ExecContext(ctx, `DELETE FROM products`); err != nil {
		return mapError("delete all products", err)
	}
	return nil
}

func (s *ProductStore) List(ctx context.Context, f repository.ProductFilter) ([]domain.Product, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Category != "" {
		add("category = $%d", string(f.Category))
	}
	if f.NameSubstring != "" {
		add(`name ILIKE '%%' || $%d || '%%' ESCAPE '\'`, escapeLike(f.NameSubstring))
	}
	if f.MinPrice != nil {
		add("price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("price <= $%d", *f.MaxPrice)
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := conn(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("list products", err)
	}
	defer rows.Close()

	out := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, mapError("scan product", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list products", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (*domain.Product, error) {
	var (
		p                       domain.Product
		category                string
		images, chars, variants []byte
	)
	err := row.Scan(&p.ID, &p.Name, &category, &p.Subcategory, &p.Price, &p.Description, &p.InStock,
		&p.IsNew, &p.IsFeatured, &p.Discount, &images, &chars, &variants, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Category = domain.CategoryID(category)

	var c characteristics
	if err := json.Unmarshal(images, &p.Images); err != nil {
		return nil, fmt.Errorf("decode images of %s: %w", p.ID, err)
	}
	if err := json.Unmarshal(chars, &c); err != nil {
		return nil, fmt.Errorf("decode characteristics of %s: %w", p.ID, err)
	}
	if err := json.Unmarshal(variants, &p.SizeVariants); err != nil {
		return nil, fmt.Errorf("decode size variants of %s: %w", p.ID, err)
	}
	p.Material, p.Dimensions, p.Care, p.Features = c.Material, c.Dimensions, c.Care, c.Features
	p.Characteristics = c.Lines

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("product %s: %w", p.ID, err)
	}
	return &p, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike экранирует спецсимволы LIKE: подстрока ищется буквально
func escapeLike(s string) string { return likeEscaper.Replace(s) }

func encodeProduct(p *domain.Product) (images, chars, variants []byte, err error) {
	imgs := p.Images
	if imgs == nil {
		imgs = []string{}
	}
	if images, err = json.Marshal(imgs); err != nil {
		return nil, nil, nil, fmt.Errorf("encode images: %w", err)
	}
	c := characteristics{Material: p.Material, Dimensions: p.Dimensions, Care: p.Care, Features: p.Features, Lines: p.Characteristics}
	if chars, err = json.Marshal(c); err != nil {
		return nil, nil, nil, fmt.Errorf("encode characteristics: %w", err)
	}
	vs := p.SizeVariants
	if vs == nil {
		vs = []domain.SizeVariant{}
	}
	if variants, err = json.Marshal(vs); err != nil {
		return nil, nil, nil, fmt.Errorf("encode size variants: %w", err)
	}
	return images, chars, variants, nil
}
