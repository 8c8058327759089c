package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// цены уходят клиенту числами, а не строками
	decimal.MarshalJSONWithoutQuotes = true
}

var ErrInvalid = errors.New("invalid")

var hundred = decimal.NewFromInt(100)

// CategoryID идентификатор категории каталога
type CategoryID string

const (
	CategoryCurtains    CategoryID = "curtains"
	CategoryTulle       CategoryID = "tulle"
	CategoryAccessories CategoryID = "accessories"
)

func (c CategoryID) Valid() bool {
	switch c {
	case CategoryCurtains, CategoryTulle, CategoryAccessories:
		return true
	}
	return false
}

// ParseCategory проверяет строку на принадлежность перечислению категорий
func ParseCategory(s string) (CategoryID, error) {
	c := CategoryID(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown category %q", ErrInvalid, s)
	}
	return c, nil
}

// Category раздел витрины
type Category struct {
	ID          CategoryID `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ImageURL    string     `json:"imageUrl"`
	Featured    bool       `json:"featured,omitempty"`
}

// SizeVariant вариант размера со своей ценой
type SizeVariant struct {
	Size    string          `json:"size"`
	Price   decimal.Decimal `json:"price"`
	InStock bool            `json:"inStock"`
}

// Product товар каталога
type Product struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	Category        CategoryID      `json:"category"`
	Subcategory     string          `json:"subcategory,omitempty"`
	Images          []string        `json:"images"`
	Description     string          `json:"description"`
	Material        string          `json:"material,omitempty"`
	Dimensions      string          `json:"dimensions,omitempty"`
	Care            string          `json:"care,omitempty"`
	Features        []string        `json:"features,omitempty"`
	// Characteristics подписанные строки для карточки товара
	Characteristics []string        `json:"characteristics,omitempty"`
	InStock         bool            `json:"inStock"`
	IsNew           bool            `json:"isNew,omitempty"`
	IsFeatured      bool            `json:"isFeatured,omitempty"`
	Discount        int             `json:"discount,omitempty"`
	SizeVariants    []SizeVariant   `json:"sizeVariants,omitempty"`
	CreatedAt       time.Time       `json:"createdAt,omitzero"`
}

// Validate проверяет инварианты товара; вызывается на каждой границе декодирования
func (p Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: product name is empty", ErrInvalid)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: product %q has negative price", ErrInvalid, p.Name)
	}
	if !p.Category.Valid() {
		return fmt.Errorf("%w: product %q has unknown category %q", ErrInvalid, p.Name, p.Category)
	}
	if p.Discount < 0 || p.Discount > 100 {
		return fmt.Errorf("%w: product %q discount %d out of range", ErrInvalid, p.Name, p.Discount)
	}
	for _, v := range p.SizeVariants {
		if v.Price.IsNegative() {
			return fmt.Errorf("%w: product %q size %q has negative price", ErrInvalid, p.Name, v.Size)
		}
	}
	return nil
}

// DiscountedPrice цена со скидкой, округлённая до гривны
func (p Product) DiscountedPrice() decimal.Decimal {
	if p.Discount <= 0 {
		return p.Price
	}
	off := p.Price.Mul(decimal.NewFromInt(int64(p.Discount))).Div(hundred)
	return p.Price.Sub(off).Round(0)
}

// CharacteristicLines строки "Матеріал: ...", "Розміри: ...", "Догляд: ..." для заполненных полей
func (p Product) CharacteristicLines() []string {
	var out []string
	for _, c := range []struct{ label, value string }{
		{"Матеріал", p.Material},
		{"Розміри", p.Dimensions},
		{"Догляд", p.Care},
	} {
		if c.value != "" {
			out = append(out, c.label+": "+c.value)
		}
	}
	return out
}

// DefaultVariant первый размер в наличии, иначе первый из списка
func (p Product) DefaultVariant() (SizeVariant, bool) {
	for _, v := range p.SizeVariants {
		if v.InStock {
			return v, true
		}
	}
	if len(p.SizeVariants) > 0 {
		return p.SizeVariants[0], true
	}
	return SizeVariant{}, false
}

// WithSize возвращает копию товара с ценой выбранного размера
func (p Product) WithSize(size string) (Product, error) {
	for _, v := range p.SizeVariants {
		if v.Size == size {
			p.Price = v.Price
			return p, nil
		}
	}
	return p, fmt.Errorf("%w: product %q has no size %q", ErrInvalid, p.Name, size)
}

// CartItem позиция корзины: снимок товара на момент добавления
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Size     string  `json:"selectedSize,omitempty"`
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order заказ бэкенда, после создания не меняется
type Order struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	UserName    string          `json:"userName"`
	UserAddress string          `json:"userAddress"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	Date        time.Time       `json:"date"`
}

func (o Order) Validate() error {
	switch {
	case o.ProductID == "":
		return fmt.Errorf("%w: productId is required", ErrInvalid)
	case o.UserName == "":
		return fmt.Errorf("%w: userName is required", ErrInvalid)
	case o.UserAddress == "":
		return fmt.Errorf("%w: userAddress is required", ErrInvalid)
	case o.Quantity < 1:
		return fmt.Errorf("%w: quantity must be positive", ErrInvalid)
	case o.TotalPrice.IsNegative():
		return fmt.Errorf("%w: totalPrice is negative", ErrInvalid)
	}
	return nil
}

// ReviewDateLayout формат даты отзыва (дд.мм.гггг)
const ReviewDateLayout = "02.01.2006"

// Review отзыв покупателя; редактирования нет
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId,omitempty"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

func (r Review) Validate() error {
	switch {
	case r.Name == "":
		return fmt.Errorf("%w: review author is required", ErrInvalid)
	case r.Text == "":
		return fmt.Errorf("%w: review text is required", ErrInvalid)
	case r.Rating < 1 || r.Rating > 5:
		return fmt.Errorf("%w: rating %d out of range", ErrInvalid, r.Rating)
	}
	return nil
}

// Session сессия администратора
type Session struct {
	UserID  string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}
