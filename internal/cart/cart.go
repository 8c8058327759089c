package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/localstore"
	"storefront/internal/notify"
)

var (
	FreeShippingThreshold = decimal.NewFromInt(1500)
	ShippingCost          = decimal.NewFromInt(100)
)

// Shipping стоимость доставки для суммы заказа
func Shipping(total decimal.Decimal) decimal.Decimal {
	if total.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	return ShippingCost
}

// Snapshot состояние корзины на момент чтения
type Snapshot struct {
	Items      []domain.CartItem `json:"items"`
	TotalItems int               `json:"totalItems"`
	TotalPrice decimal.Decimal   `json:"totalPrice"`
}

// Cart корзина одного клиента. Каждая мутация сохраняется в localstore
// и сериализуется мьютексом.
type Cart struct {
	mu       sync.Mutex
	key      string
	session  string
	items    []domain.CartItem
	store    localstore.Store
	notifier notify.Notifier
	logger   *slog.Logger
}

// Load восстанавливает корзину из хранилища. Повреждённые данные дают пустую корзину.
func Load(ctx context.Context, session string, store localstore.Store, notifier notify.Notifier, logger *slog.Logger) *Cart {
	c := &Cart{
		key:      localstore.CartKey(session),
		session:  session,
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
	var items []domain.CartItem
	err := localstore.GetJSON(ctx, store, c.key, &items)
	switch {
	case errors.Is(err, localstore.ErrNotFound):
	case err != nil:
		logger.Warn("discarding unreadable cart", "session", session, "error", err)
	default:
		for _, it := range items {
			if it.Quantity < 1 || it.Product.ID == "" || it.Product.Validate() != nil {
				logger.Warn("dropping invalid cart item", "session", session, "product", it.Product.ID)
				continue
			}
			c.items = append(c.items, it)
		}
	}
	return c
}

// Add кладёт товар в корзину; повторное добавление увеличивает количество
func (c *Cart) Add(ctx context.Context, p domain.Product, quantity int, size string) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		return fmt.Errorf("%w: product id is empty", domain.ErrInvalid)
	}
	if size != "" {
		sized, err := p.WithSize(size)
		if err != nil {
			return err
		}
		p = sized
	}
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].Product.ID == p.ID {
			c.items[i].Quantity += quantity
			c.persist(ctx)
			notify.Success(ctx, c.notifier, c.session, "Оновлено кількість: "+p.Name)
			return nil
		}
	}
	c.items = append(c.items, domain.CartItem{Product: p, Quantity: quantity, Size: size})
	c.persist(ctx)
	notify.Success(ctx, c.notifier, c.session, "Додано до кошика: "+p.Name)
	return nil
}

// Remove удаляет позицию; отсутствующий товар не ошибка
func (c *Cart) Remove(ctx context.Context, productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.persist(ctx)
			notify.Info(ctx, c.notifier, c.session, "Товар видалено з кошика")
			return
		}
	}
}

// UpdateQuantity количество меньше 1 игнорируется
func (c *Cart) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	if quantity < 1 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items[i].Quantity = quantity
			c.persist(ctx)
			return
		}
	}
}

func (c *Cart) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.persist(ctx)
	notify.Info(ctx, c.notifier, c.session, "Кошик очищено")
}

// Drain убирает оформленные позиции. Добавленное после снимка остаётся:
// у позиции вычитается только оформленное количество.
func (c *Cart) Drain(ctx context.Context, placed []domain.CartItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range placed {
		for i := range c.items {
			if c.items[i].Product.ID != p.Product.ID {
				continue
			}
			if c.items[i].Quantity > p.Quantity {
				c.items[i].Quantity -= p.Quantity
			} else {
				c.items = append(c.items[:i], c.items[i+1:]...)
			}
			break
		}
	}
	if len(c.items) == 0 {
		c.items = nil
	}
	c.persist(ctx)
}

func (c *Cart) Items() []domain.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.CartItem(nil), c.items...)
}

func (c *Cart) TotalItems() int {
	return c.Snapshot().TotalItems
}

func (c *Cart) TotalPrice() decimal.Decimal {
	return c.Snapshot().TotalPrice
}

func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{Items: make([]domain.CartItem, len(c.items)), TotalPrice: decimal.Zero}
	copy(s.Items, c.items)
	for _, it := range c.items {
		s.TotalItems += it.Quantity
		s.TotalPrice = s.TotalPrice.Add(it.LineTotal())
	}
	return s
}

// persist вызывается под c.mu; ошибка записи не откатывает изменение
func (c *Cart) persist(ctx context.Context) {
	items := c.items
	if items == nil {
		items = []domain.CartItem{}
	}
	if err := localstore.SetJSON(ctx, c.store, c.key, items); err != nil {
		c.logger.Error("persist cart", "session", c.session, "error", err)
	}
}

// Registry корзины по клиентским сессиям
type Registry struct {
	mu       sync.Mutex
	carts    map[string]*Cart
	store    localstore.Store
	notifier notify.Notifier
	logger   *slog.Logger
}

func NewRegistry(store localstore.Store, notifier notify.Notifier, logger *slog.Logger) *Registry {
	return &Registry{carts: make(map[string]*Cart), store: store, notifier: notifier, logger: logger}
}

// Lookup корзина сессии для чтения. Незарегистрированная сессия читается
// из хранилища и в реестр не попадает.
func (r *Registry) Lookup(ctx context.Context, session string) *Cart {
	r.mu.Lock()
	c, ok := r.carts[session]
	r.mu.Unlock()
	if ok {
		return c
	}
	return Load(ctx, session, r.store, r.notifier, r.logger)
}

// Len количество корзин в памяти
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.carts)
}

// Get корзина сессии для изменений, загружается при первом обращении
func (r *Registry) Get(ctx context.Context, session string) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.carts[session]; ok {
		return c
	}
	c := Load(ctx, session, r.store, r.notifier, r.logger)
	r.carts[session] = c
	return c
}
