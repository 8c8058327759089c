package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/notify"
)

var (
	ErrNotConfirmation = errors.New("order can only be placed from the confirmation step")
	ErrEmptyCart       = errors.New("cart is empty")
)

// Step шаг оформления заказа
type Step int

const (
	StepDetails Step = iota
	StepShipping
	StepPayment
	StepConfirmation
)

var stepNames = [...]string{"details", "shipping", "payment", "confirmation"}

func (s Step) String() string {
	if s < StepDetails || s > StepConfirmation {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepNames[s]
}

func (s Step) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Step) UnmarshalText(b []byte) error {
	for i, name := range stepNames {
		if name == string(b) {
			*s = Step(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown checkout step %q", domain.ErrInvalid, b)
}

// OrderPlacer создаёт заказ на бэкенде
type OrderPlacer interface {
	CreateOrder(ctx context.Context, o domain.Order) (*domain.Order, error)
}

// Summary итог заказа
type Summary struct {
	Items    []domain.CartItem `json:"items"`
	Subtotal decimal.Decimal   `json:"subtotal"`
	Shipping decimal.Decimal   `json:"shipping"`
	Total    decimal.Decimal   `json:"total"`
}

// State снимок мастера для клиента
type State struct {
	Step    Step              `json:"step"`
	Form    Form              `json:"form"`
	Errors  map[string]string `json:"errors"`
	Summary Summary           `json:"summary"`
}

// Placement результат оформления
type Placement struct {
	Orders   []domain.Order `json:"orders"`
	Summary  Summary        `json:"summary"`
	Redirect string         `json:"redirect"`
}

// Flow пошаговое оформление заказа одной сессии:
// details -> shipping -> payment -> confirmation
type Flow struct {
	mu       sync.Mutex
	session  string
	step     Step
	form     Form
	errors   map[string]string
	cart     *cart.Cart
	placer   OrderPlacer
	notifier notify.Notifier
	logger   *slog.Logger
}

func NewFlow(session string, c *cart.Cart, placer OrderPlacer, notifier notify.Notifier, logger *slog.Logger) *Flow {
	return &Flow{
		session:  session,
		form:     NewForm(),
		errors:   map[string]string{},
		cart:     c,
		placer:   placer,
		notifier: notifier,
		logger:   logger,
	}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stateLocked()
}

func (f *Flow) stateLocked() State {
	errs := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		errs[k] = v
	}
	return State{Step: f.step, Form: f.form, Errors: errs, Summary: f.summary()}
}

func (f *Flow) summary() Summary {
	snap := f.cart.Snapshot()
	shipping := cart.Shipping(snap.TotalPrice)
	return Summary{
		Items:    snap.Items,
		Subtotal: snap.TotalPrice,
		Shipping: shipping,
		Total:    snap.TotalPrice.Add(shipping),
	}
}

// Update применяет изменения полей и снимает с них ошибки
func (f *Flow) Update(fields map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	next := f.form
	for k, v := range fields {
		if err := next.Set(k, v); err != nil {
			return err
		}
	}
	f.form = next
	for k := range fields {
		delete(f.errors, k)
	}
	return nil
}

// Next проверяет текущий шаг и переходит дальше. true означает переход
// (клиенту нужно прокрутить страницу наверх); на подтверждении всегда false.
func (f *Flow) Next() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	errs := Validate(f.step, f.form)
	f.errors = errs
	if len(errs) > 0 {
		return false
	}
	if f.step == StepConfirmation {
		return false
	}
	f.step++
	return true
}

// Prev всегда возвращает на шаг назад и сбрасывает ошибки
func (f *Flow) Prev() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step > StepDetails {
		f.step--
	}
	f.errors = map[string]string{}
}

// PlaceOrder создаёт по заказу на каждую позицию корзины, убирает из неё
// оформленное и сбрасывает мастер. При ошибке корзина не меняется.
func (f *Flow) PlaceOrder(ctx context.Context) (*Placement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepConfirmation {
		return nil, ErrNotConfirmation
	}
	sum := f.summary()
	if len(sum.Items) == 0 {
		return nil, ErrEmptyCart
	}

	orders := make([]domain.Order, 0, len(sum.Items))
	for _, it := range sum.Items {
		o, err := f.placer.CreateOrder(ctx, domain.Order{
			ProductID:   it.Product.ID,
			UserName:    f.form.UserName(),
			UserAddress: f.form.UserAddress(),
			Quantity:    it.Quantity,
			TotalPrice:  it.LineTotal(),
		})
		if err != nil {
			f.logger.Error("place order", "session", f.session, "product", it.Product.ID, "placed", len(orders), "error", err)
			notify.Error(ctx, f.notifier, f.session, "Помилка", "Не вдалося оформити замовлення")
			return nil, fmt.Errorf("place order for product %s: %w", it.Product.ID, err)
		}
		orders = append(orders, *o)
	}

	f.cart.Drain(ctx, sum.Items)
	notify.Success(ctx, f.notifier, f.session, "Замовлення успішно оформлено! Дякуємо за покупку.")
	f.logger.Info("order placed", "session", f.session, "orders", len(orders), "total", sum.Total.String())

	f.step = StepDetails
	f.form = NewForm()
	f.errors = map[string]string{}
	return &Placement{Orders: orders, Summary: sum, Redirect: "/"}, nil
}

// Sessions мастера оформления по клиентским сессиям
type Sessions struct {
	mu       sync.Mutex
	flows    map[string]*Flow
	carts    *cart.Registry
	placer   OrderPlacer
	notifier notify.Notifier
	logger   *slog.Logger
}

func NewSessions(carts *cart.Registry, placer OrderPlacer, notifier notify.Notifier, logger *slog.Logger) *Sessions {
	return &Sessions{flows: make(map[string]*Flow), carts: carts, placer: placer, notifier: notifier, logger: logger}
}

// Peek мастер сессии для чтения; новая сессия не регистрируется
func (s *Sessions) Peek(ctx context.Context, session string) *Flow {
	s.mu.Lock()
	f, ok := s.flows[session]
	s.mu.Unlock()
	if ok {
		return f
	}
	return NewFlow(session, s.carts.Lookup(ctx, session), s.placer, s.notifier, s.logger)
}

// Len количество мастеров в памяти
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.flows)
}

func (s *Sessions) Get(ctx context.Context, session string) *Flow {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.flows[session]; ok {
		return f
	}
	f := NewFlow(session, s.carts.Get(ctx, session), s.placer, s.notifier, s.logger)
	s.flows[session] = f
	return f
}
