package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront/internal/domain"
)

type record[T any] struct {
	v   T
	seq int64
}

// MemoryStore объединённое in-memory хранилище товаров, отзывов и заказов
type MemoryStore struct {
	mu       sync.RWMutex
	seq      int64
	now      func() time.Time
	products map[string]record[domain.Product]
	reviews  map[string]record[domain.Review]
	orders   map[string]record[domain.Order]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:      func() time.Time { return time.Now().UTC() },
		products: make(map[string]record[domain.Product]),
		reviews:  make(map[string]record[domain.Review]),
		orders:   make(map[string]record[domain.Order]),
	}
}

// transaction-aware locking helpers
type txKey struct{}

func isTx(ctx context.Context) bool {
	v := ctx.Value(txKey{})
	if v == nil {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func (m *MemoryStore) rlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RLock()
	}
}
func (m *MemoryStore) runlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RUnlock()
	}
}
func (m *MemoryStore) wlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Lock()
	}
}
func (m *MemoryStore) wunlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Unlock()
	}
}

func (m *MemoryStore) nextSeq() int64 {
	m.seq++
	return m.seq
}

// newestFirst сортирует записи по времени создания, при равенстве по порядку вставки
func newestFirst[T any](recs []record[T], createdAt func(T) time.Time) []T {
	sort.Slice(recs, func(i, j int) bool {
		ti, tj := createdAt(recs[i].v), createdAt(recs[j].v)
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return recs[i].seq > recs[j].seq
	})
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.v)
	}
	return out
}

// Ensure interfaces
var _ ProductRepository = (*MemoryStore)(nil)

// ProductRepository implementation
func (m *MemoryStore) Create(ctx context.Context, p *domain.Product) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if p.ID == "" {
		p.ID = uuid.NewString()
	} else if _, ok := m.products[p.ID]; ok {
		return ErrConflict
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = m.now()
	}
	m.products[p.ID] = record[domain.Product]{v: *p, seq: m.nextSeq()}
	return nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	r, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	// return copy
	cp := r.v
	return &cp, nil
}

func (m *MemoryStore) Update(ctx context.Context, p *domain.Product) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	r, ok := m.products[p.ID]
	if !ok {
		return ErrNotFound
	}
	p.CreatedAt = r.v.CreatedAt
	r.v = *p
	m.products[p.ID] = r
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.products[id]; !ok {
		return ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *MemoryStore) DeleteAll(ctx context.Context) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	clear(m.products)
	return nil
}

func (m *MemoryStore) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	recs := make([]record[domain.Product], 0, len(m.products))
	for _, r := range m.products {
		if f.Match(r.v) {
			recs = append(recs, r)
		}
	}
	return newestFirst(recs, func(p domain.Product) time.Time { return p.CreatedAt }), nil
}

// ReviewRepository implementation on wrapper type
type MemoryReviews struct{ store *MemoryStore }

func NewMemoryReviews(store *MemoryStore) *MemoryReviews { return &MemoryReviews{store: store} }

var _ ReviewRepository = (*MemoryReviews)(nil)

func (mr *MemoryReviews) Create(ctx context.Context, r *domain.Review) error {
	mr.store.wlock(ctx)
	defer mr.store.wunlock(ctx)
	r.ID = uuid.NewString()
	r.CreatedAt = mr.store.now()
	mr.store.reviews[r.ID] = record[domain.Review]{v: *r, seq: mr.store.nextSeq()}
	return nil
}

func (mr *MemoryReviews) Delete(ctx context.Context, id string) error {
	mr.store.wlock(ctx)
	defer mr.store.wunlock(ctx)
	if _, ok := mr.store.reviews[id]; !ok {
		return ErrNotFound
	}
	delete(mr.store.reviews, id)
	return nil
}

func (mr *MemoryReviews) List(ctx context.Context, f ReviewFilter) ([]domain.Review, error) {
	mr.store.rlock(ctx)
	defer mr.store.runlock(ctx)
	recs := make([]record[domain.Review], 0, len(mr.store.reviews))
	for _, r := range mr.store.reviews {
		if f.ProductID != "" && r.v.ProductID != f.ProductID {
			continue
		}
		recs = append(recs, r)
	}
	return newestFirst(recs, func(r domain.Review) time.Time { return r.CreatedAt }), nil
}

// OrderRepository implementation on wrapper type
type MemoryOrders struct{ store *MemoryStore }

func NewMemoryOrders(store *MemoryStore) *MemoryOrders { return &MemoryOrders{store: store} }

var _ OrderRepository = (*MemoryOrders)(nil)

func (mo *MemoryOrders) Create(ctx context.Context, o *domain.Order) error {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	o.ID = uuid.NewString()
	o.Date = mo.store.now()
	mo.store.orders[o.ID] = record[domain.Order]{v: *o, seq: mo.store.nextSeq()}
	return nil
}

func (mo *MemoryOrders) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	r, ok := mo.store.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := r.v
	return &cp, nil
}

func (mo *MemoryOrders) List(ctx context.Context) ([]domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	recs := make([]record[domain.Order], 0, len(mo.store.orders))
	for _, r := range mo.store.orders {
		recs = append(recs, r)
	}
	return newestFirst(recs, func(o domain.Order) time.Time { return o.Date }), nil
}

// Tx manager using write lock to emulate transaction boundary
type MemoryTx struct{ store *MemoryStore }

func NewMemoryTx(store *MemoryStore) *MemoryTx { return &MemoryTx{store: store} }

func (tx *MemoryTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// помечаем контекст, чтобы репозитории пропускали внутренние локи
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	ctx = context.WithValue(ctx, txKey{}, true)
	return fn(ctx)
}
