// Package admin панель администратора: списки товаров и отзывов поверх
// удалённых репозиториев с уведомлениями об успехе и ошибках.
package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"storefront/internal/domain"
	"storefront/internal/localstore"
	"storefront/internal/notify"
	"storefront/internal/repository"
	"storefront/internal/service"
)

const imagesFolder = "products"

type sessionKey struct{}

// WithSession адресует уведомления панели конкретной сессии администратора
func WithSession(ctx context.Context, session string) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

func sessionFrom(ctx context.Context) string {
	s, _ := ctx.Value(sessionKey{}).(string)
	return s
}

// ProductsPanel локальный список меняется только после успешного удалённого вызова
type ProductsPanel struct {
	mu       sync.RWMutex
	items    []domain.Product
	svc      *service.ProductService
	images   repository.ImageStore
	cache    localstore.Store
	notifier notify.Notifier
	logger   *slog.Logger
}

func NewProductsPanel(svc *service.ProductService, images repository.ImageStore, cache localstore.Store, notifier notify.Notifier, logger *slog.Logger) *ProductsPanel {
	return &ProductsPanel{svc: svc, images: images, cache: cache, notifier: notifier, logger: logger}
}

// Refresh перечитывает товары; при ошибке остаётся последний сохранённый список
func (p *ProductsPanel) Refresh(ctx context.Context) ([]domain.Product, error) {
	list, err := p.svc.List(ctx, repository.ProductFilter{})
	if err != nil {
		p.fail(ctx, "fetch products", err, "Не вдалося завантажити товари")
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.items == nil {
			var cached []domain.Product
			if cerr := localstore.GetJSON(ctx, p.cache, localstore.AdminProductsKey, &cached); cerr == nil {
				p.items = cached
			}
		}
		return cloneList(p.items), err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = list
	p.persist(ctx)
	return cloneList(p.items), nil
}

func (p *ProductsPanel) List() []domain.Product {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return cloneList(p.items)
}

// Search подстрока без учёта регистра по имени и категории
func (p *ProductsPanel) Search(term string) []domain.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]domain.Product, 0, len(p.items))
	for _, it := range p.items {
		if term == "" ||
			strings.Contains(strings.ToLower(it.Name), term) ||
			strings.Contains(strings.ToLower(string(it.Category)), term) {
			out = append(out, it)
		}
	}
	return out
}

func (p *ProductsPanel) Create(ctx context.Context, in domain.Product) (*domain.Product, error) {
	in.ID = ""
	created, err := p.svc.Create(ctx, in)
	if err != nil {
		p.fail(ctx, "create product", err, "Не вдалося додати товар")
		return nil, err
	}
	p.mu.Lock()
	p.items = append([]domain.Product{*created}, p.items...)
	p.persist(ctx)
	p.mu.Unlock()
	notify.Success(ctx, p.notifier, sessionFrom(ctx), "Товар додано")
	return created, nil
}

func (p *ProductsPanel) Update(ctx context.Context, in domain.Product) (*domain.Product, error) {
	updated, err := p.svc.Update(ctx, in)
	if err != nil {
		p.fail(ctx, "update product", err, "Не вдалося оновити товар")
		return nil, err
	}
	p.mu.Lock()
	replaced := false
	for i := range p.items {
		if p.items[i].ID == updated.ID {
			p.items[i] = *updated
			replaced = true
			break
		}
	}
	if !replaced {
		p.items = append([]domain.Product{*updated}, p.items...)
	}
	p.persist(ctx)
	p.mu.Unlock()
	notify.Success(ctx, p.notifier, sessionFrom(ctx), "Товар оновлено")
	return updated, nil
}

func (p *ProductsPanel) Delete(ctx context.Context, id string) error {
	if err := p.svc.Delete(ctx, id); err != nil {
		p.fail(ctx, "delete product", err, "Не вдалося видалити товар")
		return err
	}
	p.mu.Lock()
	for i := range p.items {
		if p.items[i].ID == id {
			p.items = append(p.items[:i], p.items[i+1:]...)
			break
		}
	}
	p.persist(ctx)
	p.mu.Unlock()
	notify.Success(ctx, p.notifier, sessionFrom(ctx), "Товар видалено")
	return nil
}

func (p *ProductsPanel) DeleteAll(ctx context.Context) error {
	if err := p.svc.DeleteAll(ctx); err != nil {
		p.fail(ctx, "delete all products", err, "Не вдалося видалити товари")
		return err
	}
	p.mu.Lock()
	p.items = nil
	p.persist(ctx)
	p.mu.Unlock()
	notify.Success(ctx, p.notifier, sessionFrom(ctx), "Усі товари видалено")
	return nil
}

// Sync приводит удалённую таблицу к переданному списку и перечитывает её
func (p *ProductsPanel) Sync(ctx context.Context, local []domain.Product) (service.SyncReport, error) {
	report, err := p.svc.SyncProducts(ctx, local)
	if err != nil {
		p.fail(ctx, "sync products", err, "Не вдалося синхронізувати товари")
		return report, err
	}
	if _, err := p.Refresh(ctx); err != nil {
		return report, err
	}
	p.logger.Info("products synced", "inserted", report.Inserted, "updated", report.Updated, "deleted", report.Deleted)
	notify.Success(ctx, p.notifier, sessionFrom(ctx), "Товари успішно синхронізовано")
	return report, nil
}

// UploadImage сохраняет картинку товара и возвращает публичную ссылку
func (p *ProductsPanel) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	url, err := p.images.Upload(ctx, imagesFolder, filename, r)
	if err != nil {
		p.fail(ctx, "upload image", err, "Не вдалося завантажити зображення")
		return "", err
	}
	return url, nil
}

func (p *ProductsPanel) DeleteImage(ctx context.Context, ref string) error {
	if err := p.images.Delete(ctx, ref); err != nil {
		p.fail(ctx, "delete image", err, "Не вдалося видалити зображення")
		return err
	}
	return nil
}

// persist вызывается под p.mu; ошибка кэша не мешает операции
func (p *ProductsPanel) persist(ctx context.Context) {
	items := p.items
	if items == nil {
		items = []domain.Product{}
	}
	if err := localstore.SetJSON(ctx, p.cache, localstore.AdminProductsKey, items); err != nil {
		p.logger.Warn("cache admin products", "error", err)
	}
}

func (p *ProductsPanel) fail(ctx context.Context, op string, err error, msg string) {
	p.logger.Error(op, "error", err)
	notify.Error(ctx, p.notifier, sessionFrom(ctx), "Помилка", describe(err, msg))
}

// describe текст ошибки для уведомления: причина валидации или общее сообщение
func describe(err error, fallback string) string {
	if errors.Is(err, service.ErrInvalidInput) || errors.Is(err, domain.ErrInvalid) {
		return fmt.Sprintf("%s: %v", fallback, err)
	}
	return fallback
}

func cloneList(in []domain.Product) []domain.Product {
	out := make([]domain.Product, len(in))
	copy(out, in)
	return out
}
