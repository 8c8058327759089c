package admin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"storefront/internal/domain"
	"storefront/internal/notify"
	"storefront/internal/service"
)

type ReviewsPanel struct {
	mu       sync.RWMutex
	items    []domain.Review
	svc      *service.ReviewService
	notifier notify.Notifier
	logger   *slog.Logger
}

func NewReviewsPanel(svc *service.ReviewService, notifier notify.Notifier, logger *slog.Logger) *ReviewsPanel {
	return &ReviewsPanel{svc: svc, notifier: notifier, logger: logger}
}

func (p *ReviewsPanel) Refresh(ctx context.Context) ([]domain.Review, error) {
	list, err := p.svc.List(ctx, "")
	if err != nil {
		p.fail(ctx, "fetch reviews", err, "Не вдалося завантажити відгуки")
		return p.List(), err
	}
	p.mu.Lock()
	p.items = list
	p.mu.Unlock()
	return p.List(), nil
}

func (p *ReviewsPanel) List() []domain.Review {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]domain.Review, len(p.items))
	copy(out, p.items)
	return out
}

// Search по имени автора и тексту
func (p *ReviewsPanel) Search(term string) []domain.Review {
	term = strings.ToLower(strings.TrimSpace(term))
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]domain.Review, 0, len(p.items))
	for _, r := range p.items {
		if term == "" ||
			strings.Contains(strings.ToLower(r.Name), term) ||
			strings.Contains(strings.ToLower(r.Text), term) {
			out = append(out, r)
		}
	}
	return out
}

// Create в форме админки оценка обязательна
func (p *ReviewsPanel) Create(ctx context.Context, in domain.Review) (*domain.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		err := fmt.Errorf("%w: rating must be between 1 and 5", service.ErrInvalidInput)
		p.fail(ctx, "create review", err, "Не вдалося додати відгук")
		return nil, err
	}
	created, err := p.svc.Create(ctx, in)
	if err != nil {
		p.fail(ctx, "create review", err, "Не вдалося додати відгук")
		return nil, err
	}
	p.mu.Lock()
	p.items = append([]domain.Review{*created}, p.items...)
	p.mu.Unlock()
	notify.Success(ctx, p.notifier, sessionFrom(ctx), "Відгук додано")
	return created, nil
}

func (p *ReviewsPanel) Delete(ctx context.Context, id string) error {
	if err := p.svc.Delete(ctx, id); err != nil {
		p.fail(ctx, "delete review", err, "Не вдалося видалити відгук")
		return err
	}
	p.mu.Lock()
	for i := range p.items {
		if p.items[i].ID == id {
			p.items = append(p.items[:i], p.items[i+1:]...)
			break
		}
	}
	p.mu.Unlock()
	notify.Success(ctx, p.notifier, sessionFrom(ctx), "Відгук видалено")
	return nil
}

// Sync досылает стартовые отзывы, которых ещё нет
func (p *ReviewsPanel) Sync(ctx context.Context) (int, error) {
	inserted, err := p.svc.SyncReviews(ctx, service.SeedReviews)
	if err != nil {
		p.fail(ctx, "sync reviews", err, "Не вдалося синхронізувати відгуки")
		return inserted, err
	}
	if _, err := p.Refresh(ctx); err != nil {
		return inserted, err
	}
	notify.Success(ctx, p.notifier, sessionFrom(ctx), "Відгуки успішно синхронізовано")
	return inserted, nil
}

func (p *ReviewsPanel) fail(ctx context.Context, op string, err error, msg string) {
	p.logger.Error(op, "error", err)
	notify.Error(ctx, p.notifier, sessionFrom(ctx), "Помилка", describe(err, msg))
}
