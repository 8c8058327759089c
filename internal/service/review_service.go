package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// DefaultRating оценка отзыва, если покупатель её не указал
const DefaultRating = 5

// ReviewService отзывы: создание, список, удаление
type ReviewService struct {
	repo repository.ReviewRepository
	now  func() time.Time
}

func NewReviewService(repo repository.ReviewRepository) *ReviewService {
	return &ReviewService{repo: repo, now: time.Now}
}

// Create заполняет оценку и дату по умолчанию и сохраняет отзыв
func (s *ReviewService) Create(ctx context.Context, r domain.Review) (*domain.Review, error) {
	r.Name = strings.TrimSpace(r.Name)
	r.Text = strings.TrimSpace(r.Text)
	if r.Rating == 0 {
		r.Rating = DefaultRating
	}
	if r.Date == "" {
		r.Date = s.now().Format(domain.ReviewDateLayout)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	r.ID = ""
	if err := s.repo.Create(ctx, &r); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return &r, nil
}

// List отзывы товара; пустой productID: все отзывы
func (s *ReviewService) List(ctx context.Context, productID string) ([]domain.Review, error) {
	return s.repo.List(ctx, repository.ReviewFilter{ProductID: productID})
}

func (s *ReviewService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}
