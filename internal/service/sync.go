package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// SyncReport итог синхронизации каталога с таблицей товаров
type SyncReport struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Deleted  int `json:"deleted"`
}

// SyncProducts приводит удалённую таблицу к локальному списку. Товары
// сопоставляются по имени: новые вставляются с новым uuid, найденные
// обновляются, лишние удаляются. Всё выполняется в одной транзакции.
func (s *ProductService) SyncProducts(ctx context.Context, local []domain.Product) (SyncReport, error) {
	var report SyncReport
	for _, p := range local {
		if err := p.Validate(); err != nil {
			return report, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		report = SyncReport{}
		remote, err := s.repo.List(ctx, repository.ProductFilter{})
		if err != nil {
			return fmt.Errorf("fetch products: %w", err)
		}
		byName := make(map[string]domain.Product, len(remote))
		for _, p := range remote {
			byName[p.Name] = p
		}

		keep := make(map[string]bool, len(local))
		for _, p := range local {
			p = prepareForSync(p)
			if existing, ok := byName[p.Name]; ok {
				p.ID = existing.ID
				if err := s.repo.Update(ctx, &p); err != nil {
					return fmt.Errorf("update product %q: %w", p.Name, err)
				}
				report.Updated++
			} else {
				p.ID = uuid.NewString()
				if err := s.repo.Create(ctx, &p); err != nil {
					return fmt.Errorf("insert product %q: %w", p.Name, err)
				}
				report.Inserted++
			}
			keep[p.Name] = true
		}

		for _, p := range remote {
			if keep[p.Name] {
				continue
			}
			if err := s.repo.Delete(ctx, p.ID); err != nil {
				return fmt.Errorf("delete product %q: %w", p.Name, err)
			}
			report.Deleted++
		}
		return nil
	})
	return report, err
}

// prepareForSync убирает "/public/" из путей картинок и собирает характеристики
func prepareForSync(p domain.Product) domain.Product {
	images := make([]string, len(p.Images))
	for i, img := range p.Images {
		images[i] = strings.Replace(img, "/public/", "", 1)
	}
	p.Images = images
	p.Characteristics = p.CharacteristicLines()
	return p
}

// SeedReviews отзывы, которые должны быть в базе
var SeedReviews = []domain.Review{
	{Name: "Анна", Rating: 5, Text: "Чудові штори! Якість матеріалу відмінна, пошиття професійне. Рекомендую!", Date: "15.03.2024"},
	{Name: "Марія", Rating: 5, Text: "Дуже задоволена покупкою. Швидка доставка, гарна комунікація з продавцем.", Date: "10.03.2024"},
	{Name: "Олександр", Rating: 5, Text: "Відмінний сервіс! Штори точно відповідають опису, якість на висоті.", Date: "05.03.2024"},
}

// SyncReviews добавляет отзывы из seed, которых ещё нет (по имени и тексту)
func (s *ReviewService) SyncReviews(ctx context.Context, seed []domain.Review) (int, error) {
	existing, err := s.repo.List(ctx, repository.ReviewFilter{})
	if err != nil {
		return 0, fmt.Errorf("fetch reviews: %w", err)
	}
	type key struct{ name, text string }
	have := make(map[key]bool, len(existing))
	for _, r := range existing {
		have[key{r.Name, r.Text}] = true
	}
	inserted := 0
	for _, r := range seed {
		if have[key{r.Name, r.Text}] {
			continue
		}
		if _, err := s.Create(ctx, r); err != nil {
			return inserted, fmt.Errorf("insert review by %s: %w", r.Name, err)
		}
		have[key{r.Name, r.Text}] = true
		inserted++
	}
	return inserted, nil
}
