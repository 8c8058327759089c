package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

type ReviewStore struct {
	db *sql.DB
}

func NewReviewStore(db *sql.DB) *ReviewStore { return &ReviewStore{db: db} }

var _ repository.ReviewRepository = (*ReviewStore)(nil)

func (s *ReviewStore) Create(ctx context.Context, r *domain.Review) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	query := `
		INSERT INTO reviews (id, product_id, name, rating, text, date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := conn(ctx, s.db).QueryRowContext(ctx, query,
		r.ID, r.ProductID, r.Name, r.Rating, r.Text, r.Date,
	).Scan(&r.CreatedAt)
	if err != nil {
		return mapError("create review", err)
	}
	return nil
}

func (s *ReviewStore) Delete(ctx context.Context, id string) error {
	res, err := conn(ctx, s.db).ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return mapError("delete review", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *ReviewStore) List(ctx context.Context, f repository.ReviewFilter) ([]domain.Review, error) {
	query := `SELECT id, product_id, name, rating, text, date, created_at FROM reviews`
	var args []any
	if f.ProductID != "" {
		query += ` WHERE product_id = $1`
		args = append(args, f.ProductID)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := conn(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("list reviews", err)
	}
	defer rows.Close()

	out := make([]domain.Review, 0)
	for rows.Next() {
		var r domain.Review
		if err := rows.Scan(&r.ID, &r.ProductID, &r.Name, &r.Rating, &r.Text, &r.Date, &r.CreatedAt); err != nil {
			return nil, mapError("scan review", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list reviews", err)
	}
	return out, nil
}
