package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// reviewDoc поля совпадают с телом POST /api/reviews
type reviewDoc struct {
	ID         bson.ObjectID `bson:"_id"`
	ProductID  string        `bson:"productId"`
	UserName   string        `bson:"userName"`
	ReviewText string        `bson:"reviewText"`
	Rating     int           `bson:"rating"`
	Date       string        `bson:"date"`
	CreatedAt  time.Time     `bson:"createdAt"`
}

func (d reviewDoc) toDomain() domain.Review {
	return domain.Review{
		ID:        d.ID.Hex(),
		ProductID: d.ProductID,
		Name:      d.UserName,
		Rating:    d.Rating,
		Text:      d.ReviewText,
		Date:      d.Date,
		CreatedAt: d.CreatedAt,
	}
}

type ReviewStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewReviewStore(db *mongo.Database) *ReviewStore {
	return &ReviewStore{coll: db.Collection(reviewsCollection), now: func() time.Time { return time.Now().UTC() }}
}

var _ repository.ReviewRepository = (*ReviewStore)(nil)

func (s *ReviewStore) Create(ctx context.Context, r *domain.Review) error {
	doc := reviewDoc{
		ID:         bson.NewObjectID(),
		ProductID:  r.ProductID,
		UserName:   r.Name,
		ReviewText: r.Text,
		Rating:     r.Rating,
		Date:       r.Date,
		CreatedAt:  s.now(),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return mapError("create review", err)
	}
	r.ID = doc.ID.Hex()
	r.CreatedAt = doc.CreatedAt
	return nil
}

func (s *ReviewStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return mapError("delete review", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *ReviewStore) List(ctx context.Context, f repository.ReviewFilter) ([]domain.Review, error) {
	filter := bson.D{}
	if f.ProductID != "" {
		filter = bson.D{{Key: "productId", Value: f.ProductID}}
	}
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, mapError("list reviews", err)
	}
	var docs []reviewDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mapError("decode reviews", err)
	}
	out := make([]domain.Review, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
