package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

type orderDoc struct {
	ID          bson.ObjectID   `bson:"_id"`
	ProductID   string          `bson:"productId"`
	UserName    string          `bson:"userName"`
	UserAddress string          `bson:"userAddress"`
	Quantity    int             `bson:"quantity"`
	TotalPrice  bson.Decimal128 `bson:"totalPrice"`
	Date        time.Time       `bson:"date"`
	CreatedAt   time.Time       `bson:"createdAt"`
}

func (d orderDoc) toDomain() (domain.Order, error) {
	total, err := decimal.NewFromString(d.TotalPrice.String())
	if err != nil {
		return domain.Order{}, fmt.Errorf("order %s total price: %w", d.ID.Hex(), err)
	}
	return domain.Order{
		ID:          d.ID.Hex(),
		ProductID:   d.ProductID,
		UserName:    d.UserName,
		UserAddress: d.UserAddress,
		Quantity:    d.Quantity,
		TotalPrice:  total,
		Date:        d.Date,
	}, nil
}

type OrderStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewOrderStore(db *mongo.Database) *OrderStore {
	return &OrderStore{coll: db.Collection(ordersCollection), now: func() time.Time { return time.Now().UTC() }}
}

var _ repository.OrderRepository = (*OrderStore)(nil)

func (s *OrderStore) Create(ctx context.Context, o *domain.Order) error {
	total, err := bson.ParseDecimal128(o.TotalPrice.String())
	if err != nil {
		return fmt.Errorf("create order: total price: %w", err)
	}
	now := s.now()
	if o.Date.IsZero() {
		o.Date = now
	}
	doc := orderDoc{
		ID:          bson.NewObjectID(),
		ProductID:   o.ProductID,
		UserName:    o.UserName,
		UserAddress: o.UserAddress,
		Quantity:    o.Quantity,
		TotalPrice:  total,
		Date:        o.Date,
		CreatedAt:   now,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return mapError("create order", err)
	}
	o.ID = doc.ID.Hex()
	return nil
}

func (s *OrderStore) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc orderDoc
	if err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		return nil, mapError("get order", err)
	}
	o, err := doc.toDomain()
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *OrderStore) List(ctx context.Context) ([]domain.Order, error) {
	cursor, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, mapError("list orders", err)
	}
	var docs []orderDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mapError("decode orders", err)
	}
	out := make([]domain.Order, 0, len(docs))
	for _, d := range docs {
		o, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}
