package mongorepo

import (
	"context"
	"fmt"

	"github.com/gmarket/export-svc/internal/service/models/money"
	"github.com/gmarket/export-svc/internal/service/models/product"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const collectionName = "products"

// ProductDal represents the product document as stored in MongoDB.
type ProductDal struct {
	ID         primitive.ObjectID `bson:"_id"`
	Name       string             `bson:"name"`
	Image      string             `bson:"image"`
	PriceCents int64              `bson:"price_cents"`
}

// ToModel converts ProductDal to the service layer Product model.
func (d *ProductDal) ToModel() *product.Product {
	return &product.Product{
		ID:         d.ID,
		Name:       d.Name,
		Image:      d.Image,
		PriceCents: money.Cents(d.PriceCents),
	}
}

// MongoProductRepository reads the product catalog from MongoDB.
type MongoProductRepository struct {
	collection *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{
		collection: db.Collection(collectionName),
	}
}

// FindByIDs batch-fetches products by id. Missing ids are simply absent from
// the result map.
func (r *MongoProductRepository) FindByIDs(
	ctx context.Context,
	ids []primitive.ObjectID,
) (map[primitive.ObjectID]product.Product, error) {
	if len(ids) == 0 {
		return map[primitive.ObjectID]product.Product{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cursor.Close(ctx)

	result := make(map[primitive.ObjectID]product.Product, len(ids))
	for cursor.Next(ctx) {
		var dal ProductDal
		if err := cursor.Decode(&dal); err != nil {
			return nil, fmt.Errorf("failed to decode product: %w", err)
		}
		result[dal.ID] = *dal.ToModel()
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor iteration error: %w", err)
	}

	return result, nil
}
