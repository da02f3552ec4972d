package iproductrepo

import (
	"context"

	"github.com/gmarket/export-svc/internal/service/models/product"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IProductRepository defines read access to the product catalog.
type IProductRepository interface {
	// FindByIDs batch-fetches products by id. Missing ids are simply absent
	// from the result map.
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]product.Product, error)
}
