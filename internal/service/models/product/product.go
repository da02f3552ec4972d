package product

import (
	"github.com/gmarket/export-svc/internal/service/models/money"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry. The export service treats the catalog as
// read-only: only the authoritative price is consumed at export creation.
type Product struct {
	ID         primitive.ObjectID `json:"id"`
	Name       string             `json:"name"`
	Image      string             `json:"image"`
	PriceCents money.Cents        `json:"price"`
}
