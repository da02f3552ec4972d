package iexportrepo

import (
	"context"
	"time"

	"github.com/gmarket/export-svc/internal/service/models/export"
	"github.com/gmarket/export-svc/internal/service/models/money"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IExportRepository defines persistence operations over the exports
// collection.
type IExportRepository interface {
	// Insert persists a new export and returns it with the generated id.
	Insert(ctx context.Context, e export.Export) (export.Export, error)

	// FindByID returns one export or a not-found error.
	FindByID(ctx context.Context, id primitive.ObjectID) (*export.Export, error)

	// Query retrieves exports matching the filter.
	Query(ctx context.Context, filter *export.QueryExportsModel) ([]export.Export, error)

	// Count returns the total number of exports.
	Count(ctx context.Context) (int64, error)

	// TotalSales sums total_price_cents across all exports.
	TotalSales(ctx context.Context) (money.Cents, error)

	// SalesByDate groups paid exports by the calendar day of paid_at and
	// sums total_price_cents per group.
	SalesByDate(ctx context.Context) ([]export.DailySales, error)

	// SetPaid atomically marks an export paid, recording the payment result.
	// Returns the updated export or a not-found error.
	SetPaid(ctx context.Context, id primitive.ObjectID, result export.PaymentResult, paidAt time.Time) (*export.Export, error)

	// SetDelivered atomically marks an export delivered.
	// Returns the updated export or a not-found error.
	SetDelivered(ctx context.Context, id primitive.ObjectID, deliveredAt time.Time) (*export.Export, error)
}
