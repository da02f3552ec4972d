package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gmarket/export-svc/internal/service/models/export"
	"github.com/gmarket/export-svc/internal/service/models/money"
	"github.com/gmarket/export-svc/pkg/apperror"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "exports"

// ExportDal represents the export document as stored in MongoDB. Monetary
// amounts are persisted as int64 minor units so aggregations sum natively.
type ExportDal struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	UserID          primitive.ObjectID `bson:"user_id"`
	Items           []ExportItemDal    `bson:"export_items"`
	ShippingAddress ShippingAddressDal `bson:"shipping_address"`
	PaymentMethod   string             `bson:"payment_method"`

	ItemsPriceCents    int64 `bson:"items_price_cents"`
	ShippingPriceCents int64 `bson:"shipping_price_cents"`
	TaxPriceCents      int64 `bson:"tax_price_cents"`
	TotalPriceCents    int64 `bson:"total_price_cents"`

	IsPaid        bool              `bson:"is_paid"`
	PaidAt        *time.Time        `bson:"paid_at,omitempty"`
	PaymentResult *PaymentResultDal `bson:"payment_result,omitempty"`

	IsDelivered bool       `bson:"is_delivered"`
	DeliveredAt *time.Time `bson:"delivered_at,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// ExportItemDal represents one line item inside the export document.
type ExportItemDal struct {
	ProductID      primitive.ObjectID `bson:"product_id"`
	Name           string             `bson:"name"`
	Quantity       int                `bson:"quantity"`
	UnitPriceCents int64              `bson:"unit_price_cents"`
	Image          string             `bson:"image"`
}

// ShippingAddressDal represents the embedded shipping address.
type ShippingAddressDal struct {
	Address    string `bson:"address"`
	City       string `bson:"city"`
	PostalCode string `bson:"postal_code"`
	Country    string `bson:"country"`
}

// PaymentResultDal represents the embedded payment-provider payload.
type PaymentResultDal struct {
	ID         string `bson:"id"`
	Status     string `bson:"status"`
	UpdateTime string `bson:"update_time"`
	PayerEmail string `bson:"payer_email"`
}

// ToModel converts ExportDal to the service layer Export model.
func (d *ExportDal) ToModel() *export.Export {
	items := make([]export.ExportItem, len(d.Items))
	for i, item := range d.Items {
		items[i] = export.ExportItem{
			ProductID:      item.ProductID,
			Name:           item.Name,
			Quantity:       item.Quantity,
			UnitPriceCents: money.Cents(item.UnitPriceCents),
			Image:          item.Image,
		}
	}

	model := &export.Export{
		ID:     d.ID,
		UserID: d.UserID,
		Items:  items,
		ShippingAddress: export.ShippingAddress{
			Address:    d.ShippingAddress.Address,
			City:       d.ShippingAddress.City,
			PostalCode: d.ShippingAddress.PostalCode,
			Country:    d.ShippingAddress.Country,
		},
		PaymentMethod:      d.PaymentMethod,
		ItemsPriceCents:    money.Cents(d.ItemsPriceCents),
		ShippingPriceCents: money.Cents(d.ShippingPriceCents),
		TaxPriceCents:      money.Cents(d.TaxPriceCents),
		TotalPriceCents:    money.Cents(d.TotalPriceCents),
		IsPaid:             d.IsPaid,
		PaidAt:             d.PaidAt,
		IsDelivered:        d.IsDelivered,
		DeliveredAt:        d.DeliveredAt,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}

	if d.PaymentResult != nil {
		model.PaymentResult = &export.PaymentResult{
			ID:         d.PaymentResult.ID,
			Status:     d.PaymentResult.Status,
			UpdateTime: d.PaymentResult.UpdateTime,
			PayerEmail: d.PaymentResult.PayerEmail,
		}
	}

	return model
}

// ExportDalFromModel converts the service layer Export model to ExportDal.
func ExportDalFromModel(e *export.Export) *ExportDal {
	items := make([]ExportItemDal, len(e.Items))
	for i, item := range e.Items {
		items[i] = ExportItemDal{
			ProductID:      item.ProductID,
			Name:           item.Name,
			Quantity:       item.Quantity,
			UnitPriceCents: int64(item.UnitPriceCents),
			Image:          item.Image,
		}
	}

	dal := &ExportDal{
		ID:     e.ID,
		UserID: e.UserID,
		Items:  items,
		ShippingAddress: ShippingAddressDal{
			Address:    e.ShippingAddress.Address,
			City:       e.ShippingAddress.City,
			PostalCode: e.ShippingAddress.PostalCode,
			Country:    e.ShippingAddress.Country,
		},
		PaymentMethod:      e.PaymentMethod,
		ItemsPriceCents:    int64(e.ItemsPriceCents),
		ShippingPriceCents: int64(e.ShippingPriceCents),
		TaxPriceCents:      int64(e.TaxPriceCents),
		TotalPriceCents:    int64(e.TotalPriceCents),
		IsPaid:             e.IsPaid,
		PaidAt:             e.PaidAt,
		IsDelivered:        e.IsDelivered,
		DeliveredAt:        e.DeliveredAt,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}

	if e.PaymentResult != nil {
		dal.PaymentResult = &PaymentResultDal{
			ID:         e.PaymentResult.ID,
			Status:     e.PaymentResult.Status,
			UpdateTime: e.PaymentResult.UpdateTime,
			PayerEmail: e.PaymentResult.PayerEmail,
		}
	}

	return dal
}

// MongoExportRepository persists exports in MongoDB.
type MongoExportRepository struct {
	collection *mongo.Collection
}

func NewMongoExportRepository(db *mongo.Database) *MongoExportRepository {
	return &MongoExportRepository{
		collection: db.Collection(collectionName),
	}
}

// Insert persists a new export and returns it with the generated id.
func (r *MongoExportRepository) Insert(ctx context.Context, e export.Export) (export.Export, error) {
	dal := ExportDalFromModel(&e)

	res, err := r.collection.InsertOne(ctx, dal)
	if err != nil {
		return export.Export{}, fmt.Errorf("failed to insert export: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		e.ID = id
	}

	return e, nil
}

// FindByID returns one export or a not-found error.
func (r *MongoExportRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*export.Export, error) {
	var dal ExportDal
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&dal)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFoundf("export not found: %s", id.Hex())
		}

		return nil, fmt.Errorf("failed to find export: %w", err)
	}

	return dal.ToModel(), nil
}

// Query retrieves exports matching the filter.
func (r *MongoExportRepository) Query(ctx context.Context, filter *export.QueryExportsModel) ([]export.Export, error) {
	query := bson.M{}
	if len(filter.UserIDs) > 0 {
		query["user_id"] = bson.M{"$in": filter.UserIDs}
	}

	opts := options.Find()
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query exports: %w", err)
	}
	defer cursor.Close(ctx)

	result := []export.Export{}
	for cursor.Next(ctx) {
		var dal ExportDal
		if err := cursor.Decode(&dal); err != nil {
			return nil, fmt.Errorf("failed to decode export: %w", err)
		}
		result = append(result, *dal.ToModel())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor iteration error: %w", err)
	}

	return result, nil
}

// Count returns the total number of exports.
func (r *MongoExportRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count exports: %w", err)
	}

	return count, nil
}

// TotalSales sums total_price_cents across all exports.
func (r *MongoExportRepository) TotalSales(ctx context.Context) (money.Cents, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":               nil,
			"total_sales_cents": bson.M{"$sum": "$total_price_cents"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate total sales: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		TotalSalesCents int64 `bson:"total_sales_cents"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("failed to decode total sales: %w", err)
	}

	if len(results) == 0 {
		return 0, nil
	}

	return money.Cents(results[0].TotalSalesCents), nil
}

// SalesByDate groups paid exports by the calendar day of paid_at and sums
// total_price_cents per group. Group order is whatever the server returns.
func (r *MongoExportRepository) SalesByDate(ctx context.Context) ([]export.DailySales, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"is_paid": true}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$paid_at"},
			},
			"total_sales_cents": bson.M{"$sum": "$total_price_cents"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sales by date: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Date            string `bson:"_id"`
		TotalSalesCents int64  `bson:"total_sales_cents"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode sales by date: %w", err)
	}

	result := make([]export.DailySales, len(rows))
	for i, row := range rows {
		result[i] = export.DailySales{
			Date:            row.Date,
			TotalSalesCents: money.Cents(row.TotalSalesCents),
		}
	}

	return result, nil
}

// SetPaid atomically marks an export paid, recording the payment result.
// Repeated calls overwrite paid_at and payment_result.
func (r *MongoExportRepository) SetPaid(
	ctx context.Context,
	id primitive.ObjectID,
	result export.PaymentResult,
	paidAt time.Time,
) (*export.Export, error) {
	update := bson.M{"$set": bson.M{
		"is_paid": true,
		"paid_at": paidAt,
		"payment_result": PaymentResultDal{
			ID:         result.ID,
			Status:     result.Status,
			UpdateTime: result.UpdateTime,
			PayerEmail: result.PayerEmail,
		},
		"updated_at": paidAt,
	}}

	return r.findOneAndUpdate(ctx, id, update)
}

// SetDelivered atomically marks an export delivered.
func (r *MongoExportRepository) SetDelivered(
	ctx context.Context,
	id primitive.ObjectID,
	deliveredAt time.Time,
) (*export.Export, error) {
	update := bson.M{"$set": bson.M{
		"is_delivered": true,
		"delivered_at": deliveredAt,
		"updated_at":   deliveredAt,
	}}

	return r.findOneAndUpdate(ctx, id, update)
}

func (r *MongoExportRepository) findOneAndUpdate(
	ctx context.Context,
	id primitive.ObjectID,
	update bson.M,
) (*export.Export, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var dal ExportDal
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&dal)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFoundf("export not found: %s", id.Hex())
		}

		return nil, fmt.Errorf("failed to update export: %w", err)
	}

	return dal.ToModel(), nil
}
