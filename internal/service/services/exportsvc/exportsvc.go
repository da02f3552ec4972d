package exportsvc

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gmarket/export-svc/internal/dal/interfaces/iexportrepo"
	"github.com/gmarket/export-svc/internal/dal/interfaces/ioutboxrepo"
	"github.com/gmarket/export-svc/internal/dal/interfaces/iproductrepo"
	"github.com/gmarket/export-svc/internal/dal/interfaces/iuserrepo"
	"github.com/gmarket/export-svc/internal/service/models/export"
	"github.com/gmarket/export-svc/internal/service/models/money"
	"github.com/gmarket/export-svc/internal/service/models/outbox"
	"github.com/gmarket/export-svc/internal/service/models/user"
	"github.com/gmarket/export-svc/pkg/apperror"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Routing keys for export lifecycle events.
const (
	RoutingKeyCreated   = "export.created"
	RoutingKeyPaid      = "export.paid"
	RoutingKeyDelivered = "export.delivered"
)

// ExportService is a service for managing exports.
type ExportService struct {
	exportRepo  iexportrepo.IExportRepository
	productRepo iproductrepo.IProductRepository
	userRepo    iuserrepo.IUserRepository
	outboxRepo  ioutboxrepo.IOutboxRepository
	exchange    string
}

// option is a function that configures the ExportService.
type option func(*ExportService)

// MustNewExportService creates a new ExportService.
func MustNewExportService(opts ...option) *ExportService {
	s := &ExportService{
		exchange: viper.GetString("rabbitmq.exchange"),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithExportRepository sets the export repository for the ExportService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithExportRepository(repo iexportrepo.IExportRepository) option {
	return func(s *ExportService) {
		s.exportRepo = repo
	}
}

// WithProductRepository sets the product repository for the ExportService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithProductRepository(repo iproductrepo.IProductRepository) option {
	return func(s *ExportService) {
		s.productRepo = repo
	}
}

// WithUserRepository sets the user repository for the ExportService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUserRepository(repo iuserrepo.IUserRepository) option {
	return func(s *ExportService) {
		s.userRepo = repo
	}
}

// WithOutboxRepository sets the outbox repository for the ExportService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOutboxRepository(repo ioutboxrepo.IOutboxRepository) option {
	return func(s *ExportService) {
		s.outboxRepo = repo
	}
}

// Create builds an export from the requested items, resolving authoritative
// prices from the product catalog, and persists it.
func (s *ExportService) Create(
	ctx context.Context,
	ident user.Identity,
	model export.CreateExportModel,
) (*export.Export, error) {
	if len(model.Items) == 0 {
		return nil, apperror.Validation("no export items")
	}

	productIDs := make([]primitive.ObjectID, 0, len(model.Items))
	seen := make(map[primitive.ObjectID]struct{}, len(model.Items))
	for _, item := range model.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		productIDs = append(productIDs, item.ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	items := make([]export.ExportItem, len(model.Items))
	for i, item := range model.Items {
		catalogProduct, ok := products[item.ProductID]
		if !ok {
			return nil, apperror.NotFoundf("product not found: %s", item.ProductID.Hex())
		}

		// Client-supplied prices and item identities are discarded; the
		// catalog price is authoritative.
		items[i] = export.ExportItem{
			ProductID:      item.ProductID,
			Name:           item.Name,
			Quantity:       item.Quantity,
			UnitPriceCents: catalogProduct.PriceCents,
			Image:          item.Image,
		}
	}

	prices := CalcPrices(items)

	now := time.Now()
	e := export.Export{
		UserID:             ident.UserID,
		Items:              items,
		ShippingAddress:    model.ShippingAddress,
		PaymentMethod:      model.PaymentMethod,
		ItemsPriceCents:    prices.ItemsPriceCents,
		ShippingPriceCents: prices.ShippingPriceCents,
		TaxPriceCents:      prices.TaxPriceCents,
		TotalPriceCents:    prices.TotalPriceCents,
		IsPaid:             false,
		IsDelivered:        false,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	created, err := s.exportRepo.Insert(ctx, e)
	if err != nil {
		return nil, err
	}

	s.enqueueEvent(ctx, RoutingKeyCreated, &created)

	return &created, nil
}

// MarkPaid transitions an export to paid, recording the payment-provider
// payload as-is. Replays overwrite the previous payload.
func (s *ExportService) MarkPaid(
	ctx context.Context,
	id primitive.ObjectID,
	model export.MarkPaidModel,
) (*export.Export, error) {
	result := export.PaymentResult{
		ID:         model.PaymentID,
		Status:     model.Status,
		UpdateTime: model.UpdateTime,
		PayerEmail: model.PayerEmail,
	}

	paidAt := model.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	updated, err := s.exportRepo.SetPaid(ctx, id, result, paidAt)
	if err != nil {
		return nil, err
	}

	s.enqueueEvent(ctx, RoutingKeyPaid, updated)

	return updated, nil
}

// MarkDelivered transitions an export to delivered.
func (s *ExportService) MarkDelivered(ctx context.Context, id primitive.ObjectID) (*export.Export, error) {
	updated, err := s.exportRepo.SetDelivered(ctx, id, time.Now())
	if err != nil {
		return nil, err
	}

	s.enqueueEvent(ctx, RoutingKeyDelivered, updated)

	return updated, nil
}

// GetByID returns one export with the placing user's username and email
// resolved.
func (s *ExportService) GetByID(ctx context.Context, id primitive.ObjectID) (*export.Export, error) {
	e, err := s.exportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	users, err := s.userRepo.FindByIDs(ctx, []primitive.ObjectID{e.UserID})
	if err != nil {
		return nil, err
	}
	if u, ok := users[e.UserID]; ok {
		e.User = &user.User{ID: u.ID, Username: u.Username, Email: u.Email}
	}

	return e, nil
}

// ListAll returns exports across all users with the placing user's id and
// username resolved.
func (s *ExportService) ListAll(ctx context.Context, query export.QueryExportsModel) ([]export.Export, error) {
	query.UserIDs = nil

	exports, err := s.exportRepo.Query(ctx, &query)
	if err != nil {
		return nil, err
	}

	if len(exports) == 0 {
		return exports, nil
	}

	userIDs := make([]primitive.ObjectID, 0, len(exports))
	seen := make(map[primitive.ObjectID]struct{}, len(exports))
	for _, e := range exports {
		if _, ok := seen[e.UserID]; ok {
			continue
		}
		seen[e.UserID] = struct{}{}
		userIDs = append(userIDs, e.UserID)
	}

	users, err := s.userRepo.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	for i := range exports {
		if u, ok := users[exports[i].UserID]; ok {
			exports[i].User = &user.User{ID: u.ID, Username: u.Username}
		}
	}

	return exports, nil
}

// ListMine returns the caller's exports.
func (s *ExportService) ListMine(
	ctx context.Context,
	ident user.Identity,
	query export.QueryExportsModel,
) ([]export.Export, error) {
	query.UserIDs = []primitive.ObjectID{ident.UserID}

	return s.exportRepo.Query(ctx, &query)
}

// CountExports returns the total number of exports.
func (s *ExportService) CountExports(ctx context.Context) (int64, error) {
	return s.exportRepo.Count(ctx)
}

// TotalSales returns the sum of total prices across all exports.
func (s *ExportService) TotalSales(ctx context.Context) (money.Cents, error) {
	return s.exportRepo.TotalSales(ctx)
}

// SalesByDate returns paid sales grouped by the calendar day of payment.
func (s *ExportService) SalesByDate(ctx context.Context) ([]export.DailySales, error) {
	return s.exportRepo.SalesByDate(ctx)
}

// exportEvent is the payload published for export lifecycle events.
type exportEvent struct {
	ExportID   string      `json:"exportId"`
	UserID     string      `json:"userId"`
	TotalPrice money.Cents `json:"totalPrice"`
	IsPaid     bool        `json:"isPaid"`
	OccurredAt time.Time   `json:"occurredAt"`
}

// enqueueEvent stores a lifecycle event in the outbox for asynchronous
// publishing. Failures are logged and never fail the request.
func (s *ExportService) enqueueEvent(ctx context.Context, routingKey string, e *export.Export) {
	if s.outboxRepo == nil {
		return
	}

	payload, err := json.Marshal(exportEvent{
		ExportID:   e.ID.Hex(),
		UserID:     e.UserID.Hex(),
		TotalPrice: e.TotalPriceCents,
		IsPaid:     e.IsPaid,
		OccurredAt: time.Now(),
	})
	if err != nil {
		slog.Error("Failed to marshal export event", "routing_key", routingKey, "error", err)

		return
	}

	msg := outbox.Message{
		ExchangeName: s.exchange,
		RoutingKey:   routingKey,
		Payload:      payload,
		ContentType:  "application/json",
		MaxRetries:   5,
	}

	if err := s.outboxRepo.Insert(ctx, msg); err != nil {
		slog.Error("Failed to enqueue export event", "routing_key", routingKey, "export_id", e.ID.Hex(), "error", err)
	}
}
