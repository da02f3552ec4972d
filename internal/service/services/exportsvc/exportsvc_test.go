package exportsvc

import (
	"context"
	"testing"
	"time"

	"github.com/gmarket/export-svc/internal/service/models/export"
	"github.com/gmarket/export-svc/internal/service/models/money"
	"github.com/gmarket/export-svc/internal/service/models/outbox"
	"github.com/gmarket/export-svc/internal/service/models/product"
	"github.com/gmarket/export-svc/internal/service/models/user"
	"github.com/gmarket/export-svc/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockExportRepository struct {
	mock.Mock
}

func (m *MockExportRepository) Insert(ctx context.Context, e export.Export) (export.Export, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(export.Export), args.Error(1)
}

func (m *MockExportRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*export.Export, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.Export), args.Error(1)
}

func (m *MockExportRepository) Query(ctx context.Context, filter *export.QueryExportsModel) ([]export.Export, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]export.Export), args.Error(1)
}

func (m *MockExportRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExportRepository) TotalSales(ctx context.Context) (money.Cents, error) {
	args := m.Called(ctx)
	return args.Get(0).(money.Cents), args.Error(1)
}

func (m *MockExportRepository) SalesByDate(ctx context.Context) ([]export.DailySales, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]export.DailySales), args.Error(1)
}

func (m *MockExportRepository) SetPaid(
	ctx context.Context,
	id primitive.ObjectID,
	result export.PaymentResult,
	paidAt time.Time,
) (*export.Export, error) {
	args := m.Called(ctx, id, result, paidAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.Export), args.Error(1)
}

func (m *MockExportRepository) SetDelivered(
	ctx context.Context,
	id primitive.ObjectID,
	deliveredAt time.Time,
) (*export.Export, error) {
	args := m.Called(ctx, id, deliveredAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.Export), args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByIDs(
	ctx context.Context,
	ids []primitive.ObjectID,
) (map[primitive.ObjectID]product.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[primitive.ObjectID]product.Product), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByIDs(
	ctx context.Context,
	ids []primitive.ObjectID,
) (map[primitive.ObjectID]user.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[primitive.ObjectID]user.User), args.Error(1)
}

type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Insert(ctx context.Context, msg outbox.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockOutboxRepository) GetPendingMessages(ctx context.Context, limit int) ([]outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]outbox.Message), args.Error(1)
}

func (m *MockOutboxRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepository) UpdateRetry(
	ctx context.Context,
	id primitive.ObjectID,
	retryCount int,
	lastError string,
	nextRetryAt time.Time,
) error {
	args := m.Called(ctx, id, retryCount, lastError, nextRetryAt)
	return args.Error(0)
}

func newService(
	exportRepo *MockExportRepository,
	productRepo *MockProductRepository,
	userRepo *MockUserRepository,
	outboxRepo *MockOutboxRepository,
) *ExportService {
	return MustNewExportService(
		WithExportRepository(exportRepo),
		WithProductRepository(productRepo),
		WithUserRepository(userRepo),
		WithOutboxRepository(outboxRepo),
	)
}

func testIdentity() user.Identity {
	return user.Identity{
		UserID:   primitive.NewObjectID(),
		Username: "buyer",
		Email:    "buyer@example.com",
	}
}

func TestExportService_Create(t *testing.T) {
	exportRepo := new(MockExportRepository)
	productRepo := new(MockProductRepository)
	outboxRepo := new(MockOutboxRepository)
	svc := newService(exportRepo, productRepo, new(MockUserRepository), outboxRepo)

	ident := testIdentity()
	productID := primitive.NewObjectID()

	productRepo.On("FindByIDs", mock.Anything, []primitive.ObjectID{productID}).
		Return(map[primitive.ObjectID]product.Product{
			productID: {ID: productID, Name: "Widget", PriceCents: 25_00},
		}, nil)

	exportRepo.On("Insert", mock.Anything, mock.AnythingOfType("export.Export")).
		Return(export.Export{ID: primitive.NewObjectID()}, nil).
		Run(func(args mock.Arguments) {
			e := args.Get(1).(export.Export)
			assert.Equal(t, ident.UserID, e.UserID)
			assert.False(t, e.IsPaid)
			assert.False(t, e.IsDelivered)
			// Catalog price is authoritative, whatever the client sent.
			require.Len(t, e.Items, 2)
			assert.Equal(t, money.Cents(25_00), e.Items[0].UnitPriceCents)
			assert.Equal(t, money.Cents(25_00), e.Items[1].UnitPriceCents)
			assert.Equal(t, money.Cents(75_00), e.ItemsPriceCents)
			assert.Equal(t, money.Cents(10_00), e.ShippingPriceCents)
			assert.Equal(t, money.Cents(11_25), e.TaxPriceCents)
			assert.Equal(t, money.Cents(96_25), e.TotalPriceCents)
		})

	outboxRepo.On("Insert", mock.Anything, mock.AnythingOfType("outbox.Message")).
		Return(nil).
		Run(func(args mock.Arguments) {
			msg := args.Get(1).(outbox.Message)
			assert.Equal(t, RoutingKeyCreated, msg.RoutingKey)
		})

	created, err := svc.Create(context.Background(), ident, export.CreateExportModel{
		Items: []export.CreateExportItemModel{
			{ProductID: productID, Name: "Widget", Quantity: 1},
			{ProductID: productID, Name: "Widget", Quantity: 2},
		},
		ShippingAddress: export.ShippingAddress{Address: "1 Main St", City: "Town", PostalCode: "0000", Country: "NL"},
		PaymentMethod:   "PayPal",
	})

	require.NoError(t, err)
	assert.False(t, created.ID.IsZero())

	exportRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
	outboxRepo.AssertExpectations(t)
}

func TestExportService_Create_EmptyItems(t *testing.T) {
	svc := newService(new(MockExportRepository), new(MockProductRepository), new(MockUserRepository), new(MockOutboxRepository))

	_, err := svc.Create(context.Background(), testIdentity(), export.CreateExportModel{})

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestExportService_Create_UnknownProduct(t *testing.T) {
	exportRepo := new(MockExportRepository)
	productRepo := new(MockProductRepository)
	svc := newService(exportRepo, productRepo, new(MockUserRepository), new(MockOutboxRepository))

	missingID := primitive.NewObjectID()
	productRepo.On("FindByIDs", mock.Anything, []primitive.ObjectID{missingID}).
		Return(map[primitive.ObjectID]product.Product{}, nil)

	_, err := svc.Create(context.Background(), testIdentity(), export.CreateExportModel{
		Items: []export.CreateExportItemModel{{ProductID: missingID, Name: "Ghost", Quantity: 1}},
	})

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	assert.Contains(t, err.Error(), missingID.Hex())
	exportRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestExportService_MarkPaid(t *testing.T) {
	exportRepo := new(MockExportRepository)
	outboxRepo := new(MockOutboxRepository)
	svc := newService(exportRepo, new(MockProductRepository), new(MockUserRepository), outboxRepo)

	id := primitive.NewObjectID()
	paidAt := time.Now()
	result := export.PaymentResult{ID: "PAY-1", Status: "COMPLETED", UpdateTime: "2026-08-28T10:00:00Z", PayerEmail: "buyer@example.com"}

	updated := &export.Export{ID: id, IsPaid: true, PaidAt: &paidAt, PaymentResult: &result}
	exportRepo.On("SetPaid", mock.Anything, id, result, paidAt).Return(updated, nil)
	outboxRepo.On("Insert", mock.Anything, mock.AnythingOfType("outbox.Message")).
		Return(nil).
		Run(func(args mock.Arguments) {
			msg := args.Get(1).(outbox.Message)
			assert.Equal(t, RoutingKeyPaid, msg.RoutingKey)
		})

	got, err := svc.MarkPaid(context.Background(), id, export.MarkPaidModel{
		PaymentID:  "PAY-1",
		Status:     "COMPLETED",
		UpdateTime: "2026-08-28T10:00:00Z",
		PayerEmail: "buyer@example.com",
		PaidAt:     paidAt,
	})

	require.NoError(t, err)
	assert.True(t, got.IsPaid)
	assert.NotNil(t, got.PaidAt)
	exportRepo.AssertExpectations(t)
	outboxRepo.AssertExpectations(t)
}

func TestExportService_MarkPaid_NotFound(t *testing.T) {
	exportRepo := new(MockExportRepository)
	svc := newService(exportRepo, new(MockProductRepository), new(MockUserRepository), new(MockOutboxRepository))

	id := primitive.NewObjectID()
	exportRepo.On("SetPaid", mock.Anything, id, mock.Anything, mock.Anything).
		Return(nil, apperror.NotFoundf("export not found: %s", id.Hex()))

	_, err := svc.MarkPaid(context.Background(), id, export.MarkPaidModel{PaidAt: time.Now()})

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestExportService_MarkDelivered(t *testing.T) {
	exportRepo := new(MockExportRepository)
	outboxRepo := new(MockOutboxRepository)
	svc := newService(exportRepo, new(MockProductRepository), new(MockUserRepository), outboxRepo)

	id := primitive.NewObjectID()
	paidAt := time.Now()
	deliveredAt := time.Now()
	updated := &export.Export{ID: id, IsPaid: true, PaidAt: &paidAt, IsDelivered: true, DeliveredAt: &deliveredAt}

	exportRepo.On("SetDelivered", mock.Anything, id, mock.AnythingOfType("time.Time")).Return(updated, nil)
	outboxRepo.On("Insert", mock.Anything, mock.AnythingOfType("outbox.Message")).Return(nil)

	got, err := svc.MarkDelivered(context.Background(), id)

	require.NoError(t, err)
	assert.True(t, got.IsDelivered)
	assert.NotNil(t, got.DeliveredAt)
	// The delivery transition never touches the paid flag.
	assert.True(t, got.IsPaid)
}

func TestExportService_GetByID_PopulatesUser(t *testing.T) {
	exportRepo := new(MockExportRepository)
	userRepo := new(MockUserRepository)
	svc := newService(exportRepo, new(MockProductRepository), userRepo, new(MockOutboxRepository))

	userID := primitive.NewObjectID()
	id := primitive.NewObjectID()

	exportRepo.On("FindByID", mock.Anything, id).Return(&export.Export{ID: id, UserID: userID}, nil)
	userRepo.On("FindByIDs", mock.Anything, []primitive.ObjectID{userID}).
		Return(map[primitive.ObjectID]user.User{
			userID: {ID: userID, Username: "buyer", Email: "buyer@example.com"},
		}, nil)

	got, err := svc.GetByID(context.Background(), id)

	require.NoError(t, err)
	require.NotNil(t, got.User)
	assert.Equal(t, "buyer", got.User.Username)
	assert.Equal(t, "buyer@example.com", got.User.Email)
}

func TestExportService_ListAll_PopulatesUsernames(t *testing.T) {
	exportRepo := new(MockExportRepository)
	userRepo := new(MockUserRepository)
	svc := newService(exportRepo, new(MockProductRepository), userRepo, new(MockOutboxRepository))

	userID := primitive.NewObjectID()
	exportRepo.On("Query", mock.Anything, mock.MatchedBy(func(q *export.QueryExportsModel) bool {
		return len(q.UserIDs) == 0
	})).Return([]export.Export{
		{ID: primitive.NewObjectID(), UserID: userID},
		{ID: primitive.NewObjectID(), UserID: userID},
	}, nil)
	userRepo.On("FindByIDs", mock.Anything, []primitive.ObjectID{userID}).
		Return(map[primitive.ObjectID]user.User{userID: {ID: userID, Username: "buyer"}}, nil)

	exports, err := svc.ListAll(context.Background(), export.QueryExportsModel{})

	require.NoError(t, err)
	require.Len(t, exports, 2)
	for _, e := range exports {
		require.NotNil(t, e.User)
		assert.Equal(t, "buyer", e.User.Username)
		assert.Empty(t, e.User.Email)
	}
}

func TestExportService_ListMine_FiltersByCaller(t *testing.T) {
	exportRepo := new(MockExportRepository)
	svc := newService(exportRepo, new(MockProductRepository), new(MockUserRepository), new(MockOutboxRepository))

	ident := testIdentity()
	exportRepo.On("Query", mock.Anything, mock.MatchedBy(func(q *export.QueryExportsModel) bool {
		return len(q.UserIDs) == 1 && q.UserIDs[0] == ident.UserID
	})).Return([]export.Export{{UserID: ident.UserID}}, nil)

	exports, err := svc.ListMine(context.Background(), ident, export.QueryExportsModel{})

	require.NoError(t, err)
	assert.Len(t, exports, 1)
	exportRepo.AssertExpectations(t)
}

func TestExportService_Aggregates(t *testing.T) {
	exportRepo := new(MockExportRepository)
	svc := newService(exportRepo, new(MockProductRepository), new(MockUserRepository), new(MockOutboxRepository))

	exportRepo.On("Count", mock.Anything).Return(int64(7), nil)
	exportRepo.On("TotalSales", mock.Anything).Return(money.Cents(1234_50), nil)
	exportRepo.On("SalesByDate", mock.Anything).Return([]export.DailySales{
		{Date: "2026-08-27", TotalSalesCents: 172_50},
	}, nil)

	count, err := svc.CountExports(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)

	total, err := svc.TotalSales(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1234.50", total.String())

	sales, err := svc.SalesByDate(context.Background())
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "2026-08-27", sales[0].Date)
}

func TestExportService_Create_OutboxFailureIsNotFatal(t *testing.T) {
	exportRepo := new(MockExportRepository)
	productRepo := new(MockProductRepository)
	outboxRepo := new(MockOutboxRepository)
	svc := newService(exportRepo, productRepo, new(MockUserRepository), outboxRepo)

	productID := primitive.NewObjectID()
	productRepo.On("FindByIDs", mock.Anything, mock.Anything).
		Return(map[primitive.ObjectID]product.Product{productID: {ID: productID, PriceCents: 10_00}}, nil)
	exportRepo.On("Insert", mock.Anything, mock.Anything).
		Return(export.Export{ID: primitive.NewObjectID()}, nil)
	outboxRepo.On("Insert", mock.Anything, mock.Anything).
		Return(assert.AnError)

	_, err := svc.Create(context.Background(), testIdentity(), export.CreateExportModel{
		Items: []export.CreateExportItemModel{{ProductID: productID, Name: "Widget", Quantity: 1}},
	})

	require.NoError(t, err)
}
