package export

import (
	"time"

	"github.com/gmarket/export-svc/internal/service/models/money"
	"github.com/gmarket/export-svc/internal/service/models/user"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Export represents a placed purchase record with snapshot pricing and two
// independent completion flags (paid, delivered).
type Export struct {
	ID              primitive.ObjectID `json:"id"`
	UserID          primitive.ObjectID `json:"userId"`
	User            *user.User         `json:"user,omitempty"`
	Items           []ExportItem       `json:"exportItems"`
	ShippingAddress ShippingAddress    `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`

	ItemsPriceCents    money.Cents `json:"itemsPrice"`
	ShippingPriceCents money.Cents `json:"shippingPrice"`
	TaxPriceCents      money.Cents `json:"taxPrice"`
	TotalPriceCents    money.Cents `json:"totalPrice"`

	IsPaid        bool           `json:"isPaid"`
	PaidAt        *time.Time     `json:"paidAt,omitempty"`
	PaymentResult *PaymentResult `json:"paymentResult,omitempty"`

	IsDelivered bool       `json:"isDelivered"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ExportItem is one line within an export. The unit price is a snapshot taken
// from the product catalog at creation time and never re-read afterward.
type ExportItem struct {
	ProductID      primitive.ObjectID `json:"product"`
	Name           string             `json:"name"`
	Quantity       int                `json:"qty"`
	UnitPriceCents money.Cents        `json:"price"`
	Image          string             `json:"image"`
}

// ShippingAddress is the destination of an export.
type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// PaymentResult is the payment-provider payload recorded on the pay
// transition. Fields are passed through unvalidated.
type PaymentResult struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	UpdateTime string `json:"update_time"`
	PayerEmail string `json:"email_address"`
}

// DailySales is one group of the paid-sales-by-calendar-day aggregation.
type DailySales struct {
	Date            string      `json:"date"`
	TotalSalesCents money.Cents `json:"totalSales"`
}
