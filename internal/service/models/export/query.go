package export

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QueryExportsModel represents filter parameters for querying exports.
type QueryExportsModel struct {
	UserIDs []primitive.ObjectID
	Limit   int
	Offset  int
}

// CreateExportModel is the service-layer input for export creation. Any
// client-supplied price or item identity is discarded by the service.
type CreateExportModel struct {
	Items           []CreateExportItemModel
	ShippingAddress ShippingAddress
	PaymentMethod   string
}

// CreateExportItemModel is one requested line item.
type CreateExportItemModel struct {
	ProductID primitive.ObjectID
	Name      string
	Quantity  int
	Image     string
}

// MarkPaidModel carries the payment-provider payload for the pay transition.
type MarkPaidModel struct {
	PaymentID  string
	Status     string
	UpdateTime string
	PayerEmail string
	PaidAt     time.Time
}
