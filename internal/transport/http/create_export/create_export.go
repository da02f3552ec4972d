package createexport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gmarket/export-svc/internal/service/models/export"
	"github.com/gmarket/export-svc/internal/service/models/user"
	"github.com/gmarket/export-svc/internal/transport/http/respond"
	"github.com/gmarket/export-svc/pkg/apperror"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// service is an interface for the service layer.
type service interface {
	Create(ctx context.Context, ident user.Identity, model export.CreateExportModel) (*export.Export, error)
}

// itemInCreateExportRequest represents an item in a create export request.
// Any client-supplied price is ignored downstream.
type itemInCreateExportRequest struct {
	ProductID string `json:"product"  validate:"required"`
	Name      string `json:"name"     validate:"required"`
	Quantity  int    `json:"qty"      validate:"gt=0"`
	Image     string `json:"image"`
}

// toModel converts itemInCreateExportRequest to export.CreateExportItemModel.
func (r *itemInCreateExportRequest) toModel() (*export.CreateExportItemModel, error) {
	productID, err := primitive.ObjectIDFromHex(r.ProductID)
	if err != nil {
		return nil, apperror.Validation("invalid product id: " + r.ProductID)
	}

	return &export.CreateExportItemModel{
		ProductID: productID,
		Name:      r.Name,
		Quantity:  r.Quantity,
		Image:     r.Image,
	}, nil
}

// createExportRequest represents a create export request.
type createExportRequest struct {
	Items           []itemInCreateExportRequest `json:"exportItems"`
	ShippingAddress shippingAddressRequest      `json:"shippingAddress" validate:"required"`
	PaymentMethod   string                      `json:"paymentMethod"   validate:"required"`
}

type shippingAddressRequest struct {
	Address    string `json:"address"    validate:"required"`
	City       string `json:"city"       validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country"    validate:"required"`
}

// Validate validates the create export request.
func (r *createExportRequest) Validate() error {
	return validator.New().Struct(r)
}

// toModel converts createExportRequest to export.CreateExportModel.
func (r *createExportRequest) toModel() (*export.CreateExportModel, error) {
	items := make([]export.CreateExportItemModel, len(r.Items))
	for i := range r.Items {
		item, err := r.Items[i].toModel()
		if err != nil {
			return nil, err
		}
		items[i] = *item
	}

	return &export.CreateExportModel{
		Items: items,
		ShippingAddress: export.ShippingAddress{
			Address:    r.ShippingAddress.Address,
			City:       r.ShippingAddress.City,
			PostalCode: r.ShippingAddress.PostalCode,
			Country:    r.ShippingAddress.Country,
		},
		PaymentMethod: r.PaymentMethod,
	}, nil
}

// CreateExport handles the create export request.
func CreateExport(w http.ResponseWriter, r *http.Request, service service, ident user.Identity) {
	req := createExportRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperror.Validation(err.Error()))
		slog.Error("Error decoding request body for create export", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		respond.Error(w, apperror.Validation(err.Error()))
		slog.Error("Error validating request body for create export", "error", err)

		return
	}

	model, err := req.toModel()
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error converting create export request to model", "error", err)

		return
	}

	created, err := service.Create(r.Context(), ident, *model)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error creating export", "error", err)

		return
	}

	respond.JSON(w, http.StatusCreated, created)
}
