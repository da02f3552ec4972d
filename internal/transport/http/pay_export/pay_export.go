package payexport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gmarket/export-svc/internal/service/models/export"
	"github.com/gmarket/export-svc/internal/transport/http/respond"
	"github.com/gmarket/export-svc/pkg/apperror"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// service is an interface for the service layer.
type service interface {
	MarkPaid(ctx context.Context, id primitive.ObjectID, model export.MarkPaidModel) (*export.Export, error)
}

// payExportRequest is the payment-provider payload. Fields are passed through
// to the service unvalidated.
type payExportRequest struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	UpdateTime string `json:"update_time"`
	Payer      struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
}

// toModel converts payExportRequest to export.MarkPaidModel.
func (r *payExportRequest) toModel() export.MarkPaidModel {
	return export.MarkPaidModel{
		PaymentID:  r.ID,
		Status:     r.Status,
		UpdateTime: r.UpdateTime,
		PayerEmail: r.Payer.EmailAddress,
	}
}

// PayExport handles the mark-export-paid request.
func PayExport(w http.ResponseWriter, r *http.Request, service service) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperror.Validation("invalid export id"))
		slog.Error("Error parsing export id", "error", err)

		return
	}

	req := payExportRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperror.Validation(err.Error()))
		slog.Error("Error decoding request body for pay export", "error", err)

		return
	}

	updated, err := service.MarkPaid(r.Context(), id, req.toModel())
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error marking export as paid", "export_id", id.Hex(), "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, updated)
}
