package deliverexport

import (
	"context"
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
	MarkDelivered(ctx context.Context, id primitive.ObjectID) (*export.Export, error)
}

// DeliverExport handles the mark-export-delivered request.
func DeliverExport(w http.ResponseWriter, r *http.Request, service service) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperror.Validation("invalid export id"))
		slog.Error("Error parsing export id", "error", err)

		return
	}

	updated, err := service.MarkDelivered(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error marking export as delivered", "export_id", id.Hex(), "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, updated)
}
