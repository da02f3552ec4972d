package listexports

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gmarket/export-svc/internal/service/models/export"
	"github.com/gmarket/export-svc/internal/service/models/user"
	"github.com/gmarket/export-svc/internal/transport/http/respond"
	"github.com/gmarket/export-svc/pkg/apperror"
	"github.com/gorilla/schema"
)

// service is an interface for the service layer.
type service interface {
	ListAll(ctx context.Context, query export.QueryExportsModel) ([]export.Export, error)
	ListMine(ctx context.Context, ident user.Identity, query export.QueryExportsModel) ([]export.Export, error)
}

type queryExportsRequest struct {
	Limit  int `schema:"limit,omitempty"`
	Offset int `schema:"offset,omitempty"`
}

func (q *queryExportsRequest) ToModel() export.QueryExportsModel {
	return export.QueryExportsModel{
		Limit:  q.Limit,
		Offset: q.Offset,
	}
}

func decodeQuery(r *http.Request) (*queryExportsRequest, error) {
	decoder := schema.NewDecoder()
	query := &queryExportsRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	return query, nil
}

// ListAll handles the admin list-all-exports request.
func ListAll(w http.ResponseWriter, r *http.Request, service service) {
	query, err := decodeQuery(r)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error decoding list exports query", "error", err)

		return
	}

	exports, err := service.ListAll(r.Context(), query.ToModel())
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error listing exports", "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, exports)
}

// ListMine handles the list-caller's-exports request.
func ListMine(w http.ResponseWriter, r *http.Request, service service, ident user.Identity) {
	query, err := decodeQuery(r)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error decoding list exports query", "error", err)

		return
	}

	exports, err := service.ListMine(r.Context(), ident, query.ToModel())
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error listing user exports", "user_id", ident.UserID.Hex(), "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, exports)
}
