package exportstats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gmarket/export-svc/internal/service/models/export"
	"github.com/gmarket/export-svc/internal/service/models/money"
	"github.com/gmarket/export-svc/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	CountExports(ctx context.Context) (int64, error)
	TotalSales(ctx context.Context) (money.Cents, error)
	SalesByDate(ctx context.Context) ([]export.DailySales, error)
}

// countExportsResponse wraps the scalar export count.
type countExportsResponse struct {
	TotalExports int64 `json:"totalExports"`
}

// totalSalesResponse wraps the scalar sales total.
type totalSalesResponse struct {
	TotalSales money.Cents `json:"totalSales"`
}

// CountExports handles the total-exports request.
func CountExports(w http.ResponseWriter, r *http.Request, service service) {
	count, err := service.CountExports(r.Context())
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error counting exports", "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, countExportsResponse{TotalExports: count})
}

// TotalSales handles the total-sales request.
func TotalSales(w http.ResponseWriter, r *http.Request, service service) {
	total, err := service.TotalSales(r.Context())
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error calculating total sales", "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, totalSalesResponse{TotalSales: total})
}

// SalesByDate handles the total-sales-by-date request.
func SalesByDate(w http.ResponseWriter, r *http.Request, service service) {
	sales, err := service.SalesByDate(r.Context())
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error calculating sales by date", "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, sales)
}
