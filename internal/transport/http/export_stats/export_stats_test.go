package exportstats

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gmarket/export-svc/internal/service/models/export"
	"github.com/gmarket/export-svc/internal/service/models/money"
	"github.com/stretchr/testify/assert"
)

type stubService struct {
	count       int64
	countErr    error
	total       money.Cents
	totalErr    error
	salesByDate []export.DailySales
	salesErr    error
}

func (s *stubService) CountExports(ctx context.Context) (int64, error) {
	return s.count, s.countErr
}

func (s *stubService) TotalSales(ctx context.Context) (money.Cents, error) {
	return s.total, s.totalErr
}

func (s *stubService) SalesByDate(ctx context.Context) ([]export.DailySales, error) {
	return s.salesByDate, s.salesErr
}

func TestCountExports(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/exports/total-exports", nil)

	CountExports(rec, req, &stubService{count: 42})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"totalExports": 42}`, rec.Body.String())
}

func TestTotalSales(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/exports/total-sales", nil)

	TotalSales(rec, req, &stubService{total: 1234_50})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"totalSales": "1234.50"}`, rec.Body.String())
}

func TestSalesByDate(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/exports/total-sales-by-date", nil)

	SalesByDate(rec, req, &stubService{salesByDate: []export.DailySales{
		{Date: "2026-08-27", TotalSalesCents: 172_50},
		{Date: "2026-08-28", TotalSalesCents: 67_50},
	}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"date": "2026-08-27", "totalSales": "172.50"},
		{"date": "2026-08-28", "totalSales": "67.50"}
	]`, rec.Body.String())
}

func TestStats_ServiceError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/exports/total-sales", nil)

	TotalSales(rec, req, &stubService{totalErr: assert.AnError})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}
