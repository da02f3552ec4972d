package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/gmarket/export-svc/internal/service/models/export"
	"github.com/gmarket/export-svc/internal/service/models/money"
	"github.com/gmarket/export-svc/internal/service/models/user"
	createexport "github.com/gmarket/export-svc/internal/transport/http/create_export"
	deliverexport "github.com/gmarket/export-svc/internal/transport/http/deliver_export"
	exportstats "github.com/gmarket/export-svc/internal/transport/http/export_stats"
	getexport "github.com/gmarket/export-svc/internal/transport/http/get_export"
	listexports "github.com/gmarket/export-svc/internal/transport/http/list_exports"
	payexport "github.com/gmarket/export-svc/internal/transport/http/pay_export"
	"github.com/gmarket/export-svc/pkg/http/middleware/auth"
	"github.com/gmarket/export-svc/pkg/http/middleware/trace"
	"github.com/gmarket/export-svc/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type service interface {
	Create(ctx context.Context, ident user.Identity, model export.CreateExportModel) (*export.Export, error)
	MarkPaid(ctx context.Context, id primitive.ObjectID, model export.MarkPaidModel) (*export.Export, error)
	MarkDelivered(ctx context.Context, id primitive.ObjectID) (*export.Export, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*export.Export, error)
	ListAll(ctx context.Context, query export.QueryExportsModel) ([]export.Export, error)
	ListMine(ctx context.Context, ident user.Identity, query export.QueryExportsModel) ([]export.Export, error)
	CountExports(ctx context.Context) (int64, error)
	TotalSales(ctx context.Context) (money.Cents, error)
	SalesByDate(ctx context.Context) ([]export.DailySales, error)
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	service service
	auth    *auth.Middleware
}

func NewHTTPTransport(service service) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:  server,
		router:  router,
		service: service,
		auth:    auth.New([]byte(os.Getenv("JWT_SECRET"))),
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api/exports", func(r chi.Router) {
		r.Get("/total-exports", h.countExports)
		r.Get("/total-sales", h.totalSales)
		r.Get("/total-sales-by-date", h.salesByDate)

		r.Group(func(r chi.Router) {
			r.Use(h.auth.Authenticate)

			r.Post("/", h.createExport)
			r.Get("/mine", h.listMine)
			r.Get("/{id}", h.getExport)
			r.Put("/{id}/pay", h.payExport)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin)

				r.Get("/", h.listAll)
				r.Put("/{id}/deliver", h.deliverExport)
			})
		})
	})
}

func (h *HTTPTransport) createExport(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentityFromContext(r.Context())
	createexport.CreateExport(w, r, h.service, ident)
}

func (h *HTTPTransport) listAll(w http.ResponseWriter, r *http.Request) {
	listexports.ListAll(w, r, h.service)
}

func (h *HTTPTransport) listMine(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentityFromContext(r.Context())
	listexports.ListMine(w, r, h.service, ident)
}

func (h *HTTPTransport) getExport(w http.ResponseWriter, r *http.Request) {
	getexport.GetExport(w, r, h.service)
}

func (h *HTTPTransport) payExport(w http.ResponseWriter, r *http.Request) {
	payexport.PayExport(w, r, h.service)
}

func (h *HTTPTransport) deliverExport(w http.ResponseWriter, r *http.Request) {
	deliverexport.DeliverExport(w, r, h.service)
}

func (h *HTTPTransport) countExports(w http.ResponseWriter, r *http.Request) {
	exportstats.CountExports(w, r, h.service)
}

func (h *HTTPTransport) totalSales(w http.ResponseWriter, r *http.Request) {
	exportstats.TotalSales(w, r, h.service)
}

func (h *HTTPTransport) salesByDate(w http.ResponseWriter, r *http.Request) {
	exportstats.SalesByDate(w, r, h.service)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(trace.NewTraceMiddleware)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
