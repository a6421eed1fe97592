package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	admincontroller "wego/internal/admin/controller"
	"wego/internal/commons"
	dashboardcontroller "wego/internal/dashboard/controller"
	invoicecontroller "wego/internal/invoice/controller"
	newslettercontroller "wego/internal/newsletter/controller"
	ordercontroller "wego/internal/order/controller"
	productcontroller "wego/internal/product/controller"
	uploadcontroller "wego/internal/upload/controller"
)

type Controllers struct {
	Orders     *ordercontroller.OrderController
	Products   *productcontroller.Controller
	Dashboard  *dashboardcontroller.Controller
	Invoices   *invoicecontroller.Controller
	Admin      *admincontroller.Controller
	Newsletter *newslettercontroller.Controller
	Upload     *uploadcontroller.Controller
}

func NewRouter(c Controllers, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health(logger))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", c.Orders.List)
			r.Post("/", c.Orders.Create)
			r.Get("/{id}", c.Orders.Get)
			r.Put("/{id}", c.Orders.Replace)
			r.Delete("/{id}", c.Orders.Delete)
			r.Put("/{id}/status", c.Orders.UpdateStatus)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", c.Products.List)
			r.Post("/", c.Products.Create)
			r.Get("/{id}", c.Products.Get)
			r.Put("/{id}", c.Products.Update)
			r.Delete("/{id}", c.Products.Delete)
		})
		r.Get("/categories", c.Products.Categories)

		r.Get("/dashboard/stats", c.Dashboard.Stats)

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/settings", c.Invoices.GetSettings)
			r.Put("/settings", c.Invoices.UpdateSettings)
			r.Get("/{orderId}/pdf", c.Invoices.DownloadPDF)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", c.Admin.Login)
			r.Post("/register", c.Admin.Register)
		})

		r.Route("/newsletter", func(r chi.Router) {
			r.Get("/subscribers", c.Newsletter.ListSubscribers)
			r.Post("/subscribers", c.Newsletter.AddSubscriber)
			r.Put("/subscribers/{id}", c.Newsletter.UpdateSubscriber)
			r.Delete("/subscribers/{id}", c.Newsletter.DeleteSubscriber)
			r.Post("/unsubscribe", c.Newsletter.Unsubscribe)
			r.Post("/send", c.Newsletter.Send)
			r.Get("/history", c.Newsletter.History)
		})

		r.Route("/upload", func(r chi.Router) {
			r.Post("/image", c.Upload.UploadImage)
			r.Delete("/image/*", c.Upload.DeleteImage)
		})
	})

	return r
}

func health(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commons.WriteJSON(w, http.StatusOK, map[string]any{
			"status":    "OK",
			"timestamp": time.Now().UTC(),
		}, logger)
	}
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info("request completed",
				zap.String("traceId", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

// cors allows any origin; the admin frontend is served from another host.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-Id")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
