package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const maxRequestBodySize = 1 << 20 // 1MB

// NewRouter wires the catalog and cart endpoints. The returned handler starts
// a server span per request on tp, or on the global provider when tp is nil.
func NewRouter(catalog Catalog, cart CartStore, timeout time.Duration, logger *zap.Logger, tp trace.TracerProvider) http.Handler {
	products := NewProductHandler(catalog, logger)
	carts := NewCartHandler(cart, catalog, logger)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	if timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}
	r.Use(middleware.RequestSize(maxRequestBodySize))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.List)
			r.Get("/featured", products.Featured)
			r.Get("/categories", products.Categories)
			r.Get("/{id}", products.Get)
		})
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", carts.GetCart)
			r.Delete("/", carts.ClearCart)
			r.Post("/items", carts.AddItem)
			r.Put("/items/{index}", carts.UpdateQuantity)
			r.Delete("/items/{index}", carts.RemoveItem)
			r.Put("/lines/{lineID}", carts.UpdateQuantityByID)
			r.Delete("/lines/{lineID}", carts.RemoveItemByID)
		})
	})

	var opts []otelhttp.Option
	if tp != nil {
		opts = append(opts, otelhttp.WithTracerProvider(tp))
	}
	return otelhttp.NewHandler(r, "storefront", opts...)
}
