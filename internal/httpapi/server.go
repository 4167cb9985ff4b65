package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Server is the storefront HTTP surface. All routes live under /api/v1.
type Server struct {
	httpServer *http.Server
}

func NewServer(addr string, cartH *CartHandler, checkoutH *CheckoutHandler, ordersH *OrdersHandler, productsH *ProductsHandler) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartH.GetCart)
			r.Delete("/", cartH.ClearCart)
			r.Post("/items", cartH.AddItem)
			r.Put("/items/{product_id}", cartH.UpdateQuantity)
			r.Delete("/items/{product_id}", cartH.RemoveItem)
			r.Post("/promo", cartH.ApplyPromo)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", checkoutH.Begin)
			r.Get("/{session_id}/validate", checkoutH.Validate)
			r.Post("/{session_id}/order", checkoutH.PlaceOrder)
			r.Delete("/{session_id}", checkoutH.Abandon)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordersH.List)
			r.Get("/{order_id}", ordersH.Get)
			r.Put("/{order_id}/cancel", ordersH.Cancel)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productsH.List)
			r.Get("/{product_id}", productsH.Get)
			r.Get("/{product_id}/related", productsH.Related)
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      otelhttp.NewHandler(r, "storefront"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
