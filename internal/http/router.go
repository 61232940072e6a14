package http

import (
	"net/http"
	"time"

	"github.com/Saeid202/buyers/internal/auth"
	"github.com/Saeid202/buyers/internal/cart"
	catalog "github.com/Saeid202/buyers/internal/catalog/service"
	"github.com/Saeid202/buyers/internal/metrics"
	orders "github.com/Saeid202/buyers/internal/order/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterDeps struct {
	Carts    *cart.Manager
	Catalog  *catalog.CatalogService
	Orders   *orders.OrderService
	Sessions auth.SessionProvider
	Metrics  *metrics.ServerMetrics
	Timeout  time.Duration
}

// NewRouter assembles the storefront API.
func NewRouter(deps RouterDeps) chi.Router {
	cartHandler := NewCartHandler(deps.Carts, deps.Catalog)
	productHandler := NewProductHandler(deps.Catalog)
	checkoutHandler := NewCheckoutHandler(deps.Carts, deps.Orders)
	ordersHandler := NewOrdersHandler(deps.Orders)
	authHandler := NewAuthHandler(deps.Sessions)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(deps.Timeout))
	r.Use(middleware.Compress(5))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}
	r.Use(SessionMiddleware)
	r.Use(AuthMiddleware(deps.Sessions))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", productHandler.ListProducts)
		r.Get("/products/{slug}", productHandler.GetProduct)
		r.Get("/categories", productHandler.ListCategories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{id}", cartHandler.RemoveItem)
		})

		r.Post("/checkout", checkoutHandler.Checkout)
		r.Get("/orders", ordersHandler.ListOrders)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signin", authHandler.SignIn)
			r.Post("/signout", authHandler.SignOut)
			r.Get("/me", authHandler.Me)
		})
	})

	return r
}
