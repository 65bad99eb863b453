package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"retailcore/internal/http/customers"
	"retailcore/internal/http/products"
	"retailcore/internal/http/purchases"
	"retailcore/internal/http/returns"
	"retailcore/internal/http/sales"
)

func New(
	salesV1 *sales.Handler,
	returnsV1 *returns.Handler,
	purchasesV1 *purchases.Handler,
	productsV1 *products.Handler,
	customersV1 *customers.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/sales", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			salesV1.Routes(r)
		})

		r.Route("/returns", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			returnsV1.Routes(r)
		})

		r.Route("/purchase-orders", func(r chi.Router) {
			purchasesV1.Routes(r)
		})

		r.Route("/products", func(r chi.Router) {
			productsV1.Routes(r)
		})

		r.Route("/customers", func(r chi.Router) {
			customersV1.Routes(r)
		})
	})

	return router
}
