package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ledgerkit/keystone/internal/http/clean"
	"github.com/ledgerkit/keystone/internal/http/lease"
)

func New(cleanV1 *clean.Handler, leaseV1 *lease.Handler, allowedOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/reports", cleanV1.Routes)

		r.Route("/lease", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			leaseV1.Routes(r)
		})
	})

	return router
}
