package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cajero-dev/cajero/internal/http/importcsv"
	"github.com/cajero-dev/cajero/internal/http/ledgerfile"
	"github.com/cajero-dev/cajero/internal/http/movement"
	"github.com/cajero-dev/cajero/internal/http/reconcile"
	"github.com/cajero-dev/cajero/internal/http/rules"
)

func New(
	corsOrigin string,
	importV1 *importcsv.Handler,
	movementsV1 *movement.Handler,
	rulesV1 *rules.Handler,
	ledgerV1 *ledgerfile.Handler,
	reconcileV1 *reconcile.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{corsOrigin},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/import", importV1.Routes)

		r.Route("/movements", movementsV1.Routes)

		r.Route("/rules", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			rulesV1.Routes(r)
		})

		r.Route("/ledger", ledgerV1.Routes)

		r.Route("/reconcile", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			reconcileV1.Routes(r)
		})
	})

	return router
}
