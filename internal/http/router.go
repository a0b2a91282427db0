package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/fieldservice/internal/http/auth"
	"github.com/MrJamesThe3rd/fieldservice/internal/http/customer"
	"github.com/MrJamesThe3rd/fieldservice/internal/http/equipment"
	"github.com/MrJamesThe3rd/fieldservice/internal/http/order"
	"github.com/MrJamesThe3rd/fieldservice/internal/http/portal"
	"github.com/MrJamesThe3rd/fieldservice/internal/http/report"
	"github.com/MrJamesThe3rd/fieldservice/internal/http/scan"
	"github.com/MrJamesThe3rd/fieldservice/internal/http/technician"
)

type Handlers struct {
	Orders      *order.Handler
	Equipment   *equipment.Handler
	Technicians *technician.Handler
	Customers   *customer.Handler
	Reports     *report.Handler
	Portal      *portal.Handler
	Scan        *scan.Handler
}

type Options struct {
	// Auth is nil when no secret is configured: the staff API is open and the portal is not mounted.
	Auth           *auth.Authenticator
	AllowedOrigins []string
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(opts.Auth.Require(auth.RoleDispatcher, auth.RoleTechnician))
		}

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Orders.Routes(r)
		})

		r.Route("/service-types", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Orders.ServiceTypeRoutes(r)
		})

		r.Route("/equipment", h.Equipment.Routes)

		r.Route("/technicians", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Technicians.Routes(r)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Customers.Routes(r)
		})

		r.Route("/reports", h.Reports.Routes)
	})

	if opts.Auth != nil {
		router.Route("/portal", func(r chi.Router) {
			r.Use(opts.Auth.Require(auth.RoleCustomer))
			h.Portal.Routes(r)
		})
	}

	router.Route("/scan", h.Scan.Routes)

	return router
}
