package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/budgetly/internal/http/auth"
	"github.com/MrJamesThe3rd/budgetly/internal/http/budget"
	"github.com/MrJamesThe3rd/budgetly/internal/http/export"
	"github.com/MrJamesThe3rd/budgetly/internal/http/importcsv"
	"github.com/MrJamesThe3rd/budgetly/internal/http/matching"
	"github.com/MrJamesThe3rd/budgetly/internal/revalidate"
)

type Options struct {
	AllowedOrigins []string
	Timeout        time.Duration
}

func New(
	opts Options,
	authV1 *auth.Handler,
	budgetsV1 *budget.Handler,
	exportsV1 *export.Handler,
	importsV1 *importcsv.Handler,
	rulesV1 *matching.Handler,
	reval *revalidate.Revalidator,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			authV1.Routes(r)

			r.Group(func(r chi.Router) {
				r.Use(authV1.Authenticate)
				authV1.SessionRoutes(r)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authV1.Authenticate)
			r.Use(reval.Middleware(auth.Scope))

			r.Route("/budgets", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				budgetsV1.Routes(r)
			})

			r.Route("/categories", budgetsV1.CategoryRoutes)
			r.Route("/exports/{id}", exportsV1.Routes)
			r.Route("/imports/{id}", importsV1.Routes)

			r.Route("/rules", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				rulesV1.Routes(r)
			})
		})
	})

	return router
}
