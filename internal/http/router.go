package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/finny-schedules/internal/http/export"
	"github.com/MrJamesThe3rd/finny-schedules/internal/http/schedule"
	"github.com/MrJamesThe3rd/finny-schedules/internal/http/transaction"
)

type Options struct {
	AllowedOrigins []string
	Timeout        time.Duration
}

func New(
	opts Options,
	transactionsV1 *transaction.Handler,
	schedulesV1 *schedule.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			schedulesV1.Routes(r)
		})

		r.Route("/export", exportV1.Routes)
	})

	return router
}
