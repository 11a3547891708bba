package routes

import (
	_ "embed"
	"net/http"
	"time"

	"github.com/Dosada05/tournament-pairing/handlers"
	"github.com/Dosada05/tournament-pairing/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed openapi.json
var openAPIDoc []byte

type Options struct {
	AllowedOrigins []string
	RoundLimiter   *middleware.RateLimiter
}

func SetupRoutes(
	router *chi.Mux,
	roundHandler *handlers.RoundHandler,
	matchHandler *handlers.MatchHandler,
	health http.HandlerFunc,
	opts Options,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(chiMiddleware.Timeout(30 * time.Second))

	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", health)

	router.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(openAPIDoc)
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Route("/api", func(r chi.Router) {
		r.Route("/tournaments/{tournamentID}", func(r chi.Router) {
			r.Get("/matches", matchHandler.ListMatchesHandler)

			r.Group(func(r chi.Router) {
				if opts.RoundLimiter != nil {
					r.Use(opts.RoundLimiter.Limit)
				}
				r.Post("/swiss/rounds", roundHandler.GenerateSwissRoundHandler)
				r.Post("/elimination/rounds", roundHandler.AdvanceEliminationHandler)
			})
		})

		r.Post("/matches/{matchID}/result", matchHandler.ReportResultHandler)
	})
}
