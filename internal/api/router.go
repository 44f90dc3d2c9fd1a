// Package api provides HTTP routing and handlers for the webauthnd API server.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/asgard/webauthnd/internal/api/handlers"
	apimiddleware "github.com/asgard/webauthnd/internal/api/middleware"
)

// NewRouter sets up the ceremony, policy, health, and metrics endpoints.
func NewRouter(webauthnHandler *handlers.WebauthnHandler, healthHandler *handlers.HealthHandler, corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(apimiddleware.Apply)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "x-session"},
		ExposedHeaders:   []string{"x-session"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/webauthn", func(r chi.Router) {
		r.Route("/credential", func(r chi.Router) {
			r.Post("/challenge", webauthnHandler.CreationChallenge)
			r.Post("/response", webauthnHandler.CreationResponse)
		})
		r.Route("/assertion", func(r chi.Router) {
			r.Post("/challenge", webauthnHandler.AssertionChallenge)
			r.Post("/response", webauthnHandler.AssertionResponse)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)
		r.Get("/users", webauthnHandler.ListUsers)
		r.Route("/policy", func(r chi.Router) {
			r.Get("/", webauthnHandler.GetPolicy)
			r.Patch("/", webauthnHandler.PatchPolicy)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
