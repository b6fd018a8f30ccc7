package routes

import (
	"github.com/go-chi/chi/v5"

	"piazza/internal/api/handlers/user"
	"piazza/internal/api/middleware"
	"piazza/internal/core/users"
)

// RegisterUserRoutes registers the unauthenticated credential endpoints.
// These routes carry no user id, so the rate limiter keys them by client IP.
func RegisterUserRoutes(r chi.Router, service users.Service, rateLimiter *middleware.RateLimiter) {
	handler := user.NewHandler(service)

	r.Route("/api/user", func(r chi.Router) {
		r.Use(rateLimiter.Middleware)

		r.Post("/register", handler.HandleRegister)
		r.Post("/login", handler.HandleLogin)
	})
}
