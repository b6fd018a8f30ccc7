package routes

import (
	"github.com/go-chi/chi/v5"

	"piazza/internal/api/handlers/post"
	"piazza/internal/api/middleware"
	"piazza/internal/core/posts"
)

// RegisterPostRoutes registers the post, engagement, and topic endpoints.
// Every route requires authentication: the core only ever receives resolved
// user ids. The rate limiter runs after auth so its key is the user id.
func RegisterPostRoutes(r chi.Router, service posts.Service, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter) {
	handler := post.NewHandler(service)

	r.Route("/api/posts", func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)
		r.Use(rateLimiter.Middleware)

		r.Post("/", handler.HandleCreate)
		r.Get("/", handler.HandleList)
		r.Get("/{postID}", handler.HandleGet)
		r.Patch("/{postID}", handler.HandleUpdate)
		r.Delete("/{postID}", handler.HandleDelete)

		r.Post("/{postID}/like", handler.HandleLike)
		r.Post("/{postID}/dislike", handler.HandleDislike)
		r.Post("/{postID}/comments", handler.HandleComment)
		r.Put("/{postID}/retweet", handler.HandleRetweet)
		r.Delete("/{postID}/retweet", handler.HandleRemoveRetweet)
		r.Put("/{postID}/bookmark", handler.HandleBookmark)
		r.Delete("/{postID}/bookmark", handler.HandleRemoveBookmark)
	})

	r.Route("/api/topics", func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)
		r.Use(rateLimiter.Middleware)

		r.Get("/{topic}/posts", handler.HandleTopicPosts)
		r.Get("/{topic}/most-active", handler.HandleMostActive)
		r.Get("/{topic}/expired", handler.HandleTopicExpired)
	})

	r.With(authMiddleware.RequireAuth, rateLimiter.Middleware).Get("/api/bookmarks", handler.HandleListBookmarks)
}
