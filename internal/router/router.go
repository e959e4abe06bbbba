// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// blog server. It organizes routes into the public blog surface, the
// feeds, and the API-key-protected admin JSON API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blogavel/internal/handlers"
	"blogavel/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. commentLimiter throttles public comment
// submission per client IP.
func New(public *handlers.Public, feeds *handlers.Feeds, comments *handlers.Comments, admin *handlers.Admin, apiKeys []string, commentLimiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check, no auth.
	r.Get("/health", healthHandler)

	// Public blog surface.
	r.Get("/", redirectToBlog)
	r.Route("/blog", func(r chi.Router) {
		r.Get("/", public.Index)
		r.Get("/category/{slug}", public.Category)
		r.Get("/tag/{slug}", public.Tag)
		r.Get("/{slug}", public.Show)

		r.With(commentLimiter.Middleware).Post("/{slug}/comments", comments.Submit)
	})

	// Feeds.
	r.Get("/feed.xml", feeds.RSS)
	r.Get("/sitemap.xml", feeds.Sitemap)

	// Admin JSON API. Every route requires a configured API key.
	r.Route("/api/blogavel/v1/admin", func(r chi.Router) {
		r.Use(middleware.APIKey(apiKeys))

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", admin.PostsList)
			r.Post("/", admin.PostCreate)
			r.Get("/{id}", admin.PostShow)
			r.Put("/{id}", admin.PostUpdate)
		})

		r.Get("/categories", admin.CategoriesList)
		r.Get("/tags", admin.TagsList)

		r.Route("/media", func(r chi.Router) {
			r.Get("/", admin.MediaList)
			r.Post("/", admin.MediaUpload)
			r.Get("/{id}", admin.MediaShow)
			r.Delete("/{id}", admin.MediaDelete)
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/", admin.CommentsList)
			r.Post("/{id}/approve", admin.CommentApprove)
			r.Post("/{id}/spam", admin.CommentSpam)
			r.Delete("/{id}", admin.CommentDelete)
		})
	})

	return r
}

// redirectToBlog sends the site root to the blog index.
func redirectToBlog(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/blog", http.StatusFound)
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
