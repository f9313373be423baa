// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// bulletin board. Routes are organized into page groups (CSRF-protected
// forms, authenticated board management) and a JSON API group.
package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"bboard/internal/handlers"
	"bboard/internal/metrics"
	"bboard/internal/middleware"
	"bboard/internal/session"
	"bboard/internal/token"
	"bboard/web"
)

// Config carries everything the router needs to wire the routes.
type Config struct {
	Sessions *session.Store
	Tokens   *token.Manager
	Metrics  *metrics.Metrics

	Public  *handlers.Public
	Board   *handlers.Board
	Rubrics *handlers.Rubrics
	Auth    *handlers.Auth
	API     *handlers.API

	// MediaDir is the local media directory to serve under /media/.
	// Empty when media lives on object storage and is served from there.
	MediaDir string

	// SecureCookies marks the CSRF cookie Secure; enabled outside dev.
	SecureCookies bool
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(cfg Config) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	r.Use(middleware.LoadSession(cfg.Sessions))

	// Health check and metrics. No auth, no CSRF.
	r.Get("/health", healthHandler)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	// Static assets from the embedded filesystem.
	staticFS, _ := fs.Sub(web.StaticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Uploaded media, when stored on local disk.
	if cfg.MediaDir != "" {
		r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.MediaDir))))
	}

	// JSON API. Reads are open; writes require a session or a bearer token.
	r.Route("/api", func(r chi.Router) {
		r.Post("/token", cfg.API.IssueToken)

		r.Get("/rubrics", cfg.API.ListRubrics)
		r.Get("/rubrics/{id}", cfg.API.GetRubric)
		r.Get("/bb", cfg.API.ListBbs)
		r.Get("/bb/{id}", cfg.API.GetBb)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAPIAuth(cfg.Tokens))
			r.Post("/rubrics", cfg.API.CreateRubric)
			r.Put("/rubrics/{id}", cfg.API.UpdateRubric)
			r.Patch("/rubrics/{id}", cfg.API.UpdateRubric)
			r.Delete("/rubrics/{id}", cfg.API.DeleteRubric)
			r.Post("/bb", cfg.API.CreateBb)
			r.Put("/bb/{id}", cfg.API.UpdateBb)
			r.Patch("/bb/{id}", cfg.API.UpdateBb)
			r.Delete("/bb/{id}", cfg.API.DeleteBb)
		})
	})

	// HTML pages. The body cap must come before CSRF, which reads the
	// form; every form then goes through CSRF protection.
	r.Group(func(r chi.Router) {
		r.Use(middleware.MaxBytes(handlers.MaxUploadBytes))
		r.Use(middleware.NewCSRF(cfg.SecureCookies))

		r.Get("/", cfg.Public.Index)
		r.Get("/detail/{id}", cfg.Public.Detail)
		// Date-prefixed detail URLs from the previous site layout.
		r.Get("/detail/{year:[0-9]+}/{month:[0-9]+}/{day:[0-9]+}/{id}", cfg.Public.OldDetail)

		r.Get("/jokes", cfg.Public.Jokes)
		r.Get("/images", cfg.Public.Images)

		// Search runs user-supplied regular expressions on the database,
		// so submissions are rate limited per client.
		searchLimiter := middleware.NewRateLimiter(20, time.Minute)
		r.Get("/search", cfg.Public.SearchPage)
		r.With(searchLimiter.Middleware).Post("/search", cfg.Public.SearchSubmit)

		r.Get("/login", cfg.Auth.LoginPage)
		r.Post("/login", cfg.Auth.LoginSubmit)
		r.Post("/logout", cfg.Auth.Logout)

		// Creating listings and managing rubrics needs a session.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/add", cfg.Board.AddForm)
			r.Post("/add", cfg.Board.AddSubmit)
			r.Get("/rubrics", cfg.Rubrics.ManagePage)
			r.Post("/rubrics", cfg.Rubrics.ManageSubmit)
			r.Post("/images", cfg.Public.ImagesSubmit)
		})

		r.Get("/update/{id}", cfg.Board.EditForm)
		r.Post("/update/{id}", cfg.Board.EditSubmit)
		r.Post("/delete/{id}", cfg.Board.Delete)

		// Rubric pages are keyed by bare UUID, so this catch-all
		// must be registered after every other top-level route.
		r.Get("/{rubricID}", cfg.Public.ByRubric)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
