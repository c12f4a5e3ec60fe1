// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/yapicms/internal/middleware"
)

// Routes assembles the full HTTP surface: public endpoints behind a rate
// limiter, editor and admin endpoints behind JWT auth, and the uploads
// static file server.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(h.cfg.CORSOrigins))

	rateLimit := middleware.NewGlobalRateLimiter(h.cfg.RateLimitRequests, h.cfg.RateLimitWindow).Middleware()
	requireAuth := middleware.JWTAuth(h.tokens, h.store.DB())

	r.Route("/api", func(r chi.Router) {
		// Public, rate limited.
		r.Group(func(r chi.Router) {
			r.Use(rateLimit)

			r.Get("/health", h.Health)
			r.Post("/auth/login", h.Login)

			r.Get("/pages", h.ListPages)
			r.Get("/pages/{slug}", h.GetPage)
			r.Get("/projects", h.ListProjects)
			r.Get("/projects/{slug}", h.GetProject)
			r.Get("/references", h.ListReferences)
			r.Get("/services", h.ListServices)
			r.Get("/services/{slug}", h.GetService)
			r.Get("/categories", h.ListCategories)
			r.Get("/contact/info", h.GetContactInfo)
			r.Post("/contact/submit", h.SubmitContact)
			r.Get("/settings/public", h.GetPublicSettings)
		})

		// Editor and admin.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(middleware.RequireEditor())

			r.Get("/auth/me", h.Me)

			r.Get("/pages/admin", h.AdminListPages)
			r.Post("/pages", h.CreatePage)
			r.Put("/pages/{id}", h.UpdatePage)
			r.Post("/pages/{pageID}/sections", h.CreateSection)
			r.Post("/pages/{pageID}/sections/reorder", h.ReorderSections)
			r.Put("/sections/{id}", h.UpdateSection)
			r.Delete("/sections/{id}", h.DeleteSection)

			r.Get("/projects/admin", h.AdminListProjects)
			r.Post("/projects", h.CreateProject)
			r.Put("/projects/{id}", h.UpdateProject)
			r.Post("/projects/{id}/gallery", h.AddGalleryImage)
			r.Delete("/projects/gallery/{imageID}", h.DeleteGalleryImage)
			r.Post("/projects/reorder", h.ReorderProjects)

			r.Get("/references/admin", h.AdminListReferences)
			r.Post("/references", h.CreateReference)
			r.Put("/references/{id}", h.UpdateReference)
			r.Post("/references/reorder", h.ReorderReferences)

			r.Get("/services/admin", h.AdminListServices)
			r.Post("/services", h.CreateService)
			r.Put("/services/{id}", h.UpdateService)

			r.Get("/categories/admin", h.AdminListCategories)
			r.Post("/categories", h.CreateCategory)
			r.Put("/categories/{id}", h.UpdateCategory)

			r.Put("/contact/info/{lang}", h.UpdateContactInfo)
			r.Get("/contact/submissions", h.ListSubmissions)
			r.Patch("/contact/submissions/{id}/read", h.MarkSubmissionRead)
			r.Patch("/contact/submissions/{id}/archive", h.ArchiveSubmission)

			r.Post("/media/upload", h.UploadMedia)
			r.Post("/media/upload-multiple", h.UploadMediaMultiple)
			r.Get("/media", h.ListMedia)
			r.Put("/media/{id}", h.UpdateMedia)
			r.Delete("/media/{id}", h.DeleteMedia)
		})

		// Admin only.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(middleware.RequireAdmin())

			r.Post("/auth/users", h.CreateUser)
			r.Get("/auth/users", h.ListUsers)
			r.Put("/auth/users/{id}", h.UpdateUser)

			r.Delete("/projects/{id}", h.DeleteProject)
			r.Delete("/references/{id}", h.DeleteReference)
			r.Delete("/services/{id}", h.DeleteService)
			r.Delete("/categories/{id}", h.DeleteCategory)
			r.Delete("/contact/submissions/{id}", h.DeleteSubmission)

			r.Get("/settings", h.ListSettings)
			r.Put("/settings/{key}", h.UpdateSetting)
			r.Post("/settings/bulk", h.BulkUpdateSettings)

			r.Get("/events", h.ListEvents)
		})
	})

	// Uploaded files.
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.cfg.UploadsDir)))
	r.Get("/uploads/*", func(w http.ResponseWriter, r *http.Request) {
		fileServer.ServeHTTP(w, r)
	})

	return r
}
