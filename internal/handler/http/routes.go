package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init builds the application router.
//
// All routes share the trace-id, logging and gzip middleware. The two
// authentication endpoints are open; everything else requires a valid
// bearer token and runs behind the auth middleware, which places the
// authenticated user ID into the request context.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)

	// unauthenticated routes
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
	})

	// authenticated routes
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/items/", h.listItems)
		r.Post("/api/items/", h.createItem)
		r.Put("/api/items/{id}", h.updateItem)
		r.Delete("/api/items/{id}", h.deleteItem)
		r.Get("/api/items/watch", h.watchItems)

		r.Post("/api/assets/", h.uploadAsset)

		r.Get("/api/profile/", h.getProfile)
		r.Put("/api/profile/", h.saveProfile)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
