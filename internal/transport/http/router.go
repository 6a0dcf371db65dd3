package transporthttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"example.com/formintake/internal/requestid"
)

func (d *ServerDeps) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(d.AccessLog)
	r.Use(middleware.Recoverer)
	r.Use(SecureHeaders)

	r.NotFound(d.HandleNotFound)
	r.MethodNotAllowed(d.HandleNotFound)

	r.Get("/health", d.HandleHealth)
	r.Get("/readyz", d.HandleReadyz)

	r.Group(func(r chi.Router) {
		r.Use(d.RequireReady)

		r.With(
			BodyLimit(d.Cfg.MaxBodyBytes),
			RequireContentType("application/json", "application/x-www-form-urlencoded"),
		).Post("/submit-form", d.HandleSubmitForm)

		r.With(BodyLimit(d.Cfg.MaxUploadBytes)).Post("/upload-csv", d.HandleUploadCSV)

		r.Get("/view-data", d.HandleViewData)
	})

	r.Get("/*", d.HandleStatic)

	return r
}
