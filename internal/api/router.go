package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(app *App, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/ping", PingHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/media/resolve", app.ResolveMediaHandler)
		r.Post("/media/ocr", app.ResolveOCRHandler)
		r.Get("/media/{id}", app.GetMediaHandler)
	})

	return r
}
