package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/handbook/pkg/buildinfo"
)

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(
		RequestID,
		middleware.RealIP,
		Logger(s.logger),
		middleware.Recoverer,
		middleware.SetHeader("Server", buildinfo.Product()),
	)

	r.Get("/", s.index)
	r.Get("/healthz", s.health)
	r.Get("/sizes", s.sizes)
	r.Post("/generate-pdf", s.generatePDF)
	r.Post("/preview", s.preview)

	return r
}
