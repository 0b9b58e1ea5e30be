package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/reminora/photovec/internal/engine"
	"github.com/reminora/photovec/internal/web/handlers"
)

func (s *Server) registerRoutes(eng *engine.Engine) {
	photos := handlers.NewPhotosHandler(eng)
	stats := handlers.NewStatsHandler(eng)
	process := handlers.NewEmbedJobManager(eng, stats)
	cleanup := handlers.NewCleanupHandler(eng, stats)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handlers.HealthCheck)
		r.Get("/stats", stats.Stats)

		r.Post("/photos/similar", photos.Similar)
		r.Post("/photos/duplicates", photos.Duplicates)
		r.Post("/photos/embed", photos.Embed)

		r.Post("/process", process.Start)
		r.Get("/process/{jobId}", process.Status)
		r.Get("/process/{jobId}/events", process.Events)
		r.Delete("/process/{jobId}", process.Cancel)

		r.Post("/cleanup", cleanup.Cleanup)
	})
}
