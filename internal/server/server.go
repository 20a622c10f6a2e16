package server

import (
	"net/http"

	"github.com/commons-systems/mediashare/internal/config"
	"github.com/commons-systems/mediashare/internal/handlers"
	"github.com/commons-systems/mediashare/internal/middleware"
)

// Deps carries the wired collaborators for the router
type Deps struct {
	Chat     handlers.ChatClient
	Pipeline handlers.BatchRunner
	Profiles handlers.ProfileStore
	Gallery  handlers.GalleryStore
}

// NewRouter wires the webhook, upload, and gallery routes
func NewRouter(cfg config.Config, deps Deps) http.Handler {
	mux := http.NewServeMux()

	// Health check for Cloud Run
	mux.HandleFunc("GET /health", handlers.HealthHandler)

	// Chat webhook
	webhookH := handlers.NewWebhookHandler(
		cfg.LineChannelSecret,
		deps.Chat,
		deps.Pipeline,
		deps.Profiles,
		cfg.UploadURL,
		cfg.SummaryLang,
	)
	mux.Handle("POST /webhook", webhookH)

	// Upload API
	uploadH := handlers.NewUploadHandler(deps.Pipeline, cfg.MaxUploadMB)
	mux.Handle("POST /api/upload", uploadH)

	// Gallery API
	galleryH := handlers.NewGalleryHandlers(deps.Gallery)
	mux.HandleFunc("GET /api/media", galleryH.List)
	mux.HandleFunc("GET /api/media/download", galleryH.Download)
	mux.HandleFunc("POST /api/media/{id}/delete", galleryH.Delete)
	mux.HandleFunc("POST /api/media/{id}/purge", galleryH.Purge)
	mux.HandleFunc("POST /api/media/{id}/like", galleryH.Like)
	mux.HandleFunc("POST /api/media/{id}/unlike", galleryH.Unlike)
	mux.HandleFunc("POST /api/media/{id}/comments", galleryH.AddComment)
	mux.HandleFunc("GET /api/media/{id}/comments", galleryH.ListComments)

	// Apply middleware
	return middleware.Chain(mux,
		middleware.Recovery,
		middleware.Logger,
	)
}
