package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"vidgrab/vidgrab-backend/artifact"
	"vidgrab/vidgrab-backend/downloader"
	"vidgrab/vidgrab-backend/store"
)

func NewRouter(dlSvc *downloader.Service, synth *artifact.Synthesizer, db *store.Store) http.Handler {
	// Create the Server struct that holds our services
	srv := &Server{
		Downloader: dlSvc,
		Synth:      synth,
		Store:      db,
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// --- API Routes ---
	r.Get("/health", srv.handleHealth())
	r.Get("/api/system-info", srv.handleSystemInfo())

	r.Post("/api/video-info", srv.handleVideoInfo())
	r.Post("/api/download", srv.handleDownload())
	r.Post("/api/smart-download-info", srv.handleSmartDownloadInfo())
	r.Post("/api/smart-download", srv.handleSmartDownload())
	r.Post("/api/smart-download-start", srv.handleSmartDownloadStart())

	r.Get("/api/sessions", srv.handleListSessions())
	r.Get("/api/sessions/{sessionID}", srv.handleGetSession())
	r.Get("/api/downloads", srv.handleListDownloads())

	return r
}
