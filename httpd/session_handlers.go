package httpd

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleGetSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		sess, ok := s.Downloader.GetSession(id)
		if !ok {
			respondWithError(w, http.StatusNotFound, "session not found: "+id)
			return
		}

		respondWithJSON(w, http.StatusOK, sess)
	}
}

func (s *Server) handleListSessions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, s.Downloader.ListSessions())
	}
}

// handleListDownloads serves the archived download history.
func (s *Server) handleListDownloads() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Store == nil {
			respondWithError(w, http.StatusNotFound, "download history is not enabled")
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		records, err := s.Store.ListDownloads(r.Context(), limit)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list downloads")
			return
		}

		respondWithJSON(w, http.StatusOK, records)
	}
}
