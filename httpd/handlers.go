package httpd

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"vidgrab/vidgrab-backend/artifact"
	"vidgrab/vidgrab-backend/downloader"
	"vidgrab/vidgrab-backend/provider"
	"vidgrab/vidgrab-backend/store"
	"vidgrab/vidgrab-backend/streams"
)

type Server struct {
	Downloader *downloader.Service
	Synth      *artifact.Synthesizer
	Store      *store.Store
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("ERROR: Failed to encode JSON response: %v", err)
	}
}

// respondWithError writes the structured {detail} payload every failure
// path uses; binary endpoints included, so clients never get a truncated
// media body on error.
func respondWithError(w http.ResponseWriter, code int, detail string) {
	respondWithJSON(w, code, map[string]string{"detail": detail})
}

// respondWithDomainError maps typed errors onto HTTP statuses.
func respondWithDomainError(w http.ResponseWriter, err error) {
	respondWithError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	var (
		validationErr *artifact.ValidationError
		internalErr   *artifact.InternalError
		invalidURL    *provider.InvalidURLError
		notFound      *provider.NotFoundError
		privateVideo  *provider.PrivateVideoError
		transportErr  *provider.TransportError
		noSuitable    *streams.NoSuitableStreamError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &invalidURL):
		return http.StatusBadRequest
	case errors.As(err, &privateVideo):
		return http.StatusForbidden
	case errors.As(err, &notFound), errors.As(err, &noSuitable):
		return http.StatusNotFound
	case errors.As(err, &transportErr):
		return http.StatusBadGateway
	case errors.As(err, &internalErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
