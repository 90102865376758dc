package httpd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"vidgrab/vidgrab-backend/artifact"
)

// handleDownload is the artifact endpoint: JSON in, binary body with
// attachment framing out. Failures always produce the structured
// {detail} payload instead.
func (s *Server) handleDownload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req artifact.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: decoding request: %v", err)
			respondWithError(w, http.StatusBadRequest, "bad request")
			return
		}

		payload, err := s.Synth.Synthesize(req)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		writeAttachment(w, payload.Filename, payload.ContentType, payload.Data)
	}
}

// handleSmartDownload runs the full orchestrated pipeline and streams the
// final deliverable back.
func (s *Server) handleSmartDownload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req smartDownloadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "bad request")
			return
		}
		if req.VideoURL == "" {
			respondWithError(w, http.StatusBadRequest, "missing required field: video_url")
			return
		}

		deliverable, err := s.Downloader.RunSmart(r.Context(), req.VideoURL, req.PreferProgressive, req.AudioOnly)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		writeAttachment(w, deliverable.Filename, deliverable.ContentType, deliverable.Data)
	}
}

// handleSmartDownloadStart queues the pipeline instead of running it
// inline, returning the session for polling.
func (s *Server) handleSmartDownloadStart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req smartDownloadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "bad request")
			return
		}
		if req.VideoURL == "" {
			respondWithError(w, http.StatusBadRequest, "missing required field: video_url")
			return
		}

		sess, err := s.Downloader.StartSmart(r.Context(), req.VideoURL, req.PreferProgressive, req.AudioOnly)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithJSON(w, http.StatusAccepted, sess) // 202 Accepted is perfect
	}
}

func writeAttachment(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		log.Printf("ERROR: writing attachment %q: %v", filename, err)
	}
}
