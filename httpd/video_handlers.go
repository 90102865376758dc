package httpd

import (
	"encoding/json"
	"log"
	"net/http"
)

type videoInfoRequest struct {
	URL string `json:"url"`
}

type smartDownloadRequest struct {
	VideoURL          string `json:"video_url"`
	PreferProgressive bool   `json:"prefer_progressive"`
	AudioOnly         bool   `json:"audio_only"`
}

func (s *Server) handleVideoInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req videoInfoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: decoding request: %v", err)
			respondWithError(w, http.StatusBadRequest, "bad request")
			return
		}
		if req.URL == "" {
			respondWithError(w, http.StatusBadRequest, "missing required field: url")
			return
		}

		md, err := s.Downloader.Analyze(r.Context(), req.URL)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithJSON(w, http.StatusOK, md)
	}
}

func (s *Server) handleSmartDownloadInfo() http.HandlerFunc {
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

		info, err := s.Downloader.SmartInfo(r.Context(), req.VideoURL, req.PreferProgressive, req.AudioOnly)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithJSON(w, http.StatusOK, info)
	}
}
