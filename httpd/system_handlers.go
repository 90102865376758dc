package httpd

import (
	"net/http"

	"vidgrab/vidgrab-backend/downloader"
)

type systemInfo struct {
	MergeAvailable bool   `json:"merge_available"`
	FFmpegPresent  bool   `json:"ffmpeg_present"`
	FFmpegVersion  string `json:"ffmpeg_version,omitempty"`
}

// handleSystemInfo reports merge capability. The ffmpeg probe is only a
// capability signal; merging itself is the deterministic built-in mux.
func (s *Server) handleSystemInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version, present := downloader.FFmpegVersion()
		respondWithJSON(w, http.StatusOK, systemInfo{
			MergeAvailable: s.Downloader.MergeAvailable(),
			FFmpegPresent:  present,
			FFmpegVersion:  version,
		})
	}
}
