// Package downloader: orchestration of download sessions, from analysis
// through fetch and merge to a final deliverable.
package downloader

import (
	"regexp"
	"strings"

	"vidgrab/vidgrab-backend/streams"
)

// Stage is a named phase of the download pipeline. Each non-terminal
// stage owns a contiguous sub-range of the 0-100 progress scale.
type Stage string

const (
	StageReady            Stage = "Ready"
	StageLoadingInfo      Stage = "LoadingInfo"
	StageAnalyzing        Stage = "Analyzing"
	StageDownloadingVideo Stage = "DownloadingVideo"
	StageDownloadingAudio Stage = "DownloadingAudio"
	StageMerging          Stage = "Merging"
	StageComplete         Stage = "Complete"
	StageError            Stage = "Error"
)

// Terminal reports whether a stage ends the session for good.
func (s Stage) Terminal() bool {
	return s == StageComplete || s == StageError
}

// Progress sub-range boundaries per stage.
const (
	progressAnalyzeEnd   = 10
	progressVideoEndFull = 60 // no merge required
	progressVideoEnd     = 45 // merge required
	progressAudioEnd     = 75
	progressMergeEnd     = 95
	progressComplete     = 100
)

// Session is one user-initiated download attempt. Mutated only through
// registry operations keyed by its own id.
type Session struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Stage    Stage  `json:"stage"`
	Progress int    `json:"progress"`
	Error    string `json:"error,omitempty"`
}

// Plan is a resolved download-to-completion workflow: which stream(s) to
// fetch, whether a merge is structurally required, and the metadata used
// for naming and tagging the deliverable.
type Plan struct {
	SessionID     string
	Filename      string
	Title         string
	Uploader      string
	SourceURL     string
	Quality       string // human quality description, e.g. "1080p + 128kbps"
	DownloadType  string // progressive | merge | audio
	Video         *streams.Stream
	Audio         *streams.Stream
	MergeRequired bool
	AudioOnly     bool
}

// Deliverable is the final artifact of a completed run.
type Deliverable struct {
	Filename    string
	ContentType string
	Data        []byte
}

// SmartInfo summarizes what a smart download would do, before running it.
type SmartInfo struct {
	VideoTitle         string  `json:"video_title"`
	VideoDuration      int     `json:"video_duration"`
	RecommendedQuality string  `json:"recommended_quality"`
	EstimatedSizeMB    float64 `json:"estimated_size_mb"`
	MergeRequired      bool    `json:"merge_required"`
	DownloadType       string  `json:"download_type"` // progressive | merge | audio
	MergeAvailable     bool    `json:"merge_available"`
}

var unsafeFilenameChars = regexp.MustCompile(`[^\w\-. ]`)

const maxFilenameLength = 50

// safeFilename strips characters that break attachment headers and file
// systems, and caps the length.
func safeFilename(title string) string {
	name := unsafeFilenameChars.ReplaceAllString(title, "")
	name = strings.TrimSpace(name)
	if name == "" {
		name = "download"
	}
	if len(name) > maxFilenameLength {
		name = name[:maxFilenameLength]
	}
	return strings.ReplaceAll(name, " ", "_")
}
