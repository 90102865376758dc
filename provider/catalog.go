package provider

import (
	"context"
	"log"
	"net/url"
	"strings"
	"sync"

	"vidgrab/vidgrab-backend/streams"
)

// videoEntry is the catalog's internal record for one known video.
type videoEntry struct {
	Title           string
	DurationSeconds int
	Uploader        string
	ViewCount       int64
}

// Catalog is a deterministic metadata provider backed by a fixture set.
// Real video transport is out of scope for this backend, so the catalog
// plays the role the extraction library played in the original deployment:
// given a recognized watch URL it produces a stable, fully tagged stream
// list for the classifier.
type Catalog struct {
	mu      sync.RWMutex
	videos  map[string]videoEntry
	private map[string]bool
}

// Bitrate estimates (kbps) used to derive approximate sizes per encoding.
var videoBitrates = map[string]int{
	"1080p": 2000,
	"720p":  1500,
	"480p":  800,
	"360p":  500,
}

const audioBitrate = 128

func NewCatalog() *Catalog {
	c := &Catalog{
		videos:  make(map[string]videoEntry),
		private: make(map[string]bool),
	}

	// Seed entries so the API is usable out of the box.
	c.Register("dQw4w9WgXcQ", videoEntry{
		Title:           "Never Gonna Give You Up",
		DurationSeconds: 212,
		Uploader:        "Rick Astley",
		ViewCount:       1_400_000_000,
	})
	c.Register("jNQXAC9IVRw", videoEntry{
		Title:           "Me at the zoo",
		DurationSeconds: 19,
		Uploader:        "jawed",
		ViewCount:       280_000_000,
	})
	c.MarkPrivate("pRiv4teVid0")

	return c
}

// Register adds or replaces a catalog entry.
func (c *Catalog) Register(videoID string, entry videoEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.videos[videoID] = entry
}

// MarkPrivate makes a video id resolve to PrivateVideoError.
func (c *Catalog) MarkPrivate(videoID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.private[videoID] = true
}

func (c *Catalog) Resolve(ctx context.Context, rawURL string) (*streams.VideoMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	videoID, err := parseVideoID(rawURL)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	entry, ok := c.videos[videoID]
	isPrivate := c.private[videoID]
	c.mu.RUnlock()

	if isPrivate {
		return nil, &PrivateVideoError{URL: rawURL}
	}
	if !ok {
		return nil, &NotFoundError{URL: rawURL}
	}

	log.Printf("[Catalog] Resolved %s: %q", videoID, entry.Title)

	return &streams.VideoMetadata{
		Title:           entry.Title,
		DurationSeconds: entry.DurationSeconds,
		ThumbnailURL:    "https://img.youtube.com/vi/" + videoID + "/maxresdefault.jpg",
		Uploader:        entry.Uploader,
		ViewCount:       entry.ViewCount,
		Streams:         buildStreams(videoID, rawURL, entry.DurationSeconds),
	}, nil
}

// buildStreams produces the fixed encoding ladder for a video. Stream ids
// are unique within the response and stable across calls.
func buildStreams(videoID, sourceURL string, durationSeconds int) []streams.Stream {
	if durationSeconds <= 0 {
		durationSeconds = 60
	}

	videoSize := func(label string) uint64 {
		return uint64(videoBitrates[label]) * 1000 / 8 * uint64(durationSeconds)
	}
	audioSize := uint64(audioBitrate) * 1000 / 8 * uint64(durationSeconds)

	return []streams.Stream{
		NewStream(videoID+"_720p", streams.KindVideo, "720p", "mp4", "avc1.64001F, mp4a.40.2", sourceURL, videoSize("720p")),
		NewStream(videoID+"_480p", streams.KindVideo, "480p", "mp4", "avc1.4D401E, mp4a.40.2", sourceURL, videoSize("480p")),
		NewStream(videoID+"_360p", streams.KindVideo, "360p", "mp4", "avc1.42001E, mp4a.40.2", sourceURL, videoSize("360p")),
		NewStream(videoID+"_1080p_hq", streams.KindVideo, "1080p (video only)", "mp4", "avc1.640028", sourceURL, videoSize("1080p")),
		NewStream(videoID+"_audio_128", streams.KindAudio, "128kbps (audio only)", "mp4", "mp4a.40.2", sourceURL, audioSize),
		NewStream(videoID+"_audio_70", streams.KindAudio, "70kbps (audio only)", "webm", "opus", sourceURL, audioSize*70/128),
	}
}

// parseVideoID extracts the video id from youtube.com watch URLs and
// youtu.be short links.
func parseVideoID(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", &InvalidURLError{URL: rawURL, Reason: err.Error()}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", &InvalidURLError{URL: rawURL, Reason: "scheme must be http or https"}
	}

	host := parsed.Hostname()
	switch {
	case strings.HasSuffix(host, "youtube.com"):
		id := parsed.Query().Get("v")
		if id == "" {
			return "", &InvalidURLError{URL: rawURL, Reason: "missing v parameter"}
		}
		return id, nil
	case strings.HasSuffix(host, "youtu.be"):
		id := strings.Trim(parsed.Path, "/")
		if id == "" {
			return "", &InvalidURLError{URL: rawURL, Reason: "missing video id in path"}
		}
		return id, nil
	default:
		return "", &InvalidURLError{URL: rawURL, Reason: "unsupported host"}
	}
}
