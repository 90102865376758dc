// Package artifact produces the downloadable bytes served at the HTTP
// boundary: a pre-supplied sample asset when one exists, otherwise a
// deterministic placeholder payload with correct media framing.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// category describes one artifact class and its framing.
type category struct {
	name        string
	sampleFile  string
	contentType string
	ext         string
	size        int
	header      []byte
}

var (
	categoryVideo = category{
		name:        "video",
		sampleFile:  "sample_video.mp4",
		contentType: "video/mp4",
		ext:         "mp4",
		size:        5 << 20,
		header:      []byte{0x00, 0x00, 0x00, 0x20, 0x66, 0x74, 0x79, 0x70},
	}
	categoryVideoAlt = category{
		name:        "video_480p",
		sampleFile:  "sample_video_480p.mp4",
		contentType: "video/mp4",
		ext:         "mp4",
		size:        5 << 20,
		header:      []byte{0x00, 0x00, 0x00, 0x20, 0x66, 0x74, 0x79, 0x70},
	}
	categoryAudio = category{
		name:        "audio",
		sampleFile:  "sample_audio.mp3",
		contentType: "audio/mpeg",
		ext:         "mp3",
		size:        3 << 20,
		header:      []byte{0xFF, 0xFB, 0x90, 0x00},
	}
)

// Request is the artifact endpoint's input. SourceURL and StreamID are
// required; Filename overrides the derived attachment name.
type Request struct {
	SourceURL string `json:"sourceUrl"`
	StreamID  string `json:"streamId"`
	Filename  string `json:"filename,omitempty"`
}

// Payload is a fully framed artifact ready to serve.
type Payload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ValidationError reports a missing required field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "missing required field: " + e.Field
}

// InternalError reports a synthesis fault, e.g. an unreadable sample asset.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("artifact synthesis failed (%s): %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }

// Synthesizer resolves artifact requests against an optional directory of
// sample assets, falling back to deterministic placeholders.
type Synthesizer struct {
	SampleDir string
}

func NewSynthesizer(sampleDir string) *Synthesizer {
	return &Synthesizer{SampleDir: sampleDir}
}

// Synthesize validates the request and returns the artifact bytes with
// their framing. Errors are always typed; callers never receive a partial
// binary payload.
func (s *Synthesizer) Synthesize(req Request) (*Payload, error) {
	if req.SourceURL == "" {
		return nil, &ValidationError{Field: "sourceUrl"}
	}
	if req.StreamID == "" {
		return nil, &ValidationError{Field: "streamId"}
	}

	cat := inferCategory(req.StreamID)

	data, err := s.loadSample(cat)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = placeholder(cat)
	}

	filename := req.Filename
	if filename == "" {
		filename = "video_" + req.StreamID + "." + cat.ext
	}

	log.Printf("[Artifact] Serving %s artifact %q (%d bytes)", cat.name, filename, len(data))

	return &Payload{
		Filename:    filename,
		ContentType: cat.contentType,
		Data:        data,
	}, nil
}

// Fetch adapts the synthesizer to the downloader's fetcher shape.
func (s *Synthesizer) Fetch(ctx context.Context, sourceURL, streamID, filename string) (*Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Synthesize(Request{SourceURL: sourceURL, StreamID: streamID, Filename: filename})
}

// inferCategory maps a stream id onto an artifact category. Matching is
// case-sensitive substring matching, in this order.
func inferCategory(streamID string) category {
	switch {
	case strings.Contains(streamID, "480p"):
		return categoryVideoAlt
	case strings.Contains(streamID, "audio"), strings.Contains(streamID, "mp3"):
		return categoryAudio
	default:
		return categoryVideo
	}
}

// loadSample returns the sample asset bytes for a category, nil when the
// asset simply is not there, and InternalError on a real read fault.
func (s *Synthesizer) loadSample(cat category) ([]byte, error) {
	if s.SampleDir == "" {
		return nil, nil
	}
	data, err := os.ReadFile(filepath.Join(s.SampleDir, cat.sampleFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &InternalError{Op: "read sample " + cat.sampleFile, Err: err}
	}
	return data, nil
}

// placeholder builds the deterministic payload: the category's magic
// header followed by an i mod 256 byte ramp. Never random, so the output
// is byte-reproducible for a given size and offset.
func placeholder(cat category) []byte {
	buf := make([]byte, cat.size)
	copy(buf, cat.header)
	for i := len(cat.header); i < len(buf); i++ {
		buf[i] = byte(i % 256)
	}
	return buf
}
