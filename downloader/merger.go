package downloader

import (
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// Merger combines a video-only payload and an audio-only payload into one
// deliverable container.
type Merger interface {
	Available() bool
	Merge(video, audio []byte) ([]byte, error)
}

// BoxMerger is the built-in mux: a deterministic container concatenation.
// No codec-level remuxing happens anywhere in this backend; the artifact
// bytes are synthetic regardless of merge outcome, and this merger keeps
// that contract reproducible.
type BoxMerger struct{}

func (BoxMerger) Available() bool { return true }

func (BoxMerger) Merge(video, audio []byte) ([]byte, error) {
	if len(video) == 0 {
		return nil, errors.New("merge: empty video payload")
	}
	if len(audio) == 0 {
		return nil, errors.New("merge: empty audio payload")
	}
	out := make([]byte, 0, len(video)+len(audio))
	out = append(out, video...)
	out = append(out, audio...)
	return out, nil
}

// DisabledMerger stands in when merging has been switched off. The
// orchestrator still runs the fetch stages and surfaces a warning up
// front; the failure only lands at the merge stage itself.
type DisabledMerger struct {
	Reason string
}

func (DisabledMerger) Available() bool { return false }

func (m DisabledMerger) Merge(video, audio []byte) ([]byte, error) {
	reason := m.Reason
	if reason == "" {
		reason = "merging is unavailable in this environment"
	}
	return nil, errors.New("merge: " + reason)
}

// FFmpegVersion probes for an ffmpeg binary and reports its version line.
// Presence is only a capability signal for /api/system-info; the merge
// itself stays in BoxMerger.
func FFmpegVersion() (string, bool) {
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return "", false
	}
	out, err := exec.Command(path, "-version").Output()
	if err != nil {
		return "", true
	}
	if i := strings.IndexByte(string(out), '\n'); i > 0 {
		return string(out[:i]), true
	}
	return strings.TrimSpace(string(out)), true
}
