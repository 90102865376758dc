package downloader

import (
	"errors"
	"strings"
	"testing"

	"vidgrab/vidgrab-backend/streams"
)

func testMetadata() *streams.VideoMetadata {
	mk := func(id string, kind streams.Kind, quality, size string) streams.Stream {
		return streams.Stream{
			ID:         id,
			Kind:       kind,
			Role:       streams.AssignRole(kind, quality),
			Quality:    quality,
			ApproxSize: size,
		}
	}
	return &streams.VideoMetadata{
		Title:           "Test Clip: The \"Best\" One!",
		DurationSeconds: 120,
		Uploader:        "Uploader",
		Streams: []streams.Stream{
			mk("prog720", streams.KindVideo, "720p", "20 MiB"),
			mk("prog480", streams.KindVideo, "480p", "10 MiB"),
			mk("vo1080", streams.KindVideo, "1080p (video only)", "30 MiB"),
			mk("ao128", streams.KindAudio, "128kbps (audio only)", "2 MiB"),
			mk("ao70", streams.KindAudio, "70kbps (audio only)", "1 MiB"),
		},
	}
}

func TestBuildPlanDefaultsToMerge(t *testing.T) {
	plan, err := BuildPlan(testMetadata(), "https://youtu.be/x", false, false)
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}

	if plan.DownloadType != "merge" || !plan.MergeRequired {
		t.Fatalf("plan = %+v, expected a merge plan", plan)
	}
	if plan.Video.ID != "vo1080" || plan.Audio.ID != "ao128" {
		t.Errorf("picked %s + %s, expected vo1080 + ao128", plan.Video.ID, plan.Audio.ID)
	}
	if !strings.HasSuffix(plan.Filename, "_Smart.mp4") {
		t.Errorf("filename = %q", plan.Filename)
	}
	if plan.Quality != "1080p (video only) + 128kbps (audio only)" {
		t.Errorf("quality = %q", plan.Quality)
	}
}

func TestBuildPlanPreferProgressive(t *testing.T) {
	plan, err := BuildPlan(testMetadata(), "https://youtu.be/x", true, false)
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}

	if plan.DownloadType != "progressive" || plan.MergeRequired {
		t.Fatalf("plan = %+v, expected progressive", plan)
	}
	if plan.Video.ID != "prog720" {
		t.Errorf("picked %s, expected the best progressive stream", plan.Video.ID)
	}
	if plan.Audio != nil {
		t.Error("progressive plan must not carry an audio stream")
	}
}

func TestBuildPlanAudioOnly(t *testing.T) {
	plan, err := BuildPlan(testMetadata(), "https://youtu.be/x", false, true)
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}

	if plan.DownloadType != "audio" || !plan.AudioOnly {
		t.Fatalf("plan = %+v, expected audio-only", plan)
	}
	if plan.Audio.ID != "ao128" {
		t.Errorf("picked %s, expected the 128kbps stream", plan.Audio.ID)
	}
	if !strings.HasSuffix(plan.Filename, "_Smart.mp3") {
		t.Errorf("filename = %q", plan.Filename)
	}
}

func TestBuildPlanFallsBackToProgressive(t *testing.T) {
	md := testMetadata()
	// Drop the audio tier so no merge pair exists.
	var kept []streams.Stream
	for _, s := range md.Streams {
		if s.Role != streams.RoleAudioOnly {
			kept = append(kept, s)
		}
	}
	md.Streams = kept

	plan, err := BuildPlan(md, "https://youtu.be/x", false, false)
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}
	if plan.DownloadType != "progressive" || plan.Video.ID != "prog720" {
		t.Fatalf("plan = %+v, expected progressive fallback", plan)
	}
}

func TestBuildPlanNoSuitableStream(t *testing.T) {
	var noStream *streams.NoSuitableStreamError

	md := &streams.VideoMetadata{Title: "Empty"}
	if _, err := BuildPlan(md, "u", false, false); !errors.As(err, &noStream) {
		t.Errorf("empty metadata error = %v", err)
	}
	if _, err := BuildPlan(md, "u", false, true); !errors.As(err, &noStream) {
		t.Errorf("audio-only on empty metadata error = %v", err)
	}
}

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Plain Title", "Plain_Title"},
		{"Slash/And\\Colon:Name", "SlashAndColonName"},
		{"  trimmed  ", "trimmed"},
		{"", "download"},
		{"???", "download"},
		{strings.Repeat("a", 80), strings.Repeat("a", 50)},
	}

	for _, test := range tests {
		if got := safeFilename(test.in); got != test.expected {
			t.Errorf("safeFilename(%q) = %q, expected %q", test.in, got, test.expected)
		}
	}
}

func TestPlanSizeMB(t *testing.T) {
	plan := Plan{
		Video: &streams.Stream{ApproxSize: "30 MiB"},
		Audio: &streams.Stream{ApproxSize: "2 MiB"},
	}
	if got := planSizeMB(plan); got != 32 {
		t.Errorf("planSizeMB = %v, expected 32", got)
	}

	if got := planSizeMB(Plan{}); got != 0 {
		t.Errorf("planSizeMB of an empty plan = %v", got)
	}
}
