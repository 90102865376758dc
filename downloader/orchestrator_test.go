package downloader

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"vidgrab/vidgrab-backend/artifact"
	"vidgrab/vidgrab-backend/streams"
)

// fakeFetcher serves canned bytes per stream id and can be told to fail.
type fakeFetcher struct {
	payloads map[string][]byte
	failID   string
	calls    []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, sourceURL, streamID, filename string) (*artifact.Payload, error) {
	f.calls = append(f.calls, streamID)
	if streamID == f.failID {
		return nil, context.DeadlineExceeded
	}
	data, ok := f.payloads[streamID]
	if !ok {
		data = []byte(streamID)
	}
	return &artifact.Payload{Filename: filename, Data: data}, nil
}

func videoStream(id string) *streams.Stream {
	return &streams.Stream{ID: id, Kind: streams.KindVideo, Role: streams.RoleVideoOnly, Quality: "1080p (video only)", SourceURL: "https://youtu.be/x"}
}

func audioStream(id string) *streams.Stream {
	return &streams.Stream{ID: id, Kind: streams.KindAudio, Role: streams.RoleAudioOnly, Quality: "128kbps (audio only)", SourceURL: "https://youtu.be/x"}
}

func collect(ch <-chan Event) []Event {
	var out []Event
	for ev := range ch {
		out = append(out, ev)
	}
	return out
}

// stageOrder extracts the distinct stage sequence from an event stream.
func stageOrder(events []Event) []Stage {
	var out []Stage
	for _, ev := range events {
		if ev.Stage == "" {
			continue
		}
		if len(out) == 0 || out[len(out)-1] != ev.Stage {
			out = append(out, ev.Stage)
		}
	}
	return out
}

func newTestOrchestrator(fetcher Fetcher, merger Merger) (*Orchestrator, *Registry) {
	registry := NewRegistry()
	o := NewOrchestrator(fetcher, merger, registry)
	o.SetTick(0)
	return o, registry
}

func TestOrchestratorMergeRun(t *testing.T) {
	fetcher := &fakeFetcher{payloads: map[string][]byte{
		"vid": []byte("VVVV"),
		"aud": []byte("AA"),
	}}
	o, registry := newTestOrchestrator(fetcher, BoxMerger{})

	plan := Plan{
		SessionID:     "s1",
		Filename:      "Clip_Smart.mp4",
		Video:         videoStream("vid"),
		Audio:         audioStream("aud"),
		MergeRequired: true,
	}

	events := collect(o.Run(context.Background(), plan))

	want := []Stage{StageAnalyzing, StageDownloadingVideo, StageDownloadingAudio, StageMerging, StageComplete}
	got := stageOrder(events)
	if len(got) != len(want) {
		t.Fatalf("stage order = %v, expected %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stage order = %v, expected %v", got, want)
		}
	}

	last := -1
	for _, ev := range events {
		if ev.Type != EventProgress && ev.Type != EventComplete {
			continue
		}
		if ev.Progress < last {
			t.Fatalf("progress regressed: %d after %d", ev.Progress, last)
		}
		last = ev.Progress
	}
	if last != 100 {
		t.Fatalf("final progress = %d, expected 100", last)
	}

	sess, _ := registry.Get("s1")
	if sess.Stage != StageComplete || sess.Progress != 100 {
		t.Fatalf("registry state = %+v", sess)
	}

	if len(fetcher.calls) != 2 || fetcher.calls[0] != "vid" || fetcher.calls[1] != "aud" {
		t.Fatalf("fetch order = %v, video must precede audio", fetcher.calls)
	}
}

func TestOrchestratorMergeDeliverableBytes(t *testing.T) {
	fetcher := &fakeFetcher{payloads: map[string][]byte{
		"vid": []byte("VVVV"),
		"aud": []byte("AA"),
	}}
	o, _ := newTestOrchestrator(fetcher, BoxMerger{})

	plan := Plan{
		SessionID:     "s1",
		Filename:      "Clip_Smart.mp4",
		Video:         videoStream("vid"),
		Audio:         audioStream("aud"),
		MergeRequired: true,
	}

	deliverable, err := o.Execute(context.Background(), plan, nil)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !bytes.Equal(deliverable.Data, []byte("VVVVAA")) {
		t.Fatalf("merged bytes = %q", deliverable.Data)
	}
	if deliverable.ContentType != "video/mp4" {
		t.Errorf("content type = %s", deliverable.ContentType)
	}
}

func TestOrchestratorProgressiveRunSkipsAudioStages(t *testing.T) {
	fetcher := &fakeFetcher{}
	o, _ := newTestOrchestrator(fetcher, BoxMerger{})

	prog := &streams.Stream{ID: "prog", Kind: streams.KindVideo, Role: streams.RoleProgressive, Quality: "720p"}
	plan := Plan{SessionID: "s1", Filename: "Clip_Smart.mp4", Video: prog}

	events := collect(o.Run(context.Background(), plan))

	for _, ev := range events {
		if ev.Stage == StageDownloadingAudio || ev.Stage == StageMerging {
			t.Fatalf("progressive run emitted stage %s", ev.Stage)
		}
	}
	got := stageOrder(events)
	if got[len(got)-1] != StageComplete {
		t.Fatalf("stage order = %v, expected to end Complete", got)
	}
}

func TestOrchestratorFetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{failID: "aud"}
	o, registry := newTestOrchestrator(fetcher, BoxMerger{})

	plan := Plan{
		SessionID:     "s1",
		Filename:      "Clip_Smart.mp4",
		Video:         videoStream("vid"),
		Audio:         audioStream("aud"),
		MergeRequired: true,
	}

	events := collect(o.Run(context.Background(), plan))

	last := events[len(events)-1]
	if last.Type != EventError || last.Stage != StageError {
		t.Fatalf("last event = %+v, expected error", last)
	}
	if last.Filename != "Clip_Smart.mp4" {
		t.Errorf("error event lost the filename: %+v", last)
	}
	if !strings.Contains(last.Message, "fetching audio stream") {
		t.Errorf("error message = %q", last.Message)
	}

	sess, _ := registry.Get("s1")
	if sess.Stage != StageError || sess.Error == "" {
		t.Fatalf("registry state = %+v", sess)
	}
	if sess.Progress == 100 {
		t.Error("failed session must never reach 100")
	}
}

func TestOrchestratorDisabledMerger(t *testing.T) {
	fetcher := &fakeFetcher{}
	o, registry := newTestOrchestrator(fetcher, DisabledMerger{Reason: "switched off"})

	plan := Plan{
		SessionID:     "s1",
		Filename:      "Clip_Smart.mp4",
		Video:         videoStream("vid"),
		Audio:         audioStream("aud"),
		MergeRequired: true,
	}

	events := collect(o.Run(context.Background(), plan))

	var sawWarning bool
	for _, ev := range events {
		if ev.Type == EventWarning {
			sawWarning = true
		}
	}
	if !sawWarning {
		t.Fatal("expected an up-front warning about merge unavailability")
	}

	// Both fetch stages still ran; the failure landed at merge time.
	if len(fetcher.calls) != 2 {
		t.Fatalf("fetch calls = %v, both streams should be fetched anyway", fetcher.calls)
	}
	sess, _ := registry.Get("s1")
	if sess.Stage != StageError {
		t.Fatalf("registry state = %+v, expected merge-stage failure", sess)
	}
}

func TestOrchestratorAudioOnlyRun(t *testing.T) {
	fetcher := &fakeFetcher{payloads: map[string][]byte{"aud": []byte("AUDIO")}}
	o, _ := newTestOrchestrator(fetcher, BoxMerger{})

	plan := Plan{
		SessionID: "s1",
		Filename:  "Clip_Smart.mp3",
		Title:     "Clip",
		Uploader:  "Someone",
		Audio:     audioStream("aud"),
		AudioOnly: true,
	}

	var events []Event
	deliverable, err := o.Execute(context.Background(), plan, func(ev Event) { events = append(events, ev) })
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	for _, ev := range events {
		if ev.Stage == StageDownloadingVideo || ev.Stage == StageMerging {
			t.Fatalf("audio-only run emitted stage %s", ev.Stage)
		}
	}

	if deliverable.ContentType != "audio/mpeg" {
		t.Errorf("content type = %s", deliverable.ContentType)
	}
	if !bytes.HasPrefix(deliverable.Data, []byte("ID3")) {
		t.Errorf("audio deliverable is not id3-tagged: % x", deliverable.Data[:4])
	}
	if !bytes.HasSuffix(deliverable.Data, []byte("AUDIO")) {
		t.Error("audio payload bytes lost during tagging")
	}
}

func TestOrchestratorRejectsIncompletePlan(t *testing.T) {
	o, registry := newTestOrchestrator(&fakeFetcher{}, BoxMerger{})

	plan := Plan{SessionID: "s1", Filename: "x.mp4"} // no streams at all
	_, err := o.Execute(context.Background(), plan, nil)
	if err == nil {
		t.Fatal("expected a validation failure")
	}

	sess, _ := registry.Get("s1")
	if sess.Stage != StageError {
		t.Fatalf("registry state = %+v", sess)
	}
}
