package downloader

import (
	"context"
	"log"
	"time"

	"github.com/pkg/errors"

	"vidgrab/vidgrab-backend/artifact"
)

// Fetcher obtains the bytes of one component stream. The artifact
// synthesizer is the production implementation.
type Fetcher interface {
	Fetch(ctx context.Context, sourceURL, streamID, filename string) (*artifact.Payload, error)
}

// Orchestrator runs one download-to-completion workflow at a time,
// recording every step in the registry and emitting an ordered event
// sequence. Fetch stages are sequential suspension points; video and
// audio are never fetched in parallel.
type Orchestrator struct {
	fetcher  Fetcher
	merger   Merger
	registry *Registry
	tick     time.Duration
}

func NewOrchestrator(fetcher Fetcher, merger Merger, registry *Registry) *Orchestrator {
	return &Orchestrator{
		fetcher:  fetcher,
		merger:   merger,
		registry: registry,
		tick:     120 * time.Millisecond,
	}
}

// SetTick adjusts the delay between progress emissions. Zero disables
// pacing entirely; tests use that.
func (o *Orchestrator) SetTick(d time.Duration) {
	o.tick = d
}

// Run executes the plan on its own goroutine and yields the event
// sequence over a channel that closes when the session is terminal.
func (o *Orchestrator) Run(ctx context.Context, plan Plan) <-chan Event {
	ch := make(chan Event, 32)
	go func() {
		defer close(ch)
		_, _ = o.Execute(ctx, plan, func(ev Event) { ch <- ev })
	}()
	return ch
}

// Execute runs the plan synchronously: Analyzing, DownloadingVideo,
// then DownloadingAudio and Merging when two source streams are required,
// ending in exactly one of Complete or Error. Progress is monotonic and
// each stage stays inside its sub-range; 100 is emitted only at Complete.
func (o *Orchestrator) Execute(ctx context.Context, plan Plan, emit func(Event)) (*Deliverable, error) {
	if emit == nil {
		emit = func(Event) {}
	}
	id := plan.SessionID

	o.registry.Start(id, plan.Filename)
	emit(Event{Type: EventStart, SessionID: id, Filename: plan.Filename, Stage: StageAnalyzing})

	// Degrade gracefully: a structurally required merge with no merge
	// capability still runs the fetch stages; the failure, if any, is
	// deferred to the merge stage itself.
	if plan.MergeRequired && !o.merger.Available() {
		log.Printf("[Orchestrator] Session %s: merge required but merging is unavailable", id)
		emit(Event{
			Type:      EventWarning,
			SessionID: id,
			Filename:  plan.Filename,
			Message:   "merging is unavailable; video and audio will be fetched anyway",
		})
	}

	if err := validatePlan(plan); err != nil {
		return o.fail(emit, plan, err)
	}

	o.advance(emit, id, StageAnalyzing, 0, 5, progressAnalyzeEnd)

	videoEnd := progressVideoEndFull
	if plan.MergeRequired {
		videoEnd = progressVideoEnd
	}

	var videoData, audioData []byte

	if !plan.AudioOnly {
		o.advance(emit, id, StageDownloadingVideo, progressAnalyzeEnd+2)
		payload, err := o.fetcher.Fetch(ctx, plan.Video.SourceURL, plan.Video.ID, "")
		if err != nil {
			return o.fail(emit, plan, errors.Wrap(err, "fetching video stream"))
		}
		videoData = payload.Data
		o.advance(emit, id, StageDownloadingVideo, (progressAnalyzeEnd+videoEnd)/2, videoEnd)
	}

	if plan.Audio != nil {
		o.advance(emit, id, StageDownloadingAudio, progressVideoEnd+3)
		payload, err := o.fetcher.Fetch(ctx, plan.Audio.SourceURL, plan.Audio.ID, "")
		if err != nil {
			return o.fail(emit, plan, errors.Wrap(err, "fetching audio stream"))
		}
		audioData = payload.Data
		o.advance(emit, id, StageDownloadingAudio, 60, progressAudioEnd)
	}

	var data []byte
	contentType := "video/mp4"

	switch {
	case plan.AudioOnly:
		tagged, err := tagAudio(audioData, plan.Title, plan.Uploader)
		if err != nil {
			return o.fail(emit, plan, err)
		}
		data = tagged
		contentType = "audio/mpeg"

	case plan.MergeRequired:
		o.advance(emit, id, StageMerging, progressAudioEnd+5, 85)
		merged, err := o.merger.Merge(videoData, audioData)
		if err != nil {
			return o.fail(emit, plan, err)
		}
		data = merged
		o.advance(emit, id, StageMerging, progressMergeEnd)

	default:
		data = videoData
	}

	o.registry.Complete(id, plan.Filename)
	emit(Event{
		Type:      EventComplete,
		SessionID: id,
		Filename:  plan.Filename,
		Stage:     StageComplete,
		Progress:  progressComplete,
	})

	return &Deliverable{
		Filename:    plan.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

func validatePlan(plan Plan) error {
	if plan.AudioOnly && plan.Audio == nil {
		return errors.New("plan requires an audio stream")
	}
	if !plan.AudioOnly && plan.Video == nil {
		return errors.New("plan requires a video stream")
	}
	if plan.MergeRequired && plan.Audio == nil {
		return errors.New("merge plan requires an audio stream")
	}
	return nil
}

// advance walks the session through progress points of one stage,
// mirroring each point into the registry and the event stream.
func (o *Orchestrator) advance(emit func(Event), id string, stage Stage, points ...int) {
	for _, p := range points {
		o.registry.UpdateProgress(id, p, stage)
		emit(Event{Type: EventProgress, SessionID: id, Stage: stage, Progress: p})
		if o.tick > 0 {
			time.Sleep(o.tick)
		}
	}
}

// fail marks the session terminal and reports the failure, keeping the
// filename for correlation in multi-session lists. No automatic retry:
// a re-attempt is a brand-new session.
func (o *Orchestrator) fail(emit func(Event), plan Plan, err error) (*Deliverable, error) {
	log.Printf("[Orchestrator] Session %s failed: %v", plan.SessionID, err)

	sess, _ := o.registry.Get(plan.SessionID)
	o.registry.Fail(plan.SessionID, err.Error(), plan.Filename)
	emit(Event{
		Type:      EventError,
		SessionID: plan.SessionID,
		Filename:  plan.Filename,
		Stage:     StageError,
		Progress:  sess.Progress,
		Message:   err.Error(),
	})
	return nil, err
}
