package downloader

import (
	"context"
	"log"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"vidgrab/vidgrab-backend/provider"
	"vidgrab/vidgrab-backend/store"
	"vidgrab/vidgrab-backend/streams"
)

// Archiver records terminal sessions in the download history.
type Archiver interface {
	SaveDownload(ctx context.Context, rec *store.DownloadRecord) error
}

// Service owns the registry, the orchestrator, and the background worker
// that drains the job queue. Each service instance is self-contained, so
// independent orchestration contexts can coexist.
type Service struct {
	provider provider.Provider
	orch     *Orchestrator
	registry *Registry
	archive  Archiver
	jobs     chan Plan

	mu      sync.Mutex
	handler func(Event)
}

func NewService(p provider.Provider, fetcher Fetcher, merger Merger, registry *Registry, archive Archiver) *Service {
	s := &Service{
		provider: p,
		orch:     NewOrchestrator(fetcher, merger, registry),
		registry: registry,
		archive:  archive,
		jobs:     make(chan Plan, 100),
	}

	go s.worker()

	return s
}

// SetEventHandler installs the presentation-facing event callback. Every
// start/progress/complete/error event of every session passes through it.
func (s *Service) SetEventHandler(fn func(Event)) {
	s.mu.Lock()
	s.handler = fn
	s.mu.Unlock()
}

func (s *Service) dispatch(ev Event) {
	s.mu.Lock()
	fn := s.handler
	s.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

// Registry exposes the session registry for read access.
func (s *Service) Registry() *Registry {
	return s.registry
}

// MergeAvailable reports whether the configured merger can actually merge.
func (s *Service) MergeAvailable() bool {
	return s.orch.merger.Available()
}

// Orchestrator exposes the underlying orchestrator, mostly so callers can
// tune its tick.
func (s *Service) Orchestrator() *Orchestrator {
	return s.orch
}

// Analyze resolves a URL into metadata with the stream list ordered for
// presentation: progressive first, then video-only, then audio-only, each
// tier best-first.
func (s *Service) Analyze(ctx context.Context, rawURL string) (*streams.VideoMetadata, error) {
	md, err := s.provider.Resolve(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	c := streams.Classify(md.Streams)
	streams.SortByQuality(c.Progressive)
	streams.SortByQuality(c.VideoOnly)

	ordered := make([]streams.Stream, 0, len(md.Streams))
	ordered = append(ordered, c.Progressive...)
	ordered = append(ordered, c.VideoOnly...)
	ordered = append(ordered, c.AudioOnly...)
	md.Streams = ordered

	log.Printf("[Downloader] Analyzed %q: %d streams", md.Title, len(md.Streams))
	return md, nil
}

// SmartInfo describes what a smart download for this URL would produce.
func (s *Service) SmartInfo(ctx context.Context, rawURL string, preferProgressive, audioOnly bool) (*SmartInfo, error) {
	md, err := s.provider.Resolve(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	plan, err := BuildPlan(md, rawURL, preferProgressive, audioOnly)
	if err != nil {
		return nil, err
	}

	return &SmartInfo{
		VideoTitle:         md.Title,
		VideoDuration:      md.DurationSeconds,
		RecommendedQuality: plan.Quality,
		EstimatedSizeMB:    planSizeMB(plan),
		MergeRequired:      plan.MergeRequired,
		DownloadType:       plan.DownloadType,
		MergeAvailable:     s.MergeAvailable(),
	}, nil
}

// StartSmart queues an asynchronous smart download and returns the fresh
// session for polling.
func (s *Service) StartSmart(ctx context.Context, rawURL string, preferProgressive, audioOnly bool) (Session, error) {
	plan, err := s.buildPlanFor(ctx, rawURL, preferProgressive, audioOnly)
	if err != nil {
		return Session{}, err
	}

	s.registry.Start(plan.SessionID, plan.Filename)
	s.jobs <- plan
	log.Printf("[Downloader] Pushed session %s to the queue", plan.SessionID)

	sess, _ := s.registry.Get(plan.SessionID)
	return sess, nil
}

// RunSmart executes a smart download synchronously and returns the final
// deliverable. Used by the HTTP handler that streams the result back.
func (s *Service) RunSmart(ctx context.Context, rawURL string, preferProgressive, audioOnly bool) (*Deliverable, error) {
	plan, err := s.buildPlanFor(ctx, rawURL, preferProgressive, audioOnly)
	if err != nil {
		return nil, err
	}

	deliverable, err := s.orch.Execute(ctx, plan, s.dispatch)
	s.archiveSession(plan, deliverable)
	return deliverable, err
}

// GetSession returns a snapshot of one tracked session.
func (s *Service) GetSession(id string) (Session, bool) {
	return s.registry.Get(id)
}

// ListSessions returns snapshots of all tracked sessions.
func (s *Service) ListSessions() []Session {
	return s.registry.List()
}

func (s *Service) buildPlanFor(ctx context.Context, rawURL string, preferProgressive, audioOnly bool) (Plan, error) {
	md, err := s.provider.Resolve(ctx, rawURL)
	if err != nil {
		return Plan{}, err
	}

	plan, err := BuildPlan(md, rawURL, preferProgressive, audioOnly)
	if err != nil {
		return Plan{}, err
	}
	plan.SessionID = uuid.NewString()
	return plan, nil
}

func (s *Service) worker() {
	log.Println("[Worker] Starting up. Ready for jobs.")

	for plan := range s.jobs {
		log.Printf("[Worker] Picked up session %s", plan.SessionID)

		// Blocking, but this is the worker's own goroutine; fetch
		// stages inside stay strictly sequential.
		deliverable, err := s.orch.Execute(context.Background(), plan, s.dispatch)
		if err != nil {
			log.Printf("[Worker] ERROR session %s: %v", plan.SessionID, err)
		} else {
			log.Printf("[Worker] FINISHED session %s", plan.SessionID)
		}

		s.archiveSession(plan, deliverable)
	}
}

func (s *Service) archiveSession(plan Plan, deliverable *Deliverable) {
	if s.archive == nil {
		return
	}
	sess, ok := s.registry.Get(plan.SessionID)
	if !ok || !sess.Stage.Terminal() {
		return
	}

	rec := &store.DownloadRecord{
		SessionID:    sess.ID,
		URL:          plan.SourceURL,
		Filename:     sess.Filename,
		Quality:      plan.Quality,
		DownloadType: plan.DownloadType,
		Stage:        string(sess.Stage),
		Progress:     sess.Progress,
		Error:        sess.Error,
	}
	if deliverable != nil {
		rec.SizeBytes = int64(len(deliverable.Data))
	}

	if err := s.archive.SaveDownload(context.Background(), rec); err != nil {
		log.Printf("[Downloader] Failed to archive session %s: %v", sess.ID, err)
	}
}

// BuildPlan turns classified metadata into a concrete download plan. The
// default path reconciles the best video-only and audio-only pair, which
// has the higher quality ceiling; preferProgressive flips the priority to
// the recommended progressive stream.
func BuildPlan(md *streams.VideoMetadata, rawURL string, preferProgressive, audioOnly bool) (Plan, error) {
	c := streams.Classify(md.Streams)
	base := safeFilename(md.Title)

	plan := Plan{
		Title:     md.Title,
		Uploader:  md.Uploader,
		SourceURL: rawURL,
	}

	if audioOnly {
		audio, ok := streams.BestAudio(c.AudioOnly)
		if !ok {
			return Plan{}, &streams.NoSuitableStreamError{}
		}
		plan.Filename = base + "_Smart.mp3"
		plan.Quality = audio.Quality
		plan.DownloadType = "audio"
		plan.Audio = &audio
		plan.AudioOnly = true
		return plan, nil
	}

	recommended, recErr := streams.Recommend(md.Streams)
	bestVideo, okVideo := streams.BestVideo(c.VideoOnly)
	bestAudio, okAudio := streams.BestAudio(c.AudioOnly)
	canMerge := okVideo && okAudio

	plan.Filename = base + "_Smart.mp4"

	switch {
	case preferProgressive && recErr == nil:
		plan.Quality = recommended.Quality + " (Progressive)"
		plan.DownloadType = "progressive"
		plan.Video = &recommended

	case canMerge:
		plan.Quality = bestVideo.Quality + " + " + bestAudio.Quality
		plan.DownloadType = "merge"
		plan.Video = &bestVideo
		plan.Audio = &bestAudio
		plan.MergeRequired = true

	case recErr == nil:
		plan.Quality = recommended.Quality + " (Progressive)"
		plan.DownloadType = "progressive"
		plan.Video = &recommended

	default:
		return Plan{}, &streams.NoSuitableStreamError{}
	}

	return plan, nil
}

// planSizeMB estimates the deliverable size from the component streams'
// approximate sizes.
func planSizeMB(plan Plan) float64 {
	total := 0.0
	for _, s := range []*streams.Stream{plan.Video, plan.Audio} {
		if s == nil {
			continue
		}
		if b, err := humanize.ParseBytes(s.ApproxSize); err == nil {
			total += float64(b) / (1024 * 1024)
		}
	}
	return total
}
