package downloader

import (
	"sort"
	"sync"
)

// Registry is the keyed store of session state. Every operation on an
// unknown id is a silent no-op: it never raises and never creates an
// entry implicitly, so stale callbacks cannot corrupt anything. Each
// registry is an explicit object owned by whoever constructed it; there
// is no package-level instance.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// Start creates a fresh session entry in the Analyzing stage. Starting an
// id that already exists resets it to a clean non-terminal entry, which is
// the one sanctioned way to revive a terminal id.
func (r *Registry) Start(id, filename string) {
	if id == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[id]; !exists {
		r.order = append(r.order, id)
	}
	r.sessions[id] = &Session{
		ID:       id,
		Filename: filename,
		Stage:    StageAnalyzing,
		Progress: 0,
	}
}

// UpdateProgress raises a session's progress and optionally moves its
// stage. Progress never decreases, and terminal sessions are left alone.
func (r *Registry) UpdateProgress(id string, progress int, stage Stage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	if !ok || sess.Stage.Terminal() {
		return
	}
	if progress > sess.Progress {
		sess.Progress = progress
	}
	if stage != "" && !stage.Terminal() {
		sess.Stage = stage
	}
}

// Complete moves a session to its Complete terminal state.
func (r *Registry) Complete(id, filename string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	if !ok || sess.Stage.Terminal() {
		return
	}
	sess.Stage = StageComplete
	sess.Progress = progressComplete
	if filename != "" {
		sess.Filename = filename
	}
}

// Fail moves a session to its Error terminal state, keeping the filename
// when known so a multi-session list can correlate the failure.
func (r *Registry) Fail(id, errMsg, filename string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	if !ok || sess.Stage.Terminal() {
		return
	}
	sess.Stage = StageError
	sess.Error = errMsg
	if filename != "" {
		sess.Filename = filename
	}
}

// Get returns a snapshot of one session.
func (r *Registry) Get(id string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// List returns snapshots of all tracked sessions in creation order.
func (r *Registry) List() []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Session, 0, len(r.sessions))
	for _, id := range r.order {
		if sess, ok := r.sessions[id]; ok {
			out = append(out, *sess)
		}
	}
	return out
}

// Clear drops every tracked session. Later callbacks for dropped ids
// no-op by the unknown-id rule.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = make(map[string]*Session)
	r.order = nil
}

// sortedIDs is only used by tests that need deterministic iteration.
func (r *Registry) sortedIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
