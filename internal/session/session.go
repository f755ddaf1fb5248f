// Package session holds the state shared across tool calls: the focused
// application, the last resolved frame, and detection snapshots that later
// calls refer to by id.
package session

import (
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/mj1618/desktop-locate/internal/model"
)

// DefaultMaxSnapshots bounds the snapshot store; the oldest entry is evicted
// first.
const DefaultMaxSnapshots = 64

// Snapshot is a stored detection outcome.
type Snapshot struct {
	ID        string
	App       string
	Mode      string
	Outcome   model.PipelineOutcome
	CreatedAt time.Time
}

// Session is safe for concurrent use. Writes are last-wins.
type Session struct {
	mu         sync.Mutex
	focusedApp string
	lastFrame  model.WindowFrame

	snapshots map[string]Snapshot
	order     []string
	ttl       time.Duration
	max       int
	now       func() time.Time
}

// New creates a session whose snapshots expire after ttl. A ttl of 0 keeps
// snapshots until evicted by count.
func New(ttl time.Duration) *Session {
	return &Session{
		snapshots: make(map[string]Snapshot),
		ttl:       ttl,
		max:       DefaultMaxSnapshots,
		now:       time.Now,
	}
}

// SetFocused records the application most recently acted on and its frame.
func (s *Session) SetFocused(app string, frame model.WindowFrame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focusedApp = app
	s.lastFrame = frame
}

// Focused returns the application most recently acted on and the frame it
// had then. The frame is for reporting only; callers re-resolve before
// acting.
func (s *Session) Focused() (string, model.WindowFrame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focusedApp, s.lastFrame, s.focusedApp != ""
}

// Store saves outcome under a new ULID and returns the snapshot.
func (s *Session) Store(app, mode string, outcome model.PipelineOutcome) Snapshot {
	snap := Snapshot{
		ID:        ulid.Make().String(),
		App:       app,
		Mode:      mode,
		Outcome:   copyOutcome(outcome),
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
	s.snapshots[snap.ID] = snap
	s.order = append(s.order, snap.ID)
	for len(s.order) > s.max {
		delete(s.snapshots, s.order[0])
		s.order = s.order[1:]
	}
	return copySnapshot(snap)
}

// Lookup returns the snapshot with id if it exists, belongs to app (when app
// is non-empty) and has not expired.
func (s *Session) Lookup(id, app string) (Snapshot, bool) {
	if _, err := ulid.ParseStrict(id); err != nil {
		return Snapshot{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snapshots[id]
	if !ok || s.expiredLocked(snap) {
		return Snapshot{}, false
	}
	if app != "" && !strings.EqualFold(snap.App, app) {
		return Snapshot{}, false
	}
	return copySnapshot(snap), true
}

// Latest returns the newest unexpired snapshot for app.
func (s *Session) Latest(app string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.order) - 1; i >= 0; i-- {
		snap := s.snapshots[s.order[i]]
		if s.expiredLocked(snap) {
			continue
		}
		if strings.EqualFold(snap.App, app) {
			return copySnapshot(snap), true
		}
	}
	return Snapshot{}, false
}

// InvalidateApp drops every snapshot of app.
func (s *Session) InvalidateApp(app string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.order[:0]
	for _, id := range s.order {
		if strings.EqualFold(s.snapshots[id].App, app) {
			delete(s.snapshots, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
}

// Len returns the number of stored snapshots, expired ones included.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots)
}

func (s *Session) expiredLocked(snap Snapshot) bool {
	return s.ttl > 0 && s.now().Sub(snap.CreatedAt) >= s.ttl
}

func (s *Session) purgeLocked() {
	if s.ttl <= 0 {
		return
	}
	kept := s.order[:0]
	for _, id := range s.order {
		if s.expiredLocked(s.snapshots[id]) {
			delete(s.snapshots, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
}

func copySnapshot(s Snapshot) Snapshot {
	s.Outcome = copyOutcome(s.Outcome)
	return s
}

func copyOutcome(o model.PipelineOutcome) model.PipelineOutcome {
	o.Elements = copyElements(o.Elements)
	if o.SuggestedActions != nil {
		o.SuggestedActions = append([]string(nil), o.SuggestedActions...)
	}
	if o.Results != nil {
		results := make([]model.DetectionResult, len(o.Results))
		for i, r := range o.Results {
			r.Elements = copyElements(r.Elements)
			results[i] = r
		}
		o.Results = results
	}
	return o
}

func copyElements(in []model.Element) []model.Element {
	if in == nil {
		return nil
	}
	out := make([]model.Element, len(in))
	for i, el := range in {
		if el.Bounds != nil {
			b := *el.Bounds
			el.Bounds = &b
		}
		out[i] = el
	}
	return out
}
