// Package replay records sessions as timestamped signal events and plays
// them back later, for ghost runs and sharing. A recorded game is
// self-contained: the seed reproduces the sequence and the events
// reproduce everything the player saw.
package replay

import (
	"sync"
	"time"

	"github.com/cbodonnell/afterglow/pkg/simon"
)

// Game is one recorded session.
type Game struct {
	Seed       int64     `json:"seed"`
	Score      int       `json:"score"`
	Rounds     int       `json:"rounds"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
	Events     []Event   `json:"events"`
}

// Event is one pad light change, offset in milliseconds from the start
// of the session.
type Event struct {
	AtMs   int64              `json:"at_ms"`
	Pad    simon.Pad          `json:"pad"`
	Lit    bool               `json:"lit"`
	Source simon.SignalSource `json:"source"`
}

// Signal converts the event back to the signal it was recorded from.
func (e Event) Signal() simon.Signal {
	return simon.Signal{Pad: e.Pad, Lit: e.Lit, Source: e.Source}
}

// Recorder accumulates the events of one session. The consumer of the
// engine's signal stream forwards each signal it renders; that keeps
// recording ordered exactly as the player saw it.
type Recorder struct {
	clock     simon.Clock
	mu        sync.Mutex
	seed      int64
	start     time.Time
	events    []Event
	recording bool
}

// NewRecorder creates a recorder. A nil clock means the system clock.
func NewRecorder(clock simon.Clock) *Recorder {
	if clock == nil {
		clock = simon.NewRealClock()
	}
	return &Recorder{clock: clock}
}

// Start begins a new recording, discarding any previous one.
func (r *Recorder) Start(seed int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seed = seed
	r.start = r.clock.Now()
	r.events = nil
	r.recording = true
}

// Record appends a signal to the recording. Signals outside a recording
// are ignored.
func (r *Recorder) Record(sig simon.Signal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return
	}
	r.events = append(r.events, Event{
		AtMs:   r.clock.Now().Sub(r.start).Milliseconds(),
		Pad:    sig.Pad,
		Lit:    sig.Lit,
		Source: sig.Source,
	})
}

// Finish ends the recording and returns the game, summarized from the
// final session state. Finishing without a recording returns nil.
func (r *Recorder) Finish(st simon.State) *Game {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return nil
	}
	r.recording = false

	duration := r.clock.Now().Sub(r.start)
	if !st.EndedAt.IsZero() && !st.StartedAt.IsZero() {
		duration = st.EndedAt.Sub(st.StartedAt)
	}
	events := make([]Event, len(r.events))
	copy(events, r.events)
	return &Game{
		Seed:       r.seed,
		Score:      st.Score,
		Rounds:     st.Round,
		StartedAt:  r.start,
		DurationMs: duration.Milliseconds(),
		Events:     events,
	}
}
