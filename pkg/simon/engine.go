// Package simon implements the sequence repetition game. An Engine runs
// one session at a time on its own goroutine: it grows a random pad
// sequence round by round, plays it back as light signals, and checks the
// player's presses against it. Callers observe the session through a
// replayed state stream and a signal stream, and drive it through
// non-blocking commands.
package simon

import (
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cbodonnell/afterglow/pkg/log"
	"github.com/cbodonnell/afterglow/pkg/stream"
)

const (
	// DefaultShowInterval is the time one playback step takes in round 1.
	DefaultShowInterval = 600 * time.Millisecond
	// DefaultIntervalDecay shrinks the playback interval every round.
	DefaultIntervalDecay = 0.9
	// DefaultMinInterval is the floor the playback interval never drops below.
	DefaultMinInterval = 250 * time.Millisecond
	// DefaultLitFraction is the portion of a playback step the pad is lit.
	DefaultLitFraction = 0.8
	// DefaultPressTimeout ends the session when the player stalls.
	DefaultPressTimeout = 5 * time.Second
	// DefaultClearedPause is the breather between a cleared round and the
	// next playback.
	DefaultClearedPause = 800 * time.Millisecond
	// DefaultPressFlash is how long a pad stays lit after a press.
	DefaultPressFlash = 150 * time.Millisecond

	commandBuffer = 16
	signalBuffer  = 64
)

type NewEngineOptions struct {
	ShowInterval  time.Duration
	IntervalDecay float64
	MinInterval   time.Duration
	LitFraction   float64
	PressTimeout  time.Duration
	ClearedPause  time.Duration
	PressFlash    time.Duration
	Clock         Clock
}

// Engine runs sequence repetition sessions. Use NewEngine, the zero value
// is not usable.
type Engine struct {
	opts      NewEngineOptions
	clock     Clock
	cmds      chan any
	states    *stream.Value[State]
	signals   *stream.Stream[Signal]
	quit      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
	dropped   atomic.Int64
}

type startCommand struct {
	seed int64
}

type pressCommand struct {
	pad Pad
}

type abandonCommand struct{}

// NewEngine creates an engine and starts its loop. Zero option fields are
// filled with the package defaults. The caller must Close the engine.
func NewEngine(opts NewEngineOptions) *Engine {
	if opts.ShowInterval <= 0 {
		opts.ShowInterval = DefaultShowInterval
	}
	if opts.IntervalDecay <= 0 || opts.IntervalDecay > 1 {
		opts.IntervalDecay = DefaultIntervalDecay
	}
	if opts.MinInterval <= 0 {
		opts.MinInterval = DefaultMinInterval
	}
	if opts.LitFraction <= 0 || opts.LitFraction >= 1 {
		opts.LitFraction = DefaultLitFraction
	}
	if opts.PressTimeout <= 0 {
		opts.PressTimeout = DefaultPressTimeout
	}
	if opts.ClearedPause <= 0 {
		opts.ClearedPause = DefaultClearedPause
	}
	if opts.PressFlash <= 0 {
		opts.PressFlash = DefaultPressFlash
	}
	if opts.Clock == nil {
		opts.Clock = NewRealClock()
	}
	e := &Engine{
		opts:    opts,
		clock:   opts.Clock,
		cmds:    make(chan any, commandBuffer),
		states:  stream.NewValue(State{}),
		signals: stream.NewStream[Signal](signalBuffer),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go e.run()
	return e
}

// Start begins a new session seeded with seed. The same seed always
// produces the same pad sequence. Start is ignored unless the engine is
// idle or the previous session is over.
func (e *Engine) Start(seed int64) {
	e.send(startCommand{seed: seed})
}

// Press reports the player pressing a pad. Presses are ignored outside
// the listening phase.
func (e *Engine) Press(pad Pad) {
	e.send(pressCommand{pad: pad})
}

// Abandon cancels the running session and returns the engine to idle.
func (e *Engine) Abandon() {
	e.send(abandonCommand{})
}

// State returns the current session snapshot.
func (e *Engine) State() State {
	return e.states.Get()
}

// States returns a subscription that delivers the current state first and
// every later state in order.
func (e *Engine) States() *stream.Subscription[State] {
	return e.states.Subscribe()
}

// Signals returns a subscription to pad light changes.
func (e *Engine) Signals() *stream.Subscription[Signal] {
	return e.signals.Subscribe()
}

// Dropped returns the number of commands discarded because the command
// queue was full.
func (e *Engine) Dropped() int64 {
	return e.dropped.Load()
}

// Close stops the engine loop and closes both streams. The final state
// remains readable through State. Close is idempotent.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		close(e.quit)
		<-e.stopped
		e.states.Close()
		e.signals.Close()
	})
}

func (e *Engine) send(cmd any) {
	select {
	case <-e.quit:
		return
	default:
	}
	select {
	case e.cmds <- cmd:
	default:
		e.dropped.Add(1)
		log.Warn("engine command queue full, dropped %T", cmd)
	}
}

// session is the loop-private state of one game. The phase and flash
// channels are the armed timers; a nil channel blocks forever in the
// select, which is how timers are disarmed.
type session struct {
	state    State
	seq      []Pad
	rng      *rand.Rand
	step     int
	lit      bool
	flashPad Pad
	phase    <-chan time.Time
	flash    <-chan time.Time
}

func (e *Engine) run() {
	defer close(e.stopped)
	var s session
	for {
		select {
		case <-e.quit:
			return
		case cmd := <-e.cmds:
			e.handleCommand(&s, cmd)
		case <-s.phase:
			e.handlePhaseTimeout(&s)
		case <-s.flash:
			s.flash = nil
			e.signals.Publish(Signal{Pad: s.flashPad, Lit: false, Source: SignalPress})
		}
	}
}

func (e *Engine) handleCommand(s *session, cmd any) {
	switch c := cmd.(type) {
	case startCommand:
		e.handleStart(s, c.seed)
	case pressCommand:
		e.handlePress(s, c.pad)
	case abandonCommand:
		e.handleAbandon(s)
	default:
		log.Error("unknown engine command type: %T", cmd)
	}
}

func (e *Engine) handleStart(s *session, seed int64) {
	switch s.state.Phase {
	case PhaseIdle, PhaseGameOver:
	default:
		log.Debug("ignoring start during %s", s.state.Phase)
		return
	}
	*s = session{
		state: State{
			Phase:     PhaseShowing,
			Round:     1,
			Seed:      seed,
			StartedAt: e.clock.Now(),
		},
		rng: rand.New(rand.NewSource(seed)),
	}
	s.seq = append(s.seq, s.nextPad())
	e.publish(s)
	s.phase = e.clock.After(e.stepGap(s.state.Round))
}

func (e *Engine) handlePress(s *session, pad Pad) {
	if pad < 0 || pad >= NumPads {
		log.Debug("ignoring press on invalid pad %d", pad)
		return
	}
	if s.state.Phase != PhaseListening {
		return
	}
	e.flashOn(s, pad)
	if pad != s.seq[s.state.Progress] {
		log.Debug("wrong pad %s, expected %s", pad, s.seq[s.state.Progress])
		e.endSession(s)
		return
	}
	s.state.Progress++
	if s.state.Progress == len(s.seq) {
		s.state.Phase = PhaseCleared
		s.state.Score++
		e.publish(s)
		s.phase = e.clock.After(e.opts.ClearedPause)
		return
	}
	e.publish(s)
	s.phase = e.clock.After(e.opts.PressTimeout)
}

func (e *Engine) handleAbandon(s *session) {
	if s.state.Phase == PhaseIdle {
		return
	}
	if s.flash != nil {
		e.signals.Publish(Signal{Pad: s.flashPad, Lit: false, Source: SignalPress})
	}
	if s.lit {
		e.signals.Publish(Signal{Pad: s.seq[s.step], Lit: false, Source: SignalPlayback})
	}
	*s = session{}
	e.publish(s)
}

func (e *Engine) handlePhaseTimeout(s *session) {
	switch s.state.Phase {
	case PhaseShowing:
		e.advancePlayback(s)
	case PhaseListening:
		log.Debug("press timeout in round %d", s.state.Round)
		e.endSession(s)
	case PhaseCleared:
		e.nextRound(s)
	}
}

// advancePlayback toggles the current playback step's light. Each step is
// lit for LitFraction of the round interval and dark for the rest. After
// the last step the session flips to listening.
func (e *Engine) advancePlayback(s *session) {
	if !s.lit {
		e.signals.Publish(Signal{Pad: s.seq[s.step], Lit: true, Source: SignalPlayback})
		s.lit = true
		s.phase = e.clock.After(e.litDuration(s.state.Round))
		return
	}
	e.signals.Publish(Signal{Pad: s.seq[s.step], Lit: false, Source: SignalPlayback})
	s.lit = false
	s.step++
	if s.step < len(s.seq) {
		s.phase = e.clock.After(e.stepGap(s.state.Round))
		return
	}
	s.step = 0
	s.state.Phase = PhaseListening
	s.state.Progress = 0
	e.publish(s)
	s.phase = e.clock.After(e.opts.PressTimeout)
}

func (e *Engine) nextRound(s *session) {
	s.state.Round++
	s.state.Phase = PhaseShowing
	s.state.Progress = 0
	s.seq = append(s.seq, s.nextPad())
	s.step = 0
	e.publish(s)
	s.phase = e.clock.After(e.stepGap(s.state.Round))
}

func (e *Engine) endSession(s *session) {
	s.state.Phase = PhaseGameOver
	s.state.EndedAt = e.clock.Now()
	s.phase = nil
	e.publish(s)
	log.Debug("session over after %d cleared rounds", s.state.Score)
}

func (e *Engine) flashOn(s *session, pad Pad) {
	if s.flash != nil {
		e.signals.Publish(Signal{Pad: s.flashPad, Lit: false, Source: SignalPress})
	}
	e.signals.Publish(Signal{Pad: pad, Lit: true, Source: SignalPress})
	s.flashPad = pad
	s.flash = e.clock.After(e.opts.PressFlash)
}

func (e *Engine) publish(s *session) {
	e.states.Publish(s.state)
}

// interval is the playback step length for a round. It decays
// geometrically from ShowInterval and never drops below MinInterval.
func (e *Engine) interval(round int) time.Duration {
	d := float64(e.opts.ShowInterval) * math.Pow(e.opts.IntervalDecay, float64(round-1))
	if d < float64(e.opts.MinInterval) {
		return e.opts.MinInterval
	}
	return time.Duration(d)
}

func (e *Engine) litDuration(round int) time.Duration {
	return time.Duration(float64(e.interval(round)) * e.opts.LitFraction)
}

func (e *Engine) stepGap(round int) time.Duration {
	return e.interval(round) - e.litDuration(round)
}

func (s *session) nextPad() Pad {
	return Pad(s.rng.Intn(NumPads))
}
