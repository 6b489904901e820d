package simon

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cbodonnell/afterglow/pkg/stream"
)

// fastOptions keeps sessions quick without making timer order flaky. The
// long press flash means a pad stays lit until the next press, so flash
// off signals arrive at deterministic points.
func fastOptions() NewEngineOptions {
	return NewEngineOptions{
		ShowInterval:  20 * time.Millisecond,
		IntervalDecay: 0.9,
		MinInterval:   4 * time.Millisecond,
		LitFraction:   0.5,
		PressTimeout:  2 * time.Second,
		ClearedPause:  5 * time.Millisecond,
		PressFlash:    time.Minute,
	}
}

// expectedSequence derives the pads an engine seeded with seed will pick.
func expectedSequence(seed int64, n int) []Pad {
	rng := rand.New(rand.NewSource(seed))
	out := make([]Pad, n)
	for i := range out {
		out[i] = Pad(rng.Intn(NumPads))
	}
	return out
}

type driver struct {
	t        *testing.T
	engine   *Engine
	states   *stream.Subscription[State]
	signals  *stream.Subscription[Signal]
	flashPad *Pad
}

func newDriver(t *testing.T, opts NewEngineOptions) *driver {
	t.Helper()
	e := NewEngine(opts)
	t.Cleanup(e.Close)
	return &driver{
		t:       t,
		engine:  e,
		states:  e.States(),
		signals: e.Signals(),
	}
}

func (d *driver) nextSignal() Signal {
	d.t.Helper()
	select {
	case sig, ok := <-d.signals.Events():
		require.True(d.t, ok, "signal stream closed")
		return sig
	case <-time.After(2 * time.Second):
		d.t.Fatal("timed out waiting for a signal")
	}
	return Signal{}
}

func (d *driver) waitPhase(want Phase) State {
	d.t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case st, ok := <-d.states.Events():
			require.True(d.t, ok, "state stream closed")
			if st.Phase == want {
				return st
			}
		case <-deadline:
			d.t.Fatalf("timed out waiting for phase %s", want)
		}
	}
}

// readPlayback consumes the on and off signals of one full playback and
// checks them against the expected pads.
func (d *driver) readPlayback(seq []Pad) {
	d.t.Helper()
	for _, pad := range seq {
		require.Equal(d.t, Signal{Pad: pad, Lit: true, Source: SignalPlayback}, d.nextSignal())
		require.Equal(d.t, Signal{Pad: pad, Lit: false, Source: SignalPlayback}, d.nextSignal())
	}
}

// press presses a pad and consumes its acknowledgement signals. A still
// lit previous flash goes dark first.
func (d *driver) press(pad Pad) {
	d.t.Helper()
	d.engine.Press(pad)
	if d.flashPad != nil {
		require.Equal(d.t, Signal{Pad: *d.flashPad, Lit: false, Source: SignalPress}, d.nextSignal())
	}
	require.Equal(d.t, Signal{Pad: pad, Lit: true, Source: SignalPress}, d.nextSignal())
	p := pad
	d.flashPad = &p
}

func (d *driver) clearRound(seq []Pad) State {
	d.t.Helper()
	d.readPlayback(seq)
	d.waitPhase(PhaseListening)
	for _, pad := range seq {
		d.press(pad)
	}
	return d.waitPhase(PhaseCleared)
}

func TestEngineStartsIdle(t *testing.T) {
	t.Parallel()

	e := NewEngine(fastOptions())
	defer e.Close()

	st := e.State()
	require.Equal(t, PhaseIdle, st.Phase)
	require.Zero(t, st.Round)
	require.Zero(t, st.Score)
}

func TestEngineSequenceIsDeterministic(t *testing.T) {
	t.Parallel()

	const seed = 1234
	seq := expectedSequence(seed, 3)

	d := newDriver(t, fastOptions())
	d.engine.Start(seed)

	st := d.waitPhase(PhaseShowing)
	require.Equal(t, 1, st.Round)
	require.Equal(t, int64(seed), st.Seed)
	require.False(t, st.StartedAt.IsZero())

	for round := 1; round <= 3; round++ {
		st = d.clearRound(seq[:round])
		require.Equal(t, round, st.Score)
	}
	require.Zero(t, d.engine.Dropped())
}

func TestEngineWrongPressEndsSession(t *testing.T) {
	t.Parallel()

	const seed = 7
	seq := expectedSequence(seed, 1)
	wrong := Pad((int(seq[0]) + 1) % NumPads)

	d := newDriver(t, fastOptions())
	d.engine.Start(seed)

	d.readPlayback(seq)
	d.waitPhase(PhaseListening)
	d.press(wrong)

	st := d.waitPhase(PhaseGameOver)
	require.Zero(t, st.Score)
	require.False(t, st.EndedAt.IsZero())
}

func TestEnginePressTimeoutEndsSession(t *testing.T) {
	t.Parallel()

	opts := fastOptions()
	opts.PressTimeout = 30 * time.Millisecond

	const seed = 42
	d := newDriver(t, opts)
	d.engine.Start(seed)

	d.readPlayback(expectedSequence(seed, 1))
	d.waitPhase(PhaseListening)

	st := d.waitPhase(PhaseGameOver)
	require.Zero(t, st.Score)
}

func TestEnginePressDuringShowingIsIgnored(t *testing.T) {
	t.Parallel()

	opts := fastOptions()
	opts.ShowInterval = 200 * time.Millisecond

	const seed = 99
	seq := expectedSequence(seed, 1)
	other := Pad((int(seq[0]) + 1) % NumPads)

	d := newDriver(t, opts)
	d.engine.Start(seed)
	d.waitPhase(PhaseShowing)

	d.engine.Press(other)
	d.engine.Press(seq[0])

	// only playback signals arrive, the presses produced none
	st := d.clearRound(seq)
	require.Equal(t, 1, st.Score)
}

func TestEngineStartIgnoredWhileRunning(t *testing.T) {
	t.Parallel()

	d := newDriver(t, fastOptions())
	d.engine.Start(1)
	d.waitPhase(PhaseShowing)

	d.engine.Start(2)

	require.Eventually(t, func() bool {
		return d.engine.State().Seed == 1
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, int64(1), d.engine.State().Seed)
}

func TestEngineAbandonReturnsToIdle(t *testing.T) {
	t.Parallel()

	d := newDriver(t, fastOptions())
	d.engine.Start(5)
	d.waitPhase(PhaseShowing)

	d.engine.Abandon()

	st := d.waitPhase(PhaseIdle)
	require.Zero(t, st.Round)
	require.Zero(t, st.Score)
	require.Zero(t, st.Seed)
}

func TestEngineRestartAfterGameOver(t *testing.T) {
	t.Parallel()

	const seed = 11
	seq := expectedSequence(seed, 1)
	wrong := Pad((int(seq[0]) + 1) % NumPads)

	d := newDriver(t, fastOptions())
	d.engine.Start(seed)
	d.readPlayback(seq)
	d.waitPhase(PhaseListening)
	d.press(wrong)
	d.waitPhase(PhaseGameOver)

	d.engine.Start(seed)
	st := d.waitPhase(PhaseShowing)
	require.Equal(t, 1, st.Round)
	require.Zero(t, st.Score)
}

func TestEngineIntervalDecaysToFloor(t *testing.T) {
	t.Parallel()

	e := NewEngine(NewEngineOptions{
		ShowInterval:  100 * time.Millisecond,
		IntervalDecay: 0.5,
		MinInterval:   30 * time.Millisecond,
	})
	defer e.Close()

	require.Equal(t, 100*time.Millisecond, e.interval(1))
	require.Equal(t, 50*time.Millisecond, e.interval(2))
	require.Equal(t, 30*time.Millisecond, e.interval(3))
	require.Equal(t, 30*time.Millisecond, e.interval(10))
}

func TestEngineCloseClosesStreams(t *testing.T) {
	t.Parallel()

	e := NewEngine(fastOptions())
	states := e.States()
	signals := e.Signals()

	e.Close()
	e.Close()

	for {
		if _, ok := <-states.Events(); !ok {
			break
		}
	}
	_, ok := <-signals.Events()
	require.False(t, ok)

	e.Start(1)
	require.Equal(t, PhaseIdle, e.State().Phase)
}
