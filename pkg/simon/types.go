package simon

import "time"

// Pad identifies one of the four board pads.
type Pad int

const (
	PadGreen Pad = iota
	PadRed
	PadYellow
	PadBlue
)

// NumPads is the number of pads on the board.
const NumPads = 4

func (p Pad) String() string {
	switch p {
	case PadGreen:
		return "green"
	case PadRed:
		return "red"
	case PadYellow:
		return "yellow"
	case PadBlue:
		return "blue"
	default:
		return "unknown"
	}
}

// Phase is the stage a session is in.
type Phase int

const (
	// PhaseIdle means no session is running.
	PhaseIdle Phase = iota
	// PhaseShowing means the engine is playing back the sequence.
	PhaseShowing
	// PhaseListening means the engine is waiting for the player to
	// repeat the sequence.
	PhaseListening
	// PhaseCleared is the short pause after a round is repeated
	// correctly, before the next playback starts.
	PhaseCleared
	// PhaseGameOver means the session ended on a wrong press or a press
	// timeout. Abandoning returns to idle instead.
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseShowing:
		return "showing"
	case PhaseListening:
		return "listening"
	case PhaseCleared:
		return "cleared"
	case PhaseGameOver:
		return "gameover"
	default:
		return "unknown"
	}
}

// State is a snapshot of a session. States are immutable values, a new
// one is published on every change.
type State struct {
	Phase Phase
	// Round is the current sequence length, 1-based. Zero when idle.
	Round int
	// Score is the number of rounds cleared so far.
	Score int
	// Progress is how many presses of the current round have been
	// matched while listening.
	Progress int
	// Seed is the sequence seed the session was started with.
	Seed int64
	// StartedAt is when the session started. Zero when idle.
	StartedAt time.Time
	// EndedAt is when the session ended. Zero until game over.
	EndedAt time.Time
}

// SignalSource says what caused a signal.
type SignalSource int

const (
	// SignalPlayback is a pad lit by the engine showing the sequence.
	SignalPlayback SignalSource = iota
	// SignalPress is a pad lit to acknowledge a player press.
	SignalPress
)

func (s SignalSource) String() string {
	switch s {
	case SignalPlayback:
		return "playback"
	case SignalPress:
		return "press"
	default:
		return "unknown"
	}
}

// Signal is a pad lighting up or going dark. The signal stream is a
// complete visual record of a session: rendering it reproduces what the
// player saw.
type Signal struct {
	Pad    Pad
	Lit    bool
	Source SignalSource
}
