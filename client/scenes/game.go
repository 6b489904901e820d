package scenes

import (
	"fmt"
	"image/color"

	"github.com/cbodonnell/afterglow/client/board"
	"github.com/cbodonnell/afterglow/client/input"
	"github.com/cbodonnell/afterglow/client/objects"
	"github.com/cbodonnell/afterglow/client/sound"
	"github.com/cbodonnell/afterglow/pkg/log"
	"github.com/cbodonnell/afterglow/pkg/replay"
	"github.com/cbodonnell/afterglow/pkg/simon"
	"github.com/cbodonnell/afterglow/pkg/stream"
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	boardZIndex       = 10
	scoreEffectZIndex = 20
	scoreEffectTTL    = 1200
)

// GameScene renders one live session. It forwards pad presses to the
// engine, mirrors the engine's signal stream onto the board and the
// speaker, and records every signal for the ghost replay.
type GameScene struct {
	*BaseScene

	engine     *simon.Engine
	sounds     *sound.Player
	seed       int64
	onGameOver func(st simon.State, recording *replay.Game) error

	board     *board.Board
	recorder  *replay.Recorder
	states    *stream.Subscription[simon.State]
	signals   *stream.Subscription[simon.Signal]
	lastState simon.State
	sawActive bool
	finished  bool
	overTicks int
	effects   int
}

type GameSceneOptions struct {
	Engine *simon.Engine
	Sounds *sound.Player
	// Seed seeds the session's pad sequence.
	Seed int64
	// OnGameOver receives the final state and the recording once the
	// session ends.
	OnGameOver func(st simon.State, recording *replay.Game) error
}

var _ Scene = &GameScene{}

func NewGameScene(opts GameSceneOptions) (Scene, error) {
	return &GameScene{
		BaseScene:  NewBaseScene(objects.NewSortedZIndexObject("game-root")),
		engine:     opts.Engine,
		sounds:     opts.Sounds,
		seed:       opts.Seed,
		onGameOver: opts.OnGameOver,
	}, nil
}

func (s *GameScene) Init() error {
	b := board.NewBoard("board", board.NewBoardOptions{ZIndex: boardZIndex})
	if err := s.GetRoot().AddChild("board", b); err != nil {
		return fmt.Errorf("failed to add board: %v", err)
	}
	s.board = b

	s.states = s.engine.States()
	s.signals = s.engine.Signals()
	s.recorder = replay.NewRecorder(nil)
	s.recorder.Start(s.seed)
	s.engine.Start(s.seed)

	return s.BaseScene.Init()
}

func (s *GameScene) Destroy() error {
	switch s.engine.State().Phase {
	case simon.PhaseShowing, simon.PhaseListening, simon.PhaseCleared:
		s.engine.Abandon()
	}
	s.signals.Close()
	s.states.Close()
	return s.BaseScene.Destroy()
}

func (s *GameScene) Update() error {
	s.handleInput()
	s.drainStreams()
	if err := s.BaseScene.Update(); err != nil {
		return err
	}
	if s.sawActive && s.lastState.Phase == simon.PhaseGameOver && !s.finished {
		// Linger for a beat so the final press flash lands in the
		// recording and the player sees the board go dark.
		s.overTicks++
		if s.overTicks > ebiten.TPS() {
			s.finished = true
			recording := s.recorder.Finish(s.lastState)
			if err := s.onGameOver(s.lastState, recording); err != nil {
				return fmt.Errorf("failed to hand off finished game: %v", err)
			}
		}
	}
	return nil
}

func (s *GameScene) handleInput() {
	if pad, ok := input.JustPressedPadKey(); ok {
		s.engine.Press(pad)
	}
	if x, y, ok := input.JustPressedPosition(); ok {
		if pad, ok := s.board.PadAt(x, y); ok {
			s.engine.Press(pad)
		}
	}
}

func (s *GameScene) drainStreams() {
signals:
	for {
		select {
		case sig, ok := <-s.signals.Events():
			if !ok {
				break signals
			}
			s.handleSignal(sig)
		default:
			break signals
		}
	}
states:
	for {
		select {
		case st, ok := <-s.states.Events():
			if !ok {
				break states
			}
			s.handleState(st)
		default:
			break states
		}
	}
}

func (s *GameScene) handleSignal(sig simon.Signal) {
	s.board.SetLit(sig.Pad, sig.Lit)
	if sig.Lit {
		s.sounds.PlayPad(sig.Pad)
	}
	s.recorder.Record(sig)
}

func (s *GameScene) handleState(st simon.State) {
	if !s.sawActive {
		// The state stream replays its latest value to new subscribers,
		// which can be the previous session's final state. Wait for this
		// session's first playback state.
		if st.Phase != simon.PhaseShowing {
			return
		}
		s.sawActive = true
	}
	if st.Score > s.lastState.Score {
		s.spawnScoreEffect(st.Score - s.lastState.Score)
	}
	if st.Phase == simon.PhaseGameOver && s.lastState.Phase != simon.PhaseGameOver {
		s.sounds.PlayError()
	}
	s.board.SetScore(fmt.Sprintf("Score %d   Round %d", st.Score, st.Round))
	s.board.SetStatus(statusForPhase(st.Phase))
	s.lastState = st
}

func (s *GameScene) spawnScoreEffect(points int) {
	s.effects++
	id := fmt.Sprintf("score-effect-%d", s.effects)
	effect := objects.NewTextEffect(id, objects.NewTextEffectOptions{
		Text:   fmt.Sprintf("+%d", points),
		X:      320,
		Y:      60,
		Color:  color.RGBA{R: 60, G: 255, B: 120, A: 255},
		Scroll: true,
		TTL:    scoreEffectTTL,
		ZIndex: scoreEffectZIndex,
	})
	if err := s.GetRoot().AddChild(id, effect); err != nil {
		log.Error("Failed to add score effect: %v", err)
	}
}

func statusForPhase(phase simon.Phase) string {
	switch phase {
	case simon.PhaseShowing:
		return "Watch"
	case simon.PhaseListening:
		return "Repeat"
	case simon.PhaseCleared:
		return "Cleared!"
	case simon.PhaseGameOver:
		return "Game Over"
	default:
		return ""
	}
}
