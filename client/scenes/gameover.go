package scenes

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/cbodonnell/afterglow/client/board"
	"github.com/cbodonnell/afterglow/client/fonts"
	"github.com/cbodonnell/afterglow/client/objects"
	"github.com/cbodonnell/afterglow/pkg/log"
	"github.com/cbodonnell/afterglow/pkg/replay"
	"github.com/cbodonnell/afterglow/pkg/simon"
	"github.com/cbodonnell/afterglow/pkg/stream"
	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
)

const ghostLoopPause = 1500 * time.Millisecond

// GameOverScene shows the final score next to a looping ghost replay of
// the finished session.
type GameOverScene struct {
	*BaseScene

	state       simon.State
	recording   *replay.Game
	newBest     bool
	note        string
	onPlayAgain func() error
	onMenu      func() error

	ui           *ebitenui.UI
	ghostBoard   *board.Board
	ghost        *replay.Player
	ghostSignals *stream.Subscription[simon.Signal]
	cancelGhost  context.CancelFunc
}

type GameOverSceneOptions struct {
	// State is the final session state.
	State simon.State
	// Recording drives the ghost replay. A nil recording disables it.
	Recording *replay.Game
	// NewBest marks a new personal best score.
	NewBest bool
	// Note is a short line about what happened to the score.
	Note string
	// OnPlayAgain is called when the play again button is pressed.
	OnPlayAgain func() error
	// OnMenu is called when the menu button is pressed.
	OnMenu func() error
}

var _ Scene = &GameOverScene{}

func NewGameOverScene(opts GameOverSceneOptions) (Scene, error) {
	return &GameOverScene{
		BaseScene:   NewBaseScene(objects.NewBaseObject("gameover-root", nil)),
		state:       opts.State,
		recording:   opts.Recording,
		newBest:     opts.NewBest,
		note:        opts.Note,
		onPlayAgain: opts.OnPlayAgain,
		onMenu:      opts.OnMenu,
	}, nil
}

func (s *GameOverScene) Init() error {
	ghostBoard := board.NewBoard("ghost-board", board.NewBoardOptions{
		X:       430,
		Y:       150,
		PadSize: 56,
		Gap:     8,
		ZIndex:  10,
	})
	ghostBoard.SetStatus("Replay")
	if err := s.GetRoot().AddChild("ghost-board", ghostBoard); err != nil {
		return fmt.Errorf("failed to add ghost board: %v", err)
	}
	s.ghostBoard = ghostBoard

	if s.recording != nil && len(s.recording.Events) > 0 {
		s.ghost = replay.NewPlayer(replay.NewPlayerOptions{})
		s.ghostSignals = s.ghost.Signals()
		ctx, cancel := context.WithCancel(context.Background())
		s.cancelGhost = cancel
		go s.loopGhost(ctx)
	}

	s.renderUI()
	return s.BaseScene.Init()
}

// loopGhost replays the recording until the scene is destroyed, with a
// short pause between loops.
func (s *GameOverScene) loopGhost(ctx context.Context) {
	for {
		if err := s.ghost.Play(ctx, s.recording); err != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(ghostLoopPause):
		}
	}
}

func (s *GameOverScene) Destroy() error {
	if s.cancelGhost != nil {
		s.cancelGhost()
	}
	if s.ghost != nil {
		s.ghost.Close()
		s.ghostSignals.Close()
	}
	return s.BaseScene.Destroy()
}

func (s *GameOverScene) renderUI() {
	buttonImage := &widget.ButtonImage{
		Idle:    image.NewNineSliceColor(color.NRGBA{R: 170, G: 170, B: 180, A: 255}),
		Hover:   image.NewNineSliceColor(color.NRGBA{R: 135, G: 135, B: 150, A: 255}),
		Pressed: image.NewNineSliceColor(color.NRGBA{R: 100, G: 100, B: 120, A: 255}),
	}

	fontFace := fonts.TTFNormalFont

	rootContainer := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(14),
			widget.RowLayoutOpts.Padding(widget.Insets{
				Top:    70,
				Left:   60,
				Right:  340,
				Bottom: 40,
			}))),
	)

	rootContainer.AddChild(widget.NewText(
		widget.TextOpts.Text("Game Over", fontFace, color.NRGBA{254, 255, 255, 255}),
		widget.TextOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Position: widget.RowLayoutPositionCenter,
			}),
		),
	))

	rootContainer.AddChild(widget.NewText(
		widget.TextOpts.Text(fmt.Sprintf("%d", s.state.Score), fonts.TTFLargeFont, color.NRGBA{254, 255, 255, 255}),
		widget.TextOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Position: widget.RowLayoutPositionCenter,
			}),
		),
	))

	rootContainer.AddChild(widget.NewText(
		widget.TextOpts.Text("rounds cleared", fonts.TTFSmallFont, color.NRGBA{R: 200, G: 200, B: 200, A: 255}),
		widget.TextOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Position: widget.RowLayoutPositionCenter,
			}),
		),
	))

	if s.newBest {
		rootContainer.AddChild(widget.NewText(
			widget.TextOpts.Text("New best!", fontFace, color.NRGBA{R: 60, G: 255, B: 120, A: 255}),
			widget.TextOpts.WidgetOpts(
				widget.WidgetOpts.LayoutData(widget.RowLayoutData{
					Position: widget.RowLayoutPositionCenter,
				}),
			),
		))
	}

	if s.note != "" {
		rootContainer.AddChild(widget.NewText(
			widget.TextOpts.Text(s.note, fonts.TTFSmallFont, color.NRGBA{R: 200, G: 200, B: 200, A: 255}),
			widget.TextOpts.WidgetOpts(
				widget.WidgetOpts.LayoutData(widget.RowLayoutData{
					Position: widget.RowLayoutPositionCenter,
				}),
			),
		))
	}

	rootContainer.AddChild(widget.NewButton(
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Position: widget.RowLayoutPositionCenter,
				Stretch:  true,
			}),
		),
		widget.ButtonOpts.Image(buttonImage),
		widget.ButtonOpts.Text("Play Again", fontFace, &widget.ButtonTextColor{
			Idle:     color.NRGBA{254, 255, 255, 255},
			Disabled: color.NRGBA{R: 200, G: 200, B: 200, A: 255},
		}),
		widget.ButtonOpts.TextPadding(widget.Insets{
			Left:   30,
			Right:  30,
			Top:    5,
			Bottom: 5,
		}),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if err := s.onPlayAgain(); err != nil {
				log.Error("Failed to restart game: %v", err)
			}
		}),
	))

	rootContainer.AddChild(widget.NewButton(
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Position: widget.RowLayoutPositionCenter,
				Stretch:  true,
			}),
		),
		widget.ButtonOpts.Image(buttonImage),
		widget.ButtonOpts.Text("Menu", fontFace, &widget.ButtonTextColor{
			Idle:     color.NRGBA{254, 255, 255, 255},
			Disabled: color.NRGBA{R: 200, G: 200, B: 200, A: 255},
		}),
		widget.ButtonOpts.TextPadding(widget.Insets{
			Left:   30,
			Right:  30,
			Top:    5,
			Bottom: 5,
		}),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if err := s.onMenu(); err != nil {
				log.Error("Failed to return to menu: %v", err)
			}
		}),
	))

	ui := &ebitenui.UI{
		Container: rootContainer,
	}

	s.ui = ui
}

func (s *GameOverScene) Update() error {
	s.drainGhost()
	s.ui.Update()
	return s.BaseScene.Update()
}

func (s *GameOverScene) drainGhost() {
	if s.ghostSignals == nil {
		return
	}
ghost:
	for {
		select {
		case sig, ok := <-s.ghostSignals.Events():
			if !ok {
				break ghost
			}
			s.ghostBoard.SetLit(sig.Pad, sig.Lit)
		default:
			break ghost
		}
	}
}

func (s *GameOverScene) Draw(screen *ebiten.Image) {
	s.ui.Draw(screen)
	s.BaseScene.Draw(screen)
}
