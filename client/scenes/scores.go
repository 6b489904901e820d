package scenes

import (
	"fmt"
	"image/color"

	"github.com/cbodonnell/afterglow/client/fonts"
	"github.com/cbodonnell/afterglow/client/objects"
	"github.com/cbodonnell/afterglow/pkg/log"
	"github.com/cbodonnell/afterglow/pkg/repositories/models"
	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
)

const maxScoreNameLength = 16

// ScoresScene lists a score table, either the server leaderboard or the
// locally saved scores when playing offline.
type ScoresScene struct {
	*BaseScene

	title  string
	scores []*models.Score
	note   string
	onBack func() error
	ui     *ebitenui.UI
}

type ScoresSceneOptions struct {
	// Title is the heading above the table.
	Title string
	// Scores are listed in order, best first.
	Scores []*models.Score
	// Note is a short line under the table.
	Note string
	// OnBack is called when the back button is pressed.
	OnBack func() error
}

var _ Scene = &ScoresScene{}

func NewScoresScene(opts ScoresSceneOptions) (Scene, error) {
	title := opts.Title
	if title == "" {
		title = "High Scores"
	}
	return &ScoresScene{
		BaseScene: NewBaseScene(objects.NewBaseObject("scores-root", nil)),
		title:     title,
		scores:    opts.Scores,
		note:      opts.Note,
		onBack:    opts.OnBack,
	}, nil
}

func (s *ScoresScene) Init() error {
	s.renderUI()
	return s.BaseScene.Init()
}

func (s *ScoresScene) renderUI() {
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
				Top:    40,
				Left:   120,
				Right:  120,
				Bottom: 30,
			}))),
	)

	rootContainer.AddChild(widget.NewText(
		widget.TextOpts.Text(s.title, fontFace, color.NRGBA{254, 255, 255, 255}),
		widget.TextOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Position: widget.RowLayoutPositionCenter,
			}),
		),
	))

	if len(s.scores) == 0 {
		rootContainer.AddChild(widget.NewText(
			widget.TextOpts.Text("No scores yet.", fonts.TTFSmallFont, color.NRGBA{R: 200, G: 200, B: 200, A: 255}),
			widget.TextOpts.WidgetOpts(
				widget.WidgetOpts.LayoutData(widget.RowLayoutData{
					Position: widget.RowLayoutPositionCenter,
				}),
			),
		))
	} else {
		table := widget.NewContainer(
			widget.ContainerOpts.WidgetOpts(
				widget.WidgetOpts.LayoutData(widget.RowLayoutData{
					Position: widget.RowLayoutPositionCenter,
					Stretch:  true,
				}),
			),
			widget.ContainerOpts.Layout(widget.NewGridLayout(
				widget.GridLayoutOpts.Columns(3),
				widget.GridLayoutOpts.Stretch([]bool{false, true, false}, nil),
				widget.GridLayoutOpts.Spacing(24, 6),
			)),
		)
		for i, score := range s.scores {
			name := score.PlayerName
			if len(name) > maxScoreNameLength {
				name = name[:maxScoreNameLength]
			}
			table.AddChild(widget.NewText(
				widget.TextOpts.Text(fmt.Sprintf("%d.", i+1), fonts.TTFSmallFont, color.NRGBA{R: 200, G: 200, B: 200, A: 255}),
			))
			table.AddChild(widget.NewText(
				widget.TextOpts.Text(name, fonts.TTFSmallFont, color.NRGBA{254, 255, 255, 255}),
			))
			table.AddChild(widget.NewText(
				widget.TextOpts.Text(fmt.Sprintf("%d", score.Score), fonts.TTFSmallFont, color.NRGBA{254, 255, 255, 255}),
			))
		}
		rootContainer.AddChild(table)
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
			}),
		),
		widget.ButtonOpts.Image(buttonImage),
		widget.ButtonOpts.Text("Back", fontFace, &widget.ButtonTextColor{
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
			if err := s.onBack(); err != nil {
				log.Error("Failed to return to menu: %v", err)
			}
		}),
	))

	ui := &ebitenui.UI{
		Container: rootContainer,
	}

	s.ui = ui
}

func (s *ScoresScene) Update() error {
	s.ui.Update()
	return s.BaseScene.Update()
}

func (s *ScoresScene) Draw(screen *ebiten.Image) {
	s.ui.Draw(screen)
	s.BaseScene.Draw(screen)
}
