package scenes

import (
	"image/color"

	"github.com/cbodonnell/afterglow/client/fonts"
	"github.com/cbodonnell/afterglow/client/objects"
	"github.com/cbodonnell/afterglow/client/ui"
	"github.com/cbodonnell/afterglow/pkg/log"
	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font"
)

type MenuScene struct {
	*BaseScene

	onPlay    func(name string) error
	onDaily   func(name string) error
	onScores  func() error
	onAccount func() error
	signedIn  bool
	ui        *ebitenui.UI
	name      string
	menuErr   string
}

type MenuSceneOptions struct {
	// PlayerName seeds the name input with the last used name.
	PlayerName string
	// SignedIn switches the account link between sign in and sign out.
	SignedIn bool
	// OnPlay is called when the play button is pressed.
	OnPlay func(name string) error
	// OnDaily is called when the daily challenge button is pressed.
	OnDaily func(name string) error
	// OnScores is called when the high scores button is pressed.
	OnScores func() error
	// OnAccount is called when the account link is pressed.
	OnAccount func() error
}

var _ Scene = &MenuScene{}

func NewMenuScene(opts MenuSceneOptions) (Scene, error) {
	return &MenuScene{
		BaseScene: NewBaseScene(objects.NewBaseObject("menu-root", nil)),
		onPlay:    opts.OnPlay,
		onDaily:   opts.OnDaily,
		onScores:  opts.OnScores,
		onAccount: opts.OnAccount,
		signedIn:  opts.SignedIn,
		name:      opts.PlayerName,
	}, nil
}

func (s *MenuScene) Init() error {
	s.renderUI()
	return s.BaseScene.Init()
}

func (s *MenuScene) renderUI() {
	buttonImage := &widget.ButtonImage{
		Idle:    image.NewNineSliceColor(color.NRGBA{R: 170, G: 170, B: 180, A: 255}),
		Hover:   image.NewNineSliceColor(color.NRGBA{R: 135, G: 135, B: 150, A: 255}),
		Pressed: image.NewNineSliceColor(color.NRGBA{R: 100, G: 100, B: 120, A: 255}),
	}

	linkButtonImage := &widget.ButtonImage{
		Idle:    image.NewNineSliceColor(color.NRGBA{R: 0, G: 0, B: 0, A: 0}),
		Hover:   image.NewNineSliceColor(color.NRGBA{R: 0, G: 0, B: 0, A: 0}),
		Pressed: image.NewNineSliceColor(color.NRGBA{R: 0, G: 0, B: 0, A: 0}),
	}

	fontFace := fonts.TTFNormalFont

	rootContainer := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(16),
			widget.RowLayoutOpts.Padding(widget.Insets{
				Top:    60,
				Left:   140,
				Right:  140,
				Bottom: 40,
			}))),
	)

	rootContainer.AddChild(widget.NewText(
		widget.TextOpts.Text("AFTERGLOW", fonts.TTFLargeFont, color.NRGBA{254, 255, 255, 255}),
		widget.TextOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Position: widget.RowLayoutPositionCenter,
			}),
		),
	))

	nameTextInput := widget.NewTextInput(
		widget.TextInputOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Position: widget.RowLayoutPositionCenter,
				Stretch:  true,
			}),
		),
		widget.TextInputOpts.MobileInputMode("text"),
		widget.TextInputOpts.Image(&widget.TextInputImage{
			Idle:     image.NewNineSliceColor(color.NRGBA{R: 100, G: 100, B: 100, A: 255}),
			Disabled: image.NewNineSliceColor(color.NRGBA{R: 100, G: 100, B: 100, A: 255}),
		}),
		widget.TextInputOpts.Face(fontFace),
		widget.TextInputOpts.Color(&widget.TextInputColor{
			Idle:          color.NRGBA{254, 255, 255, 255},
			Disabled:      color.NRGBA{R: 200, G: 200, B: 200, A: 255},
			Caret:         color.NRGBA{254, 255, 255, 255},
			DisabledCaret: color.NRGBA{R: 200, G: 200, B: 200, A: 255},
		}),
		widget.TextInputOpts.Padding(widget.NewInsetsSimple(5)),
		widget.TextInputOpts.CaretOpts(
			widget.CaretOpts.Size(fontFace, 2),
		),
		widget.TextInputOpts.Placeholder("Player Name"),
		widget.TextInputOpts.ChangedHandler(func(args *widget.TextInputChangedEventArgs) {
			s.name = args.InputText
		}),
	)
	nameTextInput.SetText(s.name)
	rootContainer.AddChild(nameTextInput)

	playButton := s.menuButton("Play", buttonImage, fontFace, func() {
		s.startGame(s.onPlay, nameTextInput.GetText())
	})
	rootContainer.AddChild(playButton)

	rootContainer.AddChild(s.menuButton("Daily Challenge", buttonImage, fontFace, func() {
		s.startGame(s.onDaily, nameTextInput.GetText())
	}))

	rootContainer.AddChild(s.menuButton("High Scores", buttonImage, fontFace, func() {
		if err := s.onScores(); err != nil {
			log.Error("Failed to open high scores: %v", err)
			s.setMenuErr(err, "Failed to load high scores.")
		}
		s.renderUI()
	}))

	accountText := "Sign In"
	if s.signedIn {
		accountText = "Sign Out"
	}
	accountContainer := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Stretch: true,
			}),
		),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	accountContainer.AddChild(widget.NewButton(
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionEnd,
			}),
		),
		widget.ButtonOpts.Image(linkButtonImage),
		widget.ButtonOpts.Text(accountText, fonts.TTFSmallFont, &widget.ButtonTextColor{
			Idle:     color.NRGBA{254, 255, 255, 255},
			Disabled: color.NRGBA{R: 200, G: 200, B: 200, A: 255},
		}),
		widget.ButtonOpts.TextPadding(widget.Insets{
			Left:   5,
			Right:  5,
			Top:    5,
			Bottom: 5,
		}),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if err := s.onAccount(); err != nil {
				log.Error("Failed to switch account: %v", err)
				s.setMenuErr(err, "Failed to switch account.")
			}
			s.renderUI()
		}),
	))
	rootContainer.AddChild(accountContainer)

	if s.menuErr != "" {
		rootContainer.AddChild(widget.NewText(
			widget.TextOpts.Text(s.menuErr, fontFace, color.NRGBA{R: 255, G: 0, B: 0, A: 255}),
			widget.TextOpts.WidgetOpts(
				widget.WidgetOpts.LayoutData(widget.RowLayoutData{
					Position: widget.RowLayoutPositionCenter,
				}),
			),
		))
		s.menuErr = ""
	}

	// auto focus the name text input
	nameTextInput.Focus(true)

	// enter in the name input starts a classic game
	nameTextInput.SubmitEvent.AddHandler(func(args interface{}) {
		s.startGame(s.onPlay, nameTextInput.GetText())
	})

	ui := &ebitenui.UI{
		Container: rootContainer,
	}

	s.ui = ui
}

func (s *MenuScene) menuButton(label string, buttonImage *widget.ButtonImage, fontFace font.Face, onClick func()) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Position: widget.RowLayoutPositionCenter,
				Stretch:  true,
			}),
		),
		widget.ButtonOpts.Image(buttonImage),
		widget.ButtonOpts.Text(label, fontFace, &widget.ButtonTextColor{
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
			onClick()
		}),
	)
}

func (s *MenuScene) startGame(start func(name string) error, name string) {
	if name == "" {
		s.menuErr = "Enter a player name first."
		s.renderUI()
		return
	}
	if err := start(name); err != nil {
		log.Error("Failed to start game: %v", err)
		s.setMenuErr(err, "Failed to start. Please try again.")
		s.renderUI()
	}
}

func (s *MenuScene) setMenuErr(err error, fallback string) {
	if actionableErr, ok := err.(*ui.ActionableError); ok {
		s.menuErr = actionableErr.Message
		return
	}
	s.menuErr = fallback
}

func (s *MenuScene) Update() error {
	s.ui.Update()
	return s.BaseScene.Update()
}

func (s *MenuScene) Draw(screen *ebiten.Image) {
	s.ui.Draw(screen)
	s.BaseScene.Draw(screen)
}
