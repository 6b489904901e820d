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
)

type AuthScene struct {
	*BaseScene

	onSubmit func(email, password string, register bool) error
	onBack   func() error
	ui       *ebitenui.UI
	register bool
	authErr  string
}

type AuthSceneOptions struct {
	// OnSubmit is called with the entered credentials. Register selects
	// between creating an account and signing in to an existing one.
	OnSubmit func(email, password string, register bool) error
	// OnBack is called when the back link is pressed.
	OnBack func() error
}

var _ Scene = &AuthScene{}

func NewAuthScene(opts AuthSceneOptions) (Scene, error) {
	return &AuthScene{
		BaseScene: NewBaseScene(objects.NewBaseObject("auth-root", nil)),
		onSubmit:  opts.OnSubmit,
		onBack:    opts.OnBack,
	}, nil
}

func (s *AuthScene) Init() error {
	s.renderUI()
	return s.BaseScene.Init()
}

func (s *AuthScene) renderUI() {
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
			widget.RowLayoutOpts.Spacing(20),
			widget.RowLayoutOpts.Padding(widget.Insets{
				Top:    150,
				Left:   120,
				Right:  120,
				Bottom: 90,
			}))),
	)

	heading := "Sign In"
	if s.register {
		heading = "Create Account"
	}
	rootContainer.AddChild(widget.NewText(
		widget.TextOpts.Text(heading, fontFace, color.NRGBA{254, 255, 255, 255}),
		widget.TextOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Position: widget.RowLayoutPositionCenter,
			}),
		),
	))

	emailTextInput := widget.NewTextInput(
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
		widget.TextInputOpts.Placeholder("Email"),
	)
	rootContainer.AddChild(emailTextInput)

	passwordTextInput := widget.NewTextInput(
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
		widget.TextInputOpts.Placeholder("Password"),
		widget.TextInputOpts.Secure(true),
	)
	rootContainer.AddChild(passwordTextInput)

	submitHandler := func() {
		email := emailTextInput.GetText()
		password := passwordTextInput.GetText()
		if email == "" || password == "" {
			s.authErr = "Enter an email and password."
			s.renderUI()
			return
		}
		if err := s.onSubmit(email, password, s.register); err != nil {
			log.Error("Failed to authenticate: %v", err)
			if actionableErr, ok := err.(*ui.ActionableError); ok {
				s.authErr = actionableErr.Message
			} else {
				s.authErr = "Authentication failed. Please try again."
			}
			s.renderUI()
		}
	}

	submitText := "Sign In"
	if s.register {
		submitText = "Create Account"
	}
	rootContainer.AddChild(widget.NewButton(
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Position: widget.RowLayoutPositionCenter,
				Stretch:  true,
			}),
		),
		widget.ButtonOpts.Image(buttonImage),
		widget.ButtonOpts.Text(submitText, fontFace, &widget.ButtonTextColor{
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
			submitHandler()
		}),
	))

	toggleText := "Need an account? Create one"
	if s.register {
		toggleText = "Have an account? Sign in"
	}
	rootContainer.AddChild(widget.NewButton(
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Position: widget.RowLayoutPositionCenter,
			}),
		),
		widget.ButtonOpts.Image(linkButtonImage),
		widget.ButtonOpts.Text(toggleText, fonts.TTFSmallFont, &widget.ButtonTextColor{
			Idle:     color.NRGBA{254, 255, 255, 255},
			Disabled: color.NRGBA{R: 200, G: 200, B: 200, A: 255},
		}),
		widget.ButtonOpts.TextPadding(widget.NewInsetsSimple(5)),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			s.register = !s.register
			s.authErr = ""
			s.renderUI()
		}),
	))

	rootContainer.AddChild(widget.NewButton(
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Position: widget.RowLayoutPositionCenter,
			}),
		),
		widget.ButtonOpts.Image(linkButtonImage),
		widget.ButtonOpts.Text("Back", fonts.TTFSmallFont, &widget.ButtonTextColor{
			Idle:     color.NRGBA{254, 255, 255, 255},
			Disabled: color.NRGBA{R: 200, G: 200, B: 200, A: 255},
		}),
		widget.ButtonOpts.TextPadding(widget.NewInsetsSimple(5)),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if err := s.onBack(); err != nil {
				log.Error("Failed to return to menu: %v", err)
			}
		}),
	))

	if s.authErr != "" {
		rootContainer.AddChild(widget.NewText(
			widget.TextOpts.Text(s.authErr, fontFace, color.NRGBA{R: 255, G: 0, B: 0, A: 255}),
			widget.TextOpts.WidgetOpts(
				widget.WidgetOpts.LayoutData(widget.RowLayoutData{
					Position: widget.RowLayoutPositionCenter,
				}),
			),
		))
		s.authErr = ""
	}

	// auto focus the email text input
	emailTextInput.Focus(true)

	// submit from either text input
	emailTextInput.SubmitEvent.AddHandler(func(args interface{}) {
		submitHandler()
	})
	passwordTextInput.SubmitEvent.AddHandler(func(args interface{}) {
		submitHandler()
	})

	ui := &ebitenui.UI{
		Container: rootContainer,
	}

	s.ui = ui
}

func (s *AuthScene) Update() error {
	s.ui.Update()
	return s.BaseScene.Update()
}

func (s *AuthScene) Draw(screen *ebiten.Image) {
	s.ui.Draw(screen)
	s.BaseScene.Draw(screen)
}
