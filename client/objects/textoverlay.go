package objects

import (
	"image/color"
	"strings"

	"github.com/cbodonnell/afterglow/client/fonts"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"
)

// TextOverlayObject draws a line of uppercase text centered on the screen,
// with an optional smaller hint line below it. Used by the lightweight
// scenes (errors, interstitials).
type TextOverlayObject struct {
	*BaseObject

	text string
	hint string
}

type NewTextOverlayOptions struct {
	// Text is the main line, drawn centered in the large font.
	Text string
	// Hint is an optional second line, drawn dimmed in the small font.
	Hint string
}

func NewTextOverlayObject(id string, opts NewTextOverlayOptions) *TextOverlayObject {
	return &TextOverlayObject{
		BaseObject: NewBaseObject(id, nil),
		text:       opts.Text,
		hint:       opts.Hint,
	}
}

func (o *TextOverlayObject) Draw(screen *ebiten.Image) {
	cx := float64(screen.Bounds().Dx()) / 2
	cy := float64(screen.Bounds().Dy()) / 2
	drawCenteredLine(screen, o.text, fonts.TTFLargeFont, cx, cy, color.White)
	if o.hint != "" {
		drawCenteredLine(screen, o.hint, fonts.TTFSmallFont, cx, cy+48, color.RGBA{R: 160, G: 160, B: 160, A: 255})
	}
}

func drawCenteredLine(screen *ebiten.Image, line string, f font.Face, cx, cy float64, clr color.Color) {
	t := strings.ToUpper(line)
	bounds, _ := font.BoundString(f, t)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(cx-float64(bounds.Max.X>>6)/2, cy-float64(bounds.Max.Y>>6)/2)
	op.ColorScale.ScaleWithColor(clr)
	text.DrawWithOptions(screen, t, f, op)
}
