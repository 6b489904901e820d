// Package board renders the four game pads and answers pad hit tests.
package board

import (
	"image/color"
	"strings"

	"github.com/cbodonnell/afterglow/client/fonts"
	"github.com/cbodonnell/afterglow/client/objects"
	"github.com/cbodonnell/afterglow/pkg/simon"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/solarlune/resolv"
	"golang.org/x/image/font"
)

const (
	// DefaultPadSize is the side length of one pad in pixels.
	DefaultPadSize = 120
	// DefaultGap is the spacing between pads in pixels.
	DefaultGap = 12
	// DefaultX and DefaultY center the grid on a 640x480 screen.
	DefaultX = 194
	DefaultY = 94

	// flashDecayPerSecond drains a pad's afterglow once its light goes out.
	flashDecayPerSecond = 4.0
)

// padColors maps a pad to its dim and lit fill colors.
var padColors = map[simon.Pad][2]color.RGBA{
	simon.PadGreen:  {{0x00, 0x6e, 0x28, 0xff}, {0x3c, 0xff, 0x78, 0xff}},
	simon.PadRed:    {{0x82, 0x14, 0x14, 0xff}, {0xff, 0x46, 0x46, 0xff}},
	simon.PadYellow: {{0x78, 0x64, 0x00, 0xff}, {0xff, 0xdc, 0x3c, 0xff}},
	simon.PadBlue:   {{0x14, 0x28, 0x82, 0xff}, {0x50, 0x8c, 0xff, 0xff}},
}

// padCells maps a pad to its column and row in the 2x2 grid.
var padCells = map[simon.Pad][2]int{
	simon.PadGreen:  {0, 0},
	simon.PadRed:    {1, 0},
	simon.PadYellow: {0, 1},
	simon.PadBlue:   {1, 1},
}

// PadTag returns the collision space tag for a pad.
func PadTag(pad simon.Pad) string {
	return "pad-" + pad.String()
}

// Board is the game object drawing the pad grid with its score and status
// lines. Pad areas live in a resolv space so pointer input can be resolved
// to a pad.
type Board struct {
	*objects.BaseObject

	x       float64
	y       float64
	padSize float64
	gap     float64

	space      *resolv.Space
	padObjects [simon.NumPads]*resolv.Object

	lit  [simon.NumPads]bool
	glow [simon.NumPads]float64

	score  string
	status string
}

type NewBoardOptions struct {
	// X and Y are the top-left corner of the pad grid in screen coordinates.
	X float64
	Y float64
	// PadSize is the side length of one pad.
	PadSize float64
	// Gap is the spacing between pads.
	Gap float64
	// ZIndex is the z-index of the board.
	ZIndex int
}

var _ objects.GameObject = &Board{}

func NewBoard(id string, opts NewBoardOptions) *Board {
	if opts.PadSize <= 0 {
		opts.PadSize = DefaultPadSize
	}
	if opts.Gap <= 0 {
		opts.Gap = DefaultGap
	}
	if opts.X <= 0 {
		opts.X = DefaultX
	}
	if opts.Y <= 0 {
		opts.Y = DefaultY
	}

	b := &Board{
		BaseObject: objects.NewBaseObject(id, &objects.NewBaseObjectOpts{ZIndex: opts.ZIndex}),
		x:          opts.X,
		y:          opts.Y,
		padSize:    opts.PadSize,
		gap:        opts.Gap,
		space:      resolv.NewSpace(640, 480, 16, 16),
	}

	for pad := simon.Pad(0); pad < simon.NumPads; pad++ {
		px, py := b.padPosition(pad)
		obj := resolv.NewObject(px, py, b.padSize, b.padSize, PadTag(pad))
		b.padObjects[pad] = obj
		b.space.Add(obj)
	}

	return b
}

func (b *Board) padPosition(pad simon.Pad) (float64, float64) {
	cell := padCells[pad]
	return b.x + float64(cell[0])*(b.padSize+b.gap), b.y + float64(cell[1])*(b.padSize+b.gap)
}

// Space returns the collision space holding the pad areas.
func (b *Board) Space() *resolv.Space {
	return b.space
}

// PadAt returns the pad whose area contains the screen point.
func (b *Board) PadAt(x, y int) (simon.Pad, bool) {
	fx, fy := float64(x), float64(y)
	for pad, obj := range b.padObjects {
		if fx < obj.Position.X || fx >= obj.Position.X+obj.Size.X {
			continue
		}
		if fy < obj.Position.Y || fy >= obj.Position.Y+obj.Size.Y {
			continue
		}
		return simon.Pad(pad), true
	}
	return 0, false
}

// SetLit lights or darkens a pad. A pad going dark keeps a short afterglow
// that fades out over the following frames.
func (b *Board) SetLit(pad simon.Pad, lit bool) {
	if pad < 0 || pad >= simon.NumPads {
		return
	}
	b.lit[pad] = lit
	if lit {
		b.glow[pad] = 1
	}
}

// Lit reports whether a pad is currently lit.
func (b *Board) Lit(pad simon.Pad) bool {
	return b.lit[pad]
}

// Reset darkens all pads and clears any remaining afterglow.
func (b *Board) Reset() {
	for pad := range b.lit {
		b.lit[pad] = false
		b.glow[pad] = 0
	}
}

// SetScore sets the text line drawn above the grid.
func (b *Board) SetScore(score string) {
	b.score = score
}

// SetStatus sets the text line drawn below the grid.
func (b *Board) SetStatus(status string) {
	b.status = status
}

func (b *Board) Update() error {
	decay := flashDecayPerSecond / float64(ebiten.TPS())
	for pad := range b.glow {
		if b.lit[pad] {
			continue
		}
		if b.glow[pad] > 0 {
			b.glow[pad] -= decay
			if b.glow[pad] < 0 {
				b.glow[pad] = 0
			}
		}
	}
	return nil
}

func (b *Board) Draw(screen *ebiten.Image) {
	for pad := simon.Pad(0); pad < simon.NumPads; pad++ {
		px, py := b.padPosition(pad)
		colors := padColors[pad]
		fill := colors[0]
		if b.lit[pad] {
			fill = colors[1]
		} else if b.glow[pad] > 0 {
			fill = blend(colors[0], colors[1], b.glow[pad]*0.5)
		}
		vector.DrawFilledRect(screen, float32(px), float32(py), float32(b.padSize), float32(b.padSize), fill, false)
		vector.StrokeRect(screen, float32(px), float32(py), float32(b.padSize), float32(b.padSize), 2, color.RGBA{0x14, 0x14, 0x1e, 0xff}, false)
	}

	centerX := b.x + b.padSize + b.gap/2
	if b.score != "" {
		b.drawCenteredLine(screen, b.score, centerX, b.y-16)
	}
	if b.status != "" {
		gridBottom := b.y + 2*b.padSize + b.gap
		b.drawCenteredLine(screen, b.status, centerX, gridBottom+32)
	}
}

func (b *Board) drawCenteredLine(screen *ebiten.Image, line string, centerX, baselineY float64) {
	t := strings.ToUpper(line)
	f := fonts.MPlusNormalFont
	bounds, _ := font.BoundString(f, t)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(centerX-float64(bounds.Max.X>>6)/2, baselineY)
	op.ColorScale.ScaleWithColor(color.White)
	text.DrawWithOptions(screen, t, f, op)
}

func blend(from, to color.RGBA, f float64) color.RGBA {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	lerp := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*f)
	}
	return color.RGBA{
		R: lerp(from.R, to.R),
		G: lerp(from.G, to.G),
		B: lerp(from.B, to.B),
		A: 0xff,
	}
}
