package input

import (
	"github.com/cbodonnell/afterglow/pkg/simon"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// padKeys maps keyboard keys to pads. The number row matches the on-screen
// order (green, red, yellow, blue) and the arrow keys mirror the grid.
var padKeys = map[ebiten.Key]simon.Pad{
	ebiten.Key1:     simon.PadGreen,
	ebiten.Key2:     simon.PadRed,
	ebiten.Key3:     simon.PadYellow,
	ebiten.Key4:     simon.PadBlue,
	ebiten.KeyLeft:  simon.PadGreen,
	ebiten.KeyUp:    simon.PadRed,
	ebiten.KeyDown:  simon.PadYellow,
	ebiten.KeyRight: simon.PadBlue,
}

// JustPressedPadKey returns the pad bound to a key pressed this tick.
func JustPressedPadKey() (simon.Pad, bool) {
	for key, pad := range padKeys {
		if inpututil.IsKeyJustPressed(key) {
			return pad, true
		}
	}
	return 0, false
}

// JustPressedPosition returns the screen position of a mouse click or touch
// that started this tick.
func JustPressedPosition() (int, int, bool) {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return x, y, true
	}
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		return x, y, true
	}
	return 0, 0, false
}

// IsPositiveJustPressed returns a boolean value indicating whether the generic positive input is just pressed.
// This is used to handle both keyboard and touch inputs.
func IsPositiveJustPressed() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		return true
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return true
	}
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		return true
	}
	gamepadIDs := ebiten.AppendGamepadIDs(nil)
	for _, g := range gamepadIDs {
		if ebiten.IsStandardGamepadLayoutAvailable(g) {
			if inpututil.IsStandardGamepadButtonJustPressed(g, ebiten.StandardGamepadButtonRightBottom) {
				return true
			}
			if inpututil.IsStandardGamepadButtonJustPressed(g, ebiten.StandardGamepadButtonRightRight) {
				return true
			}
		} else {
			// The button 0/1 might not be A/B buttons.
			if inpututil.IsGamepadButtonJustPressed(g, ebiten.GamepadButton0) {
				return true
			}
			if inpututil.IsGamepadButtonJustPressed(g, ebiten.GamepadButton1) {
				return true
			}
		}
	}
	return false
}

// IsNegativeJustPressed returns a boolean value indicating whether the generic negative input is just pressed.
// This is used to handle both keyboard and touch inputs.
func IsNegativeJustPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}
