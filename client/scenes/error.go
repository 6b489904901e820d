package scenes

import "github.com/cbodonnell/afterglow/client/objects"

// ErrorScene shows a message after something unrecoverable happened and
// waits for the player to head back to the menu.
type ErrorScene struct {
	*BaseScene
}

var _ Scene = &ErrorScene{}

func NewErrorScene(msg string) (Scene, error) {
	overlay := objects.NewTextOverlayObject("overlay-error", objects.NewTextOverlayOptions{
		Text: msg,
		Hint: "Press Enter for the menu",
	})
	return &ErrorScene{
		BaseScene: NewBaseScene(overlay),
	}, nil
}
