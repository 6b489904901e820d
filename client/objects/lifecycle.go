package objects

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

type Lifecycle interface {
	// Game flow methods
	Init() error
	Destroy() error
	Update() error
	Draw(screen *ebiten.Image)
}

// BaseObject lifecycle methods are no-ops.

func (o *BaseObject) Init() error {
	return nil
}

func (o *BaseObject) Destroy() error {
	return nil
}

func (o *BaseObject) Update() error {
	return nil
}

func (o *BaseObject) Draw(screen *ebiten.Image) {
}

// InitTree initializes an object, then its children.
func InitTree(obj GameObject) error {
	if err := obj.Init(); err != nil {
		return fmt.Errorf("failed to initialize object %s: %v", obj.GetID(), err)
	}
	for _, child := range snapshotChildren(obj) {
		if err := InitTree(child); err != nil {
			return err
		}
	}
	return nil
}

// UpdateTree updates an object, then its children.
func UpdateTree(obj GameObject) error {
	if err := obj.Update(); err != nil {
		return fmt.Errorf("failed to update object %s: %v", obj.GetID(), err)
	}
	for _, child := range snapshotChildren(obj) {
		if err := UpdateTree(child); err != nil {
			return err
		}
	}
	return nil
}

// DrawTree draws an object, then its children on top of it.
func DrawTree(obj GameObject, screen *ebiten.Image) {
	obj.Draw(screen)
	for _, child := range snapshotChildren(obj) {
		DrawTree(child, screen)
	}
}

// DestroyTree destroys an object's children, then the object itself.
func DestroyTree(obj GameObject) error {
	for _, child := range snapshotChildren(obj) {
		if err := DestroyTree(child); err != nil {
			return err
		}
	}
	if err := obj.Destroy(); err != nil {
		return fmt.Errorf("failed to destroy object %s: %v", obj.GetID(), err)
	}
	return nil
}

// snapshotChildren copies the child list so an object can remove itself from
// its parent mid-walk without the walker skipping a sibling.
func snapshotChildren(obj GameObject) []GameObject {
	current := obj.GetChildren()
	if len(current) == 0 {
		return nil
	}
	return append([]GameObject(nil), current...)
}
