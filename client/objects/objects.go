package objects

import (
	"fmt"
)

// GameObject is the highest level interface for game related types. Objects
// form a tree: scenes own a root object and the tree walkers in this package
// drive the lifecycle of everything below it.
type GameObject interface {
	Lifecycle

	GetID() string
	GetZIndex() int
	GetParent() GameObject
	SetParent(parent GameObject)
	AddChild(id string, child GameObject) error
	GetChild(id string) GameObject
	RemoveChild(id string) error
	GetChildren() []GameObject
	RemoveFromParent() error
}

// children indexes child objects by id and keeps insertion order so tree
// walks are deterministic.
type children struct {
	idxIDObjects map[string]GameObject
	ordered      []GameObject
}

func newChildren() *children {
	return &children{
		idxIDObjects: make(map[string]GameObject),
	}
}

func (c *children) Add(id string, child GameObject) {
	c.idxIDObjects[id] = child
	c.ordered = append(c.ordered, child)
}

func (c *children) Get(id string) GameObject {
	return c.idxIDObjects[id]
}

func (c *children) Remove(id string) {
	delete(c.idxIDObjects, id)
	for i, obj := range c.ordered {
		if obj.GetID() == id {
			c.ordered = append(c.ordered[:i], c.ordered[i+1:]...)
			return
		}
	}
}

func (c *children) All() []GameObject {
	return c.ordered
}

// BaseObject implements GameObject with no behavior of its own. Concrete
// objects embed it and override the lifecycle methods they need.
type BaseObject struct {
	id       string
	zIndex   int
	parent   GameObject
	children *children
}

type NewBaseObjectOpts struct {
	// ZIndex orders the object among its siblings under a SortedZIndexObject.
	ZIndex int
}

var _ GameObject = &BaseObject{}

func NewBaseObject(id string, opts *NewBaseObjectOpts) *BaseObject {
	zIndex := 0
	if opts != nil {
		zIndex = opts.ZIndex
	}
	return &BaseObject{
		id:       id,
		zIndex:   zIndex,
		children: newChildren(),
	}
}

func (o *BaseObject) GetID() string {
	return o.id
}

func (o *BaseObject) GetZIndex() int {
	return o.zIndex
}

func (o *BaseObject) GetParent() GameObject {
	return o.parent
}

func (o *BaseObject) SetParent(parent GameObject) {
	o.parent = parent
}

func (o *BaseObject) AddChild(id string, child GameObject) error {
	if o.children.Get(id) != nil {
		return fmt.Errorf("child object with id %s already exists", id)
	}
	if err := InitTree(child); err != nil {
		return fmt.Errorf("failed to initialize child object tree: %v", err)
	}
	o.children.Add(id, child)
	child.SetParent(o)
	return nil
}

func (o *BaseObject) GetChild(id string) GameObject {
	return o.children.Get(id)
}

func (o *BaseObject) RemoveChild(id string) error {
	child := o.children.Get(id)
	if child == nil {
		return fmt.Errorf("child object with id %s does not exist", id)
	}
	if err := DestroyTree(child); err != nil {
		return fmt.Errorf("failed to destroy child object tree: %v", err)
	}
	o.children.Remove(id)
	child.SetParent(nil)
	return nil
}

func (o *BaseObject) GetChildren() []GameObject {
	return o.children.All()
}

func (o *BaseObject) RemoveFromParent() error {
	if o.parent == nil {
		return fmt.Errorf("object %s has no parent", o.id)
	}
	return o.parent.RemoveChild(o.id)
}
