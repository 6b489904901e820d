package objects

import (
	"fmt"
	"sort"
)

// SortedZIndexObject is a container that yields its children in z-index
// order, so lower z-index children update and draw first. Children with
// equal z-index keep their insertion order.
type SortedZIndexObject struct {
	*BaseObject

	sorted []GameObject
}

var _ GameObject = &SortedZIndexObject{}

func NewSortedZIndexObject(id string) *SortedZIndexObject {
	return &SortedZIndexObject{
		BaseObject: NewBaseObject(id, nil),
	}
}

func (o *SortedZIndexObject) AddChild(id string, child GameObject) error {
	if err := o.BaseObject.AddChild(id, child); err != nil {
		return err
	}
	o.sorted = append(o.sorted, child)
	sort.SliceStable(o.sorted, func(i, j int) bool {
		return o.sorted[i].GetZIndex() < o.sorted[j].GetZIndex()
	})
	return nil
}

func (o *SortedZIndexObject) RemoveChild(id string) error {
	if err := o.BaseObject.RemoveChild(id); err != nil {
		return err
	}
	for i, obj := range o.sorted {
		if obj.GetID() == id {
			o.sorted = append(o.sorted[:i], o.sorted[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("child object with id %s missing from sorted order", id)
}

func (o *SortedZIndexObject) GetChildren() []GameObject {
	return o.sorted
}
